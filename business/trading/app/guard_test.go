package app

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	chainDomain "github.com/fd1az/polygon-arb-bot/business/chain/domain"
	"github.com/fd1az/polygon-arb-bot/business/trading/domain"
	"github.com/fd1az/polygon-arb-bot/internal/asset"
)

type stubGasPricer struct {
	gwei string
	err  error
}

func (s stubGasPricer) GasPrice(context.Context) (chainDomain.GasPrice, error) {
	if s.err != nil {
		return chainDomain.GasPrice{}, s.err
	}
	return chainDomain.NewGasPriceFromGwei(decimal.RequireFromString(s.gwei)), nil
}

type stubBalances struct {
	wmatic string
	usdc   string
	err    error
}

func (s stubBalances) Balances(context.Context) (chainDomain.BalanceSheet, error) {
	if s.err != nil {
		return chainDomain.BalanceSheet{}, s.err
	}
	var balances []chainDomain.Balance
	if s.wmatic != "" {
		amt, _ := asset.ParseDecimal(asset.WMATIC, decimal.RequireFromString(s.wmatic))
		balances = append(balances, chainDomain.Balance{Asset: asset.WMATIC, Amount: amt})
	}
	if s.usdc != "" {
		amt, _ := asset.ParseDecimal(asset.USDC, decimal.RequireFromString(s.usdc))
		balances = append(balances, chainDomain.Balance{Asset: asset.USDC, Amount: amt})
	}
	return chainDomain.BalanceSheet{Balances: balances}, nil
}

type stubCosts struct {
	usd string
	err error
}

func (s stubCosts) TradeCostUSD(context.Context, chainDomain.GasPrice) (decimal.Decimal, error) {
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return decimal.RequireFromString(s.usd), nil
}

func testOpportunity(t *testing.T, buyPrice, sellPrice, notional string) domain.Opportunity {
	t.Helper()
	pair := testPair(t)
	buy := makeQuote("SushiSwap", pair, buyPrice)
	sell := makeQuote("QuickSwap", pair, sellPrice)
	return domain.NewOpportunity(pair, buy, sell, decimal.RequireFromString(notional))
}

func testRisk(maxGasGwei string) domain.RiskConfig {
	return domain.RiskConfig{
		MinProfitUSD:    decimal.RequireFromString("1"),
		MaxGasPriceGwei: decimal.RequireFromString(maxGasGwei),
		SlippagePercent: decimal.RequireFromString("0.5"),
		Notional:        decimal.RequireFromString("100"),
	}
}

func gasGwei(t *testing.T, gwei string) chainDomain.GasPrice {
	t.Helper()
	return chainDomain.NewGasPriceFromGwei(decimal.RequireFromString(gwei))
}

func sheetWith(t *testing.T, wmatic, usdc string) *chainDomain.BalanceSheet {
	t.Helper()
	sheet, err := stubBalances{wmatic: wmatic, usdc: usdc}.Balances(context.Background())
	if err != nil {
		t.Fatalf("sheet: %v", err)
	}
	return &sheet
}

func TestEvaluate(t *testing.T) {
	// gross = (0.86 - 0.84) * 100 = 2.00, buy leg spends 100 WMATIC
	opp := testOpportunity(t, "0.84", "0.86", "100")

	tests := []struct {
		name       string
		inputs     GuardInputs
		risk       domain.RiskConfig
		wantOK     bool
		wantReason domain.RejectReason
		wantNet    string
	}{
		{
			name: "approved_with_headroom",
			inputs: GuardInputs{
				GasPrice: gasGwei(t, "30"),
				Balances: sheetWith(t, "1000", "1000"),
				CostUSD:  decimal.RequireFromString("0.5"),
			},
			risk:    testRisk("50"),
			wantOK:  true,
			wantNet: "1.50",
		},
		{
			name: "gas_above_ceiling",
			inputs: GuardInputs{
				GasPrice: gasGwei(t, "80"),
				Balances: sheetWith(t, "1000", "1000"),
				CostUSD:  decimal.RequireFromString("0.5"),
			},
			risk:       testRisk("50"),
			wantOK:     false,
			wantReason: domain.ReasonGasTooHigh,
		},
		{
			name: "base_balance_below_notional",
			inputs: GuardInputs{
				GasPrice: gasGwei(t, "30"),
				Balances: sheetWith(t, "60", "1000"), // need 100 WMATIC
				CostUSD:  decimal.RequireFromString("0.5"),
			},
			risk:       testRisk("50"),
			wantOK:     false,
			wantReason: domain.ReasonInsufficientBalance,
		},
		{
			name: "base_token_missing_from_sheet",
			inputs: GuardInputs{
				GasPrice: gasGwei(t, "30"),
				Balances: sheetWith(t, "", "1000"),
				CostUSD:  decimal.RequireFromString("0.5"),
			},
			risk:       testRisk("50"),
			wantOK:     false,
			wantReason: domain.ReasonInsufficientBalance,
		},
		{
			name: "ample_base_with_empty_quote_balance",
			inputs: GuardInputs{
				GasPrice: gasGwei(t, "30"),
				Balances: sheetWith(t, "1000", "0"),
				CostUSD:  decimal.RequireFromString("0.5"),
			},
			risk:    testRisk("50"),
			wantOK:  true,
			wantNet: "1.50",
		},
		{
			name: "costs_eat_the_whole_spread",
			inputs: GuardInputs{
				GasPrice: gasGwei(t, "30"),
				Balances: sheetWith(t, "1000", "1000"),
				CostUSD:  decimal.RequireFromString("2"), // net exactly zero, not positive
			},
			risk:       testRisk("50"),
			wantOK:     false,
			wantReason: domain.ReasonUnprofitable,
		},
		{
			name: "nil_sheet_skips_balance_check",
			inputs: GuardInputs{
				GasPrice: gasGwei(t, "30"),
				Balances: nil,
				CostUSD:  decimal.RequireFromString("0.5"),
			},
			risk:    testRisk("50"),
			wantOK:  true,
			wantNet: "1.50",
		},
		{
			name: "gas_check_runs_before_balance_check",
			inputs: GuardInputs{
				GasPrice: gasGwei(t, "80"),
				Balances: sheetWith(t, "0", "0"),
				CostUSD:  decimal.RequireFromString("0.5"),
			},
			risk:       testRisk("50"),
			wantOK:     false,
			wantReason: domain.ReasonGasTooHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Evaluate(opp, tt.inputs, tt.risk)

			if decision.Approved != tt.wantOK {
				t.Fatalf("approved = %v, want %v (reason %s: %s)",
					decision.Approved, tt.wantOK, decision.Reason, decision.Detail)
			}
			if !tt.wantOK && decision.Reason != tt.wantReason {
				t.Errorf("reason = %s, want %s", decision.Reason, tt.wantReason)
			}
			if tt.wantOK && decision.NetProfit.StringFixed(2) != tt.wantNet {
				t.Errorf("net profit = %s, want %s", decision.NetProfit.StringFixed(2), tt.wantNet)
			}
		})
	}
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	opp := testOpportunity(t, "0.84", "0.86", "100")
	inputs := GuardInputs{
		GasPrice: gasGwei(t, "30"),
		Balances: sheetWith(t, "1000", "0"),
		CostUSD:  decimal.RequireFromString("0.5"),
	}

	first := Evaluate(opp, inputs, testRisk("50"))
	for i := 0; i < 3; i++ {
		got := Evaluate(opp, inputs, testRisk("50"))
		if got.Approved != first.Approved || got.Reason != first.Reason ||
			got.Detail != first.Detail || !got.NetProfit.Equal(first.NetProfit) {
			t.Fatalf("decision changed between identical calls: %+v vs %+v", got, first)
		}
	}
}

func TestEvaluate_BalanceDetailNamesBaseToken(t *testing.T) {
	opp := testOpportunity(t, "0.84", "0.86", "100")
	inputs := GuardInputs{
		GasPrice: gasGwei(t, "30"),
		Balances: sheetWith(t, "60", "1000"),
		CostUSD:  decimal.RequireFromString("0.5"),
	}

	decision := Evaluate(opp, inputs, testRisk("50"))
	if decision.Approved {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(decision.Detail, "WMATIC") || !strings.Contains(decision.Detail, "100") {
		t.Errorf("detail %q should name the base token and the required size", decision.Detail)
	}
}

func TestEvaluate_GasCeilingDetailNamesBothValues(t *testing.T) {
	opp := testOpportunity(t, "0.84", "0.86", "100")
	inputs := GuardInputs{GasPrice: gasGwei(t, "80"), CostUSD: decimal.RequireFromString("0.5")}

	decision := Evaluate(opp, inputs, testRisk("50"))
	if decision.Approved {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(decision.Detail, "80") || !strings.Contains(decision.Detail, "50") {
		t.Errorf("detail %q should mention observed and ceiling gas", decision.Detail)
	}
}

func TestGuard_Inputs(t *testing.T) {
	tests := []struct {
		name    string
		gas     GasPricer
		wallet  BalanceReader
		costs   CostEstimator
		wantErr bool
		check   func(*testing.T, GuardInputs)
	}{
		{
			name:   "all_readings_collected",
			gas:    stubGasPricer{gwei: "30"},
			wallet: stubBalances{wmatic: "1000"},
			costs:  stubCosts{usd: "0.5"},
			check: func(t *testing.T, in GuardInputs) {
				if in.GasPrice.Gwei.StringFixed(0) != "30" {
					t.Errorf("gas = %s, want 30", in.GasPrice.Gwei)
				}
				if in.Balances == nil {
					t.Fatal("expected a balance sheet")
				}
				if in.CostUSD.StringFixed(1) != "0.5" {
					t.Errorf("cost = %s, want 0.5", in.CostUSD)
				}
			},
		},
		{
			name:   "nil_wallet_leaves_balances_nil",
			gas:    stubGasPricer{gwei: "30"},
			wallet: nil,
			costs:  stubCosts{usd: "0.5"},
			check: func(t *testing.T, in GuardInputs) {
				if in.Balances != nil {
					t.Error("balances should be nil without a wallet")
				}
			},
		},
		{
			name:    "gas_oracle_down",
			gas:     stubGasPricer{err: errors.New("rpc timeout")},
			wallet:  stubBalances{wmatic: "1000"},
			costs:   stubCosts{usd: "0.5"},
			wantErr: true,
		},
		{
			name:    "balance_lookup_fails",
			gas:     stubGasPricer{gwei: "30"},
			wallet:  stubBalances{err: errors.New("node down")},
			costs:   stubCosts{usd: "0.5"},
			wantErr: true,
		},
		{
			name:    "cost_estimate_fails",
			gas:     stubGasPricer{gwei: "30"},
			wallet:  stubBalances{wmatic: "1000"},
			costs:   stubCosts{err: errors.New("no native price")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := NewGuard(tt.gas, tt.wallet, tt.costs, testLogger())
			in, err := guard.Inputs(context.Background())

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, in)
			}
		})
	}
}

func TestGasPrice_CostNative(t *testing.T) {
	// 250k gas at 50 gwei = 0.0125 native tokens
	gp := chainDomain.NewGasPrice(new(big.Int).Mul(big.NewInt(50), big.NewInt(1_000_000_000)))
	if got := gp.CostNative(250_000).String(); got != "0.0125" {
		t.Errorf("cost native = %s, want 0.0125", got)
	}
}
