package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	chainDomain "github.com/fd1az/polygon-arb-bot/business/chain/domain"
	marketDomain "github.com/fd1az/polygon-arb-bot/business/market/domain"
	tradingDomain "github.com/fd1az/polygon-arb-bot/business/trading/domain"
	"github.com/fd1az/polygon-arb-bot/internal/asset"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

// fakeTrading records calls and serves canned state.
type fakeTrading struct {
	enabled    bool
	risk       tradingDomain.RiskConfig
	scanReport tradingDomain.CycleReport
	scanErr    error

	setProfit *decimal.Decimal
	setGas    *decimal.Decimal
}

func (f *fakeTrading) Enable() bool {
	if f.enabled {
		return false
	}
	f.enabled = true
	return true
}

func (f *fakeTrading) Disable() bool {
	if !f.enabled {
		return false
	}
	f.enabled = false
	return true
}

func (f *fakeTrading) State() tradingDomain.BotState {
	return tradingDomain.BotState{
		Enabled:       f.enabled,
		Phase:         tradingDomain.PhaseIdle,
		CyclesRun:     7,
		TradesDone:    2,
		Opportunities: 3,
	}
}

func (f *fakeTrading) RiskConfig() tradingDomain.RiskConfig { return f.risk }

func (f *fakeTrading) Pairs() []marketDomain.TokenPair {
	pair, _ := marketDomain.NewTokenPair(asset.WMATIC, asset.USDC)
	return []marketDomain.TokenPair{pair}
}

func (f *fakeTrading) ExecutionKind() tradingDomain.TradeKind { return tradingDomain.TradeSimulated }

func (f *fakeTrading) Scan(context.Context) (tradingDomain.CycleReport, error) {
	return f.scanReport, f.scanErr
}

func (f *fakeTrading) SetMinProfit(v decimal.Decimal) error {
	if err := tradingDomain.ValidateMinProfit(v); err != nil {
		return err
	}
	f.setProfit = &v
	return nil
}

func (f *fakeTrading) SetMaxGas(v decimal.Decimal) error {
	if err := tradingDomain.ValidateMaxGas(v); err != nil {
		return err
	}
	f.setGas = &v
	return nil
}

func (f *fakeTrading) SetSlippage(v decimal.Decimal) error {
	return tradingDomain.ValidateSlippage(v)
}

type fakeChain struct {
	sheet      chainDomain.BalanceSheet
	balanceErr error
	gasErr     error
}

func (f *fakeChain) GasPrice(context.Context) (chainDomain.GasPrice, error) {
	if f.gasErr != nil {
		return chainDomain.GasPrice{}, f.gasErr
	}
	return chainDomain.NewGasPriceFromGwei(decimal.RequireFromString("32")), nil
}

func (f *fakeChain) Balances(context.Context) (chainDomain.BalanceSheet, error) {
	return f.sheet, f.balanceErr
}

func (f *fakeChain) ConnectionStatus() chainDomain.ConnectionStatus {
	return chainDomain.ConnectionStatus{
		State:     chainDomain.StateConnected,
		LastBlock: 52_001_337,
	}
}

func newTestHandler(trading *fakeTrading, chain *fakeChain) *Handler {
	if trading.risk.ScanInterval == 0 {
		trading.risk = tradingDomain.RiskConfig{
			MinProfitUSD:    decimal.RequireFromString("5"),
			MaxGasPriceGwei: decimal.RequireFromString("50"),
			SlippagePercent: decimal.RequireFromString("0.5"),
			Notional:        decimal.RequireFromString("100"),
			ScanInterval:    30 * time.Second,
		}
	}
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	return NewHandler(trading, chain, log)
}

func TestHandler_StartStop(t *testing.T) {
	trading := &fakeTrading{}
	h := newTestHandler(trading, &fakeChain{})
	ctx := context.Background()

	reply := h.HandleLine(ctx, "startbot")
	if !strings.Contains(reply, "started") {
		t.Errorf("startbot reply %q should confirm the start", reply)
	}
	if !trading.enabled {
		t.Error("startbot should enable the bot")
	}

	reply = h.HandleLine(ctx, "startbot")
	if !strings.Contains(reply, "already") {
		t.Errorf("second startbot reply %q should say already running", reply)
	}

	reply = h.HandleLine(ctx, "stopbot")
	if !strings.Contains(reply, "stopped") {
		t.Errorf("stopbot reply %q should confirm the stop", reply)
	}
	if trading.enabled {
		t.Error("stopbot should disable the bot")
	}
}

func TestHandler_Status(t *testing.T) {
	native, _ := asset.ParseDecimal(asset.MATIC, decimal.RequireFromString("12.5"))
	chain := &fakeChain{
		sheet: chainDomain.BalanceSheet{
			Balances: []chainDomain.Balance{{Asset: asset.MATIC, Amount: native}},
		},
	}
	h := newTestHandler(&fakeTrading{enabled: true}, chain)

	reply := h.HandleLine(context.Background(), "status")
	wants := []string{
		"running", "cycles: 7", "trades: 2",
		"min profit $5.00", "max gas 50.0 gwei", "slippage 0.50%",
		"gas: 32.0 gwei",
		"wallet: 12.5000 MATIC",
		"connected", "#52001337",
	}
	for _, want := range wants {
		if !strings.Contains(reply, want) {
			t.Errorf("status reply missing %q:\n%s", want, reply)
		}
	}
}

func TestHandler_Status_WithoutWallet(t *testing.T) {
	h := newTestHandler(&fakeTrading{}, &fakeChain{})

	reply := h.HandleLine(context.Background(), "status")
	if !strings.Contains(reply, "wallet: not configured") {
		t.Errorf("status reply should report wallet absence:\n%s", reply)
	}
}

func TestHandler_Status_ChainReadFailuresAreInline(t *testing.T) {
	chain := &fakeChain{
		gasErr:     errors.New("rpc timeout"),
		balanceErr: errors.New("node down"),
	}
	h := newTestHandler(&fakeTrading{}, chain)

	reply := h.HandleLine(context.Background(), "status")
	if !strings.Contains(reply, "gas: unavailable") {
		t.Errorf("gas failure should be reported inline:\n%s", reply)
	}
	if !strings.Contains(reply, "node down") {
		t.Errorf("balance failure should be reported inline:\n%s", reply)
	}
	// the command itself still succeeds and reports bot state
	if !strings.Contains(reply, "stopped") {
		t.Errorf("bot state should still be present:\n%s", reply)
	}
}

func TestHandler_Config(t *testing.T) {
	h := newTestHandler(&fakeTrading{}, &fakeChain{})

	reply := h.HandleLine(context.Background(), "config")
	for _, want := range []string{"WMATIC-USDC", "$5.00", "50.0 gwei", "0.50%", "30s", "simulated"} {
		if !strings.Contains(reply, want) {
			t.Errorf("config reply missing %q:\n%s", want, reply)
		}
	}
}

func TestHandler_SetCommands(t *testing.T) {
	trading := &fakeTrading{}
	h := newTestHandler(trading, &fakeChain{})
	ctx := context.Background()

	if reply := h.HandleLine(ctx, "setprofit 10"); !strings.Contains(reply, "10.00") {
		t.Errorf("setprofit reply %q should echo the value", reply)
	}
	if trading.setProfit == nil || trading.setProfit.String() != "10" {
		t.Error("setprofit did not reach the controller")
	}

	if reply := h.HandleLine(ctx, "setgas 60"); !strings.Contains(reply, "60.0") {
		t.Errorf("setgas reply %q should echo the value", reply)
	}

	// invalid values come back as a rejection reply, not a crash
	if reply := h.HandleLine(ctx, "setslippage 11"); !strings.HasPrefix(reply, "rejected:") {
		t.Errorf("setslippage 11 reply %q should be a rejection", reply)
	}
	if reply := h.HandleLine(ctx, "setprofit -3"); !strings.HasPrefix(reply, "rejected:") {
		t.Errorf("setprofit -3 reply %q should be a rejection", reply)
	}
}

func TestHandler_Balance(t *testing.T) {
	stale, _ := asset.ParseDecimal(asset.WMATIC, decimal.RequireFromString("12.5"))
	fresh, _ := asset.ParseDecimal(asset.USDC, decimal.RequireFromString("250"))

	chain := &fakeChain{
		sheet: chainDomain.BalanceSheet{
			Balances: []chainDomain.Balance{
				{Asset: asset.USDC, Amount: fresh},
				{Asset: asset.WMATIC, Amount: stale, Stale: true},
			},
		},
	}
	h := newTestHandler(&fakeTrading{}, chain)

	reply := h.HandleLine(context.Background(), "balance")
	if !strings.Contains(reply, "USDC") || !strings.Contains(reply, "250.0000") {
		t.Errorf("balance reply missing USDC line:\n%s", reply)
	}
	if !strings.Contains(reply, "(stale)") {
		t.Errorf("stale balance should be marked:\n%s", reply)
	}
}

func TestHandler_BalanceFailure(t *testing.T) {
	chain := &fakeChain{balanceErr: errors.New("node down")}
	h := newTestHandler(&fakeTrading{}, chain)

	reply := h.HandleLine(context.Background(), "balance")
	if !strings.Contains(reply, "node down") {
		t.Errorf("balance failure reply %q should carry the cause", reply)
	}
}

func TestHandler_UnknownCommandIsAReply(t *testing.T) {
	h := newTestHandler(&fakeTrading{}, &fakeChain{})

	reply := h.HandleLine(context.Background(), "selfdestruct")
	if !strings.HasPrefix(reply, "error:") {
		t.Errorf("unknown command reply %q should start with error:", reply)
	}
}

func TestHandler_Help(t *testing.T) {
	h := newTestHandler(&fakeTrading{}, &fakeChain{})

	reply := h.HandleLine(context.Background(), "help")
	for _, cmd := range []string{"status", "scan", "startbot", "stopbot", "config", "setprofit", "setgas", "setslippage", "balance"} {
		if !strings.Contains(reply, cmd) {
			t.Errorf("help is missing %q", cmd)
		}
	}
}
