package app

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	chainDomain "github.com/fd1az/polygon-arb-bot/business/chain/domain"
	"github.com/fd1az/polygon-arb-bot/business/trading/domain"
	"github.com/fd1az/polygon-arb-bot/internal/apperror"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

// GuardInputs are the collaborator readings guard decisions are made
// from. The controller collects them once per cycle, so every
// opportunity in that cycle is judged against the same market state.
type GuardInputs struct {
	GasPrice chainDomain.GasPrice
	Balances *chainDomain.BalanceSheet // nil when no wallet is configured
	CostUSD  decimal.Decimal           // estimated execution cost
}

// Guard fetches the readings Evaluate needs. The evaluation itself is
// the pure function below; Guard only talks to collaborators.
type Guard struct {
	gas    GasPricer
	wallet BalanceReader // nil when no wallet is configured
	costs  CostEstimator
	logger logger.LoggerInterface
}

// NewGuard creates a Guard. wallet may be nil for read-only deployments;
// the balance check is then skipped.
func NewGuard(gas GasPricer, wallet BalanceReader, costs CostEstimator, log logger.LoggerInterface) *Guard {
	return &Guard{
		gas:    gas,
		wallet: wallet,
		costs:  costs,
		logger: log,
	}
}

// Inputs collects the per-cycle readings. Any failure means the cycle
// cannot be judged safely; the caller skips execution for the cycle and
// reports the error.
func (g *Guard) Inputs(ctx context.Context) (GuardInputs, error) {
	gasPrice, err := g.gas.GasPrice(ctx)
	if err != nil {
		g.logger.Warn(ctx, "guard: gas price unavailable", "error", err)
		return GuardInputs{}, apperror.Wrap(err, apperror.CodeGasPriceUnavailable, "guard inputs")
	}

	in := GuardInputs{GasPrice: gasPrice}

	if g.wallet != nil {
		sheet, err := g.wallet.Balances(ctx)
		if err != nil {
			g.logger.Warn(ctx, "guard: balance snapshot failed", "error", err)
			return GuardInputs{}, apperror.Wrap(err, apperror.CodeBalanceFetchFailed, "guard inputs")
		}
		in.Balances = &sheet
	}

	costUSD, err := g.costs.TradeCostUSD(ctx, gasPrice)
	if err != nil {
		g.logger.Warn(ctx, "guard: cost estimate failed", "error", err)
		return GuardInputs{}, err
	}
	in.CostUSD = costUSD

	return in, nil
}

// Evaluate applies the risk limits to one opportunity. The checks run
// in a fixed order, cheapest first: gas ceiling, then balance, then net
// profit. The first failure wins; later checks are not evaluated.
func Evaluate(opp domain.Opportunity, in GuardInputs, risk domain.RiskConfig) domain.GuardDecision {
	// 1. Gas ceiling
	if in.GasPrice.Gwei.GreaterThan(risk.MaxGasPriceGwei) {
		detail := fmt.Sprintf("gas %s gwei exceeds ceiling %s gwei",
			in.GasPrice.Gwei.StringFixed(1), risk.MaxGasPriceGwei.StringFixed(1))
		return domain.Reject(domain.ReasonGasTooHigh, detail)
	}

	// 2. Balance covers the buy leg, which spends Notional base tokens
	if in.Balances != nil {
		baseSymbol := opp.Pair.Base.Symbol()
		have := decimal.Zero
		if bal, ok := in.Balances.Get(baseSymbol); ok {
			have = bal.Amount.ToDecimal()
		}
		if have.LessThan(opp.Notional) {
			detail := fmt.Sprintf("need %s %s, have %s",
				opp.Notional.StringFixed(2), baseSymbol, have.StringFixed(2))
			return domain.Reject(domain.ReasonInsufficientBalance, detail)
		}
	}

	// 3. Still profitable after execution costs
	netProfit := opp.GrossProfit.Sub(in.CostUSD)
	if !netProfit.IsPositive() {
		detail := fmt.Sprintf("gross %s - costs %s leaves %s",
			opp.GrossProfit.StringFixed(2), in.CostUSD.StringFixed(2), netProfit.StringFixed(2))
		return domain.Reject(domain.ReasonUnprofitable, detail)
	}

	return domain.Approve(in.GasPrice.Gwei, in.CostUSD, netProfit)
}
