package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/polygon-arb-bot/business/trading/domain"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

// Executor turns approved opportunities into trades via the configured
// backend. A backend error never escapes as a Go error; it is folded
// into a failed TradeOutcome so the cycle keeps running.
type Executor struct {
	backend TradeBackend
	logger  logger.LoggerInterface
}

// NewExecutor creates an Executor.
func NewExecutor(backend TradeBackend, log logger.LoggerInterface) *Executor {
	return &Executor{
		backend: backend,
		logger:  log,
	}
}

// Kind reports what kind of trades this executor places.
func (e *Executor) Kind() domain.TradeKind {
	return e.backend.Kind()
}

// Execute places the trade and returns the outcome.
func (e *Executor) Execute(ctx context.Context, opp domain.Opportunity, slippage, costUSD decimal.Decimal) domain.TradeOutcome {
	start := time.Now()

	outcome, err := e.backend.Submit(ctx, TradeRequest{
		Opportunity:      opp,
		SlippagePercent:  slippage,
		EstimatedCostUSD: costUSD,
	})
	if err != nil {
		e.logger.Error(ctx, "trade submission failed",
			"opportunity", opp.ID,
			"error", err)
		return domain.TradeOutcome{
			Kind:        e.backend.Kind(),
			Opportunity: opp,
			Success:     false,
			FailureMsg:  err.Error(),
			ExecutedAt:  start,
			Duration:    time.Since(start),
		}
	}

	if outcome.Success {
		e.logger.Info(ctx, "trade executed",
			"kind", outcome.Kind,
			"tx", outcome.TxHash,
			"net_profit", outcome.NetProfit.StringFixed(2),
			"duration", outcome.Duration)
	} else {
		e.logger.Warn(ctx, "trade failed",
			"kind", outcome.Kind,
			"reason", outcome.FailureMsg)
	}

	return outcome
}
