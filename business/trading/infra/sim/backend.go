// Package sim provides a trade backend that fills every order on paper.
// No transaction is signed or broadcast; the backend fabricates a tx
// hash and reports the profit the opportunity promised, minus estimated
// costs. Useful for running the full pipeline against live quotes
// without a funded wallet.
package sim

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/polygon-arb-bot/business/trading/app"
	"github.com/fd1az/polygon-arb-bot/business/trading/domain"
	"github.com/fd1az/polygon-arb-bot/internal/apperror"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

const (
	tracerName = "github.com/fd1az/polygon-arb-bot/business/trading/infra/sim"
	meterName  = "github.com/fd1az/polygon-arb-bot/business/trading/infra/sim"

	// defaultFillDelay mimics block inclusion time on Polygon.
	defaultFillDelay = 2 * time.Second
)

var _ app.TradeBackend = (*Backend)(nil)

// Backend simulates trade execution.
type Backend struct {
	fillDelay time.Duration
	logger    logger.LoggerInterface

	tracer  trace.Tracer
	metrics *backendMetrics
}

type backendMetrics struct {
	trades    metric.Int64Counter
	netProfit metric.Float64Counter
}

// New creates a simulated backend. fillDelay <= 0 uses the default.
func New(fillDelay time.Duration, log logger.LoggerInterface) *Backend {
	if fillDelay <= 0 {
		fillDelay = defaultFillDelay
	}
	b := &Backend{
		fillDelay: fillDelay,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}
	b.initMetrics()
	return b
}

func (b *Backend) initMetrics() {
	meter := otel.Meter(meterName)
	m := &backendMetrics{}
	var err error

	m.trades, err = meter.Int64Counter("sim.trades",
		metric.WithDescription("Simulated trades placed"))
	if err != nil {
		b.logger.Warn(context.Background(), "failed to create trades counter", "error", err)
	}

	m.netProfit, err = meter.Float64Counter("sim.net_profit_usd",
		metric.WithDescription("Cumulative simulated net profit in USD"))
	if err != nil {
		b.logger.Warn(context.Background(), "failed to create net profit counter", "error", err)
	}

	b.metrics = m
}

// Kind reports that trades from this backend are simulated.
func (b *Backend) Kind() domain.TradeKind {
	return domain.TradeSimulated
}

// Submit fills the trade on paper after the configured delay. Cancelling
// the context before the fill aborts the trade.
func (b *Backend) Submit(ctx context.Context, req app.TradeRequest) (domain.TradeOutcome, error) {
	ctx, span := b.tracer.Start(ctx, "sim.Submit")
	defer span.End()

	start := time.Now()

	select {
	case <-time.After(b.fillDelay):
	case <-ctx.Done():
		return domain.TradeOutcome{}, apperror.Wrap(ctx.Err(), apperror.CodeTradeSubmitFailed,
			"simulated fill interrupted")
	}

	txHash, err := fakeTxHash()
	if err != nil {
		return domain.TradeOutcome{}, apperror.Wrap(err, apperror.CodeTradeSubmitFailed,
			"failed to generate tx hash")
	}

	netProfit := req.Opportunity.GrossProfit.Sub(req.EstimatedCostUSD)

	outcome := domain.TradeOutcome{
		Kind:        domain.TradeSimulated,
		Opportunity: req.Opportunity,
		TxHash:      txHash,
		NetProfit:   netProfit,
		Success:     true,
		ExecutedAt:  start,
		Duration:    time.Since(start),
	}

	if b.metrics.trades != nil {
		b.metrics.trades.Add(ctx, 1,
			metric.WithAttributes(attribute.String("pair", req.Opportunity.Pair.String())))
	}
	if b.metrics.netProfit != nil {
		profit, _ := netProfit.Float64()
		b.metrics.netProfit.Add(ctx, profit)
	}

	b.logger.Info(ctx, "simulated trade filled",
		"pair", req.Opportunity.Pair.String(),
		"tx", txHash,
		"net_profit", netProfit.StringFixed(2))

	return outcome, nil
}

// fakeTxHash builds a plausible 32-byte transaction hash.
func fakeTxHash() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(buf[:]), nil
}
