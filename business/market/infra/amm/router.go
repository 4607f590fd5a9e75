// Package amm implements the QuoteSource port against UniswapV2-style routers.
package amm

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/polygon-arb-bot/business/market/app"
	"github.com/fd1az/polygon-arb-bot/business/market/domain"
	"github.com/fd1az/polygon-arb-bot/internal/apperror"
	"github.com/fd1az/polygon-arb-bot/internal/asset"
	"github.com/fd1az/polygon-arb-bot/internal/circuitbreaker"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
	"github.com/fd1az/polygon-arb-bot/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/polygon-arb-bot/business/market/infra/amm"
	meterName  = "github.com/fd1az/polygon-arb-bot/business/market/infra/amm"
)

// Ensure RouterClient implements QuoteSource.
var _ app.QuoteSource = (*RouterClient)(nil)

// routerMetrics holds OTEL metric instruments.
type routerMetrics struct {
	quotesTotal  metric.Int64Counter
	quoteErrors  metric.Int64Counter
	quoteLatency metric.Float64Histogram
}

// RouterClient quotes one DEX by calling getAmountsOut on its router.
type RouterClient struct {
	venue     domain.Venue
	client    *ethclient.Client
	routerABI abi.ABI
	limiter   *ratelimit.Limiter
	cb        *circuitbreaker.CircuitBreaker[[]byte]

	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *routerMetrics
}

// NewRouterClient creates a quote source for a single venue.
// The rate limiter is shared across venues so the total RPC budget is
// enforced node-wide.
func NewRouterClient(venue domain.Venue, client *ethclient.Client, limiter *ratelimit.Limiter, log logger.LoggerInterface) (*RouterClient, error) {
	parsedABI, err := abi.JSON(strings.NewReader(RouterV2ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse router ABI: %w", err)
	}

	r := &RouterClient{
		venue:     venue,
		client:    client,
		routerABI: parsedABI,
		limiter:   limiter,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}

	cbCfg := circuitbreaker.DefaultConfig("router-" + strings.ToLower(venue.Name))
	r.cb = circuitbreaker.New[[]byte](cbCfg)

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return r, nil
}

func (r *RouterClient) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &routerMetrics{}

	r.metrics.quotesTotal, err = meter.Int64Counter(
		"router_quotes_total",
		metric.WithDescription("Total router quote requests"),
		metric.WithUnit("{quote}"),
	)
	if err != nil {
		return err
	}

	r.metrics.quoteErrors, err = meter.Int64Counter(
		"router_quote_errors_total",
		metric.WithDescription("Total router quote errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	r.metrics.quoteLatency, err = meter.Float64Histogram(
		"router_quote_latency_ms",
		metric.WithDescription("Router quote latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Venue identifies the venue this client quotes for.
func (r *RouterClient) Venue() domain.Venue {
	return r.venue
}

// Quote asks the router how many quote tokens notional base tokens sell
// for right now.
func (r *RouterClient) Quote(ctx context.Context, pair domain.TokenPair, notional decimal.Decimal) (domain.Quote, error) {
	ctx, span := r.tracer.Start(ctx, "amm.quote",
		trace.WithAttributes(
			attribute.String("venue", r.venue.Name),
			attribute.String("pair", pair.String()),
			attribute.String("notional", notional.String()),
		),
	)
	defer span.End()

	start := time.Now()
	r.metrics.quotesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("venue", r.venue.Name)))

	amountIn, err := asset.ParseDecimal(pair.Base, notional)
	if err != nil {
		return domain.Quote{}, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("notional %s is not representable in %s", notional, pair.Base.Symbol())))
	}

	amountOut, err := r.getAmountOut(ctx, pair, amountIn.Raw())

	r.metrics.quoteLatency.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(attribute.String("venue", r.venue.Name)))

	if err != nil {
		r.metrics.quoteErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("venue", r.venue.Name)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "quote failed")
		return domain.Quote{}, err
	}

	if amountOut.Sign() <= 0 {
		r.metrics.quoteErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("venue", r.venue.Name)))
		span.SetStatus(codes.Error, "zero output")
		return domain.Quote{}, apperror.New(apperror.CodeInsufficientLiquidity,
			apperror.WithContext(fmt.Sprintf("%s returned zero output for %s", r.venue.Name, pair)))
	}

	out := asset.NewAmount(pair.Quote, amountOut)
	quote := domain.NewQuote(r.venue, pair, amountIn, out)

	span.SetAttributes(
		attribute.String("amount_out", out.ToDecimal().String()),
		attribute.String("price", quote.Price.String()),
	)
	span.SetStatus(codes.Ok, "quoted")

	r.logger.Debug(ctx, "router quote",
		"venue", r.venue.Name,
		"pair", pair.String(),
		"amount_in", amountIn.ToDecimal().String(),
		"amount_out", out.ToDecimal().String(),
		"price", quote.Price.String(),
	)

	return quote, nil
}

// getAmountOut calls getAmountsOut through the rate limiter and circuit breaker.
func (r *RouterClient) getAmountOut(ctx context.Context, pair domain.TokenPair, amountIn *big.Int) (*big.Int, error) {
	path := []common.Address{pair.Base.Address(), pair.Quote.Address()}

	callData, err := r.routerABI.Pack("getAmountsOut", amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("failed to encode call: %w", err)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, apperror.New(apperror.CodeVenueQuoteFailed,
			apperror.WithCause(err),
			apperror.WithContext("rate limiter wait cancelled"))
	}

	router := r.venue.Router
	result, err := r.cb.Execute(func() ([]byte, error) {
		return r.client.CallContract(ctx, ethereum.CallMsg{
			To:   &router,
			Data: callData,
		}, nil)
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("getAmountsOut failed on %s", r.venue.Name)))
	}

	outputs, err := r.routerABI.Unpack("getAmountsOut", result)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithCause(err),
			apperror.WithContext("failed to decode getAmountsOut result"))
	}

	amounts, ok := outputs[0].([]*big.Int)
	if !ok || len(amounts) < 2 {
		return nil, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext(fmt.Sprintf("unexpected getAmountsOut output shape on %s", r.venue.Name)))
	}

	return amounts[len(amounts)-1], nil
}
