// Package polygon provides Polygon node infrastructure adapters.
package polygon

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/polygon-arb-bot/business/chain/domain"
	"github.com/fd1az/polygon-arb-bot/internal/apperror"
	"github.com/fd1az/polygon-arb-bot/internal/cache"
	"github.com/fd1az/polygon-arb-bot/internal/circuitbreaker"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

const (
	tracerName = "github.com/fd1az/polygon-arb-bot/business/chain/infra/polygon"
	meterName  = "github.com/fd1az/polygon-arb-bot/business/chain/infra/polygon"
)

// GasOracleConfig holds configuration for the RPC gas oracle.
type GasOracleConfig struct {
	CacheTTL    time.Duration // how long to serve a cached price
	MaxGasPrice *big.Int      // clamp, protects the guard from absurd samples
}

// DefaultGasOracleConfig returns sensible defaults for Polygon.
// Polygon blocks every ~2s; a 2s TTL means at most one RPC per block.
func DefaultGasOracleConfig() GasOracleConfig {
	maxGas := new(big.Int)
	maxGas.SetString("5000000000000", 10) // 5000 gwei

	return GasOracleConfig{
		CacheTTL:    2 * time.Second,
		MaxGasPrice: maxGas,
	}
}

// gasOracleMetrics holds OTEL metric instruments.
type gasOracleMetrics struct {
	fetches     metric.Int64Counter
	gasGwei     metric.Float64Gauge
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
}

// GasOracle implements the GasOracle port using eth_gasPrice.
type GasOracle struct {
	config GasOracleConfig
	client *ethclient.Client
	logger logger.LoggerInterface

	priceCache *cache.Cache[string, domain.GasPrice]
	cb         *circuitbreaker.CircuitBreaker[*big.Int]

	tracer  trace.Tracer
	metrics *gasOracleMetrics
}

// NewGasOracle creates a gas oracle over an existing RPC client.
func NewGasOracle(cfg GasOracleConfig, client *ethclient.Client, log logger.LoggerInterface) (*GasOracle, error) {
	g := &GasOracle{
		config:     cfg,
		client:     client,
		logger:     log,
		priceCache: cache.New[string, domain.GasPrice](5 * time.Minute),
		cb:         circuitbreaker.New[*big.Int](circuitbreaker.DefaultConfig("gas-oracle")),
		tracer:     otel.Tracer(tracerName),
	}

	if err := g.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return g, nil
}

func (g *GasOracle) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	g.metrics = &gasOracleMetrics{}

	g.metrics.fetches, err = meter.Int64Counter(
		"gas_price_fetches_total",
		metric.WithDescription("Total gas price fetch attempts"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	g.metrics.gasGwei, err = meter.Float64Gauge(
		"gas_price_gwei",
		metric.WithDescription("Current gas price in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	g.metrics.cacheHits, err = meter.Int64Counter(
		"gas_cache_hits_total",
		metric.WithDescription("Gas price cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	g.metrics.cacheMisses, err = meter.Int64Counter(
		"gas_cache_misses_total",
		metric.WithDescription("Gas price cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GasPrice retrieves the current gas price with caching.
func (g *GasOracle) GasPrice(ctx context.Context) (domain.GasPrice, error) {
	ctx, span := g.tracer.Start(ctx, "gas.price")
	defer span.End()

	if price, found := g.priceCache.Get(ctx, "current"); found {
		g.metrics.cacheHits.Add(ctx, 1)
		span.AddEvent("cache_hit")
		return price, nil
	}

	g.metrics.cacheMisses.Add(ctx, 1)
	g.metrics.fetches.Add(ctx, 1)

	wei, err := g.cb.Execute(func() (*big.Int, error) {
		return g.client.SuggestGasPrice(ctx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return domain.GasPrice{}, apperror.New(apperror.CodeGasPriceUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("eth_gasPrice failed"))
	}

	if g.config.MaxGasPrice != nil && wei.Cmp(g.config.MaxGasPrice) > 0 {
		g.logger.Warn(ctx, "gas price exceeds clamp", "wei", wei.String())
		wei = g.config.MaxGasPrice
	}

	price := domain.NewGasPrice(wei)
	g.priceCache.Set(ctx, "current", price, g.config.CacheTTL)

	gwei, _ := price.Gwei.Float64()
	g.metrics.gasGwei.Record(ctx, gwei)

	span.SetAttributes(attribute.Float64("gwei", gwei))
	span.SetStatus(codes.Ok, "fetched")

	return price, nil
}

// Close releases oracle resources. The RPC client is shared and stays open.
func (g *GasOracle) Close() error {
	g.priceCache.Close()
	return nil
}
