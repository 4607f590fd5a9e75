package polygon

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/polygon-arb-bot/business/chain/domain"
	"github.com/fd1az/polygon-arb-bot/internal/apperror"
	"github.com/fd1az/polygon-arb-bot/internal/cache"
	"github.com/fd1az/polygon-arb-bot/internal/httpclient"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

const gasStationTimeout = 10 * time.Second

// GasStationConfig holds configuration for the Polygon gas station feed.
type GasStationConfig struct {
	BaseURL  string
	CacheTTL time.Duration
}

// gasStationResponse mirrors the gasstation.polygon.technology payload.
// Fees are reported in gwei.
type gasStationResponse struct {
	SafeLow struct {
		MaxFee float64 `json:"maxFee"`
	} `json:"safeLow"`
	Standard struct {
		MaxFee float64 `json:"maxFee"`
	} `json:"standard"`
	Fast struct {
		MaxFee float64 `json:"maxFee"`
	} `json:"fast"`
	BlockNumber uint64 `json:"blockNumber"`
}

// GasStation implements the GasOracle port against the public Polygon
// gas station API. It is the out-of-band alternative to the RPC oracle:
// useful when the RPC node underreports during congestion.
type GasStation struct {
	client httpclient.Client
	config GasStationConfig
	logger logger.LoggerInterface

	priceCache *cache.Cache[string, domain.GasPrice]
	tracer     trace.Tracer
}

// NewGasStation creates a gas station client.
func NewGasStation(cfg GasStationConfig, log logger.LoggerInterface) (*GasStation, error) {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 2 * time.Second
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("polygon-gas-station"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(gasStationTimeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceRequest, httpclient.TraceResponse),
		httpclient.WithHeaders(map[string]string{
			"Accept": "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &GasStation{
		client:     client,
		config:     cfg,
		logger:     log,
		priceCache: cache.New[string, domain.GasPrice](5 * time.Minute),
		tracer:     tracer,
	}, nil
}

// GasPrice fetches the fast-tier gas price from the gas station.
func (g *GasStation) GasPrice(ctx context.Context) (domain.GasPrice, error) {
	ctx, span := g.tracer.Start(ctx, "gas.station.price")
	defer span.End()

	if price, found := g.priceCache.Get(ctx, "current"); found {
		span.AddEvent("cache_hit")
		return price, nil
	}

	var result gasStationResponse
	resp, err := g.client.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "v2")),
	).
		SetResult(&result).
		Get(ctx, "/v2")

	if err != nil {
		span.RecordError(err)
		return domain.GasPrice{}, apperror.New(apperror.CodeGasPriceUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("gas station fetch failed"))
	}

	if resp.IsError() {
		return domain.GasPrice{}, apperror.New(apperror.CodeGasPriceUnavailable,
			apperror.WithContext(fmt.Sprintf("gas station HTTP %d", resp.StatusCode)))
	}

	if result.Fast.MaxFee <= 0 {
		return domain.GasPrice{}, apperror.New(apperror.CodeGasPriceUnavailable,
			apperror.WithContext("gas station returned zero fast fee"))
	}

	price := domain.NewGasPriceFromGwei(decimal.NewFromFloat(result.Fast.MaxFee))
	g.priceCache.Set(ctx, "current", price, g.config.CacheTTL)

	span.SetAttributes(
		attribute.Float64("gwei", result.Fast.MaxFee),
		attribute.Int64("block", int64(result.BlockNumber)),
	)

	g.logger.Debug(ctx, "gas station price",
		"fast_gwei", result.Fast.MaxFee,
		"block", result.BlockNumber)

	return price, nil
}

// Close releases resources.
func (g *GasStation) Close() error {
	g.priceCache.Close()
	return nil
}
