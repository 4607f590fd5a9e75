// Package trading implements the trading bounded context: opportunity
// detection, risk guarding, execution and the scan scheduler.
package trading

import (
	"context"

	"github.com/shopspring/decimal"

	chainDI "github.com/fd1az/polygon-arb-bot/business/chain/di"
	marketDI "github.com/fd1az/polygon-arb-bot/business/market/di"
	marketDomain "github.com/fd1az/polygon-arb-bot/business/market/domain"
	"github.com/fd1az/polygon-arb-bot/business/trading/app"
	tradingDI "github.com/fd1az/polygon-arb-bot/business/trading/di"
	"github.com/fd1az/polygon-arb-bot/business/trading/domain"
	"github.com/fd1az/polygon-arb-bot/business/trading/infra/sim"
	"github.com/fd1az/polygon-arb-bot/internal/apperror"
	"github.com/fd1az/polygon-arb-bot/internal/asset"
	"github.com/fd1az/polygon-arb-bot/internal/config"
	"github.com/fd1az/polygon-arb-bot/internal/di"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
	"github.com/fd1az/polygon-arb-bot/internal/monolith"
)

// nativePricePair is the pair used to price the chain's native token
// when the oracle cost estimator is enabled. WMATIC tracks MATIC 1:1.
const nativePricePair = "WMATIC-USDC"

// Module implements the trading bounded context.
type Module struct{}

// RegisterServices registers all trading services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, tradingDI.Detector, func(sr di.ServiceRegistry) *app.Detector {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewDetector(log)
	})

	di.RegisterToken(c, tradingDI.CostEstimator, func(sr di.ServiceRegistry) app.CostEstimator {
		cfg := sr.Get("config").(*config.Config)

		if cfg.Trading.GasCostMode == config.GasCostModeOracle {
			return app.NewOracleCostEstimator(cfg.Trading.GasLimit, nativePricer(sr))
		}
		return app.NewFlatCostEstimator(cfg.Trading.FlatGasCostUSDDecimal())
	})

	di.RegisterToken(c, tradingDI.Guard, func(sr di.ServiceRegistry) *app.Guard {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		chain := chainDI.GetChainService(sr)
		costs := tradingDI.GetCostEstimator(sr)

		var wallet app.BalanceReader
		if cfg.Wallet.HasWallet() {
			wallet = chain
		}
		return app.NewGuard(chain, wallet, costs, log)
	})

	di.RegisterToken(c, tradingDI.TradeBackend, func(sr di.ServiceRegistry) app.TradeBackend {
		log := sr.Get("logger").(logger.LoggerInterface)
		return sim.New(0, log)
	})

	di.RegisterToken(c, tradingDI.Executor, func(sr di.ServiceRegistry) *app.Executor {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewExecutor(tradingDI.GetTradeBackend(sr), log)
	})

	di.RegisterToken(c, tradingDI.Controller, func(sr di.ServiceRegistry) *app.Controller {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		pairs := make([]marketDomain.TokenPair, 0, len(cfg.Trading.Pairs))
		for _, raw := range cfg.Trading.Pairs {
			pair, err := marketDomain.ParsePair(raw, registry, cfg.Polygon.ChainID)
			if err != nil {
				panic("invalid trading pair " + raw + ": " + err.Error())
			}
			pairs = append(pairs, pair)
		}

		risk := domain.RiskConfig{
			MinProfitUSD:    cfg.Trading.MinProfitUSDDecimal(),
			MaxGasPriceGwei: cfg.Trading.MaxGasPriceGweiDecimal(),
			SlippagePercent: cfg.Trading.SlippageDecimal(),
			Notional:        cfg.Trading.NotionalDecimal(),
			ScanInterval:    cfg.Trading.ScanInterval,
		}
		if err := risk.Validate(); err != nil {
			panic("invalid risk configuration: " + err.Error())
		}

		return app.NewController(
			marketDI.GetMarketService(sr),
			tradingDI.GetDetector(sr),
			tradingDI.GetGuard(sr),
			tradingDI.GetExecutor(sr),
			pairs,
			risk,
			log,
		)
	})

	di.RegisterToken(c, tradingDI.Scheduler, func(sr di.ServiceRegistry) *app.Scheduler {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewScheduler(tradingDI.GetController(sr), cfg.Trading.ScanInterval, log)
	})

	return nil
}

// Startup launches the scan scheduler. The bot itself stays disabled
// until the operator issues startbot.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	ctrl := tradingDI.GetController(mono.Services())
	sched := tradingDI.GetScheduler(mono.Services())
	sched.Start(ctx)

	log.Info(ctx, "trading module started",
		"pairs", len(ctrl.Pairs()),
		"mode", ctrl.ExecutionKind(),
		"interval", ctrl.RiskConfig().ScanInterval)
	return nil
}

// nativePricer prices the native token off the venue quotes themselves,
// using a one-token probe on the reference pair.
func nativePricer(sr di.ServiceRegistry) app.NativePricer {
	market := marketDI.GetMarketService(sr)
	cfg := sr.Get("config").(*config.Config)
	registry := sr.Get("assetRegistry").(*asset.Registry)

	pair, err := marketDomain.ParsePair(nativePricePair, registry, cfg.Polygon.ChainID)
	if err != nil {
		panic("invalid native price pair: " + err.Error())
	}

	return func(ctx context.Context) (decimal.Decimal, error) {
		quotes := market.CollectQuotes(ctx, pair, decimal.NewFromInt(1))
		if len(quotes) == 0 {
			return decimal.Zero, apperror.New(apperror.CodeGasPriceUnavailable,
				apperror.WithContext("no venue quoted the native token"))
		}
		return quotes[0].Price, nil
	}
}
