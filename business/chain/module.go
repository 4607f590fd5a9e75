// Package chain implements the chain bounded context for Polygon node access.
package chain

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/polygon-arb-bot/business/chain/app"
	chainDI "github.com/fd1az/polygon-arb-bot/business/chain/di"
	"github.com/fd1az/polygon-arb-bot/business/chain/infra/polygon"
	"github.com/fd1az/polygon-arb-bot/internal/asset"
	"github.com/fd1az/polygon-arb-bot/internal/config"
	"github.com/fd1az/polygon-arb-bot/internal/di"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
	"github.com/fd1az/polygon-arb-bot/internal/monolith"
)

// Module implements the chain bounded context.
type Module struct{}

// RegisterServices registers all chain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register GasOracle (private)
	di.RegisterToken(c, chainDI.GasOracle, func(sr di.ServiceRegistry) app.GasOracle {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		if cfg.Polygon.GasSource == config.GasSourceStation {
			station, err := polygon.NewGasStation(polygon.GasStationConfig{
				BaseURL: cfg.Polygon.GasStationURL,
			}, log)
			if err != nil {
				panic("failed to create gas station client: " + err.Error())
			}
			return station
		}

		ethClient := sr.Get("ethClient").(*ethclient.Client)
		oracle, err := polygon.NewGasOracle(polygon.DefaultGasOracleConfig(), ethClient, log)
		if err != nil {
			panic("failed to create gas oracle: " + err.Error())
		}
		return oracle
	})

	// Register Wallet (private)
	di.RegisterToken(c, chainDI.Wallet, func(sr di.ServiceRegistry) app.Wallet {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		if !cfg.Wallet.HasWallet() {
			return nil
		}

		tracked := trackedAssets(cfg, registry)
		wallet, err := polygon.NewWallet(cfg.Wallet.AddressHex(), tracked, ethClient, log)
		if err != nil {
			panic("failed to create wallet: " + err.Error())
		}
		return wallet
	})

	// Register HeadSubscriber (private)
	di.RegisterToken(c, chainDI.HeadSubscriber, func(sr di.ServiceRegistry) app.HeadSubscriber {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		headsCfg := polygon.DefaultHeadsConfig(cfg.Polygon.WebSocketURL, cfg.Polygon.HTTPURL)
		headsCfg.InitialBackoff = cfg.Polygon.InitialBackoff
		headsCfg.MaxBackoff = cfg.Polygon.MaxBackoff

		sub, err := polygon.NewHeadSubscriber(headsCfg, log)
		if err != nil {
			panic("failed to create head subscriber: " + err.Error())
		}
		return sub
	})

	// Register ChainService (public - exposed to other modules)
	di.RegisterToken(c, chainDI.ChainService, func(sr di.ServiceRegistry) *app.ChainService {
		oracle := chainDI.GetGasOracle(sr)
		wallet := chainDI.GetWallet(sr)
		sub := chainDI.GetHeadSubscriber(sr)
		return app.NewChainService(oracle, wallet, sub)
	})

	return nil
}

// Startup initializes the chain module and starts the head stream.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := chainDI.GetChainService(mono.Services())

	// The stream feeds connection status; heads themselves are drained
	// here so a full buffer never stalls the subscriber.
	heads, err := svc.SubscribeHeads(ctx)
	if err != nil {
		log.Warn(ctx, "head subscription unavailable", "error", err)
	} else {
		go func() {
			for range heads {
			}
		}()
	}

	log.Info(ctx, "chain module started",
		"http_url", mono.Config().Polygon.HTTPURL,
		"ws", mono.Config().Polygon.WebSocketURL != "")
	return nil
}

// trackedAssets resolves the balance snapshot's asset set: the native
// coin plus every token named in the configured pairs.
func trackedAssets(cfg *config.Config, registry *asset.Registry) []*asset.Asset {
	seen := make(map[string]bool)
	tracked := make([]*asset.Asset, 0, 2*len(cfg.Trading.Pairs)+1)

	if native, ok := registry.GetNative(cfg.Polygon.ChainID); ok {
		tracked = append(tracked, native)
		seen[native.Symbol()] = true
	}

	for _, pair := range cfg.Trading.Pairs {
		for _, symbol := range strings.Split(pair, "-") {
			symbol = strings.ToUpper(strings.TrimSpace(symbol))
			if symbol == "" || seen[symbol] {
				continue
			}
			if a, ok := registry.GetBySymbolAndChain(symbol, cfg.Polygon.ChainID); ok {
				tracked = append(tracked, a)
				seen[symbol] = true
			}
		}
	}

	return tracked
}
