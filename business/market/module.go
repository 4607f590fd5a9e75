// Package market implements the market bounded context for DEX quoting.
package market

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/polygon-arb-bot/business/market/app"
	marketDI "github.com/fd1az/polygon-arb-bot/business/market/di"
	"github.com/fd1az/polygon-arb-bot/business/market/domain"
	"github.com/fd1az/polygon-arb-bot/business/market/infra/amm"
	"github.com/fd1az/polygon-arb-bot/internal/config"
	"github.com/fd1az/polygon-arb-bot/internal/di"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
	"github.com/fd1az/polygon-arb-bot/internal/monolith"
	"github.com/fd1az/polygon-arb-bot/internal/ratelimit"
)

// Module implements the market bounded context.
type Module struct{}

// RegisterServices registers all market services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register RPC rate limiter (private - shared across venue clients)
	di.RegisterToken(c, marketDI.RPCLimiter, func(sr di.ServiceRegistry) *ratelimit.Limiter {
		cfg := sr.Get("config").(*config.Config)
		return ratelimit.New(cfg.Trading.RPCRateLimit)
	})

	// Register QuoteSources (private - one router client per configured venue)
	di.RegisterToken(c, marketDI.QuoteSources, func(sr di.ServiceRegistry) []app.QuoteSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)
		limiter := marketDI.GetRPCLimiter(sr)

		sources := make([]app.QuoteSource, 0, len(cfg.Venues))
		for _, vc := range cfg.Venues {
			venue := domain.Venue{
				Name:    vc.Name,
				Router:  vc.RouterHex(),
				Factory: vc.FactoryHex(),
			}

			client, err := amm.NewRouterClient(venue, ethClient, limiter, log)
			if err != nil {
				panic("failed to create router client for " + vc.Name + ": " + err.Error())
			}
			sources = append(sources, client)
		}
		return sources
	})

	// Register MarketService (public - exposed to other modules)
	di.RegisterToken(c, marketDI.MarketService, func(sr di.ServiceRegistry) *app.MarketService {
		log := sr.Get("logger").(logger.LoggerInterface)
		sources := marketDI.GetQuoteSources(sr)
		return app.NewMarketService(sources, log)
	})

	return nil
}

// Startup initializes the market module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := marketDI.GetMarketService(mono.Services())
	venues := svc.Venues()
	names := make([]string, 0, len(venues))
	for _, v := range venues {
		names = append(names, v.Name)
	}

	log.Info(ctx, "market module started", "venues", names)
	return nil
}
