// Package di contains dependency injection tokens for the market context.
package di

import (
	"github.com/fd1az/polygon-arb-bot/business/market/app"
	"github.com/fd1az/polygon-arb-bot/internal/di"
	"github.com/fd1az/polygon-arb-bot/internal/ratelimit"
)

// Public service tokens - exposed to other modules
var (
	MarketService = di.NewToken[*app.MarketService]("market.MarketService")
)

// Private dependency tokens - internal to market module
var (
	QuoteSources = di.NewToken[[]app.QuoteSource]("market:quoteSources")
	RPCLimiter   = di.NewToken[*ratelimit.Limiter]("market:rpcLimiter")
)

// Helper functions for type-safe access
func GetMarketService(c di.ServiceRegistry) *app.MarketService {
	return di.GetToken(c, MarketService)
}

func GetQuoteSources(c di.ServiceRegistry) []app.QuoteSource {
	return di.GetToken(c, QuoteSources)
}

func GetRPCLimiter(c di.ServiceRegistry) *ratelimit.Limiter {
	return di.GetToken(c, RPCLimiter)
}
