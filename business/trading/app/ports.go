// Package app contains application services and port definitions for the trading context.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	chainDomain "github.com/fd1az/polygon-arb-bot/business/chain/domain"
	marketDomain "github.com/fd1az/polygon-arb-bot/business/market/domain"
	"github.com/fd1az/polygon-arb-bot/business/trading/domain"
)

// QuoteProvider supplies venue quotes for a pair. Satisfied by the
// market context's MarketService.
type QuoteProvider interface {
	CollectQuotes(ctx context.Context, pair marketDomain.TokenPair, notional decimal.Decimal) []marketDomain.Quote
}

// GasPricer reports the current gas price. Satisfied by the chain
// context's ChainService.
type GasPricer interface {
	GasPrice(ctx context.Context) (chainDomain.GasPrice, error)
}

// BalanceReader reads the operator wallet. Satisfied by the chain
// context's ChainService.
type BalanceReader interface {
	Balances(ctx context.Context) (chainDomain.BalanceSheet, error)
}

// CostEstimator prices the full cost of executing one arbitrage trade
// (both swap legs) in USD.
type CostEstimator interface {
	TradeCostUSD(ctx context.Context, gasPrice chainDomain.GasPrice) (decimal.Decimal, error)
}

// TradeRequest carries everything a backend needs to place the trade.
type TradeRequest struct {
	Opportunity      domain.Opportunity
	SlippagePercent  decimal.Decimal
	EstimatedCostUSD decimal.Decimal
}

// TradeBackend places trades. The returned outcome carries failures as
// values; the error return is reserved for the backend itself being
// unusable.
type TradeBackend interface {
	Kind() domain.TradeKind
	Submit(ctx context.Context, req TradeRequest) (domain.TradeOutcome, error)
}
