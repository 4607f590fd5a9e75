// Package app contains application services and port definitions for the market context.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fd1az/polygon-arb-bot/business/market/domain"
)

// QuoteSource answers price questions for a single venue.
type QuoteSource interface {
	// Venue identifies the venue this source quotes for.
	Venue() domain.Venue

	// Quote returns the venue's quote for selling notional base tokens
	// into quote tokens.
	Quote(ctx context.Context, pair domain.TokenPair, notional decimal.Decimal) (domain.Quote, error)
}
