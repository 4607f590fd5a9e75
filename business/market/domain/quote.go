package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/polygon-arb-bot/internal/asset"
)

// Quote is one venue's answer to "what does one base token cost in quote
// tokens right now, for this trade size".
type Quote struct {
	Venue     Venue
	Pair      TokenPair
	Price     decimal.Decimal // quote tokens per base token, fill-adjusted
	AmountIn  asset.Amount    // probe size in base tokens
	AmountOut asset.Amount    // venue's quoted output in quote tokens
	Timestamp time.Time
}

// NewQuote builds a Quote and derives the effective price from the
// quoted amounts. The price reflects the actual fill for the probe size,
// pool fees and depth included.
func NewQuote(venue Venue, pair TokenPair, amountIn, amountOut asset.Amount) Quote {
	price := decimal.Zero
	in := amountIn.ToDecimal()
	if !in.IsZero() {
		price = amountOut.ToDecimal().Div(in)
	}

	return Quote{
		Venue:     venue,
		Pair:      pair,
		Price:     price,
		AmountIn:  amountIn,
		AmountOut: amountOut,
		Timestamp: time.Now(),
	}
}

// IsValid reports whether the quote carries a usable positive price.
func (q Quote) IsValid() bool {
	return q.Price.IsPositive()
}
