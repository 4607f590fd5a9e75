// Package domain contains the core domain types for the trading context.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	marketDomain "github.com/fd1az/polygon-arb-bot/business/market/domain"
)

// Opportunity is a price divergence worth acting on: buy Notional base
// tokens on BuyVenue, sell them on SellVenue.
type Opportunity struct {
	ID          string
	Pair        marketDomain.TokenPair
	BuyVenue    marketDomain.Venue
	SellVenue   marketDomain.Venue
	BuyPrice    decimal.Decimal
	SellPrice   decimal.Decimal
	Notional    decimal.Decimal // trade size in base tokens
	GrossProfit decimal.Decimal // (sell - buy) * notional, in quote tokens
	ProfitPct   decimal.Decimal // gross relative to capital deployed, percent
	Timestamp   time.Time
}

// NewOpportunity derives the profit figures from the venue prices.
func NewOpportunity(pair marketDomain.TokenPair, buy, sell marketDomain.Quote, notional decimal.Decimal) Opportunity {
	gross := sell.Price.Sub(buy.Price).Mul(notional)

	capital := buy.Price.Mul(notional)
	pct := decimal.Zero
	if capital.IsPositive() {
		pct = gross.Div(capital).Mul(decimal.NewFromInt(100))
	}

	now := time.Now()
	return Opportunity{
		ID:          fmt.Sprintf("%s-%d", pair.String(), now.UnixNano()),
		Pair:        pair,
		BuyVenue:    buy.Venue,
		SellVenue:   sell.Venue,
		BuyPrice:    buy.Price,
		SellPrice:   sell.Price,
		Notional:    notional,
		GrossProfit: gross,
		ProfitPct:   pct,
		Timestamp:   now,
	}
}

// String renders the opportunity for logs and operator replies.
func (o Opportunity) String() string {
	return fmt.Sprintf("%s: buy %s @ %s, sell %s @ %s, gross %s (%s%%)",
		o.Pair, o.BuyVenue.Name, o.BuyPrice.StringFixed(6),
		o.SellVenue.Name, o.SellPrice.StringFixed(6),
		o.GrossProfit.StringFixed(2), o.ProfitPct.StringFixed(2))
}
