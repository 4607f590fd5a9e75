package app

import (
	"context"

	"github.com/shopspring/decimal"

	marketDomain "github.com/fd1az/polygon-arb-bot/business/market/domain"
	"github.com/fd1az/polygon-arb-bot/business/trading/domain"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

// Detector turns a set of venue quotes into at most one opportunity.
type Detector struct {
	logger logger.LoggerInterface
}

// NewDetector creates a Detector.
func NewDetector(log logger.LoggerInterface) *Detector {
	return &Detector{logger: log}
}

// Detect picks the cheapest venue to buy on and the dearest to sell on,
// and reports an opportunity only when the gross profit strictly clears
// minProfitUSD. Ties go to the earlier venue in quote order, which
// follows venue registration order. Fewer than two quotes means there
// is nothing to compare.
func (d *Detector) Detect(ctx context.Context, pair marketDomain.TokenPair, quotes []marketDomain.Quote, notional, minProfitUSD decimal.Decimal) (domain.Opportunity, bool) {
	if len(quotes) < 2 {
		d.logger.Debug(ctx, "not enough quotes to compare",
			"pair", pair.String(),
			"quotes", len(quotes))
		return domain.Opportunity{}, false
	}

	buy := quotes[0]
	sell := quotes[0]
	for _, q := range quotes[1:] {
		// strict comparisons keep the earliest venue on ties
		if q.Price.LessThan(buy.Price) {
			buy = q
		}
		if q.Price.GreaterThan(sell.Price) {
			sell = q
		}
	}

	if buy.Venue.Name == sell.Venue.Name {
		return domain.Opportunity{}, false
	}

	opp := domain.NewOpportunity(pair, buy, sell, notional)

	if !opp.GrossProfit.GreaterThan(minProfitUSD) {
		d.logger.Debug(ctx, "spread below profit threshold",
			"pair", pair.String(),
			"gross", opp.GrossProfit.String(),
			"min_profit", minProfitUSD.String())
		return domain.Opportunity{}, false
	}

	d.logger.Info(ctx, "opportunity detected",
		"pair", pair.String(),
		"buy_venue", opp.BuyVenue.Name,
		"sell_venue", opp.SellVenue.Name,
		"gross", opp.GrossProfit.StringFixed(2),
		"pct", opp.ProfitPct.StringFixed(2))

	return opp, true
}
