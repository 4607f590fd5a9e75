package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/polygon-arb-bot/business/market/domain"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

// quoteTimeout bounds a single venue's quote call so one slow RPC cannot
// stall the whole scan.
const quoteTimeout = 10 * time.Second

// MarketService fans quote requests out to all registered venues.
type MarketService struct {
	sources []QuoteSource
	logger  logger.LoggerInterface
}

// NewMarketService creates a MarketService over the given quote sources.
func NewMarketService(sources []QuoteSource, log logger.LoggerInterface) *MarketService {
	return &MarketService{
		sources: sources,
		logger:  log,
	}
}

// Venues returns the venues this service quotes against, in registration order.
func (s *MarketService) Venues() []domain.Venue {
	venues := make([]domain.Venue, 0, len(s.sources))
	for _, src := range s.sources {
		venues = append(venues, src.Venue())
	}
	return venues
}

// CollectQuotes queries every venue concurrently and returns the quotes
// that succeeded, ordered by venue registration order. A venue failure
// is logged and dropped; it never fails the scan.
func (s *MarketService) CollectQuotes(ctx context.Context, pair domain.TokenPair, notional decimal.Decimal) []domain.Quote {
	type indexed struct {
		idx   int
		quote domain.Quote
	}

	var mu sync.Mutex
	collected := make([]indexed, 0, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, quoteTimeout)
			defer cancel()

			quote, err := src.Quote(qctx, pair, notional)
			if err != nil {
				s.logger.Warn(ctx, "venue quote failed",
					"venue", src.Venue().Name,
					"pair", pair.String(),
					"error", err)
				return nil // dropped, not fatal
			}
			if !quote.IsValid() {
				s.logger.Warn(ctx, "venue returned invalid quote",
					"venue", src.Venue().Name,
					"pair", pair.String())
				return nil
			}

			mu.Lock()
			collected = append(collected, indexed{idx: i, quote: quote})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	// Deterministic ordering regardless of which goroutine finished first.
	sort.Slice(collected, func(a, b int) bool { return collected[a].idx < collected[b].idx })

	quotes := make([]domain.Quote, 0, len(collected))
	for _, c := range collected {
		quotes = append(quotes, c.quote)
	}

	s.logger.Debug(ctx, "quotes collected",
		"pair", pair.String(),
		"venues", len(s.sources),
		"quotes", len(quotes))

	return quotes
}
