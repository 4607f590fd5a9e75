package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/polygon-arb-bot/business/market/domain"
	"github.com/fd1az/polygon-arb-bot/internal/asset"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

// fakeSource quotes a fixed price, optionally failing or stalling.
type fakeSource struct {
	name  string
	price string
	err   error
	delay time.Duration
}

func (f *fakeSource) Venue() domain.Venue {
	return domain.Venue{Name: f.name}
}

func (f *fakeSource) Quote(ctx context.Context, pair domain.TokenPair, _ decimal.Decimal) (domain.Quote, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return domain.Quote{}, ctx.Err()
		}
	}
	if f.err != nil {
		return domain.Quote{}, f.err
	}
	return domain.Quote{
		Venue: f.Venue(),
		Pair:  pair,
		Price: decimal.RequireFromString(f.price),
	}, nil
}

func testService(t *testing.T, sources ...QuoteSource) (*MarketService, domain.TokenPair) {
	t.Helper()
	pair, err := domain.NewTokenPair(asset.WMATIC, asset.USDC)
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	return NewMarketService(sources, log), pair
}

func TestMarketService_CollectQuotes_RegistrationOrder(t *testing.T) {
	// the first venue answers slowest; order must still follow registration
	svc, pair := testService(t,
		&fakeSource{name: "QuickSwap", price: "0.86", delay: 50 * time.Millisecond},
		&fakeSource{name: "SushiSwap", price: "0.84", delay: 10 * time.Millisecond},
		&fakeSource{name: "ApeSwap", price: "0.85"},
	)

	quotes := svc.CollectQuotes(context.Background(), pair, decimal.RequireFromString("100"))
	if len(quotes) != 3 {
		t.Fatalf("quotes = %d, want 3", len(quotes))
	}

	want := []string{"QuickSwap", "SushiSwap", "ApeSwap"}
	for i, q := range quotes {
		if q.Venue.Name != want[i] {
			t.Errorf("quotes[%d] from %s, want %s", i, q.Venue.Name, want[i])
		}
	}
}

func TestMarketService_CollectQuotes_DropsFailures(t *testing.T) {
	svc, pair := testService(t,
		&fakeSource{name: "QuickSwap", price: "0.86"},
		&fakeSource{name: "SushiSwap", err: errors.New("execution reverted")},
		&fakeSource{name: "ApeSwap", price: "0.85"},
	)

	quotes := svc.CollectQuotes(context.Background(), pair, decimal.RequireFromString("100"))
	if len(quotes) != 2 {
		t.Fatalf("quotes = %d, want 2 (failure dropped)", len(quotes))
	}
	for _, q := range quotes {
		if q.Venue.Name == "SushiSwap" {
			t.Error("failed venue must not appear in results")
		}
	}
}

func TestMarketService_CollectQuotes_DropsInvalidPrices(t *testing.T) {
	svc, pair := testService(t,
		&fakeSource{name: "QuickSwap", price: "0"},
		&fakeSource{name: "SushiSwap", price: "0.84"},
	)

	quotes := svc.CollectQuotes(context.Background(), pair, decimal.RequireFromString("100"))
	if len(quotes) != 1 {
		t.Fatalf("quotes = %d, want 1 (zero price dropped)", len(quotes))
	}
	if quotes[0].Venue.Name != "SushiSwap" {
		t.Errorf("surviving quote from %s, want SushiSwap", quotes[0].Venue.Name)
	}
}

func TestMarketService_CollectQuotes_AllVenuesDown(t *testing.T) {
	svc, pair := testService(t,
		&fakeSource{name: "QuickSwap", err: errors.New("rate limited")},
		&fakeSource{name: "SushiSwap", err: errors.New("timeout")},
	)

	quotes := svc.CollectQuotes(context.Background(), pair, decimal.RequireFromString("100"))
	if len(quotes) != 0 {
		t.Fatalf("quotes = %d, want 0", len(quotes))
	}
}

func TestMarketService_Venues(t *testing.T) {
	svc, _ := testService(t,
		&fakeSource{name: "QuickSwap", price: "0.86"},
		&fakeSource{name: "SushiSwap", price: "0.84"},
	)

	venues := svc.Venues()
	if len(venues) != 2 || venues[0].Name != "QuickSwap" || venues[1].Name != "SushiSwap" {
		t.Errorf("venues = %v, want registration order", venues)
	}
}
