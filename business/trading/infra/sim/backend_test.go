package sim

import (
	"context"
	"encoding/hex"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	marketDomain "github.com/fd1az/polygon-arb-bot/business/market/domain"
	"github.com/fd1az/polygon-arb-bot/business/trading/app"
	"github.com/fd1az/polygon-arb-bot/business/trading/domain"
	"github.com/fd1az/polygon-arb-bot/internal/asset"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

func testRequest(t *testing.T) app.TradeRequest {
	t.Helper()
	pair, err := marketDomain.NewTokenPair(asset.WMATIC, asset.USDC)
	if err != nil {
		t.Fatalf("pair: %v", err)
	}

	buy := marketDomain.Quote{Venue: marketDomain.Venue{Name: "SushiSwap"}, Pair: pair, Price: decimal.RequireFromString("0.84")}
	sell := marketDomain.Quote{Venue: marketDomain.Venue{Name: "QuickSwap"}, Pair: pair, Price: decimal.RequireFromString("0.86")}

	return app.TradeRequest{
		Opportunity:      domain.NewOpportunity(pair, buy, sell, decimal.RequireFromString("100")),
		SlippagePercent:  decimal.RequireFromString("0.5"),
		EstimatedCostUSD: decimal.RequireFromString("0.5"),
	}
}

func TestBackend_Submit(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	backend := New(10*time.Millisecond, log)

	if backend.Kind() != domain.TradeSimulated {
		t.Fatalf("kind = %s, want %s", backend.Kind(), domain.TradeSimulated)
	}

	outcome, err := backend.Submit(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if !outcome.Success {
		t.Error("simulated fills always succeed")
	}
	if outcome.Kind != domain.TradeSimulated {
		t.Errorf("outcome kind = %s, want %s", outcome.Kind, domain.TradeSimulated)
	}

	// 0x followed by 32 bytes of hex
	if !strings.HasPrefix(outcome.TxHash, "0x") || len(outcome.TxHash) != 66 {
		t.Fatalf("tx hash %q is not a 32-byte hex hash", outcome.TxHash)
	}
	if _, err := hex.DecodeString(outcome.TxHash[2:]); err != nil {
		t.Errorf("tx hash %q is not valid hex: %v", outcome.TxHash, err)
	}

	// gross 2.00 minus estimated cost 0.50
	if got := outcome.NetProfit.StringFixed(2); got != "1.50" {
		t.Errorf("net profit = %s, want 1.50", got)
	}
	if outcome.Duration < 10*time.Millisecond {
		t.Errorf("duration %s shorter than the fill delay", outcome.Duration)
	}
}

func TestBackend_Submit_HashesAreUnique(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	backend := New(time.Millisecond, log)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		outcome, err := backend.Submit(context.Background(), testRequest(t))
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if seen[outcome.TxHash] {
			t.Fatalf("duplicate tx hash %s", outcome.TxHash)
		}
		seen[outcome.TxHash] = true
	}
}

func TestBackend_Submit_CancelledContext(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	backend := New(time.Minute, log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := backend.Submit(ctx, testRequest(t)); err == nil {
		t.Fatal("expected an error when cancelled before the fill")
	}
}
