package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	marketDomain "github.com/fd1az/polygon-arb-bot/business/market/domain"
	"github.com/fd1az/polygon-arb-bot/business/trading/domain"
	"github.com/fd1az/polygon-arb-bot/internal/apperror"
)

// stubQuotes serves fixed prices, optionally holding each call until
// release is closed.
type stubQuotes struct {
	prices  []string
	entered chan struct{} // signalled when a collect call starts
	release chan struct{} // when non-nil, collect blocks until closed
}

func (s *stubQuotes) CollectQuotes(ctx context.Context, pair marketDomain.TokenPair, _ decimal.Decimal) []marketDomain.Quote {
	if s.entered != nil {
		select {
		case s.entered <- struct{}{}:
		default:
		}
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil
		}
	}

	venues := []string{"QuickSwap", "SushiSwap", "ApeSwap"}
	quotes := make([]marketDomain.Quote, 0, len(s.prices))
	for i, p := range s.prices {
		quotes = append(quotes, makeQuote(venues[i], pair, p))
	}
	return quotes
}

// stubBackend fills trades instantly.
type stubBackend struct{}

func (stubBackend) Kind() domain.TradeKind { return domain.TradeSimulated }

func (stubBackend) Submit(_ context.Context, req TradeRequest) (domain.TradeOutcome, error) {
	return domain.TradeOutcome{
		Kind:        domain.TradeSimulated,
		Opportunity: req.Opportunity,
		TxHash:      "0xstub",
		NetProfit:   req.Opportunity.GrossProfit.Sub(req.EstimatedCostUSD),
		Success:     true,
		ExecutedAt:  time.Now(),
	}, nil
}

func newTestController(t *testing.T, quotes *stubQuotes) *Controller {
	t.Helper()
	log := testLogger()

	guard := NewGuard(stubGasPricer{gwei: "30"}, nil, stubCosts{usd: "0.5"}, log)
	executor := NewExecutor(stubBackend{}, log)

	risk := domain.RiskConfig{
		MinProfitUSD:    decimal.RequireFromString("1"),
		MaxGasPriceGwei: decimal.RequireFromString("50"),
		SlippagePercent: decimal.RequireFromString("0.5"),
		Notional:        decimal.RequireFromString("100"),
		ScanInterval:    30 * time.Second,
	}

	return NewController(quotes, NewDetector(log), guard, executor,
		[]marketDomain.TokenPair{testPair(t)}, risk, log)
}

func TestController_RunCycle_Disabled(t *testing.T) {
	c := newTestController(t, &stubQuotes{prices: []string{"0.86", "0.84"}})

	_, err := c.RunCycle(context.Background())
	if apperror.GetCode(err) != apperror.CodeTradingDisabled {
		t.Fatalf("expected %s, got %v", apperror.CodeTradingDisabled, err)
	}
}

func TestController_RunCycle_HappyPath(t *testing.T) {
	c := newTestController(t, &stubQuotes{prices: []string{"0.86", "0.84"}})
	c.Enable()

	report, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.OpportunityCount() != 1 {
		t.Fatalf("opportunities = %d, want 1", report.OpportunityCount())
	}
	if report.TradeCount() != 1 {
		t.Fatalf("trades = %d, want 1", report.TradeCount())
	}

	pr := report.Pairs[0]
	if pr.Decision == nil || !pr.Decision.Approved {
		t.Fatal("expected an approved decision")
	}
	if pr.Outcome == nil || !pr.Outcome.Success {
		t.Fatal("expected a successful outcome")
	}
	// gross 2.00 minus flat cost 0.50
	if got := pr.Outcome.NetProfit.StringFixed(2); got != "1.50" {
		t.Errorf("net profit = %s, want 1.50", got)
	}

	state := c.State()
	if state.CyclesRun != 1 || state.TradesDone != 1 || state.Opportunities != 1 {
		t.Errorf("state counters = %+v, want one of each", state)
	}
	if state.Phase != domain.PhaseIdle {
		t.Errorf("phase = %s, want idle after cycle", state.Phase)
	}
}

func TestController_RunCycle_MutualExclusion(t *testing.T) {
	quotes := &stubQuotes{
		prices:  []string{"0.86", "0.84"},
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	c := newTestController(t, quotes)
	c.Enable()

	firstDone := make(chan error, 1)
	go func() {
		_, err := c.RunCycle(context.Background())
		firstDone <- err
	}()

	// wait until the first cycle is inside quote collection
	select {
	case <-quotes.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle never started collecting quotes")
	}

	_, err := c.RunCycle(context.Background())
	if apperror.GetCode(err) != apperror.CodeCycleInProgress {
		t.Fatalf("expected %s, got %v", apperror.CodeCycleInProgress, err)
	}

	close(quotes.release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first cycle failed: %v", err)
	}

	// lock released, a new cycle runs fine
	if _, err := c.RunCycle(context.Background()); err != nil {
		t.Fatalf("follow-up cycle failed: %v", err)
	}
}

func TestController_RunCycle_GuardInputsUnavailable(t *testing.T) {
	log := testLogger()
	guard := NewGuard(stubGasPricer{err: errors.New("rpc timeout")}, nil, stubCosts{usd: "0.5"}, log)
	executor := NewExecutor(stubBackend{}, log)

	c := NewController(&stubQuotes{prices: []string{"0.86", "0.84"}}, NewDetector(log),
		guard, executor, []marketDomain.TokenPair{testPair(t)}, testRisk("50"), log)
	c.Enable()

	report, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// detection still runs; only execution is suppressed
	if report.OpportunityCount() != 1 {
		t.Errorf("opportunities = %d, want 1", report.OpportunityCount())
	}
	if report.TradeCount() != 0 {
		t.Errorf("trades = %d, want 0 without guard inputs", report.TradeCount())
	}
	if c.State().LastErrorMsg == "" {
		t.Error("the input failure should be recorded in the bot state")
	}
}

func TestController_RunCycle_TradesWithBaseBalanceOnly(t *testing.T) {
	log := testLogger()
	// wallet holds plenty of the base token and none of the quote token
	guard := NewGuard(stubGasPricer{gwei: "30"}, stubBalances{wmatic: "1000", usdc: "0"}, stubCosts{usd: "0.5"}, log)
	executor := NewExecutor(stubBackend{}, log)

	c := NewController(&stubQuotes{prices: []string{"0.86", "0.84"}}, NewDetector(log),
		guard, executor, []marketDomain.TokenPair{testPair(t)}, testRisk("50"), log)
	c.Enable()

	report, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TradeCount() != 1 {
		pr := report.Pairs[0]
		if pr.Decision != nil {
			t.Fatalf("trades = %d, want 1 (rejected: %s %s)", report.TradeCount(), pr.Decision.Reason, pr.Decision.Detail)
		}
		t.Fatalf("trades = %d, want 1", report.TradeCount())
	}
}

func TestController_Scan_WorksWhileDisabled(t *testing.T) {
	c := newTestController(t, &stubQuotes{prices: []string{"0.86", "0.84"}})

	report, err := c.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.OpportunityCount() != 1 {
		t.Fatalf("opportunities = %d, want 1", report.OpportunityCount())
	}
	if report.TradeCount() != 0 {
		t.Fatalf("scan must not execute, got %d trades", report.TradeCount())
	}
}

func TestController_RiskSnapshotPerCycle(t *testing.T) {
	quotes := &stubQuotes{
		prices:  []string{"0.86", "0.84"},
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	c := newTestController(t, quotes)
	c.Enable()

	done := make(chan domain.CycleReport, 1)
	go func() {
		report, _ := c.RunCycle(context.Background())
		done <- report
	}()

	select {
	case <-quotes.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("cycle never started")
	}

	// change the threshold mid-cycle; the running cycle keeps its snapshot
	if err := c.SetMinProfit(decimal.RequireFromString("99")); err != nil {
		t.Fatalf("set min profit: %v", err)
	}
	close(quotes.release)

	report := <-done
	if got := report.Risk.MinProfitUSD.StringFixed(0); got != "1" {
		t.Errorf("cycle risk snapshot = %s, want the value at cycle entry (1)", got)
	}
	if report.OpportunityCount() != 1 {
		t.Errorf("opportunities = %d, want 1 under the old threshold", report.OpportunityCount())
	}

	// the next cycle sees the new threshold and finds nothing
	report, err := c.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if report.OpportunityCount() != 0 {
		t.Errorf("opportunities = %d, want 0 under the raised threshold", report.OpportunityCount())
	}
}

func TestController_SetLimits(t *testing.T) {
	c := newTestController(t, &stubQuotes{prices: []string{"0.86", "0.84"}})

	if err := c.SetMaxGas(decimal.RequireFromString("60")); err != nil {
		t.Fatalf("setgas 60: %v", err)
	}
	if got := c.RiskConfig().MaxGasPriceGwei.StringFixed(0); got != "60" {
		t.Errorf("max gas = %s, want 60", got)
	}

	// out-of-range slippage is rejected and the old value survives
	if err := c.SetSlippage(decimal.RequireFromString("11")); err == nil {
		t.Fatal("setslippage 11 should be rejected")
	}
	if got := c.RiskConfig().SlippagePercent.StringFixed(1); got != "0.5" {
		t.Errorf("slippage = %s, want prior value 0.5", got)
	}

	if err := c.SetSlippage(decimal.RequireFromString("10")); err != nil {
		t.Errorf("setslippage 10 is the inclusive upper bound: %v", err)
	}
	if err := c.SetSlippage(decimal.RequireFromString("0")); err == nil {
		t.Error("setslippage 0 should be rejected")
	}

	if err := c.SetMinProfit(decimal.RequireFromString("-1")); err == nil {
		t.Error("negative min profit should be rejected")
	}
	if err := c.SetMinProfit(decimal.Zero); err == nil {
		t.Error("zero min profit should be rejected")
	}
	if got := c.RiskConfig().MinProfitUSD.StringFixed(0); got != "1" {
		t.Errorf("min profit = %s, want the prior value 1 after rejections", got)
	}
}

func TestController_EnableDisable(t *testing.T) {
	c := newTestController(t, &stubQuotes{prices: []string{"0.86", "0.84"}})

	if c.Enabled() {
		t.Fatal("bot must start disabled")
	}
	if !c.Enable() {
		t.Error("first enable should report a change")
	}
	if c.Enable() {
		t.Error("second enable should be a no-op")
	}
	if !c.Disable() {
		t.Error("disable should report a change")
	}
	if c.Disable() {
		t.Error("second disable should be a no-op")
	}
}
