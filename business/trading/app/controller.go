package app

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	marketDomain "github.com/fd1az/polygon-arb-bot/business/market/domain"
	"github.com/fd1az/polygon-arb-bot/business/trading/domain"
	"github.com/fd1az/polygon-arb-bot/internal/apperror"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

// Controller owns the trading lifecycle: whether the bot is enabled,
// the current risk limits, and the run of a scan cycle. At most one
// cycle runs at a time; concurrent triggers are refused, never queued.
// Disabling the bot stops future cycles but never aborts one in flight.
type Controller struct {
	market   QuoteProvider
	detector *Detector
	guard    *Guard
	executor *Executor
	pairs    []marketDomain.TokenPair
	logger   logger.LoggerInterface

	// runMu is held for the whole of a cycle. TryLock keeps triggers
	// non-blocking: a second trigger fails fast instead of queueing.
	runMu sync.Mutex

	mu          sync.RWMutex
	risk        domain.RiskConfig
	enabled     bool
	phase       domain.Phase
	cycles      uint64
	trades      uint64
	opps        uint64
	lastCycleAt time.Time
	lastErr     string
}

// NewController creates a Controller. The bot starts disabled; the
// operator or the scheduler owner enables it explicitly.
func NewController(
	market QuoteProvider,
	detector *Detector,
	guard *Guard,
	executor *Executor,
	pairs []marketDomain.TokenPair,
	risk domain.RiskConfig,
	log logger.LoggerInterface,
) *Controller {
	return &Controller{
		market:   market,
		detector: detector,
		guard:    guard,
		executor: executor,
		pairs:    pairs,
		risk:     risk,
		phase:    domain.PhaseIdle,
		logger:   log,
	}
}

// Enable turns the bot on. Returns false if it was already enabled.
func (c *Controller) Enable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled {
		return false
	}
	c.enabled = true
	return true
}

// Disable turns the bot off. Returns false if it was already disabled.
// An in-flight cycle finishes normally.
func (c *Controller) Disable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return false
	}
	c.enabled = false
	return true
}

// Enabled reports whether the bot is currently enabled.
func (c *Controller) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// State returns a snapshot of the controller's externally visible state.
func (c *Controller) State() domain.BotState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.BotState{
		Enabled:       c.enabled,
		Phase:         c.phase,
		CyclesRun:     c.cycles,
		TradesDone:    c.trades,
		Opportunities: c.opps,
		LastCycleAt:   c.lastCycleAt,
		LastErrorMsg:  c.lastErr,
	}
}

// RiskConfig returns a copy of the current risk limits.
func (c *Controller) RiskConfig() domain.RiskConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.risk
}

// Pairs returns the pairs the controller scans.
func (c *Controller) Pairs() []marketDomain.TokenPair {
	return c.pairs
}

// SetMinProfit updates the gross profit threshold. The running cycle,
// if any, keeps its snapshot.
func (c *Controller) SetMinProfit(v decimal.Decimal) error {
	if err := domain.ValidateMinProfit(v); err != nil {
		return err
	}
	c.mu.Lock()
	c.risk.MinProfitUSD = v
	c.mu.Unlock()
	return nil
}

// SetMaxGas updates the gas ceiling.
func (c *Controller) SetMaxGas(v decimal.Decimal) error {
	if err := domain.ValidateMaxGas(v); err != nil {
		return err
	}
	c.mu.Lock()
	c.risk.MaxGasPriceGwei = v
	c.mu.Unlock()
	return nil
}

// SetSlippage updates the slippage tolerance. An out-of-range value is
// rejected and the previous tolerance stays in force.
func (c *Controller) SetSlippage(v decimal.Decimal) error {
	if err := domain.ValidateSlippage(v); err != nil {
		return err
	}
	c.mu.Lock()
	c.risk.SlippagePercent = v
	c.mu.Unlock()
	return nil
}

// ExecutionKind reports whether trades are simulated or live.
func (c *Controller) ExecutionKind() domain.TradeKind {
	return c.executor.Kind()
}

// Scan runs detection only: quotes are collected and compared, nothing
// is executed. Works whether or not the bot is enabled.
func (c *Controller) Scan(ctx context.Context) (domain.CycleReport, error) {
	if !c.runMu.TryLock() {
		return domain.CycleReport{}, apperror.New(apperror.CodeCycleInProgress)
	}
	defer c.runMu.Unlock()

	return c.cycle(ctx, false), nil
}

// RunCycle runs one full cycle: scan, guard, execute. Refused when the
// bot is disabled or another cycle is in flight.
func (c *Controller) RunCycle(ctx context.Context) (domain.CycleReport, error) {
	if !c.Enabled() {
		return domain.CycleReport{}, apperror.New(apperror.CodeTradingDisabled)
	}
	if !c.runMu.TryLock() {
		return domain.CycleReport{}, apperror.New(apperror.CodeCycleInProgress)
	}
	defer c.runMu.Unlock()

	return c.cycle(ctx, true), nil
}

// cycle does the actual work. Caller holds runMu.
func (c *Controller) cycle(ctx context.Context, execute bool) domain.CycleReport {
	risk := c.RiskConfig() // snapshot: limit changes apply from the next cycle
	start := time.Now()

	report := domain.CycleReport{
		StartedAt: start,
		Risk:      risk,
		Pairs:     make([]domain.PairReport, 0, len(c.pairs)),
	}

	// Guard inputs are read once per cycle so every opportunity in the
	// cycle is judged against the same gas price and balances. If they
	// cannot be read, the cycle degrades to detection only.
	var inputs GuardInputs
	if execute {
		in, err := c.guard.Inputs(ctx)
		if err != nil {
			c.logger.Warn(ctx, "guard inputs unavailable, detection only this cycle", "error", err)
			c.mu.Lock()
			c.lastErr = err.Error()
			c.mu.Unlock()
			execute = false
		} else {
			inputs = in
		}
	}

	for _, pair := range c.pairs {
		report.Pairs = append(report.Pairs, c.scanPair(ctx, pair, risk, inputs, execute))

		select {
		case <-ctx.Done():
			c.logger.Info(ctx, "cycle interrupted", "reason", ctx.Err())
			c.finishCycle(report, start)
			return report
		default:
		}
	}

	c.finishCycle(report, start)

	c.logger.Info(ctx, "cycle complete",
		"pairs", len(report.Pairs),
		"opportunities", report.OpportunityCount(),
		"trades", report.TradeCount(),
		"duration", time.Since(start))

	return report
}

func (c *Controller) scanPair(ctx context.Context, pair marketDomain.TokenPair, risk domain.RiskConfig, inputs GuardInputs, execute bool) domain.PairReport {
	pr := domain.PairReport{Pair: pair.String()}

	c.setPhase(domain.PhaseScanning)
	quotes := c.market.CollectQuotes(ctx, pair, risk.Notional)
	pr.Quotes = len(quotes)

	opp, found := c.detector.Detect(ctx, pair, quotes, risk.Notional, risk.MinProfitUSD)
	if !found {
		return pr
	}
	pr.Opportunity = &opp

	c.mu.Lock()
	c.opps++
	c.mu.Unlock()

	if !execute {
		return pr
	}

	c.setPhase(domain.PhaseEvaluating)
	decision := Evaluate(opp, inputs, risk)
	pr.Decision = &decision
	if !decision.Approved {
		c.logger.Info(ctx, "trade rejected",
			"pair", pair.String(),
			"reason", decision.Reason,
			"detail", decision.Detail)
		return pr
	}

	c.setPhase(domain.PhaseExecuting)
	outcome := c.executor.Execute(ctx, opp, risk.SlippagePercent, decision.CostUSD)
	pr.Outcome = &outcome

	c.mu.Lock()
	c.trades++
	if !outcome.Success {
		c.lastErr = outcome.FailureMsg
	}
	c.mu.Unlock()

	return pr
}

func (c *Controller) finishCycle(report domain.CycleReport, start time.Time) {
	report.Duration = time.Since(start)

	c.mu.Lock()
	c.cycles++
	c.lastCycleAt = start
	c.phase = domain.PhaseIdle
	c.mu.Unlock()
}

func (c *Controller) setPhase(p domain.Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}
