package domain

import (
	"time"
)

// Phase is what the bot is doing right now.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseScanning   Phase = "scanning"
	PhaseEvaluating Phase = "evaluating"
	PhaseExecuting  Phase = "executing"
)

// BotState is the controller's externally visible state.
type BotState struct {
	Enabled       bool
	Phase         Phase
	CyclesRun     uint64
	TradesDone    uint64
	LastCycleAt   time.Time
	LastErrorMsg  string
	Opportunities uint64
}

// PairReport is one pair's result within a cycle.
type PairReport struct {
	Pair        string
	Quotes      int
	Opportunity *Opportunity  // nil when no divergence cleared the threshold
	Decision    *GuardDecision // nil when nothing was evaluated
	Outcome     *TradeOutcome  // nil when nothing was executed
}

// CycleReport summarizes one full scan cycle.
type CycleReport struct {
	StartedAt time.Time
	Duration  time.Duration
	Pairs     []PairReport
	Risk      RiskConfig // the snapshot the cycle ran under
}

// OpportunityCount returns how many pairs produced an opportunity.
func (c CycleReport) OpportunityCount() int {
	n := 0
	for _, p := range c.Pairs {
		if p.Opportunity != nil {
			n++
		}
	}
	return n
}

// TradeCount returns how many trades were attempted.
func (c CycleReport) TradeCount() int {
	n := 0
	for _, p := range c.Pairs {
		if p.Outcome != nil {
			n++
		}
	}
	return n
}
