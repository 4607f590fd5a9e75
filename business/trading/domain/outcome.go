package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeKind distinguishes paper trades from on-chain ones.
type TradeKind string

const (
	TradeSimulated TradeKind = "SIMULATED"
	TradeLive      TradeKind = "LIVE"
)

// TradeOutcome is the result of one trade attempt. Execution failures
// are carried here as values, not as Go errors: a reverted or rejected
// trade is a normal outcome the cycle must keep running past.
type TradeOutcome struct {
	Kind        TradeKind
	Opportunity Opportunity
	TxHash      string
	NetProfit   decimal.Decimal
	Success     bool
	FailureMsg  string // set when Success is false
	ExecutedAt  time.Time
	Duration    time.Duration
}
