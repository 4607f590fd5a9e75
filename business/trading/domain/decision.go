package domain

import (
	"github.com/shopspring/decimal"
)

// RejectReason classifies why the guard turned a trade down.
type RejectReason string

const (
	ReasonGasTooHigh          RejectReason = "GAS_TOO_HIGH"
	ReasonInsufficientBalance RejectReason = "INSUFFICIENT_BALANCE"
	ReasonUnprofitable        RejectReason = "UNPROFITABLE_AFTER_COSTS"
)

// GuardDecision is the guard's verdict on one opportunity.
type GuardDecision struct {
	Approved bool
	Reason   RejectReason // set when rejected
	Detail   string

	GasPriceGwei decimal.Decimal
	CostUSD      decimal.Decimal // estimated execution cost
	NetProfit    decimal.Decimal // gross minus costs, set when computed
}

// Approve builds an approving decision.
func Approve(gasGwei, costUSD, netProfit decimal.Decimal) GuardDecision {
	return GuardDecision{
		Approved:     true,
		GasPriceGwei: gasGwei,
		CostUSD:      costUSD,
		NetProfit:    netProfit,
	}
}

// Reject builds a rejecting decision.
func Reject(reason RejectReason, detail string) GuardDecision {
	return GuardDecision{
		Approved: false,
		Reason:   reason,
		Detail:   detail,
	}
}
