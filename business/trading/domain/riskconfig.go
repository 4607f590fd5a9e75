package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Slippage tolerance bounds, percent. Zero slippage is meaningless for
// an AMM trade and anything past 10% is a typo, not a strategy.
var (
	slippageMin = decimal.Zero
	slippageMax = decimal.NewFromInt(10)
)

// RiskConfig holds the operator-tunable risk limits. A cycle snapshots
// the whole struct at entry, so a mid-cycle change never produces a
// trade evaluated under mixed limits.
type RiskConfig struct {
	MinProfitUSD    decimal.Decimal // gross profit threshold, strict
	MaxGasPriceGwei decimal.Decimal // gas ceiling for the guard
	SlippagePercent decimal.Decimal // tolerance for execution
	Notional        decimal.Decimal // probe trade size in base tokens
	ScanInterval    time.Duration
}

// Validate checks all limits at once, used at load time.
func (r RiskConfig) Validate() error {
	if err := ValidateMinProfit(r.MinProfitUSD); err != nil {
		return err
	}
	if err := ValidateMaxGas(r.MaxGasPriceGwei); err != nil {
		return err
	}
	if err := ValidateSlippage(r.SlippagePercent); err != nil {
		return err
	}
	if !r.Notional.IsPositive() {
		return fmt.Errorf("notional must be positive, got %s", r.Notional)
	}
	if r.ScanInterval <= 0 {
		return fmt.Errorf("scan interval must be positive, got %s", r.ScanInterval)
	}
	return nil
}

// ValidateMinProfit checks an operator-supplied profit threshold.
func ValidateMinProfit(v decimal.Decimal) error {
	if !v.IsPositive() {
		return fmt.Errorf("min profit must be positive, got %s", v)
	}
	return nil
}

// ValidateMaxGas checks an operator-supplied gas ceiling.
func ValidateMaxGas(v decimal.Decimal) error {
	if !v.IsPositive() {
		return fmt.Errorf("max gas price must be positive, got %s", v)
	}
	return nil
}

// ValidateSlippage checks an operator-supplied slippage tolerance.
// The accepted range is (0, 10].
func ValidateSlippage(v decimal.Decimal) error {
	if !v.GreaterThan(slippageMin) || v.GreaterThan(slippageMax) {
		return fmt.Errorf("slippage must be in (0, 10] percent, got %s", v)
	}
	return nil
}
