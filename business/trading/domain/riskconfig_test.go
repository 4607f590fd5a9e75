package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validRisk() RiskConfig {
	return RiskConfig{
		MinProfitUSD:    decimal.RequireFromString("5"),
		MaxGasPriceGwei: decimal.RequireFromString("50"),
		SlippagePercent: decimal.RequireFromString("0.5"),
		Notional:        decimal.RequireFromString("100"),
		ScanInterval:    30 * time.Second,
	}
}

func TestRiskConfig_Validate(t *testing.T) {
	if err := validRisk().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*RiskConfig)
	}{
		{"negative_min_profit", func(r *RiskConfig) { r.MinProfitUSD = decimal.RequireFromString("-1") }},
		{"zero_min_profit", func(r *RiskConfig) { r.MinProfitUSD = decimal.Zero }},
		{"zero_max_gas", func(r *RiskConfig) { r.MaxGasPriceGwei = decimal.Zero }},
		{"zero_slippage", func(r *RiskConfig) { r.SlippagePercent = decimal.Zero }},
		{"slippage_above_ten", func(r *RiskConfig) { r.SlippagePercent = decimal.RequireFromString("10.01") }},
		{"zero_notional", func(r *RiskConfig) { r.Notional = decimal.Zero }},
		{"zero_interval", func(r *RiskConfig) { r.ScanInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRisk()
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestValidateSlippage_Bounds(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"0", false},
		{"-1", false},
		{"0.01", true},
		{"0.5", true},
		{"10", true}, // inclusive upper bound
		{"10.0001", false},
		{"11", false},
	}

	for _, tt := range tests {
		err := ValidateSlippage(decimal.RequireFromString(tt.value))
		if (err == nil) != tt.ok {
			t.Errorf("ValidateSlippage(%s): err = %v, want ok=%v", tt.value, err, tt.ok)
		}
	}
}

func TestValidateMinProfit_RequiresPositive(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"-0.01", false},
		{"0", false},
		{"0.01", true},
		{"5", true},
	}

	for _, tt := range tests {
		err := ValidateMinProfit(decimal.RequireFromString(tt.value))
		if (err == nil) != tt.ok {
			t.Errorf("ValidateMinProfit(%s): err = %v, want ok=%v", tt.value, err, tt.ok)
		}
	}
}
