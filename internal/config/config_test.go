package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POLYGON_RPC_URL", "https://polygon-rpc.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(cfg.Venues) != 2 {
		t.Errorf("venues = %d, want the two defaults", len(cfg.Venues))
	}
	if len(cfg.Trading.Pairs) != 3 {
		t.Errorf("pairs = %d, want 3 defaults", len(cfg.Trading.Pairs))
	}
	if cfg.Trading.ScanInterval != 30*time.Second {
		t.Errorf("scan interval = %s, want 30s", cfg.Trading.ScanInterval)
	}
	if cfg.Polygon.ChainID != 137 {
		t.Errorf("chain id = %d, want 137", cfg.Polygon.ChainID)
	}
	if cfg.Polygon.GasSource != GasSourceRPC {
		t.Errorf("gas source = %s, want %s", cfg.Polygon.GasSource, GasSourceRPC)
	}
	if cfg.Trading.GasCostMode != GasCostModeFlat {
		t.Errorf("gas cost mode = %s, want %s", cfg.Trading.GasCostMode, GasCostModeFlat)
	}
	if got := cfg.Trading.MinProfitUSDDecimal().String(); got != "5" {
		t.Errorf("min profit = %s, want 5", got)
	}
	if got := cfg.Trading.MaxGasPriceGweiDecimal().String(); got != "50" {
		t.Errorf("max gas = %s, want 50", got)
	}
	if cfg.Wallet.HasWallet() {
		t.Error("no wallet configured, HasWallet should be false")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("POLYGON_RPC_URL", "https://polygon-rpc.com")
	t.Setenv("MIN_PROFIT_USD", "2.5")
	t.Setenv("MAX_GAS_GWEI", "80")
	t.Setenv("SLIPPAGE_TOLERANCE", "1.25")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := cfg.Trading.MinProfitUSDDecimal().String(); got != "2.5" {
		t.Errorf("min profit = %s, want 2.5", got)
	}
	if got := cfg.Trading.MaxGasPriceGweiDecimal().String(); got != "80" {
		t.Errorf("max gas = %s, want 80", got)
	}
	if got := cfg.Trading.SlippageDecimal().String(); got != "1.25" {
		t.Errorf("slippage = %s, want 1.25", got)
	}
}

func TestLoad_MissingRPCURL(t *testing.T) {
	t.Setenv("POLYGON_RPC_URL", "")
	t.Setenv("ARB_POLYGON_RPC_URL", "")

	if _, err := Load(""); err == nil {
		t.Fatal("load without an RPC URL must fail")
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Polygon: PolygonConfig{
				HTTPURL:   "https://polygon-rpc.com",
				ChainID:   137,
				GasSource: GasSourceRPC,
			},
			Venues: DefaultVenues(),
			Trading: TradingConfig{
				Pairs:           []string{"WMATIC-USDC"},
				NotionalAmount:  100,
				MinProfitUSD:    5,
				MaxGasPriceGwei: 50,
				SlippagePercent: 0.5,
				ScanInterval:    30 * time.Second,
				GasCostMode:     GasCostModeFlat,
				FlatGasCostUSD:  5,
				GasLimit:        250_000,
				RPCRateLimit:    600,
			},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing_rpc_url", func(c *Config) { c.Polygon.HTTPURL = "" }},
		{"single_venue", func(c *Config) { c.Venues = c.Venues[:1] }},
		{"bad_router_address", func(c *Config) { c.Venues[0].Router = "not-an-address" }},
		{"bad_wallet_address", func(c *Config) { c.Wallet.Address = "0xzz" }},
		{"no_pairs", func(c *Config) { c.Trading.Pairs = nil }},
		{"zero_notional", func(c *Config) { c.Trading.NotionalAmount = 0 }},
		{"slippage_zero", func(c *Config) { c.Trading.SlippagePercent = 0 }},
		{"slippage_eleven", func(c *Config) { c.Trading.SlippagePercent = 11 }},
		{"bad_gas_cost_mode", func(c *Config) { c.Trading.GasCostMode = "psychic" }},
		{"bad_gas_source", func(c *Config) { c.Polygon.GasSource = "divination" }},
		{"zero_scan_interval", func(c *Config) { c.Trading.ScanInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestVenueConfig_Addresses(t *testing.T) {
	venues := DefaultVenues()
	for _, v := range venues {
		if v.RouterHex().Hex() == "0x0000000000000000000000000000000000000000" {
			t.Errorf("%s router parsed to zero address", v.Name)
		}
		if v.FactoryHex().Hex() == "0x0000000000000000000000000000000000000000" {
			t.Errorf("%s factory parsed to zero address", v.Name)
		}
	}
}
