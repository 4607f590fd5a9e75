// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Polygon   PolygonConfig   `mapstructure:"polygon"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
	Venues    []VenueConfig   `mapstructure:"venues"`
	Trading   TradingConfig   `mapstructure:"trading"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// Gas price sources and trade cost estimation modes.
const (
	GasSourceRPC     = "rpc"
	GasSourceStation = "station"

	GasCostModeFlat   = "flat"
	GasCostModeOracle = "oracle"
)

// PolygonConfig holds Polygon node configuration.
type PolygonConfig struct {
	HTTPURL        string        `mapstructure:"http_url"`
	WebSocketURL   string        `mapstructure:"websocket_url"`
	ChainID        uint64        `mapstructure:"chain_id"`
	GasSource      string        `mapstructure:"gas_source"` // "rpc" or "station"
	GasStationURL  string        `mapstructure:"gas_station_url"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

// WalletConfig holds the operator wallet settings.
// PrivateKey is optional: without it the bot runs in read-only mode and
// trade execution stays simulated.
type WalletConfig struct {
	Address    string `mapstructure:"address"`
	PrivateKey string `mapstructure:"private_key"`
}

// HasWallet reports whether a wallet address is configured.
func (c *WalletConfig) HasWallet() bool {
	return common.IsHexAddress(c.Address)
}

// AddressHex returns the wallet address as common.Address.
func (c *WalletConfig) AddressHex() common.Address {
	return common.HexToAddress(c.Address)
}

// VenueConfig holds one DEX router configuration.
type VenueConfig struct {
	Name    string `mapstructure:"name"`
	Router  string `mapstructure:"router"`
	Factory string `mapstructure:"factory"`
}

// RouterHex returns the router address as common.Address.
func (c *VenueConfig) RouterHex() common.Address {
	return common.HexToAddress(c.Router)
}

// FactoryHex returns the factory address as common.Address.
func (c *VenueConfig) FactoryHex() common.Address {
	return common.HexToAddress(c.Factory)
}

// TradingConfig holds risk limits and cycle settings.
type TradingConfig struct {
	Pairs           []string      `mapstructure:"pairs"`
	NotionalAmount  float64       `mapstructure:"notional_amount"`
	MinProfitUSD    float64       `mapstructure:"min_profit_usd"`
	MaxGasPriceGwei float64       `mapstructure:"max_gas_gwei"`
	SlippagePercent float64       `mapstructure:"slippage_percent"`
	ScanInterval    time.Duration `mapstructure:"scan_interval"`
	GasCostMode     string        `mapstructure:"gas_cost_mode"` // "flat" or "oracle"
	FlatGasCostUSD  float64       `mapstructure:"flat_gas_cost_usd"`
	GasLimit        uint64        `mapstructure:"gas_limit"`
	RPCRateLimit    int           `mapstructure:"rpc_rate_limit"` // requests per minute
}

// NotionalDecimal returns the probe trade size as decimal.Decimal.
func (c *TradingConfig) NotionalDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.NotionalAmount)
}

// MinProfitUSDDecimal returns min profit USD as decimal.Decimal.
func (c *TradingConfig) MinProfitUSDDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitUSD)
}

// MaxGasPriceGweiDecimal returns the gas ceiling as decimal.Decimal.
func (c *TradingConfig) MaxGasPriceGweiDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxGasPriceGwei)
}

// SlippageDecimal returns slippage tolerance as decimal.Decimal.
func (c *TradingConfig) SlippageDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SlippagePercent)
}

// FlatGasCostUSDDecimal returns the flat gas estimate as decimal.Decimal.
func (c *TradingConfig) FlatGasCostUSDDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.FlatGasCostUSD)
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Venues) == 0 {
		cfg.Venues = DefaultVenues()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultVenues returns the Polygon venues the bot quotes by default.
func DefaultVenues() []VenueConfig {
	return []VenueConfig{
		{
			Name:    "QuickSwap",
			Router:  "0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff",
			Factory: "0x5757371414417b8C6CAad45bAeF941aBc7d3Ab32",
		},
		{
			Name:    "SushiSwap",
			Router:  "0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506",
			Factory: "0xc35DADB65012eC5796536bD9864eD8773aBc74C4",
		},
	}
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	// Polygon
	v.BindEnv("polygon.http_url", "ARB_POLYGON_RPC_URL", "POLYGON_RPC_URL")
	v.BindEnv("polygon.websocket_url", "ARB_POLYGON_WS_URL", "POLYGON_WS_URL")
	v.BindEnv("polygon.chain_id", "ARB_POLYGON_CHAIN_ID")
	v.BindEnv("polygon.gas_station_url", "ARB_GAS_STATION_URL")

	// Wallet
	v.BindEnv("wallet.address", "ARB_WALLET_ADDRESS", "WALLET_ADDRESS")
	v.BindEnv("wallet.private_key", "ARB_PRIVATE_KEY", "PRIVATE_KEY")

	// Trading
	v.BindEnv("trading.pairs", "ARB_PAIRS")
	v.BindEnv("trading.min_profit_usd", "ARB_MIN_PROFIT_USD", "MIN_PROFIT_USD")
	v.BindEnv("trading.max_gas_gwei", "ARB_MAX_GAS_GWEI", "MAX_GAS_GWEI")
	v.BindEnv("trading.slippage_percent", "ARB_SLIPPAGE_TOLERANCE", "SLIPPAGE_TOLERANCE")
	v.BindEnv("trading.scan_interval", "ARB_SCAN_INTERVAL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "polygon-arb-bot")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Polygon defaults
	v.SetDefault("polygon.chain_id", 137)
	v.SetDefault("polygon.gas_source", "rpc")
	v.SetDefault("polygon.gas_station_url", "https://gasstation.polygon.technology")
	v.SetDefault("polygon.max_reconnects", 0) // infinite
	v.SetDefault("polygon.initial_backoff", "1s")
	v.SetDefault("polygon.max_backoff", "30s")

	// Trading defaults
	v.SetDefault("trading.pairs", []string{"WMATIC-USDC", "WETH-USDC", "DAI-USDC"})
	v.SetDefault("trading.notional_amount", 100)
	v.SetDefault("trading.min_profit_usd", 5)
	v.SetDefault("trading.max_gas_gwei", 50)
	v.SetDefault("trading.slippage_percent", 0.5)
	v.SetDefault("trading.scan_interval", "30s")
	v.SetDefault("trading.gas_cost_mode", "flat")
	v.SetDefault("trading.flat_gas_cost_usd", 5)
	v.SetDefault("trading.gas_limit", 250_000) // two swap legs
	v.SetDefault("trading.rpc_rate_limit", 600)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "polygon-arb-bot")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Polygon.HTTPURL == "" {
		return fmt.Errorf("polygon.http_url is required")
	}
	if len(c.Venues) < 2 {
		return fmt.Errorf("at least two venues are required, got %d", len(c.Venues))
	}
	for _, venue := range c.Venues {
		if venue.Name == "" {
			return fmt.Errorf("venue name cannot be empty")
		}
		if !common.IsHexAddress(venue.Router) {
			return fmt.Errorf("invalid router address for %s: %s", venue.Name, venue.Router)
		}
	}
	if c.Wallet.Address != "" && !common.IsHexAddress(c.Wallet.Address) {
		return fmt.Errorf("invalid wallet.address: %s", c.Wallet.Address)
	}
	if len(c.Trading.Pairs) == 0 {
		return fmt.Errorf("trading.pairs cannot be empty")
	}
	if c.Trading.NotionalAmount <= 0 {
		return fmt.Errorf("trading.notional_amount must be positive")
	}
	if c.Trading.SlippagePercent <= 0 || c.Trading.SlippagePercent > 10 {
		return fmt.Errorf("trading.slippage_percent must be in (0, 10], got %v", c.Trading.SlippagePercent)
	}
	if c.Trading.ScanInterval <= 0 {
		return fmt.Errorf("trading.scan_interval must be positive")
	}
	if mode := c.Trading.GasCostMode; mode != GasCostModeFlat && mode != GasCostModeOracle {
		return fmt.Errorf("trading.gas_cost_mode must be %q or %q, got %q", GasCostModeFlat, GasCostModeOracle, mode)
	}
	if src := c.Polygon.GasSource; src != GasSourceRPC && src != GasSourceStation {
		return fmt.Errorf("polygon.gas_source must be %q or %q, got %q", GasSourceRPC, GasSourceStation, src)
	}
	return nil
}
