// Package main is the entry point for the Polygon DEX arbitrage bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fd1az/polygon-arb-bot/business/chain"
	chainDI "github.com/fd1az/polygon-arb-bot/business/chain/di"
	chainDomain "github.com/fd1az/polygon-arb-bot/business/chain/domain"
	"github.com/fd1az/polygon-arb-bot/business/market"
	"github.com/fd1az/polygon-arb-bot/business/operator"
	operatorDI "github.com/fd1az/polygon-arb-bot/business/operator/di"
	"github.com/fd1az/polygon-arb-bot/business/operator/infra/repl"
	"github.com/fd1az/polygon-arb-bot/business/trading"
	tradingDI "github.com/fd1az/polygon-arb-bot/business/trading/di"
	tradingDomain "github.com/fd1az/polygon-arb-bot/business/trading/domain"
	"github.com/fd1az/polygon-arb-bot/internal/apm"
	"github.com/fd1az/polygon-arb-bot/internal/config"
	"github.com/fd1az/polygon-arb-bot/internal/health"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
	"github.com/fd1az/polygon-arb-bot/internal/metrics"
	"github.com/fd1az/polygon-arb-bot/internal/monolith"
	"github.com/fd1az/polygon-arb-bot/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run the operator console on stdin/stdout (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("polygon-arb-bot %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	// The TUI owns the terminal, so logs are discarded in that mode.
	var log *logger.Logger
	if tuiMode {
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting polygon arb bot",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Module order matters: trading consumes chain and market services,
	// operator consumes trading and chain.
	modules := []monolith.Module{
		&chain.Module{},
		&market.Module{},
		&trading.Module{},
		&operator.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	handler := operatorDI.GetHandler(mono.Services())
	defer tradingDI.GetScheduler(mono.Services()).Stop()

	if tuiMode {
		controller := tradingDI.GetController(mono.Services())
		chainSvc := chainDI.GetChainService(mono.Services())

		status := func() ui.StatusLine {
			state := controller.State()
			conn := chainSvc.ConnectionStatus()
			mode := "simulated"
			if controller.ExecutionKind() == tradingDomain.TradeLive {
				mode = "live"
			}
			return ui.StatusLine{
				Running:   state.Enabled,
				Phase:     string(state.Phase),
				Block:     conn.LastBlock,
				Connected: conn.State == chainDomain.StateConnected,
				Mode:      mode,
			}
		}
		return ui.Run(ctx, handler.HandleLine, status)
	}

	console := repl.New(handler, os.Stdin, os.Stdout, log)
	if err := console.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	log.Info(ctx, "shutting down")
	return nil
}
