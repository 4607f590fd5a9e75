// Package operator implements the operator bounded context: the typed
// command surface over the trading controller and chain services.
package operator

import (
	"context"

	chainDI "github.com/fd1az/polygon-arb-bot/business/chain/di"
	"github.com/fd1az/polygon-arb-bot/business/operator/app"
	operatorDI "github.com/fd1az/polygon-arb-bot/business/operator/di"
	tradingDI "github.com/fd1az/polygon-arb-bot/business/trading/di"
	"github.com/fd1az/polygon-arb-bot/internal/di"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
	"github.com/fd1az/polygon-arb-bot/internal/monolith"
)

// Module implements the operator bounded context.
type Module struct{}

// RegisterServices registers the command handler with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, operatorDI.Handler, func(sr di.ServiceRegistry) *app.Handler {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewHandler(
			tradingDI.GetController(sr),
			chainDI.GetChainService(sr),
			log,
		)
	})
	return nil
}

// Startup initializes the operator module. The console itself (REPL or
// TUI) is owned by main, which decides where input comes from.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	operatorDI.GetHandler(mono.Services())
	mono.Logger().Info(ctx, "operator module started")
	return nil
}
