// Package di contains dependency injection tokens for the trading context.
package di

import (
	"github.com/fd1az/polygon-arb-bot/business/trading/app"
	"github.com/fd1az/polygon-arb-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Controller = di.NewToken[*app.Controller]("trading.Controller")
	Scheduler  = di.NewToken[*app.Scheduler]("trading.Scheduler")
)

// Private dependency tokens - internal to trading module
var (
	Detector      = di.NewToken[*app.Detector]("trading:detector")
	Guard         = di.NewToken[*app.Guard]("trading:guard")
	Executor      = di.NewToken[*app.Executor]("trading:executor")
	TradeBackend  = di.NewToken[app.TradeBackend]("trading:tradeBackend")
	CostEstimator = di.NewToken[app.CostEstimator]("trading:costEstimator")
)

// Helper functions for type-safe access
func GetController(c di.ServiceRegistry) *app.Controller {
	return di.GetToken(c, Controller)
}

func GetScheduler(c di.ServiceRegistry) *app.Scheduler {
	return di.GetToken(c, Scheduler)
}

func GetDetector(c di.ServiceRegistry) *app.Detector {
	return di.GetToken(c, Detector)
}

func GetGuard(c di.ServiceRegistry) *app.Guard {
	return di.GetToken(c, Guard)
}

func GetExecutor(c di.ServiceRegistry) *app.Executor {
	return di.GetToken(c, Executor)
}

func GetTradeBackend(c di.ServiceRegistry) app.TradeBackend {
	return di.GetToken(c, TradeBackend)
}

func GetCostEstimator(c di.ServiceRegistry) app.CostEstimator {
	return di.GetToken(c, CostEstimator)
}
