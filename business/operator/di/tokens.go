// Package di contains dependency injection tokens for the operator context.
package di

import (
	"github.com/fd1az/polygon-arb-bot/business/operator/app"
	"github.com/fd1az/polygon-arb-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Handler = di.NewToken[*app.Handler]("operator.Handler")
)

// Helper functions for type-safe access
func GetHandler(c di.ServiceRegistry) *app.Handler {
	return di.GetToken(c, Handler)
}
