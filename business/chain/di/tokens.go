// Package di contains dependency injection tokens for the chain context.
package di

import (
	"github.com/fd1az/polygon-arb-bot/business/chain/app"
	"github.com/fd1az/polygon-arb-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ChainService = di.NewToken[*app.ChainService]("chain.ChainService")
)

// Private dependency tokens - internal to chain module
var (
	GasOracle      = di.NewToken[app.GasOracle]("chain:gasOracle")
	Wallet         = di.NewToken[app.Wallet]("chain:wallet")
	HeadSubscriber = di.NewToken[app.HeadSubscriber]("chain:headSubscriber")
)

// Helper functions for type-safe access
func GetChainService(c di.ServiceRegistry) *app.ChainService {
	return di.GetToken(c, ChainService)
}

func GetGasOracle(c di.ServiceRegistry) app.GasOracle {
	return di.GetToken(c, GasOracle)
}

func GetWallet(c di.ServiceRegistry) app.Wallet {
	return di.GetToken(c, Wallet)
}

func GetHeadSubscriber(c di.ServiceRegistry) app.HeadSubscriber {
	return di.GetToken(c, HeadSubscriber)
}
