// Package app contains application services and port definitions for the chain context.
package app

import (
	"context"

	"github.com/fd1az/polygon-arb-bot/business/chain/domain"
)

// GasOracle reports the current network gas price.
type GasOracle interface {
	// GasPrice returns the current gas price.
	GasPrice(ctx context.Context) (domain.GasPrice, error)
}

// Wallet reads on-chain balances for the operator wallet.
type Wallet interface {
	// Balances returns the wallet balance for every tracked asset.
	// A single asset failing to resolve yields a stale zero balance for
	// that asset; it never fails the whole snapshot.
	Balances(ctx context.Context) (domain.BalanceSheet, error)
}

// HeadSubscriber streams new Polygon block headers.
type HeadSubscriber interface {
	// Subscribe starts listening for new heads and returns the channel.
	Subscribe(ctx context.Context) (<-chan domain.Head, error)

	// State returns the current connection state.
	State() domain.ConnectionState

	// Status returns detailed connection information.
	Status() domain.ConnectionStatus
}
