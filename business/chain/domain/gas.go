// Package domain contains the core domain types for the chain context.
package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// GasPrice is a point-in-time gas price sample.
type GasPrice struct {
	Wei       *big.Int
	Gwei      decimal.Decimal
	Timestamp time.Time
}

// NewGasPrice creates a GasPrice from a wei value.
func NewGasPrice(wei *big.Int) GasPrice {
	return GasPrice{
		Wei:       new(big.Int).Set(wei),
		Gwei:      decimal.NewFromBigInt(wei, -9),
		Timestamp: time.Now(),
	}
}

// NewGasPriceFromGwei creates a GasPrice from a gwei value.
func NewGasPriceFromGwei(gwei decimal.Decimal) GasPrice {
	wei := gwei.Shift(9).BigInt()
	return GasPrice{
		Wei:       wei,
		Gwei:      gwei,
		Timestamp: time.Now(),
	}
}

// CostWei returns the total cost in wei of spending gasLimit at this price.
func (g GasPrice) CostWei(gasLimit uint64) *big.Int {
	return new(big.Int).Mul(g.Wei, new(big.Int).SetUint64(gasLimit))
}

// CostNative returns the total cost in native token units (MATIC) of
// spending gasLimit at this price.
func (g GasPrice) CostNative(gasLimit uint64) decimal.Decimal {
	return decimal.NewFromBigInt(g.CostWei(gasLimit), -18)
}
