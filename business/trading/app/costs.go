package app

import (
	"context"

	"github.com/shopspring/decimal"

	chainDomain "github.com/fd1az/polygon-arb-bot/business/chain/domain"
	"github.com/fd1az/polygon-arb-bot/internal/apperror"
)

// FlatCostEstimator prices every trade at a fixed USD amount. Crude but
// honest on Polygon, where two swap legs rarely stray far from a few
// dollars even in congestion.
type FlatCostEstimator struct {
	costUSD decimal.Decimal
}

// NewFlatCostEstimator creates a flat estimator.
func NewFlatCostEstimator(costUSD decimal.Decimal) *FlatCostEstimator {
	return &FlatCostEstimator{costUSD: costUSD}
}

// TradeCostUSD returns the configured flat cost; the gas price is ignored.
func (e *FlatCostEstimator) TradeCostUSD(_ context.Context, _ chainDomain.GasPrice) (decimal.Decimal, error) {
	return e.costUSD, nil
}

// NativePricer returns the USD price of the chain's native token.
type NativePricer func(ctx context.Context) (decimal.Decimal, error)

// OracleCostEstimator prices a trade from the live gas price: gas limit
// for both legs times gas price, converted through the native token's
// USD price.
type OracleCostEstimator struct {
	gasLimit    uint64
	nativePrice NativePricer
}

// NewOracleCostEstimator creates a gas-based estimator. gasLimit covers
// the full trade, both swap legs.
func NewOracleCostEstimator(gasLimit uint64, nativePrice NativePricer) *OracleCostEstimator {
	return &OracleCostEstimator{
		gasLimit:    gasLimit,
		nativePrice: nativePrice,
	}
}

// TradeCostUSD computes gasLimit * gasPrice in native tokens and
// converts it to USD.
func (e *OracleCostEstimator) TradeCostUSD(ctx context.Context, gasPrice chainDomain.GasPrice) (decimal.Decimal, error) {
	priceUSD, err := e.nativePrice(ctx)
	if err != nil {
		return decimal.Zero, apperror.Wrap(err, apperror.CodeGasPriceUnavailable, "native token price lookup failed")
	}
	if !priceUSD.IsPositive() {
		return decimal.Zero, apperror.New(apperror.CodeGasPriceUnavailable,
			apperror.WithContext("native token price is not positive"))
	}

	costNative := gasPrice.CostNative(e.gasLimit)
	return costNative.Mul(priceUSD), nil
}
