// Package app contains the operator command handler.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	chainDomain "github.com/fd1az/polygon-arb-bot/business/chain/domain"
	marketDomain "github.com/fd1az/polygon-arb-bot/business/market/domain"
	tradingDomain "github.com/fd1az/polygon-arb-bot/business/trading/domain"
)

// TradingControl is the slice of the trading controller the operator
// surface needs. Satisfied by trading's Controller.
type TradingControl interface {
	Enable() bool
	Disable() bool
	State() tradingDomain.BotState
	RiskConfig() tradingDomain.RiskConfig
	Pairs() []marketDomain.TokenPair
	ExecutionKind() tradingDomain.TradeKind
	Scan(ctx context.Context) (tradingDomain.CycleReport, error)
	SetMinProfit(v decimal.Decimal) error
	SetMaxGas(v decimal.Decimal) error
	SetSlippage(v decimal.Decimal) error
}

// ChainReader is the slice of the chain service the operator surface
// needs. Satisfied by chain's ChainService.
type ChainReader interface {
	GasPrice(ctx context.Context) (chainDomain.GasPrice, error)
	Balances(ctx context.Context) (chainDomain.BalanceSheet, error)
	ConnectionStatus() chainDomain.ConnectionStatus
}
