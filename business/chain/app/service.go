package app

import (
	"context"

	"github.com/fd1az/polygon-arb-bot/business/chain/domain"
)

// ChainService coordinates Polygon node interactions for the rest of
// the application.
type ChainService struct {
	gasOracle  GasOracle
	wallet     Wallet
	subscriber HeadSubscriber
}

// NewChainService creates a new ChainService.
func NewChainService(gasOracle GasOracle, wallet Wallet, subscriber HeadSubscriber) *ChainService {
	return &ChainService{
		gasOracle:  gasOracle,
		wallet:     wallet,
		subscriber: subscriber,
	}
}

// GasPrice returns the current gas price.
func (s *ChainService) GasPrice(ctx context.Context) (domain.GasPrice, error) {
	return s.gasOracle.GasPrice(ctx)
}

// Balances returns the wallet balance snapshot. Without a configured
// wallet the sheet is empty.
func (s *ChainService) Balances(ctx context.Context) (domain.BalanceSheet, error) {
	if s.wallet == nil {
		return domain.BalanceSheet{}, nil
	}
	return s.wallet.Balances(ctx)
}

// SubscribeHeads starts the head subscription and returns the channel.
func (s *ChainService) SubscribeHeads(ctx context.Context) (<-chan domain.Head, error) {
	return s.subscriber.Subscribe(ctx)
}

// ConnectionStatus returns the node connection status.
func (s *ChainService) ConnectionStatus() domain.ConnectionStatus {
	return s.subscriber.Status()
}
