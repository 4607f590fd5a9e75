package domain

import (
	"github.com/fd1az/polygon-arb-bot/internal/asset"
)

// Balance is one asset's wallet balance. Stale marks a balance that
// could not be refreshed; its Amount is zero, which keeps downstream
// checks conservative.
type Balance struct {
	Asset  *asset.Asset
	Amount asset.Amount
	Stale  bool
}

// BalanceSheet is a snapshot of the wallet across tracked assets.
type BalanceSheet struct {
	Balances []Balance
}

// Get returns the balance for the given asset symbol.
func (b BalanceSheet) Get(symbol string) (Balance, bool) {
	for _, bal := range b.Balances {
		if bal.Asset != nil && bal.Asset.Symbol() == symbol {
			return bal, true
		}
	}
	return Balance{}, false
}
