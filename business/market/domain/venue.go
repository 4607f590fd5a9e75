package domain

import "github.com/ethereum/go-ethereum/common"

// Venue identifies a DEX the bot quotes against.
type Venue struct {
	Name    string
	Router  common.Address
	Factory common.Address
}

// String returns the venue name.
func (v Venue) String() string {
	return v.Name
}
