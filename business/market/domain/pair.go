// Package domain contains the core domain types for the market context.
package domain

import (
	"fmt"
	"strings"

	"github.com/fd1az/polygon-arb-bot/internal/asset"
)

// TokenPair is an ordered pair of tokens. Base is the token being bought
// and sold; Quote is the token prices are denominated in.
type TokenPair struct {
	Base  *asset.Asset
	Quote *asset.Asset
}

// NewTokenPair creates a TokenPair from two assets.
func NewTokenPair(base, quote *asset.Asset) (TokenPair, error) {
	if base == nil || quote == nil {
		return TokenPair{}, fmt.Errorf("pair: nil asset")
	}
	if base.ID().Equals(quote.ID()) {
		return TokenPair{}, fmt.Errorf("pair: base and quote are the same asset (%s)", base.Symbol())
	}
	return TokenPair{Base: base, Quote: quote}, nil
}

// ParsePair parses a "BASE-QUOTE" symbol string (e.g. "WMATIC-USDC")
// against the given registry.
func ParsePair(s string, registry *asset.Registry, chainID uint64) (TokenPair, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return TokenPair{}, fmt.Errorf("pair: invalid format %q, want BASE-QUOTE", s)
	}

	base, ok := registry.GetBySymbolAndChain(strings.ToUpper(parts[0]), chainID)
	if !ok {
		return TokenPair{}, fmt.Errorf("pair: unknown token %q", parts[0])
	}
	quote, ok := registry.GetBySymbolAndChain(strings.ToUpper(parts[1]), chainID)
	if !ok {
		return TokenPair{}, fmt.Errorf("pair: unknown token %q", parts[1])
	}

	return NewTokenPair(base, quote)
}

// String returns the canonical "BASE-QUOTE" representation.
func (p TokenPair) String() string {
	if p.Base == nil || p.Quote == nil {
		return "?-?"
	}
	return p.Base.Symbol() + "-" + p.Quote.Symbol()
}

// IsZero reports whether the pair is uninitialized.
func (p TokenPair) IsZero() bool {
	return p.Base == nil || p.Quote == nil
}
