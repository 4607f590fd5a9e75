package domain

import (
	"testing"

	"github.com/fd1az/polygon-arb-bot/internal/asset"
)

func TestParsePair(t *testing.T) {
	registry := asset.DefaultRegistry()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "canonical", input: "WMATIC-USDC", want: "WMATIC-USDC"},
		{name: "lowercase", input: "wmatic-usdc", want: "WMATIC-USDC"},
		{name: "whitespace", input: "  WETH-USDC  ", want: "WETH-USDC"},
		{name: "dai_quote", input: "DAI-USDC", want: "DAI-USDC"},

		{name: "missing_separator", input: "WMATICUSDC", wantErr: true},
		{name: "too_many_parts", input: "WMATIC-USDC-DAI", wantErr: true},
		{name: "unknown_base", input: "DOGE-USDC", wantErr: true},
		{name: "unknown_quote", input: "WMATIC-DOGE", wantErr: true},
		{name: "same_token", input: "USDC-USDC", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := ParsePair(tt.input, registry, asset.ChainIDPolygon)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePair(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePair(%q): %v", tt.input, err)
			}
			if pair.String() != tt.want {
				t.Errorf("pair = %s, want %s", pair, tt.want)
			}
		})
	}
}

func TestNewTokenPair_Validation(t *testing.T) {
	if _, err := NewTokenPair(nil, asset.USDC); err == nil {
		t.Error("nil base must be rejected")
	}
	if _, err := NewTokenPair(asset.WMATIC, nil); err == nil {
		t.Error("nil quote must be rejected")
	}
	if _, err := NewTokenPair(asset.USDC, asset.USDC); err == nil {
		t.Error("identical base and quote must be rejected")
	}

	pair, err := NewTokenPair(asset.WMATIC, asset.USDC)
	if err != nil {
		t.Fatalf("valid pair rejected: %v", err)
	}
	if pair.IsZero() {
		t.Error("constructed pair should not be zero")
	}
	if (TokenPair{}).IsZero() != true {
		t.Error("empty pair should be zero")
	}
}
