package asset_test

import (
	"math/big"
	"testing"

	"github.com/fd1az/polygon-arb-bot/internal/asset"
	"github.com/shopspring/decimal"
)

func TestAmount_Basic(t *testing.T) {
	// 1 WMATIC = 1e18 wei
	one := asset.NewAmount(asset.WMATIC, big.NewInt(1e18))

	if one.IsZero() {
		t.Error("expected non-zero amount")
	}

	d := one.ToDecimal()
	if !d.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", d.String())
	}

	if one.String() != "1 WMATIC" {
		t.Errorf("expected '1 WMATIC', got '%s'", one.String())
	}
}

func TestAmount_Add(t *testing.T) {
	one := asset.NewAmount(asset.WMATIC, big.NewInt(1e18))
	two := asset.NewAmount(asset.WMATIC, big.NewInt(2e18))

	sum, err := one.Add(two)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := decimal.NewFromInt(3)
	if !sum.ToDecimal().Equal(expected) {
		t.Errorf("expected 3, got %s", sum.ToDecimal().String())
	}
}

func TestAmount_CannotAddDifferentAssets(t *testing.T) {
	one := asset.NewAmount(asset.WMATIC, big.NewInt(1e18))
	oneUSDC := asset.NewAmount(asset.USDC, big.NewInt(1e6))

	_, err := one.Add(oneUSDC)
	if err == nil {
		t.Error("expected error when adding different assets")
	}
}

func TestAmount_Sub(t *testing.T) {
	three := asset.NewAmount(asset.WMATIC, big.NewInt(3e18))
	one := asset.NewAmount(asset.WMATIC, big.NewInt(1e18))

	diff, err := three.Sub(one)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := decimal.NewFromInt(2)
	if !diff.ToDecimal().Equal(expected) {
		t.Errorf("expected 2, got %s", diff.ToDecimal().String())
	}
}

func TestAmount_SubNegativeError(t *testing.T) {
	one := asset.NewAmount(asset.WMATIC, big.NewInt(1e18))
	two := asset.NewAmount(asset.WMATIC, big.NewInt(2e18))

	_, err := one.Sub(two)
	if err == nil {
		t.Error("expected error for negative result")
	}
}

func TestParseDecimal(t *testing.T) {
	// Parse "1.5" WMATIC
	d := decimal.NewFromFloat(1.5)
	amount, err := asset.ParseDecimal(asset.WMATIC, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := big.NewInt(0)
	expected.SetString("1500000000000000000", 10)

	if amount.Raw().Cmp(expected) != 0 {
		t.Errorf("expected %s, got %s", expected.String(), amount.Raw().String())
	}
}

func TestParseDecimal_TooManyDecimals(t *testing.T) {
	// USDC has 6 decimals, try to parse 1.1234567 (7 decimals)
	d := decimal.NewFromFloat(1.1234567)
	_, err := asset.ParseDecimal(asset.USDC, d)
	if err == nil {
		t.Error("expected error for too many decimals")
	}
}

func TestPrice_Convert(t *testing.T) {
	// WMATIC/USDC price = 0.85
	price := asset.NewPriceNow(asset.WMATIC, asset.USDC, decimal.NewFromFloat(0.85))

	// 100 WMATIC
	hundred := asset.NewAmount(asset.WMATIC, new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18)))

	usdc, err := price.Convert(hundred)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should be 85 USDC
	expected := decimal.NewFromInt(85)
	if !usdc.ToDecimal().Equal(expected) {
		t.Errorf("expected %s USDC, got %s", expected.String(), usdc.ToDecimal().String())
	}
}

func TestAssetID_Identity(t *testing.T) {
	a := asset.NewTokenAssetID(asset.ChainIDPolygon, asset.AddrWMATICPolygon)
	b := asset.NewTokenAssetID(asset.ChainIDPolygon, asset.AddrWMATICPolygon)

	if !a.Equals(b) {
		t.Error("same asset should have equal IDs")
	}

	// Same address on a different chain is a different asset
	c := asset.NewTokenAssetID(asset.ChainIDEthereum, asset.AddrWMATICPolygon)

	if a.Equals(c) {
		t.Error("different chains should have different IDs")
	}
}

func TestRegistry(t *testing.T) {
	r := asset.DefaultRegistry()

	// Should find MATIC
	matic, ok := r.GetNative(asset.ChainIDPolygon)
	if !ok {
		t.Fatal("MATIC not found in registry")
	}
	if matic.Symbol() != "MATIC" {
		t.Errorf("expected MATIC, got %s", matic.Symbol())
	}

	// Should find USDC by symbol and chain
	usdc, ok := r.GetBySymbolAndChain("USDC", asset.ChainIDPolygon)
	if !ok {
		t.Fatal("USDC not found in registry")
	}
	if usdc.Decimals() != 6 {
		t.Errorf("expected 6 decimals, got %d", usdc.Decimals())
	}
}
