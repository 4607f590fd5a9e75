package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDEthereum = 1
	ChainIDPolygon  = 137
	ChainIDAmoy     = 80002
	ChainIDFiat     = 0 // Off-chain / fiat
)

// Well-known token addresses on Polygon PoS
var (
	AddrWMATICPolygon = common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270")
	AddrUSDCPolygon   = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	AddrUSDTPolygon   = common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F")
	AddrWETHPolygon   = common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619")
	AddrDAIPolygon    = common.HexToAddress("0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063")
)

// Well-known AssetIDs
var (
	// Polygon PoS
	IDPolygonMATIC  = NewNativeAssetID(ChainIDPolygon)
	IDPolygonWMATIC = NewTokenAssetID(ChainIDPolygon, AddrWMATICPolygon)
	IDPolygonUSDC   = NewTokenAssetID(ChainIDPolygon, AddrUSDCPolygon)
	IDPolygonUSDT   = NewTokenAssetID(ChainIDPolygon, AddrUSDTPolygon)
	IDPolygonWETH   = NewTokenAssetID(ChainIDPolygon, AddrWETHPolygon)
	IDPolygonDAI    = NewTokenAssetID(ChainIDPolygon, AddrDAIPolygon)

	// Fiat
	IDUSD = NewFiatAssetID("USD")
)

// Well-known Assets (pre-created instances)
var (
	// Polygon PoS
	MATIC  = NewAssetWithName(IDPolygonMATIC, "MATIC", "Polygon", 18)
	WMATIC = NewAssetWithName(IDPolygonWMATIC, "WMATIC", "Wrapped Matic", 18)
	USDC   = NewAssetWithName(IDPolygonUSDC, "USDC", "USD Coin", 6)
	USDT   = NewAssetWithName(IDPolygonUSDT, "USDT", "Tether USD", 6)
	WETH   = NewAssetWithName(IDPolygonWETH, "WETH", "Wrapped Ether", 18)
	DAI    = NewAssetWithName(IDPolygonDAI, "DAI", "Dai Stablecoin", 18)

	// Fiat
	USD = NewAssetWithName(IDUSD, "USD", "US Dollar", 2)
)

// DefaultRegistry returns a registry pre-populated with the Polygon assets
// the bot tracks.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Polygon PoS
	r.Register(MATIC)
	r.Register(WMATIC)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(WETH)
	r.Register(DAI)

	// Fiat
	r.Register(USD)

	return r
}

// MustNewToken creates a new ERC20 token asset with the given parameters.
// This is a convenience function for registering custom tokens.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	id := NewTokenAssetID(chainID, address)
	return NewAssetWithName(id, symbol, name, decimals)
}

// MustNewNative creates a new native coin asset.
func MustNewNative(chainID uint64, symbol, name string, decimals uint8) *Asset {
	id := NewNativeAssetID(chainID)
	return NewAssetWithName(id, symbol, name, decimals)
}
