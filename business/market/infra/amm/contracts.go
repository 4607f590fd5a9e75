package amm

// RouterV2ABI is the ABI for UniswapV2-style routers (QuickSwap and
// SushiSwap both implement it on Polygon). Only getAmountsOut is needed
// for quoting.
const RouterV2ABI = `[
	{
		"inputs": [
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
			{"internalType": "address[]", "name": "path", "type": "address[]"}
		],
		"name": "getAmountsOut",
		"outputs": [
			{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`
