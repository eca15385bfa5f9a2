package registry

import "github.com/lbnlsj/eth-dex/internal/model"

// defaultChains lists the canonical Uniswap V2/V3 deployments per chain.
// On BSC and Base the wrapped-native entry is WBNB/WETH respectively; the
// engine treats all of them uniformly as the 18-decimal wrapped native.
var defaultChains = map[string]model.ChainConfig{
	"eth": {
		RPCURL:        "https://eth.llamarpc.com",
		V2Factory:     "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f",
		V2Router:      "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
		V3Factory:     "0x1F98431c8aD98523631AE4a59f267346ea31F984",
		V3Quoter:      "0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6",
		WrappedNative: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
	},
	"bsc": {
		RPCURL:        "https://bsc-dataseed.binance.org",
		V2Factory:     "0x8909Dc15e40173Ff4699343b6eB8132c65e18eC6",
		V2Router:      "0x8357227D4eDc78991Db6FDB9bD6ADE250536dE1d",
		V3Factory:     "0xdB1d10011AD0Ff90774D0C6Bb92e5C5c8b4461F7",
		V3Quoter:      "0x78D78E420Da98ad378D7799bE8f4AF69033EB077",
		WrappedNative: "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c",
	},
	"base": {
		RPCURL:        "https://mainnet.base.org",
		V2Factory:     "0x8909Dc15e40173Ff4699343b6eB8132c65e18eC6",
		V2Router:      "0x4752ba5DBc23f44D87826276BF6Fd6b1C372aD24",
		V3Factory:     "0x33128a8fC17869897dcE68Ed026d694621f6FDfD",
		V3Quoter:      "0x3d4e44Eb1374240CE5F1B871ab261CD16335B76a",
		WrappedNative: "0x4200000000000000000000000000000000000006",
	},
	"arb": {
		RPCURL:        "https://arb1.arbitrum.io/rpc",
		V2Factory:     "0xf1D7CC64Fb4452F05c498126312eBE29f30Fbcf9",
		V2Router:      "0x4752ba5DBc23f44D87826276BF6Fd6b1C372aD24",
		V3Factory:     "0x1F98431c8aD98523631AE4a59f267346ea31F984",
		V3Quoter:      "0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6",
		WrappedNative: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1",
	},
}

// Default returns a registry with the built-in chain table.
func Default() *Registry {
	reg, err := New(defaultChains)
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return reg
}

// DefaultChains returns a copy of the built-in table, for merging with
// user-supplied overrides.
func DefaultChains() map[string]model.ChainConfig {
	out := make(map[string]model.ChainConfig, len(defaultChains))
	for name, cfg := range defaultChains {
		out[name] = cfg
	}
	return out
}
