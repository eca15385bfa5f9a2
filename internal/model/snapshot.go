package model

import "time"

// DexVariant identifies the AMM design a pool belongs to.
type DexVariant string

const (
	DexUniswapV2 DexVariant = "uniswap_v2"
	DexUniswapV3 DexVariant = "uniswap_v3"
)

// Volume24h carries a 24h volume figure together with its availability.
// On-chain state alone cannot produce it, so Available is false and Value
// is "0"; callers must not treat this as a real zero-volume pool.
type Volume24h struct {
	Available bool   `json:"available"`
	Value     string `json:"value"`
}

// UnavailableVolume returns the explicit "not computable from chain state"
// volume marker.
func UnavailableVolume() Volume24h {
	return Volume24h{Available: false, Value: "0"}
}

// V2PoolDetail holds constant-product pool fields as returned by the pair
// contract, before any ordering normalization.
type V2PoolDetail struct {
	Token0      string `json:"token0"`
	Token1      string `json:"token1"`
	Reserve0    string `json:"reserve0"`
	Reserve1    string `json:"reserve1"`
	PairAddress string `json:"pair_address"`
	FeePPM      uint32 `json:"fee_ppm"`
}

// V3PoolDetail holds concentrated-liquidity pool fields. Liquidity is the
// in-range liquidity figure from the pool contract, kept raw because it is
// not convertible to a token amount without tick-range integration.
type V3PoolDetail struct {
	Token0       string `json:"token0"`
	Token1       string `json:"token1"`
	SqrtPriceX96 string `json:"sqrt_price_x96"`
	Liquidity    string `json:"liquidity"`
	FeePPM       uint32 `json:"fee_ppm"`
	PoolAddress  string `json:"pool_address"`
}

// PoolSnapshot is the normalized result of resolving one pool. Price is
// always native-token units per one traded token; token0/token1 ordering is
// resolved internally and never leaks into the normalized fields.
//
// Exactly one of V2/V3 is non-nil, matching Dex.
type PoolSnapshot struct {
	TokenSymbol   string     `json:"token_symbol"`
	TokenDecimals uint8      `json:"token_decimals"`
	Dex           DexVariant `json:"dex"`
	PoolAddress   string     `json:"pool_address"`

	// Human-scaled decimal strings.
	TokenLiquidity  string `json:"token_liquidity"`
	NativeLiquidity string `json:"native_liquidity"`
	Price           string `json:"price"`

	// MarketValue is 2x the native-side liquidity: a balanced-pool
	// approximation, not a true market cap.
	MarketValue string `json:"market_value"`

	Volume24h Volume24h `json:"volume_24h"`

	V2 *V2PoolDetail `json:"v2,omitempty"`
	V3 *V3PoolDetail `json:"v3,omitempty"`
}

// SnapshotRecord wraps a snapshot with the context needed by storage sinks.
type SnapshotRecord struct {
	Chain        string       `json:"chain"`
	TokenAddress string       `json:"token_address"`
	FetchedAt    time.Time    `json:"fetched_at"`
	Snapshot     PoolSnapshot `json:"snapshot"`
}
