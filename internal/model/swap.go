package model

// TradeDirection identifies which side of the pool the caller trades into.
type TradeDirection string

const (
	// DirectionBuy swaps the wrapped native token into the traded token.
	DirectionBuy TradeDirection = "buy"
	// DirectionSell swaps the traded token into the wrapped native token.
	DirectionSell TradeDirection = "sell"
)

// SwapRequest is a fully-parameterized swap a caller could sign and submit.
// The engine never signs or broadcasts it. All amounts are base-unit
// integers encoded as decimal strings.
type SwapRequest struct {
	Dex       DexVariant     `json:"dex"`
	Direction TradeDirection `json:"direction"`

	TokenIn      string `json:"token_in"`
	TokenOut     string `json:"token_out"`
	AmountIn     string `json:"amount_in"`
	QuotedOut    string `json:"quoted_out"`
	AmountOutMin string `json:"amount_out_min"`

	// Deadline is a fixed window past quote time, bounding staleness.
	Deadline int64 `json:"deadline"`

	// Path is set for V2 swaps, FeePPM for V3 swaps.
	Path   []string `json:"path,omitempty"`
	FeePPM uint32   `json:"fee_ppm,omitempty"`

	// Advisory service fee on AmountIn, in tokenIn base units. Layered on
	// top of protocol fees and not enforced on-chain.
	FeeAmount           string `json:"fee_amount"`
	DiscountedFeeAmount string `json:"discounted_fee_amount"`
}
