package dex

import (
	"fmt"
	"math/big"
	"strings"
)

// nativeDecimals is the decimal count of every wrapped-native token the
// registry knows about (WETH, WBNB).
const nativeDecimals = 18

// decimalPlaces is the scale used when rendering derived ratios (price,
// market value) as decimal strings.
const decimalPlaces = 18

// FormatUnits converts a base-unit integer into a decimal string scaled by
// the token's decimal count. The conversion is exact.
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	if decimals == 0 {
		return value.String()
	}
	sign := value.Sign()
	abs := new(big.Int).Abs(value)
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	rat := new(big.Rat).SetFrac(abs, denom)
	text := rat.FloatString(int(decimals))
	if sign < 0 {
		return "-" + text
	}
	return text
}

// ParseUnits converts a decimal string into a base-unit integer, truncating
// anything below one base unit.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	rat, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, fmt.Errorf("malformed decimal amount: %q", amount)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaled := new(big.Rat).Mul(rat, new(big.Rat).SetInt(scale))
	return new(big.Int).Quo(scaled.Num(), scaled.Denom()), nil
}

// ratFromUnits scales a base-unit integer to a human quantity as an exact
// rational.
func ratFromUnits(value *big.Int, decimals uint8) *big.Rat {
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Rat).SetFrac(new(big.Int).Set(value), denom)
}

func formatRat(rat *big.Rat) string {
	return rat.FloatString(decimalPlaces)
}
