package dex

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolNotFound means the factory returned the zero address: no pool
	// exists for the pair on this chain and variant.
	ErrPoolNotFound = errors.New("pool not found")
	// ErrZeroLiquidity means the pool exists but one side is empty, so no
	// finite price can be derived.
	ErrZeroLiquidity = errors.New("zero liquidity")
	// ErrInvalidAmount rejects non-positive or malformed trade amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidSlippage rejects slippage tolerance outside [0, 10000) bps.
	ErrInvalidSlippage = errors.New("invalid slippage tolerance")
	// ErrInvalidFeeDiscount rejects fee discounts outside [0, 10000] bps.
	ErrInvalidFeeDiscount = errors.New("invalid fee discount")
)

// ReadError wraps a chain-client failure with the contract and method that
// raised it. The underlying error is propagated verbatim; retry policy, if
// any, belongs to the chain client.
type ReadError struct {
	Contract string
	Method   string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("chain read %s.%s: %v", e.Contract, e.Method, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
