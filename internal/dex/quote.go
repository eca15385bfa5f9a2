package dex

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lbnlsj/eth-dex/internal/model"
)

const (
	// deadlineWindow bounds how stale a built swap request can get before
	// the chain rejects it. Fixed, not caller-overridable.
	deadlineWindow = 20 * time.Minute

	// advisoryFeePPM is the informational service fee on the input amount,
	// layered on top of protocol fees and never enforced on-chain.
	advisoryFeePPM = 3000

	bpsDenominator = 10000
)

// QuoteParams is the caller's trade intent.
type QuoteParams struct {
	Direction model.TradeDirection
	// Amount is a human-scaled decimal amount of the input token.
	Amount         string
	SlippageBps    uint32
	FeeDiscountBps uint32
}

// QuoteBuilder turns a resolved pool and a trade intent into a bounded swap
// request. It never signs and never broadcasts.
type QuoteBuilder struct {
	now func() time.Time
}

// NewQuoteBuilder returns a builder using the wall clock.
func NewQuoteBuilder() *QuoteBuilder {
	return &QuoteBuilder{now: time.Now}
}

// Validate checks the intent without touching the chain.
func (p QuoteParams) Validate() error {
	if p.Direction != model.DirectionBuy && p.Direction != model.DirectionSell {
		return fmt.Errorf("unknown trade direction: %q", p.Direction)
	}
	if p.SlippageBps >= bpsDenominator {
		return fmt.Errorf("%w: %d bps not in [0, %d)", ErrInvalidSlippage, p.SlippageBps, bpsDenominator)
	}
	if p.FeeDiscountBps > bpsDenominator {
		return fmt.Errorf("%w: %d bps exceeds %d", ErrInvalidFeeDiscount, p.FeeDiscountBps, bpsDenominator)
	}
	return nil
}

// BuildSwapRequest validates the intent, quotes the output amount along the
// snapshot's pool, and applies the slippage floor. Input validation happens
// before any chain call is issued.
func (b *QuoteBuilder) BuildSwapRequest(ctx context.Context, caller Caller, cfg model.ChainConfig, snapshot model.PoolSnapshot, params QuoteParams) (model.SwapRequest, error) {
	if err := params.Validate(); err != nil {
		return model.SwapRequest{}, err
	}

	token, err := tradedToken(cfg, snapshot)
	if err != nil {
		return model.SwapRequest{}, err
	}
	native := common.HexToAddress(cfg.WrappedNative)

	tokenIn, tokenOut := native, token
	inDecimals := uint8(nativeDecimals)
	if params.Direction == model.DirectionSell {
		tokenIn, tokenOut = token, native
		inDecimals = snapshot.TokenDecimals
	}

	amountIn, err := ParseUnits(params.Amount, inDecimals)
	if err != nil {
		return model.SwapRequest{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if amountIn.Sign() <= 0 {
		return model.SwapRequest{}, fmt.Errorf("%w: %q is not positive", ErrInvalidAmount, params.Amount)
	}

	var quotedOut *big.Int
	switch snapshot.Dex {
	case model.DexUniswapV2:
		quotedOut, err = b.quoteV2(ctx, caller, cfg, tokenIn, tokenOut, amountIn)
	case model.DexUniswapV3:
		if snapshot.V3 == nil {
			return model.SwapRequest{}, fmt.Errorf("v3 snapshot missing pool detail")
		}
		quotedOut, err = b.quoteV3(ctx, caller, cfg, tokenIn, tokenOut, snapshot.V3.FeePPM, amountIn)
	default:
		return model.SwapRequest{}, fmt.Errorf("unknown dex variant: %q", snapshot.Dex)
	}
	if err != nil {
		return model.SwapRequest{}, err
	}

	minOut := applySlippage(quotedOut, params.SlippageBps)
	feeAmount := mulPPM(amountIn, advisoryFeePPM)
	discountedFee := mulBps(feeAmount, bpsDenominator-params.FeeDiscountBps)

	req := model.SwapRequest{
		Dex:                 snapshot.Dex,
		Direction:           params.Direction,
		TokenIn:             tokenIn.Hex(),
		TokenOut:            tokenOut.Hex(),
		AmountIn:            amountIn.String(),
		QuotedOut:           quotedOut.String(),
		AmountOutMin:        minOut.String(),
		Deadline:            b.now().Add(deadlineWindow).Unix(),
		FeeAmount:           feeAmount.String(),
		DiscountedFeeAmount: discountedFee.String(),
	}
	switch snapshot.Dex {
	case model.DexUniswapV2:
		req.Path = []string{tokenIn.Hex(), tokenOut.Hex()}
	case model.DexUniswapV3:
		req.FeePPM = snapshot.V3.FeePPM
	}
	return req, nil
}

func (b *QuoteBuilder) quoteV2(ctx context.Context, caller Caller, cfg model.ChainConfig, tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error) {
	routerABI, err := V2RouterABI()
	if err != nil {
		return nil, err
	}
	router := common.HexToAddress(cfg.V2Router)
	values, err := callMethod(ctx, caller, router, routerABI, "getAmountsOut", amountIn, []common.Address{tokenIn, tokenOut})
	if err != nil {
		return nil, err
	}
	amounts, ok := values[0].([]*big.Int)
	if !ok || len(amounts) < 2 {
		return nil, fmt.Errorf("getAmountsOut unexpected return %T", values[0])
	}
	return new(big.Int).Set(amounts[len(amounts)-1]), nil
}

func (b *QuoteBuilder) quoteV3(ctx context.Context, caller Caller, cfg model.ChainConfig, tokenIn, tokenOut common.Address, feePPM uint32, amountIn *big.Int) (*big.Int, error) {
	quoterABI, err := V3QuoterABI()
	if err != nil {
		return nil, err
	}
	quoter := common.HexToAddress(cfg.V3Quoter)
	values, err := callMethod(ctx, caller, quoter, quoterABI, "quoteExactInputSingle",
		tokenIn, tokenOut, big.NewInt(int64(feePPM)), amountIn, big.NewInt(0))
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// tradedToken recovers the non-native token of the snapshot's pool.
func tradedToken(cfg model.ChainConfig, snapshot model.PoolSnapshot) (common.Address, error) {
	native := common.HexToAddress(cfg.WrappedNative)

	var token0, token1 common.Address
	switch {
	case snapshot.V2 != nil:
		token0 = common.HexToAddress(snapshot.V2.Token0)
		token1 = common.HexToAddress(snapshot.V2.Token1)
	case snapshot.V3 != nil:
		token0 = common.HexToAddress(snapshot.V3.Token0)
		token1 = common.HexToAddress(snapshot.V3.Token1)
	default:
		return common.Address{}, fmt.Errorf("snapshot missing pool detail")
	}

	switch native {
	case token0:
		return token1, nil
	case token1:
		return token0, nil
	default:
		return common.Address{}, fmt.Errorf("pool %s does not include the wrapped native token", snapshot.PoolAddress)
	}
}

// applySlippage floors the quoted output by the tolerance in basis points.
func applySlippage(amountOut *big.Int, slippageBps uint32) *big.Int {
	return mulBps(amountOut, bpsDenominator-slippageBps)
}

func mulBps(value *big.Int, bps uint32) *big.Int {
	out := new(big.Int).Mul(value, new(big.Int).SetUint64(uint64(bps)))
	return out.Quo(out, big.NewInt(bpsDenominator))
}

func mulPPM(value *big.Int, ppm uint32) *big.Int {
	out := new(big.Int).Mul(value, new(big.Int).SetUint64(uint64(ppm)))
	return out.Quo(out, big.NewInt(1_000_000))
}
