package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lbnlsj/eth-dex/internal/model"
)

// DefaultV3FeePPM is the 0.30% fee tier used when the caller does not pick
// one.
const DefaultV3FeePPM = 3000

// q192 is 2^192, the divisor for squared sqrtPriceX96 values.
var q192 = new(big.Int).Lsh(big.NewInt(1), 192)

// ResolveV3Pool resolves the concentrated-liquidity pool for the token and
// fee tier against the chain's wrapped native token. A feePPM of 0 selects
// the default tier.
//
// The liquidity and market-value figures come from the token balances held
// by the pool contract, not from the pool's liquidity value: that figure
// lives in a different unit space and is not convertible to token amounts
// without tick-range integration. The balances are an approximation of the
// pool's depth, not a precise TVL.
func ResolveV3Pool(ctx context.Context, caller Caller, cfg model.ChainConfig, tokenAddr string, feePPM uint32, logger *zap.Logger) (model.PoolSnapshot, error) {
	if !common.IsHexAddress(tokenAddr) {
		return model.PoolSnapshot{}, fmt.Errorf("invalid token address: %q", tokenAddr)
	}
	if feePPM == 0 {
		feePPM = DefaultV3FeePPM
	}
	token := common.HexToAddress(tokenAddr)
	native := common.HexToAddress(cfg.WrappedNative)
	factory := common.HexToAddress(cfg.V3Factory)

	factoryABI, err := V3FactoryABI()
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	poolABI, err := V3PoolABI()
	if err != nil {
		return model.PoolSnapshot{}, err
	}

	var (
		meta tokenMeta
		pool common.Address
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := fetchTokenMeta(gctx, caller, token, logger)
		if err != nil {
			return err
		}
		meta = m
		return nil
	})
	g.Go(func() error {
		values, err := callMethod(gctx, caller, factory, factoryABI, "getPool", token, native, big.NewInt(int64(feePPM)))
		if err != nil {
			return err
		}
		addr, err := asAddress(values[0])
		if err != nil {
			return fmt.Errorf("getPool: %w", err)
		}
		pool = addr
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.PoolSnapshot{}, err
	}

	if pool == (common.Address{}) {
		return model.PoolSnapshot{}, fmt.Errorf("%w: no v3 pool for %s at fee %d", ErrPoolNotFound, token.Hex(), feePPM)
	}

	var (
		token0, token1 common.Address
		liquidity      *big.Int
		sqrtPriceX96   *big.Int
		poolFee        uint32
		tokenBalance   *big.Int
		nativeBalance  *big.Int
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		values, err := callMethod(gctx, caller, pool, poolABI, "token0")
		if err != nil {
			return err
		}
		token0, err = asAddress(values[0])
		return err
	})
	g.Go(func() error {
		values, err := callMethod(gctx, caller, pool, poolABI, "token1")
		if err != nil {
			return err
		}
		token1, err = asAddress(values[0])
		return err
	})
	g.Go(func() error {
		values, err := callMethod(gctx, caller, pool, poolABI, "liquidity")
		if err != nil {
			return err
		}
		liquidity, err = asBigInt(values[0])
		return err
	})
	g.Go(func() error {
		values, err := callMethod(gctx, caller, pool, poolABI, "slot0")
		if err != nil {
			return err
		}
		if len(values) == 0 {
			return fmt.Errorf("slot0 return size 0")
		}
		sqrtPriceX96, err = asBigInt(values[0])
		return err
	})
	g.Go(func() error {
		values, err := callMethod(gctx, caller, pool, poolABI, "fee")
		if err != nil {
			return err
		}
		poolFee, err = asUint32(values[0])
		return err
	})
	g.Go(func() error {
		bal, err := balanceOf(gctx, caller, token, pool)
		if err != nil {
			return err
		}
		tokenBalance = bal
		return nil
	})
	g.Go(func() error {
		bal, err := balanceOf(gctx, caller, native, pool)
		if err != nil {
			return err
		}
		nativeBalance = bal
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.PoolSnapshot{}, err
	}

	price, err := decodeSqrtPrice(sqrtPriceX96, token == token0)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("pool %s: %w", pool.Hex(), err)
	}

	nativeSide := ratFromUnits(nativeBalance, nativeDecimals)
	marketValue := new(big.Rat).Mul(nativeSide, big.NewRat(2, 1))

	return model.PoolSnapshot{
		TokenSymbol:     meta.Symbol,
		TokenDecimals:   meta.Decimals,
		Dex:             model.DexUniswapV3,
		PoolAddress:     pool.Hex(),
		TokenLiquidity:  FormatUnits(tokenBalance, meta.Decimals),
		NativeLiquidity: FormatUnits(nativeBalance, nativeDecimals),
		Price:           formatRat(price),
		MarketValue:     formatRat(marketValue),
		Volume24h:       model.UnavailableVolume(),
		V3: &model.V3PoolDetail{
			Token0:       token0.Hex(),
			Token1:       token1.Hex(),
			SqrtPriceX96: sqrtPriceX96.String(),
			Liquidity:    liquidity.String(),
			FeePPM:       poolFee,
			PoolAddress:  pool.Hex(),
		},
	}, nil
}

// decodeSqrtPrice turns a Q64.96 square-root price into the pool price.
// The protocol expresses price as token1 per token0; when the queried token
// is token1 the ratio must be inverted to keep the snapshot's
// native-per-token orientation.
func decodeSqrtPrice(sqrtPriceX96 *big.Int, tokenIsToken0 bool) (*big.Rat, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() == 0 {
		return nil, fmt.Errorf("%w: sqrtPriceX96 is zero", ErrZeroLiquidity)
	}
	squared := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	price := new(big.Rat).SetFrac(squared, new(big.Int).Set(q192))
	if !tokenIsToken0 {
		price.Inv(price)
	}
	return price, nil
}
