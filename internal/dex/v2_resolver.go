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

// v2FeePPM is the fixed constant-product pool fee in parts per million.
const v2FeePPM = 3000

// ResolveV2Pool resolves the constant-product pool pairing token with the
// chain's wrapped native token and returns a normalized snapshot.
//
// Reads run in two stages: token metadata and the pair address have no data
// dependency and are fetched concurrently; the pair's own state needs the
// pair address and runs as a second concurrent stage. Any failed read
// aborts the whole resolution.
func ResolveV2Pool(ctx context.Context, caller Caller, cfg model.ChainConfig, tokenAddr string, logger *zap.Logger) (model.PoolSnapshot, error) {
	if !common.IsHexAddress(tokenAddr) {
		return model.PoolSnapshot{}, fmt.Errorf("invalid token address: %q", tokenAddr)
	}
	token := common.HexToAddress(tokenAddr)
	native := common.HexToAddress(cfg.WrappedNative)
	factory := common.HexToAddress(cfg.V2Factory)

	factoryABI, err := V2FactoryABI()
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	pairABI, err := V2PairABI()
	if err != nil {
		return model.PoolSnapshot{}, err
	}

	var (
		meta tokenMeta
		pair common.Address
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
		values, err := callMethod(gctx, caller, factory, factoryABI, "getPair", token, native)
		if err != nil {
			return err
		}
		addr, err := asAddress(values[0])
		if err != nil {
			return fmt.Errorf("getPair: %w", err)
		}
		pair = addr
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.PoolSnapshot{}, err
	}

	if pair == (common.Address{}) {
		return model.PoolSnapshot{}, fmt.Errorf("%w: no v2 pair for %s", ErrPoolNotFound, token.Hex())
	}

	var (
		token0, token1     common.Address
		reserve0, reserve1 *big.Int
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		values, err := callMethod(gctx, caller, pair, pairABI, "token0")
		if err != nil {
			return err
		}
		token0, err = asAddress(values[0])
		return err
	})
	g.Go(func() error {
		values, err := callMethod(gctx, caller, pair, pairABI, "token1")
		if err != nil {
			return err
		}
		token1, err = asAddress(values[0])
		return err
	})
	g.Go(func() error {
		values, err := callMethod(gctx, caller, pair, pairABI, "getReserves")
		if err != nil {
			return err
		}
		if len(values) < 2 {
			return fmt.Errorf("getReserves return size %d", len(values))
		}
		if reserve0, err = asBigInt(values[0]); err != nil {
			return err
		}
		reserve1, err = asBigInt(values[1])
		return err
	})
	if err := g.Wait(); err != nil {
		return model.PoolSnapshot{}, err
	}

	// Address parsing canonicalizes case, so this equality is the
	// case-insensitive token0 comparison. Getting it wrong inverts the
	// price for roughly half of all pools.
	tokenReserve, nativeReserve := reserve0, reserve1
	if token != token0 {
		tokenReserve, nativeReserve = reserve1, reserve0
	}

	if tokenReserve.Sign() == 0 {
		return model.PoolSnapshot{}, fmt.Errorf("%w: empty token reserve in pair %s", ErrZeroLiquidity, pair.Hex())
	}

	tokenSide := ratFromUnits(tokenReserve, meta.Decimals)
	nativeSide := ratFromUnits(nativeReserve, nativeDecimals)
	price := new(big.Rat).Quo(nativeSide, tokenSide)
	marketValue := new(big.Rat).Mul(nativeSide, big.NewRat(2, 1))

	return model.PoolSnapshot{
		TokenSymbol:     meta.Symbol,
		TokenDecimals:   meta.Decimals,
		Dex:             model.DexUniswapV2,
		PoolAddress:     pair.Hex(),
		TokenLiquidity:  FormatUnits(tokenReserve, meta.Decimals),
		NativeLiquidity: FormatUnits(nativeReserve, nativeDecimals),
		Price:           formatRat(price),
		MarketValue:     formatRat(marketValue),
		Volume24h:       model.UnavailableVolume(),
		V2: &model.V2PoolDetail{
			Token0:      token0.Hex(),
			Token1:      token1.Hex(),
			Reserve0:    reserve0.String(),
			Reserve1:    reserve1.String(),
			PairAddress: pair.Hex(),
			FeePPM:      v2FeePPM,
		},
	}, nil
}
