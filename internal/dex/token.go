package dex

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// tokenMeta captures the ERC20 fields a resolution needs.
type tokenMeta struct {
	Symbol   string
	Decimals uint8
}

// fetchTokenMeta loads symbol and decimals via ERC20 calls. Decimals are
// mandatory; a missing symbol is tolerated (some legacy tokens expose it as
// bytes32, others not at all) and logged at debug level.
func fetchTokenMeta(ctx context.Context, caller Caller, token common.Address, logger *zap.Logger) (tokenMeta, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	erc20, err := ERC20ABI()
	if err != nil {
		return tokenMeta{}, err
	}

	values, err := callMethod(ctx, caller, token, erc20, "decimals")
	if err != nil {
		return tokenMeta{}, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return tokenMeta{}, err
	}

	meta := tokenMeta{Decimals: decimals}

	if values, err := callMethod(ctx, caller, token, erc20, "symbol"); err == nil {
		if symbol, ok := values[0].(string); ok {
			meta.Symbol = symbol
		}
	} else if bytes32ABI, abiErr := erc20Bytes32ABI(); abiErr == nil {
		if values, err := callMethod(ctx, caller, token, bytes32ABI, "symbol"); err == nil {
			if symbol, ok := bytes32ToString(values[0]); ok {
				meta.Symbol = symbol
			}
		} else {
			logger.Debug("symbol call failed", zap.String("token", token.Hex()), zap.Error(err))
		}
	}

	return meta, nil
}

// balanceOf reads an ERC20 balance held by owner.
func balanceOf(ctx context.Context, caller Caller, token common.Address, owner common.Address) (*big.Int, error) {
	erc20, err := ERC20ABI()
	if err != nil {
		return nil, err
	}
	values, err := callMethod(ctx, caller, token, erc20, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}
