package dex

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lbnlsj/eth-dex/internal/model"
	"github.com/lbnlsj/eth-dex/internal/registry"
)

// ConnectFunc opens a read-only chain client for a chain configuration.
type ConnectFunc func(ctx context.Context, cfg model.ChainConfig) (Caller, error)

// Engine is the chain-facing entry point: it resolves the chain
// configuration, connects, and dispatches to the variant resolvers and the
// quote builder. It holds no per-call state; concurrent resolutions are
// independent.
type Engine struct {
	registry *registry.Registry
	connect  ConnectFunc
	quotes   *QuoteBuilder
	logger   *zap.Logger
}

// NewEngine builds an engine. A nil logger disables diagnostics.
func NewEngine(reg *registry.Registry, connect ConnectFunc, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		registry: reg,
		connect:  connect,
		quotes:   NewQuoteBuilder(),
		logger:   logger,
	}
}

// ResolvePool resolves the token's pool on the given chain and variant.
// The registry lookup happens before any connection is made, so an
// unsupported chain never touches the network. feePPM applies to V3 only;
// 0 selects the default tier.
func (e *Engine) ResolvePool(ctx context.Context, chain, token string, variant model.DexVariant, feePPM uint32) (model.PoolSnapshot, error) {
	cfg, err := e.registry.Lookup(chain)
	if err != nil {
		return model.PoolSnapshot{}, err
	}

	caller, err := e.connect(ctx, cfg)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("connect %s: %w", chain, err)
	}
	defer closeCaller(caller)

	switch variant {
	case model.DexUniswapV2:
		return ResolveV2Pool(ctx, caller, cfg, token, e.logger)
	case model.DexUniswapV3:
		return ResolveV3Pool(ctx, caller, cfg, token, feePPM, e.logger)
	default:
		return model.PoolSnapshot{}, fmt.Errorf("unknown dex variant: %q", variant)
	}
}

// BuildSwapRequest quotes a trade against an already-resolved snapshot and
// assembles the slippage-bounded request.
func (e *Engine) BuildSwapRequest(ctx context.Context, chain string, snapshot model.PoolSnapshot, params QuoteParams) (model.SwapRequest, error) {
	cfg, err := e.registry.Lookup(chain)
	if err != nil {
		return model.SwapRequest{}, err
	}
	if err := params.Validate(); err != nil {
		return model.SwapRequest{}, err
	}

	caller, err := e.connect(ctx, cfg)
	if err != nil {
		return model.SwapRequest{}, fmt.Errorf("connect %s: %w", chain, err)
	}
	defer closeCaller(caller)

	return e.quotes.BuildSwapRequest(ctx, caller, cfg, snapshot, params)
}

func closeCaller(caller Caller) {
	if closer, ok := caller.(interface{ Close() }); ok {
		closer.Close()
	}
}
