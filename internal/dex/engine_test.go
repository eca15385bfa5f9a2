package dex

import (
	"context"
	"errors"
	"testing"

	"github.com/lbnlsj/eth-dex/internal/model"
	"github.com/lbnlsj/eth-dex/internal/registry"
)

type closableCaller struct {
	*fakeCaller
	closed bool
}

func (c *closableCaller) Close() { c.closed = true }

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(map[string]model.ChainConfig{"eth": testChainConfig()})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func TestEngineResolvePoolV2(t *testing.T) {
	f := &closableCaller{fakeCaller: newFakeCaller()}
	stubERC20(t, f.fakeCaller, testToken, "UNI", 18)
	stubV2Pair(t, f.fakeCaller, testToken, testNative, expandDecimal(1_000_000, 18), expandDecimal(500, 18))

	dials := 0
	eng := NewEngine(testRegistry(t), func(ctx context.Context, cfg model.ChainConfig) (Caller, error) {
		dials++
		return f, nil
	}, nil)

	snapshot, err := eng.ResolvePool(context.Background(), "eth", testToken.Hex(), model.DexUniswapV2, 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if snapshot.V2 == nil {
		t.Fatalf("expected a v2 snapshot")
	}
	if dials != 1 {
		t.Fatalf("dials = %d", dials)
	}
	if !f.closed {
		t.Fatalf("caller not closed after resolution")
	}
}

func TestEngineUnsupportedChainSkipsConnect(t *testing.T) {
	eng := NewEngine(testRegistry(t), func(ctx context.Context, cfg model.ChainConfig) (Caller, error) {
		t.Fatalf("connect must not run for an unsupported chain")
		return nil, nil
	}, nil)

	_, err := eng.ResolvePool(context.Background(), "solana", testToken.Hex(), model.DexUniswapV2, 0)
	if !errors.Is(err, registry.ErrUnsupportedChain) {
		t.Fatalf("expected ErrUnsupportedChain, got %v", err)
	}

	_, err = eng.BuildSwapRequest(context.Background(), "solana", v2Snapshot(18), QuoteParams{
		Direction: model.DirectionBuy, Amount: "1", SlippageBps: 50,
	})
	if !errors.Is(err, registry.ErrUnsupportedChain) {
		t.Fatalf("expected ErrUnsupportedChain from quote path, got %v", err)
	}
}

func TestEngineBuildSwapRequestValidatesBeforeConnect(t *testing.T) {
	eng := NewEngine(testRegistry(t), func(ctx context.Context, cfg model.ChainConfig) (Caller, error) {
		t.Fatalf("connect must not run for invalid params")
		return nil, nil
	}, nil)

	_, err := eng.BuildSwapRequest(context.Background(), "eth", v2Snapshot(18), QuoteParams{
		Direction: model.DirectionBuy, Amount: "1", SlippageBps: 12_000,
	})
	if !errors.Is(err, ErrInvalidSlippage) {
		t.Fatalf("expected ErrInvalidSlippage, got %v", err)
	}
}

func TestEngineConnectFailure(t *testing.T) {
	dialErr := errors.New("dial tcp: refused")
	eng := NewEngine(testRegistry(t), func(ctx context.Context, cfg model.ChainConfig) (Caller, error) {
		return nil, dialErr
	}, nil)

	_, err := eng.ResolvePool(context.Background(), "eth", testToken.Hex(), model.DexUniswapV2, 0)
	if !errors.Is(err, dialErr) {
		t.Fatalf("expected the dial error, got %v", err)
	}
}

func TestEngineUnknownVariant(t *testing.T) {
	eng := NewEngine(testRegistry(t), func(ctx context.Context, cfg model.ChainConfig) (Caller, error) {
		return newFakeCaller(), nil
	}, nil)

	_, err := eng.ResolvePool(context.Background(), "eth", testToken.Hex(), model.DexVariant("curve"), 0)
	if err == nil {
		t.Fatalf("expected an error for an unknown variant")
	}
}
