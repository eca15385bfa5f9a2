package dex

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/lbnlsj/eth-dex/internal/model"
)

// fakeCaller serves packed ABI return values keyed by contract address and
// method selector, recording every call it receives.
type fakeCaller struct {
	mu      sync.Mutex
	returns map[string][]byte
	errs    map[string]error
	calls   []string
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		returns: make(map[string][]byte),
		errs:    make(map[string]error),
	}
}

func callKey(to common.Address, data []byte) string {
	selector := data
	if len(selector) > 4 {
		selector = selector[:4]
	}
	return to.Hex() + ":" + hex.EncodeToString(selector)
}

func stubKey(to common.Address, parsed abi.ABI, method string) string {
	return to.Hex() + ":" + hex.EncodeToString(parsed.Methods[method].ID)
}

// stub registers packed outputs for a contract method.
func (f *fakeCaller) stub(t *testing.T, to common.Address, parsed abi.ABI, method string, outputs ...interface{}) {
	t.Helper()
	packed, err := parsed.Methods[method].Outputs.Pack(outputs...)
	if err != nil {
		t.Fatalf("pack %s outputs: %v", method, err)
	}
	f.mu.Lock()
	f.returns[stubKey(to, parsed, method)] = packed
	f.mu.Unlock()
}

// stubErr makes a contract method fail with the given error.
func (f *fakeCaller) stubErr(to common.Address, parsed abi.ABI, method string, err error) {
	f.mu.Lock()
	f.errs[stubKey(to, parsed, method)] = err
	f.mu.Unlock()
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if msg.To == nil {
		return nil, fmt.Errorf("missing call target")
	}
	key := callKey(*msg.To, msg.Data)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)

	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if resp, ok := f.returns[key]; ok {
		return resp, nil
	}
	return nil, fmt.Errorf("unexpected call: %s", key)
}

func (f *fakeCaller) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCaller) called(to common.Address, parsed abi.ABI, method string) bool {
	key := stubKey(to, parsed, method)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, call := range f.calls {
		if call == key {
			return true
		}
	}
	return false
}

var (
	testToken   = common.HexToAddress("0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984")
	testNative  = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	testFactory = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	testRouter  = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	testQuoter  = common.HexToAddress("0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6")
	testPair    = common.HexToAddress("0xd3d2E2692501A5c9Ca623199D38826e513033a17")
	testPool    = common.HexToAddress("0x1d42064Fc4Beb5F8aAF85F4617AE8b3b5B8Bd801")
)

func testChainConfig() model.ChainConfig {
	return model.ChainConfig{
		RPCURL:        "http://localhost:8545",
		V2Factory:     testFactory.Hex(),
		V2Router:      testRouter.Hex(),
		V3Factory:     testFactory.Hex(),
		V3Quoter:      testQuoter.Hex(),
		WrappedNative: testNative.Hex(),
	}
}

// mustRat parses a decimal string for comparisons against formatted output.
func mustRat(t *testing.T, value string) *big.Rat {
	t.Helper()
	rat, ok := new(big.Rat).SetString(value)
	if !ok {
		t.Fatalf("parse rat: %q", value)
	}
	return rat
}

// expandDecimal is a shorthand for n * 10^exp.
func expandDecimal(n int64, exp int64) *big.Int {
	out := new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil)
	return out.Mul(out, big.NewInt(n))
}
