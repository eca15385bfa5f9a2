package registry

import (
	"errors"
	"sort"
	"testing"

	"github.com/lbnlsj/eth-dex/internal/model"
)

func validConfig() model.ChainConfig {
	return model.ChainConfig{
		RPCURL:        "https://rpc.example.org",
		V2Factory:     "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f",
		V2Router:      "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
		V3Factory:     "0x1F98431c8aD98523631AE4a59f267346ea31F984",
		V3Quoter:      "0xb27308f9F90D607463bb33eA1BeBb41C27CE5AB6",
		WrappedNative: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
	}
}

func TestLookup(t *testing.T) {
	reg, err := New(map[string]model.ChainConfig{"ETH ": validConfig()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// Identifiers normalize to lowercase on both sides.
	for _, name := range []string{"eth", "ETH", " eth "} {
		cfg, err := reg.Lookup(name)
		if err != nil {
			t.Fatalf("lookup %q: %v", name, err)
		}
		if cfg.RPCURL != "https://rpc.example.org" {
			t.Fatalf("lookup %q returned %+v", name, cfg)
		}
	}
}

func TestLookupUnsupportedChain(t *testing.T) {
	reg := Default()
	_, err := reg.Lookup("xyz")
	if !errors.Is(err, ErrUnsupportedChain) {
		t.Fatalf("expected ErrUnsupportedChain, got %v", err)
	}
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	missingRPC := validConfig()
	missingRPC.RPCURL = "  "

	badRouter := validConfig()
	badRouter.V2Router = "not-an-address"

	cases := map[string]map[string]model.ChainConfig{
		"blank identifier": {"  ": validConfig()},
		"missing rpc url":  {"eth": missingRPC},
		"bad address":      {"eth": badRouter},
		"duplicate after normalization": {
			"eth": validConfig(),
			"ETH": validConfig(),
		},
	}
	for name, chains := range cases {
		if _, err := New(chains); err == nil {
			t.Errorf("%s: New accepted an invalid table", name)
		}
	}
}

func TestDefaultTableIsValid(t *testing.T) {
	reg := Default()
	for _, chain := range []string{"eth", "bsc", "base", "arb"} {
		if _, err := reg.Lookup(chain); err != nil {
			t.Errorf("builtin chain %s: %v", chain, err)
		}
	}
}

func TestChainsSorted(t *testing.T) {
	names := Default().Chains()
	if !sort.StringsAreSorted(names) {
		t.Fatalf("chains not sorted: %v", names)
	}
	if len(names) != 4 {
		t.Fatalf("builtin chain count = %d", len(names))
	}
}

func TestDefaultChainsReturnsCopy(t *testing.T) {
	table := DefaultChains()
	table["eth"] = model.ChainConfig{}
	if cfg, err := Default().Lookup("eth"); err != nil || cfg.RPCURL == "" {
		t.Fatalf("mutating the copy leaked into the builtin table: %+v, %v", cfg, err)
	}
}
