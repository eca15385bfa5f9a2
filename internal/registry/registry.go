package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lbnlsj/eth-dex/internal/model"
)

// ErrUnsupportedChain is returned when a chain identifier has no entry.
var ErrUnsupportedChain = errors.New("unsupported chain")

// Registry maps chain identifiers to immutable chain configurations.
// Lookups are pure and perform no I/O.
type Registry struct {
	chains map[string]model.ChainConfig
}

// New builds a registry from the given table, validating every entry.
func New(chains map[string]model.ChainConfig) (*Registry, error) {
	out := make(map[string]model.ChainConfig, len(chains))
	for name, cfg := range chains {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, fmt.Errorf("blank chain identifier")
		}
		if _, ok := out[key]; ok {
			return nil, fmt.Errorf("duplicate chain identifier: %s", key)
		}
		if err := validate(key, cfg); err != nil {
			return nil, err
		}
		out[key] = cfg
	}
	return &Registry{chains: out}, nil
}

// Lookup returns the configuration for a chain identifier.
func (r *Registry) Lookup(chain string) (model.ChainConfig, error) {
	cfg, ok := r.chains[strings.ToLower(strings.TrimSpace(chain))]
	if !ok {
		return model.ChainConfig{}, fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}
	return cfg, nil
}

// Chains returns the supported chain identifiers in sorted order.
func (r *Registry) Chains() []string {
	names := make([]string, 0, len(r.chains))
	for name := range r.chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validate(chain string, cfg model.ChainConfig) error {
	if strings.TrimSpace(cfg.RPCURL) == "" {
		return fmt.Errorf("chain %s: rpc url is required", chain)
	}
	addresses := map[string]string{
		"v2-factory":     cfg.V2Factory,
		"v2-router":      cfg.V2Router,
		"v3-factory":     cfg.V3Factory,
		"v3-quoter":      cfg.V3Quoter,
		"wrapped-native": cfg.WrappedNative,
	}
	for field, addr := range addresses {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("chain %s: invalid %s address: %q", chain, field, addr)
		}
	}
	return nil
}
