package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lbnlsj/eth-dex/internal/model"
	"github.com/lbnlsj/eth-dex/internal/registry"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Chain          string
	Token          string
	Dex            string
	FeePPM         uint32
	Side           string
	Amount         string
	SlippageBps    uint32
	FeeDiscountBps uint32
	Out            string
	PGDSN          string
	MaxRetries     int
	RetryBackoff   time.Duration
	LogLevel       string

	// Chains is the built-in registry table merged with any overrides
	// from the config file's chains section.
	Chains map[string]model.ChainConfig
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DEXQUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("dex", "v2")
	v.SetDefault("fee", uint32(0))
	v.SetDefault("slippage-bps", uint32(50))
	v.SetDefault("fee-discount-bps", uint32(0))
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	chains, err := loadChains(v)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Chain:          v.GetString("chain"),
		Token:          v.GetString("token"),
		Dex:            v.GetString("dex"),
		FeePPM:         v.GetUint32("fee"),
		Side:           v.GetString("side"),
		Amount:         v.GetString("amount"),
		SlippageBps:    v.GetUint32("slippage-bps"),
		FeeDiscountBps: v.GetUint32("fee-discount-bps"),
		Out:            v.GetString("out"),
		PGDSN:          v.GetString("pg-dsn"),
		MaxRetries:     v.GetInt("max-retries"),
		RetryBackoff:   v.GetDuration("retry-backoff"),
		LogLevel:       v.GetString("log-level"),
		Chains:         chains,
	}

	return cfg, nil
}

// loadChains merges the config file's chains section over the built-in
// table. Overrides may be partial; blank fields keep the default value.
func loadChains(v *viper.Viper) (map[string]model.ChainConfig, error) {
	chains := registry.DefaultChains()
	if !v.IsSet("chains") {
		return chains, nil
	}

	overrides := make(map[string]model.ChainConfig)
	if err := v.UnmarshalKey("chains", &overrides); err != nil {
		return nil, fmt.Errorf("decode chains: %w", err)
	}

	for name, override := range overrides {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		chains[key] = mergeChain(chains[key], override)
	}
	return chains, nil
}

func mergeChain(base, override model.ChainConfig) model.ChainConfig {
	if strings.TrimSpace(override.RPCURL) != "" {
		base.RPCURL = override.RPCURL
	}
	if strings.TrimSpace(override.V2Factory) != "" {
		base.V2Factory = override.V2Factory
	}
	if strings.TrimSpace(override.V2Router) != "" {
		base.V2Router = override.V2Router
	}
	if strings.TrimSpace(override.V3Factory) != "" {
		base.V3Factory = override.V3Factory
	}
	if strings.TrimSpace(override.V3Quoter) != "" {
		base.V3Quoter = override.V3Quoter
	}
	if strings.TrimSpace(override.WrappedNative) != "" {
		base.WrappedNative = override.WrappedNative
	}
	return base
}
