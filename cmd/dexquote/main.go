package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lbnlsj/eth-dex/internal/chain"
	"github.com/lbnlsj/eth-dex/internal/config"
	"github.com/lbnlsj/eth-dex/internal/dex"
	"github.com/lbnlsj/eth-dex/internal/model"
	"github.com/lbnlsj/eth-dex/internal/registry"
	"github.com/lbnlsj/eth-dex/internal/storage"
	"github.com/lbnlsj/eth-dex/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "dexquote",
		Short:        "Normalize AMM pool state and build slippage-bounded swap quotes",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	poolCmd := &cobra.Command{
		Use:   "pool",
		Short: "Resolve a token's pool into a normalized snapshot",
		RunE:  runPool,
	}
	addCommonFlags(poolCmd)
	poolCmd.Flags().String("out", "", "append snapshot to this JSONL file")
	poolCmd.Flags().String("pg-dsn", "", "record snapshot in Postgres")
	root.AddCommand(poolCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Build a swap request with a slippage-protected minimum output",
		RunE:  runQuote,
	}
	addCommonFlags(quoteCmd)
	quoteCmd.Flags().String("side", "", "trade direction (buy or sell)")
	quoteCmd.Flags().String("amount", "", "input amount, human-scaled")
	quoteCmd.Flags().Uint32("slippage-bps", 50, "slippage tolerance in basis points")
	quoteCmd.Flags().Uint32("fee-discount-bps", 0, "advisory fee discount in basis points")
	root.AddCommand(quoteCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("chain", "", "chain identifier (eth, bsc, base, arb)")
	cmd.Flags().String("token", "", "ERC20 token address")
	cmd.Flags().String("dex", "v2", "AMM variant (v2 or v3)")
	cmd.Flags().Uint32("fee", 0, "V3 fee tier in ppm, 0 for the default tier")
	cmd.Flags().Int("max-retries", 3, "maximum RPC retry attempts")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial RPC retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func runPool(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine, variant, err := setup(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshot, err := engine.ResolvePool(ctx, cfg.Chain, cfg.Token, variant, cfg.FeePPM)
	if err != nil {
		return err
	}

	record := model.SnapshotRecord{
		Chain:        cfg.Chain,
		TokenAddress: cfg.Token,
		FetchedAt:    time.Now().UTC(),
		Snapshot:     snapshot,
	}
	if err := recordSnapshot(ctx, cfg, logger, record); err != nil {
		return err
	}

	return printJSON(snapshot)
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine, variant, err := setup(cfg, logger)
	if err != nil {
		return err
	}

	direction := model.TradeDirection(cfg.Side)
	if cfg.Amount == "" {
		return fmt.Errorf("amount is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshot, err := engine.ResolvePool(ctx, cfg.Chain, cfg.Token, variant, cfg.FeePPM)
	if err != nil {
		return err
	}

	request, err := engine.BuildSwapRequest(ctx, cfg.Chain, snapshot, dex.QuoteParams{
		Direction:      direction,
		Amount:         cfg.Amount,
		SlippageBps:    cfg.SlippageBps,
		FeeDiscountBps: cfg.FeeDiscountBps,
	})
	if err != nil {
		return err
	}

	logger.Info("swap request built",
		zap.String("token_in", request.TokenIn),
		zap.String("token_out", request.TokenOut),
		zap.String("amount_in", request.AmountIn),
		zap.String("amount_out_min", request.AmountOutMin),
		zap.Int64("deadline", request.Deadline),
	)

	return printJSON(request)
}

func setup(cfg config.Config, logger *zap.Logger) (*dex.Engine, model.DexVariant, error) {
	if cfg.Chain == "" {
		return nil, "", fmt.Errorf("chain is required")
	}
	if cfg.Token == "" {
		return nil, "", fmt.Errorf("token address is required")
	}

	variant, err := parseVariant(cfg.Dex)
	if err != nil {
		return nil, "", err
	}

	reg, err := registry.New(cfg.Chains)
	if err != nil {
		return nil, "", err
	}
	if _, err := reg.Lookup(cfg.Chain); err != nil {
		return nil, "", fmt.Errorf("%w (supported: %s)", err, strings.Join(reg.Chains(), ", "))
	}

	retry := chain.RetryPolicy{
		MaxRetries:  cfg.MaxRetries,
		BaseBackoff: cfg.RetryBackoff,
	}
	connect := func(ctx context.Context, chainCfg model.ChainConfig) (dex.Caller, error) {
		client, err := chain.NewClient(ctx, chainCfg.RPCURL, retry)
		if err != nil {
			return nil, err
		}
		if id, err := client.ChainID(ctx); err == nil {
			logger.Debug("connected", zap.String("chain_id", id.String()))
		}
		return client, nil
	}

	return dex.NewEngine(reg, connect, logger), variant, nil
}

func parseVariant(name string) (model.DexVariant, error) {
	switch name {
	case "v2":
		return model.DexUniswapV2, nil
	case "v3":
		return model.DexUniswapV3, nil
	default:
		return "", fmt.Errorf("unknown dex variant: %q (want v2 or v3)", name)
	}
}

func recordSnapshot(ctx context.Context, cfg config.Config, logger *zap.Logger, record model.SnapshotRecord) error {
	var sinks []storage.Storage

	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Out))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer store.Close()
		sinks = append(sinks, store)
	}

	for _, sink := range sinks {
		if err := sink.PutSnapshot(ctx, record); err != nil {
			return err
		}
	}
	if len(sinks) > 0 {
		logger.Debug("snapshot recorded", zap.Int("sinks", len(sinks)))
	}
	return nil
}

func printJSON(value interface{}) error {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
