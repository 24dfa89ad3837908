package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"perpStats/internal/config"
	"perpStats/internal/fetch"
	"perpStats/internal/pipeline"
	"perpStats/internal/registry"
)

func main() {
	root := &cobra.Command{
		Use:          "stats",
		Short:        "Perpetual exchange analytics",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("redis-url", "", "redis URL for upstream response caching (empty disables)")
	root.PersistentFlags().Duration("cache-ttl", 5*time.Minute, "upstream response cache TTL")
	root.PersistentFlags().Int("workers", 8, "concurrent upstream fetches")
	root.PersistentFlags().Int("max-retries", fetch.DefaultRetryPolicy.MaxRetries, "maximum retry attempts per upstream request")
	root.PersistentFlags().Duration("retry-backoff", fetch.DefaultRetryPolicy.BaseDelay, "initial retry backoff")

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Compute one dataset and write it out",
		RunE:  runQuery,
	}

	queryCmd.Flags().String("dataset", "", "dataset name (see `stats datasets`)")
	queryCmd.Flags().String("chain", string(registry.Arbitrum), "chain name or id")
	queryCmd.Flags().String("from", "", "window start (unix seconds or RFC3339), default launch date")
	queryCmd.Flags().String("to", "", "window end (unix seconds or RFC3339), default now")
	queryCmd.Flags().Duration("period", 24*time.Hour, "APR period, only 24h is supported")
	queryCmd.Flags().String("out", "", "output JSONL path, empty prints JSON to stdout")
	queryCmd.Flags().String("pg-dsn", "", "Postgres DSN to upsert chart points into")

	root.AddCommand(queryCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve datasets over HTTP",
		RunE:  runServe,
	}

	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Duration("request-timeout", time.Minute, "per-request computation timeout")
	serveCmd.Flags().StringSlice("chains", nil, "chains to serve (comma-separated), default all")
	serveCmd.Flags().String("pg-dsn", "", "Postgres DSN for persisted series, served while upstreams fail")

	root.AddCommand(serveCmd)

	datasetsCmd := &cobra.Command{
		Use:   "datasets",
		Short: "List dataset names",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner := pipeline.NewRunner(nil, 1, nil)
			defer runner.Close()
			for _, name := range runner.Datasets() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	root.AddCommand(datasetsCmd)

	lagCmd := &cobra.Command{
		Use:   "lag",
		Short: "Compare the stats subgraph head with the chain head",
		RunE:  runLag,
	}
	lagCmd.Flags().String("chain", string(registry.Arbitrum), "chain name or id")

	root.AddCommand(lagCmd)

	priceCmd := &cobra.Command{
		Use:   "pool-price",
		Short: "Read the live pool token price from chain",
		RunE:  runPoolPrice,
	}
	priceCmd.Flags().String("chain", string(registry.Arbitrum), "chain name or id")

	root.AddCommand(priceCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
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

// upstreams builds the fetch clients of chains. The returned func releases
// the shared cache connection.
func upstreams(ctx context.Context, cfg config.Config, chains []registry.Chain, logger *zap.Logger) (map[registry.Chain]pipeline.Sources, func(), error) {
	opts := fetch.Options{
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Retry:      cfg.Retry(),
		Logger:     logger,
	}
	release := func() {}
	if cfg.RedisURL != "" {
		cache, err := fetch.NewRedisCache(ctx, cfg.RedisURL, cfg.RedisPassword, logger)
		if err != nil {
			return nil, nil, err
		}
		opts.Cache = cache
		opts.CacheTTL = cfg.CacheTTL
		release = func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", zap.Error(err))
			}
		}
	}

	prices := fetch.NewPrices(cfg.PricesURL, opts)
	out := make(map[registry.Chain]pipeline.Sources, len(chains))
	for _, chain := range chains {
		up, ok := cfg.Chains[chain]
		if !ok {
			release()
			return nil, nil, fmt.Errorf("%w %q", registry.ErrUnknownChain, chain)
		}
		src := pipeline.Sources{Prices: prices}
		if up.Subgraph != "" {
			src.Stats = fetch.NewSubgraph(up.Subgraph, opts)
		}
		if up.ReferralsSubgraph != "" {
			src.Referrals = fetch.NewSubgraph(up.ReferralsSubgraph, opts)
		}
		if up.VolumeServer != "" {
			src.Volume = fetch.NewVolumeServer(up.VolumeServer, opts)
		}
		out[chain] = src
		logger.Debug("upstreams configured",
			zap.String("chain", chain.String()),
			zap.String("subgraph", up.Subgraph),
			zap.String("referrals_subgraph", up.ReferralsSubgraph),
			zap.String("volume_server", up.VolumeServer),
		)
	}
	return out, release, nil
}
