package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"perpStats/internal/config"
	"perpStats/internal/pipeline"
	"perpStats/internal/registry"
	"perpStats/internal/storage"
	"perpStats/internal/storage/postgres"
)

func runQuery(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadQuery(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources, release, err := upstreams(ctx, cfg.Config, []registry.Chain{cfg.Chain}, logger)
	if err != nil {
		return err
	}
	defer release()

	runner := pipeline.NewRunner(sources, cfg.Workers, logger)
	defer runner.Close()

	res, err := runner.Run(ctx, cfg.Dataset, cfg.Params())
	if err != nil {
		return err
	}

	var sinks []storage.SeriesWriter
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.Out))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
	}

	if len(sinks) == 0 {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	key := storage.SeriesKey{Chain: res.Chain.String(), Dataset: res.Dataset}
	for _, sink := range sinks {
		if err := sink.PutSeries(ctx, key, res.Series); err != nil {
			return err
		}
	}
	logger.Info("dataset written",
		zap.String("dataset", res.Dataset),
		zap.String("chain", res.Chain.String()),
		zap.Int("points", len(res.Series)),
		zap.String("out", cfg.Out),
		zap.Bool("postgres", cfg.PGDSN != ""),
	)
	return nil
}
