package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"perpStats/internal/chain"
	"perpStats/internal/config"
	"perpStats/internal/contracts"
	"perpStats/internal/fetch"
)

func loadChainCommand(cmd *cobra.Command) (config.ChainConfig, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadChain(cfgFile, cmd.Flags())
	if err != nil {
		return config.ChainConfig{}, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.ChainConfig{}, nil, err
	}
	if cfg.Chains[cfg.Chain].RPC == "" {
		return config.ChainConfig{}, nil, fmt.Errorf("rpc url for %s is required", cfg.Chain)
	}
	return cfg, logger, nil
}

func runLag(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadChainCommand(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	up := cfg.Chains[cfg.Chain]
	subgraph := fetch.NewSubgraph(up.Subgraph, fetch.Options{Retry: cfg.Retry(), Logger: logger})
	indexed, err := subgraph.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("read subgraph head: %w", err)
	}

	client, err := chain.NewClient(ctx, up.RPC, cfg.Chain)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer client.Close()

	lag, err := contracts.NewReader(client, cfg.Chain).SubgraphLag(ctx, indexed)
	if err != nil {
		return err
	}
	logger.Info("subgraph lag",
		zap.String("chain", cfg.Chain.String()),
		zap.Uint64("chain_block", lag.ChainBlock),
		zap.Uint64("subgraph_block", lag.SubgraphBlock),
		zap.Int64("blocks", lag.Blocks),
		zap.Int64("seconds", lag.Seconds),
	)
	return json.NewEncoder(cmd.OutOrStdout()).Encode(lag)
}

func runPoolPrice(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadChainCommand(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := chain.NewClient(ctx, cfg.Chains[cfg.Chain].RPC, cfg.Chain)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer client.Close()

	price, err := contracts.NewReader(client, cfg.Chain).PoolPrice(ctx)
	if err != nil {
		return err
	}
	return json.NewEncoder(cmd.OutOrStdout()).Encode(price)
}
