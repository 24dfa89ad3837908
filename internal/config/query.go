package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"perpStats/internal/pipeline"
	"perpStats/internal/registry"
)

// QueryConfig holds configuration for a one-shot dataset query.
type QueryConfig struct {
	Config
	Dataset string
	Chain   registry.Chain
	From    int64
	To      int64
	Period  time.Duration
	Out     string
	PGDSN   string
}

// LoadQuery merges config file, environment variables, and flags into QueryConfig.
func LoadQuery(cfgFile string, flags *pflag.FlagSet) (QueryConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return QueryConfig{}, err
	}
	v.SetDefault("chain", string(registry.Arbitrum))
	v.SetDefault("period", 24*time.Hour)

	base, err := fromViper(v)
	if err != nil {
		return QueryConfig{}, err
	}
	cfg := QueryConfig{
		Config:  base,
		Dataset: v.GetString("dataset"),
		Period:  v.GetDuration("period"),
		Out:     v.GetString("out"),
		PGDSN:   v.GetString("pg-dsn"),
	}
	if cfg.Dataset == "" {
		return QueryConfig{}, fmt.Errorf("dataset is required")
	}
	if cfg.Chain, err = registry.ParseChain(v.GetString("chain")); err != nil {
		return QueryConfig{}, err
	}
	if cfg.From, err = pipeline.ParseTimestamp(v.GetString("from")); err != nil {
		return QueryConfig{}, fmt.Errorf("from: %w", err)
	}
	if cfg.To, err = pipeline.ParseTimestamp(v.GetString("to")); err != nil {
		return QueryConfig{}, fmt.Errorf("to: %w", err)
	}
	if cfg.To > 0 && cfg.From > cfg.To {
		return QueryConfig{}, fmt.Errorf("from %d is after to %d", cfg.From, cfg.To)
	}
	if cfg.Period != 24*time.Hour {
		return QueryConfig{}, fmt.Errorf("%w: %s, only 24h is supported", pipeline.ErrUnsupportedPeriod, cfg.Period)
	}
	return cfg, nil
}

// Params converts the query window into pipeline parameters.
func (c QueryConfig) Params() pipeline.Params {
	return pipeline.Params{From: c.From, To: c.To, Chain: c.Chain, Period: int64(c.Period / time.Second)}
}
