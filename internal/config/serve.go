package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"perpStats/internal/registry"
)

// ServeConfig holds configuration for the HTTP server.
type ServeConfig struct {
	Config
	Addr           string
	RequestTimeout time.Duration
	// PGDSN enables write-through persistence and stale reads on upstream failure.
	PGDSN string
	// Served lists the chains given upstream clients. Empty means every chain.
	Served []registry.Chain
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return ServeConfig{}, err
	}
	v.SetDefault("addr", ":8080")
	v.SetDefault("request-timeout", time.Minute)

	base, err := fromViper(v)
	if err != nil {
		return ServeConfig{}, err
	}
	cfg := ServeConfig{
		Config:         base,
		Addr:           v.GetString("addr"),
		RequestTimeout: v.GetDuration("request-timeout"),
		PGDSN:          v.GetString("pg-dsn"),
	}
	for _, name := range getStringSlice(v, "chains") {
		chain, err := registry.ParseChain(name)
		if err != nil {
			return ServeConfig{}, fmt.Errorf("chains: %w", err)
		}
		cfg.Served = append(cfg.Served, chain)
	}
	if len(cfg.Served) == 0 {
		cfg.Served = registry.Chains()
	}
	return cfg, nil
}

// ChainConfig holds configuration for single-chain commands such as lag.
type ChainConfig struct {
	Config
	Chain registry.Chain
}

// LoadChain merges config file, environment variables, and flags into ChainConfig.
func LoadChain(cfgFile string, flags *pflag.FlagSet) (ChainConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return ChainConfig{}, err
	}
	v.SetDefault("chain", string(registry.Arbitrum))

	base, err := fromViper(v)
	if err != nil {
		return ChainConfig{}, err
	}
	chain, err := registry.ParseChain(v.GetString("chain"))
	if err != nil {
		return ChainConfig{}, err
	}
	return ChainConfig{Config: base, Chain: chain}, nil
}
