package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpStats/internal/pipeline"
	"perpStats/internal/registry"
)

// chdir moves into dir so no stray config.yaml is picked up.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func queryFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("query", pflag.ContinueOnError)
	flags.String("dataset", "", "")
	flags.String("chain", "", "")
	flags.String("from", "", "")
	flags.String("to", "", "")
	flags.Int("workers", 8, "")
	flags.Duration("period", 24*time.Hour, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadQueryDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadQuery("", queryFlags(t, "--dataset", "fees"))
	require.NoError(t, err)

	assert.Equal(t, "fees", cfg.Dataset)
	assert.Equal(t, registry.Arbitrum, cfg.Chain)
	assert.Equal(t, 24*time.Hour, cfg.Period)
	assert.Equal(t, int64(86400), cfg.Params().Period)
	assert.Equal(t, 8, cfg.Workers)
	assert.Contains(t, cfg.Chains[registry.Avalanche].ReferralsSubgraph, "avalanche-referrals")
	assert.Equal(t, cfg.MaxRetries, cfg.Retry().MaxRetries)
}

func TestLoadQueryEnvAndFlags(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STATS_SUBGRAPH_AVALANCHE", "http://localhost:8000/subgraphs/name/stats")
	t.Setenv("STATS_CACHE_TTL", "90s")

	cfg, err := LoadQuery("", queryFlags(t,
		"--dataset", "volume", "--chain", "43114", "--from", "2021-09-01T00:00:00Z", "--to", "1630540800"))
	require.NoError(t, err)

	assert.Equal(t, registry.Avalanche, cfg.Chain)
	assert.Equal(t, int64(1630454400), cfg.From)
	assert.Equal(t, int64(1630540800), cfg.To)
	assert.Equal(t, "http://localhost:8000/subgraphs/name/stats", cfg.Chains[registry.Avalanche].Subgraph)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
}

func TestLoadQueryRejectsBadInput(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := LoadQuery("", queryFlags(t))
	assert.Error(t, err)

	_, err = LoadQuery("", queryFlags(t, "--dataset", "fees", "--chain", "solana"))
	assert.Error(t, err)

	_, err = LoadQuery("", queryFlags(t, "--dataset", "fees", "--from", "200", "--to", "100"))
	assert.Error(t, err)

	_, err = LoadQuery("", queryFlags(t, "--dataset", "fees", "--period", "1h"))
	assert.True(t, errors.Is(err, pipeline.ErrUnsupportedPeriod))

	_, err = LoadQuery("", queryFlags(t, "--dataset", "fees", "--workers", "0"))
	assert.Error(t, err)
}

func TestLoadServeFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\nchains: avalanche\nredis-url: redis://localhost:6379/1\n"), 0o644))

	cfg, err := LoadServe(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []registry.Chain{registry.Avalanche}, cfg.Served)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	assert.Equal(t, time.Minute, cfg.RequestTimeout)
}

func TestLoadServeMissingFile(t *testing.T) {
	_, err := LoadServe(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadChain(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STATS_CHAIN", "avalanche")

	cfg, err := LoadChain("", nil)
	require.NoError(t, err)
	assert.Equal(t, registry.Avalanche, cfg.Chain)
	assert.Equal(t, "https://api.avax.network/ext/bc/C/rpc", cfg.Chains[registry.Avalanche].RPC)
}

func TestSplitAndClean(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndClean(" a, ,b "))
	assert.Nil(t, splitAndClean(""))
}
