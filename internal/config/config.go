package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"perpStats/internal/fetch"
	"perpStats/internal/registry"
)

const subgraphBase = "https://api.thegraph.com/subgraphs/name/"

// Upstreams are the endpoints of one chain.
type Upstreams struct {
	Subgraph          string
	ReferralsSubgraph string
	RPC               string
	VolumeServer      string
}

var defaultUpstreams = map[registry.Chain]Upstreams{
	registry.Arbitrum: {
		Subgraph:          subgraphBase + "superronaldo/waifu-stats",
		ReferralsSubgraph: subgraphBase + "gmx-io/gmx-arbitrum-referrals",
		RPC:               "https://arbitrum.blockpi.network/v1/rpc/public",
		VolumeServer:      fetch.DefaultVolumeServerURL(registry.Arbitrum),
	},
	registry.Avalanche: {
		Subgraph:          subgraphBase + "superronaldo/waifu-stats",
		ReferralsSubgraph: subgraphBase + "gmx-io/gmx-avalanche-referrals",
		RPC:               "https://api.avax.network/ext/bc/C/rpc",
		VolumeServer:      fetch.DefaultVolumeServerURL(registry.Avalanche),
	},
}

// Config holds the settings shared by every command.
type Config struct {
	Chains        map[registry.Chain]Upstreams
	PricesURL     string
	RedisURL      string
	RedisPassword string
	CacheTTL      time.Duration
	HTTPTimeout   time.Duration
	Workers       int
	MaxRetries    int
	RetryBackoff  time.Duration
	LogLevel      string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return Config{}, err
	}
	return fromViper(v)
}

// newViper layers defaults, STATS_* environment, flags and an optional file.
func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("STATS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for chain, up := range defaultUpstreams {
		v.SetDefault("subgraph-"+string(chain), up.Subgraph)
		v.SetDefault("referrals-subgraph-"+string(chain), up.ReferralsSubgraph)
		v.SetDefault("rpc-"+string(chain), up.RPC)
		v.SetDefault("volume-server-"+string(chain), up.VolumeServer)
	}
	v.SetDefault("prices-url", fetch.DefaultPricesURL)
	v.SetDefault("cache-ttl", 5*time.Minute)
	v.SetDefault("http-timeout", 30*time.Second)
	v.SetDefault("workers", 8)
	v.SetDefault("max-retries", fetch.DefaultRetryPolicy.MaxRetries)
	v.SetDefault("retry-backoff", fetch.DefaultRetryPolicy.BaseDelay)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Chains:        make(map[registry.Chain]Upstreams, len(defaultUpstreams)),
		PricesURL:     v.GetString("prices-url"),
		RedisURL:      v.GetString("redis-url"),
		RedisPassword: v.GetString("redis-password"),
		CacheTTL:      v.GetDuration("cache-ttl"),
		HTTPTimeout:   v.GetDuration("http-timeout"),
		Workers:       v.GetInt("workers"),
		MaxRetries:    v.GetInt("max-retries"),
		RetryBackoff:  v.GetDuration("retry-backoff"),
		LogLevel:      v.GetString("log-level"),
	}
	for _, chain := range registry.Chains() {
		cfg.Chains[chain] = Upstreams{
			Subgraph:          v.GetString("subgraph-" + string(chain)),
			ReferralsSubgraph: v.GetString("referrals-subgraph-" + string(chain)),
			RPC:               v.GetString("rpc-" + string(chain)),
			VolumeServer:      v.GetString("volume-server-" + string(chain)),
		}
	}

	if cfg.Workers <= 0 {
		return Config{}, fmt.Errorf("workers must be greater than zero, got %d", cfg.Workers)
	}
	if cfg.MaxRetries < 0 {
		return Config{}, fmt.Errorf("max-retries must not be negative, got %d", cfg.MaxRetries)
	}
	return cfg, nil
}

// Retry returns the upstream retry policy.
func (c Config) Retry() fetch.RetryPolicy {
	return fetch.RetryPolicy{MaxRetries: c.MaxRetries, BaseDelay: c.RetryBackoff}
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
