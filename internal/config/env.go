package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the daemon. RPC endpoint
// lists are ordered: the first entry is the primary, the rest are fallbacks.
type Config struct {
	Port            string `envconfig:"PORT" default:"8085"`
	DBPath          string `envconfig:"DB_PATH" default:"sentinel.db"`
	AutoLockMinutes int    `envconfig:"AUTO_LOCK_MINUTES" default:"30"`

	EthereumRPCURLs []string `envconfig:"ETHEREUM_RPC_URLS" default:"https://eth.llamarpc.com,https://rpc.ankr.com/eth"`
	PolygonRPCURLs  []string `envconfig:"POLYGON_RPC_URLS" default:"https://polygon-rpc.com,https://rpc.ankr.com/polygon"`
	BSCRPCURLs      []string `envconfig:"BSC_RPC_URLS" default:"https://bsc-dataseed.binance.org,https://rpc.ankr.com/bsc"`
	ArbitrumRPCURLs []string `envconfig:"ARBITRUM_RPC_URLS" default:"https://arb1.arbitrum.io/rpc,https://rpc.ankr.com/arbitrum"`
	OptimismRPCURLs []string `envconfig:"OPTIMISM_RPC_URLS" default:"https://mainnet.optimism.io,https://rpc.ankr.com/optimism"`
	SolanaRPCURLs   []string `envconfig:"SOLANA_RPC_URLS" default:"https://api.mainnet-beta.solana.com,https://solana-rpc.publicnode.com"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}

// AutoLockTimeout returns the session inactivity window.
func (c *Config) AutoLockTimeout() time.Duration {
	return time.Duration(c.AutoLockMinutes) * time.Minute
}

// Endpoints returns the per-network RPC failover lists, keyed by network
// name. Networks with no configured endpoints are omitted. Only networks the
// dispatcher can actually broadcast on are configurable here.
func (c *Config) Endpoints() map[string][]string {
	out := make(map[string][]string)
	put := func(network string, urls []string) {
		if len(urls) > 0 && urls[0] != "" {
			out[network] = urls
		}
	}
	put("ethereum", c.EthereumRPCURLs)
	put("polygon", c.PolygonRPCURLs)
	put("bsc", c.BSCRPCURLs)
	put("arbitrum", c.ArbitrumRPCURLs)
	put("optimism", c.OptimismRPCURLs)
	put("solana", c.SolanaRPCURLs)
	return out
}
