package config

import (
	"strings"
	"time"

	"github.com/vietddude/rnsdash/internal/core/domain"
	redisclient "github.com/vietddude/rnsdash/internal/infra/redis"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Networks NetworksConfig `yaml:"networks"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Limits   LimitsConfig   `yaml:"limits"`
	Budget   BudgetConfig   `yaml:"budget"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// NetworksConfig holds one block per supported network.
type NetworksConfig struct {
	Mainnet NetworkConfig `yaml:"mainnet"`
	Testnet NetworkConfig `yaml:"testnet"`
}

// For returns the settings of network n.
func (c NetworksConfig) For(n domain.Network) NetworkConfig {
	if n == domain.NetworkTestnet {
		return c.Testnet
	}
	return c.Mainnet
}

// NetworkConfig holds endpoints and contract addresses of one network.
type NetworkConfig struct {
	// ProviderURL is the full data-provider URL including the key.
	// When empty it is built from ProviderHost and ProviderAPIKey.
	ProviderURL     string                `yaml:"provider_url"`
	ProviderHost    string                `yaml:"provider_host"`
	ProviderAPIKey  string                `yaml:"provider_api_key"`
	RPCURL          string                `yaml:"rpc_url"`
	RegistryAddress string                `yaml:"registry_address"`
	Tokens          []domain.CuratedToken `yaml:"tokens"`
}

// DataProviderURL returns the provider endpoint, or "" when unconfigured.
func (c NetworkConfig) DataProviderURL() string {
	if c.ProviderURL != "" {
		return c.ProviderURL
	}
	if c.ProviderAPIKey == "" {
		return ""
	}
	host := c.ProviderHost
	if !strings.HasSuffix(host, "/") {
		host += "/"
	}
	return host + c.ProviderAPIKey
}

// UpstreamConfig holds settings shared by all remote calls.
type UpstreamConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	CoingeckoURL      string        `yaml:"coingecko_url"`
	CoingeckoPlatform string        `yaml:"coingecko_platform"`
}

// LimitsConfig carries the fan-out and paging bounds. The defaults encode
// the provider's rate limits; change them only against documented limits.
type LimitsConfig struct {
	TokenMetadataConcurrency     int `yaml:"token_metadata_concurrency"`
	SecondaryMetadataConcurrency int `yaml:"secondary_metadata_concurrency"`
	NFTMetadataConcurrency       int `yaml:"nft_metadata_concurrency"`
	NFTPageSize                  int `yaml:"nft_page_size"`
	NFTMaxPages                  int `yaml:"nft_max_pages"`
	TransferMaxCount             int `yaml:"transfer_max_count"`
}

// BudgetConfig bounds daily calls per data provider.
type BudgetConfig struct {
	DailyQuota int                `yaml:"daily_quota"` // 0 = unlimited
	Redis      redisclient.Config `yaml:"redis"`
}
