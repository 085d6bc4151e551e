package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/rnsdash/internal/core/domain"
)

const (
	defaultMainnetHost     = "https://rootstock-mainnet.g.alchemy.com/v2/"
	defaultTestnetHost     = "https://rootstock-testnet.g.alchemy.com/v2/"
	defaultMainnetRPC      = "https://public-node.rsk.co"
	defaultTestnetRPC      = "https://public-node.testnet.rsk.co"
	defaultMainnetRegistry = "0xcb868aeabd31e2b66f74e9a55cf064abb31a4ad5"
	defaultTestnetRegistry = "0x7d284aaac6e925aad802a53c0c69efe3764597b8"
)

// Default limits. They mirror the provider rate limits the service was tuned
// against.
const (
	DefaultTokenMetadataConcurrency     = 8
	DefaultSecondaryMetadataConcurrency = 5
	DefaultNFTMetadataConcurrency       = 6
	DefaultNFTPageSize                  = 100
	DefaultNFTMaxPages                  = 5
	DefaultTransferMaxCount             = 20
)

var defaultTokens = map[domain.Network][]domain.CuratedToken{
	domain.NetworkMainnet: {
		{Address: "0x2acc95758f8b5f583470ba265eb685a8f45fc9d5", CoingeckoID: "rif-token"},
		{Address: "0x2b2e4a6a2038d6cd3c38f41f5aabf638a722f6a5", CoingeckoID: "rdoc"},
	},
	domain.NetworkTestnet: {
		{Address: "0x19f64674D8a5b4e652319F5e239EFd3bc969a1FE", CoingeckoID: "trif-token"},
	},
}

// Load reads configuration from a YAML file. A missing file is not an error:
// defaults and environment overrides still apply.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// applyEnv reads the legacy deployment variable names.
func applyEnv(cfg *AppConfig) {
	setFirst(&cfg.Networks.Mainnet.ProviderURL, "ALCHEMY_RSK_MAINNET_URL", "ROOTSTOCK_MAINNET_ALCHEMY_NETWORK_URL")
	setFirst(&cfg.Networks.Testnet.ProviderURL, "ALCHEMY_RSK_TESTNET_URL", "ROOTSTOCK_TESTNET_ALCHEMY_NETWORK_URL")
	setFirst(&cfg.Networks.Mainnet.ProviderHost, "ALCHEMY_RSK_MAINNET_HOST")
	setFirst(&cfg.Networks.Testnet.ProviderHost, "ALCHEMY_RSK_TESTNET_HOST")
	setFirst(&cfg.Networks.Mainnet.ProviderAPIKey, "ALCHEMY_API_KEY")
	setFirst(&cfg.Networks.Testnet.ProviderAPIKey, "ALCHEMY_API_KEY")
	setFirst(&cfg.Networks.Mainnet.RPCURL, "RSK_RPC_URL_MAINNET", "NEXT_PUBLIC_RSK_RPC_URL_MAINNET")
	setFirst(&cfg.Networks.Testnet.RPCURL, "RSK_RPC_URL_TESTNET", "NEXT_PUBLIC_RSK_RPC_URL_TESTNET")
}

// setFirst fills an empty field from the first non-empty variable.
func setFirst(dst *string, keys ...string) {
	if *dst != "" {
		return
	}
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			*dst = v
			return
		}
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	networkDefaults(&cfg.Networks.Mainnet, domain.NetworkMainnet, defaultMainnetHost, defaultMainnetRPC, defaultMainnetRegistry)
	networkDefaults(&cfg.Networks.Testnet, domain.NetworkTestnet, defaultTestnetHost, defaultTestnetRPC, defaultTestnetRegistry)

	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 15 * time.Second
	}
	if cfg.Upstream.CoingeckoURL == "" {
		cfg.Upstream.CoingeckoURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.Upstream.CoingeckoPlatform == "" {
		cfg.Upstream.CoingeckoPlatform = "rootstock"
	}

	l := &cfg.Limits
	setInt(&l.TokenMetadataConcurrency, DefaultTokenMetadataConcurrency)
	setInt(&l.SecondaryMetadataConcurrency, DefaultSecondaryMetadataConcurrency)
	setInt(&l.NFTMetadataConcurrency, DefaultNFTMetadataConcurrency)
	setInt(&l.NFTPageSize, DefaultNFTPageSize)
	setInt(&l.NFTMaxPages, DefaultNFTMaxPages)
	setInt(&l.TransferMaxCount, DefaultTransferMaxCount)
}

func networkDefaults(c *NetworkConfig, n domain.Network, host, rpcURL, registry string) {
	if c.ProviderHost == "" {
		c.ProviderHost = host
	}
	if c.RPCURL == "" {
		c.RPCURL = rpcURL
	}
	if c.RegistryAddress == "" {
		c.RegistryAddress = registry
	}
	if len(c.Tokens) == 0 {
		c.Tokens = defaultTokens[n]
	}
}

func setInt(dst *int, def int) {
	if *dst <= 0 {
		*dst = def
	}
}
