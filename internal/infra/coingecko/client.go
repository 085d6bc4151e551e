// Package coingecko looks up token metadata on the public CoinGecko API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vietddude/rnsdash/internal/infra/rpc/provider"
)

// TokenInfo is what CoinGecko knows about a contract. Empty fields were
// not reported.
type TokenInfo struct {
	ID       string
	Name     string
	Symbol   string
	Decimals *int
}

// Client queries coins/{platform}/contract/{address}.
type Client struct {
	http     *provider.HTTPProvider
	platform string
}

// NewClient creates a client against baseURL (https://api.coingecko.com/api/v3)
// for the given asset platform id ("rootstock").
func NewClient(baseURL, platform string, timeout time.Duration) *Client {
	return &Client{
		http:     provider.NewHTTPProvider("coingecko", baseURL, timeout),
		platform: platform,
	}
}

type contractResponse struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	Symbol          string                     `json:"symbol"`
	DetailPlatforms map[string]json.RawMessage `json:"detail_platforms"`
}

type platformDetail struct {
	DecimalPlace *int `json:"decimal_place"`
}

// ContractInfo returns metadata of the token at address.
func (c *Client) ContractInfo(ctx context.Context, address string) (TokenInfo, error) {
	path := fmt.Sprintf("coins/%s/contract/%s", c.platform, strings.ToLower(address))

	var res contractResponse
	if err := c.http.Get(ctx, path, nil, &res); err != nil {
		return TokenInfo{}, fmt.Errorf("coingecko contract %s: %w", address, err)
	}

	info := TokenInfo{ID: res.ID, Name: res.Name, Symbol: res.Symbol}
	if raw, ok := res.DetailPlatforms[c.platform]; ok {
		var d platformDetail
		if json.Unmarshal(raw, &d) == nil {
			info.Decimals = d.DecimalPlace
		}
	}
	return info, nil
}

// Health returns the transport health.
func (c *Client) Health() []provider.HealthStatus {
	return []provider.HealthStatus{c.http.GetHealth()}
}

// Close releases idle connections.
func (c *Client) Close() {
	_ = c.http.Close()
}
