// Package alchemy reads token, NFT and transfer data from the Alchemy
// data API for Rootstock.
//
// Every JSON-RPC method is reachable through two transports: the typed
// go-ethereum RPC client (the primary path) and the plain HTTP provider
// (the raw fallback path). Callers pick the order; this package never
// falls back on its own. Payloads are normalised once, here, so callers
// only see the exported record types.
package alchemy

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/vietddude/rnsdash/internal/core/domain"
	"github.com/vietddude/rnsdash/internal/infra/rpc/budget"
	"github.com/vietddude/rnsdash/internal/infra/rpc/provider"
	"github.com/vietddude/rnsdash/internal/metrics"
)

// Client talks to one network's Alchemy endpoint.
type Client struct {
	network  domain.Network
	name     string
	sdk      *gethrpc.Client
	raw      *provider.HTTPProvider
	nft      *provider.HTTPProvider
	budget   *budget.Tracker
	endpoint string
}

// NewClient creates a client for endpoint, the full JSON-RPC URL including
// the API key (for example https://rootstock-mainnet.g.alchemy.com/v2/KEY).
func NewClient(ctx context.Context, network domain.Network, endpoint string, timeout time.Duration, tracker *budget.Tracker) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%s: %w", network, domain.ErrNotConfigured)
	}
	name := "alchemy-" + network.String()

	sdk, err := gethrpc.DialOptions(ctx, endpoint, gethrpc.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", name, err)
	}

	return &Client{
		network:  network,
		name:     name,
		sdk:      sdk,
		raw:      provider.NewHTTPProvider(name+"-raw", endpoint, timeout).WithBudget(tracker),
		nft:      provider.NewHTTPProvider(name+"-nft", NFTEndpoint(endpoint), timeout).WithBudget(tracker),
		budget:   tracker,
		endpoint: endpoint,
	}, nil
}

// NFTEndpoint derives the NFT REST base from a JSON-RPC endpoint:
// ".../v2/KEY" becomes ".../nft/v3/KEY".
func NFTEndpoint(endpoint string) string {
	endpoint = strings.TrimRight(endpoint, "/")
	if i := strings.LastIndex(endpoint, "/v2/"); i >= 0 {
		return endpoint[:i] + "/nft/v3/" + endpoint[i+len("/v2/"):]
	}
	return endpoint + "/nft/v3"
}

// Network returns the network this client reads.
func (c *Client) Network() domain.Network {
	return c.network
}

// Raw returns the plain JSON-RPC transport of the endpoint.
func (c *Client) Raw() provider.RPCProvider {
	return c.raw
}

// Health returns the health of the raw and NFT transports.
func (c *Client) Health() []provider.HealthStatus {
	return []provider.HealthStatus{c.raw.GetHealth(), c.nft.GetHealth()}
}

// Close releases both transports.
func (c *Client) Close() {
	c.sdk.Close()
	_ = c.raw.Close()
	_ = c.nft.Close()
}

// call runs method over the typed transport.
func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	if err := c.budget.Allow(ctx, c.name); err != nil {
		return err
	}
	c.budget.RecordCall(ctx, c.name)
	metrics.UpstreamCallsTotal.WithLabelValues(c.name, method).Inc()

	start := time.Now()
	err := c.sdk.CallContext(ctx, result, method, args...)
	metrics.UpstreamLatency.WithLabelValues(c.name, method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues(c.name, "sdk").Inc()
		return fmt.Errorf("%s failed: %w", method, err)
	}
	return nil
}

// callRaw runs method over the plain HTTP transport.
func (c *Client) callRaw(ctx context.Context, result any, method string, params ...any) error {
	if err := c.raw.Call(ctx, method, params, result); err != nil {
		return fmt.Errorf("%s (raw) failed: %w", method, err)
	}
	return nil
}
