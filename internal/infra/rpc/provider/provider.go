// Package provider implements transports to remote data providers.
//
// This package contains:
//   - RPCProvider interface: JSON-RPC and REST access to one endpoint
//   - HTTPProvider: JSON-RPC 2.0 and REST over HTTP
//   - ProviderMonitor: throttle and latency tracking
package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// RPCProvider is a single remote endpoint.
type RPCProvider interface {
	// GetName returns provider identifier (e.g., "alchemy-mainnet")
	GetName() string

	// Call makes a single JSON-RPC request and decodes the result into result
	Call(ctx context.Context, method string, params []any, result any) error

	// Get makes a REST GET request relative to the endpoint
	Get(ctx context.Context, path string, query url.Values, result any) error

	// Close cleans up resources
	Close() error
}

// RPCError is an error object returned inside a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// HTTPStatusError is a non-2xx response.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// HealthStatus represents the health state of a provider.
type HealthStatus struct {
	Provider      string        `json:"provider"`
	Available     bool          `json:"available"`
	Latency       time.Duration `json:"latency"`
	ErrorRate     float64       `json:"error_rate"`
	LastSuccessAt time.Time     `json:"last_success_at"`
	LastFailureAt time.Time     `json:"last_failure_at"`
	MonitorStats  *MonitorStats `json:"monitor_stats,omitempty"`
}
