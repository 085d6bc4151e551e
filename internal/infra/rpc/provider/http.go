package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/vietddude/rnsdash/internal/infra/rpc/budget"
	"github.com/vietddude/rnsdash/internal/metrics"
)

var _ RPCProvider = (*HTTPProvider)(nil)

// HTTPProvider implements RPCProvider for JSON-RPC and REST over HTTP.
type HTTPProvider struct {
	name       string
	endpoint   string
	httpClient *http.Client
	budget     *budget.Tracker

	mu           sync.RWMutex
	health       HealthStatus
	totalLatency time.Duration
	successCount int
	failureCount int
	requestCount int

	Monitor *ProviderMonitor
}

// NewHTTPProvider creates a new HTTP-based provider.
func NewHTTPProvider(name, endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:     name,
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		health: HealthStatus{
			Available:     true,
			LastSuccessAt: time.Now(),
		},
		Monitor: NewProviderMonitor(),
	}
}

// WithBudget makes every call count against tracker.
func (p *HTTPProvider) WithBudget(tracker *budget.Tracker) *HTTPProvider {
	p.budget = tracker
	return p
}

// Call makes a single JSON-RPC call.
func (p *HTTPProvider) Call(ctx context.Context, method string, params []any, result any) error {
	if params == nil {
		params = []any{}
	}
	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	body, err := p.do(ctx, method, http.MethodPost, p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}

	var rpcResp struct {
		Result json.RawMessage `json:"result"`
		Error  *RPCError       `json:"error"`
	}
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		p.recordFailure("parse")
		return fmt.Errorf("parse response: %w", err)
	}

	if rpcResp.Error != nil {
		p.recordFailure("rpc")
		if p.Monitor.DetectThrottlePattern(rpcResp.Error.Message) {
			p.Monitor.RecordThrottle(429, "")
			return fmt.Errorf("throttle in rpc error: %w", rpcResp.Error)
		}
		return rpcResp.Error
	}

	if result != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

// Get makes a REST GET call. path is joined to the endpoint.
func (p *HTTPProvider) Get(ctx context.Context, path string, query url.Values, result any) error {
	path = strings.TrimLeft(path, "/")
	target := p.endpoint + "/" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	// Label by first segment only; the rest may carry addresses.
	op, _, _ := strings.Cut(path, "/")
	body, err := p.do(ctx, op, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			p.recordFailure("parse")
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// do runs one HTTP exchange with throttle, budget and metrics bookkeeping.
func (p *HTTPProvider) do(ctx context.Context, op, method, target string, payload io.Reader) ([]byte, error) {
	start := time.Now()

	// Pre-call checks
	if status := p.Monitor.CheckProviderStatus(); status == StatusThrottled || status == StatusBlocked {
		return nil, fmt.Errorf("provider %s %s, retry after: %v", p.name, status, p.Monitor.GetRetryAfter())
	}
	if err := p.budget.Allow(ctx, p.name); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	metrics.UpstreamCallsTotal.WithLabelValues(p.name, op).Inc()
	p.budget.RecordCall(ctx, p.name)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.recordFailure("transport")
		return nil, fmt.Errorf("%s call: %w", p.name, err)
	}
	defer resp.Body.Close()

	latency := time.Since(start)
	metrics.UpstreamLatency.WithLabelValues(p.name, op).Observe(latency.Seconds())

	// Rate limit detection
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		p.Monitor.RecordThrottle(http.StatusTooManyRequests, retryAfter)
		p.recordFailure("throttled")
		return nil, fmt.Errorf("rate limited (429), retry after: %s", retryAfter)
	}

	// Key or IP blocked detection
	if resp.StatusCode == http.StatusForbidden {
		p.Monitor.RecordThrottle(http.StatusForbidden, "")
		p.recordFailure("blocked")
		return nil, errors.New("ip blocked (403)")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.recordFailure("transport")
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.recordFailure("http")
		if p.Monitor.DetectThrottlePattern(string(body)) {
			return nil, fmt.Errorf("throttle detected in response: %s", string(body))
		}
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	p.Monitor.RecordRequest(latency)
	p.recordSuccess(latency)

	return body, nil
}

// GetName returns the provider's name.
func (p *HTTPProvider) GetName() string {
	return p.name
}

// GetHealth returns the provider's health status.
func (p *HTTPProvider) GetHealth() HealthStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	h := p.health
	h.Provider = p.name
	stats := p.Monitor.GetStats()
	h.MonitorStats = &stats
	return h
}

// Close cleans up resources.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

// IsAvailable checks if the provider is available.
func (p *HTTPProvider) IsAvailable() bool {
	status := p.Monitor.CheckProviderStatus()
	return status == StatusHealthy || status == StatusDegraded
}

func (p *HTTPProvider) recordSuccess(latency time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.successCount++
	p.requestCount++
	p.totalLatency += latency
	p.health.LastSuccessAt = time.Now()
	p.health.Available = true

	if p.requestCount > 0 {
		p.health.ErrorRate = float64(p.failureCount) / float64(p.requestCount)
	}
	if p.successCount > 0 {
		p.health.Latency = p.totalLatency / time.Duration(p.successCount)
	}
}

func (p *HTTPProvider) recordFailure(errorType string) {
	metrics.UpstreamErrorsTotal.WithLabelValues(p.name, errorType).Inc()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.failureCount++
	p.requestCount++
	p.health.LastFailureAt = time.Now()

	if p.requestCount > 0 {
		p.health.ErrorRate = float64(p.failureCount) / float64(p.requestCount)
	}

	if p.health.ErrorRate > 0.5 {
		p.health.Available = false
	}
}
