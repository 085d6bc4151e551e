// Package health provides system health monitoring and status reporting.
package health

import "github.com/vietddude/rnsdash/internal/infra/rpc/budget"

// SystemStatus represents the overall health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// ProviderHealth contains health metrics for one upstream transport.
type ProviderHealth struct {
	Provider       string             `json:"provider"`
	Status         SystemStatus       `json:"status"`
	Available      bool               `json:"available"`
	ErrorRate      float64            `json:"error_rate"`
	LatencyMs      int64              `json:"latency_ms"`
	ThrottleStatus string             `json:"throttle_status,omitempty"`
	Usage          *budget.UsageStats `json:"usage,omitempty"`
}

// HealthReport contains the full system health report.
type HealthReport struct {
	SystemStatus SystemStatus              `json:"system_status"`
	Providers    map[string]ProviderHealth `json:"providers"`
}
