package health

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/rnsdash/internal/infra/rpc/budget"
	"github.com/vietddude/rnsdash/internal/infra/rpc/provider"
)

// Source reports the health of the transports it owns.
type Source interface {
	Health() []provider.HealthStatus
}

// Monitor aggregates health status from the upstream clients.
type Monitor struct {
	sources    []Source
	budget     *budget.Tracker
	ttl        time.Duration
	now        func() time.Time
	lastCheck  time.Time
	lastReport *HealthReport
	mu         sync.Mutex
}

// NewMonitor creates a new health monitor. tracker may be nil.
func NewMonitor(tracker *budget.Tracker, sources ...Source) *Monitor {
	return &Monitor{
		sources: sources,
		budget:  tracker,
		ttl:     10 * time.Second,
		now:     time.Now,
	}
}

// CheckHealth evaluates every transport. Results are reused for ttl.
func (m *Monitor) CheckHealth(ctx context.Context) HealthReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastReport != nil && m.now().Sub(m.lastCheck) < m.ttl {
		return *m.lastReport
	}

	report := HealthReport{
		SystemStatus: StatusHealthy,
		Providers:    make(map[string]ProviderHealth),
	}
	for _, src := range m.sources {
		for _, h := range src.Health() {
			ph := evaluate(h)
			if m.budget != nil {
				usage := m.budget.Usage(ctx, h.Provider)
				ph.Usage = &usage
				if usage.DailyLimit > 0 && usage.RemainingCalls == 0 {
					ph.Status = StatusCritical
				}
			}
			report.Providers[h.Provider] = ph
			report.SystemStatus = worst(report.SystemStatus, ph.Status)
		}
	}

	m.lastCheck = m.now()
	m.lastReport = &report
	return report
}

func evaluate(h provider.HealthStatus) ProviderHealth {
	ph := ProviderHealth{
		Provider:  h.Provider,
		Status:    StatusHealthy,
		Available: h.Available,
		ErrorRate: h.ErrorRate,
		LatencyMs: h.Latency.Milliseconds(),
	}

	var throttle provider.ProviderStatus
	if h.MonitorStats != nil {
		throttle = h.MonitorStats.Status
		ph.ThrottleStatus = throttle.String()
	}

	switch {
	case !h.Available || throttle == provider.StatusBlocked || h.ErrorRate > 0.5:
		ph.Status = StatusCritical
	case throttle == provider.StatusThrottled || throttle == provider.StatusDegraded || h.ErrorRate > 0.1:
		ph.Status = StatusDegraded
	}
	return ph
}

// worst returns the more severe of a and b.
func worst(a, b SystemStatus) SystemStatus {
	rank := map[SystemStatus]int{StatusHealthy: 0, StatusDegraded: 1, StatusCritical: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
