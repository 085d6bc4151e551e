// Package budget handles daily call quotas of data providers.
//
// This package contains:
//   - Counter: per-provider daily call counter (memory or Redis)
//   - Tracker: quota checks and usage statistics on top of a Counter
package budget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	redisclient "github.com/vietddude/rnsdash/internal/infra/redis"
)

// ErrQuotaExceeded is returned once a provider used its daily allocation.
var ErrQuotaExceeded = errors.New("daily quota exceeded")

// UsageStats holds quota usage statistics.
type UsageStats struct {
	TotalCalls      int       `json:"total_calls"`
	DailyLimit      int       `json:"daily_limit"`
	RemainingCalls  int       `json:"remaining_calls"`
	UsagePercentage float64   `json:"usage_percentage"`
	NextResetAt     time.Time `json:"next_reset_at"`
}

// Counter counts calls per provider per day.
type Counter interface {
	Incr(ctx context.Context, providerName string, now time.Time) (int, error)
	Get(ctx context.Context, providerName string, now time.Time) (int, error)
}

// Tracker enforces a daily quota per provider. A zero quota is unlimited.
type Tracker struct {
	counter    Counter
	dailyQuota int
	now        func() time.Time
}

// NewTracker creates a tracker on top of counter.
func NewTracker(counter Counter, dailyQuota int) *Tracker {
	return &Tracker{
		counter:    counter,
		dailyQuota: dailyQuota,
		now:        time.Now,
	}
}

// Allow returns ErrQuotaExceeded when providerName has no calls left today.
// Counter failures do not block calls.
func (t *Tracker) Allow(ctx context.Context, providerName string) error {
	if t == nil || t.dailyQuota <= 0 {
		return nil
	}
	n, err := t.counter.Get(ctx, providerName, t.now())
	if err != nil {
		return nil
	}
	if n >= t.dailyQuota {
		return fmt.Errorf("%s: %w (%d/%d)", providerName, ErrQuotaExceeded, n, t.dailyQuota)
	}
	return nil
}

// RecordCall records a call for quota tracking.
func (t *Tracker) RecordCall(ctx context.Context, providerName string) {
	if t == nil {
		return
	}
	_, _ = t.counter.Incr(ctx, providerName, t.now())
}

// Usage returns usage statistics for a provider.
func (t *Tracker) Usage(ctx context.Context, providerName string) UsageStats {
	now := t.now()
	n, _ := t.counter.Get(ctx, providerName, now)

	stats := UsageStats{
		TotalCalls:  n,
		DailyLimit:  t.dailyQuota,
		NextResetAt: nextMidnight(now),
	}
	if t.dailyQuota > 0 {
		stats.RemainingCalls = max(t.dailyQuota-n, 0)
		stats.UsagePercentage = float64(n) / float64(t.dailyQuota) * 100
	}
	return stats
}

// MemoryCounter is a process-local Counter.
type MemoryCounter struct {
	mu        sync.Mutex
	calls     map[string]int
	resetTime time.Time
}

// NewMemoryCounter creates an empty in-memory counter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{calls: make(map[string]int)}
}

func (m *MemoryCounter) Incr(_ context.Context, providerName string, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetIfDue(now)
	m.calls[providerName]++
	return m.calls[providerName], nil
}

func (m *MemoryCounter) Get(_ context.Context, providerName string, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetIfDue(now)
	return m.calls[providerName], nil
}

func (m *MemoryCounter) resetIfDue(now time.Time) {
	if m.resetTime.IsZero() {
		m.resetTime = nextMidnight(now)
		return
	}
	if !now.Before(m.resetTime) {
		m.calls = make(map[string]int)
		m.resetTime = nextMidnight(now)
	}
}

// RedisCounter shares counters between service instances.
type RedisCounter struct {
	client *redisclient.Client
}

// NewRedisCounter wraps a connected Redis client.
func NewRedisCounter(client *redisclient.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Incr(ctx context.Context, providerName string, now time.Time) (int, error) {
	return r.client.IncrQuota(ctx, providerName, now)
}

func (r *RedisCounter) Get(ctx context.Context, providerName string, now time.Time) (int, error) {
	return r.client.GetQuota(ctx, providerName, now)
}

func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
