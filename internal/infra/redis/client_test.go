package redis

import (
	"testing"
	"time"
)

func TestQuotaKey(t *testing.T) {
	day := time.Date(2026, 3, 9, 17, 4, 0, 0, time.UTC)
	if got := quotaKey("alchemy-mainnet", day); got != "quota:alchemy-mainnet:2026-03-09" {
		t.Errorf("unexpected key %s", got)
	}
}

func TestNextMidnight(t *testing.T) {
	now := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)
	want := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := nextMidnight(now); !got.Equal(want) {
		t.Errorf("nextMidnight = %v, want %v", got, want)
	}
}

func TestConfigEnabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Error("empty config should be disabled")
	}
	if !(Config{URL: "redis://localhost:6379/0"}).Enabled() {
		t.Error("config with URL should be enabled")
	}
}
