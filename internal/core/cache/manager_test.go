package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"
)

func newTestManager(t *testing.T, maxSize int, ttl time.Duration) (*Manager, *time.Time) {
	t.Helper()
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: maxSize, TTL: ttl})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	t.Cleanup(func() { _ = m.Close() })
	return m, &now
}

func TestNewManagerDisabled(t *testing.T) {
	m := NewManager(config.CacheConfig{Enabled: false})
	if m != nil {
		t.Fatal("expected nil manager when cache disabled")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close on nil manager: %v", err)
	}
}

func TestManagerGetSet(t *testing.T) {
	m, _ := newTestManager(t, 10, time.Hour)
	ctx := context.Background()

	if _, err := m.Get(ctx, "thumbnail", "abc"); !errors.Is(err, common.ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}
	if err := m.Set(ctx, "thumbnail", "abc", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := m.Get(ctx, "thumbnail", "abc")
	if err != nil || got != "value" {
		t.Fatalf("Get = (%q, %v)", got, err)
	}

	// 不同 namespace 互不影響
	if _, err := m.Get(ctx, "other", "abc"); !errors.Is(err, common.ErrCacheMiss) {
		t.Fatalf("expected miss in other namespace, got %v", err)
	}

	stats := m.GetStats()
	if stats.Hits != 1 || stats.Misses != 2 || stats.Size != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestManagerExpiry(t *testing.T) {
	m, now := newTestManager(t, 10, time.Minute)
	ctx := context.Background()

	if err := m.Set(ctx, "ns", "k", "v"); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(2 * time.Minute)

	if _, err := m.Get(ctx, "ns", "k"); !errors.Is(err, common.ErrCacheMiss) {
		t.Fatalf("expected expired entry to miss, got %v", err)
	}
	if stats := m.GetStats(); stats.Size != 0 || stats.Evictions != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	m, now := newTestManager(t, 2, time.Hour)
	ctx := context.Background()

	_ = m.Set(ctx, "ns", "a", "1")
	*now = now.Add(time.Second)
	_ = m.Set(ctx, "ns", "b", "2")
	if _, err := m.Get(ctx, "ns", "a"); err != nil {
		t.Fatal(err)
	}

	if err := m.Set(ctx, "ns", "c", "3"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, err := m.Get(ctx, "ns", "b"); !errors.Is(err, common.ErrCacheMiss) {
		t.Fatalf("expected b to be evicted, got %v", err)
	}
	for _, k := range []string{"a", "c"} {
		if _, err := m.Get(ctx, "ns", k); err != nil {
			t.Fatalf("expected %s to remain: %v", k, err)
		}
	}
}

func TestManagerOverwriteAtCapacity(t *testing.T) {
	m, _ := newTestManager(t, 1, time.Hour)
	ctx := context.Background()

	_ = m.Set(ctx, "ns", "a", "1")
	if err := m.Set(ctx, "ns", "a", "2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := m.Get(ctx, "ns", "a"); got != "2" {
		t.Fatalf("got %q, want 2", got)
	}
	if stats := m.GetStats(); stats.Evictions != 0 {
		t.Fatalf("overwrite should not evict: %+v", stats)
	}
}
