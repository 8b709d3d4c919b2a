package cache

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func TestTTLCacheHitAndExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	c := New(24*time.Hour, WithClock(clock))

	if _, ok := c.Get("policy"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("policy", "2")
	if got, ok := c.Get("policy"); !ok || got != "2" {
		t.Fatalf("expected hit with 2, got %q (%v)", got, ok)
	}

	clock.now = clock.now.Add(23 * time.Hour)
	if _, ok := c.Get("policy"); !ok {
		t.Fatal("expected hit before expiry")
	}

	clock.now = clock.now.Add(2 * time.Hour)
	if _, ok := c.Get("policy"); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestTTLCacheLastWriterWins(t *testing.T) {
	c := New(time.Hour)
	c.Set("key", "first")
	c.Set("key", "second")
	if got, _ := c.Get("key"); got != "second" {
		t.Fatalf("expected second, got %q", got)
	}
}
