package gongauth

import (
	"testing"
	"time"
)

func cacheAt(start time.Time) (*TokenCache, *time.Time) {
	now := start
	c := NewTokenCache()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCacheAppliesExpiryMargin(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c, now := cacheAt(start)

	c.Put("k", "tok", 10*time.Minute)

	if _, ok := c.Get("k"); !ok {
		t.Fatal("token should be cached")
	}

	// Just before the margin kicks in.
	*now = start.Add(10*time.Minute - expiryMargin - time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Error("token should still be valid before the margin boundary")
	}

	// Inside the margin: treated as expired even though the provider's
	// stated lifetime has not elapsed.
	*now = start.Add(10*time.Minute - expiryMargin)
	if _, ok := c.Get("k"); ok {
		t.Error("token should be expired once inside the margin")
	}
}

func TestCacheRejectsShortLivedTokens(t *testing.T) {
	c, _ := cacheAt(time.Now())

	c.Put("k", "tok", expiryMargin)
	if _, ok := c.Get("k"); ok {
		t.Error("tokens living shorter than the margin must not be cached")
	}

	c.Put("k2", "tok", 30*time.Second)
	if _, ok := c.Get("k2"); ok {
		t.Error("tokens living shorter than the margin must not be cached")
	}
}

func TestCacheMissingKey(t *testing.T) {
	c := NewTokenCache()
	if _, ok := c.Get("absent"); ok {
		t.Error("unknown keys should miss")
	}
}
