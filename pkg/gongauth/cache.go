package gongauth

import (
	"sync"
	"time"
)

// expiryMargin is subtracted from the provider's stated token lifetime so
// a token is never used within a minute of dying mid-request.
const expiryMargin = 60 * time.Second

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// TokenCache holds OAuth2 access tokens keyed by "scheme:clientId".
// Concurrent invocations may race to populate an entry; the race is benign
// (tokens are idempotent to acquire) so a plain RWMutex suffices.
type TokenCache struct {
	mu     sync.RWMutex
	tokens map[string]cachedToken
	now    func() time.Time
}

// NewTokenCache creates an empty cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{
		tokens: make(map[string]cachedToken),
		now:    time.Now,
	}
}

// Get returns a cached token, treating expired entries as absent.
func (c *TokenCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.tokens[key]
	if !ok || !c.now().Before(entry.expiresAt) {
		return "", false
	}
	return entry.token, true
}

// Put stores a token with the early-expiry margin applied. Tokens whose
// stated lifetime is within the margin are not cached at all.
func (c *TokenCache) Put(key, token string, expiresIn time.Duration) {
	lifetime := expiresIn - expiryMargin
	if lifetime <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[key] = cachedToken{token: token, expiresAt: c.now().Add(lifetime)}
}
