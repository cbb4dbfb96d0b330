// Package gongauth resolves the credential material attached to outgoing
// Gong API requests: either a static basic-auth pair from the environment,
// or an OAuth2 client-credentials token exchanged on demand and cached
// in-process per scheme and client id.
package gongauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Environment variables for the static basic-auth pair.
const (
	EnvAccessKey    = "GONG_ACCESS_KEY"
	EnvAccessSecret = "GONG_ACCESS_SECRET"
)

// ConfigError reports missing or unusable credential configuration. It is
// fatal for the call, not the process.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// Provider resolves Authorization header values for catalog operations.
type Provider struct {
	cache  *TokenCache
	client *http.Client
	lookup func(string) (string, bool)
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient overrides the client used for token exchanges.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.client = client }
}

// WithLookupEnv overrides environment lookup, mainly for tests.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(p *Provider) { p.lookup = lookup }
}

// NewProvider creates a Provider with its own token cache.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		cache:  NewTokenCache(),
		client: &http.Client{Timeout: 30 * time.Second},
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve returns the Authorization header value for an operation, or an
// empty string for operations without a security requirement.
func (p *Provider) Resolve(ctx context.Context, scheme, kind, tokenURL string) (string, error) {
	switch kind {
	case "":
		return "", nil
	case "basic":
		return p.basicHeader()
	case "oauth2":
		return p.bearerHeader(ctx, scheme, tokenURL)
	default:
		return "", &ConfigError{Message: fmt.Sprintf("unsupported security kind %q for scheme %q", kind, scheme)}
	}
}

// basicHeader builds the Basic credential from the two required
// environment values.
func (p *Provider) basicHeader() (string, error) {
	key, okKey := p.lookup(EnvAccessKey)
	secret, okSecret := p.lookup(EnvAccessSecret)
	if !okKey || !okSecret || key == "" || secret == "" {
		return "", &ConfigError{Message: fmt.Sprintf("missing credentials: %s and %s must be set", EnvAccessKey, EnvAccessSecret)}
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(key + ":" + secret))
	return "Basic " + encoded, nil
}

// bearerHeader returns a cached token when one is still valid, otherwise
// performs a client-credentials exchange. Exchange failures are logged,
// never retried.
func (p *Provider) bearerHeader(ctx context.Context, scheme, tokenURL string) (string, error) {
	prefix := envPrefix(scheme)
	clientID, _ := p.lookup(prefix + "_CLIENT_ID")
	clientSecret, _ := p.lookup(prefix + "_CLIENT_SECRET")
	scope, _ := p.lookup(prefix + "_SCOPE")

	if clientID == "" || clientSecret == "" {
		return "", &ConfigError{Message: fmt.Sprintf("missing credentials for scheme %q: set %s_CLIENT_ID and %s_CLIENT_SECRET", scheme, prefix, prefix)}
	}

	cacheKey := scheme + ":" + clientID
	if token, ok := p.cache.Get(cacheKey); ok {
		return "Bearer " + token, nil
	}

	token, expiresIn, err := p.exchange(ctx, tokenURL, clientID, clientSecret, scope)
	if err != nil {
		log.Printf("token exchange for scheme %q failed: %v", scheme, err)
		return "", &ConfigError{Message: fmt.Sprintf("missing credentials: token exchange for scheme %q failed", scheme)}
	}

	p.cache.Put(cacheKey, token, expiresIn)
	return "Bearer " + token, nil
}

// exchange performs one OAuth2 client-credentials token request.
func (p *Provider) exchange(ctx context.Context, tokenURL, clientID, clientSecret, scope string) (string, time.Duration, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	if scope != "" {
		form.Set("scope", scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", 0, fmt.Errorf("invalid token response: %v", err)
	}
	if payload.AccessToken == "" {
		return "", 0, fmt.Errorf("token response carries no access_token")
	}

	return payload.AccessToken, time.Duration(payload.ExpiresIn) * time.Second, nil
}

// envPrefix derives the configuration prefix from a scheme identifier:
// uppercase, with non-alphanumerics folded to underscores ("gongOAuth"
// becomes "GONGOAUTH").
func envPrefix(scheme string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(scheme) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
