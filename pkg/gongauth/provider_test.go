package gongauth

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestResolveWithoutSecurity(t *testing.T) {
	p := NewProvider(WithLookupEnv(envLookup(nil)))

	header, err := p.Resolve(context.Background(), "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if header != "" {
		t.Errorf("unsecured operations should get no Authorization header, got %q", header)
	}
}

func TestBasicHeader(t *testing.T) {
	p := NewProvider(WithLookupEnv(envLookup(map[string]string{
		EnvAccessKey:    "my-key",
		EnvAccessSecret: "my-secret",
	})))

	header, err := p.Resolve(context.Background(), "basicAuth", "basic", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("my-key:my-secret"))
	if header != want {
		t.Errorf("got %q, want %q", header, want)
	}
}

func TestBasicHeaderMissingCredentials(t *testing.T) {
	p := NewProvider(WithLookupEnv(envLookup(map[string]string{
		EnvAccessKey: "only-key",
	})))

	_, err := p.Resolve(context.Background(), "basicAuth", "basic", "")
	if err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if !strings.Contains(err.Error(), EnvAccessSecret) {
		t.Errorf("error should name the missing variable: %v", err)
	}
}

func TestBearerHeaderExchangesAndCaches(t *testing.T) {
	exchanges := 0
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exchanges++
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q", got)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "cid" || pass != "csecret" {
			t.Errorf("token request should carry client basic auth, got %q/%q", user, pass)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"tok-%d","expires_in":3600}`, exchanges)
	}))
	defer tokenSrv.Close()

	p := NewProvider(WithLookupEnv(envLookup(map[string]string{
		"GONGOAUTH_CLIENT_ID":     "cid",
		"GONGOAUTH_CLIENT_SECRET": "csecret",
	})))

	first, err := p.Resolve(context.Background(), "gongOAuth", "oauth2", tokenSrv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != "Bearer tok-1" {
		t.Errorf("got %q", first)
	}

	second, err := p.Resolve(context.Background(), "gongOAuth", "oauth2", tokenSrv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != first {
		t.Errorf("second call should hit the cache: %q != %q", second, first)
	}
	if exchanges != 1 {
		t.Errorf("expected exactly one token exchange, got %d", exchanges)
	}
}

func TestBearerHeaderMissingClientCredentials(t *testing.T) {
	p := NewProvider(WithLookupEnv(envLookup(nil)))

	_, err := p.Resolve(context.Background(), "gongOAuth", "oauth2", "http://unused.invalid")
	if err == nil {
		t.Fatal("expected error for missing client credentials")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}

func TestBearerHeaderExchangeFailure(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer tokenSrv.Close()

	p := NewProvider(WithLookupEnv(envLookup(map[string]string{
		"GONGOAUTH_CLIENT_ID":     "cid",
		"GONGOAUTH_CLIENT_SECRET": "bad",
	})))

	_, err := p.Resolve(context.Background(), "gongOAuth", "oauth2", tokenSrv.URL)
	if err == nil {
		t.Fatal("expected error for failed exchange")
	}
	cfgErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if !strings.Contains(cfgErr.Message, "missing credentials") {
		t.Errorf("exchange failures surface as missing credentials, got %q", cfgErr.Message)
	}
}

func TestEnvPrefix(t *testing.T) {
	cases := map[string]string{
		"gongOAuth":  "GONGOAUTH",
		"basic-auth": "BASIC_AUTH",
		"a.b":        "A_B",
	}
	for in, want := range cases {
		if got := envPrefix(in); got != want {
			t.Errorf("envPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
