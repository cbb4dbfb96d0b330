package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/The-Kiln/gong-mcp-customized/pkg/gongauth"
	"github.com/The-Kiln/gong-mcp-customized/pkg/validate"
)

func TestFormatValidationError(t *testing.T) {
	err := &validate.Error{Operation: "listusers", Message: "emailAddress is required"}
	got := FormatError(err)
	if got != "Validation error: emailAddress is required" {
		t.Errorf("got %q", got)
	}
}

func TestFormatConfigurationError(t *testing.T) {
	err := &gongauth.ConfigError{Message: "missing credentials: GONG_ACCESS_KEY and GONG_ACCESS_SECRET must be set"}
	got := FormatError(err)
	if !strings.HasPrefix(got, "Configuration error: missing credentials") {
		t.Errorf("got %q", got)
	}
}

func TestFormatHTTPError(t *testing.T) {
	err := &HTTPError{StatusCode: 404, Body: []byte(`{"requestId":"x","errors":["call not found"]}`)}
	got := FormatError(err)

	if !strings.Contains(got, "API Error: Status 404 (Not Found).") {
		t.Errorf("missing status prefix: %q", got)
	}
	if !strings.Contains(got, "call not found") {
		t.Errorf("missing body preview: %q", got)
	}
}

func TestFormatHTTPErrorTruncatesBody(t *testing.T) {
	body := strings.Repeat("x", 300)
	got := FormatError(&HTTPError{StatusCode: 500, Body: []byte(body)})

	if !strings.HasSuffix(got, "...") {
		t.Errorf("long bodies should be truncated with an ellipsis: %q", got)
	}
	if strings.Contains(got, strings.Repeat("x", 201)) {
		t.Error("body preview exceeds the 200 character cap")
	}
	if !strings.Contains(got, strings.Repeat("x", 200)) {
		t.Error("body preview should keep the first 200 characters")
	}
}

func TestFormatHTTPErrorEmptyBody(t *testing.T) {
	got := FormatError(&HTTPError{StatusCode: 502})
	want := "API Error: Status 502 (Bad Gateway). Response: No response body received."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatNetworkError(t *testing.T) {
	withCode := FormatError(&NetworkError{Code: "ECONNREFUSED", Err: errors.New("dial tcp: connection refused")})
	if withCode != "API Network Error: No response received from server. (Code: ECONNREFUSED)" {
		t.Errorf("got %q", withCode)
	}

	withoutCode := FormatError(&NetworkError{Err: errors.New("mystery failure")})
	if withoutCode != "API Network Error: No response received from server." {
		t.Errorf("got %q", withoutCode)
	}
}

func TestFormatUnexpectedError(t *testing.T) {
	got := FormatError(fmt.Errorf("something odd"))
	if got != "Unexpected error: something odd" {
		t.Errorf("got %q", got)
	}
}

func TestFormatWrappedErrors(t *testing.T) {
	inner := &HTTPError{StatusCode: 429, Body: []byte("slow down")}
	wrapped := fmt.Errorf("page 3: %w", inner)

	got := FormatError(wrapped)
	if !strings.Contains(got, "Status 429") {
		t.Errorf("wrapped errors should still classify: %q", got)
	}
}

func TestTransportCode(t *testing.T) {
	if code := transportCode(context.DeadlineExceeded); code != "ETIMEDOUT" {
		t.Errorf("deadline exceeded should map to ETIMEDOUT, got %q", code)
	}
	if code := transportCode(context.Canceled); code != "ECANCELED" {
		t.Errorf("cancellation should map to ECANCELED, got %q", code)
	}
	if code := transportCode(errors.New("unclassifiable")); code != "" {
		t.Errorf("unknown failures should have no code, got %q", code)
	}
}
