package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"github.com/The-Kiln/gong-mcp-customized/pkg/gongauth"
	"github.com/The-Kiln/gong-mcp-customized/pkg/validate"
)

// maxBodyPreview caps how much of an upstream error body is surfaced.
const maxBodyPreview = 200

// HTTPError is a 4xx/5xx response from the Gong API.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// StatusText returns the standard reason phrase for the status code.
func (e *HTTPError) StatusText() string {
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return "Unknown"
}

// NetworkError is a request that produced no response at all.
type NetworkError struct {
	Code string
	Err  error
}

func (e *NetworkError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("no response from server (%s): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("no response from server: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// FormatError renders any engine failure as a single textual payload. The
// consuming MCP client only displays text, so no structure survives the
// boundary; each error class gets a distinct, stable label instead.
func FormatError(err error) string {
	var validationErr *validate.Error
	var configErr *gongauth.ConfigError
	var httpErr *HTTPError
	var netErr *NetworkError

	switch {
	case errors.As(err, &validationErr):
		return "Validation error: " + validationErr.Message
	case errors.As(err, &configErr):
		return "Configuration error: " + configErr.Message
	case errors.As(err, &httpErr):
		preview := "No response body received."
		if len(httpErr.Body) > 0 {
			preview = string(httpErr.Body)
			if len(preview) > maxBodyPreview {
				preview = preview[:maxBodyPreview] + "..."
			}
		}
		return fmt.Sprintf("API Error: Status %d (%s). Response: %s", httpErr.StatusCode, httpErr.StatusText(), preview)
	case errors.As(err, &netErr):
		if netErr.Code != "" {
			return fmt.Sprintf("API Network Error: No response received from server. (Code: %s)", netErr.Code)
		}
		return "API Network Error: No response received from server."
	default:
		return "Unexpected error: " + err.Error()
	}
}

// transportCode maps a transport failure to a short symbolic code when one
// can be determined.
func transportCode(err error) string {
	var timeoutErr net.Error
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return "ETIMEDOUT"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "ENOTFOUND"
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED:
			return "ECONNREFUSED"
		case syscall.ECONNRESET:
			return "ECONNRESET"
		case syscall.EHOSTUNREACH:
			return "EHOSTUNREACH"
		case syscall.EPIPE:
			return "EPIPE"
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "ETIMEDOUT"
	}
	if errors.Is(err, context.Canceled) {
		return "ECANCELED"
	}
	return ""
}
