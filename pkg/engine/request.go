package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cast"
	"github.com/yosida95/uritemplate/v3"

	"github.com/The-Kiln/gong-mcp-customized/pkg/catalog"
)

// buildRequest constructs the concrete HTTP request for one page of one
// operation. It substitutes path parameters, assembles the query string,
// attaches the JSON body when declared, and carries the resolved
// credential. A non-empty cursor is injected into the query string when
// the operation declares a cursor query binding, otherwise into the body
// clone; the two placements are mutually exclusive.
func (e *Engine) buildRequest(ctx context.Context, op *catalog.Operation, args map[string]any, authHeader, cursor string) (*http.Request, error) {
	path, err := expandPath(op, args)
	if err != nil {
		return nil, err
	}

	useQueryCursor := op.HasQueryCursor()

	query := url.Values{}
	for _, b := range op.QueryBindings() {
		val, ok := args[b.Name]
		if !ok || val == nil {
			continue
		}
		if s, ok := queryValue(val); ok {
			query.Set(b.Name, s)
		}
	}
	if cursor != "" && useQueryCursor {
		query.Set("cursor", cursor)
	}

	var bodyReader io.Reader
	if op.BodyContentType != "" {
		payload := bodyPayload(args, cursor, useQueryCursor)
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("cannot encode request body: %v", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	target := e.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, target, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if op.BodyContentType != "" {
		req.Header.Set("Content-Type", op.BodyContentType)
	}
	return req, nil
}

// expandPath substitutes percent-encoded path parameters into the
// operation's path template.
func expandPath(op *catalog.Operation, args map[string]any) (string, error) {
	if !strings.Contains(op.PathTemplate, "{") {
		return op.PathTemplate, nil
	}

	tmpl, err := uritemplate.New(op.PathTemplate)
	if err != nil {
		return "", fmt.Errorf("invalid path template %q: %v", op.PathTemplate, err)
	}

	values := uritemplate.Values{}
	for _, b := range op.Bindings {
		if b.Location != catalog.LocationPath {
			continue
		}
		val, ok := args[b.Name]
		if !ok {
			return "", fmt.Errorf("missing path parameter %q", b.Name)
		}
		values[b.Name] = uritemplate.String(cast.ToString(val))
	}
	return tmpl.Expand(values)
}

// queryValue stringifies an argument for the query string. Slices join
// with commas; objects fall back to their JSON encoding.
func queryValue(v any) (string, bool) {
	switch v.(type) {
	case []any, []string:
		if ss, err := cast.ToStringSliceE(v); err == nil {
			return strings.Join(ss, ","), true
		}
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s, true
	}
	if data, err := json.Marshal(v); err == nil {
		return string(data), true
	}
	return "", false
}

// bodyPayload clones the caller's requestBody argument so cursor injection
// never mutates validated arguments across pages.
func bodyPayload(args map[string]any, cursor string, useQueryCursor bool) any {
	raw, ok := args["requestBody"]
	if !ok || raw == nil {
		if cursor != "" && !useQueryCursor {
			return map[string]any{"cursor": cursor}
		}
		return map[string]any{}
	}

	body, isMap := raw.(map[string]any)
	if !isMap {
		// Permissive validation can let a non-object body through; send it
		// verbatim, without cursor injection.
		return raw
	}

	clone := make(map[string]any, len(body)+1)
	for k, v := range body {
		clone[k] = v
	}
	if cursor != "" && !useQueryCursor {
		clone["cursor"] = cursor
	}
	return clone
}
