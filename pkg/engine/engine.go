// Package engine executes catalog operations against the Gong API: it
// validates arguments, resolves credentials, builds requests, and walks
// cursor-based pagination, merging pages into one result with accurate
// metadata. It is the single algorithmic core behind every registered MCP
// tool.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/The-Kiln/gong-mcp-customized/pkg/catalog"
	"github.com/The-Kiln/gong-mcp-customized/pkg/gongauth"
	"github.com/The-Kiln/gong-mcp-customized/pkg/memory"
	"github.com/The-Kiln/gong-mcp-customized/pkg/validate"
)

// Engine drives operation execution. One Engine serves all invocations;
// each invocation keeps its own page accumulator, so concurrent tool calls
// are safe.
type Engine struct {
	catalog    *catalog.Catalog
	validators map[string]*validate.Validator
	creds      *gongauth.Provider
	client     *http.Client
	baseURL    string
	buffers    *memory.BufferPool
}

// Option configures an Engine.
type Option func(*Engine)

// WithHTTPClient overrides the upstream HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Engine) { e.client = client }
}

// WithBaseURL overrides the base URL from the API description.
func WithBaseURL(baseURL string) Option {
	return func(e *Engine) { e.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// New creates an Engine for the given catalog, compiling one validator per
// operation up front.
func New(cat *catalog.Catalog, creds *gongauth.Provider, opts ...Option) *Engine {
	e := &Engine{
		catalog:    cat,
		validators: validate.CompileAll(cat),
		creds:      creds,
		client:     &http.Client{},
		baseURL:    cat.BaseURL(),
		buffers:    memory.NewBufferPool(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one operation end to end and returns the merged result.
func (e *Engine) Execute(ctx context.Context, name string, rawArgs map[string]any) (any, error) {
	op, ok := e.catalog.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown operation %q", name)
	}

	args, paginate, err := e.validators[name].Validate(rawArgs)
	if err != nil {
		return nil, err
	}

	authHeader, err := e.creds.Resolve(ctx, op.SecurityScheme, op.SecurityType, op.TokenURL)
	if err != nil {
		return nil, err
	}

	return e.run(ctx, op, args, authHeader, paginate)
}

// Invoke is the engine boundary used by the MCP layer: every outcome,
// success or failure, comes back as a single text payload. Errors never
// escape past this point.
func (e *Engine) Invoke(ctx context.Context, name string, rawArgs map[string]any) string {
	invocationID := uuid.NewString()

	result, err := e.Execute(ctx, name, rawArgs)
	if err != nil {
		log.Printf("invocation %s: %s failed: %v", invocationID, name, err)
		return FormatError(err)
	}
	return e.renderResult(invocationID, result)
}

// run is the pagination loop. Pagination continues only while the caller
// requested it and a next cursor was found; without the paginate flag the
// loop executes exactly once regardless of any cursor in the response. A
// failure on any page aborts the whole call with no partial result.
func (e *Engine) run(ctx context.Context, op *catalog.Operation, args map[string]any, authHeader string, paginate bool) (any, error) {
	acc := &accumulator{}
	cursor := initialCursor(args)
	var lastCursor string

	for {
		req, err := e.buildRequest(ctx, op, args, authHeader, cursor)
		if err != nil {
			return nil, err
		}

		page, err := e.doRequest(req)
		if err != nil {
			return nil, err
		}

		lastCursor = extractCursor(page)
		acc.add(page)

		if !paginate || lastCursor == "" {
			break
		}
		cursor = lastCursor
	}

	return acc.finalize(paginate, lastCursor), nil
}

// doRequest issues one page request and decodes the response. Non-JSON
// bodies are kept as raw text rather than dropped.
func (e *Engine) doRequest(req *http.Request) (any, error) {
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Code: transportCode(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Code: transportCode(err), Err: err}
	}

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: body}
	}

	if len(body) == 0 {
		return map[string]any{}, nil
	}
	var page any
	if err := json.Unmarshal(body, &page); err != nil {
		return string(body), nil
	}
	return page, nil
}

// initialCursor reads an explicit resume cursor from the caller's
// arguments: top-level first, then inside the request body.
func initialCursor(args map[string]any) string {
	if s, ok := args["cursor"].(string); ok && s != "" {
		return s
	}
	if body, ok := args["requestBody"].(map[string]any); ok {
		if s, ok := body["cursor"].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// renderResult encodes the merged result as indented JSON text.
func (e *Engine) renderResult(invocationID string, result any) string {
	buf := e.buffers.Get()
	defer e.buffers.Put(buf)

	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Printf("invocation %s: cannot encode result: %v", invocationID, err)
		return FormatError(err)
	}
	return strings.TrimRight(buf.String(), "\n")
}
