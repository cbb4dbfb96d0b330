// Package catalog turns the Gong OpenAPI description into a static table of
// operation descriptors consumed by the execution engine.
//
// The catalog is built once at process start and is read-only afterwards:
// every descriptor carries the operation's HTTP method, path template,
// parameter bindings, request-body content type, input schema, and security
// requirement. Callers address operations by their normalized name (the
// OpenAPI operationId lowercased with separators removed, e.g.
// "postv2callsextensive").
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Location says where a parameter is bound on the outgoing request.
type Location string

const (
	LocationPath  Location = "path"
	LocationQuery Location = "query"
)

// Binding is one parameter of an operation.
type Binding struct {
	Name     string
	Location Location
	Required bool
}

// Security kinds supported by the credential provider.
const (
	SecurityBasic  = "basic"
	SecurityOAuth2 = "oauth2"
)

// Operation is the immutable descriptor of one callable Gong API operation.
type Operation struct {
	Name         string
	Summary      string
	Description  string
	Method       string
	PathTemplate string
	Bindings     []Binding

	// BodyContentType is empty for body-less operations. When set, the
	// operation accepts a request body under the "requestBody" argument.
	BodyContentType string
	BodyRequired    bool

	// InputSchema is the JSON-Schema object validated against tool
	// arguments. It always declares the optional paginate flag.
	InputSchema map[string]any

	// SecurityScheme names the scheme from the API description
	// (e.g. "basicAuth", "gongOAuth"); SecurityType is its kind.
	SecurityScheme string
	SecurityType   string
	TokenURL       string
}

// QueryBindings returns the operation's query parameter bindings.
func (op *Operation) QueryBindings() []Binding {
	var out []Binding
	for _, b := range op.Bindings {
		if b.Location == LocationQuery {
			out = append(out, b)
		}
	}
	return out
}

// HasQueryCursor reports whether the operation declares a "cursor" query
// parameter. When it does, pagination injects the cursor there; otherwise
// the cursor is carried in the request body.
func (op *Operation) HasQueryCursor() bool {
	for _, b := range op.Bindings {
		if b.Location == LocationQuery && b.Name == "cursor" {
			return true
		}
	}
	return false
}

// Catalog is the read-only operation table shared by all invocations.
type Catalog struct {
	baseURL string
	ops     map[string]*Operation
	names   []string
}

// BaseURL returns the server URL declared in the API description.
func (c *Catalog) BaseURL() string { return c.baseURL }

// Lookup returns the descriptor for an operation name.
func (c *Catalog) Lookup(name string) (*Operation, bool) {
	op, ok := c.ops[name]
	return op, ok
}

// Names returns all operation names in stable (path, method) order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of operations in the catalog.
func (c *Catalog) Len() int { return len(c.ops) }

// NormalizeName converts an operationId to its external tool name:
// lowercase, alphanumerics only.
func NormalizeName(operationID string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(operationID) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// New assembles a catalog from pre-built descriptors. Operations keep the
// given order. Useful for fixed tables that never touch an API description.
func New(baseURL string, ops ...*Operation) *Catalog {
	cat := &Catalog{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		ops:     make(map[string]*Operation, len(ops)),
	}
	for _, op := range ops {
		if _, exists := cat.ops[op.Name]; exists {
			continue
		}
		cat.ops[op.Name] = op
		cat.names = append(cat.names, op.Name)
	}
	return cat
}

// Load parses raw OpenAPI content and extracts the operation catalog.
func Load(data []byte) (*Catalog, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API description: %v", err)
	}
	return Extract(doc)
}

// Extract builds the catalog from a parsed OpenAPI document.
func Extract(doc *openapi3.T) (*Catalog, error) {
	cat := &Catalog{ops: make(map[string]*Operation)}

	if len(doc.Servers) > 0 {
		cat.baseURL = strings.TrimSuffix(doc.Servers[0].URL, "/")
	}

	paths := doc.Paths.Map()
	pathKeys := make([]string, 0, len(paths))
	for p := range paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	for _, path := range pathKeys {
		item := paths[path]
		if item == nil {
			continue
		}
		ops := item.Operations()
		methods := make([]string, 0, len(ops))
		for m := range ops {
			methods = append(methods, m)
		}
		sort.Strings(methods)

		for _, method := range methods {
			src := ops[method]
			if src.OperationID == "" {
				continue
			}
			op, err := buildOperation(doc, path, method, src)
			if err != nil {
				return nil, fmt.Errorf("operation %s %s: %v", method, path, err)
			}
			if _, exists := cat.ops[op.Name]; exists {
				return nil, fmt.Errorf("duplicate operation name %q", op.Name)
			}
			cat.ops[op.Name] = op
			cat.names = append(cat.names, op.Name)
		}
	}

	if len(cat.ops) == 0 {
		return nil, fmt.Errorf("API description declares no operations")
	}
	return cat, nil
}

func buildOperation(doc *openapi3.T, path, method string, src *openapi3.Operation) (*Operation, error) {
	op := &Operation{
		Name:         NormalizeName(src.OperationID),
		Summary:      src.Summary,
		Description:  src.Description,
		Method:       method,
		PathTemplate: path,
	}

	for _, ref := range src.Parameters {
		if ref == nil || ref.Value == nil {
			continue
		}
		p := ref.Value
		switch p.In {
		case "path":
			op.Bindings = append(op.Bindings, Binding{Name: p.Name, Location: LocationPath, Required: true})
		case "query":
			op.Bindings = append(op.Bindings, Binding{Name: p.Name, Location: LocationQuery, Required: p.Required})
		default:
			// Header and cookie parameters are not part of the Gong
			// catalog surface; skip rather than fail.
		}
	}

	if src.RequestBody != nil && src.RequestBody.Value != nil {
		for mtName := range src.RequestBody.Value.Content {
			base := mtName
			if idx := strings.IndexByte(mtName, ';'); idx > 0 {
				base = strings.TrimSpace(mtName[:idx])
			}
			if base == "application/json" {
				op.BodyContentType = base
				op.BodyRequired = src.RequestBody.Value.Required
				break
			}
		}
	}

	if err := resolveSecurity(doc, src, op); err != nil {
		return nil, err
	}

	op.InputSchema = BuildInputSchema(src.Parameters, src.RequestBody)
	return op, nil
}

// resolveSecurity picks the operation's (or document's) first security
// requirement and records the scheme name, kind, and token endpoint.
func resolveSecurity(doc *openapi3.T, src *openapi3.Operation, op *Operation) error {
	reqs := doc.Security
	if src.Security != nil {
		reqs = *src.Security
	}

	var schemeName string
	for _, req := range reqs {
		for name := range req {
			schemeName = name
			break
		}
		if schemeName != "" {
			break
		}
	}
	if schemeName == "" {
		return nil
	}

	if doc.Components == nil || doc.Components.SecuritySchemes == nil {
		return fmt.Errorf("security scheme %q is not declared", schemeName)
	}
	ref, ok := doc.Components.SecuritySchemes[schemeName]
	if !ok || ref.Value == nil {
		return fmt.Errorf("security scheme %q is not declared", schemeName)
	}

	scheme := ref.Value
	switch {
	case scheme.Type == "http" && scheme.Scheme == "basic":
		op.SecurityScheme = schemeName
		op.SecurityType = SecurityBasic
	case scheme.Type == "oauth2":
		op.SecurityScheme = schemeName
		op.SecurityType = SecurityOAuth2
		if scheme.Flows != nil && scheme.Flows.ClientCredentials != nil {
			op.TokenURL = scheme.Flows.ClientCredentials.TokenURL
		}
		if op.TokenURL == "" {
			return fmt.Errorf("oauth2 scheme %q declares no client-credentials token URL", schemeName)
		}
	default:
		return fmt.Errorf("unsupported security scheme type %q for %q", scheme.Type, schemeName)
	}
	return nil
}
