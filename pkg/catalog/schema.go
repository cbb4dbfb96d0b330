package catalog

import (
	"fmt"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
)

// PaginateKey is the sentinel argument that switches on auto-pagination.
// It is declared on every operation's input schema, coerced to a boolean
// after validation, and stripped before the upstream request is built.
const PaginateKey = "paginate"

// paginateProperty is injected into every operation's input schema. The
// type union tolerates clients that send the flag as the literal strings
// "true"/"false" instead of a JSON boolean.
func paginateProperty() map[string]any {
	return map[string]any{
		"type":        []string{"boolean", "string"},
		"description": "If true, automatically fetch all pages and merge the results. Not forwarded to the Gong API.",
	}
}

// BuildInputSchema converts an operation's parameters and request body into
// a single JSON-Schema object for argument validation. The request body is
// nested under the "requestBody" property; the paginate flag is always
// declared.
func BuildInputSchema(params openapi3.Parameters, requestBody *openapi3.RequestBodyRef) map[string]any {
	properties := map[string]any{}
	var required []string

	for _, ref := range params {
		if ref == nil || ref.Value == nil {
			continue
		}
		p := ref.Value
		if p.In != "path" && p.In != "query" {
			continue
		}
		prop := extractProperty(p.Schema)
		if prop == nil {
			prop = map[string]any{}
		}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
		if p.Required || p.In == "path" {
			required = append(required, p.Name)
		}
	}

	if requestBody != nil && requestBody.Value != nil {
		if mt := requestBody.Value.Content.Get("application/json"); mt != nil && mt.Schema != nil {
			bodyProp := extractProperty(mt.Schema)
			if bodyProp == nil {
				bodyProp = map[string]any{"type": "object"}
			}
			bodyProp["description"] = "The JSON request body."
			properties["requestBody"] = bodyProp
			if requestBody.Value.Required {
				required = append(required, "requestBody")
			}
		}
	}

	properties[PaginateKey] = paginateProperty()

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// extractProperty recursively converts an OpenAPI schema into a plain
// JSON-Schema property map. allOf subschemas are merged; oneOf/anyOf get
// only basic pass-through support.
func extractProperty(s *openapi3.SchemaRef) map[string]any {
	if s == nil || s.Value == nil {
		return nil
	}
	val := s.Value
	prop := map[string]any{}

	if len(val.AllOf) > 0 {
		for _, sub := range val.AllOf {
			for k, v := range extractProperty(sub) {
				prop[k] = v
			}
		}
	}
	if len(val.AnyOf) > 0 {
		fmt.Fprintf(os.Stderr, "[WARN] anyOf in input schema; only basic support is provided\n")
		anyOf := []any{}
		for _, sub := range val.AnyOf {
			anyOf = append(anyOf, extractProperty(sub))
		}
		prop["anyOf"] = anyOf
	}
	if len(val.OneOf) > 0 {
		oneOf := []any{}
		for _, sub := range val.OneOf {
			oneOf = append(oneOf, extractProperty(sub))
		}
		prop["oneOf"] = oneOf
	}

	if val.Type != nil && len(*val.Type) > 0 {
		prop["type"] = (*val.Type)[0]
	}
	if val.Format != "" {
		prop["format"] = val.Format
	}
	if val.Description != "" {
		prop["description"] = val.Description
	}
	if len(val.Enum) > 0 {
		prop["enum"] = val.Enum
	}
	if val.Default != nil {
		prop["default"] = val.Default
	}
	if val.Example != nil {
		prop["example"] = val.Example
	}

	if val.Type != nil && val.Type.Is("object") && val.Properties != nil {
		objProps := map[string]any{}
		for name, sub := range val.Properties {
			objProps[name] = extractProperty(sub)
		}
		prop["properties"] = objProps
		if len(val.Required) > 0 {
			prop["required"] = val.Required
		}
	}
	if val.Type != nil && val.Type.Is("array") && val.Items != nil {
		prop["items"] = extractProperty(val.Items)
	}
	return prop
}
