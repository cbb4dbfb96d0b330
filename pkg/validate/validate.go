// Package validate checks tool arguments against an operation's declared
// input schema before any network call is made.
//
// Each operation gets one Validator, compiled once at catalog-load time.
// When a declared schema is malformed the validator degrades permanently to
// a permissive variant that accepts anything: an operation must stay
// callable even if its schema is broken.
package validate

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cast"
	"github.com/xeipuuv/gojsonschema"

	"github.com/The-Kiln/gong-mcp-customized/pkg/catalog"
)

// Error reports arguments rejected by an operation's input schema.
type Error struct {
	Operation string
	Message   string
}

func (e *Error) Error() string { return e.Message }

// Mode selects between the two validator variants.
type Mode int

const (
	// Strict enforces the compiled input schema.
	Strict Mode = iota
	// Permissive accepts any argument object. Selected only when schema
	// compilation fails.
	Permissive
)

// Validator validates raw tool arguments for a single operation.
type Validator struct {
	operation string
	mode      Mode
	schema    *gojsonschema.Schema
}

// Compile builds a Validator from an operation's input schema. Compilation
// failures are logged and yield the permissive variant rather than an
// error.
func Compile(operation string, inputSchema map[string]any) *Validator {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(inputSchema))
	if err != nil {
		log.Printf("[WARN] input schema for %s failed to compile, using permissive validation: %v", operation, err)
		return &Validator{operation: operation, mode: Permissive}
	}
	return &Validator{operation: operation, mode: Strict, schema: schema}
}

// Mode returns the variant selected at compile time.
func (v *Validator) Mode() Mode { return v.mode }

// Validate checks raw arguments and returns a normalized copy with the
// paginate flag read, coerced, and stripped. Undeclared properties pass
// through untouched: the upstream API may accept fields the catalog does
// not enumerate. The input map is never mutated.
func (v *Validator) Validate(raw map[string]any) (map[string]any, bool, error) {
	if raw == nil {
		raw = map[string]any{}
	}

	if v.mode == Strict {
		result, err := v.schema.Validate(gojsonschema.NewGoLoader(raw))
		if err != nil {
			return nil, false, &Error{Operation: v.operation, Message: fmt.Sprintf("cannot evaluate arguments: %v", err)}
		}
		if !result.Valid() {
			msgs := make([]string, 0, len(result.Errors()))
			for _, re := range result.Errors() {
				msgs = append(msgs, re.String())
			}
			return nil, false, &Error{Operation: v.operation, Message: strings.Join(msgs, "; ")}
		}
	}

	normalized := make(map[string]any, len(raw))
	for k, val := range raw {
		if k == catalog.PaginateKey {
			continue
		}
		normalized[k] = val
	}

	paginate := false
	if pv, ok := raw[catalog.PaginateKey]; ok {
		if b, err := cast.ToBoolE(pv); err == nil {
			paginate = b
		}
	}

	return normalized, paginate, nil
}

// CompileAll builds one validator per catalog operation.
func CompileAll(cat *catalog.Catalog) map[string]*Validator {
	validators := make(map[string]*Validator, cat.Len())
	for _, name := range cat.Names() {
		op, _ := cat.Lookup(name)
		validators[name] = Compile(name, op.InputSchema)
	}
	return validators
}
