package validate

import (
	"strings"
	"testing"

	"github.com/The-Kiln/gong-mcp-customized/pkg/catalog"
)

func strictValidator(t *testing.T) *Validator {
	t.Helper()
	v := Compile("listusers", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"includeAvatars": map[string]any{"type": "boolean"},
			"emailAddress":   map[string]any{"type": "string"},
			"paginate":       map[string]any{"type": []string{"boolean", "string"}},
		},
		"required": []string{"emailAddress"},
	})
	if v.Mode() != Strict {
		t.Fatalf("expected strict validator, got mode %v", v.Mode())
	}
	return v
}

func TestValidateStripsPaginateFlag(t *testing.T) {
	v := strictValidator(t)

	raw := map[string]any{
		"emailAddress": "a@b.com",
		"paginate":     true,
	}
	args, paginate, err := v.Validate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !paginate {
		t.Error("paginate flag should be true")
	}
	if _, ok := args["paginate"]; ok {
		t.Error("paginate flag must not survive into normalized arguments")
	}
	if args["emailAddress"] != "a@b.com" {
		t.Error("declared arguments must pass through")
	}
	if _, ok := raw["paginate"]; !ok {
		t.Error("input map must not be mutated")
	}
}

func TestValidateCoercesPaginateStrings(t *testing.T) {
	v := strictValidator(t)

	cases := map[any]bool{
		"true":  true,
		"false": false,
		true:    true,
		false:   false,
	}
	for in, want := range cases {
		_, paginate, err := v.Validate(map[string]any{"emailAddress": "a@b.com", "paginate": in})
		if err != nil {
			t.Fatalf("paginate=%v: unexpected error: %v", in, err)
		}
		if paginate != want {
			t.Errorf("paginate=%v: got %v, want %v", in, paginate, want)
		}
	}

	// Unparseable values fall back to no pagination rather than failing.
	_, paginate, err := v.Validate(map[string]any{"emailAddress": "a@b.com", "paginate": "definitely"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paginate {
		t.Error("unparseable paginate value should disable pagination")
	}
}

func TestValidateRejectsBadArguments(t *testing.T) {
	v := strictValidator(t)

	_, _, err := v.Validate(map[string]any{"includeAvatars": true})
	if err == nil {
		t.Fatal("expected validation failure for missing required field")
	}
	vErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if vErr.Operation != "listusers" {
		t.Errorf("error should name the operation, got %q", vErr.Operation)
	}
	if !strings.Contains(vErr.Message, "emailAddress") {
		t.Errorf("error should mention the missing field: %s", vErr.Message)
	}
}

func TestValidatePassesUndeclaredFields(t *testing.T) {
	v := strictValidator(t)

	args, _, err := v.Validate(map[string]any{
		"emailAddress": "a@b.com",
		"undeclared":   42,
	})
	if err != nil {
		t.Fatalf("undeclared fields must not fail validation: %v", err)
	}
	if args["undeclared"] != 42 {
		t.Error("undeclared fields must pass through")
	}
}

func TestMalformedSchemaFallsBackToPermissive(t *testing.T) {
	v := Compile("broken", map[string]any{
		"type":       "object",
		"properties": map[string]any{"x": map[string]any{"type": 12345}},
	})
	if v.Mode() != Permissive {
		t.Fatalf("expected permissive fallback, got mode %v", v.Mode())
	}

	args, paginate, err := v.Validate(map[string]any{"anything": "goes", "paginate": "true"})
	if err != nil {
		t.Fatalf("permissive validator must accept anything: %v", err)
	}
	if !paginate {
		t.Error("paginate coercion must still work in permissive mode")
	}
	if args["anything"] != "goes" {
		t.Error("arguments must pass through in permissive mode")
	}
}

func TestValidateNilArguments(t *testing.T) {
	v := Compile("noargs", map[string]any{"type": "object"})

	args, paginate, err := v.Validate(nil)
	if err != nil {
		t.Fatalf("nil arguments should validate: %v", err)
	}
	if paginate {
		t.Error("paginate should default to false")
	}
	if args == nil || len(args) != 0 {
		t.Errorf("expected empty normalized map, got %v", args)
	}
}

func TestCompileAll(t *testing.T) {
	cat := catalog.New("https://example.com",
		&catalog.Operation{Name: "one", InputSchema: map[string]any{"type": "object"}},
		&catalog.Operation{Name: "two", InputSchema: map[string]any{"type": "object"}},
	)

	validators := CompileAll(cat)
	if len(validators) != 2 {
		t.Fatalf("expected 2 validators, got %d", len(validators))
	}
	for _, name := range []string{"one", "two"} {
		if validators[name] == nil {
			t.Errorf("missing validator for %s", name)
		}
	}
}
