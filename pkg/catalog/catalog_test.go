package catalog

import (
	"testing"

	"github.com/The-Kiln/gong-mcp-customized/specs"
)

func loadEmbedded(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Load(specs.GongOpenAPI)
	if err != nil {
		t.Fatalf("failed to load embedded description: %v", err)
	}
	return cat
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	cat := loadEmbedded(t)

	want := []string{
		"getcallbyid",
		"listcalls",
		"postv2callsextensive",
		"postcalltranscripts",
		"listusers",
		"getdataforemailaddress",
		"generatebrief",
	}
	if cat.Len() != len(want) {
		t.Fatalf("expected %d operations, got %d: %v", len(want), cat.Len(), cat.Names())
	}
	for _, name := range want {
		if _, ok := cat.Lookup(name); !ok {
			t.Errorf("operation %q missing from catalog", name)
		}
	}

	if cat.BaseURL() == "" {
		t.Error("expected a base URL from the API description")
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"getCallById":          "getcallbyid",
		"postV2CallsExtensive": "postv2callsextensive",
		"list_users":           "listusers",
		"generate-brief":       "generatebrief",
		"Already_Lower123":     "alreadylower123",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPathParameterBinding(t *testing.T) {
	cat := loadEmbedded(t)
	op, _ := cat.Lookup("getcallbyid")

	if op.Method != "GET" {
		t.Errorf("expected GET, got %s", op.Method)
	}
	if op.PathTemplate != "/v2/calls/{id}" {
		t.Errorf("unexpected path template %q", op.PathTemplate)
	}

	var idBinding *Binding
	for i := range op.Bindings {
		if op.Bindings[i].Name == "id" {
			idBinding = &op.Bindings[i]
		}
	}
	if idBinding == nil {
		t.Fatal("missing binding for path parameter id")
	}
	if idBinding.Location != LocationPath || !idBinding.Required {
		t.Errorf("path parameter id must be required, got %+v", idBinding)
	}
}

func TestCursorPlacement(t *testing.T) {
	cat := loadEmbedded(t)

	queryCursor := []string{"listcalls", "listusers", "getdataforemailaddress"}
	for _, name := range queryCursor {
		op, _ := cat.Lookup(name)
		if !op.HasQueryCursor() {
			t.Errorf("%s should declare a cursor query parameter", name)
		}
	}

	bodyCursor := []string{"postv2callsextensive", "postcalltranscripts"}
	for _, name := range bodyCursor {
		op, _ := cat.Lookup(name)
		if op.HasQueryCursor() {
			t.Errorf("%s should not declare a cursor query parameter", name)
		}
		if op.BodyContentType != "application/json" {
			t.Errorf("%s should accept a JSON body, got %q", name, op.BodyContentType)
		}
		if !op.BodyRequired {
			t.Errorf("%s should require its body", name)
		}
	}
}

func TestSecurityResolution(t *testing.T) {
	cat := loadEmbedded(t)

	basic, _ := cat.Lookup("getcallbyid")
	if basic.SecurityType != SecurityBasic {
		t.Errorf("getcallbyid should use basic auth, got %q", basic.SecurityType)
	}

	oauth, _ := cat.Lookup("generatebrief")
	if oauth.SecurityType != SecurityOAuth2 {
		t.Fatalf("generatebrief should use oauth2, got %q", oauth.SecurityType)
	}
	if oauth.TokenURL == "" {
		t.Error("generatebrief should carry a client-credentials token URL")
	}
}

func TestInputSchemaDeclaresPaginate(t *testing.T) {
	cat := loadEmbedded(t)

	for _, name := range cat.Names() {
		op, _ := cat.Lookup(name)
		props, ok := op.InputSchema["properties"].(map[string]any)
		if !ok {
			t.Fatalf("%s: input schema has no properties", name)
		}
		if _, ok := props[PaginateKey]; !ok {
			t.Errorf("%s: input schema does not declare %s", name, PaginateKey)
		}
	}
}

func TestInputSchemaRequiredFields(t *testing.T) {
	cat := loadEmbedded(t)

	op, _ := cat.Lookup("postv2callsextensive")
	props := op.InputSchema["properties"].(map[string]any)
	if _, ok := props["requestBody"]; !ok {
		t.Fatal("postv2callsextensive schema should expose requestBody")
	}
	if !containsString(op.InputSchema["required"], "requestBody") {
		t.Error("postv2callsextensive should require requestBody")
	}

	byID, _ := cat.Lookup("getcallbyid")
	if !containsString(byID.InputSchema["required"], "id") {
		t.Error("getcallbyid should require its path parameter")
	}
}

func containsString(v any, want string) bool {
	items, ok := v.([]string)
	if !ok {
		return false
	}
	for _, s := range items {
		if s == want {
			return true
		}
	}
	return false
}

func TestNewKeepsOrderAndDropsDuplicates(t *testing.T) {
	cat := New("https://example.com/",
		&Operation{Name: "beta"},
		&Operation{Name: "alpha"},
		&Operation{Name: "beta"},
	)

	if cat.BaseURL() != "https://example.com" {
		t.Errorf("base URL should be trimmed, got %q", cat.BaseURL())
	}
	names := cat.Names()
	if len(names) != 2 || names[0] != "beta" || names[1] != "alpha" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestLoadRejectsEmptyDescription(t *testing.T) {
	data := []byte("openapi: 3.0.3\ninfo:\n  title: empty\n  version: 1.0.0\npaths: {}\n")
	if _, err := Load(data); err == nil {
		t.Fatal("expected error for a description with no operations")
	}
}
