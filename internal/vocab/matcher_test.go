package vocab

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultMatcherSections(t *testing.T) {
	m := DefaultMatcher()
	cases := []struct {
		line    string
		section string
	}{
		{"Feature: Login", "feature"},
		{"  Scenario: happy path", "scenario"},
		{"Сценарий: вход", "scenario"},
		{"Variables:", "variables"},
		{"Переменные:", "variables"},
		{"Examples:", "examples"},
	}
	for _, tc := range cases {
		name, ok := m.Section(tc.line)
		if !ok || name != tc.section {
			t.Fatalf("Section(%q) = (%q, %v), want %q", tc.line, name, ok, tc.section)
		}
		if !m.IsSection(tc.line) {
			t.Fatalf("IsSection(%q) = false", tc.line)
		}
	}
	if m.IsSection("just a step line") {
		t.Fatalf("plain text classified as a section")
	}
}

func TestDefaultMatcherStepAndImport(t *testing.T) {
	m := DefaultMatcher()
	if !m.IsStep("  Given something") || !m.IsStep("\tНажать кнопку") || !m.IsStep("$var assignment") {
		t.Fatalf("step shape rejected a valid line")
	}
	if m.IsStep("  | a | b |") || m.IsStep("# comment") {
		t.Fatalf("step shape accepted a structural line")
	}

	path, ok := m.ImportPath(`Import "data/users.json"`)
	if !ok || path != "data/users.json" {
		t.Fatalf("ImportPath = (%q, %v)", path, ok)
	}
	path, ok = m.ImportPath(`использовать "общие.feature"`)
	if !ok || path != "общие.feature" {
		t.Fatalf("russian ImportPath = (%q, %v)", path, ok)
	}
	if _, ok := m.ImportPath("Given a step"); ok {
		t.Fatalf("non-import line yielded a path")
	}
}

func TestDefaultMatcherSuppressChecks(t *testing.T) {
	m := DefaultMatcher()
	if !m.SuppressChecks("feature") || !m.SuppressChecks("Feature") {
		t.Fatalf("feature bodies should be excluded from validation by default")
	}
	if m.SuppressChecks("scenario") {
		t.Fatalf("scenario bodies must be validated")
	}
}

func TestCompileMatcherNamesBadPattern(t *testing.T) {
	p := DefaultPayload()
	p.Section["broken"] = "(["
	_, err := CompileMatcher(p)
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Category != "matchers" {
		t.Fatalf("error should be a matchers ConfigError, got %v", err)
	}
	if !strings.Contains(err.Error(), `"broken"`) {
		t.Fatalf("error should name the failing pattern: %v", err)
	}
}

func TestCompileMatcherRequiresImportGroup(t *testing.T) {
	p := DefaultPayload()
	p.Import = `^import no-group`
	if _, err := CompileMatcher(p); err == nil {
		t.Fatalf("import pattern without a capture group must be rejected")
	}
}

func TestParseMatchersFillsDefaults(t *testing.T) {
	m, err := ParseMatchers([]byte(`{"section":{"scenario":"(?i)^\\s*scenario\\s*:"}}`))
	if err != nil {
		t.Fatalf("ParseMatchers: %v", err)
	}
	if !m.IsStep("Given x") {
		t.Fatalf("omitted step pattern should fall back to the default")
	}
	if _, ok := m.ImportPath(`import "a.json"`); !ok {
		t.Fatalf("omitted import pattern should fall back to the default")
	}
	if !m.SuppressChecks("feature") {
		t.Fatalf("omitted nocheck list should fall back to the default")
	}
	if m.IsSection("Feature: x") {
		t.Fatalf("replaced section set must not keep the defaults")
	}
}
