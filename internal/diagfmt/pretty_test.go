package diagfmt

import (
	"strings"
	"testing"

	"turbols/internal/diag"
	"turbols/internal/source"
)

func TestPrettyPlain(t *testing.T) {
	doc := source.FromLines([]string{
		"Scenario: x",
		"  Given mystery step",
	})
	diags := []diag.Diagnostic{{
		Severity: diag.SevError,
		Code:     "unknown-step",
		Message:  "Unknown step",
		Range: source.Range{
			Start: source.Position{Line: 1, Character: 2},
			End:   source.Position{Line: 1, Character: 20},
		},
	}}

	var buf strings.Builder
	Pretty(&buf, "demo.feature", doc, diags, PrettyOpts{})
	out := buf.String()

	if !strings.Contains(out, "demo.feature:2:3: ERROR unknown-step: Unknown step") {
		t.Fatalf("header missing:\n%s", out)
	}
	if !strings.Contains(out, "Given mystery step") {
		t.Fatalf("source line missing:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	caret := lines[len(lines)-1]
	if !strings.Contains(caret, "^") {
		t.Fatalf("caret row missing:\n%s", out)
	}
	col := strings.IndexByte(caret, '^')
	src := lines[len(lines)-2]
	if src[col] != 'G' {
		t.Fatalf("caret misaligned: %q under %q", caret, src)
	}
	if strings.Count(caret, "~") != len("Given mystery step")-1 {
		t.Fatalf("underline width wrong: %q", caret)
	}
}

func TestPrettyNoColorByDefault(t *testing.T) {
	doc := source.FromLines([]string{"Given x"})
	diags := []diag.Diagnostic{{Severity: diag.SevWarning, Code: "c", Message: "m"}}

	var buf strings.Builder
	Pretty(&buf, "f", doc, diags, PrettyOpts{Color: false})
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("escape codes leaked into plain output: %q", buf.String())
	}
}

func TestPrettyEmpty(t *testing.T) {
	var buf strings.Builder
	Pretty(&buf, "f", source.FromLines(nil), nil, PrettyOpts{})
	if buf.Len() != 0 {
		t.Fatalf("no diagnostics should print nothing, got %q", buf.String())
	}
}
