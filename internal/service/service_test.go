package service

import (
	"context"
	"errors"
	"testing"

	"turbols/internal/source"
	"turbols/internal/vocab"
)

func configuredService(t *testing.T) *Service {
	t.Helper()
	s := New()
	steps := []struct {
		category string
		payload  string
	}{
		{"keywords", `["Given", "When", "And"]`},
		{"steplist", `[{"insertText": "Given I open \"Form\""}]`},
		{"variables", `{"Server": "prod"}`},
	}
	for _, st := range steps {
		if err := s.Configure(st.category, []byte(st.payload), true); err != nil {
			t.Fatalf("configure %s: %v", st.category, err)
		}
	}
	return s
}

func TestCheckSyntaxEndToEnd(t *testing.T) {
	s := configuredService(t)
	doc := source.FromLines([]string{
		"Scenario: smoke",
		`Given I open "Main"`,
		"Given no such phrase",
	})
	diags, err := s.CheckSyntax(context.Background(), doc)
	if err != nil {
		t.Fatalf("CheckSyntax: %v", err)
	}
	if len(diags) != 1 || diags[0].Range.Start.Line != 2 {
		t.Fatalf("diags = %+v", diags)
	}
}

func TestConfigureRejectsUnknownCategory(t *testing.T) {
	err := New().Configure("nonsense", []byte(`{}`), false)
	var cfgErr *vocab.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Category != "nonsense" {
		t.Fatalf("err = %v", err)
	}
}

// A payload that fails to parse must leave every category untouched,
// including its own.
func TestConfigureFailureIsIsolated(t *testing.T) {
	s := configuredService(t)
	if err := s.Configure("keywords", []byte(`{"broken":`), true); err == nil {
		t.Fatalf("expected a parse error")
	}

	doc := source.FromLines([]string{"Scenario: x", "Given no such phrase"})
	diags, err := s.CheckSyntax(context.Background(), doc)
	if err != nil {
		t.Fatalf("CheckSyntax: %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("previous keywords should still apply: %+v", diags)
	}
}

func TestTokenizeReflectsReconfiguration(t *testing.T) {
	s := configuredService(t)
	tokens, _ := s.Tokenize("Given step", s.InitialState())
	if len(tokens) == 0 {
		t.Fatalf("expected a keyword token")
	}

	if err := s.Configure("keywords", []byte(`["Allora"]`), true); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}
	tokens, _ = s.Tokenize("Given step", s.InitialState())
	if len(tokens) != 0 {
		t.Fatalf("stale grammar: %+v", tokens)
	}
	tokens, _ = s.Tokenize("Allora step", s.InitialState())
	if len(tokens) == 0 {
		t.Fatalf("new keyword not highlighted")
	}
}

func TestCodeActionsRequireErrors(t *testing.T) {
	s := configuredService(t)
	doc := source.FromLines([]string{"Scenario: x", `Given I open "Main"`})
	diags, err := s.CheckSyntax(context.Background(), doc)
	if err != nil {
		t.Fatalf("CheckSyntax: %v", err)
	}
	if actions := s.CodeActions(doc, diags); actions != nil {
		t.Fatalf("clean document yielded actions: %+v", actions)
	}
}

func TestSnapshotRestoreAcrossServices(t *testing.T) {
	src := configuredService(t)
	blob, err := src.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	dst := New()
	if err := dst.Restore(blob); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	doc := source.FromLines([]string{"Scenario: x", "Given no such phrase"})
	diags, err := dst.CheckSyntax(context.Background(), doc)
	if err != nil {
		t.Fatalf("CheckSyntax: %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("restored vocabulary not active: %+v", diags)
	}
}

func TestLinkData(t *testing.T) {
	s := configuredService(t)
	doc := source.FromLines([]string{
		"Variables:",
		"* Users",
		"| id | name |",
		"| 1 | Alice |",
	})
	rec, ok, err := s.LinkData(context.Background(), doc, "Users.1")
	if err != nil || !ok || rec.Name != "Alice" {
		t.Fatalf("LinkData = (%+v, %v, %v)", rec, ok, err)
	}
}

func TestApplyFileConfig(t *testing.T) {
	s := New()
	err := s.ApplyFileConfig(FileConfig{
		Keywords:      []string{"Dado"},
		SyntaxMessage: "Paso desconocido",
		NoCheck:       []string{"feature", "examples"},
	})
	if err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}
	doc := source.FromLines([]string{"Scenario: x", "Dado algo desconocido"})
	diags, cerr := s.CheckSyntax(context.Background(), doc)
	if cerr != nil {
		t.Fatalf("CheckSyntax: %v", cerr)
	}
	if len(diags) != 1 || diags[0].Message != "Paso desconocido" {
		t.Fatalf("diags = %+v", diags)
	}

	doc = source.FromLines([]string{"Examples:", "Dado algo desconocido"})
	diags, cerr = s.CheckSyntax(context.Background(), doc)
	if cerr != nil {
		t.Fatalf("CheckSyntax: %v", cerr)
	}
	if len(diags) != 0 {
		t.Fatalf("examples body should be suppressed: %+v", diags)
	}
}
