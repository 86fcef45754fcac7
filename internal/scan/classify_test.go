package scan

import (
	"testing"

	"turbols/internal/vocab"
)

func TestClassifyKinds(t *testing.T) {
	c := NewClassifier(vocab.DefaultMatcher())
	cases := []struct {
		line string
		want LineKind
	}{
		{"", KindEmpty},
		{"   \t", KindEmpty},
		{"Feature: Login", KindSection},
		{"  Scenario: path", KindSection},
		{"@ignore", KindInstruction},
		{"  | id | name |", KindParameter},
		{"# note", KindComment},
		{"// note", KindComment},
		{"Given I open the form", KindOperator},
		{"Нажать кнопку", KindOperator},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.line); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.line, got, tc.want)
		}
	}
}

func TestClassifyMultilineToggle(t *testing.T) {
	c := NewClassifier(vocab.DefaultMatcher())
	lines := []string{
		`Given text is`,
		`  """`,
		`  # not a comment in here`,
		`  Feature: not a section either`,
		`  """`,
		`Given back to normal`,
	}
	want := []LineKind{KindOperator, KindMultiline, KindMultiline, KindMultiline, KindMultiline, KindOperator}
	for i, line := range lines {
		if got := c.Classify(line); got != want[i] {
			t.Fatalf("line %d %q = %s, want %s", i, line, got, want[i])
		}
	}
	if c.InMultiline() {
		t.Fatalf("multiline state should be closed at the end")
	}

	c.Classify(`"""`)
	if !c.InMultiline() {
		t.Fatalf("delimiter should open multiline state")
	}
	c.Reset()
	if c.InMultiline() {
		t.Fatalf("Reset should clear multiline state")
	}
}

func TestIndent(t *testing.T) {
	cases := []struct {
		line     string
		tabWidth int
		want     int
	}{
		{"x", 4, 1},
		{"  x", 4, 3},
		{"\tx", 4, 5},
		{" \tx", 4, 5},
		{"\t\tx", 4, 9},
		{"\tx", 8, 9},
		{"  x", 0, 3}, // tabWidth <= 0 falls back to 4
		{"    ", 4, 5},
	}
	for _, tc := range cases {
		if got := Indent(tc.line, tc.tabWidth); got != tc.want {
			t.Fatalf("Indent(%q, %d) = %d, want %d", tc.line, tc.tabWidth, got, tc.want)
		}
	}
}
