package complete

import (
	"testing"

	"turbols/internal/source"
	"turbols/internal/vocab"
)

func testStore() *vocab.Store {
	s := vocab.NewStore()
	s.SetKeywords([]string{"given", "when"})
	s.SetSteps([]vocab.StepPayload{
		{InsertText: `given I open "Form"`, SortText: "10"},
		{InsertText: "when fill table\n| id | name |", SortText: "20"},
	}, true)
	s.SetVariables(map[string]string{"Server": "prod", "User": "admin"}, true)
	return s
}

func itemsAt(t *testing.T, s *vocab.Store, line string, character int) []Item {
	t.Helper()
	doc := source.FromLines([]string{line})
	return Items(doc, source.Position{Line: 0, Character: character}, s)
}

func TestVariableCompletionInsidePlaceholder(t *testing.T) {
	line := `Given I open "$$"`
	items := itemsAt(t, testStore(), line, len(line)-2)
	if len(items) != 2 {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Label != "Server = prod" || items[0].Kind != KindVariable {
		t.Fatalf("first variable item = %+v", items[0])
	}
	// The quote character and the sigil wrapper are both preserved.
	if items[0].InsertText != `"$Server$"` {
		t.Fatalf("InsertText = %q", items[0].InsertText)
	}
	if items[0].FilterText != "Server" {
		t.Fatalf("FilterText = %q", items[0].FilterText)
	}
}

func TestVariableCompletionWithoutSigil(t *testing.T) {
	line := `Given I open "x"`
	items := itemsAt(t, testStore(), line, len(line)-1)
	if len(items) != 2 || items[0].InsertText != `"Server"` {
		t.Fatalf("items = %+v", items)
	}
}

func TestMidTokenStaysSilent(t *testing.T) {
	line := `Given I open the form`
	if items := itemsAt(t, testStore(), line, len("Given I")); items != nil {
		t.Fatalf("mid-line completion should be empty, got %+v", items)
	}
}

func TestStepCompletionAfterTypedKeyword(t *testing.T) {
	line := "given "
	items := itemsAt(t, testStore(), line, len(line))
	if len(items) != 2 {
		t.Fatalf("items = %+v", items)
	}
	// SortText "10" orders the open step first.
	first := items[0]
	if first.InsertText != `I open "Form"` {
		t.Fatalf("typed-keyword insert = %q", first.InsertText)
	}
	if first.FilterText != `given I open "Form"` {
		t.Fatalf("typed-keyword filter = %q", first.FilterText)
	}
	for _, it := range items {
		if it.Kind == KindKeyword {
			t.Fatalf("metatags must not be offered after a keyword: %+v", it)
		}
	}
}

func TestStepCompletionOnBlankLine(t *testing.T) {
	items := itemsAt(t, testStore(), "", 0)

	var tags, steps int
	for _, it := range items {
		switch it.Kind {
		case KindKeyword:
			tags++
		case KindSnippet:
			steps++
		}
	}
	if tags == 0 {
		t.Fatalf("blank line should offer metatags: %+v", items)
	}
	if steps != 2 {
		t.Fatalf("blank line should offer every step, got %d", steps)
	}

	for _, it := range items {
		if it.Kind != KindSnippet {
			continue
		}
		if it.InsertText == `Given I open "Form"` {
			return // keyword restored and capitalized
		}
	}
	t.Fatalf("no step insert carries its own capitalized keyword: %+v", items)
}

func TestMultiLineInsertBody(t *testing.T) {
	line := "when "
	items := itemsAt(t, testStore(), line, len(line))
	for _, it := range items {
		if it.InsertText == "fill table\n| id | name |" {
			return
		}
	}
	t.Fatalf("multi-line body not offered: %+v", items)
}
