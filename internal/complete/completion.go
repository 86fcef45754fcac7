// Package complete produces context-sensitive suggestions: variable
// substitution inside placeholder tokens, step and metatag completion at
// the end of a line.
package complete

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"turbols/internal/source"
	"turbols/internal/vocab"
)

// Completion item kinds, the host-side numbering.
const (
	KindText     = 1
	KindFunction = 3
	KindVariable = 6
	KindKeyword  = 14
	KindSnippet  = 15
)

// Item is one suggestion offered to the host.
type Item struct {
	Label         string
	Kind          int
	Detail        string
	Documentation string
	InsertText    string
	FilterText    string
	SortText      string
}

var titleCaser = cases.Title(language.Und)

// Items builds the suggestion list for a cursor position. Inside a
// placeholder token it offers variables; at the end of a line it offers
// steps (and metatags when no keyword is typed yet); mid-token it stays
// silent.
func Items(doc source.Document, pos source.Position, store *vocab.Store) []Item {
	line := doc.Line(pos.Line)
	cursor := source.ByteOffset(line, pos.Character)

	if tok, ok := placeholderAt(line, cursor); ok {
		return variableItems(tok, store)
	}

	lastContent := len(strings.TrimRight(line, " \t"))
	if cursor < lastContent {
		return nil
	}

	words := vocab.Fields(line)
	if kw, ok := store.FindKeyword(words); ok {
		return stepItems(store, strings.Join(kw, " "), true)
	}
	items := metatagItems(store)
	return append(items, stepItems(store, "", false)...)
}

// placeholderToken is a quoted or angle-bracketed token covering the cursor.
type placeholderToken struct {
	open    byte
	closing byte
	content string
}

// placeholderAt finds the placeholder token whose interior covers the byte
// cursor, if any.
func placeholderAt(line string, cursor int) (placeholderToken, bool) {
	for i := 0; i < len(line); i++ {
		var closing byte
		switch line[i] {
		case '"', '\'':
			closing = line[i]
		case '<':
			closing = '>'
		default:
			continue
		}
		end := strings.IndexByte(line[i+1:], closing)
		if end < 0 {
			// Unterminated token still counts when the cursor sits past
			// its opening delimiter.
			if cursor > i {
				return placeholderToken{open: line[i], closing: closing, content: line[i+1:]}, true
			}
			return placeholderToken{}, false
		}
		end += i + 1
		if cursor > i && cursor <= end {
			return placeholderToken{open: line[i], closing: closing, content: line[i+1 : end]}, true
		}
		i = end
	}
	return placeholderToken{}, false
}

// variableItems offers one suggestion per known variable, preserving the
// original quoting character and a detected doubled-sigil wrapper.
func variableItems(tok placeholderToken, store *vocab.Store) []Item {
	sigil := vocab.HasSigil(tok.content)
	vars := store.Variables()
	items := make([]Item, 0, len(vars))
	for _, v := range vars {
		name := v.Name
		if sigil {
			name = "$" + name + "$"
		}
		items = append(items, Item{
			Label:      v.Name + " = " + v.Value,
			Kind:       KindVariable,
			Detail:     v.Value,
			InsertText: string(tok.open) + name + string(tok.closing),
			FilterText: v.Name,
		})
	}
	return items
}

func metatagItems(store *vocab.Store) []Item {
	tags := store.Metatags()
	items := make([]Item, 0, len(tags))
	for _, t := range tags {
		items = append(items, Item{
			Label:      t,
			Kind:       KindKeyword,
			InsertText: t,
		})
	}
	return items
}

// stepItems offers every registered step. With a keyword already typed the
// insertion omits it and the filter text carries it; otherwise the step's
// own keyword opens the insertion, capitalized.
func stepItems(store *vocab.Store, typedKeyword string, keywordTyped bool) []Item {
	steps := store.Steps()
	items := make([]Item, 0, len(steps))
	for _, st := range steps {
		body := insertBody(st)
		item := Item{
			Label:         st.Label,
			Kind:          stepKind(st),
			Detail:        st.Section,
			Documentation: st.Doc,
			SortText:      st.SortText,
		}
		if keywordTyped {
			item.InsertText = body
			item.FilterText = typedKeyword + " " + body
		} else {
			kw := st.Keyword
			if kw != "" {
				kw = capitalizeFirst(kw) + " "
			}
			item.InsertText = kw + body
			item.FilterText = item.InsertText
		}
		items = append(items, item)
	}
	return items
}

// insertBody is the step's insert text without its leading keyword.
func insertBody(st *vocab.Step) string {
	lines := append([]string{strings.Join(st.Phrase, " ")}, st.Body...)
	return strings.Join(lines, "\n")
}

func capitalizeFirst(phrase string) string {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return phrase
	}
	words[0] = titleCaser.String(words[0])
	return strings.Join(words, " ")
}

func stepKind(st *vocab.Step) int {
	if st.Kind != 0 {
		return st.Kind
	}
	return KindSnippet
}
