package source

import "strings"

// Document is a random-access view over the lines of one open text document.
// Implementations must be restartable: Line may be called for any line number
// any number of times, in any order.
type Document interface {
	LineCount() int
	Line(i int) string
}

// TextDocument is the trivial Document over an in-memory string.
type TextDocument struct {
	lines []string
}

// NewTextDocument splits text into lines. Both "\n" and "\r\n" terminators
// are accepted; terminators are not part of the stored lines.
func NewTextDocument(text string) *TextDocument {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return &TextDocument{lines: lines}
}

// FromLines wraps an existing line slice without copying.
func FromLines(lines []string) *TextDocument {
	return &TextDocument{lines: lines}
}

func (d *TextDocument) LineCount() int { return len(d.lines) }

func (d *TextDocument) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// Text joins the document back into a single string.
func (d *TextDocument) Text() string {
	return strings.Join(d.lines, "\n")
}
