// Package scan classifies raw dialect lines and derives folding ranges.
// The dialect is deliberately line-oriented: the only cross-line state is
// the multiline-string toggle carried by the Classifier.
package scan

import (
	"strings"

	"turbols/internal/vocab"
)

// LineKind is the small token-category alphabet one line maps to.
type LineKind uint8

const (
	// KindEmpty marks a blank line.
	KindEmpty LineKind = iota
	// KindOperator is the default: a regular step line.
	KindOperator
	// KindSection marks a structural header line.
	KindSection
	// KindInstruction marks a leading-'@' metatag line.
	KindInstruction
	// KindParameter marks a leading-'|' table row.
	KindParameter
	// KindComment marks a '#' or '//' line.
	KindComment
	// KindMultiline marks a multiline-string delimiter or any line covered
	// by an open multiline string.
	KindMultiline
)

func (k LineKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindOperator:
		return "operator"
	case KindSection:
		return "section"
	case KindInstruction:
		return "instruction"
	case KindParameter:
		return "parameter"
	case KindComment:
		return "comment"
	case KindMultiline:
		return "multiline"
	}
	return "unknown"
}

// multilineDelim opens and closes multiline string blocks.
const multilineDelim = `"""`

// IsMultilineDelim reports whether the trimmed line starts a multiline
// string delimiter.
func IsMultilineDelim(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), multilineDelim)
}

// Classifier categorizes lines one by one, carrying the multiline-string
// toggle across a scan. One Classifier serves one forward pass; call Reset
// before reuse.
type Classifier struct {
	matcher     *vocab.Matcher
	inMultiline bool
}

func NewClassifier(m *vocab.Matcher) *Classifier {
	return &Classifier{matcher: m}
}

// Reset clears the carried multiline state.
func (c *Classifier) Reset() { c.inMultiline = false }

// InMultiline reports whether the classifier is inside an open multiline
// string after the last Classify call.
func (c *Classifier) InMultiline() bool { return c.inMultiline }

// Classify maps one line to its kind. While a multiline string is open,
// every line (the closing delimiter included) reports KindMultiline and no
// other classification applies.
func (c *Classifier) Classify(line string) LineKind {
	if c.inMultiline {
		if IsMultilineDelim(line) {
			c.inMultiline = false
		}
		return KindMultiline
	}
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return KindEmpty
	case strings.HasPrefix(trimmed, multilineDelim):
		c.inMultiline = true
		return KindMultiline
	case trimmed[0] == '@':
		return KindInstruction
	case trimmed[0] == '|':
		return KindParameter
	case trimmed[0] == '#' || strings.HasPrefix(trimmed, "//"):
		return KindComment
	}
	if c.matcher != nil && c.matcher.IsSection(line) {
		return KindSection
	}
	return KindOperator
}

// Indent computes the indentation depth of a line: one per leading space,
// with tabs advancing to the next multiple of tabWidth, plus one.
func Indent(line string, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	col := 0
	for _, r := range line {
		switch r {
		case ' ':
			col++
		case '\t':
			col = (col/tabWidth + 1) * tabWidth
		default:
			return col + 1
		}
	}
	return col + 1
}
