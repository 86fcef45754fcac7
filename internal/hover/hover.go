// Package hover renders documentation and variable values for the token
// under the cursor.
package hover

import (
	"fmt"
	"strings"

	"turbols/internal/source"
	"turbols/internal/vocab"
)

// soundMarker opens a sound annotation line.
const soundMarker = "@sound"

// Result carries the rendered markdown blocks and the hovered range.
type Result struct {
	Contents []string
	Range    source.Range
}

// Hover renders hover content for the line under the cursor, or nil when
// nothing resolves there.
func Hover(doc source.Document, pos source.Position, store *vocab.Store) *Result {
	line := doc.Line(pos.Line)
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, soundMarker) {
		return soundHover(pos.Line, line, trimmed)
	}
	return stepHover(pos.Line, line, store)
}

// soundHover renders the fixed label, a synthetic sound link keyed by line
// number, and the escaped remainder of the line.
func soundHover(lineNo int, line, trimmed string) *Result {
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, soundMarker))
	contents := []string{
		fmt.Sprintf("**Sound** [play](turbols://sound/%d)", lineNo),
	}
	if rest != "" {
		contents = append(contents, escapeMarkdown(rest))
	}
	return &Result{Contents: contents, Range: contentRange(lineNo, line)}
}

func stepHover(lineNo int, line string, store *vocab.Store) *Result {
	key, _ := store.LineKey(line)
	if key == "" {
		return nil
	}
	step, ok := store.Step(key)
	if !ok {
		return nil
	}
	contents := []string{
		fmt.Sprintf("**%s** [info](turbols://info/%s) [sound](turbols://sound/%d)",
			escapeMarkdown(step.Section), key, lineNo),
	}
	if step.Doc != "" {
		contents = append(contents, escapeMarkdown(step.Doc))
	}
	for _, w := range vocab.Fields(line) {
		content, isPlaceholder := vocab.PlaceholderContent(w)
		if !isPlaceholder {
			continue
		}
		if v, found := store.Variable(content); found {
			contents = append(contents, fmt.Sprintf("%s = %s", v.Name, escapeMarkdown(v.Value)))
		}
	}
	return &Result{Contents: contents, Range: contentRange(lineNo, line)}
}

func contentRange(lineNo int, line string) source.Range {
	startByte := len(line) - len(strings.TrimLeft(line, " \t"))
	endByte := len(strings.TrimRight(line, " \t"))
	return source.LineRange(lineNo, line, startByte, endByte)
}

var markdownEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"`", "\\`",
	"*", "\\*",
	"_", "\\_",
	"[", "\\[",
	"]", "\\]",
	"#", "\\#",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
