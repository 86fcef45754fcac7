// Package diagfmt renders diagnostics for terminal output.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"turbols/internal/diag"
	"turbols/internal/source"
)

// PrettyOpts configures the human-readable diagnostic format.
type PrettyOpts struct {
	Color bool
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	posColor  = color.New(color.Bold)
)

// Pretty prints each diagnostic as
//
//	<path>:<line>:<col>: <SEV> <code>: <message>
//
// followed by the source line and a caret underline covering the flagged
// span. Columns in the header are 1-based.
func Pretty(w io.Writer, path string, doc source.Document, diags []diag.Diagnostic, opts PrettyOpts) {
	restore := color.NoColor
	color.NoColor = !opts.Color
	defer func() { color.NoColor = restore }()

	for _, d := range diags {
		sev := severityColor(d.Severity)
		fmt.Fprintf(w, "%s %s %s: %s\n",
			posColor.Sprintf("%s:%d:%d:", path, d.Range.Start.Line+1, d.Range.Start.Character+1),
			sev.Sprint(d.Severity.String()),
			d.Code,
			d.Message,
		)
		line := doc.Line(d.Range.Start.Line)
		if line == "" {
			continue
		}
		prefix := fmt.Sprintf("  %4d | ", d.Range.Start.Line+1)
		fmt.Fprintf(w, "%s%s\n", prefix, line)
		fmt.Fprintf(w, "  %4s | %s\n", "", underline(line, d.Range))
	}
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	}
	return infoColor
}

// underline builds the caret marker row, using display widths so wide
// runes and tabs keep the carets aligned under the flagged span.
func underline(line string, r source.Range) string {
	startByte := source.ByteOffset(line, r.Start.Character)
	endByte := source.ByteOffset(line, r.End.Character)
	if endByte <= startByte {
		endByte = startByte + 1
	}
	var b strings.Builder
	for _, ch := range line[:startByte] {
		if ch == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(ch)))
	}
	width := runewidth.StringWidth(line[startByte:min(endByte, len(line))])
	if width < 1 {
		width = 1
	}
	b.WriteByte('^')
	b.WriteString(strings.Repeat("~", width-1))
	return b.String()
}
