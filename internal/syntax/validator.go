// Package syntax flags step lines that do not resolve against the known
// step and keypair vocabulary.
package syntax

import (
	"context"
	"strings"

	"turbols/internal/diag"
	"turbols/internal/scan"
	"turbols/internal/source"
	"turbols/internal/vocab"
)

// CodeUnknownStep marks a step line that resolves to no known phrase.
const CodeUnknownStep = "unknown-step"

// maxDiagnostics bounds one document's diagnostic set.
const maxDiagnostics = 500

// Check scans the whole document and returns one advisory diagnostic per
// unresolved step line. Lines inside multiline strings, comments,
// instructions, section headers and suppressed sections are skipped.
// The context is checked once per line to bound latency on large documents.
func Check(ctx context.Context, doc source.Document, store *vocab.Store) ([]diag.Diagnostic, error) {
	m := store.Matcher()
	cls := scan.NewClassifier(m)
	bag := diag.NewBag(maxDiagnostics)
	section := ""
	for i := 0; i < doc.LineCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := doc.Line(i)
		kind := cls.Classify(line)
		switch kind {
		case scan.KindMultiline, scan.KindComment, scan.KindInstruction, scan.KindEmpty, scan.KindParameter:
			continue
		case scan.KindSection:
			if name, ok := m.Section(line); ok {
				section = name
			}
			continue
		}
		if m.SuppressChecks(section) {
			continue
		}
		if !m.IsStep(line) {
			continue
		}
		if valid(line, store) {
			continue
		}
		if !bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     CodeUnknownStep,
			Message:  store.SyntaxMessage(),
			Range:    lineContentRange(i, line),
		}) {
			break
		}
	}
	bag.Sort()
	bag.Dedup()
	return bag.Items(), nil
}

// valid resolves one step line against the step table, allowing a trailing
// keypair continuation word on top of a known phrase.
func valid(line string, store *vocab.Store) bool {
	words := vocab.SignificantWords(vocab.Fields(line))
	kw, ok := store.FindKeyword(words)
	if !ok {
		return true
	}
	rest := words[len(kw):]
	key := vocab.NormalizeKey(rest)
	if key == "" {
		return true
	}
	if _, found := store.Step(key); found {
		return true
	}
	if len(rest) > 0 {
		if set, has := store.Keypair(vocab.KeywordKey(kw)); has {
			last := strings.ToLower(rest[len(rest)-1])
			shortKey := vocab.NormalizeKey(rest[:len(rest)-1])
			if set[last] && shortKey != "" {
				if _, found := store.Step(shortKey); found {
					return true
				}
			}
		}
	}
	return false
}

// lineContentRange spans the first to last non-whitespace column.
func lineContentRange(lineNo int, line string) source.Range {
	startByte := len(line) - len(strings.TrimLeft(line, " \t"))
	endByte := len(strings.TrimRight(line, " \t"))
	return source.LineRange(lineNo, line, startByte, endByte)
}
