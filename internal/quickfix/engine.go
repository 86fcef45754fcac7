// Package quickfix proposes corrections for flagged step lines via fuzzy
// phrase matching against the known step vocabulary.
package quickfix

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"turbols/internal/diag"
	"turbols/internal/source"
	"turbols/internal/vocab"
)

const (
	// minScore is the similarity threshold a candidate must clear.
	minScore = 0.7
	// maxActions caps the number of emitted fix actions.
	maxActions = 7
)

// Action is one proposed correction or command for a flagged line.
type Action struct {
	Title       string
	Kind        string
	Range       source.Range
	NewText     string
	Command     string
	IsPreferred bool
}

type candidate struct {
	score   float64
	step    *vocab.Step
	lineNo  int
	fixFrom source.Position
	fixTo   source.Position
	words   []string
}

// Actions scores every diagnostic's phrase against the step table and turns
// the best matches into replacement actions: at most seven, ordered by
// descending similarity, all preferred. Registered error-link descriptors
// are appended as command actions when any diagnostic is present.
func Actions(doc source.Document, diags []diag.Diagnostic, store *vocab.Store) []Action {
	cands := make([]candidate, 0)
	for _, d := range diags {
		if d.Severity < diag.SevError {
			continue
		}
		line := doc.Line(d.Range.Start.Line)
		startByte := source.ByteOffset(line, d.Range.Start.Character)
		endByte := source.ByteOffset(line, d.Range.End.Character)
		if startByte >= endByte {
			continue
		}
		text := line[startByte:endByte]
		words := vocab.SignificantWords(vocab.Fields(text))
		kw, _ := store.FindKeyword(words)
		rest := words[len(kw):]
		key := vocab.NormalizeKey(rest)
		if key == "" {
			continue
		}
		fixFrom := d.Range.Start
		if len(kw) > 0 {
			fixFrom = afterKeyword(d.Range.Start, line, startByte, kw)
		}
		for _, stepKey := range store.StepKeys() {
			score := levenshtein.Match(key, stepKey, nil)
			if score <= minScore {
				continue
			}
			step, _ := store.Step(stepKey)
			cands = append(cands, candidate{
				score:   score,
				step:    step,
				lineNo:  d.Range.Start.Line,
				fixFrom: fixFrom,
				fixTo:   d.Range.End,
				words:   words,
			})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	if len(cands) > maxActions {
		cands = cands[:maxActions]
	}
	actions := make([]Action, 0, len(cands)+2)
	for _, c := range cands {
		actions = append(actions, Action{
			Title:       fmt.Sprintf("Replace with %q", c.step.Label),
			Kind:        "quickfix",
			Range:       source.Range{Start: c.fixFrom, End: c.fixTo},
			NewText:     replacementText(c.step, c.words),
			IsPreferred: true,
		})
	}
	if len(actions) > 0 || len(diags) > 0 {
		for _, link := range store.ErrorLinks() {
			actions = append(actions, Action{
				Title:   link.Title,
				Kind:    "quickfix",
				Command: link.ID,
			})
		}
	}
	return actions
}

// afterKeyword advances the fix start column past the matched keyword words.
func afterKeyword(start source.Position, line string, startByte int, kw []string) source.Position {
	rest := line[startByte:]
	off := 0
	for range kw {
		idx := strings.IndexFunc(rest[off:], func(r rune) bool { return r == ' ' || r == '\t' })
		if idx < 0 {
			off = len(rest)
			break
		}
		off += idx
		for off < len(rest) && (rest[off] == ' ' || rest[off] == '\t') {
			off++
		}
	}
	return source.Position{
		Line:      start.Line,
		Character: source.Character(line, startByte+off),
	}
}

// replacementText fills the candidate's placeholder positions, in order,
// from placeholder tokens already present on the offending line. Positions
// beyond the available count keep the literal pattern text.
func replacementText(step *vocab.Step, lineWords []string) string {
	available := make([]string, 0, 4)
	for _, w := range lineWords {
		if vocab.IsPlaceholder(w) {
			available = append(available, w)
		}
	}
	out := make([]string, len(step.Phrase))
	next := 0
	for i, w := range step.Phrase {
		if vocab.IsPlaceholder(w) && next < len(available) {
			out[i] = available[next]
			next++
			continue
		}
		out[i] = w
	}
	return strings.Join(out, " ")
}
