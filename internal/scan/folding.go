package scan

import (
	"turbols/internal/source"
	"turbols/internal/vocab"
)

// FoldKind is the semantic kind a folding range may carry.
type FoldKind uint8

const (
	// FoldNone is a plain indentation or instruction fold.
	FoldNone FoldKind = iota
	// FoldComment covers a run of comment lines.
	FoldComment
	// FoldRegion covers a section and its body.
	FoldRegion
)

func (k FoldKind) String() string {
	switch k {
	case FoldComment:
		return "comment"
	case FoldRegion:
		return "region"
	}
	return ""
}

// FoldRange is a collapsible [Start, End] line span, both ends inclusive.
type FoldRange struct {
	Kind  FoldKind
	Start int
	End   int
}

// FoldingRanges derives collapsible spans in a single forward pass over the
// classified lines. Ranges either nest or are disjoint; each satisfies
// Start < End.
func FoldingRanges(doc source.Document, tabWidth int, m *vocab.Matcher) []FoldRange {
	n := doc.LineCount()
	if n == 0 {
		return nil
	}
	kinds := make([]LineKind, n)
	indents := make([]int, n)
	cls := NewClassifier(m)
	for i := 0; i < n; i++ {
		line := doc.Line(i)
		kinds[i] = cls.Classify(line)
		if kinds[i] == KindOperator {
			indents[i] = Indent(line, tabWidth)
		}
	}

	ranges := make([]FoldRange, 0, n/4)
	for i := 0; i < n; {
		switch kinds[i] {
		case KindInstruction:
			end := blockEnd(kinds, i, KindInstruction)
			if end > i {
				ranges = append(ranges, FoldRange{Kind: FoldNone, Start: i, End: end})
			}
			i = end + 1
		case KindComment:
			end := blockEnd(kinds, i, KindComment)
			if end > i {
				ranges = append(ranges, FoldRange{Kind: FoldComment, Start: i, End: end})
			}
			i = end + 1
		case KindSection:
			end := i
			for j := i + 1; j < n && kinds[j] != KindSection; j++ {
				end = j
			}
			if end > i {
				ranges = append(ranges, FoldRange{Kind: FoldRegion, Start: i, End: end})
			}
			i++
		case KindOperator:
			end := operatorFoldEnd(kinds, indents, i)
			if end > i {
				ranges = append(ranges, FoldRange{Kind: FoldNone, Start: i, End: end})
			}
			i++
		default:
			i++
		}
	}
	return ranges
}

// blockEnd returns the last line of a consecutive run of kind starting at i.
func blockEnd(kinds []LineKind, i int, kind LineKind) int {
	end := i
	for end+1 < len(kinds) && kinds[end+1] == kind {
		end++
	}
	return end
}

// operatorFoldEnd extends an operator fold opened at line i with depth D:
// deeper operator lines extend it; comment, multiline and parameter lines
// are transparent continuations; empty lines are transparent but do not
// extend; a section or an operator at depth <= D terminates it.
func operatorFoldEnd(kinds []LineKind, indents []int, i int) int {
	depth := indents[i]
	end := i
	for k := i + 1; k < len(kinds); k++ {
		switch kinds[k] {
		case KindEmpty:
			continue
		case KindComment, KindMultiline, KindParameter:
			end = k
		case KindOperator:
			if indents[k] <= depth {
				return end
			}
			end = k
		default:
			return end
		}
	}
	return end
}
