package scan

import (
	"testing"

	"turbols/internal/source"
	"turbols/internal/vocab"
)

func foldRanges(t *testing.T, lines []string) []FoldRange {
	t.Helper()
	return FoldingRanges(source.FromLines(lines), 4, vocab.DefaultMatcher())
}

func findFold(ranges []FoldRange, start int) (FoldRange, bool) {
	for _, r := range ranges {
		if r.Start == start {
			return r, true
		}
	}
	return FoldRange{}, false
}

func TestInstructionBlockFold(t *testing.T) {
	ranges := foldRanges(t, []string{
		"@ignore",
		"@draft",
		"Given something",
	})
	r, ok := findFold(ranges, 0)
	if !ok || r.Kind != FoldNone || r.End != 1 {
		t.Fatalf("instruction fold = %+v ok=%v, want [0,1]", r, ok)
	}
}

func TestCommentRunFold(t *testing.T) {
	ranges := foldRanges(t, []string{
		"# first",
		"# second",
		"# third",
		"Given step",
		"# lonely",
	})
	r, ok := findFold(ranges, 0)
	if !ok || r.Kind != FoldComment || r.End != 2 {
		t.Fatalf("comment fold = %+v ok=%v, want [0,2]", r, ok)
	}
	if _, ok := findFold(ranges, 4); ok {
		t.Fatalf("a single comment line must not fold")
	}
}

func TestSectionRegionFold(t *testing.T) {
	ranges := foldRanges(t, []string{
		"Feature: Login",   // 0
		"Scenario: first",  // 1
		"Given a user",     // 2
		"When they log in", // 3
		"Scenario: second", // 4
		"Given nothing",    // 5
	})
	r, ok := findFold(ranges, 1)
	if !ok || r.Kind != FoldRegion || r.End != 3 {
		t.Fatalf("first scenario fold = %+v ok=%v, want [1,3]", r, ok)
	}
	r, ok = findFold(ranges, 4)
	if !ok || r.Kind != FoldRegion || r.End != 5 {
		t.Fatalf("second scenario fold = %+v ok=%v, want [4,5]", r, ok)
	}
	// The feature header is immediately followed by the first scenario, so
	// it has no body of its own to fold.
	if _, ok := findFold(ranges, 0); ok {
		t.Fatalf("empty feature region must not fold")
	}
}

func TestOperatorIndentFold(t *testing.T) {
	ranges := foldRanges(t, []string{
		"Scenario: nesting", // 0
		"Given parent",      // 1
		"    child one",     // 2
		"    child two",     // 3
		"Given sibling",     // 4
	})
	r, ok := findFold(ranges, 1)
	if !ok || r.Kind != FoldNone || r.End != 3 {
		t.Fatalf("operator fold = %+v ok=%v, want [1,3]", r, ok)
	}
	if _, ok := findFold(ranges, 4); ok {
		t.Fatalf("a childless operator must not fold")
	}
}

func TestOperatorFoldSwallowsAttachedBlocks(t *testing.T) {
	ranges := foldRanges(t, []string{
		"Scenario: blocks",  // 0
		"Given table",       // 1
		"    | id | name |", // 2
		"    | 1  | a |",    // 3
		"",                  // 4
		"Given text",        // 5
		`    """`,           // 6
		"    raw line",      // 7
		`    """`,           // 8
		"Given plain",       // 9
	})
	r, ok := findFold(ranges, 1)
	if !ok || r.End != 3 {
		t.Fatalf("table fold = %+v ok=%v, want [1,3]", r, ok)
	}
	r, ok = findFold(ranges, 5)
	if !ok || r.End != 8 {
		t.Fatalf("multiline fold = %+v ok=%v, want [5,8]", r, ok)
	}
}

// Folding ranges must either nest or be disjoint, and always span at least
// two lines.
func TestFoldingRangesWellFormed(t *testing.T) {
	ranges := foldRanges(t, []string{
		"@skip",
		"@manual",
		"Feature: big",
		"# intro",
		"# more",
		"Scenario: one",
		"Given a",
		"  b",
		"    c",
		"  d",
		"",
		"Scenario: two",
		"Given x",
		`"""`,
		"text",
		`"""`,
	})
	for _, r := range ranges {
		if r.Start >= r.End {
			t.Fatalf("degenerate range %+v", r)
		}
	}
	for i, a := range ranges {
		for _, b := range ranges[i+1:] {
			disjoint := a.End < b.Start || b.End < a.Start
			aInB := b.Start <= a.Start && a.End <= b.End
			bInA := a.Start <= b.Start && b.End <= a.End
			if !disjoint && !aInB && !bInA {
				t.Fatalf("ranges cross: %+v and %+v", a, b)
			}
		}
	}
}
