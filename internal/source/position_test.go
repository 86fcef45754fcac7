package source

import "testing"

func TestByteOffsetASCII(t *testing.T) {
	line := "hello world"
	if got := ByteOffset(line, 6); got != 6 {
		t.Fatalf("ByteOffset = %d", got)
	}
	if got := ByteOffset(line, 100); got != len(line) {
		t.Fatalf("past-end ByteOffset = %d", got)
	}
	if got := ByteOffset(line, -1); got != 0 {
		t.Fatalf("negative ByteOffset = %d", got)
	}
}

func TestByteOffsetCyrillic(t *testing.T) {
	line := "Дано шаг" // two-byte runes, one UTF-16 unit each
	if got := ByteOffset(line, 4); got != 8 {
		t.Fatalf("ByteOffset = %d, want 8", got)
	}
	if got := Character(line, 8); got != 4 {
		t.Fatalf("Character = %d, want 4", got)
	}
}

func TestSurrogatePairColumns(t *testing.T) {
	line := "a\U0001F600b" // the emoji is 4 bytes, 2 UTF-16 units
	if got := Character(line, 5); got != 3 {
		t.Fatalf("Character = %d, want 3", got)
	}
	if got := ByteOffset(line, 3); got != 5 {
		t.Fatalf("ByteOffset = %d, want 5", got)
	}
	// A column landing inside the pair stays before the rune.
	if got := ByteOffset(line, 2); got != 1 {
		t.Fatalf("mid-pair ByteOffset = %d, want 1", got)
	}
}

func TestLineRange(t *testing.T) {
	r := LineRange(3, "Дано x", 0, 9)
	if r.Start.Line != 3 || r.Start.Character != 0 {
		t.Fatalf("start = %+v", r.Start)
	}
	if r.End.Character != 5 {
		t.Fatalf("end = %+v", r.End)
	}
}

func TestTextDocumentLines(t *testing.T) {
	doc := NewTextDocument("one\r\ntwo\nthree")
	if doc.LineCount() != 3 {
		t.Fatalf("LineCount = %d", doc.LineCount())
	}
	if doc.Line(0) != "one" || doc.Line(1) != "two" || doc.Line(2) != "three" {
		t.Fatalf("lines = %q %q %q", doc.Line(0), doc.Line(1), doc.Line(2))
	}
	if doc.Line(-1) != "" || doc.Line(99) != "" {
		t.Fatalf("out-of-range lines must be empty")
	}
	if doc.Text() != "one\ntwo\nthree" {
		t.Fatalf("Text = %q", doc.Text())
	}
}
