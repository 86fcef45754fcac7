package source

import "unicode/utf8"

// Position addresses a point in a document. Character counts UTF-16 code
// units from the start of the line, matching what editor hosts send.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open [Start, End) span inside a document.
type Range struct {
	Start Position
	End   Position
}

// ByteOffset converts a UTF-16 character column on line into a byte offset.
// Columns past the end of the line clamp to len(line).
func ByteOffset(line string, character int) int {
	if character <= 0 {
		return 0
	}
	units := 0
	i := 0
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > character {
			return i
		}
		units += need
		i += size
		if units == character {
			return i
		}
	}
	return len(line)
}

// Character converts a byte offset inside line into a UTF-16 character column.
func Character(line string, offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset > len(line) {
		offset = len(line)
	}
	units := 0
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(line[i:])
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		i += size
	}
	return units
}

// LineRange spans the [startByte, endByte) slice of the given line.
func LineRange(lineNo int, line string, startByte, endByte int) Range {
	return Range{
		Start: Position{Line: lineNo, Character: Character(line, startByte)},
		End:   Position{Line: lineNo, Character: Character(line, endByte)},
	}
}
