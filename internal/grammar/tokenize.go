package grammar

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"turbols/internal/scan"
	"turbols/internal/vocab"
)

// Tokenize produces the scoped tokens of one line and the state to carry
// into the next. Offsets are byte columns into the unmodified line; keypair
// masking preserves byte length, so masked scans stay column-accurate.
func (g *Grammar) Tokenize(line string, st State) ([]Token, State) {
	if st.InMultiline {
		if scan.IsMultilineDelim(line) {
			st.InMultiline = false
		}
		return trimmedToken(line, ScopeMultiline), st
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, st
	}
	start := leadingWhitespace(line)
	switch {
	case scan.IsMultilineDelim(line):
		st.InMultiline = true
		return trimmedToken(line, ScopeMultiline), st
	case trimmed[0] == '#' || strings.HasPrefix(trimmed, "//"):
		return trimmedToken(line, ScopeComment), st
	case trimmed[0] == '@':
		return g.tokenizeInstruction(line, start), st
	case trimmed[0] == '|':
		return g.tokenizeTableRow(line, start), st
	}
	if g.store.Matcher().IsSection(line) {
		return sectionToken(line, start), st
	}
	return g.tokenizeStep(line, start), st
}

func leadingWhitespace(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return len(line)
}

func trimmedToken(line string, scope Scope) []Token {
	start := leadingWhitespace(line)
	end := len(strings.TrimRight(line, " \t"))
	if start >= end {
		return nil
	}
	return []Token{makeToken(scope, start, end)}
}

func (g *Grammar) tokenizeInstruction(line string, start int) []Token {
	if g.metatagRE != nil {
		if loc := g.metatagRE.FindStringIndex(line[start:]); loc != nil {
			return []Token{makeToken(ScopeMetatag, start+loc[0], start+loc[1])}
		}
	}
	return trimmedToken(line, ScopeNone)
}

// tokenizeTableRow scopes the pipe delimiters and scans each cell.
func (g *Grammar) tokenizeTableRow(line string, start int) []Token {
	tokens := make([]Token, 0, 8)
	cellStart := -1
	flush := func(end int) {
		if cellStart >= 0 {
			tokens = append(tokens, scanText(line, cellStart, end)...)
			cellStart = -1
		}
	}
	for i := start; i < len(line); i++ {
		if line[i] == '|' {
			flush(i)
			tokens = append(tokens, makeToken(ScopeTable, i, i+1))
			continue
		}
		if cellStart < 0 {
			cellStart = i
		}
	}
	flush(len(line))
	return tokens
}

func sectionToken(line string, start int) []Token {
	if idx := strings.IndexByte(line, ':'); idx >= 0 {
		return []Token{makeToken(ScopeSection, start, idx+1)}
	}
	return trimmedToken(line, ScopeSection)
}

// tokenizeStep scopes an operator line: the leading keyword phrase, then
// quoted parameters, placeholders and numbers in the remainder.
func (g *Grammar) tokenizeStep(line string, start int) []Token {
	masked := g.maskKeypair(line)
	tokens := make([]Token, 0, 8)
	rest := start
	if g.keywordRE != nil {
		if loc := g.keywordRE.FindStringIndex(masked[start:]); loc != nil {
			tokens = append(tokens, makeToken(ScopeKeyword, start+loc[0], start+loc[1]))
			rest = start + loc[1]
		}
	}
	tokens = append(tokens, scanText(masked, rest, len(masked))...)
	return tokens
}

// scanText finds quoted strings, placeholders, numbers and trailing comments
// inside line[start:end].
func scanText(line string, start, end int) []Token {
	tokens := make([]Token, 0, 4)
	i := start
	for i < end {
		c := line[i]
		if c == '#' || (c == '/' && i+1 < end && line[i+1] == '/') {
			tokens = append(tokens, makeToken(ScopeComment, i, end))
			break
		}
		if c == '"' || c == '\'' || c == '<' {
			if loc := quotedRE.FindStringIndex(line[i:end]); loc != nil {
				scope := ScopeString
				if content, ok := vocab.PlaceholderContent(line[i : i+loc[1]]); ok {
					if c == '<' || vocab.HasSigil(content) {
						scope = ScopePlaceholder
					}
				}
				tokens = append(tokens, makeToken(scope, i, i+loc[1]))
				i += loc[1]
				continue
			}
		}
		if c >= '0' && c <= '9' && !wordCharBefore(line, i) {
			if loc := numberRE.FindStringIndex(line[i:end]); loc != nil {
				tokens = append(tokens, makeToken(ScopeNumber, i, i+loc[1]))
				i += loc[1]
				continue
			}
		}
		i++
	}
	return tokens
}

func wordCharBefore(line string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(line[:i])
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// maskKeypair replaces a trailing keypair continuation word with filler
// characters of the same byte length, so the static grammar needs no special
// case for continuations while keeping every column intact.
func (g *Grammar) maskKeypair(line string) string {
	words := vocab.Fields(line)
	kw, ok := g.store.FindKeyword(words)
	if !ok || len(words) <= len(kw) {
		return line
	}
	set, ok := g.store.Keypair(vocab.KeywordKey(kw))
	if !ok {
		return line
	}
	last := words[len(words)-1]
	if !set[strings.ToLower(last)] {
		return line
	}
	trimmed := strings.TrimRight(line, " \t")
	wordStart := len(trimmed) - len(last)
	if wordStart < 0 || trimmed[wordStart:] != last {
		return line
	}
	return line[:wordStart] + strings.Repeat("_", len(last)) + line[wordStart+len(last):]
}
