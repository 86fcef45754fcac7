package vocab

import (
	"strings"
	"unicode"
)

// Fields splits a line into whitespace-separated words.
func Fields(line string) []string {
	return strings.Fields(line)
}

// IsCommentToken reports whether a word starts a trailing comment fragment.
func IsCommentToken(w string) bool {
	return strings.HasPrefix(w, "#") || strings.HasPrefix(w, "//")
}

// IsAlphaWord reports whether every rune of w is a letter.
func IsAlphaWord(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// NormalizeKey folds a word sequence into the canonical step lookup key:
// purely alphabetic words, lower-cased, joined by single spaces. Quoted
// parameters, numbers and placeholders drop out of the key.
func NormalizeKey(words []string) string {
	var b strings.Builder
	for _, w := range words {
		if !IsAlphaWord(w) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.ToLower(w))
	}
	return b.String()
}

// SignificantWords truncates the word stream at the first comment token.
func SignificantWords(words []string) []string {
	for i, w := range words {
		if IsCommentToken(w) {
			return words[:i]
		}
	}
	return words
}

// IsPlaceholder reports whether a token is a quoted or angle-bracketed
// parameter reference.
func IsPlaceholder(w string) bool {
	_, ok := PlaceholderContent(w)
	return ok
}

// PlaceholderContent returns the interior of a quoted or angle-bracketed
// token, without the delimiters.
func PlaceholderContent(w string) (string, bool) {
	if len(w) < 2 {
		return "", false
	}
	open := w[0]
	last := w[len(w)-1]
	switch {
	case (open == '"' && last == '"') || (open == '\'' && last == '\''):
		return w[1 : len(w)-1], true
	case open == '<' && last == '>':
		return w[1 : len(w)-1], true
	}
	return "", false
}

// StripSigil removes a doubled '$' wrapper from a placeholder interior.
// "$Name$" becomes "Name"; anything else passes through unchanged.
func StripSigil(s string) string {
	if len(s) >= 2 && s[0] == '$' && s[len(s)-1] == '$' {
		return s[1 : len(s)-1]
	}
	return s
}

// HasSigil reports whether the placeholder interior carries a '$' wrapper.
func HasSigil(s string) bool {
	return len(s) >= 2 && s[0] == '$' && s[len(s)-1] == '$'
}
