// Package grammar builds the lexical grammar driven by the current keyword
// and metatag vocabulary, and tokenizes single lines into scoped tokens for
// the host's highlighter.
package grammar

import (
	"regexp"
	"strings"
	"sync"

	"turbols/internal/vocab"
)

// Scope is the highlight category of one token.
type Scope uint8

const (
	ScopeNone Scope = iota
	ScopeKeyword
	ScopeMetatag
	ScopeComment
	ScopeSection
	ScopeString
	ScopeNumber
	ScopePlaceholder
	ScopeTable
	ScopeMultiline
)

func (s Scope) String() string {
	switch s {
	case ScopeKeyword:
		return "keyword"
	case ScopeMetatag:
		return "metatag"
	case ScopeComment:
		return "comment"
	case ScopeSection:
		return "section"
	case ScopeString:
		return "string"
	case ScopeNumber:
		return "number"
	case ScopePlaceholder:
		return "placeholder"
	case ScopeTable:
		return "table"
	case ScopeMultiline:
		return "multiline"
	}
	return "none"
}

// Token is one scoped span of a line, in byte columns.
type Token struct {
	Scope Scope
	Start uint32
	End   uint32
}

// State is the carried tokenizer state between consecutive lines.
type State struct {
	InMultiline bool
}

// InitialState returns the state to carry into the first line of a document.
func InitialState() State { return State{} }

// Grammar is one compiled lexical grammar. It is immutable after
// compilation; the Compiler swaps whole instances on vocabulary changes.
type Grammar struct {
	store      *vocab.Store
	generation uint64
	keywordRE  *regexp.Regexp
	metatagRE  *regexp.Regexp
}

var (
	numberRE = regexp.MustCompile(`^\d+(?:[.,]\d+)?`)
	quotedRE = regexp.MustCompile(`^"[^"]*"|^'[^']*'|^<[^<>\s]*>`)
)

func compile(store *vocab.Store) *Grammar {
	g := &Grammar{store: store, generation: store.Generation()}
	if kws := store.Keywords(); len(kws) > 0 {
		alts := make([]string, 0, len(kws))
		for _, kw := range kws {
			alts = append(alts, regexp.QuoteMeta(strings.Join(kw, " ")))
		}
		g.keywordRE = regexp.MustCompile(`(?i)^(?:` + strings.Join(alts, "|") + `)\b`)
	}
	if tags := store.Metatags(); len(tags) > 0 {
		alts := make([]string, 0, len(tags))
		for _, t := range tags {
			alts = append(alts, regexp.QuoteMeta(t))
		}
		g.metatagRE = regexp.MustCompile(`(?i)^@(?:` + strings.Join(alts, "|") + `)\b`)
	}
	return g
}

// Compiler caches the compiled grammar and rebuilds it whenever the store's
// grammar-relevant configuration generation moves.
type Compiler struct {
	mu     sync.Mutex
	cached *Grammar
}

func NewCompiler() *Compiler { return &Compiler{} }

// Grammar returns the compiled grammar for the store's current generation.
func (c *Compiler) Grammar(store *vocab.Store) *Grammar {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached == nil || c.cached.store != store || c.cached.generation != store.Generation() {
		c.cached = compile(store)
	}
	return c.cached
}
