// Package service owns the vocabulary store and exposes the engine's
// request/response operations to a host. All mutation goes through the
// setters under a single write lock; every read operation runs under the
// read lock so an in-flight scan never observes a half-applied vocabulary.
package service

import (
	"context"
	"fmt"
	"sync"

	"turbols/internal/complete"
	"turbols/internal/diag"
	"turbols/internal/grammar"
	"turbols/internal/hover"
	"turbols/internal/links"
	"turbols/internal/quickfix"
	"turbols/internal/scan"
	"turbols/internal/source"
	"turbols/internal/syntax"
	"turbols/internal/vocab"
)

// Service is one language-intelligence instance. Independent services hold
// independent vocabularies.
type Service struct {
	mu       sync.RWMutex
	store    *vocab.Store
	compiler *grammar.Compiler
}

func New() *Service {
	return &Service{
		store:    vocab.NewStore(),
		compiler: grammar.NewCompiler(),
	}
}

// SetKeywords replaces the keyword phrases from a JSON payload.
func (s *Service) SetKeywords(raw []byte) error {
	phrases, err := vocab.ParseKeywords(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetKeywords(phrases)
	return nil
}

// SetKeypairs replaces the keyword continuation sets from a JSON payload.
func (s *Service) SetKeypairs(raw []byte) error {
	pairs, err := vocab.ParseKeypairs(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetKeypairs(pairs)
	return nil
}

// SetMetatags replaces the metatag list from a JSON payload.
func (s *Service) SetMetatags(raw []byte) error {
	tags, err := vocab.ParseMetatags(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetMetatags(tags)
	return nil
}

// SetStepList merges or replaces the step list from a JSON payload.
func (s *Service) SetStepList(raw []byte, clear bool) error {
	steps, err := vocab.ParseSteps(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetSteps(steps, clear)
	return nil
}

// SetElements merges or replaces the element substitutions.
func (s *Service) SetElements(raw []byte, clear bool) error {
	values, err := vocab.ParseStringMap("elements", raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetElements(values, clear)
	return nil
}

// SetVariables merges or replaces the variable values.
func (s *Service) SetVariables(raw []byte, clear bool) error {
	values, err := vocab.ParseStringMap("variables", raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetVariables(values, clear)
	return nil
}

// SetMatchers compiles and installs the structural patterns.
func (s *Service) SetMatchers(raw []byte) error {
	m, err := vocab.ParseMatchers(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetMatcher(m)
	return nil
}

// SetImports replaces the registered imported files.
func (s *Service) SetImports(raw []byte) error {
	files, err := vocab.ParseImports(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetImports(files)
	return nil
}

// SetErrorLinks replaces the quick-fix command descriptors.
func (s *Service) SetErrorLinks(raw []byte) error {
	descr, err := vocab.ParseErrorLinks(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetErrorLinks(descr)
	return nil
}

// SetSyntaxMsg replaces the validator's diagnostic message.
func (s *Service) SetSyntaxMsg(raw []byte) error {
	msg, err := vocab.ParseSyntaxMessage(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetSyntaxMessage(msg)
	return nil
}

// Configure dispatches a configuration payload by category name.
func (s *Service) Configure(category string, raw []byte, clear bool) error {
	switch category {
	case "keywords":
		return s.SetKeywords(raw)
	case "keypairs":
		return s.SetKeypairs(raw)
	case "metatags":
		return s.SetMetatags(raw)
	case "steplist":
		return s.SetStepList(raw, clear)
	case "elements":
		return s.SetElements(raw, clear)
	case "variables":
		return s.SetVariables(raw, clear)
	case "matchers":
		return s.SetMatchers(raw)
	case "imports":
		return s.SetImports(raw)
	case "errorlinks":
		return s.SetErrorLinks(raw)
	case "syntaxmsg":
		return s.SetSyntaxMsg(raw)
	}
	return &vocab.ConfigError{Category: category, Err: fmt.Errorf("unknown category")}
}

// InitialState returns the tokenizer state carried into a document's first
// line.
func (s *Service) InitialState() grammar.State {
	return grammar.InitialState()
}

// Tokenize produces one line's scoped tokens plus the carried state.
func (s *Service) Tokenize(line string, st grammar.State) ([]grammar.Token, grammar.State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compiler.Grammar(s.store).Tokenize(line, st)
}

// FoldingRanges derives the document's collapsible line ranges.
func (s *Service) FoldingRanges(doc source.Document, tabWidth int) []scan.FoldRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scan.FoldingRanges(doc, tabWidth, s.store.Matcher())
}

// CheckSyntax validates every step line of the document.
func (s *Service) CheckSyntax(ctx context.Context, doc source.Document) ([]diag.Diagnostic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return syntax.Check(ctx, doc, s.store)
}

// Completions builds context suggestions for a cursor position.
func (s *Service) Completions(doc source.Document, pos source.Position) []complete.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return complete.Items(doc, pos, s.store)
}

// Hover renders documentation for the token under the cursor.
func (s *Service) Hover(doc source.Document, pos source.Position) *hover.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return hover.Hover(doc, pos, s.store)
}

// CodeActions proposes quick fixes for the supplied diagnostics, or nothing
// when none of them carries error severity.
func (s *Service) CodeActions(doc source.Document, diags []diag.Diagnostic) []quickfix.Action {
	if !diag.HasErrors(diags) {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return quickfix.Actions(doc, diags, s.store)
}

// Links resolves the document's data model and emits navigable links.
func (s *Service) Links(ctx context.Context, doc source.Document) ([]links.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return links.Scan(ctx, doc, s.store)
}

// LinkData resolves one dotted key against the document's data model.
func (s *Service) LinkData(ctx context.Context, doc source.Document, key string) (links.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	model, err := links.Build(ctx, doc, s.store)
	if err != nil {
		return links.Record{}, false, err
	}
	rec, _, ok := model.Lookup(key)
	return rec, ok, nil
}

// Snapshot serializes the whole vocabulary.
func (s *Service) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.EncodeSnapshot()
}

// Restore replaces the whole vocabulary from a snapshot blob.
func (s *Service) Restore(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RestoreSnapshot(data)
}

// ApplyFileConfig installs vocabulary loaded from a project file.
func (s *Service) ApplyFileConfig(cfg FileConfig) error {
	m, err := cfg.matcher()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if m != nil {
		s.store.SetMatcher(m)
	}
	if cfg.Keywords != nil {
		s.store.SetKeywords(cfg.Keywords)
	}
	if cfg.Keypairs != nil {
		s.store.SetKeypairs(cfg.Keypairs)
	}
	if cfg.Metatags != nil {
		s.store.SetMetatags(cfg.Metatags)
	}
	if cfg.SyntaxMessage != "" {
		s.store.SetSyntaxMessage(cfg.SyntaxMessage)
	}
	return nil
}
