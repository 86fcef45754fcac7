package vocab

import (
	"path"
	"sort"
	"strings"
)

// Store is the mutable runtime vocabulary one language service works
// against. It performs no locking itself; the owning service serializes
// writers and snapshots readers (see service.Service).
type Store struct {
	keywords   [][]string
	keypairs   map[string]map[string]bool
	metatags   []string
	steps      map[string]*Step
	stepSource []StepPayload
	elements   map[string]string
	variables  map[string]Variable
	imports    map[string]ImportedFile
	errorLinks []ErrorLink
	syntaxMsg  string
	matcher    *Matcher

	// generation bumps whenever keyword, metatag or matcher configuration
	// changes; the grammar compiler keys its cache on it.
	generation uint64
}

// defaultMetatags seed the instruction vocabulary before the host pushes one.
var defaultMetatags = []string{"ignore", "skip", "draft", "manual"}

const defaultSyntaxMessage = "Unknown step"

// NewStore returns an empty store carrying the built-in defaults.
func NewStore() *Store {
	return &Store{
		keypairs:  make(map[string]map[string]bool),
		metatags:  append([]string(nil), defaultMetatags...),
		steps:     make(map[string]*Step),
		elements:  make(map[string]string),
		variables: make(map[string]Variable),
		imports:   make(map[string]ImportedFile),
		syntaxMsg: defaultSyntaxMessage,
		matcher:   DefaultMatcher(),
	}
}

// Generation identifies the current grammar-relevant configuration state.
func (s *Store) Generation() uint64 { return s.generation }

// SetKeywords replaces the keyword phrases. Each phrase is split on spaces;
// the list is kept sorted by descending word count so the longest prefix
// always wins a FindKeyword scan.
func (s *Store) SetKeywords(phrases []string) {
	kws := make([][]string, 0, len(phrases))
	for _, p := range phrases {
		words := Fields(p)
		if len(words) == 0 {
			continue
		}
		kws = append(kws, words)
	}
	sort.SliceStable(kws, func(i, j int) bool {
		return len(kws[i]) > len(kws[j])
	})
	s.keywords = kws
	s.generation++
	s.recomputeSteps()
}

// Keywords returns the registered keyword phrases, longest first.
func (s *Store) Keywords() [][]string { return s.keywords }

// FindKeyword returns the longest registered keyword whose words match the
// given tokens case-insensitively from position 0.
func (s *Store) FindKeyword(tokens []string) ([]string, bool) {
	if len(tokens) == 0 {
		return nil, false
	}
	for _, kw := range s.keywords {
		if len(kw) > len(tokens) {
			continue
		}
		match := true
		for i, w := range kw {
			if !strings.EqualFold(w, tokens[i]) {
				match = false
				break
			}
		}
		if match {
			return kw, true
		}
	}
	return nil, false
}

// KeywordKey joins keyword words into the lower-cased keypair lookup key.
func KeywordKey(words []string) string {
	return strings.ToLower(strings.Join(words, " "))
}

// SetKeypairs replaces the keyword continuation sets.
func (s *Store) SetKeypairs(pairs map[string][]string) {
	kp := make(map[string]map[string]bool, len(pairs))
	for phrase, words := range pairs {
		set := make(map[string]bool, len(words))
		for _, w := range words {
			set[strings.ToLower(w)] = true
		}
		kp[strings.ToLower(phrase)] = set
	}
	s.keypairs = kp
}

// Keypair returns the continuation word set registered for a keyword key.
func (s *Store) Keypair(key string) (map[string]bool, bool) {
	set, ok := s.keypairs[strings.ToLower(key)]
	return set, ok
}

// SetMetatags replaces the metatag list.
func (s *Store) SetMetatags(tags []string) {
	s.metatags = append([]string(nil), tags...)
	s.generation++
}

// Metatags returns the current metatag list.
func (s *Store) Metatags() []string { return s.metatags }

// SetMatcher replaces the compiled structural patterns.
func (s *Store) SetMatcher(m *Matcher) {
	s.matcher = m
	s.generation++
}

// Matcher returns the compiled structural patterns.
func (s *Store) Matcher() *Matcher { return s.matcher }

// SetElements merges (or, with clear, replaces) the placeholder display
// substitutions, then recomputes every step's derived fields.
func (s *Store) SetElements(elements map[string]string, clear bool) {
	if clear {
		s.elements = make(map[string]string, len(elements))
	}
	for name, value := range elements {
		s.elements[name] = value
	}
	s.recomputeSteps()
}

// Element returns the display substitution for a placeholder name.
func (s *Store) Element(name string) (string, bool) {
	v, ok := s.elements[name]
	return v, ok
}

// SetVariables merges (or replaces) the variable values.
func (s *Store) SetVariables(values map[string]string, clear bool) {
	if clear {
		s.variables = make(map[string]Variable, len(values))
	}
	for name, value := range values {
		s.variables[name] = Variable{Name: name, Value: value}
	}
}

// Variable looks a variable up by placeholder content, stripping an optional
// doubled sigil first.
func (s *Store) Variable(name string) (Variable, bool) {
	v, ok := s.variables[StripSigil(name)]
	return v, ok
}

// Variables returns the registered variables sorted by name.
func (s *Store) Variables() []Variable {
	out := make([]Variable, 0, len(s.variables))
	for _, v := range s.variables {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetImports replaces the registered imported files.
func (s *Store) SetImports(files []ImportedFile) {
	s.imports = make(map[string]ImportedFile, len(files))
	for _, f := range files {
		s.imports[f.Name] = f
	}
}

// ImportedFile resolves a quoted import reference against the registered
// files, by name first, then by path basename.
func (s *Store) ImportedFile(ref string) (ImportedFile, bool) {
	if f, ok := s.imports[ref]; ok {
		return f, true
	}
	for _, f := range s.imports {
		if f.Path == ref || path.Base(f.Path) == ref {
			return f, true
		}
	}
	return ImportedFile{}, false
}

// SetErrorLinks replaces the quick-fix command descriptors.
func (s *Store) SetErrorLinks(links []ErrorLink) {
	s.errorLinks = append([]ErrorLink(nil), links...)
}

// ErrorLinks returns the quick-fix command descriptors.
func (s *Store) ErrorLinks() []ErrorLink { return s.errorLinks }

// SetSyntaxMessage replaces the validator's diagnostic message.
func (s *Store) SetSyntaxMessage(msg string) { s.syntaxMsg = msg }

// SyntaxMessage returns the validator's diagnostic message.
func (s *Store) SyntaxMessage() string { return s.syntaxMsg }
