package vocab

import (
	"sort"
	"strings"
)

// Step is one canonical phrase entry, keyed by its normalized body.
type Step struct {
	// Key is the normalized phrase key the step is registered under.
	Key string
	// Head holds the head pattern words, leading keyword included.
	Head []string
	// Phrase holds the head words with the leading keyword stripped.
	Phrase []string
	// Body holds the insert-text lines after the head line.
	Body []string

	Doc      string
	SortText string
	Section  string
	Kind     int

	// Derived presentation fields, recomputed when elements change.
	Label      string
	Keyword    string
	InsertText string
}

// SetSteps merges (or, with clear, replaces) the step list. A later entry
// with the same normalized key silently overwrites the earlier one.
func (s *Store) SetSteps(list []StepPayload, clear bool) {
	if clear {
		s.stepSource = nil
	}
	s.stepSource = append(s.stepSource, list...)
	s.recomputeSteps()
}

// recomputeSteps rebuilds the step table from the retained payloads. It runs
// after every step, keyword or element change since all three feed the
// derived fields and the key itself.
func (s *Store) recomputeSteps() {
	steps := make(map[string]*Step, len(s.stepSource))
	for i := range s.stepSource {
		st := s.buildStep(&s.stepSource[i])
		if st.Key == "" {
			continue
		}
		steps[st.Key] = st
	}
	s.steps = steps
}

func (s *Store) buildStep(p *StepPayload) *Step {
	lines := strings.Split(p.InsertText, "\n")
	head := Fields(lines[0])
	kw, _ := s.FindKeyword(head)
	phrase := head[len(kw):]
	st := &Step{
		Key:        NormalizeKey(phrase),
		Head:       head,
		Phrase:     phrase,
		Body:       lines[1:],
		Doc:        p.Documentation,
		SortText:   p.SortText,
		Section:    p.Section,
		Kind:       p.Kind,
		Keyword:    strings.Join(kw, " "),
		InsertText: p.InsertText,
	}
	st.Label = s.labelFor(phrase)
	return st
}

// labelFor renders the phrase with element substitutions applied to its
// placeholder tokens.
func (s *Store) labelFor(phrase []string) string {
	words := make([]string, len(phrase))
	for i, w := range phrase {
		words[i] = w
		content, ok := PlaceholderContent(w)
		if !ok {
			continue
		}
		if repl, found := s.elements[StripSigil(content)]; found {
			words[i] = string(w[0]) + repl + string(w[len(w)-1])
		}
	}
	return strings.Join(words, " ")
}

// Step looks a step up by normalized key.
func (s *Store) Step(key string) (*Step, bool) {
	st, ok := s.steps[key]
	return st, ok
}

// StepKeys returns every registered normalized key, sorted.
func (s *Store) StepKeys() []string {
	keys := make([]string, 0, len(s.steps))
	for k := range s.steps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Steps returns every registered step ordered by sort text, then label.
func (s *Store) Steps() []*Step {
	out := make([]*Step, 0, len(s.steps))
	for _, st := range s.steps {
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortText != out[j].SortText {
			return out[i].SortText < out[j].SortText
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// LineKey strips the leading keyword and trailing comment fragment from a
// raw step line and returns its normalized phrase key together with the
// matched keyword words.
func (s *Store) LineKey(line string) (string, []string) {
	words := SignificantWords(Fields(line))
	kw, ok := s.FindKeyword(words)
	if !ok {
		return NormalizeKey(words), nil
	}
	return NormalizeKey(words[len(kw):]), kw
}
