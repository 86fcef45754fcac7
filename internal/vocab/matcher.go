package vocab

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// MatcherPayload is the structural-pattern configuration pushed by the host.
// Section values are regular expressions, one per named section; Step and
// Import are single patterns. Import must capture the quoted file reference
// in its first group. NoCheck lists section names whose bodies the syntax
// validator skips.
type MatcherPayload struct {
	Section map[string]string `json:"section"`
	Step    string            `json:"step"`
	Import  string            `json:"import"`
	NoCheck []string          `json:"nocheck"`
}

// Matcher holds the compiled structural patterns: one per declared section
// name, a catch-all over every section, the step-line shape, and the
// import-directive shape.
type Matcher struct {
	payload    MatcherPayload
	sections   map[string]*regexp.Regexp
	order      []string
	anySection *regexp.Regexp
	step       *regexp.Regexp
	importLine *regexp.Regexp
	noCheck    map[string]bool
}

// DefaultPayload is the matcher configuration active before the host pushes
// one: bilingual English/Russian section headers, word-leading step lines,
// and a quoted import directive.
func DefaultPayload() MatcherPayload {
	return MatcherPayload{
		Section: map[string]string{
			"feature":    `(?i)^\s*(?:feature|функционал|функциональность)\s*:`,
			"scenario":   `(?i)^\s*(?:scenario|scenario outline|сценарий|структура сценария)\s*:`,
			"background": `(?i)^\s*(?:background|контекст)\s*:`,
			"variables":  `(?i)^\s*(?:variables|переменные)\s*:`,
			"examples":   `(?i)^\s*(?:examples|примеры)\s*:`,
		},
		Step:    `^\s*[\p{L}$]`,
		Import:  `(?i)^\s*(?:import|использовать)\s+"([^"]+)"`,
		NoCheck: []string{"feature"},
	}
}

// CompileMatcher builds a Matcher from a payload. Any pattern that fails to
// compile fails the whole call with a ConfigError naming the pattern.
func CompileMatcher(p MatcherPayload) (*Matcher, error) {
	m := &Matcher{
		payload:  p,
		sections: make(map[string]*regexp.Regexp, len(p.Section)),
		noCheck:  make(map[string]bool, len(p.NoCheck)),
	}
	names := make([]string, 0, len(p.Section))
	for name := range p.Section {
		names = append(names, name)
	}
	sort.Strings(names)
	var alts []string
	for _, name := range names {
		re, err := regexp.Compile(p.Section[name])
		if err != nil {
			return nil, configErr("matchers", fmt.Errorf("section pattern %q: %w", name, err))
		}
		m.sections[name] = re
		m.order = append(m.order, name)
		alts = append(alts, "(?:"+p.Section[name]+")")
	}
	if len(alts) > 0 {
		any, err := regexp.Compile(strings.Join(alts, "|"))
		if err != nil {
			return nil, configErr("matchers", fmt.Errorf("section patterns: %w", err))
		}
		m.anySection = any
	}
	step, err := regexp.Compile(p.Step)
	if err != nil {
		return nil, configErr("matchers", fmt.Errorf("step pattern: %w", err))
	}
	m.step = step
	imp, err := regexp.Compile(p.Import)
	if err != nil {
		return nil, configErr("matchers", fmt.Errorf("import pattern: %w", err))
	}
	if imp.NumSubexp() < 1 {
		return nil, configErr("matchers", fmt.Errorf("import pattern: missing capture group for the file reference"))
	}
	m.importLine = imp
	for _, name := range p.NoCheck {
		m.noCheck[strings.ToLower(name)] = true
	}
	return m, nil
}

// ParseMatchers decodes and compiles a matcher configuration payload.
func ParseMatchers(raw []byte) (*Matcher, error) {
	var p MatcherPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, configErr("matchers", err)
	}
	if p.Step == "" {
		p.Step = DefaultPayload().Step
	}
	if p.Import == "" {
		p.Import = DefaultPayload().Import
	}
	if p.NoCheck == nil {
		p.NoCheck = DefaultPayload().NoCheck
	}
	return CompileMatcher(p)
}

// DefaultMatcher compiles the built-in payload. The defaults are static and
// must always compile.
func DefaultMatcher() *Matcher {
	m, err := CompileMatcher(DefaultPayload())
	if err != nil {
		panic(err)
	}
	return m
}

// Payload returns the configuration this matcher was compiled from.
func (m *Matcher) Payload() MatcherPayload { return m.payload }

// Section returns the name of the first declared section pattern matching
// the line, in sorted name order.
func (m *Matcher) Section(line string) (string, bool) {
	for _, name := range m.order {
		if m.sections[name].MatchString(line) {
			return name, true
		}
	}
	return "", false
}

// IsSection matches the line against the catch-all section pattern.
func (m *Matcher) IsSection(line string) bool {
	return m.anySection != nil && m.anySection.MatchString(line)
}

// SectionPattern returns the compiled pattern for a named section.
func (m *Matcher) SectionPattern(name string) (*regexp.Regexp, bool) {
	re, ok := m.sections[name]
	return re, ok
}

// IsStep matches the line against the step-line shape.
func (m *Matcher) IsStep(line string) bool {
	return m.step.MatchString(line)
}

// ImportPath extracts the quoted file reference of an import directive.
func (m *Matcher) ImportPath(line string) (string, bool) {
	groups := m.importLine.FindStringSubmatch(line)
	if groups == nil {
		return "", false
	}
	return groups[1], true
}

// SuppressChecks reports whether the named section's body is excluded from
// syntax validation.
func (m *Matcher) SuppressChecks(section string) bool {
	return m.noCheck[strings.ToLower(section)]
}
