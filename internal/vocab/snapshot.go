package vocab

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshot is the serialized form of a Store, enough to rebuild every
// dictionary and recompile the matcher on restore.
type snapshot struct {
	Keywords   []string            `msgpack:"keywords"`
	Keypairs   map[string][]string `msgpack:"keypairs"`
	Metatags   []string            `msgpack:"metatags"`
	Steps      []StepPayload       `msgpack:"steps"`
	Elements   map[string]string   `msgpack:"elements"`
	Variables  map[string]string   `msgpack:"variables"`
	Imports    []ImportedFile      `msgpack:"imports"`
	ErrorLinks []ErrorLink         `msgpack:"error_links"`
	SyntaxMsg  string              `msgpack:"syntax_msg"`
	Matcher    MatcherPayload      `msgpack:"matcher"`
}

// EncodeSnapshot serializes the whole store so a host can restore its
// vocabulary without replaying every configuration call.
func (s *Store) EncodeSnapshot() ([]byte, error) {
	snap := snapshot{
		Keypairs:   make(map[string][]string, len(s.keypairs)),
		Metatags:   s.metatags,
		Steps:      s.stepSource,
		Elements:   s.elements,
		Variables:  make(map[string]string, len(s.variables)),
		Imports:    make([]ImportedFile, 0, len(s.imports)),
		ErrorLinks: s.errorLinks,
		SyntaxMsg:  s.syntaxMsg,
		Matcher:    s.matcher.Payload(),
	}
	for _, kw := range s.keywords {
		snap.Keywords = append(snap.Keywords, KeywordKey(kw))
	}
	for phrase, set := range s.keypairs {
		words := make([]string, 0, len(set))
		for w := range set {
			words = append(words, w)
		}
		snap.Keypairs[phrase] = words
	}
	for name, v := range s.variables {
		snap.Variables[name] = v.Value
	}
	for _, f := range s.imports {
		snap.Imports = append(snap.Imports, f)
	}
	return msgpack.Marshal(&snap)
}

// RestoreSnapshot replaces the whole store content from a snapshot blob.
// A decode or matcher-compile failure leaves the store untouched.
func (s *Store) RestoreSnapshot(data []byte) error {
	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return configErr("snapshot", fmt.Errorf("decode: %w", err))
	}
	matcher, err := CompileMatcher(snap.Matcher)
	if err != nil {
		return err
	}
	s.SetMatcher(matcher)
	s.SetKeywords(snap.Keywords)
	s.SetKeypairs(snap.Keypairs)
	s.SetMetatags(snap.Metatags)
	s.SetElements(snap.Elements, true)
	s.SetVariables(snap.Variables, true)
	s.SetImports(snap.Imports)
	s.SetErrorLinks(snap.ErrorLinks)
	s.SetSyntaxMessage(snap.SyntaxMsg)
	s.stepSource = nil
	s.SetSteps(snap.Steps, true)
	return nil
}
