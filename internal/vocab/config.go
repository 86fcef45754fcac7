package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ConfigError reports a configuration payload that failed to load.
// The failed category keeps its previously loaded state.
type ConfigError struct {
	Category string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configure %s: %v", e.Category, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErr(category string, err error) error {
	return &ConfigError{Category: category, Err: err}
}

// StepPayload is one entry of a step-list payload. The first line of
// InsertText is the head pattern; remaining lines form the step body.
type StepPayload struct {
	InsertText    string `json:"insertText"`
	Documentation string `json:"documentation"`
	SortText      string `json:"sortText"`
	Section       string `json:"section"`
	Kind          int    `json:"kind"`
}

// ErrorLink describes one quick-fix command action attached to syntax errors.
type ErrorLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ImportedFile is a registered external data file whose items can be pulled
// into a document's variables block by an import directive.
type ImportedFile struct {
	Name  string       `json:"name"`
	Path  string       `json:"path"`
	Items []ImportItem `json:"items"`
}

// ImportItem contributes either a scalar value, a multi-line text value,
// or a data table.
type ImportItem struct {
	Name  string       `json:"name"`
	Value string       `json:"-"`
	Lines []string     `json:"lines,omitempty"`
	Table *ImportTable `json:"table,omitempty"`
}

// ImportTable is a column-ordered data table from an imported file.
type ImportTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Variable is a named substitution value referenced by placeholder tokens.
type Variable struct {
	Name  string
	Value string
}

// ParseKeywords decodes a list of space-delimited keyword phrases.
func ParseKeywords(raw []byte) ([]string, error) {
	var phrases []string
	if err := json.Unmarshal(raw, &phrases); err != nil {
		return nil, configErr("keywords", err)
	}
	return phrases, nil
}

// ParseKeypairs decodes a phrase -> terminal words map.
func ParseKeypairs(raw []byte) (map[string][]string, error) {
	var pairs map[string][]string
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, configErr("keypairs", err)
	}
	return pairs, nil
}

// ParseMetatags decodes a plain list of metatag names.
func ParseMetatags(raw []byte) ([]string, error) {
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, configErr("metatags", err)
	}
	return tags, nil
}

// ParseSteps decodes a step-list payload.
func ParseSteps(raw []byte) ([]StepPayload, error) {
	var steps []StepPayload
	if err := json.Unmarshal(raw, &steps); err != nil {
		return nil, configErr("steplist", err)
	}
	return steps, nil
}

// ParseStringMap decodes a name -> value map, stringifying scalar values.
// Numbers keep their literal form ("1" stays "1", not "1.000000").
func ParseStringMap(category string, raw []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, configErr(category, err)
	}
	out := make(map[string]string, len(values))
	for name, v := range values {
		out[name] = stringifyValue(v)
	}
	return out, nil
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(val)
	}
}

// ParseErrorLinks decodes quick-fix command descriptors.
func ParseErrorLinks(raw []byte) ([]ErrorLink, error) {
	var links []ErrorLink
	if err := json.Unmarshal(raw, &links); err != nil {
		return nil, configErr("errorlinks", err)
	}
	return links, nil
}

// ParseSyntaxMessage decodes the validator's error message string.
func ParseSyntaxMessage(raw []byte) (string, error) {
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", configErr("syntaxmsg", err)
	}
	return msg, nil
}

type importItemPayload struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value,omitempty"`
	Lines []string        `json:"lines,omitempty"`
	Table *ImportTable    `json:"table,omitempty"`
}

type importFilePayload struct {
	Name  string              `json:"name"`
	Path  string              `json:"path"`
	Items []importItemPayload `json:"items"`
}

// ParseImports decodes registered imported files. Scalar item values are
// stringified the same way variable values are.
func ParseImports(raw []byte) ([]ImportedFile, error) {
	var payload []importFilePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, configErr("imports", err)
	}
	files := make([]ImportedFile, 0, len(payload))
	for _, fp := range payload {
		file := ImportedFile{Name: fp.Name, Path: fp.Path}
		for _, ip := range fp.Items {
			item := ImportItem{Name: ip.Name, Lines: ip.Lines, Table: ip.Table}
			if len(ip.Value) > 0 {
				dec := json.NewDecoder(bytes.NewReader(ip.Value))
				dec.UseNumber()
				var v any
				if err := dec.Decode(&v); err != nil {
					return nil, configErr("imports", fmt.Errorf("item %q: %w", ip.Name, err))
				}
				item.Value = stringifyValue(v)
			}
			file.Items = append(file.Items, item)
		}
		files = append(files, file)
	}
	return files, nil
}
