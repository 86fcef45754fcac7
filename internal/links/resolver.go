// Package links parses a document's variables/data section plus import
// directives into a lookup table and emits navigable links for quoted
// tokens. The table is rebuilt from scratch on every request.
package links

import (
	"context"
	"regexp"
	"strings"

	"turbols/internal/scan"
	"turbols/internal/source"
	"turbols/internal/vocab"
)

// Record is one resolved data row.
type Record struct {
	Key  string
	Name string
	File string
	Data map[string]string
}

// Link is a navigable reference emitted for a quoted token.
type Link struct {
	Range   source.Range
	Tooltip string
	URL     string
}

// Model is the name-spaced record store built from one document. The
// default table is keyed by the empty string. Boundary is the line number
// of the section terminating the variables block (or the line count when
// the block runs to the end).
type Model struct {
	Tables   map[string]map[string]Record
	Boundary int
}

var (
	tableMarkerRE = regexp.MustCompile(`^\s*\*\s+(\S.*?)\s*$`)
	assignmentRE  = regexp.MustCompile(`^\s*([\p{L}_][\p{L}\p{N}_]*)\s*=\s*(.*?)\s*$`)
	dottedIdentRE = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*(?:\.[\p{L}\p{N}_]+)*$`)
	quotedTokenRE = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)
	externalRefRE = regexp.MustCompile(`^e1cib/\S+$`)
)

// Build scans the document's variables block into a fresh Model. The
// context is checked once per line.
func Build(ctx context.Context, doc source.Document, store *vocab.Store) (*Model, error) {
	model := &Model{
		Tables:   map[string]map[string]Record{"": {}},
		Boundary: doc.LineCount(),
	}
	m := store.Matcher()
	varPattern, ok := m.SectionPattern("variables")
	if !ok {
		return model, nil
	}
	n := doc.LineCount()
	begin := -1
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if varPattern.MatchString(doc.Line(i)) {
			begin = i + 1
			break
		}
	}
	if begin < 0 {
		return model, nil
	}

	b := blockBuilder{model: model, store: store}
	cls := scan.NewClassifier(m)
	for i := begin; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := doc.Line(i)
		kind := cls.Classify(line)
		if kind == scan.KindSection {
			model.Boundary = i
			break
		}
		b.feed(line, kind)
	}
	return model, nil
}

// blockBuilder interprets the lines of one variables block.
type blockBuilder struct {
	model   *Model
	store   *vocab.Store
	table   string
	headers map[string][]string
	// assignKey names the default-table record a multiline-string
	// continuation appends to; empty when no assignment is open.
	assignKey string
}

func (b *blockBuilder) feed(line string, kind scan.LineKind) {
	if kind == scan.KindMultiline {
		b.continueAssignment(line)
		return
	}
	switch kind {
	case scan.KindComment, scan.KindInstruction:
		// Transparent; the table context survives.
		return
	case scan.KindParameter:
		b.tableRow(line)
		return
	}
	if groups := tableMarkerRE.FindStringSubmatch(line); groups != nil {
		b.table = groups[1]
		b.assignKey = ""
		return
	}
	if path, ok := b.store.Matcher().ImportPath(line); ok {
		b.mergeImport(path)
		b.table = ""
		b.assignKey = ""
		return
	}
	if groups := assignmentRE.FindStringSubmatch(line); groups != nil {
		b.assignment(groups[1], groups[2])
		return
	}
	b.table = ""
	b.assignKey = ""
}

func (b *blockBuilder) ensureTable(name string) map[string]Record {
	t, ok := b.model.Tables[name]
	if !ok {
		t = make(map[string]Record)
		b.model.Tables[name] = t
	}
	return t
}

// tableRow splits a `| c1 | c2 |` line into cells. The first row under a
// table context defines the column headers; later rows become records keyed
// by their first cell.
func (b *blockBuilder) tableRow(line string) {
	b.assignKey = ""
	cells := splitCells(line)
	if len(cells) == 0 {
		return
	}
	if b.headers == nil {
		b.headers = make(map[string][]string)
	}
	headers, ok := b.headers[b.table]
	if !ok {
		b.headers[b.table] = cells
		return
	}
	rec := Record{Key: cells[0], Name: cells[0], Data: make(map[string]string, len(headers))}
	if len(cells) > 1 {
		rec.Name = cells[1]
	}
	for i, h := range headers {
		if i < len(cells) {
			rec.Data[h] = cells[i]
		}
	}
	b.ensureTable(b.table)[rec.Key] = rec
}

func splitCells(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

// assignment records a bare `name = value` pair in the default table and
// resets the active table context.
func (b *blockBuilder) assignment(name, value string) {
	b.table = ""
	b.ensureTable("")[name] = Record{Key: name, Name: unquote(value), Data: map[string]string{}}
	b.assignKey = name
}

// continueAssignment appends multiline-string content to the last
// assignment's value.
func (b *blockBuilder) continueAssignment(line string) {
	if b.assignKey == "" || scan.IsMultilineDelim(line) {
		return
	}
	table := b.ensureTable("")
	rec := table[b.assignKey]
	if rec.Name == "" {
		rec.Name = strings.TrimSpace(line)
	} else {
		rec.Name += "\n" + strings.TrimSpace(line)
	}
	table[b.assignKey] = rec
}

// mergeImport flattens a registered file's default entries into the default
// table and copies its named tables wholesale.
func (b *blockBuilder) mergeImport(ref string) {
	file, ok := b.store.ImportedFile(ref)
	if !ok {
		return
	}
	defaults := b.ensureTable("")
	for _, item := range file.Items {
		switch {
		case item.Table != nil:
			t := make(map[string]Record, len(item.Table.Rows))
			for _, row := range item.Table.Rows {
				if len(row) == 0 {
					continue
				}
				rec := Record{Key: row[0], Name: row[0], File: file.Name, Data: make(map[string]string)}
				if len(row) > 1 {
					rec.Name = row[1]
				}
				for i, col := range item.Table.Columns {
					if i < len(row) {
						rec.Data[col] = row[i]
					}
				}
				t[rec.Key] = rec
			}
			b.model.Tables[item.Name] = t
		case len(item.Lines) > 0:
			defaults[item.Name] = Record{
				Key:  item.Name,
				Name: strings.Join(item.Lines, "\n"),
				File: file.Name,
				Data: map[string]string{},
			}
		default:
			defaults[item.Name] = Record{
				Key:  item.Name,
				Name: item.Value,
				File: file.Name,
				Data: map[string]string{},
			}
		}
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

// Lookup resolves a dotted path `table.row[.column]`. A bare row that fails
// under its own name is retried against the default table. The second
// return value is the resolved column value, or the record name when no
// column was addressed.
func (m *Model) Lookup(path string) (Record, string, bool) {
	parts := strings.Split(path, ".")
	if len(parts) >= 2 {
		if table, ok := m.Tables[parts[0]]; ok {
			if rec, found := table[parts[1]]; found {
				if len(parts) >= 3 {
					if v, has := rec.Data[parts[2]]; has {
						return rec, v, true
					}
					return Record{}, "", false
				}
				return rec, rec.Name, true
			}
		}
	}
	if rec, found := m.Tables[""][path]; found {
		return rec, rec.Name, true
	}
	return Record{}, "", false
}

// Scan emits links for quoted tokens past the variables-section boundary
// that resolve against the model, plus external-reference tokens anywhere
// in the document.
func Scan(ctx context.Context, doc source.Document, store *vocab.Store) ([]Link, error) {
	model, err := Build(ctx, doc, store)
	if err != nil {
		return nil, err
	}
	out := make([]Link, 0)
	for i := 0; i < doc.LineCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := doc.Line(i)
		for _, loc := range quotedTokenRE.FindAllStringSubmatchIndex(line, -1) {
			start, end := contentGroup(loc)
			if start < 0 {
				continue
			}
			token := line[start:end]
			if externalRefRE.MatchString(token) {
				out = append(out, Link{
					Range:   source.LineRange(i, line, start, end),
					Tooltip: token,
					URL:     token,
				})
				continue
			}
			if i <= model.Boundary {
				continue
			}
			if !dottedIdentRE.MatchString(token) || !strings.Contains(token, ".") {
				continue
			}
			if _, value, ok := model.Lookup(token); ok {
				out = append(out, Link{
					Range:   source.LineRange(i, line, start, end),
					Tooltip: value,
					URL:     "turbols://data/" + token,
				})
			}
		}
	}
	return out, nil
}

// contentGroup picks whichever capture group matched (double or single
// quotes) from a quotedTokenRE match.
func contentGroup(loc []int) (int, int) {
	if loc[2] >= 0 {
		return loc[2], loc[3]
	}
	if len(loc) >= 6 && loc[4] >= 0 {
		return loc[4], loc[5]
	}
	return -1, -1
}
