package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"turbols/internal/service"
	"turbols/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Print the scoped tokens of a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "text", "output format (text|json)")
}

type tokenLine struct {
	Line   int         `json:"line"`
	Tokens []tokenJSON `json:"tokens"`
}

type tokenJSON struct {
	Scope string `json:"scope"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

func runTokenize(cmd *cobra.Command, args []string) error {
	svc := service.New()
	if err := loadVocabulary(cmd, svc); err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	doc := source.NewTextDocument(string(data))

	format, _ := cmd.Flags().GetString("format")
	var lines []tokenLine

	st := svc.InitialState()
	for i := 0; i < doc.LineCount(); i++ {
		line := doc.Line(i)
		tokens, next := svc.Tokenize(line, st)
		st = next
		switch format {
		case "json":
			tl := tokenLine{Line: i, Tokens: make([]tokenJSON, 0, len(tokens))}
			for _, tok := range tokens {
				tl.Tokens = append(tl.Tokens, tokenJSON{Scope: tok.Scope.String(), Start: tok.Start, End: tok.End})
			}
			lines = append(lines, tl)
		default:
			for _, tok := range tokens {
				fmt.Fprintf(os.Stdout, "%d:%d-%d\t%s\t%q\n", i+1, tok.Start, tok.End, tok.Scope, sliceLine(line, tok.Start, tok.End))
			}
		}
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	}
	return nil
}

func sliceLine(line string, start, end uint32) string {
	if int(start) > len(line) {
		return ""
	}
	if int(end) > len(line) {
		end = uint32(len(line))
	}
	return line[start:end]
}
