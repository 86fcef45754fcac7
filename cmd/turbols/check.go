package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"turbols/internal/diag"
	"turbols/internal/diagfmt"
	"turbols/internal/service"
	"turbols/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate scenario files against the loaded step vocabulary",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("quiet", false, "suppress per-diagnostic output, report only the summary")
	checkCmd.Flags().String("save-vocab", "", "write the loaded vocabulary snapshot to this path")
}

type checkResult struct {
	path  string
	doc   *source.TextDocument
	diags []diag.Diagnostic
}

func runCheck(cmd *cobra.Command, args []string) error {
	svc := service.New()
	if err := loadVocabulary(cmd, svc); err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("save-vocab"); out != "" {
		data, err := svc.Snapshot()
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write vocabulary snapshot: %w", err)
		}
	}

	results := make([]checkResult, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			res, err := checkFile(ctx, svc, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	opts := diagfmt.PrettyOpts{Color: useColor(cmd, os.Stdout)}
	total := 0
	for _, res := range results {
		total += len(res.diags)
		if !quiet {
			diagfmt.Pretty(os.Stdout, res.path, res.doc, res.diags, opts)
		}
	}
	if total > 0 {
		return fmt.Errorf("%d problem(s) in %d file(s)", total, len(args))
	}
	return nil
}

func checkFile(ctx context.Context, svc *service.Service, path string) (checkResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return checkResult{}, err
	}
	doc := source.NewTextDocument(string(data))
	diags, err := svc.CheckSyntax(ctx, doc)
	if err != nil {
		return checkResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return checkResult{path: path, doc: doc, diags: diags}, nil
}
