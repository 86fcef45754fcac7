package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"turbols/internal/lsp"
	"turbols/internal/service"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the language server over stdio",
	Long:  `Serves editor requests (diagnostics, completion, hover, folding, links) over stdio JSON-RPC`,
	Args:  cobra.NoArgs,
	RunE:  runLSP,
}

func runLSP(cmd *cobra.Command, args []string) error {
	svc := service.New()
	if err := loadVocabulary(cmd, svc); err != nil {
		return err
	}
	server := lsp.NewServer(os.Stdin, os.Stdout, svc)
	err := server.Run(context.Background())
	if errors.Is(err, lsp.ErrExit) || errors.Is(err, lsp.ErrExitWithoutShutdown) {
		return nil
	}
	return err
}
