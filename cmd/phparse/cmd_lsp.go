package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/phparse/config"
	"github.com/dhamidi/phparse/lsp"
	"github.com/dhamidi/phparse/php/parser"
)

func newLSPCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:           "lsp",
		SilenceUsage:  true,
		SilenceErrors: true,
		Short:         "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := lsp.NewLSPServer(version, parser.WithMaxExpected(cfg.Parse.MaxExpected))
			if err != nil {
				return err
			}
			return server.RunStdio()
		},
	}
}
