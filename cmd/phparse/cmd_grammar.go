package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dhamidi/phparse/lalr/gen"
	"github.com/dhamidi/phparse/php/parser"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grammar",
		SilenceUsage:  true,
		SilenceErrors: true,
		Short:         "LALR grammar tools",
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarTablesCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string
	var expectConflicts int

	cmd := &cobra.Command{
		Use:           "check <file>",
		SilenceUsage:  true,
		SilenceErrors: true,
		Short:         "Compile an EBNF grammar against the PHP token set and report conflicts",
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			f, err := os.Open(filename)
			if err != nil {
				return errors.Wrap(err, "open file")
			}
			defer f.Close()

			grammar, err := gen.Parse(filename, f)
			if err != nil {
				return err
			}

			opts := parser.GrammarOptions()
			opts.Start = startProduction
			opts.ExpectConflicts = expectConflicts
			_, report, err := gen.Compile(grammar, opts)
			if report != nil {
				report.WriteTo(cmd.OutOrStdout())
			}
			return err
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production (default: the first one)")
	cmd.Flags().IntVar(&expectConflicts, "expect", 0, "number of unresolved conflicts to accept")

	return cmd
}

func newGrammarTablesCmd() *cobra.Command {
	var printSource bool

	cmd := &cobra.Command{
		Use:           "tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		Short:         "Compile the built-in PHP grammar and print table statistics",
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printSource {
				_, err := cmd.OutOrStdout().Write(parser.GrammarSource())
				return err
			}
			_, report, err := parser.Tables()
			if err != nil {
				return err
			}
			_, err = report.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().BoolVar(&printSource, "ebnf", false, "print the grammar source instead")

	return cmd
}
