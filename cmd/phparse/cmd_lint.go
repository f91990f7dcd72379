package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhamidi/phparse/config"
	"github.com/dhamidi/phparse/format"
	"github.com/dhamidi/phparse/lint"
)

func newLintCmd(cfg *config.Config) *cobra.Command {
	var workers int
	var maxErrors int
	var noColor bool

	cmd := &cobra.Command{
		Use:           "lint <path>...",
		SilenceUsage:  true,
		SilenceErrors: true,
		Short:         "Report syntax and declaration errors in PHP files",
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := lint.Options{
				Workers:     cfg.Lint.Workers,
				MaxExpected: cfg.Parse.MaxExpected,
				MaxErrors:   cfg.Lint.MaxErrors,
				Exclude:     cfg.Excluded,
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}
			if cmd.Flags().Changed("max-errors") {
				opts.MaxErrors = maxErrors
			}

			results, err := lint.Run(cmd.Context(), args, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			useColor := !noColor && !color.NoColor
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(out, "%s: %s\n", r.Path, r.Err)
					continue
				}
				if r.OK() {
					continue
				}
				failed++
				enc := format.NewLineEncoder(out)
				enc.Color = useColor
				if err := enc.Encode(&format.Document{File: r.Path, Errors: r.Errors}); err != nil {
					return err
				}
				if r.Truncated {
					fmt.Fprintf(out, "%s: too many errors\n", r.Path)
				}
			}

			summary := color.New(color.FgGreen)
			if failed > 0 {
				summary = color.New(color.FgRed, color.Bold)
			}
			if !useColor {
				summary.DisableColor()
			}
			summary.Fprintf(cmd.ErrOrStderr(), "%d files checked, %d with errors\n", len(results), failed)

			if failed > 0 {
				return errDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "number of files parsed in parallel (default from config)")
	cmd.Flags().IntVar(&maxErrors, "max-errors", 0, "stop a file after this many errors, 0 for no limit")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}
