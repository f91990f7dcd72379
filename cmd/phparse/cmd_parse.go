package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dhamidi/phparse/config"
	"github.com/dhamidi/phparse/format"
	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/php/parser"
)

func newParseCmd(cfg *config.Config) *cobra.Command {
	var outputFormat string
	var collect bool
	var includePositions bool

	cmd := &cobra.Command{
		Use:           "parse <file>",
		SilenceUsage:  true,
		SilenceErrors: true,
		Short:         "Parse a PHP file and dump its syntax tree",
		Long:          "Parse a PHP file and dump its syntax tree. Use - to read from standard input.",
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			src, err := readSource(filename)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("collect") {
				collect = cfg.Parse.Collect
			}

			doc := &format.Document{File: filename}
			opts := []parser.Option{
				parser.WithFile(filename),
				parser.WithMaxExpected(cfg.Parse.MaxExpected),
			}
			var handler *lalr.Collecting
			if collect {
				handler = &lalr.Collecting{}
				opts = append(opts, parser.WithErrorHandler(handler))
			}

			stmts, parseErr := parser.Parse(src, opts...)
			doc.Stmts = stmts
			if handler != nil {
				doc.Errors = handler.Errors()
			}
			var perr *lalr.Error
			if errors.As(parseErr, &perr) {
				doc.Errors = append(doc.Errors, perr)
			} else if parseErr != nil && !errors.Is(parseErr, lalr.ErrUnrecoverable) {
				return parseErr
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(cmd.OutOrStdout())
			case "tree":
				enc := format.NewTreeEncoder(cmd.OutOrStdout())
				enc.Positions = includePositions
				encoder = enc
			default:
				return errors.Errorf("unknown format: %s", outputFormat)
			}
			if err := encoder.Encode(doc); err != nil {
				return errors.Wrap(err, "encode")
			}

			if outputFormat != "json" && len(doc.Errors) > 0 {
				diagnostics := format.NewLineEncoder(cmd.ErrOrStderr())
				diagnostics.Color = !color.NoColor
				if err := diagnostics.Encode(doc); err != nil {
					return err
				}
			}
			if len(doc.Errors) > 0 {
				return errDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (json, tree)")
	cmd.Flags().BoolVar(&collect, "collect", false, "keep parsing after the first error")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include spans in tree output")

	return cmd
}

func readSource(filename string) ([]byte, error) {
	if filename == "-" {
		src, err := io.ReadAll(os.Stdin)
		return src, errors.Wrap(err, "read standard input")
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read php file")
	}
	return src, nil
}
