package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/phparse/config"
)

const version = "0.1.0"

// errDiagnostics makes the process fail after diagnostics were printed.
var errDiagnostics = errors.New("input has errors")

func main() {
	var configPath string
	var verbosity int
	var logFile string
	cfg := config.Default()

	rootCmd := &cobra.Command{
		Use:           "phparse",
		Short:         "Parse and check PHP sources",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			if cmd.Flags().Changed("verbose") {
				cfg.Log.Verbosity = verbosity
			}
			if cmd.Flags().Changed("log-file") {
				cfg.Log.File = logFile
			}
			var path *string
			if cfg.Log.File != "" {
				path = &cfg.Log.File
			}
			commonlog.Configure(cfg.Log.Verbosity, path)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to "+config.FileName+" (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newParseCmd(cfg))
	rootCmd.AddCommand(newLintCmd(cfg))
	rootCmd.AddCommand(newLSPCmd(cfg))
	rootCmd.AddCommand(newGrammarCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			os.Stderr.WriteString("phparse: " + err.Error() + "\n")
		}
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "locate config")
	}
	return config.LoadDefault(dir)
}
