package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoobzio/knex/internal/config"
	"github.com/zoobzio/knex/internal/logging"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options is shared by every command once the root has loaded config.
type options struct {
	configPath string
	cfg        config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{logger: logging.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "knex",
		Short: "Run declarative parser pipelines",
		Long: `knex runs chains of small parsing transforms described in JSON or YAML
over an input value and reports the result together with the full history
of every step.

Faults are either raised (the run stops at the first failing step) or
suppressed (the fault description becomes the step's result and the chain
carries on).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})
			return nil
		},
	}

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (KNEX_* env vars override it)")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newListCmd())
	return rootCmd
}
