package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zoobzio/knex/loader"
	"github.com/zoobzio/knex/parsers"
)

func newValidateCmd(opts *options) *cobra.Command {
	var pipeline string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a pipeline description without running it",
		Long:  "Parse the pipeline and resolve every parser name and its args against the registry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := loadSchema(opts, pipeline)
			if err != nil {
				return err
			}
			if _, err := loader.New(parsers.Registry()).Build(schema); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pipeline is valid: %d steps\n", len(schema.Steps))
			return nil
		},
	}

	cmd.Flags().StringVarP(&pipeline, "pipeline", "p", "", "Pipeline description file (JSON or YAML)")
	return cmd
}
