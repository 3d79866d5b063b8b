package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zoobzio/knex/parsers"
)

func newListCmd() *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all available parsers",
		Long:  "Display every registered parser with its category and description.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := parsers.Registry()
			w := cmd.OutOrStdout()
			if markdown {
				_, err := io.WriteString(w, reg.Markdown())
				return err
			}
			for _, d := range reg.Definitions() {
				fmt.Fprintf(w, "  %-16s %-8s %s\n", d.Name, d.Category, d.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render the parsers as a markdown table by category")
	return cmd
}
