package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/knex"
	"github.com/zoobzio/knex/internal/config"
	"github.com/zoobzio/knex/loader"
	"github.com/zoobzio/knex/parsers"
)

type runFlags struct {
	pipeline  string
	input     string
	inputFile string
	format    string
	raise     bool
	decode    bool
}

// report is what run prints.
type report struct {
	Result  any          `json:"result" yaml:"result"`
	Failed  bool         `json:"failed" yaml:"failed"`
	History knex.History `json:"history" yaml:"history"`
}

func newRunCmd(opts *options) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a pipeline over an input",
		Long: `Run loads a pipeline description (a list of {parser, args} steps or a
document with input, raise_exception and steps), runs it and prints the
result, the failure flag and the history.

The input comes from --input, --input-file (use - for stdin) or the
document's own input field. With --decode the input text is parsed as
JSON or YAML first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, opts, f)
		},
	}

	cmd.Flags().StringVarP(&f.pipeline, "pipeline", "p", "", "Pipeline description file (JSON or YAML)")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input value")
	cmd.Flags().StringVar(&f.inputFile, "input-file", "", "Read the input from a file, or - for stdin")
	cmd.Flags().BoolVar(&f.decode, "decode", false, "Parse the input as JSON or YAML before running")
	cmd.Flags().BoolVar(&f.raise, "raise", false, "Stop at the first fault instead of suppressing it")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: json or yaml")
	cmd.MarkFlagsMutuallyExclusive("input", "input-file")
	return cmd
}

func runPipeline(cmd *cobra.Command, opts *options, f runFlags) error {
	schema, err := loadSchema(opts, f.pipeline)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("raise") {
		schema.RaiseException = f.raise
	} else {
		schema.RaiseException = schema.RaiseException || opts.cfg.RaiseException
	}

	input, ok, err := readInput(cmd, f)
	if err != nil {
		return err
	}
	if ok {
		schema.Input = input
	}

	format := opts.cfg.Output
	if cmd.Flags().Changed("format") {
		format = f.format
	}
	if format != config.OutputJSON && format != config.OutputYAML {
		return fmt.Errorf("unknown output format %q", format)
	}

	obs := knex.NewObserver()
	defer obs.Close()

	l := loader.New(parsers.Registry(), knex.WithLogger(opts.logger), knex.WithObserver(obs))
	out, err := l.Run(cmd.Context(), schema)
	opts.logger.Info("pipeline finished",
		"steps", obs.Metrics().Counter(knex.StepsTotal).Value(),
		"failed", obs.Metrics().Counter(knex.StepsFailedTotal).Value(),
		"raised", obs.Metrics().Counter(knex.StepsRaisedTotal).Value(),
	)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), format, out)
}

func loadSchema(opts *options, path string) (knex.Schema, error) {
	if path == "" {
		path = opts.cfg.Pipeline
	}
	if path == "" {
		return knex.Schema{}, errors.New("no pipeline given: use --pipeline or set pipeline in the config")
	}
	return loader.ParseFile(path)
}

// readInput returns the input selected by flags and whether one was given.
func readInput(cmd *cobra.Command, f runFlags) (any, bool, error) {
	var raw string
	switch {
	case f.inputFile == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, false, err
		}
		raw = string(b)
	case f.inputFile != "":
		b, err := os.ReadFile(f.inputFile)
		if err != nil {
			return nil, false, err
		}
		raw = string(b)
	case cmd.Flags().Changed("input"):
		raw = f.input
	default:
		return nil, false, nil
	}

	if !f.decode {
		return raw, true, nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false, fmt.Errorf("decode input: %w", err)
	}
	return v, true, nil
}

func writeReport(w io.Writer, format string, out *knex.Parser) error {
	r := report{
		Result:  out.Result(),
		Failed:  out.Failed(),
		History: out.History(),
	}
	if format == config.OutputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
