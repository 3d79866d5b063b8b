// Package loader builds knex chains from declarative pipeline descriptions.
//
// Two shapes are accepted, in JSON or YAML:
//
// A bare list of steps, run against an input supplied by the caller:
//
//	[
//	    {"parser": "GetIndex", "args": {"idx": 0}},
//	    {"parser": "Concat", "args": {"prefix": "", "suffix": "/24"}},
//	    {"parser": "IpNetwork", "args": {}}
//	]
//
// Or a document carrying its own input and error policy:
//
//	input: ["192.168.190.235", "192.168.191.2"]
//	raise_exception: true
//	steps:
//	  - parser: GetIndex
//	    args: {idx: 0}
//
// Parser names are resolved through a knex.Registry (parsers.Registry by
// default). Unknown names and undecodable args are reported before any
// step runs, whatever the error policy.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zoobzio/knex"
	"github.com/zoobzio/knex/parsers"
)

// Loader errors.
var (
	ErrUnknownParser = errors.New("unknown parser")
	ErrInvalidSpec   = errors.New("invalid pipeline spec")
)

// Loader resolves pipeline descriptions against a registry.
type Loader struct {
	registry *knex.Registry
	opts     []knex.Option
}

// New creates a Loader. A nil registry selects parsers.Registry(). The
// options are applied to every seed unit the loader creates, after the
// error policy taken from the description.
func New(registry *knex.Registry, opts ...knex.Option) *Loader {
	if registry == nil {
		registry = parsers.Registry()
	}
	return &Loader{registry: registry, opts: opts}
}

// Registry returns the registry used to resolve parser names.
func (l *Loader) Registry() *knex.Registry {
	return l.registry
}

// Parse decodes a JSON or YAML pipeline description. A top-level list is
// read as the steps of a schema with no input. Valid JSON is decoded as
// JSON, so escapes and duplicate keys follow JSON rules; anything else is
// read as YAML.
func Parse(data []byte) (knex.Schema, error) {
	var (
		schema knex.Schema
		err    error
	)
	if trimmed := bytes.TrimSpace(data); json.Valid(trimmed) && (trimmed[0] == '[' || trimmed[0] == '{') {
		schema, err = parseJSON(trimmed)
	} else {
		schema, err = parseYAML(data)
	}
	if err != nil {
		return knex.Schema{}, err
	}

	for i, step := range schema.Steps {
		if step.Parser == "" {
			return knex.Schema{}, fmt.Errorf("%w: step %d has no parser", ErrInvalidSpec, i)
		}
	}
	return schema, nil
}

func parseJSON(data []byte) (knex.Schema, error) {
	var schema knex.Schema
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var err error
	if data[0] == '[' {
		err = dec.Decode(&schema.Steps)
	} else {
		err = dec.Decode(&schema)
	}
	if err != nil {
		return knex.Schema{}, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	schema.Input = numbers(schema.Input)
	for _, step := range schema.Steps {
		numbers(map[string]any(step.Args))
	}
	return schema, nil
}

// numbers replaces json.Number values with int when integral and float64
// otherwise, matching what the YAML decoder yields for the same literals.
func numbers(v any) any {
	switch v := v.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		f, _ := v.Float64() //nolint:errcheck // json.Valid accepted the literal
		return f
	case []any:
		for i := range v {
			v[i] = numbers(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = numbers(v[k])
		}
		return v
	}
	return v
}

func parseYAML(data []byte) (knex.Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return knex.Schema{}, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return knex.Schema{}, fmt.Errorf("%w: empty document", ErrInvalidSpec)
	}

	root := doc.Content[0]
	var schema knex.Schema
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&schema.Steps); err != nil {
			return knex.Schema{}, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
		}
	case yaml.MappingNode:
		if err := root.Decode(&schema); err != nil {
			return knex.Schema{}, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
		}
	default:
		return knex.Schema{}, fmt.Errorf("%w: expected a list of steps or a document", ErrInvalidSpec)
	}
	return schema, nil
}

// ParseFile reads and decodes a pipeline description from path.
func ParseFile(path string) (knex.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return knex.Schema{}, err
	}
	return Parse(raw)
}

// Build resolves every step of schema into a configured transform.
func (l *Loader) Build(schema knex.Schema) ([]knex.Transform, error) {
	transforms := make([]knex.Transform, len(schema.Steps))
	for i, step := range schema.Steps {
		def, ok := l.registry.Lookup(step.Parser)
		if !ok {
			return nil, fmt.Errorf("%w: step %d: %q", ErrUnknownParser, i, step.Parser)
		}
		t, err := def.New(step.Args)
		if err != nil {
			return nil, fmt.Errorf("%w: step %d (%s): %w", ErrInvalidSpec, i, step.Parser, err)
		}
		transforms[i] = t
	}
	return transforms, nil
}

// Run seeds a chain with schema.Input and schema.RaiseException and folds
// every step onto it. The returned unit is the chain's frontier; with an
// error it is the last unit composed before the failure, or nil when the
// description could not be built.
func (l *Loader) Run(ctx context.Context, schema knex.Schema) (*knex.Parser, error) {
	transforms, err := l.Build(schema)
	if err != nil {
		return nil, err
	}
	opts := append([]knex.Option{knex.WithRaise(schema.RaiseException)}, l.opts...)
	return knex.New(schema.Input, opts...).Pipe(ctx, transforms...)
}

// Transform runs the pipeline description spec over input with the given
// error policy. Any input or policy inside spec is overridden.
func (l *Loader) Transform(ctx context.Context, input any, spec []byte, raise bool) (*knex.Parser, error) {
	schema, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	schema.Input = input
	schema.RaiseException = raise
	return l.Run(ctx, schema)
}

// Transform runs spec over input using the default registry.
func Transform(ctx context.Context, input any, spec []byte, raise bool) (*knex.Parser, error) {
	return New(nil).Transform(ctx, input, spec, raise)
}
