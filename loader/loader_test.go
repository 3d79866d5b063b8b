package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/knex"
)

const networkSteps = `[
    {"parser": "GetIndex", "args": {"idx": 0}},
    {"parser": "Concat", "args": {"prefix": "", "suffix": "/24"}},
    {"parser": "IpNetwork", "args": {}}
]`

const networkDocument = `
input: ["192.168.190.235", "192.168.191.2"]
raise_exception: true
steps:
  - parser: GetIndex
    args: {idx: 1}
  - parser: Concat
    args: {suffix: /16}
  - parser: IpNetwork
`

func TestParse(t *testing.T) {
	t.Run("Step List", func(t *testing.T) {
		schema, err := Parse([]byte(networkSteps))
		require.NoError(t, err)
		assert.Nil(t, schema.Input)
		assert.False(t, schema.RaiseException)
		require.Len(t, schema.Steps, 3)
		assert.Equal(t, "GetIndex", schema.Steps[0].Parser)
		assert.Equal(t, knex.Args{"idx": 0}, schema.Steps[0].Args)
		assert.Equal(t, "IpNetwork", schema.Steps[2].Parser)
	})

	t.Run("Document", func(t *testing.T) {
		schema, err := Parse([]byte(networkDocument))
		require.NoError(t, err)
		assert.Equal(t, []any{"192.168.190.235", "192.168.191.2"}, schema.Input)
		assert.True(t, schema.RaiseException)
		require.Len(t, schema.Steps, 3)
		assert.Equal(t, knex.Args{"suffix": "/16"}, schema.Steps[1].Args)
		assert.Nil(t, schema.Steps[2].Args)
	})

	t.Run("Per-Step Input Ignored", func(t *testing.T) {
		schema, err := Parse([]byte(`[{"parser": "ToUpper", "input": "ignored", "args": {}}]`))
		require.NoError(t, err)
		require.Len(t, schema.Steps, 1)
		assert.Equal(t, "ToUpper", schema.Steps[0].Parser)
	})

	t.Run("JSON Escapes", func(t *testing.T) {
		schema, err := Parse([]byte(`[{"parser":"Concat","args":{"prefix":"a\/b","suffix":"é"}}]`))
		require.NoError(t, err)
		assert.Equal(t, knex.Args{"prefix": "a/b", "suffix": "é"}, schema.Steps[0].Args)
	})

	t.Run("JSON Duplicate Keys Keep The Last", func(t *testing.T) {
		schema, err := Parse([]byte(`{"input": "x", "steps": [{"parser": "Concat", "args": {"prefix": "a", "prefix": "b"}}]}`))
		require.NoError(t, err)
		assert.Equal(t, "x", schema.Input)
		assert.Equal(t, knex.Args{"prefix": "b"}, schema.Steps[0].Args)
	})

	t.Run("JSON Numbers Match YAML", func(t *testing.T) {
		fromJSON, err := Parse([]byte(`{"input": [1, 2.5, {"n": 3}], "steps": [{"parser": "GetIndex", "args": {"idx": -1}}]}`))
		require.NoError(t, err)
		fromYAML, err := Parse([]byte("input: [1, 2.5, {n: 3}]\nsteps:\n  - parser: GetIndex\n    args: {idx: -1}\n"))
		require.NoError(t, err)
		assert.Equal(t, fromYAML, fromJSON)
		assert.Equal(t, []any{1, 2.5, map[string]any{"n": 3}}, fromJSON.Input)
	})

	t.Run("YAML Flow Mapping", func(t *testing.T) {
		schema, err := Parse([]byte(`{input: abc, steps: [{parser: ToUpper}]}`))
		require.NoError(t, err)
		assert.Equal(t, "abc", schema.Input)
		require.Len(t, schema.Steps, 1)
	})

	t.Run("Invalid", func(t *testing.T) {
		for name, doc := range map[string]string{
			"empty":         "",
			"scalar":        `"ToUpper"`,
			"malformed":     `[{"parser": `,
			"missing name":  `[{"args": {}}]`,
			"bad step type": `steps: [1, 2]`,
		} {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidSpec, name)
		}
	})
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(networkDocument), 0o600))

	schema, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, schema.Steps, 3)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_Build(t *testing.T) {
	l := New(nil)

	t.Run("Unknown Parser", func(t *testing.T) {
		_, err := l.Build(knex.Schema{Steps: []knex.Node{{Parser: "ToUpper"}, {Parser: "Frobnicate"}}})
		assert.ErrorIs(t, err, ErrUnknownParser)
		assert.Contains(t, err.Error(), "step 1")
		assert.Contains(t, err.Error(), "Frobnicate")
	})

	t.Run("Bad Args", func(t *testing.T) {
		_, err := l.Build(knex.Schema{Steps: []knex.Node{{Parser: "Split", Args: knex.Args{"delim": ","}}}})
		assert.ErrorIs(t, err, ErrInvalidSpec)
		assert.Contains(t, err.Error(), "Split")
	})

	t.Run("Custom Registry", func(t *testing.T) {
		custom := New(knex.NewRegistry())
		_, err := custom.Build(knex.Schema{Steps: []knex.Node{{Parser: "ToUpper"}}})
		assert.ErrorIs(t, err, ErrUnknownParser)

		transforms, err := custom.Build(knex.Schema{Steps: []knex.Node{{Parser: knex.EndName}}})
		require.NoError(t, err)
		assert.Len(t, transforms, 1)
	})
}

func TestLoader_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Document", func(t *testing.T) {
		schema, err := Parse([]byte(networkDocument))
		require.NoError(t, err)

		out, err := New(nil).Run(ctx, schema)
		require.NoError(t, err)
		assert.Equal(t, "192.168.0.0/16", out.Result())
		assert.True(t, out.Raise())
		assert.Equal(t, 3, out.History().Len())
	})

	t.Run("Empty Steps Returns Seed", func(t *testing.T) {
		out, err := New(nil).Run(ctx, knex.Schema{Input: "x"})
		require.NoError(t, err)
		assert.Equal(t, "x", out.Result())
		assert.Equal(t, 0, out.History().Len())
	})

	t.Run("Options Are Applied", func(t *testing.T) {
		obs := knex.NewObserver()
		defer obs.Close()

		_, err := New(nil, knex.WithObserver(obs)).Transform(ctx, []any{"10.1.2.3"}, []byte(networkSteps), false)
		require.NoError(t, err)
		assert.Equal(t, float64(3), obs.Metrics().Counter(knex.StepsTotal).Value())
	})
}

func TestTransform(t *testing.T) {
	ctx := context.Background()
	input := []any{"192.168.190.235", "192.168.191.2"}

	t.Run("Step List", func(t *testing.T) {
		out, err := Transform(ctx, input, []byte(networkSteps), false)
		require.NoError(t, err)
		assert.Equal(t, "192.168.190.0/24", out.Result())
		assert.False(t, out.Failed())
	})

	t.Run("Escaped JSON Args", func(t *testing.T) {
		out, err := Transform(ctx, "abc", []byte(`[{"parser":"Concat","args":{"prefix":"a\/b","suffix":""}}]`), false)
		require.NoError(t, err)
		assert.Equal(t, "a/babc", out.Result())
		assert.False(t, out.Failed())
	})

	t.Run("Overrides Document Input And Policy", func(t *testing.T) {
		out, err := Transform(ctx, []any{"10.9.8.7", "10.1.1.1"}, []byte(networkDocument), false)
		require.NoError(t, err)
		assert.Equal(t, "10.1.0.0/16", out.Result())
		assert.False(t, out.Raise())
	})

	t.Run("Suppress Mode Records Failure", func(t *testing.T) {
		out, err := Transform(ctx, "not a list", []byte(networkSteps), false)
		require.NoError(t, err)
		assert.Equal(t, 3, out.History().Len())
		assert.True(t, out.Failed())
		assert.Equal(t, []knex.Name{"IpNetwork"}, out.History().Failures().Parsers())
	})

	t.Run("Raise Mode Returns Fault", func(t *testing.T) {
		out, err := Transform(ctx, []any{}, []byte(networkSteps), true)
		require.Error(t, err)
		assert.ErrorIs(t, err, knex.ErrBounds)

		var stepErr *knex.Error
		require.True(t, errors.As(err, &stepErr))
		assert.Equal(t, []knex.Name{"GetIndex"}, stepErr.Path)
		assert.Equal(t, 0, out.History().Len())
	})

	t.Run("Load Errors Ignore Policy", func(t *testing.T) {
		spec := []byte(`[{"parser": "Nope"}]`)
		for _, raise := range []bool{false, true} {
			out, err := Transform(ctx, "x", spec, raise)
			assert.ErrorIs(t, err, ErrUnknownParser)
			assert.Nil(t, out)
		}
	})
}
