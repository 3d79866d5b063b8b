package parsers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/knex"
)

func TestCollectionTransforms(t *testing.T) {
	ctx := context.Background()
	list := []any{"foo", "bar", "baz"}

	tests := []struct {
		name  string
		tr    knex.Transform
		input any
		want  any
	}{
		{"Count list", Count{}, list, 3},
		{"Count typed list", Count{}, []int{1, 2}, 2},
		{"Count mapping", Count{}, map[string]any{"a": 1, "b": 2}, 2},
		{"Count typed mapping", Count{}, map[string]int{"a": 1}, 1},
		{"Count any-keyed mapping", Count{}, map[any]any{1: "a", "1": "b"}, 2},
		{"Count string", Count{}, "héllo", 5},
		{"Count empty string", Count{}, "", 0},
		{"GetIndex", GetIndex{Idx: 1}, list, "bar"},
		{"GetIndex negative", GetIndex{Idx: -1}, list, "baz"},
		{"GetIndex string", GetIndex{Idx: 1}, "héllo", "é"},
		{"GetIndex split output", GetIndex{Idx: 0}, []string{"clay", "michelle"}, "clay"},
		{"GetField", GetField{Field: "name"}, map[string]any{"name": "eth0"}, "eth0"},
		{"GetField string map", GetField{Field: "k"}, map[string]string{"k": "v"}, "v"},
		{"GetField typed map", GetField{Field: "mtu"}, map[string]int{"mtu": 1500}, 1500},
		{"GetField any-keyed map", GetField{Field: "2"}, map[any]any{1: "a", 2: "b"}, "b"},
		{"IndexOf present", IndexOf{Value: "bar"}, []any{"foo", "bar"}, 1},
		{"IndexOf absent", IndexOf{Value: "baz"}, []any{"foo", "bar"}, -1},
		{"IndexOf number", IndexOf{Value: 2}, []int{1, 2, 3}, 1},
		{"IndexOf int in floats", IndexOf{Value: 2}, []any{1.0, 2.0}, 1},
		{"IndexOf float in ints", IndexOf{Value: 3.0}, []any{1, 2, 3}, 2},
		{"IndexOf fraction", IndexOf{Value: 2}, []any{2.5}, -1},
		{"IndexOf number is not string", IndexOf{Value: 1}, []any{"1", 1}, 1},
		{"FirstElement", FirstElement{}, list, "foo"},
		{"LastElement", LastElement{}, list, "baz"},
		{"ReverseList", ReverseList{}, list, []any{"baz", "bar", "foo"}},
		{"ReverseList empty", ReverseList{}, []any{}, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tr.Process(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollectionTransforms_Faults(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		tr    knex.Transform
		input any
		kind  error
	}{
		{"Count number", Count{}, 42, knex.ErrShapeMismatch},
		{"Count nil", Count{}, nil, knex.ErrShapeMismatch},
		{"GetField nil", GetField{Field: "a"}, nil, knex.ErrShapeMismatch},
		{"GetIndex out of range", GetIndex{Idx: 5}, []any{"a"}, knex.ErrBounds},
		{"GetIndex negative out of range", GetIndex{Idx: -3}, []any{"a", "b"}, knex.ErrBounds},
		{"GetIndex string out of range", GetIndex{Idx: 3}, "abc", knex.ErrBounds},
		{"GetIndex number", GetIndex{}, 42, knex.ErrShapeMismatch},
		{"GetField missing", GetField{Field: "nope"}, map[string]any{}, knex.ErrBounds},
		{"GetField list", GetField{Field: "a"}, []any{"a"}, knex.ErrShapeMismatch},
		{"IndexOf string", IndexOf{Value: "a"}, "abc", knex.ErrShapeMismatch},
		{"FirstElement empty", FirstElement{}, []any{}, knex.ErrBounds},
		{"LastElement empty", LastElement{}, []string{}, knex.ErrBounds},
		{"LastElement nil", LastElement{}, nil, knex.ErrShapeMismatch},
		{"ReverseList mapping", ReverseList{}, map[string]any{}, knex.ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tr.Process(ctx, tt.input)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestCollectionTransforms_DecodedDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("YamlLoads Then Count", func(t *testing.T) {
		out, err := knex.New("1: a\n2: b\n").Pipe(ctx, YamlLoads{}, Count{})
		require.NoError(t, err)
		assert.False(t, out.Failed(), out.Result())
		assert.Equal(t, 2, out.Result())
	})

	t.Run("YamlLoads Then GetField", func(t *testing.T) {
		out, err := knex.New("1: a\n2: b\n").Pipe(ctx, YamlLoads{}, GetField{Field: "2"})
		require.NoError(t, err)
		assert.Equal(t, "b", out.Result())
	})

	t.Run("LoadJSON Then IndexOf", func(t *testing.T) {
		out, err := knex.New("[1, 2, 3]").Pipe(ctx, LoadJSON{}, IndexOf{Value: 2})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Result())
	})
}

func TestReverseList_DoesNotModifyInput(t *testing.T) {
	in := []any{1, 2, 3}
	_, err := ReverseList{}.Process(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, in)
}
