package parsers

import (
	"context"
	"reflect"
	"unicode/utf8"

	"github.com/zoobzio/knex"
)

// Count returns the number of elements in a list, keys in a mapping or
// characters in a string.
type Count struct{}

// Name implements knex.Transform.
func (Count) Name() knex.Name { return "Count" }

// Process implements knex.Transform.
func (Count) Process(_ context.Context, in any) (any, error) {
	if s, ok := in.(string); ok {
		return utf8.RuneCountInString(s), nil
	}
	if in != nil {
		switch rv := reflect.ValueOf(in); rv.Kind() {
		case reflect.Map, reflect.Slice, reflect.Array:
			return rv.Len(), nil
		}
	}
	return nil, knex.ShapeError("list, mapping or string", in)
}

// GetIndex returns the element at Idx of a list, or the character at Idx
// of a string. Negative positions count from the end.
type GetIndex struct {
	Idx int `json:"idx" mapstructure:"idx"`
}

// Name implements knex.Transform.
func (GetIndex) Name() knex.Name { return "GetIndex" }

// Process implements knex.Transform.
func (g GetIndex) Process(_ context.Context, in any) (any, error) {
	if s, ok := in.(string); ok {
		runes := []rune(s)
		pos, err := index(g.Idx, len(runes))
		if err != nil {
			return nil, err
		}
		return string(runes[pos]), nil
	}
	list, err := asList(in)
	if err != nil {
		return nil, knex.ShapeError("list or string", in)
	}
	pos, err := index(g.Idx, len(list))
	if err != nil {
		return nil, err
	}
	return list[pos], nil
}

// GetField returns the value stored under Field in a mapping.
type GetField struct {
	Field string `json:"field" mapstructure:"field"`
}

// Name implements knex.Transform.
func (GetField) Name() knex.Name { return "GetField" }

// Process implements knex.Transform.
func (g GetField) Process(_ context.Context, in any) (any, error) {
	m, err := asMap(in)
	if err != nil {
		return nil, err
	}
	v, ok := m[g.Field]
	if !ok {
		return nil, knex.BoundsError("field %q not found", g.Field)
	}
	return v, nil
}

// IndexOf returns the position of the first element equal to Value, or -1.
// Numbers match by value, so 2 finds 2.0 in decoded JSON.
type IndexOf struct {
	Value any `json:"value" mapstructure:"value"`
}

// Name implements knex.Transform.
func (IndexOf) Name() knex.Name { return "IndexOf" }

// Process implements knex.Transform.
func (i IndexOf) Process(_ context.Context, in any) (any, error) {
	list, err := asList(in)
	if err != nil {
		return nil, err
	}
	for pos, v := range list {
		if equal(v, i.Value) {
			return pos, nil
		}
	}
	return -1, nil
}

// FirstElement returns the first element of a list.
type FirstElement struct{}

// Name implements knex.Transform.
func (FirstElement) Name() knex.Name { return "FirstElement" }

// Process implements knex.Transform.
func (FirstElement) Process(_ context.Context, in any) (any, error) {
	list, err := asList(in)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, knex.BoundsError("empty list has no first element")
	}
	return list[0], nil
}

// LastElement returns the last element of a list.
type LastElement struct{}

// Name implements knex.Transform.
func (LastElement) Name() knex.Name { return "LastElement" }

// Process implements knex.Transform.
func (LastElement) Process(_ context.Context, in any) (any, error) {
	list, err := asList(in)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, knex.BoundsError("empty list has no last element")
	}
	return list[len(list)-1], nil
}

// ReverseList returns a reversed copy of a list.
type ReverseList struct{}

// Name implements knex.Transform.
func (ReverseList) Name() knex.Name { return "ReverseList" }

// Process implements knex.Transform.
func (ReverseList) Process(_ context.Context, in any) (any, error) {
	list, err := asList(in)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(list))
	for i, v := range list {
		out[len(list)-1-i] = v
	}
	return out, nil
}
