package parsers

import (
	"fmt"
	"reflect"

	"github.com/zoobzio/knex"
)

// asString returns in as a string or a shape fault.
func asString(in any) (string, error) {
	s, ok := in.(string)
	if !ok {
		return "", knex.ShapeError("string", in)
	}
	return s, nil
}

// asList returns in as a []any. Typed slices are widened element by element;
// the input itself is never modified.
func asList(in any) ([]any, error) {
	switch v := in.(type) {
	case []any:
		return v, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	case nil:
		return nil, knex.ShapeError("list", in)
	}

	rv := reflect.ValueOf(in)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, knex.ShapeError("list", in)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// asMap returns in as a map keyed by strings. Maps with other key types,
// such as the map[any]any YAML produces for non-string keys, are copied
// with each key rendered by fmt.
func asMap(in any) (map[string]any, error) {
	switch v := in.(type) {
	case map[string]any:
		return v, nil
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, nil
	case nil:
		return nil, knex.ShapeError("mapping", in)
	}

	rv := reflect.ValueOf(in)
	if rv.Kind() != reflect.Map {
		return nil, knex.ShapeError("mapping", in)
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, nil
}

// equal compares two values, treating numbers of any Go type as equal
// when they hold the same value.
func equal(a, b any) bool {
	if x, ok := number(a); ok {
		y, ok := number(b)
		return ok && x == y
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// index resolves a possibly negative position against a length.
func index(idx, length int) (int, error) {
	pos := idx
	if pos < 0 {
		pos += length
	}
	if pos < 0 || pos >= length {
		return 0, knex.BoundsError("index %d out of range for length %d", idx, length)
	}
	return pos, nil
}
