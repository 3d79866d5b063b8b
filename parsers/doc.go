// Package parsers is the standard set of knex transforms: string casing and
// slicing, list and mapping access, base64/URL/JSON/YAML codecs, regular
// expression extraction, TextFSM parsing and network address formatting.
//
// Every transform is a small struct whose tagged fields are its arguments,
// so it can be composed directly:
//
//	out, err := knex.New("192.168.1.55/24").Then(ctx, parsers.IPNetwork{})
//
// or built by name from a declarative pipeline through Registry:
//
//	t, err := parsers.Registry().Build("Split", map[string]any{"delimiter": ","})
//
// Faults are reported with knex.ShapeError, knex.BoundsError and
// knex.FormatError so callers can classify them with errors.Is.
package parsers
