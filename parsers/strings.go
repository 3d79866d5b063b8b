package parsers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/zoobzio/knex"
)

// ToUpper upper-cases a string.
type ToUpper struct{}

// Name implements knex.Transform.
func (ToUpper) Name() knex.Name { return "ToUpper" }

// Process implements knex.Transform.
func (ToUpper) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	return strings.ToUpper(s), nil
}

// ToLower lower-cases a string.
type ToLower struct{}

// Name implements knex.Transform.
func (ToLower) Name() knex.Name { return "ToLower" }

// Process implements knex.Transform.
func (ToLower) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	return strings.ToLower(s), nil
}

// Trim strips Characters from both ends of a string, or surrounding
// whitespace when Characters is empty.
type Trim struct {
	Characters string `json:"characters" mapstructure:"characters"`
}

// Name implements knex.Transform.
func (Trim) Name() knex.Name { return "Trim" }

// Process implements knex.Transform.
func (t Trim) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	if t.Characters == "" {
		return strings.TrimSpace(s), nil
	}
	return strings.Trim(s, t.Characters), nil
}

// Concat wraps a string between Prefix and Suffix.
type Concat struct {
	Prefix string `json:"prefix" mapstructure:"prefix"`
	Suffix string `json:"suffix" mapstructure:"suffix"`
}

// Name implements knex.Transform.
func (Concat) Name() knex.Name { return "Concat" }

// Process implements knex.Transform.
func (c Concat) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	return c.Prefix + s + c.Suffix, nil
}

// Append adds Suffix to the end of a string.
type Append struct {
	Suffix string `json:"suffix" mapstructure:"suffix"`
}

// Name implements knex.Transform.
func (Append) Name() knex.Name { return "Append" }

// Process implements knex.Transform.
func (a Append) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	return s + a.Suffix, nil
}

// Split breaks a string on Delimiter. An empty delimiter splits on runs
// of whitespace.
type Split struct {
	Delimiter string `json:"delimiter" mapstructure:"delimiter"`
}

// Name implements knex.Transform.
func (Split) Name() knex.Name { return "Split" }

// Process implements knex.Transform.
func (sp Split) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	if sp.Delimiter == "" {
		return strings.Fields(s), nil
	}
	return strings.Split(s, sp.Delimiter), nil
}

// Join concatenates a list of strings with Delimiter between elements.
type Join struct {
	Delimiter string `json:"delimiter" mapstructure:"delimiter"`
}

// Name implements knex.Transform.
func (Join) Name() knex.Name { return "Join" }

// Process implements knex.Transform.
func (j Join) Process(_ context.Context, in any) (any, error) {
	list, err := asList(in)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, knex.ShapeError("list of strings", v)
		}
		parts[i] = s
	}
	return strings.Join(parts, j.Delimiter), nil
}

// Length counts the characters of a string.
type Length struct{}

// Name implements knex.Transform.
func (Length) Name() knex.Name { return "Length" }

// Process implements knex.Transform.
func (Length) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	return utf8.RuneCountInString(s), nil
}
