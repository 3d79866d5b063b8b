package parsers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/zoobzio/knex"
)

// Base64Encode encodes a string with standard, padded base64.
type Base64Encode struct{}

// Name implements knex.Transform.
func (Base64Encode) Name() knex.Name { return "Base64Encode" }

// Process implements knex.Transform.
func (Base64Encode) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.EncodeToString([]byte(s)), nil
}

// Base64Decode decodes standard, padded base64 into a UTF-8 string.
type Base64Decode struct{}

// Name implements knex.Transform.
func (Base64Decode) Name() knex.Name { return "Base64Decode" }

// Process implements knex.Transform.
func (Base64Decode) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, knex.FormatError("base64", err)
	}
	if !utf8.Valid(raw) {
		return nil, knex.FormatError("decoded base64 is not valid UTF-8", nil)
	}
	return string(raw), nil
}

// URLEncode query-escapes a string.
type URLEncode struct{}

// Name implements knex.Transform.
func (URLEncode) Name() knex.Name { return "URLEncode" }

// Process implements knex.Transform.
func (URLEncode) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	return url.QueryEscape(s), nil
}

// URLDecode reverses URLEncode.
type URLDecode struct{}

// Name implements knex.Transform.
func (URLDecode) Name() knex.Name { return "URLDecode" }

// Process implements knex.Transform.
func (URLDecode) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	out, err := url.QueryUnescape(s)
	if err != nil {
		return nil, knex.FormatError("url encoding", err)
	}
	return out, nil
}

// LoadJSON parses a JSON document.
type LoadJSON struct{}

// Name implements knex.Transform.
func (LoadJSON) Name() knex.Name { return "LoadJSON" }

// Process implements knex.Transform.
func (LoadJSON) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, knex.FormatError("json", err)
	}
	return out, nil
}

// DumpJSON serialises a value as compact JSON.
type DumpJSON struct{}

// Name implements knex.Transform.
func (DumpJSON) Name() knex.Name { return "DumpJSON" }

// Process implements knex.Transform.
func (DumpJSON) Process(_ context.Context, in any) (any, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, knex.FormatError("json", err)
	}
	return string(raw), nil
}

// YamlLoads parses a YAML document.
type YamlLoads struct{}

// Name implements knex.Transform.
func (YamlLoads) Name() knex.Name { return "YamlLoads" }

// Process implements knex.Transform.
func (YamlLoads) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	var out any
	if err := yaml.Unmarshal([]byte(s), &out); err != nil {
		return nil, knex.FormatError("yaml", err)
	}
	return out, nil
}

// YamlDumps serialises a value as a YAML document.
type YamlDumps struct{}

// Name implements knex.Transform.
func (YamlDumps) Name() knex.Name { return "YamlDumps" }

// Process implements knex.Transform.
func (YamlDumps) Process(_ context.Context, in any) (any, error) {
	raw, err := yaml.Marshal(in)
	if err != nil {
		return nil, knex.FormatError("yaml", err)
	}
	return string(raw), nil
}
