package parsers

import (
	"context"

	"github.com/sirikothe/gotextfsm"

	"github.com/zoobzio/knex"
)

// TextFSMParse runs a TextFSM Template over semi-structured text (usually
// CLI output) and returns one record per parsed row, keyed by the
// template's value names.
type TextFSMParse struct {
	Template string `json:"template" mapstructure:"template"`
}

// Name implements knex.Transform.
func (TextFSMParse) Name() knex.Name { return "TextFSMParse" }

// Process implements knex.Transform.
func (t TextFSMParse) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	fsm := gotextfsm.TextFSM{}
	if err := fsm.ParseString(t.Template); err != nil {
		return nil, knex.FormatError("textfsm template", err)
	}
	out := gotextfsm.ParserOutput{}
	if err := out.ParseTextString(s, fsm, true); err != nil {
		return nil, knex.FormatError("textfsm input", err)
	}
	records := make([]any, len(out.Dict))
	for i, row := range out.Dict {
		records[i] = row
	}
	return records, nil
}
