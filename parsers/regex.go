package parsers

import (
	"context"
	"regexp"

	"github.com/zoobzio/knex"
)

// RegexExtractAll returns every non-overlapping match of Pattern.
// Without capture groups each match is the matched text; with one group
// it is that group; with several it is the list of groups.
type RegexExtractAll struct {
	Pattern string `json:"pattern" mapstructure:"pattern"`
}

// Name implements knex.Transform.
func (RegexExtractAll) Name() knex.Name { return "RegexExtractAll" }

// Process implements knex.Transform.
func (r RegexExtractAll) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return nil, knex.FormatError("pattern", err)
	}

	matches := re.FindAllStringSubmatch(s, -1)
	switch re.NumSubexp() {
	case 0, 1:
		group := re.NumSubexp()
		out := make([]string, len(matches))
		for i, m := range matches {
			out[i] = m[group]
		}
		return out, nil
	default:
		out := make([]any, len(matches))
		for i, m := range matches {
			out[i] = m[1:]
		}
		return out, nil
	}
}
