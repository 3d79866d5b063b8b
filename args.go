package knex

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Snapshot returns the configuration of t as an Args map. The map is
// built from the fields the transform declares with mapstructure tags;
// transforms without fields yield an empty, non-nil map.
func Snapshot(t Transform) Args {
	args := Args{}
	if t == nil {
		return args
	}
	if err := mapstructure.Decode(t, &args); err != nil {
		return Args{}
	}
	return args
}

// Decode fills the transform configuration pointed to by target from an
// args map. Numeric and string values are converted leniently so that
// args read from JSON (float64 numbers) or YAML work alike; unknown keys
// are rejected.
func Decode(args map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	return nil
}
