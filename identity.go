package knex

import "context"

// Identity names of the pass-through transforms.
const (
	StartName Name = "Start"
	EndName   Name = "End"
)

// Start is the neutral element of a chain: it returns its input unchanged.
// New uses it as the seed unit's transform.
type Start struct{}

// Name implements Transform.
func (Start) Name() Name { return StartName }

// Process implements Transform.
func (Start) Process(_ context.Context, in any) (any, error) { return in, nil }

// End is a pass-through terminator. Composing it onto a chain records a
// final history step whose output is the chain's result.
type End struct{}

// Name implements Transform.
func (End) Name() Name { return EndName }

// Process implements Transform.
func (End) Process(_ context.Context, in any) (any, error) { return in, nil }
