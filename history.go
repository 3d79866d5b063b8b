package knex

import "slices"

// Step is an immutable record of one completed composition: which
// transform ran, what it was given, how it was configured, whether its
// fault was suppressed and what it produced.
type Step struct {
	Input  any  `json:"input" yaml:"input"`
	Output any  `json:"output" yaml:"output"`
	Args   Args `json:"args" yaml:"args"`
	Parser Name `json:"parser" yaml:"parser"`
	Failed bool `json:"error" yaml:"error"`
}

// History is the ordered execution trace of a chain. Each composed unit
// owns its own copy, so two chains branching from a common prefix never
// observe each other's later steps.
type History []Step

// Len returns the number of recorded steps.
func (h History) Len() int { return len(h) }

// Clone returns an independent copy of the history.
func (h History) Clone() History {
	return slices.Clone(h)
}

// Last returns the most recent step and whether there is one.
func (h History) Last() (Step, bool) {
	if len(h) == 0 {
		return Step{}, false
	}
	return h[len(h)-1], true
}

// Failures returns the steps whose faults were suppressed.
func (h History) Failures() History {
	var out History
	for _, s := range h {
		if s.Failed {
			out = append(out, s)
		}
	}
	return out
}

// Parsers returns the transform names in execution order.
func (h History) Parsers() []Name {
	names := make([]Name, len(h))
	for i, s := range h {
		names[i] = s.Parser
	}
	return names
}

// extend copies h and appends step, leaving h untouched.
func (h History) extend(step Step) History {
	out := slices.Grow(slices.Clone(h), 1)
	return append(out, step)
}
