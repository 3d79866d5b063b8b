package knex

import (
	"context"
	"log/slog"
)

// Transform defines the contract every parser step implements.
// A Transform value is the step's configuration: a plain struct whose
// exported, tagged fields are the arguments it was built with. Process
// must be pure - it may not mutate its input or the receiver - so that
// a unit can be recomputed and chains can branch safely.
//
// Implementations report faults by returning errors wrapping one of
// ErrShapeMismatch, ErrBounds or ErrFormat. The composer decides whether
// the fault interrupts the chain or becomes the step's result.
//
// Example:
//
//	type Shout struct {
//	    Suffix string `json:"suffix" mapstructure:"suffix"`
//	}
//
//	func (Shout) Name() knex.Name { return "Shout" }
//
//	func (s Shout) Process(_ context.Context, in any) (any, error) {
//	    str, ok := in.(string)
//	    if !ok {
//	        return nil, knex.ShapeError("string", in)
//	    }
//	    return strings.ToUpper(str) + s.Suffix, nil
//	}
type Transform interface {
	Name() Name
	Process(context.Context, any) (any, error)
}

// Name identifies a transform kind. It is the key used by the Registry
// and the "parser" field of every history Step.
//
// Example:
//
//	const SplitName knex.Name = "Split"
type Name = string

// Args is the configuration snapshot of a transform: argument name to value.
type Args map[string]any

// Clone returns a shallow copy of the args map.
func (a Args) Clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Option configures a seed unit. Options are inherited by every unit
// composed onto the chain.
type Option func(*Parser)

// WithRaise sets the chain-global error policy. When raise is true the
// first fault interrupts the chain and is returned to the caller; when
// false (the default) faults are stringified into the step's result.
func WithRaise(raise bool) Option {
	return func(p *Parser) {
		p.raise = raise
	}
}

// WithLogger sets the logger used to report composition steps.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithObserver attaches metrics, tracing and step hooks to the chain.
func WithObserver(observer *Observer) Option {
	return func(p *Parser) {
		p.observer = observer
	}
}
