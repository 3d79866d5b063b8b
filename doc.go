// Package knex provides chainable data transformers: small, named parser
// steps composed left to right into a pipeline that turns raw input
// (strings, lists, maps) into a final result while recording every step.
//
// # Overview
//
// A chain starts from a seed unit and grows one Transform at a time:
//
//	seed := knex.New("clay,michelle")
//	out, err := seed.Pipe(ctx,
//	    parsers.Base64Encode{},
//	    parsers.Base64Decode{},
//	    parsers.Split{Delimiter: ","},
//	    parsers.GetIndex{Idx: 0},
//	    parsers.ToUpper{},
//	)
//	// out.Result() == "CLAY"
//
// Each composition returns a new *Parser - the frontier of the chain -
// holding the step's input, its configuration snapshot, its result and a
// copy of the chain's History with one more Step appended.
//
// # Core Concepts
//
//   - Transform: the contract every step implements (Name + Process). A
//     transform value is its own configuration.
//   - Parser: one computed unit of a chain. Created by New (seed) or Then.
//   - Then / Pipe: the composer. Propagates the error policy, computes the
//     next unit and extends the history.
//   - History: the ordered, append-only execution trace. Copied at every
//     composition so chains can branch from a shared prefix.
//   - Registry: name to Definition map used to build transforms from
//     declarative descriptions (see the loader package).
//
// # Error Policy
//
// The policy is chosen once, on the seed, and inherited by every unit:
//
//	knex.New(input, knex.WithRaise(true))  // first fault aborts the chain
//	knex.New(input)                        // faults become string results
//
// In raise mode Then returns an *Error wrapping the fault and no step is
// recorded for the faulting transform. In suppress mode the unit is marked
// Failed, the fault's description becomes its Result and flows into the
// next step unchanged.
//
// Faults are classified with errors.Is against ErrShapeMismatch,
// ErrBounds, ErrFormat and ErrPanic.
//
// # Observability
//
// Attach an Observer with WithObserver to collect metrics (metricz), one
// span per step (tracez) and asynchronous step events (hookz).
package knex
