package knex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// ErrNilTransform is returned when a nil Transform is composed onto a chain.
var ErrNilTransform = errors.New("nil transform")

// Parser is one unit of a chain: a configured transform together with the
// input it received, the result it produced, whether a fault was
// suppressed, and the history of every step that led to it.
//
// A Parser is created either as a seed with New or by composing a
// Transform onto an existing unit with Then. Its input and result are
// assigned exactly once, at composition, and never change afterwards, so
// a unit can be read any number of times and shared between branches.
//
// Example:
//
//	seed := knex.New("clay,michelle")
//	out, err := seed.Pipe(ctx,
//	    parsers.Split{Delimiter: ","},
//	    parsers.GetIndex{Idx: 0},
//	    parsers.ToUpper{},
//	)
//	// out.Result() == "CLAY", out.History().Len() == 3
type Parser struct {
	transform Transform
	input     any
	result    any
	fault     error
	args      Args
	logger    *slog.Logger
	observer  *Observer
	history   History
	duration  time.Duration
	position  int
	computed  bool
	failed    bool
	raise     bool
}

// New creates the seed unit of a chain. The seed's result is its input;
// it contributes no history step. Options set on the seed (error policy,
// logger, observer) are inherited by every unit composed after it.
func New(input any, opts ...Option) *Parser {
	p := &Parser{
		transform: Start{},
		input:     input,
		result:    input,
		args:      Args{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		computed:  true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the transform kind of this unit.
func (p *Parser) Name() Name {
	return p.transform.Name()
}

// Transform returns the configured transform of this unit.
func (p *Parser) Transform() Transform {
	return p.transform
}

// Input returns the value this unit received.
func (p *Parser) Input() any {
	return p.input
}

// Result returns the computed output, or the fault description when the
// unit failed in suppress mode.
func (p *Parser) Result() any {
	return p.result
}

// Failed reports whether a fault was suppressed into the result.
func (p *Parser) Failed() bool {
	return p.failed
}

// Fault returns the suppressed fault, or nil.
func (p *Parser) Fault() error {
	return p.fault
}

// Raise reports the chain's error policy.
func (p *Parser) Raise() bool {
	return p.raise
}

// Args returns a copy of the unit's configuration snapshot.
func (p *Parser) Args() Args {
	return p.args.Clone()
}

// History returns a copy of the chain's execution trace up to and
// including this unit.
func (p *Parser) History() History {
	return p.history.Clone()
}

// Duration returns how long the unit's transform ran.
func (p *Parser) Duration() time.Duration {
	return p.duration
}

// String renders the unit by its computed result.
func (p *Parser) String() string {
	return fmt.Sprint(p.result)
}

// Compute returns the unit's result, running its transform on the first
// call. On a fault the error policy decides the outcome: in raise mode
// the fault is returned as an *Error and the unit stays uncomputed; in
// suppress mode the unit is marked failed and the fault's description
// becomes its result. Later calls return the stored result.
func (p *Parser) Compute(ctx context.Context) (any, error) {
	if p.computed {
		return p.result, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	clock := p.observer.getClock()
	start := clock.Now()
	result, err := p.process(ctx)
	p.duration = clock.Now().Sub(start)

	if err != nil {
		stepErr := &Error{
			Timestamp: clock.Now(),
			InputData: p.input,
			Err:       err,
			Path:      []Name{p.Name()},
			Step:      p.position,
			Duration:  p.duration,
			Timeout:   errors.Is(err, context.DeadlineExceeded),
			Canceled:  errors.Is(err, context.Canceled),
		}
		if p.raise {
			return nil, stepErr
		}
		p.failed = true
		p.fault = stepErr
		result = stepErr.Error()
	}

	p.result = result
	p.computed = true
	return result, nil
}

// process runs the transform, converting panics into faults.
func (p *Parser) process(ctx context.Context) (result any, err error) {
	defer recoverFromPanic(&result, &err, p.Name())
	return p.transform.Process(ctx, p.input)
}
