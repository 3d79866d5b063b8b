package knex

import (
	"context"
	"errors"
)

// Then composes t onto the chain ending at p and returns the new frontier.
//
// The error policy, logger and observer are carried over from p. The new
// unit's input is p's computed result; its own result is computed at once
// and a Step describing it is appended to a copy of p's history. p itself
// is never modified, so the same unit can be continued in several
// directions without the branches seeing each other's steps.
//
// In raise mode a fault is returned as an *Error and nothing is appended;
// in suppress mode the fault's description becomes the step's result and
// the chain carries on. A done context is always returned as an error.
//
// Example:
//
//	seed := knex.New([]any{"foo", "bar"})
//	upper, _ := seed.Then(ctx, parsers.ToUpper{})
//	upper.Failed() // true: a list is not a string
func (p *Parser) Then(ctx context.Context, t Transform) (*Parser, error) {
	if t == nil {
		return nil, ErrNilTransform
	}
	if ctx == nil {
		ctx = context.Background()
	}
	position := len(p.history) + 1

	if err := ctx.Err(); err != nil {
		return nil, &Error{
			Timestamp: p.observer.getClock().Now(),
			InputData: p.result,
			Err:       err,
			Path:      []Name{t.Name()},
			Step:      position,
			Timeout:   errors.Is(err, context.DeadlineExceeded),
			Canceled:  errors.Is(err, context.Canceled),
		}
	}

	input, err := p.Compute(ctx)
	if err != nil {
		return nil, err
	}

	next := &Parser{
		transform: t,
		input:     input,
		args:      Snapshot(t),
		logger:    p.logger,
		observer:  p.observer,
		position:  position,
		raise:     p.raise,
	}

	stepCtx, finish := p.observer.trace(ctx, t.Name(), position)
	result, err := next.Compute(stepCtx)
	if err != nil {
		finish(false, err)
		p.observer.record(ctx, StepEvent{
			Timestamp:  p.observer.getClock().Now(),
			Input:      input,
			Error:      err,
			Parser:     t.Name(),
			StepNumber: position,
			Duration:   next.duration,
			Raised:     true,
		})
		next.logger.Debug("step raised", "parser", t.Name(), "step", position, "error", err)
		return nil, err
	}
	finish(next.failed, next.fault)

	next.history = p.history.extend(Step{
		Input:  input,
		Output: result,
		Args:   next.args.Clone(),
		Parser: t.Name(),
		Failed: next.failed,
	})

	p.observer.record(ctx, StepEvent{
		Timestamp:  p.observer.getClock().Now(),
		Input:      input,
		Output:     result,
		Error:      next.fault,
		Parser:     t.Name(),
		StepNumber: position,
		Duration:   next.duration,
		Failed:     next.failed,
	})
	if next.failed {
		next.logger.Warn("step failed", "parser", t.Name(), "step", position, "error", next.fault)
	} else {
		next.logger.Debug("step complete", "parser", t.Name(), "step", position, "duration", next.duration)
	}
	return next, nil
}

// Pipe folds Then over transforms from left to right, so
// p.Pipe(ctx, a, b, c) is p.Then(a).Then(b).Then(c).
//
// On error Pipe stops and returns the last unit that was composed
// successfully together with the error; the failing transform and any
// after it never run.
func (p *Parser) Pipe(ctx context.Context, transforms ...Transform) (*Parser, error) {
	current := p
	for _, t := range transforms {
		next, err := current.Then(ctx, t)
		if err != nil {
			return current, err
		}
		current = next
	}
	return current, nil
}
