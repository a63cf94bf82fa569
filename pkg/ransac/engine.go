// Package ransac estimates a 2D line from points containing outliers.
package ransac

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runningwild/linefit/pkg/geom"
)

// Status tells a produced model apart from a failed run.
type Status int

const (
	StatusFailed Status = iota
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	default:
		return "failed"
	}
}

const (
	ReasonConverged = "Converged" // Trial budget satisfied
	ReasonTimeout   = "Timeout"   // Time budget or context ended the run
)

// Result is the outcome of Fit.
type Result struct {
	Status  Status
	Line    Line
	Mask    Mask
	Inliers int
	Refined bool

	Trials         int     // Trials run, including degenerate ones
	Degenerate     int     // Trials skipped because no usable sample was drawn
	RequiredTrials int     // Trial budget at the end of the run
	InlierFraction float64 // Final inlier-fraction estimate used for scheduling
	Reason         string
	Elapsed        time.Duration
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSource replaces the per-trial randomness. fn is called once per trial
// with the trial index. Sources shared between trials must not be used with
// more than one worker.
func WithSource(fn func(trial int) Source) Option {
	return func(e *Engine) { e.source = fn }
}

// Engine runs RANSAC line fits.
type Engine struct {
	params Params
	source func(trial int) Source
}

func New(p Params, opts ...Option) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.normalized()
	e := &Engine{params: p}
	seed := p.Seed
	e.source = func(trial int) Source { return TrialSource(seed, trial) }
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Params() Params { return e.params }

type outcome struct {
	hyp Hypothesis
	err error
}

// Fit estimates a line from points.
//
// Trials run in batches of Params.Workers. Each batch is reduced in trial
// order, so the result for a given seed does not depend on goroutine
// scheduling. With more than one worker the last batch may overshoot the
// adaptive trial count by up to Workers-1 trials.
func (e *Engine) Fit(ctx context.Context, points geom.PointSet) (Result, error) {
	sampler, err := NewSampler(points)
	if err != nil {
		return Result{Status: StatusFailed}, err
	}

	if e.params.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.params.TimeBudget)
		defer cancel()
	}

	start := time.Now()
	sched := NewScheduler(e.params)
	tracker := NewTracker()

	var trials, degenerate int
	reason := ReasonConverged

	for !sched.Done(trials) {
		if ctx.Err() != nil {
			reason = ReasonTimeout
			break
		}

		batch := e.params.Workers
		if rem := sched.Required() - trials; rem < batch {
			batch = rem
		}
		outcomes := e.runBatch(sampler, points, trials, batch)

		for i, o := range outcomes {
			inliers := -1
			if o.err != nil {
				degenerate++
			} else {
				inliers = o.hyp.Inliers
				tracker.Consider(o.hyp)
			}
			sched.Observe(tracker.BestInliers(), len(points))

			if e.params.Progress != nil {
				e.params.Progress(Trial{
					Index:          trials + i,
					Degenerate:     o.err != nil,
					Inliers:        inliers,
					BestInliers:    tracker.BestInliers(),
					RequiredTrials: sched.Required(),
					InlierFraction: sched.InlierFraction(),
				})
			}
		}
		trials += batch
	}

	res := Result{
		Status:         StatusFailed,
		Trials:         trials,
		Degenerate:     degenerate,
		RequiredTrials: sched.Required(),
		InlierFraction: sched.InlierFraction(),
		Reason:         reason,
		Elapsed:        time.Since(start),
	}

	best, ok := tracker.Best()
	if !ok {
		if ctx.Err() != nil {
			return res, fmt.Errorf("%w after %d trials: %w", ErrRunFailure, trials, ctx.Err())
		}
		return res, fmt.Errorf("%w (%d trials)", ErrRunFailure, trials)
	}

	res.Status = StatusDone
	res.Line = best.Line
	res.Mask = best.Mask
	res.Inliers = best.Inliers
	res.Refined = best.Refined
	return res, nil
}

// runBatch evaluates trials [first, first+n) and returns their outcomes in
// trial order.
func (e *Engine) runBatch(sampler *Sampler, points geom.PointSet, first, n int) []outcome {
	outcomes := make([]outcome, n)
	if n == 1 {
		outcomes[0] = e.runTrial(sampler, points, first)
		return outcomes
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			outcomes[idx] = e.runTrial(sampler, points, first+idx)
		}(i)
	}
	wg.Wait()
	return outcomes
}

func (e *Engine) runTrial(sampler *Sampler, points geom.PointSet, trial int) outcome {
	p0, p1, err := sampler.Sample(e.source(trial))
	if err != nil {
		return outcome{err: err}
	}
	line, err := NewLine(p0, p1)
	if err != nil {
		return outcome{err: err}
	}
	mask, n := Score(line, points, e.params.Threshold)
	h := Hypothesis{Trial: trial, Line: line, Inliers: n, Mask: mask}
	if e.params.Refine {
		h = refine(h, points, e.params.Threshold)
	}
	return outcome{hyp: h}
}
