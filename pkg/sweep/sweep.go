package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/runningwild/linefit/pkg/analyze"
	"github.com/runningwild/linefit/pkg/geom"
	"github.com/runningwild/linefit/pkg/ransac"
)

// Entry is the fit outcome at one threshold.
type Entry struct {
	Threshold      float64 `json:"threshold"`
	Status         string  `json:"status"`
	Inliers        int     `json:"inliers"`
	InlierFraction float64 `json:"inlier_fraction"`
	Trials         int     `json:"trials"`
}

// maxSteps bounds the number of thresholds a single sweep will fit.
const maxSteps = 10000

type Sweeper struct {
	base       ransac.Params
	thresholds []float64

	// Progress, if set, is called after each threshold.
	Progress func(i, total int, e Entry)
}

// New prepares a sweep over [min, max] in increments of step. Every fit
// uses base with only the threshold replaced, so all fits share a seed.
func New(base ransac.Params, min, max, step float64) (*Sweeper, error) {
	if !(min > 0) || math.IsInf(max, 0) || !(max >= min) {
		return nil, fmt.Errorf("%w: sweep range [%v, %v] must satisfy 0 < min <= max", ransac.ErrConfiguration, min, max)
	}
	if !(step > 0) {
		return nil, fmt.Errorf("%w: sweep step %v must be > 0", ransac.ErrConfiguration, step)
	}

	steps := math.Floor((max-min)/step+1e-9) + 1
	if steps > maxSteps {
		return nil, fmt.Errorf("%w: sweep of [%v, %v] by %v needs %.0f fits, limit is %d",
			ransac.ErrConfiguration, min, max, step, steps, maxSteps)
	}
	n := int(steps)
	thresholds := make([]float64, n)
	for i := range thresholds {
		// Index-based so steps do not accumulate rounding error.
		thresholds[i] = min + float64(i)*step
	}
	return &Sweeper{base: base, thresholds: thresholds}, nil
}

func (s *Sweeper) Thresholds() []float64 { return s.thresholds }

// Run fits points once per threshold and locates the knee of the inlier
// fraction curve. knee is meaningful only when found is true.
func (s *Sweeper) Run(ctx context.Context, points geom.PointSet) (entries []Entry, knee Entry, found bool, err error) {
	var curve []analyze.Point
	byThreshold := make(map[float64]Entry, len(s.thresholds))

	for i, thr := range s.thresholds {
		p := s.base
		p.Threshold = thr
		eng, err := ransac.New(p)
		if err != nil {
			return nil, Entry{}, false, err
		}

		res, err := eng.Fit(ctx, points)
		e := Entry{Threshold: thr, Status: res.Status.String(), Trials: res.Trials}
		switch {
		case err == nil:
			e.Inliers = res.Inliers
			e.InlierFraction = float64(res.Inliers) / float64(len(points))
		case errors.Is(err, ransac.ErrRunFailure):
			// Recorded as a zero-inlier point on the curve.
		default:
			return nil, Entry{}, false, err
		}

		entries = append(entries, e)
		byThreshold[thr] = e
		curve = append(curve, analyze.Point{X: thr, Y: e.InlierFraction})
		if s.Progress != nil {
			s.Progress(i, len(s.thresholds), e)
		}
	}

	k, ok := analyze.FindKnee(curve)
	if !ok {
		return entries, Entry{}, false, nil
	}
	return entries, byThreshold[k.X], true, nil
}
