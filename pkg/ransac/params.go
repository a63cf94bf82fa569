package ransac

import (
	"math"
	"time"
)

const (
	DefaultConfidence     = 0.99
	DefaultThreshold      = 0.1
	DefaultInlierFraction = 0.5
	DefaultMaxTrials      = 100000
)

// Params configures a run. It is read-only once a run starts.
type Params struct {
	Confidence     float64 // Probability that some sample is outlier-free, in (0,1)
	Threshold      float64 // Inlier distance bound, > 0
	InlierFraction float64 // Approximate inlier fraction, in (0,1]

	Seed        uint64        // Seed of the per-trial random streams
	Workers     int           // Trials evaluated concurrently; 0 means 1
	MaxTrials   int           // Upper bound on the trial count; 0 means DefaultMaxTrials
	FixedTrials bool          // Disable adaptive refinement of the trial count
	Refine      bool          // Refit each hypothesis by least squares over its inliers
	TimeBudget  time.Duration // Stop early and keep the best so far; 0 means no limit

	// Progress, if set, is called after every trial from the goroutine
	// running Fit, in trial order.
	Progress func(Trial) `json:"-" yaml:"-"`
}

func DefaultParams() Params {
	return Params{
		Confidence:     DefaultConfidence,
		Threshold:      DefaultThreshold,
		InlierFraction: DefaultInlierFraction,
		Workers:        1,
		MaxTrials:      DefaultMaxTrials,
	}
}

// Validate checks ranges. NaN fails every check.
func (p Params) Validate() error {
	if !(p.Confidence > 0 && p.Confidence < 1) {
		return &ConfigError{Field: "confidence", Value: p.Confidence, Reason: "must be in (0,1)"}
	}
	if !(p.Threshold > 0) || math.IsInf(p.Threshold, 0) {
		return &ConfigError{Field: "threshold", Value: p.Threshold, Reason: "must be a finite value > 0"}
	}
	if !(p.InlierFraction > 0 && p.InlierFraction <= 1) {
		return &ConfigError{Field: "inlier_fraction", Value: p.InlierFraction, Reason: "must be in (0,1]"}
	}
	if p.Workers < 0 {
		return &ConfigError{Field: "workers", Value: float64(p.Workers), Reason: "must be >= 0"}
	}
	if p.MaxTrials < 0 {
		return &ConfigError{Field: "max_trials", Value: float64(p.MaxTrials), Reason: "must be >= 0"}
	}
	if p.TimeBudget < 0 {
		return &ConfigError{Field: "time_budget", Value: p.TimeBudget.Seconds(), Reason: "must be >= 0"}
	}
	return nil
}

func (p Params) normalized() Params {
	if p.Workers <= 0 {
		p.Workers = 1
	}
	if p.MaxTrials <= 0 {
		p.MaxTrials = DefaultMaxTrials
	}
	return p
}

// Trial reports the outcome of one trial to a Progress callback.
type Trial struct {
	Index          int
	Degenerate     bool
	Inliers        int // Inliers of this trial's hypothesis; -1 if degenerate
	BestInliers    int
	RequiredTrials int
	InlierFraction float64
}
