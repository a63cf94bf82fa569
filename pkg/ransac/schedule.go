package ransac

import "math"

// sampleSize is the number of points that determine a line.
const sampleSize = 2

// RequiredTrials returns the smallest k >= 1 such that the probability of
// never drawing an all-inlier minimal sample in k trials, (1 - w²)^k, is at
// most 1 - confidence. The result is clamped to maxTrials.
//
// w >= 1 needs a single trial; w <= 0 can never be satisfied and returns
// maxTrials.
func RequiredTrials(confidence, w float64, maxTrials int) int {
	if maxTrials < 1 {
		maxTrials = 1
	}
	if w >= 1 {
		return 1
	}
	if !(w > 0) {
		return maxTrials
	}

	miss := 1 - math.Pow(w, sampleSize)
	target := 1 - confidence
	if miss <= 0 {
		return 1
	}
	if miss >= 1 {
		return maxTrials
	}

	raw := math.Log(target) / math.Log(miss)
	if math.IsNaN(raw) || raw >= float64(maxTrials) {
		return maxTrials
	}
	k := int(math.Ceil(raw))
	if k < 1 {
		k = 1
	}
	// The log ratio can land a hair off an integer; settle on the exact
	// boundary so k is minimal.
	for k > 1 && math.Pow(miss, float64(k-1)) <= target {
		k--
	}
	for k < maxTrials && math.Pow(miss, float64(k)) > target {
		k++
	}
	return k
}

// Scheduler tracks how many trials a run still needs.
//
// In adaptive mode the inlier-fraction estimate w starts at the configured
// approximation and is raised whenever the best hypothesis so far shows a
// larger fraction, after which the trial count is recomputed. w never
// decreases, so k never grows. This extends fixed-k RANSAC: k shrinks only
// when the data shows a larger consensus set, so the confidence bound
// still holds for the current w.
type Scheduler struct {
	confidence float64
	maxTrials  int
	adaptive   bool

	w        float64
	required int
}

func NewScheduler(p Params) *Scheduler {
	return &Scheduler{
		confidence: p.Confidence,
		maxTrials:  p.MaxTrials,
		adaptive:   !p.FixedTrials,
		w:          p.InlierFraction,
		required:   RequiredTrials(p.Confidence, p.InlierFraction, p.MaxTrials),
	}
}

// Observe feeds the best inlier count seen so far. It returns true when the
// estimate (and so the trial count) changed.
func (s *Scheduler) Observe(bestInliers, n int) bool {
	if !s.adaptive || n <= 0 || bestInliers <= 0 {
		return false
	}
	w := float64(bestInliers) / float64(n)
	if w <= s.w {
		return false
	}
	s.w = w
	s.required = RequiredTrials(s.confidence, w, s.maxTrials)
	return true
}

// Done reports whether trials completed so far satisfy the budget.
func (s *Scheduler) Done(trials int) bool {
	return trials >= s.required
}

func (s *Scheduler) Required() int { return s.required }

func (s *Scheduler) InlierFraction() float64 { return s.w }
