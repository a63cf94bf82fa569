package ransac

import "sync"

// Hypothesis is the outcome of one non-degenerate trial.
type Hypothesis struct {
	Trial   int
	Line    Line
	Inliers int
	Mask    Mask
	Refined bool
}

// Tracker retains the best hypothesis seen so far.
//
// Replacement requires a strictly larger inlier count, so on ties the
// earlier hypothesis wins. Callers that evaluate trials concurrently must
// submit them in trial order to keep that rule reproducible.
type Tracker struct {
	mu   sync.RWMutex
	best Hypothesis
	have bool
}

func NewTracker() *Tracker {
	return &Tracker{best: Hypothesis{Inliers: -1}}
}

// Consider offers h and reports whether it became the new best.
func (t *Tracker) Consider(h Hypothesis) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h.Inliers <= t.best.Inliers {
		return false
	}
	t.best = h
	t.have = true
	return true
}

// Best returns the current best; ok is false until a hypothesis was accepted.
func (t *Tracker) Best() (h Hypothesis, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.best, t.have
}

// BestInliers returns the best inlier count, -1 before the first hypothesis.
func (t *Tracker) BestInliers() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.best.Inliers
}
