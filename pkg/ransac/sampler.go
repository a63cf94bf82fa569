package ransac

import (
	"math/rand/v2"

	"github.com/runningwild/linefit/pkg/geom"
)

// Source is the randomness a Sampler draws from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// attemptsPerPoint bounds resampling on degenerate draws to attemptsPerPoint*N.
const attemptsPerPoint = 3

// Sampler draws minimal samples (two distinct points) from a point set.
type Sampler struct {
	points      geom.PointSet
	maxAttempts int
}

func NewSampler(points geom.PointSet) (*Sampler, error) {
	if len(points) < 2 {
		return nil, ErrInsufficientData
	}
	return &Sampler{
		points:      points,
		maxAttempts: attemptsPerPoint * len(points),
	}, nil
}

// Sample draws two indices uniformly without replacement and returns their
// points. Pairs with coincident coordinates are redrawn; after the attempt
// budget is spent it returns ErrDegenerateSample.
func (s *Sampler) Sample(src Source) (geom.Point, geom.Point, error) {
	n := len(s.points)
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		i := src.IntN(n)
		j := src.IntN(n - 1)
		if j >= i {
			j++
		}
		p0, p1 := s.points[i], s.points[j]
		if p0 != p1 {
			return p0, p1, nil
		}
	}
	return geom.Point{}, geom.Point{}, ErrDegenerateSample
}

// TrialSource returns the source for trial t of a run seeded with seed.
// Each trial gets an independent PCG stream, so a trial's draws do not
// depend on which worker runs it or in what order.
func TrialSource(seed uint64, trial int) Source {
	return rand.New(rand.NewPCG(seed, uint64(trial)))
}
