package ransac

import "github.com/runningwild/linefit/pkg/geom"

// Mask flags each point of a set as inlier (true) or outlier, by index.
type Mask []bool

// Count returns the number of inliers.
func (m Mask) Count() int {
	n := 0
	for _, in := range m {
		if in {
			n++
		}
	}
	return n
}

// Indices returns the inlier indices in ascending order.
func (m Mask) Indices() []int {
	out := make([]int, 0, len(m))
	for i, in := range m {
		if in {
			out = append(out, i)
		}
	}
	return out
}

// Score classifies every point against l. A point is an inlier iff its
// distance is <= threshold.
func Score(l Line, points geom.PointSet, threshold float64) (Mask, int) {
	mask := make(Mask, len(points))
	count := 0
	for i, p := range points {
		if l.DistanceTo(p) <= threshold {
			mask[i] = true
			count++
		}
	}
	return mask, count
}
