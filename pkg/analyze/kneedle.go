package analyze

import (
	"sort"
)

type Point struct {
	X float64
	Y float64
}

// FindKnee implements the Kneedle algorithm to find the point of maximum curvature.
// It assumes the curve is concave (increasing but flattening out, like the
// inlier fraction of a fit as its distance threshold grows). The input is not
// modified. ok is false when the curve has no usable span.
func FindKnee(points []Point) (knee Point, ok bool) {
	if len(points) < 3 {
		if len(points) > 0 {
			return points[len(points)-1], false
		}
		return Point{}, false
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	minX, maxX := sorted[0].X, sorted[len(sorted)-1].X
	minY, maxY := sorted[0].Y, sorted[0].Y
	for _, p := range sorted {
		if p.Y < minY { minY = p.Y }
		if p.Y > maxY { maxY = p.Y }
	}

	if maxX == minX || maxY == minY {
		return sorted[len(sorted)-1], false
	}

	// In normalized space the chord from first to last point is y = x; the
	// knee is the point furthest above it.
	maxDist := -1.0
	for _, p := range sorted {
		xNorm := (p.X - minX) / (maxX - minX)
		yNorm := (p.Y - minY) / (maxY - minY)
		if dist := yNorm - xNorm; dist > maxDist {
			maxDist = dist
			knee = p
		}
	}
	return knee, maxDist > 0
}
