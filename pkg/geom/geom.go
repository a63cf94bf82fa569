package geom

import "math"

// Point is a single 2D observation.
type Point struct {
	X float64
	Y float64
}

// PointSet is an ordered collection of points. Index identity matters:
// per-point results (inlier masks) are aligned to it.
type PointSet []Point

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Bounds returns the axis-aligned bounding box of the set.
func (s PointSet) Bounds() (min, max Point) {
	if len(s) == 0 {
		return Point{}, Point{}
	}
	min, max = s[0], s[0]
	for _, p := range s[1:] {
		if p.X < min.X { min.X = p.X }
		if p.Y < min.Y { min.Y = p.Y }
		if p.X > max.X { max.X = p.X }
		if p.Y > max.Y { max.Y = p.Y }
	}
	return min, max
}
