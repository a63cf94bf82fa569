package ransac

import (
	"math"

	"github.com/runningwild/linefit/pkg/geom"
)

// Line is an infinite line through two distinct support points.
// The zero value is not a valid line; use NewLine.
type Line struct {
	P0 geom.Point
	P1 geom.Point

	// Unit normal (nx, ny) and a support point it is measured from. ref is
	// the lexicographically smaller support point, so swapping P0 and P1
	// only flips the normal's sign.
	ref    geom.Point
	nx, ny float64
}

// NewLine builds the line through p0 and p1.
func NewLine(p0, p1 geom.Point) (Line, error) {
	if p0 == p1 {
		return Line{}, ErrDegenerateModel
	}
	a := p1.Y - p0.Y
	b := -(p1.X - p0.X)
	norm := math.Hypot(a, b)
	// The direction can overflow for points at opposite ends of the range.
	if norm == 0 || math.IsInf(norm, 0) || math.IsNaN(norm) {
		return Line{}, ErrDegenerateModel
	}
	ref := p0
	if p1.X < p0.X || (p1.X == p0.X && p1.Y < p0.Y) {
		ref = p1
	}
	return Line{P0: p0, P1: p1, ref: ref, nx: a / norm, ny: b / norm}, nil
}

// DistanceTo returns the perpendicular distance from p to the line. Offsets
// that overflow report +Inf, never NaN.
func (l Line) DistanceTo(p geom.Point) float64 {
	d := math.Abs(l.nx*(p.X-l.ref.X) + l.ny*(p.Y-l.ref.Y))
	if math.IsNaN(d) {
		return math.Inf(1)
	}
	return d
}
