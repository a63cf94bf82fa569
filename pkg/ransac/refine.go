package ransac

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/runningwild/linefit/pkg/geom"
)

var errRefit = errors.New("least squares refit failed")

// Refit fits a line to the masked points by total least squares: the line
// passes through the centroid along the principal axis of the covariance.
// See Hartley & Zisserman, Multiple View Geometry, 2nd ed., §4.7.1 on
// re-estimating the model from the consensus set.
func Refit(points geom.PointSet, mask Mask) (Line, error) {
	idx := mask.Indices()
	if len(idx) < 2 {
		return Line{}, ErrInsufficientData
	}
	xs := make([]float64, len(idx))
	ys := make([]float64, len(idx))
	for k, i := range idx {
		xs[k] = points[i].X
		ys[k] = points[i].Y
	}

	mx, my := stat.Mean(xs, nil), stat.Mean(ys, nil)
	sxx := stat.Variance(xs, nil)
	syy := stat.Variance(ys, nil)
	sxy := stat.Covariance(xs, ys, nil)

	var eig mat.EigenSym
	if ok := eig.Factorize(mat.NewSymDense(2, []float64{sxx, sxy, sxy, syy}), true); !ok {
		return Line{}, errRefit
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues are ascending; the last column is the direction of
	// largest spread.
	dx, dy := vecs.At(0, 1), vecs.At(1, 1)
	c := geom.Point{X: mx, Y: my}
	return NewLine(c, c.Add(geom.Point{X: dx, Y: dy}))
}

// refine replaces h by its least squares refit when the refit keeps at
// least as many inliers.
func refine(h Hypothesis, points geom.PointSet, threshold float64) Hypothesis {
	line, err := Refit(points, h.Mask)
	if err != nil {
		return h
	}
	mask, n := Score(line, points, threshold)
	if n < h.Inliers {
		return h
	}
	return Hypothesis{Trial: h.Trial, Line: line, Inliers: n, Mask: mask, Refined: true}
}
