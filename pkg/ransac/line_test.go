package ransac

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runningwild/linefit/pkg/geom"
)

func TestNewLineDegenerate(t *testing.T) {
	_, err := NewLine(geom.Point{X: 1, Y: 2}, geom.Point{X: 1, Y: 2})
	require.ErrorIs(t, err, ErrDegenerateModel)

	// The direction overflows even though the points are distinct.
	_, err = NewLine(geom.Point{X: -1.7e308, Y: 0}, geom.Point{X: 1.7e308, Y: 0})
	require.ErrorIs(t, err, ErrDegenerateModel)
}

func TestLineExtremeScales(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		step  float64
	}{
		{"huge", 1e160, 1e150},
		{"tiny", 0, 1e-170},
		{"huge spread", -1e300, 5e299},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pts geom.PointSet
			for i := 0; i < 5; i++ {
				v := tt.scale + float64(i)*tt.step
				pts = append(pts, geom.Point{X: v, Y: v})
			}

			l, err := NewLine(pts[0], pts[1])
			require.NoError(t, err)
			for _, p := range pts {
				d := l.DistanceTo(p)
				assert.False(t, math.IsNaN(d))
				assert.Zero(t, d, "point %v", p)
			}

			eng, err := New(DefaultParams())
			require.NoError(t, err)
			res, err := eng.Fit(context.Background(), pts)
			require.NoError(t, err)
			assert.Equal(t, 5, res.Inliers)
			assert.Equal(t, Mask{true, true, true, true, true}, res.Mask)
		})
	}
}

func TestDistanceNeverNaN(t *testing.T) {
	l, err := NewLine(geom.Point{X: -1e308, Y: 0}, geom.Point{X: -9e307, Y: 0})
	require.NoError(t, err)
	d := l.DistanceTo(geom.Point{X: 1e308, Y: 0})
	assert.False(t, math.IsNaN(d))
}

func TestDistanceTo(t *testing.T) {
	tests := []struct {
		name   string
		p0, p1 geom.Point
		pt     geom.Point
		want   float64
	}{
		{
			name: "collinear beyond support",
			p0:   geom.Point{X: 0, Y: 0}, p1: geom.Point{X: 1, Y: 1},
			pt:   geom.Point{X: 2, Y: 2},
			want: 0,
		},
		{
			name: "off diagonal",
			p0:   geom.Point{X: 0, Y: 0}, p1: geom.Point{X: 1, Y: 1},
			pt:   geom.Point{X: 0, Y: 1},
			want: 1 / math.Sqrt2,
		},
		{
			name: "horizontal",
			p0:   geom.Point{X: -3, Y: 2}, p1: geom.Point{X: 7, Y: 2},
			pt:   geom.Point{X: 100, Y: -1},
			want: 3,
		},
		{
			name: "vertical",
			p0:   geom.Point{X: 4, Y: 0}, p1: geom.Point{X: 4, Y: 9},
			pt:   geom.Point{X: 1.5, Y: -20},
			want: 2.5,
		},
		{
			name: "outlier of worked example",
			p0:   geom.Point{X: 0, Y: 0}, p1: geom.Point{X: 3, Y: 3},
			pt:   geom.Point{X: 10, Y: -10},
			want: 20 / math.Sqrt2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLine(tt.p0, tt.p1)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, l.DistanceTo(tt.pt), 1e-12)
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		p0 := geom.Point{X: r.NormFloat64() * 10, Y: r.NormFloat64() * 10}
		p1 := geom.Point{X: r.NormFloat64() * 10, Y: r.NormFloat64() * 10}
		pt := geom.Point{X: r.NormFloat64() * 50, Y: r.NormFloat64() * 50}

		a, err := NewLine(p0, p1)
		require.NoError(t, err)
		b, err := NewLine(p1, p0)
		require.NoError(t, err)

		assert.Equal(t, a.DistanceTo(pt), b.DistanceTo(pt), "points %v %v %v", p0, p1, pt)
	}
}

func TestScoreInclusiveBoundary(t *testing.T) {
	l, err := NewLine(geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 0})
	require.NoError(t, err)

	pts := geom.PointSet{
		{X: 5, Y: 0.5},  // exactly on the boundary
		{X: -2, Y: -0.5}, // boundary, other side
		{X: 3, Y: 0.75},
		{X: 9, Y: 0},
	}
	mask, n := Score(l, pts, 0.5)
	assert.Equal(t, Mask{true, true, false, true}, mask)
	assert.Equal(t, 3, n)
	assert.Equal(t, n, mask.Count())
	assert.Equal(t, []int{0, 1, 3}, mask.Indices())
}

func TestRefit(t *testing.T) {
	t.Run("Sloped", func(t *testing.T) {
		var pts geom.PointSet
		for i := 0; i < 20; i++ {
			x := float64(i) * 0.5
			pts = append(pts, geom.Point{X: x, Y: 3*x - 2})
		}
		mask := make(Mask, len(pts))
		for i := range mask {
			mask[i] = true
		}
		l, err := Refit(pts, mask)
		require.NoError(t, err)
		for _, p := range pts {
			assert.InDelta(t, 0, l.DistanceTo(p), 1e-9)
		}
	})
	t.Run("Vertical", func(t *testing.T) {
		pts := geom.PointSet{{X: 5, Y: 0}, {X: 5, Y: 1}, {X: 5, Y: 2}, {X: 0, Y: 0}}
		l, err := Refit(pts, Mask{true, true, true, false})
		require.NoError(t, err)
		assert.InDelta(t, 0, l.DistanceTo(geom.Point{X: 5, Y: 100}), 1e-9)
		assert.InDelta(t, 5, l.DistanceTo(geom.Point{X: 0, Y: 0}), 1e-9)
	})
	t.Run("TooFew", func(t *testing.T) {
		pts := geom.PointSet{{X: 5, Y: 0}, {X: 5, Y: 1}}
		_, err := Refit(pts, Mask{true, false})
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}
