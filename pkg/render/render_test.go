package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runningwild/linefit/pkg/geom"
	"github.com/runningwild/linefit/pkg/pointio"
)

func TestClip(t *testing.T) {
	min, max := geom.Point{X: -1, Y: -10}, geom.Point{X: 11, Y: 10}

	tests := []struct {
		name   string
		p0, p1 geom.Point
		a, b   geom.Point
	}{
		{"diagonal", geom.Point{X: 0, Y: 0}, geom.Point{X: 3, Y: 3}, geom.Point{X: -1, Y: -1}, geom.Point{X: 11, Y: 11}},
		{"horizontal", geom.Point{X: 2, Y: 4}, geom.Point{X: 5, Y: 4}, geom.Point{X: -1, Y: 4}, geom.Point{X: 11, Y: 4}},
		{"vertical", geom.Point{X: 3, Y: 0}, geom.Point{X: 3, Y: 1}, geom.Point{X: 3, Y: -10}, geom.Point{X: 3, Y: 10}},
		{"steep", geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 4}, geom.Point{X: -2.5, Y: -10}, geom.Point{X: 2.5, Y: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, ok := Clip(tt.p0, tt.p1, min, max)
			require.True(t, ok)
			assert.Equal(t, tt.a, a)
			assert.Equal(t, tt.b, b)
		})
	}

	_, _, ok := Clip(geom.Point{X: 1, Y: 1}, geom.Point{X: 1, Y: 1}, min, max)
	assert.False(t, ok)
}

func TestSavePNG(t *testing.T) {
	res := pointio.Result{
		P0:      geom.Point{X: 0, Y: 0},
		P1:      geom.Point{X: 3, Y: 3},
		Points:  geom.PointSet{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}, {X: 10, Y: -10}},
		Inliers: []bool{true, true, true, true, false},
	}
	path := filepath.Join(t.TempDir(), "fit.png")
	require.NoError(t, SavePNG(path, res, "worked example"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
}

func TestPlotNoOutliers(t *testing.T) {
	res := pointio.Result{
		P0:      geom.Point{X: 0, Y: 1},
		P1:      geom.Point{X: 1, Y: 1},
		Points:  geom.PointSet{{X: 0, Y: 1}, {X: 1, Y: 1}},
		Inliers: []bool{true, true},
	}
	p, err := Plot(res, "")
	require.NoError(t, err)
	assert.Less(t, p.Y.Min, 1.0)
	assert.Greater(t, p.Y.Max, 1.0)
}

func TestPlotMaskMismatch(t *testing.T) {
	_, err := Plot(pointio.Result{Points: geom.PointSet{{}}}, "")
	assert.Error(t, err)
}
