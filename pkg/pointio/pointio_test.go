package pointio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runningwild/linefit/pkg/geom"
)

func TestRead(t *testing.T) {
	in := "1.5,2.3\n  -4 , 5e-1 \n\n10,-10\n"
	pts, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, geom.PointSet{{X: 1.5, Y: 2.3}, {X: -4, Y: 0.5}, {X: 10, Y: -10}}, pts)
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{"no separator", "1,2\n3 4\n", 2},
		{"truncated", "1,2\n3,\n", 2},
		{"extra field", "1,2,3\n", 1},
		{"not a number", "1,2\n4,5\nx,1\n", 3},
		{"infinite", "inf,1\n", 1},
		{"nan", "1,NaN\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			require.ErrorIs(t, err, ErrUnavailable)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWrite(t *testing.T) {
	res := Result{
		P0:      geom.Point{X: 0, Y: 0},
		P1:      geom.Point{X: 3, Y: 3},
		Points:  geom.PointSet{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}, {X: 10, Y: -10}},
		Inliers: []bool{true, true, true, true, false},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res))

	want := "0 0\n3 3\n0 0 1\n1 1 1\n2 2 1\n3 3 1\n10 -10 0\n"
	assert.Equal(t, want, buf.String())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, "10 -10 0", lines[len(lines)-1])
}

func TestWriteMaskMismatch(t *testing.T) {
	err := Write(&bytes.Buffer{}, Result{Points: geom.PointSet{{}, {}}, Inliers: []bool{true}})
	assert.Error(t, err)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.5", FormatFloat(1.5))
	assert.Equal(t, "-10", FormatFloat(-10))
	assert.Equal(t, "0.1", FormatFloat(0.1))
	assert.Equal(t, "1e+21", FormatFloat(1e21))
}

func TestResultRoundTrip(t *testing.T) {
	res := Result{
		P0:      geom.Point{X: -1.25, Y: 0.1},
		P1:      geom.Point{X: 7, Y: 1e-7},
		Points:  geom.PointSet{{X: 0.3, Y: 0.6}, {X: 1, Y: 2}},
		Inliers: []bool{false, true},
	}
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteFile(path, res))

	got, err := ReadResultFile(path)
	require.NoError(t, err)
	assert.Equal(t, res, got)
}

func TestReadResultErrors(t *testing.T) {
	for name, in := range map[string]string{
		"empty":     "",
		"one line":  "1 2\n",
		"bad flag":  "0 0\n1 1\n2 2 7\n",
		"bad field": "0 0 0\n1 1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadResult(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}
