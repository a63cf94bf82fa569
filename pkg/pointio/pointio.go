package pointio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/runningwild/linefit/pkg/geom"
)

// ErrUnavailable marks any failure to obtain a point set from its source.
var ErrUnavailable = errors.New("point set unavailable")

// ParseError reports a malformed input line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: line %d %q: %v", ErrUnavailable, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// Read parses one "x,y" point per line. Surrounding whitespace is ignored
// and blank lines are skipped; any other deviation is a *ParseError.
func Read(r io.Reader) (geom.PointSet, error) {
	var pts geom.PointSet
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		p, err := parsePoint(text)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: text, Err: err}
		}
		pts = append(pts, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return pts, nil
}

func parsePoint(text string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(text, ",")
	if !ok {
		return geom.Point{}, errors.New("expected two comma-separated values")
	}
	if strings.Contains(ys, ",") {
		return geom.Point{}, errors.New("too many fields")
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geom.Point{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geom.Point{}, err
	}
	p := geom.Point{X: x, Y: y}
	if !p.Finite() {
		return geom.Point{}, errors.New("coordinates must be finite")
	}
	return p, nil
}

// ReadFile reads a point file. Open failures wrap ErrUnavailable.
func ReadFile(path string) (geom.PointSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer f.Close()
	return Read(f)
}

// FormatFloat renders v in the shortest form that parses back to v.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
