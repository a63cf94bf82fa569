package pointio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/runningwild/linefit/pkg/geom"
)

// Result is the textual fit result: the two support points of the line and
// every input point with its inlier flag.
type Result struct {
	P0, P1  geom.Point
	Points  geom.PointSet
	Inliers []bool
}

// Write emits
//
//	p0.x p0.y
//	p1.x p1.y
//	x y 1|0      (one line per point, input order)
func Write(w io.Writer, res Result) error {
	if len(res.Points) != len(res.Inliers) {
		return fmt.Errorf("mask has %d entries for %d points", len(res.Inliers), len(res.Points))
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %s\n", FormatFloat(res.P0.X), FormatFloat(res.P0.Y))
	fmt.Fprintf(bw, "%s %s\n", FormatFloat(res.P1.X), FormatFloat(res.P1.Y))
	for i, p := range res.Points {
		flag := "0"
		if res.Inliers[i] {
			flag = "1"
		}
		fmt.Fprintf(bw, "%s %s %s\n", FormatFloat(p.X), FormatFloat(p.Y), flag)
	}
	return bw.Flush()
}

func WriteFile(path string, res Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadResult parses the format produced by Write.
func ReadResult(r io.Reader) (Result, error) {
	var res Result
	sc := bufio.NewScanner(r)
	lineNo, records := 0, 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		records++
		switch {
		case records <= 2:
			if len(fields) != 2 {
				return Result{}, &ParseError{Line: lineNo, Text: sc.Text(), Err: fmt.Errorf("expected 2 fields, got %d", len(fields))}
			}
			p, err := parseFields(fields)
			if err != nil {
				return Result{}, &ParseError{Line: lineNo, Text: sc.Text(), Err: err}
			}
			if records == 1 {
				res.P0 = p
			} else {
				res.P1 = p
			}
		default:
			if len(fields) != 3 {
				return Result{}, &ParseError{Line: lineNo, Text: sc.Text(), Err: fmt.Errorf("expected 3 fields, got %d", len(fields))}
			}
			p, err := parseFields(fields[:2])
			if err != nil {
				return Result{}, &ParseError{Line: lineNo, Text: sc.Text(), Err: err}
			}
			var in bool
			switch fields[2] {
			case "1":
				in = true
			case "0":
			default:
				return Result{}, &ParseError{Line: lineNo, Text: sc.Text(), Err: fmt.Errorf("inlier flag must be 0 or 1")}
			}
			res.Points = append(res.Points, p)
			res.Inliers = append(res.Inliers, in)
		}
	}
	if err := sc.Err(); err != nil {
		return Result{}, err
	}
	if records < 2 {
		return Result{}, fmt.Errorf("%w: result has no line", ErrUnavailable)
	}
	return res, nil
}

func ReadResultFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()
	return ReadResult(f)
}

func parseFields(fields []string) (geom.Point, error) {
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return geom.Point{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: x, Y: y}, nil
}
