// Package render draws fit results with gonum/plot.
package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/runningwild/linefit/pkg/geom"
	"github.com/runningwild/linefit/pkg/pointio"
)

var (
	inlierColor  = color.RGBA{R: 0, G: 160, B: 0, A: 255}
	outlierColor = color.RGBA{R: 200, G: 0, B: 0, A: 255}
	lineColor    = color.RGBA{R: 0, G: 0, B: 220, A: 255}
)

const (
	Width  = 8 * vg.Inch
	Height = 6 * vg.Inch
)

// Plot builds the figure for res: inliers and outliers as separate point
// series and the fitted line clipped to the padded data bounds.
func Plot(res pointio.Result, title string) (*plot.Plot, error) {
	if len(res.Points) != len(res.Inliers) {
		return nil, fmt.Errorf("mask has %d entries for %d points", len(res.Inliers), len(res.Points))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	var in, out plotter.XYs
	for i, pt := range res.Points {
		if res.Inliers[i] {
			in = append(in, plotter.XY{X: pt.X, Y: pt.Y})
		} else {
			out = append(out, plotter.XY{X: pt.X, Y: pt.Y})
		}
	}

	for _, s := range []struct {
		name string
		xys  plotter.XYs
		c    color.Color
	}{
		{"inliers", in, inlierColor},
		{"outliers", out, outlierColor},
	} {
		if len(s.xys) == 0 { continue }
		sc, err := plotter.NewScatter(s.xys)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Shape = draw.PlusGlyph{}
		sc.GlyphStyle.Color = s.c
		sc.GlyphStyle.Radius = vg.Points(3)
		p.Add(sc)
		p.Legend.Add(s.name, sc)
	}

	min, max := pad(res.Points, res.P0, res.P1)
	a, b, ok := Clip(res.P0, res.P1, min, max)
	if ok {
		ln, err := plotter.NewLine(plotter.XYs{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}})
		if err != nil {
			return nil, err
		}
		ln.Color = lineColor
		ln.Width = vg.Points(1)
		p.Add(ln)
		p.Legend.Add("fit", ln)
	}

	p.X.Min, p.X.Max = min.X, max.X
	p.Y.Min, p.Y.Max = min.Y, max.Y
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// SavePNG renders res to path. The format follows the file extension.
func SavePNG(path string, res pointio.Result, title string) error {
	p, err := Plot(res, title)
	if err != nil {
		return err
	}
	return p.Save(Width, Height, path)
}

// pad returns the bounds of pts (or of the line's support points when there
// are none), widened by 5% of the span and at least 0.5 on each side.
func pad(pts geom.PointSet, p0, p1 geom.Point) (geom.Point, geom.Point) {
	if len(pts) == 0 {
		pts = geom.PointSet{p0, p1}
	}
	min, max := pts.Bounds()
	dx := math.Max((max.X-min.X)*0.05, 0.5)
	dy := math.Max((max.Y-min.Y)*0.05, 0.5)
	return geom.Point{X: min.X - dx, Y: min.Y - dy}, geom.Point{X: max.X + dx, Y: max.Y + dy}
}

// Clip returns the segment of the infinite line through p0 and p1 spanning
// the box [min, max]. Lines closer to horizontal are cut at the box's
// vertical edges, steeper ones at its horizontal edges. ok is false when
// p0 == p1.
func Clip(p0, p1, min, max geom.Point) (a, b geom.Point, ok bool) {
	d := p1.Sub(p0)
	switch {
	case d.X == 0 && d.Y == 0:
		return geom.Point{}, geom.Point{}, false
	case math.Abs(d.X) >= math.Abs(d.Y):
		slope := d.Y / d.X
		a = geom.Point{X: min.X, Y: p0.Y + slope*(min.X-p0.X)}
		b = geom.Point{X: max.X, Y: p0.Y + slope*(max.X-p0.X)}
	default:
		inv := d.X / d.Y
		a = geom.Point{X: p0.X + inv*(min.Y-p0.Y), Y: min.Y}
		b = geom.Point{X: p0.X + inv*(max.Y-p0.Y), Y: max.Y}
	}
	return a, b, true
}
