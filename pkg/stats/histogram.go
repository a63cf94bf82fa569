package stats

import (
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/runningwild/linefit/pkg/geom"
	"github.com/runningwild/linefit/pkg/ransac"
)

const (
	// Distances are recorded as fixed-point integers of this many units
	// per coordinate unit.
	distanceScale = 1e6
	maxDistance   = int64(1e15)
	sigFigs       = 3
)

// Summary is a distribution digest. Values are in the recorded quantity's
// natural unit (coordinate units for residuals, points for trial counts).
type Summary struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P90   float64 `json:"p90"`
	P99   float64 `json:"p99"`
	Max   float64 `json:"max"`
}

func summarize(h *hdrhistogram.Histogram, scale float64) Summary {
	if h.TotalCount() == 0 {
		return Summary{}
	}
	return Summary{
		Count: h.TotalCount(),
		Mean:  h.Mean() / scale,
		P50:   float64(h.ValueAtQuantile(50)) / scale,
		P90:   float64(h.ValueAtQuantile(90)) / scale,
		P99:   float64(h.ValueAtQuantile(99)) / scale,
		Max:   float64(h.Max()) / scale,
	}
}

// Residuals digests the distances of the masked points to l.
func Residuals(l ransac.Line, points geom.PointSet, mask ransac.Mask) Summary {
	hist := hdrhistogram.New(1, maxDistance, sigFigs)
	for i, p := range points {
		if i >= len(mask) || !mask[i] { continue }
		v := int64(math.Round(l.DistanceTo(p) * distanceScale))
		if v > maxDistance { v = maxDistance }
		_ = hist.RecordValue(v)
	}
	return summarize(hist, distanceScale)
}

// Trials accumulates per-trial inlier counts. Observe matches the
// ransac.Params.Progress signature.
type Trials struct {
	hist       *hdrhistogram.Histogram
	degenerate int
}

// NewTrials sizes the histogram for point sets of n points.
func NewTrials(n int) *Trials {
	max := int64(n)
	if max < 2 { max = 2 }
	return &Trials{hist: hdrhistogram.New(1, max, sigFigs)}
}

func (t *Trials) Observe(tr ransac.Trial) {
	if tr.Degenerate {
		t.degenerate++
		return
	}
	_ = t.hist.RecordValue(int64(tr.Inliers))
}

func (t *Trials) Degenerate() int { return t.degenerate }

func (t *Trials) Summary() Summary { return summarize(t.hist, 1) }
