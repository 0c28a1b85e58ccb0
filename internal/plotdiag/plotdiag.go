// Package plotdiag renders the optional τ²/I² heterogeneity diagnostic
// plot per taxonomic group, adapted from cmd/smeargol/plotting.go's
// singular-value plot: the same log-scale line plot with two
// threshold lines, retargeted from singular values to per-term
// heterogeneity statistics.
package plotdiag

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/go-taxago/taxago/internal/meta"
)

// Point is one term's pooled heterogeneity outcome within a group,
// ready to be plotted.
type Point struct {
	Term string
	Tau2 float64
	I2   float64
}

// Plot renders a group's τ² values (sorted descending, the teacher's
// "largest first" singular-value convention) to {dir}/{group}_tau2.png,
// with horizontal reference lines at the mean τ² and at the τ²
// implied by an I² of 0.5 (moderate heterogeneity, the usual textbook
// cutoff), mirroring plotValues' "optimal" and "fraction" threshold
// pair.
func Plot(dir, group string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	sorted := append([]Point(nil), points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tau2 > sorted[j].Tau2 })

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Heterogeneity (tau^2)\n%s", group)
	p.Y.Scale = logScale{}
	p.Y.Tick.Marker = logTicks{}

	xys := make(plotter.XYs, 0, len(sorted))
	var sumTau2 float64
	for i, pt := range sorted {
		if pt.Tau2 <= 0 {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(i), Y: pt.Tau2})
		sumTau2 += pt.Tau2
	}
	if len(xys) == 0 {
		return nil
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}

	meanTau2 := sumTau2 / float64(len(xys))
	meanLine, err := plotter.NewLine(plotter.XYs{{X: 0, Y: meanTau2}, {X: xys[len(xys)-1].X, Y: meanTau2}})
	if err != nil {
		return err
	}
	meanLine.Color = color.RGBA{B: 255, A: 255}

	moderateLine, err := plotter.NewLine(plotter.XYs{{X: 0, Y: moderateTau2(sorted)}, {X: xys[len(xys)-1].X, Y: moderateTau2(sorted)}})
	if err != nil {
		return err
	}
	moderateLine.Color = color.RGBA{R: 255, A: 255}

	p.Add(line, meanLine, moderateLine)
	return p.Save(18*vg.Centimeter, 15*vg.Centimeter, filepath.Join(dir, group+"_tau2.png"))
}

// moderateTau2 estimates the τ² value at which I² crosses 0.5 across
// the plotted points, by nearest match; used only to draw a reference
// line, not as a statistical estimate.
func moderateTau2(points []Point) float64 {
	best := math.Inf(1)
	var bestTau2 float64
	for _, pt := range points {
		d := math.Abs(pt.I2 - 0.5)
		if d < best {
			best = d
			bestTau2 = pt.Tau2
		}
	}
	if bestTau2 <= 0 {
		return 1e-6
	}
	return bestTau2
}

// FromResult converts a meta.Result into a Point for plotting.
func FromResult(term string, r meta.Result) Point {
	return Point{Term: term, Tau2: r.Tau2, I2: r.I2}
}

type logScale struct{}

func (logScale) Normalize(min, max, x float64) float64 {
	min = math.Max(min, 1e-16)
	max = math.Max(max, 1e-16)
	x = math.Max(x, 1e-16)
	logMin := math.Log(min)
	return (math.Log(x) - logMin) / (math.Log(max) - logMin)
}

type logTicks struct{ powers int }

func (t logTicks) Ticks(min, max float64) []plot.Tick {
	min = math.Max(min, 1e-16)
	max = math.Max(max, 1e-16)
	if t.powers < 1 {
		t.powers = 1
	}

	val := math.Pow10(int(math.Log10(min)))
	max = math.Pow10(int(math.Ceil(math.Log10(max))))
	var ticks []plot.Tick
	for val < max {
		for i := 1; i < 10; i++ {
			if i == 1 {
				ticks = append(ticks, plot.Tick{Value: val, Label: strconv.FormatFloat(val, 'e', 0, 64)})
			}
			if t.powers != 1 {
				break
			}
			ticks = append(ticks, plot.Tick{Value: val * float64(i)})
		}
		val *= math.Pow10(t.powers)
	}
	ticks = append(ticks, plot.Tick{Value: val, Label: strconv.FormatFloat(val, 'e', 0, 64)})

	return ticks
}
