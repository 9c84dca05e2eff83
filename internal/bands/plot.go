package bands

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// EnergyWindow clips the y-axis of a dispersion plot.
type EnergyWindow struct {
	Min, Max float64
}

// PlotOptions collects the styling knobs for PlotBands, so that rendering
// never depends on ambient library defaults.
type PlotOptions struct {
	LineWidth vg.Length
	Colors    []color.Color
}

var defaultBandColors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
	color.RGBA{R: 148, G: 103, B: 189, A: 255},
	color.RGBA{R: 140, G: 86, B: 75, A: 255},
}

// PlotBands draws every band's dispersion curve against the k-point path
// coordinate onto the supplied plot, optionally clipped to an energy window
// and annotated with high-symmetry labels. The same plot handle is returned
// for composition with further drawing.
func (c *BandsCalc) PlotBands(p *plot.Plot, window *EnergyWindow, showLabels bool, opts *PlotOptions) (*plot.Plot, error) {
	if p == nil {
		return nil, fmt.Errorf("bands: nil plot handle")
	}

	lineWidth := vg.Points(1)
	colors := defaultBandColors
	if opts != nil {
		if opts.LineWidth > 0 {
			lineWidth = opts.LineWidth
		}
		if len(opts.Colors) > 0 {
			colors = opts.Colors
		}
	}

	path := c.kpt.Path()
	yMin := math.Inf(1)
	yMax := math.Inf(-1)
	for i, n := range c.bands.Indices() {
		band, err := c.bands.Band(n)
		if err != nil {
			return nil, err
		}
		pts := make(plotter.XYs, len(band))
		for k, e := range band {
			pts[k] = plotter.XY{X: path[k], Y: e}
			yMin = math.Min(yMin, e)
			yMax = math.Max(yMax, e)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("bands: line for band %d: %w", n, err)
		}
		line.Color = colors[i%len(colors)]
		line.LineStyle.Width = lineWidth
		p.Add(line)
	}

	p.X.Label.Text = "k-point path"
	p.Y.Label.Text = fmt.Sprintf("Energy (%s)", c.bands.Units())
	p.X.Min = path[0]
	p.X.Max = path[len(path)-1]

	if window != nil {
		p.Y.Min = window.Min
		p.Y.Max = window.Max
		yMin, yMax = window.Min, window.Max
	}

	if showLabels && len(c.kpt.Labels()) > 0 {
		labels := c.kpt.Labels()
		indices := make([]int, 0, len(labels))
		for i := range labels {
			indices = append(indices, i)
		}
		sort.Ints(indices)

		ticks := make([]plot.Tick, 0, len(indices))
		for _, i := range indices {
			x := c.kpt.PathAt(i)
			ticks = append(ticks, plot.Tick{Value: x, Label: labels[i]})

			marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: yMin}, {X: x, Y: yMax}})
			if err != nil {
				return nil, fmt.Errorf("bands: label marker at %g: %w", x, err)
			}
			marker.Color = color.Gray{Y: 128}
			marker.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
			p.Add(marker)
		}
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	}

	return p, nil
}

// saveMassFitPlot renders the effective-mass fit: the neighborhood energies
// as a scatter against the path coordinate, overlaid with the fitted
// parabola.
func saveMassFitPlot(pathCoords, energies, fitted []float64, outPath string) error {
	if outPath == "" {
		outPath = "effective_mass_fit.png"
	}

	p := plot.New()
	p.Title.Text = "Effective mass parabolic fit"
	p.X.Label.Text = "k-point path"
	p.Y.Label.Text = "Energy (hartree)"
	p.Add(plotter.NewGrid())

	samples := make(plotter.XYs, len(pathCoords))
	curve := make(plotter.XYs, len(pathCoords))
	for i := range pathCoords {
		samples[i] = plotter.XY{X: pathCoords[i], Y: energies[i]}
		curve[i] = plotter.XY{X: pathCoords[i], Y: fitted[i]}
	}
	sort.Slice(curve, func(i, j int) bool { return curve[i].X < curve[j].X })

	scatter, err := plotter.NewScatter(samples)
	if err != nil {
		return fmt.Errorf("bands: fit scatter: %w", err)
	}
	scatter.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	p.Add(scatter)

	line, err := plotter.NewLine(curve)
	if err != nil {
		return fmt.Errorf("bands: fit curve: %w", err)
	}
	line.Color = color.Black
	p.Add(line)

	if err := p.Save(vg.Points(500), vg.Points(350), outPath); err != nil {
		return fmt.Errorf("bands: saving fit plot: %w", err)
	}
	return nil
}
