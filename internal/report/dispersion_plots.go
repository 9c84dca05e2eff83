package report

import (
	"bytes"
	"fmt"

	"github.com/user/band_analyzer_go/internal/bands"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// CreateDispersionPlot renders the band structure of a calculation to a PNG
// image: one curve per band against the k-point path, optionally clipped to
// an energy window and annotated with high-symmetry labels.
func CreateDispersionPlot(calc *bands.BandsCalc, window *bands.EnergyWindow, showLabels bool) ([]byte, error) {
	if calc == nil {
		return nil, fmt.Errorf("no calculation to plot")
	}

	p := plot.New()
	p.Title.Text = "Band structure"
	p.Add(plotter.NewGrid())

	if _, err := calc.PlotBands(p, window, showLabels, nil); err != nil {
		return nil, err
	}

	writer, err := p.WriterTo(vg.Points(800), vg.Points(500), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %v", err)
	}
	return buf.Bytes(), nil
}
