package histogram

import (
	"bytes"
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrNoBins = errors.New("no histogram bins to render")

// RenderPNG draws bins as a bar chart labelled by bin range.
func RenderPNG(bins []Bin, width vg.Length, height vg.Length) ([]byte, error) {
	if len(bins) == 0 {
		return nil, ErrNoBins
	}

	p, err := plot.New()
	if err != nil {
		return nil, fmt.Errorf("expected plot.New() returns nil err; got err = %w", err)
	}
	p.Title.Text = "Reaction time"
	p.Y.Label.Text = "Reactions"

	values := make(plotter.Values, len(bins))
	for i, bin := range bins {
		values[i] = float64(bin.Count)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return nil, fmt.Errorf("expected plotter.NewBarChart() returns nil err; got err = %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(Labels(bins)...)

	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("expected plot.WriterTo() returns nil err; got err = %w", err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("could not encode histogram png: err = %w", err)
	}
	return buf.Bytes(), nil
}
