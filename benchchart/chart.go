// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchchart draws the standard report figures from a result
// table.
//
// Each figure has a data side and a drawing side. The data builders
// (LatencySeries, ModeComparison, PinningPadding, PayloadEffect,
// PopHistogram) reduce a result table to plain series values; the
// Write functions render those to PNG. Standard ties them together in
// the order the report presents them.
package benchchart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/aclements/go-gg/table"

	"github.com/ringq/perf/benchcsv"
)

// Series colors, in draw order.
var seriesColors = []color.Color{
	color.NRGBA{0x1f, 0x77, 0xb4, 0xff}, // blue
	color.NRGBA{0xff, 0x7f, 0x0e, 0xff}, // orange
	color.NRGBA{0x2c, 0xa0, 0x2c, 0xff}, // green
	color.NRGBA{0xd6, 0x27, 0x28, 0xff}, // red
}

func seriesColor(i int) color.Color {
	return seriesColors[i%len(seriesColors)]
}

// A LineChart renders series as lines with point markers.
type LineChart struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series

	// LogX draws a logarithmic x axis.
	LogX bool

	// MillionsY writes y tick labels as millions, "2.5M".
	MillionsY bool

	// NominalX replaces the numeric x axis with fixed labels;
	// series x values index into it.
	NominalX []string
}

// WritePNG renders the chart to path, creating the directory if
// needed.
func (c *LineChart) WritePNG(path string) error {
	pl := plot.New()
	pl.Title.Text = c.Title
	pl.X.Label.Text = c.XLabel
	pl.Y.Label.Text = c.YLabel

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	hasPoints := false
	for _, s := range c.Series {
		if len(s.X) > 0 {
			hasPoints = true
		}
	}
	if c.LogX && hasPoints {
		pl.X.Scale = plot.LogScale{}
		pl.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if c.MillionsY {
		pl.Y.Tick.Marker = millionsTicks{}
	}

	for i, s := range c.Series {
		if len(s.X) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.X))
		for j := range s.X {
			xys[j] = plotter.XY{X: s.X[j], Y: s.Y[j]}
		}
		l, p, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		clr := seriesColor(i)
		l.Color = clr
		p.GlyphStyle.Color = clr
		p.GlyphStyle.Radius = vg.Points(3)
		pl.Add(l, p)
		pl.Legend.Add(s.Label, l, p)
	}
	if len(c.NominalX) > 0 {
		pl.NominalX(c.NominalX...)
	}
	pl.Legend.Top = true
	return writePNG(pl, path)
}

// millionsTicks labels the default tick positions as millions.
type millionsTicks struct{}

func (millionsTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, t := range ticks {
		if t.Label == "" {
			continue
		}
		ticks[i].Label = fmt.Sprintf("%.1fM", t.Value)
	}
	return ticks
}

// WriteHistogramChart renders a trimmed latency histogram as
// contiguous bars with dashed percentile marker lines.
func WriteHistogramChart(path string, h *HistogramData) error {
	pl := plot.New()
	pl.Title.Text = "Consumer Latency Histogram at 4p4c"
	pl.X.Label.Text = fmt.Sprintf("Latency (ns) [bucket width = %gns]", h.BucketNS)
	pl.Y.Label.Text = "Count (millions)"

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	// Bars drawn as a filled step line: bucket i spans
	// [i*W, (i+1)*W) at its count.
	xys := make(plotter.XYs, 0, len(h.Counts)+1)
	var peak float64
	for i, v := range h.Counts {
		xys = append(xys, plotter.XY{X: float64(i) * h.BucketNS, Y: v})
		if v > peak {
			peak = v
		}
	}
	if n := len(h.Counts); n > 0 {
		xys = append(xys, plotter.XY{X: float64(n) * h.BucketNS, Y: h.Counts[n-1]})
	}
	bars, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	bars.StepStyle = plotter.PostStep
	bars.Color = seriesColor(0)
	bars.FillColor = color.NRGBA{0x1f, 0x77, 0xb4, 0xb0}
	pl.Add(bars)

	if peak == 0 {
		// Keep the marker lines visible over an all-zero
		// histogram.
		peak = 1
	}
	for _, m := range []struct {
		name string
		x    float64
		clr  color.Color
	}{
		{"p50", h.P50, seriesColors[2]},
		{"p99", h.P99, seriesColors[1]},
		{"p999", h.P999, seriesColors[3]},
	} {
		v, err := plotter.NewLine(plotter.XYs{{X: m.x, Y: 0}, {X: m.x, Y: peak}})
		if err != nil {
			return err
		}
		v.Color = m.clr
		v.Width = vg.Points(1.5)
		v.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		pl.Add(v)
		pl.Legend.Add(m.name, v)
	}
	pl.Legend.Top = true
	return writePNG(pl, path)
}

// writePNG renders pl at 8x6 inches, 300 DPI.
func writePNG(pl *plot.Plot, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(8*vg.Inch, 6*vg.Inch),
		vgimg.UseDPI(300),
		vgimg.UseBackgroundColor(color.White),
	)}
	pl.Draw(draw.New(can))
	if _, err := can.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePopHist writes the 4p4c latency histogram. It returns
// ErrNoData when no run matches.
func WritePopHist(g table.Grouping, path string) error {
	h, err := PopHistogram(g)
	if err != nil {
		return err
	}
	return WriteHistogramChart(path, h)
}

func threadsSeries(g table.Grouping) ([]Series, error) {
	return LatencySeries(g, SuiteVaryThreads, benchcsv.ColConsumers)
}

// WriteLatencyVsThreads writes pop latency percentiles against
// thread count.
func WriteLatencyVsThreads(g table.Grouping, path string) error {
	series, err := threadsSeries(g)
	if err != nil {
		return err
	}
	c := LineChart{
		Title:  "Latency vs Threads",
		XLabel: "Threads (producers = consumers)",
		YLabel: "Latency (ns)",
		Series: series,
	}
	return c.WritePNG(path)
}

func capacitySeries(g table.Grouping) ([]Series, error) {
	return LatencySeries(g, SuiteVaryCapacity, benchcsv.ColCapacity)
}

// WriteLatencyVsCapacity writes pop latency percentiles against ring
// capacity on a log x axis.
func WriteLatencyVsCapacity(g table.Grouping, path string) error {
	series, err := capacitySeries(g)
	if err != nil {
		return err
	}
	c := LineChart{
		Title:  "Latency vs Capacity",
		XLabel: "Capacity",
		YLabel: "Latency (ns)",
		Series: series,
		LogX:   true,
	}
	return c.WritePNG(path)
}

// WriteModeComparison writes blocking against non-blocking
// throughput.
func WriteModeComparison(g table.Grouping, path string) error {
	series, err := ModeComparison(g)
	if err != nil {
		return err
	}
	c := LineChart{
		Title:     "Blocking vs Non-blocking Throughput (MPMC)",
		XLabel:    "Threads (producers = consumers)",
		YLabel:    "Throughput (ops/s)",
		Series:    series,
		MillionsY: true,
	}
	return c.WritePNG(path)
}

// bucketSeries lays bucket lines over the fixed percentile x axis.
func bucketSeries(lines []BucketLine) []Series {
	out := make([]Series, len(lines))
	for i, l := range lines {
		out[i] = Series{Label: l.Label, X: []float64{0, 1, 2}, Y: l.Y[:]}
	}
	return out
}

func pinningSeries(g table.Grouping) ([]Series, error) {
	lines, err := PinningPadding(g)
	if err != nil {
		return nil, err
	}
	return bucketSeries(lines), nil
}

// WritePinningPadding writes latency percentiles bucketed by the
// pinning and padding flags.
func WritePinningPadding(g table.Grouping, path string) error {
	series, err := pinningSeries(g)
	if err != nil {
		return err
	}
	c := LineChart{
		Title:    "Consumer Latency vs Pinning / Padding at 4p4c",
		XLabel:   "Percentile",
		YLabel:   "Latency (ns)",
		Series:   series,
		NominalX: BucketPercentiles,
	}
	return c.WritePNG(path)
}

func payloadSeries(g table.Grouping) ([]Series, error) {
	lines, err := PayloadEffect(g)
	if err != nil {
		return nil, err
	}
	return bucketSeries(lines), nil
}

// WritePayload writes latency percentiles bucketed by the payload
// flags.
func WritePayload(g table.Grouping, path string) error {
	series, err := payloadSeries(g)
	if err != nil {
		return err
	}
	c := LineChart{
		Title:    "Consumer Latency vs Payload Type at 4p4c",
		XLabel:   "Percentile",
		YLabel:   "Latency (ns)",
		Series:   series,
		NominalX: BucketPercentiles,
	}
	return c.WritePNG(path)
}

// A Chart is one standard report figure.
type Chart struct {
	// Name is the output file name under the figure directory.
	Name string

	// Series builds the chart's line data, for callers that also
	// want it in tabular form. The histogram chart leaves it nil.
	Series func(table.Grouping) ([]Series, error)

	// Write renders the chart to path.
	Write func(g table.Grouping, path string) error
}

// Standard lists the report's charts in the order they are written.
var Standard = []Chart{
	{Name: "pop_hist.png", Write: WritePopHist},
	{Name: "latency_vs_threads.png", Series: threadsSeries, Write: WriteLatencyVsThreads},
	{Name: "latency_vs_capacity.png", Series: capacitySeries, Write: WriteLatencyVsCapacity},
	{Name: "mode_comparison.png", Series: ModeComparison, Write: WriteModeComparison},
	{Name: "latency_vs_pinning_padding.png", Series: pinningSeries, Write: WritePinningPadding},
	{Name: "latency_vs_payload.png", Series: payloadSeries, Write: WritePayload},
}
