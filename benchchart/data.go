// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"errors"
	"fmt"

	"github.com/aclements/go-gg/table"

	"github.com/ringq/perf/benchagg"
	"github.com/ringq/perf/benchcsv"
	"github.com/ringq/perf/benchhist"
)

// Suite labels of the standard experiment matrix.
const (
	SuiteVaryThreads            = "MPMC-vary-threads"
	SuiteNonblockingVaryThreads = "MPMC-nonblocking-vary-threads"
	SuiteVaryCapacity           = "MPMC-vary-capacity"
	SuiteVaryPinningPadding     = "MPMC-vary-pinning-padding"
	SuiteVaryPayload            = "MPMC-vary-payload"
)

// ErrNoData reports that a chart has no matching rows to draw.
var ErrNoData = errors.New("no matching rows")

// A Series is one plotted line: a label and aligned x/y points.
type Series struct {
	Label string
	X, Y  []float64
}

// LatencySeries builds the p50, p99, and p999 series of mean pop
// latency against the key column, for rows labeled label. Absent
// data yields empty series, not an error.
func LatencySeries(g table.Grouping, label, key string) ([]Series, error) {
	series := make([]Series, 0, 3)
	for _, m := range []struct{ name, col string }{
		{"p50", benchcsv.ColPopLatP50},
		{"p99", benchcsv.ColPopLatP99},
		{"p999", benchcsv.ColPopLatP999},
	} {
		tab, err := benchagg.Avg(g, label, key, m.col)
		if err != nil {
			return nil, err
		}
		var x, y []float64
		if tab.Len() > 0 {
			if x, err = floatColumn(key, tab.MustColumn(key)); err != nil {
				return nil, err
			}
			means := tab.MustColumn("mean " + m.col).([]int64)
			y = make([]float64, len(means))
			for i, v := range means {
				y[i] = float64(v)
			}
		}
		series = append(series, Series{Label: m.name, X: x, Y: y})
	}
	return series, nil
}

// ModeComparison builds the blocking and non-blocking throughput
// series against thread count. The single-thread point is dropped
// and throughput is reported in millions of ops per second.
func ModeComparison(g table.Grouping) ([]Series, error) {
	out := make([]Series, 0, 2)
	for _, c := range []struct{ label, name string }{
		{SuiteVaryThreads, "Blocking throughput"},
		{SuiteNonblockingVaryThreads, "Non-blocking throughput"},
	} {
		tab, err := benchagg.Avg(g, c.label, benchcsv.ColConsumers, benchcsv.ColPopOpsPerSec)
		if err != nil {
			return nil, err
		}
		var x, y []float64
		if tab.Len() > 0 {
			if x, err = floatColumn(benchcsv.ColConsumers, tab.MustColumn(benchcsv.ColConsumers)); err != nil {
				return nil, err
			}
			means := tab.MustColumn("mean " + benchcsv.ColPopOpsPerSec).([]int64)
			y = make([]float64, len(means))
			for i, v := range means {
				y[i] = float64(v) / 1e6
			}
			x, y = x[1:], y[1:]
		}
		out = append(out, Series{Label: c.name, X: x, Y: y})
	}
	return out, nil
}

// A BucketLine is one line of a flag-bucket chart. Y holds the mean
// latencies for the percentiles in BucketPercentiles order.
type BucketLine struct {
	Label string
	Y     [3]float64
}

// BucketPercentiles are the x tick labels shared by the bucket
// charts.
var BucketPercentiles = []string{"p50", "p99", "p999"}

// bucketPairs is the order bucket lines appear in, and therefore the
// order of chart legends.
var bucketPairs = []benchagg.FlagPair{{A: 0, B: 0}, {A: 0, B: 1}, {A: 1, B: 0}, {A: 1, B: 1}}

func bucketLines(g table.Grouping, label, flagA, flagB string, names map[benchagg.FlagPair]string) ([]BucketLine, error) {
	buckets, err := benchagg.PercentileBuckets(g, label, flagA, flagB)
	if err != nil {
		return nil, err
	}
	var lines []BucketLine
	for _, pair := range bucketPairs {
		s, ok := buckets[pair]
		if !ok {
			continue
		}
		lines = append(lines, BucketLine{
			Label: names[pair],
			Y:     [3]float64{s.P50, s.P99, s.P999},
		})
	}
	return lines, nil
}

// PinningPadding buckets the pinning suite's latencies by the pinning
// and padding flags.
func PinningPadding(g table.Grouping) ([]BucketLine, error) {
	return bucketLines(g, SuiteVaryPinningPadding, benchcsv.ColPinning, benchcsv.ColPadding,
		map[benchagg.FlagPair]string{
			{A: 0, B: 0}: "No pinning, No padding",
			{A: 0, B: 1}: "No pinning, Padding",
			{A: 1, B: 0}: "Pinning, No padding",
			{A: 1, B: 1}: "Pinning, Padding",
		})
}

// PayloadEffect buckets the payload suite's latencies by the payload
// size and move-only flags.
func PayloadEffect(g table.Grouping) ([]BucketLine, error) {
	return bucketLines(g, SuiteVaryPayload, benchcsv.ColLargePayload, benchcsv.ColMoveOnlyPayload,
		map[benchagg.FlagPair]string{
			{A: 0, B: 0}: "Small payload, Copy",
			{A: 0, B: 1}: "Small payload, Move",
			{A: 1, B: 0}: "Large payload, Copy",
			{A: 1, B: 1}: "Large payload, Move",
		})
}

// HistogramData is one run's pop latency histogram, trimmed for
// display, with the run's percentile latencies for marker lines.
type HistogramData struct {
	Counts   []float64 // bucket counts in millions
	BucketNS float64   // bucket width in nanoseconds
	P50      float64   // percentile latencies in nanoseconds
	P99      float64
	P999     float64
}

// Result files that predate the hist_bucket_ns column used 5ns
// buckets.
const defaultBucketNS = 5

// PopHistogram extracts the histogram of the first vary-threads run
// with four producers. It returns ErrNoData when no row matches. A
// histogram string that fails to parse is an error for this chart
// only; other charts read different columns.
func PopHistogram(g table.Grouping) (*HistogramData, error) {
	t := table.Flatten(g)
	for _, name := range []string{
		benchcsv.ColNotes, benchcsv.ColProducers, benchcsv.ColPopHistBins,
		benchcsv.ColPopLatP50, benchcsv.ColPopLatP99, benchcsv.ColPopLatP999,
	} {
		if t.Column(name) == nil {
			return nil, fmt.Errorf("unknown column %q", name)
		}
	}
	if t.Len() == 0 {
		// A header-only table types every column as []string.
		return nil, ErrNoData
	}
	notes, ok := t.Column(benchcsv.ColNotes).([]string)
	if !ok {
		return nil, fmt.Errorf("column %q is not a string column", benchcsv.ColNotes)
	}
	hists, ok := t.Column(benchcsv.ColPopHistBins).([]string)
	if !ok {
		return nil, fmt.Errorf("column %q is not a string column", benchcsv.ColPopHistBins)
	}
	producers, ok := t.Column(benchcsv.ColProducers).([]int)
	if !ok {
		return nil, fmt.Errorf("column %q is not an integer column", benchcsv.ColProducers)
	}

	for i := range notes {
		if notes[i] != SuiteVaryThreads || producers[i] != 4 {
			continue
		}
		bins, err := benchhist.ParseBins(hists[i])
		if err != nil {
			return nil, err
		}
		h := benchhist.Trim(bins, benchhist.DefaultRatio, benchhist.DefaultPad)
		counts := make([]float64, len(h))
		for j, v := range h {
			counts[j] = float64(v) / 1e6
		}
		d := &HistogramData{Counts: counts, BucketNS: bucketWidth(t, i)}
		for _, p := range []struct {
			col string
			dst *float64
		}{
			{benchcsv.ColPopLatP50, &d.P50},
			{benchcsv.ColPopLatP99, &d.P99},
			{benchcsv.ColPopLatP999, &d.P999},
		} {
			v, ok := cellFloat(t.Column(p.col), i)
			if !ok {
				return nil, fmt.Errorf("column %q is not numeric", p.col)
			}
			*p.dst = v
		}
		return d, nil
	}
	return nil, ErrNoData
}

func bucketWidth(t *table.Table, i int) float64 {
	if col := t.Column(benchcsv.ColHistBucketNS); col != nil {
		if w, ok := cellFloat(col, i); ok && w > 0 {
			return w
		}
	}
	return defaultBucketNS
}

func cellFloat(col table.Slice, i int) (float64, bool) {
	switch c := col.(type) {
	case []int:
		return float64(c[i]), true
	case []float64:
		return c[i], true
	}
	return 0, false
}

func floatColumn(name string, col table.Slice) ([]float64, error) {
	switch c := col.(type) {
	case []int:
		out := make([]float64, len(c))
		for i, v := range c {
			out[i] = float64(v)
		}
		return out, nil
	case []float64:
		out := make([]float64, len(c))
		copy(out, c)
		return out, nil
	}
	return nil, fmt.Errorf("column %q is not numeric", name)
}
