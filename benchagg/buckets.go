// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"fmt"
	"math"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"github.com/ringq/perf/benchcsv"
)

// A FlagPair identifies one bucket of a two-flag breakdown.
type FlagPair struct {
	A, B int
}

// A LatencySummary holds mean consumer pop latencies in nanoseconds.
type LatencySummary struct {
	P50  float64
	P99  float64
	P999 float64
}

// PercentileBuckets filters g to rows whose notes column equals label
// and buckets them by the integer flag columns flagA and flagB. Each
// bucket's summary holds the means of the pop latency p50, p99, and
// p999 columns over the bucket's rows.
//
// Flag pairs that never occur in the filtered rows are absent from
// the result, as are buckets whose latency data is incomplete (a NaN
// mean). A label that matches no rows yields an empty map.
func PercentileBuckets(g table.Grouping, label, flagA, flagB string) (map[FlagPair]LatencySummary, error) {
	t := table.Flatten(g)
	cols := []string{benchcsv.ColNotes, flagA, flagB,
		benchcsv.ColPopLatP50, benchcsv.ColPopLatP99, benchcsv.ColPopLatP999}
	for _, name := range cols {
		if t.Column(name) == nil {
			return nil, fmt.Errorf("unknown column %q", name)
		}
	}

	out := make(map[FlagPair]LatencySummary)
	sub := table.Flatten(table.FilterEq(t, benchcsv.ColNotes, label))
	if sub.Len() == 0 {
		return out, nil
	}
	for _, name := range []string{flagA, flagB} {
		if _, ok := sub.Column(name).([]int); !ok {
			return nil, fmt.Errorf("column %q is not an integer column", name)
		}
	}
	for _, name := range cols[3:] {
		switch sub.Column(name).(type) {
		case []int, []float64:
		default:
			return nil, fmt.Errorf("column %q is not numeric", name)
		}
	}

	buckets := table.GroupBy(sub, flagA, flagB)
	for _, gid := range buckets.Tables() {
		bt := buckets.Table(gid)
		var p50s, p99s, p999s []float64
		slice.Convert(&p50s, bt.MustColumn(benchcsv.ColPopLatP50))
		slice.Convert(&p99s, bt.MustColumn(benchcsv.ColPopLatP99))
		slice.Convert(&p999s, bt.MustColumn(benchcsv.ColPopLatP999))
		s := LatencySummary{
			P50:  stats.Mean(p50s),
			P99:  stats.Mean(p99s),
			P999: stats.Mean(p999s),
		}
		if math.IsNaN(s.P50) || math.IsNaN(s.P99) || math.IsNaN(s.P999) {
			continue
		}
		pair := FlagPair{
			A: bt.MustColumn(flagA).([]int)[0],
			B: bt.MustColumn(flagB).([]int)[0],
		}
		out[pair] = s
	}
	return out, nil
}
