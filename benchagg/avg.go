// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchagg summarizes benchmark result tables.
//
// The input is the columnar table produced by package benchcsv. Avg
// answers "how does one metric vary with one parameter": it filters a
// table to one suite label, groups the rows by a key column, and
// reports the mean of a metric per group as a truncated integer.
// PercentileBuckets answers the payload-style question: it buckets a
// suite's rows by two flag columns and reports the mean p50, p99, and
// p999 consumer latency per bucket.
package benchagg

import (
	"fmt"
	"reflect"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"

	"github.com/ringq/perf/benchcsv"
)

// Avg filters g to rows whose notes column equals label, groups them
// by the key column, and returns a two-column table holding each
// distinct key value and the mean of the metric column over its
// group, truncated toward zero. The mean column is named
// "mean <metric>". Rows are sorted by key: numerically when key is a
// numeric column, lexically when it is a string column.
//
// A label that matches no rows yields a table with zero rows, never
// an error. An unknown key or metric column is an error; so is a
// metric column that is not numeric when rows match.
func Avg(g table.Grouping, label, key, metric string) (*table.Table, error) {
	t := table.Flatten(g)
	for _, name := range []string{benchcsv.ColNotes, key, metric} {
		if t.Column(name) == nil {
			return nil, fmt.Errorf("unknown column %q", name)
		}
	}

	mcol := "mean " + metric
	sub := table.Flatten(table.FilterEq(t, benchcsv.ColNotes, label))
	if sub.Len() == 0 {
		// ggstat.Agg cannot aggregate an empty table. The
		// metric type goes unchecked here; a zero-row input
		// types every column as []string.
		keys := reflect.MakeSlice(reflect.TypeOf(t.Column(key)), 0, 0)
		return new(table.Builder).
			Add(key, keys.Interface()).
			Add(mcol, []int64{}).
			Done(), nil
	}

	switch t.Column(metric).(type) {
	case []int, []float64:
	default:
		return nil, fmt.Errorf("column %q is not numeric", metric)
	}

	agg := ggstat.Agg(key)(ggstat.AggMean(metric)).F(sub)
	out := table.Flatten(table.SortBy(agg, key))

	// AggMean reports means in the metric column's own type, so an
	// integer metric is already truncated. Reduce both cases to
	// int64.
	var means []int64
	switch col := out.MustColumn(mcol).(type) {
	case []int:
		means = make([]int64, len(col))
		for i, v := range col {
			means[i] = int64(v)
		}
	case []float64:
		means = make([]int64, len(col))
		for i, v := range col {
			means[i] = int64(v)
		}
	}
	return new(table.Builder).
		Add(key, out.MustColumn(key)).
		Add(mcol, means).
		Done(), nil
}
