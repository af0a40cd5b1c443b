// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ringq/perf/benchcsv"
)

const bucketSample = `large_payload,move_only_payload,pop_lat_p50_ns,pop_lat_p99_ns,pop_lat_p999_ns,notes
0,0,100,200,300,MPMC-vary-payload
0,0,110,210,310,MPMC-vary-payload
1,0,500,600,700,MPMC-vary-payload
0,1,105,205,305,other-suite
`

func TestPercentileBuckets(t *testing.T) {
	tab := readTable(t, bucketSample)
	got, err := PercentileBuckets(tab, "MPMC-vary-payload",
		benchcsv.ColLargePayload, benchcsv.ColMoveOnlyPayload)
	if err != nil {
		t.Fatalf("PercentileBuckets: %v", err)
	}

	want := map[FlagPair]LatencySummary{
		{0, 0}: {P50: 105, P99: 205, P999: 305},
		{1, 0}: {P50: 500, P99: 600, P999: 700},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buckets = %v, want %v", got, want)
	}
	// (0, 1) only occurs under another label and (1, 1) never
	// occurs, so neither may appear.
	for _, pair := range []FlagPair{{0, 1}, {1, 1}} {
		if _, ok := got[pair]; ok {
			t.Errorf("bucket %v present, want absent", pair)
		}
	}
}

func TestPercentileBucketsNoMatch(t *testing.T) {
	tab := readTable(t, bucketSample)
	got, err := PercentileBuckets(tab, "no-such-suite",
		benchcsv.ColLargePayload, benchcsv.ColMoveOnlyPayload)
	if err != nil {
		t.Fatalf("PercentileBuckets: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("buckets = %v, want none", got)
	}
}

func TestPercentileBucketsNaN(t *testing.T) {
	// A NaN latency makes a bucket incomplete and drops it.
	tab := readTable(t, `large_payload,move_only_payload,pop_lat_p50_ns,pop_lat_p99_ns,pop_lat_p999_ns,notes
0,0,nan,200,300,M
1,1,400,500,600,M
`)
	got, err := PercentileBuckets(tab, "M",
		benchcsv.ColLargePayload, benchcsv.ColMoveOnlyPayload)
	if err != nil {
		t.Fatalf("PercentileBuckets: %v", err)
	}
	want := map[FlagPair]LatencySummary{
		{1, 1}: {P50: 400, P99: 500, P999: 600},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buckets = %v, want %v", got, want)
	}
}

func TestPercentileBucketsErrors(t *testing.T) {
	tab := readTable(t, bucketSample)
	_, err := PercentileBuckets(tab, "MPMC-vary-payload", "bogus", benchcsv.ColMoveOnlyPayload)
	if err == nil || !strings.Contains(err.Error(), `unknown column "bogus"`) {
		t.Errorf("error = %v, want unknown column", err)
	}

	// A flag column that parsed as text is rejected.
	tab = readTable(t, `large_payload,move_only_payload,pop_lat_p50_ns,pop_lat_p99_ns,pop_lat_p999_ns,notes
yes,0,100,200,300,M
`)
	_, err = PercentileBuckets(tab, "M", benchcsv.ColLargePayload, benchcsv.ColMoveOnlyPayload)
	if err == nil || !strings.Contains(err.Error(), "not an integer column") {
		t.Errorf("error = %v, want integer column error", err)
	}
}
