// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcsv

// Column names written by the benchmark binary, in header order. The
// binary appends one row per run and writes the header only when the
// file is new, so a result file accumulates runs from many matrix
// invocations. Newer binaries may add columns; nothing here assumes
// the set is closed.
const (
	ColProducers       = "producers"
	ColConsumers       = "consumers"
	ColCapacity        = "capacity"
	ColBlocking        = "blocking"
	ColPinning         = "pinning_on"
	ColPadding         = "padding_on"
	ColLargePayload    = "large_payload"
	ColMoveOnlyPayload = "move_only_payload"
	ColWarmupMS        = "warmup_ms"
	ColDurationMS      = "duration_ms"
	ColWallTimeNS      = "wall_time_ns"

	ColPushesOK           = "pushes_ok"
	ColPopsOK             = "pops_ok"
	ColTryPushFailures    = "try_push_failures"
	ColTryPopFailures     = "try_pop_failures"
	ColTryPushFailuresPct = "try_push_failures_pct"
	ColTryPopFailuresPct  = "try_pop_failures_pct"
	ColPushOpsPerSec      = "push_ops_per_sec"
	ColPopOpsPerSec       = "pop_ops_per_sec"

	ColPushLatMin    = "push_lat_min_ns"
	ColPushLatP50    = "push_lat_p50_ns"
	ColPushLatP95    = "push_lat_p95_ns"
	ColPushLatP99    = "push_lat_p99_ns"
	ColPushLatP999   = "push_lat_p999_ns"
	ColPushLatMax    = "push_lat_max_ns"
	ColPushLatMean   = "push_lat_mean_ns"
	ColPushSpikesPct = "push_spikes_over_10x_p50_pct"

	ColPopLatMin    = "pop_lat_min_ns"
	ColPopLatP50    = "pop_lat_p50_ns"
	ColPopLatP95    = "pop_lat_p95_ns"
	ColPopLatP99    = "pop_lat_p99_ns"
	ColPopLatP999   = "pop_lat_p999_ns"
	ColPopLatMax    = "pop_lat_max_ns"
	ColPopLatMean   = "pop_lat_mean_ns"
	ColPopSpikesPct = "pop_spikes_over_10x_p50_pct"

	ColHistBucketNS = "hist_bucket_ns"
	ColPushOverflow = "push_overflow_pct"
	ColPopOverflow  = "pop_overflow_pct"
	ColPushHistBins = "push_hist_bins"
	ColPopHistBins  = "pop_hist_bins"

	ColNotes = "notes"
)

// AllColumns lists every known column in header order. The archive
// database uses it to rebuild tables with the columns in their
// canonical positions.
var AllColumns = []string{
	ColProducers, ColConsumers, ColCapacity, ColBlocking,
	ColPinning, ColPadding, ColLargePayload, ColMoveOnlyPayload,
	ColWarmupMS, ColDurationMS, ColWallTimeNS,
	ColPushesOK, ColPopsOK,
	ColTryPushFailures, ColTryPopFailures,
	ColTryPushFailuresPct, ColTryPopFailuresPct,
	ColPushOpsPerSec, ColPopOpsPerSec,
	ColPushLatMin, ColPushLatP50, ColPushLatP95, ColPushLatP99,
	ColPushLatP999, ColPushLatMax, ColPushLatMean, ColPushSpikesPct,
	ColPopLatMin, ColPopLatP50, ColPopLatP95, ColPopLatP99,
	ColPopLatP999, ColPopLatMax, ColPopLatMean, ColPopSpikesPct,
	ColHistBucketNS, ColPushOverflow, ColPopOverflow,
	ColPushHistBins, ColPopHistBins,
	ColNotes,
}
