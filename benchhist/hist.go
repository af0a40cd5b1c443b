// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchhist decodes and trims the latency histograms recorded
// by the ringq benchmark binary.
//
// The binary reports each latency histogram as a single CSV field
// containing semicolon-joined bucket counts, one count per fixed-width
// bucket starting at zero. Histograms are sized for worst-case
// latencies, so in healthy runs almost all trailing buckets are zero
// or near zero; Trim cuts that tail off before plotting.
package benchhist

import (
	"fmt"
	"strconv"
	"strings"
)

// Default Trim parameters. A bucket survives if its count is at least
// DefaultRatio of the peak bucket's count, plus DefaultPad buckets of
// context after the last survivor.
const (
	DefaultRatio = 0.005
	DefaultPad   = 2
)

// ParseBins decodes a semicolon-joined list of integer bucket counts.
// It returns an error if any field is not an integer, including empty
// fields from stray separators.
func ParseBins(s string) ([]int, error) {
	fields := strings.Split(s, ";")
	h := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("histogram bin %d: bad count %q", i, f)
		}
		h[i] = n
	}
	return h, nil
}

// String encodes bucket counts in the benchmark binary's format,
// semicolon-joined with no spaces. It is the inverse of ParseBins.
func String(h []int) string {
	fields := make([]string, len(h))
	for i, n := range h {
		fields[i] = strconv.Itoa(n)
	}
	return strings.Join(fields, ";")
}

// Trim drops the low-count tail of a histogram. It finds the rightmost
// bucket whose count is at least r times the peak count and keeps
// everything up to it plus pad extra buckets. If no bucket reaches the
// threshold (an all-zero histogram), only the first bucket counts as a
// survivor. The result is a prefix of h sharing its backing array;
// it is never longer than h.
func Trim(h []int, r float64, pad int) []int {
	if len(h) == 0 {
		return h
	}
	peak := h[0]
	for _, n := range h[1:] {
		if n > peak {
			peak = n
		}
	}
	last := 0
	if peak > 0 {
		threshold := float64(peak) * r
		for i := len(h) - 1; i >= 0; i-- {
			if float64(h[i]) >= threshold {
				last = i
				break
			}
		}
	}
	end := last + pad + 1
	if end > len(h) {
		end = len(h)
	}
	return h[:end]
}
