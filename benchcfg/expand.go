// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcfg

// A Setting is one parameter fixed to one value.
type Setting struct {
	Name  string
	Value string
}

// A Combo fixes every parameter of a suite to a single value, in the
// suite's declaration order.
type Combo []Setting

// Combos enumerates the cross product of the suite's parameter values.
// The first declared parameter varies slowest, the last fastest, so
// the order is deterministic for a given config. A suite with no
// parameters has exactly one empty combination; a parameter with no
// values has none.
func (s *Suite) Combos() []Combo {
	n := 1
	for _, p := range s.Params {
		n *= len(p.Values)
	}
	if n == 0 {
		return nil
	}
	combos := make([]Combo, 0, n)
	idx := make([]int, len(s.Params))
	for {
		c := make(Combo, len(s.Params))
		for i, p := range s.Params {
			c[i] = Setting{Name: p.Name, Value: p.Values[idx[i]]}
		}
		combos = append(combos, c)
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(s.Params[i].Values) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return combos
}

// TotalRuns is the number of invocations the suites will attempt:
// the sum over suites of repeats times combinations, counting
// non-positive repeats as zero. The runner's completed count ends at
// exactly this value.
func TotalRuns(suites []Suite) int {
	total := 0
	for i := range suites {
		r := suites[i].Repeats
		if r < 0 {
			r = 0
		}
		total += r * len(suites[i].Combos())
	}
	return total
}
