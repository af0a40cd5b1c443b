// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteSeriesCSV writes series data in long form, one row per point:
// series label, x, y. It is the tabular companion to a rendered
// chart, for readers who want the numbers.
func WriteSeriesCSV(w io.Writer, series []Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"series", "x", "y"}); err != nil {
		return err
	}
	for _, s := range series {
		for i := range s.X {
			if err := cw.Write([]string{s.Label, strof(s.X[i]), strof(s.Y[i])}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func strof(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
