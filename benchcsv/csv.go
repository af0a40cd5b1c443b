// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchcsv reads the result CSV written by the ringq
// benchmark binary into a columnar table for aggregation.
//
// Tables are the go-gg table type: each CSV column becomes one typed
// column slice. A column whose values all parse as integers becomes
// []int, otherwise all-float becomes []float64, otherwise []string.
// The notes and histogram columns always stay strings; a label like
// "4096" or a one-bucket histogram must not turn them numeric.
//
// Readers declare the columns they need up front and loading fails if
// any are missing, so a renamed column surfaces as one clear error
// instead of a zero-filled series downstream.
package benchcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aclements/go-gg/table"
)

// stringCols are never type-coerced.
var stringCols = map[string]bool{
	ColNotes:        true,
	ColPushHistBins: true,
	ColPopHistBins:  true,
}

// ReadFile reads the result table at path. See Read.
func ReadFile(path string, required ...string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Read(f, required...)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return t, nil
}

// Read parses a result CSV. The header row is mandatory; a file with
// a header and no rows yields a table with zero rows. The notes
// column and every column in required must be present.
func Read(r io.Reader, required ...string) (*table.Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	return NewTable(records[0], records[1:], required...)
}

// NewTable builds a typed result table from a header and rows of
// cells. It is the common constructor behind Read and the archive
// database's queries.
func NewTable(header []string, rows [][]string, required ...string) (*table.Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("no columns")
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := index[name]; ok {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}

	var missing []string
	seen := map[string]bool{}
	for _, name := range append([]string{ColNotes}, required...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, want %d", i+1, len(row), len(header))
		}
	}

	t := table.TableFromStrings(header, rows, true)

	// Undo coercion on columns that must stay strings.
	for name := range stringCols {
		i, ok := index[name]
		if !ok {
			continue
		}
		if _, isStr := t.Column(name).([]string); isStr {
			continue
		}
		raw := make([]string, len(rows))
		for j, row := range rows {
			raw[j] = row[i]
		}
		t = table.NewBuilder(t).Add(name, raw).Done()
	}
	return t, nil
}
