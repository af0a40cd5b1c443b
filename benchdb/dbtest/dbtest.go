// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest provides a fresh archive database for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ringq/perf/benchdb"
	_ "github.com/ringq/perf/benchdb/sqlite3"
)

// NewDB makes a connection to a sqlite database in a test temporary
// directory. cleanup must be called when done with the testing
// database, instead of calling db.Close().
func NewDB(t *testing.T) (*benchdb.DB, func()) {
	d, err := benchdb.OpenSQL("sqlite3", filepath.Join(t.TempDir(), "bench.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	cleanup := func() {
		d.Close()
	}
	// Make sure the database really is empty.
	n, err := d.CountRuns(context.Background())
	if err != nil {
		cleanup()
		t.Fatal(err)
	}
	if n != 0 {
		cleanup()
		t.Fatalf("found %d row(s) in Runs, want 0", n)
	}
	return d, cleanup
}
