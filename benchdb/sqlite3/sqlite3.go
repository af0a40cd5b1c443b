// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for benchdb. It must
// be imported instead of github.com/mattn/go-sqlite3 to ensure
// foreign keys are properly honored.
package sqlite3

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ringq/perf/benchdb"
)

func init() {
	benchdb.RegisterOpenHook("sqlite3", setPragmas)
}

// setPragmas enables foreign key enforcement and waits for busy
// writers instead of failing immediately.
func setPragmas(db *sql.DB) error {
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}
