// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchdb archives benchmark result rows in a SQL database.
//
// Result CSVs are transient: the benchmark binary appends to them and
// nothing dedups or dates them. The archive keeps every imported row
// with an upload time so result sets survive reruns and can be
// queried back into the same table form that package benchcsv
// produces.
package benchdb

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"

	"github.com/ringq/perf/benchcsv"
)

// DB is a handle to the archive database. It's safe for concurrent
// use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only sqlite3 is explicitly
// supported; other database engines will receive MySQL query syntax
// which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. This is used by the sqlite3 package to
// set pragmas. It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Uploaded DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS RunValues (
	RunID BIGINT UNSIGNED,
	Name VARCHAR(255),
	Value VARCHAR(8192),
	PRIMARY KEY (RunID, Name),
{{if not .sqlite3}}
	Index (Name(100), Value(100)),
{{end}}
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RunValuesNameValue ON RunValues(Name, Value);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return errors.Wrap(err, "create table")
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(Uploaded) VALUES (?)")
	return err
}

// InsertRun archives one result row. header and fields are a CSV
// header and one row of cells; they become the run's Name/Value
// pairs. It returns the new run's ID.
func (db *DB) InsertRun(ctx context.Context, header, fields []string) (id int64, err error) {
	if len(fields) != len(header) {
		return 0, errors.Errorf("row has %d fields, want %d", len(fields), len(header))
	}
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	res, err := tx.StmtContext(ctx, db.insertRun).ExecContext(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}
	var args []interface{}
	for i, name := range header {
		args = append(args, id, name, fields[i])
	}
	if len(args) > 0 {
		query := "INSERT INTO RunValues(RunID, Name, Value) VALUES " + strings.Repeat("(?, ?, ?), ", len(args)/3)
		query = strings.TrimSuffix(query, ", ")
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// ImportCSV archives every row of a result CSV. The data must parse
// as a result table, so a malformed file is rejected before anything
// is written. It returns the number of rows archived.
func (db *DB) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, errors.New("missing header row")
	}
	if _, err := benchcsv.NewTable(records[0], records[1:]); err != nil {
		return 0, err
	}
	for i, row := range records[1:] {
		if _, err := db.InsertRun(ctx, records[0], row); err != nil {
			return i, errors.Wrapf(err, "row %d", i+1)
		}
	}
	return len(records) - 1, nil
}

// CountRuns returns the number of runs in the archive.
func (db *DB) CountRuns(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Runs").Scan(&n)
	return n, err
}

// Rows reads the archive back as one result table, in run order. A
// non-empty label keeps only runs whose notes cell equals it; ""
// keeps every run. Columns come out in their canonical positions; a
// column a run never reported reads as an empty cell. No matching
// runs yields a table with the canonical columns and no rows.
func (db *DB) Rows(ctx context.Context, label string) (*table.Table, error) {
	query := "SELECT RunID, Name, Value FROM RunValues ORDER BY RunID"
	var args []interface{}
	if label != "" {
		query = "SELECT RunID, Name, Value FROM RunValues WHERE RunID IN " +
			"(SELECT RunID FROM RunValues WHERE Name = ? AND Value = ?) ORDER BY RunID"
		args = append(args, benchcsv.ColNotes, label)
	}
	rows, err := db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	byRun := make(map[int64]map[string]string)
	names := make(map[string]bool)
	for rows.Next() {
		var id int64
		var name, value string
		if err := rows.Scan(&id, &name, &value); err != nil {
			return nil, err
		}
		m := byRun[id]
		if m == nil {
			m = make(map[string]string)
			byRun[id] = m
			ids = append(ids, id)
		}
		m[name] = value
		names[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return benchcsv.NewTable(benchcsv.AllColumns, nil)
	}

	header := canonicalHeader(names)
	data := make([][]string, len(ids))
	for i, id := range ids {
		row := make([]string, len(header))
		for j, name := range header {
			row[j] = byRun[id][name]
		}
		data[i] = row
	}
	return benchcsv.NewTable(header, data)
}

// canonicalHeader orders the archived column names the way the
// benchmark binary writes them. Names the binary never writes sort
// to the end.
func canonicalHeader(names map[string]bool) []string {
	header := make([]string, 0, len(names))
	for _, name := range benchcsv.AllColumns {
		if names[name] {
			header = append(header, name)
			delete(names, name)
		}
	}
	extra := make([]string, 0, len(names))
	for name := range names {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	return append(header, extra...)
}

// Close closes the database connections, releasing any open
// resources.
func (db *DB) Close() error {
	if err := db.insertRun.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
