// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchmatrix runs a benchmark binary over every combination of a
// YAML suite matrix, appending one result CSV row per run.
//
// Usage:
//
//	benchmatrix -matrix benchmarks.yaml [-csv file] [-archive db] [-fail-fast]
//
// The matrix file names the benchmark binary and lists parameter
// suites:
//
//	bench: ./build/ringq_bench
//	suites:
//	  - notes: MPMC-vary-threads
//	    repeats: 3
//	    producers: [1, 2, 4, 8]
//	    consumers: [1, 2, 4, 8]
//
// Two suite keys are reserved: notes labels every row the suite
// writes, and repeats sets how often each combination runs. Every
// other key becomes a --key value argument, one run per element of
// the keys' cartesian product, in declaration order.
//
// Runs execute one at a time and share the result file named by
// -csv, which defaults to results/raw/<stem>_results.csv where
// <stem> is the matrix file name up to the first underscore. A run
// that fails is reported and the matrix moves on; -fail-fast stops
// at the first failure instead. An interrupt stops the matrix
// between runs.
//
// With -archive, the result file is imported into the named sqlite3
// database after the matrix finishes, one archive row per CSV cell.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ringq/perf/benchcfg"
	"github.com/ringq/perf/benchdb"
	_ "github.com/ringq/perf/benchdb/sqlite3"
	"github.com/ringq/perf/benchrun"
)

func main() {
	if err := benchmatrix(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		logrus.Fatal(err)
	}
}

// benchmatrix runs the command with the given output streams and
// arguments. It is a function so tests can run it in process.
func benchmatrix(w, wErr io.Writer, args []string) error {
	fs := flag.NewFlagSet("benchmatrix", flag.ContinueOnError)
	fs.SetOutput(wErr)
	var (
		flagMatrix   = fs.String("matrix", "", "read the suite matrix from yaml `file`")
		flagCSV      = fs.String("csv", "", "append result rows to `file` (default derived from the matrix name)")
		flagArchive  = fs.String("archive", "", "import the results into the sqlite3 database at `file` after the run")
		flagFailFast = fs.Bool("fail-fast", false, "stop the matrix at the first failed run")
	)
	fs.Usage = func() {
		fmt.Fprintf(wErr, "usage: benchmatrix -matrix benchmarks.yaml [options]\n")
		fmt.Fprintf(wErr, "options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *flagMatrix == "" || fs.NArg() > 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	log := logrus.New()
	log.SetOutput(wErr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := benchcfg.Load(*flagMatrix)
	if err != nil {
		return err
	}

	csvPath := *flagCSV
	if csvPath == "" {
		csvPath = defaultCSVPath(*flagMatrix)
	}
	if dir := filepath.Dir(csvPath); dir != "." {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := &benchrun.Runner{
		Bench:    cfg.Bench,
		CSV:      csvPath,
		FailFast: *flagFailFast,
		Progress: w,
		Stdout:   w,
		Stderr:   wErr,
		Log:      log,
	}
	n, err := r.Run(ctx, cfg.Suites)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nCompleted %d run(s).\n", n)

	if *flagArchive != "" {
		return archive(ctx, *flagArchive, csvPath, log)
	}
	return nil
}

// defaultCSVPath derives the result path from the matrix file name:
// ringq_full.yaml writes results/raw/ringq_results.csv.
func defaultCSVPath(matrix string) string {
	stem := filepath.Base(matrix)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	if i := strings.IndexByte(stem, '_'); i >= 0 {
		stem = stem[:i]
	}
	return filepath.Join("results", "raw", stem+"_results.csv")
}

func archive(ctx context.Context, dsn, csvPath string, log *logrus.Logger) error {
	db, err := benchdb.OpenSQL("sqlite3", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	f, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()
	n, err := db.ImportCSV(ctx, f)
	if err != nil {
		return err
	}
	log.Infof("archived %d run(s) to %s", n, dsn)
	return nil
}
