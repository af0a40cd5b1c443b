// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchreport draws the standard report figures from benchmark
// results.
//
// Usage:
//
//	benchreport -results ringq_results.csv [-out dir] [-series] [-html]
//	benchreport -db bench.db [-out dir] [-series] [-html]
//
// Results come from a result CSV written by the benchmark binary or
// from a sqlite3 archive built with benchmatrix -archive. Figures go
// to the -out directory, docs/fig by default.
//
// A chart whose data is missing or malformed is reported on stderr
// and skipped; the remaining charts are still written. Only a
// failure to load the results, or to write a requested -series or
// -html artifact, exits nonzero.
//
// With -series, each line chart's points are also written in CSV
// form next to its figure. With -html, report.html collects every
// chart's figure and points in one page.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aclements/go-gg/table"

	"github.com/ringq/perf/benchchart"
	"github.com/ringq/perf/benchcsv"
	"github.com/ringq/perf/benchdb"
	_ "github.com/ringq/perf/benchdb/sqlite3"
)

func main() {
	log.SetPrefix("benchreport: ")
	log.SetFlags(0)
	if err := benchreport(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// benchreport runs the command with the given output streams and
// arguments. It is a function so tests can run it in process.
func benchreport(w, wErr io.Writer, args []string) error {
	fs := flag.NewFlagSet("benchreport", flag.ContinueOnError)
	fs.SetOutput(wErr)
	var (
		flagResults = fs.String("results", "", "read results from csv `file`")
		flagDB      = fs.String("db", "", "read results from the sqlite3 archive at `file`")
		flagOut     = fs.String("out", filepath.Join("docs", "fig"), "write figures into `dir`")
		flagSeries  = fs.Bool("series", false, "write each line chart's points as csv next to its figure")
		flagHTML    = fs.Bool("html", false, "write report.html collecting every chart")
	)
	fs.Usage = func() {
		fmt.Fprintf(wErr, "usage: benchreport {-results file.csv | -db file.db} [options]\n")
		fmt.Fprintf(wErr, "options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*flagResults == "") == (*flagDB == "") || fs.NArg() > 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	tab, err := load(*flagResults, *flagDB)
	if err != nil {
		return err
	}

	var report []reportChart
	for _, c := range benchchart.Standard {
		path := filepath.Join(*flagOut, c.Name)
		var series []benchchart.Series
		if c.Series != nil {
			if series, err = c.Series(tab); err != nil {
				fmt.Fprintf(wErr, "%s: %v\n", c.Name, err)
				continue
			}
		}
		if err := c.Write(tab, path); err != nil {
			fmt.Fprintf(wErr, "%s: %v\n", c.Name, err)
			continue
		}
		if *flagSeries && series != nil {
			csvPath := strings.TrimSuffix(path, ".png") + ".csv"
			if err := writeSeriesFile(csvPath, series); err != nil {
				return err
			}
		}
		report = append(report, reportChart{Name: c.Name, Series: series})
	}

	if *flagHTML {
		return writeReport(filepath.Join(*flagOut, "report.html"), report)
	}
	return nil
}

func load(results, dsn string) (*table.Table, error) {
	if results != "" {
		return benchcsv.ReadFile(results)
	}
	db, err := benchdb.OpenSQL("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Rows(context.Background(), "")
}

func writeSeriesFile(path string, series []benchchart.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := benchchart.WriteSeriesCSV(f, series); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
