// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ringq/perf/benchdb"
)

const sampleResults = `producers,consumers,capacity,pinning_on,padding_on,large_payload,move_only_payload,pop_ops_per_sec,pop_lat_p50_ns,pop_lat_p99_ns,pop_lat_p999_ns,hist_bucket_ns,pop_hist_bins,notes
1,1,1024,0,0,0,0,10000000,50,100,200,5,0,MPMC-vary-threads
4,4,1024,0,0,0,0,30000000,100,200,400,5,4000000;2000000;8000;0;0;0,MPMC-vary-threads
8,8,1024,0,0,0,0,20000000,150,300,600,5,0,MPMC-vary-threads
1,1,1024,0,0,0,0,5000000,60,120,240,5,0,MPMC-nonblocking-vary-threads
4,4,1024,0,0,0,0,8000000,70,140,280,5,0,MPMC-nonblocking-vary-threads
4,4,1024,0,0,0,0,9000000,80,160,320,5,0,MPMC-vary-capacity
4,4,4096,0,0,0,0,9500000,70,140,280,5,0,MPMC-vary-capacity
4,4,1024,0,0,0,0,9000000,90,180,360,5,0,MPMC-vary-pinning-padding
4,4,1024,1,1,0,0,9000000,45,90,180,5,0,MPMC-vary-pinning-padding
4,4,1024,0,0,0,1,9000000,55,110,220,5,0,MPMC-vary-payload
`

var chartNames = []string{
	"pop_hist.png",
	"latency_vs_threads.png",
	"latency_vs_capacity.png",
	"mode_comparison.png",
	"latency_vs_pinning_padding.png",
	"latency_vs_payload.png",
}

func writeResults(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ringq_results.csv")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("%s: %v", path, err)
		return
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("%s is not a PNG", path)
	}
}

func TestBenchreport(t *testing.T) {
	results := writeResults(t, sampleResults)
	out := filepath.Join(t.TempDir(), "fig")

	var stdout, stderr bytes.Buffer
	err := benchreport(&stdout, &stderr, []string{"-results", results, "-out", out, "-series", "-html"})
	if err != nil {
		t.Fatalf("benchreport: %v\nstderr:\n%s", err, stderr.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected stderr output:\n%s", stderr.String())
	}

	for _, name := range chartNames {
		assertPNG(t, filepath.Join(out, name))
	}

	// Every line chart gets a series file; the histogram does not.
	for _, name := range chartNames[1:] {
		csv := strings.TrimSuffix(name, ".png") + ".csv"
		data, err := os.ReadFile(filepath.Join(out, csv))
		if err != nil {
			t.Errorf("%s: %v", csv, err)
			continue
		}
		if !strings.HasPrefix(string(data), "series,x,y\n") {
			t.Errorf("%s does not start with the series header: %q", csv, data)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "pop_hist.csv")); !os.IsNotExist(err) {
		t.Error("series file written for the histogram chart")
	}

	html, err := os.ReadFile(filepath.Join(out, "report.html"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<h2>pop_hist.png</h2>",
		`<img src="latency_vs_threads.png"`,
		"<td>p50<td>1<td>50",
		"<td>Blocking throughput<td>4<td>30",
	} {
		if !strings.Contains(string(html), want) {
			t.Errorf("report.html missing %q", want)
		}
	}
}

func TestBenchreportDB(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "bench.db")
	db, err := benchdb.OpenSQL("sqlite3", dsn)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.ImportCSV(context.Background(), strings.NewReader(sampleResults)); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "fig")
	var stdout, stderr bytes.Buffer
	if err := benchreport(&stdout, &stderr, []string{"-db", dsn, "-out", out}); err != nil {
		t.Fatalf("benchreport: %v\nstderr:\n%s", err, stderr.String())
	}
	for _, name := range chartNames {
		assertPNG(t, filepath.Join(out, name))
	}
}

func TestBenchreportEmptyResults(t *testing.T) {
	header := sampleResults[:strings.IndexByte(sampleResults, '\n')+1]
	results := writeResults(t, header)
	out := filepath.Join(t.TempDir(), "fig")

	var stdout, stderr bytes.Buffer
	if err := benchreport(&stdout, &stderr, []string{"-results", results, "-out", out}); err != nil {
		t.Fatalf("benchreport: %v", err)
	}
	// The histogram has no run to draw and is skipped; the line
	// charts render with empty axes.
	if !strings.Contains(stderr.String(), "pop_hist.png: no matching rows") {
		t.Errorf("stderr missing histogram warning:\n%s", stderr.String())
	}
	if _, err := os.Stat(filepath.Join(out, "pop_hist.png")); !os.IsNotExist(err) {
		t.Error("histogram written despite having no data")
	}
	assertPNG(t, filepath.Join(out, "latency_vs_threads.png"))
}

func TestBenchreportLoadError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := benchreport(&stdout, &stderr, []string{"-results", filepath.Join(t.TempDir(), "absent.csv")})
	if err == nil {
		t.Error("benchreport with a missing results file succeeded, want error")
	}
}

func TestBenchreportUsage(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"-results", "a.csv", "-db", "b.db"},
	} {
		var stdout, stderr bytes.Buffer
		if err := benchreport(&stdout, &stderr, args); err != flag.ErrHelp {
			t.Errorf("benchreport(%v) = %v, want ErrHelp", args, err)
		}
		if !strings.Contains(stderr.String(), "usage: benchreport") {
			t.Errorf("stderr missing usage text:\n%s", stderr.String())
		}
	}
}
