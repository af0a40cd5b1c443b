// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcsv

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleCSV = `producers,consumers,capacity,pop_lat_p50_ns,pop_ops_per_sec,pop_hist_bins,notes
1,1,1024,90,12345678.5,10;20;30,MPMC-vary-threads
4,4,1024,120,23456789.5,5;1;0,"notes, quoted"
`

func TestRead(t *testing.T) {
	tab, err := Read(strings.NewReader(sampleCSV), ColPopLatP50)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tab.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tab.Len())
	}
	wantCols := []string{ColProducers, ColConsumers, ColCapacity, ColPopLatP50, ColPopOpsPerSec, ColPopHistBins, ColNotes}
	if !reflect.DeepEqual(tab.Columns(), wantCols) {
		t.Errorf("Columns = %v, want %v", tab.Columns(), wantCols)
	}

	// Integer, float, and string columns get distinct types.
	if got, want := tab.MustColumn(ColCapacity), []int{1024, 1024}; !reflect.DeepEqual(got, want) {
		t.Errorf("capacity = %#v, want %#v", got, want)
	}
	if got, want := tab.MustColumn(ColPopOpsPerSec), []float64{12345678.5, 23456789.5}; !reflect.DeepEqual(got, want) {
		t.Errorf("pop_ops_per_sec = %#v, want %#v", got, want)
	}
	if got, want := tab.MustColumn(ColNotes), []string{"MPMC-vary-threads", "notes, quoted"}; !reflect.DeepEqual(got, want) {
		t.Errorf("notes = %#v, want %#v", got, want)
	}
	if got, want := tab.MustColumn(ColPopHistBins), []string{"10;20;30", "5;1;0"}; !reflect.DeepEqual(got, want) {
		t.Errorf("pop_hist_bins = %#v, want %#v", got, want)
	}
}

func TestReadHeaderOnly(t *testing.T) {
	tab, err := Read(strings.NewReader("producers,notes\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tab.Len() != 0 {
		t.Errorf("Len = %d, want 0", tab.Len())
	}
	if got := tab.Columns(); len(got) != 2 {
		t.Errorf("Columns = %v, want 2 columns", got)
	}
}

func TestReadErrors(t *testing.T) {
	bad := func(data, wantSub string, required ...string) {
		t.Helper()
		_, err := Read(strings.NewReader(data), required...)
		if err == nil {
			t.Errorf("Read(%q) succeeded, want error containing %q", data, wantSub)
			return
		}
		if !strings.Contains(err.Error(), wantSub) {
			t.Errorf("Read(%q) error = %q, want it to contain %q", data, err, wantSub)
		}
	}

	bad("", "missing header row")
	bad("producers\n1\n", "missing columns: notes")
	bad("notes\nx\n", "missing columns: capacity, pop_lat_p50_ns", ColCapacity, ColPopLatP50)
	bad("notes,notes\na,b\n", "duplicate column")
}

func TestNewTableRaggedRow(t *testing.T) {
	// encoding/csv catches ragged rows in files; this guards direct
	// callers such as the archive database.
	_, err := NewTable([]string{ColProducers, ColNotes}, [][]string{{"1", "a"}, {"2"}})
	if err == nil || !strings.Contains(err.Error(), "row 2") {
		t.Errorf("NewTable error = %v, want it to name row 2", err)
	}
}

func TestNotesStaysString(t *testing.T) {
	// An all-numeric label column must still compare equal to the
	// query string.
	tab, err := Read(strings.NewReader("producers,notes\n1,4096\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got, want := tab.MustColumn(ColNotes), []string{"4096"}; !reflect.DeepEqual(got, want) {
		t.Errorf("notes = %#v, want %#v", got, want)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0666); err != nil {
		t.Fatal(err)
	}
	tab, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if tab.Len() != 2 {
		t.Errorf("Len = %d, want 2", tab.Len())
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("ReadFile of missing file succeeded, want error")
	}

	// Required-column errors name the file.
	if err := os.WriteFile(path, []byte("notes\n"), 0666); err != nil {
		t.Fatal(err)
	}
	_, err = ReadFile(path, ColCapacity)
	if err == nil || !strings.Contains(err.Error(), "results.csv") {
		t.Errorf("ReadFile error = %v, want it to name the file", err)
	}
}
