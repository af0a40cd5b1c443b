// Copyright 2025 The RingQ Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchrun drives the benchmark binary across a suite matrix.
//
// A Runner invokes the binary once per suite, combination, and repeat,
// sequentially. Runs append to a shared CSV, so they must never
// overlap. A failed invocation is logged and the matrix moves on; the
// caller opts into stopping early with FailFast.
package benchrun

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ringq/perf/benchcfg"
)

// A Runner invokes one benchmark binary for every run of a suite
// matrix.
type Runner struct {
	// Bench is the path of the benchmark binary.
	Bench string

	// CSV is the result file path passed to every run as --csv.
	CSV string

	// FailFast stops the matrix at the first failed invocation.
	FailFast bool

	// Progress receives a progress line before each run. It
	// defaults to os.Stdout.
	Progress io.Writer

	// Stdout and Stderr are handed to the benchmark binary. They
	// default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// Log reports failed invocations. It defaults to the standard
	// logger.
	Log *logrus.Logger
}

// Run executes every run of suites in order: suites as listed, each
// suite's combinations in declaration order, and each combination's
// repeats back to back. It returns the number of runs attempted.
//
// A run that fails to start or exits nonzero is logged and does not
// stop the matrix unless FailFast is set. Cancelling ctx kills any
// run in flight and returns the context's error.
func (r *Runner) Run(ctx context.Context, suites []benchcfg.Suite) (int, error) {
	if r.Bench == "" {
		return 0, errors.New("no benchmark binary")
	}
	if r.CSV == "" {
		return 0, errors.New("no result csv path")
	}
	progress, log := r.Progress, r.Log
	if progress == nil {
		progress = os.Stdout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	total := benchcfg.TotalRuns(suites)
	n := 0
	for si, suite := range suites {
		combos := suite.Combos()
		for ci, combo := range combos {
			args := make([]string, 0, 2*len(combo)+4)
			for _, s := range combo {
				args = append(args, "--"+s.Name, s.Value)
			}
			if suite.Notes != "" {
				args = append(args, "--notes", suite.Notes)
			}
			args = append(args, "--csv", r.CSV)

			for rep := 0; rep < suite.Repeats; rep++ {
				if err := ctx.Err(); err != nil {
					return n, err
				}
				n++
				fmt.Fprintf(progress, "\n[%d/%d] Suite %d/%d, Combo %d/%d, Repeat %d/%d\n",
					n, total, si+1, len(suites), ci+1, len(combos), rep+1, suite.Repeats)

				cmd := exec.CommandContext(ctx, r.Bench, args...)
				cmd.Stdout, cmd.Stderr = r.Stdout, r.Stderr
				if cmd.Stdout == nil {
					cmd.Stdout = os.Stdout
				}
				if cmd.Stderr == nil {
					cmd.Stderr = os.Stderr
				}
				if err := cmd.Run(); err != nil {
					if ctx.Err() != nil {
						return n, ctx.Err()
					}
					log.Warnf("benchmark run failed (suite %d/%d, combo %d/%d, repeat %d/%d): %v",
						si+1, len(suites), ci+1, len(combos), rep+1, suite.Repeats, err)
					if r.FailFast {
						return n, errors.Wrapf(err, "suite %d, combo %d, repeat %d", si+1, ci+1, rep+1)
					}
				}
			}
		}
	}
	return n, nil
}
