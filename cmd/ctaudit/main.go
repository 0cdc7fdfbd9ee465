// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Command ctaudit validates the ct primitives on the current target.
//
// Usage:
//
//	go test -c -o ct.test ./crypto/ct
//	ctaudit -binary ct.test            # disassembly audit
//	ctaudit -timing -n 50000 -len 256  # differential timing
//
// The disassembly audit checks that the equality and select kernels contain
// no conditional branch and that the slice operations reach them. The timing
// run measures every primitive for every width with inputs that differ only in
// a secret property and reports Welch's t statistic. ctaudit exits with status
// 1 if either finds a problem.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/iofinnet/consistenttime/common"
	"github.com/iofinnet/consistenttime/internal/disasm"
	"github.com/iofinnet/consistenttime/internal/timing"
)

const defaultPkg = "github.com/iofinnet/consistenttime/crypto/ct"

var (
	binary       = flag.String("binary", "", "binary to disassemble (e.g. a test binary built with go test -c)")
	arch         = flag.String("arch", runtime.GOARCH, "GOARCH the binary was built for")
	pkg          = flag.String("pkg", defaultPkg, "import path of the ct package inside the binary")
	runTiming    = flag.Bool("timing", false, "run the differential timing experiments")
	measurements = flag.Int("n", timing.DefaultMeasurements, "measurements per timing experiment")
	batch        = flag.Int("batch", timing.DefaultBatch, "calls per measurement")
	elements     = flag.Int("len", 256, "slice length for EqSlice and Copy experiments")
	threshold    = flag.Float64("threshold", timing.DefaultThreshold, "|t| above which an experiment is reported as leaky")
	logLevel     = flag.String("loglevel", "info", "log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()
	os.Exit(run(os.Stdout))
}

func run(out io.Writer) int {
	if err := common.SetLogLevel(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if *binary == "" && !*runTiming {
		fmt.Fprintf(os.Stderr, "Error: nothing to do, pass -binary and/or -timing\n\n")
		flag.Usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	renderPlatform(out, *arch)

	status := 0
	if *binary != "" {
		ok, err := audit(ctx, out)
		if err != nil {
			common.Logger.Errorf("disassembly audit: %v", err)
			return 1
		}
		if !ok {
			status = 1
		}
	}
	if *runTiming {
		ok, err := measure(ctx, out)
		if err != nil {
			common.Logger.Errorf("timing: %v", err)
			return 1
		}
		if !ok {
			status = 1
		}
	}
	return status
}

func audit(ctx context.Context, out io.Writer) (bool, error) {
	rules := disasm.DefaultRules(*pkg)
	listing, err := disasm.Objdump(ctx, *binary, disasm.Pattern(rules))
	if err != nil {
		return false, err
	}
	funcs, err := disasm.Parse(bytes.NewReader(listing), *arch)
	if err != nil {
		return false, err
	}
	violations := disasm.Check(funcs, rules)
	renderAudit(out, funcs, rules)
	if violations != nil {
		common.Logger.Errorf("%v", violations)
		return false, nil
	}
	return true, nil
}

func measure(ctx context.Context, out io.Writer) (bool, error) {
	stream, err := common.NewStream()
	if err != nil {
		return false, err
	}
	var results []*timing.Result
	for _, exp := range timing.Experiments(stream, *elements) {
		common.Logger.Infof("measuring %s", exp.Name)
		res, err := timing.Run(ctx, exp,
			timing.WithMeasurements(*measurements),
			timing.WithBatch(*batch),
			timing.WithThreshold(*threshold),
			timing.WithStream(stream))
		if err != nil {
			return false, err
		}
		results = append(results, res)
	}
	return renderTiming(out, results), nil
}
