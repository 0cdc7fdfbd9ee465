// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package main

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/sys/cpu"

	"github.com/iofinnet/consistenttime/internal/disasm"
	"github.com/iofinnet/consistenttime/internal/timing"
)

// cpuFeatures lists the features that change how Select may be lowered or
// scheduled, so a report can be matched to the machine it came from.
func cpuFeatures(arch string) []string {
	var f []string
	add := func(name string, has bool) {
		if has {
			f = append(f, name)
		}
	}
	switch arch {
	case "amd64", "386":
		add("sse2", cpu.X86.HasSSE2)
		add("avx", cpu.X86.HasAVX)
		add("avx2", cpu.X86.HasAVX2)
		add("bmi1", cpu.X86.HasBMI1)
		add("bmi2", cpu.X86.HasBMI2)
		add("erms", cpu.X86.HasERMS)
	case "arm64":
		add("fp", cpu.ARM64.HasFP)
		add("asimd", cpu.ARM64.HasASIMD)
		add("atomics", cpu.ARM64.HasATOMICS)
		add("sve", cpu.ARM64.HasSVE)
	}
	return f
}

func renderPlatform(w io.Writer, arch string) {
	fmt.Fprintf(w, "go %s, %s/%s (binary arch %s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH, arch)
	features := "none detected"
	if arch == runtime.GOARCH {
		if f := cpuFeatures(arch); len(f) > 0 {
			features = strings.Join(f, " ")
		}
	} else {
		features = "n/a (cross-architecture audit)"
	}
	fmt.Fprintf(w, "cpu features: %s\n\n", features)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// shortName strips the import path from a symbol, keeping any instantiation
// suffix: ".../crypto/ct.Eq[go.shape.uint8]" becomes "Eq[go.shape.uint8]".
func shortName(symbol string) string {
	name := symbol[strings.LastIndex(symbol, "/")+1:]
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func renderAudit(w io.Writer, funcs []*disasm.Function, rules []disasm.Rule) {
	bySymbol := make(map[string]*disasm.Function, len(funcs))
	for _, f := range funcs {
		bySymbol[f.Symbol] = f
	}
	table := newTable(w, []string{"Symbol", "Instructions", "Cond. branches", "Cond. moves", "Verdict"})
	for _, r := range rules {
		short := shortName(r.Symbol)
		f, ok := bySymbol[r.Symbol]
		if !ok {
			table.Append([]string{short, "-", "-", "-", "MISSING"})
			continue
		}
		verdict := "ok"
		if disasm.Check(funcs, []disasm.Rule{r}) != nil {
			verdict = "FAIL"
		}
		table.Append([]string{
			short,
			strconv.Itoa(len(f.Instructions)),
			strconv.Itoa(disasm.CondBranches(f)),
			strconv.Itoa(f.Count(disasm.CondMove)),
			verdict,
		})
	}
	table.Render()
	fmt.Fprintln(w)
}

// renderTiming prints results and reports whether none of them leaked.
func renderTiming(w io.Writer, results []*timing.Result) bool {
	clean := true
	table := newTable(w, []string{"Experiment", "Samples", "Mean class 0", "Mean class 1", "t", "Cropped t", "Verdict"})
	for _, r := range results {
		verdict := "ok"
		if r.Leaky() {
			verdict = "LEAK"
			clean = false
		}
		table.Append([]string{
			r.Name,
			fmt.Sprintf("%d/%d", r.Samples[0], r.Samples[1]),
			r.Mean[0].String(),
			r.Mean[1].String(),
			strconv.FormatFloat(r.T, 'f', 2, 64),
			strconv.FormatFloat(r.CroppedT, 'f', 2, 64),
			verdict,
		})
	}
	table.Render()
	fmt.Fprintln(w)
	return clean
}
