// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package disasm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const morestack = "runtime.morestack"

// growsStack reports whether f has a stack-growth prologue.
func growsStack(f *Function) bool {
	for _, ins := range f.Instructions {
		if ins.Class == Call && strings.HasPrefix(ins.Target(), morestack) {
			return true
		}
	}
	return false
}

// Rule is the expectation for one symbol.
type Rule struct {
	Symbol string
	// Straight forbids conditional branches. The stack-growth check that
	// guards a call to runtime.morestack is forgiven once per function.
	Straight bool
	// MustCall lists symbols the function has to call.
	MustCall []string
}

// Widths are the per-width name suffixes used by package ct.
var Widths = []string{"Uint8", "Uint16", "Uint32", "Uint64", "Uint"}

// Shapes are the GC shape type names of the generic instantiations of package
// ct, in the same order as Widths.
var Shapes = []string{"uint8", "uint16", "uint32", "uint64", "uint"}

// DefaultRules returns the rules for the primitives of package ct at import
// path pkg: equality and select kernels are straight-line, and the slice
// operations must reach their kernel. The generic entry points run on the
// uint64 kernels, and each instantiation is held to the same rules.
func DefaultRules(pkg string) []Rule {
	var rules []Rule
	for _, w := range Widths {
		eq := pkg + ".Eq" + w
		sel := pkg + ".Select" + w
		rules = append(rules,
			Rule{Symbol: eq, Straight: true},
			Rule{Symbol: sel, Straight: true},
			Rule{Symbol: pkg + ".EqSlice" + w, MustCall: []string{eq}},
			Rule{Symbol: pkg + ".Copy" + w, MustCall: []string{sel}},
		)
	}
	eq64, sel64 := pkg+".EqUint64", pkg+".SelectUint64"
	for _, s := range Shapes {
		inst := "[go.shape." + s + "]"
		rules = append(rules,
			Rule{Symbol: pkg + ".Eq" + inst, Straight: true, MustCall: []string{eq64}},
			Rule{Symbol: pkg + ".Select" + inst, Straight: true, MustCall: []string{sel64}},
			Rule{Symbol: pkg + ".EqSlice" + inst, MustCall: []string{eq64}},
			Rule{Symbol: pkg + ".Copy" + inst, MustCall: []string{sel64}},
		)
	}
	return rules
}

// Pattern returns an objdump -s expression matching every symbol in rules.
func Pattern(rules []Rule) string {
	alts := make([]string, len(rules))
	for i, r := range rules {
		alts[i] = regexp.QuoteMeta(r.Symbol)
	}
	return "^(" + strings.Join(alts, "|") + ")$"
}

// CondBranches counts the conditional branches in f that are not part of a
// stack-growth prologue.
func CondBranches(f *Function) int {
	n := f.Count(CondBranch)
	if n > 0 && growsStack(f) {
		n--
	}
	return n
}

// Check applies rules to funcs and returns every violation, or nil.
func Check(funcs []*Function, rules []Rule) error {
	bySymbol := make(map[string]*Function, len(funcs))
	for _, f := range funcs {
		bySymbol[f.Symbol] = f
	}
	var result *multierror.Error
	for _, r := range rules {
		f, ok := bySymbol[r.Symbol]
		if !ok {
			result = multierror.Append(result, errors.Errorf("%s: symbol not found in listing", r.Symbol))
			continue
		}
		if r.Straight {
			if n := CondBranches(f); n > 0 {
				result = multierror.Append(result, errors.Errorf("%s: %d conditional branch(es)%s", r.Symbol, n, firstBranch(f)))
			}
		}
		for _, callee := range r.MustCall {
			if !f.Calls(callee) {
				result = multierror.Append(result, errors.Errorf("%s: does not call %s", r.Symbol, callee))
			}
		}
	}
	return result.ErrorOrNil()
}

func firstBranch(f *Function) string {
	skip := 0
	if growsStack(f) {
		skip = 1
	}
	for _, ins := range f.Instructions {
		if ins.Class != CondBranch {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		return fmt.Sprintf(", first at %s: %s", ins.Location, ins.Text)
	}
	return ""
}
