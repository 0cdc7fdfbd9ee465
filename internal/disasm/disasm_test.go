// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package disasm_test

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/iofinnet/consistenttime/internal/disasm"
)

const pkg = "github.com/iofinnet/consistenttime/crypto/ct"

func text(symbol, file string) string {
	return "TEXT " + symbol + "(SB) " + file
}

func ins(loc, addr, enc, asm string) string {
	return "  " + strings.Join([]string{loc, "", addr, "", enc, "", "", asm}, "\t")
}

func listing(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

var amd64Listing = []string{
	text(pkg+".EqUint8", "/src/crypto/ct/uint8.go"),
	ins("uint8.go:17", "0x4a2f20", "31d8", "XORL BX, AX"),
	ins("uint8.go:17", "0x4a2f22", "f7d0", "NOTL AX"),
	ins("uint8.go:18", "0x4a2f24", "89c1", "MOVL AX, CX"),
	ins("uint8.go:18", "0x4a2f26", "c0e904", "SHRB $0x4, CL"),
	ins("uint8.go:18", "0x4a2f29", "21c8", "ANDL CX, AX"),
	ins("uint8.go:21", "0x4a2f30", "83e001", "ANDL $0x1, AX"),
	ins("uint8.go:21", "0x4a2f33", "c3", "RET"),
	"",
	text(pkg+".EqSliceUint8", "/src/crypto/ct/uint8.go"),
	ins("uint8.go:28", "0x4a2f40", "493b6610", "CMPQ SP, 0x10(R14)"),
	ins("uint8.go:28", "0x4a2f44", "7640", "JBE 0x4a2f86"),
	ins("uint8.go:29", "0x4a2f46", "4839f9", "CMPQ DI, CX"),
	ins("uint8.go:29", "0x4a2f49", "7530", "JNE 0x4a2f7b"),
	ins("uint8.go:34", "0x4a2f60", "e8bbffffff", "CALL "+pkg+".EqUint8(SB)"),
	ins("uint8.go:34", "0x4a2f65", "c3", "RET"),
	ins("uint8.go:28", "0x4a2f86", "e8f5e2fbff", "CALL runtime.morestack_noctxt.abi0(SB)"),
	ins("uint8.go:28", "0x4a2f8b", "ebb3", "JMP "+pkg+".EqSliceUint8(SB)"),
}

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		arch     string
		mnemonic string
		want     Class
	}{
		{"amd64", "JEQ", CondBranch},
		{"amd64", "JNE", CondBranch},
		{"amd64", "JBE", CondBranch},
		{"amd64", "JMP", Other},
		{"amd64", "CMOVQNE", CondMove},
		{"amd64", "SETEQ", CondMove},
		{"amd64", "CALL", Call},
		{"amd64", "XORL", Other},
		{"amd64", "ret", Other},
		{"arm64", "BEQ", CondBranch},
		{"arm64", "BLS", CondBranch},
		{"arm64", "CBZ", CondBranch},
		{"arm64", "CBNZW", CondBranch},
		{"arm64", "TBNZ", CondBranch},
		{"arm64", "BL", Call},
		{"arm64", "CALL", Call},
		{"arm64", "CSEL", CondMove},
		{"arm64", "CSETW", CondMove},
		{"arm64", "JMP", Other},
		{"arm64", "BIC", Other},
		{"arm64", "EOR", Other},
		{"riscv64", "CALL", Call},
		{"riscv64", "BEQ", Other},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, Classify(tt.arch, tt.mnemonic), "Classify(%s, %s)", tt.arch, tt.mnemonic)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	funcs, err := Parse(listing(amd64Listing...), "amd64")
	require.NoError(t, err)
	require.Len(t, funcs, 2)

	eq := funcs[0]
	assert.Equal(t, pkg+".EqUint8", eq.Symbol)
	assert.Equal(t, "/src/crypto/ct/uint8.go", eq.File)
	require.Len(t, eq.Instructions, 7)
	assert.Equal(t, "uint8.go:17", eq.Instructions[0].Location)
	assert.Equal(t, "0x4a2f20", eq.Instructions[0].Address)
	assert.Equal(t, "XORL BX, AX", eq.Instructions[0].Text)
	assert.Equal(t, "XORL", eq.Instructions[0].Mnemonic)
	assert.Equal(t, 0, eq.Count(CondBranch))

	slice := funcs[1]
	assert.Equal(t, 2, slice.Count(CondBranch))
	assert.Equal(t, 2, slice.Count(Call))
	assert.True(t, slice.Calls(pkg+".EqUint8"))
	assert.True(t, slice.Calls("runtime.morestack_noctxt"))
	assert.False(t, slice.Calls(pkg+".EqUint"))
	assert.Equal(t, 1, CondBranches(slice))
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()
	_, err := Parse(listing(ins("uint8.go:17", "0x4a2f20", "31d8", "XORL BX, AX")), "amd64")
	assert.Error(t, err)

	_, err = Parse(listing(text(pkg+".EqUint8", "uint8.go"), "  garbage"), "amd64")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	t.Parallel()
	funcs, err := Parse(listing(amd64Listing...), "amd64")
	require.NoError(t, err)

	tests := []struct {
		name      string
		rules     []Rule
		wantCount int
	}{{
		name:  "straight kernel passes",
		rules: []Rule{{Symbol: pkg + ".EqUint8", Straight: true}},
	}, {
		name:  "loop reaching its kernel passes",
		rules: []Rule{{Symbol: pkg + ".EqSliceUint8", MustCall: []string{pkg + ".EqUint8"}}},
	}, {
		name:      "loop is not straight",
		rules:     []Rule{{Symbol: pkg + ".EqSliceUint8", Straight: true}},
		wantCount: 1,
	}, {
		name:      "missing callee",
		rules:     []Rule{{Symbol: pkg + ".EqSliceUint8", MustCall: []string{pkg + ".EqUint16"}}},
		wantCount: 1,
	}, {
		name: "missing symbols are all reported",
		rules: []Rule{
			{Symbol: pkg + ".SelectUint8", Straight: true},
			{Symbol: pkg + ".CopyUint8"},
			{Symbol: pkg + ".EqUint8", Straight: true},
		},
		wantCount: 2,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(funcs, tt.rules)
			if tt.wantCount == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			merr, ok := err.(*multierror.Error)
			require.True(t, ok, "expected a *multierror.Error, got %T", err)
			assert.Len(t, merr.Errors, tt.wantCount)
		})
	}
}

func TestCheck_ReportsBranchLocation(t *testing.T) {
	t.Parallel()
	funcs, err := Parse(listing(
		text(pkg+".SelectUint8", "uint8.go"),
		ins("uint8.go:47", "0x10", "84c0", "TESTB AL, AL"),
		ins("uint8.go:47", "0x12", "7403", "JEQ 0x17"),
		ins("uint8.go:48", "0x14", "c3", "RET"),
	), "amd64")
	require.NoError(t, err)
	err = Check(funcs, []Rule{{Symbol: pkg + ".SelectUint8", Straight: true}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uint8.go:47: JEQ 0x17")
}

func TestDefaultRules(t *testing.T) {
	t.Parallel()
	rules := DefaultRules(pkg)
	assert.Len(t, rules, 4*(len(Widths)+len(Shapes)))

	re, err := regexp.Compile(Pattern(rules))
	require.NoError(t, err)
	for _, r := range rules {
		assert.True(t, re.MatchString(r.Symbol), r.Symbol)
	}
	assert.True(t, re.MatchString(pkg+".Eq[go.shape.uint8]"))
	assert.True(t, re.MatchString(pkg+".Copy[go.shape.uint]"))
	assert.False(t, re.MatchString(pkg+".Eq[go.shape.int8]"))
	assert.False(t, re.MatchString(pkg+".EqUint8.func1"))

	straight := 0
	for _, r := range rules {
		if r.Straight {
			straight++
		} else {
			assert.Len(t, r.MustCall, 1)
		}
	}
	assert.Equal(t, 2*(len(Widths)+len(Shapes)), straight)
}

// The generic instantiations call the 64-bit kernels behind a stack check.
func TestCheck_GenericInstantiation(t *testing.T) {
	t.Parallel()
	funcs, err := Parse(listing(
		text(pkg+".Select[go.shape.uint16]", "ct.go"),
		ins("ct.go:60", "0x10", "493b6610", "CMPQ SP, 0x10(R14)"),
		ins("ct.go:60", "0x14", "7620", "JBE 0x36"),
		ins("ct.go:61", "0x16", "0fb7db", "MOVWLZX BX, BX"),
		ins("ct.go:61", "0x19", "0fb7c9", "MOVWLZX CX, CX"),
		ins("ct.go:61", "0x1c", "e8dfffffff", "CALL "+pkg+".SelectUint64(SB)"),
		ins("ct.go:61", "0x21", "c3", "RET"),
		ins("ct.go:60", "0x36", "e8c5ffffff", "CALL runtime.morestack.abi0(SB)"),
		ins("ct.go:60", "0x3b", "ebd3", "JMP "+pkg+".Select[go.shape.uint16](SB)"),
		text(pkg+".Copy[go.shape.uint32]", "ct.go"),
		ins("ct.go:70", "0x40", "4839d9", "CMPQ BX, CX"),
		ins("ct.go:70", "0x43", "7510", "JNE 0x55"),
		ins("ct.go:74", "0x45", "e8b6ffffff", "CALL "+pkg+".SelectUint32(SB)"),
		ins("ct.go:75", "0x4a", "c3", "RET"),
	), "amd64")
	require.NoError(t, err)

	var rules []Rule
	for _, r := range DefaultRules(pkg) {
		if r.Symbol == pkg+".Select[go.shape.uint16]" || r.Symbol == pkg+".Copy[go.shape.uint32]" {
			rules = append(rules, r)
		}
	}
	require.Len(t, rules, 2)
	err = Check(funcs, rules)
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok, "expected a *multierror.Error, got %T", err)
	require.Len(t, merr.Errors, 1)
	assert.Contains(t, merr.Errors[0].Error(), "Copy[go.shape.uint32]: does not call "+pkg+".SelectUint64")
}

func TestBuildTest_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := BuildTest(ctx, pkg, filepath.Join(t.TempDir(), "ct.test"))
	assert.Error(t, err)
}
