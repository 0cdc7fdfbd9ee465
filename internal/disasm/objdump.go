// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package disasm checks that compiled functions lower to unconditional
// instruction sequences. It reads listings produced by `go tool objdump`.
package disasm

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/iofinnet/consistenttime/common"
)

// Instruction is one line of an objdump listing.
type Instruction struct {
	Location string // file:line
	Address  string
	Text     string // mnemonic and operands, Go assembler syntax
	Mnemonic string
	Class    Class
}

// Function is the listing of one TEXT symbol.
type Function struct {
	Symbol       string
	File         string
	Instructions []Instruction
}

// Count returns the number of instructions of class c.
func (f *Function) Count(c Class) int {
	n := 0
	for _, ins := range f.Instructions {
		if ins.Class == c {
			n++
		}
	}
	return n
}

// Calls reports whether f contains a direct call to symbol. ABI wrapper
// suffixes such as ".abi0" are ignored.
func (f *Function) Calls(symbol string) bool {
	for _, ins := range f.Instructions {
		if ins.Class == Call && strings.TrimSuffix(ins.Target(), ".abi0") == symbol {
			return true
		}
	}
	return false
}

// Target returns the symbol operand of a call or jump, or "" if the operand
// is not a symbol.
func (ins Instruction) Target() string {
	fields := strings.Fields(ins.Text)
	if len(fields) < 2 || !strings.HasSuffix(fields[len(fields)-1], "(SB)") {
		return ""
	}
	return strings.TrimSuffix(fields[len(fields)-1], "(SB)")
}

// Objdump disassembles the symbols of binary matching the regular expression
// pattern with the go toolchain found on PATH.
func Objdump(ctx context.Context, binary, pattern string) ([]byte, error) {
	goBin, err := exec.LookPath("go")
	if err != nil {
		return nil, errors.Wrap(err, "go toolchain not found")
	}
	cmd := exec.CommandContext(ctx, goBin, "tool", "objdump", "-s", pattern, binary)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	common.Logger.Debugf("running %s", strings.Join(cmd.Args, " "))
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrapf(err, "go tool objdump %s: %s", binary, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// BuildTest compiles the test binary of package pkg to output without
// stripping symbols. Binaries linked by a plain `go test` run carry no symbol
// table and cannot be disassembled.
func BuildTest(ctx context.Context, pkg, output string) error {
	goBin, err := exec.LookPath("go")
	if err != nil {
		return errors.Wrap(err, "go toolchain not found")
	}
	cmd := exec.CommandContext(ctx, goBin, "test", "-c", "-o", output, pkg)
	common.Logger.Debugf("running %s", strings.Join(cmd.Args, " "))
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "go test -c %s: %s", pkg, strings.TrimSpace(string(out)))
	}
	return nil
}

// Parse reads an objdump listing for arch (a GOARCH value).
func Parse(r io.Reader, arch string) ([]*Function, error) {
	var (
		funcs []*Function
		cur   *Function
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "TEXT ") {
			fields := strings.Fields(line)
			cur = &Function{Symbol: strings.TrimSuffix(fields[1], "(SB)")}
			if len(fields) > 2 {
				cur.File = fields[2]
			}
			funcs = append(funcs, cur)
			continue
		}
		if cur == nil {
			return nil, errors.Errorf("instruction before any TEXT line: %q", line)
		}
		ins, ok := parseInstruction(line, arch)
		if !ok {
			return nil, errors.Errorf("%s: malformed instruction line: %q", cur.Symbol, line)
		}
		cur.Instructions = append(cur.Instructions, ins)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading objdump listing")
	}
	return funcs, nil
}

// Instruction lines are tab separated: location, address, encoding, text.
func parseInstruction(line, arch string) (Instruction, bool) {
	var fields []string
	for _, f := range strings.Split(line, "\t") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) < 3 {
		return Instruction{}, false
	}
	ins := Instruction{
		Location: fields[0],
		Address:  fields[1],
		Text:     fields[len(fields)-1],
	}
	ins.Mnemonic = strings.Fields(ins.Text)[0]
	ins.Class = Classify(arch, ins.Mnemonic)
	return ins, true
}
