// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package disasm

import (
	"strings"
)

// Class groups instructions by their effect on control flow.
type Class int

const (
	Other Class = iota
	// CondBranch is a jump whose direction depends on a runtime condition.
	CondBranch
	// CondMove selects between values on a flag without changing control flow.
	CondMove
	Call
)

func (c Class) String() string {
	switch c {
	case CondBranch:
		return "cond-branch"
	case CondMove:
		return "cond-move"
	case Call:
		return "call"
	default:
		return "other"
	}
}

var arm64CondSuffixes = map[string]bool{
	"EQ": true, "NE": true, "CS": true, "HS": true, "CC": true, "LO": true,
	"MI": true, "PL": true, "VS": true, "VC": true, "HI": true, "LS": true,
	"GE": true, "LT": true, "GT": true, "LE": true,
}

var arm64CondMoves = map[string]bool{
	"CSEL": true, "CSELW": true, "CSET": true, "CSETW": true, "CSETM": true, "CSETMW": true,
	"CSINC": true, "CSINCW": true, "CSINV": true, "CSINVW": true, "CSNEG": true, "CSNEGW": true,
	"CINC": true, "CINCW": true, "CINV": true, "CINVW": true, "CNEG": true, "CNEGW": true,
	"FCSELD": true, "FCSELS": true,
}

// Classify maps a Go-syntax mnemonic for arch to its Class. Unknown
// architectures classify everything except calls as Other.
func Classify(arch, mnemonic string) Class {
	m := strings.ToUpper(mnemonic)
	switch arch {
	case "amd64", "386":
		switch {
		case m == "CALL":
			return Call
		case m == "JMP":
			return Other
		case strings.HasPrefix(m, "J"), strings.HasPrefix(m, "LOOP"):
			return CondBranch
		case strings.HasPrefix(m, "CMOV"), strings.HasPrefix(m, "SET"):
			return CondMove
		}
	case "arm64":
		switch {
		case m == "CALL" || m == "BL":
			return Call
		case strings.HasPrefix(m, "CBZ"), strings.HasPrefix(m, "CBNZ"),
			m == "TBZ", m == "TBNZ":
			return CondBranch
		case len(m) == 3 && m[0] == 'B' && arm64CondSuffixes[m[1:]]:
			return CondBranch
		case arm64CondMoves[m]:
			return CondMove
		}
	default:
		if m == "CALL" {
			return Call
		}
	}
	return Other
}
