// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package ct

import (
	"math"
)

// EqUint8 reports whether x == y.
//
// z is all ones exactly when x == y. Folding z onto itself with shifts of 4, 2
// and 1 leaves the AND of all eight bits in bit 0, which is then reinterpreted
// as the result. The same instructions run for every pair of inputs.
//
//go:noinline
func EqUint8(x, y uint8) bool {
	z := math.MaxUint8 ^ (x ^ y)
	z &= z >> 4
	z &= z >> 2
	z &= z >> 1
	return uint8ToBool(z & 1)
}

// EqSliceUint8 reports whether x and y have equal length and contents.
//
// The whole slice is traversed regardless of where, or whether, the contents
// differ, so the position of the first differing element cannot be recovered
// by timing the call. A length mismatch returns false straight away.
func EqSliceUint8(x, y []uint8) bool {
	if len(x) != len(y) {
		return false
	}
	y = y[:len(x)]
	var acc uint8
	for i := range x {
		acc |= x[i] ^ y[i]
	}
	return EqUint8(acc, 0)
}

// SelectUint8 returns x if flag is true and y if flag is false.
//
// mask is flag-1 with wraparound: zero for true, all ones for false. The
// compiler may emit a conditional move for this; its latency does not depend on
// x, y or flag.
//
//go:noinline
func SelectUint8(flag bool, x, y uint8) uint8 {
	mask := boolToUint8(flag) - 1
	return (math.MaxUint8^mask)&x | mask&y
}

// CopyUint8 sets x to y if flag is true and leaves x unchanged if flag is false.
// Every element of x is stored in both cases.
//
// CopyUint8 panics if x and y are not of equal length, whatever the flag.
func CopyUint8(flag bool, x, y []uint8) {
	if len(x) != len(y) {
		lengthMismatch("CopyUint8", len(x), len(y))
	}
	y = y[:len(x)]
	for i := range x {
		x[i] = SelectUint8(flag, y[i], x[i])
	}
}
