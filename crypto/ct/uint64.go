// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package ct

import (
	"math"
)

// EqUint64 reports whether x == y without branching on either value.
//
//go:noinline
func EqUint64(x, y uint64) bool {
	z := math.MaxUint64 ^ (x ^ y)
	z &= z >> 32
	z &= z >> 16
	z &= z >> 8
	z &= z >> 4
	z &= z >> 2
	z &= z >> 1
	return uint8ToBool(uint8(z & 1))
}

// EqSliceUint64 reports whether x and y have equal length and contents,
// visiting every element.
func EqSliceUint64(x, y []uint64) bool {
	if len(x) != len(y) {
		return false
	}
	y = y[:len(x)]
	var acc uint64
	for i := range x {
		acc |= x[i] ^ y[i]
	}
	return EqUint64(acc, 0)
}

// SelectUint64 returns x if flag is true and y otherwise.
//
//go:noinline
func SelectUint64(flag bool, x, y uint64) uint64 {
	mask := uint64(boolToUint8(flag)) - 1
	return (math.MaxUint64^mask)&x | mask&y
}

// CopyUint64 panics if x and y are not of equal length.
func CopyUint64(flag bool, x, y []uint64) {
	if len(x) != len(y) {
		lengthMismatch("CopyUint64", len(x), len(y))
	}
	y = y[:len(x)]
	for i := range x {
		x[i] = SelectUint64(flag, y[i], x[i])
	}
}
