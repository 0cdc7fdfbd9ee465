// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package ct

import (
	"math"
)

// EqUint16 reports whether x == y without branching on either value.
//
//go:noinline
func EqUint16(x, y uint16) bool {
	z := math.MaxUint16 ^ (x ^ y)
	z &= z >> 8
	z &= z >> 4
	z &= z >> 2
	z &= z >> 1
	return uint8ToBool(uint8(z & 1))
}

// EqSliceUint16 reports whether x and y have equal length and contents,
// visiting every element.
func EqSliceUint16(x, y []uint16) bool {
	if len(x) != len(y) {
		return false
	}
	y = y[:len(x)]
	var acc uint16
	for i := range x {
		acc |= x[i] ^ y[i]
	}
	return EqUint16(acc, 0)
}

// SelectUint16 returns x if flag is true and y otherwise.
//
//go:noinline
func SelectUint16(flag bool, x, y uint16) uint16 {
	mask := uint16(boolToUint8(flag)) - 1
	return (math.MaxUint16^mask)&x | mask&y
}

// CopyUint16 sets x to y if flag is true. It panics if the lengths differ.
func CopyUint16(flag bool, x, y []uint16) {
	if len(x) != len(y) {
		lengthMismatch("CopyUint16", len(x), len(y))
	}
	y = y[:len(x)]
	for i := range x {
		x[i] = SelectUint16(flag, y[i], x[i])
	}
}
