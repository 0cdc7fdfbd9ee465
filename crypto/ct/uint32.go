// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package ct

import (
	"math"
)

// EqUint32 reports whether x == y without branching on either value.
//
//go:noinline
func EqUint32(x, y uint32) bool {
	z := math.MaxUint32 ^ (x ^ y)
	z &= z >> 16
	z &= z >> 8
	z &= z >> 4
	z &= z >> 2
	z &= z >> 1
	return uint8ToBool(uint8(z & 1))
}

// EqSliceUint32 reports whether x and y have equal length and contents,
// visiting every element.
func EqSliceUint32(x, y []uint32) bool {
	if len(x) != len(y) {
		return false
	}
	y = y[:len(x)]
	var acc uint32
	for i := range x {
		acc |= x[i] ^ y[i]
	}
	return EqUint32(acc, 0)
}

// SelectUint32 returns x if flag is true and y otherwise.
//
//go:noinline
func SelectUint32(flag bool, x, y uint32) uint32 {
	mask := uint32(boolToUint8(flag)) - 1
	return (math.MaxUint32^mask)&x | mask&y
}

// CopyUint32 sets x to y if flag is true. It panics if the lengths differ.
func CopyUint32(flag bool, x, y []uint32) {
	if len(x) != len(y) {
		lengthMismatch("CopyUint32", len(x), len(y))
	}
	y = y[:len(x)]
	for i := range x {
		x[i] = SelectUint32(flag, y[i], x[i])
	}
}
