// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package ct

import (
	"math"
	"math/bits"
)

// The native word is 32 or 64 bits wide depending on GOARCH. The fold shifts
// are derived from bits.UintSize; on 32-bit targets the last one is a shift by
// zero and leaves z unchanged.

// EqUint reports whether x == y without branching on either value.
//
//go:noinline
func EqUint(x, y uint) bool {
	z := math.MaxUint ^ (x ^ y)
	z &= z >> (bits.UintSize / 2)
	z &= z >> (bits.UintSize / 4)
	z &= z >> (bits.UintSize / 8)
	z &= z >> (bits.UintSize / 16)
	z &= z >> (bits.UintSize / 32)
	z &= z >> (bits.UintSize / 64)
	return uint8ToBool(uint8(z & 1))
}

// EqSliceUint reports whether x and y have equal length and contents,
// visiting every element.
func EqSliceUint(x, y []uint) bool {
	if len(x) != len(y) {
		return false
	}
	y = y[:len(x)]
	var acc uint
	for i := range x {
		acc |= x[i] ^ y[i]
	}
	return EqUint(acc, 0)
}

// SelectUint returns x if flag is true and y otherwise.
//
//go:noinline
func SelectUint(flag bool, x, y uint) uint {
	mask := uint(boolToUint8(flag)) - 1
	return (math.MaxUint^mask)&x | mask&y
}

// CopyUint sets x to y if flag is true. It panics if the lengths differ.
func CopyUint(flag bool, x, y []uint) {
	if len(x) != len(y) {
		lengthMismatch("CopyUint", len(x), len(y))
	}
	y = y[:len(x)]
	for i := range x {
		x[i] = SelectUint(flag, y[i], x[i])
	}
}
