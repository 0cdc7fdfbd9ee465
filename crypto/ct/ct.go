// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package ct implements branchless, timing-uniform primitives over fixed-width
// unsigned integers: equality, slice equality, conditional select and
// conditional copy.
//
// Every operation exists once per width (uint8, uint16, uint32, uint64 and the
// native uint) and once more as a generic entry point over Unsigned. None of
// them branch on operand contents. Slice lengths are treated as public: EqSlice returns false
// on a length mismatch, and Copy panics on one.
//
// Select lowers to masking arithmetic and may be scheduled by the compiler as
// a conditional move. The latency of a conditional move does not depend on the
// operand values, so it is accepted here; that assumption is platform specific
// and is re-checked per target by cmd/ctaudit.
package ct

// Unsigned lists the widths supported by the generic entry points. All of them
// fit in 64 bits.
type Unsigned interface {
	uint8 | uint16 | uint32 | uint64 | uint
}

// The generic entry points widen every operand to 64 bits and run the uint64
// kernels. Widening is injective on every supported width, so equality is
// preserved, and narrowing the select result back to T returns the operand
// that was chosen. No branch depends on T or on the operand values. They are
// kept out of line so each instantiation has a symbol the branch audit can
// disassemble.

// Eq reports whether x == y in constant time.
//
//go:noinline
func Eq[T Unsigned](x, y T) bool {
	return EqUint64(uint64(x), uint64(y))
}

// EqSlice reports whether x and y have the same length and contents. The time
// taken depends on the length only.
//
//go:noinline
func EqSlice[T Unsigned](x, y []T) bool {
	if len(x) != len(y) {
		return false
	}
	y = y[:len(x)]
	var acc T
	for i := range x {
		acc |= x[i] ^ y[i]
	}
	return EqUint64(uint64(acc), 0)
}

// Select returns x if flag is true and y otherwise.
//
//go:noinline
func Select[T Unsigned](flag bool, x, y T) T {
	return T(SelectUint64(flag, uint64(x), uint64(y)))
}

// Copy overwrites x with y if flag is true and leaves x unchanged otherwise.
// Every element of x is written in both cases. Copy panics if the lengths
// differ.
//
//go:noinline
func Copy[T Unsigned](flag bool, x, y []T) {
	if len(x) != len(y) {
		lengthMismatch("Copy", len(x), len(y))
	}
	y = y[:len(x)]
	for i := range x {
		x[i] = T(SelectUint64(flag, uint64(y[i]), uint64(x[i])))
	}
}
