// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package timing

import (
	"fmt"

	"github.com/iofinnet/consistenttime/common"
	"github.com/iofinnet/consistenttime/crypto/ct"
)

// Results are stored here so the compiler cannot discard the timed calls.
var (
	sinkBool bool
	sinkWord uint64
)

func random[T ct.Unsigned](s *common.Stream) T {
	return T(s.Uint64())
}

func randomSlice[T ct.Unsigned](s *common.Stream, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = random[T](s)
	}
	return out
}

func widthName[T ct.Unsigned]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// EqExperiment compares equal operands (class 0) against unequal ones (class 1).
func EqExperiment[T ct.Unsigned](s *common.Stream) Experiment {
	var x, y T
	return Experiment{
		Name: "Eq/" + widthName[T](),
		Setup: func(class int) {
			x = random[T](s)
			y = x
			if class == 1 {
				y ^= random[T](s) | 1
			}
		},
		Run: func() { sinkBool = ct.Eq(x, y) },
	}
}

// EqSliceExperiment compares slices of n elements that differ at the first
// element (class 0) against slices that differ at the last (class 1). n is
// raised to 2 if smaller.
func EqSliceExperiment[T ct.Unsigned](s *common.Stream, n int) Experiment {
	if n < 2 {
		n = 2
	}
	x := randomSlice[T](s, n)
	y := make([]T, n)
	return Experiment{
		Name: fmt.Sprintf("EqSlice/%s/%d", widthName[T](), n),
		Setup: func(class int) {
			copy(y, x)
			pos := 0
			if class == 1 {
				pos = n - 1
			}
			y[pos] ^= random[T](s) | 1
		},
		Run: func() { sinkBool = ct.EqSlice(x, y) },
	}
}

// SelectExperiment times Select with flag false (class 0) and true (class 1).
func SelectExperiment[T ct.Unsigned](s *common.Stream) Experiment {
	var a, b T
	var flag bool
	return Experiment{
		Name: "Select/" + widthName[T](),
		Setup: func(class int) {
			a, b = random[T](s), random[T](s)
			flag = class == 1
		},
		Run: func() { sinkWord = uint64(ct.Select(flag, a, b)) },
	}
}

// CopyExperiment times Copy of n elements with flag false (class 0) and true
// (class 1).
func CopyExperiment[T ct.Unsigned](s *common.Stream, n int) Experiment {
	if n < 1 {
		n = 1
	}
	orig := randomSlice[T](s, n)
	src := randomSlice[T](s, n)
	dst := make([]T, n)
	var flag bool
	return Experiment{
		Name: fmt.Sprintf("Copy/%s/%d", widthName[T](), n),
		Setup: func(class int) {
			copy(dst, orig)
			flag = class == 1
		},
		Run: func() { ct.Copy(flag, dst, src) },
	}
}

func forWidth[T ct.Unsigned](s *common.Stream, n int) []Experiment {
	return []Experiment{
		EqExperiment[T](s),
		EqSliceExperiment[T](s, n),
		SelectExperiment[T](s),
		CopyExperiment[T](s, n),
	}
}

// Experiments returns every experiment for every width, using slices of n
// elements.
func Experiments(s *common.Stream, n int) []Experiment {
	var all []Experiment
	all = append(all, forWidth[uint8](s, n)...)
	all = append(all, forWidth[uint16](s, n)...)
	all = append(all, forWidth[uint32](s, n)...)
	all = append(all, forWidth[uint64](s, n)...)
	all = append(all, forWidth[uint](s, n)...)
	return all
}
