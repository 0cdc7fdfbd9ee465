// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package timing

import (
	"math"
)

// Welch accumulates two classes of samples online (Welford's method) and
// computes Welch's t statistic between them. The zero value is ready to use.
type Welch struct {
	n    [2]float64
	mean [2]float64
	m2   [2]float64
}

// Push adds x to class, which must be 0 or 1.
func (w *Welch) Push(class int, x float64) {
	w.n[class]++
	delta := x - w.mean[class]
	w.mean[class] += delta / w.n[class]
	w.m2[class] += delta * (x - w.mean[class])
}

func (w *Welch) Count(class int) int { return int(w.n[class]) }

func (w *Welch) Mean(class int) float64 { return w.mean[class] }

// Variance returns the unbiased sample variance of class.
func (w *Welch) Variance(class int) float64 {
	if w.n[class] < 2 {
		return 0
	}
	return w.m2[class] / (w.n[class] - 1)
}

// T returns Welch's t statistic, or 0 while either class holds fewer than two
// samples or both variances are zero.
func (w *Welch) T() float64 {
	if w.n[0] < 2 || w.n[1] < 2 {
		return 0
	}
	se := w.Variance(0)/w.n[0] + w.Variance(1)/w.n[1]
	if se == 0 {
		return 0
	}
	return (w.mean[0] - w.mean[1]) / math.Sqrt(se)
}
