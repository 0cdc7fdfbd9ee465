// Copyright © 2025 IO Finnet Group, Inc.
//
// This file is part of IO Finnet Group, Inc. The full IO Finnet Group, Inc. copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package timing measures whether the run time of an operation depends on a
// secret property of its input. It follows the dudect approach: inputs are
// split into two classes, measurements of both are interleaved in random
// order, and Welch's t-test decides whether the two timing distributions are
// distinguishable.
package timing

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/iofinnet/consistenttime/common"
)

const (
	// DefaultThreshold is the |t| above which a difference is reported. dudect
	// uses 10 for "definitely not constant time".
	DefaultThreshold      = 10.0
	DefaultMeasurements   = 20000
	DefaultBatch          = 16
	DefaultCropPercentile = 0.9
)

// Experiment is one differential measurement. Setup prepares the operands for
// class 0 or 1 outside the timed region; Run executes the operation on them.
type Experiment struct {
	Name  string
	Setup func(class int)
	Run   func()
}

type config struct {
	measurements int
	batch        int
	threshold    float64
	crop         float64
	stream       *common.Stream
}

type Option func(*config)

func WithMeasurements(n int) Option { return func(c *config) { c.measurements = n } }

// WithBatch sets the number of Run calls timed together in one measurement.
func WithBatch(n int) Option { return func(c *config) { c.batch = n } }

func WithThreshold(t float64) Option { return func(c *config) { c.threshold = t } }

// WithCropPercentile discards measurements above the p-th percentile (0 < p <= 1)
// before computing the cropped statistic.
func WithCropPercentile(p float64) Option { return func(c *config) { c.crop = p } }

// WithStream supplies the randomness used to order the classes.
func WithStream(s *common.Stream) Option { return func(c *config) { c.stream = s } }

// Result summarises an experiment.
type Result struct {
	Name      string
	Samples   [2]int
	Mean      [2]time.Duration // per Run call
	T         float64
	CroppedT  float64
	Threshold float64
}

// Leaky reports whether either statistic exceeds the threshold.
func (r *Result) Leaky() bool {
	return math.Abs(r.T) > r.Threshold || math.Abs(r.CroppedT) > r.Threshold
}

func (r *Result) String() string {
	verdict := "ok"
	if r.Leaky() {
		verdict = "LEAK"
	}
	return fmt.Sprintf("%s: n=%d/%d mean=%v/%v t=%.2f cropped-t=%.2f %s",
		r.Name, r.Samples[0], r.Samples[1], r.Mean[0], r.Mean[1], r.T, r.CroppedT, verdict)
}

type measurement struct {
	class int
	ns    float64
}

// Run performs exp and returns its statistics. It stops early with a wrapped
// ctx.Err() when ctx is done.
func Run(ctx context.Context, exp Experiment, opts ...Option) (*Result, error) {
	cfg := config{
		measurements: DefaultMeasurements,
		batch:        DefaultBatch,
		threshold:    DefaultThreshold,
		crop:         DefaultCropPercentile,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.measurements < 4 || cfg.batch < 1 {
		return nil, errors.Errorf("%s: need at least 4 measurements and a batch of 1, got %d and %d", exp.Name, cfg.measurements, cfg.batch)
	}
	if cfg.crop <= 0 || cfg.crop > 1 {
		return nil, errors.Errorf("%s: crop percentile must be in (0, 1], got %v", exp.Name, cfg.crop)
	}
	if exp.Setup == nil || exp.Run == nil {
		return nil, errors.Errorf("%s: experiment needs Setup and Run", exp.Name)
	}
	if cfg.stream == nil {
		s, err := common.NewStream()
		if err != nil {
			return nil, errors.Wrapf(err, "%s", exp.Name)
		}
		cfg.stream = s
	}

	ms := make([]measurement, 0, cfg.measurements)
	for i := 0; i < cfg.measurements; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "%s: cancelled after %d measurements", exp.Name, i)
		}
		class := cfg.stream.Bit()
		exp.Setup(class)
		start := time.Now()
		for j := 0; j < cfg.batch; j++ {
			exp.Run()
		}
		elapsed := time.Since(start)
		ms = append(ms, measurement{class: class, ns: float64(elapsed.Nanoseconds()) / float64(cfg.batch)})
	}

	var raw, cropped Welch
	for _, m := range ms {
		raw.Push(m.class, m.ns)
	}
	cutoff := percentile(ms, cfg.crop)
	for _, m := range ms {
		if m.ns <= cutoff {
			cropped.Push(m.class, m.ns)
		}
	}
	res := &Result{
		Name:      exp.Name,
		Samples:   [2]int{raw.Count(0), raw.Count(1)},
		Mean:      [2]time.Duration{time.Duration(raw.Mean(0)), time.Duration(raw.Mean(1))},
		T:         raw.T(),
		CroppedT:  cropped.T(),
		Threshold: cfg.threshold,
	}
	common.Logger.Debugf("timing %s", res)
	return res, nil
}

func percentile(ms []measurement, p float64) float64 {
	vals := make([]float64, len(ms))
	for i, m := range ms {
		vals[i] = m.ns
	}
	sort.Float64s(vals)
	idx := int(math.Ceil(p*float64(len(vals)))) - 1
	if idx < 0 {
		idx = 0
	}
	return vals[idx]
}
