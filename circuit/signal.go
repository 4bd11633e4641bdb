// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package circuit

import (
	"math"
	"sort"
)

// Signal is a scalar time-domain input source, the Go-idiomatic
// rendering of the teacher's dependency on gosl/fun.Func /
// fun.TimeSpace (a callable parametric function of time). Netlists
// drive the compiled model's u vector with one Signal per input column.
type Signal interface {
	At(t float64) float64
}

// Constant is a time-invariant signal
type Constant float64

// At implements Signal
func (c Constant) At(t float64) float64 { return float64(c) }

// Step switches from Before to After at time T0
type Step struct {
	T0            float64
	Before, After float64
}

// At implements Signal
func (o Step) At(t float64) float64 {
	if t < o.T0 {
		return o.Before
	}
	return o.After
}

// Sine is a sinusoid: amp*sin(2*pi*freq*t + phase) + offset
type Sine struct {
	Freq, Amp, Phase, Offset float64
}

// At implements Signal
func (o Sine) At(t float64) float64 {
	return o.Offset + o.Amp*math.Sin(2*math.Pi*o.Freq*t+o.Phase)
}

// PWL is a piecewise-linear signal defined by (time, value) knots,
// constant before the first knot and after the last.
type PWL struct {
	T, V []float64
}

// At implements Signal
func (o PWL) At(t float64) float64 {
	n := len(o.T)
	if n == 0 {
		return 0
	}
	if t <= o.T[0] {
		return o.V[0]
	}
	if t >= o.T[n-1] {
		return o.V[n-1]
	}
	i := sort.SearchFloat64s(o.T, t)
	if o.T[i] == t {
		return o.V[i]
	}
	// i is the first index with T[i] > t; interpolate between i-1 and i
	t0, t1 := o.T[i-1], o.T[i]
	v0, v1 := o.V[i-1], o.V[i]
	frac := (t - t0) / (t1 - t0)
	return v0 + frac*(v1-v0)
}

// Sample fills row with n samples of sig taken at times k/fs for
// k=0..n-1, the standard way a Signal is turned into one row of the
// runtime's u matrix.
func Sample(sig Signal, fs float64, n int) []float64 {
	row := make([]float64, n)
	for k := 0; k < n; k++ {
		row[k] = sig.At(float64(k) / fs)
	}
	return row
}
