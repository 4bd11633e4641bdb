// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package circuit

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_signal_step(tst *testing.T) {

	chk.PrintTitle("signal_step")

	s := Step{T0: 1.0, Before: -1, After: 2}
	chk.Scalar(tst, "before", 1e-15, s.At(0.5), -1)
	chk.Scalar(tst, "at", 1e-15, s.At(1.0), 2)
	chk.Scalar(tst, "after", 1e-15, s.At(5.0), 2)
}

func Test_signal_sine(tst *testing.T) {

	chk.PrintTitle("signal_sine")

	s := Sine{Freq: 1.0, Amp: 2.0, Phase: 0, Offset: 0.5}
	chk.Scalar(tst, "t=0", 1e-15, s.At(0), 0.5)
	chk.Scalar(tst, "t=1/4", 1e-13, s.At(0.25), 2.5)
}

func Test_signal_pwl(tst *testing.T) {

	chk.PrintTitle("signal_pwl")

	p := PWL{T: []float64{0, 1, 2}, V: []float64{0, 10, 10}}
	chk.Scalar(tst, "before first knot", 1e-15, p.At(-1), 0)
	chk.Scalar(tst, "interpolated", 1e-15, p.At(0.5), 5)
	chk.Scalar(tst, "on knot", 1e-15, p.At(1), 10)
	chk.Scalar(tst, "after last knot", 1e-15, p.At(3), 10)
}

func Test_signal_sample(tst *testing.T) {

	chk.PrintTitle("signal_sample")

	s := Constant(3.0)
	row := Sample(s, 1000, 5)
	if len(row) != 5 {
		tst.Errorf("Sample length: got %d, want 5", len(row))
	}
	for i, v := range row {
		if math.Abs(v-3.0) > 1e-15 {
			tst.Errorf("Sample[%d]: got %v, want 3.0", i, v)
		}
	}
}
