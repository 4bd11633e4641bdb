// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nlsolve

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// scalarProblem implements Problem for res(z,p) = z^2 - 1 + p, a minimal
// one-dimensional nonlinearity with two real roots for p<1 (a double
// root only at p=1, where the Jacobian vanishes and plain Newton
// needs damping) and none for p>1 -- enough to exercise SimpleSolver's
// damping and HomotopySolver's continuation without a circuit element
// behind it.
type scalarProblem struct{}

func (scalarProblem) Dim() int { return 1 }

func (scalarProblem) SetP(s *Scratch, p []float64) { s.Pfull[0] = p[0] }

func (scalarProblem) Residual(s *Scratch, z []float64, outRes []float64, outJ [][]float64) error {
	outRes[0] = z[0]*z[0] - 1 + s.Pfull[0]
	outJ[0][0] = 2 * z[0]
	s.Jq[0][0] = 1
	return nil
}

func (scalarProblem) Jacobianp(s *Scratch, outJp [][]float64) {
	outJp[0][0] = s.Jq[0][0]
}

// Test_simplesolver_converges checks damped Newton finds a root of
// z^2-1+p=0 from a seed away from it.
func Test_simplesolver_converges(tst *testing.T) {

	chk.PrintTitle("simplesolver_converges")

	prob := scalarProblem{}
	solver := NewSimpleSolver(prob, 1)
	z, ok, err := solver.Solve([]float64{0}, []float64{0.1})
	if err != nil {
		tst.Errorf("Solve failed: %v", err)
		return
	}
	if !ok {
		tst.Errorf("did not converge")
		return
	}
	chk.Scalar(tst, "|z|", 1e-8, math.Abs(z[0]), 1.0)
}

// Test_homotopysolver_continuation seeds the solver right next to the
// Jacobian's singular point (z=0, where 2z vanishes), where the first
// Newton step overshoots far from either root, and checks HomotopySolver
// still returns a valid root (either sign; only |z| is compared).
func Test_homotopysolver_continuation(tst *testing.T) {

	chk.PrintTitle("homotopysolver_continuation")

	prob := scalarProblem{}
	base := NewSimpleSolver(prob, 1)
	homotopy := NewHomotopySolver(base, []float64{0}, []float64{1})

	target := []float64{0.5}
	z, ok, err := homotopy.Solve(target, []float64{-0.01}) // seed near the Jacobian's singular point z=0
	if err != nil {
		tst.Errorf("Solve failed: %v", err)
		return
	}
	if !ok {
		tst.Errorf("homotopy solver did not converge")
		return
	}
	want := math.Sqrt(1 - target[0])
	chk.Scalar(tst, "|z|", 1e-6, math.Abs(z[0]), want)
}
