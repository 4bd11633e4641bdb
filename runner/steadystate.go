// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"github.com/cpmech/ckt/compile"
	"github.com/cpmech/ckt/la"
	"github.com/cpmech/gosl/chk"
)

// steadystateResTol is the Newton residual tolerance sub-problems are
// held to while Steadystate iterates (spec.md §4.6: tightened well below
// the model's ordinary per-sample tolerance so the fixed point isn't
// limited by it).
const steadystateResTol = 1e-15

// Steadystate solves for the fixed point x* = A*x* + B*u0 + C*z*(x*,u0) + x0
// of model under a constant input u0, by an outer fixed-point iteration
// on x (spec.md §4.6): at each outer iteration it re-solves every
// sub-problem at the current x, forms the residual
// (A*x+B*u0+C*z+x0) - x, and applies (I-A)^-1 to it to step x, since
// d(z)/d(x) is expensive to track exactly and the sub-problems' own
// Newton solves already converge z tightly for a fixed x.
func Steadystate(model *compile.DiscreteModel, u0 []float64, maxIt int, tol float64) (x0 []float64, err error) {
	nx := model.NX
	x := append([]float64(nil), model.X0...)
	r := NewModelRunner(model)

	for _, sp := range model.Sub {
		sp.Solver.SetResAbsTol(steadystateResTol)
	}
	defer func() {
		for _, sp := range model.Sub {
			sp.Solver.SetResAbsTol(model.ResAbsTol)
		}
	}()

	iMinusA := la.MatAlloc(nx, nx)
	for i := 0; i < nx; i++ {
		for j := 0; j < nx; j++ {
			d := 0.0
			if i == j {
				d = 1
			}
			iMinusA[i][j] = d - model.A[i][j]
		}
	}
	ls := la.NewLinearSolver(nx)
	if e := ls.SetLHS(iMinusA); e != nil {
		return nil, chk.Err("runner: steadystate: (I-A) is singular: %v", e)
	}

	for it := 0; it < maxIt; it++ {
		copy(r.x, x)
		if _, e := r.Step(u0); e != nil {
			return nil, chk.Err("runner: steadystate: %v", e)
		}
		resid := make([]float64, nx)
		for i := 0; i < nx; i++ {
			resid[i] = r.x[i] - x[i]
		}
		maxAbs := 0.0
		for _, v := range resid {
			if a := abs(v); a > maxAbs {
				maxAbs = a
			}
		}
		if maxAbs <= tol {
			return r.x, nil
		}
		delta := make([]float64, nx)
		if e := ls.Solve(delta, resid); e != nil {
			return nil, chk.Err("runner: steadystate: %v", e)
		}
		for i := 0; i < nx; i++ {
			x[i] += delta[i]
		}
	}
	return nil, chk.Err("runner: steadystate: did not converge in %d iterations", maxIt)
}

// SteadystateInstall computes the steady state under u0 and installs it
// as the runner's current state and sub-problem roots, so a subsequent
// Run begins already settled -- idempotent: calling it twice in a row
// with the same u0 leaves the runner in the same state.
func SteadystateInstall(r *ModelRunner, u0 []float64, maxIt int, tol float64) error {
	x0, err := Steadystate(r.model, u0, maxIt, tol)
	if err != nil {
		return err
	}
	copy(r.x, x0)
	if _, err := r.Step(u0); err != nil {
		return err
	}
	copy(r.x, x0)
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
