// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"github.com/cpmech/ckt/nlsolve"
	"github.com/cpmech/gosl/chk"
)

// initialRoot finds z0 for one block at the all-zero operating point
// (x=0, u=0, zprev=0, hence p=0), the state every DiscreteModel starts
// from (spec.md §4.3, §4.5). A damped-Newton solve from the zero seed is
// tried directly; failure here is a fatal compile-time error (spec.md
// §7.v), since a circuit whose nonlinear devices have no solution at the
// zero operating point cannot be simulated at all.
func initialRoot(prob *blockProblem) ([]float64, error) {
	solver := nlsolve.NewSimpleSolver(prob, prob.nq)
	p0 := make([]float64, prob.np)
	zseed := make([]float64, prob.nn)
	z, ok, err := solver.Solve(p0, zseed)
	if err != nil {
		return nil, chk.Err("compile: initial-solution failure: %v", err)
	}
	if !ok {
		return nil, chk.Err("compile: initial-solution failure: damped Newton did not converge from the zero seed at the zero operating point")
	}
	return z, nil
}
