// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_linsolver_solve checks the setlhs/solve contract (spec.md §2) on a
// known system, including a second solve reusing the same factorisation.
func Test_linsolver_solve(tst *testing.T) {

	chk.PrintTitle("linsolver_solve")

	ls := NewLinearSolver(2)
	A := [][]float64{
		{4, 1},
		{2, 3},
	}
	if err := ls.SetLHS(A); err != nil {
		tst.Errorf("SetLHS failed: %v", err)
		return
	}

	x := make([]float64, 2)
	if err := ls.Solve(x, []float64{1, 2}); err != nil {
		tst.Errorf("Solve failed: %v", err)
		return
	}
	// 4x+y=1, 2x+3y=2 => x=0.1, y=0.6
	chk.Vector(tst, "x", 1e-13, x, []float64{0.1, 0.6})

	// reuse the same factorisation for a second right-hand side
	if err := ls.Solve(x, []float64{4, 2}); err != nil {
		tst.Errorf("second Solve failed: %v", err)
		return
	}
	chk.Vector(tst, "x2", 1e-13, x, []float64{1, 0})
}

// Test_linsolver_singular checks that a singular matrix is reported via
// the returned error rather than a panic.
func Test_linsolver_singular(tst *testing.T) {

	chk.PrintTitle("linsolver_singular")

	ls := NewLinearSolver(2)
	A := [][]float64{
		{1, 2},
		{2, 4},
	}
	if err := ls.SetLHS(A); err == nil {
		tst.Errorf("SetLHS should have reported a singular matrix")
	}
}
