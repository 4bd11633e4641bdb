// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// LinearSolver wraps a dense LU factorisation for repeated solves against
// the same left-hand side, the runtime-precision counterpart of the
// exact Gensolve used at compile time. It exposes the setlhs/solve
// contract from spec.md §2: SetLHS factors once, Solve may be called any
// number of times afterwards (including in-place, solve(y,y)).
type LinearSolver struct {
	n   int
	lu  mat.LU
	ok  bool
	raw *mat.Dense

	// Solve scratch, owned so a Newton loop calling SetLHS/Solve every
	// iteration allocates nothing after construction (spec.md §5/§8).
	b  *mat.VecDense
	xv mat.VecDense
}

// NewLinearSolver allocates a solver for an n x n system
func NewLinearSolver(n int) *LinearSolver {
	return &LinearSolver{
		n:   n,
		raw: mat.NewDense(n, n, nil),
		b:   mat.NewVecDense(n, nil),
	}
}

// SetLHS factors A = L*U with partial pivoting. It reports failure via
// the returned error rather than panicking, so callers (e.g. SimpleSolver)
// can treat a singular Jacobian as a plain non-convergence.
func (o *LinearSolver) SetLHS(A [][]float64) (err error) {
	n := o.n
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			o.raw.Set(i, j, A[i][j])
		}
	}
	defer func() {
		if r := recover(); r != nil {
			o.ok = false
			err = chk.Err("la: SetLHS failed to factorise matrix: %v", r)
		}
	}()
	o.lu.Factorize(o.raw)
	if cond := o.lu.Cond(); cond > 1e15 {
		o.ok = false
		return chk.Err("la: SetLHS: matrix is numerically singular (cond=%.3e)", cond)
	}
	o.ok = true
	return nil
}

// Solve computes x = A^-1 y using the factorisation from SetLHS. x and y
// may be the same slice.
func (o *LinearSolver) Solve(x, y []float64) error {
	if !o.ok {
		return chk.Err("la: Solve called without a valid factorisation")
	}
	for i := 0; i < o.n; i++ {
		o.b.SetVec(i, y[i])
	}
	if err := o.xv.SolveVec(&o.lu, o.b); err != nil {
		return chk.Err("la: Solve failed: %v", err)
	}
	for i := 0; i < o.n; i++ {
		x[i] = o.xv.AtVec(i)
	}
	return nil
}
