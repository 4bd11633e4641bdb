// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_gensolve_properties checks the two defining properties of Gensolve
// (spec.md §4.1.1) on an under-determined system: A*X == B exactly, and
// A*H == 0 exactly, for every column of H -- i.e. A*(X+H*k) == B for any k.
func Test_gensolve_properties(tst *testing.T) {

	chk.PrintTitle("gensolve_properties")

	// 2 equations, 4 unknowns: rank-deficient by construction
	A := RatFromDense([][]float64{
		{1, 1, 0, 0},
		{0, 1, 1, 1},
	})
	B := RatFromDense([][]float64{
		{3},
		{5},
	})

	X, H, err := Gensolve(A, B)
	if err != nil {
		tst.Errorf("Gensolve failed: %v", err)
		return
	}
	if X.Rows != 4 || X.Cols != 1 {
		tst.Errorf("X dims: got %dx%d, want 4x1", X.Rows, X.Cols)
	}
	if H.Rows != 4 {
		tst.Errorf("H rows: got %d, want 4", H.Rows)
	}

	AX := A.MulMat(X)
	chk.Matrix(tst, "A*X == B", 1e-15, AX.ToFloat64(), B.ToFloat64())

	if H.Cols > 0 {
		AH := A.MulMat(H)
		if !AH.IsZero() {
			tst.Errorf("A*H is not exactly zero")
		}
	}
}

// Test_gensolve_square checks a non-degenerate square system reduces to the
// unique solution with an empty nullspace.
func Test_gensolve_square(tst *testing.T) {

	chk.PrintTitle("gensolve_square")

	A := RatFromDense([][]float64{
		{2, 1},
		{1, 3},
	})
	B := RatFromDense([][]float64{
		{5},
		{10},
	})

	X, H, err := Gensolve(A, B)
	if err != nil {
		tst.Errorf("Gensolve failed: %v", err)
		return
	}
	if H.Cols != 0 {
		tst.Errorf("square system should have an empty nullspace, got %d columns", H.Cols)
	}
	// 2x+y=5, x+3y=10 => x=1, y=3
	chk.Matrix(tst, "X", 1e-15, X.ToFloat64(), [][]float64{{1}, {3}})
}
