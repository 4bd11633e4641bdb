// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_rankfactorize_reconstructs checks C*F == A and that F's row count
// equals the rank of a deliberately rank-deficient matrix (spec.md §4.3).
func Test_rankfactorize_reconstructs(tst *testing.T) {

	chk.PrintTitle("rankfactorize_reconstructs")

	// row 3 = 2*row1 + row2, so rank is 2 though there are 3 rows
	A := RatFromDense([][]float64{
		{1, 2, 0},
		{0, 1, 1},
		{2, 5, 1},
	})
	C, F := RankFactorize(A)
	if F.Rows != 2 {
		tst.Errorf("rank: got %d, want 2", F.Rows)
	}
	if C.Rows != 3 || C.Cols != 2 {
		tst.Errorf("C dims: got %dx%d, want 3x2", C.Rows, C.Cols)
	}
	recon := C.MulMat(F)
	chk.Matrix(tst, "C*F == A", 1e-15, recon.ToFloat64(), A.ToFloat64())
}

// Test_rankfactorize_full_rank checks the identity case: a full-rank square
// matrix factorizes with full rank (F has 2 rows) and C*F == A.
func Test_rankfactorize_full_rank(tst *testing.T) {

	chk.PrintTitle("rankfactorize_full_rank")

	A := RatFromDense([][]float64{
		{2, 0},
		{0, 3},
	})
	C, F := RankFactorize(A)
	if F.Rows != 2 {
		tst.Errorf("rank: got %d, want 2", F.Rows)
	}
	recon := C.MulMat(F)
	chk.Matrix(tst, "C*F == A", 1e-15, recon.ToFloat64(), A.ToFloat64())
}

// Test_nullspace_property checks A*N == 0 for every column of N, and that
// N has n - rank(A) columns.
func Test_nullspace_property(tst *testing.T) {

	chk.PrintTitle("nullspace_property")

	A := RatFromDense([][]float64{
		{1, 2, 0},
		{0, 1, 1},
		{2, 5, 1},
	})
	N := NullSpace(A)
	if N.Cols != 1 {
		tst.Errorf("nullspace dim: got %d, want 1 (3 cols - rank 2)", N.Cols)
	}
	AN := A.MulMat(N)
	if !AN.IsZero() {
		tst.Errorf("A*N is not exactly zero")
	}
}
