// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_ratmat_roundtrip(tst *testing.T) {

	chk.PrintTitle("ratmat_roundtrip")

	d := [][]float64{{1, 2, 3}, {4, 5, 6}}
	m := RatFromDense(d)
	chk.Matrix(tst, "roundtrip", 1e-15, m.ToFloat64(), d)

	tr := m.T()
	chk.Matrix(tst, "transpose", 1e-15, tr.ToFloat64(), [][]float64{{1, 4}, {2, 5}, {3, 6}})

	if tr.Rows != 3 || tr.Cols != 2 {
		tst.Errorf("transpose dims: got %dx%d, want 3x2", tr.Rows, tr.Cols)
	}
}

func Test_ratmat_stack(tst *testing.T) {

	chk.PrintTitle("ratmat_stack")

	a := RatFromDense([][]float64{{1}, {2}})
	b := RatFromDense([][]float64{{3}, {4}})
	h := HStack(a, b)
	chk.Matrix(tst, "hstack", 1e-15, h.ToFloat64(), [][]float64{{1, 3}, {2, 4}})

	v := VStack(a, b)
	chk.Matrix(tst, "vstack", 1e-15, v.ToFloat64(), [][]float64{{1}, {2}, {3}, {4}})
}

func Test_ratmat_slice_and_gather(tst *testing.T) {

	chk.PrintTitle("ratmat_slice_and_gather")

	m := RatFromDense([][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})

	cols := m.SliceCols(1, 3)
	chk.Matrix(tst, "slicecols", 1e-15, cols.ToFloat64(), [][]float64{{2, 3}, {5, 6}, {8, 9}})

	rows := m.SliceRows(0, 2)
	chk.Matrix(tst, "slicerows", 1e-15, rows.ToFloat64(), [][]float64{{1, 2, 3}, {4, 5, 6}})

	gathered := m.RowsAt([]int{2, 0})
	chk.Matrix(tst, "rowsat", 1e-15, gathered.ToFloat64(), [][]float64{{7, 8, 9}, {1, 2, 3}})

	m.DeleteCol(1)
	chk.Matrix(tst, "deletecol", 1e-15, m.ToFloat64(), [][]float64{{1, 3}, {4, 6}, {7, 9}})
	if m.Cols != 2 {
		tst.Errorf("deletecol: Cols=%d, want 2", m.Cols)
	}
}

func Test_ratmat_mul_and_zero(tst *testing.T) {

	chk.PrintTitle("ratmat_mul_and_zero")

	a := RatFromDense([][]float64{{1, 2}, {3, 4}})
	b := RatFromDense([][]float64{{5, 6}, {7, 8}})
	c := a.MulMat(b)
	chk.Matrix(tst, "mul", 1e-15, c.ToFloat64(), [][]float64{{19, 22}, {43, 50}})

	z := NewRatMatrix(2, 2)
	if !z.IsZero() {
		tst.Errorf("freshly allocated matrix should be zero")
	}
	if a.IsZero() {
		tst.Errorf("non-zero matrix reported as zero")
	}

	id := Identity(3)
	prod := a.MulMat(Identity(2))
	chk.Matrix(tst, "identity", 1e-15, prod.ToFloat64(), a.ToFloat64())
	if id.Rows != 3 || id.Cols != 3 {
		tst.Errorf("identity dims wrong")
	}
}
