// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import "math/big"

// RatMatrix is a dense matrix of exact rationals, row-major. Model
// assembly (§4.1) needs exact arithmetic to avoid the catastrophic rank
// loss that floating-point Gauss-Jordan elimination suffers on the
// rank-deficient systems produced by circuit topology; the runtime
// itself stays in double precision (see la.LinearSolver).
type RatMatrix struct {
	Rows, Cols int
	A          [][]*big.Rat // A[i][j]
}

// NewRatMatrix allocates an m x n matrix of zeros
func NewRatMatrix(m, n int) *RatMatrix {
	o := &RatMatrix{Rows: m, Cols: n, A: make([][]*big.Rat, m)}
	for i := 0; i < m; i++ {
		o.A[i] = make([]*big.Rat, n)
		for j := 0; j < n; j++ {
			o.A[i][j] = new(big.Rat)
		}
	}
	return o
}

// RatFromDense converts a dense float64 matrix into an exact RatMatrix
func RatFromDense(d [][]float64) *RatMatrix {
	m := len(d)
	if m == 0 {
		return NewRatMatrix(0, 0)
	}
	n := len(d[0])
	o := NewRatMatrix(m, n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			o.A[i][j].SetFloat64(d[i][j])
		}
	}
	return o
}

// Identity returns the n x n identity matrix
func Identity(n int) *RatMatrix {
	o := NewRatMatrix(n, n)
	for i := 0; i < n; i++ {
		o.A[i][i].SetInt64(1)
	}
	return o
}

// Clone returns a deep copy
func (o *RatMatrix) Clone() *RatMatrix {
	c := NewRatMatrix(o.Rows, o.Cols)
	for i := range o.A {
		for j := range o.A[i] {
			c.A[i][j].Set(o.A[i][j])
		}
	}
	return c
}

// Col returns column j as a new slice of rationals
func (o *RatMatrix) Col(j int) []*big.Rat {
	c := make([]*big.Rat, o.Rows)
	for i := 0; i < o.Rows; i++ {
		c[i] = new(big.Rat).Set(o.A[i][j])
	}
	return c
}

// SetCol overwrites column j with vals
func (o *RatMatrix) SetCol(j int, vals []*big.Rat) {
	for i := 0; i < o.Rows; i++ {
		o.A[i][j].Set(vals[i])
	}
}

// DeleteCol removes column j in place, shrinking Cols by one
func (o *RatMatrix) DeleteCol(j int) {
	for i := 0; i < o.Rows; i++ {
		o.A[i] = append(o.A[i][:j], o.A[i][j+1:]...)
	}
	o.Cols--
}

// DeleteRow removes row i in place, shrinking Rows by one
func (o *RatMatrix) DeleteRow(i int) {
	o.A = append(o.A[:i], o.A[i+1:]...)
	o.Rows--
}

// HStack concatenates matrices column-wise; all must share Rows
func HStack(mats ...*RatMatrix) *RatMatrix {
	rows := mats[0].Rows
	cols := 0
	for _, m := range mats {
		cols += m.Cols
	}
	o := NewRatMatrix(rows, cols)
	c := 0
	for _, m := range mats {
		for j := 0; j < m.Cols; j++ {
			for i := 0; i < rows; i++ {
				o.A[i][c+j].Set(m.A[i][j])
			}
		}
		c += m.Cols
	}
	return o
}

// VStack concatenates matrices row-wise; all must share Cols
func VStack(mats ...*RatMatrix) *RatMatrix {
	cols := mats[0].Cols
	rows := 0
	for _, m := range mats {
		rows += m.Rows
	}
	o := NewRatMatrix(rows, cols)
	r := 0
	for _, m := range mats {
		for i := 0; i < m.Rows; i++ {
			for j := 0; j < cols; j++ {
				o.A[r+i][j].Set(m.A[i][j])
			}
		}
		r += m.Rows
	}
	return o
}

// SliceCols returns a new matrix holding columns [a,b)
func (o *RatMatrix) SliceCols(a, b int) *RatMatrix {
	c := NewRatMatrix(o.Rows, b-a)
	for i := 0; i < o.Rows; i++ {
		for j := a; j < b; j++ {
			c.A[i][j-a].Set(o.A[i][j])
		}
	}
	return c
}

// SliceRows returns a new matrix holding rows [a,b)
func (o *RatMatrix) SliceRows(a, b int) *RatMatrix {
	c := NewRatMatrix(b-a, o.Cols)
	for i := a; i < b; i++ {
		for j := 0; j < o.Cols; j++ {
			c.A[i-a][j].Set(o.A[i][j])
		}
	}
	return c
}

// RowsAt returns a new matrix holding the given (possibly non-contiguous,
// arbitrary order) row indices, used to gather a subset of elements' own
// q-rows out of a full assembled matrix.
func (o *RatMatrix) RowsAt(idx []int) *RatMatrix {
	c := NewRatMatrix(len(idx), o.Cols)
	for k, i := range idx {
		for j := 0; j < o.Cols; j++ {
			c.A[k][j].Set(o.A[i][j])
		}
	}
	return c
}

// MulMat computes o*b
func (o *RatMatrix) MulMat(b *RatMatrix) *RatMatrix {
	if o.Cols != b.Rows {
		panic("la: MulMat dimension mismatch")
	}
	c := NewRatMatrix(o.Rows, b.Cols)
	for i := 0; i < o.Rows; i++ {
		for j := 0; j < b.Cols; j++ {
			sum := new(big.Rat)
			for k := 0; k < o.Cols; k++ {
				sum.Add(sum, new(big.Rat).Mul(o.A[i][k], b.A[k][j]))
			}
			c.A[i][j] = sum
		}
	}
	return c
}

// Add computes o+b
func (o *RatMatrix) Add(b *RatMatrix) *RatMatrix {
	c := NewRatMatrix(o.Rows, o.Cols)
	for i := range o.A {
		for j := range o.A[i] {
			c.A[i][j].Add(o.A[i][j], b.A[i][j])
		}
	}
	return c
}

// Sub computes o-b
func (o *RatMatrix) Sub(b *RatMatrix) *RatMatrix {
	c := NewRatMatrix(o.Rows, o.Cols)
	for i := range o.A {
		for j := range o.A[i] {
			c.A[i][j].Sub(o.A[i][j], b.A[i][j])
		}
	}
	return c
}

// T returns the transpose
func (o *RatMatrix) T() *RatMatrix {
	c := NewRatMatrix(o.Cols, o.Rows)
	for i := 0; i < o.Rows; i++ {
		for j := 0; j < o.Cols; j++ {
			c.A[j][i].Set(o.A[i][j])
		}
	}
	return c
}

// ToFloat64 converts back to double precision, for use by the runtime
func (o *RatMatrix) ToFloat64() [][]float64 {
	d := MatAlloc(o.Rows, o.Cols)
	for i := 0; i < o.Rows; i++ {
		for j := 0; j < o.Cols; j++ {
			d[i][j], _ = o.A[i][j].Float64()
		}
	}
	return d
}

// IsZero reports whether every entry is exactly zero
func (o *RatMatrix) IsZero() bool {
	for i := range o.A {
		for j := range o.A[i] {
			if o.A[i][j].Sign() != 0 {
				return false
			}
		}
	}
	return true
}

// nnzInCol counts the non-zero rationals in column j, used by gensolve's
// sparsity-preserving pivot rule
func nnzInCol(m *RatMatrix, j int) (n int) {
	for i := 0; i < m.Rows; i++ {
		if m.A[i][j].Sign() != 0 {
			n++
		}
	}
	return
}

// nnzInRowDense counts non-zero entries in a plain row of rationals
func nnzInRowDense(row []*big.Rat) (n int) {
	for _, r := range row {
		if r.Sign() != 0 {
			n++
		}
	}
	return
}
