// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package la implements the linear algebra kernels used by the model
// compiler: a compressed-column sparse matrix for element and topology
// data, an exact-rational generalised solver for the assembly step, and
// a dense LU-backed solver used by the nonlinear solver stack.
package la

import "sort"

// Triplet is a sparse matrix builder using the (row, col, value) format.
// Entries are accumulated with Put and converted into a CCMatrix with
// ToMatrix. Duplicate (i,j) pairs accumulate, matching the usual finite
// element assembly convention of summing contributions into shared rows.
type Triplet struct {
	m, n int
	i, j []int
	x    []float64
}

// NewTriplet allocates a Triplet for an m x n matrix with room for max
// non-zero entries.
func NewTriplet(m, n, max int) *Triplet {
	return &Triplet{
		m: m, n: n,
		i: make([]int, 0, max),
		j: make([]int, 0, max),
		x: make([]float64, 0, max),
	}
}

// Put appends a non-zero entry (i,j)=x
func (o *Triplet) Put(i, j int, x float64) {
	o.i = append(o.i, i)
	o.j = append(o.j, j)
	o.x = append(o.x, x)
}

// Size returns the matrix dimensions
func (o *Triplet) Size() (m, n int) { return o.m, o.n }

// ToMatrix converts the triplet into a compressed-column matrix, summing
// duplicate entries
func (o *Triplet) ToMatrix() *CCMatrix {
	type key struct{ i, j int }
	sums := make(map[key]float64, len(o.x))
	for k := range o.x {
		ky := key{o.i[k], o.j[k]}
		sums[ky] += o.x[k]
	}
	keys := make([]key, 0, len(sums))
	for ky := range sums {
		keys = append(keys, ky)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].j != keys[b].j {
			return keys[a].j < keys[b].j
		}
		return keys[a].i < keys[b].i
	})
	mat := &CCMatrix{m: o.m, n: o.n, colPtr: make([]int, o.n+1)}
	col := 0
	for _, ky := range keys {
		for col < ky.j {
			col++
			mat.colPtr[col] = len(mat.rowInd)
		}
		mat.rowInd = append(mat.rowInd, ky.i)
		mat.val = append(mat.val, sums[ky])
	}
	for col < o.n {
		col++
		mat.colPtr[col] = len(mat.rowInd)
	}
	return mat
}

// CCMatrix is a compressed-column sparse matrix: for column j, entries are
// rowInd[colPtr[j]:colPtr[j+1]] paired with val[colPtr[j]:colPtr[j+1]].
type CCMatrix struct {
	m, n   int
	colPtr []int
	rowInd []int
	val    []float64
}

// Dims returns (rows, cols)
func (o *CCMatrix) Dims() (m, n int) { return o.m, o.n }

// NNZ returns the number of stored (non-zero) entries
func (o *CCMatrix) NNZ() int { return len(o.val) }

// Col returns the row indices and values of column j
func (o *CCMatrix) Col(j int) (rows []int, vals []float64) {
	a, b := o.colPtr[j], o.colPtr[j+1]
	return o.rowInd[a:b], o.val[a:b]
}

// NNZRow counts non-zero entries in row i (linear scan; matrices here are
// small per-element blocks, so this is not a bottleneck)
func (o *CCMatrix) NNZRow(i int) (count int) {
	for _, v := range o.val {
		_ = v
	}
	for j := 0; j < o.n; j++ {
		for _, r := range o.rowInd[o.colPtr[j]:o.colPtr[j+1]] {
			if r == i {
				count++
				break
			}
		}
	}
	return
}

// Find calls f for every stored non-zero entry (i,j,x)
func (o *CCMatrix) Find(f func(i, j int, x float64)) {
	for j := 0; j < o.n; j++ {
		a, b := o.colPtr[j], o.colPtr[j+1]
		for k := a; k < b; k++ {
			f(o.rowInd[k], j, o.val[k])
		}
	}
}

// T returns the transpose
func (o *CCMatrix) T() *CCMatrix {
	trip := NewTriplet(o.n, o.m, o.NNZ())
	o.Find(func(i, j int, x float64) { trip.Put(j, i, x) })
	return trip.ToMatrix()
}

// DeleteCol removes column j, shrinking the matrix to n-1 columns
func (o *CCMatrix) DeleteCol(j int) *CCMatrix {
	trip := NewTriplet(o.m, o.n-1, o.NNZ())
	o.Find(func(i, jj int, x float64) {
		if jj == j {
			return
		}
		nj := jj
		if jj > j {
			nj--
		}
		trip.Put(i, nj, x)
	})
	return trip.ToMatrix()
}

// MulVec computes y = A*x
func (o *CCMatrix) MulVec(y, x []float64) {
	for i := range y {
		y[i] = 0
	}
	for j := 0; j < o.n; j++ {
		a, b := o.colPtr[j], o.colPtr[j+1]
		for k := a; k < b; k++ {
			y[o.rowInd[k]] += o.val[k] * x[j]
		}
	}
}

// ToDense expands the sparse matrix into a dense row-major [][]float64
func (o *CCMatrix) ToDense() [][]float64 {
	d := MatAlloc(o.m, o.n)
	o.Find(func(i, j int, x float64) { d[i][j] += x })
	return d
}

// MatAlloc allocates a dense m x n matrix of zeros, following the
// row-major [][]float64 convention used throughout gosl/la.
func MatAlloc(m, n int) (mat [][]float64) {
	mat = make([][]float64, m)
	buf := make([]float64, m*n)
	for i := 0; i < m; i++ {
		mat[i] = buf[i*n : (i+1)*n]
	}
	return
}

// VecAlloc allocates a vector of zeros
func VecAlloc(n int) []float64 { return make([]float64, n) }
