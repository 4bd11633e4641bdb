// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import "math/big"

// RankFactorize computes C, F such that A = C*F with F having full row
// rank, via reduced row-echelon form over exact rationals. F is taken to
// be the non-zero rows of rref(A); C is then exactly the columns of A at
// F's pivot positions, since those columns of rref(A) are unit vectors.
func RankFactorize(A *RatMatrix) (C, F *RatMatrix) {
	R := A.Clone()
	m, n := R.Rows, R.Cols
	pivotCols := []int{}
	row := 0
	for col := 0; col < n && row < m; col++ {
		// find a non-zero entry at or below `row` in this column
		sel := -1
		for r := row; r < m; r++ {
			if R.A[r][col].Sign() != 0 {
				sel = r
				break
			}
		}
		if sel == -1 {
			continue
		}
		R.A[row], R.A[sel] = R.A[sel], R.A[row]

		// normalise pivot row
		inv := new(big.Rat).Inv(R.A[row][col])
		for j := 0; j < n; j++ {
			R.A[row][j].Mul(R.A[row][j], inv)
		}

		// eliminate this column from every other row
		for r := 0; r < m; r++ {
			if r == row || R.A[r][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Set(R.A[r][col])
			for j := 0; j < n; j++ {
				R.A[r][j].Sub(R.A[r][j], new(big.Rat).Mul(factor, R.A[row][j]))
			}
		}
		pivotCols = append(pivotCols, col)
		row++
	}
	rank := row

	F = NewRatMatrix(rank, n)
	for i := 0; i < rank; i++ {
		for j := 0; j < n; j++ {
			F.A[i][j].Set(R.A[i][j])
		}
	}

	C = NewRatMatrix(m, rank)
	for i := 0; i < m; i++ {
		for k, col := range pivotCols {
			C.A[i][k].Set(A.A[i][col])
		}
	}
	return
}

// NullSpace returns a basis (as columns of the returned matrix) for the
// null space of A, i.e. every column k satisfies A*N[:,k] = 0. It is
// obtained from rref(A): free columns yield one basis vector each.
func NullSpace(A *RatMatrix) *RatMatrix {
	R := A.Clone()
	m, n := R.Rows, R.Cols
	pivotOf := make([]int, 0, m) // pivotOf[row] = column
	row := 0
	isPivotCol := make([]bool, n)
	for col := 0; col < n && row < m; col++ {
		sel := -1
		for r := row; r < m; r++ {
			if R.A[r][col].Sign() != 0 {
				sel = r
				break
			}
		}
		if sel == -1 {
			continue
		}
		R.A[row], R.A[sel] = R.A[sel], R.A[row]
		inv := new(big.Rat).Inv(R.A[row][col])
		for j := 0; j < n; j++ {
			R.A[row][j].Mul(R.A[row][j], inv)
		}
		for r := 0; r < m; r++ {
			if r == row || R.A[r][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Set(R.A[r][col])
			for j := 0; j < n; j++ {
				R.A[r][j].Sub(R.A[r][j], new(big.Rat).Mul(factor, R.A[row][j]))
			}
		}
		pivotOf = append(pivotOf, col)
		isPivotCol[col] = true
		row++
	}
	rank := row

	freeCols := []int{}
	for j := 0; j < n; j++ {
		if !isPivotCol[j] {
			freeCols = append(freeCols, j)
		}
	}
	N := NewRatMatrix(n, len(freeCols))
	for k, fc := range freeCols {
		N.A[fc][k].SetInt64(1)
		for r := 0; r < rank; r++ {
			v := R.A[r][fc]
			if v.Sign() != 0 {
				N.A[pivotOf[r]][k].Neg(v)
			}
		}
	}
	return N
}
