// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import "math/big"

// GaussJordanTransform reduces M to reduced row-echelon form by full
// Gauss-Jordan elimination (pivot normalised to 1, eliminated above and
// below), returning the accumulated row-operation matrix R (square,
// invertible, M.Rows x M.Rows) such that R*M is that echelon form, plus
// the detected rank. Every row of R*M at index >= rank is exactly zero,
// which is what package compile's decomposition step (tryextract) uses
// to decide whether a subset of rows lies in the span of the first `k`
// transformed columns of some other matrix sharing M's column space.
func GaussJordanTransform(M *RatMatrix) (R *RatMatrix, rank int) {
	A := M.Clone()
	m, n := A.Rows, A.Cols
	R = Identity(m)
	row := 0
	for col := 0; col < n && row < m; col++ {
		sel := -1
		for r := row; r < m; r++ {
			if A.A[r][col].Sign() != 0 {
				sel = r
				break
			}
		}
		if sel == -1 {
			continue
		}
		A.A[row], A.A[sel] = A.A[sel], A.A[row]
		R.A[row], R.A[sel] = R.A[sel], R.A[row]

		inv := new(big.Rat).Inv(A.A[row][col])
		for j := 0; j < n; j++ {
			A.A[row][j].Mul(A.A[row][j], inv)
		}
		for j := 0; j < m; j++ {
			R.A[row][j].Mul(R.A[row][j], inv)
		}

		for r := 0; r < m; r++ {
			if r == row || A.A[r][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Set(A.A[r][col])
			for j := 0; j < n; j++ {
				A.A[r][j].Sub(A.A[r][j], new(big.Rat).Mul(factor, A.A[row][j]))
			}
			for j := 0; j < m; j++ {
				R.A[r][j].Sub(R.A[r][j], new(big.Rat).Mul(factor, R.A[row][j]))
			}
		}
		row++
	}
	rank = row
	return
}
