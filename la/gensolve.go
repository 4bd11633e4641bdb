// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"math/big"
	"sort"

	"github.com/cpmech/gosl/chk"
)

// PivotThreshold is the fraction of the row's infinity-norm (in the
// transformed nullspace) a candidate pivot must clear before it is
// considered, following spec §4.1.1's sparsity-preserving rule.
const PivotThreshold = 0.1

// Gensolve solves A*(X + H*k) = B for every k, returning a particular
// solution X and a nullspace basis H such that A*H = 0 exactly. Rows of
// A are processed in ascending order of non-zero count, and at each row
// the pivot column of H is chosen to minimise fill-in rather than by
// magnitude alone, matching the algorithm in spec.md §4.1.1.
func Gensolve(A, B *RatMatrix) (X, H *RatMatrix, err error) {
	if A.Rows != B.Rows {
		return nil, nil, chk.Err("gensolve: A and B must have the same number of rows; got %d and %d", A.Rows, B.Rows)
	}
	n := A.Cols
	X = NewRatMatrix(n, B.Cols)
	H = Identity(n)

	// order rows of A by ascending non-zero count for numerical stability
	order := make([]int, A.Rows)
	for i := range order {
		order[i] = i
	}
	nnzRow := make([]int, A.Rows)
	for i := 0; i < A.Rows; i++ {
		nnzRow[i] = nnzInRowDense(A.A[i])
	}
	sort.SliceStable(order, func(a, b int) bool { return nnzRow[order[a]] < nnzRow[order[b]] })

	for _, i := range order {
		ai := A.A[i]
		// s = ai . H  (1 x H.Cols)
		s := make([]*big.Rat, H.Cols)
		for j := 0; j < H.Cols; j++ {
			sum := new(big.Rat)
			for k := 0; k < n; k++ {
				if ai[k].Sign() == 0 {
					continue
				}
				sum.Add(sum, new(big.Rat).Mul(ai[k], H.A[k][j]))
			}
			s[j] = sum
		}

		// infinity norm of s
		maxAbs := new(big.Rat)
		for _, sv := range s {
			av := new(big.Rat).Abs(sv)
			if av.Cmp(maxAbs) > 0 {
				maxAbs = av
			}
		}
		if maxAbs.Sign() == 0 {
			// redundant equation: ai is already in the row-space spanned
			// by previously consumed rows (ai*H == 0 for all remaining k)
			continue
		}

		// candidate pivot columns: |s_j| >= threshold * maxAbs
		thresh := new(big.Rat).Mul(maxAbs, big.NewRat(1, 10))
		bestJ := -1
		bestNNZ := -1
		for j, sv := range s {
			av := new(big.Rat).Abs(sv)
			if av.Cmp(thresh) < 0 {
				continue
			}
			nz := nnzInCol(H, j)
			if bestJ == -1 || nz < bestNNZ {
				bestJ, bestNNZ = j, nz
			}
		}
		if bestJ == -1 {
			// numerically shouldn't happen since maxAbs itself qualifies
			continue
		}
		j := bestJ
		sj := s[j]
		q := H.Col(j)

		// bi . X  (row vector over B.Cols)
		biX := make([]*big.Rat, B.Cols)
		for c := 0; c < B.Cols; c++ {
			sum := new(big.Rat)
			for k := 0; k < n; k++ {
				if ai[k].Sign() == 0 {
					continue
				}
				sum.Add(sum, new(big.Rat).Mul(ai[k], X.A[k][c]))
			}
			biX[c] = sum
		}

		// X += q * ((b_i - ai.X) / sj)
		for c := 0; c < B.Cols; c++ {
			num := new(big.Rat).Sub(B.A[i][c], biX[c])
			coef := new(big.Rat).Quo(num, sj)
			if coef.Sign() == 0 {
				continue
			}
			for r := 0; r < n; r++ {
				X.A[r][c].Add(X.A[r][c], new(big.Rat).Mul(q[r], coef))
			}
		}

		// H_{-j} = H_{-j} - q * s_{-j}/sj ; H[:,j] is then dropped
		newH := NewRatMatrix(n, H.Cols-1)
		col := 0
		for jj := 0; jj < H.Cols; jj++ {
			if jj == j {
				continue
			}
			coef := new(big.Rat).Quo(s[jj], sj)
			for r := 0; r < n; r++ {
				v := new(big.Rat).Sub(H.A[r][jj], new(big.Rat).Mul(q[r], coef))
				newH.A[r][col].Set(v)
			}
			col++
		}
		H = newH
	}
	return X, H, nil
}
