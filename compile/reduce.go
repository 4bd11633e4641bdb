// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import "github.com/cpmech/ckt/la"

// reducedBlock is one block's parameter-dimension-reduced sub-problem
// (spec.md §4.3): instead of handing the nonlinear solver the full
// (nx+nu+zlo)-dimensional parameter vector p_full = dq_full*x+eq_full*u+
// fqprev_full*zprev, rank-factorize [dq_full|eq_full|fqprev_full] into
// pexp*p, where p has only as many components as that stacked matrix's
// rank -- the solver and its K-D-tree cache then operate in the smallest
// space that actually matters. pexp is further projected onto the
// orthogonal complement of column-span(fqOwn): any component of pexp
// lying in that span would let p move q purely through a combination
// that z already reaches on its own, which both overstates NP and
// spoils the cache's warm-start distance metric (spec.md §4.3).
type reducedBlock struct {
	block
	NP             int // reduced parameter dimension (0 if q is pinned, no p-dependence at all)
	Pexp           [][]float64 // NQrows x NP
	Dq, Eq         [][]float64 // NP x nx, NP x nu
	Fqprev         [][]float64 // NP x zlo (zlo = block.ZLo)
	Q0             []float64   // NQrows, the constant term (unreduced)
	FqOwn          [][]float64 // NQrows x (ZHi-ZLo), this block's own z-columns of fq
}

// reduceParams rank-factorizes each block's parameter dependence. cur is
// fq after decomposeNonlinearity's column transform (rational, NQ x nz);
// dqFull, eqFull are q's un-transformed dependence on x and u (NQ x nx,
// NQ x nu -- the column transform never touches these since it only acts
// on z-columns); q0 is the full constant term.
func reduceParams(blocks []block, cur, dqFull, eqFull *la.RatMatrix, q0 []float64) ([]*reducedBlock, error) {
	out := make([]*reducedBlock, len(blocks))
	for bi, b := range blocks {
		dqS := dqFull.RowsAt(b.QRows)
		eqS := eqFull.RowsAt(b.QRows)
		var fqprevS *la.RatMatrix
		if b.ZLo > 0 {
			fqprevS = cur.RowsAt(b.QRows).SliceCols(0, b.ZLo)
		} else {
			fqprevS = la.NewRatMatrix(len(b.QRows), 0)
		}
		full := la.HStack(dqS, eqS, fqprevS)

		fqOwn := cur.RowsAt(b.QRows).SliceCols(b.ZLo, b.ZHi)

		var np int
		var pexp, fmat *la.RatMatrix
		if full.IsZero() {
			np = 0
			pexp = la.NewRatMatrix(len(b.QRows), 0)
			fmat = la.NewRatMatrix(0, full.Cols)
		} else {
			pexp, fmat = la.RankFactorize(full)
			var err error
			pexp, fmat, err = projectOutOwnSpan(pexp, fmat, fqOwn)
			if err != nil {
				return nil, err
			}
			np = fmat.Rows
		}

		nx := dqFull.Cols
		nu := eqFull.Cols
		dq := fmat.SliceCols(0, nx)
		eq := fmat.SliceCols(nx, nx+nu)
		fqprev := fmat.SliceCols(nx+nu, nx+nu+b.ZLo)

		q0s := make([]float64, len(b.QRows))
		for i, r := range b.QRows {
			q0s[i] = q0[r]
		}

		out[bi] = &reducedBlock{
			block: b, NP: np,
			Pexp: pexp.ToFloat64(), Dq: dq.ToFloat64(), Eq: eq.ToFloat64(), Fqprev: fqprev.ToFloat64(),
			Q0: q0s, FqOwn: fqOwn.ToFloat64(),
		}
	}
	return out, nil
}

// projectOutOwnSpan removes, from pexp's columns, any component lying in
// column-span(fqOwn) -- q = q0+pexp*p+fqOwn*z, so such a component only
// ever moves q in a direction the block's own unknowns z already cover,
// making it redundant as a parameter dependence. The projector is
// I-fqOwn*(fqOwnT*fqOwn)^+*fqOwnT; since fqOwn's columns are exactly the
// rank-extracted z-columns decomposeNonlinearity confined this block to,
// fqOwn has full column rank, so (fqOwnT*fqOwn) is invertible and its
// unique inverse is obtained via Gensolve rather than a pseudo-inverse.
// The projected pexp is then re-factorized to drop any rank lost to the
// projection, folding the corresponding compression into fmat (p_new =
// R*p_old) so pexp*fmat == the projected dependence throughout.
func projectOutOwnSpan(pexp, fmat, fqOwn *la.RatMatrix) (*la.RatMatrix, *la.RatMatrix, error) {
	if fqOwn.Cols == 0 || pexp.Cols == 0 {
		return pexp, fmat, nil
	}
	fqT := fqOwn.T()
	gram := fqT.MulMat(fqOwn)
	rhs := fqT.MulMat(pexp)
	coef, null, err := la.Gensolve(gram, rhs)
	if err != nil {
		return nil, nil, err
	}
	_ = null // gram is square full rank by construction; null.Cols == 0
	pexpProj := pexp.Sub(fqOwn.MulMat(coef))
	if pexpProj.IsZero() {
		return la.NewRatMatrix(pexp.Rows, 0), la.NewRatMatrix(0, fmat.Cols), nil
	}
	newPexp, R := la.RankFactorize(pexpProj)
	return newPexp, R.MulMat(fmat), nil
}
