// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"math"

	"github.com/cpmech/ckt/circuit"
	"github.com/cpmech/ckt/la"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// indeterminacyNormTol is the threshold above which a discarded nullspace
// direction's effect on the state update or output is considered a real
// indeterminacy rather than benign algebraic slack (spec.md §7.ii).
const indeterminacyNormTol = 1e-8

// assembled holds everything produced by the exact-rational model-matrix
// assembly of spec.md §4.1, prior to nonlinearity decomposition.
type assembled struct {
	off *offsets
	nz  int // Sigma nn_e: nullspace dimension after redundancy removal

	// dense float64 state-space blocks (A,B,x0 constant per compiled model)
	A, B [][]float64
	X0   []float64

	// C: NX x nz, coupling of the (still undecomposed) nonlinear unknowns
	// into the state update
	C [][]float64

	// output law Dy,Ey,Fy,y0 (ny x nx, ny x nu, ny x nz, ny)
	Dy, Ey, Fy [][]float64
	Y0         []float64

	// fq (NQ x nz, exact rational) and q0 (NQ, float64): the nonlinear
	// elements' own port equations, still coupled across all elements,
	// input to decompose.go
	Fq *la.RatMatrix
	Q0 []float64

	// dqFull, eqFull (NQ x nx, NQ x nu, exact rational): q's dependence on
	// state and input, needed by reduce.go's parameter-dimension folding
	DqFull, EqFull *la.RatMatrix

	warnings []string
}

// assemble builds the exact-rational circuit equations, solves them with
// la.Gensolve, discards redundant nullspace directions, and splits the
// result into the blocks spec.md §4.1 names. T is the fixed sample period
// used by the trapezoidal folding Mxdot/T +- Mx/2.
func assemble(c *circuit.Circuit, T float64) (*assembled, error) {
	if !c.Frozen() {
		return nil, chk.Err("compile: circuit must be Frozen before compilation")
	}
	off := computeOffsets(c)
	nb, nx, nq, nu := off.nb, off.nx, off.nq, off.nu

	// block-diagonal element matrices, dense float64, then lifted to exact
	// rationals for gensolve
	Mv := la.MatAlloc(off.nl, nb)
	Mi := la.MatAlloc(off.nl, nb)
	Mx := la.MatAlloc(off.nl, nx)
	Mxdot := la.MatAlloc(off.nl, nx)
	Mq := la.MatAlloc(off.nl, nq)
	Mu := la.MatAlloc(off.nl, nu)
	U0 := la.VecAlloc(off.nl)

	Pv := la.MatAlloc(off.ny, nb)
	Pi := la.MatAlloc(off.ny, nb)
	Px := la.MatAlloc(off.ny, nx)
	Pxdot := la.MatAlloc(off.ny, nx)
	Pq := la.MatAlloc(off.ny, nq)

	for ei, e := range c.Elements {
		lo, bo, xo, qo, uo, yo := off.lOff[ei], off.branchOff[ei], off.xOff[ei], off.qOff[ei], off.uOff[ei], off.yOff[ei]
		copyBlock(Mv, e.Mv, lo, bo)
		copyBlock(Mi, e.Mi, lo, bo)
		copyBlock(Mx, e.Mx, lo, xo)
		copyBlock(Mxdot, e.Mxdot, lo, xo)
		copyBlock(Mq, e.Mq, lo, qo)
		copyBlock(Mu, e.Mu, lo, uo)
		for r := 0; r < e.NL; r++ {
			U0[lo+r] = e.U0[r]
		}
		copyBlock(Pv, e.Pv, yo, bo)
		copyBlock(Pi, e.Pi, yo, bo)
		copyBlock(Px, e.Px, yo, xo)
		copyBlock(Pxdot, e.Pxdot, yo, xo)
		copyBlock(Pq, e.Pq, yo, qo)
	}

	// trapezoidal folding: Mxdot/T +- Mx/2
	MxdotOverT_plus := la.MatAlloc(off.nl, nx)
	MxdotOverT_minus := la.MatAlloc(off.nl, nx)
	for i := 0; i < off.nl; i++ {
		for j := 0; j < nx; j++ {
			MxdotOverT_plus[i][j] = Mxdot[i][j]/T + Mx[i][j]/2
			MxdotOverT_minus[i][j] = Mxdot[i][j]/T - Mx[i][j]/2
		}
	}

	nLoops, nCuts := len(c.Tv), len(c.Ti)
	ncols := nb + nb + nx + nq
	nrows := off.nl + nLoops + nCuts

	lhs := la.MatAlloc(nrows, ncols)
	rhs := la.MatAlloc(nrows, 1+nu+nx)
	for i := 0; i < off.nl; i++ {
		copy(lhs[i][0:nb], Mv[i])
		copy(lhs[i][nb:2*nb], Mi[i])
		copy(lhs[i][2*nb:2*nb+nx], MxdotOverT_plus[i])
		copy(lhs[i][2*nb+nx:2*nb+nx+nq], Mq[i])

		rhs[i][0] = -U0[i]
		for j := 0; j < nu; j++ {
			rhs[i][1+j] = -Mu[i][j]
		}
		for j := 0; j < nx; j++ {
			rhs[i][1+nu+j] = MxdotOverT_minus[i][j]
		}
	}
	for k, row := range c.Tv {
		copy(lhs[off.nl+k][0:nb], row)
	}
	for k, row := range c.Ti {
		copy(lhs[off.nl+nLoops+k][nb:2*nb], row)
	}

	A := la.RatFromDense(lhs)
	Bb := la.RatFromDense(rhs)
	X, H, err := la.Gensolve(A, Bb)
	if err != nil {
		return nil, chk.Err("compile: assembly: %v", err)
	}

	// split X by row block: v(0:nb), i(nb:2nb), x(2nb:2nb+nx), q(2nb+nx:..)
	Xv := X.SliceRows(0, nb)
	Xi := X.SliceRows(nb, 2*nb)
	Xx := X.SliceRows(2*nb, 2*nb+nx)
	Xq := X.SliceRows(2*nb+nx, 2*nb+nx+nq)

	// remove benign nullspace redundancy: directions of H that leave the
	// q-equations (Hq) untouched are pure bookkeeping slack; drop them,
	// warning if they happen to still reach the state update or output
	// (spec.md §7.ii: indeterminate model, compilation proceeds anyway)
	Pcomb := buildPcomb(Pv, Pi, Px, Pxdot, Pq, T, off.ny, nb, nx, nq)
	var warn []string
	H = dropRedundantNullspace(H, nb, nx, nq, Pcomb, &warn)

	Hx := H.SliceRows(2*nb, 2*nb+nx)
	Hq := H.SliceRows(2*nb+nx, 2*nb+nx+nq)

	nz := H.Cols

	// outputs: Dy = P*[dv;di;dx;dq] + Px/2 - Pxdot/T (the "d" -- x-coupled
	// -- column block of X, index range [1+nu, 1+nu+nx))
	Dv := Xv.SliceCols(1+nu, 1+nu+nx)
	Di := Xi.SliceCols(1+nu, 1+nu+nx)
	Dx := Xx.SliceCols(1+nu, 1+nu+nx)
	Dq := Xq.SliceCols(1+nu, 1+nu+nx)
	Ev := Xv.SliceCols(1, 1+nu)
	Ei := Xi.SliceCols(1, 1+nu)
	Ex := Xx.SliceCols(1, 1+nu)
	Eq := Xq.SliceCols(1, 1+nu)
	V0 := Xv.SliceCols(0, 1)
	I0 := Xi.SliceCols(0, 1)
	X0r := Xx.SliceCols(0, 1)
	Q0r := Xq.SliceCols(0, 1)

	stackD := la.VStack(Dv, Di, Dx, Dq)
	stackE := la.VStack(Ev, Ei, Ex, Eq)
	stack0 := la.VStack(V0, I0, X0r, Q0r)

	Pmat := la.RatFromDense(Pcomb)
	DyR := Pmat.MulMat(stackD)
	EyR := Pmat.MulMat(stackE)
	Y0R := Pmat.MulMat(stack0)
	FyR := Pmat.MulMat(H)

	Dy := DyR.ToFloat64()
	// add the direct Px/2-Pxdot/T correction: y depends on x both through
	// the "d" coupling above (v,i,q's own dependence on x) and directly,
	// since the output law evaluates at the *new* sample's x while xdot's
	// trapezoidal substitution folds in +-1/2,1/T the same way assembly's
	// own Mxdot/T+-Mx/2 does
	for i := 0; i < off.ny; i++ {
		for j := 0; j < nx; j++ {
			Dy[i][j] += Px[i][j]/2 - Pxdot[i][j]/T
		}
	}
	Ey := EyR.ToFloat64()
	Fy := FyR.ToFloat64()
	y0Dense := Y0R.ToFloat64()
	Y0 := make([]float64, off.ny)
	for i := range Y0 {
		Y0[i] = y0Dense[i][0]
	}

	Aout := Dx.ToFloat64()
	Bout := Ex.ToFloat64()
	x0Dense := X0r.ToFloat64()
	X0out := make([]float64, nx)
	for i := range X0out {
		X0out[i] = x0Dense[i][0]
	}
	Cout := Hx.ToFloat64()

	q0Dense := Q0r.ToFloat64()
	Q0out := make([]float64, nq)
	for i := range Q0out {
		Q0out[i] = q0Dense[i][0]
	}

	return &assembled{
		off: off, nz: nz,
		A: Aout, B: Bout, X0: X0out, C: Cout,
		Dy: Dy, Ey: Ey, Fy: Fy, Y0: Y0,
		Fq: Hq, Q0: Q0out,
		DqFull: Dq, EqFull: Eq,
		warnings: warn,
	}, nil
}

func copyBlock(dst, src [][]float64, rowOff, colOff int) {
	for i := range src {
		for j := range src[i] {
			dst[rowOff+i][colOff+j] = src[i][j]
		}
	}
}

// buildPcomb assembles the dense combined output matrix P = [Pv Pi (Px/2
// + Pxdot/T) Pq] (ny x (nb+nb+nx+nq)), the output-side analogue of the
// LHS's trapezoidal folding.
func buildPcomb(Pv, Pi, Px, Pxdot, Pq [][]float64, T float64, ny, nb, nx, nq int) [][]float64 {
	P := la.MatAlloc(ny, nb+nb+nx+nq)
	for i := 0; i < ny; i++ {
		copy(P[i][0:nb], Pv[i])
		copy(P[i][nb:2*nb], Pi[i])
		for j := 0; j < nx; j++ {
			P[i][2*nb+j] = Px[i][j]/2 + Pxdot[i][j]/T
		}
		copy(P[i][2*nb+nx:2*nb+nx+nq], Pq[i])
	}
	return P
}

// dropRedundantNullspace finds directions in H's column space that leave
// the nonlinear port rows (Hq, the NQ rows of H) entirely untouched --
// i.e. null(Hq) -- and deletes one column of H per such direction,
// picking as pivot the direction's largest-magnitude entry. A dropped
// direction that still moves the state update (Hx) or the output (P*H)
// by more than indeterminacyNormTol means the circuit under-constrains
// that combination (spec.md §7.ii); compilation warns and proceeds,
// fixing that combination at zero.
func dropRedundantNullspace(H *la.RatMatrix, nb, nx, nq int, Pcomb [][]float64, warn *[]string) *la.RatMatrix {
	if H.Cols == 0 {
		return H
	}
	Hx := H.SliceRows(2*nb, 2*nb+nx)
	Hq := H.SliceRows(2*nb+nx, 2*nb+nx+nq)
	null := la.NullSpace(Hq)
	if null.Cols == 0 {
		return H
	}
	Pmat := la.RatFromDense(Pcomb)
	Fy := Pmat.MulMat(H)

	pivots := map[int]bool{}
	for c := 0; c < null.Cols; c++ {
		best, bestAbs := -1, 0.0
		for r := 0; r < null.Rows; r++ {
			f, _ := null.A[r][c].Float64()
			if a := math.Abs(f); a > bestAbs {
				bestAbs, best = a, r
			}
		}
		if best == -1 || pivots[best] {
			continue
		}
		pivots[best] = true

		stateNorm := colNorm(Hx, null, c)
		outNorm := colNorm(Fy, null, c)
		if stateNorm > indeterminacyNormTol || outNorm > indeterminacyNormTol {
			*warn = append(*warn, io.Sf(
				"compile: circuit is indeterminate: a free nonlinear-unknown combination reaches the %s (norm %.3e); fixing it at zero",
				map[bool]string{true: "state update", false: "output"}[stateNorm > outNorm], math.Max(stateNorm, outNorm)))
		}
	}
	idx := make([]int, 0, len(pivots))
	for p := range pivots {
		idx = append(idx, p)
	}
	// delete in descending order so earlier indices stay valid
	for i := 0; i < len(idx); i++ {
		for j := i + 1; j < len(idx); j++ {
			if idx[j] > idx[i] {
				idx[i], idx[j] = idx[j], idx[i]
			}
		}
	}
	for _, j := range idx {
		H.DeleteCol(j)
	}
	return H
}

// colNorm computes the Euclidean norm of M * null[:,c] (M has Cols ==
// null.Rows == H.Cols, the global nullspace dimension before dropping)
func colNorm(M, null *la.RatMatrix, c int) float64 {
	sum := 0.0
	for i := 0; i < M.Rows; i++ {
		v := 0.0
		for k := 0; k < M.Cols; k++ {
			a, _ := M.A[i][k].Float64()
			b, _ := null.A[k][c].Float64()
			v += a * b
		}
		sum += v * v
	}
	return math.Sqrt(sum)
}
