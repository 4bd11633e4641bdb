// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nlsolve

import (
	"github.com/cpmech/ckt/la"
)

// SimpleSolver is a damped-Newton solver with a cached LU factorisation
// of the Jacobian, following spec.md §4.4.1.
type SimpleSolver struct {
	prob    Problem
	n       int
	tol     float64
	maxIt   int
	ls      *la.LinearSolver
	scratch *Scratch

	// adaptive damping state, reset at the start of each Solve
	alpha float64

	// Newton scratch, owned so Solve allocates nothing after construction
	// (spec.md §5/§8's zero-allocation inner loop).
	z, res, resTrial, dz, znew []float64
	J                          [][]float64
}

// NewSimpleSolver builds a damped-Newton solver for prob, with scratch
// sized for nq rows of q (the sub-problem's full parameter dimension).
func NewSimpleSolver(prob Problem, nq int) *SimpleSolver {
	n := prob.Dim()
	return &SimpleSolver{
		prob:    prob,
		n:       n,
		tol:     DefaultTol,
		maxIt:   500,
		ls:      la.NewLinearSolver(n),
		scratch: NewScratch(n, nq),

		z:        make([]float64, n),
		res:      make([]float64, n),
		resTrial: make([]float64, n),
		dz:       make([]float64, n),
		znew:     make([]float64, n),
		J:        la.MatAlloc(n, n),
	}
}

// SetResAbsTol overrides the default residual tolerance
func (o *SimpleSolver) SetResAbsTol(tol float64) { o.tol = tol }

// SetMaxIterations overrides the default 500-iteration cap
func (o *SimpleSolver) SetMaxIterations(n int) { o.maxIt = n }

// Solve runs damped Newton iteration from zseed until the residual's
// infinity norm is within tolerance, the iteration cap is hit, or the
// Jacobian becomes singular.
func (o *SimpleSolver) Solve(p, zseed []float64) (z []float64, converged bool, err error) {
	o.prob.SetP(o.scratch, p)
	z = o.z
	copy(z, zseed)
	res := o.res
	J := o.J
	resTrial := o.resTrial
	dz := o.dz
	znew := o.znew

	o.alpha = 1.0
	if err = o.prob.Residual(o.scratch, z, res, J); err != nil {
		return z, false, err
	}
	if infNorm(res) <= o.tol {
		return z, true, nil
	}

	for it := 0; it < o.maxIt; it++ {
		if e := o.ls.SetLHS(J); e != nil {
			return z, false, nil // singular Jacobian: finite non-convergence, not fatal
		}
		if e := o.ls.Solve(dz, res); e != nil {
			return z, false, nil
		}

		for i := range z {
			znew[i] = z[i] - o.alpha*dz[i]
		}
		if !allFinite(znew) {
			return znew, false, nil
		}
		if e := o.prob.Residual(o.scratch, znew, resTrial, J); e != nil {
			return z, false, e
		}
		oldNorm, newNorm := infNorm(res), infNorm(resTrial)

		copy(z, znew)
		copy(res, resTrial)

		if newNorm <= o.tol {
			return z, true, nil
		}

		// adaptive damping: grow alpha when the residual more than halves,
		// shrink it when the residual did not decrease, keep it otherwise
		if newNorm < 0.5*oldNorm {
			o.alpha = minF(1.0, o.alpha*1.5)
		} else if newNorm >= oldNorm {
			o.alpha = o.alpha * 0.5
		}
	}
	return z, false, nil
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
