// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nlsolve

// MinDeltaLambda is the homotopy step floor; once the continuation step
// shrinks below this, the solver gives up (spec.md §4.4.3).
const MinDeltaLambda = 1.0 / (1 << 20)

// HomotopySolver wraps a base solver (typically a CachingSolver wrapping
// a SimpleSolver) and falls back to continuation along a scalar λ from a
// known-good anchor parameter to the target when a direct solve fails
// (spec.md §4.4.3).
type HomotopySolver struct {
	base Solver

	anchorP []float64
	anchorZ []float64
	haveAnchor bool
}

// NewHomotopySolver wraps base. anchorP0/anchorZ0 is the initial
// known-good (parameter, solution) pair -- typically the sub-problem's
// (q0-derived parameter, z0) computed at compile time.
func NewHomotopySolver(base Solver, anchorP0, anchorZ0 []float64) *HomotopySolver {
	return &HomotopySolver{
		base:       base,
		anchorP:    append([]float64(nil), anchorP0...),
		anchorZ:    append([]float64(nil), anchorZ0...),
		haveAnchor: true,
	}
}

// SetResAbsTol forwards to the wrapped solver
func (o *HomotopySolver) SetResAbsTol(tol float64) { o.base.SetResAbsTol(tol) }

// Solve tries the base solver directly first; on failure it walks a
// continuation path p(λ) = (1-λ)*anchorP + λ*target starting from λ=0
// at the anchor, halving the step on failure and doubling it (capped at
// 1) on success, until either λ reaches 1 (done) or the step underflows
// MinDeltaLambda (non-converged).
func (o *HomotopySolver) Solve(target, zseed []float64) (z []float64, converged bool, err error) {
	z, converged, err = o.base.Solve(target, zseed)
	if err != nil {
		return z, false, err
	}
	if converged {
		o.anchorP = append(o.anchorP[:0], target...)
		o.anchorZ = append(o.anchorZ[:0], z...)
		return z, true, nil
	}
	if !o.haveAnchor {
		return z, false, nil
	}

	n := len(target)
	p := make([]float64, n)
	lambda := 0.0
	step := 1.0
	cur := append([]float64(nil), o.anchorZ...)

	for step >= MinDeltaLambda {
		tryLambda := lambda + step
		if tryLambda > 1 {
			tryLambda = 1
		}
		for i := 0; i < n; i++ {
			p[i] = (1-tryLambda)*o.anchorP[i] + tryLambda*target[i]
		}
		zt, conv, e := o.base.Solve(p, cur)
		if e != nil {
			return cur, false, e
		}
		if conv {
			cur = zt
			lambda = tryLambda
			if lambda >= 1 {
				o.anchorP = append(o.anchorP[:0], target...)
				o.anchorZ = append(o.anchorZ[:0], cur...)
				return cur, true, nil
			}
			step *= 2
			continue
		}
		step /= 2
	}
	return cur, false, nil
}
