// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nlsolve

import (
	"github.com/cpmech/ckt/kdtree"
)

// CachingSolver wraps a base solver and memoises converged solutions
// keyed by the parameter vector, using a K-D tree for nearest-neighbour
// warm-starting (spec.md §4.4.2).
type CachingSolver struct {
	base Solver
	tree *kdtree.Tree

	// RefineTol: a converged solution is only inserted into the tree if
	// it is farther than this (Euclidean) distance from the sample that
	// seeded it -- avoids flooding the tree with near-duplicates.
	RefineTol float64
}

// NewCachingSolver wraps base with a tree capped at maxSize entries (0
// for unbounded growth; see spec.md §9 on bounding long simulations).
func NewCachingSolver(base Solver, dims, maxSize int) *CachingSolver {
	return &CachingSolver{
		base:      base,
		tree:      kdtree.New(dims, maxSize),
		RefineTol: 1e-9,
	}
}

// SetResAbsTol forwards to the wrapped solver
func (o *CachingSolver) SetResAbsTol(tol float64) { o.base.SetResAbsTol(tol) }

// Solve looks up the nearest previously-solved parameter, seeds the base
// solver with its cached solution (ignoring the caller's seed, which is
// usually just the previous sample's result and less informative than a
// true nearby solve), and inserts the new solution if it converged and
// landed far enough from its seed to be worth remembering.
func (o *CachingSolver) Solve(p, zseed []float64) (z []float64, converged bool, err error) {
	seed := zseed
	_, zPrime, distSq, ok := o.tree.Nearest(p)
	if ok {
		seed = zPrime
	}
	z, converged, err = o.base.Solve(p, seed)
	if err != nil || !converged {
		return z, converged, err
	}
	if !ok || distSq > o.RefineTol*o.RefineTol {
		o.tree.Insert(p, z)
	}
	return z, converged, nil
}
