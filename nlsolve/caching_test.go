// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nlsolve

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_cachingsolver_warm_start checks that solving the same problem twice
// at nearby parameters still returns the correct root, and that the second
// call reuses (rather than bypasses) the cache by landing within
// RefineTol of the first -- exercising the insert-skip branch of Solve.
func Test_cachingsolver_warm_start(tst *testing.T) {

	chk.PrintTitle("cachingsolver_warm_start")

	prob := scalarProblem{}
	base := NewSimpleSolver(prob, 1)
	caching := NewCachingSolver(base, 1, 0)

	z1, ok, err := caching.Solve([]float64{0}, []float64{0.5})
	if err != nil || !ok {
		tst.Errorf("first solve failed: ok=%v err=%v", ok, err)
		return
	}
	chk.Scalar(tst, "|z1|", 1e-8, math.Abs(z1[0]), 1.0)
	if caching.tree.Len() != 1 {
		tst.Errorf("first solve should have inserted into the cache, Len=%d", caching.tree.Len())
	}

	// same parameter again: distance to the cached sample is zero, below
	// RefineTol, so no second insertion happens
	z2, ok, err := caching.Solve([]float64{0}, []float64{-0.5})
	if err != nil || !ok {
		tst.Errorf("second solve failed: ok=%v err=%v", ok, err)
		return
	}
	chk.Scalar(tst, "|z2|", 1e-8, math.Abs(z2[0]), 1.0)
	if caching.tree.Len() != 1 {
		tst.Errorf("repeated solve at the same parameter should not grow the cache, Len=%d", caching.tree.Len())
	}
}
