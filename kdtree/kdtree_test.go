// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kdtree

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// bruteNearest scans every inserted sample directly, the reference this
// test compares Tree.Nearest against.
func bruteNearest(samples [][2]float64, values [][]float64, q []float64) (z []float64, distSq float64) {
	best := -1
	bestD := math.Inf(1)
	for i, p := range samples {
		d := 0.0
		for k := range q {
			diff := p[k] - q[k]
			d += diff * diff
		}
		if d < bestD {
			bestD, best = d, i
		}
	}
	return values[best], bestD
}

// Test_kdtree_nearest_matches_brute inserts a fixed set of 2-D samples and
// checks Tree.Nearest agrees with an exhaustive linear scan for several
// query points, the property spec.md §9 relies on for correct warm-starts.
func Test_kdtree_nearest_matches_brute(tst *testing.T) {

	chk.PrintTitle("kdtree_nearest_matches_brute")

	pts := [][2]float64{
		{0, 0}, {1, 0}, {0, 1}, {5, 5}, {3, 1}, {-2, -2}, {4, 0}, {0, 4},
	}
	vals := make([][]float64, len(pts))
	tree := New(2, 0)
	for i, p := range pts {
		vals[i] = []float64{float64(i)}
		tree.Insert([]float64{p[0], p[1]}, vals[i])
	}

	queries := [][]float64{{0.1, 0.1}, {4.9, 4.9}, {3, 0.2}, {-1.2, -1.2}, {2, 2}}
	for _, q := range queries {
		_, z, distSq, ok := tree.Nearest(q)
		if !ok {
			tst.Errorf("query %v: tree reported empty", q)
			continue
		}
		wantZ, wantDistSq := bruteNearest(pts, vals, q)
		chk.Vector(tst, "nearest z", 1e-15, z, wantZ)
		chk.Scalar(tst, "nearest distSq", 1e-12, distSq, wantDistSq)
	}
}

// Test_kdtree_empty checks Nearest reports ok=false on an empty tree.
func Test_kdtree_empty(tst *testing.T) {

	chk.PrintTitle("kdtree_empty")

	tree := New(2, 0)
	_, _, _, ok := tree.Nearest([]float64{0, 0})
	if ok {
		tst.Errorf("empty tree should report ok=false")
	}
}

// Test_kdtree_eviction checks that once maxSize is exceeded the oldest
// sample is dropped and no longer returned as a nearest match.
func Test_kdtree_eviction(tst *testing.T) {

	chk.PrintTitle("kdtree_eviction")

	tree := New(1, 2)
	tree.Insert([]float64{0}, []float64{100})
	tree.Insert([]float64{1}, []float64{101})
	tree.Insert([]float64{2}, []float64{102}) // evicts the {0} sample

	if tree.Len() != 2 {
		tst.Errorf("Len after eviction: got %d, want 2", tree.Len())
	}
	_, z, _, ok := tree.Nearest([]float64{0})
	if !ok {
		tst.Errorf("tree should not be empty")
	}
	// nearest to 0 among {1,2} is 1, not the evicted 0
	chk.Vector(tst, "nearest after eviction", 1e-15, z, []float64{101})
}
