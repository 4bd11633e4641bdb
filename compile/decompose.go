// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"github.com/cpmech/ckt/circuit"
	"github.com/cpmech/ckt/la"
)

// maxSubsetSize bounds the combinatorial search of decomposeNonlinearity:
// subsets of up to this many still-unassigned elements are tried together
// before falling back to lumping every remaining element into one block.
// Real circuits couple only a handful of nonlinear devices at a time
// (a differential pair, a diode bridge), so this stays cheap in practice.
const maxSubsetSize = 3

// block is one nonlinearity sub-problem: a subset of elements whose
// combined q-rows depend, after the accumulated column transform, only on
// the z-columns in [ZLo,ZHi).
type block struct {
	Elems    []int // element indices, in Circuit.Elements order
	QRows    []int // global q-row indices owned by these elements
	ZLo, ZHi int    // this block's slice of the (transformed) z axis
}

// decomposeNonlinearity finds a block-lower-triangular grouping of fq's
// rows into successively smaller sub-problems, each solvable once earlier
// blocks' z-values are known (spec.md §4.2). It returns the blocks in
// solve order and the accumulated rational column transform (applied to
// fq, C and Fy alike, since all three share the z-column space).
func decomposeNonlinearity(c *circuit.Circuit, off *offsets, fq *la.RatMatrix, nz int) (blocks []block, transform *la.RatMatrix) {
	transform = la.Identity(nz)
	cur := fq.Clone()

	remaining := []int{}
	for i, e := range c.Elements {
		if e.NQ > 0 {
			remaining = append(remaining, i)
		}
	}
	zlo := 0

	for len(remaining) > 0 {
		found := false
		for sz := 1; sz <= maxSubsetSize && sz <= len(remaining) && !found; sz++ {
			combos(remaining, sz, func(subset []int) bool {
				nnS := 0
				var qrows []int
				for _, ei := range subset {
					nnS += c.Elements[ei].NN()
					for r := 0; r < c.Elements[ei].NQ; r++ {
						qrows = append(qrows, off.qOff[ei]+r)
					}
				}
				if nnS <= 0 || nnS > nz-zlo {
					return false
				}
				M := cur.RowsAt(qrows).SliceCols(zlo, nz)
				A, rank, ok := tryextract(M, nnS)
				if !ok {
					return false
				}
				applyLocalTransform(cur, transform, A, zlo, nz)
				blocks = append(blocks, block{Elems: subset, QRows: qrows, ZLo: zlo, ZHi: zlo + rank})
				zlo += rank
				remaining = removeAll(remaining, subset)
				found = true
				return true
			})
		}
		if !found {
			// fallback: lump every remaining element into a single block
			nnS := 0
			var qrows []int
			for _, ei := range remaining {
				nnS += c.Elements[ei].NN()
				for r := 0; r < c.Elements[ei].NQ; r++ {
					qrows = append(qrows, off.qOff[ei]+r)
				}
			}
			blocks = append(blocks, block{Elems: append([]int(nil), remaining...), QRows: qrows, ZLo: zlo, ZHi: nz})
			remaining = nil
		}
	}
	return
}

// tryextract reports whether M's (row) span can be confined, by column
// operations alone, to its first k columns, i.e. rank(M) <= k, returning
// the transform A with M*A having zero columns from rank(M) onward.
func tryextract(M *la.RatMatrix, k int) (A *la.RatMatrix, rank int, ok bool) {
	Mt := M.T()
	R, rank := la.GaussJordanTransform(Mt)
	if rank > k {
		return nil, 0, false
	}
	return R.T(), rank, true
}

// applyLocalTransform embeds the len(cols) x len(cols) transform A,
// covering the current column window [zlo,nz), into the full nz x nz
// space and right-multiplies it into both the running fq (cur) and the
// accumulated transform.
func applyLocalTransform(cur, transform, A *la.RatMatrix, zlo, nz int) {
	full := la.Identity(nz)
	for i := zlo; i < nz; i++ {
		for j := zlo; j < nz; j++ {
			full.A[i][j].Set(A.A[i-zlo][j-zlo])
		}
	}
	newCur := cur.MulMat(full)
	*cur = *newCur
	newT := transform.MulMat(full)
	*transform = *newT
}

// combos calls fn with every size-k subset of items (in ascending index
// order), stopping early if fn returns true (meaning it consumed the
// subset and the caller should restart the outer search).
func combos(items []int, k int, fn func([]int) bool) {
	n := len(items)
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		subset := make([]int, k)
		for i, j := range idx {
			subset[i] = items[j]
		}
		if fn(subset) {
			return
		}
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func removeAll(items, drop []int) []int {
	set := map[int]bool{}
	for _, d := range drop {
		set[d] = true
	}
	out := items[:0:0]
	for _, it := range items {
		if !set[it] {
			out = append(out, it)
		}
	}
	return out
}
