// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"github.com/cpmech/ckt/circuit"
	"github.com/cpmech/ckt/la"
	"github.com/cpmech/gosl/chk"
)

// foldConstantBlocks removes every reducedBlock whose reduced parameter
// dimension collapsed to zero: such a block's q depends on no external
// state at all, so its Newton root is the same at every sample (spec.md
// §4.3). It is solved once, here, and then struck out of the picture
// entirely -- its contribution to the state update and output law is
// folded into x0/y0, its contribution to any later block's own operating
// point is folded into that block's q0, and its z-columns are dropped
// from C/Fy, shrinking the model's nonlinear-unknown count by exactly
// the eliminated block's width.
func foldConstantBlocks(c *circuit.Circuit, reduced []*reducedBlock, C, Fy [][]float64, X0, Y0 []float64) (kept []*reducedBlock, newC, newFy [][]float64, newNZ int, err error) {
	nx, ny := len(X0), len(Y0)
	oldNZ := 0
	if nx > 0 && len(C) > 0 {
		oldNZ = len(C[0])
	} else if ny > 0 && len(Fy) > 0 {
		oldNZ = len(Fy[0])
	}

	type removedCol struct {
		col int
		val float64
	}
	var removed []removedCol
	for _, rb := range reduced {
		if rb.NP != 0 {
			kept = append(kept, rb)
			continue
		}
		elems := make([]*circuit.Element, len(rb.Elems))
		names := make([]string, len(rb.Elems))
		for k, ei := range rb.Elems {
			elems[k] = c.Elements[ei]
			names[k] = c.Elements[ei].Name
		}
		prob, e := newBlockProblem(rb, elems)
		if e != nil {
			return nil, nil, nil, 0, e
		}
		z0, e := initialRoot(prob)
		if e != nil {
			return nil, nil, nil, 0, chk.Err("compile: constant sub-problem {%v}: %v", names, e)
		}
		for k, col := 0, rb.ZLo; col < rb.ZHi; k, col = k+1, col+1 {
			removed = append(removed, removedCol{col, z0[k]})
		}
	}

	if len(removed) == 0 {
		return kept, C, Fy, oldNZ, nil
	}

	isRemoved := make(map[int]float64, len(removed))
	for _, rc := range removed {
		isRemoved[rc.col] = rc.val
	}

	for i := 0; i < nx; i++ {
		for _, rc := range removed {
			X0[i] += C[i][rc.col] * rc.val
		}
	}
	for i := 0; i < ny; i++ {
		for _, rc := range removed {
			Y0[i] += Fy[i][rc.col] * rc.val
		}
	}

	keepCols := make([]int, 0, oldNZ-len(removed))
	for col := 0; col < oldNZ; col++ {
		if _, gone := isRemoved[col]; !gone {
			keepCols = append(keepCols, col)
		}
	}
	newIndex := make(map[int]int, len(keepCols))
	for newCol, oldCol := range keepCols {
		newIndex[oldCol] = newCol
	}

	newC = la.MatAlloc(nx, len(keepCols))
	for i := 0; i < nx; i++ {
		for newCol, oldCol := range keepCols {
			newC[i][newCol] = C[i][oldCol]
		}
	}
	newFy = la.MatAlloc(ny, len(keepCols))
	for i := 0; i < ny; i++ {
		for newCol, oldCol := range keepCols {
			newFy[i][newCol] = Fy[i][oldCol]
		}
	}

	for _, rb := range kept {
		width := rb.ZHi - rb.ZLo
		newZLo := newIndex[rb.ZLo]
		deltaP := make([]float64, rb.NP)
		newFqprev := la.MatAlloc(rb.NP, newZLo)
		nc := 0
		for col := 0; col < rb.ZLo; col++ {
			if v, gone := isRemoved[col]; gone {
				for i := 0; i < rb.NP; i++ {
					deltaP[i] += rb.Fqprev[i][col] * v
				}
				continue
			}
			for i := 0; i < rb.NP; i++ {
				newFqprev[i][nc] = rb.Fqprev[i][col]
			}
			nc++
		}
		for i := range rb.Q0 {
			for k := 0; k < rb.NP; k++ {
				rb.Q0[i] += rb.Pexp[i][k] * deltaP[k]
			}
		}
		rb.Fqprev = newFqprev
		rb.ZLo = newZLo
		rb.ZHi = newZLo + width
	}

	return kept, newC, newFy, len(keepCols), nil
}
