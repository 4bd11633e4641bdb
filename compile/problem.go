// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"github.com/cpmech/ckt/circuit"
	"github.com/cpmech/ckt/nlsolve"
	"github.com/cpmech/gosl/chk"
)

// blockProblem adapts a reducedBlock's member elements into a single
// nlsolve.Problem: q = q0 + pexp*p + fqOwn*z, and the block's residual is
// the concatenation of each member element's own NL_Residual, evaluated
// on its own slice of q (spec.md §4.4's Problem contract).
type blockProblem struct {
	elems      []*circuit.Element
	localQOff  []int // per-member offset into this block's own q slice
	nq, np, nn int
	pexp       [][]float64 // nq x np
	q0         []float64   // nq
	fqOwn      [][]float64 // nq x nn
	jeBufs     [][][]float64
	qbuf       []float64
}

// newBlockProblem builds the Problem for one reducedBlock, validating
// that member elements' residual dimensions sum exactly to the block's
// own nn -- the square-subproblem invariant decomposeNonlinearity is
// supposed to guarantee by construction.
func newBlockProblem(rb *reducedBlock, elems []*circuit.Element) (*blockProblem, error) {
	nn := rb.ZHi - rb.ZLo
	o := &blockProblem{
		elems: elems, nq: len(rb.QRows), np: rb.NP, nn: nn,
		pexp: rb.Pexp, q0: rb.Q0, fqOwn: rb.FqOwn,
		qbuf: make([]float64, len(rb.QRows)),
	}
	o.localQOff = make([]int, len(elems))
	off := 0
	dimSum := 0
	for i, e := range elems {
		o.localQOff[i] = off
		off += e.NQ
		dimSum += e.NL_Residual.Dim()
		dim := e.NL_Residual.Dim()
		je := make([][]float64, dim)
		buf := make([]float64, dim*e.NQ)
		for r := range je {
			je[r] = buf[r*e.NQ : (r+1)*e.NQ]
		}
		o.jeBufs = append(o.jeBufs, je)
	}
	if dimSum != nn {
		return nil, chk.Err(
			"compile: nonlinear block {%v}: member residual dimensions sum to %d, want %d (decomposition failed to produce a square sub-problem)",
			elemNames(elems), dimSum, nn)
	}
	return o, nil
}

func elemNames(elems []*circuit.Element) []string {
	names := make([]string, len(elems))
	for i, e := range elems {
		names[i] = e.Name
	}
	return names
}

// Dim implements nlsolve.Problem
func (o *blockProblem) Dim() int { return o.nn }

// SetP implements nlsolve.Problem
func (o *blockProblem) SetP(s *nlsolve.Scratch, p []float64) {
	for i := 0; i < o.nq; i++ {
		sum := o.q0[i]
		for k := 0; k < o.np; k++ {
			sum += o.pexp[i][k] * p[k]
		}
		s.Pfull[i] = sum
	}
}

// Residual implements nlsolve.Problem
func (o *blockProblem) Residual(s *nlsolve.Scratch, z, outRes []float64, outJ [][]float64) error {
	for i := 0; i < o.nq; i++ {
		sum := s.Pfull[i]
		for j := 0; j < o.nn; j++ {
			sum += o.fqOwn[i][j] * z[j]
		}
		o.qbuf[i] = sum
	}
	for i := range outJ {
		for j := range outJ[i] {
			outJ[i][j] = 0
		}
	}
	row := 0
	for ei, e := range o.elems {
		nqe := e.NQ
		dim := e.NL_Residual.Dim()
		qSlice := o.qbuf[o.localQOff[ei] : o.localQOff[ei]+nqe]
		resSlice := outRes[row : row+dim]
		je := o.jeBufs[ei]
		if err := e.NL_Residual.Eval(qSlice, resSlice, je); err != nil {
			return err
		}
		for r := 0; r < dim; r++ {
			for k := 0; k < nqe; k++ {
				s.Jq[row+r][o.localQOff[ei]+k] = je[r][k]
			}
			for col := 0; col < o.nn; col++ {
				sum := 0.0
				for k := 0; k < nqe; k++ {
					sum += je[r][k] * o.fqOwn[o.localQOff[ei]+k][col]
				}
				outJ[row+r][col] = sum
			}
		}
		row += dim
	}
	return nil
}

// Jacobianp implements nlsolve.Problem: d(res)/d(p) = Jq * pexp
func (o *blockProblem) Jacobianp(s *nlsolve.Scratch, outJp [][]float64) {
	for r := 0; r < o.nn; r++ {
		for c := 0; c < o.np; c++ {
			sum := 0.0
			for k := 0; k < o.nq; k++ {
				sum += s.Jq[r][k] * o.pexp[k][c]
			}
			outJp[r][c] = sum
		}
	}
}
