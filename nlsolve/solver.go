// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nlsolve implements the nonlinear solver stack used by one
// sub-problem of a compiled circuit model: a damped-Newton base solver,
// a K-D-tree memoising wrapper, and a homotopy continuation wrapper.
// All three share the Solver contract so a HomotopySolver can wrap a
// CachingSolver wrapping a SimpleSolver transparently (spec.md §4.4).
package nlsolve

import "math"

// Scratch is the state shared by the three residual closures a Problem
// exposes, avoiding recomputation of p_full and Jq across one Newton
// iteration (spec.md §4.4, §9).
type Scratch struct {
	Pfull []float64   // q0 + pexp*p
	Jq    [][]float64 // d(res)/d(q), filled by Problem.Residual, read by Problem.Jacobianp
}

// NewScratch allocates a Scratch for a problem with nq rows of q and nn
// rows of residual
func NewScratch(nn, nq int) *Scratch {
	s := &Scratch{Pfull: make([]float64, nq)}
	s.Jq = make([][]float64, nn)
	buf := make([]float64, nn*nq)
	for i := range s.Jq {
		s.Jq[i] = buf[i*nq : (i+1)*nq]
	}
	return s
}

// Problem is the residual contract supplied by the model compiler for
// one nonlinear sub-problem: SetP projects a reduced parameter p into
// the sub-problem's full q-space, Residual evaluates res(z) and its
// Jacobian w.r.t. z (and records d(res)/d(q) into scratch.Jq), and
// Jacobianp derives d(res)/d(p) = Jq . pexp for homotopy path
// derivatives and diagnostics.
type Problem interface {
	Dim() int // nn, the dimension of z
	SetP(s *Scratch, p []float64)
	Residual(s *Scratch, z []float64, outRes []float64, outJ [][]float64) error
	Jacobianp(s *Scratch, outJp [][]float64)
}

// Solver is the contract every member of the stack implements: given a
// parameter p and a seed z, return a z* with ||res(z*,p)||_inf <= tol.
type Solver interface {
	Solve(p, zseed []float64) (z []float64, converged bool, err error)
	SetResAbsTol(tol float64)
}

// DefaultTol is the default residual absolute tolerance (spec.md §4.4)
const DefaultTol = 1e-10

func infNorm(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
