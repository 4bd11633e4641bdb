// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"github.com/cpmech/ckt/circuit"
	"github.com/cpmech/ckt/la"
	"github.com/cpmech/ckt/nlsolve"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Options configures a Compile call beyond the circuit and sample period
type Options struct {
	CacheMaxSize int     // K-D-tree sample cap per sub-problem (0 -> DefaultCacheMaxSize)
	ResAbsTol    float64 // Newton residual tolerance (0 -> nlsolve.DefaultTol)
	Verbose      bool    // io.Pf progress of each compilation stage
}

// DefaultCacheMaxSize is used when Options.CacheMaxSize is zero
const DefaultCacheMaxSize = 512

// SubProblem is one block of the nonlinearity decomposition: a subset of
// elements whose unknowns z_k are found by its own Solver given the
// reduced parameter p_k = Dq*x + Eq*u + Fqprev*zprev (spec.md §4.2-§4.4).
type SubProblem struct {
	Elems    []string // member element names, for diagnostics
	NN       int       // dim(z_k)
	NQ       int       // dim(q_k), this block's own q-rows
	NP       int       // dim(p_k), after rank-factorize reduction
	Dq, Eq   [][]float64 // NP x nx, NP x nu
	Fqprev   [][]float64 // NP x (sum of nn over earlier blocks)
	Problem  nlsolve.Problem
	Solver   nlsolve.Solver
	Z0       []float64 // root at the zero operating point
}

// DiscreteModel is the fully compiled, immutable fixed-step discrete-time
// model spec.md §4/§6 hands to package runner: x[n+1] = A*x[n] + B*u[n] +
// C*z[n] + x0, y[n] = Dy*x[n] + Ey*u[n] + Fy*z[n] + y0, with z[n] the
// concatenation of every SubProblem's root at sample n.
type DiscreteModel struct {
	NX, NU, NY, NZ int
	T              float64
	ResAbsTol      float64 // the Newton tolerance every Sub's Solver was compiled with

	A, B [][]float64
	X0   []float64
	C    [][]float64

	Dy, Ey, Fy [][]float64
	Y0         []float64

	Sub      []*SubProblem
	Warnings []string
}

// Compile assembles, decomposes, reduces and finds the initial root of
// every nonlinear sub-problem of c, producing a DiscreteModel ready for
// package runner to drive sample-by-sample. c must already be Frozen.
func Compile(c *circuit.Circuit, T float64, opts Options) (*DiscreteModel, error) {
	if opts.CacheMaxSize == 0 {
		opts.CacheMaxSize = DefaultCacheMaxSize
	}
	if opts.ResAbsTol == 0 {
		opts.ResAbsTol = nlsolve.DefaultTol
	}

	if opts.Verbose {
		io.Pf("compile: assembling %d elements, %d nodes\n", len(c.Elements), c.NNodes)
	}
	asm, err := assemble(c, T)
	if err != nil {
		return nil, err
	}

	blocks, transform := decomposeNonlinearity(c, asm.off, asm.Fq, asm.nz)
	if opts.Verbose {
		io.Pf("compile: decomposed into %d nonlinear sub-problem(s)\n", len(blocks))
	}

	transformF := transform.ToFloat64()
	C := la.MatMulDense(asm.C, transformF)
	Fy := la.MatMulDense(asm.Fy, transformF)

	curFq := asm.Fq.MulMat(transform)
	reduced, err := reduceParams(blocks, curFq, asm.DqFull, asm.EqFull, asm.Q0)
	if err != nil {
		return nil, err
	}

	kept, C, Fy, nz, err := foldConstantBlocks(c, reduced, C, Fy, asm.X0, asm.Y0)
	if err != nil {
		return nil, err
	}
	if opts.Verbose && nz != asm.nz {
		io.Pf("compile: folded %d constant sub-problem(s), nz: %d -> %d\n", len(reduced)-len(kept), asm.nz, nz)
	}

	model := &DiscreteModel{
		NX: asm.off.nx, NU: asm.off.nu, NY: asm.off.ny, NZ: nz,
		T:  T, ResAbsTol: opts.ResAbsTol,
		A: asm.A, B: asm.B, X0: asm.X0, C: C,
		Dy: asm.Dy, Ey: asm.Ey, Fy: Fy, Y0: asm.Y0,
		Warnings: asm.warnings,
	}

	for _, rb := range kept {
		elems := make([]*circuit.Element, len(rb.Elems))
		names := make([]string, len(rb.Elems))
		for i, ei := range rb.Elems {
			elems[i] = c.Elements[ei]
			names[i] = c.Elements[ei].Name
		}
		prob, err := newBlockProblem(rb, elems)
		if err != nil {
			return nil, err
		}

		z0, err := initialRoot(prob)
		if err != nil {
			return nil, chk.Err("compile: sub-problem {%v}: %v", names, err)
		}

		base := nlsolve.NewSimpleSolver(prob, prob.nq)
		base.SetResAbsTol(opts.ResAbsTol)
		caching := nlsolve.NewCachingSolver(base, rb.NP, opts.CacheMaxSize)
		caching.SetResAbsTol(opts.ResAbsTol)
		homotopy := nlsolve.NewHomotopySolver(caching, make([]float64, rb.NP), z0)
		homotopy.SetResAbsTol(opts.ResAbsTol)

		model.Sub = append(model.Sub, &SubProblem{
			Elems: names, NN: prob.nn, NQ: prob.nq, NP: rb.NP,
			Dq: rb.Dq, Eq: rb.Eq, Fqprev: rb.Fqprev,
			Problem: prob, Solver: homotopy, Z0: z0,
		})
	}

	if opts.Verbose {
		io.Pf("compile: done: nx=%d nu=%d ny=%d nz=%d\n", model.NX, model.NU, model.NY, model.NZ)
	}
	return model, nil
}
