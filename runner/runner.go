// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner drives a compiled DiscreteModel sample by sample: at
// each step it solves every nonlinear sub-problem for the current
// (x,u,zprev), advances the state, and produces the output row (spec.md
// §4.5). ModelRunner owns all of its scratch buffers so a run allocates
// nothing per sample.
package runner

import (
	"context"
	"math"

	"github.com/cpmech/ckt/compile"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// ModelRunner drives one DiscreteModel. Not safe for concurrent use; each
// goroutine simulating a model owns its own ModelRunner.
type ModelRunner struct {
	model *compile.DiscreteModel

	x, xnext []float64
	z        []float64 // concatenation of every sub-problem's z_k, in block order
	p        []float64 // scratch for one sub-problem's reduced parameter
	y        []float64

	// Warnings accumulates runtime-only diagnostics (spec.md §7.iii): a
	// sub-problem whose Newton iterations exhausted the cap but still
	// landed on a finite z is not fatal, only noted here; the run
	// continues with that (approximate) root.
	Warnings []string
}

// NewModelRunner allocates a runner for model, with its state initialised
// to model.X0 and every sub-problem's z initialised to its compiled Z0.
func NewModelRunner(model *compile.DiscreteModel) *ModelRunner {
	o := &ModelRunner{
		model: model,
		x:     append([]float64(nil), model.X0...),
		xnext: make([]float64, model.NX),
		z:     make([]float64, model.NZ),
		y:     make([]float64, model.NY),
	}
	maxNP := 0
	for _, sp := range model.Sub {
		if sp.NP > maxNP {
			maxNP = sp.NP
		}
	}
	o.p = make([]float64, maxNP)
	o.resetZ()
	return o
}

func (o *ModelRunner) resetZ() {
	off := 0
	for _, sp := range o.model.Sub {
		copy(o.z[off:off+sp.NN], sp.Z0)
		off += sp.NN
	}
}

// Reset restores the runner to its initial state (x=model.X0, z=z0 of
// every sub-problem), so the same compiled model can be re-run from
// scratch without recompiling.
func (o *ModelRunner) Reset() {
	copy(o.x, o.model.X0)
	o.resetZ()
}

// State returns the runner's current internal state vector (read-only;
// callers must not mutate the returned slice).
func (o *ModelRunner) State() []float64 { return o.x }

// Step advances the model by one sample given input row u, solving every
// nonlinear sub-problem in block order (later blocks' parameters depend
// on earlier blocks' z, per the decomposition's lower-triangular
// structure) and returning the output row y. The returned slice is owned
// by the runner and is overwritten by the next Step call.
func (o *ModelRunner) Step(u []float64) (y []float64, err error) {
	off := 0
	for _, sp := range o.model.Sub {
		p := o.p[:sp.NP]
		for i := 0; i < sp.NP; i++ {
			sum := 0.0
			for j := 0; j < o.model.NX; j++ {
				sum += sp.Dq[i][j] * o.x[j]
			}
			for j := 0; j < o.model.NU; j++ {
				sum += sp.Eq[i][j] * u[j]
			}
			for j := 0; j < off; j++ {
				sum += sp.Fqprev[i][j] * o.z[j]
			}
			p[i] = sum
		}
		zk := o.z[off : off+sp.NN]
		znew, converged, e := sp.Solver.Solve(p, zk)
		if e != nil {
			return nil, chk.Err("runner: sub-problem {%v}: %v", sp.Elems, e)
		}
		if !converged {
			if !finite(znew) {
				return nil, chk.Err("runner: sub-problem {%v}: nonlinear solve diverged to a non-finite root", sp.Elems)
			}
			o.Warnings = append(o.Warnings, io.Sf(
				"runner: sub-problem {%v}: nonlinear solve did not converge; using the best iterate found", sp.Elems))
		}
		copy(zk, znew)
		off += sp.NN
	}

	for i := 0; i < o.model.NX; i++ {
		sum := o.model.X0[i]
		for j := 0; j < o.model.NX; j++ {
			sum += o.model.A[i][j] * o.x[j]
		}
		for j := 0; j < o.model.NU; j++ {
			sum += o.model.B[i][j] * u[j]
		}
		for j := 0; j < o.model.NZ; j++ {
			sum += o.model.C[i][j] * o.z[j]
		}
		o.xnext[i] = sum
	}
	for i := 0; i < o.model.NY; i++ {
		sum := o.model.Y0[i]
		for j := 0; j < o.model.NX; j++ {
			sum += o.model.Dy[i][j] * o.x[j]
		}
		for j := 0; j < o.model.NU; j++ {
			sum += o.model.Ey[i][j] * u[j]
		}
		for j := 0; j < o.model.NZ; j++ {
			sum += o.model.Fy[i][j] * o.z[j]
		}
		o.y[i] = sum
	}
	o.x, o.xnext = o.xnext, o.x
	return o.y, nil
}

// Run drives the model for len(us) samples, us[k] being the length-NU
// input row at sample k, writing each output row into ys[k] (ys must be
// pre-sized len(us) x model.NY; RunInto-style, to keep a long run's
// allocation count at one). ctx is checked between samples so a caller
// can cancel a long run; a cancelled run returns ctx.Err().
func (o *ModelRunner) Run(ctx context.Context, us [][]float64, ys [][]float64) error {
	for k, u := range us {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		y, err := o.Step(u)
		if err != nil {
			return err
		}
		copy(ys[k], y)
	}
	return nil
}

// finite reports whether every component of v is neither NaN nor Inf
// (spec.md §7.iv: only a non-finite sub-problem root is fatal).
func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
