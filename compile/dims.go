// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compile implements the model compiler: model-matrix assembly
// via the sparse generalised solver, nonlinearity decomposition,
// parameter-dimension reduction, and initial-solution finding, producing
// an immutable DiscreteModel for package runner to drive (spec.md §4.1-
// §4.3, §6).
package compile

import "github.com/cpmech/ckt/circuit"

// offsets locates each element's slice of the global v,i,x,q,u,y,l axes
type offsets struct {
	elems             []*circuit.Element
	branchOff, xOff   []int
	qOff, uOff        []int
	yOff, lOff        []int
	nb, nx, nq, nu, ny, nl int
}

func computeOffsets(c *circuit.Circuit) *offsets {
	n := len(c.Elements)
	o := &offsets{
		elems:     c.Elements,
		branchOff: make([]int, n),
		xOff:      make([]int, n),
		qOff:      make([]int, n),
		uOff:      make([]int, n),
		yOff:      make([]int, n),
		lOff:      make([]int, n),
	}
	for i, e := range c.Elements {
		o.branchOff[i] = o.nb
		o.xOff[i] = o.nx
		o.qOff[i] = o.nq
		o.uOff[i] = o.nu
		o.yOff[i] = o.ny
		o.lOff[i] = o.nl
		o.nb += e.NB
		o.nx += e.NX
		o.nq += e.NQ
		o.nu += e.NU
		o.ny += e.NY
		o.nl += e.NL
	}
	return o
}
