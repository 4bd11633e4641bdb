// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package circuit implements the data model of spec.md §3: Elements
// (fixed constitutive/output matrices plus a nonlinear residual) and
// Circuits (an ordered bag of Elements plus node incidence), frozen
// before being handed to the model compiler in package compile.
package circuit

import "github.com/cpmech/gosl/chk"

// Residual is the nonlinear constitutive law an element contributes:
// res = f(q), with J = d(res)/d(q) supplied directly (the element
// supplies the Jacobian; no automatic differentiation, per spec.md §1
// non-goals). Dim() (the residual's row count) is generally smaller than
// NQ() -- q typically bundles both the nonlinear port's voltage-like and
// current-like quantities, while a single characteristic equation (e.g.
// a diode's V-I law) ties them together. Package compile's decomposition
// groups element residuals into square sub-problems; a lone element's
// Dim() must equal its own NN() for it to stand as a singleton block.
type Residual interface {
	NQ() int
	Dim() int
	Eval(q []float64, res []float64, J [][]float64) error
}

// Element is the fixed, immutable bundle of sparse matrices expressing
// the implicit law
//
//	Mv*v + Mi*i + Mx*x + Mxdot*xdot + Mq*q + Mu*u + u0 = 0
//
// and the output law
//
//	y = Pv*v + Pi*i + Px*x + Pxdot*xdot + Pq*q
//
// (spec.md §3). Pins names the terminal branches this element owns,
// indexing into the Circuit's node incidence.
type Element struct {
	Name string

	NB int // branches (len(Pins))
	NX int // internal states
	NQ int // nonlinear port dimension
	NU int // local inputs
	NL int // local equation rows
	NY int // local output rows

	Mv, Mi, Mx, Mxdot, Mq, Mu [][]float64 // NL x (NB, NB, NX, NX, NQ, NU)
	U0                        []float64   // NL

	Pv, Pi, Px, Pxdot, Pq [][]float64 // NY x (NB, NB, NX, NX, NQ)

	Pins []int // terminal node indices, length NB*2 (branch a,b pairs) -- see Circuit.AddElement

	NL_Residual Residual // nil for purely linear elements
}

// NN returns the element's own share of unknowns before decomposition,
// nb+nx+nq-nl, matching spec.md §3's definition
func (o *Element) NN() int { return o.NB + o.NX + o.NQ - o.NL }

// Validate checks that every matrix has the shape its declared
// dimensions imply, raising a configuration error (spec.md §7.i) rather
// than panicking, since a mis-sized element is a usage mistake made by
// element-library code outside the core.
func (o *Element) Validate() error {
	check := func(name string, m [][]float64, rows, cols int) error {
		if m == nil {
			if rows == 0 || cols == 0 {
				return nil
			}
			return chk.Err("circuit: element %q: matrix %s is nil but expected %dx%d", o.Name, name, rows, cols)
		}
		if len(m) != rows {
			return chk.Err("circuit: element %q: matrix %s has %d rows, want %d", o.Name, name, len(m), rows)
		}
		for i, row := range m {
			if len(row) != cols {
				return chk.Err("circuit: element %q: matrix %s row %d has %d cols, want %d", o.Name, name, i, len(row), cols)
			}
		}
		return nil
	}
	if err := check("Mv", o.Mv, o.NL, o.NB); err != nil {
		return err
	}
	if err := check("Mi", o.Mi, o.NL, o.NB); err != nil {
		return err
	}
	if err := check("Mx", o.Mx, o.NL, o.NX); err != nil {
		return err
	}
	if err := check("Mxdot", o.Mxdot, o.NL, o.NX); err != nil {
		return err
	}
	if err := check("Mq", o.Mq, o.NL, o.NQ); err != nil {
		return err
	}
	if err := check("Mu", o.Mu, o.NL, o.NU); err != nil {
		return err
	}
	if len(o.U0) != o.NL {
		return chk.Err("circuit: element %q: u0 has length %d, want %d", o.Name, len(o.U0), o.NL)
	}
	if err := check("Pv", o.Pv, o.NY, o.NB); err != nil {
		return err
	}
	if err := check("Pi", o.Pi, o.NY, o.NB); err != nil {
		return err
	}
	if err := check("Px", o.Px, o.NY, o.NX); err != nil {
		return err
	}
	if err := check("Pxdot", o.Pxdot, o.NY, o.NX); err != nil {
		return err
	}
	if err := check("Pq", o.Pq, o.NY, o.NQ); err != nil {
		return err
	}
	if len(o.Pins) != 2*o.NB {
		return chk.Err("circuit: element %q: Pins has length %d, want %d (2*NB)", o.Name, len(o.Pins), 2*o.NB)
	}
	if o.NL_Residual != nil {
		if o.NL_Residual.NQ() != o.NQ {
			return chk.Err("circuit: element %q: residual expects q of dimension %d, element declares NQ=%d",
				o.Name, o.NL_Residual.NQ(), o.NQ)
		}
	}
	return nil
}
