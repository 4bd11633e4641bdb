// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elem

import (
	"math"

	"github.com/cpmech/ckt/circuit"
)

// bjtResidual implements the Ebers-Moll equations of an NPN or PNP
// bipolar junction transistor over its two junction ports: q bundles
// (Vbe, Ibe, Vbc, Ibc), i.e. each port's own voltage and current, so the
// two characteristic equations can reference both.
type bjtResidual struct {
	Ies, Ics, AlphaF, AlphaR, Vt float64
	Sign                        float64 // +1 for NPN, -1 for PNP
}

func (o *bjtResidual) NQ() int  { return 4 }
func (o *bjtResidual) Dim() int { return 2 }

func (o *bjtResidual) Eval(q, res []float64, J [][]float64) error {
	s := o.Sign
	vbe, vbc := s*q[0], s*q[2]
	eF := math.Exp(vbe / o.Vt)
	eR := math.Exp(vbc / o.Vt)
	iF := o.Ies * (eF - 1)
	iR := o.Ics * (eR - 1)

	res[0] = q[1] - s*(iF-o.AlphaR*iR)
	res[1] = q[3] - s*(iR-o.AlphaF*iF)

	dIF := o.Ies * eF / o.Vt // d(iF)/d(vbe)
	dIR := o.Ics * eR / o.Vt // d(iR)/d(vbc)

	for i := range J {
		for j := range J[i] {
			J[i][j] = 0
		}
	}
	J[0][0] = -s * s * dIF         // d(res0)/d(q1v) = -s*dIF*d(vbe)/d(q1v)=-s*dIF*s
	J[0][1] = 1
	J[0][2] = s * s * o.AlphaR * dIR
	J[1][0] = s * s * o.AlphaF * dIF
	J[1][2] = -s * s * dIR
	J[1][3] = 1
	return nil
}

// newBJT is the shared constructor for both polarities
func newBJT(name string, ies, ics, alphaF, alphaR, vt, sign float64) *circuit.Element {
	return &circuit.Element{
		Name: name,
		NB:   2, // branch 1: base-emitter port; branch 2: base-collector port
		NQ:   4,
		NL:   4,
		Mv: [][]float64{
			{1, 0},
			{0, 0},
			{0, 1},
			{0, 0},
		},
		Mi: [][]float64{
			{0, 0},
			{1, 0},
			{0, 0},
			{0, 1},
		},
		Mq: [][]float64{
			{-1, 0, 0, 0},
			{0, -1, 0, 0},
			{0, 0, -1, 0},
			{0, 0, 0, -1},
		},
		U0: []float64{0, 0, 0, 0},
		NL_Residual: &bjtResidual{
			Ies: ies, Ics: ics, AlphaF: alphaF, AlphaR: alphaR, Vt: vt, Sign: sign,
		},
	}
}

// NewNPN returns an NPN bipolar junction transistor (Ebers-Moll model)
// wired across (base, emitter) as branch 1 and (base, collector) as
// branch 2, i.e. Circuit.AddElement(..., []int{base, emitter, base, collector}).
func NewNPN(name string, ies, ics, alphaF, alphaR, vt float64) *circuit.Element {
	return newBJT(name, ies, ics, alphaF, alphaR, vt, 1)
}

// NewPNP returns a PNP bipolar junction transistor, pin order identical
// to NewNPN.
func NewPNP(name string, ies, ics, alphaF, alphaR, vt float64) *circuit.Element {
	return newBJT(name, ies, ics, alphaF, alphaR, vt, -1)
}
