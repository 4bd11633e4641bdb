// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package elem is the element library: concrete two-terminal and
// multi-terminal circuit primitives supplying the fixed incidence,
// constitutive and output matrices the model compiler consumes. It sits
// outside the core per spec.md §1 ("deliberately out of scope... the
// element library"), implemented as ordinary library code on top of
// package circuit.
package elem

import "github.com/cpmech/ckt/circuit"

// NewResistor returns a 2-terminal resistor of resistance r ohms: v = r*i
func NewResistor(name string, r float64) *circuit.Element {
	return &circuit.Element{
		Name: name,
		NB:   1,
		NL:   1,
		Mv:   [][]float64{{1}},
		Mi:   [][]float64{{-r}},
		U0:   []float64{0},
	}
}

// NewCapacitor returns a 2-terminal capacitor of capacitance c farads,
// holding the capacitor voltage as its one state variable.
func NewCapacitor(name string, c float64) *circuit.Element {
	return &circuit.Element{
		Name: name,
		NB:   1,
		NX:   1,
		NL:   2,
		Mv:   [][]float64{{1}, {0}},
		Mi:   [][]float64{{0}, {1}},
		Mx:   [][]float64{{-1}, {0}},
		Mxdot: [][]float64{{0}, {-c}},
		U0:   []float64{0, 0},
	}
}

// NewVoltageSource returns an ideal 2-terminal voltage source driven by
// input column u: v = u
func NewVoltageSource(name string) *circuit.Element {
	return &circuit.Element{
		Name: name,
		NB:   1,
		NU:   1,
		NL:   1,
		Mv:   [][]float64{{1}},
		Mu:   [][]float64{{-1}},
		U0:   []float64{0},
	}
}

// NewCurrentSource returns an ideal 2-terminal current source driven by
// input column u: i = u
func NewCurrentSource(name string) *circuit.Element {
	return &circuit.Element{
		Name: name,
		NB:   1,
		NU:   1,
		NL:   1,
		Mi:   [][]float64{{1}},
		Mu:   [][]float64{{-1}},
		U0:   []float64{0},
	}
}

// NewProbe returns an ideal voltmeter: infinite input impedance (i=0),
// reporting the branch voltage as its one output.
func NewProbe(name string) *circuit.Element {
	return &circuit.Element{
		Name: name,
		NB:   1,
		NL:   1,
		NY:   1,
		Mi:   [][]float64{{1}},
		U0:   []float64{0},
		Pv:   [][]float64{{1}},
	}
}

// NewCurrentProbe returns an ideal ammeter: zero input impedance (v=0),
// reporting the branch current as its one output.
func NewCurrentProbe(name string) *circuit.Element {
	return &circuit.Element{
		Name: name,
		NB:   1,
		NL:   1,
		NY:   1,
		Mv:   [][]float64{{1}},
		U0:   []float64{0},
		Pi:   [][]float64{{1}},
	}
}
