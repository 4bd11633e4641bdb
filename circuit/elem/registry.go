// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elem

import (
	"github.com/cpmech/ckt/circuit"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// allocators holds all available element kinds; kind => allocator,
// following the msolid/mdl allocator-map pattern used throughout the
// teacher repository (e.g. msolid.GetModel).
var allocators = map[string]func(name string, prms fun.Prms) (*circuit.Element, error){}

func init() {
	allocators["resistor"] = func(name string, prms fun.Prms) (*circuit.Element, error) {
		r, err := floatPrm(prms, "r")
		if err != nil {
			return nil, err
		}
		return NewResistor(name, r), nil
	}
	allocators["capacitor"] = func(name string, prms fun.Prms) (*circuit.Element, error) {
		c, err := floatPrm(prms, "c")
		if err != nil {
			return nil, err
		}
		return NewCapacitor(name, c), nil
	}
	allocators["vsource"] = func(name string, prms fun.Prms) (*circuit.Element, error) {
		return NewVoltageSource(name), nil
	}
	allocators["isource"] = func(name string, prms fun.Prms) (*circuit.Element, error) {
		return NewCurrentSource(name), nil
	}
	allocators["probe"] = func(name string, prms fun.Prms) (*circuit.Element, error) {
		return NewProbe(name), nil
	}
	allocators["cprobe"] = func(name string, prms fun.Prms) (*circuit.Element, error) {
		return NewCurrentProbe(name), nil
	}
	allocators["diode"] = func(name string, prms fun.Prms) (*circuit.Element, error) {
		is := prms.Find("is")
		vt := prms.Find("vt")
		eta := prms.Find("eta")
		if is == nil {
			return nil, chk.Err("elem: diode %q: missing parameter \"is\"", name)
		}
		if vt == nil {
			vt = &fun.Prm{N: "vt", V: 0.025}
		}
		if eta == nil {
			eta = &fun.Prm{N: "eta", V: 1.0}
		}
		return NewDiode(name, is.V, vt.V, eta.V), nil
	}
	allocators["npn"] = func(name string, prms fun.Prms) (*circuit.Element, error) {
		ies, ics, af, ar, vt, err := bjtPrms(prms)
		if err != nil {
			return nil, err
		}
		return NewNPN(name, ies, ics, af, ar, vt), nil
	}
	allocators["pnp"] = func(name string, prms fun.Prms) (*circuit.Element, error) {
		ies, ics, af, ar, vt, err := bjtPrms(prms)
		if err != nil {
			return nil, err
		}
		return NewPNP(name, ies, ics, af, ar, vt), nil
	}
}

func floatPrm(prms fun.Prms, name string) (float64, error) {
	p := prms.Find(name)
	if p == nil {
		return 0, chk.Err("elem: missing required parameter %q", name)
	}
	return p.V, nil
}

func bjtPrms(prms fun.Prms) (ies, ics, alphaF, alphaR, vt float64, err error) {
	ies, err = floatPrm(prms, "ies")
	if err != nil {
		return
	}
	ics, err = floatPrm(prms, "ics")
	if err != nil {
		return
	}
	alphaF, err = floatPrm(prms, "alphaf")
	if err != nil {
		return
	}
	alphaR, err = floatPrm(prms, "alphar")
	if err != nil {
		return
	}
	vt = 0.025
	if p := prms.Find("vt"); p != nil {
		vt = p.V
	}
	return
}

// New builds an element of the named kind with the given parameters,
// the factory-registry counterpart to the concrete NewXxx constructors
// above, for netlist files that name elements by string kind.
func New(kind, name string, prms fun.Prms) (*circuit.Element, error) {
	allocator, ok := allocators[kind]
	if !ok {
		return nil, chk.Err("elem: unknown element kind %q", kind)
	}
	return allocator(name, prms)
}

// Kinds returns the registered element kind names, mainly for
// diagnostics and netlist validation error messages.
func Kinds() (kinds []string) {
	for k := range allocators {
		kinds = append(kinds, k)
	}
	return
}
