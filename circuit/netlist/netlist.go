// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package netlist implements the JSON input file format describing a
// circuit: nodes, elements and their parameters, the input signal(s) and
// run options, following inp.Data's style (spec.md §4.7). Read parses the
// file; Build translates it into a circuit.Circuit via the elem registry.
package netlist

import (
	"encoding/json"
	"os"

	"github.com/cpmech/ckt/circuit"
	"github.com/cpmech/ckt/circuit/elem"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// GroundName is the reserved node name mapped to circuit.GroundNode
const GroundName = "gnd"

// ElementSpec describes one element instance: its kind (resistor,
// capacitor, diode, npn, ...; see elem.Kinds), its terminal node names in
// pin order, and its named parameters.
type ElementSpec struct {
	Kind   string             `json:"kind"`   // e.g. "resistor", "diode", "npn"
	Name   string             `json:"name"`   // unique instance name
	Pins   []string           `json:"pins"`   // node names, in the element's pin order
	Params map[string]float64 `json:"params"` // e.g. {"r": 1000}
}

// SignalSpec describes a scalar time-domain source (spec.md §4.7), one
// per input-bearing element's own u-slot.
type SignalSpec struct {
	Type string `json:"type"` // "constant", "step", "sine", "pwl"

	Value float64 `json:"value"` // constant

	T0     float64 `json:"t0"`     // step
	Before float64 `json:"before"` // step
	After  float64 `json:"after"`  // step

	Freq   float64 `json:"freq"`   // sine
	Amp    float64 `json:"amp"`    // sine
	Phase  float64 `json:"phase"`  // sine
	Offset float64 `json:"offset"` // sine

	T []float64 `json:"t"` // pwl knot times
	V []float64 `json:"v"` // pwl knot values
}

// ToSignal converts a SignalSpec into the concrete circuit.Signal it names
func (o SignalSpec) ToSignal() (circuit.Signal, error) {
	switch o.Type {
	case "constant":
		return circuit.Constant(o.Value), nil
	case "step":
		return circuit.Step{T0: o.T0, Before: o.Before, After: o.After}, nil
	case "sine":
		return circuit.Sine{Freq: o.Freq, Amp: o.Amp, Phase: o.Phase, Offset: o.Offset}, nil
	case "pwl":
		return circuit.PWL{T: o.T, V: o.V}, nil
	default:
		return nil, chk.Err("netlist: unknown signal type %q", o.Type)
	}
}

// RunOptions carries sample-period and duration information alongside the
// circuit description, mirroring inp.Data's "problem definition" fields.
type RunOptions struct {
	T      float64 `json:"t"`      // fixed sample period (seconds)
	Nsteps int     `json:"nsteps"` // number of samples to simulate
}

// Netlist is the root JSON document (spec.md §4.7): a list of node names
// (ground is implicit and must not be listed), the element instances
// wired onto them, each input-bearing element's drive signal(s) keyed by
// element name, and run options.
type Netlist struct {
	Desc     string                  `json:"desc"`
	Nodes    []string                `json:"nodes"`
	Elements []ElementSpec           `json:"elements"`
	Inputs   map[string][]SignalSpec `json:"inputs"` // element name -> one SignalSpec per NU row
	Run      RunOptions              `json:"run"`
}

// Read parses a netlist JSON file
func Read(path string) (*Netlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("netlist: cannot open %q: %v", path, err)
	}
	defer f.Close()
	var n Netlist
	dec := json.NewDecoder(f)
	if err := dec.Decode(&n); err != nil {
		return nil, chk.Err("netlist: cannot parse %q: %v", path, err)
	}
	return &n, nil
}

// Built is the result of translating a Netlist into a live circuit: the
// frozen Circuit itself, plus the two vectors main.go needs to drive and
// read it -- InputSignals in global u-row order and OutputNames in global
// y-row order (one name per Probe/CurrentProbe instance).
type Built struct {
	Circuit      *circuit.Circuit
	InputSignals []circuit.Signal
	OutputNames  []string
	T            float64
	Nsteps       int
}

// Build translates a parsed Netlist into a frozen circuit.Circuit, using
// the elem package's kind registry to allocate each element instance.
func Build(n *Netlist) (*Built, error) {
	nodeIdx := map[string]int{GroundName: circuit.GroundNode}
	c := circuit.NewCircuit()
	for _, name := range n.Nodes {
		if name == GroundName {
			continue
		}
		if _, dup := nodeIdx[name]; dup {
			return nil, chk.Err("netlist: node %q declared twice", name)
		}
		nodeIdx[name] = c.NewNode()
	}

	var inputSignals []circuit.Signal
	var outputNames []string

	for _, es := range n.Elements {
		prms := fun.Prms{}
		for k, v := range es.Params {
			prms = append(prms, &fun.Prm{N: k, V: v})
		}
		e, err := elem.New(es.Kind, es.Name, prms)
		if err != nil {
			return nil, chk.Err("netlist: element %q: %v", es.Name, err)
		}
		pins := make([]int, len(es.Pins))
		for i, pn := range es.Pins {
			idx, ok := nodeIdx[pn]
			if !ok {
				return nil, chk.Err("netlist: element %q: unknown node %q", es.Name, pn)
			}
			pins[i] = idx
		}
		if err := c.AddElement(e, pins); err != nil {
			return nil, chk.Err("netlist: element %q: %v", es.Name, err)
		}

		if e.NU > 0 {
			specs, ok := n.Inputs[es.Name]
			if !ok || len(specs) != e.NU {
				return nil, chk.Err("netlist: element %q needs %d input signal(s), got %d", es.Name, e.NU, len(specs))
			}
			for _, sp := range specs {
				sig, err := sp.ToSignal()
				if err != nil {
					return nil, chk.Err("netlist: element %q: %v", es.Name, err)
				}
				inputSignals = append(inputSignals, sig)
			}
		}
		for r := 0; r < e.NY; r++ {
			if e.NY == 1 {
				outputNames = append(outputNames, es.Name)
			} else {
				outputNames = append(outputNames, io.Sf("%s.%d", es.Name, r))
			}
		}
	}

	if err := c.Freeze(); err != nil {
		return nil, err
	}
	return &Built{
		Circuit: c, InputSignals: inputSignals, OutputNames: outputNames,
		T: n.Run.T, Nsteps: n.Run.Nsteps,
	}, nil
}
