// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile_test

import (
	"testing"

	"github.com/cpmech/ckt/circuit"
	"github.com/cpmech/ckt/circuit/elem"
	"github.com/cpmech/ckt/compile"
	"github.com/cpmech/ckt/runner"
	"github.com/cpmech/gosl/chk"
)

// Test_compile_resistive_divider builds a plain voltage divider (Vin in
// series with R1, R2 to ground, probing the midpoint), a memoryless and
// entirely linear circuit, so compilation should yield NX=0 and -- since
// no element carries a NQ row -- NZ=0 once the benign nullspace
// redundancy is dropped (spec.md §7.ii), collapsing to a pure output-law
// y = Y0 + Ey*u matching Ohm's law exactly.
func Test_compile_resistive_divider(tst *testing.T) {

	chk.PrintTitle("compile_resistive_divider")

	c := circuit.NewCircuit()
	nIn := c.NewNode()
	nOut := c.NewNode()
	if err := c.AddElement(elem.NewVoltageSource("Vin"), []int{nIn, circuit.GroundNode}); err != nil {
		tst.Errorf("AddElement Vin: %v", err)
		return
	}
	const r1, r2 = 1000.0, 3000.0
	if err := c.AddElement(elem.NewResistor("R1", r1), []int{nIn, nOut}); err != nil {
		tst.Errorf("AddElement R1: %v", err)
		return
	}
	if err := c.AddElement(elem.NewResistor("R2", r2), []int{nOut, circuit.GroundNode}); err != nil {
		tst.Errorf("AddElement R2: %v", err)
		return
	}
	if err := c.AddElement(elem.NewProbe("Vout"), []int{nOut, circuit.GroundNode}); err != nil {
		tst.Errorf("AddElement Vout: %v", err)
		return
	}
	if err := c.Freeze(); err != nil {
		tst.Errorf("Freeze: %v", err)
		return
	}

	model, err := compile.Compile(c, 1e-3, compile.Options{})
	if err != nil {
		tst.Errorf("Compile: %v", err)
		return
	}
	if model.NX != 0 {
		tst.Errorf("NX: got %d, want 0 (no capacitor in this circuit)", model.NX)
	}
	if model.NZ != 0 {
		tst.Errorf("NZ: got %d, want 0 (no nonlinear element in this circuit)", model.NZ)
	}
	if len(model.Sub) != 0 {
		tst.Errorf("Sub: got %d blocks, want 0", len(model.Sub))
	}

	ratio := r2 / (r1 + r2)
	chk.Scalar(tst, "Ey[0][0]", 1e-9, model.Ey[0][0], ratio)
	chk.Scalar(tst, "Y0[0]", 1e-12, model.Y0[0], 0)

	run := runner.NewModelRunner(model)
	y, err := run.Step([]float64{8.0})
	if err != nil {
		tst.Errorf("Step: %v", err)
		return
	}
	chk.Scalar(tst, "Vout", 1e-9, y[0], 8.0*ratio)
}

// Test_compile_diode_clipper exercises the full nonlinear pipeline --
// decomposition, parameter-dimension reduction and the damped-Newton
// solver -- on a series-resistor diode clipper: reverse-biased the diode
// conducts only
// its negligible saturation current, so the output tracks the input;
// forward-biased it clamps the output to roughly one diode drop.
func Test_compile_diode_clipper(tst *testing.T) {

	chk.PrintTitle("compile_diode_clipper")

	c := circuit.NewCircuit()
	nIn := c.NewNode()
	nOut := c.NewNode()
	if err := c.AddElement(elem.NewVoltageSource("Vin"), []int{nIn, circuit.GroundNode}); err != nil {
		tst.Errorf("AddElement Vin: %v", err)
		return
	}
	const r1 = 2200.0
	if err := c.AddElement(elem.NewResistor("R1", r1), []int{nIn, nOut}); err != nil {
		tst.Errorf("AddElement R1: %v", err)
		return
	}
	if err := c.AddElement(elem.NewDiode("D1", 1e-14, 0.025, 1.0), []int{nOut, circuit.GroundNode}); err != nil {
		tst.Errorf("AddElement D1: %v", err)
		return
	}
	if err := c.AddElement(elem.NewProbe("Vout"), []int{nOut, circuit.GroundNode}); err != nil {
		tst.Errorf("AddElement Vout: %v", err)
		return
	}
	if err := c.Freeze(); err != nil {
		tst.Errorf("Freeze: %v", err)
		return
	}

	model, err := compile.Compile(c, 1e-6, compile.Options{})
	if err != nil {
		tst.Errorf("Compile: %v", err)
		return
	}
	if len(model.Sub) != 1 {
		tst.Errorf("Sub: got %d blocks, want 1 (the diode)", len(model.Sub))
		return
	}
	if model.Sub[0].NP == 0 {
		tst.Errorf("reduced parameter dimension should not collapse to 0: the diode's operating point depends on Vin")
	}

	run := runner.NewModelRunner(model)

	yRev, err := run.Step([]float64{-3.0})
	if err != nil {
		tst.Errorf("Step (reverse bias): %v", err)
		return
	}
	chk.Scalar(tst, "Vout reverse-biased ~= Vin", 1e-6, yRev[0], -3.0)

	yFwd, err := run.Step([]float64{3.0})
	if err != nil {
		tst.Errorf("Step (forward bias): %v", err)
		return
	}
	if yFwd[0] <= 0.5 || yFwd[0] >= 0.75 {
		tst.Errorf("Vout forward-biased: got %v, want roughly one diode drop in (0.5,0.75)", yFwd[0])
	}
}
