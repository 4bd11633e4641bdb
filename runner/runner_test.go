// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner_test

import (
	"context"
	"testing"

	"github.com/cpmech/ckt/circuit"
	"github.com/cpmech/ckt/circuit/elem"
	"github.com/cpmech/ckt/compile"
	"github.com/cpmech/ckt/runner"
	"github.com/cpmech/gosl/chk"
)

func rcLowpass(tst *testing.T) *compile.DiscreteModel {
	c := circuit.NewCircuit()
	nIn := c.NewNode()
	nOut := c.NewNode()
	if err := c.AddElement(elem.NewVoltageSource("Vin"), []int{nIn, circuit.GroundNode}); err != nil {
		tst.Fatalf("AddElement Vin: %v", err)
	}
	if err := c.AddElement(elem.NewResistor("R1", 1000), []int{nIn, nOut}); err != nil {
		tst.Fatalf("AddElement R1: %v", err)
	}
	if err := c.AddElement(elem.NewCapacitor("C1", 1e-6), []int{nOut, circuit.GroundNode}); err != nil {
		tst.Fatalf("AddElement C1: %v", err)
	}
	if err := c.AddElement(elem.NewProbe("Vout"), []int{nOut, circuit.GroundNode}); err != nil {
		tst.Fatalf("AddElement Vout: %v", err)
	}
	if err := c.Freeze(); err != nil {
		tst.Fatalf("Freeze: %v", err)
	}
	model, err := compile.Compile(c, 1e-6, compile.Options{})
	if err != nil {
		tst.Fatalf("Compile: %v", err)
	}
	return model
}

// Test_empty_circuit_run checks a circuit holding only a resistor and a
// voltage probe across it (no input, no state, no nonlinearity) compiles
// and runs to a constant zero output.
func Test_empty_circuit_run(tst *testing.T) {

	chk.PrintTitle("empty_circuit_run")

	c := circuit.NewCircuit()
	n1 := c.NewNode()
	if err := c.AddElement(elem.NewResistor("R1", 1), []int{circuit.GroundNode, n1}); err != nil {
		tst.Errorf("AddElement: %v", err)
		return
	}
	if err := c.AddElement(elem.NewProbe("Vout"), []int{circuit.GroundNode, n1}); err != nil {
		tst.Errorf("AddElement: %v", err)
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
	r := runner.NewModelRunner(model)
	y, err := r.Step([]float64{})
	if err != nil {
		tst.Errorf("Step: %v", err)
		return
	}
	chk.Scalar(tst, "Vout", 1e-15, y[0], 0)
}

// Test_steadystate_rc_charges_to_input checks the RC low-pass's fixed
// point under a constant input equals that input exactly: at steady
// state no current flows through R1, so the capacitor sits at Vin.
func Test_steadystate_rc_charges_to_input(tst *testing.T) {

	chk.PrintTitle("steadystate_rc_charges_to_input")

	model := rcLowpass(tst)
	x0, err := runner.Steadystate(model, []float64{5.0}, 50, 1e-12)
	if err != nil {
		tst.Errorf("Steadystate: %v", err)
		return
	}
	chk.Scalar(tst, "x0[0]", 1e-6, x0[0], 5.0)
}

// Test_steadystate_install_idempotent checks that installing the same
// steady state twice in a row leaves the runner's state unchanged.
func Test_steadystate_install_idempotent(tst *testing.T) {

	chk.PrintTitle("steadystate_install_idempotent")

	model := rcLowpass(tst)
	r := runner.NewModelRunner(model)

	if err := runner.SteadystateInstall(r, []float64{3.0}, 50, 1e-12); err != nil {
		tst.Errorf("first SteadystateInstall: %v", err)
		return
	}
	first := append([]float64(nil), r.State()...)

	if err := runner.SteadystateInstall(r, []float64{3.0}, 50, 1e-12); err != nil {
		tst.Errorf("second SteadystateInstall: %v", err)
		return
	}
	chk.Vector(tst, "state unchanged", 1e-12, r.State(), first)
}

// Test_runner_step_allocates_nothing checks Step's inner loop performs no
// heap allocation once the runner has been constructed, the zero-
// allocation guarantee a long simulation run depends on.
func Test_runner_step_allocates_nothing(tst *testing.T) {

	chk.PrintTitle("runner_step_allocates_nothing")

	model := rcLowpass(tst)
	r := runner.NewModelRunner(model)
	u := []float64{1.0}

	allocs := testing.AllocsPerRun(100, func() {
		if _, err := r.Step(u); err != nil {
			tst.Fatalf("Step: %v", err)
		}
	})
	if allocs != 0 {
		tst.Errorf("Step allocated %v times per call, want 0", allocs)
	}
}

// Test_runner_run_matches_manual_steps checks Run driving a sequence of
// samples through ctx produces exactly what repeated Step calls would.
func Test_runner_run_matches_manual_steps(tst *testing.T) {

	chk.PrintTitle("runner_run_matches_manual_steps")

	model := rcLowpass(tst)

	us := [][]float64{{1}, {1}, {1}, {0}, {0}}
	manual := runner.NewModelRunner(model)
	var want [][]float64
	for _, u := range us {
		y, err := manual.Step(u)
		if err != nil {
			tst.Errorf("manual Step: %v", err)
			return
		}
		want = append(want, append([]float64(nil), y...))
	}

	batch := runner.NewModelRunner(model)
	ys := make([][]float64, len(us))
	for i := range ys {
		ys[i] = make([]float64, model.NY)
	}
	if err := batch.Run(context.Background(), us, ys); err != nil {
		tst.Errorf("Run: %v", err)
		return
	}
	for i := range ys {
		chk.Vector(tst, "ys[i]", 1e-15, ys[i], want[i])
	}
}
