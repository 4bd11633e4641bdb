// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"os"

	"github.com/cpmech/ckt/circuit/netlist"
	"github.com/cpmech/ckt/compile"
	"github.com/cpmech/ckt/runner"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func main() {
	verbose := true

	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	io.PfWhite("\nckt -- analog circuit model compiler\n\n")

	flag.Parse()
	if len(flag.Args()) < 1 {
		chk.Panic("please provide a netlist filename. Ex.: rc-lowpass.json")
	}
	nlPath := flag.Arg(0)
	outPath := "out.csv"
	if len(flag.Args()) > 1 {
		outPath = flag.Arg(1)
	}
	if len(flag.Args()) > 2 {
		verbose = io.Atob(flag.Arg(2))
	}

	n, err := netlist.Read(nlPath)
	if err != nil {
		chk.Panic("%v", err)
	}
	built, err := netlist.Build(n)
	if err != nil {
		chk.Panic("%v", err)
	}
	if built.Nsteps <= 0 {
		chk.Panic("netlist %q: run.nsteps must be positive", nlPath)
	}
	if built.T <= 0 {
		chk.Panic("netlist %q: run.t (sample period) must be positive", nlPath)
	}

	if verbose {
		io.Pf("compiling %q: %d elements, %d nodes, T=%.6g, nsteps=%d\n",
			nlPath, len(built.Circuit.Elements), built.Circuit.NNodes, built.T, built.Nsteps)
	}

	model, err := compile.Compile(built.Circuit, built.T, compile.Options{Verbose: verbose})
	if err != nil {
		chk.Panic("%v", err)
	}
	for _, w := range model.Warnings {
		io.Pfyel("WARNING: %s\n", w)
	}

	r := runner.NewModelRunner(model)

	f, err := os.Create(outPath)
	if err != nil {
		chk.Panic("cannot create %q: %v", outPath, err)
	}
	defer f.Close()

	io.Ff(f, "t")
	for _, name := range built.OutputNames {
		io.Ff(f, ",%s", name)
	}
	io.Ff(f, "\n")

	ctx := context.Background()
	u := make([]float64, model.NU)
	for k := 0; k < built.Nsteps; k++ {
		t := float64(k) * built.T
		for i, sig := range built.InputSignals {
			u[i] = sig.At(t)
		}
		select {
		case <-ctx.Done():
			chk.Panic("run cancelled: %v", ctx.Err())
		default:
		}
		y, err := r.Step(u)
		if err != nil {
			chk.Panic("sample %d (t=%g): %v", k, t, err)
		}
		io.Ff(f, "%.10g", t)
		for _, v := range y {
			io.Ff(f, ",%.10g", v)
		}
		io.Ff(f, "\n")
	}

	for _, w := range r.Warnings {
		io.Pfyel("WARNING: %s\n", w)
	}

	if verbose {
		io.Pfgreen("done: wrote %d samples to %q\n", built.Nsteps, outPath)
	}
}
