// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elem

import (
	"math"

	"github.com/cpmech/ckt/circuit"
)

// diodeResidual implements circuit.Residual for the Shockley diode
// equation i = Is*(exp(v/(eta*Vt)) - 1), q = (v, i).
type diodeResidual struct {
	Is, Vt, Eta float64
}

func (o *diodeResidual) NQ() int  { return 2 }
func (o *diodeResidual) Dim() int { return 1 }

func (o *diodeResidual) Eval(q, res []float64, J [][]float64) error {
	vt := o.Eta * o.Vt
	e := math.Exp(q[0] / vt)
	res[0] = q[1] - o.Is*(e-1)
	J[0][0] = -o.Is * e / vt
	J[0][1] = 1
	return nil
}

// NewDiode returns a 2-terminal diode with saturation current is (A),
// thermal voltage vt (V, ~0.025 at room temperature) and ideality factor
// eta. q bundles the port's own voltage and current so the single
// characteristic equation can reference both.
func NewDiode(name string, is, vt, eta float64) *circuit.Element {
	return &circuit.Element{
		Name: name,
		NB:   1,
		NQ:   2,
		NL:   2,
		Mv:   [][]float64{{1}, {0}},
		Mi:   [][]float64{{0}, {1}},
		Mq:   [][]float64{{-1, 0}, {0, -1}},
		U0:   []float64{0, 0},
		NL_Residual: &diodeResidual{Is: is, Vt: vt, Eta: eta},
	}
}
