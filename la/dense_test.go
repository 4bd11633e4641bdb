// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_matmuldense(tst *testing.T) {

	chk.PrintTitle("matmuldense")

	a := [][]float64{{1, 2}, {3, 4}}
	b := [][]float64{{5, 6}, {7, 8}}
	c := MatMulDense(a, b)
	chk.Matrix(tst, "a*b", 1e-15, c, [][]float64{{19, 22}, {43, 50}})

	if MatMulDense(nil, b) != nil {
		tst.Errorf("empty input should yield nil")
	}
}
