// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

// MatMulDense computes a*b for dense row-major matrices
func MatMulDense(a, b [][]float64) [][]float64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	m, k, n := len(a), len(b), len(b[0])
	c := MatAlloc(m, n)
	for i := 0; i < m; i++ {
		for p := 0; p < k; p++ {
			aip := a[i][p]
			if aip == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				c[i][j] += aip * b[p][j]
			}
		}
	}
	return c
}
