// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package circuit

import "github.com/cpmech/gosl/chk"

// GroundNode is the reserved index of the reference (zero-potential) node
const GroundNode = 0

// branch is one global two-terminal branch contributed by some element
type branch struct {
	a, b    int // node indices
	elem    int // owning element index
	localBr int // branch index within that element
}

// Circuit is an ordered bag of Elements plus a node incidence map. It is
// built incrementally with AddElement and then Freeze'd, after which
// Compile may be called any number of times (spec.md §3 lifecycle).
type Circuit struct {
	Elements []*Element
	NNodes   int // including ground (node 0)

	branches []branch
	frozen   bool

	// topology, filled by Freeze
	Tv [][]float64 // loops:  Tv*v = 0
	Ti [][]float64 // cuts:   Ti*i = 0
}

// NewCircuit returns an empty circuit with only the ground node defined
func NewCircuit() *Circuit {
	return &Circuit{NNodes: 1}
}

// NewNode allocates and returns a fresh, unused node index
func (o *Circuit) NewNode() int {
	if o.frozen {
		panic("circuit: NewNode called on a frozen circuit")
	}
	n := o.NNodes
	o.NNodes++
	return n
}

// AddElement appends e to the circuit, wiring its branches to the given
// pin node indices (len(pins) must equal 2*e.NB: a,b pairs per branch).
func (o *Circuit) AddElement(e *Element, pins []int) error {
	if o.frozen {
		return chk.Err("circuit: AddElement called on a frozen circuit")
	}
	if len(pins) != 2*e.NB {
		return chk.Err("circuit: element %q: got %d pin indices, want %d (2*NB)", e.Name, len(pins), 2*e.NB)
	}
	for _, n := range pins {
		if n < 0 || n >= o.NNodes {
			return chk.Err("circuit: element %q: pin node %d out of range [0,%d)", e.Name, n, o.NNodes)
		}
	}
	e.Pins = append([]int(nil), pins...)
	if err := e.Validate(); err != nil {
		return err
	}
	idx := len(o.Elements)
	o.Elements = append(o.Elements, e)
	for br := 0; br < e.NB; br++ {
		o.branches = append(o.branches, branch{a: pins[2*br], b: pins[2*br+1], elem: idx, localBr: br})
	}
	return nil
}

// NB returns the total number of global branches
func (o *Circuit) NB() int { return len(o.branches) }

// Freeze fixes the topology and computes the loop/cut matrices Tv, Ti
// via a spanning tree rooted at the ground node, following the standard
// fundamental-loop / fundamental-cutset construction: Ti is the reduced
// node-incidence matrix (one row per non-ground node) and Tv is the
// fundamental loop matrix of the tree's chords. These two are orthogonal
// (Tv*Ti^T = 0) for any spanning tree of a connected graph.
func (o *Circuit) Freeze() error {
	if o.frozen {
		return nil
	}
	nb := len(o.branches)

	// adjacency list: node -> list of (branchIdx, otherNode, sign)
	// sign=+1 means this node is the branch's 'a' terminal (branch points away)
	type adj struct {
		br, other int
		sign      float64
	}
	adjacency := make([][]adj, o.NNodes)
	for bi, b := range o.branches {
		adjacency[b.a] = append(adjacency[b.a], adj{bi, b.b, 1})
		adjacency[b.b] = append(adjacency[b.b], adj{bi, b.a, -1})
	}

	// BFS spanning tree from ground
	parent := make([]int, o.NNodes)
	parentBr := make([]int, o.NNodes)  // branch connecting node to its parent
	parentSign := make([]float64, o.NNodes)
	visited := make([]bool, o.NNodes)
	inTree := make([]bool, nb)
	for i := range parent {
		parent[i] = -1
	}
	visited[GroundNode] = true
	queue := []int{GroundNode}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, a := range adjacency[n] {
			if visited[a.other] {
				continue
			}
			visited[a.other] = true
			parent[a.other] = n
			parentBr[a.other] = a.br
			parentSign[a.other] = a.sign // +1 when the parent n is the branch's 'a' terminal
			inTree[a.br] = true
			queue = append(queue, a.other)
		}
	}
	for n := 0; n < o.NNodes; n++ {
		if !visited[n] {
			return chk.Err("circuit: node %d is not connected to ground; circuit must be one connected graph", n)
		}
	}

	// Ti: reduced incidence matrix, one row per non-ground node
	Ti := make([][]float64, o.NNodes-1)
	for i := range Ti {
		Ti[i] = make([]float64, nb)
	}
	for bi, b := range o.branches {
		if b.a != GroundNode {
			Ti[b.a-1][bi] += 1
		}
		if b.b != GroundNode {
			Ti[b.b-1][bi] += -1
		}
	}

	// path-to-root sign-stack for each node: list of (branch, sign) from node up to ground
	pathToRoot := func(n int) []adj {
		var path []adj
		for n != GroundNode {
			// sign convention: +1 if n is the branch's 'b' terminal (the branch
			// points from parent to n), -1 if n is its 'a' terminal, i.e.
			// parentSign[n] itself. A loop walking down the a-side path
			// traverses the branch with this sign; one walking up the b-side
			// path traverses it with the opposite sign.
			path = append(path, adj{br: parentBr[n], other: parent[n], sign: parentSign[n]})
			n = parent[n]
		}
		return path
	}

	// Tv: one fundamental loop per chord (non-tree branch)
	var Tv [][]float64
	for bi, b := range o.branches {
		if inTree[bi] {
			continue
		}
		row := make([]float64, nb)
		row[bi] = 1
		pa := pathToRoot(b.a)
		pb := pathToRoot(b.b)
		// strip common suffix (the path above the LCA appears in both)
		ia, ib := len(pa)-1, len(pb)-1
		for ia >= 0 && ib >= 0 && pa[ia].br == pb[ib].br {
			ia--
			ib--
		}
		for k := 0; k <= ia; k++ {
			row[pa[k].br] += pa[k].sign
		}
		for k := 0; k <= ib; k++ {
			row[pb[k].br] += -pb[k].sign
		}
		Tv = append(Tv, row)
	}

	o.Ti = Ti
	o.Tv = Tv
	o.frozen = true
	return nil
}

// Frozen reports whether Freeze has been called
func (o *Circuit) Frozen() bool { return o.frozen }
