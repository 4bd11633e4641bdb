// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kdtree adapts gonum's spatial/kdtree to the caching solver's
// needs: nearest-neighbour lookup over parameter vectors, each carrying
// an opaque payload (the cached solution), with append-only growth and
// an optional cap that evicts the oldest entry once exceeded (spec.md §9).
package kdtree

import (
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Sample is one (parameter, solution) pair stored in the tree. It
// implements kdtree.Comparable over the parameter vector only; Z rides
// along as the cached payload.
type Sample struct {
	P []float64
	Z []float64
}

// Compare implements kdtree.Comparable
func (s *Sample) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	o := c.(*Sample)
	return s.P[d] - o.P[d]
}

// Dims implements kdtree.Comparable
func (s *Sample) Dims() int { return len(s.P) }

// Distance implements kdtree.Comparable: squared Euclidean distance
func (s *Sample) Distance(c kdtree.Comparable) float64 {
	o := c.(*Sample)
	var sum float64
	for i := range s.P {
		d := s.P[i] - o.P[i]
		sum += d * d
	}
	return sum
}

// bag is the bulk-build kdtree.Interface, used only to seed an empty tree
type bag []*Sample

func (b bag) Index(i int) kdtree.Comparable { return b[i] }
func (b bag) Len() int                      { return len(b) }
func (b bag) Pivot(d kdtree.Dim) int        { return kdtree.Points(nil).Pivot(d) }
func (b bag) Slice(start, end int) kdtree.Interface { return b[start:end] }

// Tree is a write-append nearest-neighbour index over parameter vectors.
// Tree is NOT safe for concurrent use: each CachingSolver owns one (spec
// §5 - "the caching solver's tree is per-solver and not shared").
type Tree struct {
	t        *kdtree.Tree
	n        int
	maxSize  int // 0 means unbounded
	order    []*Sample
}

// New creates an empty tree. maxSize, if positive, caps the number of
// retained samples; once exceeded the oldest sample is evicted and the
// tree is rebuilt (a full rebuild is cheap relative to the solves it
// saves, and keeps the eviction policy exact rather than approximate).
func New(dims int, maxSize int) *Tree {
	return &Tree{t: kdtree.New(bag{}, false), maxSize: maxSize}
}

// Len returns the number of samples currently stored
func (o *Tree) Len() int { return o.n }

// Insert adds a new (p, z) sample. p is copied so the caller's slice may
// be reused.
func (o *Tree) Insert(p, z []float64) {
	s := &Sample{P: append([]float64(nil), p...), Z: append([]float64(nil), z...)}
	o.order = append(o.order, s)
	if o.maxSize > 0 && len(o.order) > o.maxSize {
		o.order = o.order[1:]
		o.rebuild()
		return
	}
	o.t.Insert(s, false)
	o.n++
}

// rebuild discards the existing tree and bulk-inserts the retained
// samples, used after an eviction
func (o *Tree) rebuild() {
	o.t = kdtree.New(bag{}, false)
	for _, s := range o.order {
		o.t.Insert(s, false)
	}
	o.n = len(o.order)
}

// Nearest returns the closest previously-inserted (p', z') pair to q, and
// the squared distance to it. ok is false if the tree is empty.
func (o *Tree) Nearest(q []float64) (p, z []float64, dist float64, ok bool) {
	if o.n == 0 {
		return nil, nil, 0, false
	}
	query := &Sample{P: q}
	best, d := o.t.Nearest(query)
	if best == nil {
		return nil, nil, 0, false
	}
	s := best.(*Sample)
	return s.P, s.Z, d, true
}
