// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "github.com/bits-and-blooms/bitset"

// MarkAndSweep reclaims every node unreachable from Graph.Start: a node is
// reachable if it is Start itself, a Region boundary owned by a reachable
// compound node, or the source of an edge feeding a reachable node.
// Reusing one MarkAndSweep across multiple graphs keeps the storage of its
// pending work list; the visited bitset is allocated afresh on every Run.
type MarkAndSweep struct {
	visited *bitset.BitSet
	pending []NodeID
}

// NewMarkAndSweep returns a collector with no scratch state allocated yet.
func NewMarkAndSweep() *MarkAndSweep {
	return &MarkAndSweep{}
}

func (m *MarkAndSweep) markNodeAt(id NodeID) {
	if m.visited.Test(uint(id)) {
		return
	}
	m.visited.Set(uint(id))
	m.pending = append(m.pending, id)
}

func (m *MarkAndSweep) markEdgesAt(g *Graph, id NodeID) {
	if regions, ok := Regions(g.nodes[id]); ok {
		for _, r := range regions {
			m.markNodeAt(r.Start)
			m.markNodeAt(r.End)
		}
	}

	for _, e := range g.incoming[id] {
		m.markNodeAt(e.node)
	}
}

func (m *MarkAndSweep) mark(g *Graph) {
	if g.Start != nil {
		m.markNodeAt(*g.Start)
	}

	for len(m.pending) > 0 {
		n := len(m.pending) - 1
		id := m.pending[n]
		m.pending = m.pending[:n]

		m.markEdgesAt(g, id)
	}
}

// sweep blanks every node/incoming slot mark never visited, rather than
// compacting the slice: compaction would require remapping every NodeID
// still held by the caller, which the original's slotmap removal avoids by
// construction and this module avoids by simply never reusing a swept id.
func (m *MarkAndSweep) sweep(g *Graph) {
	for i := range g.nodes {
		if !m.visited.Test(uint(i)) {
			g.nodes[i] = nil
			g.incoming[i] = nil
		}
	}
}

// Run marks every node reachable from graph.Start and drops the rest.
func (m *MarkAndSweep) Run(graph *Graph) {
	m.visited = bitset.New(uint(graph.Len()))
	m.pending = m.pending[:0]

	m.mark(graph)
	m.sweep(graph)
}
