// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "github.com/go-interpreter/wasm2lua/internal/assert"

// Graph holds every node and incoming-edge list built for one Lambda.
// Start, once set, is the node mark-and-sweep treats as always reachable
// (ordinarily the Lambda node itself).
type Graph struct {
	Start *NodeID

	nodes    []Node
	incoming [][]Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Clear resets g to empty, reusing its backing storage.
func (g *Graph) Clear() {
	g.Start = nil
	g.nodes = g.nodes[:0]
	g.incoming = g.incoming[:0]
}

// Node returns the node stored at id. id must have come from AddNode (or
// AddRegion/AddCompound/AddGamma) on this graph; for a node dropped by a
// later MarkAndSweep.Run it returns nil.
func (g *Graph) Node(id NodeID) Node { return g.nodes[id] }

// Incoming returns the edges feeding into id, in the order they were
// added.
func (g *Graph) Incoming(id NodeID) []Edge { return g.incoming[id] }

// Len is the number of node slots in the graph, including any a prior
// MarkAndSweep.Run has left empty (see sweep in marksweep.go).
func (g *Graph) Len() int { return len(g.nodes) }

// AddNode inserts node and returns its id.
func (g *Graph) AddNode(node Node) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node)
	g.incoming = append(g.incoming, nil)
	return id
}

// AddRegion inserts a fresh RegionStart/RegionEnd pair and returns the
// Region bounding them.
func (g *Graph) AddRegion() Region {
	start := g.AddNode(RegionStart{})
	end := g.AddNode(RegionEnd{})
	return Region{Start: start, End: end}
}

// AddCompound inserts a fresh Region and a compound node built from it via
// make, returning both. Use for Theta/Lambda/Phi, each of which owns
// exactly one region.
func (g *Graph) AddCompound(make func(Region) Node) (Region, NodeID) {
	region := g.AddRegion()
	id := g.AddNode(make(region))
	return region, id
}

// AddGamma inserts a Gamma node over the given regions, each of which must
// already exist in this graph (typically via AddRegion).
func (g *Graph) AddGamma(regions []Region) NodeID {
	return g.AddNode(Gamma{Regions: regions})
}

// AddConnection records that the port-range `from` feeds the port-range
// `to`. The two ranges must span the same number of ports — a mismatch is
// an internal invariant violation, not a malformed-input error, since it
// can only come from this module mis-wiring the graph it itself built.
func (g *Graph) AddConnection(from, to Edge) {
	assert.Equal(from.PortLen(), to.PortLen(), "ir: mismatched port-range length in AddConnection")

	g.incoming[to.node] = append(g.incoming[to.node], from)
}
