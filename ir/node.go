// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir is the Region IR (spec.md §4): a graph of Gamma/Theta/Lambda/
// Phi compound nodes over Region(start, end) node-pairs, connected by
// port-range Edges, with a mark-and-sweep collector for nodes orphaned by
// a rewrite.
package ir

// NodeID indexes a node within a single Graph. Go has no slotmap
// equivalent in this module's dependency pack (see DESIGN.md), so NodeID
// is a plain dense index into Graph.nodes/incoming with no generation tag.
// MarkAndSweep.Run leaves every index in place: a swept node's slot is set
// to nil and is never handed out again, so only Graph.Clear restarts the
// numbering.
type NodeID uint32

// Region is a sub-graph boundary: every edge entering the region arrives
// at Start, every edge leaving it departs from End.
type Region struct {
	Start, End NodeID
}

// RegionStart and RegionEnd are the two simple marker nodes that bound a
// Region; they carry no data of their own.
type RegionStart struct{}
type RegionEnd struct{}

// Gamma is an n-way structured choice: exactly one of its regions
// executes, selected by a value the node consuming it supplies out of
// band (the backend, not the IR, decides how that selector is threaded).
type Gamma struct {
	Regions []Region
}

// Theta is a structured tail-controlled loop: its single region runs at
// least once, with re-entry decided by a condition the backend reads from
// the region's End.
type Theta struct {
	Body Region
}

// Lambda is a function: its single region is the function body.
type Lambda struct {
	Body Region
}

// Phi is a mutually-recursive binding group; its single region holds the
// bindings.
type Phi struct {
	Body Region
}

// Node is implemented by every node kind the graph can hold.
type Node interface{ isNode() }

func (RegionStart) isNode() {}
func (RegionEnd) isNode()   {}
func (Gamma) isNode()       {}
func (Theta) isNode()       {}
func (Lambda) isNode()      {}
func (Phi) isNode()         {}

// Regions returns the compound regions owned by n, or ok == false if n is
// not a compound node (RegionStart/RegionEnd have none).
func Regions(n Node) (regions []Region, ok bool) {
	switch v := n.(type) {
	case Gamma:
		return v.Regions, true
	case Theta:
		return []Region{v.Body}, true
	case Lambda:
		return []Region{v.Body}, true
	case Phi:
		return []Region{v.Body}, true
	default:
		return nil, false
	}
}
