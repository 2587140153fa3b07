// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dot is the diagnostic Graphviz renderer for an ir.Graph
// (spec.md §4.8): every node becomes an HTML-label table with one row per
// input/output port, compound nodes are drawn as clusters around their
// region's boundary nodes, and the node set is partitioned into a
// "reachable" cluster (transitive closure from Graph.Start) and a
// "not-reachable" cluster holding whatever MarkAndSweep would otherwise
// collect.
package dot

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-interpreter/wasm2lua/ir"
)

// Write renders g as Graphviz DOT source to w.
func Write(g *ir.Graph, w io.Writer) error {
	wr := &writer{g: g, w: w}
	return wr.run()
}

type writer struct {
	g *ir.Graph
	w io.Writer
	n int // synthetic id counter for region boundary clusters
}

func (wr *writer) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(wr.w, format, args...)
	return err
}

func (wr *writer) run() error {
	if err := wr.printf("digraph {\n\trankdir=TB;\n\tnode [shape=plaintext];\n"); err != nil {
		return err
	}

	reachable := wr.reachableSet()

	var reachIDs, unreachIDs []ir.NodeID
	for id := ir.NodeID(0); int(id) < wr.g.Len(); id++ {
		if wr.g.Node(id) == nil {
			continue
		}
		if reachable[id] {
			reachIDs = append(reachIDs, id)
		} else {
			unreachIDs = append(unreachIDs, id)
		}
	}

	if err := wr.writeCluster("cluster_reachable", "reachable", reachIDs); err != nil {
		return err
	}
	if err := wr.writeCluster("cluster_unreachable", "not reachable", unreachIDs); err != nil {
		return err
	}

	if err := wr.writeEdges(); err != nil {
		return err
	}

	return wr.printf("}\n")
}

// reachableSet computes transitive closure from g.Start without mutating
// g — a read-only rendition of MarkAndSweep's mark phase, since the DOT
// writer must be able to draw the graph a sweep would collapse.
func (wr *writer) reachableSet() map[ir.NodeID]bool {
	visited := make(map[ir.NodeID]bool)
	if wr.g.Start == nil {
		return visited
	}

	var pending []ir.NodeID
	mark := func(id ir.NodeID) {
		if !visited[id] {
			visited[id] = true
			pending = append(pending, id)
		}
	}
	mark(*wr.g.Start)

	for len(pending) > 0 {
		n := len(pending) - 1
		id := pending[n]
		pending = pending[:n]

		if regions, ok := ir.Regions(wr.g.Node(id)); ok {
			for _, r := range regions {
				mark(r.Start)
				mark(r.End)
			}
		}
		for _, e := range wr.g.Incoming(id) {
			mark(e.Node())
		}
	}

	return visited
}

func nodeLabel(n ir.Node) string {
	switch n.(type) {
	case ir.RegionStart:
		return "start"
	case ir.RegionEnd:
		return "end"
	case ir.Gamma:
		return "Gamma"
	case ir.Theta:
		return "Theta"
	case ir.Lambda:
		return "Lambda"
	case ir.Phi:
		return "Phi"
	default:
		return "?"
	}
}

// writeCluster emits one subgraph holding ids, each drawn as an HTML
// table with an input-port row and an output-port row. Compound nodes
// (Gamma/Theta/Lambda/Phi) additionally get a labeled sub-cluster
// containing their region's start/end boundary nodes.
func (wr *writer) writeCluster(name, label string, ids []ir.NodeID) error {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if err := wr.printf("\tsubgraph %s {\n\t\tlabel=%q;\n", name, label); err != nil {
		return err
	}

	for _, id := range ids {
		node := wr.g.Node(id)
		numIn := len(wr.g.Incoming(id))
		numOut := outPortCount(node)

		if err := wr.writeNodeTable(id, nodeLabel(node), numIn, numOut); err != nil {
			return err
		}

		if regions, ok := ir.Regions(node); ok {
			for i, r := range regions {
				kind := "Then"
				if len(regions) == 1 {
					kind = nodeLabel(node)
				} else if i > 0 {
					kind = fmt.Sprintf("Branch%d", i)
				}
				if err := wr.printf("\t\tsubgraph cluster_region_%d {\n\t\t\tlabel=%q;\n", r.Start, kind); err != nil {
					return err
				}
				if err := wr.printf("\t\t\tn%d;\n\t\t\tn%d;\n\t\t}\n", r.Start, r.End); err != nil {
					return err
				}
			}
		}
	}

	return wr.printf("\t}\n")
}

// outPortCount is the number of output ports a node exposes: simple nodes
// and most compounds expose a single value, RegionEnd exposes however
// many ports its dependents reference (approximated here as 1, since the
// writer has no direct access to the consuming connection's PortLen —
// diagnostic rendering, not a structural guarantee).
func outPortCount(n ir.Node) int {
	switch n.(type) {
	case ir.RegionStart, ir.RegionEnd:
		return 1
	default:
		return 1
	}
}

func (wr *writer) writeNodeTable(id ir.NodeID, label string, numIn, numOut int) error {
	if err := wr.printf("\t\tn%d [label=<\n\t\t\t<TABLE BORDER=\"0\" CELLBORDER=\"1\" CELLSPACING=\"0\">\n", id); err != nil {
		return err
	}
	if numIn > 0 {
		if err := wr.printf("\t\t\t<TR>"); err != nil {
			return err
		}
		for i := 0; i < numIn; i++ {
			if err := wr.printf("<TD PORT=\"i%d\">i%d</TD>", i, i); err != nil {
				return err
			}
		}
		if err := wr.printf("</TR>\n"); err != nil {
			return err
		}
	}
	if err := wr.printf("\t\t\t<TR><TD COLSPAN=\"%d\">%s (n%d)</TD></TR>\n", max(numIn, 1), label, id); err != nil {
		return err
	}
	if numOut > 0 {
		if err := wr.printf("\t\t\t<TR>"); err != nil {
			return err
		}
		for i := 0; i < numOut; i++ {
			if err := wr.printf("<TD PORT=\"o%d\">o%d</TD>", i, i); err != nil {
				return err
			}
		}
		if err := wr.printf("</TR>\n"); err != nil {
			return err
		}
	}
	return wr.printf("\t\t\t</TABLE>>];\n")
}

// writeEdges draws one arrow per incoming edge, port-to-port; a compound
// node's head is rerouted to its region's end, since a consumer that
// depends on a Gamma/Theta/Lambda/Phi actually depends on the value its
// region produces at End.
func (wr *writer) writeEdges() error {
	for id := ir.NodeID(0); int(id) < wr.g.Len(); id++ {
		node := wr.g.Node(id)
		if node == nil {
			continue
		}
		for portIdx, e := range wr.g.Incoming(id) {
			head := e.Node()
			if regions, ok := ir.Regions(wr.g.Node(head)); ok && len(regions) > 0 {
				head = regions[0].End
			}
			if err := wr.printf("\tn%d:o0 -> n%d:i%d;\n", head, id, portIdx); err != nil {
				return err
			}
		}
	}
	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
