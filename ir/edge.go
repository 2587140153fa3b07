// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// Edge names a contiguous, inclusive range of output ports on a node —
// [Start, End] — as the source or destination of a connection. A single
// port is the degenerate case Start == End.
type Edge struct {
	node       NodeID
	start, end int
}

// EdgeAtRange names ports start..=end (inclusive) of node.
func EdgeAtRange(node NodeID, start, end int) Edge {
	return Edge{node: node, start: start, end: end}
}

// EdgeAtPort names the single port `port` of node.
func EdgeAtPort(node NodeID, port int) Edge {
	return EdgeAtRange(node, port, port)
}

// EdgeAt names port 0 of node — the common case for nodes with exactly
// one output.
func EdgeAt(node NodeID) Edge {
	return EdgeAtPort(node, 0)
}

func (e Edge) Node() NodeID { return e.node }

// PortLen is the number of ports this edge spans.
func (e Edge) PortLen() int { return e.end - e.start + 1 }
