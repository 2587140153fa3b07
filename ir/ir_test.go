// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "testing"

func TestAddConnectionMismatchedPortsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on mismatched port-range lengths")
		}
	}()

	g := NewGraph()
	a := g.AddNode(RegionStart{})
	b := g.AddNode(RegionStart{})

	g.AddConnection(EdgeAtRange(a, 0, 1), EdgeAtPort(b, 0))
}

func TestMarkAndSweepKeepsOnlyReachable(t *testing.T) {
	g := NewGraph()

	region, lambdaID := g.AddCompound(func(r Region) Node { return Lambda{Body: r} })
	// An orphan node with no path back to the Lambda.
	orphan := g.AddNode(RegionStart{})
	_ = orphan

	g.AddConnection(EdgeAt(region.Start), EdgeAt(region.End))

	start := lambdaID
	g.Start = &start

	var m MarkAndSweep
	m.Run(g)

	if g.Node(lambdaID) == nil {
		t.Fatalf("expected the Lambda itself to survive")
	}
	if g.Node(region.Start) == nil || g.Node(region.End) == nil {
		t.Fatalf("expected the Lambda's own region boundaries to survive")
	}
	if g.Node(orphan) != nil {
		t.Fatalf("expected the unreachable node to be swept")
	}
}

func TestMarkAndSweepFollowsIncomingEdges(t *testing.T) {
	g := NewGraph()

	start := g.AddNode(RegionStart{})
	producer := g.AddNode(RegionStart{})
	g.AddConnection(EdgeAt(producer), EdgeAt(start))

	id := start
	g.Start = &id

	var m MarkAndSweep
	m.Run(g)

	if g.Node(producer) == nil {
		t.Fatalf("expected the node feeding start to survive via its incoming edge")
	}
}
