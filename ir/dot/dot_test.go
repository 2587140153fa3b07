// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dot

import (
	"strings"
	"testing"

	"github.com/go-interpreter/wasm2lua/ir"
)

func TestWriteReachableAndUnreachable(t *testing.T) {
	g := ir.NewGraph()

	region, lambda := g.AddCompound(func(r ir.Region) ir.Node { return ir.Lambda{Body: r} })
	start := lambda
	g.Start = &start

	g.AddConnection(ir.EdgeAt(region.Start), ir.EdgeAt(region.End))

	orphan := g.AddNode(ir.RegionStart{})
	_ = orphan

	var buf strings.Builder
	if err := Write(g, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "digraph {") {
		t.Fatalf("missing digraph header: %s", out)
	}
	if !strings.Contains(out, "cluster_reachable") || !strings.Contains(out, "cluster_unreachable") {
		t.Fatalf("missing cluster partition: %s", out)
	}
	if !strings.Contains(out, "Lambda") {
		t.Fatalf("missing lambda node: %s", out)
	}
}
