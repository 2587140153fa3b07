// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package passes

import (
	"testing"

	"github.com/go-interpreter/wasm2lua/operator"
)

func TestRemoveDeadCodeDropsAfterUnconditionalBranch(t *testing.T) {
	code := []operator.Op{
		{Code: operator.Block},
		{Code: operator.Br, RelativeDepth: 0},
		{Code: operator.I32Const, I32Value: 1}, // dead
		{Code: operator.Drop},                  // dead
		{Code: operator.End},
		{Code: operator.Nop},
	}

	got := RemoveDeadCode(code)
	if len(got) != 4 {
		t.Fatalf("expected 4 surviving instructions, got %d: %#v", len(got), got)
	}
	if got[3].Code != operator.Nop {
		t.Fatalf("expected trailing Nop to survive, got %#v", got[3])
	}
}

func TestRemoveDeadCodeKeepsElseArm(t *testing.T) {
	code := []operator.Op{
		{Code: operator.If},
		{Code: operator.Unreachable},
		{Code: operator.I32Const, I32Value: 1}, // dead: follows the unreachable then-arm
		{Code: operator.Else},
		{Code: operator.I32Const, I32Value: 5}, // live: the else arm itself
		{Code: operator.End},
	}
	got := RemoveDeadCode(code)
	if len(got) != 5 {
		t.Fatalf("expected 5 surviving instructions, got %d: %#v", len(got), got)
	}
	if got[3].Code != operator.I32Const || got[3].I32Value != 5 {
		t.Fatalf("expected the else arm's constant to survive, got %#v", got[3])
	}
}

func TestTrackBoundariesFindsLoopBackEdge(t *testing.T) {
	code := []operator.Op{
		{Code: operator.Loop},
		{Code: operator.Br, RelativeDepth: 0},
		{Code: operator.End},
	}
	got := TrackBoundaries(code)
	b, ok := got[2]
	if !ok {
		t.Fatalf("expected a boundary at the End, got none")
	}
	if b.Kind != BoundaryLoop || b.Start != 0 {
		t.Fatalf("expected loop boundary starting at 0, got %#v", b)
	}
}

func TestTrackBoundariesFindsElseBoundary(t *testing.T) {
	code := []operator.Op{
		{Code: operator.If},
		{Code: operator.Else},
		{Code: operator.End},
	}
	got := TrackBoundaries(code)
	b, ok := got[2]
	if !ok || b.Kind != BoundaryElse {
		t.Fatalf("expected an else boundary at the End, got %#v (ok=%v)", b, ok)
	}
}

func TestAnnotateReadWriteLinearMerge(t *testing.T) {
	code := []operator.Op{
		{Code: operator.LocalGet, VarIndex: 0},
		{Code: operator.LocalSet, VarIndex: 1},
	}
	labels := AnnotateReadWrite(code)
	entry := labels[EntryLabel]

	if !entry.Read.Contains(operator.LocalVar(0)) {
		t.Fatalf("expected local 0 to be read")
	}
	if !entry.Write.Contains(operator.LocalVar(1)) {
		t.Fatalf("expected local 1 to be written")
	}
}

func TestAnnotateReadWriteEarlierWriteShadowsRead(t *testing.T) {
	code := []operator.Op{
		{Code: operator.LocalSet, VarIndex: 0},
		{Code: operator.LocalGet, VarIndex: 0},
	}
	labels := AnnotateReadWrite(code)
	entry := labels[EntryLabel]

	if entry.Read.Contains(operator.LocalVar(0)) {
		t.Fatalf("expected the earlier write to shadow the later read of local 0")
	}
	if !entry.Write.Contains(operator.LocalVar(0)) {
		t.Fatalf("expected local 0 to still be recorded as written")
	}
}

func TestAnnotateDemandCarriesLoopReadAcrossBackEdge(t *testing.T) {
	code := []operator.Op{
		{Code: operator.Loop},
		{Code: operator.LocalGet, VarIndex: 2},
		{Code: operator.Drop},
		{Code: operator.Br, RelativeDepth: 0},
		{Code: operator.End},
	}
	boundaries := TrackBoundaries(code)
	labels := AnnotateReadWrite(code)
	demand := AnnotateDemand(code, boundaries, labels)

	if !demand[0].Contains(operator.LocalVar(2)) {
		t.Fatalf("expected local 2 to be demanded at the loop header, got %v", demand[0])
	}
}
