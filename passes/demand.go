// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package passes

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/go-interpreter/wasm2lua/operator"
)

// demandAnnotation derives, for every Block/Loop/If boundary, the set of
// locals/globals that must already hold their final value when control
// reaches that boundary (its "demand set") from the read/write labels
// AnnotateReadWrite already computed. It keeps one explicit scratch Label
// plus a stack of saved scratches, rather than recursion, as the normative
// rendition of the Else-restore mechanism (spec.md §9): walking backward,
// the scratch is stashed when the End of an if that has an else arm is
// reached, and restored when the matching Else is reached; no fresh
// scratch is substituted in between.
type demandAnnotation struct {
	scratch Label
	saved   []Label

	result map[int]mapset.Set[operator.Var]
}

func (d *demandAnnotation) fillIndices(labels map[int]*Label) {
	for key := range labels {
		d.result[key] = mapset.NewThreadUnsafeSet[operator.Var]()
	}
}

func (d *demandAnnotation) patch(key int) {
	d.result[key] = d.scratch.Read.Clone()
}

func (d *demandAnnotation) handleBlock(key int, labels map[int]*Label) {
	d.scratch.linearMerge(labels[key])
	d.patch(key)
}

func (d *demandAnnotation) handleLoop(key int, labels map[int]*Label) {
	d.scratch.readExtend(labels[key].Read)
	d.patch(key)
}

func (d *demandAnnotation) handleIf(key int, labels map[int]*Label) {
	d.scratch.linearMerge(labels[key])
	d.patch(key)
}

func (d *demandAnnotation) handleElse() {
	n := len(d.saved) - 1
	reset := d.saved[n]
	d.saved = d.saved[:n]

	d.scratch = reset
}

func (d *demandAnnotation) handleEnd(key int, boundaries map[int]Boundary, labels map[int]*Label) {
	b, ok := boundaries[key]
	if !ok {
		return
	}

	switch b.Kind {
	case BoundaryLoop:
		d.scratch.readExtend(labels[b.Start].Read)
	case BoundaryElse:
		clone := Label{Read: d.scratch.Read.Clone(), Write: d.scratch.Write.Clone()}
		d.saved = append(d.saved, clone)
	}
}

func (d *demandAnnotation) run(code []operator.Op, boundaries map[int]Boundary, labels map[int]*Label) {
	for i := len(code) - 1; i >= 0; i-- {
		switch code[i].Code {
		case operator.Block:
			d.handleBlock(i, labels)
		case operator.Loop:
			d.handleLoop(i, labels)
		case operator.If:
			d.handleIf(i, labels)
		case operator.Else:
			d.handleElse()
		case operator.End:
			d.handleEnd(i, boundaries, labels)
		}
	}
}

// AnnotateDemand computes, for every index AnnotateReadWrite produced a
// Label for, the set of locals/globals demanded (read, with no earlier
// write in the function shadowing that read) at that point in the
// function. boundaries must come from TrackBoundaries over the same code;
// labels must come from AnnotateReadWrite over the same code.
func AnnotateDemand(code []operator.Op, boundaries map[int]Boundary, labels map[int]*Label) map[int]mapset.Set[operator.Var] {
	d := &demandAnnotation{result: make(map[int]mapset.Set[operator.Var]), scratch: *newLabel()}

	d.fillIndices(labels)
	d.run(code, boundaries, labels)
	d.handleBlock(EntryLabel, labels)

	return d.result
}
