// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package passes

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/go-interpreter/wasm2lua/operator"
)

// EntryLabel is the result-map key for the function's implicit outermost
// block, mirroring the original's use of usize::MAX as a sentinel index
// that can never collide with a real instruction offset.
const EntryLabel = -1

// Label is the read/write footprint of a contiguous span of code: which
// locals/globals it reads before any write in the span reaches them, and
// which it writes at all.
type Label struct {
	Read, Write mapset.Set[operator.Var]
}

func newLabel() *Label {
	return &Label{Read: mapset.NewThreadUnsafeSet[operator.Var](), Write: mapset.NewThreadUnsafeSet[operator.Var]()}
}

func (l *Label) clear() {
	l.Read.Clear()
	l.Write.Clear()
}

func (l *Label) readExtend(other mapset.Set[operator.Var]) {
	l.Read = l.Read.Union(other)
}

// linearMerge folds `other`, which runs immediately before l in program
// order (the backward scan reaches it after l), into l: a read in l of a
// var that other writes is dropped, since that write shadows it, while
// every read and every write in other carries forward.
func (l *Label) linearMerge(other *Label) {
	l.Read = l.Read.Difference(other.Write)
	l.Read = l.Read.Union(other.Read)
	l.Write = l.Write.Union(other.Write)
}

// branchMerge folds a sibling branch's label into l: a read anywhere in
// either branch must be treated as a read, but only a var written by both
// branches is guaranteed written afterward.
func (l *Label) branchMerge(other *Label) {
	l.Read = l.Read.Union(other.Read)
	l.Write = l.Write.Intersect(other.Write)
}

type readWriteAnnotation struct {
	branchStack  []bool
	pendingStack []*Label

	result map[int]*Label
	scratch Label
}

func (a *readWriteAnnotation) handleBlock(key int) {
	n := len(a.pendingStack) - 1
	popped := a.pendingStack[n]
	a.pendingStack = a.pendingStack[:n]

	a.branchStack = a.branchStack[:len(a.branchStack)-1]
	a.result[key] = popped
}

func (a *readWriteAnnotation) handleIf(key int) {
	n := len(a.pendingStack) - 1
	popped := a.pendingStack[n]
	a.pendingStack = a.pendingStack[:n]

	tookElse := a.branchStack[len(a.branchStack)-1]
	a.branchStack = a.branchStack[:len(a.branchStack)-1]

	if tookElse {
		m := len(a.pendingStack) - 1
		other := a.pendingStack[m]
		a.pendingStack = a.pendingStack[:m]

		popped.branchMerge(other)
	}

	a.result[key] = popped
}

func (a *readWriteAnnotation) handleElse() {
	a.pendingStack = append(a.pendingStack, newLabel())
	a.branchStack[len(a.branchStack)-1] = true
}

func (a *readWriteAnnotation) handleEnd() {
	a.branchStack = append(a.branchStack, false)
	a.pendingStack = append(a.pendingStack, newLabel())
}

func (a *readWriteAnnotation) handleBoundary(key int, op operator.Op) bool {
	switch op.Code {
	case operator.Block, operator.Loop:
		a.handleBlock(key)
	case operator.If:
		a.handleIf(key)
	case operator.Else:
		a.handleElse()
	case operator.End:
		a.handleEnd()
	default:
		return false
	}
	return true
}

func (a *readWriteAnnotation) trackOperation(op operator.Op) {
	switch op.Code {
	case operator.LocalGet:
		a.scratch.Read.Add(operator.LocalVar(op.VarIndex))
	case operator.LocalSet:
		a.scratch.Write.Add(operator.LocalVar(op.VarIndex))
	case operator.LocalTee:
		a.scratch.Read.Add(operator.LocalVar(op.VarIndex))
		a.scratch.Write.Add(operator.LocalVar(op.VarIndex))
	case operator.GlobalGet:
		a.scratch.Read.Add(operator.GlobalVar(op.VarIndex))
	case operator.GlobalSet:
		a.scratch.Write.Add(operator.GlobalVar(op.VarIndex))
	}
}

func (a *readWriteAnnotation) addLabelData(code []operator.Op) {
	for i := len(code) - 1; i >= 0; i-- {
		if a.handleBoundary(i, code[i]) {
			continue
		}

		a.scratch.clear()
		a.trackOperation(code[i])

		a.pendingStack[len(a.pendingStack)-1].linearMerge(&a.scratch)
	}
}

// AnnotateReadWrite scans code once, backward, and returns a map from the
// index of every Block/Loop/If to the Label describing the reads and
// writes of its body, plus a Label for the function's own top level under
// EntryLabel. code holds only the function's own instructions — no
// wrapping Block and no trailing End for the implicit function-level
// region; the pass seeds that region itself below.
func AnnotateReadWrite(code []operator.Op) map[int]*Label {
	a := &readWriteAnnotation{result: make(map[int]*Label), scratch: *newLabel()}

	// Seed the implicit outermost region: every nested Block/Loop/If pushes
	// and pops its own entry in balanced pairs, so this is the one entry
	// left over once the scan completes.
	a.pendingStack = append(a.pendingStack, newLabel())
	a.branchStack = append(a.branchStack, false)

	a.addLabelData(code)

	last := a.pendingStack[len(a.pendingStack)-1]
	a.pendingStack = a.pendingStack[:len(a.pendingStack)-1]
	a.result[EntryLabel] = last

	return a.result
}
