// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package passes holds the linear, single-scan analyses that run over a
// decoded operator stream: dead-code removal and the boundary/read-write/
// demand annotations (spec.md §4.2–§4.5). Only RemoveDeadCode is part of
// the translator's pipeline; the annotations are computed on request and
// neither the Factory nor the backend reads them.
package passes

import "github.com/go-interpreter/wasm2lua/operator"

// deadCodeElimination is a very basic dead-code pass: it removes
// instructions that follow an unconditional exit (unreachable/br/br_table/
// return) up to the end of their enclosing structured block, the same way
// a validator would reject reachable code after them but keep the block
// shell itself.
type deadCodeElimination struct {
	nestedUnreachable int
}

func (d *deadCodeElimination) dropUnreachable(op operator.Op) {
	switch op.Code {
	case operator.Block, operator.Loop, operator.If:
		d.nestedUnreachable++
	case operator.Else:
		if d.nestedUnreachable == 1 {
			d.nestedUnreachable--
		}
	case operator.End:
		d.nestedUnreachable--
	}
}

func (d *deadCodeElimination) maybeEndOfBlock(op operator.Op) {
	switch op.Code {
	case operator.Unreachable, operator.Br, operator.BrTable, operator.Return:
		d.nestedUnreachable++
	}
}

func (d *deadCodeElimination) isReachable() bool { return d.nestedUnreachable == 0 }

func (d *deadCodeElimination) run(code []operator.Op) []operator.Op {
	remaining := make([]operator.Op, 0, len(code))

	for _, op := range code {
		var reachable bool
		if d.isReachable() {
			d.maybeEndOfBlock(op)
			reachable = true
		} else {
			d.dropUnreachable(op)
			reachable = d.isReachable()
		}

		if reachable {
			remaining = append(remaining, op)
		}
	}

	return remaining
}

// RemoveDeadCode drops every instruction made unreachable by a preceding
// unconditional exit within the same structured block, keeping the
// enclosing block/loop/if/else/end shell intact.
func RemoveDeadCode(code []operator.Op) []operator.Op {
	var d deadCodeElimination
	return d.run(code)
}
