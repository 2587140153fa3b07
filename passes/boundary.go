// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package passes

import "github.com/go-interpreter/wasm2lua/operator"

// BoundaryKind distinguishes the two kinds of End a downstream pass cares
// about: the back-edge of a loop, and the End of an if that took its else
// arm. Every other End (block, or an if with no else arm) carries no
// BoundaryKind at all.
type BoundaryKind int

const (
	BoundaryLoop BoundaryKind = iota
	BoundaryElse
)

// Boundary annotates one End instruction's index. Start is only meaningful
// for BoundaryLoop, where it is the index of the matching Loop instruction.
type Boundary struct {
	Kind  BoundaryKind
	Start int
}

// TrackBoundaries scans code once, forward, and returns a map from the
// index of each End that closes a loop or an else-bearing if to the
// Boundary describing it. Demand annotation (AnnotateDemand) uses this to
// know, at each End, whether to re-extend reads back around a loop or to
// stash/restore the read set across an if/else split.
func TrackBoundaries(code []operator.Op) map[int]Boundary {
	var pending []*Boundary // nil entry == plain block/if with no boundary yet
	result := make(map[int]Boundary)

	for i, inst := range code {
		switch inst.Code {
		case operator.Block, operator.If:
			pending = append(pending, nil)
		case operator.Loop:
			b := Boundary{Kind: BoundaryLoop, Start: i}
			pending = append(pending, &b)
		case operator.Else:
			b := Boundary{Kind: BoundaryElse}
			pending[len(pending)-1] = &b
		case operator.End:
			n := len(pending) - 1
			top := pending[n]
			pending = pending[:n]
			if top != nil {
				result[i] = *top
			}
		}
	}

	return result
}
