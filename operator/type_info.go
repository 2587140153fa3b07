// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

// TypeInfo answers the three queries the lifter needs about function and
// block arities: given a function index, a type index, or a block type,
// how many parameters does it take and how many results does it produce.
// Implementations must be total for every index referenced by the input
// module — an out-of-range index is a malformed-input error (spec.md §7).
type TypeInfo interface {
	ByFuncIndex(index uint32) (numParam, numResult int)
	ByTypeIndex(index uint32) (numParam, numResult int)
	ByBlockType(ty BlockType) (numParam, numResult int)
}

// Var identifies a local or global slot read or written by an instruction.
// Used by the read/write and demand annotation passes.
type Var struct {
	Global bool
	Index  uint32
}

func LocalVar(index uint32) Var  { return Var{Global: false, Index: index} }
func GlobalVar(index uint32) Var { return Var{Global: true, Index: index} }
