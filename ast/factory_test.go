// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import (
	"testing"

	"github.com/go-interpreter/wasm2lua/operator"
)

// fixedTypeInfo is a TypeInfo whose function and type-index queries return
// the same (numParam, numResult) pair; ByBlockType ignores that pair and
// returns (0, 0) for the empty block type and (0, 1) for any other.
type fixedTypeInfo struct {
	numParam, numResult int
}

func (t fixedTypeInfo) ByFuncIndex(uint32) (int, int)          { return t.numParam, t.numResult }
func (t fixedTypeInfo) ByTypeIndex(uint32) (int, int)          { return t.numParam, t.numResult }
func (t fixedTypeInfo) ByBlockType(ty operator.BlockType) (int, int) {
	if ty == operator.BlockTypeEmpty {
		return 0, 0
	}
	return 0, 1
}

func op(c operator.Code) operator.Op { return operator.Op{Code: c} }

func TestFactoryConstantAddition(t *testing.T) {
	f := NewFactory(fixedTypeInfo{})
	ops := []operator.Op{
		{Code: operator.I32Const, I32Value: 1},
		{Code: operator.I32Const, I32Value: 2},
		op(operator.I32Add),
	}
	data := f.CreateAnonymous(ops)

	if data.Code.Last != nil {
		t.Fatalf("expected implicit fallthrough block body, got terminator")
	}
	if len(data.Code.Code) != 1 {
		t.Fatalf("expected one leaked SetTemporary statement, got %d", len(data.Code.Code))
	}
	set, ok := data.Code.Code[0].(SetTemporary)
	if !ok {
		t.Fatalf("expected SetTemporary, got %T", data.Code.Code[0])
	}
	add, ok := set.Value.(BinOp)
	if !ok || add.OpType != I32Add {
		t.Fatalf("expected I32Add BinOp, got %#v", set.Value)
	}
}

func TestFactoryLocalSetLeaksPendingRead(t *testing.T) {
	f := NewFactory(fixedTypeInfo{})
	ops := []operator.Op{
		{Code: operator.LocalGet, VarIndex: 0},
		{Code: operator.I32Const, I32Value: 5},
		{Code: operator.LocalSet, VarIndex: 0},
	}
	data := f.CreateAnonymous(ops)

	if len(data.Code.Code) != 2 {
		t.Fatalf("expected leak + SetLocal, got %d statements: %#v", len(data.Code.Code), data.Code.Code)
	}
	leak, ok := data.Code.Code[0].(SetTemporary)
	if !ok {
		t.Fatalf("expected leaked read of local 0 before the write, got %T", data.Code.Code[0])
	}
	if _, ok := leak.Value.(Local); !ok {
		t.Fatalf("expected leaked value to be the Local read, got %#v", leak.Value)
	}
	if _, ok := data.Code.Code[1].(SetLocal); !ok {
		t.Fatalf("expected SetLocal, got %T", data.Code.Code[1])
	}
}

func TestFactoryIfElseBuildsBothArms(t *testing.T) {
	f := NewFactory(fixedTypeInfo{})
	ops := []operator.Op{
		{Code: operator.I32Const, I32Value: 1},
		{Code: operator.If, BlockType: 1},
		{Code: operator.I32Const, I32Value: 10},
		{Code: operator.Drop},
		{Code: operator.Else},
		{Code: operator.I32Const, I32Value: 20},
		{Code: operator.Drop},
		{Code: operator.End},
	}
	data := f.CreateAnonymous(ops)

	if len(data.Code.Code) != 1 {
		t.Fatalf("expected a single If statement, got %d", len(data.Code.Code))
	}
	ifStmt, ok := data.Code.Code[0].(*If)
	if !ok {
		t.Fatalf("expected *If, got %T", data.Code.Code[0])
	}
	if ifStmt.OnTrue == nil || ifStmt.OnFalse == nil {
		t.Fatalf("expected both arms to be populated")
	}
}

func TestFactoryBrTableTargetsEveryLabel(t *testing.T) {
	f := NewFactory(fixedTypeInfo{numResult: 0})
	ops := []operator.Op{
		{Code: operator.Block, BlockType: operator.BlockTypeEmpty},
		{Code: operator.Block, BlockType: operator.BlockTypeEmpty},
		{Code: operator.Block, BlockType: operator.BlockTypeEmpty},
		{Code: operator.I32Const, I32Value: 0},
		{Code: operator.BrTable, Targets: []uint32{0, 1}, Default: 2},
		{Code: operator.End},
		{Code: operator.End},
		{Code: operator.End},
	}
	data := f.CreateAnonymous(ops)

	inner := data.Code.Code[0].(*Block).Code[0].(*Block).Code[0].(*Block)
	table, ok := inner.Last.(BrTable)
	if !ok {
		t.Fatalf("expected BrTable terminator, got %#v", inner.Last)
	}
	if len(table.Data) != 2 {
		t.Fatalf("expected 2 explicit targets, got %d", len(table.Data))
	}
}

func TestReadGetDetectsLocalRead(t *testing.T) {
	e := BinOp{OpType: I32Add, Lhs: Local{Var: 3}, Rhs: ValueExpr{Value: I32Value(1)}}
	if !readGet(e, func(v uint32) bool { return v == 3 }, func(uint32) bool { return false }, func(uint32) bool { return false }) {
		t.Fatalf("expected readGet to find the read of local 3")
	}
	if readGet(e, func(v uint32) bool { return v == 4 }, func(uint32) bool { return false }, func(uint32) bool { return false }) {
		t.Fatalf("did not expect readGet to match local 4")
	}
}

func TestStackSplitLastSharesCounter(t *testing.T) {
	s := NewStack()
	s.pushTemporary()
	child := s.splitLast(0, 1)
	if child.counter != s.counter {
		t.Fatalf("expected child stack to share the parent's temporary counter")
	}
	if child.previous != 1 {
		t.Fatalf("expected previous to be 1, got %d", child.previous)
	}
}
