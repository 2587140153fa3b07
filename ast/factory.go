// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import (
	"fmt"

	"github.com/go-interpreter/wasm2lua/operator"
)

// blockKind distinguishes the four ways a structured block can be opened;
// it is the Go rendition of the original's BlockData enum (spec.md §4.5).
type blockKind int

const (
	blockForward blockKind = iota
	blockBackward
	blockIf
	blockElse
)

type blockData struct {
	kind      blockKind
	numResult int                // Forward / If / Else
	numParam  int                // Backward
	blockType operator.BlockType // If, remembered for the matching Else
}

func (d blockData) labelType() LabelType {
	if d.kind == blockBackward {
		return LabelBackward
	}
	return LabelForward
}

func (d blockData) result() int {
	if d.kind == blockBackward {
		return d.numParam
	}
	return d.numResult
}

// statList is one pending block context: the Go rendition of the
// original's StatList. Pending contexts are kept as an explicit LIFO
// (Factory.pending), not recursion on the Go call stack, so that spilling
// — which peers inside the "current" context — stays simple (spec.md §9).
type statList struct {
	stack *Stack
	code  []Statement
	last  Terminator

	blockData    blockData
	hasReference bool
}

func newStatList() *statList {
	return &statList{stack: NewStack()}
}

func (s *statList) leakAll() {
	s.stack.leakInto(&s.code, func(Expression) bool { return true })
}

func (s *statList) leakPreCall() {
	s.stack.leakInto(&s.code, func(e Expression) bool {
		return readGet(e,
			func(uint32) bool { return false },
			func(uint32) bool { return true },
			func(uint32) bool { return true },
		)
	})
}

func (s *statList) leakLocalWrite(id uint32) {
	s.stack.leakInto(&s.code, func(e Expression) bool {
		return readGet(e,
			func(v uint32) bool { return v == id },
			func(uint32) bool { return false },
			func(uint32) bool { return false },
		)
	})
}

func (s *statList) leakGlobalWrite(id uint32) {
	s.stack.leakInto(&s.code, func(e Expression) bool {
		return readGet(e,
			func(uint32) bool { return false },
			func(v uint32) bool { return v == id },
			func(uint32) bool { return false },
		)
	})
}

func (s *statList) leakMemoryWrite(id uint32) {
	s.stack.leakInto(&s.code, func(e Expression) bool {
		return readGet(e,
			func(uint32) bool { return false },
			func(uint32) bool { return false },
			func(v uint32) bool { return v == id },
		)
	})
}

func (s *statList) pushLoad(loadType LoadType, memory, offset uint32) {
	data := LoadAt{
		LoadType: loadType,
		Memory:   memory,
		Offset:   offset,
		Pointer:  s.stack.pop(),
	}
	s.stack.push(data)
}

func (s *statList) addStore(storeType StoreType, memory, offset uint32) {
	value := s.stack.pop()
	pointer := s.stack.pop()

	s.leakMemoryWrite(memory)
	s.code = append(s.code, StoreAt{
		StoreType: storeType,
		Memory:    memory,
		Offset:    offset,
		Pointer:   pointer,
		Value:     value,
	})
}

func (s *statList) pushConstant(v Value) {
	s.stack.push(ValueExpr{Value: v})
}

func (s *statList) pushUnOp(opType UnOpType) {
	s.stack.push(UnOp{OpType: opType, Rhs: s.stack.pop()})
}

func (s *statList) pushBinOp(opType BinOpType) {
	rhs := s.stack.pop()
	lhs := s.stack.pop()
	s.stack.push(BinOp{OpType: opType, Lhs: lhs, Rhs: rhs})
}

func (s *statList) pushCmpOp(opType CmpOpType) {
	rhs := s.stack.pop()
	lhs := s.stack.pop()
	s.stack.push(CmpOp{OpType: opType, Lhs: lhs, Rhs: rhs})
}

// tryAddEqualZero rewrites i32.eqz/i64.eqz into a comparison against a
// synthesized zero constant — eqz is the only unary comparison WebAssembly
// has, so it is "emulated" this way (spec.md §3).
func (s *statList) tryAddEqualZero(op operator.Op) bool {
	switch op.Code {
	case operator.I32Eqz:
		s.pushConstant(I32Value(0))
		s.pushCmpOp(Eq_I32)
		return true
	case operator.I64Eqz:
		s.pushConstant(I64Value(0))
		s.pushCmpOp(Eq_I64)
		return true
	default:
		return false
	}
}

func (s *statList) tryAddOperation(op operator.Op) bool {
	if opType, ok := classifyUnOp(op.Code); ok {
		s.pushUnOp(opType)
		return true
	}
	if opType, ok := classifyBinOp(op.Code); ok {
		s.pushBinOp(opType)
		return true
	}
	if opType, ok := classifyCmpOp(op.Code); ok {
		s.pushCmpOp(opType)
		return true
	}
	return s.tryAddEqualZero(op)
}

func (s *statList) setTerminator(term Terminator) {
	s.leakAll()
	s.last = term
}

func (s *statList) toBlock() *Block {
	labelType := LabelNone
	if s.hasReference {
		labelType = s.blockData.labelType()
	}
	return &Block{
		HasLabel:  s.hasReference,
		LabelType: labelType,
		Code:      s.code,
		Last:      s.last,
	}
}

// Factory is the stack-to-tree lifter: it consumes a flat operator stream
// plus a type oracle and produces a FuncData AST, spilling pending stack
// values into named temporaries whenever an ordering hazard is detected.
type Factory struct {
	typeInfo operator.TypeInfo

	pending []*statList
	target  *statList

	nestedUnreachable int
}

func NewFactory(typeInfo operator.TypeInfo) *Factory {
	return &Factory{typeInfo: typeInfo, target: newStatList()}
}

// CreateAnonymous lifts a bare operator sequence producing exactly one
// result, with no parameters and no locals — used by FromInstList.
func (f *Factory) CreateAnonymous(ops []operator.Op) *FuncData {
	data := f.buildStatList(ops, 1)

	return &FuncData{
		NumResult: 1,
		NumParam:  0,
		NumStack:  *data.stack.counter,
		Code:      data.toBlock(),
	}
}

// CreateIndexed lifts one function body of a module. ops and localData are
// already decoded by the external front-end (wasmfile in this module);
// index identifies the function for the type oracle.
func (f *Factory) CreateIndexed(index uint32, localData []ValueType, ops []operator.Op) *FuncData {
	numParam, numResult := f.typeInfo.ByFuncIndex(index)
	data := f.buildStatList(ops, numResult)

	return &FuncData{
		LocalData: localData,
		NumResult: numResult,
		NumParam:  numParam,
		NumStack:  *data.stack.counter,
		Code:      data.toBlock(),
	}
}

func (f *Factory) startBlock(ty operator.BlockType, kind blockKind) {
	numParam, numResult := f.typeInfo.ByBlockType(ty)

	old := f.target
	old.leakAll()

	switch kind {
	case blockForward:
		f.target = &statList{blockData: blockData{kind: blockForward, numResult: numResult}}
	case blockBackward:
		f.target = &statList{blockData: blockData{kind: blockBackward, numParam: numParam}}
	case blockIf:
		f.target = &statList{blockData: blockData{kind: blockIf, numResult: numResult, blockType: ty}}
	case blockElse:
		old.stack.pushTemporaries(numParam)
		f.target = &statList{blockData: blockData{kind: blockElse, numResult: numResult}}
	}

	f.target.stack = old.stack.splitLast(numParam, numResult)

	old.stack.pushTemporaries(numResult)

	f.pending = append(f.pending, old)
}

func (f *Factory) startElse() {
	if f.target.blockData.kind != blockIf {
		panic("ast: else without matching if")
	}
	ty := f.target.blockData.blockType

	f.target.leakAll()
	f.endBlock()
	f.startBlock(ty, blockElse)
}

func (f *Factory) endBlock() {
	n := len(f.pending) - 1
	old := f.pending[n]
	f.pending = f.pending[:n]

	now := f.target
	f.target = old

	switch now.blockData.kind {
	case blockForward, blockBackward:
		f.target.code = append(f.target.code, now.toBlock())
	case blockIf:
		f.target.code = append(f.target.code, &If{
			Condition: f.target.stack.pop(),
			OnTrue:    now.toBlock(),
		})
	case blockElse:
		last, ok := f.target.code[len(f.target.code)-1].(*If)
		if !ok {
			panic("ast: else closed without a preceding if")
		}
		last.OnFalse = now.toBlock()
	}
}

func (f *Factory) getRelativeBlock(index uint32) *statList {
	if index == 0 {
		return f.target
	}
	return f.pending[len(f.pending)-int(index)]
}

func (f *Factory) getBrTerminator(target uint32) Br {
	block := f.getRelativeBlock(target)
	previous := block.stack.previous
	result := block.blockData.result()

	block.hasReference = true

	align := f.target.stack.getBrAlignment(previous, result)

	return Br{Target: target, Align: align}
}

func (f *Factory) addCall(function uint32) {
	numParam, numResult := f.typeInfo.ByFuncIndex(function)
	paramList := f.target.stack.popLen(numParam)

	f.target.leakPreCall()

	resultList := f.target.stack.pushTemporaries(numResult)

	f.target.code = append(f.target.code, Call{
		Function:   function,
		ParamList:  paramList,
		ResultList: resultList,
	})
}

func (f *Factory) addCallIndirect(ty, table uint32) {
	numParam, numResult := f.typeInfo.ByTypeIndex(ty)
	index := f.target.stack.pop()
	paramList := f.target.stack.popLen(numParam)

	f.target.leakPreCall()

	resultList := f.target.stack.pushTemporaries(numResult)

	f.target.code = append(f.target.code, CallIndirect{
		Table:      table,
		Index:      index,
		ParamList:  paramList,
		ResultList: resultList,
	})
}

func (f *Factory) dropUnreachable(op operator.Op) {
	switch op.Code {
	case operator.Block, operator.Loop, operator.If:
		f.nestedUnreachable++
	case operator.Else:
		if f.nestedUnreachable == 1 {
			f.nestedUnreachable--
			f.startElse()
		}
	case operator.End:
		if f.nestedUnreachable == 1 {
			f.nestedUnreachable--
			f.endBlock()
		} else {
			f.nestedUnreachable--
		}
	}
}

func (f *Factory) addInstruction(op operator.Op) {
	if f.target.tryAddOperation(op) {
		return
	}

	switch op.Code {
	case operator.Unreachable:
		f.nestedUnreachable++
		f.target.setTerminator(Unreachable{})
	case operator.Nop:
		// no-op
	case operator.Block:
		f.startBlock(op.BlockType, blockForward)
	case operator.Loop:
		f.startBlock(op.BlockType, blockBackward)
	case operator.If:
		cond := f.target.stack.pop()
		f.startBlock(op.BlockType, blockIf)
		f.pending[len(f.pending)-1].stack.push(cond)
	case operator.Else:
		f.startElse()
	case operator.End:
		f.target.leakAll()
		f.endBlock()
	case operator.Br:
		f.target.leakAll()
		term := f.getBrTerminator(op.RelativeDepth)
		f.target.setTerminator(term)
		f.nestedUnreachable++
	case operator.BrIf:
		cond := f.target.stack.pop()
		f.target.leakAll()
		target := f.getBrTerminator(op.RelativeDepth)
		f.target.code = append(f.target.code, BrIf{Condition: cond, Target: target})
	case operator.BrTable:
		condition := f.target.stack.pop()
		f.target.leakAll()
		data := make([]Br, len(op.Targets))
		for i, t := range op.Targets {
			data[i] = f.getBrTerminator(t)
		}
		def := f.getBrTerminator(op.Default)

		f.target.setTerminator(BrTable{Condition: condition, Data: data, Default: def})
		f.nestedUnreachable++
	case operator.Return:
		target := uint32(len(f.pending))
		f.target.leakAll()
		term := f.getBrTerminator(target)
		f.target.setTerminator(term)
		f.nestedUnreachable++
	case operator.Call:
		f.addCall(op.FuncIndex)
	case operator.CallIndirect:
		f.addCallIndirect(op.TypeIndex, op.TableIndex)
	case operator.Drop:
		f.target.stack.pop()
	case operator.Select:
		cond := f.target.stack.pop()
		onFalse := f.target.stack.pop()
		onTrue := f.target.stack.pop()
		f.target.stack.push(Select{Condition: cond, OnTrue: onTrue, OnFalse: onFalse})
	case operator.LocalGet:
		f.target.stack.push(Local{Var: op.VarIndex})
	case operator.LocalSet:
		value := f.target.stack.pop()
		f.target.leakLocalWrite(op.VarIndex)
		f.target.code = append(f.target.code, SetLocal{Var: op.VarIndex, Value: value})
	case operator.LocalTee:
		value := f.target.stack.pop()
		f.target.leakLocalWrite(op.VarIndex)
		f.target.code = append(f.target.code, SetLocal{Var: op.VarIndex, Value: value})
		f.target.stack.push(Local{Var: op.VarIndex})
	case operator.GlobalGet:
		f.target.stack.push(GetGlobal{Var: op.VarIndex})
	case operator.GlobalSet:
		value := f.target.stack.pop()
		f.target.leakGlobalWrite(op.VarIndex)
		f.target.code = append(f.target.code, SetGlobal{Var: op.VarIndex, Value: value})
	case operator.I32Load, operator.I64Load, operator.F32Load, operator.F64Load,
		operator.I32Load8S, operator.I32Load8U, operator.I32Load16S, operator.I32Load16U,
		operator.I64Load8S, operator.I64Load8U, operator.I64Load16S, operator.I64Load16U,
		operator.I64Load32S, operator.I64Load32U:
		loadType, _ := classifyLoad(op.Code)
		f.target.pushLoad(loadType, op.MemArg.Memory, op.MemArg.Offset)
	case operator.I32Store, operator.I64Store, operator.F32Store, operator.F64Store,
		operator.I32Store8, operator.I32Store16,
		operator.I64Store8, operator.I64Store16, operator.I64Store32:
		storeType, _ := classifyStore(op.Code)
		f.target.addStore(storeType, op.MemArg.Memory, op.MemArg.Offset)
	case operator.MemorySize:
		f.target.stack.push(MemorySize{Memory: op.Mem})
	case operator.MemoryGrow:
		size := f.target.stack.pop()
		result := f.target.stack.pushTemporary()

		f.target.leakMemoryWrite(op.Mem)
		f.target.code = append(f.target.code, MemoryGrow{Memory: op.Mem, Result: result, Size: size})
	case operator.MemoryCopy:
		size := f.target.stack.pop()
		source := MemoryArgument{Memory: op.SrcMem, Pointer: f.target.stack.pop()}
		destination := MemoryArgument{Memory: op.DstMem, Pointer: f.target.stack.pop()}

		f.target.leakMemoryWrite(source.Memory)
		f.target.leakMemoryWrite(destination.Memory)

		f.target.code = append(f.target.code, MemoryCopy{Destination: destination, Source: source, Size: size})
	case operator.MemoryFill:
		size := f.target.stack.pop()
		value := f.target.stack.pop()
		destination := MemoryArgument{Memory: op.Mem, Pointer: f.target.stack.pop()}

		f.target.leakMemoryWrite(destination.Memory)

		f.target.code = append(f.target.code, MemoryFill{Destination: destination, Size: size, Value: value})
	case operator.I32Const:
		f.target.pushConstant(I32Value(op.I32Value))
	case operator.I64Const:
		f.target.pushConstant(I64Value(op.I64Value))
	case operator.F32Const:
		f.target.pushConstant(F32Value(op.F32Bits))
	case operator.F64Const:
		f.target.pushConstant(F64Value(op.F64Bits))
	default:
		panic(fmt.Sprintf("ast: unsupported instruction: %v", op.Code))
	}
}

func (f *Factory) buildStatList(ops []operator.Op, numResult int) *statList {
	f.target = &statList{stack: NewStack(), blockData: blockData{kind: blockForward, numResult: numResult}}
	f.pending = f.pending[:0]
	f.nestedUnreachable = 0

	for _, op := range ops {
		if f.nestedUnreachable == 0 {
			f.addInstruction(op)
		} else {
			f.dropUnreachable(op)
		}
	}

	if f.nestedUnreachable == 0 {
		f.target.leakAll()
	}

	return f.target
}
