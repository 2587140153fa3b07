// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

// ValueType is the WebAssembly value type of a local or a function result,
// used to pick a zero value in the backend's preamble and, for results, to
// decide which returned values the typed entry point narrows.
type ValueType int8

const (
	TypeI32 ValueType = iota
	TypeI64
	TypeF32
	TypeF64
)

// Expression is implemented by every AST node that produces a value.
// Go has no sum types; a marker interface dispatched by type switch in the
// backend is the idiomatic stand-in (see DESIGN.md).
type Expression interface{ isExpression() }

// Statement is implemented by every AST node with a side effect but no
// value of its own.
type Statement interface{ isStatement() }

// Terminator is implemented by the three ways a Block's StatList can end:
// trapping, branching, or branch-table dispatch.
type Terminator interface{ isTerminator() }

// --- Expressions -----------------------------------------------------

type ValueExpr struct{ Value Value }

func (ValueExpr) isExpression() {}

// Local reads a function-scoped local slot.
type Local struct{ Var uint32 }

func (Local) isExpression() {}

// Temporary reads a previously leaked stack slot.
type Temporary struct{ ID uint32 }

func (Temporary) isExpression() {}

type GetGlobal struct{ Var uint32 }

func (GetGlobal) isExpression() {}

// LoadType encodes the width and sign-extension of a memory load.
type LoadType int

const (
	LoadI32 LoadType = iota
	LoadI64
	LoadF32
	LoadF64
	LoadI32_I8
	LoadI32_U8
	LoadI32_I16
	LoadI32_U16
	LoadI64_I8
	LoadI64_U8
	LoadI64_I16
	LoadI64_U16
	LoadI64_I32
	LoadI64_U32
)

type LoadAt struct {
	LoadType LoadType
	Memory   uint32
	Offset   uint32
	Pointer  Expression
}

func (LoadAt) isExpression() {}

type UnOpType int

const (
	I32Clz UnOpType = iota
	I32Ctz
	I32Popcnt
	I64Clz
	I64Ctz
	I64Popcnt
	F32Abs
	F32Neg
	F32Ceil
	F32Floor
	F32Trunc
	F32Nearest
	F32Sqrt
	F64Abs
	F64Neg
	F64Ceil
	F64Floor
	F64Trunc
	F64Nearest
	F64Sqrt
	I32WrapI64
	I32TruncF32S
	I32TruncF32U
	I32TruncF64S
	I32TruncF64U
	I64ExtendI32S
	I64ExtendI32U
	I64TruncF32S
	I64TruncF32U
	I64TruncF64S
	I64TruncF64U
	F32ConvertI32S
	F32ConvertI32U
	F32ConvertI64S
	F32ConvertI64U
	F32DemoteF64
	F64ConvertI32S
	F64ConvertI32U
	F64ConvertI64S
	F64ConvertI64U
	F64PromoteF32
	I32ReinterpretF32
	I64ReinterpretF64
	F32ReinterpretI32
	F64ReinterpretI64
)

type UnOp struct {
	OpType UnOpType
	Rhs    Expression
}

func (UnOp) isExpression() {}

type BinOpType int

const (
	I32Add BinOpType = iota
	I32Sub
	I32Mul
	I32DivS
	I32DivU
	I32RemS
	I32RemU
	I32And
	I32Or
	I32Xor
	I32Shl
	I32ShrS
	I32ShrU
	I32Rotl
	I32Rotr
	I64Add
	I64Sub
	I64Mul
	I64DivS
	I64DivU
	I64RemS
	I64RemU
	I64And
	I64Or
	I64Xor
	I64Shl
	I64ShrS
	I64ShrU
	I64Rotl
	I64Rotr
	F32Add
	F32Sub
	F32Mul
	F32Div
	F32Min
	F32Max
	F32Copysign
	F64Add
	F64Sub
	F64Mul
	F64Div
	F64Min
	F64Max
	F64Copysign
)

type BinOp struct {
	OpType   BinOpType
	Lhs, Rhs Expression
}

func (BinOp) isExpression() {}

type CmpOpType int

const (
	Eq_I32 CmpOpType = iota
	Ne_I32
	LtS_I32
	LtU_I32
	GtS_I32
	GtU_I32
	LeS_I32
	LeU_I32
	GeS_I32
	GeU_I32
	Eq_I64
	Ne_I64
	LtS_I64
	LtU_I64
	GtS_I64
	GtU_I64
	LeS_I64
	LeU_I64
	GeS_I64
	GeU_I64
	Eq_F32
	Ne_F32
	Lt_F32
	Gt_F32
	Le_F32
	Ge_F32
	Eq_F64
	Ne_F64
	Lt_F64
	Gt_F64
	Le_F64
	Ge_F64
)

type CmpOp struct {
	OpType   CmpOpType
	Lhs, Rhs Expression
}

func (CmpOp) isExpression() {}

type Select struct {
	Condition         Expression
	OnTrue, OnFalse   Expression
}

func (Select) isExpression() {}

type MemorySize struct{ Memory uint32 }

func (MemorySize) isExpression() {}

// --- Statements --------------------------------------------------------

type SetLocal struct {
	Var   uint32
	Value Expression
}

func (SetLocal) isStatement() {}

type SetGlobal struct {
	Var   uint32
	Value Expression
}

func (SetGlobal) isStatement() {}

// SetTemporary materializes a pending expression into a named temporary —
// the statement form of a spill/leak.
type SetTemporary struct {
	ID    uint32
	Value Expression
}

func (SetTemporary) isStatement() {}

type StoreType int

const (
	StoreI32 StoreType = iota
	StoreI64
	StoreF32
	StoreF64
	StoreI32_N8
	StoreI32_N16
	StoreI64_N8
	StoreI64_N16
	StoreI64_N32
)

type StoreAt struct {
	StoreType StoreType
	Memory    uint32
	Offset    uint32
	Pointer   Expression
	Value     Expression
}

func (StoreAt) isStatement() {}

// ResultList is a contiguous range of temporary slots a Call/CallIndirect
// writes its results into.
type ResultList struct {
	Start uint32
	Len   uint32
}

func (r ResultList) IsEmpty() bool { return r.Len == 0 }

type Call struct {
	Function   uint32
	ParamList  []Expression
	ResultList ResultList
}

func (Call) isStatement() {}

type CallIndirect struct {
	Table      uint32
	Index      Expression
	ParamList  []Expression
	ResultList ResultList
}

func (CallIndirect) isStatement() {}

type MemoryGrow struct {
	Memory uint32
	Result uint32
	Size   Expression
}

func (MemoryGrow) isStatement() {}

// MemoryArgument is a (memory, pointer) pair used by MemoryCopy/MemoryFill.
type MemoryArgument struct {
	Memory  uint32
	Pointer Expression
}

type MemoryCopy struct {
	Destination MemoryArgument
	Source      MemoryArgument
	Size        Expression
}

func (MemoryCopy) isStatement() {}

type MemoryFill struct {
	Destination MemoryArgument
	Size        Expression
	Value       Expression
}

func (MemoryFill) isStatement() {}

// Block, If and BrIf are statements themselves (they contain further
// statements/terminators); see below.

// LabelType says whether a Block can be targeted at all, and if so whether
// the target is a loop header (continue) or a block end (break).
type LabelType int

const (
	LabelNone LabelType = iota
	LabelForward
	LabelBackward
)

type Block struct {
	HasLabel  bool
	LabelType LabelType
	Code      []Statement
	Last      Terminator // nil if the block falls through
}

func (*Block) isStatement() {}

type If struct {
	Condition        Expression
	OnTrue, OnFalse *Block // OnFalse nil when there is no else arm
}

func (*If) isStatement() {}

type BrIf struct {
	Condition Expression
	Target    Br
}

func (BrIf) isStatement() {}

// --- Terminators ---------------------------------------------------------

// Range is an inclusive-exclusive slot range, [Start, Start+Len).
type Range struct {
	Start uint32
	Len   uint32
}

// Align describes the value-transfer a Br performs between the slots the
// source block leaves on its stack and the slots the target block expects
// as its result. Trivial (no emit) when the two ranges coincide.
type Align struct {
	Old, New Range
}

func (a Align) IsTrivial() bool {
	return a.Old == a.New
}

type Br struct {
	Target uint32 // label depth
	Align  Align
}

func (Br) isTerminator() {}

type BrTable struct {
	Condition Expression
	Data      []Br
	Default   Br
}

func (BrTable) isTerminator() {}

type Unreachable struct{}

func (Unreachable) isTerminator() {}

// FuncData is the fully lifted AST for one function body.
type FuncData struct {
	LocalData []ValueType
	NumResult int
	NumParam  int
	NumStack  uint32
	Code      *Block

	// ResultType holds the value type of each of the function's NumResult
	// results, when known — the lifter itself only ever asks its TypeInfo
	// for arities, so this is left empty by CreateAnonymous/CreateIndexed
	// and filled in afterward by a caller that actually has the module's
	// signature (e.g. translator.WriteModule), for callers that need to
	// know a result's type rather than just its count (the typed entry
	// point's i32-only narrowing, see backend.WriteFunction's Coerce).
	ResultType []ValueType
}
