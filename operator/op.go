// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package operator describes the decoded WebAssembly operator stream that
// the rest of this module consumes. It is intentionally thin: decoding the
// binary encoding of a .wasm module is an external concern (see wasmfile),
// this package only fixes the shape of the stream once decoded.
package operator

// Code identifies a single WebAssembly instruction. It mirrors the opcode
// space of the WebAssembly MVP plus the bulk-memory instructions this
// module's AST understands (MemoryCopy/MemoryFill); it omits table and
// reference-type instructions the core AST has no node for.
type Code uint16

const (
	Unreachable Code = iota
	Nop
	Block
	Loop
	If
	Else
	End
	Br
	BrIf
	BrTable
	Return
	Call
	CallIndirect
	Drop
	Select

	LocalGet
	LocalSet
	LocalTee
	GlobalGet
	GlobalSet

	I32Load
	I64Load
	F32Load
	F64Load
	I32Load8S
	I32Load8U
	I32Load16S
	I32Load16U
	I64Load8S
	I64Load8U
	I64Load16S
	I64Load16U
	I64Load32S
	I64Load32U
	I32Store
	I64Store
	F32Store
	F64Store
	I32Store8
	I32Store16
	I64Store8
	I64Store16
	I64Store32
	MemorySize
	MemoryGrow
	MemoryCopy
	MemoryFill

	I32Const
	I64Const
	F32Const
	F64Const

	// i32 numeric
	I32Eqz
	I32Eq
	I32Ne
	I32LtS
	I32LtU
	I32GtS
	I32GtU
	I32LeS
	I32LeU
	I32GeS
	I32GeU
	I32Clz
	I32Ctz
	I32Popcnt
	I32Add
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

	// i64 numeric
	I64Eqz
	I64Eq
	I64Ne
	I64LtS
	I64LtU
	I64GtS
	I64GtU
	I64LeS
	I64LeU
	I64GeS
	I64GeU
	I64Clz
	I64Ctz
	I64Popcnt
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

	// f32 numeric
	F32Eq
	F32Ne
	F32Lt
	F32Gt
	F32Le
	F32Ge
	F32Abs
	F32Neg
	F32Ceil
	F32Floor
	F32Trunc
	F32Nearest
	F32Sqrt
	F32Add
	F32Sub
	F32Mul
	F32Div
	F32Min
	F32Max
	F32Copysign

	// f64 numeric
	F64Eq
	F64Ne
	F64Lt
	F64Gt
	F64Le
	F64Ge
	F64Abs
	F64Neg
	F64Ceil
	F64Floor
	F64Trunc
	F64Nearest
	F64Sqrt
	F64Add
	F64Sub
	F64Mul
	F64Div
	F64Min
	F64Max
	F64Copysign

	// conversions
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

// BlockType is the signature of a structured block: either the empty type
// (no params, no results), a single value type, or an index into the
// module's type section. Mirrors wasm.BlockType in the teacher.
type BlockType int64

const BlockTypeEmpty BlockType = -0x40

// MemArg carries the static memory index and offset immediate shared by
// every load/store instruction.
type MemArg struct {
	Memory uint32
	Offset uint32
}

// Op is a single decoded instruction: a Code tag plus whichever immediate
// fields that Code uses. Unused fields are left at their zero value — Go
// has no tagged unions, and none of this pack's dependencies supply one, so
// a flat struct dispatched on Code is the idiomatic rendition (see
// DESIGN.md).
type Op struct {
	Code Code

	// Block / Loop / If
	BlockType BlockType

	// Br / BrIf
	RelativeDepth uint32

	// BrTable
	Targets []uint32
	Default uint32

	// Call
	FuncIndex uint32

	// CallIndirect
	TypeIndex  uint32
	TableIndex uint32

	// Local*/Global*
	VarIndex uint32

	// Loads/stores
	MemArg MemArg

	// MemorySize/MemoryGrow
	Mem uint32

	// MemoryCopy
	DstMem uint32
	SrcMem uint32

	// MemoryFill uses Mem above.

	// Consts
	I32Value int32
	I64Value int64
	// F32Bits/F64Bits carry the raw IEEE-754 bit pattern, per spec.md's
	// "floats carried as raw bit patterns" invariant.
	F32Bits uint32
	F64Bits uint64
}
