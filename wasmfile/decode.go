// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasmfile

import (
	"bytes"
	"fmt"

	"github.com/go-interpreter/wasm2lua/operator"
)

// opcode is the raw one-byte WebAssembly instruction tag, before this
// file's DecodeOperators turns it into an operator.Op. Separate from
// operator.Code, which is this module's own internal enumeration (see
// operator/op.go) — this file's whole job is translating one into the
// other.
type opcode byte

const (
	opUnreachable  opcode = 0x00
	opNop          opcode = 0x01
	opBlock        opcode = 0x02
	opLoop         opcode = 0x03
	opIf           opcode = 0x04
	opElse         opcode = 0x05
	opEnd          opcode = 0x0B
	opBr           opcode = 0x0C
	opBrIf         opcode = 0x0D
	opBrTable      opcode = 0x0E
	opReturn       opcode = 0x0F
	opCall         opcode = 0x10
	opCallIndirect opcode = 0x11
	opDrop         opcode = 0x1A
	opSelect       opcode = 0x1B

	opLocalGet  opcode = 0x20
	opLocalSet  opcode = 0x21
	opLocalTee  opcode = 0x22
	opGlobalGet opcode = 0x23
	opGlobalSet opcode = 0x24

	opI32Load    opcode = 0x28
	opI64Load    opcode = 0x29
	opF32Load    opcode = 0x2A
	opF64Load    opcode = 0x2B
	opI32Load8S  opcode = 0x2C
	opI32Load8U  opcode = 0x2D
	opI32Load16S opcode = 0x2E
	opI32Load16U opcode = 0x2F
	opI64Load8S  opcode = 0x30
	opI64Load8U  opcode = 0x31
	opI64Load16S opcode = 0x32
	opI64Load16U opcode = 0x33
	opI64Load32S opcode = 0x34
	opI64Load32U opcode = 0x35
	opI32Store   opcode = 0x36
	opI64Store   opcode = 0x37
	opF32Store   opcode = 0x38
	opF64Store   opcode = 0x39
	opI32Store8  opcode = 0x3A
	opI32Store16 opcode = 0x3B
	opI64Store8  opcode = 0x3C
	opI64Store16 opcode = 0x3D
	opI64Store32 opcode = 0x3E
	opMemorySize opcode = 0x3F
	opMemoryGrow opcode = 0x40

	opI32Const opcode = 0x41
	opI64Const opcode = 0x42
	opF32Const opcode = 0x43
	opF64Const opcode = 0x44

	opFC opcode = 0xFC // bulk-memory prefix byte: memory.copy/memory.fill
)

const (
	bulkMemoryCopy byte = 0x0A
	bulkMemoryFill byte = 0x0B
)

// numericOpcodes maps every comparison/arithmetic/conversion byte opcode
// (0x45..0xBF) to its operator.Code. Built once, not a switch, since it is
// a straight 1:1 table with no immediates to decode.
var numericOpcodes = map[byte]operator.Code{
	0x45: operator.I32Eqz,
	0x46: operator.I32Eq, 0x47: operator.I32Ne,
	0x48: operator.I32LtS, 0x49: operator.I32LtU,
	0x4A: operator.I32GtS, 0x4B: operator.I32GtU,
	0x4C: operator.I32LeS, 0x4D: operator.I32LeU,
	0x4E: operator.I32GeS, 0x4F: operator.I32GeU,
	0x50: operator.I64Eqz,
	0x51: operator.I64Eq, 0x52: operator.I64Ne,
	0x53: operator.I64LtS, 0x54: operator.I64LtU,
	0x55: operator.I64GtS, 0x56: operator.I64GtU,
	0x57: operator.I64LeS, 0x58: operator.I64LeU,
	0x59: operator.I64GeS, 0x5A: operator.I64GeU,
	0x5B: operator.F32Eq, 0x5C: operator.F32Ne,
	0x5D: operator.F32Lt, 0x5E: operator.F32Gt,
	0x5F: operator.F32Le, 0x60: operator.F32Ge,
	0x61: operator.F64Eq, 0x62: operator.F64Ne,
	0x63: operator.F64Lt, 0x64: operator.F64Gt,
	0x65: operator.F64Le, 0x66: operator.F64Ge,
	0x67: operator.I32Clz, 0x68: operator.I32Ctz, 0x69: operator.I32Popcnt,
	0x6A: operator.I32Add, 0x6B: operator.I32Sub, 0x6C: operator.I32Mul,
	0x6D: operator.I32DivS, 0x6E: operator.I32DivU,
	0x6F: operator.I32RemS, 0x70: operator.I32RemU,
	0x71: operator.I32And, 0x72: operator.I32Or, 0x73: operator.I32Xor,
	0x74: operator.I32Shl, 0x75: operator.I32ShrS, 0x76: operator.I32ShrU,
	0x77: operator.I32Rotl, 0x78: operator.I32Rotr,
	0x79: operator.I64Clz, 0x7A: operator.I64Ctz, 0x7B: operator.I64Popcnt,
	0x7C: operator.I64Add, 0x7D: operator.I64Sub, 0x7E: operator.I64Mul,
	0x7F: operator.I64DivS, 0x80: operator.I64DivU,
	0x81: operator.I64RemS, 0x82: operator.I64RemU,
	0x83: operator.I64And, 0x84: operator.I64Or, 0x85: operator.I64Xor,
	0x86: operator.I64Shl, 0x87: operator.I64ShrS, 0x88: operator.I64ShrU,
	0x89: operator.I64Rotl, 0x8A: operator.I64Rotr,
	0x8B: operator.F32Abs, 0x8C: operator.F32Neg,
	0x8D: operator.F32Ceil, 0x8E: operator.F32Floor,
	0x8F: operator.F32Trunc, 0x90: operator.F32Nearest, 0x91: operator.F32Sqrt,
	0x92: operator.F32Add, 0x93: operator.F32Sub, 0x94: operator.F32Mul,
	0x95: operator.F32Div, 0x96: operator.F32Min, 0x97: operator.F32Max,
	0x98: operator.F32Copysign,
	0x99: operator.F64Abs, 0x9A: operator.F64Neg,
	0x9B: operator.F64Ceil, 0x9C: operator.F64Floor,
	0x9D: operator.F64Trunc, 0x9E: operator.F64Nearest, 0x9F: operator.F64Sqrt,
	0xA0: operator.F64Add, 0xA1: operator.F64Sub, 0xA2: operator.F64Mul,
	0xA3: operator.F64Div, 0xA4: operator.F64Min, 0xA5: operator.F64Max,
	0xA6: operator.F64Copysign,
	0xA7: operator.I32WrapI64,
	0xA8: operator.I32TruncF32S, 0xA9: operator.I32TruncF32U,
	0xAA: operator.I32TruncF64S, 0xAB: operator.I32TruncF64U,
	0xAC: operator.I64ExtendI32S, 0xAD: operator.I64ExtendI32U,
	0xAE: operator.I64TruncF32S, 0xAF: operator.I64TruncF32U,
	0xB0: operator.I64TruncF64S, 0xB1: operator.I64TruncF64U,
	0xB2: operator.F32ConvertI32S, 0xB3: operator.F32ConvertI32U,
	0xB4: operator.F32ConvertI64S, 0xB5: operator.F32ConvertI64U,
	0xB6: operator.F32DemoteF64,
	0xB7: operator.F64ConvertI32S, 0xB8: operator.F64ConvertI32U,
	0xB9: operator.F64ConvertI64S, 0xBA: operator.F64ConvertI64U,
	0xBB: operator.F64PromoteF32,
	0xBC: operator.I32ReinterpretF32, 0xBD: operator.I64ReinterpretF64,
	0xBE: operator.F32ReinterpretI32, 0xBF: operator.F64ReinterpretI64,
}

var loadOpcodes = map[opcode]operator.Code{
	opI32Load: operator.I32Load, opI64Load: operator.I64Load,
	opF32Load: operator.F32Load, opF64Load: operator.F64Load,
	opI32Load8S: operator.I32Load8S, opI32Load8U: operator.I32Load8U,
	opI32Load16S: operator.I32Load16S, opI32Load16U: operator.I32Load16U,
	opI64Load8S: operator.I64Load8S, opI64Load8U: operator.I64Load8U,
	opI64Load16S: operator.I64Load16S, opI64Load16U: operator.I64Load16U,
	opI64Load32S: operator.I64Load32S, opI64Load32U: operator.I64Load32U,
}

var storeOpcodes = map[opcode]operator.Code{
	opI32Store: operator.I32Store, opI64Store: operator.I64Store,
	opF32Store: operator.F32Store, opF64Store: operator.F64Store,
	opI32Store8: operator.I32Store8, opI32Store16: operator.I32Store16,
	opI64Store8: operator.I64Store8, opI64Store16: operator.I64Store16,
	opI64Store32: operator.I64Store32,
}

// DecodeOperators turns one function's raw instruction bytes (without its
// local declarations, and without the trailing 0x0b the code section
// already stripped) into the operator.Op stream ast.Factory consumes.
func DecodeOperators(code []byte) []operator.Op {
	r := bytes.NewReader(code)
	var ops []operator.Op

	for r.Len() > 0 {
		b, err := r.ReadByte()
		if err != nil {
			panic(fmt.Sprintf("wasmfile: %v", err))
		}

		if c, ok := numericOpcodes[b]; ok {
			ops = append(ops, operator.Op{Code: c})
			continue
		}
		if c, ok := loadOpcodes[opcode(b)]; ok {
			ops = append(ops, operator.Op{Code: c, MemArg: readMemArg(r)})
			continue
		}
		if c, ok := storeOpcodes[opcode(b)]; ok {
			ops = append(ops, operator.Op{Code: c, MemArg: readMemArg(r)})
			continue
		}

		switch opcode(b) {
		case opUnreachable:
			ops = append(ops, operator.Op{Code: operator.Unreachable})
		case opNop:
			ops = append(ops, operator.Op{Code: operator.Nop})
		case opBlock:
			ops = append(ops, operator.Op{Code: operator.Block, BlockType: readBlockType(r)})
		case opLoop:
			ops = append(ops, operator.Op{Code: operator.Loop, BlockType: readBlockType(r)})
		case opIf:
			ops = append(ops, operator.Op{Code: operator.If, BlockType: readBlockType(r)})
		case opElse:
			ops = append(ops, operator.Op{Code: operator.Else})
		case opEnd:
			ops = append(ops, operator.Op{Code: operator.End})
		case opBr:
			ops = append(ops, operator.Op{Code: operator.Br, RelativeDepth: mustVarUint32(r)})
		case opBrIf:
			ops = append(ops, operator.Op{Code: operator.BrIf, RelativeDepth: mustVarUint32(r)})
		case opBrTable:
			count := mustVarUint32(r)
			targets := make([]uint32, count)
			for i := range targets {
				targets[i] = mustVarUint32(r)
			}
			def := mustVarUint32(r)
			ops = append(ops, operator.Op{Code: operator.BrTable, Targets: targets, Default: def})
		case opReturn:
			ops = append(ops, operator.Op{Code: operator.Return})
		case opCall:
			ops = append(ops, operator.Op{Code: operator.Call, FuncIndex: mustVarUint32(r)})
		case opCallIndirect:
			typeIdx := mustVarUint32(r)
			table := mustVarUint32(r)
			ops = append(ops, operator.Op{Code: operator.CallIndirect, TypeIndex: typeIdx, TableIndex: table})
		case opDrop:
			ops = append(ops, operator.Op{Code: operator.Drop})
		case opSelect:
			ops = append(ops, operator.Op{Code: operator.Select})
		case opLocalGet:
			ops = append(ops, operator.Op{Code: operator.LocalGet, VarIndex: mustVarUint32(r)})
		case opLocalSet:
			ops = append(ops, operator.Op{Code: operator.LocalSet, VarIndex: mustVarUint32(r)})
		case opLocalTee:
			ops = append(ops, operator.Op{Code: operator.LocalTee, VarIndex: mustVarUint32(r)})
		case opGlobalGet:
			ops = append(ops, operator.Op{Code: operator.GlobalGet, VarIndex: mustVarUint32(r)})
		case opGlobalSet:
			ops = append(ops, operator.Op{Code: operator.GlobalSet, VarIndex: mustVarUint32(r)})
		case opMemorySize:
			ops = append(ops, operator.Op{Code: operator.MemorySize, Mem: mustVarUint32(r)})
		case opMemoryGrow:
			ops = append(ops, operator.Op{Code: operator.MemoryGrow, Mem: mustVarUint32(r)})
		case opI32Const:
			ops = append(ops, operator.Op{Code: operator.I32Const, I32Value: mustVarint32(r)})
		case opI64Const:
			ops = append(ops, operator.Op{Code: operator.I64Const, I64Value: mustVarint64(r)})
		case opF32Const:
			ops = append(ops, operator.Op{Code: operator.F32Const, F32Bits: mustF32Bits(r)})
		case opF64Const:
			ops = append(ops, operator.Op{Code: operator.F64Const, F64Bits: mustF64Bits(r)})
		case opFC:
			ops = append(ops, decodeBulkMemory(r))
		default:
			panic(fmt.Sprintf("wasmfile: unsupported opcode 0x%02x", b))
		}
	}

	return ops
}

func decodeBulkMemory(r *bytes.Reader) operator.Op {
	sub, err := r.ReadByte()
	if err != nil {
		panic(fmt.Sprintf("wasmfile: %v", err))
	}
	switch sub {
	case bulkMemoryCopy:
		dst := mustVarUint32(r)
		src := mustVarUint32(r)
		return operator.Op{Code: operator.MemoryCopy, DstMem: dst, SrcMem: src}
	case bulkMemoryFill:
		mem := mustVarUint32(r)
		return operator.Op{Code: operator.MemoryFill, Mem: mem}
	default:
		panic(fmt.Sprintf("wasmfile: unsupported 0xfc sub-opcode %d", sub))
	}
}

func readMemArg(r *bytes.Reader) operator.MemArg {
	if _, err := readVarUint32(r); err != nil { // alignment hint, unused downstream
		panic(fmt.Sprintf("wasmfile: %v", err))
	}
	offset := mustVarUint32(r)
	return operator.MemArg{Memory: 0, Offset: offset}
}

func readBlockType(r *bytes.Reader) operator.BlockType {
	v, err := readVarint64(r)
	if err != nil {
		panic(fmt.Sprintf("wasmfile: %v", err))
	}
	return operator.BlockType(v)
}

func mustVarUint32(r *bytes.Reader) uint32 {
	v, err := readVarUint32(r)
	if err != nil {
		panic(fmt.Sprintf("wasmfile: %v", err))
	}
	return v
}

func mustVarint32(r *bytes.Reader) int32 {
	v, err := readVarint32(r)
	if err != nil {
		panic(fmt.Sprintf("wasmfile: %v", err))
	}
	return v
}

func mustVarint64(r *bytes.Reader) int64 {
	v, err := readVarint64(r)
	if err != nil {
		panic(fmt.Sprintf("wasmfile: %v", err))
	}
	return v
}

func mustF32Bits(r *bytes.Reader) uint32 {
	v, err := readF32Bits(r)
	if err != nil {
		panic(fmt.Sprintf("wasmfile: %v", err))
	}
	return v
}

func mustF64Bits(r *bytes.Reader) uint64 {
	v, err := readF64Bits(r)
	if err != nil {
		panic(fmt.Sprintf("wasmfile: %v", err))
	}
	return v
}
