// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import "github.com/go-interpreter/wasm2lua/operator"

// classifyUnOp, classifyBinOp and classifyCmpOp are the Go rendition of the
// original's `UnOpType::try_from(op)` / `BinOpType::try_from(op)` /
// `CmpOpType::try_from(op)`: each asks whether a raw operator.Code is one
// of its kind and, if so, returns the corresponding ast enumerator.
//
// I32Eqz/I64Eqz are deliberately absent here — the factory rewrites them
// into a CmpOp against a synthesized zero constant (spec.md §3), since
// "equals zero" is the only unary comparison WebAssembly has.

func classifyUnOp(c operator.Code) (UnOpType, bool) {
	switch c {
	case operator.I32Clz:
		return I32Clz, true
	case operator.I32Ctz:
		return I32Ctz, true
	case operator.I32Popcnt:
		return I32Popcnt, true
	case operator.I64Clz:
		return I64Clz, true
	case operator.I64Ctz:
		return I64Ctz, true
	case operator.I64Popcnt:
		return I64Popcnt, true
	case operator.F32Abs:
		return F32Abs, true
	case operator.F32Neg:
		return F32Neg, true
	case operator.F32Ceil:
		return F32Ceil, true
	case operator.F32Floor:
		return F32Floor, true
	case operator.F32Trunc:
		return F32Trunc, true
	case operator.F32Nearest:
		return F32Nearest, true
	case operator.F32Sqrt:
		return F32Sqrt, true
	case operator.F64Abs:
		return F64Abs, true
	case operator.F64Neg:
		return F64Neg, true
	case operator.F64Ceil:
		return F64Ceil, true
	case operator.F64Floor:
		return F64Floor, true
	case operator.F64Trunc:
		return F64Trunc, true
	case operator.F64Nearest:
		return F64Nearest, true
	case operator.F64Sqrt:
		return F64Sqrt, true
	case operator.I32WrapI64:
		return I32WrapI64, true
	case operator.I32TruncF32S:
		return I32TruncF32S, true
	case operator.I32TruncF32U:
		return I32TruncF32U, true
	case operator.I32TruncF64S:
		return I32TruncF64S, true
	case operator.I32TruncF64U:
		return I32TruncF64U, true
	case operator.I64ExtendI32S:
		return I64ExtendI32S, true
	case operator.I64ExtendI32U:
		return I64ExtendI32U, true
	case operator.I64TruncF32S:
		return I64TruncF32S, true
	case operator.I64TruncF32U:
		return I64TruncF32U, true
	case operator.I64TruncF64S:
		return I64TruncF64S, true
	case operator.I64TruncF64U:
		return I64TruncF64U, true
	case operator.F32ConvertI32S:
		return F32ConvertI32S, true
	case operator.F32ConvertI32U:
		return F32ConvertI32U, true
	case operator.F32ConvertI64S:
		return F32ConvertI64S, true
	case operator.F32ConvertI64U:
		return F32ConvertI64U, true
	case operator.F32DemoteF64:
		return F32DemoteF64, true
	case operator.F64ConvertI32S:
		return F64ConvertI32S, true
	case operator.F64ConvertI32U:
		return F64ConvertI32U, true
	case operator.F64ConvertI64S:
		return F64ConvertI64S, true
	case operator.F64ConvertI64U:
		return F64ConvertI64U, true
	case operator.F64PromoteF32:
		return F64PromoteF32, true
	case operator.I32ReinterpretF32:
		return I32ReinterpretF32, true
	case operator.I64ReinterpretF64:
		return I64ReinterpretF64, true
	case operator.F32ReinterpretI32:
		return F32ReinterpretI32, true
	case operator.F64ReinterpretI64:
		return F64ReinterpretI64, true
	default:
		return 0, false
	}
}

func classifyBinOp(c operator.Code) (BinOpType, bool) {
	switch c {
	case operator.I32Add:
		return I32Add, true
	case operator.I32Sub:
		return I32Sub, true
	case operator.I32Mul:
		return I32Mul, true
	case operator.I32DivS:
		return I32DivS, true
	case operator.I32DivU:
		return I32DivU, true
	case operator.I32RemS:
		return I32RemS, true
	case operator.I32RemU:
		return I32RemU, true
	case operator.I32And:
		return I32And, true
	case operator.I32Or:
		return I32Or, true
	case operator.I32Xor:
		return I32Xor, true
	case operator.I32Shl:
		return I32Shl, true
	case operator.I32ShrS:
		return I32ShrS, true
	case operator.I32ShrU:
		return I32ShrU, true
	case operator.I32Rotl:
		return I32Rotl, true
	case operator.I32Rotr:
		return I32Rotr, true
	case operator.I64Add:
		return I64Add, true
	case operator.I64Sub:
		return I64Sub, true
	case operator.I64Mul:
		return I64Mul, true
	case operator.I64DivS:
		return I64DivS, true
	case operator.I64DivU:
		return I64DivU, true
	case operator.I64RemS:
		return I64RemS, true
	case operator.I64RemU:
		return I64RemU, true
	case operator.I64And:
		return I64And, true
	case operator.I64Or:
		return I64Or, true
	case operator.I64Xor:
		return I64Xor, true
	case operator.I64Shl:
		return I64Shl, true
	case operator.I64ShrS:
		return I64ShrS, true
	case operator.I64ShrU:
		return I64ShrU, true
	case operator.I64Rotl:
		return I64Rotl, true
	case operator.I64Rotr:
		return I64Rotr, true
	case operator.F32Add:
		return F32Add, true
	case operator.F32Sub:
		return F32Sub, true
	case operator.F32Mul:
		return F32Mul, true
	case operator.F32Div:
		return F32Div, true
	case operator.F32Min:
		return F32Min, true
	case operator.F32Max:
		return F32Max, true
	case operator.F32Copysign:
		return F32Copysign, true
	case operator.F64Add:
		return F64Add, true
	case operator.F64Sub:
		return F64Sub, true
	case operator.F64Mul:
		return F64Mul, true
	case operator.F64Div:
		return F64Div, true
	case operator.F64Min:
		return F64Min, true
	case operator.F64Max:
		return F64Max, true
	case operator.F64Copysign:
		return F64Copysign, true
	default:
		return 0, false
	}
}

func classifyCmpOp(c operator.Code) (CmpOpType, bool) {
	switch c {
	case operator.I32Eq:
		return Eq_I32, true
	case operator.I32Ne:
		return Ne_I32, true
	case operator.I32LtS:
		return LtS_I32, true
	case operator.I32LtU:
		return LtU_I32, true
	case operator.I32GtS:
		return GtS_I32, true
	case operator.I32GtU:
		return GtU_I32, true
	case operator.I32LeS:
		return LeS_I32, true
	case operator.I32LeU:
		return LeU_I32, true
	case operator.I32GeS:
		return GeS_I32, true
	case operator.I32GeU:
		return GeU_I32, true
	case operator.I64Eq:
		return Eq_I64, true
	case operator.I64Ne:
		return Ne_I64, true
	case operator.I64LtS:
		return LtS_I64, true
	case operator.I64LtU:
		return LtU_I64, true
	case operator.I64GtS:
		return GtS_I64, true
	case operator.I64GtU:
		return GtU_I64, true
	case operator.I64LeS:
		return LeS_I64, true
	case operator.I64LeU:
		return LeU_I64, true
	case operator.I64GeS:
		return GeS_I64, true
	case operator.I64GeU:
		return GeU_I64, true
	case operator.F32Eq:
		return Eq_F32, true
	case operator.F32Ne:
		return Ne_F32, true
	case operator.F32Lt:
		return Lt_F32, true
	case operator.F32Gt:
		return Gt_F32, true
	case operator.F32Le:
		return Le_F32, true
	case operator.F32Ge:
		return Ge_F32, true
	case operator.F64Eq:
		return Eq_F64, true
	case operator.F64Ne:
		return Ne_F64, true
	case operator.F64Lt:
		return Lt_F64, true
	case operator.F64Gt:
		return Gt_F64, true
	case operator.F64Le:
		return Le_F64, true
	case operator.F64Ge:
		return Ge_F64, true
	default:
		return 0, false
	}
}

func classifyLoad(c operator.Code) (LoadType, bool) {
	switch c {
	case operator.I32Load:
		return LoadI32, true
	case operator.I64Load:
		return LoadI64, true
	case operator.F32Load:
		return LoadF32, true
	case operator.F64Load:
		return LoadF64, true
	case operator.I32Load8S:
		return LoadI32_I8, true
	case operator.I32Load8U:
		return LoadI32_U8, true
	case operator.I32Load16S:
		return LoadI32_I16, true
	case operator.I32Load16U:
		return LoadI32_U16, true
	case operator.I64Load8S:
		return LoadI64_I8, true
	case operator.I64Load8U:
		return LoadI64_U8, true
	case operator.I64Load16S:
		return LoadI64_I16, true
	case operator.I64Load16U:
		return LoadI64_U16, true
	case operator.I64Load32S:
		return LoadI64_I32, true
	case operator.I64Load32U:
		return LoadI64_U32, true
	default:
		return 0, false
	}
}

func classifyStore(c operator.Code) (StoreType, bool) {
	switch c {
	case operator.I32Store:
		return StoreI32, true
	case operator.I64Store:
		return StoreI64, true
	case operator.F32Store:
		return StoreF32, true
	case operator.F64Store:
		return StoreF64, true
	case operator.I32Store8:
		return StoreI32_N8, true
	case operator.I32Store16:
		return StoreI32_N16, true
	case operator.I64Store8:
		return StoreI64_N8, true
	case operator.I64Store16:
		return StoreI64_N16, true
	case operator.I64Store32:
		return StoreI64_N32, true
	default:
		return 0, false
	}
}
