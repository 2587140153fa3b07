// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import "github.com/go-interpreter/wasm2lua/ast"

// The runtime contract (translator/runtime) exposes one rt_<type>_<op>
// helper per operation this backend cannot express with a native Lua
// operator — every integer arithmetic/bitwise/comparison op (Lua numbers
// are doubles with no 32/64-bit wraparound of their own) plus the float
// ops with no exact native equivalent (min/max/copysign, trunc/nearest).
// These tables are the single source of truth for those names.

var binOpNames = map[ast.BinOpType]string{
	ast.I32Add: "i32_add", ast.I32Sub: "i32_sub", ast.I32Mul: "i32_mul",
	ast.I32DivS: "i32_div_s", ast.I32DivU: "i32_div_u",
	ast.I32RemS: "i32_rem_s", ast.I32RemU: "i32_rem_u",
	ast.I32And: "i32_and", ast.I32Or: "i32_or", ast.I32Xor: "i32_xor",
	ast.I32Shl: "i32_shl", ast.I32ShrS: "i32_shr_s", ast.I32ShrU: "i32_shr_u",
	ast.I32Rotl: "i32_rotl", ast.I32Rotr: "i32_rotr",

	ast.I64Add: "i64_add", ast.I64Sub: "i64_sub", ast.I64Mul: "i64_mul",
	ast.I64DivS: "i64_div_s", ast.I64DivU: "i64_div_u",
	ast.I64RemS: "i64_rem_s", ast.I64RemU: "i64_rem_u",
	ast.I64And: "i64_and", ast.I64Or: "i64_or", ast.I64Xor: "i64_xor",
	ast.I64Shl: "i64_shl", ast.I64ShrS: "i64_shr_s", ast.I64ShrU: "i64_shr_u",
	ast.I64Rotl: "i64_rotl", ast.I64Rotr: "i64_rotr",

	ast.F32Min: "f32_min", ast.F32Max: "f32_max", ast.F32Copysign: "f32_copysign",
	ast.F64Min: "f64_min", ast.F64Max: "f64_max", ast.F64Copysign: "f64_copysign",
}

var cmpOpNames = map[ast.CmpOpType]string{
	ast.Eq_I32: "i32_eq", ast.Ne_I32: "i32_ne",
	ast.LtS_I32: "i32_lt_s", ast.LtU_I32: "i32_lt_u",
	ast.GtS_I32: "i32_gt_s", ast.GtU_I32: "i32_gt_u",
	ast.LeS_I32: "i32_le_s", ast.LeU_I32: "i32_le_u",
	ast.GeS_I32: "i32_ge_s", ast.GeU_I32: "i32_ge_u",

	ast.Eq_I64: "i64_eq", ast.Ne_I64: "i64_ne",
	ast.LtS_I64: "i64_lt_s", ast.LtU_I64: "i64_lt_u",
	ast.GtS_I64: "i64_gt_s", ast.GtU_I64: "i64_gt_u",
	ast.LeS_I64: "i64_le_s", ast.LeU_I64: "i64_le_u",
	ast.GeS_I64: "i64_ge_s", ast.GeU_I64: "i64_ge_u",
}

// floatBinOpOperator reports whether t operates on f32/f64 operands with a native
// Lua infix equivalent (+ - * /); its Lua operator is returned too.
func floatBinOpOperator(t ast.BinOpType) (string, bool) {
	switch t {
	case ast.F32Add, ast.F64Add:
		return "+", true
	case ast.F32Sub, ast.F64Sub:
		return "-", true
	case ast.F32Mul, ast.F64Mul:
		return "*", true
	case ast.F32Div, ast.F64Div:
		return "/", true
	default:
		return "", false
	}
}

func floatCmpOpOperator(t ast.CmpOpType) (string, bool) {
	switch t {
	case ast.Eq_F32, ast.Eq_F64:
		return "==", true
	case ast.Ne_F32, ast.Ne_F64:
		return "~=", true
	case ast.Lt_F32, ast.Lt_F64:
		return "<", true
	case ast.Gt_F32, ast.Gt_F64:
		return ">", true
	case ast.Le_F32, ast.Le_F64:
		return "<=", true
	case ast.Ge_F32, ast.Ge_F64:
		return ">=", true
	default:
		return "", false
	}
}

var unOpNames = map[ast.UnOpType]string{
	ast.I32Clz: "i32_clz", ast.I32Ctz: "i32_ctz", ast.I32Popcnt: "i32_popcnt",
	ast.I64Clz: "i64_clz", ast.I64Ctz: "i64_ctz", ast.I64Popcnt: "i64_popcnt",

	ast.F32Trunc: "f32_trunc", ast.F32Nearest: "f32_nearest",
	ast.F64Trunc: "f64_trunc", ast.F64Nearest: "f64_nearest",

	ast.I32WrapI64: "i32_wrap_i64",
	ast.I32TruncF32S: "i32_trunc_f32_s", ast.I32TruncF32U: "i32_trunc_f32_u",
	ast.I32TruncF64S: "i32_trunc_f64_s", ast.I32TruncF64U: "i32_trunc_f64_u",
	ast.I64ExtendI32S: "i64_extend_i32_s", ast.I64ExtendI32U: "i64_extend_i32_u",
	ast.I64TruncF32S: "i64_trunc_f32_s", ast.I64TruncF32U: "i64_trunc_f32_u",
	ast.I64TruncF64S: "i64_trunc_f64_s", ast.I64TruncF64U: "i64_trunc_f64_u",
	ast.F32ConvertI32S: "f32_convert_i32_s", ast.F32ConvertI32U: "f32_convert_i32_u",
	ast.F32ConvertI64S: "f32_convert_i64_s", ast.F32ConvertI64U: "f32_convert_i64_u",
	ast.F32DemoteF64: "f32_demote_f64",
	ast.F64ConvertI32S: "f64_convert_i32_s", ast.F64ConvertI32U: "f64_convert_i32_u",
	ast.F64ConvertI64S: "f64_convert_i64_s", ast.F64ConvertI64U: "f64_convert_i64_u",
	ast.F64PromoteF32: "f64_promote_f32",
	ast.I32ReinterpretF32: "i32_reinterpret_f32", ast.I64ReinterpretF64: "i64_reinterpret_f64",
	ast.F32ReinterpretI32: "f32_reinterpret_i32", ast.F64ReinterpretI64: "f64_reinterpret_i64",
}

func loadName(t ast.LoadType) string {
	switch t {
	case ast.LoadI32:
		return "i32"
	case ast.LoadI64:
		return "i64"
	case ast.LoadF32:
		return "f32"
	case ast.LoadF64:
		return "f64"
	case ast.LoadI32_I8:
		return "i32_i8"
	case ast.LoadI32_U8:
		return "i32_u8"
	case ast.LoadI32_I16:
		return "i32_i16"
	case ast.LoadI32_U16:
		return "i32_u16"
	case ast.LoadI64_I8:
		return "i64_i8"
	case ast.LoadI64_U8:
		return "i64_u8"
	case ast.LoadI64_I16:
		return "i64_i16"
	case ast.LoadI64_U16:
		return "i64_u16"
	case ast.LoadI64_I32:
		return "i64_i32"
	case ast.LoadI64_U32:
		return "i64_u32"
	default:
		panic("backend: unknown load type")
	}
}

func storeName(t ast.StoreType) string {
	switch t {
	case ast.StoreI32:
		return "i32"
	case ast.StoreI64:
		return "i64"
	case ast.StoreF32:
		return "f32"
	case ast.StoreF64:
		return "f64"
	case ast.StoreI32_N8:
		return "i32_n8"
	case ast.StoreI32_N16:
		return "i32_n16"
	case ast.StoreI64_N8:
		return "i64_n8"
	case ast.StoreI64_N16:
		return "i64_n16"
	case ast.StoreI64_N32:
		return "i64_n32"
	default:
		panic("backend: unknown store type")
	}
}
