// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

// ValueKind tags a constant Value the way wasm itself tags it: the four
// WebAssembly value types. Floats are always carried as raw bit patterns —
// it's the backend's job to decide how to print them.
type ValueKind int

const (
	ValueI32 ValueKind = iota
	ValueI64
	ValueF32Bits
	ValueF64Bits
)

// Value is a constant operand pushed by an i32.const/i64.const/f32.const/
// f64.const instruction.
type Value struct {
	Kind    ValueKind
	I32     int32
	I64     int64
	F32Bits uint32
	F64Bits uint64
}

func I32Value(v int32) Value   { return Value{Kind: ValueI32, I32: v} }
func I64Value(v int64) Value   { return Value{Kind: ValueI64, I64: v} }
func F32Value(bits uint32) Value { return Value{Kind: ValueF32Bits, F32Bits: bits} }
func F64Value(bits uint64) Value { return Value{Kind: ValueF64Bits, F64Bits: bits} }
