// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasmfile

import (
	"testing"

	"github.com/go-interpreter/wasm2lua/operator"
)

// encodeVarUint32 encodes v as unsigned LEB128 — a standalone encoder the
// tests use to build synthetic function bodies byte-by-byte, mirroring
// the shape readVarUint32 decodes.
func encodeVarUint32(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			break
		}
	}
	return out
}

func encodeVarint32(v int32) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

func TestDecodeOperatorsLocalGetConstAdd(t *testing.T) {
	var code []byte
	code = append(code, 0x20) // local.get
	code = append(code, encodeVarUint32(0)...)
	code = append(code, 0x41) // i32.const
	code = append(code, encodeVarint32(1)...)
	code = append(code, 0x6A) // i32.add

	ops := DecodeOperators(code)
	if len(ops) != 3 {
		t.Fatalf("got %d ops, want 3: %+v", len(ops), ops)
	}
	if ops[0].Code != operator.LocalGet || ops[0].VarIndex != 0 {
		t.Errorf("op0 = %+v", ops[0])
	}
	if ops[1].Code != operator.I32Const || ops[1].I32Value != 1 {
		t.Errorf("op1 = %+v", ops[1])
	}
	if ops[2].Code != operator.I32Add {
		t.Errorf("op2 = %+v", ops[2])
	}
}

func TestDecodeOperatorsBlockBrEnd(t *testing.T) {
	var code []byte
	code = append(code, 0x02, 0x40) // block (empty)
	code = append(code, 0x0C, 0x00) // br 0
	code = append(code, 0x0B)       // end

	ops := DecodeOperators(code)
	if len(ops) != 3 {
		t.Fatalf("got %d ops, want 3: %+v", len(ops), ops)
	}
	if ops[0].Code != operator.Block || ops[0].BlockType != operator.BlockTypeEmpty {
		t.Errorf("op0 = %+v", ops[0])
	}
	if ops[1].Code != operator.Br || ops[1].RelativeDepth != 0 {
		t.Errorf("op1 = %+v", ops[1])
	}
	if ops[2].Code != operator.End {
		t.Errorf("op2 = %+v", ops[2])
	}
}

func TestDecodeOperatorsBulkMemory(t *testing.T) {
	var code []byte
	code = append(code, 0xFC, 0x0A, 0x00, 0x00) // memory.copy 0 0
	code = append(code, 0xFC, 0x0B, 0x00)       // memory.fill 0

	ops := DecodeOperators(code)
	if len(ops) != 2 {
		t.Fatalf("got %d ops, want 2: %+v", len(ops), ops)
	}
	if ops[0].Code != operator.MemoryCopy {
		t.Errorf("op0 = %+v", ops[0])
	}
	if ops[1].Code != operator.MemoryFill {
		t.Errorf("op1 = %+v", ops[1])
	}
}

func TestByBlockType(t *testing.T) {
	m := &Module{Types: []FuncType{{Params: []ValueType{ValueI32}, Results: []ValueType{ValueI32, ValueI32}}}}

	if p, r := m.ByBlockType(operator.BlockTypeEmpty); p != 0 || r != 0 {
		t.Errorf("empty block type = (%d, %d)", p, r)
	}
	if p, r := m.ByBlockType(operator.BlockType(-0x01)); p != 0 || r != 1 {
		t.Errorf("i32 block type = (%d, %d)", p, r)
	}
	if p, r := m.ByBlockType(operator.BlockType(0)); p != 1 || r != 2 {
		t.Errorf("indexed block type = (%d, %d)", p, r)
	}
}
