// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package translator

import (
	"strings"
	"testing"

	"github.com/go-interpreter/wasm2lua/operator"
	"github.com/go-interpreter/wasm2lua/wasmfile"
)

// addOneBody is the raw instruction bytes of the body of `(param i32)
// (result i32) local.get 0 i32.const 1 i32.add`.
func addOneBody() []byte {
	return []byte{
		0x20, 0x00, // local.get 0
		0x41, 0x01, // i32.const 1
		0x6A,       // i32.add
	}
}

func TestWriteModuleAddOneExported(t *testing.T) {
	module := &wasmfile.Module{
		Types: []wasmfile.FuncType{
			{Params: []wasmfile.ValueType{wasmfile.ValueI32}, Results: []wasmfile.ValueType{wasmfile.ValueI32}},
		},
		FuncTypeIndex: []int{0},
		Exports:       []wasmfile.Export{{Name: "add_one", Index: 0}},
		Code:          []wasmfile.FunctionBody{{Code: addOneBody()}},
	}

	var buf strings.Builder
	if err := WriteModule(module, &buf, false); err != nil {
		t.Fatalf("WriteModule: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "FUNC_LIST[0] = function(loc_0)") {
		t.Errorf("missing function header: %s", out)
	}
	if !strings.Contains(out, "add_one = FUNC_LIST[0]") {
		t.Errorf("missing export table entry: %s", out)
	}
	if !strings.Contains(out, "return reg_") {
		t.Errorf("missing return statement: %s", out)
	}
}

func TestWriteModuleTypedCoercesI32Export(t *testing.T) {
	module := &wasmfile.Module{
		Types: []wasmfile.FuncType{
			{Params: []wasmfile.ValueType{wasmfile.ValueI32}, Results: []wasmfile.ValueType{wasmfile.ValueI32}},
		},
		FuncTypeIndex: []int{0},
		Exports:       []wasmfile.Export{{Name: "add_one", Index: 0}},
		Code:          []wasmfile.FunctionBody{{Code: addOneBody()}},
	}

	var buf strings.Builder
	if err := WriteModule(module, &buf, true); err != nil {
		t.Fatalf("WriteModule: %v", err)
	}

	if !strings.Contains(buf.String(), "rt_i32_narrow(") {
		t.Errorf("typed export missing coercion: %s", buf.String())
	}
}

func TestFromInstList(t *testing.T) {
	ops := []operator.Op{
		{Code: operator.I32Const, I32Value: 42},
	}

	var buf strings.Builder
	if err := FromInstList(ops, &buf); err != nil {
		t.Fatalf("FromInstList: %v", err)
	}
	if !strings.Contains(buf.String(), "return 42") && !strings.Contains(buf.String(), "return reg_") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
