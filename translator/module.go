// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package translator

import (
	"fmt"
	"io"

	"github.com/go-interpreter/wasm2lua/ast"
	"github.com/go-interpreter/wasm2lua/backend"
	"github.com/go-interpreter/wasm2lua/passes"
	"github.com/go-interpreter/wasm2lua/wasmfile"
)

// toASTValueType converts the module's own value-type tag to the one
// ast.FuncData declares its LocalData in. They're two distinct types (see
// wasmfile/module.go and ast/node.go) rather than one shared type because
// wasmfile is an ambient, out-of-scope concern and the CORE (ast) must
// stand alone against a synthetic TypeInfo in tests.
func toASTValueType(v wasmfile.ValueType) ast.ValueType {
	switch v {
	case wasmfile.ValueI32:
		return ast.TypeI32
	case wasmfile.ValueI64:
		return ast.TypeI64
	case wasmfile.ValueF32:
		return ast.TypeF32
	case wasmfile.ValueF64:
		return ast.TypeF64
	default:
		panic(fmt.Sprintf("translator: unknown value type %d", v))
	}
}

// resultTypes converts a signature's result types to ast's own ValueType,
// the form FuncData.ResultType carries so the backend can gate its typed
// entry point's narrowing on the actual result type rather than guessing.
func resultTypes(sig wasmfile.FuncType) []ast.ValueType {
	out := make([]ast.ValueType, len(sig.Results))
	for i, r := range sig.Results {
		out[i] = toASTValueType(r)
	}
	return out
}

// localData builds one function's full local index space — parameters
// first, then declared locals — exactly the order WASM's own local.get/
// local.set indices assume, and the order backend.WriteFunction's
// writeVariableList expects (it skips the first NumParam entries).
func localData(sig wasmfile.FuncType, body wasmfile.FunctionBody) []ast.ValueType {
	data := make([]ast.ValueType, 0, len(sig.Params)+len(body.Locals))
	for _, p := range sig.Params {
		data = append(data, toASTValueType(p))
	}
	for _, l := range body.Locals {
		data = append(data, toASTValueType(l))
	}
	return data
}

// WriteModule translates every locally defined function in module (the
// imports occupying the front of the function index space have no body
// to translate) and writes the resulting Lua chunk to w: a sized
// FUNC_LIST table, one `FUNC_LIST[i] = function(...) ... end` assignment
// per function, and — when the module declares any exports — a trailing
// `return { name = FUNC_LIST[i], ... }` table literal a host script can
// require() this chunk and index into.
func WriteModule(module *wasmfile.Module, w io.Writer, coerce bool) error {
	factory := ast.NewFactory(module)

	if _, err := fmt.Fprintf(w, "local FUNC_LIST = table.create(%d)\n", len(module.FuncTypeIndex)); err != nil {
		return err
	}
	if module.NumTable > 0 {
		if _, err := fmt.Fprintf(w, "local TABLE_LIST = table.create(%d)\n", module.NumTable); err != nil {
			return err
		}
	}
	if module.NumGlobal > 0 {
		if _, err := fmt.Fprintf(w, "local GLOBAL_LIST = table.create(%d)\n", module.NumGlobal); err != nil {
			return err
		}
	}

	for i, body := range module.Code {
		index := module.NumImportFunc + i
		sig := module.Types[module.FuncTypeIndex[index]]

		ops := wasmfile.DecodeOperators(body.Code)
		ops = passes.RemoveDeadCode(ops)

		fd := factory.CreateIndexed(uint32(index), localData(sig, body), ops)
		fd.ResultType = resultTypes(sig)

		if _, err := fmt.Fprintf(w, "FUNC_LIST[%d] = ", index); err != nil {
			return err
		}
		if err := backend.WriteFunction(fd, w, coerce && isExported(module, uint32(index))); err != nil {
			return err
		}
	}

	if len(module.Exports) == 0 {
		return nil
	}

	if _, err := io.WriteString(w, "return {\n"); err != nil {
		return err
	}
	for _, e := range module.Exports {
		if _, err := fmt.Fprintf(w, "\t%s = FUNC_LIST[%d],\n", e.Name, e.Index); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}

func isExported(module *wasmfile.Module, index uint32) bool {
	for _, e := range module.Exports {
		if e.Index == index {
			return true
		}
	}
	return false
}
