// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package translator is the library surface spec.md §6 names:
// FromInstList/FromModuleTyped/FromModuleUntyped, plus the RUNTIME and
// EXPORT_RUNTIME constants the CLI driver concatenates ahead of whatever
// these functions write. It threads wasmfile's decoded module through
// passes.RemoveDeadCode, ast.Factory and backend.WriteFunction, then wraps
// the result with the FUNC_LIST/TABLE_LIST/GLOBAL_LIST declarations a
// module needs to actually run (ambient/out-of-scope per spec.md §1, kept
// thin — see DESIGN.md).
package translator

import (
	"fmt"
	"io"

	"github.com/go-interpreter/wasm2lua/ast"
	"github.com/go-interpreter/wasm2lua/backend"
	"github.com/go-interpreter/wasm2lua/operator"
	"github.com/go-interpreter/wasm2lua/passes"
	"github.com/go-interpreter/wasm2lua/wasmfile"
)

// anonymousTypeInfo backs FromInstList's Factory: an anonymous operator
// sequence (a global or element-segment init expression, in Wasynth's own
// usage) never contains a block, call, or branch, so none of these
// queries are ever actually reached; they panic rather than silently
// returning a wrong arity if that assumption turns out to be false.
type anonymousTypeInfo struct{}

func (anonymousTypeInfo) ByFuncIndex(uint32) (int, int) {
	panic("translator: FromInstList operand sequence contains a call")
}
func (anonymousTypeInfo) ByTypeIndex(uint32) (int, int) {
	panic("translator: FromInstList operand sequence contains a call_indirect")
}
func (anonymousTypeInfo) ByBlockType(operator.BlockType) (int, int) {
	panic("translator: FromInstList operand sequence contains a structured block")
}

// FromInstList translates a bare operator sequence producing exactly one
// result — e.g. a global's or an element segment's init expression — into
// a Lua expression-producing function literal.
func FromInstList(ops []operator.Op, w io.Writer) (err error) {
	defer func() { err = recoverAsError(recover(), err) }()

	ops = passes.RemoveDeadCode(ops)
	factory := ast.NewFactory(anonymousTypeInfo{})
	fd := factory.CreateAnonymous(ops)

	return backend.WriteFunction(fd, w, false)
}

// recoverAsError turns a panic raised anywhere in the translation
// pipeline into a returned error, per spec.md §7: malformed input and
// invariant violations are both fatal panics internally, but the library
// surface itself never panics across its own API boundary — only the CLI
// driver decides whether to log.Fatal on the resulting error.
func recoverAsError(r interface{}, already error) error {
	if r == nil {
		return already
	}
	return fmt.Errorf("translator: %v", r)
}

// FromModuleUntyped translates every locally defined function of module
// and writes the wrapped Lua chunk to w, with no coercion on exported
// results.
func FromModuleUntyped(module *wasmfile.Module, w io.Writer) error {
	return fromModule(module, w, false)
}

// FromModuleTyped is FromModuleUntyped plus rt_i32_narrow coercion on
// every i32-typed exported function result (spec.md §9 Open Question
// resolution, see DESIGN.md).
func FromModuleTyped(module *wasmfile.Module, w io.Writer) error {
	return fromModule(module, w, true)
}

func fromModule(module *wasmfile.Module, w io.Writer, coerce bool) (err error) {
	defer func() { err = recoverAsError(recover(), err) }()

	return WriteModule(module, w, coerce)
}
