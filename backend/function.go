// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"fmt"
	"io"

	"github.com/go-interpreter/wasm2lua/ast"
)

// analyzeFunc scans a lifted function body once, ahead of emission, for the
// two facts the Manager needs to decide its preamble: whether any branch
// unwinds more than one block level (requiring the "desired" flag) and
// whether a BrTable is present at all (requiring the br_map local).
type analysis struct {
	hasBranch bool
	hasTable  bool
}

func analyzeFunc(fd *ast.FuncData) analysis {
	var a analysis
	a.walkBlock(fd.Code)
	return a
}

func (a *analysis) walkBlock(b *ast.Block) {
	for _, s := range b.Code {
		switch v := s.(type) {
		case *ast.Block:
			a.walkBlock(v)
		case *ast.If:
			a.walkBlock(v.OnTrue)
			if v.OnFalse != nil {
				a.walkBlock(v.OnFalse)
			}
		case ast.BrIf:
			if v.Target.Target != 0 {
				a.hasBranch = true
			}
		}
	}

	switch t := b.Last.(type) {
	case ast.Br:
		if t.Target != 0 {
			a.hasBranch = true
		}
	case ast.BrTable:
		a.hasTable = true
		if t.Default.Target != 0 {
			a.hasBranch = true
		}
		for _, d := range t.Data {
			if d.Target != 0 {
				a.hasBranch = true
			}
		}
	}
}

// zeroValue is the Lua literal a freshly declared local of ty starts as,
// before any WASM local.set reaches it.
func zeroValue(ty ast.ValueType) string {
	switch ty {
	case ast.TypeI32:
		return "0"
	case ast.TypeF32, ast.TypeF64:
		return "0.0"
	case ast.TypeI64:
		return "rt_i64_ZERO"
	default:
		panic("backend: unknown value type")
	}
}

func writeParameterList(numParam int, w io.Writer) error {
	return writeSeparated(numParam, func(i int, w io.Writer) error {
		_, err := fmt.Fprintf(w, "loc_%d", i)
		return err
	}, w)
}

// writeVariableList declares every local beyond the parameters (which
// arrive already bound by the enclosing function(...) signature), one
// `local` statement apiece, and every temporary register the lifter
// allocated, all in a single `local` statement — zero values come from
// zeroValue, temporaries start nil.
func writeVariableList(fd *ast.FuncData, mng *Manager, w io.Writer) error {
	for i := fd.NumParam; i < len(fd.LocalData); i++ {
		if err := mng.line(w, "local loc_%d = %s", i, zeroValue(fd.LocalData[i])); err != nil {
			return err
		}
	}

	if mng.NumTemp() > 0 {
		if err := mng.indented(w, "local "); err != nil {
			return err
		}
		if err := writeSeparated(mng.NumTemp(), func(i int, w io.Writer) error {
			_, err := fmt.Fprintf(w, "reg_%d", i)
			return err
		}, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	if mng.HasBranch() {
		if err := mng.line(w, "local desired"); err != nil {
			return err
		}
	}
	if mng.HasTable() {
		if err := mng.line(w, "local br_map = {}"); err != nil {
			return err
		}
	}
	return nil
}

// writeReturn emits the function's return statement. The lifter's final
// leakAll spills the last NumResult stack entries into the last NumResult
// temporaries it ever allocates (factory.go's buildStatList), so their ids
// are exactly [NumStack-NumResult, NumStack) — no separate bookkeeping is
// needed to find them.
func writeReturn(fd *ast.FuncData, mng *Manager, w io.Writer) error {
	if fd.NumResult == 0 {
		return mng.line(w, "return")
	}

	start := fd.NumStack - uint32(fd.NumResult)
	if err := mng.indented(w, "return "); err != nil {
		return err
	}
	return writeSeparated(fd.NumResult, func(i int, w io.Writer) error {
		name := fmt.Sprintf("reg_%d", start+uint32(i))
		if mng.Coerce && i < len(fd.ResultType) && fd.ResultType[i] == ast.TypeI32 {
			_, err := fmt.Fprintf(w, "rt_i32_narrow(%s)", name)
			return err
		}
		_, err := io.WriteString(w, name)
		return err
	}, w)
}

// WriteFunction emits fd as a complete Lua function expression, from the
// `function(...)` header through the closing `end` — Coerce narrows every
// i32-typed export result to fit the typed entry point's contract (spec.md
// §9 Open Question resolution); i64/f32/f64 results pass through untouched.
func WriteFunction(fd *ast.FuncData, w io.Writer, coerce bool) error {
	a := analyzeFunc(fd)
	mng := NewManager(w, len(fd.LocalData), int(fd.NumStack), a.hasBranch, a.hasTable, coerce)

	if _, err := io.WriteString(w, "function("); err != nil {
		return err
	}
	if err := writeParameterList(fd.NumParam, w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ")\n"); err != nil {
		return err
	}

	mng.Indent()
	if err := writeVariableList(fd, mng, w); err != nil {
		return err
	}

	for _, s := range fd.Code.Code {
		if err := writeStatement(s, mng, w); err != nil {
			return err
		}
	}
	if fd.Code.Last != nil {
		if err := writeTerminator(fd.Code.Last, mng, w); err != nil {
			return err
		}
	}

	if err := writeReturn(fd, mng, w); err != nil {
		return err
	}
	mng.Dedent()

	return mng.line(w, "end")
}
