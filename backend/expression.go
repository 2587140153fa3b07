// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"fmt"
	"io"
	"math"

	"github.com/go-interpreter/wasm2lua/ast"
)

// writeExpression dispatches e to its Lua rendition. Float arithmetic and
// comparisons use native Lua infix operators; everything else — every
// integer op (Lua numbers are doubles, so 32/64-bit wraparound has no
// native equivalent) and the float ops Lua has no exact primitive for —
// calls the matching rt_<type>_<op> runtime helper.
func writeExpression(e ast.Expression, mng *Manager, w io.Writer) error {
	switch v := e.(type) {
	case ast.ValueExpr:
		return writeValue(v.Value, w)
	case ast.Local:
		_, err := fmt.Fprintf(w, "loc_%d", v.Var)
		return err
	case ast.Temporary:
		_, err := fmt.Fprintf(w, "reg_%d", v.ID)
		return err
	case ast.GetGlobal:
		_, err := fmt.Fprintf(w, "GLOBAL_LIST[%d].value", v.Var)
		return err
	case ast.LoadAt:
		return writeLoad(v, mng, w)
	case ast.UnOp:
		return writeUnOp(v, mng, w)
	case ast.BinOp:
		return writeBinOp(v, mng, w)
	case ast.CmpOp:
		return writeCmpOp(v, mng, w)
	case ast.Select:
		return writeSelect(v, mng, w)
	case ast.MemorySize:
		_, err := fmt.Fprintf(w, "rt_memory_size(memory_at_%d)", v.Memory)
		return err
	default:
		panic(fmt.Sprintf("backend: unknown expression %T", e))
	}
}

func writeValue(v ast.Value, w io.Writer) error {
	var err error
	switch v.Kind {
	case ast.ValueI32:
		_, err = fmt.Fprintf(w, "%d", v.I32)
	case ast.ValueI64:
		bits := uint64(v.I64)
		_, err = fmt.Fprintf(w, "rt_i64_from_u32(%d, %d)", uint32(bits), uint32(bits>>32))
	case ast.ValueF32Bits:
		bits := v.F32Bits
		f := math.Float32frombits(bits)
		_, err = fmt.Fprintf(w, "%s", formatFloat(float64(f)))
	case ast.ValueF64Bits:
		f := math.Float64frombits(v.F64Bits)
		_, err = fmt.Fprintf(w, "%s", formatFloat(f))
	}
	return err
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "(0/0)"
	case math.IsInf(f, 1):
		return "math.huge"
	case math.IsInf(f, -1):
		return "-math.huge"
	default:
		return fmt.Sprintf("%g", f)
	}
}

func writeLoad(v ast.LoadAt, mng *Manager, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "rt_load_%s(memory_at_%d, ", loadName(v.LoadType), v.Memory); err != nil {
		return err
	}
	if err := writeExpression(v.Pointer, mng, w); err != nil {
		return err
	}
	if v.Offset != 0 {
		if _, err := fmt.Fprintf(w, " + %d", v.Offset); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ")")
	return err
}

func writeUnOp(v ast.UnOp, mng *Manager, w io.Writer) error {
	switch v.OpType {
	case ast.F32Neg, ast.F64Neg:
		if _, err := io.WriteString(w, "-("); err != nil {
			return err
		}
		if err := writeExpression(v.Rhs, mng, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, ")")
		return err
	case ast.F32Abs, ast.F64Abs:
		return writeMathCall("abs", v.Rhs, mng, w)
	case ast.F32Ceil, ast.F64Ceil:
		return writeMathCall("ceil", v.Rhs, mng, w)
	case ast.F32Floor, ast.F64Floor:
		return writeMathCall("floor", v.Rhs, mng, w)
	case ast.F32Sqrt, ast.F64Sqrt:
		return writeMathCall("sqrt", v.Rhs, mng, w)
	}

	name, ok := unOpNames[v.OpType]
	if !ok {
		panic("backend: unnamed unary op")
	}
	if _, err := fmt.Fprintf(w, "rt_%s(", name); err != nil {
		return err
	}
	if err := writeExpression(v.Rhs, mng, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ")")
	return err
}

func writeMathCall(fn string, rhs ast.Expression, mng *Manager, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "math.%s(", fn); err != nil {
		return err
	}
	if err := writeExpression(rhs, mng, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ")")
	return err
}

func writeBinOp(v ast.BinOp, mng *Manager, w io.Writer) error {
	if op, ok := floatBinOpOperator(v.OpType); ok {
		return writeInfix(op, v.Lhs, v.Rhs, mng, w)
	}

	name, ok := binOpNames[v.OpType]
	if !ok {
		panic("backend: unnamed binary op")
	}
	return writeHelperCall("rt_"+name, v.Lhs, v.Rhs, mng, w)
}

func writeCmpOp(v ast.CmpOp, mng *Manager, w io.Writer) error {
	if op, ok := floatCmpOpOperator(v.OpType); ok {
		if _, err := io.WriteString(w, "("); err != nil {
			return err
		}
		if err := writeInfix(op, v.Lhs, v.Rhs, mng, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, " and 1 or 0)")
		return err
	}

	name, ok := cmpOpNames[v.OpType]
	if !ok {
		panic("backend: unnamed comparison op")
	}
	return writeHelperCall("rt_"+name, v.Lhs, v.Rhs, mng, w)
}

func writeInfix(op string, lhs, rhs ast.Expression, mng *Manager, w io.Writer) error {
	if _, err := io.WriteString(w, "("); err != nil {
		return err
	}
	if err := writeExpression(lhs, mng, w); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, " %s ", op); err != nil {
		return err
	}
	if err := writeExpression(rhs, mng, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ")")
	return err
}

func writeHelperCall(name string, lhs, rhs ast.Expression, mng *Manager, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s(", name); err != nil {
		return err
	}
	if err := writeExpression(lhs, mng, w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ", "); err != nil {
		return err
	}
	if err := writeExpression(rhs, mng, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ")")
	return err
}

func writeSelect(v ast.Select, mng *Manager, w io.Writer) error {
	if _, err := io.WriteString(w, "rt_select("); err != nil {
		return err
	}
	if err := writeExpression(v.Condition, mng, w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ", "); err != nil {
		return err
	}
	if err := writeExpression(v.OnTrue, mng, w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ", "); err != nil {
		return err
	}
	if err := writeExpression(v.OnFalse, mng, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ")")
	return err
}

// Condition wraps an expression used in an if/br_if/while test. WASM
// treats any nonzero i32 as true; every expression in this AST produces a
// plain number, comparisons included (integer ones through their
// rt_<type>_<op> helpers named in names.go, float ones through the
// `and 1 or 0` form writeCmpOp wraps around the native operator), so
// Condition always renders the truthiness test explicitly rather than
// special-casing comparisons for a marginal code-size win.
type Condition struct{ Expression ast.Expression }

func (c Condition) Write(mng *Manager, w io.Writer) error {
	if _, err := io.WriteString(w, "("); err != nil {
		return err
	}
	if err := writeExpression(c.Expression, mng, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ") ~= 0")
	return err
}

func writeParamList(list []ast.Expression, mng *Manager, w io.Writer) error {
	return writeSeparated(len(list), func(i int, w io.Writer) error {
		return writeExpression(list[i], mng, w)
	}, w)
}

func writeResultList(rl ast.ResultList, mng *Manager, w io.Writer) error {
	return writeSeparated(int(rl.Len), func(i int, w io.Writer) error {
		_, err := fmt.Fprintf(w, "reg_%d", rl.Start+uint32(i))
		return err
	}, w)
}
