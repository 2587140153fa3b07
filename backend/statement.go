// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backend

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-interpreter/wasm2lua/ast"
)

func writeAlign(a ast.Align, mng *Manager, w io.Writer) error {
	if a.IsTrivial() {
		return nil
	}
	if err := mng.indented(w, ""); err != nil {
		return err
	}
	if err := writeRange(a.New, w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, " = "); err != nil {
		return err
	}
	if err := writeRange(a.Old, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeRange(r ast.Range, w io.Writer) error {
	return writeSeparated(int(r.Len), func(i int, w io.Writer) error {
		_, err := fmt.Fprintf(w, "reg_%d", r.Start+uint32(i))
		return err
	}, w)
}

// writeBr emits one break/continue/"desired"-set-then-break, per
// spec.md's break/continue-only unwind scheme: a branch to the innermost
// enclosing loop is a native continue/break, anything deeper sets
// `desired` to the distance from the outermost enclosing while-loop and
// breaks, letting writeBrParent at each enclosing level re-test it.
func writeBr(b ast.Br, mng *Manager, w io.Writer) error {
	if err := writeAlign(b.Align, mng, w); err != nil {
		return err
	}

	if b.Target == 0 {
		labels := mng.LabelList()
		if len(labels) > 0 && labels[len(labels)-1] == ast.LabelBackward {
			return mng.line(w, "continue")
		}
		return mng.line(w, "break")
	}

	level := len(mng.LabelList()) - 1 - int(b.Target)
	if err := mng.line(w, "desired = %d", level); err != nil {
		return err
	}
	return mng.line(w, "break")
}

// toOrderedTable maps every distinct branch target (explicit entries plus
// the default) to a jump table entry, sorted and deduplicated by target so
// a binary search can find the right one.
func toOrderedTable(list []ast.Br, def ast.Br) []ast.Br {
	data := make([]ast.Br, 0, len(list)+1)
	data = append(data, list...)
	data = append(data, def)

	sort.Slice(data, func(i, j int) bool { return data[i].Target < data[j].Target })

	out := data[:0]
	for i, b := range data {
		if i == 0 || b.Target != out[len(out)-1].Target {
			out = append(out, b)
		}
	}
	return out
}

// writeSearchLayer recursively halves [lo, hi) around its center element,
// emitting a native if/elseif/else so the binary search costs O(log n)
// comparisons instead of one per target.
func writeSearchLayer(lo, hi int, list []ast.Br, mng *Manager, w io.Writer) error {
	if hi-lo == 1 {
		return writeBr(list[lo], mng, w)
	}

	center := lo + (hi-lo)/2
	br := list[center]
	hasLeft := lo != center
	hasRight := hi != center+1

	writeArm := func(cond string, sub func() error) error {
		if err := mng.line(w, cond, br.Target); err != nil {
			return err
		}
		mng.Indent()
		if err := sub(); err != nil {
			return err
		}
		mng.Dedent()
		return nil
	}

	switch {
	case hasLeft && hasRight:
		if err := writeArm("if temp < %d then", func() error { return writeSearchLayer(lo, center, list, mng, w) }); err != nil {
			return err
		}
		if err := writeArm("elseif temp > %d then", func() error { return writeSearchLayer(center+1, hi, list, mng, w) }); err != nil {
			return err
		}
	case hasLeft:
		if err := writeArm("if temp < %d then", func() error { return writeSearchLayer(lo, center, list, mng, w) }); err != nil {
			return err
		}
	case hasRight:
		if err := writeArm("if temp > %d then", func() error { return writeSearchLayer(center+1, hi, list, mng, w) }); err != nil {
			return err
		}
	default:
		return writeBr(br, mng, w)
	}

	if err := mng.line(w, "else"); err != nil {
		return err
	}
	mng.Indent()
	if err := writeBr(br, mng, w); err != nil {
		return err
	}
	mng.Dedent()
	return mng.line(w, "end")
}

func writeTableSetup(table ast.BrTable, mng *Manager, w io.Writer) error {
	id := mng.GetTableIndex(&table)

	if err := mng.line(w, "if not br_map[%d] then", id); err != nil {
		return err
	}
	mng.Indent()
	if err := mng.line(w, "br_map[%d] = (function()", id); err != nil {
		return err
	}
	mng.Indent()
	if err := mng.indented(w, "return { [0] = "); err != nil {
		return err
	}
	for _, v := range table.Data {
		if _, err := fmt.Fprintf(w, "%d, ", v.Target); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "}\n"); err != nil {
		return err
	}
	mng.Dedent()
	if err := mng.line(w, "end)()"); err != nil {
		return err
	}
	mng.Dedent()
	if err := mng.line(w, "end"); err != nil {
		return err
	}

	if err := mng.indented(w, "temp = br_map[%d][", id); err != nil {
		return err
	}
	if err := writeExpression(table.Condition, mng, w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "] or %d\n", table.Default.Target)
	return err
}

// writeBrTable emits a per-table binary search dispatch (spec.md §4.6): a
// lazily-built jump map, indexed by the condition value, turns the
// condition into a branch target (the default when absent), then a binary
// search over the sorted, deduplicated target list picks the jump to
// perform — this keeps the generated code small even for a br_table with
// many duplicate targets.
func writeBrTable(table ast.BrTable, mng *Manager, w io.Writer) error {
	if len(table.Data) == 0 {
		return writeBr(table.Default, mng, w)
	}

	list := toOrderedTable(table.Data, table.Default)

	if err := writeTableSetup(table, mng, w); err != nil {
		return err
	}
	return writeSearchLayer(0, len(list), list, mng, w)
}

func writeTerminator(t ast.Terminator, mng *Manager, w io.Writer) error {
	switch v := t.(type) {
	case ast.Unreachable:
		return mng.line(w, `error("out of code bounds")`)
	case ast.Br:
		return writeBr(v, mng, w)
	case ast.BrTable:
		return writeBrTable(v, mng, w)
	default:
		panic(fmt.Sprintf("backend: unknown terminator %T", t))
	}
}

// writeBrParent closes out the "desired" unwind after a nested Block
// finishes: if a deeper break set `desired` to (or past) this level, this
// level either clears it and re-breaks/continues (if `desired` names
// exactly this level) or just re-breaks to keep unwinding outward.
func writeBrParent(mng *Manager, w io.Writer) error {
	labels := mng.LabelList()
	anyLabel := false
	for _, l := range labels {
		if l != ast.LabelNone {
			anyLabel = true
			break
		}
	}
	if !mng.HasBranch() || !anyLabel {
		return nil
	}

	if err := mng.line(w, "if desired then"); err != nil {
		return err
	}
	mng.Indent()

	if len(labels) > 0 {
		last := labels[len(labels)-1]
		if last != ast.LabelNone {
			level := len(labels) - 1
			if err := mng.line(w, "if desired == %d then", level); err != nil {
				return err
			}
			mng.Indent()
			if err := mng.line(w, "desired = nil"); err != nil {
				return err
			}
			if last == ast.LabelBackward {
				if err := mng.line(w, "continue"); err != nil {
					return err
				}
			}
			mng.Dedent()
			if err := mng.line(w, "end"); err != nil {
				return err
			}
		}
	}

	if err := mng.line(w, "break"); err != nil {
		return err
	}
	mng.Dedent()
	return mng.line(w, "end")
}

func writeBlock(b *ast.Block, mng *Manager, w io.Writer) error {
	mng.PushLabel(b.LabelType)

	if err := mng.line(w, "while true do"); err != nil {
		return err
	}
	mng.Indent()

	for _, s := range b.Code {
		if err := writeStatement(s, mng, w); err != nil {
			return err
		}
	}

	if b.Last != nil {
		if err := writeTerminator(b.Last, mng, w); err != nil {
			return err
		}
	} else if err := mng.line(w, "break"); err != nil {
		return err
	}

	mng.Dedent()
	if err := mng.line(w, "end"); err != nil {
		return err
	}

	mng.PopLabel()
	return writeBrParent(mng, w)
}

func writeBrIf(b ast.BrIf, mng *Manager, w io.Writer) error {
	if err := mng.indented(w, "if "); err != nil {
		return err
	}
	if err := (Condition{b.Condition}).Write(mng, w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, " then\n"); err != nil {
		return err
	}
	mng.Indent()
	if err := writeBr(b.Target, mng, w); err != nil {
		return err
	}
	mng.Dedent()
	return mng.line(w, "end")
}

func writeIfStatement(v *ast.If, mng *Manager, w io.Writer) error {
	if err := mng.indented(w, "if "); err != nil {
		return err
	}
	if err := (Condition{v.Condition}).Write(mng, w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, " then\n"); err != nil {
		return err
	}

	mng.Indent()
	if err := writeBlock(v.OnTrue, mng, w); err != nil {
		return err
	}
	mng.Dedent()

	if v.OnFalse != nil {
		if err := mng.line(w, "else"); err != nil {
			return err
		}
		mng.Indent()
		if err := writeBlock(v.OnFalse, mng, w); err != nil {
			return err
		}
		mng.Dedent()
	}

	return mng.line(w, "end")
}

func writeCall(v ast.Call, mng *Manager, w io.Writer) error {
	if !v.ResultList.IsEmpty() {
		if err := writeResultList(v.ResultList, mng, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, " = "); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "FUNC_LIST[%d](", v.Function); err != nil {
		return err
	}
	if err := writeParamList(v.ParamList, mng, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ")")
	return err
}

func writeCallIndirect(v ast.CallIndirect, mng *Manager, w io.Writer) error {
	if !v.ResultList.IsEmpty() {
		if err := writeResultList(v.ResultList, mng, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, " = "); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "TABLE_LIST[%d].data[", v.Table); err != nil {
		return err
	}
	if err := writeExpression(v.Index, mng, w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "]("); err != nil {
		return err
	}
	if err := writeParamList(v.ParamList, mng, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ")")
	return err
}

func writeSetTemporary(v ast.SetTemporary, mng *Manager, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "reg_%d = ", v.ID); err != nil {
		return err
	}
	return writeExpression(v.Value, mng, w)
}

func writeSetLocal(v ast.SetLocal, mng *Manager, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "loc_%d = ", v.Var); err != nil {
		return err
	}
	return writeExpression(v.Value, mng, w)
}

func writeSetGlobal(v ast.SetGlobal, mng *Manager, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "GLOBAL_LIST[%d].value = ", v.Var); err != nil {
		return err
	}
	return writeExpression(v.Value, mng, w)
}

func writeStoreAt(v ast.StoreAt, mng *Manager, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "rt_store_%s(memory_at_%d, ", storeName(v.StoreType), v.Memory); err != nil {
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
	if _, err := io.WriteString(w, ", "); err != nil {
		return err
	}
	if err := writeExpression(v.Value, mng, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ")")
	return err
}

func writeMemoryGrow(v ast.MemoryGrow, mng *Manager, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "reg_%d = rt_allocator_grow(memory_at_%d, ", v.Result, v.Memory); err != nil {
		return err
	}
	if err := writeExpression(v.Size, mng, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ")")
	return err
}

func writeMemoryCopy(v ast.MemoryCopy, mng *Manager, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "rt_store_copy(memory_at_%d, ", v.Destination.Memory); err != nil {
		return err
	}
	if err := writeExpression(v.Destination.Pointer, mng, w); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, ", memory_at_%d, ", v.Source.Memory); err != nil {
		return err
	}
	if err := writeExpression(v.Source.Pointer, mng, w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ", "); err != nil {
		return err
	}
	if err := writeExpression(v.Size, mng, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ")")
	return err
}

func writeMemoryFill(v ast.MemoryFill, mng *Manager, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "rt_store_fill(memory_at_%d, ", v.Destination.Memory); err != nil {
		return err
	}
	if err := writeExpression(v.Destination.Pointer, mng, w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ", "); err != nil {
		return err
	}
	if err := writeExpression(v.Size, mng, w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ", "); err != nil {
		return err
	}
	if err := writeExpression(v.Value, mng, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, ")")
	return err
}

// writeSimpleStat indents, writes stat via do, and terminates the line —
// for every statement kind that isn't itself a control-flow construct.
func writeSimpleStat(mng *Manager, w io.Writer, do func() error) error {
	if err := mng.writeIndent(w); err != nil {
		return err
	}
	if err := do(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeStatement(s ast.Statement, mng *Manager, w io.Writer) error {
	switch v := s.(type) {
	case *ast.Block:
		return writeBlock(v, mng, w)
	case ast.BrIf:
		return writeBrIf(v, mng, w)
	case *ast.If:
		return writeIfStatement(v, mng, w)
	case ast.Call:
		return writeSimpleStat(mng, w, func() error { return writeCall(v, mng, w) })
	case ast.CallIndirect:
		return writeSimpleStat(mng, w, func() error { return writeCallIndirect(v, mng, w) })
	case ast.SetTemporary:
		return writeSimpleStat(mng, w, func() error { return writeSetTemporary(v, mng, w) })
	case ast.SetLocal:
		return writeSimpleStat(mng, w, func() error { return writeSetLocal(v, mng, w) })
	case ast.SetGlobal:
		return writeSimpleStat(mng, w, func() error { return writeSetGlobal(v, mng, w) })
	case ast.StoreAt:
		return writeSimpleStat(mng, w, func() error { return writeStoreAt(v, mng, w) })
	case ast.MemoryGrow:
		return writeSimpleStat(mng, w, func() error { return writeMemoryGrow(v, mng, w) })
	case ast.MemoryCopy:
		return writeSimpleStat(mng, w, func() error { return writeMemoryCopy(v, mng, w) })
	case ast.MemoryFill:
		return writeSimpleStat(mng, w, func() error { return writeMemoryFill(v, mng, w) })
	default:
		panic(fmt.Sprintf("backend: unknown statement %T", s))
	}
}
