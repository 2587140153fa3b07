// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend is the structured code emitter (spec.md §4.6): it walks
// a lifted ast.FuncData and writes a break/continue-only rendition of it,
// threading a single "desired" unwind flag through nested `while true do`
// loops to express branches more than one level deep, and dispatching
// BrTable through a per-table binary search over a lazily built jump map.
package backend

import (
	"fmt"
	"io"

	"github.com/go-interpreter/wasm2lua/ast"
)

// Driver is implemented by every AST node the backend knows how to emit.
type Driver interface {
	Write(mng *Manager, w io.Writer) error
}

// Manager carries the emitter's running state across one function's
// worth of Driver.Write calls: indentation, the stack of enclosing
// labels (for break/continue/"desired" decisions), and the handful of
// function-wide facts (does it branch past one level, does it use a
// BrTable, how many locals/temporaries it has) gathered by analyzeFunc
// before the first line is written.
type Manager struct {
	w io.Writer

	indent    int
	labelList []ast.LabelType

	hasBranch bool
	hasTable  bool
	numLocal  int
	numTemp   int

	tableIndex map[*ast.BrTable]int
	nextTable  int

	// Coerce, when true, narrows every exported i32 result with
	// rt_i32_narrow — the typed entry point's contract (spec.md §4.6,
	// §9 Open Question resolution). i64/f32/f64 results are never
	// coerced either way.
	Coerce bool
}

// NewManager prepares a Manager for one function. numLocal is the
// function's total local count (parameters plus declared locals);
// numTemp is the number of temporaries the function uses. Every local and
// every temporary is declared as its own Lua local; there is no spill
// table, however many of them a function has.
func NewManager(w io.Writer, numLocal, numTemp int, hasBranch, hasTable, coerce bool) *Manager {
	return &Manager{
		w:          w,
		numLocal:   numLocal,
		numTemp:    numTemp,
		hasBranch:  hasBranch,
		hasTable:   hasTable,
		tableIndex: make(map[*ast.BrTable]int),
		Coerce:     coerce,
	}
}

func (m *Manager) Indent()   { m.indent++ }
func (m *Manager) Dedent()   { m.indent-- }
func (m *Manager) NumLocal() int { return m.numLocal }
func (m *Manager) NumTemp() int  { return m.numTemp }
func (m *Manager) HasBranch() bool { return m.hasBranch }

func (m *Manager) HasTable() bool { return m.hasTable }

func (m *Manager) PushLabel(lt ast.LabelType) { m.labelList = append(m.labelList, lt) }

func (m *Manager) PopLabel() { m.labelList = m.labelList[:len(m.labelList)-1] }

func (m *Manager) LabelList() []ast.LabelType { return m.labelList }

// GetTableIndex assigns table a stable, dense index the first time it is
// seen and returns it on every later call with the same pointer; the id
// keys that table's lazily built br_map entry. Each Manager numbers its
// own tables from zero.
func (m *Manager) GetTableIndex(table *ast.BrTable) int {
	if id, ok := m.tableIndex[table]; ok {
		return id
	}
	id := m.nextTable
	m.nextTable++
	m.tableIndex[table] = id
	return id
}

func (m *Manager) writeIndent(w io.Writer) error {
	for i := 0; i < m.indent; i++ {
		if _, err := io.WriteString(w, "\t"); err != nil {
			return err
		}
	}
	return nil
}

// line writes one fully indented, newline-terminated statement.
func (m *Manager) line(w io.Writer, format string, args ...interface{}) error {
	if err := m.writeIndent(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// indented writes the indentation plus format, with no trailing newline —
// for callers about to continue the same line with further Driver.Write
// calls.
func (m *Manager) indented(w io.Writer, format string, args ...interface{}) error {
	if err := m.writeIndent(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

// writeSeparated writes n items, each rendered by write, comma-separated.
func writeSeparated(n int, write func(i int, w io.Writer) error, w io.Writer) error {
	for i := 0; i < n; i++ {
		if i != 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		if err := write(i, w); err != nil {
			return err
		}
	}
	return nil
}
