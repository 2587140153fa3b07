// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wasmfile is the ambient WebAssembly binary-format reader this
// module needs to be runnable end-to-end (spec.md §1 names the bytecode
// parser front-end an external collaborator; this package plays that
// role). It is adapted — not copied — from the teacher's wasm/,
// wasm/leb128/ and disasm/disasm.go: same section-by-section decode
// shape, narrowed to exactly what operator.TypeInfo and the per-function
// operator.Op stream need. It performs no validation: a malformed module
// panics, per spec.md §7.
package wasmfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/go-interpreter/wasm2lua/operator"
)

const (
	magic   uint32 = 0x6d736100
	version uint32 = 0x1
)

var ErrInvalidMagic = errors.New("wasmfile: invalid magic number")

// ValueType is the WebAssembly value type of a local, parameter, or
// function result.
type ValueType int8

const (
	ValueI32 ValueType = -0x01
	ValueI64 ValueType = -0x02
	ValueF32 ValueType = -0x03
	ValueF64 ValueType = -0x04
)

// FuncType is one entry of the module's type section: a function
// signature.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

// Export names one entry of the module's function index space visible to
// the host.
type Export struct {
	Name  string
	Index uint32
}

// FunctionBody is one function's decoded local declarations and raw,
// not-yet-operator-decoded instruction bytes.
type FunctionBody struct {
	Locals []ValueType
	Code   []byte
}

// Module is the decoded shape of a .wasm binary, trimmed to what this
// translator's CORE and its module-level wrapper need: type signatures,
// the function index space (imports followed by locally defined
// functions, exactly as the spec's index spaces are defined), table and
// memory presence (CallIndirect/MemorySize/MemoryGrow target these by
// index but this module never inspects their contents), global count,
// exports, and per-function bodies.
type Module struct {
	Types []FuncType

	// NumImportFunc is how many entries at the front of FuncTypeIndex are
	// imports (no FunctionBody - the host supplies them at runtime).
	NumImportFunc int
	// FuncTypeIndex maps a function index (imports first, then locally
	// defined functions) to an index into Types.
	FuncTypeIndex []int

	NumTable  int
	NumMemory int
	NumGlobal int

	Exports []Export

	// Code holds one entry per locally defined function, in the same
	// order as FuncTypeIndex[NumImportFunc:].
	Code []FunctionBody
}

var _ operator.TypeInfo = (*Module)(nil)

// ByFuncIndex implements operator.TypeInfo.
func (m *Module) ByFuncIndex(index uint32) (numParam, numResult int) {
	return m.ByTypeIndex(uint32(m.FuncTypeIndex[index]))
}

// ByTypeIndex implements operator.TypeInfo.
func (m *Module) ByTypeIndex(index uint32) (numParam, numResult int) {
	ty := m.Types[index]
	return len(ty.Params), len(ty.Results)
}

// ByBlockType implements operator.TypeInfo. Block types use the same
// varint33 encoding as a WebAssembly block immediate: -0x40 is the empty
// type, -0x01..-0x04 are the four value types (no params, one result),
// and any non-negative value indexes Types (params and results from that
// signature).
func (m *Module) ByBlockType(ty operator.BlockType) (numParam, numResult int) {
	switch ty {
	case -0x40:
		return 0, 0
	case -0x01, -0x02, -0x03, -0x04:
		return 0, 1
	default:
		return m.ByTypeIndex(uint32(ty))
	}
}

// ReadModule decodes a complete .wasm binary from r.
func ReadModule(r io.Reader) (*Module, error) {
	br := bufio.NewReader(r)

	got, err := readFixedU32(br)
	if err != nil {
		return nil, fmt.Errorf("wasmfile: reading magic: %w", err)
	}
	if got != magic {
		return nil, ErrInvalidMagic
	}
	if got, err = readFixedU32(br); err != nil {
		return nil, fmt.Errorf("wasmfile: reading version: %w", err)
	}
	if got != version {
		return nil, fmt.Errorf("wasmfile: unsupported version %d", got)
	}

	m := &Module{}
	for {
		done, err := m.readSection(br)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	if len(m.FuncTypeIndex) != m.NumImportFunc+len(m.Code) {
		panic("wasmfile: function and code section entry counts disagree")
	}

	return m, nil
}
