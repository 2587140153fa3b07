// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasmfile

import (
	"fmt"
	"io"
)

type sectionID uint8

const (
	sectionCustom sectionID = iota
	sectionType
	sectionImport
	sectionFunction
	sectionTable
	sectionMemory
	sectionGlobal
	sectionExport
	sectionStart
	sectionElement
	sectionCode
	sectionData
)

// externalKind is the kind tag on an import or export entry.
type externalKind uint8

const (
	externalFunction externalKind = iota
	externalTable
	externalMemory
	externalGlobal
)

// readSection reads one section from br, dispatching on its id, and
// reports whether the module is now fully read (EOF reached cleanly
// before any section id byte).
func (m *Module) readSection(br io.ByteReader) (bool, error) {
	id, err := readVarUint32(br)
	if err != nil {
		if err == io.EOF {
			return true, nil
		}
		return false, err
	}

	payloadLen, err := readVarUint32(br)
	if err != nil {
		return false, err
	}

	r := &limitedByteReader{r: br, remaining: int64(payloadLen)}

	switch sectionID(id) {
	case sectionCustom:
		err = r.discard()
	case sectionType:
		err = m.readTypeSection(r)
	case sectionImport:
		err = m.readImportSection(r)
	case sectionFunction:
		err = m.readFunctionSection(r)
	case sectionTable:
		err = m.readTableSection(r)
	case sectionMemory:
		err = m.readMemorySection(r)
	case sectionGlobal:
		err = m.readGlobalSection(r)
	case sectionExport:
		err = m.readExportSection(r)
	case sectionStart:
		err = r.discard()
	case sectionElement:
		err = r.discard()
	case sectionCode:
		err = m.readCodeSection(r)
	case sectionData:
		err = r.discard()
	default:
		panic(fmt.Sprintf("wasmfile: unknown section id %d", id))
	}

	return false, err
}

// limitedByteReader bounds reads to a section's declared payload length —
// every read function in this file takes one of these rather than a bare
// io.ByteReader so a malformed length is caught as an ordinary read error
// instead of silently consuming bytes from the next section.
type limitedByteReader struct {
	r         io.ByteReader
	remaining int64
}

func (l *limitedByteReader) ReadByte() (byte, error) {
	if l.remaining <= 0 {
		return 0, io.ErrUnexpectedEOF
	}
	b, err := l.r.ReadByte()
	if err != nil {
		return 0, err
	}
	l.remaining--
	return b, nil
}

func (l *limitedByteReader) discard() error {
	for l.remaining > 0 {
		if _, err := l.ReadByte(); err != nil {
			return err
		}
	}
	return nil
}

func readString(r io.ByteReader, n uint32) (string, error) {
	buf := make([]byte, n)
	for i := range buf {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		buf[i] = b
	}
	return string(buf), nil
}

func readValueType(r io.ByteReader) (ValueType, error) {
	v, err := readVarint32(r)
	return ValueType(v), err
}

func readFuncType(r io.ByteReader) (FuncType, error) {
	form, err := readVarint32(r)
	if err != nil {
		return FuncType{}, err
	}
	if form != -0x20 {
		panic(fmt.Sprintf("wasmfile: invalid type constructor %d", form))
	}

	numParam, err := readVarUint32(r)
	if err != nil {
		return FuncType{}, err
	}
	params := make([]ValueType, numParam)
	for i := range params {
		if params[i], err = readValueType(r); err != nil {
			return FuncType{}, err
		}
	}

	numResult, err := readVarUint32(r)
	if err != nil {
		return FuncType{}, err
	}
	results := make([]ValueType, numResult)
	for i := range results {
		if results[i], err = readValueType(r); err != nil {
			return FuncType{}, err
		}
	}

	return FuncType{Params: params, Results: results}, nil
}

func (m *Module) readTypeSection(r io.ByteReader) error {
	count, err := readVarUint32(r)
	if err != nil {
		return err
	}
	m.Types = make([]FuncType, count)
	for i := range m.Types {
		if m.Types[i], err = readFuncType(r); err != nil {
			return err
		}
	}
	return nil
}

// readLimits reads a resource_limits immediate (table/memory declarations
// and imports share this shape); the values themselves are not needed by
// anything downstream of wasmfile, so they are discarded once read.
func readLimits(r io.ByteReader) error {
	flags, err := readVarUint32(r)
	if err != nil {
		return err
	}
	if _, err := readVarUint32(r); err != nil { // initial
		return err
	}
	if flags&0x1 != 0 {
		if _, err := readVarUint32(r); err != nil { // maximum
			return err
		}
	}
	return nil
}

func (m *Module) readImportSection(r io.ByteReader) error {
	count, err := readVarUint32(r)
	if err != nil {
		return err
	}

	for i := uint32(0); i < count; i++ {
		modLen, err := readVarUint32(r)
		if err != nil {
			return err
		}
		if _, err := readString(r, modLen); err != nil {
			return err
		}
		fieldLen, err := readVarUint32(r)
		if err != nil {
			return err
		}
		if _, err := readString(r, fieldLen); err != nil {
			return err
		}

		kindByte, err := r.ReadByte()
		if err != nil {
			return err
		}

		switch externalKind(kindByte) {
		case externalFunction:
			typeIdx, err := readVarUint32(r)
			if err != nil {
				return err
			}
			m.FuncTypeIndex = append(m.FuncTypeIndex, int(typeIdx))
			m.NumImportFunc++
		case externalTable:
			if _, err := readVarint32(r); err != nil { // elem_type
				return err
			}
			if err := readLimits(r); err != nil {
				return err
			}
			m.NumTable++
		case externalMemory:
			if err := readLimits(r); err != nil {
				return err
			}
			m.NumMemory++
		case externalGlobal:
			if _, err := readValueType(r); err != nil {
				return err
			}
			if _, err := r.ReadByte(); err != nil { // mutability
				return err
			}
			m.NumGlobal++
		default:
			panic(fmt.Sprintf("wasmfile: invalid external_kind %d", kindByte))
		}
	}

	return nil
}

func (m *Module) readFunctionSection(r io.ByteReader) error {
	count, err := readVarUint32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		typeIdx, err := readVarUint32(r)
		if err != nil {
			return err
		}
		m.FuncTypeIndex = append(m.FuncTypeIndex, int(typeIdx))
	}
	return nil
}

func (m *Module) readTableSection(r io.ByteReader) error {
	count, err := readVarUint32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if _, err := readVarint32(r); err != nil { // elem_type
			return err
		}
		if err := readLimits(r); err != nil {
			return err
		}
		m.NumTable++
	}
	return nil
}

func (m *Module) readMemorySection(r io.ByteReader) error {
	count, err := readVarUint32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if err := readLimits(r); err != nil {
			return err
		}
		m.NumMemory++
	}
	return nil
}

func (m *Module) readGlobalSection(r io.ByteReader) error {
	count, err := readVarUint32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if _, err := readValueType(r); err != nil {
			return err
		}
		if _, err := r.ReadByte(); err != nil { // mutability
			return err
		}
		if err := skipInitExpr(r); err != nil {
			return err
		}
		m.NumGlobal++
	}
	return nil
}

// skipInitExpr reads past a constant init_expr (used by globals and, in
// the element/data sections this module discards wholesale, table/memory
// offsets): a handful of const/global.get instructions followed by 0x0b.
func skipInitExpr(r io.ByteReader) error {
	for {
		op, err := r.ReadByte()
		if err != nil {
			return err
		}
		switch op {
		case 0x0b: // end
			return nil
		case 0x41: // i32.const
			if _, err := readVarint32(r); err != nil {
				return err
			}
		case 0x42: // i64.const
			if _, err := readVarint64(r); err != nil {
				return err
			}
		case 0x43: // f32.const
			if _, err := readF32Bits(&byteReaderAdapter{r}); err != nil {
				return err
			}
		case 0x44: // f64.const
			if _, err := readF64Bits(&byteReaderAdapter{r}); err != nil {
				return err
			}
		case 0x23: // global.get
			if _, err := readVarUint32(r); err != nil {
				return err
			}
		default:
			panic(fmt.Sprintf("wasmfile: unsupported init_expr opcode 0x%x", op))
		}
	}
}

// byteReaderAdapter lets the fixed-width readers (which want io.Reader)
// pull from a io.ByteReader one byte at a time.
type byteReaderAdapter struct{ r io.ByteReader }

func (a *byteReaderAdapter) Read(p []byte) (int, error) {
	for i := range p {
		b, err := a.r.ReadByte()
		if err != nil {
			return i, err
		}
		p[i] = b
	}
	return len(p), nil
}

func (m *Module) readExportSection(r io.ByteReader) error {
	count, err := readVarUint32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		nameLen, err := readVarUint32(r)
		if err != nil {
			return err
		}
		name, err := readString(r, nameLen)
		if err != nil {
			return err
		}
		kindByte, err := r.ReadByte()
		if err != nil {
			return err
		}
		index, err := readVarUint32(r)
		if err != nil {
			return err
		}
		if externalKind(kindByte) == externalFunction {
			m.Exports = append(m.Exports, Export{Name: name, Index: index})
		}
	}
	return nil
}

func (m *Module) readCodeSection(r io.ByteReader) error {
	count, err := readVarUint32(r)
	if err != nil {
		return err
	}
	m.Code = make([]FunctionBody, count)
	for i := range m.Code {
		bodySize, err := readVarUint32(r)
		if err != nil {
			return err
		}
		body := &limitedByteReader{r: r, remaining: int64(bodySize)}

		localCount, err := readVarUint32(body)
		if err != nil {
			return err
		}

		var locals []ValueType
		for j := uint32(0); j < localCount; j++ {
			n, err := readVarUint32(body)
			if err != nil {
				return err
			}
			ty, err := readValueType(body)
			if err != nil {
				return err
			}
			for k := uint32(0); k < n; k++ {
				locals = append(locals, ty)
			}
		}

		code := make([]byte, body.remaining)
		for j := range code {
			if code[j], err = body.ReadByte(); err != nil {
				return err
			}
		}
		if len(code) == 0 || code[len(code)-1] != 0x0b {
			panic("wasmfile: function body does not end with 0x0b (end)")
		}

		m.Code[i] = FunctionBody{Locals: locals, Code: code[:len(code)-1]}
	}

	if len(m.FuncTypeIndex) == 0 {
		panic("wasmfile: code section present without a function section")
	}
	return nil
}
