// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasmfile

import (
	"encoding/binary"
	"io"
)

// readVarUint32 reads a LEB128-encoded unsigned 32-bit integer, the way
// wasm/leb128.ReadVarUint32 does in the teacher — reproduced here (rather
// than imported) since wasmfile replaces the teacher's wasm package
// wholesale instead of depending on it.
func readVarUint32(r io.ByteReader) (uint32, error) {
	var shift uint
	var res uint32
	for {
		b, err := r.ReadByte()
		if err != nil {
			return res, err
		}
		cur := uint32(b)
		res |= (cur & 0x7f) << shift
		if cur&0x80 == 0 {
			return res, nil
		}
		shift += 7
	}
}

func readVarUint64(r io.ByteReader) (uint64, error) {
	var shift uint
	var res uint64
	for {
		b, err := r.ReadByte()
		if err != nil {
			return res, err
		}
		cur := uint64(b)
		res |= (cur & 0x7f) << shift
		if cur&0x80 == 0 {
			return res, nil
		}
		shift += 7
	}
}

// readVarint32/readVarint64 read LEB128-encoded signed integers, per
// wasm/leb128.ReadVarint32/64 in the teacher.
func readVarint64(r io.ByteReader) (int64, error) {
	var shift uint
	var sign int64 = -1
	var res int64
	for {
		b, err := r.ReadByte()
		if err != nil {
			return res, err
		}
		cur := int64(b)
		res |= (cur & 0x7f) << shift
		shift += 7
		sign <<= 7
		if cur&0x80 == 0 {
			break
		}
	}
	if ((sign >> 1) & res) != 0 {
		res |= sign
	}
	return res, nil
}

func readVarint32(r io.ByteReader) (int32, error) {
	n, err := readVarint64(r)
	return int32(n), err
}

func readFixedU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readFixedU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// readF32Bits/readF64Bits read the raw IEEE-754 bit pattern of a
// const instruction's immediate — never the float value itself, per
// spec.md's "floats carried as raw bit patterns" invariant.
func readF32Bits(r io.Reader) (uint32, error) { return readFixedU32(r) }
func readF64Bits(r io.Reader) (uint64, error) { return readFixedU64(r) }
