// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wasmfile

import (
	"bytes"
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// ReadFile maps path read-only and decodes it as a WebAssembly module.
// Mapping the file, rather than slurping it with os.ReadFile, mirrors the
// teacher's own go.mod dependency on mmap-go (see DESIGN.md) and avoids a
// full copy of modules that can run to several megabytes.
func ReadFile(path string) (*Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wasmfile: opening %s: %w", path, err)
	}
	defer f.Close()

	mapping, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("wasmfile: mapping %s: %w", path, err)
	}
	defer mapping.Unmap()

	return ReadModule(bytes.NewReader([]byte(mapping)))
}
