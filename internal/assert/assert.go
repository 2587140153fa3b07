// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assert checks internal invariants that a correct caller can
// never violate. A failure here means this module has a bug, not that the
// input wasm was malformed — so, like the original's debug_assert_eq!,
// it panics unconditionally rather than returning an error (spec.md §7).
package assert

import "fmt"

// Equal panics with msg and both values if got != want.
func Equal[T comparable](got, want T, msg string) {
	if got != want {
		panic(fmt.Sprintf("assertion failed: %s (got %v, want %v)", msg, got, want))
	}
}

// True panics with msg if cond is false.
func True(cond bool, msg string) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: %s", msg))
	}
}
