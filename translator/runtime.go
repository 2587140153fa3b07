// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package translator

import _ "embed"

// RUNTIME is the fixed runtime snippet every translated module's output
// is prefixed with at the CLI boundary (spec.md §6). Its actual contents
// are an external, out-of-scope concern per spec.md §1 ("the fixed
// runtime snippet that is inlined verbatim"); what's embedded here is a
// partial stand-in, not a transliteration of Wasynth's own runtime.lua
// (not present in the retrieval pack). It defines the full-width
// rt_load_*/rt_store_* helpers, rt_store_copy, rt_store_fill,
// rt_allocator_grow, rt_i64_ZERO and rt_i64_from_u32; it does not define
// the narrow load/store variants, the integer/float operation helpers,
// rt_select, rt_memory_size or table.create.
//
//go:embed runtime/runtime.lua
var RUNTIME string

// EXPORT_RUNTIME is RUNTIME's typed-entry-point companion: the narrowing
// helper FromModuleTyped's coercion calls into.
//
//go:embed runtime/export.lua
var EXPORT_RUNTIME string
