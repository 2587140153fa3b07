// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command wasm2lua reads a WebAssembly module and writes its translation
// to Lua(u) source on stdout: the runtime preamble first, then the
// translated module (spec.md §6).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-interpreter/wasm2lua/translator"
	"github.com/go-interpreter/wasm2lua/wasmfile"
)

func main() {
	log.SetPrefix("wasm2lua: ")
	log.SetFlags(0)

	typed := flag.Bool("typed", false, "narrow i32 export results with rt_i32_narrow")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <file>\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *typed); err != nil {
		log.Fatal(err)
	}
}

func run(path string, typed bool) error {
	module, err := wasmfile.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read module: %w", err)
	}

	w := bufio.NewWriter(os.Stdout)

	if _, err := fmt.Fprintf(w, "--!optimize 2\n%s\n", translator.RUNTIME); err != nil {
		return err
	}
	if typed {
		if _, err := fmt.Fprintf(w, "%s\n", translator.EXPORT_RUNTIME); err != nil {
			return err
		}
	}

	translate := translator.FromModuleUntyped
	if typed {
		translate = translator.FromModuleTyped
	}
	if err := translate(module, w); err != nil {
		return fmt.Errorf("could not translate module: %w", err)
	}

	return w.Flush()
}
