/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/suffixdiff/bsdiff"
	"github.com/suffixdiff/bsdiff/delta"
	"github.com/suffixdiff/bsdiff/envelope"
)

// runPatch implements the "patch" subcommand: bsdiff patch <old> <new> <patch>.
func runPatch(args []string) int {
	positional, opts, err := parseOptions(args)

	if err != nil {
		fmt.Println(err)
		return bsdiff.ERR_INVALID_PARAM
	}

	if len(positional) != 3 {
		fmt.Println("patch requires exactly three arguments: <old> <new> <patch>")
		return bsdiff.ERR_INVALID_PARAM
	}

	oldPath, newPath, patchPath := positional[0], positional[1], positional[2]

	old, err := os.ReadFile(oldPath)

	if err != nil {
		fmt.Printf("Failed to read %q: %v\n", oldPath, err)
		return bsdiff.ERR_STREAM_IO
	}

	patchBytes, err := os.ReadFile(patchPath)

	if err != nil {
		fmt.Printf("Failed to read %q: %v\n", patchPath, err)
		return bsdiff.ERR_STREAM_IO
	}

	var listener bsdiff.Listener

	if opts.verbose > 0 {
		printer, _ := NewInfoPrinter(uint(opts.verbose), os.Stdout)
		listener = printer
	}

	applyOpts := delta.ApplyOptions{Listener: listener}

	var result []byte

	if len(patchBytes) >= 16 && (string(patchBytes[:16]) == "ENDSLEY/BSDIFF43" || string(patchBytes[:16]) == "ENDSLEY/BSDIFF44") {
		result, _, err = envelope.DecodeStreaming(old, bytes.NewReader(patchBytes), applyOpts)
	} else {
		result, err = envelope.DecodeLegacy(old, bytes.NewReader(patchBytes), applyOpts)
	}

	if err != nil {
		fmt.Printf("Patch failed: %v\n", err)
		return bsdiff.ERR_CORRUPT_PATCH
	}

	if err := os.WriteFile(newPath, result, 0644); err != nil {
		fmt.Printf("Failed to write %q: %v\n", newPath, err)
		return bsdiff.ERR_STREAM_IO
	}

	return 0
}
