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
	"fmt"
	"os"

	"github.com/suffixdiff/bsdiff"
	"github.com/suffixdiff/bsdiff/envelope"
)

// runDiff implements the "diff" subcommand: bsdiff diff <old> <new> <patch>.
func runDiff(args []string) int {
	positional, opts, err := parseOptions(args)

	if err != nil {
		fmt.Println(err)
		return bsdiff.ERR_INVALID_PARAM
	}

	if len(positional) != 3 {
		fmt.Println("diff requires exactly three arguments: <old> <new> <patch>")
		return bsdiff.ERR_INVALID_PARAM
	}

	oldPath, newPath, patchPath := positional[0], positional[1], positional[2]

	old, err := os.ReadFile(oldPath)

	if err != nil {
		fmt.Printf("Failed to read %q: %v\n", oldPath, err)
		return bsdiff.ERR_STREAM_IO
	}

	new, err := os.ReadFile(newPath)

	if err != nil {
		fmt.Printf("Failed to read %q: %v\n", newPath, err)
		return bsdiff.ERR_STREAM_IO
	}

	out, err := os.Create(patchPath)

	if err != nil {
		fmt.Printf("Failed to create %q: %v\n", patchPath, err)
		return bsdiff.ERR_STREAM_IO
	}

	defer out.Close()

	var listener bsdiff.Listener

	if opts.verbose > 0 {
		printer, _ := NewInfoPrinter(uint(opts.verbose), os.Stdout)
		listener = printer
	}

	switch opts.format {
	case "legacy":
		err = envelope.EncodeLegacy(old, new, out, envelope.EncodeLegacyOptions{
			SuffixSortConcurrency: opts.jobs,
			Listener:              listener,
		})

	case "streaming":
		err = envelope.EncodeStreaming(old, new, out, envelope.EncodeStreamingOptions{
			Algorithm:             envelope.AlgorithmBzip2,
			SuffixSortConcurrency: opts.jobs,
			Listener:              listener,
		})

	case "streaming44":
		err = envelope.EncodeStreaming(old, new, out, envelope.EncodeStreamingOptions{
			Algorithm:             envelope.AlgorithmBzip2,
			BSDIFF44:              true,
			SuffixSortConcurrency: opts.jobs,
			Listener:              listener,
		})

	default:
		fmt.Printf("Unknown format %q\n", opts.format)
		return bsdiff.ERR_INVALID_PARAM
	}

	if err != nil {
		fmt.Printf("Diff failed: %v\n", err)
		return bsdiff.ERR_UNKNOWN
	}

	return 0
}
