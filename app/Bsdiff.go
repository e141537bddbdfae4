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
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/suffixdiff/bsdiff"
)

const (
	_BSDIFF_VERSION = "1.0"
	_APP_HEADER     = "bsdiff " + _BSDIFF_VERSION
	_ARG_VERBOSE    = "--verbose="
	_ARG_JOBS       = "--jobs="
	_ARG_FORMAT     = "--format="
)

var (
	mutex sync.Mutex
	log   = Printer{os: bufio.NewWriter(os.Stdout)}
)

// Printer a buffered printer (required in concurrent code)
type Printer struct {
	os *bufio.Writer
}

// Println is a concurrently-safe (order-wise) version of Println.
func (this *Printer) Println(msg string, printFlag bool) {
	if printFlag == true {
		mutex.Lock()

		if w, _ := this.os.Write([]byte(msg + "\n")); w > 0 {
			_ = this.os.Flush()
		}

		mutex.Unlock()
	}
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) < 2 || args[1] == "-h" || args[1] == "--help" {
		printHelp()
		return 0
	}

	switch args[1] {
	case "diff":
		return runDiff(args[2:])
	case "patch":
		return runPatch(args[2:])
	default:
		fmt.Printf("Unknown command %q: try --help\n", args[1])
		return bsdiff.ERR_UNKNOWN
	}
}

func printHelp() {
	log.Println(_APP_HEADER, true)
	log.Println("", true)
	log.Println("Usage:", true)
	log.Println("  bsdiff diff  <old> <new> <patch> [options]", true)
	log.Println("  bsdiff patch <old> <new> <patch> [options]", true)
	log.Println("", true)
	log.Println("Options:", true)
	log.Println("  --format=<legacy|streaming|streaming44>  patch wire format (default streaming)", true)
	log.Println("  --jobs=<n>        suffix sort concurrency, 0 for all cores (default 1)", true)
	log.Println("  --verbose=<0..3>  progress verbosity (default 1)", true)
}

// options holds the arguments shared by both subcommands.
type options struct {
	format  string
	jobs    int
	verbose int
}

func parseOptions(args []string) (positional []string, opts options, err error) {
	opts = options{format: "streaming", jobs: 1, verbose: 1}

	for _, arg := range args {
		arg = strings.TrimSpace(arg)

		switch {
		case strings.HasPrefix(arg, _ARG_FORMAT):
			opts.format = strings.ToLower(strings.TrimPrefix(arg, _ARG_FORMAT))

		case strings.HasPrefix(arg, _ARG_JOBS):
			v, e := strconv.Atoi(strings.TrimPrefix(arg, _ARG_JOBS))

			if e != nil || v < 0 {
				return nil, opts, fmt.Errorf("invalid jobs value: %s", arg)
			}

			opts.jobs = v

		case strings.HasPrefix(arg, _ARG_VERBOSE):
			v, e := strconv.Atoi(strings.TrimPrefix(arg, _ARG_VERBOSE))

			if e != nil || v < 0 || v > 3 {
				return nil, opts, fmt.Errorf("invalid verbosity value: %s", arg)
			}

			opts.verbose = v

		default:
			positional = append(positional, arg)
		}
	}

	if opts.jobs == 0 {
		opts.jobs = runtime.NumCPU()
	}

	return positional, opts, nil
}
