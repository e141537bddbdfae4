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
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/suffixdiff/bsdiff"
)

// InfoPrinter is a bsdiff.Listener that formats diff/patch progress events
// to a writer at a configurable verbosity level:
//
//	0: silent
//	1: start/end of the run
//	2: also report the suffix sort pass
//	3: also report every committed region
type InfoPrinter struct {
	writer    io.Writer
	level     uint
	lock      sync.Mutex
	startTime time.Time
	regions   int
	bytes     int64
}

// NewInfoPrinter creates a new InfoPrinter writing to w at the given level.
func NewInfoPrinter(level uint, w io.Writer) (*InfoPrinter, error) {
	if w == nil {
		return nil, errors.New("invalid null writer parameter")
	}

	return &InfoPrinter{writer: w, level: level}, nil
}

// ProcessEvent implements bsdiff.Listener.
func (this *InfoPrinter) ProcessEvent(evt *bsdiff.Event) {
	if this.level == 0 {
		return
	}

	this.lock.Lock()
	defer this.lock.Unlock()

	switch evt.Type() {
	case bsdiff.EVT_DIFF_START:
		this.startTime = evt.Time()
		this.regions = 0
		this.bytes = 0
		fmt.Fprintf(this.writer, "Computing diff (%d bytes)\n", evt.Size())

	case bsdiff.EVT_APPLY_START:
		this.startTime = evt.Time()
		fmt.Fprintf(this.writer, "Applying patch (%d bytes)\n", evt.Size())

	case bsdiff.EVT_SUFFIX_SORT:
		if this.level >= 2 {
			fmt.Fprintf(this.writer, "Suffix sorting %d bytes\n", evt.Size())
		}

	case bsdiff.EVT_REGION:
		this.regions++
		this.bytes += evt.Size()

		if this.level >= 3 {
			fmt.Fprintf(this.writer, "Region %d committed (%d bytes)\n", this.regions, evt.Size())
		}

	case bsdiff.EVT_DIFF_END:
		elapsed := evt.Time().Sub(this.startTime)
		fmt.Fprintf(this.writer, "Diff complete: %d regions, %d bytes in %v\n", this.regions, this.bytes, elapsed)

	case bsdiff.EVT_APPLY_END:
		elapsed := evt.Time().Sub(this.startTime)
		fmt.Fprintf(this.writer, "Patch applied: %d bytes in %v\n", evt.Size(), elapsed)
	}
}
