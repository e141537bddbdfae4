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

package delta

import (
	"github.com/suffixdiff/bsdiff"
)

// ApplyOptions controls Apply.
type ApplyOptions struct {
	Listener bsdiff.Listener
}

// Apply replays the control triples read from ctrl against old, pulling
// diff bytes from diffIn and extra bytes from extraIn, and returns the
// reconstructed buffer. newSize must be the exact size the caller expects
// the result to be; any control triple that would write past it is treated
// as a corrupt patch.
func Apply(old []byte, newSize int64, ctrl, diffIn, extraIn bsdiff.Source, opts ApplyOptions) ([]byte, error) {
	notify(opts.Listener, bsdiff.EVT_APPLY_START, newSize)

	new := make([]byte, newSize)
	var oldpos, newpos int64

	var buf [24]byte

	for {
		if err := ctrl.ReadFull(buf[:]); err != nil {
			return nil, NewError(bsdiff.ERR_STREAM_IO, "failed reading control triple", err)
		}

		c := DecodeControl(buf[:])

		if c.Add == -1 {
			break
		}

		if c.Add < 0 || c.Copy < 0 {
			return nil, ErrCorrupt
		}

		if newpos+c.Add > newSize {
			return nil, ErrCorrupt
		}

		diffChunk := make([]byte, c.Add)

		if err := diffIn.ReadFull(diffChunk); err != nil {
			return nil, NewError(bsdiff.ERR_STREAM_IO, "failed reading diff bytes", err)
		}

		for i := int64(0); i < c.Add; i++ {
			if oldpos+i >= 0 && oldpos+i < int64(len(old)) {
				new[newpos+i] = diffChunk[i] + old[oldpos+i]
			} else {
				new[newpos+i] = diffChunk[i]
			}
		}

		newpos += c.Add
		oldpos += c.Add

		if newpos+c.Copy > newSize {
			return nil, ErrCorrupt
		}

		extraChunk := make([]byte, c.Copy)

		if err := extraIn.ReadFull(extraChunk); err != nil {
			return nil, NewError(bsdiff.ERR_STREAM_IO, "failed reading extra bytes", err)
		}

		copy(new[newpos:newpos+c.Copy], extraChunk)

		newpos += c.Copy
		oldpos += c.Seek
	}

	notify(opts.Listener, bsdiff.EVT_APPLY_END, newpos)

	return new, nil
}
