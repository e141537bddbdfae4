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
	"time"

	"github.com/suffixdiff/bsdiff"
	"github.com/suffixdiff/bsdiff/suffixarray"
)

// Options controls Diff.
type Options struct {
	// SuffixSortConcurrency is forwarded to suffixarray.Build. 0 selects
	// runtime.NumCPU(), 1 forces the sequential suffix sort.
	SuffixSortConcurrency int

	// Listener, if non-nil, receives progress events as regions are
	// committed.
	Listener bsdiff.Listener
}

func notify(l bsdiff.Listener, evtType int, size int64) {
	if l == nil {
		return
	}

	l.ProcessEvent(bsdiff.NewEvent(evtType, size, time.Time{}))
}

// Diff computes the greedy longest-match delta between old and new and
// writes the resulting control/diff/extra streams to ctrl, diff and extra.
// It builds the qsufsort suffix array of old, then scans new left to right,
// extending each match forward and backward (including a "fuzzy" extension
// past single mismatched bytes that score favorably against old's running
// byte-for-byte agreement at the previous seek offset) before resolving any
// overlap between successive committed regions and emitting one Control
// triple per region. A final sentinel triple with Add == -1 marks the end of
// the control stream.
func Diff(old, new []byte, ctrl, diffOut, extraOut bsdiff.Sink, opts Options) error {
	notify(opts.Listener, bsdiff.EVT_DIFF_START, int64(len(new)))

	notify(opts.Listener, bsdiff.EVT_SUFFIX_SORT, int64(len(old)))
	idx := suffixarray.Build(old, suffixarray.Options{Concurrency: opts.SuffixSortConcurrency})

	db := make([]byte, len(new))
	eb := make([]byte, len(new))
	var dblen, eblen int

	var scan, pos, length int
	var lastscan, lastpos, lastoffset int

	for scan < len(new) {
		var oldscore int
		scan += length

		for scsc := scan; scan < len(new); scan++ {
			pos, length = idx.Search(new[scan:])

			for ; scsc < scan+length; scsc++ {
				if scsc+lastoffset < len(old) && old[scsc+lastoffset] == new[scsc] {
					oldscore++
				}
			}

			if (length == oldscore && length != 0) || length > oldscore+8 {
				break
			}

			if scan+lastoffset < len(old) && old[scan+lastoffset] == new[scan] {
				oldscore--
			}
		}

		if length != oldscore || scan == len(new) {
			var s, sf, lenf int

			for i := 0; lastscan+i < scan && lastpos+i < len(old); {
				if old[lastpos+i] == new[lastscan+i] {
					s++
				}

				i++

				if s*2-i > sf*2-lenf {
					sf = s
					lenf = i
				}
			}

			lenb := 0

			if scan < len(new) {
				var s, sb int

				for i := 1; (scan >= lastscan+i) && (pos >= i); i++ {
					if old[pos-i] == new[scan-i] {
						s++
					}

					if s*2-i > sb*2-lenb {
						sb = s
						lenb = i
					}
				}
			}

			if lastscan+lenf > scan-lenb {
				overlap := (lastscan + lenf) - (scan - lenb)
				var s, ss, lens int

				for i := 0; i < overlap; i++ {
					if new[lastscan+lenf-overlap+i] == old[lastpos+lenf-overlap+i] {
						s++
					}

					if new[scan-lenb+i] == old[pos-lenb+i] {
						s--
					}

					if s > ss {
						ss = s
						lens = i + 1
					}
				}

				lenf += lens - overlap
				lenb -= lens
			}

			for i := 0; i < lenf; i++ {
				db[dblen+i] = new[lastscan+i] - old[lastpos+i]
			}

			for i := 0; i < (scan-lenb)-(lastscan+lenf); i++ {
				eb[eblen+i] = new[lastscan+lenf+i]
			}

			dblen += lenf
			eblen += (scan - lenb) - (lastscan + lenf)

			c := Control{
				Add:  int64(lenf),
				Copy: int64((scan - lenb) - (lastscan + lenf)),
				Seek: int64((pos - lenb) - (lastpos + lenf)),
			}

			var buf [24]byte
			c.Encode(buf[:])

			if _, err := ctrl.Write(buf[:]); err != nil {
				return NewError(bsdiff.ERR_STREAM_IO, "failed writing control triple", err)
			}

			notify(opts.Listener, bsdiff.EVT_REGION, c.Add+c.Copy)

			lastscan = scan - lenb
			lastpos = pos - lenb
			lastoffset = pos - scan
		}
	}

	var sentinel [24]byte
	Control{Add: -1}.Encode(sentinel[:])

	if _, err := ctrl.Write(sentinel[:]); err != nil {
		return NewError(bsdiff.ERR_STREAM_IO, "failed writing sentinel control triple", err)
	}

	if _, err := diffOut.Write(db[:dblen]); err != nil {
		return NewError(bsdiff.ERR_STREAM_IO, "failed writing diff stream", err)
	}

	if _, err := extraOut.Write(eb[:eblen]); err != nil {
		return NewError(bsdiff.ERR_STREAM_IO, "failed writing extra stream", err)
	}

	notify(opts.Listener, bsdiff.EVT_DIFF_END, int64(len(new)))

	return nil
}
