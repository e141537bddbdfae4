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

// Package delta implements the match-and-emit diff engine and patch
// applier: qsufsort-backed greedy scanning with fuzzy forward/backward
// extension and overlap resolution, the control-triple wire representation,
// and the signed 8-byte integer codec used to serialize it.
package delta

// Control is one (add, copy, seek) triple: add diff bytes are summed onto
// the next `add` bytes of old starting at the current old-cursor, copy extra
// bytes are taken verbatim from the extra stream, then the old-cursor seeks
// by seek (which may be negative) before the next triple is processed.
type Control struct {
	Add  int64
	Copy int64
	Seek int64
}

// Encode writes the three fields of c as three consecutive 8-byte
// sign-magnitude integers into buf, which must be at least 24 bytes long.
func (c Control) Encode(buf []byte) {
	EncodeInt64(c.Add, buf[0:8])
	EncodeInt64(c.Copy, buf[8:16])
	EncodeInt64(c.Seek, buf[16:24])
}

// DecodeControl reads a Control back out of a 24-byte buffer written by
// Control.Encode.
func DecodeControl(buf []byte) Control {
	return Control{
		Add:  DecodeInt64(buf[0:8]),
		Copy: DecodeInt64(buf[8:16]),
		Seek: DecodeInt64(buf[16:24]),
	}
}
