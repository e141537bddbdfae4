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

// Package bsdiff defines the top level interfaces shared by the
// suffixarray, delta, stream, envelope and app packages of this module.
//
// The core algorithms (suffix array construction, greedy match-and-emit
// diffing, patch application) live in suffixarray and delta. stream
// supplies the byte-source/byte-sink capability the core talks to, and
// envelope frames the core's three byte streams into the on-disk wire
// formats.
package bsdiff

const (
	ERR_ALLOCATION_FAILED = 1
	ERR_STREAM_IO         = 2
	ERR_CORRUPT_PATCH     = 3
	ERR_SIZE_OVERFLOW     = 4
	ERR_INVALID_PARAM     = 5
	ERR_UNKNOWN           = 127
)

// Sink is the capability a diff operation writes bytes through. The core
// always writes in arbitrary chunk sizes; an implementation must not
// silently short-write.
type Sink interface {
	Write(b []byte) (int, error)
}

// Source is the capability a patch-apply operation reads bytes through.
// The core always requests an exact length; a short read is an error,
// never a partial success.
type Source interface {
	// ReadFull fills buf entirely or returns an error. Control triples,
	// diff bytes and extra bytes are all consumed at an exact,
	// caller-known length, so this is the only read primitive the core
	// needs.
	ReadFull(buf []byte) error
}
