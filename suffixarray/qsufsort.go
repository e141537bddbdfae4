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

// Package suffixarray builds the qsufsort suffix array of a byte buffer
// (Larsson-Sadakane doubling suffix sort with a ternary-split quicksort
// partition on H-order keys) and exposes the binary-search lookup used by
// the match-and-emit engine to find the longest match for a position in a
// second buffer.
package suffixarray

import (
	"runtime"
	"sync"

	"github.com/suffixdiff/bsdiff/internal"
)

// Index is a suffix array over a byte buffer: Index.I[r] is the starting
// offset in the buffer of the suffix ranked r, for r in [0, len(buffer)].
// Rank 0 always corresponds to the empty suffix past the end of the buffer.
type Index struct {
	buf []byte
	I   []int
}

// Options controls suffix array construction.
type Options struct {
	// Concurrency is the number of goroutines used to partition buckets
	// during each doubling pass. 0 selects runtime.NumCPU(). 1 forces the
	// sequential path, which is what every round-trip test exercises;
	// concurrency above 1 is an opt-in optimization for large buffers.
	Concurrency int
}

func swap(a []int, i, j int) { a[i], a[j] = a[j], a[i] }

// split performs a ternary-split quicksort partition of I[start:start+length]
// on the H-order key V[I[k]+h], merging fully-sorted runs into negative-length
// sentinel markers in I as described by Larsson & Sadakane. V is read for
// keys and written for newly discovered group boundaries.
func split(I, V []int, start, length, h int) {
	var i, j, k, x, jj, kk int

	if length < 16 {
		for k = start; k < start+length; k += j {
			j = 1
			x = V[I[k]+h]

			for i = 1; k+i < start+length; i++ {
				if V[I[k+i]+h] < x {
					x = V[I[k+i]+h]
					j = 0
				}

				if V[I[k+i]+h] == x {
					swap(I, k+i, k+j)
					j++
				}
			}

			for i = 0; i < j; i++ {
				V[I[k+i]] = k + j - 1
			}

			if j == 1 {
				I[k] = -1
			}
		}

		return
	}

	x = V[I[start+length/2]+h]
	jj = 0
	kk = 0

	for i = start; i < start+length; i++ {
		if V[I[i]+h] < x {
			jj++
		}

		if V[I[i]+h] == x {
			kk++
		}
	}

	jj += start
	kk += jj

	i = start
	j = 0
	k = 0

	for i < jj {
		if V[I[i]+h] < x {
			i++
		} else if V[I[i]+h] == x {
			swap(I, i, jj+j)
			j++
		} else {
			swap(I, i, kk+k)
			k++
		}
	}

	for jj+j < kk {
		if V[I[jj+j]+h] == x {
			j++
		} else {
			swap(I, jj+j, kk+k)
			k++
		}
	}

	if jj > start {
		split(I, V, start, jj-start, h)
	}

	for i = 0; i < kk-jj; i++ {
		V[I[jj+i]] = kk - 1
	}

	if jj == kk-1 {
		I[jj] = -1
	}

	if start+length > kk {
		split(I, V, kk, start+length-kk, h)
	}
}

// splitTask names one partition job queued for a worker during a parallel
// doubling pass.
type splitTask struct {
	start, length, h int
}

// Build constructs the qsufsort suffix array of buf. With Concurrency 1, or
// for a buf of at most 64 KiB, it runs the sequential doubling sort; with
// Concurrency > 1 (or 0 on a machine with more than one CPU) each pass's
// independent bucket partitions are divided among a pool of goroutines,
// each worker partitioning into its own copy of V (V2) to avoid a data race
// on the shared key array, with the two buffers swapped back together once
// every worker has finished its share for that pass.
func Build(buf []byte, opts Options) *Index {
	n := len(buf)
	I := make([]int, n+1)
	V := make([]int, n+1)

	var buckets [256]int

	for _, c := range buf {
		buckets[c]++
	}

	for i := 1; i < 256; i++ {
		buckets[i] += buckets[i-1]
	}

	copy(buckets[1:], buckets[:])
	buckets[0] = 0

	for i, c := range buf {
		buckets[c]++
		I[buckets[c]] = i
	}

	I[0] = n

	for i, c := range buf {
		V[i] = buckets[c]
	}

	V[n] = 0

	for i := 1; i < 256; i++ {
		if buckets[i] == buckets[i-1]+1 {
			I[buckets[i]] = -1
		}
	}

	I[0] = -1

	concurrency := opts.Concurrency

	if concurrency == 0 {
		concurrency = runtime.NumCPU()
	}

	if concurrency > 1 && n > 1<<16 {
		buildParallel(I, V, n, concurrency)
	} else {
		buildSequential(I, V, n)
	}

	for i := 0; i < n+1; i++ {
		I[V[i]] = i
	}

	return &Index{buf: buf, I: I}
}

func buildSequential(I, V []int, n int) {
	for h := 1; I[0] != -(n + 1); h += h {
		var i, length int

		for i < n+1 {
			if I[i] < 0 {
				length -= I[i]
				i -= I[i]
			} else {
				if length != 0 {
					I[i-length] = -length
				}

				length = V[I[i]] + 1 - i
				split(I, V, i, length, h)
				i += length
				length = 0
			}
		}

		if length != 0 {
			I[i-length] = -length
		}
	}
}

// buildParallel mirrors buildSequential but hands each independent bucket
// found while scanning I at the current H-order to a pool of worker
// goroutines, each partitioning against a private copy V2 of the key array
// so that concurrent partitions never race on the same slice. Pending tasks
// are split across the pool with internal.ComputeJobsPerTask so that a pass
// with few, uneven buckets still keeps every worker busy instead of piling
// them onto whichever goroutine happens to drain the channel first.
func buildParallel(I, V []int, n, concurrency int) {
	V2 := make([]int, len(V))

	for h := 1; I[0] != -(n + 1); h += h {
		copy(V2, V)

		var i, length int
		var pending []splitTask

		for i < n+1 {
			if I[i] < 0 {
				length -= I[i]
				i -= I[i]
			} else {
				if length != 0 {
					I[i-length] = -length
				}

				length = V[I[i]] + 1 - i
				pending = append(pending, splitTask{start: i, length: length, h: h})
				i += length
				length = 0
			}
		}

		if length != 0 {
			I[i-length] = -length
		}

		runSplitTasks(I, V2, pending, concurrency)
		copy(V, V2)
	}
}

// runSplitTasks partitions pending across at most concurrency workers,
// sized by internal.ComputeJobsPerTask, and runs each worker's share on its
// own goroutine.
func runSplitTasks(I, V2 []int, pending []splitTask, concurrency int) {
	if len(pending) == 0 {
		return
	}

	workers := concurrency

	if workers > len(pending) {
		workers = len(pending)
	}

	counts := make([]uint, workers)
	counts, err := internal.ComputeJobsPerTask(counts, uint(len(pending)), uint(workers))

	if err != nil {
		workers = 1
		counts = []uint{uint(len(pending))}
	}

	var wg sync.WaitGroup
	offset := 0

	for _, count := range counts {
		if count == 0 {
			continue
		}

		share := pending[offset : offset+int(count)]
		offset += int(count)

		wg.Add(1)

		go func(share []splitTask) {
			defer wg.Done()

			for _, t := range share {
				split(I, V2, t.start, t.length, t.h)
			}
		}(share)
	}

	wg.Wait()
}

// matchlen returns the number of bytes common to the start of a and b.
func matchlen(a, b []byte) int {
	i := 0

	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}

	return i
}

// search performs a binary search over I[st:en] for the suffix with the
// longest common prefix with nbuf, returning the matched old-buffer offset
// and the match length. Ties are broken toward the higher-ranked suffix
// (index en), matching the rank ordering qsufsort produces.
func search(I []int, obuf, nbuf []byte, st, en int) (pos, n int) {
	if en-st < 2 {
		x := matchlen(obuf[I[st]:], nbuf)
		y := matchlen(obuf[I[en]:], nbuf)

		if x > y {
			return I[st], x
		}

		return I[en], y
	}

	x := st + (en-st)/2

	if prefixCompare(obuf[I[x]:], nbuf) < 0 {
		return search(I, obuf, nbuf, x, en)
	}

	return search(I, obuf, nbuf, st, x)
}

// prefixCompare compares a and b the way memcmp(a, b, min(len(a), len(b)))
// would: it reports a negative, zero or positive value from the first
// differing byte within the shared prefix, treating one buffer being a
// prefix of the other as equal rather than smaller.
func prefixCompare(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}

	return 0
}

// Search finds the longest match in the indexed buffer for the start of
// nbuf, returning the matching offset into the indexed buffer and the
// match length.
func (this *Index) Search(nbuf []byte) (pos, length int) {
	return search(this.I, this.buf, nbuf, 0, len(this.buf))
}

// Len returns the size of the indexed buffer.
func (this *Index) Len() int {
	return len(this.buf)
}
