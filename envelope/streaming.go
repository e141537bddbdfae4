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

package envelope

import (
	"bytes"
	"fmt"
	"io"
	"log"

	goerrors "github.com/go-errors/errors"

	"github.com/suffixdiff/bsdiff"
	"github.com/suffixdiff/bsdiff/delta"
	"github.com/suffixdiff/bsdiff/stream"
)

// Algorithm identifies the compressor wrapping a streaming envelope's single
// interleaved byte stream.
type Algorithm int

const (
	AlgorithmNone Algorithm = iota
	AlgorithmBzip2
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmBzip2:
		return "bzip2"
	default:
		return "unknown"
	}
}

// Compressor wraps a writer so that bytes written through the result arrive
// compressed at w.
type Compressor interface {
	Apply(w io.Writer) (io.WriteCloser, error)
}

// Decompressor wraps a reader so that bytes read through the result arrive
// decompressed.
type Decompressor interface {
	Apply(r io.Reader) (io.ReadCloser, error)
}

var compressors = map[Algorithm]Compressor{}
var decompressors = map[Algorithm]Decompressor{}

// RegisterCompressor makes a as an available algorithm for EncodeStreaming.
func RegisterCompressor(a Algorithm, c Compressor) {
	if compressors[a] != nil {
		log.Printf("envelope: overwriting compressor registered for %s", a)
	}

	compressors[a] = c
}

// RegisterDecompressor makes a as an available algorithm for DecodeStreaming.
func RegisterDecompressor(a Algorithm, d Decompressor) {
	if decompressors[a] != nil {
		log.Printf("envelope: overwriting decompressor registered for %s", a)
	}

	decompressors[a] = d
}

func init() {
	RegisterCompressor(AlgorithmBzip2, bzip2Compressor{})
	RegisterDecompressor(AlgorithmBzip2, bzip2Decompressor{})
}

type bzip2Compressor struct{}

func (bzip2Compressor) Apply(w io.Writer) (io.WriteCloser, error) {
	return bzip2NewWriter(w)
}

type bzip2Decompressor struct{}

func (bzip2Decompressor) Apply(r io.Reader) (io.ReadCloser, error) {
	return bzip2NewReader(r)
}

const streamingMagic43 = "ENDSLEY/BSDIFF43"
const streamingMagic44 = "ENDSLEY/BSDIFF44"

// StreamingHeader describes a decoded streaming envelope. Checksum and
// OldSize are only populated for BSDIFF44 patches; the core never verifies
// them, so a caller that cares about integrity must check them itself.
type StreamingHeader struct {
	NewSize      int64
	OldSize      int64
	OldChecksum  uint16
	NewChecksum  uint16
	HasChecksums bool
}

// EncodeStreamingOptions controls EncodeStreaming.
type EncodeStreamingOptions struct {
	Algorithm             Algorithm
	BSDIFF44              bool
	SuffixSortConcurrency int
	Listener              bsdiff.Listener
}

// EncodeStreaming computes the delta between old and new and writes it to w
// in the streaming ENDSLEY/BSDIFF43 (or, with opts.BSDIFF44, BSDIFF44)
// format: a 16-byte magic followed by the 8-byte new size (a 24-byte header),
// then, for BSDIFF44, the old size and two Fletcher-16 checksums, followed by
// one compressed stream carrying the control triples and diff/extra bytes
// interleaved in the order the engine emits them (control triple, then its
// Add diff bytes, then its Copy extra bytes, repeated, then the sentinel
// triple).
func EncodeStreaming(old, new []byte, w io.Writer, opts EncodeStreamingOptions) error {
	compressor := compressors[opts.Algorithm]

	if compressor == nil {
		return goerrors.Wrap(fmt.Errorf("no compressor registered for %s", opts.Algorithm), 0)
	}

	magic := streamingMagic43
	header := &bytes.Buffer{}

	if opts.BSDIFF44 {
		magic = streamingMagic44
	}

	header.WriteString(magic)

	var sizeBuf [8]byte
	delta.EncodeInt64(int64(len(new)), sizeBuf[:])
	header.Write(sizeBuf[:])

	if opts.BSDIFF44 {
		delta.EncodeInt64(int64(len(old)), sizeBuf[:])
		header.Write(sizeBuf[:])

		var checksumBuf [4]byte
		putUint16(checksumBuf[0:2], Fletcher16(old))
		putUint16(checksumBuf[2:4], Fletcher16(new))
		header.Write(checksumBuf[:])
	}

	if _, err := w.Write(header.Bytes()); err != nil {
		return goerrors.Wrap(err, 0)
	}

	cw, err := compressor.Apply(w)

	if err != nil {
		return goerrors.Wrap(err, 0)
	}

	interleaved := stream.NewBufferStream()
	ctrl := stream.NewBufferStream()
	diffOut := stream.NewBufferStream()
	extraOut := stream.NewBufferStream()

	if err := delta.Diff(old, new, ctrl, diffOut, extraOut, delta.Options{
		SuffixSortConcurrency: opts.SuffixSortConcurrency,
		Listener:              opts.Listener,
	}); err != nil {
		cw.Close()
		return goerrors.Wrap(err, 0)
	}

	if err := interleave(ctrl.Bytes(), diffOut.Bytes(), extraOut.Bytes(), interleaved); err != nil {
		cw.Close()
		return goerrors.Wrap(err, 0)
	}

	if _, err := cw.Write(interleaved.Bytes()); err != nil {
		cw.Close()
		return goerrors.Wrap(err, 0)
	}

	return goerrors.Wrap(cw.Close(), 0)
}

// interleave replays the control stream and, for each triple, copies its Add
// diff bytes and Copy extra bytes right after it into out, matching the
// order a streaming-format decoder reads them back in.
func interleave(ctrlRaw, diffRaw, extraRaw []byte, out *stream.BufferStream) error {
	ctrl := stream.NewBufferStream(ctrlRaw)
	var diffOff, extraOff int64
	var buf [24]byte

	for {
		if err := ctrl.ReadFull(buf[:]); err != nil {
			return err
		}

		if _, err := out.Write(buf[:]); err != nil {
			return err
		}

		c := delta.DecodeControl(buf[:])

		if c.Add == -1 {
			return nil
		}

		if _, err := out.Write(diffRaw[diffOff : diffOff+c.Add]); err != nil {
			return err
		}

		diffOff += c.Add

		if _, err := out.Write(extraRaw[extraOff : extraOff+c.Copy]); err != nil {
			return err
		}

		extraOff += c.Copy
	}
}

// DecodeStreaming reads a BSDIFF43/BSDIFF44 patch from r and applies it to
// old, returning the reconstructed buffer and the decoded header.
func DecodeStreaming(old []byte, r io.Reader, opts delta.ApplyOptions) ([]byte, *StreamingHeader, error) {
	magic := make([]byte, 16)

	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, nil, goerrors.Wrap(delta.NewError(bsdiff.ERR_STREAM_IO, "failed reading streaming magic", err), 0)
	}

	hdr := &StreamingHeader{}

	switch string(magic) {
	case streamingMagic43:
	case streamingMagic44:
		hdr.HasChecksums = true
	default:
		return nil, nil, goerrors.Wrap(delta.ErrCorrupt, 0)
	}

	var sizeBuf [8]byte

	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, nil, goerrors.Wrap(delta.NewError(bsdiff.ERR_STREAM_IO, "failed reading new size", err), 0)
	}

	hdr.NewSize = delta.DecodeInt64(sizeBuf[:])

	if hdr.NewSize < 0 {
		return nil, nil, goerrors.Wrap(delta.ErrCorrupt, 0)
	}

	if hdr.HasChecksums {
		if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
			return nil, nil, goerrors.Wrap(delta.NewError(bsdiff.ERR_STREAM_IO, "failed reading old size", err), 0)
		}

		hdr.OldSize = delta.DecodeInt64(sizeBuf[:])

		var checksumBuf [4]byte

		if _, err := io.ReadFull(r, checksumBuf[:]); err != nil {
			return nil, nil, goerrors.Wrap(delta.NewError(bsdiff.ERR_STREAM_IO, "failed reading checksums", err), 0)
		}

		hdr.OldChecksum = getUint16(checksumBuf[0:2])
		hdr.NewChecksum = getUint16(checksumBuf[2:4])
	}

	// BSDIFF43/44 headers carry no algorithm tag. The body is always
	// decompressed with the decompressor registered for AlgorithmBzip2; a
	// body written with any other algorithm is not recognised.
	decompressor := decompressors[AlgorithmBzip2]

	cr, err := decompressor.Apply(r)

	if err != nil {
		return nil, nil, goerrors.Wrap(err, 0)
	}

	defer cr.Close()

	interleaved, err := io.ReadAll(cr)

	if err != nil {
		return nil, nil, goerrors.Wrap(err, 0)
	}

	ctrlRaw, diffRaw, extraRaw, err := deinterleave(interleaved)

	if err != nil {
		return nil, nil, goerrors.Wrap(err, 0)
	}

	result, err := delta.Apply(old, hdr.NewSize,
		stream.NewBufferStream(ctrlRaw),
		stream.NewBufferStream(diffRaw),
		stream.NewBufferStream(extraRaw),
		opts)

	if err != nil {
		return nil, nil, goerrors.Wrap(err, 0)
	}

	return result, hdr, nil
}

// deinterleave splits a streaming envelope's single decompressed body back
// into separate control, diff and extra byte slices that delta.Apply expects.
func deinterleave(body []byte) (ctrlRaw, diffRaw, extraRaw []byte, err error) {
	r := stream.NewBufferStream(body)
	var ctrlBuf, diffBuf, extraBuf bytes.Buffer
	var buf [24]byte

	for {
		if err := r.ReadFull(buf[:]); err != nil {
			return nil, nil, nil, err
		}

		ctrlBuf.Write(buf[:])
		c := delta.DecodeControl(buf[:])

		if c.Add == -1 {
			return ctrlBuf.Bytes(), diffBuf.Bytes(), extraBuf.Bytes(), nil
		}

		addChunk := make([]byte, c.Add)

		if err := r.ReadFull(addChunk); err != nil {
			return nil, nil, nil, err
		}

		diffBuf.Write(addChunk)

		copyChunk := make([]byte, c.Copy)

		if err := r.ReadFull(copyChunk); err != nil {
			return nil, nil, nil, err
		}

		extraBuf.Write(copyChunk)
	}
}

func putUint16(buf []byte, v uint16) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
}

func getUint16(buf []byte) uint16 {
	return uint16(buf[0]) | uint16(buf[1])<<8
}
