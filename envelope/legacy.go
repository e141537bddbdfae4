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

// Package envelope frames delta's three core byte streams (control, diff,
// extra) into the two on-disk wire formats: the legacy BSDIFF40 format
// (three independently bzip2-compressed blocks behind a 32-byte header) and
// the streaming ENDSLEY/BSDIFF43 and BSDIFF44 formats (one interleaved,
// externally-compressed stream behind a 24-byte header).
package envelope

import (
	"bytes"
	"io"

	"github.com/dsnet/compress/bzip2"
	goerrors "github.com/go-errors/errors"

	"github.com/suffixdiff/bsdiff"
	"github.com/suffixdiff/bsdiff/delta"
	"github.com/suffixdiff/bsdiff/stream"
)

const legacyMagic = "BSDIFF40"

var bzipWriterConfig = &bzip2.WriterConfig{Level: bzip2.BestCompression}

// EncodeLegacyOptions controls EncodeLegacy.
type EncodeLegacyOptions struct {
	SuffixSortConcurrency int
	Listener              bsdiff.Listener
}

// EncodeLegacy computes the delta between old and new and writes it to w in
// the legacy BSDIFF40 format: an 8-byte magic, three 8-byte little-endian
// sign-magnitude lengths (compressed control block, compressed diff block,
// size of new), followed by the three bzip2-compressed blocks themselves.
func EncodeLegacy(old, new []byte, w io.Writer, opts EncodeLegacyOptions) error {
	ctrl := stream.NewBufferStream()
	diffOut := stream.NewBufferStream()
	extraOut := stream.NewBufferStream()

	err := delta.Diff(old, new, ctrl, diffOut, extraOut, delta.Options{
		SuffixSortConcurrency: opts.SuffixSortConcurrency,
		Listener:              opts.Listener,
	})

	if err != nil {
		return goerrors.Wrap(err, 0)
	}

	ctrlBlock, err := bzipCompress(ctrl.Bytes())

	if err != nil {
		return goerrors.Wrap(err, 0)
	}

	diffBlock, err := bzipCompress(diffOut.Bytes())

	if err != nil {
		return goerrors.Wrap(err, 0)
	}

	extraBlock, err := bzipCompress(extraOut.Bytes())

	if err != nil {
		return goerrors.Wrap(err, 0)
	}

	header := make([]byte, 32)
	copy(header, legacyMagic)
	delta.EncodeInt64(int64(len(ctrlBlock)), header[8:16])
	delta.EncodeInt64(int64(len(diffBlock)), header[16:24])
	delta.EncodeInt64(int64(len(new)), header[24:32])

	for _, chunk := range [][]byte{header, ctrlBlock, diffBlock, extraBlock} {
		if _, err := w.Write(chunk); err != nil {
			return goerrors.Wrap(err, 0)
		}
	}

	return nil
}

// DecodeLegacy reads a BSDIFF40 patch from r and applies it to old, returning
// the reconstructed buffer.
func DecodeLegacy(old []byte, r io.ReaderAt, opts delta.ApplyOptions) ([]byte, error) {
	header := make([]byte, 32)

	if _, err := r.ReadAt(header, 0); err != nil {
		return nil, goerrors.Wrap(delta.NewError(bsdiff.ERR_STREAM_IO, "failed reading legacy header", err), 0)
	}

	if string(header[:8]) != legacyMagic {
		return nil, goerrors.Wrap(delta.ErrCorrupt, 0)
	}

	ctrlLen := delta.DecodeInt64(header[8:16])
	diffLen := delta.DecodeInt64(header[16:24])
	newSize := delta.DecodeInt64(header[24:32])

	if ctrlLen < 0 || diffLen < 0 || newSize < 0 {
		return nil, goerrors.Wrap(delta.ErrCorrupt, 0)
	}

	ctrlBlock, err := readSection(r, 32, ctrlLen)

	if err != nil {
		return nil, goerrors.Wrap(err, 0)
	}

	diffBlock, err := readSection(r, 32+ctrlLen, diffLen)

	if err != nil {
		return nil, goerrors.Wrap(err, 0)
	}

	extraBlock, err := readTail(r, 32+ctrlLen+diffLen)

	if err != nil {
		return nil, goerrors.Wrap(err, 0)
	}

	ctrlRaw, err := bzipDecompress(ctrlBlock)

	if err != nil {
		return nil, goerrors.Wrap(err, 0)
	}

	diffRaw, err := bzipDecompress(diffBlock)

	if err != nil {
		return nil, goerrors.Wrap(err, 0)
	}

	extraRaw, err := bzipDecompress(extraBlock)

	if err != nil {
		return nil, goerrors.Wrap(err, 0)
	}

	result, err := delta.Apply(old, newSize,
		stream.NewBufferStream(ctrlRaw),
		stream.NewBufferStream(diffRaw),
		stream.NewBufferStream(extraRaw),
		opts)

	if err != nil {
		return nil, goerrors.Wrap(err, 0)
	}

	return result, nil
}

// bzip2NewWriter and bzip2NewReader adapt dsnet/compress/bzip2's
// constructors to the envelope.Compressor/Decompressor interfaces used by
// the streaming format's algorithm registry.
func bzip2NewWriter(w io.Writer) (io.WriteCloser, error) {
	return bzip2.NewWriter(w, bzipWriterConfig)
}

func bzip2NewReader(r io.Reader) (io.ReadCloser, error) {
	return bzip2.NewReader(r, nil)
}

func bzipCompress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := bzip2.NewWriter(&buf, bzipWriterConfig)

	if err != nil {
		return nil, err
	}

	if _, err := w.Write(raw); err != nil {
		w.Close()
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func bzipDecompress(compressed []byte) ([]byte, error) {
	r, err := bzip2.NewReader(bytes.NewReader(compressed), nil)

	if err != nil {
		return nil, err
	}

	defer r.Close()

	return io.ReadAll(r)
}

func readSection(r io.ReaderAt, offset, length int64) ([]byte, error) {
	buf := make([]byte, length)

	if _, err := io.ReadFull(io.NewSectionReader(r, offset, length), buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// readTail reads everything available from offset to the end of r. Since
// io.ReaderAt does not expose a total length, it grows a buffer until a
// short read (or EOF) is observed.
func readTail(r io.ReaderAt, offset int64) ([]byte, error) {
	const chunk = 64 * 1024

	var out []byte
	buf := make([]byte, chunk)

	for {
		n, err := r.ReadAt(buf, offset+int64(len(out)))
		out = append(out, buf[:n]...)

		if err == io.EOF {
			return out, nil
		}

		if err != nil {
			return nil, err
		}

		if n == 0 {
			return out, nil
		}
	}
}
