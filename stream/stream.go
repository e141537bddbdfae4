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

// Package stream supplies the byte-source/byte-sink capability the delta
// core talks to: bsdiff.Sink on the diff side, bsdiff.Source on the patch
// side. Concrete implementations wrap a bufio'd *os.File or an in-memory
// buffer; both split very large writes into chunks bounded by math.MaxInt32,
// since some callers (bzip2 writers in the envelope package) reject writes
// larger than that in one call.
package stream

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"math"
	"os"
)

const _maxChunk = math.MaxInt32

// writeChunked writes b to w in pieces no larger than _maxChunk bytes.
func writeChunked(w io.Writer, b []byte) (int, error) {
	written := 0

	for len(b) > 0 {
		n := len(b)

		if n > _maxChunk {
			n = _maxChunk
		}

		k, err := w.Write(b[:n])
		written += k

		if err != nil {
			return written, err
		}

		if k != n {
			return written, io.ErrShortWrite
		}

		b = b[n:]
	}

	return written, nil
}

// FileSink is a bsdiff.Sink backed by a buffered *os.File.
type FileSink struct {
	file   *os.File
	writer *bufio.Writer
	closed bool
}

// NewFileSink creates a FileSink that writes to the file at path, truncating
// or creating it as needed.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)

	if err != nil {
		return nil, err
	}

	return &FileSink{file: f, writer: bufio.NewWriterSize(f, 1<<16)}, nil
}

// Write implements bsdiff.Sink.
func (this *FileSink) Write(b []byte) (int, error) {
	if this.closed == true {
		return 0, errors.New("stream closed")
	}

	return writeChunked(this.writer, b)
}

// Close flushes the buffered writer and closes the underlying file.
func (this *FileSink) Close() error {
	if this.closed == true {
		return nil
	}

	this.closed = true

	if err := this.writer.Flush(); err != nil {
		this.file.Close()
		return err
	}

	return this.file.Close()
}

// FileSource is a bsdiff.Source backed by a buffered *os.File.
type FileSource struct {
	file   *os.File
	reader *bufio.Reader
	closed bool
}

// NewFileSource opens the file at path for reading.
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	return &FileSource{file: f, reader: bufio.NewReaderSize(f, 1<<16)}, nil
}

// ReadFull implements bsdiff.Source: it fills buf entirely or returns an error.
func (this *FileSource) ReadFull(buf []byte) error {
	if this.closed == true {
		return errors.New("stream closed")
	}

	_, err := io.ReadFull(this.reader, buf)
	return err
}

// Close closes the underlying file.
func (this *FileSource) Close() error {
	if this.closed == true {
		return nil
	}

	this.closed = true
	return this.file.Close()
}

// BufferStream is a closable read/write stream of bytes backed by a
// bytes.Buffer. It implements bsdiff.Sink, bsdiff.Source and io.Reader,
// so it can stand in for either side of the core, or be handed straight
// to a bzip2 writer/reader in the envelope package.
type BufferStream struct {
	buf    *bytes.Buffer
	closed bool
}

// NewBufferStream creates a new BufferStream, optionally preloaded with an
// initial byte slice (e.g. to replay a patch's diff block as a Source).
func NewBufferStream(args ...[]byte) *BufferStream {
	this := &BufferStream{}

	if len(args) == 1 {
		this.buf = bytes.NewBuffer(args[0])
	} else {
		this.buf = bytes.NewBuffer(make([]byte, 0))
	}

	return this
}

// Write implements bsdiff.Sink. Returns an error if the stream is closed,
// otherwise appends to the internal buffer, growing it as needed.
func (this *BufferStream) Write(b []byte) (int, error) {
	if this.closed == true {
		return 0, errors.New("stream closed")
	}

	return writeChunked(this.buf, b)
}

// Read reads from the internal buffer at the current read offset.
func (this *BufferStream) Read(b []byte) (int, error) {
	if this.closed == true {
		return 0, errors.New("stream closed")
	}

	return this.buf.Read(b)
}

// ReadFull implements bsdiff.Source: it fills buf entirely or returns an error.
func (this *BufferStream) ReadFull(buf []byte) error {
	if this.closed == true {
		return errors.New("stream closed")
	}

	_, err := io.ReadFull(this.buf, buf)
	return err
}

// Close makes the stream unavailable for future reads or writes.
func (this *BufferStream) Close() error {
	this.closed = true
	return nil
}

// Len returns the number of unread/unconsumed bytes left in the stream.
func (this *BufferStream) Len() int {
	return this.buf.Len()
}

// Bytes returns the unread portion of the internal buffer. The slice aliases
// the buffer's storage and is only valid until the next write.
func (this *BufferStream) Bytes() []byte {
	return this.buf.Bytes()
}

// Available returns the number of bytes available for read.
func (this *BufferStream) Available() int {
	if this.closed == true {
		return 0
	}

	return this.buf.Len()
}
