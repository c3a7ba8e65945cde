// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/imgcompress

// Package cursor provides a bounds-checked big-endian cursor over a byte slice.
package cursor

import (
	"encoding/binary"
	"errors"
)

// ErrShort is returned when a read or write runs past the end of the buffer.
var ErrShort = errors.New("cursor: out of bounds")

// Writer writes fixed-width fields into a preallocated buffer.
type Writer struct {
	buf []byte
	off int
}

// NewWriter creates a writer over buf starting at offset 0.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Bytes returns the written prefix of the buffer.
func (w *Writer) Bytes() []byte { return w.buf[:w.off] }

// WriteBytes copies p into the buffer.
func (w *Writer) WriteBytes(p []byte) error {
	if len(w.buf)-w.off < len(p) {
		return ErrShort
	}
	w.off += copy(w.buf[w.off:], p)
	return nil
}

// WriteUint16 writes a big-endian uint16.
func (w *Writer) WriteUint16(v uint16) error {
	if len(w.buf)-w.off < 2 {
		return ErrShort
	}
	binary.BigEndian.PutUint16(w.buf[w.off:], v)
	w.off += 2
	return nil
}

// WriteUint32 writes a big-endian uint32.
func (w *Writer) WriteUint32(v uint32) error {
	if len(w.buf)-w.off < 4 {
		return ErrShort
	}
	binary.BigEndian.PutUint32(w.buf[w.off:], v)
	w.off += 4
	return nil
}

// Reader reads fixed-width fields from a byte slice.
type Reader struct {
	buf []byte
	off int
}

// NewReader creates a reader over buf starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the current read offset.
func (r *Reader) Offset() int { return r.off }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.off }

// ReadBytes returns the next n bytes without copying.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, ErrShort
	}
	p := r.buf[r.off : r.off+n]
	r.off += n
	return p, nil
}

// ReadUint16 reads a big-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if r.Len() < 2 {
		return 0, ErrShort
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// ReadUint32 reads a big-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.Len() < 4 {
		return 0, ErrShort
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}
