// Package codec implements ChronX's canonical encoding: deterministic,
// length-delimited binary, little-endian integers, length-prefixed variable
// fields, tag-dispatched sum types. Every persisted record and
// every transaction body uses this encoding — hand-rolled rather than
// reflection-based (manual encoding/binary.LittleEndian.AppendUint*
// calls with explicit length prefixes).
package codec

import (
	"encoding/binary"
	"fmt"
)

// Writer appends canonical-encoded fields to an internal buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated canonical encoding.
func (w *Writer) Bytes() []byte { return w.buf }

// U8 appends a single byte.
func (w *Writer) U8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

// Bool appends a one-byte boolean.
func (w *Writer) Bool(v bool) *Writer {
	if v {
		return w.U8(1)
	}
	return w.U8(0)
}

// U16 appends a little-endian uint16.
func (w *Writer) U16(v uint16) *Writer {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
	return w
}

// U32 appends a little-endian uint32.
func (w *Writer) U32(v uint32) *Writer {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	return w
}

// U64 appends a little-endian uint64.
func (w *Writer) U64(v uint64) *Writer {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	return w
}

// I64 appends a little-endian int64 (used for timestamps).
func (w *Writer) I64(v int64) *Writer {
	return w.U64(uint64(v))
}

// Raw appends fixed-width bytes verbatim (no length prefix) — used for
// 32-byte ids whose length is already fixed by the schema.
func (w *Writer) Raw(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// Bytes32 appends raw 32 bytes.
func (w *Writer) Bytes32(b [32]byte) *Writer {
	return w.Raw(b[:])
}

// VarBytes appends a uint32-length-prefixed byte slice.
func (w *Writer) VarBytes(b []byte) *Writer {
	w.U32(uint32(len(b)))
	return w.Raw(b)
}

// VarString appends a length-prefixed UTF-8 string.
func (w *Writer) VarString(s string) *Writer {
	return w.VarBytes([]byte(s))
}

// OptionalBytes appends a presence byte followed by VarBytes when present.
func (w *Writer) OptionalBytes(b []byte, present bool) *Writer {
	w.Bool(present)
	if present {
		w.VarBytes(b)
	}
	return w
}

// Reader consumes canonical-encoded fields from a byte slice.
type Reader struct {
	buf []byte
	pos int
	err error
}

// NewReader wraps data for sequential decoding.
func NewReader(data []byte) *Reader { return &Reader{buf: data} }

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

func (r *Reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.buf) {
		r.err = fmt.Errorf("codec: unexpected end of input (need %d bytes at offset %d, have %d)", n, r.pos, len(r.buf))
		return false
	}
	return true
}

// U8 reads a single byte.
func (r *Reader) U8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.buf[r.pos]
	r.pos++
	return v
}

// Bool reads a one-byte boolean.
func (r *Reader) Bool() bool {
	return r.U8() != 0
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v
}

// I64 reads a little-endian int64.
func (r *Reader) I64() int64 {
	return int64(r.U64())
}

// Raw reads n raw bytes verbatim.
func (r *Reader) Raw(n int) []byte {
	if !r.need(n) {
		return nil
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out
}

// Bytes32 reads raw 32 bytes.
func (r *Reader) Bytes32() [32]byte {
	var out [32]byte
	copy(out[:], r.Raw(32))
	return out
}

// maxVarBytes bounds a single length-prefixed field to guard against a
// corrupt/adversarial length prefix forcing a huge allocation.
const maxVarBytes = 16 << 20

// VarBytes reads a uint32-length-prefixed byte slice.
func (r *Reader) VarBytes() []byte {
	n := r.U32()
	if r.err != nil {
		return nil
	}
	if n > maxVarBytes {
		r.err = fmt.Errorf("codec: var field length %d exceeds maximum %d", n, maxVarBytes)
		return nil
	}
	return r.Raw(int(n))
}

// VarString reads a length-prefixed UTF-8 string.
func (r *Reader) VarString() string {
	return string(r.VarBytes())
}

// OptionalBytes reads a presence byte and, if set, a VarBytes field.
func (r *Reader) OptionalBytes() ([]byte, bool) {
	present := r.Bool()
	if !present || r.err != nil {
		return nil, present
	}
	return r.VarBytes(), true
}

// Remaining reports whether the reader has trailing unconsumed bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}
