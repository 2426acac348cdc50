package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DecodeError distinguishes the three ways decode can fail (spec §4.1).
type DecodeError struct {
	Kind uint8
	Msg  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wire: kind %d: %s", e.Kind, e.Msg)
}

func errTruncated(kind uint8, want, got int) error {
	return &DecodeError{Kind: kind, Msg: fmt.Sprintf("truncated: want %d bytes, got %d", want, got)}
}

func errWrongKind(kind, got uint8) error {
	return &DecodeError{Kind: kind, Msg: fmt.Sprintf("wrong kind tag: want %d, got %d", kind, got)}
}

// writer is a small append-only little-endian byte builder that always
// writes into a pre-sized buffer, so callers can't accidentally produce the
// wrong-size message.
type writer struct {
	buf []byte
	off int
}

func newWriter(size int, kind uint8) *writer {
	w := &writer{buf: make([]byte, size)}
	w.buf[0] = kind
	w.off = 1
	return w
}

func (w *writer) u8(v uint8) {
	w.buf[w.off] = v
	w.off++
}

func (w *writer) u16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[w.off:], v)
	w.off += 2
}

func (w *writer) i16(v int16) { w.u16(uint16(v)) }

func (w *writer) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[w.off:], v)
	w.off += 4
}

func (w *writer) i32(v int32) { w.u32(uint32(v)) }

func (w *writer) u64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[w.off:], v)
	w.off += 8
}

func (w *writer) i64(v int64) { w.u64(uint64(v)) }

func (w *writer) f32(v float32) { w.u32(math.Float32bits(v)) }

func (w *writer) bytes(b []byte) {
	copy(w.buf[w.off:], b)
	w.off += len(b)
}

// skip advances past padding bytes, which are already zero from make().
func (w *writer) skip(n int) { w.off += n }

func (w *writer) bytesOut() []byte { return w.buf }

// reader parses a little-endian buffer that has already been validated for
// length and kind tag.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf, off: 1} // kind tag already consumed by caller
}

func (r *reader) u8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *reader) u16() uint16 {
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *reader) i16() int16 { return int16(r.u16()) }

func (r *reader) u32() uint32 {
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *reader) i32() int32 { return int32(r.u32()) }

func (r *reader) u64() uint64 {
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *reader) i64() int64 { return int64(r.u64()) }

func (r *reader) f32() float32 { return math.Float32frombits(r.u32()) }

func (r *reader) bytes(n int) []byte {
	b := make([]byte, n)
	copy(b, r.buf[r.off:r.off+n])
	r.off += n
	return b
}

func (r *reader) skip(n int) { r.off += n }

// checkHeader validates length and kind tag before any field is read.
func checkHeader(data []byte, kind uint8, size int) error {
	if len(data) < size {
		return errTruncated(kind, size, len(data))
	}
	if data[0] != kind {
		return errWrongKind(kind, data[0])
	}
	return nil
}
