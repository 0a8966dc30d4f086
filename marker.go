package smbwire

import (
	"fmt"
	"io"
	"math"
)

// WireUint constrains the integer widths a deferred wire field may have.
type WireUint interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// widthOf reports the encoded width of T in bytes.
func widthOf[T WireUint]() int {
	var v T
	switch any(v).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// maxOf reports the largest value T can carry on the wire.
func maxOf[T WireUint]() uint64 {
	switch widthOf[T]() {
	case 1:
		return math.MaxUint8
	case 2:
		return math.MaxUint16
	case 4:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

// Marker is a deferred-value cell for offset and length fields whose value
// is only known after the payload they describe has been written. Reserve
// emits a zero placeholder of T's width and records its position; Resolve
// seeks back, patches the final value in, and restores the write cursor so
// sequential encoding continues unaffected.
//
// A Marker belongs to exactly one encode call. It must be resolved before
// the enclosing structure's WriteTo returns; the WriteWith* helpers below
// guarantee that by pairing each marker with the write of its payload.
type Marker[T WireUint] struct {
	pos      int64 // absolute stream position of the placeholder bytes
	value    T
	reserved bool
	resolved bool
}

// Reserve writes widthOf(T) zero bytes at the current position and records
// that position for the later patch.
func (m *Marker[T]) Reserve(w *Writer) {
	m.pos = w.Count()
	m.reserved = true
	w.WriteZeros(int64(widthOf[T]()))
}

// Position returns the stream position the placeholder was written at.
func (m *Marker[T]) Position() int64 { return m.pos }

// Value returns the resolved value. Zero until Resolve has run.
func (m *Marker[T]) Value() T { return m.value }

// Resolve patches v into the placeholder. The write cursor is restored
// afterwards, so the caller keeps appending where it left off. A value
// that does not fit T's width latches ErrEncodingOverflow.
func (m *Marker[T]) Resolve(w *Writer, v uint64) {
	if w.Err() != nil {
		return
	}
	if !m.reserved {
		w.setError(fmt.Errorf("%w: resolving a marker that was never reserved", ErrInvalidWrite))
		return
	}
	if v > maxOf[T]() {
		w.setError(fmt.Errorf("%w: %d does not fit in %d bytes", ErrEncodingOverflow, v, widthOf[T]()))
		return
	}

	restore := w.Count()
	if _, err := w.Seek(m.pos, io.SeekStart); err != nil {
		return
	}
	switch widthOf[T]() {
	case 1:
		w.WriteUint8(uint8(v))
	case 2:
		w.WriteUint16(uint16(v))
	case 4:
		w.WriteUint32(uint32(v))
	default:
		w.WriteUint64(v)
	}
	if _, err := w.Seek(restore, io.SeekStart); err != nil {
		return
	}
	m.value = T(v)
	m.resolved = true
}

// ResolveRelative patches the distance from anchor to the current write
// position. anchor is an absolute stream position: the message start, the
// enclosing record's start, or another marker's Position (possibly plus a
// constant), depending on what the wire field is documented to measure.
func (m *Marker[T]) ResolveRelative(w *Writer, anchor int64) {
	cur := w.Count()
	if cur < anchor {
		w.setError(fmt.Errorf("%w: write position %d behind anchor %d", ErrInvalidWrite, cur, anchor))
		return
	}
	m.Resolve(w, uint64(cur-anchor))
}

// --- Deferred-field write patterns ---
//
// Each helper writes a variable payload and resolves the marker(s) that
// describe it, in one step. They mirror the recurring offset/length field
// arrangements of the wire format: "offset from message start", "offset
// from record start", "byte length of the following payload", and the
// combined offset+length pair over a single payload.

// WriteWithAbsOffset writes payload at the current position and resolves
// off to that position measured from the stream start.
func WriteWithAbsOffset[T WireUint](w *Writer, off *Marker[T], payload io.WriterTo) {
	off.Resolve(w, uint64(w.Count()))
	w.WriteFrom(payload)
}

// WriteWithRelOffset writes payload at the current position and resolves
// off to that position measured from anchor.
func WriteWithRelOffset[T WireUint](w *Writer, off *Marker[T], anchor int64, payload io.WriterTo) {
	off.ResolveRelative(w, anchor)
	w.WriteFrom(payload)
}

// WriteWithSize writes payload and resolves size to the number of bytes it
// occupied. A zero-length payload resolves to 0, which is valid and common.
func WriteWithSize[T WireUint](w *Writer, size *Marker[T], payload io.WriterTo) {
	start := w.Count()
	w.WriteFrom(payload)
	size.Resolve(w, uint64(w.Count()-start))
}

// WriteWithOffsetSize writes payload once and resolves both markers over
// it: off to the payload's start measured from anchor, size to its byte
// length. The offset is anchor-relative; the length is always an absolute
// byte count.
func WriteWithOffsetSize[O, S WireUint](w *Writer, off *Marker[O], size *Marker[S], anchor int64, payload io.WriterTo) {
	off.ResolveRelative(w, anchor)
	start := w.Count()
	w.WriteFrom(payload)
	size.Resolve(w, uint64(w.Count()-start))
}
