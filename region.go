package smbwire

import (
	"fmt"
	"io"
)

// BoundedReader restricts a seekable stream to the region
// [start, start+n), where start is the stream position at creation time.
// Nested payloads (context data, ioctl buffers) are decoded through one of
// these so a malformed or forward-compatible payload can never read into
// the sibling fields that follow it.
//
// Positions remain absolute: offsets read from the wire can be followed
// with the same Seek arithmetic as on the parent stream, but any seek that
// leaves the region fails with ErrBoundsViolation, and reads truncate at
// the region end. The parent's cursor is wherever the region decode left
// it; callers restore it after discarding the view.
type BoundedReader struct {
	r          io.ReadSeeker
	start, end int64
	pos        int64
}

// NewBoundedReader carves the next n bytes of r into a bounded region.
func NewBoundedReader(r io.ReadSeeker, n int64) (*BoundedReader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative region length %d", ErrBoundsViolation, n)
	}
	cur, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	return &BoundedReader{r: r, start: cur, end: cur + n, pos: cur}, nil
}

// Close never closes the parent; the region is a discardable view.
func (b *BoundedReader) Close() error { return nil }

// Start returns the absolute stream position the region begins at.
func (b *BoundedReader) Start() int64 { return b.start }

// Len returns the number of unread bytes left in the region.
func (b *BoundedReader) Len() int64 {
	if b.pos >= b.end {
		return 0
	}
	return b.end - b.pos
}

// Size returns the total length of the region.
func (b *BoundedReader) Size() int { return int(b.end - b.start) }

// Read reads up to the region end, then reports io.EOF.
func (b *BoundedReader) Read(p []byte) (int, error) {
	if b.pos >= b.end {
		return 0, io.EOF
	}
	if max := b.end - b.pos; int64(len(p)) > max {
		p = p[:max]
	}
	n, err := b.r.Read(p)
	b.pos += int64(n)
	return n, err
}

// ReadByte implements io.ByteReader.
func (b *BoundedReader) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := b.Read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteTo drains the rest of the region into w.
func (b *BoundedReader) WriteTo(w io.Writer) (int64, error) {
	n, err := io.CopyN(w, b.r, b.Len())
	b.pos += n
	if err == io.EOF {
		err = nil
	}
	return n, err
}

// Seek repositions within the region. Positions are absolute stream
// positions, same as on the parent; io.SeekEnd is relative to the region
// end, not the stream end. A target outside [start, end] is a bounds
// violation.
func (b *BoundedReader) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = b.pos + offset
	case io.SeekEnd:
		target = b.end + offset
	default:
		return b.pos, ErrInvalidWhence
	}

	if target < b.start || target > b.end {
		return b.pos, fmt.Errorf("%w: seek to %d outside region [%d, %d)", ErrBoundsViolation, target, b.start, b.end)
	}

	newPos, err := b.r.Seek(target, io.SeekStart)
	if err != nil {
		return b.pos, err
	}
	b.pos = newPos
	return newPos, nil
}

var _ ReaderPro = (*BoundedReader)(nil)

// DecodeRegion decodes a length-bounded payload in place: it bounds the
// next length bytes of r, hands them to decode, then restores r to the
// first byte after the region so sibling fields continue at the correct
// position regardless of where the nested decode stopped.
func DecodeRegion(r *Reader, length int64, decode func(*Reader) error) error {
	if r.Err() != nil {
		return r.Err()
	}
	view, err := NewBoundedReader(r, length)
	if err != nil {
		r.setError(err)
		return err
	}
	sub, err := NewReader(view)
	if err != nil {
		r.setError(err)
		return err
	}
	sub = sub.WithByteOrder(r.order)
	if err := decode(sub); err != nil {
		r.setError(err)
		return err
	}
	// Reposition the parent after the region. The nested decode moved the
	// shared cursor, so this is an absolute seek, not a relative skip.
	_, err = r.Seek(view.end, io.SeekStart)
	return err
}
