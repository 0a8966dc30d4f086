package smbwire

import (
	"fmt"
	"io"
	"reflect"
)

// ChainedList is a codec for sequences of records linked by per-record
// "offset to next entry" fields, the layout used by create contexts,
// directory query results and change notifications.
//
// On the wire, every record except the last is followed (after padding to
// the list's alignment) by a uint32 holding the distance from that record's
// start to the next record's start, itself padded so the next record begins
// on the alignment boundary. The last record is the bare body: it ends
// exactly where its payload ends, with no offset field and no trailing
// padding. An empty list occupies zero bytes.
//
// Decoding walks the chain inside the current bounded region: a record
// whose body ends at the region end is the last one; anywhere else a
// next-entry offset must follow. A zero offset before the final record is
// ambiguous with "last" and rejected; an offset that is not a multiple of
// the alignment, or that escapes the region, fails the decode.
//
// The next-entry offsets are deferred fields: the encoder cannot know a
// record's stride until the record is written, so each offset is reserved
// as a Marker and back-patched once the following record's position is
// fixed. Both passes therefore require a seekable stream, which every
// message buffer is.
type ChainedList[T Codec] struct {
	Items []T

	// Alignment is the byte boundary each record starts on, relative to
	// the list start. 4 and 8 are the values the wire formats use; 0 or 1
	// disables padding. The enclosing message aligns the list start, so
	// record strides stay boundary-multiples.
	Alignment int
}

// Statically ensure that ChainedList implements Codec.
var _ Codec = (*ChainedList[Codec])(nil)

// NewChainedList creates a list codec over items with the given alignment.
func NewChainedList[T Codec](alignment int, items ...T) *ChainedList[T] {
	return &ChainedList[T]{Items: items, Alignment: alignment}
}

func (l *ChainedList[T]) Len() int { return len(l.Items) }

// nextOffsetWidth is the wire width of a next-entry offset field.
const nextOffsetWidth = 4

// stride returns the on-wire footprint of a non-last record with the given
// body size: body, padding, offset field, padding to the next boundary.
func (l *ChainedList[T]) stride(bodySize int) int {
	s := bodySize
	if l.Alignment > 1 {
		s = Roundup(s, l.Alignment)
	}
	s += nextOffsetWidth
	if l.Alignment > 1 {
		s = Roundup(s, l.Alignment)
	}
	return s
}

// Size calculates the total binary size of the list, including the
// next-entry offset fields and alignment padding.
func (l *ChainedList[T]) Size() int {
	if len(l.Items) == 0 {
		return 0
	}

	totalSize := 0
	lastIndex := len(l.Items) - 1

	for i, item := range l.Items {
		if i < lastIndex {
			totalSize += l.stride(item.Size())
		} else {
			totalSize += item.Size()
		}
	}
	return totalSize
}

// WriteTo writes the whole chain. The offset linking each record to the
// next is reserved as a placeholder and patched once the next record's
// start position is known.
func (l *ChainedList[T]) WriteTo(writer io.Writer) (int64, error) {
	if len(l.Items) == 0 {
		return 0, nil
	}

	w, err := NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()
	lastIndex := len(l.Items) - 1

	for i, item := range l.Items {
		itemStart := w.Count()
		w.WriteFrom(item)

		if i < lastIndex {
			w.Align(l.Alignment)
			var next Marker[uint32]
			next.Reserve(w)
			w.Align(l.Alignment)
			next.ResolveRelative(w, itemStart)
		}
	}
	w.Flush()
	return w.Count() - start, w.Err()
}

// ReadFrom decodes records until the region end. The region is whatever
// the reader is bounded to: the enclosing offset+length pair's view, or
// the whole buffer when the chain is the trailing field.
func (l *ChainedList[T]) ReadFrom(reader io.Reader) (int64, error) {
	r, err := NewReader(reader)
	if err != nil {
		return 0, err
	}

	start := r.Count()
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	r.SeekTo(start)

	// Zero remaining bytes decode to an empty list; there is no one-element
	// encoding of emptiness.
	if start == end {
		return 0, nil
	}

	for {
		itemStart := r.Count()

		// Create a new instance of the concrete type T for decoding into.
		var item T
		elemType := reflect.TypeOf(item)
		if elemType.Kind() == reflect.Ptr {
			elemType = elemType.Elem()
		}
		newItem := reflect.New(elemType).Interface().(T)

		r.ReadTo(newItem)
		if err := r.Err(); err != nil {
			return r.Count() - start, err
		}
		l.Items = append(l.Items, newItem)

		pos := r.Count()
		if pos == end {
			// Bare last record: the body ends exactly at the region end.
			break
		}
		if pos > end {
			return pos - start, fmt.Errorf("%w: record body overran the list region", ErrBoundsViolation)
		}

		r.Align(l.Alignment)
		var next uint32
		r.ReadUint32(&next)
		if err := r.Err(); err != nil {
			return r.Count() - start, err
		}

		if next == 0 {
			return r.Count() - start, fmt.Errorf("%w: zero next-entry offset before the final record", ErrStructuralViolation)
		}
		if l.Alignment > 1 && int(next)%l.Alignment != 0 {
			return r.Count() - start, fmt.Errorf("%w: next-entry offset %d is not a multiple of %d", ErrAlignmentViolation, next, l.Alignment)
		}

		target := itemStart + int64(next)
		if target < r.Count() {
			return r.Count() - start, fmt.Errorf("%w: next-entry offset %d links backwards", ErrStructuralViolation, next)
		}
		if target >= end {
			return r.Count() - start, fmt.Errorf("%w: next-entry offset %d escapes the list region", ErrBoundsViolation, next)
		}
		r.SeekTo(target)
		if err := r.Err(); err != nil {
			return r.Count() - start, err
		}
	}

	return r.Count() - start, r.Err()
}

// --- Boilerplate implementations ---

func (l *ChainedList[T]) MarshalBinary() ([]byte, error) {
	return MarshalBinaryGeneric(l)
}

func (l *ChainedList[T]) UnmarshalBinary(data []byte) error {
	return UnmarshalBinaryGeneric(l, data)
}

func (l *ChainedList[T]) MarshalTo(buf []byte) (int, error) {
	return MarshalToGeneric(l, buf)
}
