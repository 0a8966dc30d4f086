//go:build test

package smbwire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedReader(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

	t.Run("ReadTruncatesAtRegionEnd", func(t *testing.T) {
		src := bytes.NewReader(data)
		_, err := src.Seek(4, io.SeekStart)
		require.NoError(t, err)

		view, err := NewBoundedReader(src, 8)
		require.NoError(t, err)
		assert.EqualValues(t, 4, view.Start())
		assert.Equal(t, 8, view.Size())

		got, err := io.ReadAll(view)
		require.NoError(t, err)
		assert.Equal(t, data[4:12], got)

		// The region is exhausted even though the stream has more bytes.
		n, err := view.Read(make([]byte, 1))
		assert.Zero(t, n)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("SeekIsAbsoluteAndBounded", func(t *testing.T) {
		src := bytes.NewReader(data)
		_, err := src.Seek(4, io.SeekStart)
		require.NoError(t, err)
		view, err := NewBoundedReader(src, 8)
		require.NoError(t, err)

		// SeekEnd is the region end, not the stream end.
		pos, err := view.Seek(0, io.SeekEnd)
		require.NoError(t, err)
		assert.EqualValues(t, 12, pos)

		// Absolute positions within the region work.
		pos, err = view.Seek(6, io.SeekStart)
		require.NoError(t, err)
		assert.EqualValues(t, 6, pos)
		b, err := view.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, byte(6), b)

		// Leaving the region in either direction is rejected.
		_, err = view.Seek(2, io.SeekStart)
		assert.ErrorIs(t, err, ErrBoundsViolation)
		_, err = view.Seek(13, io.SeekStart)
		assert.ErrorIs(t, err, ErrBoundsViolation)
		_, err = view.Seek(1, io.SeekEnd)
		assert.ErrorIs(t, err, ErrBoundsViolation)
	})

	t.Run("NegativeLengthRejected", func(t *testing.T) {
		_, err := NewBoundedReader(bytes.NewReader(data), -1)
		assert.ErrorIs(t, err, ErrBoundsViolation)
	})

	t.Run("WriteToDrainsRegionOnly", func(t *testing.T) {
		src := bytes.NewReader(data)
		view, err := NewBoundedReader(src, 5)
		require.NoError(t, err)

		var buf bytes.Buffer
		n, err := view.WriteTo(&buf)
		require.NoError(t, err)
		assert.EqualValues(t, 5, n)
		assert.Equal(t, data[:5], buf.Bytes())
		assert.Zero(t, view.Len())
	})
}

func TestDecodeRegion(t *testing.T) {
	data := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0x11, 0x22}

	t.Run("RestoresParentPastRegion", func(t *testing.T) {
		r, err := NewReader(NewBytesReader(data))
		require.NoError(t, err)

		var first uint8
		// The decode reads one byte of a four-byte region; the parent must
		// still land on the first sibling byte after it.
		require.NoError(t, DecodeRegion(r, 4, func(sub *Reader) error {
			sub.ReadUint8(&first)
			return sub.Err()
		}))
		assert.Equal(t, uint8(0xAA), first)
		assert.EqualValues(t, 4, r.Count())

		var sibling uint16
		r.ReadUint16(&sibling)
		require.NoError(t, r.Err())
		assert.Equal(t, uint16(0x2211), sibling)
	})

	t.Run("DecodeCannotEscapeRegion", func(t *testing.T) {
		r, err := NewReader(NewBytesReader(data))
		require.NoError(t, err)

		err = DecodeRegion(r, 4, func(sub *Reader) error {
			buf := sub.ReadBytes(6) // only 4 bytes exist in the region
			_ = buf
			return sub.Err()
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("DecodeFailurePropagatesAndLatches", func(t *testing.T) {
		r, err := NewReader(NewBytesReader(data))
		require.NoError(t, err)

		err = DecodeRegion(r, 4, func(sub *Reader) error {
			return ErrUnknownDiscriminant
		})
		assert.ErrorIs(t, err, ErrUnknownDiscriminant)
		assert.ErrorIs(t, r.Err(), ErrUnknownDiscriminant)
	})
}
