//go:build test

package smbwire

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWideString(t *testing.T) {
	t.Run("EncodesTwoBytesPerUnit", func(t *testing.T) {
		s := WideString("a.txt")
		assert.Equal(t, 10, s.Size())

		buf := make([]byte, s.Size())
		w, _ := NewWriter(NewBytesWriter(buf))
		w.WriteFrom(s)
		require.NoError(t, w.Err())

		expected := []byte{'a', 0, '.', 0, 't', 0, 'x', 0, 't', 0}
		assert.Equal(t, expected, buf)
	})

	t.Run("NoTerminator", func(t *testing.T) {
		encoded, err := MarshalBinaryGeneric(WideString("x"))
		require.NoError(t, err)
		assert.Equal(t, []byte{'x', 0}, encoded)
	})

	t.Run("NonASCIIRoundTrip", func(t *testing.T) {
		s := WideString("файл π")
		encoded, err := MarshalBinaryGeneric(s)
		require.NoError(t, err)
		assert.Len(t, encoded, s.Size())

		r, _ := NewReader(NewBytesReader(encoded))
		decoded, err := ReadWideString(r, len(encoded))
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
	})

	t.Run("EmptyString", func(t *testing.T) {
		assert.Equal(t, 0, WideString("").Size())

		r, _ := NewReader(NewBytesReader(nil))
		decoded, err := ReadWideString(r, 0)
		require.NoError(t, err)
		assert.Equal(t, WideString(""), decoded)
	})

	t.Run("ExternalLengthGovernsDecode", func(t *testing.T) {
		// Two strings back to back; only the sibling-supplied byte count
		// separates them.
		buf := append([]byte{'a', 0, 'b', 0}, 'c', 0)
		r, _ := NewReader(NewBytesReader(buf))

		first, err := ReadWideString(r, 4)
		require.NoError(t, err)
		assert.Equal(t, WideString("ab"), first)

		second, err := ReadWideString(r, 2)
		require.NoError(t, err)
		assert.Equal(t, WideString("c"), second)
	})

	t.Run("TruncatedSourceFails", func(t *testing.T) {
		r, _ := NewReader(NewBytesReader([]byte{'a', 0}))
		_, err := ReadWideString(r, 6)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
}
