//go:build test

package smbwire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MarkerTestSuite struct {
	suite.Suite
	buf    []byte
	writer *Writer
}

func (s *MarkerTestSuite) SetupTest() {
	s.buf = make([]byte, 64)
	s.writer, _ = NewWriter(NewBytesWriter(s.buf))
}

func (s *MarkerTestSuite) TestReserveWritesPlaceholder() {
	s.writer.WriteUint8(0xAA)

	var m Marker[uint16]
	m.Reserve(s.writer)
	s.Assert().EqualValues(1, m.Position())
	s.Assert().EqualValues(3, s.writer.Count())
	s.Assert().Equal([]byte{0xAA, 0, 0}, s.buf[:3])
}

func (s *MarkerTestSuite) TestResolvePatchesAndRestoresCursor() {
	var m Marker[uint32]
	m.Reserve(s.writer)
	s.writer.WriteBytes([]byte{0x11, 0x22})

	m.Resolve(s.writer, 0xCAFE)
	s.Require().NoError(s.writer.Err())

	// The cursor is back where it was; sequential writes continue.
	s.Assert().EqualValues(6, s.writer.Count())
	s.writer.WriteUint8(0x33)
	s.Require().NoError(s.writer.Err())

	s.Assert().Equal([]byte{0xFE, 0xCA, 0x00, 0x00, 0x11, 0x22, 0x33}, s.buf[:7])
	s.Assert().Equal(uint32(0xCAFE), m.Value())
}

func (s *MarkerTestSuite) TestResolveRelative() {
	s.writer.WriteUint32(0xFFFFFFFF) // 4 bytes before the anchor
	anchor := s.writer.Count()

	var m Marker[uint16]
	m.Reserve(s.writer)
	s.writer.WriteBytes(make([]byte, 10))
	m.ResolveRelative(s.writer, anchor)

	s.Require().NoError(s.writer.Err())
	s.Assert().Equal(uint16(12), m.Value()) // 2 placeholder bytes + 10 payload bytes
}

func (s *MarkerTestSuite) TestResolveErrors() {
	s.T().Run("OverflowLatchesError", func(t *testing.T) {
		buf := make([]byte, 8)
		w, _ := NewWriter(NewBytesWriter(buf))
		var m Marker[uint8]
		m.Reserve(w)
		m.Resolve(w, 256)
		assert.ErrorIs(t, w.Err(), ErrEncodingOverflow)
	})

	s.T().Run("ResolveWithoutReserve", func(t *testing.T) {
		buf := make([]byte, 8)
		w, _ := NewWriter(NewBytesWriter(buf))
		var m Marker[uint16]
		m.Resolve(w, 1)
		assert.ErrorIs(t, w.Err(), ErrInvalidWrite)
	})

	s.T().Run("UnseekableSink", func(t *testing.T) {
		w, _ := NewWriter(&bytes.Buffer{})
		var m Marker[uint16]
		m.Reserve(w)
		m.Resolve(w, 1)
		assert.ErrorIs(t, w.Err(), ErrUnseekableSink)
	})

	s.T().Run("BackwardAnchorRejected", func(t *testing.T) {
		buf := make([]byte, 8)
		w, _ := NewWriter(NewBytesWriter(buf))
		var m Marker[uint16]
		m.Reserve(w)
		m.ResolveRelative(w, 100)
		assert.ErrorIs(t, w.Err(), ErrInvalidWrite)
	})
}

func (s *MarkerTestSuite) TestWriteWithAbsOffset() {
	var off Marker[uint32]
	off.Reserve(s.writer)
	s.writer.WriteZeros(4)

	WriteWithAbsOffset(s.writer, &off, bytes.NewReader([]byte{0xDE, 0xAD}))
	s.Require().NoError(s.writer.Err())

	s.Assert().Equal(uint32(8), off.Value())
	s.Assert().Equal([]byte{8, 0, 0, 0}, s.buf[:4])
	s.Assert().Equal([]byte{0xDE, 0xAD}, s.buf[8:10])
}

func (s *MarkerTestSuite) TestWriteWithOffsetSize() {
	s.writer.WriteUint16(0x0101)
	anchor := int64(0)

	var off Marker[uint16]
	var size Marker[uint32]
	off.Reserve(s.writer)
	size.Reserve(s.writer)
	s.writer.Align(8)

	WriteWithOffsetSize(s.writer, &off, &size, anchor, bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	s.Require().NoError(s.writer.Err())

	s.Assert().Equal(uint16(8), off.Value())
	s.Assert().Equal(uint32(5), size.Value())
	s.Assert().EqualValues(13, s.writer.Count())
}

func (s *MarkerTestSuite) TestWriteWithSizeEmptyPayload() {
	var size Marker[uint16]
	size.Reserve(s.writer)
	WriteWithSize(s.writer, &size, bytes.NewReader(nil))

	s.Require().NoError(s.writer.Err())
	s.Assert().Equal(uint16(0), size.Value())
}

func TestMarker(t *testing.T) {
	suite.Run(t, new(MarkerTestSuite))
}

func TestMarkerWidths(t *testing.T) {
	buf := make([]byte, 16)
	w, _ := NewWriter(NewBytesWriter(buf))

	var m8 Marker[uint8]
	var m16 Marker[uint16]
	var m32 Marker[uint32]
	var m64 Marker[uint64]
	m8.Reserve(w)
	m16.Reserve(w)
	m32.Reserve(w)
	m64.Reserve(w)
	require.EqualValues(t, 15, w.Count())

	m8.Resolve(w, 0x01)
	m16.Resolve(w, 0x0202)
	m32.Resolve(w, 0x03030303)
	m64.Resolve(w, 0x0404040404040404)
	require.NoError(t, w.Err())

	expected := []byte{
		0x01,
		0x02, 0x02,
		0x03, 0x03, 0x03, 0x03,
		0x04, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04,
		0x00,
	}
	assert.Equal(t, expected, buf)
}
