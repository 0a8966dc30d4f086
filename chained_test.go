//go:build test

package smbwire

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// chainRecord is an 8-byte test record for chain layouts.
type chainRecord = Fixed[mockPayload]

// shortRecord is a 6-byte record, so chains over it need real padding.
type shortRecord = Fixed[struct {
	A uint32
	B uint16
}]

// wrapRecord decodes through its own Reader wrapper, the way message-level
// records do, so the chain walk has to follow the shared stream position
// rather than its own byte count.
type wrapRecord struct {
	Tag  uint16
	Body []byte
}

func (v *wrapRecord) Size() int { return 4 + len(v.Body) }

func (v *wrapRecord) WriteTo(writer io.Writer) (int64, error) {
	w, err := NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()
	w.WriteUint16(v.Tag)
	w.WriteUint16(uint16(len(v.Body)))
	w.WriteBytes(v.Body)
	w.Flush()
	return w.Count() - start, w.Err()
}

func (v *wrapRecord) ReadFrom(reader io.Reader) (int64, error) {
	r, err := NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()
	var n uint16
	r.ReadUint16(&v.Tag)
	r.ReadUint16(&n)
	v.Body = r.ReadBytes(int(n))
	return r.Count() - start, r.Err()
}

func (v *wrapRecord) MarshalBinary() ([]byte, error)    { return MarshalBinaryGeneric(v) }
func (v *wrapRecord) UnmarshalBinary(data []byte) error { return UnmarshalBinaryGeneric(v, data) }
func (v *wrapRecord) MarshalTo(buf []byte) (int, error) { return MarshalToGeneric(v, buf) }

type ChainedListTestSuite struct {
	suite.Suite
}

func (s *ChainedListTestSuite) TestTwoRecordLayout() {
	a := &chainRecord{mockPayload{ID: 1, Data: [4]byte{0xA1, 0xA2, 0xA3, 0xA4}}}
	b := &chainRecord{mockPayload{ID: 2, Data: [4]byte{0xB1, 0xB2, 0xB3, 0xB4}}}
	list := NewChainedList(4, a, b)

	// 8-byte body + 4-byte next-entry offset + bare 8-byte last record.
	s.Require().Equal(20, list.Size())

	encoded, err := list.MarshalBinary()
	s.Require().NoError(err)
	s.Require().Len(encoded, 20)

	// The first record's body is already 4-aligned, so its next-entry
	// offset follows immediately and holds its full 12-byte stride.
	s.Assert().Equal([]byte{12, 0, 0, 0}, encoded[8:12])
	s.Assert().Equal(byte(0xA1), encoded[4])
	s.Assert().Equal(byte(0xB1), encoded[16])

	var decoded ChainedList[*chainRecord]
	decoded.Alignment = 4
	s.Require().NoError(decoded.UnmarshalBinary(encoded))
	s.Require().Len(decoded.Items, 2)
	s.Assert().Equal(a.Payload, decoded.Items[0].Payload)
	s.Assert().Equal(b.Payload, decoded.Items[1].Payload)
}

func (s *ChainedListTestSuite) TestPaddedStride() {
	a := &shortRecord{}
	a.Payload.A = 0x11111111
	a.Payload.B = 0x2222
	b := &shortRecord{}
	b.Payload.A = 0x33333333
	b.Payload.B = 0x4444
	list := NewChainedList(4, a, b)

	// 6-byte body pads to 8, offset field ends at 12, last record is bare.
	s.Require().Equal(18, list.Size())

	encoded, err := list.MarshalBinary()
	s.Require().NoError(err)
	s.Require().Len(encoded, 18)
	s.Assert().Equal([]byte{0, 0}, encoded[6:8], "alignment padding")
	s.Assert().Equal([]byte{12, 0, 0, 0}, encoded[8:12])

	var decoded ChainedList[*shortRecord]
	decoded.Alignment = 4
	s.Require().NoError(decoded.UnmarshalBinary(encoded))
	s.Require().Len(decoded.Items, 2)
	s.Assert().Equal(a.Payload, decoded.Items[0].Payload)
	s.Assert().Equal(b.Payload, decoded.Items[1].Payload)
}

func (s *ChainedListTestSuite) TestEmptyList() {
	list := NewChainedList[*chainRecord](4)
	s.Assert().Equal(0, list.Size())

	encoded, err := list.MarshalBinary()
	s.Require().NoError(err)
	s.Assert().Empty(encoded)

	var decoded ChainedList[*chainRecord]
	decoded.Alignment = 4
	s.Require().NoError(decoded.UnmarshalBinary(nil))
	s.Assert().Empty(decoded.Items)
}

func (s *ChainedListTestSuite) TestSingleRecordIsBare() {
	a := &chainRecord{mockPayload{ID: 7}}
	list := NewChainedList(4, a)
	s.Require().Equal(8, list.Size())

	encoded, err := list.MarshalBinary()
	s.Require().NoError(err)
	s.Require().Len(encoded, 8)

	var decoded ChainedList[*chainRecord]
	decoded.Alignment = 4
	s.Require().NoError(decoded.UnmarshalBinary(encoded))
	s.Require().Len(decoded.Items, 1)
	s.Assert().Equal(a.Payload, decoded.Items[0].Payload)
}

func (s *ChainedListTestSuite) TestRecordsWithOwnReaderWrappers() {
	a := &wrapRecord{Tag: 1, Body: []byte{0xA1, 0xA2, 0xA3}}
	b := &wrapRecord{Tag: 2, Body: []byte{0xB1}}
	c := &wrapRecord{Tag: 3, Body: []byte{0xC1, 0xC2}}
	list := NewChainedList(4, a, b, c)

	// 7-byte and 5-byte bodies both stride to 12; the 6-byte last
	// record stays bare.
	s.Require().Equal(30, list.Size())

	encoded, err := list.MarshalBinary()
	s.Require().NoError(err)
	s.Require().Len(encoded, 30)
	s.Assert().Equal([]byte{12, 0, 0, 0}, encoded[8:12])
	s.Assert().Equal([]byte{12, 0, 0, 0}, encoded[20:24])

	var decoded ChainedList[*wrapRecord]
	decoded.Alignment = 4
	s.Require().NoError(decoded.UnmarshalBinary(encoded))
	s.Require().Len(decoded.Items, 3)
	for i, want := range []*wrapRecord{a, b, c} {
		s.Assert().Equal(want.Tag, decoded.Items[i].Tag)
		s.Assert().Equal(want.Body, decoded.Items[i].Body)
	}
}

// corrupt encodes a valid two-record chain and returns the bytes so a test
// can damage the next-entry offset.
func (s *ChainedListTestSuite) corrupt() []byte {
	a := &chainRecord{mockPayload{ID: 1}}
	b := &chainRecord{mockPayload{ID: 2}}
	encoded, err := NewChainedList(4, a, b).MarshalBinary()
	s.Require().NoError(err)
	return encoded
}

func (s *ChainedListTestSuite) decodeErr(data []byte) error {
	var decoded ChainedList[*chainRecord]
	decoded.Alignment = 4
	_, err := decoded.ReadFrom(NewBytesReader(data))
	return err
}

func (s *ChainedListTestSuite) TestMalformedChains() {
	s.T().Run("ZeroOffsetBeforeFinalRecord", func(t *testing.T) {
		data := s.corrupt()
		copy(data[8:12], []byte{0, 0, 0, 0})
		assert.ErrorIs(t, s.decodeErr(data), ErrStructuralViolation)
	})

	s.T().Run("MisalignedOffset", func(t *testing.T) {
		data := s.corrupt()
		copy(data[8:12], []byte{14, 0, 0, 0})
		assert.ErrorIs(t, s.decodeErr(data), ErrAlignmentViolation)
	})

	s.T().Run("OffsetEscapesRegion", func(t *testing.T) {
		data := s.corrupt()
		copy(data[8:12], []byte{100, 0, 0, 0})
		assert.ErrorIs(t, s.decodeErr(data), ErrBoundsViolation)
	})

	s.T().Run("BackwardOffset", func(t *testing.T) {
		data := s.corrupt()
		copy(data[8:12], []byte{4, 0, 0, 0})
		assert.ErrorIs(t, s.decodeErr(data), ErrStructuralViolation)
	})
}

func (s *ChainedListTestSuite) TestDecodeWithinBoundedRegion() {
	a := &chainRecord{mockPayload{ID: 1}}
	b := &chainRecord{mockPayload{ID: 2}}
	chain, err := NewChainedList(4, a, b).MarshalBinary()
	s.Require().NoError(err)

	// Trailing sibling bytes after the chain region must stay untouched.
	trailer := []byte{0xEE, 0xEE, 0xEE, 0xEE}
	buf := append(append([]byte{}, chain...), trailer...)

	r, err := NewReader(NewBytesReader(buf))
	s.Require().NoError(err)

	var decoded ChainedList[*chainRecord]
	decoded.Alignment = 4
	s.Require().NoError(DecodeRegion(r, int64(len(chain)), func(sub *Reader) error {
		_, err := decoded.ReadFrom(sub)
		return err
	}))
	s.Require().Len(decoded.Items, 2)

	// The parent cursor sits at the first trailer byte.
	s.Assert().EqualValues(len(chain), r.Count())
	s.Assert().Equal(trailer, r.ReadBytes(4))
	s.Require().NoError(r.Err())
}

func TestChainedList(t *testing.T) {
	suite.Run(t, new(ChainedListTestSuite))
}
