package smb2

import (
	"bytes"
	"fmt"
	"io"

	"github.com/oy3o/smbwire"
)

// Dialect revisions.
const (
	Dialect0202 uint16 = 0x0202
	Dialect0210 uint16 = 0x0210
	Dialect0300 uint16 = 0x0300
	Dialect0302 uint16 = 0x0302
	Dialect0311 uint16 = 0x0311
)

// NegotiateContextType tags a negotiate context record.
type NegotiateContextType uint16

const (
	PreauthIntegrityCapabilitiesID NegotiateContextType = 0x0001
	EncryptionCapabilitiesID       NegotiateContextType = 0x0002
	CompressionCapabilitiesID      NegotiateContextType = 0x0003
	NetnameNegotiateContextID      NegotiateContextType = 0x0005
	TransportCapabilitiesID        NegotiateContextType = 0x0006
	RDMATransformCapabilitiesID    NegotiateContextType = 0x0007
	SigningCapabilitiesID          NegotiateContextType = 0x0008
)

// negotiateContexts dispatches context bodies by type. There is no
// fallback: a context type nobody registered fails the decode with
// ErrUnknownDiscriminant, because negotiate contexts change how the rest
// of the connection is interpreted and cannot be skipped safely.
var negotiateContexts = smbwire.NewRegistry[NegotiateContextType]()

func init() {
	negotiateContexts.Register(PreauthIntegrityCapabilitiesID, func() smbwire.Codec {
		return &PreauthIntegrityCapabilities{}
	})
	negotiateContexts.Register(EncryptionCapabilitiesID, func() smbwire.Codec {
		return &EncryptionCapabilities{}
	})
	negotiateContexts.Register(CompressionCapabilitiesID, func() smbwire.Codec {
		return &CompressionCapabilities{}
	})
	negotiateContexts.Register(NetnameNegotiateContextID, func() smbwire.Codec {
		return &NetnameNegotiateContext{}
	})
	negotiateContexts.Register(TransportCapabilitiesID, func() smbwire.Codec {
		return &TransportCapabilities{}
	})
	negotiateContexts.Register(RDMATransformCapabilitiesID, func() smbwire.Codec {
		return &RDMATransformCapabilities{}
	})
	negotiateContexts.Register(SigningCapabilitiesID, func() smbwire.Codec {
		return &SigningCapabilities{}
	})
}

// NegotiateContext is one tagged record of the negotiate context list:
// a type discriminant, a byte length for the body, and a body whose shape
// the discriminant selects. The length field is a deferred marker on
// encode and a bounded region on decode.
type NegotiateContext struct {
	ContextType NegotiateContextType
	Data        smbwire.Codec
}

var _ smbwire.Codec = (*NegotiateContext)(nil)

// negotiateContextPrefixSize covers ContextType, DataLength and Reserved.
const negotiateContextPrefixSize = 8

func (c *NegotiateContext) Size() int {
	return negotiateContextPrefixSize + c.Data.Size()
}

func (c *NegotiateContext) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()

	w.WriteUint16(uint16(c.ContextType))
	var dataLen smbwire.Marker[uint16]
	dataLen.Reserve(w)
	w.WriteZeros(4)
	smbwire.WriteWithSize(w, &dataLen, c.Data)

	w.Flush()
	return w.Count() - start, w.Err()
}

func (c *NegotiateContext) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()

	var dataLen uint16
	r.ReadUint16((*uint16)(&c.ContextType))
	r.ReadUint16(&dataLen)
	r.Discard(4)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}

	data, err := negotiateContexts.New(c.ContextType)
	if err != nil {
		r.SetError(err)
		return r.Count() - start, err
	}
	c.Data = data
	if err := smbwire.DecodeRegion(r, int64(dataLen), func(sub *smbwire.Reader) error {
		_, err := data.ReadFrom(sub)
		return err
	}); err != nil {
		return r.Count() - start, err
	}
	return r.Count() - start, r.Err()
}

func (c *NegotiateContext) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(c)
}

func (c *NegotiateContext) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(c, data)
}

func (c *NegotiateContext) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(c, buf)
}

// PreauthIntegrityCapabilities advertises the hash algorithms and salt
// used for pre-authentication integrity.
type PreauthIntegrityCapabilities struct {
	HashAlgorithms []uint16
	Salt           []byte
}

const HashAlgorithmSHA512 uint16 = 0x0001

var _ smbwire.Codec = (*PreauthIntegrityCapabilities)(nil)

func (p *PreauthIntegrityCapabilities) Size() int {
	return 4 + 2*len(p.HashAlgorithms) + len(p.Salt)
}

func (p *PreauthIntegrityCapabilities) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()
	w.WriteUint16(uint16(len(p.HashAlgorithms)))
	w.WriteUint16(uint16(len(p.Salt)))
	for _, alg := range p.HashAlgorithms {
		w.WriteUint16(alg)
	}
	w.WriteBytes(p.Salt)
	w.Flush()
	return w.Count() - start, w.Err()
}

func (p *PreauthIntegrityCapabilities) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()
	var algCount, saltLen uint16
	r.ReadUint16(&algCount)
	r.ReadUint16(&saltLen)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	if algCount == 0 {
		return r.Count() - start, fmt.Errorf("%w: preauth context with no hash algorithms", smbwire.ErrStructuralViolation)
	}
	p.HashAlgorithms = make([]uint16, algCount)
	for i := range p.HashAlgorithms {
		r.ReadUint16(&p.HashAlgorithms[i])
	}
	p.Salt = r.ReadBytes(int(saltLen))
	return r.Count() - start, r.Err()
}

func (p *PreauthIntegrityCapabilities) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(p)
}

func (p *PreauthIntegrityCapabilities) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(p, data)
}

func (p *PreauthIntegrityCapabilities) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(p, buf)
}

// Encryption ciphers.
const (
	CipherAES128CCM uint16 = 0x0001
	CipherAES128GCM uint16 = 0x0002
	CipherAES256CCM uint16 = 0x0003
	CipherAES256GCM uint16 = 0x0004
)

// EncryptionCapabilities lists the ciphers a peer supports, in preference
// order.
type EncryptionCapabilities struct {
	Ciphers []uint16
}

var _ smbwire.Codec = (*EncryptionCapabilities)(nil)

func (e *EncryptionCapabilities) Size() int { return 2 + 2*len(e.Ciphers) }

func (e *EncryptionCapabilities) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()
	w.WriteUint16(uint16(len(e.Ciphers)))
	for _, c := range e.Ciphers {
		w.WriteUint16(c)
	}
	w.Flush()
	return w.Count() - start, w.Err()
}

func (e *EncryptionCapabilities) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()
	var count uint16
	r.ReadUint16(&count)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	e.Ciphers = make([]uint16, count)
	for i := range e.Ciphers {
		r.ReadUint16(&e.Ciphers[i])
	}
	return r.Count() - start, r.Err()
}

func (e *EncryptionCapabilities) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(e)
}

func (e *EncryptionCapabilities) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(e, data)
}

func (e *EncryptionCapabilities) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(e, buf)
}

// Compression algorithms.
const (
	CompressionNone      uint16 = 0x0000
	CompressionLZNT1     uint16 = 0x0001
	CompressionLZ77      uint16 = 0x0002
	CompressionLZ77Huff  uint16 = 0x0003
	CompressionPatternV1 uint16 = 0x0004
	CompressionLZ4       uint16 = 0x0005
)

// CompressionCapabilities lists the compression algorithms a peer
// supports, plus a flags word selecting chained compression.
type CompressionCapabilities struct {
	Flags      uint32
	Algorithms []uint16
}

var _ smbwire.Codec = (*CompressionCapabilities)(nil)

func (c *CompressionCapabilities) Size() int { return 8 + 2*len(c.Algorithms) }

func (c *CompressionCapabilities) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()
	w.WriteUint16(uint16(len(c.Algorithms)))
	w.WriteZeros(2)
	w.WriteUint32(c.Flags)
	for _, a := range c.Algorithms {
		w.WriteUint16(a)
	}
	w.Flush()
	return w.Count() - start, w.Err()
}

func (c *CompressionCapabilities) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()
	var count uint16
	r.ReadUint16(&count)
	r.Discard(2)
	r.ReadUint32(&c.Flags)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	c.Algorithms = make([]uint16, count)
	for i := range c.Algorithms {
		r.ReadUint16(&c.Algorithms[i])
	}
	return r.Count() - start, r.Err()
}

func (c *CompressionCapabilities) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(c)
}

func (c *CompressionCapabilities) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(c, data)
}

func (c *CompressionCapabilities) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(c, buf)
}

// NetnameNegotiateContext carries the server name the client dialed.
// The body is a wide string filling the whole context region; the
// context's data length is the only record of its size.
type NetnameNegotiateContext struct {
	NetName smbwire.WideString
}

var _ smbwire.Codec = (*NetnameNegotiateContext)(nil)

func (n *NetnameNegotiateContext) Size() int { return n.NetName.Size() }

func (n *NetnameNegotiateContext) WriteTo(w io.Writer) (int64, error) {
	return n.NetName.WriteTo(w)
}

func (n *NetnameNegotiateContext) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	r.SeekTo(start)
	n.NetName, err = smbwire.ReadWideString(r, int(end-start))
	if err != nil {
		return r.Count() - start, err
	}
	return r.Count() - start, r.Err()
}

func (n *NetnameNegotiateContext) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(n)
}

func (n *NetnameNegotiateContext) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(n, data)
}

func (n *NetnameNegotiateContext) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(n, buf)
}

// TransportCapabilities advertises transport-level features.
type TransportCapabilities struct {
	smbwire.Fixed[struct {
		Flags uint32
	}]
}

// RDMA transform identifiers.
const (
	RDMATransformNone       uint16 = 0x0000
	RDMATransformEncryption uint16 = 0x0001
	RDMATransformSigning    uint16 = 0x0002
)

// RDMATransformCapabilities lists the transforms usable over RDMA reads
// and writes.
type RDMATransformCapabilities struct {
	Transforms []uint16
}

var _ smbwire.Codec = (*RDMATransformCapabilities)(nil)

func (c *RDMATransformCapabilities) Size() int { return 8 + 2*len(c.Transforms) }

func (c *RDMATransformCapabilities) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()
	w.WriteUint16(uint16(len(c.Transforms)))
	w.WriteZeros(6)
	for _, t := range c.Transforms {
		w.WriteUint16(t)
	}
	w.Flush()
	return w.Count() - start, w.Err()
}

func (c *RDMATransformCapabilities) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()
	var count uint16
	r.ReadUint16(&count)
	r.Discard(6)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	c.Transforms = make([]uint16, count)
	for i := range c.Transforms {
		r.ReadUint16(&c.Transforms[i])
	}
	return r.Count() - start, r.Err()
}

func (c *RDMATransformCapabilities) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(c)
}

func (c *RDMATransformCapabilities) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(c, data)
}

func (c *RDMATransformCapabilities) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(c, buf)
}

// Signing algorithms.
const (
	SigningHMACSHA256 uint16 = 0x0000
	SigningAESCMAC    uint16 = 0x0001
	SigningAESGMAC    uint16 = 0x0002
)

// SigningCapabilities lists the signing algorithms a peer supports.
type SigningCapabilities struct {
	Algorithms []uint16
}

var _ smbwire.Codec = (*SigningCapabilities)(nil)

func (s *SigningCapabilities) Size() int { return 2 + 2*len(s.Algorithms) }

func (s *SigningCapabilities) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()
	w.WriteUint16(uint16(len(s.Algorithms)))
	for _, a := range s.Algorithms {
		w.WriteUint16(a)
	}
	w.Flush()
	return w.Count() - start, w.Err()
}

func (s *SigningCapabilities) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()
	var count uint16
	r.ReadUint16(&count)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	s.Algorithms = make([]uint16, count)
	for i := range s.Algorithms {
		r.ReadUint16(&s.Algorithms[i])
	}
	return r.Count() - start, r.Err()
}

func (s *SigningCapabilities) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(s)
}

func (s *SigningCapabilities) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(s, data)
}

func (s *SigningCapabilities) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(s, buf)
}

// NegotiateRequest is the dialect negotiation request. Offsets inside it
// are measured from the packet start: position zero of the encode stream,
// which is the header start once the header leads the buffer.
type NegotiateRequest struct {
	SecurityMode uint16
	Capabilities uint32
	ClientGuid   [16]byte
	Dialects     []uint16
	Contexts     []NegotiateContext
}

const negotiateRequestStructureSize = 36

var _ smbwire.Codec = (*NegotiateRequest)(nil)

func (m *NegotiateRequest) Size() int {
	size := negotiateRequestStructureSize + 2*len(m.Dialects)
	for i := range m.Contexts {
		size = smbwire.Roundup(size, 8)
		size += m.Contexts[i].Size()
	}
	return size
}

func (m *NegotiateRequest) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()

	w.WriteUint16(negotiateRequestStructureSize)
	w.WriteUint16(uint16(len(m.Dialects)))
	w.WriteUint16(m.SecurityMode)
	w.WriteZeros(2)
	w.WriteUint32(m.Capabilities)
	w.WriteBytes(m.ClientGuid[:])

	var ctxOffset smbwire.Marker[uint32]
	ctxOffset.Reserve(w)
	w.WriteUint16(uint16(len(m.Contexts)))
	w.WriteZeros(2)

	for _, d := range m.Dialects {
		w.WriteUint16(d)
	}

	if len(m.Contexts) == 0 {
		ctxOffset.Resolve(w, 0)
	} else {
		w.Align(8)
		ctxOffset.Resolve(w, uint64(w.Count()))
		for i := range m.Contexts {
			w.Align(8)
			w.WriteFrom(&m.Contexts[i])
		}
	}

	w.Flush()
	return w.Count() - start, w.Err()
}

func (m *NegotiateRequest) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()

	var structureSize, dialectCount, ctxCount uint16
	var ctxOffset uint32
	r.ReadUint16(&structureSize)
	r.ReadUint16(&dialectCount)
	r.ReadUint16(&m.SecurityMode)
	r.Discard(2)
	r.ReadUint32(&m.Capabilities)
	r.ReadBytesTo(m.ClientGuid[:])
	r.ReadUint32(&ctxOffset)
	r.ReadUint16(&ctxCount)
	r.Discard(2)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	if structureSize != negotiateRequestStructureSize {
		return r.Count() - start, fmt.Errorf("%w: negotiate request structure size %d, want %d", smbwire.ErrStructuralViolation, structureSize, negotiateRequestStructureSize)
	}

	m.Dialects = make([]uint16, dialectCount)
	for i := range m.Dialects {
		r.ReadUint16(&m.Dialects[i])
	}
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}

	m.Contexts = nil
	if ctxCount > 0 {
		if ctxOffset%8 != 0 {
			return r.Count() - start, fmt.Errorf("%w: negotiate context offset %d is not 8-aligned", smbwire.ErrAlignmentViolation, ctxOffset)
		}
		if int64(ctxOffset) < r.Count() {
			return r.Count() - start, fmt.Errorf("%w: negotiate context offset %d points into decoded fields", smbwire.ErrStructuralViolation, ctxOffset)
		}
		r.SeekTo(int64(ctxOffset))
		m.Contexts = make([]NegotiateContext, ctxCount)
		for i := range m.Contexts {
			r.Align(8)
			r.ReadTo(&m.Contexts[i])
			if err := r.Err(); err != nil {
				return r.Count() - start, err
			}
		}
	}
	return r.Count() - start, r.Err()
}

func (m *NegotiateRequest) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(m)
}

func (m *NegotiateRequest) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(m, data)
}

func (m *NegotiateRequest) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(m, buf)
}

// NegotiateResponse is the server's answer: the selected dialect, the
// security buffer as an offset+length pair, and the negotiate context list
// for dialect 3.1.1.
type NegotiateResponse struct {
	SecurityMode    uint16
	DialectRevision uint16
	ServerGuid      [16]byte
	Capabilities    uint32
	MaxTransactSize uint32
	MaxReadSize     uint32
	MaxWriteSize    uint32
	SystemTime      uint64
	ServerStartTime uint64
	SecurityBuffer  []byte
	Contexts        []NegotiateContext
}

const negotiateResponseStructureSize = 65

var _ smbwire.Codec = (*NegotiateResponse)(nil)

func (m *NegotiateResponse) Size() int {
	size := 64 + len(m.SecurityBuffer)
	for i := range m.Contexts {
		size = smbwire.Roundup(size, 8)
		size += m.Contexts[i].Size()
	}
	return size
}

func (m *NegotiateResponse) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()

	w.WriteUint16(negotiateResponseStructureSize)
	w.WriteUint16(m.SecurityMode)
	w.WriteUint16(m.DialectRevision)
	w.WriteUint16(uint16(len(m.Contexts)))
	w.WriteBytes(m.ServerGuid[:])
	w.WriteUint32(m.Capabilities)
	w.WriteUint32(m.MaxTransactSize)
	w.WriteUint32(m.MaxReadSize)
	w.WriteUint32(m.MaxWriteSize)
	w.WriteUint64(m.SystemTime)
	w.WriteUint64(m.ServerStartTime)

	var secOffset, secLength smbwire.Marker[uint16]
	secOffset.Reserve(w)
	secLength.Reserve(w)
	var ctxOffset smbwire.Marker[uint32]
	ctxOffset.Reserve(w)

	smbwire.WriteWithOffsetSize(w, &secOffset, &secLength, 0, bytes.NewReader(m.SecurityBuffer))

	if len(m.Contexts) == 0 {
		ctxOffset.Resolve(w, 0)
	} else {
		w.Align(8)
		ctxOffset.Resolve(w, uint64(w.Count()))
		for i := range m.Contexts {
			w.Align(8)
			w.WriteFrom(&m.Contexts[i])
		}
	}

	w.Flush()
	return w.Count() - start, w.Err()
}

func (m *NegotiateResponse) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()

	var structureSize, ctxCount, secOffset, secLength uint16
	var ctxOffset uint32
	r.ReadUint16(&structureSize)
	r.ReadUint16(&m.SecurityMode)
	r.ReadUint16(&m.DialectRevision)
	r.ReadUint16(&ctxCount)
	r.ReadBytesTo(m.ServerGuid[:])
	r.ReadUint32(&m.Capabilities)
	r.ReadUint32(&m.MaxTransactSize)
	r.ReadUint32(&m.MaxReadSize)
	r.ReadUint32(&m.MaxWriteSize)
	r.ReadUint64(&m.SystemTime)
	r.ReadUint64(&m.ServerStartTime)
	r.ReadUint16(&secOffset)
	r.ReadUint16(&secLength)
	r.ReadUint32(&ctxOffset)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	if structureSize != negotiateResponseStructureSize {
		return r.Count() - start, fmt.Errorf("%w: negotiate response structure size %d, want %d", smbwire.ErrStructuralViolation, structureSize, negotiateResponseStructureSize)
	}

	m.SecurityBuffer = nil
	if secLength > 0 {
		r.SeekTo(int64(secOffset))
		m.SecurityBuffer = r.ReadBytes(int(secLength))
		if err := r.Err(); err != nil {
			return r.Count() - start, err
		}
	}

	m.Contexts = nil
	if ctxCount > 0 {
		if ctxOffset%8 != 0 {
			return r.Count() - start, fmt.Errorf("%w: negotiate context offset %d is not 8-aligned", smbwire.ErrAlignmentViolation, ctxOffset)
		}
		r.SeekTo(int64(ctxOffset))
		m.Contexts = make([]NegotiateContext, ctxCount)
		for i := range m.Contexts {
			r.Align(8)
			r.ReadTo(&m.Contexts[i])
			if err := r.Err(); err != nil {
				return r.Count() - start, err
			}
		}
	}
	return r.Count() - start, r.Err()
}

func (m *NegotiateResponse) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(m)
}

func (m *NegotiateResponse) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(m, data)
}

func (m *NegotiateResponse) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(m, buf)
}
