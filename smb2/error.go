package smb2

import (
	"fmt"
	"io"

	"github.com/oy3o/smbwire"
)

// Well-known status codes.
const (
	StatusSuccess            uint32 = 0x00000000
	StatusPending            uint32 = 0x00000103
	StatusInvalidParameter   uint32 = 0xC000000D
	StatusAccessDenied       uint32 = 0xC0000022
	StatusObjectNameInvalid  uint32 = 0xC0000033
	StatusNotSupported       uint32 = 0xC00000BB
	StatusUserSessionDeleted uint32 = 0xC0000203
)

const errorResponseStructureSize = 9

// ErrorContext is one record of an error response's context list.
type ErrorContext struct {
	ErrorID uint32
	Data    []byte
}

// ErrorResponse is the generic failure reply. The status code itself
// travels in the header; the body carries either a list of 8-aligned
// error contexts or, when the count is zero, raw error data. ByteCount
// is a deferred length over whichever form follows.
type ErrorResponse struct {
	Contexts  []ErrorContext
	ErrorData []byte
}

var _ smbwire.Codec = (*ErrorResponse)(nil)

func (m *ErrorResponse) Size() int {
	size := 8
	if len(m.Contexts) == 0 {
		return size + len(m.ErrorData)
	}
	for i, ctx := range m.Contexts {
		if i > 0 {
			size = smbwire.Roundup(size, 8)
		}
		size += 8 + len(ctx.Data)
	}
	return size
}

func (m *ErrorResponse) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()

	w.WriteUint16(errorResponseStructureSize)
	w.WriteUint8(uint8(len(m.Contexts)))
	w.WriteZeros(1)
	var byteCount smbwire.Marker[uint32]
	byteCount.Reserve(w)

	payloadStart := w.Count()
	if len(m.Contexts) == 0 {
		w.WriteBytes(m.ErrorData)
	} else {
		for i, ctx := range m.Contexts {
			if i > 0 {
				w.Align(8)
			}
			w.WriteUint32(uint32(len(ctx.Data)))
			w.WriteUint32(ctx.ErrorID)
			w.WriteBytes(ctx.Data)
		}
	}
	byteCount.ResolveRelative(w, payloadStart)

	w.Flush()
	return w.Count() - start, w.Err()
}

func (m *ErrorResponse) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()

	var structureSize uint16
	var ctxCount uint8
	var byteCount uint32
	r.ReadUint16(&structureSize)
	r.ReadUint8(&ctxCount)
	r.Discard(1)
	r.ReadUint32(&byteCount)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	if structureSize != errorResponseStructureSize {
		return r.Count() - start, fmt.Errorf("%w: error response structure size %d, want %d", smbwire.ErrStructuralViolation, structureSize, errorResponseStructureSize)
	}

	m.Contexts = nil
	m.ErrorData = nil
	if byteCount == 0 {
		return r.Count() - start, nil
	}

	err = smbwire.DecodeRegion(r, int64(byteCount), func(sub *smbwire.Reader) error {
		if ctxCount == 0 {
			m.ErrorData = sub.ReadBytes(int(byteCount))
			return sub.Err()
		}
		for i := 0; i < int(ctxCount); i++ {
			if i > 0 {
				sub.Align(8)
			}
			var ctx ErrorContext
			var dataLength uint32
			sub.ReadUint32(&dataLength)
			sub.ReadUint32(&ctx.ErrorID)
			ctx.Data = sub.ReadBytes(int(dataLength))
			if err := sub.Err(); err != nil {
				return err
			}
			m.Contexts = append(m.Contexts, ctx)
		}
		return sub.Err()
	})
	return r.Count() - start, err
}

func (m *ErrorResponse) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(m)
}

func (m *ErrorResponse) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(m, data)
}

func (m *ErrorResponse) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(m, buf)
}
