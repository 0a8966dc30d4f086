package smb2

import (
	"fmt"
	"io"

	"github.com/oy3o/smbwire"
)

// Oplock levels.
const (
	OplockLevelNone      uint8 = 0x00
	OplockLevelII        uint8 = 0x01
	OplockLevelExclusive uint8 = 0x08
	OplockLevelBatch     uint8 = 0x09
	OplockLevelLease     uint8 = 0xFF
)

// Create dispositions.
const (
	FileSupersede   uint32 = 0x00000000
	FileOpen        uint32 = 0x00000001
	FileCreate      uint32 = 0x00000002
	FileOpenIf      uint32 = 0x00000003
	FileOverwrite   uint32 = 0x00000004
	FileOverwriteIf uint32 = 0x00000005
)

// FileID identifies an open file on the server.
type FileID [16]byte

const (
	createRequestStructureSize  = 57
	createRequestFixedSize      = 56
	createResponseStructureSize = 89
	createResponseFixedSize     = 88
)

// CreateRequest opens or creates a file. The path travels as a wide string
// located by an offset+length pair; the create contexts travel as an
// offset-chained list located by a second pair. Offsets are measured from
// the packet start.
type CreateRequest struct {
	SecurityFlags        uint8
	RequestedOplockLevel uint8
	ImpersonationLevel   uint32
	SmbCreateFlags       uint64
	DesiredAccess        uint32
	FileAttributes       uint32
	ShareAccess          uint32
	CreateDisposition    uint32
	CreateOptions        uint32
	Name                 smbwire.WideString
	Contexts             []*CreateContext
}

var _ smbwire.Codec = (*CreateRequest)(nil)

func (m *CreateRequest) contextList() *smbwire.ChainedList[*CreateContext] {
	return smbwire.NewChainedList(8, m.Contexts...)
}

func (m *CreateRequest) Size() int {
	size := createRequestFixedSize + m.Name.Size()
	if len(m.Contexts) > 0 {
		size = smbwire.Roundup(size, 8)
		size += m.contextList().Size()
	}
	return size
}

func (m *CreateRequest) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()

	w.WriteUint16(createRequestStructureSize)
	w.WriteUint8(m.SecurityFlags)
	w.WriteUint8(m.RequestedOplockLevel)
	w.WriteUint32(m.ImpersonationLevel)
	w.WriteUint64(m.SmbCreateFlags)
	w.WriteZeros(8)
	w.WriteUint32(m.DesiredAccess)
	w.WriteUint32(m.FileAttributes)
	w.WriteUint32(m.ShareAccess)
	w.WriteUint32(m.CreateDisposition)
	w.WriteUint32(m.CreateOptions)

	var nameOffset, nameLength smbwire.Marker[uint16]
	nameOffset.Reserve(w)
	nameLength.Reserve(w)
	var ctxOffset, ctxLength smbwire.Marker[uint32]
	ctxOffset.Reserve(w)
	ctxLength.Reserve(w)

	smbwire.WriteWithOffsetSize(w, &nameOffset, &nameLength, 0, m.Name)

	if len(m.Contexts) == 0 {
		ctxOffset.Resolve(w, 0)
		ctxLength.Resolve(w, 0)
	} else {
		w.Align(8)
		smbwire.WriteWithOffsetSize(w, &ctxOffset, &ctxLength, 0, m.contextList())
	}

	w.Flush()
	return w.Count() - start, w.Err()
}

func (m *CreateRequest) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()

	var structureSize, nameOffset, nameLength uint16
	var ctxOffset, ctxLength uint32
	r.ReadUint16(&structureSize)
	r.ReadUint8(&m.SecurityFlags)
	r.ReadUint8(&m.RequestedOplockLevel)
	r.ReadUint32(&m.ImpersonationLevel)
	r.ReadUint64(&m.SmbCreateFlags)
	r.Discard(8)
	r.ReadUint32(&m.DesiredAccess)
	r.ReadUint32(&m.FileAttributes)
	r.ReadUint32(&m.ShareAccess)
	r.ReadUint32(&m.CreateDisposition)
	r.ReadUint32(&m.CreateOptions)
	r.ReadUint16(&nameOffset)
	r.ReadUint16(&nameLength)
	r.ReadUint32(&ctxOffset)
	r.ReadUint32(&ctxLength)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	if structureSize != createRequestStructureSize {
		return r.Count() - start, fmt.Errorf("%w: create request structure size %d, want %d", smbwire.ErrStructuralViolation, structureSize, createRequestStructureSize)
	}

	m.Name = ""
	if nameLength > 0 {
		r.SeekTo(int64(nameOffset))
		m.Name, err = smbwire.ReadWideString(r, int(nameLength))
		if err != nil {
			return r.Count() - start, err
		}
	}

	m.Contexts = nil
	if ctxLength > 0 {
		if ctxOffset%8 != 0 {
			return r.Count() - start, fmt.Errorf("%w: create context offset %d is not 8-aligned", smbwire.ErrAlignmentViolation, ctxOffset)
		}
		list := smbwire.NewChainedList[*CreateContext](8)
		r.SeekTo(int64(ctxOffset))
		if err := smbwire.DecodeRegion(r, int64(ctxLength), func(sub *smbwire.Reader) error {
			_, err := list.ReadFrom(sub)
			return err
		}); err != nil {
			return r.Count() - start, err
		}
		m.Contexts = list.Items
	}
	return r.Count() - start, r.Err()
}

func (m *CreateRequest) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(m)
}

func (m *CreateRequest) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(m, data)
}

func (m *CreateRequest) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(m, buf)
}

// CreateResponse reports the opened file: its identifier, timestamps and
// the server's create context list.
type CreateResponse struct {
	OplockLevel    uint8
	Flags          uint8
	CreateAction   uint32
	CreationTime   uint64
	LastAccessTime uint64
	LastWriteTime  uint64
	ChangeTime     uint64
	AllocationSize uint64
	EndOfFile      uint64
	FileAttributes uint32
	FileID         FileID
	Contexts       []*CreateContext
}

var _ smbwire.Codec = (*CreateResponse)(nil)

func (m *CreateResponse) contextList() *smbwire.ChainedList[*CreateContext] {
	return smbwire.NewChainedList(8, m.Contexts...)
}

func (m *CreateResponse) Size() int {
	size := createResponseFixedSize
	if len(m.Contexts) > 0 {
		size = smbwire.Roundup(size, 8)
		size += m.contextList().Size()
	}
	return size
}

func (m *CreateResponse) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()

	w.WriteUint16(createResponseStructureSize)
	w.WriteUint8(m.OplockLevel)
	w.WriteUint8(m.Flags)
	w.WriteUint32(m.CreateAction)
	w.WriteUint64(m.CreationTime)
	w.WriteUint64(m.LastAccessTime)
	w.WriteUint64(m.LastWriteTime)
	w.WriteUint64(m.ChangeTime)
	w.WriteUint64(m.AllocationSize)
	w.WriteUint64(m.EndOfFile)
	w.WriteUint32(m.FileAttributes)
	w.WriteZeros(4)
	w.WriteBytes(m.FileID[:])

	var ctxOffset, ctxLength smbwire.Marker[uint32]
	ctxOffset.Reserve(w)
	ctxLength.Reserve(w)

	if len(m.Contexts) == 0 {
		ctxOffset.Resolve(w, 0)
		ctxLength.Resolve(w, 0)
	} else {
		w.Align(8)
		smbwire.WriteWithOffsetSize(w, &ctxOffset, &ctxLength, 0, m.contextList())
	}

	w.Flush()
	return w.Count() - start, w.Err()
}

func (m *CreateResponse) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()

	var structureSize uint16
	var ctxOffset, ctxLength uint32
	r.ReadUint16(&structureSize)
	r.ReadUint8(&m.OplockLevel)
	r.ReadUint8(&m.Flags)
	r.ReadUint32(&m.CreateAction)
	r.ReadUint64(&m.CreationTime)
	r.ReadUint64(&m.LastAccessTime)
	r.ReadUint64(&m.LastWriteTime)
	r.ReadUint64(&m.ChangeTime)
	r.ReadUint64(&m.AllocationSize)
	r.ReadUint64(&m.EndOfFile)
	r.ReadUint32(&m.FileAttributes)
	r.Discard(4)
	r.ReadBytesTo(m.FileID[:])
	r.ReadUint32(&ctxOffset)
	r.ReadUint32(&ctxLength)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	if structureSize != createResponseStructureSize {
		return r.Count() - start, fmt.Errorf("%w: create response structure size %d, want %d", smbwire.ErrStructuralViolation, structureSize, createResponseStructureSize)
	}

	m.Contexts = nil
	if ctxLength > 0 {
		if ctxOffset%8 != 0 {
			return r.Count() - start, fmt.Errorf("%w: create context offset %d is not 8-aligned", smbwire.ErrAlignmentViolation, ctxOffset)
		}
		list := smbwire.NewChainedList[*CreateContext](8)
		r.SeekTo(int64(ctxOffset))
		if err := smbwire.DecodeRegion(r, int64(ctxLength), func(sub *smbwire.Reader) error {
			_, err := list.ReadFrom(sub)
			return err
		}); err != nil {
			return r.Count() - start, err
		}
		m.Contexts = list.Items
	}
	return r.Count() - start, r.Err()
}

func (m *CreateResponse) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(m)
}

func (m *CreateResponse) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(m, data)
}

func (m *CreateResponse) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(m, buf)
}
