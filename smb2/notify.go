package smb2

import (
	"fmt"
	"io"

	"github.com/oy3o/smbwire"
)

// Change notify completion filter bits.
const (
	NotifyChangeFileName   uint32 = 0x00000001
	NotifyChangeDirName    uint32 = 0x00000002
	NotifyChangeAttributes uint32 = 0x00000004
	NotifyChangeSize       uint32 = 0x00000008
	NotifyChangeLastWrite  uint32 = 0x00000010
	NotifyChangeCreation   uint32 = 0x00000040
	NotifyChangeSecurity   uint32 = 0x00000100
)

// Notify actions.
const (
	NotifyActionAdded          uint32 = 0x00000001
	NotifyActionRemoved        uint32 = 0x00000002
	NotifyActionModified       uint32 = 0x00000003
	NotifyActionRenamedOldName uint32 = 0x00000004
	NotifyActionRenamedNewName uint32 = 0x00000005
)

// ChangeNotifyRequest registers for change notifications on a directory
// handle. The body is entirely fixed-size.
type ChangeNotifyRequest struct {
	smbwire.Fixed[struct {
		StructureSize      uint16
		Flags              uint16
		OutputBufferLength uint32
		FileID             FileID
		CompletionFilter   uint32
		Reserved           uint32
	}]
}

const changeNotifyRequestStructureSize = 32

// NewChangeNotifyRequest returns a request with the structure size filled in.
func NewChangeNotifyRequest() *ChangeNotifyRequest {
	m := &ChangeNotifyRequest{}
	m.Payload.StructureSize = changeNotifyRequestStructureSize
	return m
}

func (m *ChangeNotifyRequest) ReadFrom(reader io.Reader) (int64, error) {
	n, err := m.Fixed.ReadFrom(reader)
	if err != nil {
		return n, err
	}
	if m.Payload.StructureSize != changeNotifyRequestStructureSize {
		return n, fmt.Errorf("%w: change notify request structure size %d, want %d", smbwire.ErrStructuralViolation, m.Payload.StructureSize, changeNotifyRequestStructureSize)
	}
	return n, nil
}

func (m *ChangeNotifyRequest) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(m, data)
}

// FileNotifyInfo is one change record of a notify response: the action
// and the affected name as a length-prefixed wide string.
type FileNotifyInfo struct {
	Action   uint32
	FileName smbwire.WideString
}

var _ smbwire.Codec = (*FileNotifyInfo)(nil)

func (n *FileNotifyInfo) Size() int { return 8 + n.FileName.Size() }

func (n *FileNotifyInfo) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()
	w.WriteUint32(n.Action)
	var nameLength smbwire.Marker[uint32]
	nameLength.Reserve(w)
	smbwire.WriteWithSize(w, &nameLength, n.FileName)
	w.Flush()
	return w.Count() - start, w.Err()
}

func (n *FileNotifyInfo) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()
	var nameLength uint32
	r.ReadUint32(&n.Action)
	r.ReadUint32(&nameLength)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	n.FileName, err = smbwire.ReadWideString(r, int(nameLength))
	if err != nil {
		return r.Count() - start, err
	}
	return r.Count() - start, r.Err()
}

func (n *FileNotifyInfo) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(n)
}

func (n *FileNotifyInfo) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(n, data)
}

func (n *FileNotifyInfo) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(n, buf)
}

const changeNotifyResponseStructureSize = 9

// ChangeNotifyResponse carries the accumulated change records as a
// 4-aligned offset-chained list located by an offset+length pair.
type ChangeNotifyResponse struct {
	Changes []*FileNotifyInfo
}

var _ smbwire.Codec = (*ChangeNotifyResponse)(nil)

func (m *ChangeNotifyResponse) changeList() *smbwire.ChainedList[*FileNotifyInfo] {
	return smbwire.NewChainedList(4, m.Changes...)
}

func (m *ChangeNotifyResponse) Size() int {
	size := 8
	if len(m.Changes) > 0 {
		size += m.changeList().Size()
	}
	return size
}

func (m *ChangeNotifyResponse) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()

	w.WriteUint16(changeNotifyResponseStructureSize)
	var bufOffset smbwire.Marker[uint16]
	var bufLength smbwire.Marker[uint32]
	bufOffset.Reserve(w)
	bufLength.Reserve(w)

	if len(m.Changes) == 0 {
		bufOffset.Resolve(w, 0)
		bufLength.Resolve(w, 0)
	} else {
		smbwire.WriteWithOffsetSize(w, &bufOffset, &bufLength, 0, m.changeList())
	}

	w.Flush()
	return w.Count() - start, w.Err()
}

func (m *ChangeNotifyResponse) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()

	var structureSize, bufOffset uint16
	var bufLength uint32
	r.ReadUint16(&structureSize)
	r.ReadUint16(&bufOffset)
	r.ReadUint32(&bufLength)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	if structureSize != changeNotifyResponseStructureSize {
		return r.Count() - start, fmt.Errorf("%w: change notify response structure size %d, want %d", smbwire.ErrStructuralViolation, structureSize, changeNotifyResponseStructureSize)
	}

	m.Changes = nil
	if bufLength > 0 {
		if bufOffset%4 != 0 {
			return r.Count() - start, fmt.Errorf("%w: notify buffer offset %d is not 4-aligned", smbwire.ErrAlignmentViolation, bufOffset)
		}
		list := smbwire.NewChainedList[*FileNotifyInfo](4)
		r.SeekTo(int64(bufOffset))
		if err := smbwire.DecodeRegion(r, int64(bufLength), func(sub *smbwire.Reader) error {
			_, err := list.ReadFrom(sub)
			return err
		}); err != nil {
			return r.Count() - start, err
		}
		m.Changes = list.Items
	}
	return r.Count() - start, r.Err()
}

func (m *ChangeNotifyResponse) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(m)
}

func (m *ChangeNotifyResponse) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(m, data)
}

func (m *ChangeNotifyResponse) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(m, buf)
}
