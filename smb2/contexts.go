package smb2

import (
	"fmt"
	"io"

	"github.com/oy3o/smbwire"
)

// Create context name tags.
const (
	ContextDurableHandle      = "DHnQ"
	ContextDurableReconnect   = "DHnC"
	ContextAllocationSize     = "AlSi"
	ContextMaximalAccess      = "MxAc"
	ContextTimewarp           = "TWrp"
	ContextQueryOnDiskID      = "QFid"
	ContextRequestLease       = "RqLs"
	ContextDurableHandleV2    = "DH2Q"
	ContextDurableReconnectV2 = "DH2C"
)

// createContexts dispatches create context bodies by name tag. Unknown
// tags fall back to RawContextData so a decoded message re-encodes
// byte-compatibly even when it carries contexts this package has no
// structured type for.
var createContexts = smbwire.NewRegistry[string]()

func init() {
	createContexts.Register(ContextDurableHandle, func() smbwire.Codec {
		return &DurableHandleRequest{}
	})
	createContexts.Register(ContextAllocationSize, func() smbwire.Codec {
		return &AllocationSize{}
	})
	createContexts.Register(ContextMaximalAccess, func() smbwire.Codec {
		return &QueryMaximalAccessResponse{}
	})
	createContexts.Register(ContextQueryOnDiskID, func() smbwire.Codec {
		return &QueryOnDiskID{}
	})
	createContexts.SetFallback(func(name string) smbwire.Codec {
		return &RawContextData{}
	})
}

// createContextPrefixSize covers the name offset/length pair, the reserved
// field and the data offset/length pair.
const createContextPrefixSize = 12

// CreateContext is one record of a create context chain: a short ASCII
// name tag locating the record's meaning, and a data body whose shape the
// tag selects. Records link to each other through the chained-list codec;
// within a record, name and data are both reached through offsets measured
// from the record's own start.
type CreateContext struct {
	Name string
	Data smbwire.Codec
}

var _ smbwire.Codec = (*CreateContext)(nil)

func (c *CreateContext) dataSize() int {
	if c.Data == nil {
		return 0
	}
	return c.Data.Size()
}

func (c *CreateContext) Size() int {
	size := createContextPrefixSize + len(c.Name)
	if c.dataSize() > 0 {
		size = smbwire.Roundup(size, 8)
		size += c.dataSize()
	}
	return size
}

func (c *CreateContext) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()

	var nameOffset, dataOffset smbwire.Marker[uint16]
	var dataLength smbwire.Marker[uint32]
	nameOffset.Reserve(w)
	w.WriteUint16(uint16(len(c.Name)))
	w.WriteZeros(2)
	dataOffset.Reserve(w)
	dataLength.Reserve(w)

	nameOffset.ResolveRelative(w, start)
	w.WriteBytes([]byte(c.Name))

	if c.dataSize() == 0 {
		dataOffset.Resolve(w, 0)
		dataLength.Resolve(w, 0)
	} else {
		w.Align(8)
		smbwire.WriteWithOffsetSize(w, &dataOffset, &dataLength, start, c.Data)
	}

	w.Flush()
	return w.Count() - start, w.Err()
}

func (c *CreateContext) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()

	var nameOffset, nameLength, dataOffset uint16
	var dataLength uint32
	r.ReadUint16(&nameOffset)
	r.ReadUint16(&nameLength)
	r.Discard(2)
	r.ReadUint16(&dataOffset)
	r.ReadUint32(&dataLength)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	if nameLength == 0 {
		return r.Count() - start, fmt.Errorf("%w: create context with empty name", smbwire.ErrStructuralViolation)
	}

	r.SeekTo(start + int64(nameOffset))
	name := r.ReadBytes(int(nameLength))
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	c.Name = string(name)

	c.Data = nil
	if dataLength > 0 {
		if dataOffset%8 != 0 {
			return r.Count() - start, fmt.Errorf("%w: create context data offset %d is not 8-aligned", smbwire.ErrAlignmentViolation, dataOffset)
		}
		data, err := createContexts.New(c.Name)
		if err != nil {
			r.SetError(err)
			return r.Count() - start, err
		}
		c.Data = data
		r.SeekTo(start + int64(dataOffset))
		if err := smbwire.DecodeRegion(r, int64(dataLength), func(sub *smbwire.Reader) error {
			_, err := data.ReadFrom(sub)
			return err
		}); err != nil {
			return r.Count() - start, err
		}
	}
	return r.Count() - start, r.Err()
}

func (c *CreateContext) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(c)
}

func (c *CreateContext) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(c, data)
}

func (c *CreateContext) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(c, buf)
}

// RawContextData is the opaque fallback body for context tags without a
// structured type: the bytes are carried through unmodified so decode
// followed by encode reproduces the original record.
type RawContextData struct {
	Bytes []byte
}

var _ smbwire.Codec = (*RawContextData)(nil)

func (d *RawContextData) Size() int { return len(d.Bytes) }

func (d *RawContextData) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Bytes)
	return int64(n), err
}

// ReadFrom consumes the whole bounded region it is handed.
func (d *RawContextData) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return int64(len(buf)), err
	}
	d.Bytes = buf
	return int64(len(buf)), nil
}

func (d *RawContextData) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(d)
}

func (d *RawContextData) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(d, data)
}

func (d *RawContextData) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(d, buf)
}

// DurableHandleRequest asks the server to keep the handle alive across a
// disconnect. The body is sixteen reserved bytes.
type DurableHandleRequest struct {
	smbwire.Fixed[struct {
		Reserved [16]byte
	}]
}

// AllocationSize sets the initial allocation size of a created file.
type AllocationSize struct {
	smbwire.Fixed[struct {
		AllocationSize uint64
	}]
}

// QueryMaximalAccessResponse reports the access the caller would be
// granted on the file.
type QueryMaximalAccessResponse struct {
	smbwire.Fixed[struct {
		QueryStatus   uint32
		MaximalAccess uint32
	}]
}

// QueryOnDiskID reports the file's on-disk identifier.
type QueryOnDiskID struct {
	smbwire.Fixed[struct {
		DiskFileID uint64
		VolumeID   uint64
		Reserved   [16]byte
	}]
}
