// Package smb2 is the message catalogue built on the smbwire engine: the
// packet header, negotiate and create requests with their variable context
// records, change-notify results, echo and the error response. Each type
// implements smbwire.Codec and composes the engine's deferred-field,
// chained-list and bounded-region primitives.
package smb2

import (
	"bytes"
	"fmt"
	"io"

	"github.com/oy3o/smbwire"
)

// HeaderSize is the fixed encoded size of Header.
const HeaderSize = 64

// protocolID are the magic bytes every packet opens with.
var protocolID = [4]byte{0xFE, 'S', 'M', 'B'}

// Command identifies the operation a packet carries.
type Command uint16

const (
	CommandNegotiate    Command = 0x0000
	CommandSessionSetup Command = 0x0001
	CommandLogoff       Command = 0x0002
	CommandTreeConnect  Command = 0x0003
	CommandTreeDisconn  Command = 0x0004
	CommandCreate       Command = 0x0005
	CommandClose        Command = 0x0006
	CommandFlush        Command = 0x0007
	CommandRead         Command = 0x0008
	CommandWrite        Command = 0x0009
	CommandLock         Command = 0x000A
	CommandIoctl        Command = 0x000B
	CommandCancel       Command = 0x000C
	CommandEcho         Command = 0x000D
	CommandQueryDir     Command = 0x000E
	CommandChangeNotify Command = 0x000F
	CommandQueryInfo    Command = 0x0010
	CommandSetInfo      Command = 0x0011
	CommandOplockBreak  Command = 0x0012
)

// Header flag bits.
const (
	FlagServerToRedir   uint32 = 0x00000001
	FlagAsyncCommand    uint32 = 0x00000002
	FlagRelatedOps      uint32 = 0x00000004
	FlagSigned          uint32 = 0x00000008
	FlagPriorityMask    uint32 = 0x00000070
	FlagDFSOperations   uint32 = 0x10000000
	FlagReplayOperation uint32 = 0x20000000
)

// Header is the 64-byte packet header. NextCommand links compound
// packets: zero for the last (or only) message, otherwise the 8-aligned
// distance from this header's start to the next one.
type Header struct {
	CreditCharge  uint16
	Status        uint32
	Command       Command
	CreditRequest uint16
	Flags         uint32
	NextCommand   uint32
	MessageID     uint64
	Reserved      uint32
	TreeID        uint32
	SessionID     uint64
	Signature     [16]byte
}

var _ smbwire.Codec = (*Header)(nil)

func (h *Header) Size() int { return HeaderSize }

// IsResponse reports the packet direction.
func (h *Header) IsResponse() bool { return h.Flags&FlagServerToRedir != 0 }

func (h *Header) WriteTo(writer io.Writer) (int64, error) {
	w, err := smbwire.NewWriter(writer)
	if err != nil {
		return 0, err
	}
	start := w.Count()
	w.WriteBytes(protocolID[:])
	w.WriteUint16(HeaderSize)
	w.WriteUint16(h.CreditCharge)
	w.WriteUint32(h.Status)
	w.WriteUint16(uint16(h.Command))
	w.WriteUint16(h.CreditRequest)
	w.WriteUint32(h.Flags)
	w.WriteUint32(h.NextCommand)
	w.WriteUint64(h.MessageID)
	w.WriteUint32(h.Reserved)
	w.WriteUint32(h.TreeID)
	w.WriteUint64(h.SessionID)
	w.WriteBytes(h.Signature[:])
	w.Flush()
	return w.Count() - start, w.Err()
}

func (h *Header) ReadFrom(reader io.Reader) (int64, error) {
	r, err := smbwire.NewReader(reader)
	if err != nil {
		return 0, err
	}
	start := r.Count()

	magic := r.ReadBytes(4)
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	if !bytes.Equal(magic, protocolID[:]) {
		return r.Count() - start, fmt.Errorf("%w: bad protocol id % x", smbwire.ErrStructuralViolation, magic)
	}

	var structureSize uint16
	r.ReadUint16(&structureSize)
	r.ReadUint16(&h.CreditCharge)
	r.ReadUint32(&h.Status)
	r.ReadUint16((*uint16)(&h.Command))
	r.ReadUint16(&h.CreditRequest)
	r.ReadUint32(&h.Flags)
	r.ReadUint32(&h.NextCommand)
	r.ReadUint64(&h.MessageID)
	r.ReadUint32(&h.Reserved)
	r.ReadUint32(&h.TreeID)
	r.ReadUint64(&h.SessionID)
	r.ReadBytesTo(h.Signature[:])
	if err := r.Err(); err != nil {
		return r.Count() - start, err
	}
	if structureSize != HeaderSize {
		return r.Count() - start, fmt.Errorf("%w: header structure size %d, want %d", smbwire.ErrStructuralViolation, structureSize, HeaderSize)
	}
	return r.Count() - start, nil
}

func (h *Header) MarshalBinary() ([]byte, error) {
	return smbwire.MarshalBinaryGeneric(h)
}

func (h *Header) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(h, data)
}

func (h *Header) MarshalTo(buf []byte) (int, error) {
	return smbwire.MarshalToGeneric(h, buf)
}
