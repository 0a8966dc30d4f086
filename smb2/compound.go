package smb2

import (
	"bytes"
	"fmt"
	"io"

	"github.com/oy3o/smbwire"
)

// StreamKind classifies the protocol a byte stream opens with.
type StreamKind int

const (
	StreamUnknown StreamKind = iota
	StreamSMB1
	StreamSMB2
)

// smb1ProtocolID is the legacy dialect's magic, recognized so a
// multi-dialect listener can route the connection without consuming it.
var smb1ProtocolID = [4]byte{0xFF, 'S', 'M', 'B'}

// Sniff peeks at the next four bytes of r and classifies the stream. The
// stream is not consumed: keep reading from the returned PeekableReader,
// which replays the peeked bytes.
func Sniff(r io.Reader) (*smbwire.PeekableReader, StreamKind, error) {
	pr := smbwire.PeekReader(r)
	magic, err := pr.Peek(4)
	if err != nil {
		return pr, StreamUnknown, err
	}
	switch {
	case bytes.Equal(magic, protocolID[:]):
		return pr, StreamSMB2, nil
	case bytes.Equal(magic, smb1ProtocolID[:]):
		return pr, StreamSMB1, nil
	}
	return pr, StreamUnknown, nil
}

// MessageHandler processes one message of a compound packet. body is
// limited to the message's own bytes; the walk discards whatever the
// handler leaves unread, including the alignment padding before the next
// header.
type MessageHandler func(hdr *Header, body io.Reader) error

// ReadCompound walks a compound packet buffer message by message,
// following each header's NextCommand link, and invokes handle once per
// message. For the final message the body extends to the end of the
// stream. Each message's body is a chained reader whose end-of-stream
// action picks up the decode of the following message.
func ReadCompound(r io.Reader, handle MessageHandler) error {
	var hdr Header
	if _, err := hdr.ReadFrom(r); err != nil {
		return err
	}

	if hdr.NextCommand == 0 {
		return handle(&hdr, r)
	}
	if hdr.NextCommand%8 != 0 {
		return fmt.Errorf("%w: next-command offset %d is not 8-aligned", smbwire.ErrAlignmentViolation, hdr.NextCommand)
	}
	if hdr.NextCommand < HeaderSize {
		return fmt.Errorf("%w: next-command offset %d lands inside the header", smbwire.ErrStructuralViolation, hdr.NextCommand)
	}

	var walkErr error
	body := smbwire.ChainReader(r, int64(hdr.NextCommand)-HeaderSize, func(rest io.Reader) error {
		walkErr = ReadCompound(rest, handle)
		return walkErr
	})
	if err := handle(&hdr, body); err != nil {
		return err
	}
	// Drain whatever the handler left; exhausting this message's bytes
	// fires the chained action on the next one.
	if _, err := io.Copy(io.Discard, body); err != nil && walkErr == nil {
		return err
	}
	return walkErr
}
