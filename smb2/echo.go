package smb2

import (
	"fmt"
	"io"

	"github.com/oy3o/smbwire"
)

const echoStructureSize = 4

// Echo is the keep-alive probe. Request and response share the same
// four-byte body.
type Echo struct {
	smbwire.Fixed[struct {
		StructureSize uint16
		Reserved      uint16
	}]
}

// NewEcho returns an echo message with the structure size filled in.
func NewEcho() *Echo {
	e := &Echo{}
	e.Payload.StructureSize = echoStructureSize
	return e
}

func (e *Echo) ReadFrom(reader io.Reader) (int64, error) {
	n, err := e.Fixed.ReadFrom(reader)
	if err != nil {
		return n, err
	}
	if e.Payload.StructureSize != echoStructureSize {
		return n, fmt.Errorf("%w: echo structure size %d, want %d", smbwire.ErrStructuralViolation, e.Payload.StructureSize, echoStructureSize)
	}
	return n, nil
}

func (e *Echo) UnmarshalBinary(data []byte) error {
	return smbwire.UnmarshalBinaryGeneric(e, data)
}
