package smbwire

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is the default binary order. The SMB2 wire format is
	// little-endian throughout.
	Order = LE
)

const BUFFER_SIZE = 4096

var (
	empty   [BUFFER_SIZE]byte
	discard [BUFFER_SIZE]byte
)

func Ptr[T any](v T) *T { return &v } // ptr is a helper function to create a pointer to a value, making test setup cleaner.

func Discard(r io.Reader, n int64) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 {
		return 0, ErrDiscardNegative
	}
	if n <= BUFFER_SIZE {
		skip, err := r.Read(discard[:n])
		return int64(skip), err
	}
	return io.CopyN(io.Discard, r, n)
}

// Roundup rounds n up to the nearest multiple of align.
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }

// Padding returns the number of bytes needed to move n up to the next
// multiple of align. Zero when n is already aligned or align <= 1.
func Padding[T constraints.Integer](n, align T) T {
	if align <= 1 {
		return 0
	}
	return Roundup(n, align) - n
}

// MAX_PADDING defines the maximum number of trailing bytes to check.
// This prevents an Out-Of-Memory error if a parsing bug leaves a large
// amount of data in the reader. Anything larger is considered a protocol error.
const MAX_PADDING = 1024 // 1KB

// CheckBufferNotZeros verifies that every byte in buf is zero.
// Reserved regions and trailing padding must be zero on the wire; a stray
// bit here usually means a mis-sized field, not harmless garbage.
func CheckBufferNotZeros(buf []byte) error {
	for i, b := range buf {
		if b != 0 {
			return fmt.Errorf("%w: found non-zero byte 0x%02x at offset %d", ErrTrailingData, b, i)
		}
	}
	return nil
}

// CheckTrailingNotZeros verifies that any remaining bytes in a reader are all zero.
// This is critical for parsers to ensure the entire expected payload was consumed
// and no garbage data follows, which could indicate a bug or a malicious payload.
func CheckTrailingNotZeros(r io.Reader) error {
	// Fast path for a common reader type to avoid any allocations.
	if reader, ok := r.(*BytesReader); ok && reader.Available() == 0 {
		return nil
	}

	// Use a LimitedReader to enforce our heuristic limit. We read up to
	// `maxExpectedPadding + 1` bytes; if the read succeeds, we know there was
	// too much data.
	lr := &io.LimitedReader{R: r, N: MAX_PADDING + 1}

	trailingData, err := io.ReadAll(lr)
	if err != nil {
		return err
	}

	// Heuristic check: Did we read more than the allowed padding size?
	if len(trailingData) > MAX_PADDING {
		return fmt.Errorf("%w: exceeds maximum expected size of %d bytes", ErrTrailingData, MAX_PADDING)
	}

	// Check if the data we did read contains non-zero bytes.
	return CheckBufferNotZeros(trailingData)
}

// ReadVariableFieldStream is a helper function to read a variable-length field from an stream
// and stream its content directly to a destination writer. It avoids allocating memory for the
// field's data, making it suitable for large payloads like file transfers.
//
// Parameters:
//   - dst: The io.Writer where the field's data will be written. If nil, data is discarded.
//   - r: The io.Reader to read from (the packet stream).
//   - currentReadOffset: The total number of bytes read from the start of the packet so far.
//   - targetFieldOffset: The offset of the desired field from the start of the packet.
//   - targetFieldLength: The length of the desired field.
//
// Returns:
//   - int64: The total number of bytes consumed from the source reader 'r' (including padding).
//   - error: An error if reading fails or the packet is malformed.
func ReadVariableFieldStream(dst io.Writer, r io.Reader, currentReadOffset, targetFieldOffset, targetFieldLength int64) (int64, error) {
	if targetFieldLength == 0 {
		return 0, nil
	}

	var n int64 = 0

	// 1. Calculate and skip any padding before the field.
	written, err := Discard(r, targetFieldOffset-currentReadOffset)
	n += written
	if err != nil {
		return n, err
	}

	// 2. Stream the field's data directly to the destination writer.
	if dst == nil {
		dst = io.Discard
	}
	written, err = io.CopyN(dst, r, targetFieldLength)
	n += written
	if err != nil {
		// io.CopyN returns io.EOF if the stream ends, which we should wrap for clarity.
		return n, err
	}

	return n, nil
}

// ReadVariableField is a helper function to read a variable-length field from an stream.
// This function is a convenience wrapper around ReadVariableFieldStream, using an in-memory
// buffer as the destination. It is suitable for smaller payloads. For large payloads,
// ReadVariableFieldStream should be used directly to avoid memory allocation.
//
// Parameters and return values are the same as the original function.
func ReadVariableField(r io.Reader, currentReadOffset, targetFieldOffset, targetFieldLength int64) ([]byte, int64, error) {
	// 1. If there's nothing to read, return immediately.
	if targetFieldLength == 0 || targetFieldOffset < currentReadOffset {
		return nil, 0, nil
	}

	// 2. Use a BytesWriter as the in-memory writer.
	buf := NewBytesWriter(make([]byte, int(targetFieldLength)))

	// 3. Delegate all the complex I/O logic to the streaming version.
	bytesConsumed, err := ReadVariableFieldStream(buf, r, currentReadOffset, targetFieldOffset, targetFieldLength)
	if err != nil {
		// If streaming failed, we might have partial data in the buffer,
		// but we should return a nil slice along with the error.
		return nil, bytesConsumed, err
	}

	// 4. On success, return the buffer's content and the total bytes consumed from the source reader.
	return buf.Bytes(), bytesConsumed, nil
}
