package smbwire

import "errors"

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("smbwire: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrSizeTooSmall indicates a size conflict with bufio
	ErrSizeTooSmall = errors.New("smbwire: NewReaderSize with a size smaller than 16 conflict with bufio")

	// ErrAlreadyBuffered indicates that NewReader/NewWriter was called with an already-buffered
	// reader/writer, which would lead to unpredictable behavior and performance issues.
	ErrAlreadyBuffered = errors.New("smbwire: reader or writer is already buffered")

	// ErrWriteToNil indicates a WriteTo operation was attempted on a nil io.Writer.
	ErrWriteToNil = errors.New("smbwire: WriteTo called with a nil io.Writer")

	// ErrReadToNil indicates a ReadTo operation was attempted on a nil io.ReaderFrom.
	ErrReadToNil = errors.New("smbwire: ReadTo called with a nil io.ReaderFrom")

	// ErrInvalidSeek indicates a seek was attempted to invalid position.
	ErrInvalidSeek = errors.New("smbwire: seek to a invalid position")

	// ErrUnsupportedNegativeSeek indicates a backward seek was attempted on a forward-only seeker.
	ErrUnsupportedNegativeSeek = errors.New("smbwire: unsupported negative offset for forward-only seeker")

	// ErrInvalidWhence indicates that an invalid 'whence' parameter was provided to a Seek operation.
	ErrInvalidWhence = errors.New("smbwire: unsupported whence for forward-only seeker")

	// ErrInvalidWrite indicates that an io.Writer returned an invalid (negative) count from Write.
	ErrInvalidWrite = errors.New("smbwire: writer returned invalid count from Write")

	// ErrInvalidRead indicates that an io.Reader returned an invalid (negative or outbound) count from Read.
	ErrInvalidRead = errors.New("smbwire: reader returned invalid count from Read")

	// ErrDiscardNegative indicates a Discard operation was attempted with a negative byte count.
	ErrDiscardNegative = errors.New("smbwire: cannot discard negative number of bytes")

	// ErrTrailingData is returned by UnmarshalBinaryGeneric when non-zero bytes are found
	// after the expected end of the data structure, indicating a potential parsing error or malformed data.
	ErrTrailingData = errors.New("smbwire: non-zero trailing data found after decoding")

	// ErrTruncatedData indicates that a read operation could not complete because the
	// underlying data source (e.g., buffer, stream) ended before all expected bytes were read.
	ErrTruncatedData = errors.New("smbwire: truncated data")

	// ErrUnseekableSink indicates that an offset or length field had to be
	// back-patched, but the underlying writer does not support seeking.
	// Deferred fields require a random-access sink such as a BytesWriter.
	ErrUnseekableSink = errors.New("smbwire: deferred field requires a seekable sink")
)

// Decode/encode failure taxonomy. Every failure a message codec can produce
// wraps one of these sentinels, so callers can map a failed decode to a
// protocol-level status without string matching.
var (
	// ErrStructuralViolation indicates a reserved or constant wire field did
	// not hold its mandated value (structure sizes, must-be-zero fields,
	// protocol magic), or a chained record linked backwards onto itself.
	ErrStructuralViolation = errors.New("smbwire: structural violation")

	// ErrAlignmentViolation indicates an offset read from the wire is not a
	// multiple of the alignment its field requires.
	ErrAlignmentViolation = errors.New("smbwire: misaligned offset")

	// ErrBoundsViolation indicates a computed seek or read would leave the
	// message buffer or a length-bounded sub-region of it.
	ErrBoundsViolation = errors.New("smbwire: access outside message bounds")

	// ErrUnknownDiscriminant indicates a tagged record carried a
	// discriminant with no registered variant and no opaque fallback.
	ErrUnknownDiscriminant = errors.New("smbwire: unknown discriminant")

	// ErrEncodingOverflow indicates a computed offset or length does not fit
	// the integer width of the wire field that must carry it.
	ErrEncodingOverflow = errors.New("smbwire: value exceeds field width")
)
