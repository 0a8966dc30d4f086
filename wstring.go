package smbwire

import (
	"io"

	"golang.org/x/text/encoding/unicode"
)

// utf16le is the wire text encoding: fixed 2-byte code units, little
// endian, no byte order mark. Strings on the wire are never
// null-terminated; their byte length always travels in a sibling field.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// WideString is a wide-character string field whose encoded byte length is
// carried by a sibling length field of the enclosing structure. It
// implements Sizer and io.WriterTo so it can ride the deferred-field
// helpers directly; decoding needs the sibling-supplied byte count and
// therefore goes through ReadWideString.
type WideString string

// Size returns the encoded byte length: two bytes per UTF-16 code unit.
func (s WideString) Size() int {
	b, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		// The encoder substitutes unrepresentable runes; it does not fail
		// on valid Go strings.
		return 0
	}
	return len(b)
}

// WriteTo writes the UTF-16LE code units. The caller stores the returned
// count (or a marker resolved over this write) in the sibling length field.
func (s WideString) WriteTo(w io.Writer) (int64, error) {
	b, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	if err != nil {
		return int64(n), err
	}
	if n < len(b) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// ReadWideString reads exactly byteLength bytes and decodes them as
// UTF-16LE. byteLength comes from the sibling length field, so a short
// buffer is a truncation error, never a silent partial string.
func ReadWideString(r *Reader, byteLength int) (WideString, error) {
	if byteLength == 0 {
		return "", r.Err()
	}
	raw := r.ReadBytes(byteLength)
	if err := r.Err(); err != nil {
		return "", err
	}
	decoded, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		r.setError(err)
		return "", err
	}
	return WideString(decoded), nil
}
