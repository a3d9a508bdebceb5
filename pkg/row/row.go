package row

import (
	"encoding/binary"
	"fmt"
)

// Field widths of the fixed on-disk record. Every row occupies exactly
// Size bytes regardless of how much of each string field is used, so a
// row can be addressed inside a page by offset arithmetic alone.
const (
	// MaxUsernameLen and MaxEmailLen bound the content of the string
	// fields in bytes. One extra byte per field is reserved so that a
	// maximum-length value still carries a trailing NUL on disk.
	MaxUsernameLen = 32
	MaxEmailLen    = 255

	IDSize       = 4
	UsernameSize = MaxUsernameLen + 1
	EmailSize    = MaxEmailLen + 1

	IDOffset       = 0
	UsernameOffset = IDOffset + IDSize
	EmailOffset    = UsernameOffset + UsernameSize

	// Size is the total serialized footprint of one row: 293 bytes.
	Size = IDSize + UsernameSize + EmailSize
)

// Row is a single record of the hard-coded user table.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// Serialize encodes r into dst using the fixed layout: a little-endian
// uint32 id followed by the two NUL-padded string fields. The full
// width of every field is written, so any stale bytes in dst are
// overwritten. dst must be at least Size bytes long.
func (r Row) Serialize(dst []byte) error {
	if len(dst) < Size {
		return fmt.Errorf("row buffer too small: %d bytes, need %d", len(dst), Size)
	}
	if len(r.Username) > MaxUsernameLen {
		return fmt.Errorf("username exceeds %d bytes: %q", MaxUsernameLen, r.Username)
	}
	if len(r.Email) > MaxEmailLen {
		return fmt.Errorf("email exceeds %d bytes: %q", MaxEmailLen, r.Email)
	}

	binary.LittleEndian.PutUint32(dst[IDOffset:], r.ID)
	writeString(dst[UsernameOffset:UsernameOffset+UsernameSize], r.Username)
	writeString(dst[EmailOffset:EmailOffset+EmailSize], r.Email)
	return nil
}

// Deserialize decodes one row from src. String fields end at the first
// NUL byte, or at the field boundary when the value fills the whole
// field. src must be at least Size bytes long.
func Deserialize(src []byte) (Row, error) {
	if len(src) < Size {
		return Row{}, fmt.Errorf("row buffer too small: %d bytes, need %d", len(src), Size)
	}
	return Row{
		ID:       binary.LittleEndian.Uint32(src[IDOffset:]),
		Username: readString(src[UsernameOffset : UsernameOffset+UsernameSize]),
		Email:    readString(src[EmailOffset : EmailOffset+EmailSize]),
	}, nil
}

// String renders the row the way the select statement prints it.
func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Username, r.Email)
}

// writeString copies s into field and zero-fills the remainder.
func writeString(field []byte, s string) {
	n := copy(field, s)
	for i := n; i < len(field); i++ {
		field[i] = 0
	}
}

// readString returns the bytes of field up to the first NUL.
func readString(field []byte) string {
	for i, b := range field {
		if b == 0 {
			return string(field[:i])
		}
	}
	return string(field)
}
