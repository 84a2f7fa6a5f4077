// Package uuidkey converts UUID primary keys between the canonical hex form
// callers use and the 16-byte binary form stored in the database.
package uuidkey

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// BinaryLen is the length of the stored form.
const BinaryLen = 16

// ErrInvalidUUID reports a value that is neither a hex UUID nor a 16-byte
// binary UUID.
var ErrInvalidUUID = errors.New("invalid uuid")

// Generate returns a new UUID v7 in hex form. v7 values carry a millisecond
// timestamp prefix and are monotonic within the process, which keeps inserts
// clustered at the end of the primary key index.
func Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// IsBinary reports whether s holds raw bytes rather than printable text:
// any byte outside printable ASCII, tab, CR and LF marks it as binary.
func IsBinary(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\t' || c == '\r' || c == '\n' {
			continue
		}
		if c < 0x20 || c > 0x7E {
			return true
		}
	}
	return false
}

// ToBinary converts a hex UUID to its 16-byte form. A value that is already
// binary is returned unchanged rather than converted a second time.
func ToBinary(s string) ([]byte, error) {
	if IsBinary(s) {
		if len(s) != BinaryLen {
			return nil, fmt.Errorf("%w: binary value has %d bytes", ErrInvalidUUID, len(s))
		}
		return []byte(s), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidUUID, s, err)
	}
	return id[:], nil
}

// ToHex converts a 16-byte UUID to canonical lower-case hex with dashes.
func ToHex(b []byte) (string, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}
	return id.String(), nil
}

// Normalize returns the canonical hex form of v, which may be a hex string, a
// binary string, a []byte, or a uuid.UUID.
func Normalize(v any) (string, error) {
	switch x := v.(type) {
	case string:
		if IsBinary(x) {
			return ToHex([]byte(x))
		}
		id, err := uuid.Parse(x)
		if err != nil {
			// 16 printable bytes can still be a binary uuid.
			if len(x) == BinaryLen {
				return ToHex([]byte(x))
			}
			return "", fmt.Errorf("%w: %q: %v", ErrInvalidUUID, x, err)
		}
		return id.String(), nil
	case []byte:
		return ToHex(x)
	case uuid.UUID:
		return x.String(), nil
	case [16]byte:
		return uuid.UUID(x).String(), nil
	case nil:
		return "", fmt.Errorf("%w: nil", ErrInvalidUUID)
	default:
		return "", fmt.Errorf("%w: unsupported type %T", ErrInvalidUUID, v)
	}
}

// Encode returns the stored form of v, accepting the same inputs as Normalize.
func Encode(v any) ([]byte, error) {
	hex, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	return ToBinary(hex)
}
