package table

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/tablerow/pkg/types"
	"github.com/mesh-intelligence/tablerow/pkg/uuidkey"
)

// KeyStrategy decides how rows of a table are identified. K is the client
// form of the identifier.
type KeyStrategy[K comparable] interface {
	// Column is the primary key column, "" for keyless tables.
	Column() string

	// Keyed reports whether rows have an identifier at all. Keyless tables
	// have no cache and reject by-key operations with types.ErrKeyless.
	Keyed() bool

	// Decode converts a key as found in a row or passed by a caller into K.
	Decode(v any) (K, error)

	// Encode converts k into the value stored in the key column.
	Encode(k K) (any, error)

	// Generate returns a client-side identifier for a new object, or false
	// when the database assigns one on insert.
	Generate() (K, bool)

	// Assigned returns the identifier the database assigned on insert.
	Assigned(res types.ExecResult) (K, bool)

	// ReplaceOnSave reports whether saving a persisted object overwrites the
	// whole row with REPLACE instead of issuing an UPDATE.
	ReplaceOnSave() bool
}

// NoKey is the identifier type of keyless tables.
type NoKey struct{}

// AutoIDKey identifies rows by a database-assigned integer.
type AutoIDKey struct {
	// Name is the key column; empty means "id".
	Name string
}

// AutoID returns the auto-increment strategy on column "id".
func AutoID() AutoIDKey { return AutoIDKey{} }

func (k AutoIDKey) Column() string {
	if k.Name == "" {
		return "id"
	}
	return k.Name
}

func (AutoIDKey) Keyed() bool { return true }

func (AutoIDKey) Decode(v any) (int64, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	id, err := cast.ToInt64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrInvalidKey, err)
	}
	return id, nil
}

func (AutoIDKey) Encode(id int64) (any, error) { return id, nil }

func (AutoIDKey) Generate() (int64, bool) { return 0, false }

func (AutoIDKey) Assigned(res types.ExecResult) (int64, bool) {
	return res.LastInsertID, res.LastInsertID != 0
}

func (AutoIDKey) ReplaceOnSave() bool { return false }

// UUIDKey identifies rows by a UUID stored as 16 raw bytes. Callers use the
// canonical hex form.
type UUIDKey struct {
	// Name is the key column; empty means "uuid".
	Name string
}

// UUID returns the UUID strategy on column "uuid".
func UUID() UUIDKey { return UUIDKey{} }

func (k UUIDKey) Column() string {
	if k.Name == "" {
		return "uuid"
	}
	return k.Name
}

func (UUIDKey) Keyed() bool { return true }

func (UUIDKey) Decode(v any) (string, error) {
	hex, err := uuidkey.Normalize(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrInvalidKey, err)
	}
	return hex, nil
}

func (UUIDKey) Encode(hex string) (any, error) {
	b, err := uuidkey.Encode(hex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidKey, err)
	}
	return b, nil
}

func (UUIDKey) Generate() (string, bool) { return uuidkey.Generate(), true }

func (UUIDKey) Assigned(types.ExecResult) (string, bool) { return "", false }

func (UUIDKey) ReplaceOnSave() bool { return true }

// KeylessStrategy is the strategy of tables without a primary key.
type KeylessStrategy struct{}

// Keyless returns the strategy for tables without a primary key.
func Keyless() KeylessStrategy { return KeylessStrategy{} }

func (KeylessStrategy) Column() string { return "" }

func (KeylessStrategy) Keyed() bool { return false }

func (KeylessStrategy) Decode(any) (NoKey, error) { return NoKey{}, types.ErrKeyless }

func (KeylessStrategy) Encode(NoKey) (any, error) { return nil, types.ErrKeyless }

func (KeylessStrategy) Generate() (NoKey, bool) { return NoKey{}, false }

func (KeylessStrategy) Assigned(types.ExecResult) (NoKey, bool) { return NoKey{}, false }

func (KeylessStrategy) ReplaceOnSave() bool { return false }

var (
	_ KeyStrategy[int64]  = AutoIDKey{}
	_ KeyStrategy[string] = UUIDKey{}
	_ KeyStrategy[NoKey]  = KeylessStrategy{}
)
