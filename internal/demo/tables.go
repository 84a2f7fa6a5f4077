package demo

import (
	"github.com/mesh-intelligence/tablerow/pkg/table"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// Tables holds one handler per demo table.
type Tables struct {
	Users     *Users
	UUIDUsers *UUIDUsers
	NoIDUsers *NoIDUsers
}

// NewTables returns the demo handlers held by reg, building them over conn
// on first use. Every caller sharing reg shares the handlers and their
// caches.
func NewTables(reg *table.Registry, conn types.Conn, opts ...table.Option) *Tables {
	return &Tables{
		Users: table.Instance(reg, func() *Users {
			return table.New(conn, UserSchema(UserTable), table.AutoID(), opts...)
		}),
		UUIDUsers: table.Instance(reg, func() *UUIDUsers {
			return table.New(conn, UserSchema(UUIDUserTable), table.UUID(), opts...)
		}),
		NoIDUsers: table.Instance(reg, func() *NoIDUsers {
			return table.New(conn, UserSchema(NoIDUserTable), table.Keyless(), opts...)
		}),
	}
}
