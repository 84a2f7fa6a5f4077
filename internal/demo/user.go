// Package demo defines the user tables the CLI and integration tests run
// against: one per key strategy, all with the same name and email columns.
package demo

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/mesh-intelligence/tablerow/pkg/table"
)

// Table names.
const (
	UserTable     = "user"
	UUIDUserTable = "user_uuid_table"
	NoIDUserTable = "user_no_id_table"
)

// User is the row type shared by the demo tables.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Handlers for each demo table.
type (
	Users     = table.Table[int64, User]
	UUIDUsers = table.Table[string, User]
	NoIDUsers = table.Table[table.NoKey, User]
)

// UserSchema binds the user columns of the named table.
func UserSchema(name string) table.Schema[User] {
	return table.Schema[User]{
		Table: name,
		Fields: []table.Field[User]{
			table.Bind("name", func(u *User) *string { return &u.Name },
				table.Rules(validation.Required, validation.Length(1, 255))),
			table.Bind("email", func(u *User) *string { return &u.Email },
				table.Rules(validation.Required, is.EmailFormat)),
		},
	}
}
