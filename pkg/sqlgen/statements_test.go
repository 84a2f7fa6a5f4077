package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tablerow/internal/sqlconn"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

func TestSelect(t *testing.T) {
	d := sqlconn.MySQL()
	assert.Equal(t, "SELECT * FROM `user`", SelectAll(d, "user"))
	assert.Equal(t, "SELECT * FROM `user`", SelectWhere(d, "user", ""))
	assert.Equal(t, "SELECT * FROM `user` WHERE `id` = 1", SelectWhere(d, "user", "`id` = 1"))
	assert.Equal(t, "SELECT * FROM `user` LIMIT 10, 5", Limit(SelectAll(d, "user"), 10, 5))
}

func TestInsertAndReplace(t *testing.T) {
	d := sqlconn.SQLite()
	row := map[string]any{"name": "user1", "email": "user1@gmail.com"}

	got, err := Insert(d, "user", row)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "user" ("email", "name") VALUES ('user1@gmail.com', 'user1')`, got)

	got, err = Replace(d, "user", row)
	require.NoError(t, err)
	assert.Equal(t, `REPLACE INTO "user" ("email", "name") VALUES ('user1@gmail.com', 'user1')`, got)

	_, err = Insert(d, "user", nil)
	assert.ErrorIs(t, err, types.ErrInvalidData)

	_, err = Replace(d, "user", map[string]any{"bad": struct{}{}})
	assert.ErrorIs(t, err, types.ErrUnsupportedValue)
}

func TestUpdate(t *testing.T) {
	d := sqlconn.MySQL()

	got, err := Update(d, "user", map[string]any{"name": "new", "email": "e"}, "`id` = 4")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `user` SET `email` = 'e', `name` = 'new' WHERE `id` = 4", got)

	_, err = Update(d, "user", map[string]any{}, "`id` = 4")
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestDeleteAndTruncate(t *testing.T) {
	assert.Equal(t, "DELETE FROM `user` WHERE `id` IN (1, 2)", Delete(sqlconn.MySQL(), "user", "`id` IN (1, 2)"))
	assert.Equal(t, "DELETE FROM `user`", Delete(sqlconn.MySQL(), "user", ""))
	assert.Equal(t, "TRUNCATE `user`", Truncate(sqlconn.MySQL(), "user"))
	assert.Equal(t, `DELETE FROM "user"`, Truncate(sqlconn.SQLite(), "user"))
}
