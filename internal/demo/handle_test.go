package demo

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tablerow/pkg/types"
)

func TestLookup(t *testing.T) {
	ts, _ := openTables(t)

	tests := []struct {
		name  string
		table string
		keyed bool
	}{
		{HandleUser, UserTable, true},
		{UserTable, UserTable, true},
		{HandleUUIDUser, UUIDUserTable, true},
		{HandleNoIDUser, NoIDUserTable, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ts.Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.table, h.Name())
			assert.Equal(t, tt.keyed, h.Keyed())
		})
	}

	_, err := ts.Lookup("orders")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestHandleRoundTrip(t *testing.T) {
	ts, _ := openTables(t)
	ctx := context.Background()

	for _, name := range []string{HandleUser, HandleUUIDUser} {
		t.Run(name, func(t *testing.T) {
			h, err := ts.Lookup(name)
			require.NoError(t, err)

			var keys []string
			for i := 1; i <= 3; i++ {
				n := "user" + strconv.Itoa(i)
				row, err := h.Create(ctx, map[string]any{"name": n, "email": n + "@gmail.com"})
				require.NoError(t, err)
				for col, v := range row {
					if col != "name" && col != "email" {
						keys = append(keys, toString(v))
					}
				}
			}
			require.Len(t, keys, 3)

			row, err := h.Get(ctx, keys[0])
			require.NoError(t, err)
			assert.Equal(t, "user1", row["name"])

			row, err = h.Update(ctx, keys[0], map[string]any{"name": "renamed"})
			require.NoError(t, err)
			assert.Equal(t, "renamed", row["name"])

			rows, err := h.List(ctx, types.Predicate{"name": "renamed"}, types.And, 0, 0)
			require.NoError(t, err)
			assert.Len(t, rows, 1)

			rows, err = h.List(ctx, types.Predicate{"name": "renamed", "email": "user2@gmail.com"}, types.Or, 1, 5)
			require.NoError(t, err)
			assert.Len(t, rows, 1, "offset windows the matches")

			rows, err = h.List(ctx, nil, types.And, 1, 1)
			require.NoError(t, err)
			assert.Len(t, rows, 1)

			rows, err = h.Search(ctx, map[string]any{"in_id": keys[1:]})
			require.NoError(t, err)
			assert.Len(t, rows, 2)

			n, err := h.Delete(ctx, keys[:1])
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			n, err = h.Delete(ctx, keys[1:])
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)

			require.NoError(t, h.Truncate(ctx, false))
			rows, err = h.List(ctx, nil, types.And, 0, 0)
			require.NoError(t, err)
			assert.Empty(t, rows)
		})
	}
}

func TestHandleKeyless(t *testing.T) {
	ts, _ := openTables(t)
	ctx := context.Background()
	h, err := ts.Lookup(HandleNoIDUser)
	require.NoError(t, err)

	_, err = h.Create(ctx, user1())
	require.NoError(t, err)

	_, err = h.Get(ctx, "1")
	assert.ErrorIs(t, err, types.ErrKeyless)
	_, err = h.Delete(ctx, []string{"1"})
	assert.ErrorIs(t, err, types.ErrKeyless)

	rows, err := h.List(ctx, nil, types.And, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"name": "user1", "email": "user1@gmail.com"}}, rows)
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4}
	assert.Equal(t, []int{2, 3}, window(items, 1, 2))
	assert.Equal(t, []int{3, 4}, window(items, 2, 0))
	assert.Nil(t, window(items, 9, 1))
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return ""
	}
}
