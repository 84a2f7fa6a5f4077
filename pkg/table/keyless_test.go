package table

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tablerow/pkg/types"
)

func TestKeylessTable(t *testing.T) {
	tbl, _ := newKeylessTable(t)
	ctx := context.Background()

	o, err := tbl.Create(ctx, personRow("alice"))
	require.NoError(t, err)
	assert.True(t, o.Persisted())
	_, err = tbl.Create(ctx, personRow("bob"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.CachedCount(), "keyless tables never cache")

	_, hasKey := o.Key()
	assert.False(t, hasKey)
	assert.NotContains(t, o.ArrayForm(), "")

	all, err := tbl.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 0, tbl.CachedCount())

	got, err := tbl.LoadWhereAnd(ctx, types.Predicate{"name": "bob"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob@example.com", got[0].Row.Email)

	n, err := tbl.DeleteWhereOr(ctx, types.Predicate{"name": "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, tbl.DeleteAll(ctx, false))
	all, err = tbl.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestKeylessRejectsKeyOperations(t *testing.T) {
	tbl, _ := newKeylessTable(t)
	ctx := context.Background()

	o, err := tbl.Create(ctx, personRow("alice"))
	require.NoError(t, err)

	_, err = tbl.Load(ctx, NoKey{})
	assert.ErrorIs(t, err, types.ErrKeyless)
	_, err = tbl.LoadIDs(ctx, []NoKey{{}})
	assert.ErrorIs(t, err, types.ErrKeyless)
	_, err = tbl.Update(ctx, NoKey{}, personRow("x"))
	assert.ErrorIs(t, err, types.ErrKeyless)
	assert.ErrorIs(t, tbl.Delete(ctx, NoKey{}), types.ErrKeyless)
	_, err = tbl.DeleteIDs(ctx, []NoKey{{}})
	assert.ErrorIs(t, err, types.ErrKeyless)

	assert.ErrorIs(t, o.Save(ctx), types.ErrKeyless)
	assert.ErrorIs(t, o.Delete(ctx), types.ErrKeyless)

	_, err = tbl.Search(ctx, SearchParams[NoKey]{StartID: &NoKey{}})
	assert.ErrorIs(t, err, types.ErrKeyless)
}

func TestKeylessReplace(t *testing.T) {
	tbl, _ := newKeylessTable(t)
	ctx := context.Background()

	o, err := tbl.Replace(ctx, personRow("alice"))
	require.NoError(t, err)
	assert.True(t, o.Persisted())

	all, err := tbl.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
