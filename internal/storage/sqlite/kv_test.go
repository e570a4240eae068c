package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yegors/preflight/internal/aircraft"
	"github.com/yegors/preflight/pkg/logger"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKVStore_GetMissing(t *testing.T) {
	kv := NewKVStore(openTestDB(t))

	v, ok, err := kv.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestKVStore_SetOverwrites(t *testing.T) {
	kv := NewKVStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", []byte("one")))
	require.NoError(t, kv.Set(ctx, "k", []byte("two")))

	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", string(v))
}

func TestKVStore_BacksAircraftCatalog(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := aircraft.NewCatalog(NewKVStore(db), logger.NewNop())
	require.NoError(t, first.Upsert(ctx, "PA28", aircraft.Model{Name: "Piper Cherokee"}))

	second := aircraft.NewCatalog(NewKVStore(db), logger.NewNop())
	require.NoError(t, second.Load(ctx))

	m, ok := second.Model("PA28")
	require.True(t, ok)
	assert.Equal(t, "Piper Cherokee", m.Name)
	assert.Equal(t, 2, second.Len())
}
