package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kvBackends(t *testing.T) map[string]KV {
	t.Helper()
	sqlite, err := OpenSQLiteKV(context.Background(), filepath.Join(t.TempDir(), "smoothies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]KV{
		"file":   NewFileKV(filepath.Join(t.TempDir(), "data")),
		"sqlite": sqlite,
		"memory": NewMemoryKV(),
	}
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(ctx, "smoothies", []byte(`[]`)))
			got, ok, err := kv.Get(ctx, "smoothies")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[]`, string(got))

			require.NoError(t, kv.Set(ctx, "smoothies", []byte(`[{"id":"1"}]`)))
			got, _, err = kv.Get(ctx, "smoothies")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"1"}]`, string(got))
		})
	}
}

func TestKV_LocalStoreOnEveryBackend(t *testing.T) {
	ctx := context.Background()
	for name, kv := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			s := NewLocal(kv)
			require.NoError(t, s.Create(ctx, berryBlast()))
			require.NoError(t, s.Delete(ctx, "1"))
			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestFileKV_WritesOneFilePerKey(t *testing.T) {
	dir := t.TempDir()
	kv := NewFileKV(dir)
	require.NoError(t, kv.Set(context.Background(), "smoothies", []byte(`[]`)))

	assert.Equal(t, filepath.Join(dir, "smoothies.json"), kv.Path("smoothies"))
	assert.FileExists(t, kv.Path("smoothies"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestSQLiteKV_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "smoothies.db")

	kv, err := OpenSQLiteKV(ctx, path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "smoothies", []byte(`[]`)))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLiteKV(ctx, path)
	require.NoError(t, err)
	defer kv.Close()
	got, ok, err := kv.Get(ctx, "smoothies")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(got))
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	v := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", v))
	v[0] = 'x'

	got, _, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestIsLockedError(t *testing.T) {
	assert.False(t, isLockedError(nil))
	assert.False(t, isLockedError(errors.New("no such table: kv")))
	assert.True(t, isLockedError(errors.New("database is locked (5) (SQLITE_BUSY)")))
}
