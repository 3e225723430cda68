package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get missing", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Put and Get", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a/b", []byte("payload")))

		data, err := store.Get(ctx, "a/b")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)
	})

	t.Run("Put replaces", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a/b", []byte("v2")))

		data, err := store.Get(ctx, "a/b")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), data)
	})

	t.Run("List by prefix", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a/c", []byte("x")))
		require.NoError(t, store.Put(ctx, "z", []byte("y")))

		names, err := store.List(ctx, "a/")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a/b", "a/c"}, names)
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "a/b"))
		require.NoError(t, store.Delete(ctx, "a/b"))

		_, err := store.Get(ctx, "a/b")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("original")
	require.NoError(t, store.Put(ctx, "k", data))
	data[0] = 'X'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)
}
