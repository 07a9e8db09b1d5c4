package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("PutAndOpen", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "snap.grid", []byte("hello world")))

		blob, err := store.Open(ctx, "snap.grid")
		require.NoError(t, err)
		defer blob.Close()

		assert.Equal(t, int64(11), blob.Size())

		buf := make([]byte, 5)
		n, err := blob.ReadAt(ctx, buf, 6)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "world", string(buf))
	})

	t.Run("OpenMissing", func(t *testing.T) {
		store := NewMemoryStore()
		_, err := store.Open(ctx, "absent")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ReadAtPastEnd", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "snap", []byte("abc")))

		blob, err := store.Open(ctx, "snap")
		require.NoError(t, err)
		defer blob.Close()

		buf := make([]byte, 5)
		n, err := blob.ReadAt(ctx, buf, 1)
		assert.Equal(t, 2, n)
		assert.ErrorIs(t, err, io.EOF)

		_, err = blob.ReadAt(ctx, buf, 10)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("ReadRange", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "snap", []byte("0123456789")))

		blob, err := store.Open(ctx, "snap")
		require.NoError(t, err)
		defer blob.Close()

		rc, err := blob.ReadRange(ctx, 2, 4)
		require.NoError(t, err)
		defer rc.Close()

		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "2345", string(got))
	})

	t.Run("CreateVisibleAfterClose", func(t *testing.T) {
		store := NewMemoryStore()

		wb, err := store.Create(ctx, "snap")
		require.NoError(t, err)

		_, err = wb.Write([]byte("part one "))
		require.NoError(t, err)
		_, err = wb.Write([]byte("part two"))
		require.NoError(t, err)
		require.NoError(t, wb.Sync())

		_, err = store.Open(ctx, "snap")
		require.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, wb.Close())

		blob, err := store.Open(ctx, "snap")
		require.NoError(t, err)
		defer blob.Close()
		assert.Equal(t, int64(17), blob.Size())
	})

	t.Run("Delete", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "snap", []byte("x")))
		require.NoError(t, store.Delete(ctx, "snap"))

		_, err := store.Open(ctx, "snap")
		require.ErrorIs(t, err, ErrNotFound)

		// Deleting a missing blob is not an error.
		require.NoError(t, store.Delete(ctx, "snap"))
	})

	t.Run("List", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Put(ctx, "grids/a", []byte("1")))
		require.NoError(t, store.Put(ctx, "grids/b", []byte("2")))
		require.NoError(t, store.Put(ctx, "other/c", []byte("3")))

		names, err := store.List(ctx, "grids/")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"grids/a", "grids/b"}, names)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("OpenReturnsIsolatedCopy", func(t *testing.T) {
		store := NewMemoryStore()
		original := []byte("immutable")
		require.NoError(t, store.Put(ctx, "snap", original))

		blob, err := store.Open(ctx, "snap")
		require.NoError(t, err)
		defer blob.Close()

		// Mutating the caller's slice must not affect the stored blob.
		original[0] = 'X'

		buf := make([]byte, 1)
		_, err = blob.ReadAt(ctx, buf, 0)
		require.NoError(t, err)
		assert.Equal(t, byte('i'), buf[0])
	})
}
