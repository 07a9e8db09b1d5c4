package blobstore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/voxgo/internal/cache"
)

func newCachingFixture(t *testing.T, blockSize int64, payload []byte) (*CachingStore, *cache.LRUBlockCache) {
	t.Helper()

	inner := NewMemoryStore()
	require.NoError(t, inner.Put(context.Background(), "snap", payload))

	blockCache := cache.NewLRUBlockCache(1<<20, nil)
	return NewCachingStore(inner, blockCache, blockSize), blockCache
}

func TestCachingStoreReadAt(t *testing.T) {
	ctx := context.Background()
	payload := []byte("0123456789abcdefghij")

	t.Run("SpansBlockBoundaries", func(t *testing.T) {
		store, _ := newCachingFixture(t, 4, payload)

		blob, err := store.Open(ctx, "snap")
		require.NoError(t, err)
		defer blob.Close()

		buf := make([]byte, 10)
		n, err := blob.ReadAt(ctx, buf, 3)
		require.NoError(t, err)
		assert.Equal(t, 10, n)
		assert.Equal(t, "3456789abc", string(buf))
	})

	t.Run("SecondReadHitsCache", func(t *testing.T) {
		store, blockCache := newCachingFixture(t, 4, payload)

		blob, err := store.Open(ctx, "snap")
		require.NoError(t, err)
		defer blob.Close()

		buf := make([]byte, 8)
		_, err = blob.ReadAt(ctx, buf, 0)
		require.NoError(t, err)

		_, err = blob.ReadAt(ctx, buf, 0)
		require.NoError(t, err)

		hits, _ := blockCache.Stats()
		assert.Positive(t, hits)
	})

	t.Run("ShortFinalBlock", func(t *testing.T) {
		store, _ := newCachingFixture(t, 8, payload)

		blob, err := store.Open(ctx, "snap")
		require.NoError(t, err)
		defer blob.Close()

		buf := make([]byte, 8)
		n, err := blob.ReadAt(ctx, buf, 16)
		assert.Equal(t, 4, n)
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, "ghij", string(buf[:n]))
	})

	t.Run("ReadRange", func(t *testing.T) {
		store, _ := newCachingFixture(t, 4, payload)

		blob, err := store.Open(ctx, "snap")
		require.NoError(t, err)
		defer blob.Close()

		rc, err := blob.ReadRange(ctx, 5, 6)
		require.NoError(t, err)
		defer rc.Close()

		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "56789a", string(got))
	})

	t.Run("WholeBlobMatches", func(t *testing.T) {
		store, _ := newCachingFixture(t, 3, payload)

		blob, err := store.Open(ctx, "snap")
		require.NoError(t, err)
		defer blob.Close()

		buf := make([]byte, len(payload))
		n, err := blob.ReadAt(ctx, buf, 0)
		require.NoError(t, err)
		assert.Equal(t, len(payload), n)
		assert.True(t, bytes.Equal(payload, buf))
	})
}

func TestCachingStoreInvalidation(t *testing.T) {
	ctx := context.Background()

	t.Run("PutDropsStaleBlocks", func(t *testing.T) {
		store, _ := newCachingFixture(t, 4, []byte("old content"))

		blob, err := store.Open(ctx, "snap")
		require.NoError(t, err)

		buf := make([]byte, 11)
		_, err = blob.ReadAt(ctx, buf, 0)
		require.NoError(t, err)
		require.NoError(t, blob.Close())

		require.NoError(t, store.Put(ctx, "snap", []byte("new content")))

		blob, err = store.Open(ctx, "snap")
		require.NoError(t, err)
		defer blob.Close()

		_, err = blob.ReadAt(ctx, buf, 0)
		require.NoError(t, err)
		assert.Equal(t, "new content", string(buf))
	})

	t.Run("DeletePassesThrough", func(t *testing.T) {
		store, _ := newCachingFixture(t, 4, []byte("data"))

		require.NoError(t, store.Delete(ctx, "snap"))
		_, err := store.Open(ctx, "snap")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListPassesThrough", func(t *testing.T) {
		store, _ := newCachingFixture(t, 4, []byte("data"))

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"snap"}, names)
	})
}
