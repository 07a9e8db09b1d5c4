// Package cache provides LRU block caching for remote snapshot reads.
//
// Remote blob backends (S3, MinIO) serve range reads with network latency;
// the block cache keeps recently touched snapshot blocks in memory so
// repeated section reads hit RAM. Capacity is tracked in bytes and can be
// charged against a resource.Controller.
package cache

import "context"

// Key identifies a cached block. It must be stable across processes: blocks
// are addressed by blob name and block index.
type Key struct {
	// Name identifies the source blob (snapshot name).
	Name string
	// Block is the block index within the blob.
	Block uint64
}

// BlockCache is a byte-oriented cache for immutable blocks.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	// Set caches a block. Callers must treat b as immutable afterwards.
	Set(ctx context.Context, key Key, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key Key) bool)
	// Close releases any resources.
	Close() error
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
}

// Compile-time check to ensure LRUBlockCache satisfies BlockCache.
var _ BlockCache = (*LRUBlockCache)(nil)
