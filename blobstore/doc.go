// Package blobstore abstracts where grid snapshots live.
//
// A snapshot is written once by the builder and read many times by
// traversal workers, possibly on other machines. The BlobStore interface
// covers that lifecycle: Put/Create to publish, Open for random-access
// reads, List/Delete for housekeeping.
//
// Backends: MemoryStore (tests), LocalStore (memory-mapped files), and the
// minio and s3 subpackages for object storage. CachingStore adds a
// block-level LRU in front of remote backends.
package blobstore
