// Package s3 provides a BlobStore backed by Amazon S3.
//
// Snapshots are immutable objects; reads are served through ranged GETs so
// traversal workers can fetch sections without downloading the whole grid.
// Large snapshot uploads stream through the AWS multipart upload manager.
//
// CommitStore layers DynamoDB on top of plain S3 to give the "latest
// snapshot" pointer atomic compare-and-swap semantics, which S3 alone does
// not provide.
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := s3blob.NewStore(s3.NewFromConfig(cfg), "my-bucket", "grids/")
//	g, err := voxgo.LoadSnapshotFromStore(ctx, store, "scene.grid")
package s3
