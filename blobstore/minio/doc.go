// Package minio provides a BlobStore backed by MinIO or any S3-compatible
// object store (Ceph, Garage, SeaweedFS).
//
// Grid snapshots map naturally onto immutable objects: a snapshot is
// uploaded once and served to traversal workers through ranged GETs.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "grids/")
//	g, err := voxgo.LoadSnapshotFromStore(ctx, store, "scene.grid")
package minio
