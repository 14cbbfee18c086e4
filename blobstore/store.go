// Package blobstore abstracts access to the frozen model assets the
// pipeline consumes: vocabulary dictionaries, identifier mappings,
// per-species embedding tables and chromosome side tables.
//
// Assets are immutable once published, so the abstraction is read-oriented;
// writing exists only for seeding stores in tests and publishing tools.
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for accessing immutable asset blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// List returns the blob names matching the prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to an asset blob.
type Blob interface {
	io.ReadCloser
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Putter is an optional interface for stores that support publishing.
type Putter interface {
	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error
}

// ReadAll opens a blob, reads it fully and transparently decompresses
// zstd, lz4 and gzip frames.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data, err := io.ReadAll(blob)
	if err != nil {
		return nil, err
	}

	return Decompress(data)
}
