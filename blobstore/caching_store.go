package blobstore

import (
	"bytes"
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CachingStore wraps a (typically remote) BlobStore with an in-memory blob
// cache. Frozen assets never change once published, so cached entries have
// no expiry; memory is bounded by the caller choosing which assets to load.
//
// Concurrent opens of the same uncached blob are collapsed into a single
// fetch.
type CachingStore struct {
	inner BlobStore

	mu    sync.RWMutex
	cache map[string][]byte
	group singleflight.Group
}

// NewCachingStore creates a caching wrapper around inner.
func NewCachingStore(inner BlobStore) *CachingStore {
	return &CachingStore{
		inner: inner,
		cache: make(map[string][]byte),
	}
}

// Open returns the cached blob or fetches it from the inner store.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	s.mu.RLock()
	data, ok := s.cache[name]
	s.mu.RUnlock()

	if !ok {
		v, err, _ := s.group.Do(name, func() (any, error) {
			blob, err := s.inner.Open(ctx, name)
			if err != nil {
				return nil, err
			}
			defer blob.Close()

			buf := bytes.NewBuffer(make([]byte, 0, blob.Size()))
			if _, err := buf.ReadFrom(blob); err != nil {
				return nil, err
			}

			fetched := buf.Bytes()

			s.mu.Lock()
			s.cache[name] = fetched
			s.mu.Unlock()

			return fetched, nil
		})
		if err != nil {
			return nil, err
		}
		data = v.([]byte)
	}

	return &memoryBlob{Reader: bytes.NewReader(data), size: int64(len(data))}, nil
}

// List delegates to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Invalidate drops a cached blob, e.g. after a failed checksum verification.
func (s *CachingStore) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// CachedBytes returns the total size of all cached blobs.
func (s *CachingStore) CachedBytes() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, data := range s.cache {
		total += int64(len(data))
	}
	return total
}
