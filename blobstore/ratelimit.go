package blobstore

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedStore wraps a remote BlobStore with a token-bucket limiter on
// operations, so bulk embedding-table loads do not saturate a shared asset
// endpoint.
type RateLimitedStore struct {
	inner   BlobStore
	limiter *rate.Limiter
}

// NewRateLimitedStore creates a rate-limited wrapper allowing opsPerSecond
// operations with the given burst.
func NewRateLimitedStore(inner BlobStore, opsPerSecond float64, burst int) *RateLimitedStore {
	return &RateLimitedStore{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(opsPerSecond), burst),
	}
}

// Open waits for the limiter, then delegates to the inner store.
func (s *RateLimitedStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.Open(ctx, name)
}

// List waits for the limiter, then delegates to the inner store.
func (s *RateLimitedStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.List(ctx, prefix)
}
