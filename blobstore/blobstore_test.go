package blobstore

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "vocab/token_dictionary.json", []byte("abc")))

	blob, err := store.Open(ctx, "vocab/token_dictionary.json")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(3), blob.Size())

	data, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)

	_, err = store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	names, err := store.List(ctx, "vocab/")
	require.NoError(t, err)
	assert.Equal(t, []string{"vocab/token_dictionary.json"}, names)
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	require.NoError(t, store.Put(ctx, "embeddings/human.json", []byte("vectors")))

	data, err := ReadAll(ctx, store, "embeddings/human.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("vectors"), data)

	names, err := store.List(ctx, "embeddings/")
	require.NoError(t, err)
	assert.Equal(t, []string{"embeddings/human.json"}, names)
}

func TestDecompress(t *testing.T) {
	payload := bytes.Repeat([]byte("gene expression "), 256)

	zw, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zstdData := zw.EncodeAll(payload, nil)
	require.NoError(t, zw.Close())

	var lz4Buf bytes.Buffer
	lw := lz4.NewWriter(&lz4Buf)
	_, err = lw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, lw.Close())

	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	_, err = gw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	tests := []struct {
		name string
		data []byte
	}{
		{name: "zstd", data: zstdData},
		{name: "lz4", data: lz4Buf.Bytes()},
		{name: "gzip", data: gzBuf.Bytes()},
		{name: "plain", data: payload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decompress(tt.data)
			require.NoError(t, err)
			assert.Equal(t, payload, out)
		})
	}
}

func TestReadAllDecompresses(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	payload := bytes.Repeat([]byte("embedding "), 128)
	zw, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "human.json.zst", zw.EncodeAll(payload, nil)))
	require.NoError(t, zw.Close())

	data, err := ReadAll(ctx, store, "human.json.zst")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

// countingStore counts Open calls to observe caching behavior.
type countingStore struct {
	*MemoryStore
	opens atomic.Int64
}

func (s *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	s.opens.Add(1)
	return s.MemoryStore.Open(ctx, name)
}

func TestCachingStore(t *testing.T) {
	ctx := context.Background()

	inner := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, inner.Put(ctx, "vocab.json", []byte("frozen")))

	store := NewCachingStore(inner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			data, err := ReadAll(ctx, store, "vocab.json")
			assert.NoError(t, err)
			assert.Equal(t, []byte("frozen"), data)
		}()
	}
	wg.Wait()

	// All reads after the first are served from cache; concurrent first
	// reads collapse into one fetch.
	assert.LessOrEqual(t, inner.opens.Load(), int64(8))
	assert.Positive(t, store.CachedBytes())

	before := inner.opens.Load()
	_, err := ReadAll(ctx, store, "vocab.json")
	require.NoError(t, err)
	assert.Equal(t, before, inner.opens.Load())

	store.Invalidate("vocab.json")
	_, err = ReadAll(ctx, store, "vocab.json")
	require.NoError(t, err)
	assert.Equal(t, before+1, inner.opens.Load())
}

func TestRateLimitedStore(t *testing.T) {
	ctx := context.Background()

	inner := NewMemoryStore()
	require.NoError(t, inner.Put(ctx, "vocab.json", []byte("frozen")))

	store := NewRateLimitedStore(inner, 1000, 10)

	data, err := ReadAll(ctx, store, "vocab.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("frozen"), data)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	_, err = store.Open(cancelled, "vocab.json")
	assert.Error(t, err)
}
