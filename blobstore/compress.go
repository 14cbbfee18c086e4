package blobstore

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Frame magic bytes of the supported compression formats.
var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Decompress detects the compression format of an asset blob by its frame
// magic and returns the decompressed bytes. Uncompressed data is returned
// as-is, so publishers may compress large embedding tables without the
// consumer having to know.
func Decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		dec, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("blobstore: zstd: %w", err)
		}
		defer dec.Close()

		out, err := io.ReadAll(dec)
		if err != nil {
			return nil, fmt.Errorf("blobstore: zstd: %w", err)
		}
		return out, nil

	case bytes.HasPrefix(data, lz4Magic):
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("blobstore: lz4: %w", err)
		}
		return out, nil

	case bytes.HasPrefix(data, gzipMagic):
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("blobstore: gzip: %w", err)
		}
		defer r.Close()

		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("blobstore: gzip: %w", err)
		}
		return out, nil

	default:
		return data, nil
	}
}
