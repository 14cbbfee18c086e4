// Package codec centralizes the encoding of frozen dictionary blobs.
//
// Vocabularies, identifier mappings, embedding tables and asset manifests
// are persisted through a Codec. Codec selection is a breaking-change
// boundary: blobs written by one codec may not decode with another, so
// self-describing formats (asset manifests) store the codec name.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// Asset manifests store the codec name so that frozen blobs can be decoded
// with the codec they were written with.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
