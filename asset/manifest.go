// Package asset loads the frozen dictionaries a pretrained model release
// ships: the token vocabulary, identifier mappings, per-species embedding
// tables and the chromosome side table.
//
// A release is described by a manifest blob; the CURRENT blob holds the
// name of the active manifest, so publishers can switch releases atomically
// underneath read-only consumers.
package asset

import (
	"fmt"

	"github.com/hupe1980/celltok/codec"
)

const (
	// CurrentName is the blob holding the active manifest's blob name.
	CurrentName = "CURRENT"
	// CurrentVersion is the manifest schema version understood by this
	// package.
	CurrentVersion = 1
)

// Logical asset names referenced by the pipeline.
const (
	VocabularyAsset      = "token_dictionary"
	GeneMappingAsset     = "gene_mapping"
	ChromTableAsset      = "chromosome_table"
	EmbeddingAssetPrefix = "embeddings/"
)

// Info describes one frozen asset of a release.
type Info struct {
	// Name is the logical asset name, e.g. "token_dictionary" or
	// "embeddings/human".
	Name string `json:"name"`
	// Blob is the blob name in the backing store.
	Blob string `json:"blob"`
	// SHA256 is the hex digest of the (compressed) blob, empty to skip
	// verification.
	SHA256 string `json:"sha256,omitempty"`
	// Size is the blob size in bytes, informational.
	Size int64 `json:"size,omitempty"`
}

// Manifest describes a frozen model release.
type Manifest struct {
	Version int    `json:"version"`
	Model   string `json:"model"`
	// Codec names the codec the asset blobs were written with.
	Codec  string `json:"codec"`
	Assets []Info `json:"assets"`
}

// Lookup returns the asset info for a logical name.
func (m *Manifest) Lookup(name string) (Info, bool) {
	for _, a := range m.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Info{}, false
}

// AssetCodec resolves the codec the release's blobs were written with.
func (m *Manifest) AssetCodec() (codec.Codec, error) {
	if m.Codec == "" {
		return codec.Default, nil
	}
	c, ok := codec.ByName(m.Codec)
	if !ok {
		return nil, fmt.Errorf("asset: unknown codec %q in manifest", m.Codec)
	}
	return c, nil
}

// EmbeddingAssetName returns the logical asset name of a species' embedding
// table.
func EmbeddingAssetName(species string) string {
	return EmbeddingAssetPrefix + species
}
