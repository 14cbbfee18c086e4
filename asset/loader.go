package asset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/celltok/blobstore"
	"github.com/hupe1980/celltok/codec"
	"github.com/hupe1980/celltok/vocab"
)

// Loader materializes frozen dictionaries from a BlobStore.
//
// The manifest itself is always stored as plain JSON so it can be decoded
// before the release's codec is known; asset blobs are decoded with the
// codec the manifest names.
type Loader struct {
	store blobstore.BlobStore
}

// NewLoader creates a Loader over the given store.
func NewLoader(store blobstore.BlobStore) *Loader {
	return &Loader{store: store}
}

// Manifest resolves the CURRENT pointer and loads the active manifest.
func (l *Loader) Manifest(ctx context.Context) (*Manifest, error) {
	current, err := blobstore.ReadAll(ctx, l.store, CurrentName)
	if err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", CurrentName, err)
	}

	name := strings.TrimSpace(string(current))

	data, err := blobstore.ReadAll(ctx, l.store, name)
	if err != nil {
		return nil, fmt.Errorf("asset: read manifest %q: %w", name, err)
	}

	var m Manifest
	if err := (codec.JSON{}).Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("asset: decode manifest %q: %w", name, err)
	}

	if m.Version != CurrentVersion {
		return nil, fmt.Errorf("asset: unsupported manifest version: %d (expected %d)", m.Version, CurrentVersion)
	}

	return &m, nil
}

// Vocabulary loads and validates the release's token vocabulary.
func (l *Loader) Vocabulary(ctx context.Context, m *Manifest) (*vocab.Vocabulary, error) {
	c, err := m.AssetCodec()
	if err != nil {
		return nil, err
	}

	data, err := l.readVerified(ctx, m, VocabularyAsset)
	if err != nil {
		return nil, err
	}

	return vocab.Load(data, c)
}

// GeneMapping loads a flat raw→canonical identifier mapping.
func (l *Loader) GeneMapping(ctx context.Context, m *Manifest) (map[string]string, error) {
	var mapping map[string]string
	if err := l.loadInto(ctx, m, GeneMappingAsset, &mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// GeneMappingRecords loads an identifier mapping whose values are records
// (e.g. symbol → {id: ..., display_name: ...}).
func (l *Loader) GeneMappingRecords(ctx context.Context, m *Manifest) (map[string]map[string]string, error) {
	var records map[string]map[string]string
	if err := l.loadInto(ctx, m, GeneMappingAsset, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EmbeddingTable loads one species' raw gene→vector table.
func (l *Loader) EmbeddingTable(ctx context.Context, m *Manifest, species string) (map[string][]float32, error) {
	var vectors map[string][]float32
	if err := l.loadInto(ctx, m, EmbeddingAssetName(species), &vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}

// ChromTable loads the gene→chromosome side table.
func (l *Loader) ChromTable(ctx context.Context, m *Manifest) (map[string]string, error) {
	var table map[string]string
	if err := l.loadInto(ctx, m, ChromTableAsset, &table); err != nil {
		return nil, err
	}
	return table, nil
}

func (l *Loader) loadInto(ctx context.Context, m *Manifest, name string, v any) error {
	c, err := m.AssetCodec()
	if err != nil {
		return err
	}

	data, err := l.readVerified(ctx, m, name)
	if err != nil {
		return err
	}

	if err := c.Unmarshal(data, v); err != nil {
		return fmt.Errorf("asset: decode %q: %w", name, err)
	}

	return nil
}

// readVerified reads an asset blob and verifies its digest before the blob
// is decompressed or decoded.
func (l *Loader) readVerified(ctx context.Context, m *Manifest, name string) ([]byte, error) {
	info, ok := m.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("asset: release %q has no asset %q: %w", m.Model, name, blobstore.ErrNotFound)
	}

	blob, err := l.store.Open(ctx, info.Blob)
	if err != nil {
		return nil, fmt.Errorf("asset: open %q: %w", info.Blob, err)
	}
	defer blob.Close()

	raw, err := io.ReadAll(blob)
	if err != nil {
		return nil, fmt.Errorf("asset: read %q: %w", info.Blob, err)
	}

	if info.SHA256 != "" {
		sum := sha256.Sum256(raw)
		if hex.EncodeToString(sum[:]) != info.SHA256 {
			return nil, fmt.Errorf("asset: checksum mismatch for %q", info.Blob)
		}
	}

	return blobstore.Decompress(raw)
}
