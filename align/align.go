// Package align restricts an expression dataset to the genes that carry
// pretrained embeddings in every requested species, and produces per-species
// embedding matrices whose rows follow the dataset's canonical gene order.
package align

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/celltok/expr"
	"github.com/hupe1980/celltok/gene"
)

// Registry holds the per-species embedding tables of one alignment run.
//
// Tables are registered once and read-only afterwards; the embedding
// dimension is enforced to be identical across all registered species.
type Registry struct {
	dim    int
	tables map[string]map[gene.Identifier][]float32
}

// NewRegistry creates an empty embedding registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]map[gene.Identifier][]float32)}
}

// Register adds a species' raw embedding table. Keys are normalized; vector
// dimensions must agree within the table and with previously registered
// species, otherwise an ErrDimensionMismatch is returned.
func (r *Registry) Register(species string, vectors map[string][]float32) error {
	if len(vectors) == 0 {
		return fmt.Errorf("align: empty embedding table for species %q", species)
	}

	table := make(map[gene.Identifier][]float32, len(vectors))
	for raw, vec := range vectors {
		if r.dim == 0 {
			r.dim = len(vec)
		}
		if len(vec) != r.dim {
			return &ErrDimensionMismatch{Species: species, Expected: r.dim, Actual: len(vec)}
		}
		table[gene.Normalize(raw)] = vec
	}

	r.tables[species] = table

	return nil
}

// Species returns the registered species names in sorted order.
func (r *Registry) Species() []string {
	names := make([]string, 0, len(r.tables))
	for s := range r.tables {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

// Dimension returns the embedding dimension, or 0 if nothing is registered.
func (r *Registry) Dimension() int { return r.dim }

// EmbeddingMatrix is a genes×dim matrix whose row order matches the aligned
// dataset's canonical gene order.
type EmbeddingMatrix struct {
	Vectors [][]float32
	Dim     int
}

// Result is the outcome of one alignment run.
type Result struct {
	// Dataset is the input matrix restricted to the aligned genes, original
	// row order, column order and column casing preserved.
	Dataset *expr.Matrix
	// Embeddings maps species to its embedding matrix in canonical order.
	Embeddings map[string]*EmbeddingMatrix
}

// Aligner computes gene intersections against a Registry.
type Aligner struct {
	registry *Registry
}

// NewAligner creates an Aligner over the given registry.
func NewAligner(registry *Registry) *Aligner {
	return &Aligner{registry: registry}
}

// Align subsets the dataset to the genes that have embeddings in all
// requested species and builds the per-species embedding matrices.
//
// Species support is checked before any data is touched. The matching test
// is case-insensitive, but the dataset's original casing and column order
// are preserved; that column order becomes the canonical order of the run.
func (a *Aligner) Align(m *expr.Matrix, species ...string) (*Result, error) {
	var missing []string
	for _, s := range species {
		if _, ok := a.registry.tables[s]; !ok {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &ErrUnsupportedSpecies{Species: missing}
	}
	if len(species) == 0 {
		return nil, fmt.Errorf("align: at least one species is required")
	}

	// Intern every embedding key across the requested species and collect
	// one bitmap of key indexes per species; the intersection of the
	// bitmaps is the set of genes with embeddings everywhere.
	interned := make(map[gene.Identifier]uint32)
	withEmbeddings := roaring.New()

	for i, s := range species {
		bm := roaring.New()
		for id := range a.registry.tables[s] {
			idx, ok := interned[id]
			if !ok {
				idx = uint32(len(interned))
				interned[id] = idx
			}
			bm.Add(idx)
		}
		if i == 0 {
			withEmbeddings = bm
		} else {
			withEmbeddings.And(bm)
		}
	}

	genes := m.Genes()
	keep := make([]int, 0, genes.Len())
	seen := make(map[gene.Identifier]struct{}, genes.Len())

	for j := 0; j < genes.Len(); j++ {
		id := gene.Normalize(genes.Name(j))
		if _, dup := seen[id]; dup {
			continue
		}
		idx, ok := interned[id]
		if !ok || !withEmbeddings.Contains(idx) {
			continue
		}
		seen[id] = struct{}{}
		keep = append(keep, j)
	}

	if len(keep) == 0 {
		return nil, ErrEmptyAlignment
	}

	aligned := m.SubsetColumns(keep)

	result := &Result{
		Dataset:    aligned,
		Embeddings: make(map[string]*EmbeddingMatrix, len(species)),
	}

	alignedGenes := aligned.Genes()
	for _, s := range species {
		table := a.registry.tables[s]
		vectors := make([][]float32, alignedGenes.Len())
		for j := 0; j < alignedGenes.Len(); j++ {
			id := gene.Normalize(alignedGenes.Name(j))
			vec, ok := table[id]
			if !ok {
				// Proven impossible by the intersection step; kept as a
				// loud guard against refactors that weaken it.
				return nil, &ErrInvariantViolation{Species: s, Gene: string(id)}
			}
			vectors[j] = vec
		}
		result.Embeddings[s] = &EmbeddingMatrix{Vectors: vectors, Dim: a.registry.dim}
	}

	return result, nil
}
