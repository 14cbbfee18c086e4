// Package celltok prepares single-cell gene-expression data for
// fixed-vocabulary transformer models.
//
// It solves two problems: aligning gene identifiers and their pretrained
// embedding vectors across species and datasets with inconsistent naming,
// and converting each cell's continuous expression vector into a
// fixed-length, ordered sequence of discrete tokens.
//
// # Quick Start
//
// Load the frozen model assets and build a pipeline:
//
//	ctx := context.Background()
//
//	loader := asset.NewLoader(blobstore.NewLocalStore("./model_files"))
//	manifest, err := loader.Manifest(ctx)
//	if err != nil {
//	    panic(err)
//	}
//
//	vocabulary, _ := loader.Vocabulary(ctx, manifest)
//
//	registry := align.NewRegistry()
//	for _, species := range []string{"human", "mouse"} {
//	    vectors, _ := loader.EmbeddingTable(ctx, manifest, species)
//	    registry.Register(species, vectors)
//	}
//
//	pipeline, err := celltok.New(vocabulary,
//	    celltok.WithRegistry(registry),
//	    celltok.WithSpecies("human", "mouse"),
//	    celltok.WithMaxLength(1536),
//	)
//
// Run it over an expression matrix with per-cell metadata:
//
//	result, err := pipeline.Run(ctx, matrix, meta)
//	if err != nil {
//	    panic(err)
//	}
//	batch := result.Batch            // cells×L token matrix + metadata
//	embeddings := result.Aligned     // per-species embedding matrices
//	fmt.Println(result.Drops)        // data-quality counters
//
// The pipeline never reorders cells: row i of the token batch, the aligned
// matrix and the metadata table always refer to the same input cell.
package celltok
