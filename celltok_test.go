package celltok

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/celltok/align"
	"github.com/hupe1980/celltok/expr"
	"github.com/hupe1980/celltok/gene"
	"github.com/hupe1980/celltok/metadata"
	"github.com/hupe1980/celltok/vocab"
)

func testVocabulary(t *testing.T) *vocab.Vocabulary {
	t.Helper()

	v, err := vocab.New(map[string]vocab.TokenID{
		"tp53":  10,
		"brca1": 11,
		"egfr":  12,
		"myc":   13,
	}, vocab.DefaultSpecialTokens())
	require.NoError(t, err)

	return v
}

func testRegistry(t *testing.T) *align.Registry {
	t.Helper()

	r := align.NewRegistry()
	require.NoError(t, r.Register("human", map[string][]float32{
		"TP53":  {1, 0},
		"BRCA1": {0, 1},
		"EGFR":  {1, 1},
		"MYC":   {2, 0},
	}))
	require.NoError(t, r.Register("mouse", map[string][]float32{
		"Tp53":  {3, 0},
		"Brca1": {0, 3},
		"Egfr":  {3, 3},
	}))

	return r
}

func testMatrix(t *testing.T) *expr.Matrix {
	t.Helper()

	m, err := expr.NewMatrixFromRows(
		gene.NewUniverse([]string{"TP53", "BRCA1", "EGFR", "MYC"}),
		[][]float32{
			{5, 0, 2, 1},
			{0, 0, 0, 0},
			{1, 4, 0, 2},
		},
	)
	require.NoError(t, err)

	return m
}

func TestPipelineRun(t *testing.T) {
	t.Run("end to end with alignment", func(t *testing.T) {
		pipeline, err := New(testVocabulary(t),
			WithRegistry(testRegistry(t)),
			WithSpecies("human", "mouse"),
			WithMaxLength(4),
		)
		require.NoError(t, err)

		meta := metadata.FromDocuments([]metadata.Document{
			{"cell_type": metadata.String("t_cell")},
			{"cell_type": metadata.String("b_cell")},
			{"cell_type": metadata.String("nk_cell")},
		})

		result, err := pipeline.Run(context.Background(), testMatrix(t), meta)
		require.NoError(t, err)

		// MYC is absent from mouse embeddings, so alignment keeps TP53,
		// BRCA1 and EGFR only.
		require.NotNil(t, result.Aligned)
		assert.Equal(t, []string{"TP53", "BRCA1", "EGFR"}, result.Aligned.Dataset.Genes().Names())
		assert.Len(t, result.Aligned.Embeddings, 2)
		assert.Equal(t, [][]float32{{3, 0}, {0, 3}, {3, 3}}, result.Aligned.Embeddings["mouse"].Vectors)

		require.Equal(t, 3, result.Batch.Len())
		for _, seq := range result.Batch.Tokens {
			assert.Len(t, seq, 4)
		}

		// Cell 0 over the aligned axis: tp53=5 > egfr=2, brca1 dropped.
		assert.Equal(t, []vocab.TokenID{3, 10, 12, 0}, result.Batch.Tokens[0])
		// Cell 1 is all zero.
		assert.Equal(t, []vocab.TokenID{3, 0, 0, 0}, result.Batch.Tokens[1])
		// Cell 2: brca1=4 > tp53=1, egfr dropped.
		assert.Equal(t, []vocab.TokenID{3, 11, 10, 0}, result.Batch.Tokens[2])

		assert.Equal(t, 3, result.Batch.Metadata.Len())
		ct, ok := result.Batch.Metadata.Value(1, "cell_type")
		require.True(t, ok)
		assert.Equal(t, "b_cell", ct.S)

		assert.Equal(t, DropStats{ZeroCells: 1}, result.Drops)
	})

	t.Run("without alignment", func(t *testing.T) {
		pipeline, err := New(testVocabulary(t), WithMaxLength(6))
		require.NoError(t, err)

		result, err := pipeline.Run(context.Background(), testMatrix(t), nil)
		require.NoError(t, err)

		assert.Nil(t, result.Aligned)
		require.Equal(t, 3, result.Batch.Len())
		// Full axis: tp53=5 > egfr=2 > myc=1.
		assert.Equal(t, []vocab.TokenID{3, 10, 12, 13, 0, 0}, result.Batch.Tokens[0])
		// Nil metadata yields an empty table of matching length.
		assert.Equal(t, 3, result.Batch.Metadata.Len())
	})

	t.Run("identifier mapping", func(t *testing.T) {
		mapper := gene.NewMapper(map[string]string{
			"ENSG00000141510": "TP53",
			"ENSG00000012048": "BRCA1",
		})

		pipeline, err := New(testVocabulary(t),
			WithGeneSymbols(mapper),
			WithMaxLength(4),
		)
		require.NoError(t, err)

		m, err := expr.NewMatrixFromRows(
			gene.NewUniverse([]string{"ENSG00000141510", "ENSG00000012048", "ENSG00000000003"}),
			[][]float32{{2, 7, 9}},
		)
		require.NoError(t, err)

		result, err := pipeline.Run(context.Background(), m, nil)
		require.NoError(t, err)

		// The unmapped column is dropped, including its dominant value.
		assert.Equal(t, 1, result.Drops.UnmappedIdentifiers)
		assert.Equal(t, []vocab.TokenID{3, 11, 10, 0}, result.Batch.Tokens[0])
	})

	t.Run("unsupported species is a config error", func(t *testing.T) {
		pipeline, err := New(testVocabulary(t),
			WithRegistry(testRegistry(t)),
			WithSpecies("human", "axolotl"),
		)
		require.NoError(t, err)

		_, err = pipeline.Run(context.Background(), testMatrix(t), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFatalConfig)

		var us *align.ErrUnsupportedSpecies
		require.ErrorAs(t, err, &us)
		assert.Equal(t, []string{"axolotl"}, us.Species)
	})

	t.Run("empty alignment is a config error", func(t *testing.T) {
		pipeline, err := New(testVocabulary(t),
			WithRegistry(testRegistry(t)),
			WithSpecies("human"),
		)
		require.NoError(t, err)

		m, err := expr.NewMatrixFromRows(
			gene.NewUniverse([]string{"UNRELATED1", "UNRELATED2"}),
			[][]float32{{1, 2}},
		)
		require.NoError(t, err)

		_, err = pipeline.Run(context.Background(), m, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFatalConfig)
		assert.ErrorIs(t, err, align.ErrEmptyAlignment)
	})

	t.Run("metadata length mismatch is an invariant error", func(t *testing.T) {
		pipeline, err := New(testVocabulary(t), WithMaxLength(4))
		require.NoError(t, err)

		meta := metadata.FromDocuments([]metadata.Document{
			{"cell_type": metadata.String("t_cell")},
		})

		_, err = pipeline.Run(context.Background(), testMatrix(t), meta)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFatalInvariant)
	})

	t.Run("nil matrix", func(t *testing.T) {
		pipeline, err := New(testVocabulary(t))
		require.NoError(t, err)

		_, err = pipeline.Run(context.Background(), nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFatalConfig)
	})

	t.Run("cancelled context", func(t *testing.T) {
		pipeline, err := New(testVocabulary(t))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = pipeline.Run(ctx, testMatrix(t), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNew(t *testing.T) {
	t.Run("species without registry", func(t *testing.T) {
		_, err := New(testVocabulary(t), WithSpecies("human"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFatalConfig)
	})

	t.Run("nil vocabulary", func(t *testing.T) {
		_, err := New(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFatalConfig)
	})

	t.Run("invalid max length", func(t *testing.T) {
		_, err := New(testVocabulary(t), WithMaxLength(0))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFatalConfig)
	})

	t.Run("invalid workers", func(t *testing.T) {
		_, err := New(testVocabulary(t), WithWorkers(-1))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFatalConfig)
	})
}

func TestPipelineMetrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}

	pipeline, err := New(testVocabulary(t),
		WithRegistry(testRegistry(t)),
		WithSpecies("human"),
		WithMaxLength(4),
		WithMetricsCollector(metrics),
	)
	require.NoError(t, err)

	_, err = pipeline.Run(context.Background(), testMatrix(t), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), metrics.AlignCount.Load())
	assert.Equal(t, int64(1), metrics.TokenizeCount.Load())
	assert.Equal(t, int64(3), metrics.TokenizeCells.Load())
	assert.Equal(t, int64(1), metrics.RunCount.Load())
	assert.Equal(t, int64(0), metrics.RunErrors.Load())
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	plain := errors.New("plain")
	assert.Equal(t, plain, translateError(plain))

	err := translateError(vocab.ErrCorrupt)
	assert.ErrorIs(t, err, ErrFatalConfig)
	assert.ErrorIs(t, err, vocab.ErrCorrupt)
}
