package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/celltok/metadata"
	"github.com/hupe1980/celltok/token"
	"github.com/hupe1980/celltok/vocab"
)

func sequences(n int) []token.Sequence {
	seqs := make([]token.Sequence, n)
	for i := range seqs {
		seqs[i] = token.Sequence{4, vocab.TokenID(i + 10), 3, 3}
	}
	return seqs
}

func TestAssemble(t *testing.T) {
	docs := make([]metadata.Document, 3)
	for i := range docs {
		docs[i] = metadata.Document{"sample": metadata.Int(int64(i))}
	}

	batch, err := Assemble(sequences(3), metadata.FromDocuments(docs))
	require.NoError(t, err)

	assert.Equal(t, 3, batch.Len())

	// Row i of the token matrix corresponds to row i of the metadata table.
	for i := 0; i < batch.Len(); i++ {
		assert.Equal(t, vocab.TokenID(i+10), batch.Tokens[i][1])

		v, ok := batch.Metadata.Value(i, "sample")
		require.True(t, ok)
		assert.Equal(t, int64(i), v.I64)
	}
}

func TestAssembleLengthMismatch(t *testing.T) {
	docs := make([]metadata.Document, 9)
	for i := range docs {
		docs[i] = metadata.Document{"sample": metadata.Int(int64(i))}
	}

	_, err := Assemble(sequences(10), metadata.FromDocuments(docs))

	var lm *ErrLengthMismatch
	require.ErrorAs(t, err, &lm)
	assert.Equal(t, 10, lm.Sequences)
	assert.Equal(t, 9, lm.Metadata)
}

func TestAssembleNilMetadata(t *testing.T) {
	batch, err := Assemble(sequences(2), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, batch.Len())
	assert.Equal(t, 2, batch.Metadata.Len())
	assert.Empty(t, batch.Metadata.Columns())
}
