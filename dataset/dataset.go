// Package dataset batches tokenized cells with their metadata into the
// columnar structure handed to a model-serving collaborator.
package dataset

import (
	"fmt"

	"github.com/hupe1980/celltok/metadata"
	"github.com/hupe1980/celltok/token"
	"github.com/hupe1980/celltok/vocab"
)

// ErrLengthMismatch indicates that the token sequences and the metadata
// table disagree on the number of cells. This is the single invariant the
// assembler enforces; if it ever triggers, an upstream stage reordered or
// dropped cells, which is an implementation bug.
type ErrLengthMismatch struct {
	Sequences int
	Metadata  int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("length mismatch: %d token sequences vs %d metadata rows", e.Sequences, e.Metadata)
}

// Batch is the model input: a cells×L token-id matrix plus a metadata table,
// index-aligned by construction and never re-sorted independently.
type Batch struct {
	Tokens   [][]vocab.TokenID
	Metadata *metadata.Table
}

// Len returns the number of cells in the batch.
func (b *Batch) Len() int { return len(b.Tokens) }

// Assemble combines token sequences and per-cell metadata into a Batch.
// Row i of the token matrix corresponds to row i of the metadata table.
func Assemble(sequences []token.Sequence, meta *metadata.Table) (*Batch, error) {
	if meta == nil {
		meta = metadata.NewTable(nil)
		for range sequences {
			if err := meta.Append(nil); err != nil {
				return nil, err
			}
		}
	}

	if len(sequences) != meta.Len() {
		return nil, &ErrLengthMismatch{Sequences: len(sequences), Metadata: meta.Len()}
	}

	tokens := make([][]vocab.TokenID, len(sequences))
	for i, seq := range sequences {
		tokens[i] = seq
	}

	return &Batch{Tokens: tokens, Metadata: meta}, nil
}
