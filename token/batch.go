package token

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/celltok/expr"
)

// BatchResult is the outcome of tokenizing a whole matrix. Sequences[i]
// always corresponds to input row i.
type BatchResult struct {
	Sequences   []Sequence
	VocabMisses int
	ZeroCells   int
}

// TokenizeBatch tokenizes every cell of the matrix. Cells are sharded
// across workers (GOMAXPROCS if workers < 1); the tokenizer and matrix are
// read-only, so no locking is involved, and the output order always matches
// the input row order regardless of scheduling.
func (t *Tokenizer) TokenizeBatch(ctx context.Context, m *expr.Matrix, workers int) (*BatchResult, error) {
	rows := m.Rows()
	genes := m.Genes()

	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > rows {
		workers = rows
	}

	result := &BatchResult{Sequences: make([]Sequence, rows)}
	if rows == 0 {
		return result, nil
	}

	misses := make([]int, workers)
	zeros := make([]int, workers)

	g, ctx := errgroup.WithContext(ctx)

	chunk := (rows + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, rows)
		if start >= end {
			break
		}

		w := w
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}

				r := t.Tokenize(m.Row(i), genes)
				result.Sequences[i] = r.Sequence
				misses[w] += r.VocabMisses
				if r.AllZero {
					zeros[w]++
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for w := 0; w < workers; w++ {
		result.VocabMisses += misses[w]
		result.ZeroCells += zeros[w]
	}

	return result, nil
}
