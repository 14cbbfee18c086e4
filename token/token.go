// Package token converts a cell's continuous expression vector into a
// fixed-length, ordered sequence of token ids: genes are ranked by
// descending expression, mapped through the model vocabulary, framed with a
// CLS token and optional chromosome boundary markers, then padded or
// truncated to the configured length.
package token

import (
	"fmt"
	"math"
	"sort"

	"github.com/hupe1980/celltok/gene"
	"github.com/hupe1980/celltok/vocab"
)

// DefaultMaxLength is the sequence length budget of the pretrained model
// files (UCE pad length).
const DefaultMaxLength = 1536

// Sequence is one cell's ordered token ids, always of the configured
// fixed length.
type Sequence []vocab.TokenID

// ChromTable maps normalized gene identifiers to a chromosome label, used
// for boundary-token emission.
type ChromTable map[gene.Identifier]string

// NewChromTable builds a ChromTable from a raw gene→chromosome mapping,
// normalizing the keys.
func NewChromTable(raw map[string]string) ChromTable {
	table := make(ChromTable, len(raw))
	for name, chrom := range raw {
		table[gene.Normalize(name)] = chrom
	}
	return table
}

// Options configures a Tokenizer.
type Options struct {
	// MaxLength is the fixed output sequence length. The CLS token and any
	// chromosome boundary tokens count toward it.
	MaxLength int
	// EmitChromBoundaries inserts CHROM_LEFT/CHROM_RIGHT around contiguous
	// same-chromosome runs of the ranked gene tokens. Requires Chrom.
	EmitChromBoundaries bool
	// Chrom is the gene→chromosome side table.
	Chrom ChromTable
}

// Result is the outcome of tokenizing a single cell.
type Result struct {
	Sequence Sequence
	// VocabMisses counts ranked genes that are absent from the vocabulary.
	// Misses are dropped, not fatal.
	VocabMisses int
	// GeneTokens is the number of gene tokens in the final sequence.
	GeneTokens int
	// AllZero marks a cell without any positive expression value.
	AllZero bool
}

// Tokenizer is an immutable rank tokenizer. It is safe for concurrent use.
type Tokenizer struct {
	vocab *vocab.Vocabulary
	opts  Options
}

// NewTokenizer creates a Tokenizer over the given vocabulary.
func NewTokenizer(v *vocab.Vocabulary, optFns ...func(*Options)) (*Tokenizer, error) {
	opts := Options{MaxLength: DefaultMaxLength}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxLength < 1 {
		return nil, fmt.Errorf("token: max length must be at least 1, got %d", opts.MaxLength)
	}
	if opts.EmitChromBoundaries && opts.Chrom == nil {
		return nil, fmt.Errorf("token: chromosome boundaries requested without a chromosome table")
	}

	return &Tokenizer{vocab: v, opts: opts}, nil
}

// MaxLength returns the fixed output sequence length.
func (t *Tokenizer) MaxLength() int { return t.opts.MaxLength }

type rankedGene struct {
	token vocab.TokenID
	chrom string
}

// Tokenize encodes one cell's expression vector over the given gene axis.
//
// Genes with non-positive or missing (NaN) expression never contribute a
// token. Ties in expression value are broken by ascending column index, so
// tokenization is deterministic for identical input. An all-zero cell
// yields [CLS, PAD, ...] rather than an error.
func (t *Tokenizer) Tokenize(row []float32, genes *gene.Universe) Result {
	cols := genes.Len()
	if len(row) < cols {
		cols = len(row)
	}

	order := make([]int, 0, cols)
	for j := 0; j < cols; j++ {
		v := row[j]
		if v <= 0 || math.IsNaN(float64(v)) {
			continue
		}
		order = append(order, j)
	}

	sort.Slice(order, func(a, b int) bool {
		va, vb := row[order[a]], row[order[b]]
		if va != vb {
			return va > vb
		}
		return order[a] < order[b]
	})

	result := Result{AllZero: len(order) == 0}

	ranked := make([]rankedGene, 0, len(order))
	for _, j := range order {
		id := gene.Normalize(genes.Name(j))
		tok, ok := t.vocab.LookupToken(id)
		if !ok {
			result.VocabMisses++
			continue
		}
		var chrom string
		if t.opts.EmitChromBoundaries {
			chrom = t.opts.Chrom[id]
		}
		ranked = append(ranked, rankedGene{token: tok, chrom: chrom})
	}

	result.Sequence, result.GeneTokens = t.assemble(ranked)

	return result
}

// assemble frames the ranked gene tokens and applies the length budget.
//
// Budget rule: boundary tokens are inserted before truncation and consume
// length budget, as does CLS. Truncation drops the lowest-ranked tail; if
// the cut lands inside a chromosome run, the final slot is rewritten to
// CHROM_RIGHT so every emitted CHROM_LEFT is closed (a cut on the
// CHROM_LEFT itself removes it instead).
func (t *Tokenizer) assemble(ranked []rankedGene) (Sequence, int) {
	special := t.vocab.Special()
	maxLen := t.opts.MaxLength

	seq := make(Sequence, 0, maxLen)
	seq = append(seq, special.Cls)

	if t.opts.EmitChromBoundaries {
		for i := 0; i < len(ranked); {
			chrom := ranked[i].chrom
			if chrom == "" {
				seq = append(seq, ranked[i].token)
				i++
				continue
			}

			run := i
			for run < len(ranked) && ranked[run].chrom == chrom {
				run++
			}

			seq = append(seq, special.ChromLeft)
			for ; i < run; i++ {
				seq = append(seq, ranked[i].token)
			}
			seq = append(seq, special.ChromRight)
		}
	} else {
		for _, g := range ranked {
			seq = append(seq, g.token)
		}
	}

	if len(seq) > maxLen {
		seq = seq[:maxLen]
		if t.opts.EmitChromBoundaries {
			seq = closeOpenRun(seq, special)
		}
	}

	genes := 0
	for _, id := range seq {
		if !t.vocab.IsSpecial(id) {
			genes++
		}
	}

	for len(seq) < maxLen {
		seq = append(seq, special.Pad)
	}

	return seq, genes
}

// closeOpenRun repairs a truncated sequence so boundary tokens stay
// balanced.
func closeOpenRun(seq Sequence, special vocab.SpecialTokens) Sequence {
	open := 0
	for _, id := range seq {
		switch id {
		case special.ChromLeft:
			open++
		case special.ChromRight:
			open--
		}
	}
	if open == 0 {
		return seq
	}

	if seq[len(seq)-1] == special.ChromLeft {
		return seq[:len(seq)-1]
	}

	seq[len(seq)-1] = special.ChromRight

	return seq
}
