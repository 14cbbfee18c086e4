package celltok

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/hupe1980/celltok/align"
	"github.com/hupe1980/celltok/dataset"
	"github.com/hupe1980/celltok/expr"
	"github.com/hupe1980/celltok/gene"
	"github.com/hupe1980/celltok/metadata"
	"github.com/hupe1980/celltok/token"
	"github.com/hupe1980/celltok/vocab"
)

// DropStats aggregates the recoverable data loss of one pipeline run.
// Drops are expected on real-world data and never abort a run.
type DropStats struct {
	// UnmappedIdentifiers counts dataset columns without a usable mapping.
	UnmappedIdentifiers int
	// VocabMisses counts ranked genes absent from the token vocabulary,
	// summed over all cells.
	VocabMisses int
	// ZeroCells counts cells without any positive expression value.
	ZeroCells int
}

func (d DropStats) String() string {
	return fmt.Sprintf("unmapped=%d vocab_misses=%d zero_cells=%d",
		d.UnmappedIdentifiers, d.VocabMisses, d.ZeroCells)
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Batch pairs the cells×L token matrix with the per-cell metadata table.
	Batch *dataset.Batch
	// Aligned carries the subset expression matrix and the per-species
	// embedding matrices. Nil when the alignment stage was skipped.
	Aligned *align.Result
	// Drops reports the recoverable data loss of the run.
	Drops DropStats
}

// Pipeline turns raw expression matrices into model-ready token batches.
// It is immutable after construction and safe for concurrent use.
type Pipeline struct {
	vocab     *vocab.Vocabulary
	tokenizer *token.Tokenizer
	aligner   *align.Aligner
	species   []string
	mapper    *gene.Mapper
	workers   int
	logger    *Logger
	metrics   MetricsCollector
}

// New creates a Pipeline over the given token vocabulary.
func New(v *vocab.Vocabulary, optFns ...Option) (*Pipeline, error) {
	opts := options{
		maxLength: token.DefaultMaxLength,
		workers:   runtime.GOMAXPROCS(0),
		logger:    NoopLogger(),
		metrics:   NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if v == nil {
		return nil, fmt.Errorf("%w: vocabulary must not be nil", ErrFatalConfig)
	}
	if opts.workers < 1 {
		return nil, fmt.Errorf("%w: workers must be at least 1, got %d", ErrFatalConfig, opts.workers)
	}
	if len(opts.species) > 0 && opts.registry == nil {
		return nil, fmt.Errorf("%w: species configured without an embedding registry", ErrFatalConfig)
	}

	tokenizer, err := token.NewTokenizer(v, func(o *token.Options) {
		o.MaxLength = opts.maxLength
		o.EmitChromBoundaries = opts.emitChromBoundaries
		o.Chrom = opts.chrom
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFatalConfig, err)
	}

	p := &Pipeline{
		vocab:     v,
		tokenizer: tokenizer,
		species:   opts.species,
		mapper:    opts.mapper,
		workers:   opts.workers,
		logger:    opts.logger,
		metrics:   opts.metrics,
	}
	if opts.registry != nil && len(opts.species) > 0 {
		p.aligner = align.NewAligner(opts.registry)
	}

	return p, nil
}

// Run executes the full preparation pipeline over an expression matrix:
// identifier mapping (if configured), cross-species alignment (if
// configured), rank tokenization and batch assembly.
//
// meta may be nil; the assembled batch then carries an empty metadata
// table. Cell order is preserved end to end.
func (p *Pipeline) Run(ctx context.Context, m *expr.Matrix, meta *metadata.Table) (*Result, error) {
	start := time.Now()

	result, err := p.run(ctx, m, meta)

	cells := 0
	if m != nil {
		cells = m.Rows()
	}
	p.metrics.RecordRun(cells, time.Since(start), err)

	return result, err
}

func (p *Pipeline) run(ctx context.Context, m *expr.Matrix, meta *metadata.Table) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: expression matrix must not be nil", ErrFatalConfig)
	}

	var drops DropStats

	if p.mapper != nil {
		mapped, err := p.mapColumns(ctx, m)
		if err != nil {
			return nil, err
		}

		m = mapped.matrix
		drops.UnmappedIdentifiers = mapped.dropped
	}

	var aligned *align.Result
	if p.aligner != nil {
		var err error

		aligned, err = p.align(ctx, m)
		if err != nil {
			return nil, err
		}

		m = aligned.Dataset
	}

	batch, err := p.tokenize(ctx, m)
	if err != nil {
		return nil, err
	}

	drops.VocabMisses = batch.VocabMisses
	drops.ZeroCells = batch.ZeroCells

	assembled, err := dataset.Assemble(batch.Sequences, meta)
	p.logger.LogAssemble(ctx, len(batch.Sequences), err)
	if err != nil {
		return nil, translateError(err)
	}

	return &Result{
		Batch:   assembled,
		Aligned: aligned,
		Drops:   drops,
	}, nil
}

type mappedColumns struct {
	matrix  *expr.Matrix
	dropped int
}

// mapColumns resolves the matrix's gene axis through the configured mapper
// and drops unresolvable columns. Mapping the entire axis away is a setup
// defect, not data loss.
func (p *Pipeline) mapColumns(ctx context.Context, m *expr.Matrix) (*mappedColumns, error) {
	raw := m.Genes().Names()
	res := p.mapper.Map(raw)
	p.logger.LogMap(ctx, len(raw), res.Dropped)

	keep := make([]int, 0, len(res.Resolved)-res.Dropped)
	names := make([]string, 0, len(res.Resolved)-res.Dropped)

	for i, e := range res.Resolved {
		if !e.OK {
			continue
		}

		keep = append(keep, i)
		names = append(names, string(e.ID))
	}

	if len(keep) == 0 {
		return nil, fmt.Errorf("%w: no dataset identifier could be mapped", ErrFatalConfig)
	}

	matrix, err := m.SubsetColumnsRenamed(keep, names)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFatalInvariant, err)
	}

	return &mappedColumns{matrix: matrix, dropped: res.Dropped}, nil
}

func (p *Pipeline) align(ctx context.Context, m *expr.Matrix) (*align.Result, error) {
	start := time.Now()

	aligned, err := p.aligner.Align(m, p.species...)

	alignedGenes := 0
	if aligned != nil {
		alignedGenes = aligned.Dataset.Cols()
	}
	p.metrics.RecordAlign(alignedGenes, time.Since(start), err)
	p.logger.LogAlign(ctx, m.Cols(), alignedGenes, p.species, err)

	if err != nil {
		return nil, translateError(err)
	}

	return aligned, nil
}

func (p *Pipeline) tokenize(ctx context.Context, m *expr.Matrix) (*token.BatchResult, error) {
	start := time.Now()

	batch, err := p.tokenizer.TokenizeBatch(ctx, m, p.workers)

	cells, misses, zero := 0, 0, 0
	if batch != nil {
		cells, misses, zero = len(batch.Sequences), batch.VocabMisses, batch.ZeroCells
	}
	p.metrics.RecordTokenizeBatch(cells, misses, time.Since(start), err)
	p.logger.LogTokenizeBatch(ctx, cells, misses, zero, err)

	if err != nil {
		return nil, translateError(err)
	}

	return batch, nil
}
