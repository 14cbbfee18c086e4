package celltok

import (
	"github.com/hupe1980/celltok/align"
	"github.com/hupe1980/celltok/gene"
	"github.com/hupe1980/celltok/token"
)

type options struct {
	maxLength           int
	species             []string
	registry            *align.Registry
	mapper              *gene.Mapper
	emitChromBoundaries bool
	chrom               token.ChromTable
	workers             int
	logger              *Logger
	metrics             MetricsCollector
}

// Option configures Pipeline construction.
type Option func(*options)

// WithMaxLength sets the fixed token-sequence length budget. The CLS token
// and any chromosome boundary tokens count toward it. Defaults to the
// pretrained model's pad length (1536).
func WithMaxLength(maxLength int) Option {
	return func(o *options) {
		o.maxLength = maxLength
	}
}

// WithRegistry sets the per-species embedding registry used for alignment.
// Without a registry (or without species) the alignment stage is skipped
// and cells are tokenized over the dataset's own gene axis.
func WithRegistry(registry *align.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithSpecies selects the species whose embeddings the dataset is aligned
// against. Requires WithRegistry.
func WithSpecies(species ...string) Option {
	return func(o *options) {
		o.species = species
	}
}

// WithGeneSymbols enables the identifier-mapping stage: dataset columns are
// treated as foreign identifiers (e.g. gene symbols) and resolved into the
// canonical space through the mapper before alignment. Columns without a
// mapping are dropped and counted.
func WithGeneSymbols(mapper *gene.Mapper) Option {
	return func(o *options) {
		o.mapper = mapper
	}
}

// WithChromBoundaries enables CHROM_LEFT/CHROM_RIGHT emission around
// contiguous same-chromosome runs, using the given side table.
func WithChromBoundaries(chrom token.ChromTable) Option {
	return func(o *options) {
		o.emitChromBoundaries = true
		o.chrom = chrom
	}
}

// WithWorkers sets the number of tokenization workers per batch.
// Defaults to GOMAXPROCS.
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithLogger sets the logger. Defaults to a noop logger.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// pipeline operations. Defaults to a noop collector.
func WithMetricsCollector(metrics MetricsCollector) Option {
	return func(o *options) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}
