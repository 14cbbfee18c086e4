package celltok

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAlign is called after each alignment run.
	// alignedGenes is the size of the surviving gene set, err is nil if successful.
	RecordAlign(alignedGenes int, duration time.Duration, err error)

	// RecordTokenizeBatch is called after each batch tokenization.
	// cells is the number of cells processed, vocabMisses the number of
	// ranked genes absent from the vocabulary.
	RecordTokenizeBatch(cells, vocabMisses int, duration time.Duration, err error)

	// RecordRun is called after each end-to-end pipeline run.
	RecordRun(cells int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlign(int, time.Duration, error)              {}
func (NoopMetricsCollector) RecordTokenizeBatch(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRun(int, time.Duration, error)                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AlignCount         atomic.Int64
	AlignErrors        atomic.Int64
	AlignTotalNanos    atomic.Int64
	TokenizeCount      atomic.Int64
	TokenizeCells      atomic.Int64
	TokenizeMisses     atomic.Int64
	TokenizeErrors     atomic.Int64
	TokenizeTotalNanos atomic.Int64
	RunCount           atomic.Int64
	RunErrors          atomic.Int64
	RunTotalNanos      atomic.Int64
}

// RecordAlign implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlign(alignedGenes int, duration time.Duration, err error) {
	b.AlignCount.Add(1)
	b.AlignTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AlignErrors.Add(1)
	}
}

// RecordTokenizeBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTokenizeBatch(cells, vocabMisses int, duration time.Duration, err error) {
	b.TokenizeCount.Add(1)
	b.TokenizeCells.Add(int64(cells))
	b.TokenizeMisses.Add(int64(vocabMisses))
	b.TokenizeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TokenizeErrors.Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(cells int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}
