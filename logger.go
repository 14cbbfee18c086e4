package celltok

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with pipeline-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSpecies adds a species field to the logger.
func (l *Logger) WithSpecies(species []string) *Logger {
	return &Logger{
		Logger: l.Logger.With("species", species),
	}
}

// WithCells adds a cell-count field to the logger.
func (l *Logger) WithCells(cells int) *Logger {
	return &Logger{
		Logger: l.Logger.With("cells", cells),
	}
}

// LogMap logs an identifier-mapping step.
func (l *Logger) LogMap(ctx context.Context, total, dropped int) {
	if dropped > 0 {
		l.WarnContext(ctx, "identifier mapping completed with drops",
			"total", total,
			"dropped", dropped,
			"mapped", total-dropped,
		)
	} else {
		l.DebugContext(ctx, "identifier mapping completed",
			"total", total,
		)
	}
}

// LogAlign logs an alignment run.
func (l *Logger) LogAlign(ctx context.Context, datasetGenes, alignedGenes int, species []string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "alignment failed",
			"dataset_genes", datasetGenes,
			"species", species,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "alignment completed",
			"dataset_genes", datasetGenes,
			"aligned_genes", alignedGenes,
			"species", species,
		)
	}
}

// LogTokenizeBatch logs a batch tokenization run.
func (l *Logger) LogTokenizeBatch(ctx context.Context, cells, vocabMisses, zeroCells int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "tokenization failed",
			"cells", cells,
			"error", err,
		)
	} else if vocabMisses > 0 || zeroCells > 0 {
		l.WarnContext(ctx, "tokenization completed with data loss",
			"cells", cells,
			"vocab_misses", vocabMisses,
			"zero_cells", zeroCells,
		)
	} else {
		l.DebugContext(ctx, "tokenization completed",
			"cells", cells,
		)
	}
}

// LogAssemble logs the final batch assembly.
func (l *Logger) LogAssemble(ctx context.Context, cells int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch assembly failed",
			"cells", cells,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "batch assembled",
			"cells", cells,
		)
	}
}
