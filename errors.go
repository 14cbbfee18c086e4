package celltok

import (
	"errors"
	"fmt"

	"github.com/hupe1980/celltok/align"
	"github.com/hupe1980/celltok/dataset"
	"github.com/hupe1980/celltok/vocab"
)

var (
	// ErrFatalConfig marks setup defects: unsupported species, corrupt
	// vocabulary, empty post-alignment gene set, embedding-dimension
	// mismatch. Retrying cannot fix these.
	ErrFatalConfig = errors.New("fatal configuration error")

	// ErrFatalInvariant marks implementation bugs surfaced at runtime:
	// assembler length mismatch, alignment invariant violation.
	ErrFatalInvariant = errors.New("fatal invariant violation")
)

// translateError classifies subpackage errors into the pipeline taxonomy.
// Recoverable data loss (unmapped identifiers, vocabulary misses, all-zero
// cells) never reaches this path; it is carried as counters on Result.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var us *align.ErrUnsupportedSpecies
	var dm *align.ErrDimensionMismatch
	if errors.As(err, &us) || errors.As(err, &dm) ||
		errors.Is(err, align.ErrEmptyAlignment) || errors.Is(err, vocab.ErrCorrupt) {
		return fmt.Errorf("%w: %w", ErrFatalConfig, err)
	}

	var iv *align.ErrInvariantViolation
	var lm *dataset.ErrLengthMismatch
	if errors.As(err, &iv) || errors.As(err, &lm) {
		return fmt.Errorf("%w: %w", ErrFatalInvariant, err)
	}

	return err
}
