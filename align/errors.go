package align

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyAlignment is returned when the intersection of the dataset's genes
// and the species' embedding keys is empty. A zero-gene dataset is never a
// valid tokenizer input, so this is surfaced instead of an empty result.
var ErrEmptyAlignment = errors.New("no genes left after alignment")

// ErrUnsupportedSpecies indicates that one or more requested species have no
// registered embedding table. It is raised before any data is touched.
type ErrUnsupportedSpecies struct {
	Species []string
}

func (e *ErrUnsupportedSpecies) Error() string {
	return fmt.Sprintf("no gene embeddings for species: %s", strings.Join(e.Species, ", "))
}

// ErrDimensionMismatch indicates embedding tables with differing vector
// dimensions across (or within) species.
type ErrDimensionMismatch struct {
	Species  string
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("embedding dimension mismatch for species %q: expected %d, got %d", e.Species, e.Expected, e.Actual)
}

// ErrInvariantViolation indicates a post-intersection embedding lookup miss.
// It signals an implementation bug, not a data issue.
type ErrInvariantViolation struct {
	Species string
	Gene    string
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("alignment invariant violated: species %q has no embedding for aligned gene %q", e.Species, e.Gene)
}
