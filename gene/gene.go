// Package gene defines the canonical gene identifier space shared by every
// pipeline stage.
//
// All joins between datasets, identifier mappings, vocabularies and
// embedding tables happen on normalized identifiers. Normalize is the single
// place where normalization is defined; constructing an Identifier any other
// way breaks the join-key invariant.
package gene

import "strings"

// Identifier is a case-normalized gene identifier used as the join key
// across all identifier systems.
type Identifier string

// Normalize converts a raw gene name into its canonical Identifier form.
//
// Normalization is total and deterministic: two raw names that differ only
// in case or surrounding whitespace normalize identically.
func Normalize(raw string) Identifier {
	return Identifier(strings.ToLower(strings.TrimSpace(raw)))
}

// Universe is the ordered gene axis of one expression dataset.
//
// It keeps the dataset's original column names and order; matching against
// other identifier systems is case-insensitive via Normalize. A Universe is
// only ever subsetted, never extended.
type Universe struct {
	names []string
	index map[Identifier]int
}

// NewUniverse creates a Universe from dataset column names, preserving
// their order and original casing. If two names normalize identically, the
// first occurrence wins the normalized index.
func NewUniverse(names []string) *Universe {
	u := &Universe{
		names: make([]string, len(names)),
		index: make(map[Identifier]int, len(names)),
	}
	copy(u.names, names)

	for i, name := range names {
		id := Normalize(name)
		if _, ok := u.index[id]; !ok {
			u.index[id] = i
		}
	}

	return u
}

// Len returns the number of genes.
func (u *Universe) Len() int { return len(u.names) }

// Name returns the original (non-normalized) name of column i.
func (u *Universe) Name(i int) string { return u.names[i] }

// Names returns a copy of all original column names in dataset order.
func (u *Universe) Names() []string {
	names := make([]string, len(u.names))
	copy(names, u.names)
	return names
}

// Index returns the column index of a normalized identifier.
func (u *Universe) Index(id Identifier) (int, bool) {
	i, ok := u.index[id]
	return i, ok
}

// Contains reports whether the normalized identifier is part of the universe.
func (u *Universe) Contains(id Identifier) bool {
	_, ok := u.index[id]
	return ok
}

// Subset returns a new Universe restricted to the given column indexes.
// The indexes must be valid and in ascending order so the dataset's original
// column order is preserved.
func (u *Universe) Subset(keep []int) *Universe {
	names := make([]string, 0, len(keep))
	for _, i := range keep {
		names = append(names, u.names[i])
	}
	return NewUniverse(names)
}
