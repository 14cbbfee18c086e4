// Package metadata carries per-cell attributes (cell type, sample id, batch)
// alongside tokenized sequences.
//
// Metadata never influences tokenization; its single job is to stay
// index-aligned with the token batch: row i of a Table always describes
// cell i of the corresponding expression matrix.
package metadata
