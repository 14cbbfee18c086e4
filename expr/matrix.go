// Package expr holds the in-memory expression matrix consumed by alignment
// and tokenization: rows are cells, columns are the genes of a Universe.
package expr

import (
	"fmt"

	"github.com/hupe1980/celltok/gene"
)

// Matrix is a dense row-major expression matrix. Values are non-negative
// expression counts or normalized values; NaN marks a missing measurement.
//
// A Matrix is never reordered: row i keeps its meaning through every
// pipeline stage.
type Matrix struct {
	genes *gene.Universe
	rows  int
	data  []float32
}

// NewMatrix creates a zero-filled rows×len(genes) matrix.
func NewMatrix(genes *gene.Universe, rows int) *Matrix {
	return &Matrix{
		genes: genes,
		rows:  rows,
		data:  make([]float32, rows*genes.Len()),
	}
}

// NewMatrixFromRows creates a Matrix from per-cell rows. Every row must have
// exactly one value per gene.
func NewMatrixFromRows(genes *gene.Universe, rows [][]float32) (*Matrix, error) {
	m := NewMatrix(genes, len(rows))
	cols := genes.Len()

	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("expr: row %d has %d values, want %d", i, len(row), cols)
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}

	return m, nil
}

// Genes returns the gene axis of the matrix.
func (m *Matrix) Genes() *gene.Universe { return m.genes }

// Rows returns the number of cells.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of genes.
func (m *Matrix) Cols() int { return m.genes.Len() }

// At returns the expression value of cell i, gene j.
func (m *Matrix) At(i, j int) float32 {
	return m.data[i*m.genes.Len()+j]
}

// Set stores the expression value of cell i, gene j.
func (m *Matrix) Set(i, j int, v float32) {
	m.data[i*m.genes.Len()+j] = v
}

// Row returns cell i's expression vector. The slice aliases the matrix and
// must not be mutated by readers.
func (m *Matrix) Row(i int) []float32 {
	cols := m.genes.Len()
	return m.data[i*cols : (i+1)*cols]
}

// SubsetColumns returns a new Matrix restricted to the given column indexes,
// which must be in ascending order so the original column order is
// preserved. Row order is unchanged.
func (m *Matrix) SubsetColumns(keep []int) *Matrix {
	return m.subset(keep, nil)
}

// SubsetColumnsRenamed is SubsetColumns with new column names, used when
// mapping a foreign identifier system onto the canonical one. names must be
// parallel to keep.
func (m *Matrix) SubsetColumnsRenamed(keep []int, names []string) (*Matrix, error) {
	if len(names) != len(keep) {
		return nil, fmt.Errorf("expr: %d names for %d kept columns", len(names), len(keep))
	}
	return m.subset(keep, names), nil
}

func (m *Matrix) subset(keep []int, names []string) *Matrix {
	var genes *gene.Universe
	if names != nil {
		genes = gene.NewUniverse(names)
	} else {
		genes = m.genes.Subset(keep)
	}

	out := NewMatrix(genes, m.rows)
	cols := m.genes.Len()
	newCols := len(keep)

	for i := 0; i < m.rows; i++ {
		src := m.data[i*cols : (i+1)*cols]
		dst := out.data[i*newCols : (i+1)*newCols]
		for j, k := range keep {
			dst[j] = src[k]
		}
	}

	return out
}
