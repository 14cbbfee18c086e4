package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/celltok/gene"
)

func TestNewMatrixFromRows(t *testing.T) {
	genes := gene.NewUniverse([]string{"A", "B", "C"})

	m, err := NewMatrixFromRows(genes, [][]float32{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, float32(5), m.At(1, 1))
	assert.Equal(t, []float32{4, 5, 6}, m.Row(1))
}

func TestNewMatrixFromRowsRagged(t *testing.T) {
	genes := gene.NewUniverse([]string{"A", "B"})

	_, err := NewMatrixFromRows(genes, [][]float32{{1, 2}, {3}})
	assert.Error(t, err)
}

func TestSubsetColumns(t *testing.T) {
	genes := gene.NewUniverse([]string{"A", "B", "C", "D"})
	m, err := NewMatrixFromRows(genes, [][]float32{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
	})
	require.NoError(t, err)

	sub := m.SubsetColumns([]int{0, 2, 3})

	assert.Equal(t, []string{"A", "C", "D"}, sub.Genes().Names())
	assert.Equal(t, []float32{1, 3, 4}, sub.Row(0))
	assert.Equal(t, []float32{5, 7, 8}, sub.Row(1))
	assert.Equal(t, 2, sub.Rows())
}

func TestSubsetColumnsRenamed(t *testing.T) {
	genes := gene.NewUniverse([]string{"ENSG01", "ENSG02", "ENSG03"})
	m, err := NewMatrixFromRows(genes, [][]float32{{1, 2, 3}})
	require.NoError(t, err)

	sub, err := m.SubsetColumnsRenamed([]int{0, 2}, []string{"gata1", "tp53"})
	require.NoError(t, err)

	assert.Equal(t, []string{"gata1", "tp53"}, sub.Genes().Names())
	assert.Equal(t, []float32{1, 3}, sub.Row(0))

	_, err = m.SubsetColumnsRenamed([]int{0, 2}, []string{"gata1"})
	assert.Error(t, err)
}
