package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/celltok/codec"
	"github.com/hupe1980/celltok/gene"
)

func TestNew(t *testing.T) {
	v, err := New(map[string]TokenID{"GATA1": 4, "BRCA2": 5}, DefaultSpecialTokens())
	require.NoError(t, err)

	assert.Equal(t, 2, v.Len())

	id, ok := v.LookupToken("gata1")
	require.True(t, ok)
	assert.Equal(t, TokenID(4), id)

	// Missing is distinct from pad: ok == false, not id == pad.
	_, ok = v.LookupToken("myc")
	assert.False(t, ok)
}

func TestNewCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		genes   map[string]TokenID
		special SpecialTokens
	}{
		{
			name:    "special ids not distinct",
			genes:   map[string]TokenID{"gata1": 4},
			special: SpecialTokens{Pad: 0, Cls: 0, ChromLeft: 1, ChromRight: 2},
		},
		{
			name:    "gene collides with special",
			genes:   map[string]TokenID{"gata1": 0},
			special: DefaultSpecialTokens(),
		},
		{
			name:    "duplicate token id",
			genes:   map[string]TokenID{"gata1": 4, "brca2": 4},
			special: DefaultSpecialTokens(),
		},
		{
			name:    "negative gene id",
			genes:   map[string]TokenID{"gata1": -1},
			special: DefaultSpecialTokens(),
		},
		{
			name:    "negative special id",
			genes:   map[string]TokenID{"gata1": 4},
			special: SpecialTokens{Pad: -1, ChromLeft: 1, ChromRight: 2, Cls: 3},
		},
		{
			name:    "identifiers merge after normalization",
			genes:   map[string]TokenID{"GATA1": 4, "gata1": 5},
			special: DefaultSpecialTokens(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.genes, tt.special)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	genes := map[string]TokenID{"gata1": 4, "brca2": 5, "tp53": 6}

	v, err := New(genes, DefaultSpecialTokens())
	require.NoError(t, err)

	// For every gene token, Reverse(LookupToken(g)) == g.
	for raw := range genes {
		id, ok := v.LookupToken(gene.Normalize(raw))
		require.True(t, ok)

		got, ok := v.Reverse(id)
		require.True(t, ok)
		assert.Equal(t, raw, got)
	}
}

func TestReverseSpecial(t *testing.T) {
	v, err := New(map[string]TokenID{"gata1": 4}, DefaultSpecialTokens())
	require.NoError(t, err)

	name, ok := v.Reverse(v.Special().Pad)
	require.True(t, ok)
	assert.Equal(t, PadName, name)

	name, ok = v.Reverse(v.Special().Cls)
	require.True(t, ok)
	assert.Equal(t, ClsName, name)

	assert.True(t, v.IsSpecial(v.Special().ChromLeft))
	assert.False(t, v.IsSpecial(4))

	_, ok = v.Reverse(999)
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	dict := Dictionary{
		Genes:   map[string]TokenID{"GATA1": 4, "BRCA2": 5},
		Special: DefaultSpecialTokens(),
	}
	data := codec.MustMarshal(nil, dict)

	v, err := Load(data, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())

	id, ok := v.LookupToken("brca2")
	require.True(t, ok)
	assert.Equal(t, TokenID(5), id)
}

func TestLoadCorruptBlob(t *testing.T) {
	_, err := Load([]byte("not a dictionary"), codec.JSON{})
	assert.ErrorIs(t, err, ErrCorrupt)
}
