// Package vocab implements the immutable token vocabulary of a pretrained
// model: a bijective mapping between gene identifiers and token ids, plus a
// disjoint set of reserved structural tokens.
//
// A Vocabulary is loaded once from a frozen dictionary blob and is read-only
// afterwards, so it is safe for concurrent use without locking.
package vocab

import (
	"errors"
	"fmt"

	"github.com/hupe1980/celltok/codec"
	"github.com/hupe1980/celltok/gene"
)

// TokenID is a non-negative integer token identifier.
type TokenID int32

/// ErrCorrupt indicates an invalid frozen vocabulary: duplicate token ids,
// special tokens colliding with gene tokens, or negative ids.
var ErrCorrupt = errors.New("corrupt vocabulary")

// Canonical names reported by Reverse for structural tokens.
const (
	PadName        = "<pad>"
	ClsName        = "<cls>"
	ChromLeftName  = "<chrom_left>"
	ChromRightName = "<chrom_right>"
)

// SpecialTokens holds the ids reserved for sequence-structure markers.
type SpecialTokens struct {
	Pad        TokenID `json:"pad"`
	Cls        TokenID `json:"cls"`
	ChromLeft  TokenID `json:"chrom_left"`
	ChromRight TokenID `json:"chrom_right"`
}

// DefaultSpecialTokens returns the reserved id preamble used by the
// pretrained model files (pad=0, chrom markers=1/2, cls=3).
func DefaultSpecialTokens() SpecialTokens {
	return SpecialTokens{Pad: 0, ChromLeft: 1, ChromRight: 2, Cls: 3}
}

// Dictionary is the wire form of a frozen vocabulary blob.
type Dictionary struct {
	Genes   map[string]TokenID `json:"genes"`
	Special SpecialTokens      `json:"special"`
}

// Vocabulary is the immutable gene-identifier ↔ token-id mapping.
type Vocabulary struct {
	tokens  map[gene.Identifier]TokenID
	reverse map[TokenID]gene.Identifier
	special SpecialTokens
	names   map[TokenID]string
}

// New validates and builds a Vocabulary from a gene mapping and the special
// token ids. Gene names are normalized; the result must be bijective and the
// special ids must be pairwise distinct and disjoint from gene ids,
// otherwise ErrCorrupt is returned.
func New(genes map[string]TokenID, special SpecialTokens) (*Vocabulary, error) {
	names := map[TokenID]string{
		special.Pad:        PadName,
		special.Cls:        ClsName,
		special.ChromLeft:  ChromLeftName,
		special.ChromRight: ChromRightName,
	}
	if len(names) != 4 {
		return nil, fmt.Errorf("%w: special token ids are not pairwise distinct", ErrCorrupt)
	}

	for id, name := range names {
		if id < 0 {
			return nil, fmt.Errorf("%w: special token %s has negative id %d", ErrCorrupt, name, id)
		}
	}

	v := &Vocabulary{
		tokens:  make(map[gene.Identifier]TokenID, len(genes)),
		reverse: make(map[TokenID]gene.Identifier, len(genes)),
		special: special,
		names:   names,
	}

	for raw, id := range genes {
		if id < 0 {
			return nil, fmt.Errorf("%w: gene %q has negative token id %d", ErrCorrupt, raw, id)
		}
		if name, ok := names[id]; ok {
			return nil, fmt.Errorf("%w: gene %q collides with special token %s (id %d)", ErrCorrupt, raw, name, id)
		}

		g := gene.Normalize(raw)
		if prev, ok := v.tokens[g]; ok && prev != id {
			return nil, fmt.Errorf("%w: identifiers %q map to multiple token ids after normalization", ErrCorrupt, g)
		}
		if prev, ok := v.reverse[id]; ok && prev != g {
			return nil, fmt.Errorf("%w: token id %d assigned to both %q and %q", ErrCorrupt, id, prev, g)
		}

		v.tokens[g] = id
		v.reverse[id] = g
	}

	return v, nil
}

// Load decodes a frozen dictionary blob and builds the Vocabulary. If c is
// nil, codec.Default is used.
func Load(data []byte, c codec.Codec) (*Vocabulary, error) {
	if c == nil {
		c = codec.Default
	}

	var dict Dictionary
	if err := c.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return New(dict.Genes, dict.Special)
}

// LookupToken returns the token id for a normalized gene identifier. A
// missing identifier is signaled via ok == false, never via the pad id.
func (v *Vocabulary) LookupToken(id gene.Identifier) (TokenID, bool) {
	t, ok := v.tokens[id]
	return t, ok
}

// Reverse returns the gene identifier or special token name for a token id.
func (v *Vocabulary) Reverse(t TokenID) (string, bool) {
	if name, ok := v.names[t]; ok {
		return name, true
	}
	if g, ok := v.reverse[t]; ok {
		return string(g), true
	}
	return "", false
}

// IsSpecial reports whether t is one of the reserved structural tokens.
func (v *Vocabulary) IsSpecial(t TokenID) bool {
	_, ok := v.names[t]
	return ok
}

// Special returns the reserved structural token ids.
func (v *Vocabulary) Special() SpecialTokens { return v.special }

// Len returns the number of gene tokens (special tokens excluded).
func (v *Vocabulary) Len() int { return len(v.tokens) }
