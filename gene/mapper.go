package gene

import "fmt"

// Resolved is the outcome of mapping one raw identifier. Entries with
// OK == false had no usable mapping and are excluded downstream.
type Resolved struct {
	Raw string
	ID  Identifier
	OK  bool
}

// MapResult carries the per-entry outcomes of one Map call together with
// the drop count. Partial identifier coverage is the normal case, so drops
// are counted rather than raised.
type MapResult struct {
	Resolved []Resolved
	Dropped  int
}

// Identifiers returns the successfully mapped identifiers in input order.
func (r *MapResult) Identifiers() []Identifier {
	ids := make([]Identifier, 0, len(r.Resolved)-r.Dropped)
	for _, e := range r.Resolved {
		if e.OK {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Mapper resolves a foreign identifier system (gene symbols, cross-database
// accessions) into the canonical identifier space.
//
// Lookup keys are matched verbatim: raw identifiers may follow a case
// convention distinct from the canonical one, so normalization is applied
// to the mapped value, not to the lookup key.
type Mapper struct {
	mapping map[string]string
}

// NewMapper creates a Mapper from a flat raw→canonical mapping.
func NewMapper(mapping map[string]string) *Mapper {
	return &Mapper{mapping: mapping}
}

// NewRecordMapper creates a Mapper from a mapping whose values are records,
// selecting the named field as the canonical identifier. Records without the
// field (or with an empty value) are treated as absent.
func NewRecordMapper(records map[string]map[string]string, field string) (*Mapper, error) {
	if field == "" {
		return nil, fmt.Errorf("record mapper: field name must not be empty")
	}

	mapping := make(map[string]string, len(records))
	for raw, rec := range records {
		if v, ok := rec[field]; ok && v != "" {
			mapping[raw] = v
		}
	}

	return &Mapper{mapping: mapping}, nil
}

// Map resolves raw identifiers into canonical Identifiers. Entries without
// a mapping, or whose mapped value is empty, are marked unresolved and
// counted; the call itself never fails.
func (m *Mapper) Map(raw []string) *MapResult {
	result := &MapResult{
		Resolved: make([]Resolved, len(raw)),
	}

	for i, r := range raw {
		mapped, ok := m.mapping[r]
		if !ok || mapped == "" {
			result.Resolved[i] = Resolved{Raw: r}
			result.Dropped++
			continue
		}

		result.Resolved[i] = Resolved{Raw: r, ID: Normalize(mapped), OK: true}
	}

	return result
}
