package metadata

import (
	"fmt"
	"sort"
)

// Table is a columnar per-cell metadata table. Row i always corresponds to
// cell i of the matching token batch; a Table is never re-sorted on its own.
type Table struct {
	columns map[string][]Value
	order   []string
	rows    int
}

// NewTable creates an empty table with the given column order.
func NewTable(columns []string) *Table {
	t := &Table{
		columns: make(map[string][]Value, len(columns)),
		order:   make([]string, 0, len(columns)),
	}
	for _, c := range columns {
		if _, ok := t.columns[c]; ok {
			continue
		}
		t.columns[c] = nil
		t.order = append(t.order, c)
	}
	return t
}

// FromDocuments builds a Table from per-cell documents, in input order.
// The column set is the union of all document keys, sorted for stability;
// absent attributes become null values.
func FromDocuments(docs []Document) *Table {
	keys := make(map[string]struct{})
	for _, doc := range docs {
		for k := range doc {
			keys[k] = struct{}{}
		}
	}

	columns := make([]string, 0, len(keys))
	for k := range keys {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	t := NewTable(columns)
	for _, doc := range docs {
		t.mustAppend(doc)
	}

	return t
}

// Len returns the number of rows (cells).
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.order))
	copy(cols, t.order)
	return cols
}

// Append adds one cell's attributes as the next row. Attributes missing
// from the table's columns are rejected to keep the table rectangular.
func (t *Table) Append(doc Document) error {
	for k := range doc {
		if _, ok := t.columns[k]; !ok {
			return fmt.Errorf("metadata: unknown column %q", k)
		}
	}

	t.mustAppend(doc)

	return nil
}

func (t *Table) mustAppend(doc Document) {
	for _, c := range t.order {
		v, ok := doc[c]
		if !ok {
			v = Null()
		}
		t.columns[c] = append(t.columns[c], v)
	}
	t.rows++
}

// Row returns the attributes of cell i.
func (t *Table) Row(i int) Document {
	doc := make(Document, len(t.order))
	for _, c := range t.order {
		doc[c] = t.columns[c][i]
	}
	return doc
}

// Column returns the values of one column across all cells. The slice
// aliases the table and must not be mutated.
func (t *Table) Column(name string) ([]Value, bool) {
	col, ok := t.columns[name]
	return col, ok
}

// Value returns the attribute of cell i in the named column.
func (t *Table) Value(i int, name string) (Value, bool) {
	col, ok := t.columns[name]
	if !ok {
		return Value{}, false
	}
	return col[i], true
}
