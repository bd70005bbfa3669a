package domain

import (
	"slices"
	"time"
)

// Table is the cleaned, immutable set of track records loaded from one source.
type Table struct {
	records  []Record
	source   string
	loadedAt time.Time
}

// NewTable copies records into a Table. Callers keep ownership of the slice
// they pass in.
func NewTable(records []Record, source string, loadedAt time.Time) *Table {
	return &Table{
		records:  slices.Clone(records),
		source:   source,
		loadedAt: loadedAt,
	}
}

// Records returns a copy of the table's records in source order.
func (t *Table) Records() []Record {
	return slices.Clone(t.records)
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// Source returns the path the table was loaded from.
func (t *Table) Source() string { return t.source }

// LoadedAt returns when the table was loaded.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }
