// Package category holds the folder classification table that decides how the
// documents of each API reference folder are titled, ordered and badged.
package category

import (
	"fmt"

	"git.home.luguber.info/inful/apidocfm/internal/foundation/errors"
)

// DefaultSpacing is the distance between consecutive base orders in the default table.
const DefaultSpacing = 10

// Descriptor describes how the documents of one folder are classified.
type Descriptor struct {
	Folder    string
	Title     string
	BaseOrder int
	Badge     string
}

// Order returns the sort order of the document at index within the folder.
func (d Descriptor) Order(index int) int {
	return d.BaseOrder + index
}

// Table is an immutable folder -> Descriptor mapping. Iteration order is the
// order the descriptors were given in.
type Table struct {
	entries  []Descriptor
	byFolder map[string]int
	spacing  int
}

// NewTable validates and builds a table. spacing is the order capacity of the
// last descriptor; earlier descriptors get the gap to their successor.
func NewTable(spacing int, entries ...Descriptor) (*Table, error) {
	if spacing <= 0 {
		return nil, errors.ValidationError("order spacing must be positive").
			WithContext("spacing", spacing).
			Build()
	}
	if len(entries) == 0 {
		return nil, errors.ValidationError("classification table is empty").Build()
	}

	t := &Table{
		entries:  make([]Descriptor, len(entries)),
		byFolder: make(map[string]int, len(entries)),
		spacing:  spacing,
	}
	copy(t.entries, entries)

	for i, d := range t.entries {
		if d.Folder == "" {
			return nil, errors.ValidationError("category folder name is empty").
				WithContext("index", i).
				Build()
		}
		if _, dup := t.byFolder[d.Folder]; dup {
			return nil, errors.ValidationError("duplicate category folder").
				WithContext("folder", d.Folder).
				Build()
		}
		if i > 0 && d.BaseOrder <= t.entries[i-1].BaseOrder {
			return nil, errors.ValidationError(fmt.Sprintf("base order of %q must be greater than %q", d.Folder, t.entries[i-1].Folder)).
				WithContext("folder", d.Folder).
				WithContext("base_order", d.BaseOrder).
				Build()
		}
		t.byFolder[d.Folder] = i
	}
	return t, nil
}

// Default returns the table for the generated OpenSeadragon API reference.
func Default() *Table {
	return MustTable(WithSpacing(DefaultSpacing))
}

// WithSpacing returns the four standard descriptors with base orders spaced by spacing.
func WithSpacing(spacing int) (int, []Descriptor) {
	return spacing, []Descriptor{
		{Folder: "classes", Title: "API Classes", BaseOrder: spacing, Badge: "Class"},
		{Folder: "members", Title: "API Members", BaseOrder: 2 * spacing, Badge: "Member"},
		{Folder: "methods", Title: "API Methods", BaseOrder: 3 * spacing, Badge: "Method"},
		{Folder: "types", Title: "API Types", BaseOrder: 4 * spacing, Badge: "Type"},
	}
}

// MustTable is NewTable for statically known input; it panics on invalid descriptors.
func MustTable(spacing int, entries []Descriptor) *Table {
	t, err := NewTable(spacing, entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the descriptor registered for folder.
func (t *Table) Lookup(folder string) (Descriptor, bool) {
	i, ok := t.byFolder[folder]
	if !ok {
		return Descriptor{}, false
	}
	return t.entries[i], true
}

// Folders returns folder names in table order.
func (t *Table) Folders() []string {
	out := make([]string, len(t.entries))
	for i, d := range t.entries {
		out[i] = d.Folder
	}
	return out
}

// Descriptors returns a copy of the descriptors in table order.
func (t *Table) Descriptors() []Descriptor {
	out := make([]Descriptor, len(t.entries))
	copy(out, t.entries)
	return out
}

// Spacing returns the configured order spacing.
func (t *Table) Spacing() int {
	return t.spacing
}

// Capacity is the number of documents folder can hold before its orders run
// into the next category's base order.
func (t *Table) Capacity(folder string) int {
	i, ok := t.byFolder[folder]
	if !ok {
		return 0
	}
	if i+1 < len(t.entries) {
		return t.entries[i+1].BaseOrder - t.entries[i].BaseOrder
	}
	return t.spacing
}
