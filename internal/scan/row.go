// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scan

// Row is an ordered sequence of (column name, cell) pairs. Column order
// follows the object schema's declaration order filtered to the requested
// columns, with the synthetic attrs column last. Callers push each column
// at most once.
type Row struct {
	names []string
	cells []Cell
}

// Push appends a column entry. An absent cell is pushed like any other so
// the row keeps one entry per requested schema column.
func (r *Row) Push(name string, c Cell) {
	r.names = append(r.names, name)
	r.cells = append(r.cells, c)
}

// Cell returns the cell for a column name and whether the column has an
// entry in this row.
func (r *Row) Cell(name string) (Cell, bool) {
	for i, n := range r.names {
		if n == name {
			return r.cells[i], true
		}
	}
	return Cell{}, false
}

// At returns the i-th column entry in push order.
func (r *Row) At(i int) (string, Cell) { return r.names[i], r.cells[i] }

// Names returns the column names in push order. The returned slice is
// shared; callers must not modify it.
func (r *Row) Names() []string { return r.names }

// Len returns the number of column entries.
func (r *Row) Len() int { return len(r.names) }
