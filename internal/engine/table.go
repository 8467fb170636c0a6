// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"io"
	"strings"

	"github.com/dolthub/go-mysql-server/sql"
	"github.com/dolthub/go-mysql-server/sql/expression"

	"stripeql/cli/internal/scan"
)

// Table exposes one object type as a read-only SQL table. The engine
// hands it column projections and the filters it reports as handled;
// both are forwarded into the scan so eligible equality filters travel
// upstream instead of being applied after the fetch.
type Table struct {
	schema *scan.ObjectSchema
	driver *scan.Driver
	full   sql.Schema

	projections []string
	filters     []sql.Expression
}

var _ sql.Table = (*Table)(nil)
var _ sql.ProjectedTable = (*Table)(nil)
var _ sql.FilteredTable = (*Table)(nil)

func newTable(schema *scan.ObjectSchema, driver *scan.Driver) *Table {
	return &Table{
		schema: schema,
		driver: driver,
		full:   tableSchema(schema),
	}
}

func (t *Table) Name() string   { return t.schema.Object }
func (t *Table) String() string { return t.schema.Object }

func (t *Table) Collation() sql.CollationID { return sql.Collation_Default }

func (t *Table) Schema() sql.Schema {
	if t.projections == nil {
		return t.full
	}
	out := make(sql.Schema, 0, len(t.projections))
	for _, name := range t.projections {
		for _, col := range t.full {
			if strings.EqualFold(col.Name, name) {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

func (t *Table) Partitions(*sql.Context) (sql.PartitionIter, error) {
	return &partitionIter{partition: &partition{key: []byte(t.schema.Object)}}, nil
}

func (t *Table) PartitionRows(ctx *sql.Context, _ sql.Partition) (sql.RowIter, error) {
	rows, err := t.driver.Scan(ctx, t.schema, qualsFromFilters(t.filters), t.columnNames(), nil)
	if err != nil {
		return nil, err
	}
	out := make([]sql.Row, len(rows))
	for i, row := range rows {
		out[i] = rowToSQL(row)
	}
	return sql.RowsToRowIter(out...), nil
}

// WithProjections narrows the table to the named columns.
func (t *Table) WithProjections(colNames []string) sql.Table {
	nt := *t
	nt.projections = colNames
	return &nt
}

func (t *Table) Projections() []string { return t.projections }

// HandledFilters claims the filters whose semantics survive upstream
// forwarding: one equality per eligible field comparing against a string
// literal. Everything else stays in the plan for the engine to apply.
func (t *Table) HandledFilters(filters []sql.Expression) []sql.Expression {
	var handled []sql.Expression
	claimed := make(map[string]bool)
	for _, f := range filters {
		field, ok := t.pushableEquality(f)
		if !ok || claimed[field] {
			continue
		}
		claimed[field] = true
		handled = append(handled, f)
	}
	return handled
}

// WithFilters attaches the handled filters for the next scan.
func (t *Table) WithFilters(_ *sql.Context, filters []sql.Expression) sql.Table {
	nt := *t
	nt.filters = filters
	return &nt
}

func (t *Table) Filters() []sql.Expression { return t.filters }

// columnNames returns the columns the scan should materialize, in the
// order the engine will read them back.
func (t *Table) columnNames() []string {
	if t.projections != nil {
		return t.projections
	}
	names := make([]string, len(t.full))
	for i, col := range t.full {
		names[i] = col.Name
	}
	return names
}

// pushableEquality reports whether the filter is an equality between an
// upstream-filterable column and a string literal, returning the column
// name when it is.
func (t *Table) pushableEquality(f sql.Expression) (string, bool) {
	eq, ok := f.(*expression.Equals)
	if !ok {
		return "", false
	}
	field, ok := eq.Left().(*expression.GetField)
	if !ok {
		return "", false
	}
	name := strings.ToLower(field.Name())
	eligible := false
	for _, p := range t.schema.Pushdown {
		if p == name {
			eligible = true
			break
		}
	}
	if !eligible {
		return "", false
	}
	lit, ok := eq.Right().(*expression.Literal)
	if !ok {
		return "", false
	}
	val, err := lit.Eval(nil, nil)
	if err != nil {
		return "", false
	}
	if _, ok := val.(string); !ok {
		return "", false
	}
	return name, true
}

// qualsFromFilters rewrites the attached filter expressions as scan
// quals for the pushdown planner.
func qualsFromFilters(filters []sql.Expression) []scan.Qual {
	var quals []scan.Qual
	for _, f := range filters {
		eq, ok := f.(*expression.Equals)
		if !ok {
			continue
		}
		field, ok := eq.Left().(*expression.GetField)
		if !ok {
			continue
		}
		lit, ok := eq.Right().(*expression.Literal)
		if !ok {
			continue
		}
		val, err := lit.Eval(nil, nil)
		if err != nil {
			continue
		}
		s, ok := val.(string)
		if !ok {
			continue
		}
		quals = append(quals, scan.Qual{
			Field:    strings.ToLower(field.Name()),
			Operator: "=",
			Value:    scan.StringCell(s),
		})
	}
	return quals
}

type partition struct {
	key []byte
}

func (p *partition) Key() []byte { return p.key }

// partitionIter yields the table's single partition. Scans are one
// upstream cursor walk and cannot be split.
type partitionIter struct {
	partition sql.Partition
	done      bool
}

func (i *partitionIter) Next(*sql.Context) (sql.Partition, error) {
	if i.done {
		return nil, io.EOF
	}
	i.done = true
	return i.partition, nil
}

func (i *partitionIter) Close(*sql.Context) error { return nil }
