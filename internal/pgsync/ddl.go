// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pgsync

import (
	"strings"

	"github.com/jackc/pgx/v5"

	"stripeql/cli/internal/scan"
)

// createTableDDL renders the CREATE TABLE statement for an object type.
// Columns follow catalog order with attrs appended last. Everything is
// nullable: the upstream omits fields freely and absent cells load as NULL.
func createTableDDL(schemaName string, obj *scan.ObjectSchema) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(pgx.Identifier{schemaName, obj.Object}.Sanitize())
	b.WriteString(" (")
	for _, col := range obj.Columns {
		b.WriteString("\n    ")
		b.WriteString(pgx.Identifier{col.Name}.Sanitize())
		b.WriteString(" ")
		b.WriteString(columnSQLType(col.Type))
		b.WriteString(",")
	}
	b.WriteString("\n    ")
	b.WriteString(pgx.Identifier{scan.AttrsColumn}.Sanitize())
	b.WriteString(" jsonb\n)")
	return b.String()
}

// columnSQLType maps a catalog column type to its PostgreSQL counterpart.
func columnSQLType(t scan.ColumnType) string {
	switch t {
	case scan.TypeInt64:
		return "bigint"
	case scan.TypeTimestamp:
		return "timestamptz"
	default:
		return "text"
	}
}

// copyColumns returns the destination column list for an object type:
// the catalog columns in order, then attrs.
func copyColumns(obj *scan.ObjectSchema) []string {
	return append(obj.ColumnNames(), scan.AttrsColumn)
}

// copyValues flattens one scan row into COPY values matching the column
// list. Columns the row does not carry load as NULL.
func copyValues(columns []string, row *scan.Row) []any {
	values := make([]any, len(columns))
	for i, name := range columns {
		cell, ok := row.Cell(name)
		if !ok {
			continue
		}
		values[i] = cell.Value()
	}
	return values
}
