// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"github.com/dolthub/go-mysql-server/sql"
	"github.com/dolthub/go-mysql-server/sql/types"

	"stripeql/cli/internal/scan"
)

// tableSchema maps an object schema onto a SQL schema. Every column is
// nullable because the upstream may omit or retype any field, and the
// attrs column is appended last so the raw element stays reachable from
// SQL.
func tableSchema(s *scan.ObjectSchema) sql.Schema {
	cols := make(sql.Schema, 0, len(s.Columns)+1)
	for _, c := range s.Columns {
		cols = append(cols, &sql.Column{
			Name:     c.Name,
			Type:     sqlType(c.Type),
			Nullable: true,
			Source:   s.Object,
		})
	}
	cols = append(cols, &sql.Column{
		Name:     scan.AttrsColumn,
		Type:     types.JSON,
		Nullable: true,
		Source:   s.Object,
	})
	return cols
}

func sqlType(t scan.ColumnType) sql.Type {
	switch t {
	case scan.TypeInt64:
		return types.Int64
	case scan.TypeTimestamp:
		return types.Timestamp
	default:
		return types.Text
	}
}
