// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"encoding/json"

	"github.com/dolthub/go-mysql-server/sql"
	"github.com/dolthub/go-mysql-server/sql/types"

	"stripeql/cli/internal/scan"
)

// rowToSQL converts one scanned row into an engine row, cell for cell in
// the row's own column order.
func rowToSQL(row scan.Row) sql.Row {
	out := make(sql.Row, row.Len())
	for i := 0; i < row.Len(); i++ {
		_, cell := row.At(i)
		out[i] = cellValue(cell)
	}
	return out
}

// cellValue maps a cell onto the value the engine expects for its SQL
// type. Absent cells become NULL.
func cellValue(c scan.Cell) any {
	if c.Kind() == scan.KindJSON {
		var v any
		if err := json.Unmarshal(c.Raw(), &v); err != nil {
			return nil
		}
		return types.JSONDocument{Val: v}
	}
	return c.Value()
}
