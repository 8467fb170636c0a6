// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/dolthub/go-mysql-server/sql"
	"github.com/dolthub/go-mysql-server/sql/types"

	"stripeql/cli/internal/scan"
)

func TestCellValue(t *testing.T) {
	created := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cell scan.Cell
		want any
	}{
		{name: "int64", cell: scan.Int64Cell(1999), want: int64(1999)},
		{name: "string", cell: scan.StringCell("cus_1"), want: "cus_1"},
		{name: "timestamp", cell: scan.TimestampCell(created), want: created},
		{name: "absent", cell: scan.Cell{}, want: nil},
		{
			name: "json",
			cell: scan.JSONCell([]byte(`{"id":"ch_1","paid":true}`)),
			want: types.JSONDocument{Val: map[string]any{"id": "ch_1", "paid": true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cellValue(tt.cell)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("cellValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRowToSQL(t *testing.T) {
	var row scan.Row
	row.Push("id", scan.StringCell("ch_1"))
	row.Push("amount", scan.Int64Cell(1999))
	row.Push("description", scan.Cell{})

	got := rowToSQL(row)
	want := sql.Row{"ch_1", int64(1999), nil}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rowToSQL() = %#v, want %#v", got, want)
	}
}
