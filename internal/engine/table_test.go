// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"testing"

	"github.com/dolthub/go-mysql-server/sql"
	"github.com/dolthub/go-mysql-server/sql/expression"
	"github.com/dolthub/go-mysql-server/sql/types"

	"stripeql/cli/internal/scan"
)

// fakeUpstream serves canned elements per path and applies query
// parameters the way the live API would, so results come out the same
// whether a filter was forwarded upstream or applied by the engine.
type fakeUpstream struct {
	mu      sync.Mutex
	urls    []string
	objects map[string][]map[string]any
}

func (f *fakeUpstream) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	f.mu.Lock()
	f.urls = append(f.urls, rawURL)
	f.mu.Unlock()

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for _, elem := range f.objects[u.Path] {
		if matchesParams(elem, u.Query()) {
			out = append(out, elem)
		}
	}
	return json.Marshal(map[string]any{"object": "list", "has_more": false, "data": out})
}

func matchesParams(elem map[string]any, params url.Values) bool {
	for key, vals := range params {
		if key == "limit" || key == "starting_after" {
			continue
		}
		s, ok := elem[key].(string)
		if !ok || s != vals[0] {
			return false
		}
	}
	return true
}

func (f *fakeUpstream) requestedURLs() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]url.Values, len(f.urls))
	for i, raw := range f.urls {
		u, _ := url.Parse(raw)
		out[i] = u.Query()
	}
	return out
}

func chargesUpstream() *fakeUpstream {
	return &fakeUpstream{objects: map[string][]map[string]any{
		"/v1/charges": {
			{"id": "ch_1", "amount": float64(1999), "currency": "usd", "customer": "cus_1", "status": "succeeded"},
			{"id": "ch_2", "amount": float64(2500), "currency": "usd", "customer": "cus_1", "status": "pending"},
			{"id": "ch_3", "amount": float64(900), "currency": "eur", "customer": "cus_2", "status": "succeeded"},
		},
	}}
}

func newTestTable(t *testing.T, f *fakeUpstream, object string) *Table {
	t.Helper()
	b, err := scan.NewURLBuilder("https://api.stripe.com/v1/", 100)
	if err != nil {
		t.Fatalf("NewURLBuilder() error: %v", err)
	}
	schema, err := scan.Builtin().Lookup(object)
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	return newTable(schema, scan.NewDriver(f, b))
}

func drainTable(t *testing.T, tbl sql.Table) []sql.Row {
	t.Helper()
	ctx := sql.NewContext(context.Background())
	parts, err := tbl.Partitions(ctx)
	if err != nil {
		t.Fatalf("Partitions() error: %v", err)
	}
	defer parts.Close(ctx)

	var rows []sql.Row
	for {
		part, err := parts.Next(ctx)
		if err != nil {
			break
		}
		iter, err := tbl.PartitionRows(ctx, part)
		if err != nil {
			t.Fatalf("PartitionRows() error: %v", err)
		}
		for {
			row, err := iter.Next(ctx)
			if err != nil {
				break
			}
			rows = append(rows, row)
		}
		iter.Close(ctx)
	}
	return rows
}

func customerEquals(value any, valueType sql.Type) sql.Expression {
	return expression.NewEquals(
		expression.NewGetField(3, types.Text, "customer", true),
		expression.NewLiteral(value, valueType),
	)
}

func TestTableSchemaIncludesAttrs(t *testing.T) {
	tbl := newTestTable(t, chargesUpstream(), "charges")
	schema := tbl.Schema()
	if len(schema) != 10 {
		t.Fatalf("len(schema) = %d, want 10", len(schema))
	}
	last := schema[len(schema)-1]
	if last.Name != "attrs" {
		t.Errorf("last column = %q, want attrs", last.Name)
	}
	if last.Type != types.JSON {
		t.Errorf("attrs type = %v, want JSON", last.Type)
	}
	for _, col := range schema {
		if !col.Nullable {
			t.Errorf("column %s is not nullable", col.Name)
		}
	}
}

func TestTableFilterForwardedUpstream(t *testing.T) {
	f := chargesUpstream()
	tbl := newTestTable(t, f, "charges")
	withFilters := tbl.WithFilters(nil, []sql.Expression{customerEquals("cus_1", types.Text)})

	rows := drainTable(t, withFilters)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	urls := f.requestedURLs()
	if len(urls) != 1 {
		t.Fatalf("fetch count = %d, want 1", len(urls))
	}
	if got := urls[0].Get("customer"); got != "cus_1" {
		t.Errorf("customer param = %q, want cus_1", got)
	}
}

func TestTableHandledFilters(t *testing.T) {
	tbl := newTestTable(t, chargesUpstream(), "charges")

	customerEq := customerEquals("cus_1", types.Text)
	secondCustomerEq := customerEquals("cus_2", types.Text)
	statusEq := expression.NewEquals(
		expression.NewGetField(7, types.Text, "status", true),
		expression.NewLiteral("succeeded", types.Text),
	)
	intEq := customerEquals(int64(7), types.Int64)
	orFilter := expression.NewOr(customerEq, secondCustomerEq)

	tests := []struct {
		name    string
		filters []sql.Expression
		want    int
	}{
		{name: "eligible equality", filters: []sql.Expression{customerEq}, want: 1},
		{name: "ineligible column", filters: []sql.Expression{statusEq}, want: 0},
		{name: "non-string literal", filters: []sql.Expression{intEq}, want: 0},
		{name: "disjunction", filters: []sql.Expression{orFilter}, want: 0},
		{name: "one per field", filters: []sql.Expression{customerEq, secondCustomerEq}, want: 1},
		{name: "mixed", filters: []sql.Expression{statusEq, customerEq}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tbl.HandledFilters(tt.filters); len(got) != tt.want {
				t.Errorf("HandledFilters() claimed %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestTableProjections(t *testing.T) {
	tbl := newTestTable(t, chargesUpstream(), "charges")
	projected := tbl.WithProjections([]string{"id", "amount"})

	schema := projected.Schema()
	if len(schema) != 2 {
		t.Fatalf("projected schema has %d columns, want 2", len(schema))
	}
	if schema[0].Name != "id" || schema[1].Name != "amount" {
		t.Errorf("projected schema = [%s %s], want [id amount]", schema[0].Name, schema[1].Name)
	}

	rows := drainTable(t, projected)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	for _, row := range rows {
		if len(row) != 2 {
			t.Errorf("row has %d values, want 2", len(row))
		}
	}
	if rows[0][0] != "ch_1" || rows[0][1] != int64(1999) {
		t.Errorf("first row = %v, want [ch_1 1999]", rows[0])
	}
}

func TestTableSinglePartition(t *testing.T) {
	tbl := newTestTable(t, chargesUpstream(), "charges")
	ctx := sql.NewContext(context.Background())

	parts, err := tbl.Partitions(ctx)
	if err != nil {
		t.Fatalf("Partitions() error: %v", err)
	}
	defer parts.Close(ctx)

	if _, err := parts.Next(ctx); err != nil {
		t.Fatalf("first partition error: %v", err)
	}
	if _, err := parts.Next(ctx); err == nil {
		t.Error("second partition did not end the iterator")
	}
}
