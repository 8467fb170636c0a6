// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scan

import (
	"testing"
	"time"

	"stripeql/cli/internal/errors"
)

func mustLookup(t *testing.T, object string) *ObjectSchema {
	t.Helper()
	s, err := Builtin().Lookup(object)
	if err != nil {
		t.Fatalf("Lookup(%q) error: %v", object, err)
	}
	return s
}

func TestDecodeChargesPage(t *testing.T) {
	schema := mustLookup(t, "charges")
	body := `{
		"object": "list",
		"url": "/v1/charges",
		"has_more": true,
		"data": [
			{"id":"ch_1","amount":1999,"currency":"usd","customer":"cus_1","description":"Tee","invoice":"in_1","payment_intent":"pi_1","status":"succeeded","created":1609459200},
			{"id":"ch_2","amount":2500,"currency":"eur","customer":"cus_2","description":null,"invoice":"in_2","payment_intent":"pi_2","status":"pending","created":1609545600}
		]
	}`

	page, err := DecodePage([]byte(body), schema, schema.ColumnNames())
	if err != nil {
		t.Fatalf("DecodePage() error: %v", err)
	}
	if len(page.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(page.Rows))
	}
	if page.NextCursor != "ch_2" {
		t.Errorf("NextCursor = %q, want %q", page.NextCursor, "ch_2")
	}
	if page.Continue != ContinueYes {
		t.Errorf("Continue = %v, want yes", page.Continue)
	}

	first := page.Rows[0]
	if c, ok := first.Cell("id"); !ok || c.Text() != "ch_1" {
		t.Errorf("id = %v, want ch_1", c)
	}
	if c, ok := first.Cell("amount"); !ok || c.Int() != 1999 {
		t.Errorf("amount = %v, want 1999", c)
	}
	wantCreated := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	if c, ok := first.Cell("created"); !ok || !c.Time().Equal(wantCreated) {
		t.Errorf("created = %v, want %v", c, wantCreated)
	}
	if c, ok := page.Rows[1].Cell("description"); !ok || !c.IsAbsent() {
		t.Errorf("null description yielded %v, want absent cell", c)
	}
}

func TestDecodeAbsentCells(t *testing.T) {
	schema := mustLookup(t, "charges")
	body := `{"has_more":false,"data":[{"id":"ch_1","amount":"not a number","created":"2021-01-01"}]}`

	page, err := DecodePage([]byte(body), schema, []string{"id", "amount", "customer", "created"})
	if err != nil {
		t.Fatalf("DecodePage() error: %v", err)
	}
	if len(page.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(page.Rows))
	}
	row := page.Rows[0]
	if row.Len() != 4 {
		t.Fatalf("row has %d cells, want 4", row.Len())
	}

	tests := []struct {
		column string
		absent bool
	}{
		{column: "id", absent: false},
		{column: "amount", absent: true},
		{column: "customer", absent: true},
		{column: "created", absent: true},
	}
	for _, tt := range tests {
		c, ok := row.Cell(tt.column)
		if !ok {
			t.Errorf("column %s missing from row", tt.column)
			continue
		}
		if c.IsAbsent() != tt.absent {
			t.Errorf("column %s absent = %v, want %v", tt.column, c.IsAbsent(), tt.absent)
		}
	}
}

func TestDecodeHasMore(t *testing.T) {
	schema := mustLookup(t, "customers")
	tests := []struct {
		name string
		body string
		want Continuation
	}{
		{name: "true", body: `{"has_more":true,"data":[{"id":"cus_1"}]}`, want: ContinueYes},
		{name: "false", body: `{"has_more":false,"data":[{"id":"cus_1"}]}`, want: ContinueNo},
		{name: "missing", body: `{"data":[{"id":"cus_1"}]}`, want: ContinueUnknown},
		{name: "not a bool", body: `{"has_more":"yes","data":[{"id":"cus_1"}]}`, want: ContinueUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := DecodePage([]byte(tt.body), schema, []string{"id"})
			if err != nil {
				t.Fatalf("DecodePage() error: %v", err)
			}
			if page.Continue != tt.want {
				t.Errorf("Continue = %v, want %v", page.Continue, tt.want)
			}
		})
	}
}

func TestDecodeAttrsColumn(t *testing.T) {
	schema := mustLookup(t, "customers")
	body := `{"has_more":false,"data":[{"id":"cus_1","email":"a@b.co","livemode":false}]}`

	page, err := DecodePage([]byte(body), schema, []string{"id", "attrs"})
	if err != nil {
		t.Fatalf("DecodePage() error: %v", err)
	}
	c, ok := page.Rows[0].Cell("attrs")
	if !ok {
		t.Fatal("attrs column missing from row")
	}
	if c.Kind() != KindJSON {
		t.Fatalf("attrs kind = %v, want json", c.Kind())
	}
	want := `{"id":"cus_1","email":"a@b.co","livemode":false}`
	if string(c.Raw()) != want {
		t.Errorf("attrs = %s, want %s", c.Raw(), want)
	}
}

func TestDecodeBalancePage(t *testing.T) {
	schema := mustLookup(t, "balance")
	body := `{"object":"balance","available":[{"amount":1000,"currency":"usd"},{"amount":500,"currency":"eur"}],"livemode":false}`

	page, err := DecodePage([]byte(body), schema, schema.ColumnNames())
	if err != nil {
		t.Fatalf("DecodePage() error: %v", err)
	}
	if len(page.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(page.Rows))
	}
	if c, ok := page.Rows[0].Cell("amount"); !ok || c.Int() != 1000 {
		t.Errorf("amount = %v, want 1000", c)
	}
	if c, ok := page.Rows[1].Cell("currency"); !ok || c.Text() != "eur" {
		t.Errorf("currency = %v, want eur", c)
	}
	if page.NextCursor != "" {
		t.Errorf("NextCursor = %q, want empty for elements without id", page.NextCursor)
	}
	if page.Continue != ContinueUnknown {
		t.Errorf("Continue = %v, want unknown", page.Continue)
	}
}

func TestDecodeSingletonFallback(t *testing.T) {
	schema := mustLookup(t, "balance")
	body := `{"amount":42,"currency":"usd"}`

	page, err := DecodePage([]byte(body), schema, schema.ColumnNames())
	if err != nil {
		t.Fatalf("DecodePage() error: %v", err)
	}
	if len(page.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(page.Rows))
	}
	if c, ok := page.Rows[0].Cell("amount"); !ok || c.Int() != 42 {
		t.Errorf("amount = %v, want 42", c)
	}
	if page.NextCursor != "" {
		t.Errorf("NextCursor = %q, want empty", page.NextCursor)
	}
}

func TestDecodeNonObjectElement(t *testing.T) {
	schema := mustLookup(t, "customers")
	body := `{"has_more":false,"data":["oops"]}`

	page, err := DecodePage([]byte(body), schema, []string{"id", "attrs"})
	if err != nil {
		t.Fatalf("DecodePage() error: %v", err)
	}
	if len(page.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(page.Rows))
	}
	if c, ok := page.Rows[0].Cell("id"); !ok || !c.IsAbsent() {
		t.Errorf("id = %v, want absent cell", c)
	}
	if c, ok := page.Rows[0].Cell("attrs"); !ok || string(c.Raw()) != `"oops"` {
		t.Errorf("attrs = %v, want raw element", c)
	}
}

func TestDecodeMalformed(t *testing.T) {
	schema := mustLookup(t, "customers")
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>rate limited</html>`},
		{name: "missing data array", body: `{"object":"list","has_more":false}`},
		{name: "data not an array", body: `{"data":{"id":"cus_1"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePage([]byte(tt.body), schema, []string{"id"})
			if err == nil {
				t.Fatal("DecodePage() did not fail")
			}
			if !errors.IsKind(err, errors.Decode) {
				t.Errorf("error kind = %v, want Decode", errors.KindOf(err))
			}
		})
	}
}
