// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scan

import (
	"encoding/json"
	"fmt"
	"time"

	"stripeql/cli/internal/errors"
)

// Continuation reports whether the upstream declared more pages after the
// one just decoded. Responses without the indicator leave it unknown, and
// the driver keeps fetching until another stop condition fires.
type Continuation int

const (
	ContinueUnknown Continuation = iota
	ContinueYes
	ContinueNo
)

func (c Continuation) String() string {
	switch c {
	case ContinueYes:
		return "yes"
	case ContinueNo:
		return "no"
	default:
		return "unknown"
	}
}

// Page is one decoded response page.
type Page struct {
	Rows []Row
	// NextCursor is the id of the page's last element, or empty when the
	// elements carry no id. An empty cursor ends the scan.
	NextCursor string
	Continue   Continuation
}

// DecodePage extracts rows for the requested columns from one response
// body. Collection responses must carry the element array at the schema's
// key; singleton responses fall back to treating the whole body as a
// single element when the key is missing. Absent or mistyped fields
// decode to absent cells rather than errors.
func DecodePage(body []byte, schema *ObjectSchema, columns []string) (*Page, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, errors.Wrap(errors.Decode, "decoding response body", err)
	}

	elems, err := locateElements(top, body, schema)
	if err != nil {
		return nil, err
	}

	page := &Page{Continue: ContinueUnknown}
	if raw, ok := top["has_more"]; ok {
		var more bool
		if err := json.Unmarshal(raw, &more); err == nil {
			if more {
				page.Continue = ContinueYes
			} else {
				page.Continue = ContinueNo
			}
		}
	}

	for _, elem := range elems {
		page.Rows = append(page.Rows, decodeElement(elem, schema, columns))
	}
	if len(elems) > 0 {
		page.NextCursor = elementID(elems[len(elems)-1])
	}
	return page, nil
}

// locateElements finds the element array inside the parsed body. A
// singleton whose key is absent yields the whole body as one element; a
// collection in the same position is a malformed response.
func locateElements(top map[string]json.RawMessage, body []byte, schema *ObjectSchema) ([]json.RawMessage, error) {
	raw, ok := top[schema.Key]
	if ok {
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err == nil {
			return elems, nil
		}
	}
	if schema.Singleton {
		return []json.RawMessage{json.RawMessage(body)}, nil
	}
	return nil, errors.New(errors.Decode, fmt.Sprintf("response has no '%s' array", schema.Key))
}

// decodeElement materializes one row. Every requested column gets a cell:
// typed when the field is present with the schema's type, absent
// otherwise. Elements that are not JSON objects still produce a full row
// of absent cells, with attrs carrying the raw value.
func decodeElement(elem json.RawMessage, schema *ObjectSchema, columns []string) Row {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil {
		fields = nil
	}

	var row Row
	for _, name := range columns {
		if name == AttrsColumn {
			row.Push(name, JSONCell(elem))
			continue
		}
		row.Push(name, decodeField(fields, name, schema))
	}
	return row
}

func decodeField(fields map[string]json.RawMessage, name string, schema *ObjectSchema) Cell {
	var col *Column
	for i := range schema.Columns {
		if schema.Columns[i].Name == name {
			col = &schema.Columns[i]
			break
		}
	}
	if col == nil {
		return Cell{}
	}
	raw, ok := fields[name]
	if !ok {
		return Cell{}
	}
	switch col.Type {
	case TypeInt64:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return Cell{}
		}
		return Int64Cell(n)
	case TypeTimestamp:
		var sec int64
		if err := json.Unmarshal(raw, &sec); err != nil {
			return Cell{}
		}
		return TimestampCell(time.Unix(sec, 0).UTC())
	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Cell{}
		}
		return StringCell(s)
	}
}

// elementID pulls the string id out of a raw element for cursor chaining.
func elementID(elem json.RawMessage) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil {
		return ""
	}
	raw, ok := fields["id"]
	if !ok {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return ""
	}
	return id
}
