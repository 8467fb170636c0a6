// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scan

import (
	"encoding/json"
	"time"
)

// CellKind discriminates the value held by a Cell.
type CellKind int

const (
	// KindAbsent is the zero Cell: the column was requested but no value
	// could be derived from the upstream element.
	KindAbsent CellKind = iota
	KindInt64
	KindString
	KindTimestamp
	KindJSON
)

func (k CellKind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindString:
		return "string"
	case KindTimestamp:
		return "timestamp"
	case KindJSON:
		return "json"
	default:
		return "absent"
	}
}

// Cell is one typed column value. The zero value is the absent cell.
type Cell struct {
	kind CellKind
	num  int64
	text string
	ts   time.Time
	raw  json.RawMessage
}

// Int64Cell returns a Cell holding an integer value.
func Int64Cell(v int64) Cell { return Cell{kind: KindInt64, num: v} }

// StringCell returns a Cell holding a text value.
func StringCell(v string) Cell { return Cell{kind: KindString, text: v} }

// TimestampCell returns a Cell holding a calendar timestamp.
func TimestampCell(t time.Time) Cell { return Cell{kind: KindTimestamp, ts: t} }

// JSONCell returns a Cell holding a raw JSON document.
func JSONCell(raw json.RawMessage) Cell { return Cell{kind: KindJSON, raw: raw} }

// Kind returns the cell's discriminator.
func (c Cell) Kind() CellKind { return c.kind }

// IsAbsent reports whether the cell carries no value.
func (c Cell) IsAbsent() bool { return c.kind == KindAbsent }

// Int returns the integer value. Valid only for KindInt64.
func (c Cell) Int() int64 { return c.num }

// Text returns the text value. Valid only for KindString.
func (c Cell) Text() string { return c.text }

// Time returns the timestamp value. Valid only for KindTimestamp.
func (c Cell) Time() time.Time { return c.ts }

// Raw returns the raw JSON document. Valid only for KindJSON.
func (c Cell) Raw() json.RawMessage { return c.raw }

// Value returns the cell's value as a plain Go value: int64, string,
// time.Time, json.RawMessage, or nil for an absent cell. This is the
// bridge to SQL engines and database drivers that speak interface values.
func (c Cell) Value() any {
	switch c.kind {
	case KindInt64:
		return c.num
	case KindString:
		return c.text
	case KindTimestamp:
		return c.ts
	case KindJSON:
		return c.raw
	default:
		return nil
	}
}
