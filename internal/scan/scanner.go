// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package scan exposes cursor-paginated REST collections as relational
// scans. A schema registry describes the scannable object types, a
// planner selects which equality filters can be forwarded upstream, and
// a paging driver walks the cursor chain and decodes each page into
// typed rows. The Scanner ties these together behind a begin/next/end
// lifecycle.
package scan

import (
	"context"
)

// State is the position of a Scanner in its lifecycle.
type State int

const (
	// StateIdle means no scan is active.
	StateIdle State = iota
	// StateScanning means rows are buffered and Next may yield more.
	StateScanning
	// StateExhausted means the active scan has been fully drained.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateExhausted:
		return "exhausted"
	default:
		return "idle"
	}
}

// Scanner runs one scan at a time over a registry and driver. Begin
// resolves the object type and buffers the full result, Next hands out
// rows one at a time, and End releases the scan. A Scanner is not safe
// for concurrent use; to scan in parallel, give each goroutine its own
// Scanner over the shared Driver.
type Scanner struct {
	registry *Registry
	driver   *Driver

	state  State
	schema *ObjectSchema
	buf    []Row
}

// NewScanner returns an idle scanner.
func NewScanner(registry *Registry, driver *Driver) *Scanner {
	return &Scanner{registry: registry, driver: driver}
}

// Begin starts a scan of the named object type, replacing any scan still
// active. Unknown object types fail before any upstream request. On
// error the scanner is left idle.
func (s *Scanner) Begin(ctx context.Context, object string, quals []Qual, columns []string, limit *Limit) error {
	s.End()
	schema, err := s.registry.Lookup(object)
	if err != nil {
		return err
	}
	rows, err := s.driver.Scan(ctx, schema, quals, columns, limit)
	if err != nil {
		return err
	}
	s.schema = schema
	s.buf = rows
	s.state = StateScanning
	return nil
}

// Next returns the next buffered row. It reports false once the scan is
// drained, after End, or before any Begin; draining moves the scanner to
// StateExhausted.
func (s *Scanner) Next() (Row, bool) {
	if s.state != StateScanning {
		return Row{}, false
	}
	if len(s.buf) == 0 {
		s.state = StateExhausted
		return Row{}, false
	}
	row := s.buf[0]
	s.buf = s.buf[1:]
	return row, true
}

// End releases the active scan. It is safe to call in any state, any
// number of times.
func (s *Scanner) End() {
	s.state = StateIdle
	s.schema = nil
	s.buf = nil
}

// State reports the scanner's lifecycle position.
func (s *Scanner) State() State { return s.state }

// Schema returns the schema resolved by the active scan, or nil when
// idle.
func (s *Scanner) Schema() *ObjectSchema { return s.schema }
