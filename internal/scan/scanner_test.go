// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scan

import (
	"context"
	"fmt"
	"testing"

	"stripeql/cli/internal/errors"
)

func newTestScanner(t *testing.T, f *fakeFetcher) *Scanner {
	t.Helper()
	return NewScanner(Builtin(), newTestDriver(t, f))
}

func TestScannerUnknownObject(t *testing.T) {
	f := &fakeFetcher{}
	s := newTestScanner(t, f)

	err := s.Begin(context.Background(), "cards", nil, nil, nil)
	if err == nil {
		t.Fatal("Begin() did not fail")
	}
	if !errors.IsKind(err, errors.ObjectNotFound) {
		t.Errorf("error kind = %v, want ObjectNotFound", errors.KindOf(err))
	}
	if len(f.urls) != 0 {
		t.Errorf("fetch count = %d, want 0", len(f.urls))
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
}

func TestScannerLifecycle(t *testing.T) {
	f := &fakeFetcher{pages: []string{customerPage(false, "cus_1", "cus_2")}}
	s := newTestScanner(t, f)

	if s.State() != StateIdle {
		t.Fatalf("initial state = %v, want idle", s.State())
	}
	if err := s.Begin(context.Background(), "customers", nil, nil, nil); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if s.State() != StateScanning {
		t.Fatalf("state after Begin = %v, want scanning", s.State())
	}
	if s.Schema() == nil || s.Schema().Object != "customers" {
		t.Errorf("Schema() = %v, want customers", s.Schema())
	}

	var ids []string
	for {
		row, ok := s.Next()
		if !ok {
			break
		}
		c, _ := row.Cell("id")
		ids = append(ids, c.Text())
	}
	if len(ids) != 2 || ids[0] != "cus_1" || ids[1] != "cus_2" {
		t.Errorf("drained ids = %v, want [cus_1 cus_2]", ids)
	}
	if s.State() != StateExhausted {
		t.Errorf("state after drain = %v, want exhausted", s.State())
	}
	if _, ok := s.Next(); ok {
		t.Error("Next() produced a row after exhaustion")
	}

	s.End()
	if s.State() != StateIdle {
		t.Errorf("state after End = %v, want idle", s.State())
	}
	if s.Schema() != nil {
		t.Error("Schema() non-nil after End")
	}
	if _, ok := s.Next(); ok {
		t.Error("Next() produced a row after End")
	}
}

func TestScannerNextBeforeBegin(t *testing.T) {
	s := newTestScanner(t, &fakeFetcher{})
	if _, ok := s.Next(); ok {
		t.Error("Next() produced a row before Begin")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
}

func TestScannerRestart(t *testing.T) {
	page := customerPage(false, "cus_1", "cus_2")
	f := &fakeFetcher{pages: []string{page, page}}
	s := newTestScanner(t, f)

	if err := s.Begin(context.Background(), "customers", nil, nil, nil); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if _, ok := s.Next(); !ok {
		t.Fatal("Next() returned no row")
	}

	// Begin replaces the half-consumed scan with a fresh one.
	if err := s.Begin(context.Background(), "customers", nil, nil, nil); err != nil {
		t.Fatalf("second Begin() error: %v", err)
	}
	var n int
	for {
		if _, ok := s.Next(); !ok {
			break
		}
		n++
	}
	if n != 2 {
		t.Errorf("rows after restart = %d, want 2", n)
	}
	if len(f.urls) != 2 {
		t.Errorf("fetch count = %d, want 2", len(f.urls))
	}
}

func TestScannerBeginErrorLeavesIdle(t *testing.T) {
	f := &fakeFetcher{errAt: 1, err: fmt.Errorf("connection refused")}
	s := newTestScanner(t, f)

	if err := s.Begin(context.Background(), "customers", nil, nil, nil); err == nil {
		t.Fatal("Begin() did not fail")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
	if s.Schema() != nil {
		t.Error("Schema() non-nil after failed Begin")
	}
}

func TestScannerEndAnyState(t *testing.T) {
	s := newTestScanner(t, &fakeFetcher{pages: []string{customerPage(false, "cus_1")}})

	s.End()
	s.End()
	if s.State() != StateIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
	if err := s.Begin(context.Background(), "customers", nil, nil, nil); err != nil {
		t.Fatalf("Begin() after End error: %v", err)
	}
	s.End()
	if s.State() != StateIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
}
