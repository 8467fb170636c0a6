// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package syncing

import (
	"reflect"
	"testing"
)

func TestProgressStateLifecycle(t *testing.T) {
	ps := NewProgressState()

	ps.Apply(Event{Type: EventObjectStarted, Object: "customers"})
	ps.Apply(Event{Type: EventObjectStarted, Object: "charges"})

	lines := ps.Lines()
	if len(lines) != 2 {
		t.Fatalf("Lines() returned %d entries, want 2", len(lines))
	}
	if lines[0].Object != "customers" || lines[1].Object != "charges" {
		t.Errorf("start order not preserved: %v", lines)
	}
	if lines[0].State != "active" || lines[0].Progress.Total != -1 {
		t.Errorf("fresh object = %+v, want active with unknown total", lines[0])
	}

	ps.Apply(Event{Type: EventObjectFetched, Object: "customers", Rows: 10})
	ps.Apply(Event{Type: EventObjectRows, Object: "customers", Rows: 4})

	lines = ps.Lines()
	if p := lines[0].Progress; p.Total != 10 || p.Copied != 4 {
		t.Errorf("progress = %+v, want 4/10", p)
	}

	ps.Apply(Event{Type: EventObjectCompleted, Object: "customers", Rows: 10})
	ps.Apply(Event{Type: EventObjectFailed, Object: "charges", Reason: "copy failed"})

	lines = ps.Lines()
	if lines[0].State != "done" || lines[0].Rows != 10 {
		t.Errorf("completed line = %+v", lines[0])
	}
	if lines[1].State != "failed" || lines[1].Reason != "copy failed" {
		t.Errorf("failed line = %+v", lines[1])
	}

	if ps.CompletedCount() != 1 || ps.FailedCount() != 1 || !ps.HasFailures() {
		t.Errorf("counts = %d done, %d failed", ps.CompletedCount(), ps.FailedCount())
	}
	if ps.TotalRows() != 10 {
		t.Errorf("TotalRows = %d, want 10", ps.TotalRows())
	}
}

func TestProgressStateFailures(t *testing.T) {
	ps := NewProgressState()
	ps.Apply(Event{Type: EventObjectStarted, Object: "invoices"})
	ps.Apply(Event{Type: EventObjectStarted, Object: "charges"})
	ps.Apply(Event{Type: EventObjectFailed, Object: "charges", Reason: "boom"})
	ps.Apply(Event{Type: EventObjectFailed, Object: "invoices", Reason: "later"})

	got := ps.Failures()
	want := []ObjectLine{
		{Object: "invoices", State: "failed", Reason: "later"},
		{Object: "charges", State: "failed", Reason: "boom"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Failures() = %v, want %v", got, want)
	}
}

func TestProgressStateIgnoresStragglers(t *testing.T) {
	ps := NewProgressState()

	// Progress for an object that already finished must not resurrect it.
	ps.Apply(Event{Type: EventObjectStarted, Object: "customers"})
	ps.Apply(Event{Type: EventObjectCompleted, Object: "customers", Rows: 3})
	ps.Apply(Event{Type: EventObjectRows, Object: "customers", Rows: 99})

	lines := ps.Lines()
	if len(lines) != 1 || lines[0].State != "done" || lines[0].Rows != 3 {
		t.Errorf("lines = %v, want single done entry with 3 rows", lines)
	}
}
