// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package syncing

import "sync"

// ObjectProgress is the live position of one in-flight object sync.
type ObjectProgress struct {
	// Copied is the number of rows loaded so far.
	Copied int64
	// Total is the fetched row count, or -1 while pages are still being
	// scanned upstream.
	Total int64
}

// ProgressState tracks every object's position in the current sync run.
// All methods are safe for concurrent use.
type ProgressState struct {
	// active maps in-flight object names to their progress
	active map[string]*ObjectProgress
	// completed maps finished object names to their final row counts
	completed map[string]int64
	// failed maps failed object names to their reasons
	failed map[string]string
	// order preserves the sequence in which objects started
	order []string
	// doneOrder preserves the sequence in which objects completed
	doneOrder []string
	mu        sync.Mutex
}

// NewProgressState creates an empty ProgressState.
func NewProgressState() *ProgressState {
	return &ProgressState{
		active:    make(map[string]*ObjectProgress),
		completed: make(map[string]int64),
		failed:    make(map[string]string),
	}
}

// Apply folds one event into the state.
func (ps *ProgressState) Apply(ev Event) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	switch ev.Type {
	case EventObjectStarted:
		if _, exists := ps.active[ev.Object]; !exists {
			ps.order = append(ps.order, ev.Object)
		}
		ps.active[ev.Object] = &ObjectProgress{Total: -1}
	case EventObjectFetched:
		if p, ok := ps.active[ev.Object]; ok {
			p.Total = ev.Rows
		}
	case EventObjectRows:
		if p, ok := ps.active[ev.Object]; ok {
			p.Copied = ev.Rows
		}
	case EventObjectCompleted:
		delete(ps.active, ev.Object)
		ps.completed[ev.Object] = ev.Rows
		ps.doneOrder = append(ps.doneOrder, ev.Object)
	case EventObjectFailed:
		delete(ps.active, ev.Object)
		ps.failed[ev.Object] = ev.Reason
	}
}

// ObjectLine is one renderable object entry.
type ObjectLine struct {
	Object string
	// State is one of "active", "done", "failed".
	State    string
	Progress ObjectProgress
	Rows     int64
	Reason   string
}

// Lines returns one entry per known object in start order, each carrying
// its current state. The result is a copy safe to use without locking.
func (ps *ProgressState) Lines() []ObjectLine {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	lines := make([]ObjectLine, 0, len(ps.order))
	for _, name := range ps.order {
		if p, ok := ps.active[name]; ok {
			lines = append(lines, ObjectLine{Object: name, State: "active", Progress: *p})
			continue
		}
		if rows, ok := ps.completed[name]; ok {
			lines = append(lines, ObjectLine{Object: name, State: "done", Rows: rows})
			continue
		}
		if reason, ok := ps.failed[name]; ok {
			lines = append(lines, ObjectLine{Object: name, State: "failed", Reason: reason})
		}
	}
	return lines
}

// CompletedCount returns how many objects finished successfully.
func (ps *ProgressState) CompletedCount() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.completed)
}

// FailedCount returns how many objects failed.
func (ps *ProgressState) FailedCount() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.failed)
}

// HasFailures reports whether any object failed.
func (ps *ProgressState) HasFailures() bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.failed) > 0
}

// TotalRows returns the sum of rows loaded by completed objects.
func (ps *ProgressState) TotalRows() int64 {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	var total int64
	for _, rows := range ps.completed {
		total += rows
	}
	return total
}

// Failures returns failed objects with their reasons, in start order.
func (ps *ProgressState) Failures() []ObjectLine {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	var out []ObjectLine
	for _, name := range ps.order {
		if reason, ok := ps.failed[name]; ok {
			out = append(out, ObjectLine{Object: name, State: "failed", Reason: reason})
		}
	}
	return out
}
