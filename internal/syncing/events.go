// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package syncing drives the materialization of object types into a target
// database and reports progress while doing so. It provides the worker-pool
// engine that pairs upstream scans with destination loads, the event model
// describing each object's lifecycle, and the live terminal renderer that
// turns those events into docker-compose-style progress lines.
package syncing

// EventType enumerates known sync event kinds.
type EventType string

const (
	// EventObjectStarted marks the beginning of one object's sync.
	EventObjectStarted EventType = "object_started"
	// EventObjectFetched reports that all pages for an object have been
	// scanned; Rows carries the total about to be loaded.
	EventObjectFetched EventType = "object_fetched"
	// EventObjectRows reports load progress; Rows carries the cumulative
	// count copied so far.
	EventObjectRows EventType = "object_rows"
	// EventObjectCompleted marks an object as fully loaded and committed.
	EventObjectCompleted EventType = "object_completed"
	// EventObjectFailed marks an object as failed; Reason explains why.
	EventObjectFailed EventType = "object_failed"
)

// Event is one step in an object's sync lifecycle. Events for different
// objects interleave freely; events for a single object arrive in order.
type Event struct {
	Type   EventType
	Object string
	// Rows is the fetched total for EventObjectFetched, the cumulative
	// loaded count for EventObjectRows, and the final loaded count for
	// EventObjectCompleted.
	Rows   int64
	Reason string
}
