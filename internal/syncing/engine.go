// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package syncing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"stripeql/cli/internal/errors"
	"stripeql/cli/internal/logging"
	"stripeql/cli/internal/scan"
)

// DefaultSchema is the destination schema objects are loaded into.
const DefaultSchema = "stripe"

// Destination is the target side of a sync. PGDestination implements it
// over a Postgres pool.
type Destination interface {
	// EnsureSchema creates the destination schema when it is missing.
	EnsureSchema(ctx context.Context, schemaName string) error
	// PrepareTable creates the object's table when it is missing and
	// verifies an existing table still fits the catalog shape.
	PrepareTable(ctx context.Context, schemaName string, obj *scan.ObjectSchema) error
	// BeginLoad opens a transactional load for the object's table. When
	// replace is true the previous contents are dropped in the same
	// transaction.
	BeginLoad(ctx context.Context, schemaName string, obj *scan.ObjectSchema, replace bool) (Load, error)
}

// Load is one in-progress table load. Feed it row batches with Copy, then
// Commit; Close rolls back anything uncommitted and is safe to defer.
type Load interface {
	Copy(ctx context.Context, rows []scan.Row) (int64, error)
	Commit(ctx context.Context) error
	Close(ctx context.Context)
}

// Options tunes a sync run. Zero values pick the defaults.
type Options struct {
	// Schema is the destination schema name. Defaults to DefaultSchema.
	Schema string
	// Workers bounds how many object types sync concurrently. Defaults
	// to 4. Concurrent scans are safe: workers share only the immutable
	// driver and client.
	Workers int
	// BatchSize is the number of rows per COPY batch. Defaults to 100,
	// one upstream page, so progress ticks at page granularity.
	BatchSize int
	// Replace empties each destination table before loading instead of
	// appending.
	Replace bool
	// OnEvent receives lifecycle events as the run progresses. May be
	// nil. It is called from worker goroutines and must be safe for
	// concurrent use.
	OnEvent func(Event)
}

// Engine runs one sync: a bounded pool of workers, each scanning an object
// type upstream and streaming its rows into the destination.
type Engine struct {
	registry *scan.Registry
	driver   *scan.Driver
	dest     Destination
	opts     Options
}

// NewEngine creates an Engine. A nil registry falls back to the built-in
// catalog.
func NewEngine(registry *scan.Registry, driver *scan.Driver, dest Destination, opts Options) *Engine {
	if registry == nil {
		registry = scan.Builtin()
	}
	if opts.Schema == "" {
		opts.Schema = DefaultSchema
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	return &Engine{registry: registry, driver: driver, dest: dest, opts: opts}
}

// Summary is the outcome of one sync run.
type Summary struct {
	// Synced is the number of object types loaded successfully.
	Synced int
	// Rows is the total row count across synced objects.
	Rows int64
	// Failed maps failed object names to their reasons.
	Failed map[string]string
	// Duration is the wall-clock time of the whole run.
	Duration time.Duration
}

// Run syncs the named object types, or the whole catalog when names is
// empty. Unknown names fail the run before anything touches the
// destination. After that point a failing object does not stop its
// siblings; per-object outcomes land in the summary and the event stream.
func (e *Engine) Run(ctx context.Context, names []string) (*Summary, error) {
	start := time.Now()

	if len(names) == 0 {
		for _, obj := range e.registry.Objects() {
			names = append(names, obj.Object)
		}
	}
	schemas := make([]*scan.ObjectSchema, 0, len(names))
	for _, name := range names {
		obj, err := e.registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, obj)
	}

	if err := e.dest.EnsureSchema(ctx, e.opts.Schema); err != nil {
		return nil, errors.Wrap(errors.Sync, fmt.Sprintf("creating schema %s", e.opts.Schema), err)
	}

	summary := &Summary{Failed: make(map[string]string)}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	for _, obj := range schemas {
		g.Go(func() error {
			rows, err := e.syncObject(ctx, obj)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed[obj.Object] = err.Error()
				return nil
			}
			summary.Synced++
			summary.Rows += rows
			return nil
		})
	}
	_ = g.Wait()

	summary.Duration = time.Since(start)
	return summary, nil
}

// syncObject runs one object's full pipeline and reports its lifecycle.
func (e *Engine) syncObject(ctx context.Context, obj *scan.ObjectSchema) (int64, error) {
	e.emit(Event{Type: EventObjectStarted, Object: obj.Object})

	rows, err := e.loadObject(ctx, obj)
	if err != nil {
		e.emit(Event{Type: EventObjectFailed, Object: obj.Object, Reason: err.Error()})
		return 0, err
	}

	e.emit(Event{Type: EventObjectCompleted, Object: obj.Object, Rows: rows})
	return rows, nil
}

func (e *Engine) loadObject(ctx context.Context, obj *scan.ObjectSchema) (int64, error) {
	if err := e.dest.PrepareTable(ctx, e.opts.Schema, obj); err != nil {
		return 0, err
	}

	columns := append(obj.ColumnNames(), scan.AttrsColumn)
	rows, err := e.driver.Scan(ctx, obj, nil, columns, nil)
	if err != nil {
		return 0, err
	}
	e.emit(Event{Type: EventObjectFetched, Object: obj.Object, Rows: int64(len(rows))})

	load, err := e.dest.BeginLoad(ctx, e.opts.Schema, obj, e.opts.Replace)
	if err != nil {
		return 0, err
	}
	defer load.Close(ctx)

	var copied int64
	for low := 0; low < len(rows); low += e.opts.BatchSize {
		high := low + e.opts.BatchSize
		if high > len(rows) {
			high = len(rows)
		}
		n, err := load.Copy(ctx, rows[low:high])
		if err != nil {
			return 0, err
		}
		copied += n
		e.emit(Event{Type: EventObjectRows, Object: obj.Object, Rows: copied})
	}

	if err := load.Commit(ctx); err != nil {
		return 0, err
	}
	logging.Debugf("sync %s: loaded %d rows", obj.Object, copied)
	return copied, nil
}

func (e *Engine) emit(ev Event) {
	if e.opts.OnEvent != nil {
		e.opts.OnEvent(ev)
	}
}
