// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pgsync materializes object scans into PostgreSQL tables over a pgx
// connection pool. It owns the target side of a sync: creating the destination
// schema and tables, verifying their shape against the object catalog, and
// replacing their contents through transactional COPY loads.
//
// Key features include:
//   - DDL generation from object schemas with sanitized identifiers
//   - Atomic replace loads (truncate plus COPY in one transaction)
//   - Batched bulk loading so callers can report progress between batches
//   - Cached information_schema introspection for drift detection
package pgsync

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stripeql/cli/internal/logging"
	"stripeql/cli/internal/scan"
)

// Executor runs DDL and bulk loads against one target database.
// The underlying pool hands each call its own connection, so the
// Executor is safe for concurrent use across object syncs.
type Executor struct {
	pool *pgxpool.Pool
}

// New creates an Executor backed by the given connection pool.
func New(pool *pgxpool.Pool) *Executor {
	return &Executor{pool: pool}
}

// EnsureSchema creates the destination schema when it does not exist yet.
func (e *Executor) EnsureSchema(ctx context.Context, schemaName string) error {
	ddl := "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schemaName}.Sanitize()
	_, err := e.pool.Exec(ctx, ddl)
	return err
}

// EnsureTable creates the destination table for an object type when it does
// not exist yet. Every catalog column becomes a nullable column of the
// matching PostgreSQL type, with the raw upstream element kept in a trailing
// attrs jsonb column.
func (e *Executor) EnsureTable(ctx context.Context, schemaName string, obj *scan.ObjectSchema) error {
	ddl := createTableDDL(schemaName, obj)
	logging.Debugf("ensuring table %s.%s", schemaName, obj.Object)
	_, err := e.pool.Exec(ctx, ddl)
	return err
}

// BeginLoad opens a transactional load for one destination table. When
// replace is true the table is truncated inside the same transaction, so
// the previous contents stay visible to other sessions until the load
// commits and a failed sync never leaves a half-loaded table behind.
func (e *Executor) BeginLoad(ctx context.Context, schemaName string, obj *scan.ObjectSchema, replace bool) (*Load, error) {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	table := pgx.Identifier{schemaName, obj.Object}
	if replace {
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+table.Sanitize()); err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}
	}

	return &Load{
		tx:      tx,
		table:   table,
		columns: copyColumns(obj),
	}, nil
}

// Load is an in-progress replace of one destination table. Feed it row
// batches with Copy, then Commit; Close rolls back anything uncommitted.
// A Load belongs to a single goroutine.
type Load struct {
	tx      pgx.Tx
	table   pgx.Identifier
	columns []string
}

// Copy bulk-loads one batch of scan rows over the COPY protocol and returns
// the number of rows written in this batch.
func (l *Load) Copy(ctx context.Context, rows []scan.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	return l.tx.CopyFrom(ctx, l.table, l.columns, pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		return copyValues(l.columns, &rows[i]), nil
	}))
}

// Commit makes the replace visible.
func (l *Load) Commit(ctx context.Context) error {
	return l.tx.Commit(ctx)
}

// Close rolls back an uncommitted load. Calling Close after Commit is a
// no-op, so it is safe to defer unconditionally.
func (l *Load) Close(ctx context.Context) {
	_ = l.tx.Rollback(ctx)
}
