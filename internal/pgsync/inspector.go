// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pgsync

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"stripeql/cli/internal/scan"
)

// Inspector reads live table shapes from information_schema and caches
// them to avoid repeated metadata roundtrips during a sync run.
type Inspector struct {
	pool *pgxpool.Pool
	// cache stores column names keyed by qualified table name
	cache map[string][]string
	mu    sync.RWMutex
}

// NewInspector creates an Inspector over the given connection pool.
func NewInspector(pool *pgxpool.Pool) *Inspector {
	return &Inspector{
		pool:  pool,
		cache: make(map[string][]string),
	}
}

// TableColumns returns the live column names of a table in ordinal order,
// or nil when the table does not exist. Results are cached per table.
// This method is thread-safe.
func (i *Inspector) TableColumns(ctx context.Context, schemaName, table string) ([]string, error) {
	key := schemaName + "." + table

	i.mu.RLock()
	if cols, exists := i.cache[key]; exists {
		i.mu.RUnlock()
		return cols, nil
	}
	i.mu.RUnlock()

	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`

	rows, err := i.pool.Query(ctx, query, schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	i.mu.Lock()
	i.cache[key] = cols
	i.mu.Unlock()

	return cols, nil
}

// ClearCache drops all cached table shapes. Call it after DDL runs so the
// next lookup sees the new shape.
func (i *Inspector) ClearCache() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cache = make(map[string][]string)
}

// MissingColumns returns the destination columns an existing table lacks.
// A pre-existing table from an older catalog may be narrower than the
// current one; loading into it would fail mid-COPY, so syncs check first.
func MissingColumns(obj *scan.ObjectSchema, existing []string) []string {
	var missing []string
	for _, want := range copyColumns(obj) {
		found := false
		for _, have := range existing {
			if strings.EqualFold(want, have) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, want)
		}
	}
	return missing
}
