// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package syncing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"stripeql/cli/internal/errors"
	"stripeql/cli/internal/pgsync"
	"stripeql/cli/internal/scan"
)

// PGDestination adapts the pgsync executor and inspector to the
// Destination interface.
type PGDestination struct {
	exec *pgsync.Executor
	insp *pgsync.Inspector
}

var _ Destination = (*PGDestination)(nil)

// NewPGDestination builds a Destination over a Postgres connection pool.
func NewPGDestination(pool *pgxpool.Pool) *PGDestination {
	return &PGDestination{
		exec: pgsync.New(pool),
		insp: pgsync.NewInspector(pool),
	}
}

func (d *PGDestination) EnsureSchema(ctx context.Context, schemaName string) error {
	return d.exec.EnsureSchema(ctx, schemaName)
}

// PrepareTable creates the destination table when missing, then refuses a
// live table that lacks catalog columns: COPY would fail halfway through
// otherwise, and the mismatch deserves a clear message up front.
func (d *PGDestination) PrepareTable(ctx context.Context, schemaName string, obj *scan.ObjectSchema) error {
	if err := d.exec.EnsureTable(ctx, schemaName, obj); err != nil {
		return err
	}
	cols, err := d.insp.TableColumns(ctx, schemaName, obj.Object)
	if err != nil {
		return err
	}
	if missing := pgsync.MissingColumns(obj, cols); len(missing) > 0 {
		return errors.New(errors.Sync, fmt.Sprintf(
			"table %s.%s is missing columns %s; drop the table and sync again",
			schemaName, obj.Object, strings.Join(missing, ", ")))
	}
	return nil
}

func (d *PGDestination) BeginLoad(ctx context.Context, schemaName string, obj *scan.ObjectSchema, replace bool) (Load, error) {
	load, err := d.exec.BeginLoad(ctx, schemaName, obj, replace)
	if err != nil {
		return nil, err
	}
	return load, nil
}
