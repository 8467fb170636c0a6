// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package engine serves the object catalog as a read-only MySQL
// database. Each object type becomes a table; SELECTs turn into scans,
// with column projections and eligible equality filters forwarded
// upstream. Any MySQL client can then join and aggregate over live
// API data.
package engine

import (
	sqle "github.com/dolthub/go-mysql-server"

	"stripeql/cli/internal/scan"
)

// Engine wraps the SQL engine over the scan driver.
type Engine struct {
	*sqle.Engine
}

// New builds the engine for a registry and driver pair under the
// default database name.
func New(registry *scan.Registry, driver *scan.Driver) *Engine {
	return NewNamed(DatabaseName, registry, driver)
}

// NewNamed builds the engine with a custom database name.
func NewNamed(name string, registry *scan.Registry, driver *scan.Driver) *Engine {
	return &Engine{
		Engine: sqle.NewDefault(NewProvider(NewNamedDatabase(name, registry, driver))),
	}
}
