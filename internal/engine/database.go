// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package engine

import (
	"strings"

	"github.com/dolthub/go-mysql-server/sql"

	"stripeql/cli/internal/scan"
)

// DatabaseName is the default name of the database served over the
// MySQL protocol.
const DatabaseName = "stripe"

// Database maps the object catalog onto a read-only SQL database: one
// table per object type.
type Database struct {
	name     string
	registry *scan.Registry
	driver   *scan.Driver
}

var _ sql.Database = (*Database)(nil)

func NewDatabase(registry *scan.Registry, driver *scan.Driver) *Database {
	return NewNamedDatabase(DatabaseName, registry, driver)
}

// NewNamedDatabase serves the catalog under a custom database name.
func NewNamedDatabase(name string, registry *scan.Registry, driver *scan.Driver) *Database {
	return &Database{name: name, registry: registry, driver: driver}
}

func (d *Database) Name() string { return d.name }

func (d *Database) GetTableInsensitive(_ *sql.Context, tblName string) (sql.Table, bool, error) {
	schema, err := d.registry.Lookup(strings.ToLower(tblName))
	if err != nil {
		return nil, false, nil
	}
	return newTable(schema, d.driver), true, nil
}

func (d *Database) GetTableNames(*sql.Context) ([]string, error) {
	schemas := d.registry.Objects()
	names := make([]string, len(schemas))
	for i, s := range schemas {
		names[i] = s.Object
	}
	return names, nil
}

func (*Database) IsReadOnly() bool { return true }

var _ sql.DatabaseProvider = (*Provider)(nil)

// Provider serves the single catalog database.
type Provider struct {
	db *Database
}

func NewProvider(db *Database) *Provider {
	return &Provider{db: db}
}

func (p *Provider) Database(_ *sql.Context, name string) (sql.Database, error) {
	if !strings.EqualFold(name, p.db.Name()) {
		return nil, sql.ErrDatabaseNotFound.New(name)
	}
	return p.db, nil
}

func (p *Provider) AllDatabases(*sql.Context) []sql.Database {
	return []sql.Database{p.db}
}

func (p *Provider) HasDatabase(_ *sql.Context, name string) bool {
	return strings.EqualFold(name, p.db.Name())
}
