// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scan

import (
	"fmt"

	"stripeql/cli/internal/errors"
)

// ColumnType is the semantic type of a schema column.
type ColumnType int

const (
	TypeInt64 ColumnType = iota
	TypeString
	TypeTimestamp
)

func (t ColumnType) String() string {
	switch t {
	case TypeInt64:
		return "int64"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "string"
	}
}

// Column is one (field name, semantic type) schema entry. The field name
// is both the upstream JSON property and the exposed column name.
type Column struct {
	Name string
	Type ColumnType
}

// AttrsColumn is the reserved synthetic column available on every object
// type: the entire raw upstream element as opaque JSON. It is the escape
// hatch for fields the schema does not model.
const AttrsColumn = "attrs"

// ObjectSchema describes one scannable object type. Instances are static
// configuration: constructed once, never mutated.
type ObjectSchema struct {
	// Object is the object type name and the upstream path segment.
	Object string
	// Key locates the element array inside the response body.
	Key string
	// Singleton marks object types whose response is a single document
	// rather than a paginated collection; they receive no pagination
	// parameters.
	Singleton bool
	// Columns in schema order, which is also row column order.
	Columns []Column
	// Pushdown lists the fields verified as upstream list filters, in
	// planner order. Forwarding any other field could silently change
	// result semantics, so only these are ever pushed.
	Pushdown []string
}

// ColumnNames returns the schema's column names in order.
func (s *ObjectSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Registry maps object type names to their schemas. Read-only after
// construction and therefore safe for concurrent use.
type Registry struct {
	byName map[string]*ObjectSchema
	order  []string
}

// NewRegistry builds a registry from schemas, preserving declaration order.
func NewRegistry(schemas ...*ObjectSchema) *Registry {
	r := &Registry{byName: make(map[string]*ObjectSchema, len(schemas))}
	for _, s := range schemas {
		if _, dup := r.byName[s.Object]; dup {
			panic(fmt.Sprintf("duplicate object schema %q", s.Object))
		}
		r.byName[s.Object] = s
		r.order = append(r.order, s.Object)
	}
	return r
}

// Lookup resolves an object type name. Unknown names fail with an
// ObjectNotFound error and must never trigger an upstream call.
func (r *Registry) Lookup(object string) (*ObjectSchema, error) {
	s, ok := r.byName[object]
	if !ok {
		return nil, errors.New(errors.ObjectNotFound, fmt.Sprintf("'%s' object is not implemented", object))
	}
	return s, nil
}

// Objects returns all schemas in declaration order.
func (r *Registry) Objects() []*ObjectSchema {
	out := make([]*ObjectSchema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

var builtin = NewRegistry(
	&ObjectSchema{
		Object:    "balance",
		Key:       "available",
		Singleton: true,
		Columns: []Column{
			{"amount", TypeInt64},
			{"currency", TypeString},
		},
	},
	&ObjectSchema{
		Object: "balance_transactions",
		Key:    "data",
		Columns: []Column{
			{"id", TypeString},
			{"amount", TypeInt64},
			{"currency", TypeString},
			{"description", TypeString},
			{"fee", TypeInt64},
			{"net", TypeInt64},
			{"status", TypeString},
			{"type", TypeString},
			{"created", TypeTimestamp},
		},
		// ref: https://stripe.com/docs/api/balance_transactions/list
		Pushdown: []string{"payout", "type"},
	},
	&ObjectSchema{
		Object: "charges",
		Key:    "data",
		Columns: []Column{
			{"id", TypeString},
			{"amount", TypeInt64},
			{"currency", TypeString},
			{"customer", TypeString},
			{"description", TypeString},
			{"invoice", TypeString},
			{"payment_intent", TypeString},
			{"status", TypeString},
			{"created", TypeTimestamp},
		},
		// ref: https://stripe.com/docs/api/charges/list
		Pushdown: []string{"customer"},
	},
	&ObjectSchema{
		Object: "customers",
		Key:    "data",
		Columns: []Column{
			{"id", TypeString},
			{"email", TypeString},
		},
		// ref: https://stripe.com/docs/api/customers/list
		Pushdown: []string{"email"},
	},
	&ObjectSchema{
		Object: "invoices",
		Key:    "data",
		Columns: []Column{
			{"id", TypeString},
			{"customer", TypeString},
			{"subscription", TypeString},
			{"status", TypeString},
			{"total", TypeInt64},
			{"currency", TypeString},
			{"period_start", TypeTimestamp},
			{"period_end", TypeTimestamp},
		},
		// ref: https://stripe.com/docs/api/invoices/list
		Pushdown: []string{"customer", "status", "subscription"},
	},
	&ObjectSchema{
		Object: "payment_intents",
		Key:    "data",
		Columns: []Column{
			{"id", TypeString},
			{"customer", TypeString},
			{"amount", TypeInt64},
			{"currency", TypeString},
			{"payment_method", TypeString},
			{"created", TypeTimestamp},
		},
		// ref: https://stripe.com/docs/api/payment_intents/list
		Pushdown: []string{"customer"},
	},
	&ObjectSchema{
		Object: "subscriptions",
		Key:    "data",
		Columns: []Column{
			{"id", TypeString},
			{"customer", TypeString},
			{"currency", TypeString},
			{"current_period_start", TypeTimestamp},
			{"current_period_end", TypeTimestamp},
		},
		// ref: https://stripe.com/docs/api/subscriptions/list
		Pushdown: []string{"customer", "price", "status"},
	},
)

// Builtin returns the compiled-in object catalog.
func Builtin() *Registry { return builtin }
