// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scan

import (
	"fmt"
	"net/url"
	"strconv"

	"stripeql/cli/internal/errors"
)

// URLBuilder composes upstream request URLs from an object schema, the
// planned pushdown parameters, and a page cursor. Read-only after
// construction and therefore safe for concurrent use.
type URLBuilder struct {
	base     *url.URL
	pageSize int64
}

// NewURLBuilder parses and validates the upstream base URL. The page size
// is the fixed batch size requested from the upstream on every collection
// page.
func NewURLBuilder(baseURL string, pageSize int64) (*URLBuilder, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(errors.Config, fmt.Sprintf("invalid API base URL %q", baseURL), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New(errors.Config, fmt.Sprintf("API base URL %q must use http or https", baseURL))
	}
	if u.Host == "" {
		return nil, errors.New(errors.Config, fmt.Sprintf("API base URL %q has no host", baseURL))
	}
	if pageSize <= 0 {
		return nil, errors.New(errors.Config, fmt.Sprintf("page size must be positive, got %d", pageSize))
	}
	return &URLBuilder{base: u, pageSize: pageSize}, nil
}

// PageSize returns the per-request batch size.
func (b *URLBuilder) PageSize() int64 { return b.pageSize }

// Build returns the request URL for one page of the given object type.
// Pushdown parameters are always carried. Pagination parameters (limit,
// starting_after) are attached only for collection objects; singletons
// never paginate. An empty cursor means the first page.
func (b *URLBuilder) Build(schema *ObjectSchema, params []Param, cursor string) string {
	u := b.base.JoinPath(schema.Object)
	q := url.Values{}
	for _, p := range params {
		q.Set(p.Name, p.Value)
	}
	if !schema.Singleton {
		q.Set("limit", strconv.FormatInt(b.pageSize, 10))
		if cursor != "" {
			q.Set("starting_after", cursor)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
