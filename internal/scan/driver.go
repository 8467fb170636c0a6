// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scan

import (
	"context"
	"fmt"

	"stripeql/cli/internal/errors"
	"stripeql/cli/internal/logging"
)

// Fetcher performs one upstream page request and returns the raw response
// body. Implementations own authentication, retries, and status handling;
// a non-nil error aborts the scan.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Driver runs the page loop for scans: it budgets pages from the row
// limit, chains cursors across requests, and flattens the decoded pages
// into rows. A Driver is immutable and safe for concurrent use; every
// Scan call is independent.
type Driver struct {
	fetcher Fetcher
	urls    *URLBuilder
}

// NewDriver binds a fetcher to a URL builder.
func NewDriver(fetcher Fetcher, urls *URLBuilder) *Driver {
	return &Driver{fetcher: fetcher, urls: urls}
}

// Scan fetches every row of the object type that the limit admits. An
// empty column list materializes the full schema. A nil limit scans the
// whole collection; a limit with Count zero returns no rows and performs
// no requests.
//
// Enough pages are fetched to cover offset+count rows, so a limit with a
// large offset still pulls the skipped pages; trimming to the requested
// window is the caller's job. The loop also stops on an empty page, on
// the upstream declaring no further pages, or on a page whose elements
// carry no cursor id.
func (d *Driver) Scan(ctx context.Context, schema *ObjectSchema, quals []Qual, columns []string, limit *Limit) ([]Row, error) {
	if len(columns) == 0 {
		columns = schema.ColumnNames()
	}
	params := PlanPushdown(quals, schema.Pushdown)

	var budget int64
	if limit != nil {
		if limit.Count == 0 {
			return nil, nil
		}
		budget = (limit.Offset+limit.Count)/d.urls.PageSize() + 1
	}

	var (
		rows   []Row
		cursor string
		pages  int64
	)
	for {
		if limit != nil && pages >= budget {
			break
		}
		url := d.urls.Build(schema, params, cursor)
		body, err := d.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, errors.Wrap(errors.Fetch, fmt.Sprintf("fetching %s", schema.Object), err)
		}
		page, err := DecodePage(body, schema, columns)
		if err != nil {
			return nil, err
		}
		pages++
		logging.Debugf("scan %s: page %d returned %d rows, more=%s", schema.Object, pages, len(page.Rows), page.Continue)

		if len(page.Rows) == 0 {
			break
		}
		rows = append(rows, page.Rows...)
		if page.Continue == ContinueNo {
			break
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	return rows, nil
}
