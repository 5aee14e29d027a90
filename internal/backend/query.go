package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Query is a request builder for the relational endpoint. It covers exactly
// the surface this client uses: equality filters, an in-list filter, optional
// ordering, single-row mode, insert, filtered update, and upsert. No joins,
// no transactions.
type Query struct {
	client  *Client
	table   string
	token   string
	filters url.Values
	order   string
	single  bool
}

// From starts a query against table. token authenticates the request; pass
// the signed-in user's access token so the service's row policies apply.
func (c *Client) From(table, token string) *Query {
	return &Query{
		client:  c,
		table:   table,
		token:   token,
		filters: url.Values{},
	}
}

// Eq adds an equality filter on column.
func (q *Query) Eq(column, value string) *Query {
	q.filters.Add(column, "eq."+value)
	return q
}

// In filters column to the given set of values.
func (q *Query) In(column string, values []string) *Query {
	q.filters.Add(column, "in.("+strings.Join(values, ",")+")")
	return q
}

// Order sorts results by column, descending when desc is true.
func (q *Query) Order(column string, desc bool) *Query {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	q.order = column + "." + dir
	return q
}

// Single requests exactly one row. Get then decodes an object instead of an
// array, and a zero-row match surfaces as a not-found error.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) path() string {
	return "/rest/v1/" + q.table
}

func (q *Query) values(withSelect bool) url.Values {
	v := url.Values{}
	for k, vals := range q.filters {
		for _, val := range vals {
			v.Add(k, val)
		}
	}
	if withSelect {
		v.Set("select", "*")
	}
	if q.order != "" {
		v.Set("order", q.order)
	}
	return v
}

// Get executes the read and decodes rows into out.
func (q *Query) Get(ctx context.Context, out any) error {
	headers := map[string]string{}
	if q.single {
		headers["Accept"] = "application/vnd.pgrst.object+json"
	}
	err := q.client.do(ctx, http.MethodGet, q.path(), q.values(true), headers, q.token, nil, out)
	if err != nil {
		return fmt.Errorf("select %s: %w", q.table, err)
	}
	return nil
}

// Insert appends row to the table. When out is non-nil the inserted
// representation is decoded into it.
func (q *Query) Insert(ctx context.Context, row, out any) error {
	headers := map[string]string{}
	if out != nil {
		headers["Prefer"] = "return=representation"
		headers["Accept"] = "application/vnd.pgrst.object+json"
	}
	if err := q.client.do(ctx, http.MethodPost, q.path(), nil, headers, q.token, row, out); err != nil {
		return fmt.Errorf("insert %s: %w", q.table, err)
	}
	return nil
}

// Update patches every row matching the accumulated filters.
func (q *Query) Update(ctx context.Context, patch any) error {
	if err := q.client.do(ctx, http.MethodPatch, q.path(), q.values(false), nil, q.token, patch, nil); err != nil {
		return fmt.Errorf("update %s: %w", q.table, err)
	}
	return nil
}

// Upsert inserts row, merging into the existing row on a conflict over
// conflictCols. The resulting representation is decoded into out when
// non-nil. Two concurrent upserts for the same key converge on one row.
func (q *Query) Upsert(ctx context.Context, row any, conflictCols []string, out any) error {
	query := url.Values{"on_conflict": {strings.Join(conflictCols, ",")}}
	headers := map[string]string{
		"Prefer": "resolution=merge-duplicates,return=representation",
	}
	if out != nil {
		headers["Accept"] = "application/vnd.pgrst.object+json"
	}
	if err := q.client.do(ctx, http.MethodPost, q.path(), query, headers, q.token, row, out); err != nil {
		return fmt.Errorf("upsert %s: %w", q.table, err)
	}
	return nil
}
