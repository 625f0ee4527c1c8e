package query

import (
	"context"
	"errors"

	"apttool/pkg/catalog"
)

// ErrNotCompiled is returned by Run for a nil query.
var ErrNotCompiled = errors.New("query is not compiled")

// Results is the lazy, single-pass sequence of records matching a query,
// in the order the catalog produced them.
type Results struct {
	query   *Query
	cursor  *catalog.Cursor
	rec     *catalog.Record
	matched int
}

// Run starts a new catalog pass and filters it through q.
func Run(ctx context.Context, q *Query, c *catalog.Catalog, progress catalog.ProgressFunc) (*Results, error) {
	if q == nil {
		return nil, ErrNotCompiled
	}
	cur, err := c.OpenIncremental(ctx, progress)
	if err != nil {
		return nil, err
	}
	return &Results{query: q, cursor: cur}, nil
}

// Next advances to the next match.
func (r *Results) Next() bool {
	for r.cursor.Next() {
		rec := r.cursor.Record()
		if r.query.Matches(rec) {
			r.rec = rec
			r.matched++
			return true
		}
	}
	r.rec = nil
	return false
}

// Record returns the current match.
func (r *Results) Record() *catalog.Record {
	return r.rec
}

// Err returns the error that ended the underlying pass, if any.
func (r *Results) Err() error {
	return r.cursor.Err()
}

// Matched returns how many matches were produced so far.
func (r *Results) Matched() int {
	return r.matched
}

// Scanned returns how many backend entries the pass has read.
func (r *Results) Scanned() int {
	return r.cursor.Position()
}

// Skipped returns how many unreadable backend entries the pass passed
// over.
func (r *Results) Skipped() int {
	return r.cursor.Skipped()
}

// Close stops the pass.
func (r *Results) Close() error {
	r.rec = nil
	return r.cursor.Close()
}

// Collect drains r into a slice.
func Collect(r *Results) ([]*catalog.Record, error) {
	defer r.Close()
	var out []*catalog.Record
	for r.Next() {
		out = append(out, r.Record())
	}
	return out, r.Err()
}
