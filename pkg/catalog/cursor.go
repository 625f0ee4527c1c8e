package catalog

import (
	"context"
	"errors"
	"io"
)

// Cursor is a single-pass, pull-based enumeration of a Catalog. Each call
// to Next reads backend entries until one with versions is found.
//
//	cur, err := c.OpenIncremental(ctx, nil)
//	if err != nil {
//		return err
//	}
//	defer cur.Close()
//	for cur.Next() {
//		use(cur.Record())
//	}
//	return cur.Err()
type Cursor struct {
	catalog  *Catalog
	ctx      context.Context
	src      Source
	gen      uint64
	progress ProgressFunc
	every    int
	size     int

	pos     int
	last    int
	skipped int
	rec     *Record
	err     error
	done    bool
}

// Next advances to the next record. It returns false when the pass is
// over or failed; Err tells which.
func (cur *Cursor) Next() bool {
	if cur.done {
		return false
	}

	for {
		if err := cur.ctx.Err(); err != nil {
			return cur.finish(err)
		}
		if !cur.catalog.current(cur.gen) {
			return cur.finish(ErrStaleCursor)
		}

		rec, err := cur.src.Next()
		if errors.Is(err, io.EOF) {
			return cur.finish(nil)
		}
		if err != nil {
			if errors.Is(err, ErrBadRecord) {
				cur.pos++
				cur.skipped++
				cur.catalog.logger.Printf("catalog: skipping record: %v", err)
				cur.report()
				continue
			}
			return cur.finish(err)
		}

		cur.pos++
		cur.report()

		// drop stubs with no versions
		if rec == nil || !rec.HasVersions {
			continue
		}
		added, err := cur.catalog.add(cur.gen, rec)
		if err != nil {
			return cur.finish(err)
		}
		if !added {
			continue
		}
		cur.rec = rec
		return true
	}
}

// Record returns the record produced by the last successful Next.
func (cur *Cursor) Record() *Record {
	return cur.rec
}

// Err returns the error that ended the pass, or nil at a clean end.
func (cur *Cursor) Err() error {
	return cur.err
}

// Position returns how many backend entries were read, including
// skipped ones.
func (cur *Cursor) Position() int {
	return cur.pos
}

// Skipped returns how many entries were dropped as bad records.
func (cur *Cursor) Skipped() int {
	return cur.skipped
}

// Close stops the pass. Records already produced stay in the catalog.
func (cur *Cursor) Close() error {
	cur.done = true
	cur.rec = nil
	return nil
}

func (cur *Cursor) report() {
	if cur.progress == nil || cur.pos-cur.last < cur.every {
		return
	}
	cur.last = cur.pos
	cur.progress(cur.fraction())
}

func (cur *Cursor) fraction() float64 {
	if cur.size <= 0 {
		return 1
	}
	return float64(cur.pos) / float64(cur.size)
}

func (cur *Cursor) finish(err error) bool {
	cur.done = true
	cur.rec = nil
	cur.err = err
	if err == nil {
		cur.catalog.finishPass(cur.gen)
		if cur.progress != nil {
			cur.progress(cur.fraction())
		}
	}
	return false
}
