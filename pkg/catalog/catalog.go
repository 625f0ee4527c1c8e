// Package catalog exposes a package database as a lazily enumerated
// sequence of records, so callers can filter and print while the backend
// is still being read.
//
// A Catalog is opened in two phases. PreOpen connects the backend and
// returns a rough record count. OpenIncremental then returns a Cursor that
// produces one record per pull. Every record produced is kept in a
// name index for later Lookup calls.
package catalog

import (
	"context"
	"io"
	"log"
	"sync"
)

// DefaultProgressEvery is how many backend entries pass between progress
// reports.
const DefaultProgressEvery = 100

// Backend is a package database the catalog can read.
type Backend interface {
	// Open connects to the database and prepares a fresh enumeration.
	Open(ctx context.Context) (Source, error)
}

// Source is one enumeration pass over a backend.
type Source interface {
	// RoughSize is an upper-bound estimate of the number of entries.
	RoughSize() int
	// MultiArch reports whether more than one architecture is configured.
	MultiArch() bool
	// NativeArch is the dpkg architecture of the host, e.g. "amd64".
	NativeArch() string
	// Next returns the next entry, io.EOF at the end, or an error
	// wrapping ErrBadRecord for an entry that should be skipped.
	Next() (*Record, error)
	Close() error
}

// ProgressFunc receives the position of an enumeration divided by the
// rough size. The value is an estimate and may exceed 1.
type ProgressFunc func(fraction float64)

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger for diagnostic output.
func WithLogger(logger *log.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProgressEvery sets how many entries pass between progress reports.
func WithProgressEvery(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.progressEvery = n
		}
	}
}

// WithPreOpenHook registers fn to run at the start of every PreOpen.
func WithPreOpenHook(fn func()) Option {
	return func(c *Catalog) {
		c.preOpenHook = fn
	}
}

// Catalog is an incrementally opened view over a Backend. A Catalog must
// not be enumerated by two cursors at once; Lookup is safe to call from
// other goroutines.
type Catalog struct {
	backend       Backend
	logger        *log.Logger
	progressEvery int
	preOpenHook   func()

	mu         sync.RWMutex
	src        Source
	opened     bool
	started    bool
	generation uint64
	roughSize  int
	multiArch  bool
	nativeArch string
	index      map[string]*Record
	archIndex  map[string]*Record
	order      []*Record
}

// New creates a Catalog over backend. Nothing is opened until PreOpen or
// OpenIncremental is called.
func New(backend Backend, opts ...Option) *Catalog {
	c := &Catalog{
		backend:       backend,
		logger:        log.New(io.Discard, "", 0),
		progressEvery: DefaultProgressEvery,
		index:         make(map[string]*Record),
		archIndex:     make(map[string]*Record),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PreOpen resets all state, connects the backend and returns the rough
// record count. Any cursor from an earlier pass becomes stale.
func (c *Catalog) PreOpen(ctx context.Context) (int, error) {
	if c.preOpenHook != nil {
		c.preOpenHook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()

	src, err := c.backend.Open(ctx)
	if err != nil {
		return 0, &UnavailableError{Err: err}
	}

	c.src = src
	c.opened = true
	c.roughSize = max(src.RoughSize(), 0)
	c.multiArch = src.MultiArch()
	c.nativeArch = src.NativeArch()

	c.logger.Printf("catalog: opened backend, rough size %d, native arch %q, multi-arch %v",
		c.roughSize, c.nativeArch, c.multiArch)
	return c.roughSize, nil
}

// OpenIncremental starts an enumeration pass and returns its cursor. It
// calls PreOpen first if the catalog is not open, or if an earlier pass
// already started.
func (c *Catalog) OpenIncremental(ctx context.Context, progress ProgressFunc) (*Cursor, error) {
	c.mu.RLock()
	needOpen := !c.opened || c.started
	c.mu.RUnlock()

	if needOpen {
		if _, err := c.PreOpen(ctx); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = true
	return &Cursor{
		catalog:  c,
		ctx:      ctx,
		src:      c.src,
		gen:      c.generation,
		progress: progress,
		every:    c.progressEvery,
		size:     c.roughSize,
	}, nil
}

// Load runs a full enumeration pass so that every record is available to
// Lookup.
func (c *Catalog) Load(ctx context.Context, progress ProgressFunc) error {
	cur, err := c.OpenIncremental(ctx, progress)
	if err != nil {
		return err
	}
	defer cur.Close()

	for cur.Next() {
	}
	return cur.Err()
}

// Lookup returns a record produced by an earlier enumeration. It never
// reads the backend.
func (c *Catalog) Lookup(name string) (*Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.index[name]
	return r, ok
}

// LookupArch looks a record up by its architecture-qualified name. The
// index behind it is only filled on multi-arch systems.
func (c *Catalog) LookupArch(fullName string) (*Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.archIndex[fullName]
	return r, ok
}

// Get returns the record for name, or def when it has not been produced.
func (c *Catalog) Get(name string, def *Record) *Record {
	if r, ok := c.Lookup(name); ok {
		return r
	}
	return def
}

// Records returns the produced records in arrival order.
func (c *Catalog) Records() []*Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Record, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of records produced so far.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index)
}

// RoughSize returns the estimate from the last PreOpen.
func (c *Catalog) RoughSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roughSize
}

// MultiArch reports whether the backend has more than one architecture.
func (c *Catalog) MultiArch() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.multiArch
}

// NativeArch returns the host architecture reported by the backend.
func (c *Catalog) NativeArch() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nativeArch
}

// Close releases the backend source. Records already produced stay
// available to Lookup.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opened = false
	return c.closeSourceLocked()
}

func (c *Catalog) resetLocked() {
	if err := c.closeSourceLocked(); err != nil {
		c.logger.Printf("catalog: closing previous source: %v", err)
	}
	c.generation++
	c.opened = false
	c.started = false
	c.roughSize = 0
	c.multiArch = false
	c.nativeArch = ""
	clear(c.index)
	clear(c.archIndex)
	c.order = nil
}

func (c *Catalog) closeSourceLocked() error {
	if c.src == nil {
		return nil
	}
	err := c.src.Close()
	c.src = nil
	return err
}

// keyFor returns the primary index key: the plain name for native and
// architecture-independent packages, name:arch for foreign ones.
func (c *Catalog) keyFor(r *Record) string {
	if !c.multiArch || r.Architecture == "" || r.Architecture == "all" || r.Architecture == c.nativeArch {
		return r.Name
	}
	return r.FullName()
}

// archKeyFor returns the secondary index key, always name:arch.
// Architecture-independent packages are filed under the native arch.
func (c *Catalog) archKeyFor(r *Record) string {
	arch := r.Architecture
	if arch == "" || arch == "all" {
		arch = c.nativeArch
	}
	return r.Name + ":" + arch
}

// add indexes r unless the pass generation changed or the key is taken.
func (c *Catalog) add(gen uint64, r *Record) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return false, ErrStaleCursor
	}
	key := c.keyFor(r)
	if _, dup := c.index[key]; dup {
		return false, nil
	}
	c.index[key] = r
	if c.multiArch {
		c.archIndex[c.archKeyFor(r)] = r
	}
	c.order = append(c.order, r)
	return true, nil
}

func (c *Catalog) finishPass(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	if err := c.closeSourceLocked(); err != nil {
		c.logger.Printf("catalog: closing source: %v", err)
	}
	c.logger.Printf("catalog: enumeration finished, %d records", len(c.index))
}

func (c *Catalog) current(gen uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return gen == c.generation
}
