package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
)

type fakeEntry struct {
	rec *Record
	err error
}

type fakeBackend struct {
	entries   []fakeEntry
	rough     int
	multiArch bool
	native    string
	openErr   error
	opens     int
	closes    int
}

func (b *fakeBackend) Open(ctx context.Context) (Source, error) {
	b.opens++
	if b.openErr != nil {
		return nil, b.openErr
	}
	return &fakeSource{b: b}, nil
}

type fakeSource struct {
	b   *fakeBackend
	pos int
}

func (s *fakeSource) RoughSize() int     { return s.b.rough }
func (s *fakeSource) MultiArch() bool    { return s.b.multiArch }
func (s *fakeSource) NativeArch() string { return s.b.native }

func (s *fakeSource) Next() (*Record, error) {
	if s.pos >= len(s.b.entries) {
		return nil, io.EOF
	}
	e := s.b.entries[s.pos]
	s.pos++
	return e.rec, e.err
}

func (s *fakeSource) Close() error {
	s.b.closes++
	return nil
}

func rec(name string, installed bool) fakeEntry {
	return fakeEntry{rec: &Record{Name: name, Architecture: "amd64", Installed: installed, HasVersions: true, LatestVersion: "1.0"}}
}

func stub(name string) fakeEntry {
	return fakeEntry{rec: &Record{Name: name, Architecture: "amd64"}}
}

func drain(t *testing.T, cur *Cursor) []string {
	t.Helper()
	var names []string
	for cur.Next() {
		names = append(names, cur.Record().Name)
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("cursor error: %v", err)
	}
	return names
}

func TestPreOpenRoughSize(t *testing.T) {
	b := &fakeBackend{entries: []fakeEntry{rec("a", true), stub("b")}, rough: 2, native: "amd64"}
	c := New(b)

	size, err := c.PreOpen(context.Background())
	if err != nil {
		t.Fatalf("PreOpen() error: %v", err)
	}
	if size != 2 {
		t.Errorf("PreOpen() = %d, want 2", size)
	}
	if c.Len() != 0 {
		t.Errorf("PreOpen() should not enumerate, Len() = %d", c.Len())
	}
	if c.RoughSize() != 2 {
		t.Errorf("RoughSize() = %d, want 2", c.RoughSize())
	}
}

func TestPreOpenNegativeRoughSize(t *testing.T) {
	c := New(&fakeBackend{rough: -5})
	size, err := c.PreOpen(context.Background())
	if err != nil {
		t.Fatalf("PreOpen() error: %v", err)
	}
	if size != 0 {
		t.Errorf("PreOpen() = %d, want 0", size)
	}
}

func TestPreOpenUnavailable(t *testing.T) {
	c := New(&fakeBackend{openErr: fmt.Errorf("open status: %w", os.ErrPermission)})

	_, err := c.PreOpen(context.Background())
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("expected the cause to be preserved, got %v", err)
	}

	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("expected *UnavailableError, got %T", err)
	}

	if _, err := c.OpenIncremental(context.Background(), nil); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("OpenIncremental() expected ErrBackendUnavailable, got %v", err)
	}
}

func TestOpenIncrementalSkipsRecordsWithoutVersions(t *testing.T) {
	b := &fakeBackend{
		entries: []fakeEntry{rec("a", true), stub("cruft"), rec("b", false), stub("cruft2")},
		rough:   4,
		native:  "amd64",
	}
	c := New(b)

	cur, err := c.OpenIncremental(context.Background(), nil)
	if err != nil {
		t.Fatalf("OpenIncremental() error: %v", err)
	}
	if b.opens != 1 {
		t.Errorf("OpenIncremental() should pre-open implicitly, opens = %d", b.opens)
	}

	names := drain(t, cur)
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("yielded %v, want [a b]", names)
	}
	for _, r := range c.Records() {
		if !r.HasVersions {
			t.Errorf("record %s yielded without versions", r.Name)
		}
	}
	if _, ok := c.Lookup("cruft"); ok {
		t.Error("stub record should not be indexed")
	}
	if cur.Position() != 4 {
		t.Errorf("Position() = %d, want 4", cur.Position())
	}
}

func TestLookupSeesOnlyProducedRecords(t *testing.T) {
	b := &fakeBackend{entries: []fakeEntry{rec("a", true), rec("b", false)}, rough: 2, native: "amd64"}
	c := New(b)

	cur, err := c.OpenIncremental(context.Background(), nil)
	if err != nil {
		t.Fatalf("OpenIncremental() error: %v", err)
	}
	if !cur.Next() {
		t.Fatalf("expected a first record, err = %v", cur.Err())
	}

	if _, ok := c.Lookup("a"); !ok {
		t.Error("Lookup(a) should find the produced record")
	}
	if _, ok := c.Lookup("b"); ok {
		t.Error("Lookup(b) should not trigger enumeration")
	}

	def := &Record{Name: "default"}
	if got := c.Get("b", def); got != def {
		t.Errorf("Get(b) = %v, want default", got)
	}
	if got := c.Get("a", def); got.Name != "a" {
		t.Errorf("Get(a) = %v, want a", got)
	}
}

func TestMultiArchIndex(t *testing.T) {
	b := &fakeBackend{
		entries: []fakeEntry{
			{rec: &Record{Name: "libc6", Architecture: "amd64", HasVersions: true}},
			{rec: &Record{Name: "libc6", Architecture: "i386", HasVersions: true}},
			{rec: &Record{Name: "tzdata", Architecture: "all", HasVersions: true}},
		},
		rough:     3,
		multiArch: true,
		native:    "amd64",
	}
	c := New(b)
	if err := c.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name   string
		lookup func(string) (*Record, bool)
		key    string
		arch   string
	}{
		{"native by name", c.Lookup, "libc6", "amd64"},
		{"foreign by qualified name", c.Lookup, "libc6:i386", "i386"},
		{"native in arch index", c.LookupArch, "libc6:amd64", "amd64"},
		{"foreign in arch index", c.LookupArch, "libc6:i386", "i386"},
		{"arch all in arch index", c.LookupArch, "tzdata:amd64", "all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := tt.lookup(tt.key)
			if !ok {
				t.Fatalf("%s not found", tt.key)
			}
			if r.Architecture != tt.arch {
				t.Errorf("architecture = %s, want %s", r.Architecture, tt.arch)
			}
		})
	}
	if !c.MultiArch() {
		t.Error("MultiArch() should be true")
	}
}

func TestSingleArchLeavesArchIndexEmpty(t *testing.T) {
	c := New(&fakeBackend{entries: []fakeEntry{rec("a", false)}, rough: 1, native: "amd64"})
	if err := c.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, ok := c.LookupArch("a:amd64"); ok {
		t.Error("arch index should only be filled on multi-arch systems")
	}
}

func TestDuplicateNamesFirstWins(t *testing.T) {
	first := rec("a", true)
	second := rec("a", false)
	c := New(&fakeBackend{entries: []fakeEntry{first, second}, rough: 2, native: "amd64"})

	cur, err := c.OpenIncremental(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	names := drain(t, cur)
	if len(names) != 1 {
		t.Fatalf("yielded %v, want one record", names)
	}
	if r, _ := c.Lookup("a"); !r.Installed {
		t.Error("first record for a name should win")
	}
}

func TestBadRecordSkipped(t *testing.T) {
	b := &fakeBackend{
		entries: []fakeEntry{
			rec("a", false),
			{err: fmt.Errorf("%w: line 12: malformed", ErrBadRecord)},
			rec("b", false),
		},
		rough:  3,
		native: "amd64",
	}
	c := New(b)
	cur, err := c.OpenIncremental(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	names := drain(t, cur)
	if len(names) != 2 {
		t.Errorf("yielded %v, want [a b]", names)
	}
	if cur.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", cur.Skipped())
	}
}

func TestSystemicErrorEndsPass(t *testing.T) {
	boom := errors.New("disk read failed")
	c := New(&fakeBackend{
		entries: []fakeEntry{rec("a", false), {err: boom}, rec("b", false)},
		rough:   3,
		native:  "amd64",
	})
	cur, err := c.OpenIncremental(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for cur.Next() {
		names = append(names, cur.Record().Name)
	}
	if !errors.Is(cur.Err(), boom) {
		t.Errorf("Err() = %v, want %v", cur.Err(), boom)
	}
	if len(names) != 1 {
		t.Errorf("yielded %v before the failure, want [a]", names)
	}
	if cur.Next() {
		t.Error("Next() after failure should return false")
	}
	if _, ok := c.Lookup("a"); !ok {
		t.Error("records produced before the failure should stay indexed")
	}
}

func TestProgressIsBatched(t *testing.T) {
	var entries []fakeEntry
	for i := 0; i < 250; i++ {
		entries = append(entries, rec(fmt.Sprintf("pkg%03d", i), false))
	}
	c := New(&fakeBackend{entries: entries, rough: 200, native: "amd64"}, WithProgressEvery(100))

	var reports []float64
	if err := c.Load(context.Background(), func(f float64) { reports = append(reports, f) }); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// 100, 200 and the final report at 250.
	if len(reports) != 3 {
		t.Fatalf("got %d progress reports, want 3: %v", len(reports), reports)
	}
	if reports[0] != 0.5 || reports[1] != 1.0 {
		t.Errorf("reports = %v", reports)
	}
	if reports[2] <= 1.0 {
		t.Errorf("final fraction should exceed 1 when rough size is low, got %v", reports[2])
	}
}

func TestReopenResetsState(t *testing.T) {
	b := &fakeBackend{entries: []fakeEntry{rec("a", false), rec("b", false)}, rough: 2, native: "amd64"}
	c := New(b)

	cur, err := c.OpenIncremental(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cur.Next() {
		t.Fatal("expected a record")
	}

	if _, err := c.PreOpen(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("PreOpen() should clear the index, Len() = %d", c.Len())
	}
	if cur.Next() {
		t.Error("old cursor should stop after a reset")
	}
	if !errors.Is(cur.Err(), ErrStaleCursor) {
		t.Errorf("old cursor Err() = %v, want ErrStaleCursor", cur.Err())
	}
	if b.closes != 1 {
		t.Errorf("previous source should be closed, closes = %d", b.closes)
	}
}

func TestSecondPassStartsFromBeginning(t *testing.T) {
	b := &fakeBackend{entries: []fakeEntry{rec("a", false), rec("b", false)}, rough: 2, native: "amd64"}
	c := New(b)

	for pass := 1; pass <= 2; pass++ {
		cur, err := c.OpenIncremental(context.Background(), nil)
		if err != nil {
			t.Fatal(err)
		}
		names := drain(t, cur)
		if len(names) != 2 {
			t.Errorf("pass %d yielded %v", pass, names)
		}
	}
	if b.opens != 2 {
		t.Errorf("each pass should reopen the backend, opens = %d", b.opens)
	}
}

func TestPreOpenThenOpenIncrementalReusesConnection(t *testing.T) {
	b := &fakeBackend{entries: []fakeEntry{rec("a", false)}, rough: 1, native: "amd64"}
	c := New(b)
	if _, err := c.PreOpen(context.Background()); err != nil {
		t.Fatal(err)
	}
	cur, err := c.OpenIncremental(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	drain(t, cur)
	if b.opens != 1 {
		t.Errorf("opens = %d, want 1", b.opens)
	}
}

func TestCancelLeavesIndexUsable(t *testing.T) {
	c := New(&fakeBackend{entries: []fakeEntry{rec("a", false), rec("b", false), rec("c", false)}, rough: 3, native: "amd64"})

	ctx, cancel := context.WithCancel(context.Background())
	cur, err := c.OpenIncremental(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cur.Next() {
		t.Fatal("expected a record")
	}
	cancel()

	if cur.Next() {
		t.Error("Next() after cancel should return false")
	}
	if !errors.Is(cur.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", cur.Err())
	}
	if _, ok := c.Lookup("a"); !ok {
		t.Error("records produced before cancel should stay indexed")
	}

	// A new pass starts over.
	cur, err = c.OpenIncremental(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if names := drain(t, cur); len(names) != 3 {
		t.Errorf("new pass yielded %v", names)
	}
}

func TestPreOpenHook(t *testing.T) {
	calls := 0
	c := New(&fakeBackend{rough: 0}, WithPreOpenHook(func() { calls++ }))

	if _, err := c.OpenIncremental(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("hook calls = %d, want 1", calls)
	}
}
