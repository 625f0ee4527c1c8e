// Package query compiles search expressions into predicates over catalog
// records and applies them to a catalog's incremental stream.
package query

import (
	"github.com/dlclark/regexp2"

	"apttool/pkg/catalog"
)

// InstallFilter selects records by install state.
type InstallFilter int

const (
	// Any accepts every record.
	Any InstallFilter = iota
	// InstalledOnly accepts installed records.
	InstalledOnly
	// NotInstalledOnly accepts records that are not installed.
	NotInstalledOnly
)

// String returns "all", "installed" or "uninstalled".
func (f InstallFilter) String() string {
	switch f {
	case InstalledOnly:
		return "installed"
	case NotInstalledOnly:
		return "uninstalled"
	default:
		return "all"
	}
}

// Allows reports whether a record with the given install state passes.
func (f InstallFilter) Allows(installed bool) bool {
	switch f {
	case InstalledOnly:
		return installed
	case NotInstalledOnly:
		return !installed
	default:
		return true
	}
}

// Options controls how a pattern is applied.
type Options struct {
	// SearchDescription also matches descriptions, not only names.
	SearchDescription bool
	CaseInsensitive   bool
	// Negate reports records that do not match.
	Negate        bool
	InstallFilter InstallFilter
}

// Matcher is a compiled regular expression with search semantics: it
// matches anywhere in the input.
type Matcher struct {
	raw string
	re  *regexp2.Regexp
}

// NewMatcher compiles raw. Errors are *InvalidPatternError.
func NewMatcher(raw string, caseInsensitive bool) (*Matcher, error) {
	flags := regexp2.None
	if caseInsensitive {
		flags |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(raw, flags)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: raw, Err: err}
	}
	return &Matcher{raw: raw, re: re}, nil
}

// MatchString reports whether the pattern occurs in s.
func (m *Matcher) MatchString(s string) bool {
	ok, err := m.re.MatchString(s)
	return err == nil && ok
}

// String returns the source pattern.
func (m *Matcher) String() string {
	return m.raw
}

// Query is a compiled search request. It holds no mutable state, so one
// Query can be run against any number of passes.
type Query struct {
	matcher *Matcher
	opts    Options
}

// Compile validates raw and builds a Query. It never touches a catalog,
// so a bad pattern fails before any database work starts.
func Compile(raw string, opts Options) (*Query, error) {
	m, err := NewMatcher(raw, opts.CaseInsensitive)
	if err != nil {
		return nil, err
	}
	return &Query{matcher: m, opts: opts}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(raw string, opts Options) *Query {
	q, err := Compile(raw, opts)
	if err != nil {
		panic(err)
	}
	return q
}

// Pattern returns the source pattern.
func (q *Query) Pattern() string {
	return q.matcher.raw
}

// Options returns the options the query was compiled with.
func (q *Query) Options() Options {
	return q.opts
}

// Matches reports whether r satisfies the query.
//
// The install filter is checked first and is never negated. The name is
// searched next; a hit decides the text match without looking at the
// description. The description is searched only when SearchDescription is
// set, and an empty description never matches. Negate inverts the text
// match as a whole; the name is still tried first, so a name hit rejects
// the record without reading the description.
func (q *Query) Matches(r *catalog.Record) bool {
	if r == nil || !q.opts.InstallFilter.Allows(r.Installed) {
		return false
	}
	return q.textMatch(r) != q.opts.Negate
}

func (q *Query) textMatch(r *catalog.Record) bool {
	if q.matcher.MatchString(r.Name) {
		return true
	}
	if !q.opts.SearchDescription || r.Description == "" {
		return false
	}
	return q.matcher.MatchString(r.Description)
}
