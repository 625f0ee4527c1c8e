package dpkg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"apttool/pkg/catalog"
	"apttool/pkg/debian"
)

// Package states from the third word of the Status field.
const (
	StateNotInstalled = "not-installed"
	StateConfigFiles  = "config-files"
	StateInstalled    = "installed"
)

type statusEntry struct {
	key   string
	para  debian.Paragraph
	state string
}

func (e *statusEntry) installed() bool {
	return e.state != "" && e.state != StateNotInstalled && e.state != StateConfigFiles
}

type statusDB struct {
	entries map[string]*statusEntry
	order   []*statusEntry
}

func loadStatus(path, native string) (*statusDB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening status file: %w", err)
	}
	defer f.Close()

	db := &statusDB{entries: make(map[string]*statusEntry)}
	r := debian.NewReader(f)
	for {
		p, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var synErr *debian.SyntaxError
		if errors.As(err, &synErr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading status file: %w", err)
		}

		name := p.Get("Package")
		if name == "" {
			continue
		}
		entry := &statusEntry{
			key:   archKey(name, p.Get("Architecture"), native),
			para:  p,
			state: parseState(p.Get("Status")),
		}
		if _, dup := db.entries[entry.key]; dup {
			continue
		}
		db.entries[entry.key] = entry
		db.order = append(db.order, entry)
	}
	return db, nil
}

// parseState returns the state word of a "want flag state" Status value.
func parseState(status string) string {
	fields := strings.Fields(status)
	if len(fields) != 3 {
		return ""
	}
	return fields[2]
}

// recordFrom fills the descriptive fields shared by list and status
// stanzas. Version fields are left to the caller.
func recordFrom(p debian.Paragraph) *catalog.Record {
	size, _ := strconv.ParseInt(p.Get("Installed-Size"), 10, 64)

	depends := debian.ParseRelations(p.Get("Pre-Depends"))
	depends = append(depends, debian.ParseRelations(p.Get("Depends"))...)

	return &catalog.Record{
		Name:          p.Get("Package"),
		Architecture:  p.Get("Architecture"),
		Description:   p.Get("Description"),
		Section:       p.Get("Section"),
		Priority:      p.Get("Priority"),
		Maintainer:    p.Get("Maintainer"),
		Homepage:      p.Get("Homepage"),
		InstalledSize: size,
		Depends:       depends,
		Recommends:    debian.ParseRelations(p.Get("Recommends")),
		Suggests:      debian.ParseRelations(p.Get("Suggests")),
		Provides:      debian.ParseRelations(p.Get("Provides")),
	}
}

func (e *statusEntry) record() *catalog.Record {
	rec := recordFrom(e.para)
	version := e.para.Get("Version")
	rec.LatestVersion = version
	rec.HasVersions = version != "" && e.state != StateNotInstalled
	rec.Installed = e.installed()
	if rec.Installed {
		rec.InstalledVersion = version
	}
	return rec
}
