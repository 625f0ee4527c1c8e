// Package dpkg reads the package database of a Debian system directly
// from the dpkg status file and the APT package lists.
package dpkg

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"apttool/pkg/catalog"
	"apttool/pkg/debian"
)

// Paths locates the dpkg and APT state on disk.
type Paths struct {
	StatusFile string
	ListsDir   string
	ArchFile   string
	InfoDir    string
	// NativeArch overrides the detected host architecture.
	NativeArch string
}

// DefaultPaths returns the standard Debian locations.
func DefaultPaths() Paths {
	return Paths{
		StatusFile: "/var/lib/dpkg/status",
		ListsDir:   "/var/lib/apt/lists",
		ArchFile:   "/var/lib/dpkg/arch",
		InfoDir:    "/var/lib/dpkg/info",
	}
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger for diagnostic output.
func WithLogger(logger *log.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Backend implements catalog.Backend over the files named by Paths.
type Backend struct {
	paths  Paths
	logger *log.Logger
}

// New creates a Backend. Empty fields of paths fall back to DefaultPaths.
func New(paths Paths, opts ...Option) *Backend {
	def := DefaultPaths()
	if paths.StatusFile == "" {
		paths.StatusFile = def.StatusFile
	}
	if paths.ListsDir == "" {
		paths.ListsDir = def.ListsDir
	}
	if paths.ArchFile == "" {
		paths.ArchFile = def.ArchFile
	}
	if paths.InfoDir == "" {
		paths.InfoDir = def.InfoDir
	}

	b := &Backend{
		paths:  paths,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Paths returns the resolved paths.
func (b *Backend) Paths() Paths {
	return b.paths
}

// Open loads the status file, finds the package lists and counts their
// entries. The lists themselves are parsed lazily by the returned source.
func (b *Backend) Open(ctx context.Context) (catalog.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	native, archs := b.architectures()

	status, err := loadStatus(b.paths.StatusFile, native)
	if err != nil {
		return nil, err
	}

	lists, err := b.lists()
	if err != nil {
		b.logger.Printf("dpkg: no package lists: %v", err)
	}

	rough := len(status.order)
	for _, path := range lists {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := debian.CountPackagesInFile(path)
		if err != nil {
			b.logger.Printf("dpkg: counting %s: %v", path, err)
		}
		rough += n
	}

	b.logger.Printf("dpkg: %d status entries, %d lists, archs %v", len(status.order), len(lists), archs)
	return &source{
		logger:    b.logger,
		native:    native,
		multiArch: len(archs) > 1,
		status:    status,
		lists:     lists,
		rough:     rough,
		seen:      make(map[string]bool),
	}, nil
}

// lists returns the readable Packages lists, sorted by name. When both a
// plain and a compressed copy exist, the plain one is used.
func (b *Backend) lists() ([]string, error) {
	entries, err := os.ReadDir(b.paths.ListsDir)
	if err != nil {
		return nil, err
	}

	byBase := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !debian.IsControlList(e.Name()) {
			continue
		}
		base := strings.TrimSuffix(strings.TrimSuffix(e.Name(), ".xz"), ".gz")
		if prev, ok := byBase[base]; ok && prev == base {
			continue
		}
		byBase[base] = e.Name()
	}

	lists := make([]string, 0, len(byBase))
	for _, name := range byBase {
		lists = append(lists, filepath.Join(b.paths.ListsDir, name))
	}
	sort.Strings(lists)
	return lists, nil
}

// Origin turns a list file path into a short repository label, e.g.
// "deb.debian.org/debian/dists/bookworm/main/binary-amd64".
func Origin(listPath string) string {
	name := filepath.Base(listPath)
	for _, suffix := range []string{".xz", ".gz", "_Packages"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return strings.ReplaceAll(name, "_", "/")
}

func archKey(name, arch, native string) string {
	if arch == "" || arch == "all" {
		arch = native
	}
	return fmt.Sprintf("%s:%s", name, arch)
}
