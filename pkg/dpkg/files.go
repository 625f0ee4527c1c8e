package dpkg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"apttool/pkg/debian"
)

// ErrNoFileList is returned when dpkg has no file list for a package,
// which usually means it is not installed.
var ErrNoFileList = errors.New("no installed file list")

// FileOwner is an installed package together with the files of it that
// matched a search.
type FileOwner struct {
	Package string   `json:"package" yaml:"package"`
	Files   []string `json:"files" yaml:"files"`
}

// Files returns the files dpkg installed for name, sorted. The name may
// carry an architecture qualifier.
func (b *Backend) Files(name string) ([]string, error) {
	native, _ := b.architectures()

	candidates := []string{name}
	if base, arch, ok := strings.Cut(name, ":"); ok {
		if arch == native || arch == "all" || arch == "any" {
			candidates = append(candidates, base)
		}
	} else {
		candidates = append(candidates, name+":"+native)
	}

	for _, candidate := range candidates {
		files, err := readFileList(filepath.Join(b.paths.InfoDir, candidate+".list"))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
		return files, nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNoFileList)
}

// Owners scans every installed file list and returns the packages with
// files accepted by match, in package name order.
func (b *Backend) Owners(ctx context.Context, match func(path string) bool) ([]FileOwner, error) {
	lists, err := filepath.Glob(filepath.Join(b.paths.InfoDir, "*.list"))
	if err != nil {
		return nil, err
	}
	sort.Strings(lists)

	var owners []FileOwner
	for _, list := range lists {
		if err := ctx.Err(); err != nil {
			return owners, err
		}
		files, err := readFileList(list)
		if err != nil {
			b.logger.Printf("dpkg: reading %s: %v", list, err)
			continue
		}

		var matched []string
		for _, f := range files {
			if match(f) {
				matched = append(matched, f)
			}
		}
		if len(matched) > 0 {
			owners = append(owners, FileOwner{
				Package: strings.TrimSuffix(filepath.Base(list), ".list"),
				Files:   matched,
			})
		}
	}
	return owners, nil
}

func readFileList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var files []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "/." {
			continue
		}
		files = append(files, line)
	}
	return files, scanner.Err()
}

// Executables returns the paths that are regular files with an execute
// bit set. Paths that cannot be stat'ed are skipped.
func Executables(paths []string) []string {
	var execs []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0 {
			execs = append(execs, p)
		}
	}
	return execs
}

// VersionInfo is one version of a package found in the status file or a
// package list.
type VersionInfo struct {
	Version      string `json:"version" yaml:"version"`
	Architecture string `json:"architecture" yaml:"architecture"`
	Origin       string `json:"origin" yaml:"origin"`
	Installed    bool   `json:"installed" yaml:"installed"`
}

// Versions scans the status file and every package list for name. It
// reads all lists and is meant for single-package queries.
func (b *Backend) Versions(ctx context.Context, name string) ([]VersionInfo, error) {
	native, _ := b.architectures()
	status, err := loadStatus(b.paths.StatusFile, native)
	if err != nil {
		return nil, err
	}

	var versions []VersionInfo
	seen := make(map[string]bool)
	add := func(v VersionInfo) {
		key := v.Version + "\x00" + v.Architecture
		if seen[key] {
			return
		}
		seen[key] = true
		versions = append(versions, v)
	}

	for _, entry := range status.order {
		if entry.para.Get("Package") != name || !entry.installed() {
			continue
		}
		add(VersionInfo{
			Version:      entry.para.Get("Version"),
			Architecture: entry.para.Get("Architecture"),
			Origin:       "dpkg status",
			Installed:    true,
		})
	}

	lists, err := b.lists()
	if err != nil {
		b.logger.Printf("dpkg: no package lists: %v", err)
	}
	for _, path := range lists {
		if err := ctx.Err(); err != nil {
			return versions, err
		}
		if err := scanList(path, name, func(p debian.Paragraph) {
			add(VersionInfo{
				Version:      p.Get("Version"),
				Architecture: p.Get("Architecture"),
				Origin:       Origin(path),
			})
		}); err != nil {
			b.logger.Printf("dpkg: scanning %s: %v", path, err)
		}
	}
	return versions, nil
}

func scanList(path, name string, fn func(debian.Paragraph)) error {
	rc, err := debian.OpenFile(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	r := debian.NewReader(rc)
	for {
		p, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var synErr *debian.SyntaxError
		if errors.As(err, &synErr) {
			continue
		}
		if err != nil {
			return err
		}
		if p.Get("Package") == name {
			fn(p)
		}
	}
}
