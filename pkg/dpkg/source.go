package dpkg

import (
	"errors"
	"fmt"
	"io"
	"log"

	"apttool/pkg/catalog"
	"apttool/pkg/debian"
)

// source streams the package lists in order, then the status entries
// that no list mentioned. The first stanza for a name:arch pair wins.
type source struct {
	logger    *log.Logger
	native    string
	multiArch bool
	status    *statusDB
	lists     []string
	rough     int

	listIdx   int
	file      io.ReadCloser
	reader    *debian.Reader
	statusIdx int
	seen      map[string]bool
}

func (s *source) RoughSize() int     { return s.rough }
func (s *source) MultiArch() bool    { return s.multiArch }
func (s *source) NativeArch() string { return s.native }

func (s *source) Next() (*catalog.Record, error) {
	for s.listIdx < len(s.lists) {
		path := s.lists[s.listIdx]
		if s.reader == nil {
			f, err := debian.OpenFile(path)
			if err != nil {
				s.listIdx++
				return nil, fmt.Errorf("%w: %s: %v", catalog.ErrBadRecord, path, err)
			}
			s.file = f
			s.reader = debian.NewReader(f)
		}

		p, err := s.reader.Next()
		if errors.Is(err, io.EOF) {
			s.closeList()
			s.listIdx++
			continue
		}
		var synErr *debian.SyntaxError
		if errors.As(err, &synErr) {
			return nil, fmt.Errorf("%w: %s: %v", catalog.ErrBadRecord, path, err)
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		name := p.Get("Package")
		if name == "" {
			return nil, fmt.Errorf("%w: %s: stanza without a Package field", catalog.ErrBadRecord, path)
		}
		key := archKey(name, p.Get("Architecture"), s.native)
		if s.seen[key] {
			continue
		}
		s.seen[key] = true
		return s.fromList(key, p), nil
	}

	for s.statusIdx < len(s.status.order) {
		entry := s.status.order[s.statusIdx]
		s.statusIdx++
		if s.seen[entry.key] {
			continue
		}
		s.seen[entry.key] = true
		return entry.record(), nil
	}
	return nil, io.EOF
}

func (s *source) fromList(key string, p debian.Paragraph) *catalog.Record {
	rec := recordFrom(p)
	rec.LatestVersion = p.Get("Version")
	rec.HasVersions = rec.LatestVersion != ""

	if entry, ok := s.status.entries[key]; ok && entry.installed() {
		rec.Installed = true
		rec.InstalledVersion = entry.para.Get("Version")
	}
	return rec
}

func (s *source) closeList() {
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			s.logger.Printf("dpkg: closing list: %v", err)
		}
	}
	s.file = nil
	s.reader = nil
}

func (s *source) Close() error {
	s.closeList()
	s.listIdx = len(s.lists)
	s.statusIdx = len(s.status.order)
	return nil
}
