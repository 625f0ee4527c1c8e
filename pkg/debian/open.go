package debian

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// OpenFile opens a control file, decompressing .xz and .gz files on the
// fly. The caller must close the returned reader.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".xz"):
		xzReader, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating xz reader for %s: %w", path, err)
		}
		return &decompressed{Reader: xzReader, file: f}, nil
	case strings.HasSuffix(path, ".gz"):
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating gzip reader for %s: %w", path, err)
		}
		return &decompressed{Reader: gzReader, file: f, closer: gzReader}, nil
	default:
		return f, nil
	}
}

// IsControlList reports whether a file name looks like an APT Packages
// list that OpenFile can read.
func IsControlList(name string) bool {
	for _, suffix := range []string{"_Packages", "_Packages.xz", "_Packages.gz"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

type decompressed struct {
	io.Reader
	file   *os.File
	closer io.Closer
}

func (d *decompressed) Close() error {
	if d.closer != nil {
		if err := d.closer.Close(); err != nil {
			d.file.Close()
			return err
		}
	}
	return d.file.Close()
}

// CountPackagesInFile opens path with OpenFile and counts its packages.
func CountPackagesInFile(path string) (int, error) {
	rc, err := OpenFile(path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	return CountPackages(rc)
}
