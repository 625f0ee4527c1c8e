package detector

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// LinuxInfo contains information parsed from /etc/os-release.
type LinuxInfo struct {
	ID         string
	IDLike     []string
	VersionID  string
	Codename   string
	PrettyName string
	Name       string
}

var (
	osReleasePaths    = []string{"/etc/os-release", "/usr/lib/os-release"}
	debianVersionPath = "/etc/debian_version"
)

// DetectLinux reads os-release, falling back to /etc/debian_version.
func DetectLinux() (*LinuxInfo, error) {
	for _, path := range osReleasePaths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		info, err := ParseOSRelease(f)
		f.Close()
		if err == nil && info.ID != "" {
			return info, nil
		}
	}

	if data, err := os.ReadFile(debianVersionPath); err == nil {
		version := strings.TrimSpace(string(data))
		return &LinuxInfo{
			ID:         "debian",
			VersionID:  version,
			Name:       "Debian GNU/Linux",
			PrettyName: "Debian GNU/Linux " + version,
		}, nil
	}

	return &LinuxInfo{ID: "unknown", PrettyName: "Unknown Linux"}, nil
}

// ParseOSRelease parses os-release(5) KEY=value lines.
func ParseOSRelease(r io.Reader) (*LinuxInfo, error) {
	info := &LinuxInfo{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		switch strings.TrimSpace(key) {
		case "ID":
			info.ID = value
		case "ID_LIKE":
			info.IDLike = strings.Fields(value)
		case "VERSION_ID":
			info.VersionID = value
		case "VERSION_CODENAME":
			info.Codename = value
		case "PRETTY_NAME":
			info.PrettyName = value
		case "NAME":
			info.Name = value
		}
	}
	if info.PrettyName == "" {
		info.PrettyName = info.Name
	}
	return info, scanner.Err()
}
