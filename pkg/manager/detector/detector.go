// Package detector works out whether apttool is running on a Debian
// derived system and which release.
package detector

import (
	"runtime"
)

// SystemInfo contains information about the detected system.
type SystemInfo struct {
	OS           string   `json:"os" yaml:"os"`
	Arch         string   `json:"arch" yaml:"arch"`
	Distribution string   `json:"distribution" yaml:"distribution"`
	DistroFamily []string `json:"distro_family,omitempty" yaml:"distro_family,omitempty"`
	PrettyName   string   `json:"pretty_name" yaml:"pretty_name"`
	VersionID    string   `json:"version_id,omitempty" yaml:"version_id,omitempty"`
	Codename     string   `json:"codename,omitempty" yaml:"codename,omitempty"`
}

// Detect detects the current system's OS and distribution.
func Detect() (*SystemInfo, error) {
	info := &SystemInfo{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
	if runtime.GOOS != "linux" {
		info.Distribution = "unknown"
		info.PrettyName = runtime.GOOS
		return info, nil
	}

	linuxInfo, err := DetectLinux()
	if err != nil {
		return info, err
	}
	info.Distribution = linuxInfo.ID
	info.DistroFamily = linuxInfo.IDLike
	info.PrettyName = linuxInfo.PrettyName
	info.VersionID = linuxInfo.VersionID
	info.Codename = linuxInfo.Codename
	return info, nil
}

// MatchesDistro checks the distribution ID and its ID_LIKE family against
// distros.
func (s *SystemInfo) MatchesDistro(distros ...string) bool {
	for _, d := range distros {
		if s.Distribution == d {
			return true
		}
		for _, family := range s.DistroFamily {
			if family == d {
				return true
			}
		}
	}
	return false
}

// IsDebianFamily reports whether the system is Debian or derived from it.
func (s *SystemInfo) IsDebianFamily() bool {
	if s.MatchesDistro("debian", "ubuntu") {
		return true
	}
	_, ok := debianDerivatives[s.Distribution]
	return ok
}

// derivatives that do not always list debian in ID_LIKE
var debianDerivatives = map[string]struct{}{
	"linuxmint":  {},
	"pop":        {},
	"elementary": {},
	"zorin":      {},
	"kali":       {},
	"parrot":     {},
	"mx":         {},
	"raspbian":   {},
	"devuan":     {},
	"deepin":     {},
}
