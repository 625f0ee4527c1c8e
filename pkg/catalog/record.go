package catalog

import (
	"strings"

	"apttool/pkg/debian"
)

// Record is one package entry. Records are immutable once a Catalog has
// yielded them.
type Record struct {
	Name             string `json:"name" yaml:"name"`
	Architecture     string `json:"architecture" yaml:"architecture"`
	Description      string `json:"description" yaml:"description"`
	Installed        bool   `json:"installed" yaml:"installed"`
	InstalledVersion string `json:"installed_version,omitempty" yaml:"installed_version,omitempty"`
	LatestVersion    string `json:"latest_version,omitempty" yaml:"latest_version,omitempty"`

	// HasVersions is false for stubs with no version history. A Catalog
	// never yields such records.
	HasVersions bool `json:"-" yaml:"-"`

	Section       string `json:"section,omitempty" yaml:"section,omitempty"`
	Priority      string `json:"priority,omitempty" yaml:"priority,omitempty"`
	Maintainer    string `json:"maintainer,omitempty" yaml:"maintainer,omitempty"`
	Homepage      string `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	InstalledSize int64  `json:"installed_size,omitempty" yaml:"installed_size,omitempty"` // KiB

	Depends    []debian.Relation `json:"depends,omitempty" yaml:"depends,omitempty"`
	Recommends []debian.Relation `json:"recommends,omitempty" yaml:"recommends,omitempty"`
	Suggests   []debian.Relation `json:"suggests,omitempty" yaml:"suggests,omitempty"`
	Provides   []debian.Relation `json:"provides,omitempty" yaml:"provides,omitempty"`
}

// Synopsis returns the first line of the description.
func (r *Record) Synopsis() string {
	synopsis, _, _ := strings.Cut(r.Description, "\n")
	return synopsis
}

// FullName returns the architecture-qualified name, e.g. "libc6:i386".
func (r *Record) FullName() string {
	if r.Architecture == "" {
		return r.Name
	}
	return r.Name + ":" + r.Architecture
}

// Upgradable reports whether the installed version differs from the
// latest known version.
func (r *Record) Upgradable() bool {
	return r.Installed && r.LatestVersion != "" && r.InstalledVersion != r.LatestVersion
}

// DependsOn reports whether any Depends entry, including alternatives,
// names pkg.
func (r *Record) DependsOn(pkg string) bool {
	for _, rel := range r.Depends {
		for _, name := range rel.Names() {
			if name == pkg {
				return true
			}
		}
	}
	return false
}
