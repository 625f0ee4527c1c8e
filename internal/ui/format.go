package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"apttool/internal/config"
	"apttool/pkg/catalog"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

const (
	nameWidth   = 35
	separator   = " : "
	missingDesc = "This package cannot be found in the cache."
)

// LineOptions controls PackageLine.
type LineOptions struct {
	// DescWidth truncates the synopsis. Zero disables truncation.
	DescWidth int

	NoMarker bool
	NoDesc   bool

	// ShowVersion appends the latest version, or Relation and Version
	// when they are set.
	ShowVersion bool
	Relation    string
	Version     string
}

// Marker returns the install-state marker for r: [i], [u], or [?] for a
// package the catalog does not know.
func Marker(r *catalog.Record) string {
	switch {
	case r == nil:
		return Unknown.Sprint("[?]")
	case r.Installed:
		return Installed.Sprint("[i]")
	default:
		return NotInstalled.Sprint("[u]")
	}
}

// PackageLine formats one listing line: marker, padded name, synopsis.
// A nil record renders as missing.
func PackageLine(name string, r *catalog.Record, opts LineOptions) string {
	var sb strings.Builder
	if !opts.NoMarker {
		sb.WriteString(Marker(r))
		sb.WriteByte(' ')
	}

	padded := fmt.Sprintf("%-*s", nameWidth, name)
	if r == nil {
		sb.WriteString(PackageMissing.Sprint(padded))
	} else {
		sb.WriteString(PackageName.Sprint(padded))
	}

	if opts.NoDesc {
		if opts.ShowVersion {
			sb.WriteByte(' ')
			sb.WriteString(versionText(r, opts))
		}
		return strings.TrimRight(sb.String(), " ")
	}

	desc := missingDesc
	if r != nil {
		desc = r.Synopsis()
	}
	if desc == "" && !opts.ShowVersion {
		return strings.TrimRight(sb.String(), " ")
	}
	sb.WriteString(separator)
	sb.WriteString(Truncate(desc, opts.DescWidth))
	if opts.ShowVersion {
		sb.WriteByte(' ')
		sb.WriteString(versionText(r, opts))
	}
	return sb.String()
}

func versionText(r *catalog.Record, opts LineOptions) string {
	if r == nil {
		return PackageMissing.Sprint("(missing)")
	}
	version := opts.Version
	if version == "" {
		version = r.LatestVersion
	}
	if opts.Relation != "" {
		return Relation.Sprint(opts.Relation) + " " + PackageVersion.Sprint(version)
	}
	return PackageVersion.Sprint(version)
}

// Truncate shortens s to width runes, ending in "...". A width of zero or
// less leaves s alone.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return strings.TrimRight(string(runes[:width-3]), " ") + "..."
}

// Size renders an Installed-Size value, which dpkg records in KiB.
func Size(kib int64) string {
	if kib <= 0 {
		return "unknown"
	}
	return humanize.IBytes(uint64(kib) * 1024)
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// Table wraps tabwriter for aligned columns.
type Table struct {
	writer *tabwriter.Writer
}

// NewTable creates a table on w and writes the bold header row.
func NewTable(w io.Writer, header ...string) *Table {
	t := &Table{writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	if len(header) > 0 {
		row := make([]string, len(header))
		for i, h := range header {
			row[i] = Bold(strings.ToUpper(h))
		}
		t.AddRow(row...)
	}
	return t
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	fmt.Fprintln(t.writer, strings.Join(cells, "\t"))
}

// Render flushes the table.
func (t *Table) Render() error {
	return t.writer.Flush()
}

// PrintRecord writes the detail view used by show.
func PrintRecord(w io.Writer, name string, r *catalog.Record) {
	fmt.Fprintf(w, "%s %s\n", Marker(r), PackageName.Sprint(name))
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %s %s\n", Cyan(fmt.Sprintf("%-16s", label+":")), value)
		}
	}

	field("Architecture", r.Architecture)
	if r.Installed {
		field("Installed", r.InstalledVersion)
	}
	field("Latest", r.LatestVersion)
	if r.Upgradable() {
		field("Upgradable", Success.Sprint("yes"))
	}
	field("Section", r.Section)
	field("Priority", r.Priority)
	field("Maintainer", r.Maintainer)
	field("Homepage", r.Homepage)
	if r.InstalledSize > 0 {
		field("Installed-Size", Size(r.InstalledSize))
	}
	field("Depends", joinRelations(r.Depends))
	field("Recommends", joinRelations(r.Recommends))
	field("Suggests", joinRelations(r.Suggests))
	field("Provides", joinRelations(r.Provides))

	synopsis := r.Synopsis()
	field("Description", synopsis)
	if rest := strings.TrimPrefix(r.Description, synopsis); strings.TrimSpace(rest) != "" {
		for _, line := range strings.Split(strings.TrimPrefix(rest, "\n"), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}

func joinRelations[T fmt.Stringer](rels []T) string {
	parts := make([]string, len(rels))
	for i, rel := range rels {
		parts[i] = rel.String()
	}
	return strings.Join(parts, ", ")
}
