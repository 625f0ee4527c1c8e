package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"apttool/pkg/catalog"
	"apttool/pkg/debian"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

func init() {
	color.NoColor = true
}

func TestMarker(t *testing.T) {
	tests := []struct {
		name string
		r    *catalog.Record
		want string
	}{
		{"installed", &catalog.Record{Installed: true}, "[i]"},
		{"not installed", &catalog.Record{}, "[u]"},
		{"missing", nil, "[?]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Marker(tt.r); got != tt.want {
				t.Errorf("Marker() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPackageLine(t *testing.T) {
	r := &catalog.Record{
		Name:          "vim",
		Installed:     true,
		LatestVersion: "2:9.0",
		Description:   "Vi IMproved - enhanced vi editor\nlong text",
	}

	got := PackageLine("vim", r, LineOptions{})
	want := "[i] vim" + strings.Repeat(" ", 32) + " : Vi IMproved - enhanced vi editor"
	if got != want {
		t.Errorf("PackageLine() =\n%q\nwant\n%q", got, want)
	}

	got = PackageLine("vim", r, LineOptions{NoDesc: true, NoMarker: true})
	if got != "vim" {
		t.Errorf("PackageLine(NoDesc, NoMarker) = %q", got)
	}

	got = PackageLine("vim", r, LineOptions{NoDesc: true, ShowVersion: true, Relation: ">="})
	if !strings.HasSuffix(got, " >= 2:9.0") {
		t.Errorf("PackageLine(relation) = %q", got)
	}

	got = PackageLine("nosuch", nil, LineOptions{})
	if !strings.HasPrefix(got, "[?] nosuch") || !strings.Contains(got, "cannot be found") {
		t.Errorf("PackageLine(missing) = %q", got)
	}
}

func TestPackageLineTruncates(t *testing.T) {
	r := &catalog.Record{Name: "x", Description: strings.Repeat("a", 100)}
	got := PackageLine("x", r, LineOptions{DescWidth: 70})
	_, desc, _ := strings.Cut(got, " : ")
	if len(desc) != 70 || !strings.HasSuffix(desc, "...") {
		t.Errorf("truncated description = %q (%d)", desc, len(desc))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 70, "short"},
		{"abcdefghij", 0, "abcdefghij"},
		{"abcdefghij", 8, "abcde..."},
		{"abcdefghij", 2, "ab"},
		{"héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestSize(t *testing.T) {
	if got := Size(0); got != "unknown" {
		t.Errorf("Size(0) = %q", got)
	}
	if got := Size(7164); got != "7.0 MiB" {
		t.Errorf("Size(7164) = %q, want 7.0 MiB", got)
	}
}

func TestEncode(t *testing.T) {
	r := &catalog.Record{Name: "vim", LatestVersion: "2:9.0", HasVersions: true}

	var buf bytes.Buffer
	if err := Encode(&buf, "json", r); err != nil {
		t.Fatalf("Encode(json) error: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["name"] != "vim" {
		t.Errorf("name = %v", decoded["name"])
	}
	if _, ok := decoded["HasVersions"]; ok {
		t.Error("HasVersions should not be encoded")
	}

	buf.Reset()
	if err := Encode(&buf, "yaml", r); err != nil {
		t.Fatalf("Encode(yaml) error: %v", err)
	}
	var y map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &y); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if y["latest_version"] != "2:9.0" {
		t.Errorf("latest_version = %v", y["latest_version"])
	}

	if err := Encode(&buf, "xml", r); err == nil {
		t.Error("Encode(xml) should fail")
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, "version", "origin")
	table.AddRow("1.0", "status")
	table.AddRow("1.10", "deb.debian.org")
	if err := table.Render(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("table = %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "VERSION") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Index(lines[1], "status") != strings.Index(lines[2], "deb.debian.org") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestPrintRecord(t *testing.T) {
	r := &catalog.Record{
		Name:             "bash",
		Architecture:     "amd64",
		Installed:        true,
		InstalledVersion: "5.2-1",
		LatestVersion:    "5.2-2",
		InstalledSize:    2048,
		Depends:          debian.ParseRelations("libc6 (>= 2.36), base-files"),
		Description:      "GNU Bourne Again SHell\nBash is an sh-compatible shell.",
	}

	var buf bytes.Buffer
	PrintRecord(&buf, "bash", r)
	out := buf.String()

	for _, want := range []string{"[i] bash", "5.2-1", "Upgradable", "2.0 MiB", "libc6 (>= 2.36), base-files", "Bash is an sh-compatible shell."} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintRecord output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressText(t *testing.T) {
	tests := []struct {
		fraction float64
		want     string
	}{
		{0, "Loading (0%)"},
		{0.5, "Loading (50%)"},
		{1.25, "Loading (100%)"},
	}
	for _, tt := range tests {
		if got := ProgressText("Loading", tt.fraction); got != tt.want {
			t.Errorf("ProgressText(%v) = %q, want %q", tt.fraction, got, tt.want)
		}
	}
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		answer     string
		defaultYes bool
		want       bool
	}{
		{"", true, true},
		{"", false, false},
		{"y", false, true},
		{"YES", false, true},
		{"n", true, false},
		{"maybe", true, false},
	}
	for _, tt := range tests {
		if got := ParseYesNo(tt.answer, tt.defaultYes); got != tt.want {
			t.Errorf("ParseYesNo(%q, %v) = %v, want %v", tt.answer, tt.defaultYes, got, tt.want)
		}
	}
}
