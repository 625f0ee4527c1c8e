package cli

import (
	"fmt"

	"apttool/internal/ui"
	"apttool/pkg/catalog"
	"apttool/pkg/debian"
	"apttool/pkg/query"

	"github.com/spf13/cobra"
)

var (
	depsInstalled    bool
	depsNotInstalled bool
	depsShort        bool
)

var depsCmd = &cobra.Command{
	Use:   "deps PACKAGE...",
	Short: "List a package's dependencies",
	Long: `List the dependencies of packages with their install state.

Alternatives ("a | b") are listed one per line. A dependency the
package database doesn't know is marked [?].

Examples:
  apttool deps vim                  # All dependencies
  apttool deps -N vim               # Dependencies still to be installed`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDeps,
}

var rdepsCmd = &cobra.Command{
	Use:   "rdeps PACKAGE...",
	Short: "List packages that depend on a package",
	Long: `List the packages whose dependencies name a package.

Examples:
  apttool rdeps libssl3             # Everything that needs libssl3
  apttool rdeps -I libssl3          # Installed dependents only`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReverseDeps,
}

var suggestsCmd = &cobra.Command{
	Use:   "suggests PACKAGE...",
	Short: "List a package's suggested packages",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggests,
}

func init() {
	for _, cmd := range []*cobra.Command{depsCmd, rdepsCmd} {
		cmd.Flags().BoolVarP(&depsInstalled, "installed", "I", false, "only installed packages")
		cmd.Flags().BoolVarP(&depsNotInstalled, "not-installed", "N", false, "only packages that are not installed")
		cmd.MarkFlagsMutuallyExclusive("installed", "not-installed")
	}
	for _, cmd := range []*cobra.Command{depsCmd, rdepsCmd, suggestsCmd} {
		cmd.Flags().BoolVar(&depsShort, "short", false, "print names only")
	}
}

// relationLine is one printed entry of a relation listing.
type relationLine struct {
	Name     string          `json:"name" yaml:"name"`
	Relation string          `json:"relation,omitempty" yaml:"relation,omitempty"`
	Version  string          `json:"version,omitempty" yaml:"version,omitempty"`
	Record   *catalog.Record `json:"record,omitempty" yaml:"record,omitempty"`
}

// expandRelations flattens rels, alternatives included, and keeps the
// entries whose install state passes filter. Unknown packages only pass
// the Any filter.
func expandRelations(rels []debian.Relation, filter query.InstallFilter) []relationLine {
	var lines []relationLine
	for _, rel := range rels {
		for _, single := range append([]debian.Relation{rel}, rel.Alternatives...) {
			r := lookupRecord(single.Name)
			if filter != query.Any && (r == nil || !filter.Allows(r.Installed)) {
				continue
			}
			lines = append(lines, relationLine{
				Name:     single.Name,
				Relation: single.Op,
				Version:  single.Version,
				Record:   r,
			})
		}
	}
	return lines
}

// reverseDependencies returns the loaded records depending on name.
func reverseDependencies(name string, filter query.InstallFilter) []*catalog.Record {
	var out []*catalog.Record
	for _, r := range cat.Records() {
		if filter.Allows(r.Installed) && r.DependsOn(name) {
			out = append(out, r)
		}
	}
	return out
}

func printRelations(lines []relationLine) error {
	if structured() {
		if lines == nil {
			lines = []relationLine{}
		}
		return encode(lines)
	}
	for _, l := range lines {
		opts := lineOptions(depsShort)
		opts.Relation = l.Relation
		opts.Version = l.Version
		fmt.Println(ui.PackageLine(l.Name, l.Record, opts))
	}
	return nil
}

// eachPackage loads the catalog and runs fn for every package argument
// found. It counts what fn reports and fails when nothing was listed.
func eachPackage(cmd *cobra.Command, args []string, fn func(r *catalog.Record) (int, error)) error {
	names, err := resolvePackages(args)
	if err != nil {
		return err
	}
	if err := loadCatalog(cmd.Context()); err != nil {
		return err
	}

	total := 0
	for _, name := range names {
		r := lookupRecord(name)
		if r == nil {
			ui.ErrorMsg("Can't find a package by that name: %s", name)
			continue
		}
		n, err := fn(r)
		if err != nil {
			return err
		}
		total += n
	}
	if total == 0 {
		return ErrNoResults
	}
	return nil
}

func runDeps(cmd *cobra.Command, args []string) error {
	filter := installFilter(depsInstalled, depsNotInstalled)
	return eachPackage(cmd, args, func(r *catalog.Record) (int, error) {
		status("\n%sdependencies for %s %s:", describeFilter(filter), r.Name, r.LatestVersion)
		lines := expandRelations(r.Depends, filter)
		if err := printRelations(lines); err != nil {
			return 0, err
		}
		status("\nTotal (%s): %d", filter, len(lines))
		return len(lines), nil
	})
}

func runReverseDeps(cmd *cobra.Command, args []string) error {
	filter := installFilter(depsInstalled, depsNotInstalled)
	return eachPackage(cmd, args, func(r *catalog.Record) (int, error) {
		status("\n%spackages depending on %s:", describeFilter(filter), r.Name)
		dependents := reverseDependencies(r.Name, filter)

		lines := make([]relationLine, 0, len(dependents))
		for _, d := range dependents {
			lines = append(lines, relationLine{Name: recordName(d, false), Record: d})
		}
		if err := printRelations(lines); err != nil {
			return 0, err
		}
		status("\nTotal (%s): %d", filter, len(lines))
		return len(lines), nil
	})
}

func runSuggests(cmd *cobra.Command, args []string) error {
	return eachPackage(cmd, args, func(r *catalog.Record) (int, error) {
		lines := expandRelations(r.Suggests, query.Any)
		status("\nSuggested packages for %s (%d):", r.Name, len(lines))
		if err := printRelations(lines); err != nil {
			return 0, err
		}

		missing := 0
		for _, l := range lines {
			if l.Record == nil {
				missing++
			}
		}
		if missing > 0 {
			ui.WarningMsg("%d suggested %s for %s not in the cache.",
				missing, plural(missing, "package is", "packages are"), r.Name)
		}
		return len(lines), nil
	})
}
