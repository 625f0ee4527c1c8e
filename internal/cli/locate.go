package cli

import (
	"fmt"
	"strings"

	"apttool/internal/ui"
	"apttool/pkg/catalog"

	"github.com/spf13/cobra"
)

var (
	locateExisting bool
	locateShort    bool
)

var locateCmd = &cobra.Command{
	Use:   "locate PACKAGE...",
	Short: "Check whether packages exist",
	Long: `Print one status line per package name: [i] installed,
[u] not installed, [?] not in the package database.

Names can be read from files or from stdin with "-".

Examples:
  apttool locate vim emacs          # Check two names
  apttool locate -e - < names.txt   # Only the names that exist`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().BoolVarP(&locateExisting, "existing", "e", false, "only show packages that exist")
	locateCmd.Flags().BoolVar(&locateShort, "short", false, "print names only")
}

// located is the structured form of one locate result.
type located struct {
	Name   string          `json:"name" yaml:"name"`
	Found  bool            `json:"found" yaml:"found"`
	Record *catalog.Record `json:"record,omitempty" yaml:"record,omitempty"`
}

func runLocate(cmd *cobra.Command, args []string) error {
	names, err := resolvePackages(args)
	if err != nil {
		return err
	}
	if err := loadCatalog(cmd.Context()); err != nil {
		return err
	}

	var results []located
	existing := 0
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		r := lookupRecord(name)
		if r != nil {
			existing++
		} else if locateExisting {
			continue
		}
		results = append(results, located{Name: name, Found: r != nil, Record: r})
	}

	if structured() {
		if results == nil {
			results = []located{}
		}
		if err := encode(results); err != nil {
			return err
		}
	} else {
		opts := lineOptions(locateShort)
		opts.NoMarker = locateShort
		opts.ShowVersion = false
		for _, l := range results {
			fmt.Println(ui.PackageLine(l.Name, l.Record, opts))
		}
	}

	status("\nFound %d of %d %s.", existing, len(names), plural(len(names), "package", "packages"))
	if existing != len(names) {
		return fmt.Errorf("%d of %d %s: %w", len(names)-existing, len(names), plural(len(names), "package", "packages"), ErrPackageNotFound)
	}
	return nil
}
