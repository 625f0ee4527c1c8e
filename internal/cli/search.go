package cli

import (
	"fmt"

	"apttool/internal/ui"
	"apttool/pkg/catalog"
	"apttool/pkg/query"

	"github.com/spf13/cobra"
)

type searchFlags struct {
	all           bool
	installed     bool
	notInstalled  bool
	names         bool
	dev           bool
	reverse       bool
	ignoreCase    bool
	noArch        bool
	short         bool
}

var searchOpts searchFlags

var searchCmd = &cobra.Command{
	Use:   "search PATTERN...",
	Short: "Search package names and descriptions",
	Long: `Search the package database with regular expressions. Matches are
printed while the package lists are still being read.

Several patterns are joined with "|". With --all they must all match,
in the order given.

Examples:
  apttool search editor              # Names and descriptions
  apttool search -n '^python3-'      # Names only
  apttool search -x -s firefox       # Any case, names without descriptions
  apttool search -I -n ssl           # Installed packages only
  apttool search -D -n '^libssl'     # Development packages
  apttool search -a vim plugin       # vim ... plugin, in that order
  apttool search -r -I -n '^lib'     # Installed packages not starting with lib`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	addSearchFlags(searchCmd)
}

// addSearchFlags binds the search flags on cmd. The root command carries
// them too, since it searches when called with patterns.
func addSearchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVarP(&searchOpts.all, "all", "a", false, "all patterns must match, in order")
	f.BoolVarP(&searchOpts.installed, "installed", "I", false, "only installed packages")
	f.BoolVarP(&searchOpts.notInstalled, "not-installed", "N", false, "only packages that are not installed")
	f.BoolVarP(&searchOpts.names, "names", "n", false, "search names only, not descriptions")
	f.BoolVarP(&searchOpts.dev, "dev", "D", false, "only development packages")
	f.BoolVarP(&searchOpts.reverse, "reverse", "r", false, "list packages that don't match")
	f.BoolVarP(&searchOpts.ignoreCase, "ignorecase", "x", false, "make the search case-insensitive")
	f.BoolVar(&searchOpts.noArch, "no-arch", false, "don't print the :arch suffix")
	f.BoolVarP(&searchOpts.short, "short", "s", false, "print names only")

	cmd.MarkFlagsMutuallyExclusive("installed", "not-installed")
}

// compileSearch turns the search flags and patterns into a query.
func compileSearch(args []string) (*query.Query, error) {
	pattern, err := query.Build(args, searchOpts.all)
	if err != nil {
		return nil, err
	}
	if searchOpts.dev {
		pattern = query.DevOnly(pattern)
	}

	return query.Compile(pattern, query.Options{
		SearchDescription: !searchOpts.names && !cfg.Search.NamesOnly,
		CaseInsensitive:   cfg.Search.CaseInsensitive || searchOpts.ignoreCase,
		Negate:            searchOpts.reverse,
		InstallFilter:     installFilter(searchOpts.installed, searchOpts.notInstalled),
	})
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	q, err := compileSearch(args)
	if err != nil {
		return err
	}

	size, err := cat.PreOpen(ctx)
	if err != nil {
		return err
	}
	status("Searching ~%d packages for %s", size, q.Pattern())

	results, err := query.Run(ctx, q, cat, nil)
	if err != nil {
		return err
	}

	if structured() {
		records, err := query.Collect(results)
		if err != nil {
			return err
		}
		if records == nil {
			records = []*catalog.Record{}
		}
		return encode(records)
	}
	defer results.Close()

	strip := searchOpts.noArch || cfg.Search.StripArch
	opts := lineOptions(searchOpts.short)
	for results.Next() {
		r := results.Record()
		fmt.Println(ui.PackageLine(recordName(r, strip), r, opts))
	}
	if err := results.Err(); err != nil {
		return err
	}

	finishSearch(results)
	return nil
}

// finishSearch reports the totals of a drained search. Unreadable entries
// only show up in verbose mode.
func finishSearch(results *query.Results) {
	if n := results.Skipped(); n > 0 {
		logger.Printf("skipped %d unreadable package %s", n, plural(n, "entry", "entries"))
	}
	status("\nFinished searching %d packages, found %d %s.",
		results.Scanned(), results.Matched(), plural(results.Matched(), "result", "results"))
}

// describeFilter is used in status lines, "installed dependencies".
func describeFilter(f query.InstallFilter) string {
	if f == query.Any {
		return ""
	}
	return f.String() + " "
}
