package cli

import (
	"context"

	"apttool/internal/tui"
	"apttool/pkg/query"

	"github.com/spf13/cobra"
)

var (
	browseInstalled    bool
	browseNotInstalled bool
	browseNames        bool
	browseIgnoreCase   bool
)

var browseCmd = &cobra.Command{
	Use:   "browse [PATTERN...]",
	Short: "Browse search results interactively",
	Long: `Launch an interactive browser over search results.

Matches are pulled from the package lists as you scroll, so the first
screen shows up before the whole database has been read.

Navigation:
  - Use arrow keys or j/k to move
  - Press enter for package details
  - Press / to change the pattern
  - Press f to cycle all, installed and not installed
  - Press ? for help
  - Press q to quit`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().BoolVarP(&browseInstalled, "installed", "I", false, "start with installed packages only")
	browseCmd.Flags().BoolVarP(&browseNotInstalled, "not-installed", "N", false, "start with packages that are not installed")
	browseCmd.Flags().BoolVarP(&browseNames, "names", "n", false, "search names only")
	browseCmd.Flags().BoolVarP(&browseIgnoreCase, "ignorecase", "x", false, "make the search case-insensitive")
	browseCmd.MarkFlagsMutuallyExclusive("installed", "not-installed")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	pattern := ""
	if len(args) > 0 {
		var err error
		if pattern, err = query.Build(args, false); err != nil {
			return err
		}
	}

	opts := query.Options{
		SearchDescription: !browseNames && !cfg.Search.NamesOnly,
		CaseInsensitive:   cfg.Search.CaseInsensitive || browseIgnoreCase,
	}
	open := func(ctx context.Context, pattern string, filter query.InstallFilter) (*query.Results, error) {
		o := opts
		o.InstallFilter = filter
		q, err := query.Compile(pattern, o)
		if err != nil {
			return nil, err
		}
		return query.Run(ctx, q, cat, nil)
	}

	filter := installFilter(browseInstalled, browseNotInstalled)
	return tui.Run(tui.NewModel(cmd.Context(), open, pattern, filter))
}
