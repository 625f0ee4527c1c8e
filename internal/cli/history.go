package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"apttool/internal/history"
	"apttool/internal/ui"
	"apttool/pkg/query"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyClear bool
	historyPrune time.Duration
	historyShow  string
)

var historyCmd = &cobra.Command{
	Use:   "history [PATTERN]",
	Short: "Show operation history",
	Long: `Display the install, remove and update operations apttool ran,
most recent first. PATTERN is a regular expression matched against
each entry's summary line.

Examples:
  apttool history                   # Show recent history
  apttool history -n 50 purge       # Last 50 purges
  apttool history --show 3f2a9c1e   # One entry in full
  apttool history --prune 720h      # Forget entries older than 30 days
  apttool history --clear           # Forget everything`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all history entries")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete entries older than this duration, e.g. 720h")
	historyCmd.Flags().StringVar(&historyShow, "show", "", "show one entry by its ID or an ID prefix")
	historyCmd.MarkFlagsMutuallyExclusive("clear", "prune", "show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	if historyClear {
		return clearHistory(store)
	}
	if cmd.Flags().Changed("prune") {
		deleted, err := pruneHistory(store, historyPrune)
		if err != nil {
			return err
		}
		ui.SuccessMsg("Pruned %d history %s older than %s", deleted, plural(deleted, "entry", "entries"), historyPrune)
		return nil
	}

	if historyShow != "" {
		entry, err := store.Get(historyShow)
		if err != nil {
			return err
		}
		if structured() {
			return encode(entry)
		}
		return printHistoryEntry(os.Stdout, entry)
	}

	var m *query.Matcher
	if len(args) == 1 {
		if m, err = query.NewMatcher(args[0], true); err != nil {
			return err
		}
	}

	entries, err := filterHistory(store, m, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if structured() {
		if entries == nil {
			entries = []history.Entry{}
		}
		return encode(entries)
	}

	if len(entries) == 0 {
		ui.MutedMsg("No history entries found")
		return nil
	}

	ui.HeaderMsg("Operation History")
	for i, entry := range entries {
		state := ui.Success.Sprint("success")
		if !entry.Success {
			state = ui.Error.Sprint("failed")
		}

		fmt.Printf("%2d. %s %s %s %s [%s] (%s)\n",
			i+1,
			ui.Muted.Sprint(entry.ShortID()),
			ui.Muted.Sprint(entry.FormatTime()),
			ui.Bold(string(entry.Operation)),
			formatPackages(entry.Packages),
			ui.Cyan(entry.Frontend),
			state,
		)
		if entry.Error != "" {
			ui.MutedMsg("    Error: %s", entry.Error)
		}
	}

	total, _ := store.Count()
	status("\nShowing %d of %d total %s", len(entries), total, plural(total, "entry", "entries"))
	return nil
}

// filterHistory returns up to limit entries, newest first, whose summary
// matches m. A nil matcher accepts everything.
func filterHistory(store *history.Store, m *query.Matcher, limit int) ([]history.Entry, error) {
	if m == nil {
		return store.List(limit)
	}

	all, err := store.List(0)
	if err != nil {
		return nil, err
	}
	var out []history.Entry
	for _, e := range all {
		if limit > 0 && len(out) == limit {
			break
		}
		if m.MatchString(e.Summary()) {
			out = append(out, e)
		}
	}
	return out, nil
}

func clearHistory(store *history.Store) error {
	count, err := store.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		ui.MutedMsg("History is already empty")
		return nil
	}

	if !cfg.General.AutoConfirm {
		confirmed, err := ui.Confirm(fmt.Sprintf("Delete %d history %s?", count, plural(count, "entry", "entries")), false)
		if err != nil {
			return err
		}
		if !confirmed {
			return ErrAborted
		}
	}

	if err := store.Clear(); err != nil {
		return err
	}
	ui.SuccessMsg("Cleared %d history %s", count, plural(count, "entry", "entries"))
	return nil
}

func printHistoryEntry(w io.Writer, e *history.Entry) error {
	state := ui.Success.Sprint("success")
	if !e.Success {
		state = ui.Error.Sprint("failed")
	}

	table := ui.NewTable(w)
	table.AddRow("ID:", e.ID)
	table.AddRow("Time:", e.FormatTime())
	table.AddRow("Operation:", string(e.Operation))
	table.AddRow("Frontend:", e.Frontend)
	table.AddRow("Packages:", strings.Join(e.Packages, ", "))
	table.AddRow("Result:", state)
	if e.Error != "" {
		table.AddRow("Error:", e.Error)
	}
	return table.Render()
}

// pruneHistory deletes the entries recorded more than maxAge ago.
func pruneHistory(store *history.Store, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, fmt.Errorf("--prune needs a positive duration, got %s", maxAge)
	}
	deleted, err := store.Prune(maxAge)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return deleted, nil
}

// formatPackages formats a list of packages for display.
func formatPackages(packages []string) string {
	switch {
	case len(packages) == 0:
		return ""
	case len(packages) == 1:
		return packages[0]
	case len(packages) <= 3:
		return fmt.Sprint(packages)
	default:
		return fmt.Sprintf("%s (+%d more)", packages[0], len(packages)-1)
	}
}
