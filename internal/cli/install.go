package cli

import (
	"errors"
	"fmt"
	"strings"

	"apttool/internal/executor"
	"apttool/internal/history"
	"apttool/internal/ui"
	"apttool/pkg/catalog"
	"apttool/pkg/manager"
	"apttool/pkg/manager/native"

	"github.com/spf13/cobra"
)

// maxCandidates bounds the pick list offered for an unknown name.
const maxCandidates = 20

var (
	installReinstall    bool
	installNoRecommends bool
)

var installCmd = &cobra.Command{
	Use:   "install PACKAGE...",
	Short: "Install one or more packages",
	Long: `Install packages with apt-get (or nala when configured).

Packages that are already installed are skipped unless --reinstall is
given. For a name the package database doesn't know, apttool offers
the packages whose names contain it.

Examples:
  apttool install vim git curl      # Install three packages
  apttool install -y neovim         # Without confirmation
  apttool install --dry-run htop    # Print the apt-get command
  apttool install code              # Uses alias if configured`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installReinstall, "reinstall", false, "reinstall packages that are already installed")
	installCmd.Flags().BoolVar(&installNoRecommends, "no-recommends", false, "don't install recommended packages")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	names, err := resolvePackages(args)
	if err != nil {
		return err
	}
	if err := loadCatalog(ctx); err != nil {
		return err
	}

	var packages []string
	for _, name := range names {
		r := lookupRecord(name)
		if r == nil {
			if r, err = pickCandidate(name); err != nil {
				return err
			}
		}
		if r.Installed && !installReinstall {
			ui.WarningMsg("This package is already installed: %s", recordName(r, false))
			continue
		}
		packages = append(packages, recordName(r, false))
	}

	if len(packages) == 0 {
		ui.InfoMsg("Nothing to install")
		return nil
	}
	if installNoRecommends && apt.UsesNala() {
		ui.WarningMsg("nala has no --no-install-recommends, recommended packages may be installed")
	}

	return runTransaction(history.OpInstall, packages, func() error {
		return apt.Install(ctx, packages, manager.InstallOpts{
			AutoConfirm:  cfg.General.AutoConfirm,
			DryRun:       cfg.General.DryRun,
			Reinstall:    installReinstall,
			NoRecommends: installNoRecommends,
		})
	})
}

// pickCandidate lets the user choose among packages whose names contain
// name. Without a terminal to ask on (--yes), an unknown name is an
// error.
func pickCandidate(name string) (*catalog.Record, error) {
	candidates := candidatesFor(name)
	if len(candidates) == 0 || cfg.General.AutoConfirm {
		return nil, fmt.Errorf("%s: %w", name, ErrPackageNotFound)
	}
	return ui.SelectRecord(candidates, fmt.Sprintf("No package named %q, pick one", name))
}

func candidatesFor(name string) []*catalog.Record {
	needle := strings.ToLower(name)
	var out []*catalog.Record
	for _, r := range cat.Records() {
		if strings.Contains(r.Name, needle) {
			out = append(out, r)
			if len(out) == maxCandidates {
				break
			}
		}
	}
	return out
}

// runTransaction shows the plan, asks for confirmation, runs fn and
// records the outcome in history. Dry runs are not recorded.
func runTransaction(op history.Operation, packages []string, fn func() error) error {
	if err := checkPrivileges(); err != nil {
		return err
	}

	ui.InfoMsg("%s with %s:", opTitle(op), apt.DisplayName())
	for _, p := range packages {
		ui.MutedMsg("  - %s", p)
	}

	if !cfg.General.AutoConfirm && !cfg.General.DryRun {
		confirmed, err := ui.Confirm(fmt.Sprintf("Proceed with %s?", op), true)
		if err != nil {
			return err
		}
		if !confirmed {
			return ErrAborted
		}
	}

	entry := history.NewEntry(op, apt.Binary(), packages)
	err := fn()
	entry.Finish(err)
	if !cfg.General.DryRun {
		recordHistory(entry)
	}

	if err != nil {
		explainAPTError(err)
		return fmt.Errorf("%s failed: %w", op, err)
	}
	if !cfg.General.DryRun {
		ui.SuccessMsg("%s finished", opTitle(op))
	}
	return nil
}

// checkPrivileges fails before anything runs when apt needs root and the
// process can't get it. Dry runs never elevate.
func checkPrivileges() error {
	if cfg.General.DryRun {
		return nil
	}
	return executor.CheckPrivileges(apt.NeedsSudo())
}

func opTitle(op history.Operation) string {
	switch op {
	case history.OpInstall:
		return "Installing"
	case history.OpRemove:
		return "Removing"
	case history.OpPurge:
		return "Purging"
	case history.OpUpdate:
		return "Updating"
	}
	return string(op)
}

// recordHistory stores entry. History is best-effort: failures are only
// logged.
func recordHistory(entry *history.Entry) {
	store, err := history.Open()
	if err != nil {
		logger.Printf("history: %v", err)
		return
	}
	defer store.Close()

	if err := store.Record(entry); err != nil {
		logger.Printf("history: %v", err)
	}
}

func explainAPTError(err error) {
	var aptErr *native.APTError
	if !errors.As(err, &aptErr) {
		return
	}
	if len(aptErr.Packages) > 0 {
		ui.MutedMsg("  Packages: %s", strings.Join(aptErr.Packages, ", "))
	}
	if aptErr.Suggestion != "" {
		ui.WarningMsg("%s", aptErr.Suggestion)
	}
}
