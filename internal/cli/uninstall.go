package cli

import (
	"apttool/internal/history"
	"apttool/internal/ui"
	"apttool/pkg/manager"

	"github.com/spf13/cobra"
)

var (
	removePurge      bool
	removeAutoremove bool
)

var removeCmd = &cobra.Command{
	Use:     "remove PACKAGE...",
	Aliases: []string{"uninstall", "rm"},
	Short:   "Remove one or more packages",
	Long: `Remove installed packages with apt-get. With --purge their
configuration files are removed too.

Examples:
  apttool remove vim                # Remove, keep configuration
  apttool remove --purge vim        # Remove with configuration
  apttool remove --autoremove vim   # Also drop unneeded dependencies`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removePurge, "purge", "p", false, "remove configuration files too")
	removeCmd.Flags().BoolVar(&removeAutoremove, "autoremove", false, "also remove dependencies nothing needs any more")
}

func runRemove(cmd *cobra.Command, args []string) error {
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
		switch {
		case r == nil:
			ui.ErrorMsg("Can't find a package by that name: %s", name)
		case !r.Installed:
			ui.WarningMsg("This package is not installed: %s", recordName(r, false))
		default:
			packages = append(packages, recordName(r, false))
		}
	}

	if len(packages) == 0 {
		return ErrNotInstalled
	}

	op := history.OpRemove
	if removePurge {
		op = history.OpPurge
	}
	return runTransaction(op, packages, func() error {
		return apt.Uninstall(ctx, packages, manager.UninstallOpts{
			AutoConfirm: cfg.General.AutoConfirm,
			DryRun:      cfg.General.DryRun,
			Purge:       removePurge,
			Autoremove:  removeAutoremove,
		})
	})
}
