package cli

import (
	"fmt"

	"apttool/internal/history"
	"apttool/internal/ui"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update package database",
	Long: `Refresh the package lists, like "apt-get update", then reload
the package cache.

This downloads the latest package information from the repositories
but does not install or upgrade any packages.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := checkPrivileges(); err != nil {
		return err
	}

	ui.InfoMsg("Updating package lists using %s", apt.DisplayName())

	entry := history.NewEntry(history.OpUpdate, apt.Binary(), nil)
	err := apt.Update(ctx)
	entry.Finish(err)
	if !cfg.General.DryRun {
		recordHistory(entry)
	}
	if err != nil {
		explainAPTError(err)
		return fmt.Errorf("update failed: %w", err)
	}
	if cfg.General.DryRun {
		return nil
	}

	// The lists changed on disk; start over with a fresh catalog.
	if err := cat.Close(); err != nil {
		logger.Printf("closing catalog: %v", err)
	}
	cat = newCatalog()
	if err := loadCatalog(ctx); err != nil {
		return err
	}

	ui.SuccessMsg("Loaded %d packages", cat.Len())
	return nil
}
