package cli

import (
	"fmt"
	"os"

	"apttool/internal/ui"
	"apttool/pkg/catalog"
	"apttool/pkg/dpkg"

	"github.com/spf13/cobra"
)

var versionsAll bool

var showCmd = &cobra.Command{
	Use:     "show PACKAGE...",
	Aliases: []string{"info"},
	Short:   "Show package details",
	Long: `Display everything the package database knows about packages.

Package arguments may be names, files holding names, or "-" for stdin.

Examples:
  apttool show vim                  # Details for vim
  apttool show libc6:i386           # A foreign-architecture package
  apttool show --format json bash   # Machine-readable`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShow,
}

var versionsCmd = &cobra.Command{
	Use:   "versions PACKAGE...",
	Short: "Show installed and available versions",
	Long: `Display the installed and candidate version of packages.

With --all every version found in the status file and the package
lists is listed, with the list it came from.

Examples:
  apttool versions bash             # Installed and candidate
  apttool versions -a vim           # Every known version`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVersions,
}

func init() {
	versionsCmd.Flags().BoolVarP(&versionsAll, "all", "a", false, "list all available versions")
}

func runShow(cmd *cobra.Command, args []string) error {
	names, err := resolvePackages(args)
	if err != nil {
		return err
	}
	if err := loadCatalog(cmd.Context()); err != nil {
		return err
	}

	var found []*catalog.Record
	missing := 0
	for _, name := range names {
		r := lookupRecord(name)
		if r == nil {
			ui.ErrorMsg("Can't find a package by that name: %s", name)
			missing++
			continue
		}
		found = append(found, r)
	}

	if structured() {
		if err := encode(found); err != nil {
			return err
		}
	} else {
		for i, r := range found {
			if i > 0 {
				fmt.Println()
			}
			ui.PrintRecord(os.Stdout, recordName(r, false), r)
		}
	}

	if missing > 0 {
		return fmt.Errorf("%d of %d %s: %w", missing, len(names), plural(len(names), "package", "packages"), ErrPackageNotFound)
	}
	return nil
}

// versionReport is the structured form of one versions result.
type versionReport struct {
	Package   string             `json:"package" yaml:"package"`
	Installed string             `json:"installed,omitempty" yaml:"installed,omitempty"`
	Candidate string             `json:"candidate,omitempty" yaml:"candidate,omitempty"`
	Versions  []dpkg.VersionInfo `json:"versions,omitempty" yaml:"versions,omitempty"`
}

func runVersions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	names, err := resolvePackages(args)
	if err != nil {
		return err
	}
	if err := loadCatalog(ctx); err != nil {
		return err
	}

	var reports []versionReport
	missing := 0
	for _, name := range names {
		r := lookupRecord(name)
		if r == nil {
			ui.ErrorMsg("Can't find a package by that name: %s", name)
			missing++
			continue
		}

		report := versionReport{
			Package:   recordName(r, false),
			Installed: r.InstalledVersion,
			Candidate: r.LatestVersion,
		}
		if versionsAll {
			report.Versions, err = backend.Versions(ctx, r.Name)
			if err != nil {
				return fmt.Errorf("reading versions of %s: %w", r.Name, err)
			}
		}
		reports = append(reports, report)
	}

	if structured() {
		if err := encode(reports); err != nil {
			return err
		}
	} else {
		for _, report := range reports {
			if err := printVersions(report); err != nil {
				return err
			}
		}
	}

	if missing > 0 {
		return fmt.Errorf("%d of %d %s: %w", missing, len(names), plural(len(names), "package", "packages"), ErrPackageNotFound)
	}
	return nil
}

func printVersions(report versionReport) error {
	ui.HeaderMsg("%s", ui.PackageName.Sprint(report.Package))

	installed := report.Installed
	if installed == "" {
		installed = ui.Muted.Sprint("(none)")
	}
	fmt.Printf("  %-11s %s\n", "Installed:", ui.PackageVersion.Sprint(installed))
	fmt.Printf("  %-11s %s\n", "Candidate:", ui.PackageVersion.Sprint(report.Candidate))

	if len(report.Versions) == 0 {
		return nil
	}
	fmt.Println()
	table := ui.NewTable(os.Stdout, "", "Version", "Arch", "Origin")
	for _, v := range report.Versions {
		marker := ""
		if v.Installed {
			marker = "[i]"
		}
		table.AddRow(marker, v.Version, v.Architecture, v.Origin)
	}
	return table.Render()
}
