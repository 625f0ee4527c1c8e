package cli

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"apttool/internal/ui"
	"apttool/pkg/dpkg"
	"apttool/pkg/query"

	"github.com/spf13/cobra"
)

var (
	filesExecutables bool
	filesShort       bool
	containsNames    bool
)

var filesCmd = &cobra.Command{
	Use:   "files PACKAGE...",
	Short: "List the files an installed package owns",
	Long: `List the files dpkg installed for packages.

Examples:
  apttool files bash                # Every file
  apttool files -e coreutils        # Executables only`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFiles,
}

var containsCmd = &cobra.Command{
	Use:   "contains PATTERN",
	Short: "Find installed packages owning matching files",
	Long: `Search the file lists of installed packages with a regular
expression and print the packages that own matching files.

Examples:
  apttool contains /usr/bin/vim     # Full paths
  apttool contains -n '^libssl'     # File names only`,
	Args: cobra.ExactArgs(1),
	RunE: runContains,
}

func init() {
	filesCmd.Flags().BoolVarP(&filesExecutables, "executables", "e", false, "only executables in bin directories")
	filesCmd.Flags().BoolVar(&filesShort, "short", false, "print paths only")
	containsCmd.Flags().BoolVarP(&containsNames, "names", "n", false, "match file names, not full paths")
}

// binaries keeps the files that live in a bin directory and are
// executable on this system.
func binaries(files []string) []string {
	var inBin []string
	for _, f := range files {
		if strings.Contains(path.Dir(f)+"/", "bin/") {
			inBin = append(inBin, f)
		}
	}
	return dpkg.Executables(inBin)
}

func runFiles(cmd *cobra.Command, args []string) error {
	names, err := resolvePackages(args)
	if err != nil {
		return err
	}

	label := "installed file"
	if filesExecutables {
		label = "executable"
	}

	failed := 0
	report := make(map[string][]string)
	for _, name := range names {
		files, err := backend.Files(name)
		if errors.Is(err, dpkg.ErrNoFileList) {
			ui.ErrorMsg("This package is not installed: %s", name)
			failed++
			continue
		}
		if err != nil {
			return err
		}
		if filesExecutables {
			files = binaries(files)
		}

		if structured() {
			report[name] = files
			continue
		}
		if len(files) == 0 {
			ui.WarningMsg("Found 0 %ss for %s", label, name)
			failed++
			continue
		}
		status("\nFound %d %s for %s:", len(files), plural(len(files), label, label+"s"), name)
		for _, f := range files {
			if filesShort {
				fmt.Println(f)
			} else {
				fmt.Println("    " + f)
			}
		}
	}

	if structured() {
		if err := encode(report); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d %s: %w", failed, len(names), plural(len(names), "package", "packages"), ErrNoResults)
	}
	return nil
}

func runContains(cmd *cobra.Command, args []string) error {
	m, err := query.NewMatcher(args[0], false)
	if err != nil {
		return err
	}
	status("Looking for packages by file pattern %s", m)

	match := m.MatchString
	if containsNames {
		match = func(p string) bool {
			return m.MatchString(path.Base(p))
		}
	}

	owners, err := backend.Owners(cmd.Context(), match)
	if err != nil {
		return err
	}

	if structured() {
		if owners == nil {
			owners = []dpkg.FileOwner{}
		}
		return encode(owners)
	}

	totalFiles := 0
	for _, o := range owners {
		fmt.Println(ui.PackageName.Sprint(o.Package))
		for _, f := range o.Files {
			fmt.Println("    " + f)
		}
		totalFiles += len(o.Files)
	}
	status("\nFound %d %s in %d %s.",
		totalFiles, plural(totalFiles, "file", "files"),
		len(owners), plural(len(owners), "package", "packages"))

	if len(owners) == 0 {
		return ErrNoResults
	}
	return nil
}
