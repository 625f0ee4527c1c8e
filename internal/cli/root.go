// Package cli implements the command-line interface for apttool.
package cli

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"apttool/internal/config"
	"apttool/internal/executor"
	"apttool/internal/ui"
	"apttool/pkg/catalog"
	"apttool/pkg/dpkg"
	"apttool/pkg/manager/native"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	format  string
	dryRun  bool
	yes     bool
	verbose bool
	quiet   bool
	noColor bool

	// Global state
	cfg     *config.Config
	logger  *log.Logger
	backend *dpkg.Backend
	cat     *catalog.Catalog
	apt     *native.APT
)

// Build metadata - set at build time via ldflags
var (
	Version   = "0.7.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "apttool [PATTERN...]",
	Short: "Search and manage Debian packages",
	Long: `apttool is a front-end for the Debian/Ubuntu package database.

Searches print matches while the package lists are still being read.
Install, remove and update are handed to apt-get.

Running apttool with patterns and no subcommand is the same as
"apttool search".

Examples:
  apttool python3 -I                  # Installed packages matching python3
  apttool search -n '^lib.*ssl'       # Search names only
  apttool deps vim                    # Dependencies with install state
  apttool contains -n 'bash$'         # Which package installed a file
  apttool install vim                 # Install through apt-get`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runSearch(cmd, args)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "show what would happen without executing")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "assume yes to all prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "don't print status messages")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	addSearchFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(rdepsCmd)
	rootCmd.AddCommand(suggestsCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(containsCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(systemCmd)
}

// Execute runs the root command. An interrupt cancels the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// initializeApp sets up the application state.
func initializeApp() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// Apply global flag overrides
	if yes {
		cfg.General.AutoConfirm = true
	}
	if dryRun {
		cfg.General.DryRun = true
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.Color = false
	}
	if format != "" {
		cfg.Output.Format = format
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode)

	logger = log.New(io.Discard, "", 0)
	if cfg.Output.Verbose {
		logger = log.New(os.Stderr, "apttool: ", 0)
	}

	backend = dpkg.New(backendPaths(cfg.Backend), dpkg.WithLogger(logger))
	cat = newCatalog()

	apt = native.NewAPT(cfg.Backend.UseNala)
	apt.SetExecutor(executor.New(cfg.General.DryRun, cfg.Output.Verbose))
	return nil
}

func backendPaths(bc config.BackendConfig) dpkg.Paths {
	return dpkg.Paths{
		StatusFile: bc.StatusFile,
		ListsDir:   bc.ListsDir,
		ArchFile:   bc.ArchFile,
		InfoDir:    bc.InfoDir,
		NativeArch: bc.NativeArch,
	}
}

func newCatalog() *catalog.Catalog {
	return catalog.New(backend,
		catalog.WithLogger(logger),
		catalog.WithProgressEvery(cfg.Search.ProgressEvery),
	)
}

// resolvePackages expands package arguments and resolves aliases.
func resolvePackages(args []string) ([]string, error) {
	names, err := ParsePackageArgs(args, os.Stdin)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoPackages
	}
	return cfg.ResolveAliases(names), nil
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print apttool version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("apttool version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
