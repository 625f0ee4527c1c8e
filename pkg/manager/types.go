// Package manager abstracts the system package manager that apttool hands
// install, remove and update operations to.
package manager

// InstallOpts contains options for package installation.
type InstallOpts struct {
	AutoConfirm  bool // Pass -y
	DryRun       bool // Print the command instead of running it
	Reinstall    bool
	NoRecommends bool
}

// UninstallOpts contains options for package removal.
type UninstallOpts struct {
	AutoConfirm bool
	DryRun      bool
	Purge       bool // Remove configuration files too
	Autoremove  bool // Also remove dependencies nothing needs any more
}
