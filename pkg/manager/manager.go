package manager

import "context"

// Manager performs the state-changing operations apttool delegates to the
// system package manager. Queries never go through it; they read the
// catalog directly.
type Manager interface {
	// Name returns the short identifier ("apt").
	Name() string

	// DisplayName returns a human-readable name.
	DisplayName() string

	// IsAvailable returns true if the frontend binary is installed.
	IsAvailable() bool

	// NeedsSudo returns true if state changes require root.
	NeedsSudo() bool

	// Install installs one or more packages.
	Install(ctx context.Context, packages []string, opts InstallOpts) error

	// Uninstall removes one or more packages.
	Uninstall(ctx context.Context, packages []string, opts UninstallOpts) error

	// Update refreshes the package lists.
	Update(ctx context.Context) error
}
