package native

import (
	"context"
	"os/exec"

	"apttool/pkg/manager"
)

// APT runs install, remove and update through apt-get, or through nala
// when it is preferred and installed.
type APT struct {
	*BaseManager
	useNala bool
}

var _ manager.Manager = (*APT)(nil)

// NewAPT creates a new APT manager instance.
func NewAPT(useNala bool) *APT {
	binary := "apt-get"
	displayName := "APT (Debian/Ubuntu)"

	if useNala {
		if _, err := exec.LookPath("nala"); err == nil {
			binary = "nala"
			displayName = "Nala (APT Frontend)"
		}
	}

	return &APT{
		BaseManager: NewBaseManager("apt", displayName, binary, true),
		useNala:     useNala && binary == "nala",
	}
}

// UsesNala reports whether commands go through nala.
func (a *APT) UsesNala() bool {
	return a.useNala
}

// InstallArgs returns the argument list Install runs the binary with.
func (a *APT) InstallArgs(packages []string, opts manager.InstallOpts) []string {
	args := []string{"install"}
	if opts.AutoConfirm {
		args = append(args, "-y")
	}
	if opts.Reinstall {
		args = append(args, "--reinstall")
	}
	if opts.NoRecommends && !a.useNala {
		args = append(args, "--no-install-recommends")
	}
	return append(args, packages...)
}

// UninstallArgs returns the argument list Uninstall runs the binary with.
func (a *APT) UninstallArgs(packages []string, opts manager.UninstallOpts) []string {
	cmd := "remove"
	if opts.Purge {
		cmd = "purge"
	}
	args := []string{cmd}
	if opts.AutoConfirm {
		args = append(args, "-y")
	}
	return append(args, packages...)
}

// Install installs one or more packages.
func (a *APT) Install(ctx context.Context, packages []string, opts manager.InstallOpts) error {
	args := a.InstallArgs(packages, opts)
	return a.withDryRun(opts.DryRun, func() error {
		return a.run(ctx, args)
	})
}

// Uninstall removes or purges one or more packages.
func (a *APT) Uninstall(ctx context.Context, packages []string, opts manager.UninstallOpts) error {
	args := a.UninstallArgs(packages, opts)
	return a.withDryRun(opts.DryRun, func() error {
		if err := a.run(ctx, args); err != nil {
			return err
		}
		if !opts.Autoremove {
			return nil
		}
		auto := []string{"autoremove"}
		if opts.AutoConfirm {
			auto = append(auto, "-y")
		}
		return a.run(ctx, auto)
	})
}

// Update refreshes the package lists.
func (a *APT) Update(ctx context.Context) error {
	return a.run(ctx, []string{"update"})
}

func (a *APT) run(ctx context.Context, args []string) error {
	stderr, err := a.Executor().RunSudoWithStderr(ctx, a.Binary(), args...)
	if err == nil {
		return nil
	}
	if aptErr := ParseAPTError(stderr, err); aptErr != nil {
		return aptErr
	}
	return err
}
