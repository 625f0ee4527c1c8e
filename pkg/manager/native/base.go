// Package native implements the Debian package manager frontends.
package native

import (
	"os/exec"

	"apttool/internal/executor"
)

// BaseManager holds what every frontend shares: identity, binary and the
// executor commands go through.
type BaseManager struct {
	name        string
	displayName string
	binary      string
	needsSudo   bool
	exec        *executor.Executor
}

// NewBaseManager creates a new BaseManager with the given parameters.
func NewBaseManager(name, displayName, binary string, needsSudo bool) *BaseManager {
	return &BaseManager{
		name:        name,
		displayName: displayName,
		binary:      binary,
		needsSudo:   needsSudo,
		exec:        executor.New(false, false),
	}
}

// Name returns the short identifier for this manager.
func (b *BaseManager) Name() string {
	return b.name
}

// DisplayName returns the human-readable name.
func (b *BaseManager) DisplayName() string {
	return b.displayName
}

// IsAvailable returns true if the binary is on PATH.
func (b *BaseManager) IsAvailable() bool {
	_, err := exec.LookPath(b.binary)
	return err == nil
}

// NeedsSudo returns true if this manager requires root privileges.
func (b *BaseManager) NeedsSudo() bool {
	return b.needsSudo
}

// Binary returns the binary commands are run with.
func (b *BaseManager) Binary() string {
	return b.binary
}

// Executor returns the executor instance.
func (b *BaseManager) Executor() *executor.Executor {
	return b.exec
}

// SetExecutor sets the executor instance.
func (b *BaseManager) SetExecutor(exec *executor.Executor) {
	b.exec = exec
}

// withDryRun switches the executor to dry-run for the duration of fn when
// dryRun is set.
func (b *BaseManager) withDryRun(dryRun bool, fn func() error) error {
	if !dryRun || b.exec.DryRun() {
		return fn()
	}
	b.exec.SetDryRun(true)
	defer b.exec.SetDryRun(false)
	return fn()
}
