package executor

import (
	"errors"
	"os"
	"os/exec"
)

// ErrNoPrivileges is returned when an operation needs root but the
// process is neither root nor able to use sudo.
var ErrNoPrivileges = errors.New("this operation requires root privileges, but neither running as root nor sudo is available")

// IsRoot reports whether the process runs as root.
func IsRoot() bool {
	return isRoot()
}

// HasSudo reports whether sudo is on PATH.
func HasSudo() bool {
	return hasSudo()
}

// CanElevate reports whether privileged commands can be run.
func CanElevate() bool {
	return isRoot() || hasSudo()
}

// CheckPrivileges returns ErrNoPrivileges when needsSudo is set and the
// process cannot elevate.
func CheckPrivileges(needsSudo bool) error {
	if needsSudo && !CanElevate() {
		return ErrNoPrivileges
	}
	return nil
}

func isRoot() bool {
	return os.Geteuid() == 0
}

func hasSudo() bool {
	_, err := exec.LookPath("sudo")
	return err == nil
}
