// Package executor runs apt-get and friends, elevating with sudo when the
// process is not root.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Executor runs external commands. In dry-run mode it only prints what
// it would run.
type Executor struct {
	dryRun  bool
	verbose bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New creates a new Executor attached to the process's standard streams.
func New(dryRun, verbose bool) *Executor {
	return &Executor{
		dryRun:  dryRun,
		verbose: verbose,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// SetDryRun enables or disables dry-run mode.
func (e *Executor) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// DryRun reports whether dry-run mode is on.
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// SetOutput redirects command output and executor messages.
func (e *Executor) SetOutput(stdout, stderr io.Writer) {
	e.stdout = stdout
	e.stderr = stderr
}

// Run executes a command without sudo.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	if e.dryRun {
		e.printDryRun(false, name, args)
		return nil
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	e.announce(false, name, args)
	return cmd.Run()
}

// RunSudoWithStderr executes a command with sudo if not already root and
// returns the captured stderr, so callers can classify failures. Output
// still streams to the terminal.
func (e *Executor) RunSudoWithStderr(ctx context.Context, name string, args ...string) (string, error) {
	return e.run(ctx, name, args, true)
}

func (e *Executor) run(ctx context.Context, name string, args []string, capture bool) (string, error) {
	if e.dryRun {
		e.printDryRun(true, name, args)
		return "", nil
	}

	cmd, err := sudoCommand(ctx, name, args)
	if err != nil {
		return "", err
	}
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout

	var stderrBuf bytes.Buffer
	if capture {
		cmd.Stderr = io.MultiWriter(e.stderr, &stderrBuf)
	} else {
		cmd.Stderr = e.stderr
	}

	e.announce(true, name, args)
	err = cmd.Run()
	return stderrBuf.String(), err
}

// Output runs a command and returns its stdout. Dry-run mode does not
// apply: Output is for read-only queries.
func (e *Executor) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = e.stderr

	e.announce(false, name, args)
	err := cmd.Run()
	return stdout.String(), err
}

func sudoCommand(ctx context.Context, name string, args []string) (*exec.Cmd, error) {
	if isRoot() {
		return exec.CommandContext(ctx, name, args...), nil
	}
	if hasSudo() {
		sudoArgs := append([]string{name}, args...)
		return exec.CommandContext(ctx, "sudo", sudoArgs...), nil
	}
	return nil, ErrNoPrivileges
}

func (e *Executor) announce(elevated bool, name string, args []string) {
	if !e.verbose {
		return
	}
	switch {
	case !elevated:
		fmt.Fprintf(e.stdout, "Executing: %s %s\n", name, strings.Join(args, " "))
	case isRoot():
		fmt.Fprintf(e.stdout, "Executing (as root): %s %s\n", name, strings.Join(args, " "))
	default:
		fmt.Fprintf(e.stdout, "Executing (with sudo): %s %s\n", name, strings.Join(args, " "))
	}
}

func (e *Executor) printDryRun(elevated bool, name string, args []string) {
	switch {
	case !elevated:
		fmt.Fprintf(e.stdout, "[dry-run] Would execute: %s %s\n", name, strings.Join(args, " "))
	case isRoot():
		fmt.Fprintf(e.stdout, "[dry-run] Would execute (as root): %s %s\n", name, strings.Join(args, " "))
	default:
		fmt.Fprintf(e.stdout, "[dry-run] Would execute (with sudo): sudo %s %s\n", name, strings.Join(args, " "))
	}
}
