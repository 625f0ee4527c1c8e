package cli

import "errors"

var (
	// ErrNoPackages is returned when no packages are specified.
	ErrNoPackages = errors.New("no packages specified")

	// ErrPackageNotFound is returned when a package cannot be found.
	ErrPackageNotFound = errors.New("package not found")

	// ErrNotInstalled is returned when an operation needs an installed
	// package.
	ErrNotInstalled = errors.New("package is not installed")

	// ErrNoResults is returned by listing commands that found nothing.
	ErrNoResults = errors.New("nothing found")

	// ErrAborted is returned when the user aborts an operation.
	ErrAborted = errors.New("operation aborted by user")
)
