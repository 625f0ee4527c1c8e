package native

import (
	"regexp"
	"strings"
)

// APTErrorType classifies a failed apt-get run.
type APTErrorType int

const (
	APTErrorUnknown APTErrorType = iota
	APTErrorLocked
	APTErrorPackageNotFound
	APTErrorHeldBroken
)

// APTError is a failed apt-get run with what could be recovered from its
// stderr.
type APTError struct {
	ErrorType   APTErrorType
	RawOutput   string
	Packages    []string
	OriginalErr error
	Suggestion  string
}

// Error implements the error interface.
func (e *APTError) Error() string {
	if e.OriginalErr != nil {
		return e.OriginalErr.Error()
	}
	return e.RawOutput
}

// Unwrap returns the original error.
func (e *APTError) Unwrap() error {
	return e.OriginalErr
}

var (
	// "E: Could not get lock /var/lib/dpkg/lock-frontend. It is held by process 1234 (apt)"
	// "E: Unable to acquire the dpkg frontend lock (/var/lib/dpkg/lock-frontend), is another process using it?"
	lockPattern = regexp.MustCompile(`(?m)^E: (Could not get lock|Unable to acquire the dpkg frontend lock|Unable to lock)`)

	// "E: Unable to locate package foo"
	notFoundPattern = regexp.MustCompile(`E: Unable to locate package (\S+)`)

	// "E: Package 'foo' has no installation candidate"
	noCandidatePattern = regexp.MustCompile(`E: Package '([^']+)' has no installation candidate`)

	// "E: Unable to correct problems, you have held broken packages."
	heldBrokenPattern = regexp.MustCompile(`held broken packages`)

	// " foo : Depends: bar (>= 2) but it is not going to be installed"
	unmetPattern = regexp.MustCompile(`(?m)^\s*(\S+) : Depends: (\S+)`)
)

// ParseAPTError classifies apt-get stderr. It returns nil when the output
// matches no known failure.
func ParseAPTError(stderr string, originalErr error) *APTError {
	if stderr == "" {
		return nil
	}

	aptErr := &APTError{
		RawOutput:   stderr,
		OriginalErr: originalErr,
	}

	if lockPattern.MatchString(stderr) {
		aptErr.ErrorType = APTErrorLocked
		aptErr.Suggestion = "Another package manager is running. Wait for it to finish and try again"
		return aptErr
	}

	if matches := notFoundPattern.FindAllStringSubmatch(stderr, -1); len(matches) > 0 {
		aptErr.ErrorType = APTErrorPackageNotFound
		for _, m := range matches {
			aptErr.Packages = appendUnique(aptErr.Packages, m[1])
		}
		aptErr.Suggestion = "Run 'apttool update' to refresh the package lists, or 'apttool search' for the right name"
		return aptErr
	}
	if matches := noCandidatePattern.FindAllStringSubmatch(stderr, -1); len(matches) > 0 {
		aptErr.ErrorType = APTErrorPackageNotFound
		for _, m := range matches {
			aptErr.Packages = appendUnique(aptErr.Packages, m[1])
		}
		aptErr.Suggestion = "The package is known but no repository provides it. Check your sources"
		return aptErr
	}

	if heldBrokenPattern.MatchString(stderr) {
		aptErr.ErrorType = APTErrorHeldBroken
		for _, m := range unmetPattern.FindAllStringSubmatch(stderr, -1) {
			aptErr.Packages = appendUnique(aptErr.Packages, m[1])
			aptErr.Packages = appendUnique(aptErr.Packages, m[2])
		}
		aptErr.Suggestion = "Run 'apttool update' and upgrade the system first, then retry"
		return aptErr
	}

	return nil
}

func appendUnique(list []string, s string) []string {
	s = strings.TrimSpace(s)
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
