package native

import (
	"errors"
	"testing"
)

func TestParseAPTError_Locked(t *testing.T) {
	stderr := `E: Could not get lock /var/lib/dpkg/lock-frontend. It is held by process 4242 (apt-get)
N: Be aware that removing the lock file is not a solution and may break your system.
E: Unable to acquire the dpkg frontend lock (/var/lib/dpkg/lock-frontend), is another process using it?`

	aptErr := ParseAPTError(stderr, errors.New("exit status 100"))
	if aptErr == nil {
		t.Fatal("expected APTError, got nil")
	}
	if aptErr.ErrorType != APTErrorLocked {
		t.Errorf("expected ErrorType=%d, got %d", APTErrorLocked, aptErr.ErrorType)
	}
	if aptErr.Suggestion == "" {
		t.Error("expected non-empty Suggestion")
	}
}

func TestParseAPTError_NotFound(t *testing.T) {
	stderr := `Reading package lists...
Building dependency tree...
E: Unable to locate package nosuchpkg
E: Unable to locate package otherpkg`

	aptErr := ParseAPTError(stderr, errors.New("exit status 100"))
	if aptErr == nil {
		t.Fatal("expected APTError, got nil")
	}
	if aptErr.ErrorType != APTErrorPackageNotFound {
		t.Errorf("expected ErrorType=%d, got %d", APTErrorPackageNotFound, aptErr.ErrorType)
	}
	if len(aptErr.Packages) != 2 || aptErr.Packages[0] != "nosuchpkg" {
		t.Errorf("Packages = %v", aptErr.Packages)
	}
}

func TestParseAPTError_NoCandidate(t *testing.T) {
	stderr := `E: Package 'python' has no installation candidate`

	aptErr := ParseAPTError(stderr, errors.New("exit status 100"))
	if aptErr == nil || aptErr.ErrorType != APTErrorPackageNotFound {
		t.Fatalf("expected package-not-found, got %+v", aptErr)
	}
	if len(aptErr.Packages) != 1 || aptErr.Packages[0] != "python" {
		t.Errorf("Packages = %v", aptErr.Packages)
	}
}

func TestParseAPTError_HeldBroken(t *testing.T) {
	stderr := `The following packages have unmet dependencies:
 libfoo2 : Depends: libbar1 (>= 2.0) but it is not going to be installed
E: Unable to correct problems, you have held broken packages.`

	aptErr := ParseAPTError(stderr, errors.New("exit status 100"))
	if aptErr == nil {
		t.Fatal("expected APTError, got nil")
	}
	if aptErr.ErrorType != APTErrorHeldBroken {
		t.Errorf("expected ErrorType=%d, got %d", APTErrorHeldBroken, aptErr.ErrorType)
	}
	if len(aptErr.Packages) != 2 || aptErr.Packages[0] != "libfoo2" || aptErr.Packages[1] != "libbar1" {
		t.Errorf("Packages = %v", aptErr.Packages)
	}
}

func TestParseAPTError_Unknown(t *testing.T) {
	if aptErr := ParseAPTError("E: Sub-process /usr/bin/dpkg returned an error code (1)", errors.New("exit status 100")); aptErr != nil {
		t.Errorf("expected nil for unknown error, got %+v", aptErr)
	}
	if aptErr := ParseAPTError("", errors.New("exit status 1")); aptErr != nil {
		t.Errorf("expected nil for empty stderr, got %+v", aptErr)
	}
}

func TestAPTErrorUnwrap(t *testing.T) {
	orig := errors.New("exit status 100")
	aptErr := ParseAPTError("E: Unable to locate package x", orig)
	if !errors.Is(aptErr, orig) {
		t.Error("errors.Is should find the original error")
	}
	if aptErr.Error() != orig.Error() {
		t.Errorf("Error() = %q", aptErr.Error())
	}
}
