package native

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"apttool/internal/executor"
	"apttool/pkg/manager"
)

func TestAPTManager(t *testing.T) {
	apt := NewAPT(false)

	if apt.Name() != "apt" {
		t.Errorf("expected name 'apt', got '%s'", apt.Name())
	}
	if apt.Binary() != "apt-get" {
		t.Errorf("expected binary 'apt-get', got '%s'", apt.Binary())
	}
	if !apt.NeedsSudo() {
		t.Error("APT should need sudo")
	}
	if apt.DisplayName() == "" {
		t.Error("DisplayName() should not be empty")
	}
	_ = apt.IsAvailable()
}

func TestNalaFrontend(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PATH", dir)

	if apt := NewAPT(true); apt.UsesNala() || apt.Binary() != "apt-get" {
		t.Errorf("without nala on PATH: UsesNala() = %v, Binary() = %q", apt.UsesNala(), apt.Binary())
	}

	if err := os.WriteFile(filepath.Join(dir, "nala"), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	apt := NewAPT(true)
	if !apt.UsesNala() || apt.Binary() != "nala" {
		t.Fatalf("with nala on PATH: UsesNala() = %v, Binary() = %q", apt.UsesNala(), apt.Binary())
	}
	got := strings.Join(apt.InstallArgs([]string{"vim"}, manager.InstallOpts{NoRecommends: true}), " ")
	if got != "install vim" {
		t.Errorf("nala InstallArgs() = %q, want %q", got, "install vim")
	}
	if NewAPT(false).UsesNala() {
		t.Error("nala should only be used when asked for")
	}
}

func TestInstallArgs(t *testing.T) {
	apt := NewAPT(false)

	tests := []struct {
		name string
		opts manager.InstallOpts
		want string
	}{
		{"plain", manager.InstallOpts{}, "install vim"},
		{"yes", manager.InstallOpts{AutoConfirm: true}, "install -y vim"},
		{"reinstall", manager.InstallOpts{Reinstall: true}, "install --reinstall vim"},
		{"no recommends", manager.InstallOpts{NoRecommends: true}, "install --no-install-recommends vim"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(apt.InstallArgs([]string{"vim"}, tt.opts), " ")
			if got != tt.want {
				t.Errorf("InstallArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUninstallArgs(t *testing.T) {
	apt := NewAPT(false)

	got := strings.Join(apt.UninstallArgs([]string{"a", "b"}, manager.UninstallOpts{AutoConfirm: true}), " ")
	if got != "remove -y a b" {
		t.Errorf("UninstallArgs() = %q", got)
	}
	got = strings.Join(apt.UninstallArgs([]string{"a"}, manager.UninstallOpts{Purge: true}), " ")
	if got != "purge a" {
		t.Errorf("UninstallArgs(purge) = %q", got)
	}
}

func newDryRunAPT() (*APT, *bytes.Buffer) {
	apt := NewAPT(false)
	exec := executor.New(false, false)
	var out bytes.Buffer
	exec.SetOutput(&out, &out)
	apt.SetExecutor(exec)
	return apt, &out
}

func TestInstallDryRun(t *testing.T) {
	apt, out := newDryRunAPT()

	err := apt.Install(context.Background(), []string{"vim"}, manager.InstallOpts{DryRun: true, AutoConfirm: true})
	if err != nil {
		t.Fatalf("Install() dry run error: %v", err)
	}
	if !strings.Contains(out.String(), "apt-get install -y vim") {
		t.Errorf("dry-run output = %q", out.String())
	}
	if apt.Executor().DryRun() {
		t.Error("dry-run mode should be restored after Install")
	}
}

func TestUninstallDryRunAutoremove(t *testing.T) {
	apt, out := newDryRunAPT()

	err := apt.Uninstall(context.Background(), []string{"vim"}, manager.UninstallOpts{DryRun: true, Purge: true, Autoremove: true})
	if err != nil {
		t.Fatalf("Uninstall() dry run error: %v", err)
	}
	if !strings.Contains(out.String(), "apt-get purge vim") || !strings.Contains(out.String(), "apt-get autoremove") {
		t.Errorf("dry-run output = %q", out.String())
	}
}
