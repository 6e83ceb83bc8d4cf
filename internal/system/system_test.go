package system

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"testing"
)

// Test CommandExists
func TestCommandExists(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    bool
	}{
		{"ls exists", "ls", true},
		{"sh exists", "sh", true},
		{"nonexistent command", "this-command-does-not-exist-xyz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommandExists(tt.command)
			if got != tt.want {
				t.Errorf("CommandExists(%s) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}

func TestEnsureSystemUserSkipsExisting(t *testing.T) {
	runner := NewMockCommandRunner()
	um := NewUserManagerWithRunner(runner)
	um.SetLookup(func(username string) (*user.User, error) {
		return &user.User{Username: username, Uid: "999", Gid: "999"}, nil
	})

	created, err := um.EnsureSystemUser("wg-bot")
	if err != nil {
		t.Fatalf("EnsureSystemUser failed: %v", err)
	}
	if created {
		t.Error("EnsureSystemUser reported created for an existing user")
	}
	if runner.Ran("useradd") {
		t.Error("useradd was executed for an existing user")
	}
}

func TestEnsureSystemUserCreatesMissing(t *testing.T) {
	runner := NewMockCommandRunner()
	um := NewUserManagerWithRunner(runner)
	um.SetLookup(func(username string) (*user.User, error) {
		return nil, user.UnknownUserError(username)
	})

	created, err := um.EnsureSystemUser("wg-bot")
	if err != nil {
		t.Fatalf("EnsureSystemUser failed: %v", err)
	}
	if !created {
		t.Error("EnsureSystemUser did not report creation")
	}
	if !runner.Ran("useradd --system --no-create-home --shell /usr/sbin/nologin wg-bot") {
		t.Errorf("unexpected commands: %v", runner.Commands)
	}
}

func TestEnsureSystemUserCreateFailure(t *testing.T) {
	runner := NewMockCommandRunner()
	runner.Errors["useradd"] = errors.New("useradd: permission denied")
	um := NewUserManagerWithRunner(runner)
	um.SetLookup(func(username string) (*user.User, error) {
		return nil, user.UnknownUserError(username)
	})

	if _, err := um.EnsureSystemUser("wg-bot"); err == nil {
		t.Fatal("expected error when useradd fails")
	}
}

func TestServiceManagerCommands(t *testing.T) {
	runner := NewMockCommandRunner()
	sm := NewServiceManagerWithRunner(runner)

	if err := sm.DaemonReload(); err != nil {
		t.Fatalf("DaemonReload failed: %v", err)
	}
	if err := sm.Enable("wg-bot.service"); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if err := sm.Start("wg-bot.service"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for _, want := range []string{
		"systemctl daemon-reload",
		"systemctl enable wg-bot.service",
		"systemctl start wg-bot.service",
	} {
		if !runner.Ran(want) {
			t.Errorf("missing command %q in %v", want, runner.Commands)
		}
	}
}

func TestServiceManagerStartFailure(t *testing.T) {
	runner := NewMockCommandRunner()
	runner.Errors["systemctl start"] = errors.New("unit not found")
	sm := NewServiceManagerWithRunner(runner)

	if err := sm.Start("wg-bot.service"); err == nil {
		t.Fatal("expected error when systemctl start fails")
	}
}

func TestPackageManagerInstallSkipsInstalled(t *testing.T) {
	runner := NewMockCommandRunner()
	// dpkg -s succeeds for every package: nothing should be installed
	pm := NewPackageManagerWithRunner(runner)

	if err := pm.Install("wireguard-tools"); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if runner.Ran("apt-get install") {
		t.Errorf("apt-get install ran for already-installed package: %v", runner.Commands)
	}
}

// exitError produces a real *exec.ExitError with the given exit code.
func exitError(t *testing.T, code int) *exec.ExitError {
	t.Helper()
	err := exec.Command("sh", "-c", fmt.Sprintf("exit %d", code)).Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *exec.ExitError, got %v", err)
	}
	return exitErr
}

func TestPackageManagerIsInstalledExitCodes(t *testing.T) {
	// dpkg -s exit 1 means the package is not installed
	runner := NewMockCommandRunner()
	runner.Errors["dpkg -s"] = exitError(t, 1)
	pm := NewPackageManagerWithRunner(runner)

	installed, err := pm.IsInstalled("wireguard-tools")
	if err != nil {
		t.Fatalf("IsInstalled failed: %v", err)
	}
	if installed {
		t.Error("IsInstalled = true for dpkg exit code 1")
	}

	// Any other exit code is a dpkg failure, not an answer
	runner = NewMockCommandRunner()
	runner.Errors["dpkg -s"] = exitError(t, 2)
	pm = NewPackageManagerWithRunner(runner)

	if _, err := pm.IsInstalled("wireguard-tools"); err == nil {
		t.Error("IsInstalled swallowed dpkg exit code 2")
	}

	// So is dpkg being missing entirely
	runner = NewMockCommandRunner()
	runner.Errors["dpkg -s"] = &exec.Error{Name: "dpkg", Err: exec.ErrNotFound}
	pm = NewPackageManagerWithRunner(runner)

	if _, err := pm.IsInstalled("wireguard-tools"); err == nil {
		t.Error("IsInstalled swallowed a missing dpkg binary")
	}
}

func TestFileSystemWriteFile(t *testing.T) {
	fs := NewFileSystem()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "unit.service")

	if err := fs.WriteFile(path, []byte("[Unit]\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "[Unit]\n" {
		t.Errorf("content = %q, want %q", content, "[Unit]\n")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0644 {
		t.Errorf("mode = %o, want 0644", perm)
	}
}

func TestFileSystemCopyFile(t *testing.T) {
	fs := NewFileSystem()
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "wg-bot")
	dst := filepath.Join(tmpDir, "opt", "wg-bot")

	if err := os.WriteFile(src, []byte("binary"), 0755); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := fs.EnsureDirectory(filepath.Dir(dst), 0755); err != nil {
		t.Fatalf("EnsureDirectory failed: %v", err)
	}
	if err := fs.CopyFile(src, dst, 0755); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	content, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "binary" {
		t.Errorf("copied content = %q, want %q", content, "binary")
	}
}

func TestEnsureDirectoryRejectsFile(t *testing.T) {
	fs := NewFileSystem()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "not-a-dir")

	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := fs.EnsureDirectory(path, 0755); err == nil {
		t.Fatal("expected error for file at directory path")
	}
}
