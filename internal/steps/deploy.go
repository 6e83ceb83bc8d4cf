package steps

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvolkov/wg-peer-bot/internal/config"
	"github.com/mvolkov/wg-peer-bot/internal/system"
	"github.com/mvolkov/wg-peer-bot/internal/ui"
	"github.com/mvolkov/wg-peer-bot/internal/wireguard"
)

// Deploy installs the bot binary into the installation directory and
// prepares the client config directory.
type Deploy struct {
	fs      *system.FileSystem
	users   *system.UserManager
	ui      *ui.UI
	markers *config.Markers

	// binarySource overrides where the bot binary is taken from. Empty
	// means "next to the running installer binary".
	binarySource string
	installDir   string
	clientDir    string
}

// NewDeploy creates a Deploy step.
func NewDeploy(fs *system.FileSystem, users *system.UserManager, ui *ui.UI, markers *config.Markers) *Deploy {
	return &Deploy{
		fs:         fs,
		users:      users,
		ui:         ui,
		markers:    markers,
		installDir: InstallDir,
		clientDir:  wireguard.DefaultClientDir,
	}
}

// SetBinarySource overrides the bot binary location (flag or test).
func (s *Deploy) SetBinarySource(path string) {
	s.binarySource = path
}

// SetPaths overrides the install and client directories for tests.
func (s *Deploy) SetPaths(installDir, clientDir string) {
	s.installDir = installDir
	s.clientDir = clientDir
}

// findBinary locates the bot binary to deploy. By default it is expected
// next to the running installer, the shape of the release tarball.
func (s *Deploy) findBinary() (string, error) {
	if s.binarySource != "" {
		return s.binarySource, nil
	}

	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate running executable: %w", err)
	}
	candidate := filepath.Join(filepath.Dir(self), BinaryName)

	exists, err := s.fs.FileExists(candidate)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("bot binary not found at %s; pass --bot-binary", candidate)
	}
	return candidate, nil
}

// Run executes the deployment step.
func (s *Deploy) Run() error {
	s.ui.Step("Deploying bot files")

	source, err := s.findBinary()
	if err != nil {
		return err
	}

	if err := s.fs.EnsureDirectory(s.installDir, 0755); err != nil {
		return err
	}

	target := filepath.Join(s.installDir, BinaryName)
	if err := s.fs.CopyFile(source, target, 0755); err != nil {
		return err
	}
	s.ui.Successf("Installed %s", target)

	if err := s.fs.EnsureDirectory(s.clientDir, 0700); err != nil {
		return err
	}

	// The bot runs as the service user and owns the client configs
	uid, err := s.users.UID(ServiceUser)
	if err != nil {
		return err
	}
	gid, err := s.users.GID(ServiceUser)
	if err != nil {
		return err
	}
	if err := s.fs.Chown(s.clientDir, uid, gid); err != nil {
		return err
	}
	s.ui.Successf("Client config directory ready at %s", s.clientDir)

	if err := s.markers.Create(MarkerDeploy); err != nil {
		return fmt.Errorf("failed to create completion marker: %w", err)
	}
	return nil
}
