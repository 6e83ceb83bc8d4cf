package steps

import (
	"fmt"

	"github.com/mvolkov/wg-peer-bot/internal/config"
	"github.com/mvolkov/wg-peer-bot/internal/system"
	"github.com/mvolkov/wg-peer-bot/internal/ui"
)

// requiredPackages are the OS packages the bot host needs. qrencode is
// handy for debugging client configs from a root shell but the bot itself
// renders QR codes in-process.
var requiredPackages = []string{"wireguard-tools", "qrencode"}

// Packages installs the OS dependencies.
type Packages struct {
	packages *system.PackageManager
	ui       *ui.UI
	markers  *config.Markers
}

// NewPackages creates a Packages step.
func NewPackages(packages *system.PackageManager, ui *ui.UI, markers *config.Markers) *Packages {
	return &Packages{
		packages: packages,
		ui:       ui,
		markers:  markers,
	}
}

// Run executes the package installation step.
func (s *Packages) Run() error {
	s.ui.Step("Installing OS packages")

	s.ui.Info("Updating package index...")
	if err := s.packages.Update(); err != nil {
		return err
	}

	s.ui.Infof("Installing: %v", requiredPackages)
	if err := s.packages.Install(requiredPackages...); err != nil {
		return err
	}
	s.ui.Success("Packages installed")

	if !system.CommandExists("wg") {
		return fmt.Errorf("wg command not available after package installation")
	}

	if err := s.markers.Create(MarkerPackages); err != nil {
		return fmt.Errorf("failed to create completion marker: %w", err)
	}
	return nil
}
