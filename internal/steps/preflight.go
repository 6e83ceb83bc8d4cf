package steps

import (
	"fmt"
	"os"

	"github.com/mvolkov/wg-peer-bot/internal/config"
	"github.com/mvolkov/wg-peer-bot/internal/system"
	"github.com/mvolkov/wg-peer-bot/internal/ui"
)

// Preflight verifies the host before anything is touched: the installer
// must run as root and the tools it drives must exist.
type Preflight struct {
	ui      *ui.UI
	markers *config.Markers

	// euid is swappable so the root check is testable.
	euid func() int
}

// NewPreflight creates a Preflight step.
func NewPreflight(ui *ui.UI, markers *config.Markers) *Preflight {
	return &Preflight{
		ui:      ui,
		markers: markers,
		euid:    os.Geteuid,
	}
}

// SetEUID overrides the effective-uid source for tests.
func (p *Preflight) SetEUID(euid func() int) {
	p.euid = euid
}

// CheckRoot fails unless the process runs as root. Every later step
// writes under /etc and /opt and drives systemd, so there is no point
// continuing without uid 0.
func (p *Preflight) CheckRoot() error {
	if p.euid() != 0 {
		return fmt.Errorf("this installer must run as root (euid %d)", p.euid())
	}
	return nil
}

// CheckTools verifies the host commands the steps shell out to.
func (p *Preflight) CheckTools() error {
	for _, tool := range []string{"apt-get", "dpkg", "systemctl", "useradd"} {
		if !system.CommandExists(tool) {
			return fmt.Errorf("required command not found in PATH: %s", tool)
		}
	}
	return nil
}

// Run executes the preflight step.
func (p *Preflight) Run() error {
	p.ui.Step("Pre-flight checks")

	if err := p.CheckRoot(); err != nil {
		return err
	}
	p.ui.Success("Running as root")

	if err := p.CheckTools(); err != nil {
		return err
	}
	p.ui.Success("Required host tools are available")

	if err := p.markers.Create(MarkerPreflight); err != nil {
		return fmt.Errorf("failed to create completion marker: %w", err)
	}
	return nil
}
