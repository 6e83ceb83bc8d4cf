package steps

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/mvolkov/wg-peer-bot/internal/config"
	"github.com/mvolkov/wg-peer-bot/internal/system"
	"github.com/mvolkov/wg-peer-bot/internal/ui"
	"github.com/mvolkov/wg-peer-bot/internal/wireguard"
)

// UnitParams fills the systemd unit template.
type UnitParams struct {
	User        string
	EnvFilePath string
	WorkingDir  string
	BinaryPath  string
	ClientDir   string
}

// The bot needs CAP_NET_ADMIN for the wgctrl netlink calls but otherwise
// runs as the unprivileged service account.
var unitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description=WireGuard Telegram peer-management bot
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
User={{ .User }}
Group={{ .User }}
EnvironmentFile={{ .EnvFilePath }}
WorkingDirectory={{ .WorkingDir }}
ExecStart={{ .BinaryPath }}
Restart=on-failure
RestartSec=5
AmbientCapabilities=CAP_NET_ADMIN
CapabilityBoundingSet=CAP_NET_ADMIN
NoNewPrivileges=true
ProtectSystem=full
ReadWritePaths={{ .ClientDir }}

[Install]
WantedBy=multi-user.target
`))

// RenderUnit renders the systemd unit file.
func RenderUnit(params UnitParams) (string, error) {
	var buf bytes.Buffer
	if err := unitTemplate.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("failed to render unit file: %w", err)
	}
	return buf.String(), nil
}

// Service installs, enables, and starts the systemd unit.
type Service struct {
	fs       *system.FileSystem
	services *system.ServiceManager
	env      *config.EnvFile
	ui       *ui.UI
	markers  *config.Markers

	unitPath string
}

// NewService creates a Service step.
func NewService(fs *system.FileSystem, services *system.ServiceManager, env *config.EnvFile, ui *ui.UI, markers *config.Markers) *Service {
	return &Service{
		fs:       fs,
		services: services,
		env:      env,
		ui:       ui,
		markers:  markers,
		unitPath: UnitPath,
	}
}

// SetUnitPath overrides the unit file location for tests.
func (s *Service) SetUnitPath(path string) {
	s.unitPath = path
}

// Run executes the service installation step.
func (s *Service) Run() error {
	s.ui.Step("Installing systemd service")

	unit, err := RenderUnit(UnitParams{
		User:        ServiceUser,
		EnvFilePath: s.env.FilePath(),
		WorkingDir:  InstallDir,
		BinaryPath:  BinaryPath,
		ClientDir:   wireguard.DefaultClientDir,
	})
	if err != nil {
		return err
	}

	if err := s.fs.WriteFile(s.unitPath, []byte(unit), 0644); err != nil {
		return err
	}
	s.ui.Successf("Unit written to %s", s.unitPath)

	if err := s.services.DaemonReload(); err != nil {
		return err
	}
	if err := s.services.Enable(ServiceName); err != nil {
		return err
	}
	if err := s.services.Restart(ServiceName); err != nil {
		return err
	}
	s.ui.Successf("Service %s enabled and started", ServiceName)

	if err := s.markers.Create(MarkerService); err != nil {
		return fmt.Errorf("failed to create completion marker: %w", err)
	}
	return nil
}
