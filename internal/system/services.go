package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ServiceManager drives systemd units.
type ServiceManager struct {
	runner CommandRunner
}

// NewServiceManager creates a ServiceManager using the default runner.
func NewServiceManager() *ServiceManager {
	return NewServiceManagerWithRunner(NewCommandRunner())
}

// NewServiceManagerWithRunner creates a ServiceManager with a custom runner.
func NewServiceManagerWithRunner(runner CommandRunner) *ServiceManager {
	return &ServiceManager{runner: runner}
}

// UnitExists checks if a unit file exists in the standard locations.
func (s *ServiceManager) UnitExists(serviceName string) (bool, error) {
	locations := []string{
		filepath.Join("/etc/systemd/system", serviceName),
		filepath.Join("/usr/lib/systemd/system", serviceName),
		filepath.Join("/lib/systemd/system", serviceName),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return true, nil
		} else if !os.IsNotExist(err) {
			return false, fmt.Errorf("error checking service at %s: %w", location, err)
		}
	}
	return false, nil
}

// IsActive checks if a service is currently active.
func (s *ServiceManager) IsActive(serviceName string) (bool, error) {
	_, err := s.runner.Run("systemctl", "is-active", "--quiet", serviceName)
	if err == nil {
		return true, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() != 0 {
		return false, nil
	}
	return false, fmt.Errorf("failed to check service status: %w", err)
}

// IsEnabled checks if a service starts at boot.
func (s *ServiceManager) IsEnabled(serviceName string) (bool, error) {
	_, err := s.runner.Run("systemctl", "is-enabled", "--quiet", serviceName)
	if err == nil {
		return true, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() != 0 {
		return false, nil
	}
	return false, fmt.Errorf("failed to check if service is enabled: %w", err)
}

// Enable enables a service to start at boot.
func (s *ServiceManager) Enable(serviceName string) error {
	if output, err := s.runner.Run("systemctl", "enable", serviceName); err != nil {
		return fmt.Errorf("failed to enable service %s: %w\nOutput: %s", serviceName, err, output)
	}
	return nil
}

// Start starts a service.
func (s *ServiceManager) Start(serviceName string) error {
	if output, err := s.runner.Run("systemctl", "start", serviceName); err != nil {
		return fmt.Errorf("failed to start service %s: %w\nOutput: %s", serviceName, err, output)
	}
	return nil
}

// Stop stops a service.
func (s *ServiceManager) Stop(serviceName string) error {
	if output, err := s.runner.Run("systemctl", "stop", serviceName); err != nil {
		return fmt.Errorf("failed to stop service %s: %w\nOutput: %s", serviceName, err, output)
	}
	return nil
}

// Restart restarts a service.
func (s *ServiceManager) Restart(serviceName string) error {
	if output, err := s.runner.Run("systemctl", "restart", serviceName); err != nil {
		return fmt.Errorf("failed to restart service %s: %w\nOutput: %s", serviceName, err, output)
	}
	return nil
}

// DaemonReload reloads the systemd manager configuration.
func (s *ServiceManager) DaemonReload() error {
	if output, err := s.runner.Run("systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("failed to reload systemd daemon: %w\nOutput: %s", err, output)
	}
	return nil
}

// Status returns the status output for a service. systemctl status exits
// non-zero for inactive services; the output is still wanted then.
func (s *ServiceManager) Status(serviceName string) (string, error) {
	return s.runner.Run("systemctl", "status", serviceName, "--no-pager", "-l")
}
