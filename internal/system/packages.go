package system

import (
	"fmt"
	"os/exec"
)

// PackageManager installs and queries Debian packages.
type PackageManager struct {
	runner CommandRunner
}

// NewPackageManager creates a PackageManager using the default runner.
func NewPackageManager() *PackageManager {
	return NewPackageManagerWithRunner(NewCommandRunner())
}

// NewPackageManagerWithRunner creates a PackageManager with a custom runner.
func NewPackageManagerWithRunner(runner CommandRunner) *PackageManager {
	return &PackageManager{runner: runner}
}

// IsInstalled checks if a package is installed via dpkg. Only exit code 1
// means "not installed"; any other failure (dpkg missing, status database
// broken) is an error.
func (p *PackageManager) IsInstalled(packageName string) (bool, error) {
	_, err := p.runner.Run("dpkg", "-s", packageName)
	if err == nil {
		return true, nil
	}

	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		return false, nil
	}

	return false, fmt.Errorf("failed to check package %s: %w", packageName, err)
}

// Install installs packages non-interactively. Already-installed packages
// are skipped so repeated runs stay cheap and quiet.
func (p *PackageManager) Install(packages ...string) error {
	var missing []string
	for _, pkg := range packages {
		installed, err := p.IsInstalled(pkg)
		if err != nil {
			return err
		}
		if !installed {
			missing = append(missing, pkg)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	args := append([]string{"install", "-y", "--no-install-recommends"}, missing...)
	if output, err := p.runner.Run("apt-get", args...); err != nil {
		return fmt.Errorf("failed to install packages %v: %w\nOutput: %s", missing, err, output)
	}

	return nil
}

// Update refreshes the package index.
func (p *PackageManager) Update() error {
	if output, err := p.runner.Run("apt-get", "update"); err != nil {
		return fmt.Errorf("failed to update package index: %w\nOutput: %s", err, output)
	}
	return nil
}
