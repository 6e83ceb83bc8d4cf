// Package system wraps the host-level operations the installer performs:
// running commands, installing packages, managing the service account,
// driving systemd, and writing files. The installer only ever runs as root,
// so commands are executed directly rather than through sudo.
package system

import (
	"os/exec"
	"strings"
)

// CommandRunner defines an interface for running system commands. Managers
// take a runner so tests can substitute a recording fake.
type CommandRunner interface {
	Run(name string, args ...string) (string, error)
	RunWithInput(input, name string, args ...string) (string, error)
}

// ExecCommandRunner executes commands on the host.
type ExecCommandRunner struct{}

// NewCommandRunner returns the default command runner implementation.
func NewCommandRunner() CommandRunner {
	return &ExecCommandRunner{}
}

// Run executes a command and returns its combined output.
func (r *ExecCommandRunner) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// RunWithInput executes a command with the given string on stdin and
// returns its combined output.
func (r *ExecCommandRunner) RunWithInput(input, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(input)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// CommandExists checks if a command is available in PATH
func CommandExists(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
