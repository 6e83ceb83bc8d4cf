package system

import (
	"fmt"
	"strings"
	"sync"
)

// MockCommandRunner records every command instead of executing it. Results
// can be scripted per command prefix for testing failure paths.
type MockCommandRunner struct {
	mu       sync.Mutex
	Commands []string
	Inputs   map[string]string
	Outputs  map[string]string
	Errors   map[string]error
}

// NewMockCommandRunner creates a new MockCommandRunner.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		Inputs:  make(map[string]string),
		Outputs: make(map[string]string),
		Errors:  make(map[string]error),
	}
}

// Run records the command and returns any scripted output or error whose
// key is a prefix of the full command line.
func (m *MockCommandRunner) Run(name string, args ...string) (string, error) {
	return m.RunWithInput("", name, args...)
}

// RunWithInput records the command and its stdin.
func (m *MockCommandRunner) RunWithInput(input, name string, args ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmdline := strings.Join(append([]string{name}, args...), " ")
	m.Commands = append(m.Commands, cmdline)
	if input != "" {
		m.Inputs[cmdline] = input
	}

	for prefix, err := range m.Errors {
		if strings.HasPrefix(cmdline, prefix) {
			return fmt.Sprintf("mock failure for %s", prefix), err
		}
	}
	for prefix, out := range m.Outputs {
		if strings.HasPrefix(cmdline, prefix) {
			return out, nil
		}
	}
	return "", nil
}

// Ran reports whether a command with the given prefix was executed.
func (m *MockCommandRunner) Ran(prefix string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cmdline := range m.Commands {
		if strings.HasPrefix(cmdline, prefix) {
			return true
		}
	}
	return false
}
