package system

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
)

// UserManager manages the service account the bot runs as.
type UserManager struct {
	runner CommandRunner
	lookup func(username string) (*user.User, error)
}

// NewUserManager creates a UserManager using the default runner.
func NewUserManager() *UserManager {
	return NewUserManagerWithRunner(NewCommandRunner())
}

// NewUserManagerWithRunner creates a UserManager with a custom runner.
func NewUserManagerWithRunner(runner CommandRunner) *UserManager {
	return &UserManager{
		runner: runner,
		lookup: user.Lookup,
	}
}

// SetLookup overrides the user lookup function. Tests use this to simulate
// existing and missing accounts without touching the host user database.
func (m *UserManager) SetLookup(lookup func(username string) (*user.User, error)) {
	m.lookup = lookup
}

// Exists checks if a user exists.
func (m *UserManager) Exists(username string) (bool, error) {
	_, err := m.lookup(username)
	if err == nil {
		return true, nil
	}
	if _, ok := err.(user.UnknownUserError); ok {
		return false, nil
	}
	return false, fmt.Errorf("failed to lookup user %s: %w", username, err)
}

// EnsureSystemUser creates a system account with no login shell and no
// home directory unless it already exists. Idempotent: an existing account
// is left untouched.
func (m *UserManager) EnsureSystemUser(username string) (created bool, err error) {
	exists, err := m.Exists(username)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	output, err := m.runner.Run("useradd",
		"--system",
		"--no-create-home",
		"--shell", "/usr/sbin/nologin",
		username)
	if err != nil {
		return false, fmt.Errorf("failed to create user %s: %w\nOutput: %s", username, err, output)
	}

	return true, nil
}

// UID returns the numeric uid for a username.
func (m *UserManager) UID(username string) (int, error) {
	u, err := m.lookup(username)
	if err != nil {
		return 0, fmt.Errorf("failed to get UID for %s: %w", username, err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return 0, fmt.Errorf("invalid UID for %s: %w", username, err)
	}
	return uid, nil
}

// GID returns the primary gid for a username.
func (m *UserManager) GID(username string) (int, error) {
	u, err := m.lookup(username)
	if err != nil {
		return 0, fmt.Errorf("failed to get GID for %s: %w", username, err)
	}

	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return 0, fmt.Errorf("invalid GID for %s: %w", username, err)
	}
	return gid, nil
}

// IsRoot reports whether the current process runs with uid 0.
func IsRoot() bool {
	return os.Geteuid() == 0
}
