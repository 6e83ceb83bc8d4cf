package steps

import (
	"fmt"

	"github.com/mvolkov/wg-peer-bot/internal/config"
	"github.com/mvolkov/wg-peer-bot/internal/system"
	"github.com/mvolkov/wg-peer-bot/internal/ui"
)

// User creates the unprivileged service account the bot runs as.
type User struct {
	users   *system.UserManager
	ui      *ui.UI
	markers *config.Markers
}

// NewUser creates a User step.
func NewUser(users *system.UserManager, ui *ui.UI, markers *config.Markers) *User {
	return &User{
		users:   users,
		ui:      ui,
		markers: markers,
	}
}

// Run executes the service account step. Re-running against an existing
// account is not an error.
func (s *User) Run() error {
	s.ui.Step("Creating service account")

	created, err := s.users.EnsureSystemUser(ServiceUser)
	if err != nil {
		return err
	}
	if created {
		s.ui.Successf("Created system user %s", ServiceUser)
	} else {
		s.ui.Infof("System user %s already exists", ServiceUser)
	}

	if err := s.markers.Create(MarkerUser); err != nil {
		return fmt.Errorf("failed to create completion marker: %w", err)
	}
	return nil
}
