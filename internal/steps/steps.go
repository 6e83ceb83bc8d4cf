// Package steps contains the individual installer steps. Each step is
// idempotent, records its completion with a marker file, and fails fast:
// the first error aborts the whole run with no rollback.
package steps

// Install layout shared by the steps and the systemd unit.
const (
	// ServiceUser is the unprivileged account the bot runs as.
	ServiceUser = "wg-bot"

	// InstallDir is where the bot binary is deployed.
	InstallDir = "/opt/wg-bot"

	// BinaryName is the bot binary file name.
	BinaryName = "wg-bot"

	// BinaryPath is the deployed bot binary.
	BinaryPath = InstallDir + "/" + BinaryName

	// ServiceName is the systemd unit name.
	ServiceName = "wg-bot.service"

	// UnitPath is where the unit file is installed.
	UnitPath = "/etc/systemd/system/" + ServiceName
)

// Marker names, one per step.
const (
	MarkerPreflight = "preflight-complete"
	MarkerPackages  = "packages-complete"
	MarkerUser      = "user-complete"
	MarkerDeploy    = "deploy-complete"
	MarkerConfigure = "configure-complete"
	MarkerService   = "service-complete"
)
