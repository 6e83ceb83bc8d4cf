// Package cli bridges the cobra commands to the installer steps: shared
// dependency wiring, the step registry, and the interactive menu.
package cli

import (
	"fmt"

	"github.com/mvolkov/wg-peer-bot/internal/config"
	"github.com/mvolkov/wg-peer-bot/internal/steps"
	"github.com/mvolkov/wg-peer-bot/internal/system"
	"github.com/mvolkov/wg-peer-bot/internal/ui"
)

// Options customizes a SetupContext.
type Options struct {
	NonInteractive bool
	EnvFilePath    string // empty selects the default
	MarkerDir      string // empty selects the default

	// BotBinary overrides where the deploy step finds the bot binary.
	BotBinary string

	// Answers pre-seeds the configure step prompts.
	Answers steps.ConfigureAnswers
}

// SetupContext holds the dependencies shared by all commands.
type SetupContext struct {
	Env     *config.EnvFile
	Markers *config.Markers
	UI      *ui.UI

	Users    *system.UserManager
	Packages *system.PackageManager
	Services *system.ServiceManager
	FS       *system.FileSystem

	opts Options
}

// NewSetupContext creates a SetupContext with all dependencies initialized.
func NewSetupContext(opts Options) (*SetupContext, error) {
	env := config.New(opts.EnvFilePath)
	if err := env.Load(); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	uiInstance := ui.New()
	uiInstance.SetNonInteractive(opts.NonInteractive)

	runner := system.NewCommandRunner()

	return &SetupContext{
		Env:      env,
		Markers:  config.NewMarkers(opts.MarkerDir),
		UI:       uiInstance,
		Users:    system.NewUserManagerWithRunner(runner),
		Packages: system.NewPackageManagerWithRunner(runner),
		Services: system.NewServiceManagerWithRunner(runner),
		FS:       system.NewFileSystem(),
		opts:     opts,
	}, nil
}

// StepInfo contains metadata about a setup step.
type StepInfo struct {
	Name        string
	ShortName   string
	Description string
	MarkerName  string
}

// AllSteps returns all steps in execution order.
func AllSteps() []StepInfo {
	return []StepInfo{
		{Name: "Pre-flight Check", ShortName: "preflight", Description: "Verify root and host tools", MarkerName: steps.MarkerPreflight},
		{Name: "Package Installation", ShortName: "packages", Description: "Install wireguard-tools", MarkerName: steps.MarkerPackages},
		{Name: "Service Account", ShortName: "user", Description: "Create the wg-bot system user", MarkerName: steps.MarkerUser},
		{Name: "File Deployment", ShortName: "deploy", Description: "Install the bot binary and directories", MarkerName: steps.MarkerDeploy},
		{Name: "Configuration", ShortName: "configure", Description: "Collect settings and write the env file", MarkerName: steps.MarkerConfigure},
		{Name: "Service Installation", ShortName: "service", Description: "Install and start the systemd unit", MarkerName: steps.MarkerService},
	}
}

// IsStepComplete checks a step's completion marker.
func (ctx *SetupContext) IsStepComplete(markerName string) bool {
	exists, err := ctx.Markers.Exists(markerName)
	if err != nil {
		ctx.UI.Warningf("Failed to check marker %s: %v", markerName, err)
		return false
	}
	return exists
}

// buildStep constructs the step implementation for a short name.
func (ctx *SetupContext) buildStep(shortName string) (interface{ Run() error }, error) {
	switch shortName {
	case "preflight":
		return steps.NewPreflight(ctx.UI, ctx.Markers), nil
	case "packages":
		return steps.NewPackages(ctx.Packages, ctx.UI, ctx.Markers), nil
	case "user":
		return steps.NewUser(ctx.Users, ctx.UI, ctx.Markers), nil
	case "deploy":
		step := steps.NewDeploy(ctx.FS, ctx.Users, ctx.UI, ctx.Markers)
		if ctx.opts.BotBinary != "" {
			step.SetBinarySource(ctx.opts.BotBinary)
		}
		return step, nil
	case "configure":
		step := steps.NewConfigure(ctx.Env, ctx.UI, ctx.Markers)
		step.SetAnswers(ctx.opts.Answers)
		return step, nil
	case "service":
		return steps.NewService(ctx.FS, ctx.Services, ctx.Env, ctx.UI, ctx.Markers), nil
	default:
		return nil, fmt.Errorf("unknown step: %s", shortName)
	}
}

// findStep resolves a short name to its metadata.
func findStep(shortName string) (StepInfo, bool) {
	for _, info := range AllSteps() {
		if info.ShortName == shortName {
			return info, true
		}
	}
	return StepInfo{}, false
}

// RunStep executes a single step by short name. Completed steps prompt
// for a re-run (and are skipped silently in non-interactive mode).
func (ctx *SetupContext) RunStep(shortName string) error {
	info, ok := findStep(shortName)
	if !ok {
		return fmt.Errorf("unknown step: %s", shortName)
	}

	if ctx.IsStepComplete(info.MarkerName) {
		if ctx.UI.IsNonInteractive() {
			ctx.UI.Infof("%s already completed, skipping", info.Name)
			return nil
		}
		ctx.UI.Infof("%s already completed", info.Name)
		rerun, err := ctx.UI.PromptYesNo("Run again?", false)
		if err != nil || !rerun {
			return nil
		}
		if err := ctx.Markers.Remove(info.MarkerName); err != nil {
			ctx.UI.Warningf("Failed to remove marker: %v", err)
		}
	}

	step, err := ctx.buildStep(shortName)
	if err != nil {
		return err
	}
	if err := step.Run(); err != nil {
		return err
	}

	ctx.UI.Successf("Step '%s' completed", shortName)
	return nil
}

// RunAll executes all steps in order, stopping at the first failure.
func (ctx *SetupContext) RunAll() error {
	for _, info := range AllSteps() {
		if err := ctx.RunStep(info.ShortName); err != nil {
			return fmt.Errorf("step %s failed: %w", info.ShortName, err)
		}
	}

	ctx.UI.Separator()
	ctx.UI.Success("Installation complete!")
	ctx.UI.Infof("Check the service with: systemctl status %s", steps.ServiceName)
	return nil
}
