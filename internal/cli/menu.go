package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/AlecAivazis/survey/v2"
)

// ErrExit signals that the user chose to leave the menu.
var ErrExit = errors.New("exit requested")

const (
	choiceRunAll = "Run full installation"
	choiceStatus = "Show step status"
	choiceExit   = "Exit"
)

func clearScreen() {
	cmd := exec.Command("clear")
	cmd.Stdout = os.Stdout
	cmd.Run()
}

// RunMenu drives the interactive installer menu until the user exits.
func RunMenu(ctx *SetupContext) error {
	for {
		if err := showMenu(ctx); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			return err
		}
	}
}

func showMenu(ctx *SetupContext) error {
	clearScreen()
	ctx.UI.Header("wg-bot installer")

	options := []string{choiceRunAll}
	for _, info := range AllSteps() {
		label := info.Name
		if ctx.IsStepComplete(info.MarkerName) {
			label += " [done]"
		}
		options = append(options, label)
	}
	options = append(options, choiceStatus, choiceExit)

	var choice string
	prompt := &survey.Select{
		Message:  "Select an action:",
		Options:  options,
		PageSize: len(options),
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		// Ctrl-C inside survey surfaces as an interrupt error
		return ErrExit
	}

	switch choice {
	case choiceRunAll:
		if err := ctx.RunAll(); err != nil {
			ctx.UI.Errorf("Installation failed: %v", err)
		}
	case choiceStatus:
		PrintStatus(ctx)
	case choiceExit:
		return ErrExit
	default:
		info, ok := stepByLabel(choice)
		if !ok {
			return fmt.Errorf("unknown menu choice: %s", choice)
		}
		if err := ctx.RunStep(info.ShortName); err != nil {
			ctx.UI.Errorf("Step failed: %v", err)
		}
	}

	pause()
	return nil
}

func stepByLabel(label string) (StepInfo, bool) {
	for _, info := range AllSteps() {
		if label == info.Name || label == info.Name+" [done]" {
			return info, true
		}
	}
	return StepInfo{}, false
}

func pause() {
	fmt.Print("\nPress Enter to continue...")
	fmt.Scanln()
}

// PrintStatus lists every step with its completion state.
func PrintStatus(ctx *SetupContext) {
	ctx.UI.Header("Setup status")
	for _, info := range AllSteps() {
		state := "pending"
		if ctx.IsStepComplete(info.MarkerName) {
			state = "complete"
		}
		ctx.UI.Printf("  %-22s %-10s %s", info.Name, state, info.Description)
	}
}
