package ui

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// PromptYesNo prompts the user for a yes/no answer. In non-interactive mode
// the default is returned without prompting.
func (u *UI) PromptYesNo(prompt string, defaultYes bool) (bool, error) {
	if u.nonInteractive {
		return defaultYes, nil
	}

	var result bool
	p := &survey.Confirm{
		Message: prompt,
		Default: defaultYes,
	}
	err := survey.AskOne(p, &result)
	return result, err
}

// PromptInput prompts the user for text input. In non-interactive mode the
// default is returned without prompting.
func (u *UI) PromptInput(prompt, defaultValue string) (string, error) {
	if u.nonInteractive {
		return defaultValue, nil
	}

	var result string
	p := &survey.Input{
		Message: prompt,
		Default: defaultValue,
	}
	err := survey.AskOne(p, &result)
	return result, err
}

// PromptSecret prompts for a secret value with hidden input. Secrets have
// no usable default, so non-interactive mode is an error.
func (u *UI) PromptSecret(prompt string) (string, error) {
	if u.nonInteractive {
		return "", fmt.Errorf("cannot prompt for %q in non-interactive mode", prompt)
	}

	var result string
	p := &survey.Password{
		Message: prompt,
	}
	err := survey.AskOne(p, &result, survey.WithValidator(survey.Required))
	return result, err
}

// PromptInputWithValidation prompts with a custom validator.
func (u *UI) PromptInputWithValidation(prompt, defaultValue string, validator survey.Validator) (string, error) {
	if u.nonInteractive {
		if err := validator(defaultValue); err != nil {
			return "", fmt.Errorf("default for %q fails validation: %w", prompt, err)
		}
		return defaultValue, nil
	}

	var result string
	p := &survey.Input{
		Message: prompt,
		Default: defaultValue,
	}
	err := survey.AskOne(p, &result, survey.WithValidator(validator))
	return result, err
}

// Validator adapts an error-returning string check into a survey validator.
func Validator(check func(string) error) survey.Validator {
	return func(ans interface{}) error {
		s, ok := ans.(string)
		if !ok {
			return fmt.Errorf("expected a string answer")
		}
		return check(s)
	}
}
