package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/registration-relay/internal/models"
)

type promptKind int

const (
	promptText promptKind = iota
	promptSecret
	promptChoice
)

type fieldPrompt struct {
	label   string
	help    string
	kind    promptKind
	options []string
}

var fieldPrompts = map[string]fieldPrompt{
	models.FieldFullName:        {label: "Full Name", help: "Enter your full name"},
	models.FieldGuardianName:    {label: "Guardian Name", help: "Enter guardian's name"},
	models.FieldClassGrade:      {label: "Class/Grade", help: "Select your class/grade", kind: promptChoice, options: models.ClassGrades},
	models.FieldLanguage:        {label: "Language", help: "Select your preferred language", kind: promptChoice, options: models.Languages},
	models.FieldLocation:        {label: "Location", help: "Enter your location"},
	models.FieldEmailAddress:    {label: "Email Address", help: "Enter your email address"},
	models.FieldPassword:        {label: "Password", help: "Create a password", kind: promptSecret},
	models.FieldConfirmPassword: {label: "Confirm Password", help: "Confirm your password", kind: promptSecret},
}

// RunSession walks the user through the form, re-asking only the fields that failed
// validation, and submits through the controller until it succeeds or the user gives up.
func RunSession(ctx context.Context, ctrl *Controller, driver PromptDriver) error {
	pending := models.FormFields
	for {
		for _, field := range pending {
			if err := askField(ctx, ctrl, driver, field); err != nil {
				return err
			}
		}

		err := ctrl.Submit(ctx)
		state := ctrl.State()
		switch {
		case err == nil:
			return driver.Info(ctx, state.Message)
		case errors.Is(err, ErrInvalidInput):
			pending = state.Errors.Fields()
		case errors.Is(err, ErrSubmitInFlight):
			return err
		default:
			if infoErr := driver.Info(ctx, state.Message); infoErr != nil {
				return infoErr
			}
			retry, confirmErr := driver.Confirm(ctx, "Try again?", true)
			if confirmErr != nil {
				return confirmErr
			}
			if !retry {
				return err
			}
			pending = nil
		}
	}
}

func askField(ctx context.Context, ctrl *Controller, driver PromptDriver, field string) error {
	prompt, ok := fieldPrompts[field]
	if !ok {
		return fmt.Errorf("no prompt for field %q", field)
	}

	state := ctrl.State()
	if msg, failed := state.Errors[field]; failed {
		if err := driver.Info(ctx, "! "+msg); err != nil {
			return err
		}
	}
	current, err := state.Input.Get(field)
	if err != nil {
		return err
	}

	var value string
	switch prompt.kind {
	case promptChoice:
		value, err = driver.Select(ctx, SelectConfig{Message: prompt.label, Options: prompt.options, Default: current, Help: prompt.help})
	case promptSecret:
		value, err = driver.Password(ctx, InputConfig{Message: prompt.label, Help: prompt.help})
	default:
		value, err = driver.Input(ctx, InputConfig{Message: prompt.label, Default: current, Help: prompt.help})
	}
	if err != nil {
		return err
	}
	return ctrl.UpdateField(field, value)
}
