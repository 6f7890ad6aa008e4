package main

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var errInterrupted = errors.New("interrupted")

// Prompter asks the operator for values. The survey implementation talks to
// the terminal; tests script the answers.
type Prompter interface {
	Input(msg, def, help string) (string, error)
	Password(msg string) (string, error)
	Confirm(msg string, def bool) (bool, error)
	Select(msg string, options []string, def string) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(msg, def, help string) (string, error) {
	var out string
	prompt := &survey.Input{Message: msg, Default: def, Help: help}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Password(msg string) (string, error) {
	var out string
	prompt := &survey.Password{Message: msg}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.Required)); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Confirm(msg string, def bool) (bool, error) {
	var out bool
	prompt := &survey.Confirm{Message: msg, Default: def}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Select(msg string, options []string, def string) (string, error) {
	var out string
	prompt := &survey.Select{Message: msg, Options: options}
	for _, o := range options {
		if o == def {
			prompt.Default = def
			break
		}
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errInterrupted
	}
	return err
}
