package view

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/blankon/repackage-go/internal/cli/entity"
	"github.com/blankon/repackage-go/internal/cli/usecase"
)

// Action is what the user does after a result is shown.
type Action string

const (
	ActionDownload   Action = "Download"
	ActionRetry      Action = "Retry"
	ActionNewTask    Action = "New task"
	ActionSwitchMode Action = "Switch mode"
	ActionQuit       Action = "Quit"
)

var modeLabels = map[entity.Mode]string{
	entity.ModeLocal:  "Local file",
	entity.ModeMarket: "Marketplace",
	entity.ModeGithub: "GitHub release",
}

var executionLabels = map[entity.Execution]string{
	entity.ExecutionLocal:     "Local Python",
	entity.ExecutionDocker:    "Existing Docker container",
	entity.ExecutionNewDocker: "New Docker environment",
}

// ModeLabel is the menu text of a mode option, e.g. "Marketplace (Recommended)".
func ModeLabel(option usecase.ModeOption) string {
	label := modeLabels[option.Mode]
	if label == "" {
		label = string(option.Mode)
	}
	if option.Tag != "" {
		label += " (" + option.Tag + ")"
	}
	return label
}

// Actions lists the post-result choices. Download is offered only when there
// is a target.
func Actions(state *entity.FormState) []Action {
	var actions []Action
	if state.DownloadTarget != "" {
		actions = append(actions, ActionDownload)
	}
	if state.Result.Visible == entity.PanelError {
		actions = append(actions, ActionRetry)
	}
	return append(actions, ActionNewTask, ActionSwitchMode, ActionQuit)
}

// Form asks the user for input with promptui.
type Form struct {
	Validator *usecase.Validator
}

// SelectMode loops until an enabled mode is picked.
func (f Form) SelectMode(options []usecase.ModeOption, current entity.Mode) (entity.Mode, error) {
	labels := make([]string, len(options))
	cursor := 0
	for i, option := range options {
		labels[i] = ModeLabel(option)
		if option.Mode == current {
			cursor = i
		}
	}

	for {
		prompt := promptui.Select{
			Label:     "Repackaging mode",
			Items:     labels,
			CursorPos: cursor,
			HideHelp:  true,
		}
		i, _, err := prompt.Run()
		if err != nil {
			return current, err
		}
		if options[i].Disabled {
			fmt.Printf("%s %s is not supported by the server environment\n", promptui.IconBad, modeLabels[options[i].Mode])
			cursor = i
			continue
		}
		return options[i].Mode, nil
	}
}

func (f Form) SelectExecution(current entity.Execution) (entity.Execution, error) {
	labels := make([]string, len(entity.Executions))
	cursor := 0
	for i, execution := range entity.Executions {
		labels[i] = executionLabels[execution]
		if execution == current {
			cursor = i
		}
	}
	prompt := promptui.Select{
		Label:     "Execution environment",
		Items:     labels,
		CursorPos: cursor,
		HideHelp:  true,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return current, err
	}
	return entity.Executions[i], nil
}

// PromptField asks for one form field with live validation.
func (f Form) PromptField(label string, field entity.Field, value string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: value,
		Validate: func(input string) error {
			if msg := f.Validator.CheckField(field, input); msg != "" {
				return errors.New(msg)
			}
			return nil
		},
	}
	result, err := prompt.Run()
	return strings.TrimSpace(result), err
}

// PromptFile asks for a local package path and checks it the way the upload
// does before any request is made.
func (f Form) PromptFile() (string, error) {
	prompt := promptui.Prompt{
		Label: "Package file (.difypkg)",
		Validate: func(input string) error {
			path := expandHome(strings.TrimSpace(input))
			info, err := os.Stat(path)
			if err != nil {
				return errors.New("file not found")
			}
			if info.IsDir() {
				return errors.New("not a file")
			}
			return usecase.CheckUpload(filepath.Base(path), info.Size())
		},
	}
	result, err := prompt.Run()
	return expandHome(strings.TrimSpace(result)), err
}

func (f Form) SelectAction(state *entity.FormState) (Action, error) {
	actions := Actions(state)
	prompt := promptui.Select{
		Label:    "What next?",
		Items:    actions,
		HideHelp: true,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return ActionQuit, err
	}
	return actions[i], nil
}

// ConfirmLeave asks before abandoning an in-flight job.
func (f Form) ConfirmLeave() bool {
	prompt := promptui.Prompt{
		Label:     "A job is still processing. Leave anyway",
		IsConfirm: true,
	}
	result, err := prompt.Run()
	return err == nil && strings.ToLower(result) == "y"
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
