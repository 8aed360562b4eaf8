package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/urfave/cli"

	"github.com/blankon/repackage-go/internal/cli/entity"
	"github.com/blankon/repackage-go/internal/cli/usecase"
	"github.com/blankon/repackage-go/internal/cli/view"
)

type formField struct {
	field entity.Field
	label string
}

var modeFields = map[entity.Mode][]formField{
	entity.ModeLocal: {
		{entity.FieldFile, "Package file"},
	},
	entity.ModeMarket: {
		{entity.FieldMarketAuthor, "Author"},
		{entity.FieldMarketName, "Plugin name"},
		{entity.FieldMarketVersion, "Version"},
	},
	entity.ModeGithub: {
		{entity.FieldGithubRepo, "Repository (owner/repo)"},
		{entity.FieldGithubRelease, "Release tag"},
		{entity.FieldGithubAsset, "Asset file name"},
	},
}

// fieldValue returns a pointer to the FormState string backing a field.
func fieldValue(state *entity.FormState, field entity.Field) *string {
	switch field {
	case entity.FieldMarketAuthor:
		return &state.Market.Author
	case entity.FieldMarketName:
		return &state.Market.Name
	case entity.FieldMarketVersion:
		return &state.Market.Version
	case entity.FieldGithubRepo:
		return &state.Github.Repository
	case entity.FieldGithubRelease:
		return &state.Github.Release
	case entity.FieldGithubAsset:
		return &state.Github.Asset
	}
	return nil
}

func runInteractive(c *cli.Context, s *session) error {
	ctx, cancel := s.interruptContext()
	defer cancel()

	gate := s.uc.Start(ctx)
	state := s.uc.State

	for {
		mode, err := s.form.SelectMode(gate.Options, state.Mode)
		if err != nil {
			return promptError(err)
		}
		if err := s.uc.SwitchMode(mode); err != nil {
			return err
		}
		execution, err := s.form.SelectExecution(state.Execution)
		if err != nil {
			return promptError(err)
		}
		if err := s.uc.SwitchExecution(execution); err != nil {
			return err
		}

		switchMode, err := runTasks(ctx, s)
		if err != nil || !switchMode {
			return err
		}
	}
}

// runTasks fills, submits and handles the result until the user quits or
// asks for another mode.
func runTasks(ctx context.Context, s *session) (switchMode bool, err error) {
	state := s.uc.State
	refill := true
	for {
		if ctx.Err() != nil {
			return false, nil
		}
		if refill {
			if err := fillForm(ctx, s); err != nil {
				return false, promptError(err)
			}
		}

		_, _, err := s.uc.Submit(ctx)
		s.guard.settle()
		if ctx.Err() != nil {
			return false, nil
		}
		if errors.Is(err, usecase.ErrValidation) {
			refill = true
			continue
		}

		for {
			action, err := s.form.SelectAction(state)
			if err != nil {
				return false, promptError(err)
			}
			switch action {
			case view.ActionDownload:
				path, err := s.uc.Download(ctx, "", "")
				if err != nil {
					fmt.Printf("%s %v\n", promptui.IconBad, err)
				} else {
					fmt.Printf("%s Saved to %s\n", promptui.IconGood, path)
				}
				continue
			case view.ActionRetry:
				refill = false
			case view.ActionNewTask:
				s.uc.NewTask()
				refill = true
			case view.ActionSwitchMode:
				return true, nil
			case view.ActionQuit:
				return false, nil
			}
			break
		}
	}
}

func fillForm(ctx context.Context, s *session) error {
	state := s.uc.State
	if state.Mode == entity.ModeLocal {
		for state.UploadedPath() == "" {
			path, err := s.form.PromptFile()
			if err != nil {
				return err
			}
			if err := s.uc.UploadFile(ctx, path); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				continue
			}
			view.PrintUploaded(os.Stdout, state.Upload)
		}
		return nil
	}

	for _, f := range modeFields[state.Mode] {
		target := fieldValue(state, f.field)
		value, err := s.form.PromptField(f.label, f.field, *target)
		if err != nil {
			return err
		}
		*target = value
		s.uc.Validator.ValidateField(state, f.field, value)
	}
	return nil
}

// promptError maps ^C and ^D at a prompt to a clean exit.
func promptError(err error) error {
	if err == promptui.ErrInterrupt || err == promptui.ErrEOF {
		return nil
	}
	return err
}
