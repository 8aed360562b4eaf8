// Package view renders the client state on a terminal.
package view

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/manifoldco/promptui"
	"github.com/schollz/progressbar/v3"

	"github.com/blankon/repackage-go/internal/cli/entity"
	"github.com/blankon/repackage-go/internal/cli/usecase"
)

var (
	green  = promptui.Styler(promptui.FGGreen)
	yellow = promptui.Styler(promptui.FGYellow)
	red    = promptui.Styler(promptui.FGRed)
	faint  = promptui.Styler(promptui.FGFaint)
	bold   = promptui.Styler(promptui.FGBold)
)

// Terminal is the View of repackage-cli. Progress is a percentage bar;
// panels and banners are printed as plain blocks.
type Terminal struct {
	out io.Writer
	bar *progressbar.ProgressBar
	// ShowLog echoes every progress log line as it is appended.
	ShowLog bool
	// DownloadHint is printed under the artifact list, with %s as the file name.
	DownloadHint string
	// submitDisabled is read by the interrupt handler goroutine.
	submitDisabled atomic.Bool
}

func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{out: out}
}

// SubmitEnabled reports the state of the submit control.
func (t *Terminal) SubmitEnabled() bool {
	return !t.submitDisabled.Load()
}

func (t *Terminal) ShowProgress(state *entity.FormState) {
	if !state.Progress.Visible {
		return
	}
	if t.bar == nil {
		t.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(t.out),
			progressbar.OptionSetDescription(state.Progress.Stage),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionClearOnFinish(),
		)
	}
	t.bar.Describe(state.Progress.Stage)
	_ = t.bar.Set(state.Progress.Percent)
}

func (t *Terminal) HideProgress(state *entity.FormState) {
	if t.bar == nil {
		return
	}
	_ = t.bar.Clear()
	t.bar = nil
}

func (t *Terminal) AppendLog(line string) {
	if !t.ShowLog {
		return
	}
	t.clearBar()
	fmt.Fprintln(t.out, faint(line))
}

func (t *Terminal) ShowResult(state *entity.FormState) {
	result := state.Result
	switch result.Visible {
	case entity.PanelSuccess:
		t.clearBar()
		fmt.Fprintf(t.out, "%s %s\n", promptui.IconGood, green(result.Message))
		if len(result.Files) == 0 {
			return
		}
		fmt.Fprintln(t.out, bold("Generated files:"))
		for _, file := range result.Files {
			fmt.Fprintf(t.out, "  - %s\n", file)
		}
		if t.DownloadHint != "" {
			fmt.Fprintf(t.out, t.DownloadHint+"\n", state.DownloadTarget)
		}
	case entity.PanelError:
		t.clearBar()
		fmt.Fprintf(t.out, "%s %s\n", promptui.IconBad, red(result.Message))
		if result.Details != "" {
			fmt.Fprintln(t.out, bold("Details:"))
			for _, line := range strings.Split(strings.TrimRight(result.Details, "\n"), "\n") {
				fmt.Fprintf(t.out, "  %s\n", line)
			}
		}
	}
}

func (t *Terminal) ShowBanner(level usecase.BannerLevel, title, message string) {
	t.clearBar()
	style := yellow
	switch level {
	case usecase.BannerError:
		style = red
	case usecase.BannerInfo:
		style = bold
	}
	fmt.Fprintf(t.out, "%s %s: %s\n", promptui.IconWarn, style(title), message)
}

func (t *Terminal) ShowEnvironment(summary usecase.EnvironmentSummary) {
	t.clearBar()
	fmt.Fprintln(t.out, bold("Server environment"))
	for _, item := range summary.Items {
		icon := promptui.IconGood
		switch item.Status {
		case usecase.ItemWarning:
			icon = promptui.IconWarn
		case usecase.ItemMissing:
			icon = promptui.IconBad
		}
		fmt.Fprintf(t.out, "  %s %-18s %s\n", icon, item.Label, item.Value)
		for _, detail := range item.Details {
			fmt.Fprintf(t.out, "      %s\n", faint(detail))
		}
	}
	for _, warning := range summary.Warnings {
		fmt.Fprintf(t.out, "  %s %s\n", promptui.IconWarn, yellow(warning))
	}
}

func (t *Terminal) SetSubmitEnabled(enabled bool) {
	t.submitDisabled.Store(!enabled)
}

func (t *Terminal) ShowExecutionHint(hint string) {
	if hint == "" {
		return
	}
	t.clearBar()
	fmt.Fprintf(t.out, "%s %s\n", promptui.IconInitial, faint(hint))
}

// clearBar wipes the bar line so a block can be printed; the next Set
// redraws it.
func (t *Terminal) clearBar() {
	if t.bar != nil {
		_ = t.bar.Clear()
	}
}

// PrintHistory renders past runs, newest first.
func PrintHistory(out io.Writer, runs []*entity.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs yet.")
		return
	}
	for _, run := range runs {
		icon := promptui.IconGood
		if !run.Success {
			icon = promptui.IconBad
		}
		fmt.Fprintf(out, "%s %s  %s  %-6s %-10s %s\n",
			icon,
			run.SubmittedAt.Local().Format("2006-01-02 15:04:05"),
			run.RunID,
			run.Mode,
			run.Execution,
			run.Source,
		)
		if run.Success {
			for _, artifact := range run.Artifacts {
				fmt.Fprintf(out, "      %s\n", artifact)
			}
		} else if run.Message != "" {
			fmt.Fprintf(out, "      %s\n", faint(run.Message))
		}
	}
}

// PrintUploaded shows the selected file the way the upload area does.
func PrintUploaded(out io.Writer, file *entity.UploadedFile) {
	if file == nil {
		return
	}
	fmt.Fprintf(out, "%s %s (%s)\n", promptui.IconGood, file.Name, usecase.FormatFileSize(file.Size))
}
