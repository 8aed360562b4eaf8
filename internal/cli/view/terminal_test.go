package view

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/blankon/repackage-go/internal/cli/entity"
	"github.com/blankon/repackage-go/internal/cli/usecase"
)

func TestTerminalProgressLifecycle(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)
	state := entity.NewFormState()

	state.Progress = entity.ProgressState{Visible: true, Stage: "Uploading file...", Percent: 10}
	term.ShowProgress(state)
	assert.NotNil(t, term.bar)
	assert.Contains(t, out.String(), "Uploading file...")

	state.Progress.Visible = false
	term.HideProgress(state)
	assert.Nil(t, term.bar)

	// hidden progress never creates a bar
	term.ShowProgress(state)
	assert.Nil(t, term.bar)
}

func TestTerminalShowResult(t *testing.T) {
	tests := []struct {
		name     string
		state    entity.FormState
		contains []string
		empty    bool
	}{
		{
			name: "success with files",
			state: entity.FormState{
				DownloadTarget: "a-offline.difypkg",
				Result: entity.ResultPanel{
					Visible: entity.PanelSuccess,
					Message: "Repackaging succeeded",
					Files:   []string{"a-offline.difypkg", "b-offline.difypkg"},
				},
			},
			contains: []string{"Repackaging succeeded", "Generated files:", "- a-offline.difypkg", "- b-offline.difypkg", "repackage-cli download a-offline.difypkg"},
		},
		{
			name: "error with details",
			state: entity.FormState{
				Result: entity.ResultPanel{
					Visible: entity.PanelError,
					Message: "asset not found",
					Details: "line one\nline two\n",
				},
			},
			contains: []string{"asset not found", "Details:", "  line one", "  line two"},
		},
		{name: "nothing visible", empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			term := NewTerminal(&out)
			term.DownloadHint = "Run: repackage-cli download %s"
			term.ShowResult(&tt.state)
			if tt.empty {
				assert.Empty(t, out.String())
				return
			}
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func TestTerminalAppendLogRespectsShowLog(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	term.AppendLog("[10:00:00] quiet")
	assert.Empty(t, out.String())

	term.ShowLog = true
	term.AppendLog("[10:00:01] loud")
	assert.Contains(t, out.String(), "[10:00:01] loud")
}

func TestTerminalSubmitControl(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{})
	assert.True(t, term.SubmitEnabled())
	term.SetSubmitEnabled(false)
	assert.False(t, term.SubmitEnabled())
	term.SetSubmitEnabled(true)
	assert.True(t, term.SubmitEnabled())
}

func TestTerminalShowEnvironment(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	term.ShowEnvironment(usecase.Summarize(entity.SystemCapabilities{
		DockerAvailable:        true,
		DockerRunning:          true,
		PluginContainerRunning: true,
		PluginContainers:       []string{"dify-plugin-daemon"},
		PythonAvailable:        true,
		PythonVersion:          "3.12.1",
		WarningMessages:        []string{"unzip is missing"},
	}))

	for _, s := range []string{"Server environment", "Docker", "available", "running (1)", "dify-plugin-daemon", "3.12.1", "unzip is missing"} {
		assert.Contains(t, out.String(), s)
	}
}

func TestTerminalBannerAndHint(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	term.ShowBanner(usecase.BannerWarning, "System notice", "detection failed")
	term.ShowExecutionHint("")
	term.ShowExecutionHint(usecase.ExecutionHint(entity.ExecutionLocal))

	assert.Contains(t, out.String(), "System notice")
	assert.Contains(t, out.String(), "detection failed")
	assert.Contains(t, out.String(), "local Python environment")
}

func TestPrintHistory(t *testing.T) {
	var out bytes.Buffer
	PrintHistory(&out, nil)
	assert.Equal(t, "No runs yet.\n", out.String())

	out.Reset()
	PrintHistory(&out, []*entity.Run{
		{RunID: "r2", Mode: entity.ModeGithub, Execution: entity.ExecutionDocker, Message: "asset not found", SubmittedAt: time.Now()},
		{RunID: "r1", Mode: entity.ModeLocal, Execution: entity.ExecutionLocal, Success: true, Source: "plugin.difypkg", Artifacts: []string{"plugin-offline.difypkg"}, SubmittedAt: time.Now()},
	})
	assert.Contains(t, out.String(), "r2")
	assert.Contains(t, out.String(), "asset not found")
	assert.Contains(t, out.String(), "plugin-offline.difypkg")
}

func TestPrintUploaded(t *testing.T) {
	var out bytes.Buffer
	PrintUploaded(&out, nil)
	assert.Empty(t, out.String())

	PrintUploaded(&out, &entity.UploadedFile{Name: "plugin.difypkg", Size: 1536})
	assert.Contains(t, out.String(), "plugin.difypkg (1.5 KB)")
}
