package usecase

import (
	"fmt"
	"io"
	"time"

	"github.com/blankon/repackage-go/internal/cli/entity"
)

// Progress milestones. They are illustrative stages, not measured progress.
const (
	PercentUploadStart = 10
	PercentUploadDone  = 20
	PercentJobStart    = 0
)

const logTimeFormat = "15:04:05"

// ProgressReporter owns the progress section: stage text, percentage and a
// timestamped log that only ever grows.
type ProgressReporter struct {
	View View
	// Sink receives every log line as well, typically the run log file.
	Sink io.Writer
	Now  func() time.Time
}

func (p *ProgressReporter) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Show makes the progress section visible at the given stage.
func (p *ProgressReporter) Show(state *entity.FormState, stage string, percent int) {
	state.Progress.Visible = true
	p.Update(state, stage, percent)
}

// Update moves to a new stage. A stage transition appends exactly one log line.
func (p *ProgressReporter) Update(state *entity.FormState, stage string, percent int) {
	changed := stage != "" && stage != state.Progress.Stage
	state.Progress.Stage = stage
	state.Progress.Percent = percent
	if changed {
		p.Log(state, stage)
	}
	if p.View != nil {
		p.View.ShowProgress(state)
	}
}

// Hide hides the section. The log is kept.
func (p *ProgressReporter) Hide(state *entity.FormState) {
	state.Progress.Visible = false
	state.Progress.Stage = ""
	state.Progress.Percent = 0
	if p.View != nil {
		p.View.HideProgress(state)
	}
}

// Log appends one timestamped line.
func (p *ProgressReporter) Log(state *entity.FormState, message string) {
	line := fmt.Sprintf("[%s] %s", p.now().Format(logTimeFormat), message)
	state.Progress.Log = append(state.Progress.Log, line)
	if p.Sink != nil {
		fmt.Fprintln(p.Sink, line)
	}
	if p.View != nil {
		p.View.AppendLog(line)
	}
}
