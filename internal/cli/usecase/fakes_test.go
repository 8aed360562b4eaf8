package usecase

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/blankon/repackage-go/internal/cli/entity"
)

type fakeAPI struct {
	status    entity.ServerStatus
	caps      entity.SystemCapabilities
	capsErr   error
	capsCalls int

	uploadResult entity.JobResult
	uploadErr    error
	uploadCalls  int
	uploaded     []byte

	repackage func(request entity.JobRequest) (entity.JobResult, error)
	requests  []entity.JobRequest

	files        map[string]string
	downloadErr  error
	downloadedAs []string
}

func (f *fakeAPI) GetStatus(ctx context.Context) (entity.ServerStatus, error) {
	return f.status, nil
}

func (f *fakeAPI) GetCapabilities(ctx context.Context) (entity.SystemCapabilities, error) {
	f.capsCalls++
	return f.caps, f.capsErr
}

func (f *fakeAPI) Upload(ctx context.Context, name string, content io.Reader) (entity.JobResult, error) {
	f.uploadCalls++
	f.uploaded, _ = io.ReadAll(content)
	return f.uploadResult, f.uploadErr
}

func (f *fakeAPI) Repackage(ctx context.Context, request entity.JobRequest) (entity.JobResult, error) {
	f.requests = append(f.requests, request)
	if f.repackage == nil {
		return entity.JobResult{Success: true}, nil
	}
	return f.repackage(request)
}

func (f *fakeAPI) Download(ctx context.Context, fileName string) (io.ReadCloser, error) {
	f.downloadedAs = append(f.downloadedAs, fileName)
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return io.NopCloser(bytes.NewBufferString(f.files[fileName])), nil
}

type fakeView struct {
	progress     []entity.ProgressState
	hides        int
	logs         []string
	results      []entity.ResultPanel
	banners      []string
	environments []EnvironmentSummary
	submitStates []bool
	hints        []string
}

func (v *fakeView) ShowProgress(state *entity.FormState) {
	v.progress = append(v.progress, state.Progress)
}

func (v *fakeView) HideProgress(state *entity.FormState) { v.hides++ }

func (v *fakeView) AppendLog(line string) { v.logs = append(v.logs, line) }

func (v *fakeView) ShowResult(state *entity.FormState) {
	v.results = append(v.results, state.Result)
}

func (v *fakeView) ShowBanner(level BannerLevel, title, message string) {
	v.banners = append(v.banners, title+": "+message)
}

func (v *fakeView) ShowEnvironment(summary EnvironmentSummary) {
	v.environments = append(v.environments, summary)
}

func (v *fakeView) SetSubmitEnabled(enabled bool) {
	v.submitStates = append(v.submitStates, enabled)
}

func (v *fakeView) ShowExecutionHint(hint string) { v.hints = append(v.hints, hint) }

type fakeRuns struct {
	runs []entity.Run
	err  error
}

func (r *fakeRuns) RecordRun(run entity.Run) error {
	r.runs = append(r.runs, run)
	return r.err
}

func (r *fakeRuns) GetRun(runID string) (*entity.Run, error) {
	for i := range r.runs {
		if r.runs[i].RunID == runID {
			return &r.runs[i], nil
		}
	}
	return nil, nil
}

func (r *fakeRuns) GetRecentRuns(limit int) ([]*entity.Run, error) {
	var runs []*entity.Run
	for i := len(r.runs) - 1; i >= 0 && len(runs) < limit; i-- {
		runs = append(runs, &r.runs[i])
	}
	return runs, nil
}

func (r *fakeRuns) LastSuccessfulRun() (*entity.Run, error) {
	for i := len(r.runs) - 1; i >= 0; i-- {
		if r.runs[i].Success && len(r.runs[i].Artifacts) > 0 {
			return &r.runs[i], nil
		}
	}
	return nil, nil
}

type fakeNotifier struct {
	runs []entity.Run
}

func (n *fakeNotifier) NotifyRun(ctx context.Context, run entity.Run) {
	n.runs = append(n.runs, run)
}

func fixedClock() func() time.Time {
	t := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

// immediate runs delayed callbacks synchronously and records the delays.
type immediate struct {
	delays []time.Duration
}

func (i *immediate) run(d time.Duration, fn func()) {
	i.delays = append(i.delays, d)
	fn()
}
