package usecase

import (
	"context"
	"io"

	"github.com/blankon/repackage-go/internal/cli/entity"
)

// RepackagerAPI is the HTTP surface of the repackaging server.
type RepackagerAPI interface {
	GetStatus(ctx context.Context) (entity.ServerStatus, error)
	GetCapabilities(ctx context.Context) (entity.SystemCapabilities, error)
	Upload(ctx context.Context, name string, content io.Reader) (entity.JobResult, error)
	Repackage(ctx context.Context, request entity.JobRequest) (entity.JobResult, error)
	Download(ctx context.Context, fileName string) (io.ReadCloser, error)
}

// View renders the client state. Decision logic never touches a terminal
// directly; it mutates FormState and asks the view to redraw a section.
type View interface {
	ShowProgress(state *entity.FormState)
	HideProgress(state *entity.FormState)
	AppendLog(line string)
	ShowResult(state *entity.FormState)
	ShowBanner(level BannerLevel, title, message string)
	ShowEnvironment(summary EnvironmentSummary)
	SetSubmitEnabled(enabled bool)
	ShowExecutionHint(hint string)
}

// RunStore keeps the history of finished submissions.
type RunStore interface {
	RecordRun(run entity.Run) error
	GetRun(runID string) (*entity.Run, error)
	GetRecentRuns(limit int) ([]*entity.Run, error)
	LastSuccessfulRun() (*entity.Run, error)
}

// Notifier is told about every finished run.
type Notifier interface {
	NotifyRun(ctx context.Context, run entity.Run)
}

type ReleaseFetcher interface {
	FetchLatest(ctx context.Context) (entity.GitHubRelease, error)
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

type UpdateApplier interface {
	Apply(reader io.Reader) error
}
