package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blankon/repackage-go/internal/cli/entity"
	"github.com/blankon/repackage-go/internal/logging"
)

// Options carries the collaborators of a RepackageUsecase.
type Options struct {
	API         RepackagerAPI
	View        View
	Runs        RunStore
	Notifier    Notifier
	Releases    ReleaseFetcher
	Updater     UpdateApplier
	Logger      *logging.Logger
	LogDir      string
	DownloadDir string
	Execution   entity.Execution
	Now         func() time.Time
	Delay       func(d time.Duration, fn func())
}

// RepackageUsecase is the client session: one FormState and the components
// operating on it.
type RepackageUsecase struct {
	API         RepackagerAPI
	View        View
	Runs        RunStore
	Releases    ReleaseFetcher
	Updater     UpdateApplier
	LogDir      string
	DownloadDir string

	State     *entity.FormState
	Gate      *CapabilityGate
	Validator *Validator
	Progress  *ProgressReporter
	Results   *ResultRenderer
	Uploader  *Uploader
	Submitter *Submitter

	log zerolog.Logger
}

func NewRepackageUsecase(opts Options) *RepackageUsecase {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	state := entity.NewFormState()
	if opts.Execution.Valid() {
		state.Execution = opts.Execution
	}

	progress := &ProgressReporter{View: opts.View, Now: opts.Now}
	results := &ResultRenderer{View: opts.View, Progress: progress}
	validator := NewValidator()

	return &RepackageUsecase{
		API:         opts.API,
		View:        opts.View,
		Runs:        opts.Runs,
		Releases:    opts.Releases,
		Updater:     opts.Updater,
		LogDir:      opts.LogDir,
		DownloadDir: opts.DownloadDir,
		State:       state,
		Gate: &CapabilityGate{
			API:  opts.API,
			View: opts.View,
			Log:  logger.Component("capabilities"),
		},
		Validator: validator,
		Progress:  progress,
		Results:   results,
		Uploader: &Uploader{
			API:      opts.API,
			Progress: progress,
			Results:  results,
			Log:      logger.Component("uploader"),
			Delay:    opts.Delay,
		},
		Submitter: &Submitter{
			API:       opts.API,
			View:      opts.View,
			Validator: validator,
			Progress:  progress,
			Results:   results,
			Runs:      opts.Runs,
			Notifier:  opts.Notifier,
			Log:       logger.Component("submitter"),
			Now:       opts.Now,
		},
		log: logger.Component("usecase"),
	}
}

// Start runs the capability gate. It is meant to be called once per session.
func (u *RepackageUsecase) Start(ctx context.Context) GateResult {
	return u.Gate.Load(ctx, u.State)
}

// ServerStatus returns the server status and version.
func (u *RepackageUsecase) ServerStatus(ctx context.Context) (entity.ServerStatus, error) {
	return u.API.GetStatus(ctx)
}

func (u *RepackageUsecase) SwitchMode(mode entity.Mode) error {
	if err := SwitchMode(u.State, mode); err != nil {
		return err
	}
	if u.View != nil {
		u.View.HideProgress(u.State)
		u.View.ShowResult(u.State)
	}
	return nil
}

func (u *RepackageUsecase) SwitchExecution(execution entity.Execution) error {
	hint, err := SwitchExecution(u.State, execution)
	if err != nil {
		return err
	}
	u.log.Debug().Str("execution", string(execution)).Msg("execution switched")
	if u.View != nil {
		u.View.ShowExecutionHint(hint)
	}
	return nil
}

// NewTask resets the form for another submission in the same mode.
func (u *RepackageUsecase) NewTask() {
	ResetForm(u.State)
	if u.View != nil {
		u.View.HideProgress(u.State)
		u.View.ShowResult(u.State)
	}
}

// UploadFile uploads the package at path.
func (u *RepackageUsecase) UploadFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		u.Results.ShowError(u.State, "Cannot read file: "+err.Error(), "")
		return err
	}
	if info.IsDir() {
		err = NewUsecaseError(400, path+" is a directory")
		u.Results.ShowError(u.State, err.Error(), "")
		return err
	}
	name := filepath.Base(path)
	if err := CheckUpload(name, info.Size()); err != nil {
		u.Results.ShowError(u.State, err.Error(), "")
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		u.Results.ShowError(u.State, "Cannot read file: "+err.Error(), "")
		return err
	}
	defer file.Close()
	return u.Uploader.Upload(ctx, u.State, name, info.Size(), file)
}

// Submit posts the job and writes its progress log to the run log file.
func (u *RepackageUsecase) Submit(ctx context.Context) (entity.JobResult, string, error) {
	runID := uuid.New().String()
	if u.LogDir != "" {
		if closeLog, err := u.openRunLog(runID); err != nil {
			u.log.Warn().Err(err).Msg("run log unavailable")
		} else {
			defer closeLog()
		}
	}
	result, err := u.Submitter.Submit(ctx, u.State, runID)
	return result, runID, err
}

// History lists recent runs, newest first.
func (u *RepackageUsecase) History(limit int) ([]*entity.Run, error) {
	if u.Runs == nil {
		return nil, nil
	}
	return u.Runs.GetRecentRuns(limit)
}

// RunLogPath returns the log file of a run. An empty runID means the latest
// run; any other ID must be in the history.
func (u *RepackageUsecase) RunLogPath(runID string) (string, error) {
	if u.Runs != nil {
		if runID == "" {
			runs, err := u.Runs.GetRecentRuns(1)
			if err != nil {
				return "", err
			}
			if len(runs) > 0 {
				runID = runs[0].RunID
			}
		} else {
			run, err := u.Runs.GetRun(runID)
			if err != nil {
				return "", err
			}
			if run == nil {
				return "", fmt.Errorf("%w: %s", ErrUnknownRun, runID)
			}
		}
	}
	if runID == "" {
		return "", ErrRunIDMissing
	}
	return filepath.Join(u.LogDir, runID+".log"), nil
}

// Recover turns a panic in a command into a logged diagnostic and an error.
// It must be deferred directly.
func (u *RepackageUsecase) Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	msg := fmt.Sprintf("%v", r)
	u.Progress.Log(u.State, "Error occurred: "+msg)
	u.log.Error().Str("panic", msg).Msg("unexpected error")
	if errp != nil && *errp == nil {
		*errp = fmt.Errorf("unexpected error: %s", msg)
	}
}

func (u *RepackageUsecase) openRunLog(runID string) (func(), error) {
	if err := os.MkdirAll(u.LogDir, 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(u.LogDir, runID+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	u.Progress.Sink = f
	return func() {
		u.Progress.Sink = nil
		f.Close()
	}, nil
}
