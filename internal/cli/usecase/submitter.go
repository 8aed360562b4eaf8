package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blankon/repackage-go/internal/cli/entity"
)

// Submitter turns the form into a job request and performs the single
// request/response round trip. It never retries.
type Submitter struct {
	API       RepackagerAPI
	View      View
	Validator *Validator
	Progress  *ProgressReporter
	Results   *ResultRenderer
	Runs      RunStore
	Notifier  Notifier
	Log       zerolog.Logger
	Now       func() time.Time
}

func (s *Submitter) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Submitter) setSubmitEnabled(state *entity.FormState, enabled bool) {
	state.SubmitDisabled = !enabled
	if s.View != nil {
		s.View.SetSubmitEnabled(enabled)
	}
}

// Submit validates the form and posts the job. The returned error is
// ErrValidation when nothing was sent, or the transport error. A server-side
// failure is reported through the result with a nil error. An empty runID
// gets a generated one.
func (s *Submitter) Submit(ctx context.Context, state *entity.FormState, runID string) (entity.JobResult, error) {
	if !s.Validator.Validate(state) {
		s.Log.Debug().Str("mode", string(state.Mode)).Msg("form validation failed")
		if state.Mode == entity.ModeLocal {
			s.Results.ShowError(state, ErrNoUploadedFile.Error(), "")
		}
		return entity.JobResult{}, ErrValidation
	}

	s.Results.Clear(state)
	request := BuildJobRequest(state)
	if runID == "" {
		runID = uuid.New().String()
	}
	submittedAt := s.now()

	s.Progress.Show(state, "Processing...", PercentJobStart)
	s.setSubmitEnabled(state, false)
	s.Log.Info().Str("run", runID).Str("mode", string(request.Mode)).Str("execution", string(request.Execution)).Msg("submitting job")

	result, err := s.API.Repackage(ctx, request)

	s.setSubmitEnabled(state, true)
	s.Progress.Hide(state)

	run := entity.Run{
		RunID:       runID,
		Mode:        request.Mode,
		Execution:   request.Execution,
		Source:      request.Source(),
		SubmittedAt: submittedAt,
		FinishedAt:  s.now(),
	}
	switch {
	case err != nil:
		s.Log.Error().Err(err).Str("run", runID).Msg("job request failed")
		s.Results.ShowError(state, "Request failed: "+err.Error(), "")
		run.Message = err.Error()
	case result.Success:
		msg := result.Message
		if msg == "" {
			msg = "Repackaging succeeded"
		}
		s.Results.ShowSuccess(state, msg, result.Output)
		run.Success = true
		run.Message = msg
		run.Artifacts = state.Result.Files
	default:
		msg := result.Error
		if msg == "" {
			msg = result.Message
		}
		if msg == "" {
			msg = "Processing failed"
		}
		s.Results.ShowError(state, msg, result.Output)
		run.Message = msg
	}
	s.record(ctx, run)

	if err != nil {
		return result, fmt.Errorf("repackage: %w", err)
	}
	return result, nil
}

func (s *Submitter) record(ctx context.Context, run entity.Run) {
	if s.Runs != nil {
		if err := s.Runs.RecordRun(run); err != nil {
			s.Log.Warn().Err(err).Str("run", run.RunID).Msg("failed to record run")
		}
	}
	if s.Notifier != nil {
		s.Notifier.NotifyRun(ctx, run)
	}
}
