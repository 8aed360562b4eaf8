package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/blankon/repackage-go/internal/cli/entity"
)

// UploadHideDelay is how long the "uploaded" stage stays on screen.
const UploadHideDelay = time.Second

// CheckUpload enforces the client-side preconditions before any network call.
func CheckUpload(name string, size int64) error {
	if !strings.HasSuffix(name, entity.PackageExtension) {
		return NewUsecaseError(http.StatusBadRequest, "Only "+entity.PackageExtension+" files are supported")
	}
	if size > entity.MaxUploadSize {
		return NewUsecaseError(http.StatusRequestEntityTooLarge, "File size must not exceed 100MB")
	}
	return nil
}

// Uploader sends the selected package to the server and caches the returned
// server path on the form state.
type Uploader struct {
	API      RepackagerAPI
	Progress *ProgressReporter
	Results  *ResultRenderer
	Log      zerolog.Logger
	// Delay runs fn after d. The default blocks for d, then runs fn.
	Delay func(d time.Duration, fn func())
}

func (u *Uploader) delay(d time.Duration, fn func()) {
	if u.Delay != nil {
		u.Delay(d, fn)
		return
	}
	time.Sleep(d)
	fn()
}

// Upload validates and uploads content. On any failure the server path stays
// empty so a later local-mode submission fails validation.
func (u *Uploader) Upload(ctx context.Context, state *entity.FormState, name string, size int64, content io.Reader) error {
	if err := CheckUpload(name, size); err != nil {
		u.Results.ShowError(state, err.Error(), "")
		return err
	}

	state.Upload = &entity.UploadedFile{Name: name, Size: size}
	u.Log.Info().Str("file", name).Str("size", FormatFileSize(size)).Msg("uploading package")

	u.Progress.Show(state, "Uploading file...", PercentUploadStart)
	result, err := u.API.Upload(ctx, name, content)
	if err == nil && !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "file upload failed"
		}
		err = NewUsecaseError(http.StatusBadGateway, msg)
	}
	if err == nil && result.Output == "" {
		err = NewUsecaseError(http.StatusBadGateway, "server did not return an upload path")
	}
	if err != nil {
		u.Log.Error().Err(err).Str("file", name).Msg("upload failed")
		u.Results.ShowError(state, "File upload failed: "+err.Error(), "")
		u.Progress.Hide(state)
		return fmt.Errorf("upload %s: %w", name, err)
	}

	state.Upload.ServerPath = result.Output
	u.Log.Debug().Str("path", result.Output).Msg("upload stored")
	u.Progress.Update(state, "File uploaded", PercentUploadDone)
	u.delay(UploadHideDelay, func() { u.Progress.Hide(state) })
	return nil
}
