package usecase

import "errors"

var (
	ErrNoUploadedFile   = errors.New("upload a .difypkg file first")
	ErrNoDownloadTarget = errors.New("no artifact to download")
	ErrRunIDMissing     = errors.New("run ID should not be empty")
	ErrUnknownRun       = errors.New("run is not in the history")
	ErrValidation       = errors.New("form validation failed")
	ErrModeDisabled     = errors.New("mode is not supported by the server environment")
)

// UsecaseError wraps an HTTP-style status and user-facing message.
type UsecaseError struct {
	Code    int
	Message string
}

func (e UsecaseError) Error() string {
	return e.Message
}

// NewUsecaseError creates a typed error with status code.
func NewUsecaseError(code int, message string) error {
	return UsecaseError{Code: code, Message: message}
}
