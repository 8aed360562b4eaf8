package usecase

import "github.com/blankon/repackage-go/internal/cli/entity"

// SwitchMode makes mode the only active panel and clears every piece of
// transient state. Switching to a disabled mode is refused.
func SwitchMode(state *entity.FormState, mode entity.Mode) error {
	if !mode.Valid() {
		return NewUsecaseError(400, "unsupported mode: "+string(mode))
	}
	if state.DisabledModes[mode] {
		return ErrModeDisabled
	}
	state.Mode = mode
	ResetForm(state)
	return nil
}

// SwitchExecution only changes the execution strategy and returns the hint
// describing it.
func SwitchExecution(state *entity.FormState, execution entity.Execution) (string, error) {
	if !execution.Valid() {
		return "", NewUsecaseError(400, "unsupported execution: "+string(execution))
	}
	state.Execution = execution
	return ExecutionHint(execution), nil
}

// ExecutionHint is the informational text shown for an execution strategy.
func ExecutionHint(execution entity.Execution) string {
	switch execution {
	case entity.ExecutionLocal:
		return "Packaging will use the local Python environment"
	case entity.ExecutionDocker:
		return "Packaging will use an existing Docker container"
	case entity.ExecutionNewDocker:
		return "Packaging will create a new Docker environment"
	}
	return ""
}

// ResetForm is the "new task" action: it keeps mode and execution and drops
// everything else the user entered or the server returned.
func ResetForm(state *entity.FormState) {
	state.Upload = nil
	state.DownloadTarget = ""
	state.Market = entity.MarketFields{}
	state.Github = entity.GithubFields{}
	state.Annotations = map[entity.Field]entity.FieldAnnotation{}
	state.Result = entity.ResultPanel{}
	state.Progress.Visible = false
	state.SubmitDisabled = false
}

// BuildJobRequest serializes the current form into a fresh job request.
func BuildJobRequest(state *entity.FormState) entity.JobRequest {
	request := entity.JobRequest{
		Mode:      state.Mode,
		Execution: state.Execution,
	}
	switch state.Mode {
	case entity.ModeLocal:
		request.FilePath = state.UploadedPath()
	case entity.ModeMarket:
		request.Author = trim(state.Market.Author)
		request.Name = trim(state.Market.Name)
		request.Version = trim(state.Market.Version)
	case entity.ModeGithub:
		request.Repository = trim(state.Github.Repository)
		request.Release = trim(state.Github.Release)
		request.Asset = trim(state.Github.Asset)
	}
	return request
}
