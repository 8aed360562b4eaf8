package entity

import "path"

// JobRequest is the body of POST /api/repackage. It is built fresh from the
// FormState for every submission and never persisted.
type JobRequest struct {
	Mode       Mode      `json:"mode"`
	Execution  Execution `json:"execution"`
	FilePath   string    `json:"filePath,omitempty"`
	Author     string    `json:"author,omitempty"`
	Name       string    `json:"name,omitempty"`
	Version    string    `json:"version,omitempty"`
	Repository string    `json:"repository,omitempty"`
	Release    string    `json:"release,omitempty"`
	Asset      string    `json:"asset,omitempty"`
}

// Source is a short human readable name of the package the job works on.
func (r JobRequest) Source() string {
	switch r.Mode {
	case ModeLocal:
		return path.Base(r.FilePath)
	case ModeMarket:
		return r.Author + "/" + r.Name + "@" + r.Version
	case ModeGithub:
		return r.Repository + "@" + r.Release + "/" + r.Asset
	}
	return ""
}

// JobResult is the server reply for uploads and repackage jobs.
type JobResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Output  string `json:"output,omitempty"`
}

// ServerStatus is the reply of GET /api/status.
type ServerStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
