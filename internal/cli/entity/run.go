package entity

import "time"

// Run is the local record of one finished submission.
type Run struct {
	RunID       string    `json:"runId"`
	Mode        Mode      `json:"mode"`
	Execution   Execution `json:"execution"`
	Source      string    `json:"source"`
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	Artifacts   []string  `json:"artifacts"`
	SubmittedAt time.Time `json:"submittedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}
