package usecase

import (
	"regexp"
	"strings"

	"github.com/blankon/repackage-go/internal/cli/entity"
)

// offlineArtifactPattern is the contract with the server: any token ending in
// "-offline.difypkg" in the job output names a produced artifact. Directory
// prefixes are stripped.
var offlineArtifactPattern = regexp.MustCompile(`([^/\\\s]+?-offline\.difypkg)`)

// ParseOutputFiles returns every artifact named in output, in order of first
// appearance and without duplicates.
func ParseOutputFiles(output string) []string {
	files := []string{}
	seen := map[string]bool{}
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, entity.OfflineSuffix) {
			continue
		}
		for _, match := range offlineArtifactPattern.FindAllStringSubmatch(line, -1) {
			name := match[1]
			if seen[name] {
				continue
			}
			seen[name] = true
			files = append(files, name)
		}
	}
	return files
}

// ResultRenderer drives the success and error panels. Exactly one of them is
// visible after any Show call.
type ResultRenderer struct {
	View     View
	Progress *ProgressReporter
}

// Clear hides both panels.
func (r *ResultRenderer) Clear(state *entity.FormState) {
	state.Result = entity.ResultPanel{}
	if r.View != nil {
		r.View.ShowResult(state)
	}
}

// ShowSuccess parses the output and remembers the first artifact as the
// download target.
func (r *ResultRenderer) ShowSuccess(state *entity.FormState, message, output string) {
	files := ParseOutputFiles(output)
	state.Result = entity.ResultPanel{
		Visible: entity.PanelSuccess,
		Message: message,
		Files:   files,
	}
	if len(files) > 0 {
		state.DownloadTarget = files[0]
	}
	if r.View != nil {
		r.View.ShowResult(state)
	}
	if r.Progress != nil {
		r.Progress.Log(state, "Processing complete")
		if output != "" {
			r.Progress.Log(state, output)
		}
	}
}

// ShowError shows message and the optional raw details.
func (r *ResultRenderer) ShowError(state *entity.FormState, message, details string) {
	state.Result = entity.ResultPanel{
		Visible: entity.PanelError,
		Message: message,
		Details: details,
	}
	if r.View != nil {
		r.View.ShowResult(state)
	}
	if r.Progress != nil {
		r.Progress.Log(state, "Processing failed: "+message)
		if details != "" {
			r.Progress.Log(state, details)
		}
	}
}
