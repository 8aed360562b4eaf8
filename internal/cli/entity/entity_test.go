package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeAndExecutionValid(t *testing.T) {
	for _, m := range Modes {
		assert.True(t, m.Valid(), m)
	}
	for _, e := range Executions {
		assert.True(t, e.Valid(), e)
	}
	assert.False(t, Mode("ftp").Valid())
	assert.False(t, Execution("").Valid())
}

func TestJobRequestSource(t *testing.T) {
	tests := []struct {
		request JobRequest
		want    string
	}{
		{JobRequest{Mode: ModeLocal, FilePath: "/srv/uploads/a.difypkg"}, "a.difypkg"},
		{JobRequest{Mode: ModeMarket, Author: "langgenius", Name: "agent", Version: "0.0.9"}, "langgenius/agent@0.0.9"},
		{JobRequest{Mode: ModeGithub, Repository: "junjiem/mcp_sse", Release: "0.0.1", Asset: "mcp_sse.difypkg"}, "junjiem/mcp_sse@0.0.1/mcp_sse.difypkg"},
		{JobRequest{Mode: "ftp"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.request.Source())
	}
}

func TestCapabilitiesLookups(t *testing.T) {
	caps := SystemCapabilities{
		RecommendedModes: []Mode{ModeMarket},
		DisabledModes:    []Mode{ModeGithub},
	}
	assert.True(t, caps.IsRecommended(ModeMarket))
	assert.False(t, caps.IsRecommended(ModeLocal))
	assert.True(t, caps.IsDisabled(ModeGithub))
	assert.False(t, caps.IsDisabled(ModeMarket))
}

func TestReleaseAssetName(t *testing.T) {
	assert.Equal(t, "repackage-cli_linux_amd64", ReleaseAssetName("linux", "amd64"))
	assert.Equal(t, "repackage-cli_windows_amd64.exe", ReleaseAssetName("windows", "amd64"))
}

func TestFormStateUploadedPath(t *testing.T) {
	state := NewFormState()
	assert.Equal(t, DefaultMode, state.Mode)
	assert.Equal(t, DefaultExecution, state.Execution)
	assert.Empty(t, state.UploadedPath())

	state.Upload = &UploadedFile{Name: "a.difypkg", ServerPath: "/srv/a.difypkg"}
	assert.Equal(t, "/srv/a.difypkg", state.UploadedPath())
}
