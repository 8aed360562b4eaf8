package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFrom(t *testing.T) {
	t.Setenv(EnvDev, "")
	path := writeConfig(t, `
server: http://localhost:8080
execution: local
download_dir: /tmp/out
notification_webhook: https://hooks.example.com/run
`)

	config, err := LoadConfigFrom(path)

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", config.Server)
	assert.Equal(t, "local", config.Execution)
	assert.Equal(t, "/tmp/out", config.DownloadDir)
	assert.Equal(t, filepath.Dir(path), config.Workdir)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "logs"), config.LogDir())
	assert.Equal(t, DefaultMaxHistory, config.MaxHistory)
	assert.Equal(t, DefaultRetryMax, config.Retries())
	assert.Equal(t, time.Duration(0), config.Timeout())
	assert.False(t, config.IsDev)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Setenv(EnvDev, "")
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing server", content: "execution: docker\n"},
		{name: "server not a url", content: "server: not-a-url\n"},
		{name: "unknown execution", content: "server: http://localhost:8080\nexecution: podman\n"},
		{name: "bad webhook", content: "server: http://localhost:8080\nnotification_webhook: nope\n"},
		{name: "too many retries", content: "server: http://localhost:8080\nretry_max: 50\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFrom(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Equal(t, ErrNotConfigured, err)
}

func TestLoadConfigUsesEnvPath(t *testing.T) {
	t.Setenv(EnvDev, "")
	path := writeConfig(t, "server: https://repackage.example.com\n")
	t.Setenv(EnvConfigPath, path)

	config, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "https://repackage.example.com", config.Server)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv(EnvDev, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	err := SaveConfig(path, ClientConfig{Server: "http://localhost:8080", Execution: "new-docker"})
	require.NoError(t, err)

	config, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "new-docker", config.Execution)
	assert.Equal(t, filepath.Dir(path), config.Workdir)
}

func TestLoadConfigKeepsZeroTimeoutAndRetries(t *testing.T) {
	t.Setenv(EnvDev, "")
	path := writeConfig(t, `
server: http://localhost:8080
timeout_seconds: 0
retry_max: 0
`)

	config, err := LoadConfigFrom(path)

	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), config.Timeout())
	assert.Equal(t, 0, config.Retries())

	savedPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, SaveConfig(savedPath, config))
	saved, err := LoadConfigFrom(savedPath)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), saved.Timeout())
	assert.Equal(t, 0, saved.Retries())
}

func TestLoadConfigTimeoutAndRetries(t *testing.T) {
	t.Setenv(EnvDev, "")
	path := writeConfig(t, "server: http://localhost:8080\ntimeout_seconds: 30\nretry_max: 5\n")

	config, err := LoadConfigFrom(path)

	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, config.Timeout())
	assert.Equal(t, 5, config.Retries())
}

func TestSaveConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	err := SaveConfig(path, ClientConfig{Server: ""})

	assert.Error(t, err)
	assert.NoFileExists(t, path)
}
