// Package config loads and saves the repackage-cli configuration file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ghodss/yaml"
	validator "gopkg.in/go-playground/validator.v9"
)

const (
	EnvConfigPath = "REPACKAGE_CONFIG_PATH"
	EnvDev        = "DEV"

	DefaultMaxHistory = 200
	DefaultRetryMax   = 3
)

// ErrNotConfigured is returned when no config file exists yet.
var ErrNotConfigured = errors.New("repackage-cli need to be configured first. Run: repackage-cli config --server http://localhost:8080")

type ClientConfig struct {
	Server              string `json:"server" validate:"required,url"`
	DownloadDir         string `json:"download_dir"`
	Workdir             string `json:"workdir" validate:"required"`
	Execution           string `json:"execution" validate:"omitempty,oneof=local docker new-docker"`
	MaxHistory          int    `json:"max_history" validate:"gte=0"`
	TimeoutSeconds      int    `json:"timeout_seconds" validate:"gte=0"`
	RetryMax            *int   `json:"retry_max,omitempty" validate:"omitempty,gte=0,lte=10"`
	NotificationWebhook string `json:"notification_webhook" validate:"omitempty,url"`
	IsDev               bool   `json:"is_dev"`
}

// Timeout bounds the wait for response headers. Zero waits forever.
// Repackaging may take minutes, so it is off unless configured.
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Retries is how often idempotent reads are retried. An explicit 0 disables
// retrying.
func (c ClientConfig) Retries() int {
	if c.RetryMax == nil {
		return DefaultRetryMax
	}
	return *c.RetryMax
}

func (c ClientConfig) LogDir() string {
	return filepath.Join(c.Workdir, "logs")
}

// DefaultPath is ~/.repackage/config.yml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".repackage", "config.yml"), nil
}

// Path returns $REPACKAGE_CONFIG_PATH when set, else DefaultPath.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	return DefaultPath()
}

// Defaults fills the zero fields. The workdir defaults to the directory
// holding the config file.
func Defaults(config *ClientConfig, configPath string) {
	if config.Workdir == "" {
		config.Workdir = filepath.Dir(configPath)
	}
	if config.DownloadDir == "" {
		config.DownloadDir = "."
	}
	if config.Execution == "" {
		config.Execution = "docker"
	}
	if config.MaxHistory == 0 {
		config.MaxHistory = DefaultMaxHistory
	}
	if config.RetryMax == nil {
		retries := DefaultRetryMax
		config.RetryMax = &retries
	}
}

// LoadConfig load the client config from file
func LoadConfig() (config ClientConfig, err error) {
	configPath, err := Path()
	if err != nil {
		return
	}
	return LoadConfigFrom(configPath)
}

func LoadConfigFrom(configPath string) (config ClientConfig, err error) {
	yamlFile, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		err = ErrNotConfigured
		return
	}
	if err != nil {
		return
	}

	err = yaml.Unmarshal(yamlFile, &config)
	if err != nil {
		return
	}
	Defaults(&config, configPath)

	isDev := os.Getenv(EnvDev) == "1"
	if isDev {
		// Since it's in dev env, let's move the workdir to ./tmp
		cwd, _ := os.Getwd()
		tmpDir := filepath.Join(cwd, "tmp")
		if _, err := os.Stat(tmpDir); os.IsNotExist(err) {
			os.Mkdir(tmpDir, 0755)
		}
		home, _ := os.UserHomeDir()
		if home != "" && strings.HasPrefix(config.Workdir, home) {
			config.Workdir = filepath.Join(tmpDir, strings.TrimPrefix(config.Workdir, home))
		}
	}
	config.IsDev = isDev

	err = validator.New().Struct(config)
	return
}

// SaveConfig validates and writes the config to configPath.
func SaveConfig(configPath string, config ClientConfig) error {
	Defaults(&config, configPath)
	if err := validator.New().Struct(config); err != nil {
		return err
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}
