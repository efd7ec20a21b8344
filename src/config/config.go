package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".dockhand.yml"

// Config is the top-level dockhand configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Build    BuildConfig    `yaml:"build"`
	Generate GenerateConfig `yaml:"generate"`
	GitHub   GitHubConfig   `yaml:"github"`
	Scan     ScanConfig     `yaml:"scan"`
	Badge    BadgeConfig    `yaml:"badge"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Listen         string `yaml:"listen"`           // address for the API, e.g. ":8080"
	MaxConcurrent  int64  `yaml:"max_concurrent"`   // concurrent builds admitted by the API
	RequestBodyMax int    `yaml:"request_body_max"` // bytes; build-file text comes in the body
}

// GenerateConfig points at the external Dockerfile-generation service.
// Empty URL disables generation; builds then rely on caller-supplied
// Dockerfiles or the fallback template.
type GenerateConfig struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout_seconds"`
}

// GitHubConfig holds forge glue settings. Token is resolved from env
// (GITHUB_TOKEN, GH_TOKEN) so it never lives in the config file.
type GitHubConfig struct {
	BaseURL    string `yaml:"base_url"`    // empty = api.github.com
	CommitBack bool   `yaml:"commit_back"` // commit generated Dockerfiles to the repo
}

// ScanConfig controls the pre-build secret scan of the workspace.
type ScanConfig struct {
	Enabled bool `yaml:"enabled"`
}

// BadgeConfig controls status badge rendering.
type BadgeConfig struct {
	FontPath string  `yaml:"font_path"` // TTF used for width measurement; empty = approximate metrics
	FontSize float64 `yaml:"font_size"`
}

// Load reads configuration from a YAML file.
// If path is empty, it tries the default file.
// Returns sensible defaults if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server:   DefaultServerConfig(),
		Build:    DefaultBuildConfig(),
		Generate: GenerateConfig{Timeout: 60},
		Scan:     ScanConfig{Enabled: true},
		Badge:    BadgeConfig{FontSize: 11},
	}
}

// DefaultServerConfig returns API defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Listen:         ":8080",
		MaxConcurrent:  4,
		RequestBodyMax: 4 << 20,
	}
}
