package config

import (
	"os"
	"path/filepath"
	"time"
)

// BuildConfig holds build pipeline configuration.
type BuildConfig struct {
	// Root is the directory under which per-attempt workspaces are created.
	// Injected once at process start; attempts only ever touch their own
	// uniquely named subdirectory beneath it.
	Root string `yaml:"root"`

	// DockerBin is the container builder command. Overridable mostly so
	// tests can point it at a stub.
	DockerBin string `yaml:"docker_bin"`

	// TimeoutSeconds bounds one docker build invocation wall-clock.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// TagPrefix namespaces every image this system produces. The registry
	// has no other notion of ownership than this prefix.
	TagPrefix string `yaml:"tag_prefix"`
}

// DefaultBuildConfig returns build pipeline defaults.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Root:           filepath.Join(os.TempDir(), "dockhand-builds"),
		DockerBin:      "docker",
		TimeoutSeconds: 300,
		TagPrefix:      "dockhand",
	}
}

// Timeout returns the build timeout as a duration.
func (b BuildConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}
