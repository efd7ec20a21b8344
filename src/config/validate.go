package config

import (
	"fmt"
	"strings"
)

// Validate checks structural invariants of a loaded Config.
// Returns warnings (soft issues) and a hard error if the config is unusable.
func Validate(cfg *Config) (warnings []string, err error) {
	var errs []string

	if cfg.Build.Root == "" {
		errs = append(errs, "build.root: must not be empty")
	}
	if cfg.Build.DockerBin == "" {
		errs = append(errs, "build.docker_bin: must not be empty")
	}
	if cfg.Build.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("build.timeout_seconds: must be positive, got %d", cfg.Build.TimeoutSeconds))
	}
	if cfg.Build.TagPrefix == "" {
		errs = append(errs, "build.tag_prefix: must not be empty")
	}
	if strings.ContainsAny(cfg.Build.TagPrefix, " /:@") {
		errs = append(errs, fmt.Sprintf("build.tag_prefix: %q contains characters not allowed in image tags", cfg.Build.TagPrefix))
	}

	if cfg.Server.MaxConcurrent <= 0 {
		errs = append(errs, fmt.Sprintf("server.max_concurrent: must be positive, got %d", cfg.Server.MaxConcurrent))
	}

	if cfg.Generate.URL != "" && !strings.HasPrefix(cfg.Generate.URL, "http") {
		warnings = append(warnings, fmt.Sprintf("generate.url: %q does not look like an HTTP endpoint", cfg.Generate.URL))
	}
	if cfg.Generate.Timeout <= 0 {
		warnings = append(warnings, "generate.timeout_seconds: non-positive, using 60")
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return warnings, nil
}
