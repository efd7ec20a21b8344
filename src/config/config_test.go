package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Build.DockerBin != "docker" {
		t.Errorf("Build.DockerBin = %q, want docker", cfg.Build.DockerBin)
	}
	if cfg.Build.TimeoutSeconds != 300 {
		t.Errorf("Build.TimeoutSeconds = %d, want 300", cfg.Build.TimeoutSeconds)
	}
	if cfg.Build.TagPrefix != "dockhand" {
		t.Errorf("Build.TagPrefix = %q, want dockhand", cfg.Build.TagPrefix)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Server.Listen = %q, want :8080", cfg.Server.Listen)
	}
	if !cfg.Scan.Enabled {
		t.Error("Scan.Enabled = false, want true by default")
	}
}

func TestLoadOverridesKeepDefaultsElsewhere(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dockhand.yml")
	content := "build:\n  timeout_seconds: 30\nserver:\n  listen: \":9999\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Build.TimeoutSeconds != 30 {
		t.Errorf("Build.TimeoutSeconds = %d, want 30", cfg.Build.TimeoutSeconds)
	}
	if cfg.Server.Listen != ":9999" {
		t.Errorf("Server.Listen = %q, want :9999", cfg.Server.Listen)
	}
	if cfg.Build.DockerBin != "docker" {
		t.Errorf("Build.DockerBin = %q, want untouched default", cfg.Build.DockerBin)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dockhand.yml")
	if err := os.WriteFile(path, []byte("build: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed yaml")
	}
}

func TestValidateRejectsBrokenBuildConfig(t *testing.T) {
	cfg := defaults()
	cfg.Build.TimeoutSeconds = 0
	cfg.Build.TagPrefix = "has space"

	if _, err := Validate(cfg); err == nil {
		t.Fatal("Validate accepted a zero timeout and a bad tag prefix")
	}
}

func TestValidateWarnsOnOddGenerateURL(t *testing.T) {
	cfg := defaults()
	cfg.Generate.URL = "ftp://example.com"

	warnings, err := Validate(cfg)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(warnings) == 0 {
		t.Fatal("expected a warning for a non-HTTP generate url")
	}
}
