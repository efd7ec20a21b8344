// Package workspace manages isolated, disposable build-context directories.
// Each build attempt gets its own uniquely named directory under a shared
// root; nothing outside this package writes into it, and it is destroyed
// unconditionally when the attempt concludes.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sofmeright/dockhand/src/detect"
)

// entrypointNames are files that count as an existing entry-point source.
// If any is present, no placeholder is generated.
var entrypointNames = []string{"server.js", "index.js", "app.js", "main.js"}

// Manager creates and destroys per-attempt workspaces beneath a fixed root.
// The root is injected once at process start; isolation between concurrent
// attempts comes purely from the unique subdirectory names.
type Manager struct {
	root string
	log  *zap.Logger
}

// NewManager returns a Manager rooted at dir.
func NewManager(dir string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{root: dir, log: log}
}

// Create makes a fresh workspace directory and returns its path.
// Failure here is fatal to the attempt: there is nowhere to build.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return "", fmt.Errorf("creating workspace root %s: %w", m.root, err)
	}
	dir := filepath.Join(m.root, "build-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating workspace %s: %w", dir, err)
	}
	return dir, nil
}

// Materialize assembles a self-sufficient build context in dir: the build
// file, the fixed exclusion manifest, a package manifest, and a placeholder
// entry point. Generated content is only written where the caller (or a
// previous call) contributed nothing, so materializing twice never clobbers
// caller-supplied files.
func (m *Manager) Materialize(dir, dockerfileText string, repo *detect.RepoData) error {
	if repo != nil && repo.SourceDir != "" {
		if err := copyTree(repo.SourceDir, dir); err != nil {
			return fmt.Errorf("copying source into workspace: %w", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte(dockerfileText), 0o644); err != nil {
		return fmt.Errorf("writing Dockerfile: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".dockerignore"), []byte(Dockerignore), 0o644); err != nil {
		return fmt.Errorf("writing .dockerignore: %w", err)
	}

	if err := m.materializeManifest(dir, repo); err != nil {
		return err
	}
	return m.materializeEntrypoint(dir)
}

// materializeManifest writes package.json unless one already exists.
// A caller-supplied manifest is written verbatim, with no merging or
// inference, so its bytes survive repeated materialization untouched.
func (m *Manager) materializeManifest(dir string, repo *detect.RepoData) error {
	path := filepath.Join(dir, "package.json")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	content := []byte(FallbackManifest)
	if repo != nil && len(repo.Manifest) > 0 {
		content = repo.Manifest
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing package.json: %w", err)
	}
	return nil
}

// materializeEntrypoint writes the placeholder server only when the context
// has no entry-point source of its own. Only files actually on disk count:
// a repo listing that names an entry point which was never materialized
// must not suppress the placeholder, or the manifest's start script would
// reference a file that does not exist.
func (m *Manager) materializeEntrypoint(dir string) error {
	for _, name := range entrypointNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return nil
		}
	}

	if err := os.WriteFile(filepath.Join(dir, "server.js"), []byte(FallbackServer), 0o644); err != nil {
		return fmt.Errorf("writing server.js: %w", err)
	}
	return nil
}

// copySkip are source directories never copied into a build context; the
// exclusion manifest would drop them from the upload anyway.
var copySkip = map[string]bool{".git": true, "node_modules": true}

// copyTree copies the checkout into the workspace, keeping each file's
// permission bits so executable scripts still run inside the build.
// Existing destination files are left alone so repeated materialization
// never rewrites anything.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(src, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if copySkip[d.Name()] {
				return filepath.SkipDir
			}
			return os.MkdirAll(target, 0o755)
		}
		if _, statErr := os.Stat(target); statErr == nil {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		return os.WriteFile(target, data, info.Mode().Perm())
	})
}

// Destroy removes the workspace recursively, best-effort. Cleanup failure
// is logged and swallowed: it must never flip a build verdict after the
// artifact already exists (or the failure is already decided).
func (m *Manager) Destroy(dir string) {
	if dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		m.log.Warn("workspace cleanup failed", zap.String("dir", dir), zap.Error(err))
	}
}
