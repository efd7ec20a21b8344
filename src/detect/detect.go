// Package detect inspects a repository and produces the descriptor the
// build pipeline and the generation service consume: detected technologies,
// the package manifest (kept verbatim), dependency names, and source files.
package detect

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RepoData describes what was discovered about one repository. Manifest
// holds the raw manifest bytes exactly as found; the pipeline serializes
// them back without modification.
type RepoData struct {
	Name      string `json:"name,omitempty"`
	SourceDir string `json:"-"` // local checkout copied into build contexts; never serialized

	Manifest         json.RawMessage   `json:"manifest,omitempty"`
	ManifestPath     string            `json:"manifest_path,omitempty"`
	Files            []string          `json:"files,omitempty"`
	Technologies     []string          `json:"technologies,omitempty"`
	Dependencies     []string          `json:"dependencies,omitempty"`
	DevDependencies  []string          `json:"dev_dependencies,omitempty"`
	Scripts          map[string]string `json:"scripts,omitempty"`
	EngineConstraint string            `json:"engine_constraint,omitempty"`
}

// languageIndicators maps manifest/lockfile names to a technology.
var languageIndicators = map[string]string{
	"go.mod":            "go",
	"go.sum":            "go",
	"Cargo.toml":        "rust",
	"Cargo.lock":        "rust",
	"package.json":      "node",
	"package-lock.json": "node",
	"yarn.lock":         "node",
	"pnpm-lock.yaml":    "node",
	"bun.lockb":         "node",
	"requirements.txt":  "python",
	"Pipfile":           "python",
	"Pipfile.lock":      "python",
	"pyproject.toml":    "python",
	"poetry.lock":       "python",
	"Gemfile":           "ruby",
	"Gemfile.lock":      "ruby",
	"composer.json":     "php",
	"composer.lock":     "php",
	"pom.xml":           "java",
	"build.gradle":      "java",
}

// skipDirs are never descended into during repo walks.
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true, "target": true,
	"dist": true, "build": true, ".cache": true, "__pycache__": true,
}

// FromDir walks a checked-out repository and assembles its descriptor.
func FromDir(root string) (*RepoData, error) {
	repo := &RepoData{Name: filepath.Base(root), SourceDir: root}
	techs := map[string]bool{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		repo.Files = append(repo.Files, filepath.ToSlash(rel))
		if tech, ok := languageIndicators[d.Name()]; ok {
			techs[tech] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	repo.Technologies = sortedKeys(techs)
	parseManifests(root, repo)
	return repo, nil
}

// FromFileList detects technologies from a bare file listing, as returned
// by the forge API when no local checkout exists.
func FromFileList(name string, files []string) *RepoData {
	repo := &RepoData{Name: name, Files: files}
	techs := map[string]bool{}
	for _, f := range files {
		if tech, ok := languageIndicators[filepath.Base(f)]; ok {
			techs[tech] = true
		}
	}
	repo.Technologies = sortedKeys(techs)
	return repo
}

// parseManifests fills dependency and script details from whichever
// manifest the repo carries. Node wins when several are present: it is the
// manifest the fallback build understands.
func parseManifests(root string, repo *RepoData) {
	if data, err := os.ReadFile(filepath.Join(root, "package.json")); err == nil {
		parseNodeManifest(data, repo)
		return
	}
	if data, err := os.ReadFile(filepath.Join(root, "Cargo.toml")); err == nil {
		parseCargoManifest(data, repo)
		return
	}
	if data, err := os.ReadFile(filepath.Join(root, "pyproject.toml")); err == nil {
		parsePyprojectManifest(data, repo)
		return
	}
	if data, err := os.ReadFile(filepath.Join(root, "go.mod")); err == nil {
		parseGoManifest(data, repo)
	}
}

// HasTechnology reports whether the named technology was detected.
func (r *RepoData) HasTechnology(name string) bool {
	for _, t := range r.Technologies {
		if t == name {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseGoManifest(data []byte, repo *RepoData) {
	repo.ManifestPath = "go.mod"
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			mod := strings.TrimSpace(strings.TrimPrefix(line, "module "))
			if idx := strings.LastIndex(mod, "/"); idx >= 0 {
				mod = mod[idx+1:]
			}
			if repo.Name == "" {
				repo.Name = mod
			}
			break
		}
	}
}
