package detect

import (
	"encoding/json"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
)

// nodeManifest is the subset of package.json this system reads. The raw
// bytes are retained separately; this struct is never serialized back.
type nodeManifest struct {
	Name            string            `json:"name"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Engines         struct {
		Node string `json:"node"`
	} `json:"engines"`
}

func parseNodeManifest(data []byte, repo *RepoData) {
	repo.Manifest = json.RawMessage(data)
	repo.ManifestPath = "package.json"

	var m nodeManifest
	if err := json.Unmarshal(data, &m); err != nil {
		// Malformed manifest: keep the raw bytes (they are still written
		// verbatim) but extract nothing.
		return
	}
	if m.Name != "" {
		repo.Name = m.Name
	}
	repo.Scripts = m.Scripts
	repo.Dependencies = sortedNames(m.Dependencies)
	repo.DevDependencies = sortedNames(m.DevDependencies)
	repo.EngineConstraint = normalizeEngine(m.Engines.Node)
}

// normalizeEngine keeps the declared node constraint only when it parses
// as a semver range; junk constraints would poison generated build files.
func normalizeEngine(constraint string) string {
	if constraint == "" {
		return ""
	}
	if _, err := semver.NewConstraint(constraint); err != nil {
		return ""
	}
	return constraint
}

type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Dependencies map[string]any `toml:"dependencies"`
}

func parseCargoManifest(data []byte, repo *RepoData) {
	repo.ManifestPath = "Cargo.toml"

	var m cargoManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return
	}
	if m.Package.Name != "" {
		repo.Name = m.Package.Name
	}
	for name := range m.Dependencies {
		repo.Dependencies = append(repo.Dependencies, name)
	}
	sort.Strings(repo.Dependencies)
}

type pyprojectManifest struct {
	Project struct {
		Name         string   `toml:"name"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

func parsePyprojectManifest(data []byte, repo *RepoData) {
	repo.ManifestPath = "pyproject.toml"

	var m pyprojectManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return
	}
	if m.Project.Name != "" {
		repo.Name = m.Project.Name
	}
	repo.Dependencies = append(repo.Dependencies, m.Project.Dependencies...)
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
