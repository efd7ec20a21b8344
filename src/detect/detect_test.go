package detect

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()

	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestFromDirNodeProject(t *testing.T) {
	dir := t.TempDir()
	manifest := `{
  "name": "sample-api",
  "scripts": {"start": "node server.js"},
  "dependencies": {"express": "^4.18.2", "axios": "^1.6.0"},
  "engines": {"node": ">=18"}
}`
	writeFile(t, dir, "package.json", manifest)
	writeFile(t, dir, "server.js", "// entry\n")
	writeFile(t, dir, "node_modules/express/index.js", "ignored\n")

	repo, err := FromDir(dir)
	if err != nil {
		t.Fatalf("FromDir: %v", err)
	}

	if repo.Name != "sample-api" {
		t.Errorf("name = %q, want sample-api", repo.Name)
	}
	if !repo.HasTechnology("node") {
		t.Errorf("technologies = %v, want node", repo.Technologies)
	}
	if string(repo.Manifest) != manifest {
		t.Error("manifest bytes were not retained verbatim")
	}
	if got := repo.Dependencies; len(got) != 2 || got[0] != "axios" || got[1] != "express" {
		t.Errorf("dependencies = %v", got)
	}
	if repo.EngineConstraint != ">=18" {
		t.Errorf("engine constraint = %q", repo.EngineConstraint)
	}
	for _, f := range repo.Files {
		if filepath.Dir(f) == "node_modules" {
			t.Errorf("node_modules leaked into file list: %s", f)
		}
	}
}

func TestFromDirInvalidEngineConstraintDropped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name":"x","engines":{"node":"not-a-range ###"}}`)

	repo, err := FromDir(dir)
	if err != nil {
		t.Fatalf("FromDir: %v", err)
	}
	if repo.EngineConstraint != "" {
		t.Errorf("junk constraint kept: %q", repo.EngineConstraint)
	}
}

func TestFromDirCargoProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"mycrate\"\n\n[dependencies]\nserde = \"1\"\ntokio = { version = \"1\", features = [\"full\"] }\n")

	repo, err := FromDir(dir)
	if err != nil {
		t.Fatalf("FromDir: %v", err)
	}
	if repo.Name != "mycrate" {
		t.Errorf("name = %q", repo.Name)
	}
	if !repo.HasTechnology("rust") {
		t.Errorf("technologies = %v, want rust", repo.Technologies)
	}
	if len(repo.Dependencies) != 2 {
		t.Errorf("dependencies = %v", repo.Dependencies)
	}
}

func TestFromDirMalformedManifestKeptVerbatim(t *testing.T) {
	dir := t.TempDir()
	broken := `{"name": "oops", "dependencies": {`
	writeFile(t, dir, "package.json", broken)

	repo, err := FromDir(dir)
	if err != nil {
		t.Fatalf("FromDir: %v", err)
	}
	if string(repo.Manifest) != broken {
		t.Error("malformed manifest bytes must still be retained")
	}
	if len(repo.Dependencies) != 0 {
		t.Errorf("dependencies extracted from broken manifest: %v", repo.Dependencies)
	}
}

func TestFromFileList(t *testing.T) {
	repo := FromFileList("svc", []string{"src/main.py", "requirements.txt", "README.md"})
	if !repo.HasTechnology("python") {
		t.Errorf("technologies = %v, want python", repo.Technologies)
	}
	if repo.HasTechnology("node") {
		t.Errorf("node detected without indicators: %v", repo.Technologies)
	}
}
