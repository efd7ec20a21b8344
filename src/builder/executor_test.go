package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sofmeright/dockhand/src/registry"
)

// writeStub writes an executable shell script standing in for the docker
// CLI and returns its path.
func writeStub(t *testing.T, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "docker")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("writing stub: %v", err)
	}
	return path
}

const imageRecord = `{"repository":"dockhand-job1","tag":"latest","id":"sha256:abc123","created":"2026-01-02 15:04:05 +0000 UTC","size":"121MB"}`

// stubHappy builds successfully and reports the image present.
func stubHappy(t *testing.T) string {
	t.Helper()
	return writeStub(t, `case "$1" in
build) echo "Successfully built abc123"; exit 0 ;;
images) echo '`+imageRecord+`'; exit 0 ;;
esac
exit 1
`)
}

func testWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\nCMD [\"/app\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newTestExecutor(t *testing.T, bin string, timeout time.Duration) *Executor {
	t.Helper()
	reg := registry.NewClient(bin, "dockhand", nil)
	return NewExecutor(bin, timeout, reg, nil)
}

func TestExecuteVerifiedSuccess(t *testing.T) {
	exec := newTestExecutor(t, stubHappy(t), 30*time.Second)

	if err := exec.Execute(context.Background(), testWorkspace(t), "dockhand-job1:latest"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestExecuteNonZeroExit(t *testing.T) {
	bin := writeStub(t, `case "$1" in
build) echo "ERROR: no such file" >&2; exit 1 ;;
images) exit 0 ;;
esac
`)
	exec := newTestExecutor(t, bin, 30*time.Second)

	err := exec.Execute(context.Background(), testWorkspace(t), "dockhand-job1:latest")
	if !errors.Is(err, ErrBuildTool) {
		t.Fatalf("expected ErrBuildTool, got %v", err)
	}
}

func TestExecuteErrorMarkerWithoutSuccessMarker(t *testing.T) {
	// Exit 0 but the stream carries a bare error marker.
	bin := writeStub(t, `case "$1" in
build) echo "ERROR: failed to resolve base image" >&2; exit 0 ;;
images) echo '`+imageRecord+`'; exit 0 ;;
esac
`)
	exec := newTestExecutor(t, bin, 30*time.Second)

	err := exec.Execute(context.Background(), testWorkspace(t), "dockhand-job1:latest")
	if !errors.Is(err, ErrBuildTool) {
		t.Fatalf("expected ErrBuildTool from output classification, got %v", err)
	}
}

func TestExecuteVerificationFailure(t *testing.T) {
	// Tool claims success, image store has nothing.
	bin := writeStub(t, `case "$1" in
build) echo "Successfully built abc123"; exit 0 ;;
images) exit 0 ;;
esac
`)
	exec := newTestExecutor(t, bin, 30*time.Second)

	err := exec.Execute(context.Background(), testWorkspace(t), "dockhand-job1:latest")
	if !errors.Is(err, ErrBuildVerification) {
		t.Fatalf("expected ErrBuildVerification, got %v", err)
	}
}

func TestExecuteTimeout(t *testing.T) {
	bin := writeStub(t, `case "$1" in
build) exec sleep 5 ;;
images) exit 0 ;;
esac
`)
	exec := newTestExecutor(t, bin, 100*time.Millisecond)

	start := time.Now()
	err := exec.Execute(context.Background(), testWorkspace(t), "dockhand-job1:latest")
	if !errors.Is(err, ErrBuildTimeout) {
		t.Fatalf("expected ErrBuildTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout did not bound the build: %s", elapsed)
	}
}
