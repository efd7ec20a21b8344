package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "docker")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("writing stub: %v", err)
	}
	return path
}

const listing = `echo '{"repository":"dockhand-job1","tag":"latest","id":"sha256:aaa","created":"2026-01-02 15:04:05 +0000 UTC","size":"121MB"}'
echo '{"repository":"dockhand-job2","tag":"latest","id":"sha256:bbb","created":"2026-01-03 15:04:05 +0000 UTC","size":"98MB"}'
echo '{"repository":"postgres","tag":"16","id":"sha256:ccc","created":"2026-01-01 15:04:05 +0000 UTC","size":"412MB"}'
echo '{"repository":"dockhand-job3","tag":"<none>","id":"sha256:ddd","created":"2026-01-01 15:04:05 +0000 UTC","size":"10MB"}'`

func TestListAllFiltersByPrefix(t *testing.T) {
	c := NewClient(writeStub(t, listing), "dockhand", nil)

	images := c.ListAll(context.Background())
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2: %+v", len(images), images)
	}
	for _, img := range images {
		if img.Repository == "postgres" {
			t.Error("foreign image leaked through the prefix filter")
		}
		if img.Tag == "<none>" {
			t.Error("untagged image leaked through")
		}
		if img.CreatedAt.IsZero() {
			t.Errorf("timestamp not parsed for %s", img.Repository)
		}
	}
}

func TestInspectMissingImageReturnsNil(t *testing.T) {
	c := NewClient(writeStub(t, "exit 0"), "dockhand", nil)

	if img := c.Inspect(context.Background(), "dockhand-nope:latest"); img != nil {
		t.Errorf("expected nil for missing image, got %+v", img)
	}
}

func TestInspectToleratesQueryFailure(t *testing.T) {
	c := NewClient(writeStub(t, `echo "Cannot connect to the Docker daemon" >&2; exit 1`), "dockhand", nil)

	// Fault-tolerant: a failed query is an empty result, never a panic or error.
	if img := c.Inspect(context.Background(), "dockhand-job1:latest"); img != nil {
		t.Errorf("expected nil on query failure, got %+v", img)
	}
	if images := c.ListAll(context.Background()); images != nil {
		t.Errorf("expected empty list on query failure, got %+v", images)
	}
}

func TestDeleteRefusesForeignImages(t *testing.T) {
	// The stub would succeed, so a true result means the guard failed.
	c := NewClient(writeStub(t, "exit 0"), "dockhand", nil)

	if c.Delete(context.Background(), "postgres:16") {
		t.Error("deleted an image outside the owned prefix")
	}
	if !c.Delete(context.Background(), "dockhand-job1:latest") {
		t.Error("refused to delete an owned image")
	}
}

func TestDeleteReportsFailure(t *testing.T) {
	c := NewClient(writeStub(t, "exit 1"), "dockhand", nil)

	if c.Delete(context.Background(), "dockhand-job1:latest") {
		t.Error("delete reported success despite rmi failure")
	}
}

func TestSplitRef(t *testing.T) {
	cases := []struct{ ref, repo, tag string }{
		{"dockhand-job1:latest", "dockhand-job1", "latest"},
		{"dockhand-job1", "dockhand-job1", "latest"},
		{"registry.local:5000/app", "registry.local:5000/app", "latest"},
	}
	for _, tc := range cases {
		repo, tag := splitRef(tc.ref)
		if repo != tc.repo || tag != tc.tag {
			t.Errorf("splitRef(%q) = %q,%q want %q,%q", tc.ref, repo, tag, tc.repo, tc.tag)
		}
	}
}
