package store

import (
	"testing"

	"github.com/sofmeright/dockhand/src/builder"
	"github.com/sofmeright/dockhand/src/scan"
)

func TestCreateStartsPending(t *testing.T) {
	s := New()
	job := s.Create("job1", "acme/app")

	if job.Status != StatusPending {
		t.Fatalf("Status = %q, want %q", job.Status, StatusPending)
	}
	if job.BuildID != "job1" || job.RepoRef != "acme/app" {
		t.Fatalf("job = %+v", job)
	}
	if job.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not set")
	}
}

func TestFinishSetsTerminalStatus(t *testing.T) {
	s := New()
	s.Create("ok", "")
	s.Create("bad", "")

	s.Finish("ok", builder.Result{Success: true, ArtifactID: "dockhand-ok:latest"})
	s.Finish("bad", builder.Result{Success: false, ErrorMessage: "fallback exhausted"})

	ok := s.Get("ok")
	if ok.Status != StatusSuccess || ok.Result == nil || ok.Result.ArtifactID == "" {
		t.Fatalf("success job = %+v", ok)
	}
	if ok.FinishedAt == nil {
		t.Fatal("FinishedAt not set")
	}

	bad := s.Get("bad")
	if bad.Status != StatusFailed || bad.Result == nil || bad.Result.ErrorMessage == "" {
		t.Fatalf("failed job = %+v", bad)
	}
}

func TestGetUnknownReturnsNil(t *testing.T) {
	if job := New().Get("nope"); job != nil {
		t.Fatalf("Get(unknown) = %+v, want nil", job)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	s.Create("job1", "")

	s.Get("job1").Status = StatusFailed

	if got := s.Get("job1").Status; got != StatusPending {
		t.Fatalf("mutation through Get leaked into the store: %q", got)
	}
}

func TestGetCopiesNestedState(t *testing.T) {
	s := New()
	s.Create("job1", "")
	s.Update("job1", func(j *Job) {
		j.Technologies = []string{"node"}
		j.Findings = []scan.Finding{{File: "config.js", Line: 3, RuleID: "generic-api-key"}}
	})
	s.Finish("job1", builder.Result{Success: true, ArtifactID: "dockhand-job1:latest"})

	got := s.Get("job1")
	got.Technologies[0] = "mutated"
	got.Findings[0].RuleID = "mutated"
	got.Result.ArtifactID = "mutated"

	fresh := s.Get("job1")
	if fresh.Technologies[0] != "node" {
		t.Error("technology slice shared with the store")
	}
	if fresh.Findings[0].RuleID != "generic-api-key" {
		t.Error("findings slice shared with the store")
	}
	if fresh.Result.ArtifactID != "dockhand-job1:latest" {
		t.Error("result pointer shared with the store")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := New()
	s.Create("first", "")
	s.Create("second", "")
	s.Update("second", func(j *Job) { j.CreatedAt = j.CreatedAt.Add(1) })

	jobs := s.List()
	if len(jobs) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(jobs))
	}
	if jobs[0].BuildID != "second" {
		t.Fatalf("List()[0] = %q, want newest first", jobs[0].BuildID)
	}
}
