package builder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sofmeright/dockhand/src/detect"
	"github.com/sofmeright/dockhand/src/workspace"
)

// RunFallback builds the hand-authored minimal image for buildID. It never
// tries to repair the original build file: the fallback Dockerfile is
// fixed, the workspace is its own (separate from any partial workspace of
// the primary attempt), and the executor rules are identical. primaryErr
// is what sent us here; if the fallback also fails, the terminal message
// names both causes so operators can tell bad generated input apart from a
// builder outage.
func (p *Pipeline) RunFallback(ctx context.Context, buildID string, repo *detect.RepoData, primaryErr error) Result {
	p.log.Info("running fallback build",
		zap.String("build_id", buildID),
		zap.NamedError("primary_error", primaryErr))

	dir, err := p.ws.Create()
	if err != nil {
		return p.exhausted(primaryErr, fmt.Errorf("%w: %v", ErrWorkspaceIO, err))
	}
	defer p.ws.Destroy(dir)

	if err := p.ws.Materialize(dir, workspace.FallbackDockerfile, repo); err != nil {
		return p.exhausted(primaryErr, fmt.Errorf("%w: %v", ErrWorkspaceIO, err))
	}

	tag := ImageTag(p.prefix, buildID)
	if err := p.exec.Execute(ctx, dir, tag); err != nil {
		return p.exhausted(primaryErr, err)
	}

	return Result{Success: true, ArtifactID: tag}
}

// exhausted produces the terminal failure Result when both paths failed.
func (p *Pipeline) exhausted(primaryErr, fallbackErr error) Result {
	msg := fmt.Sprintf("%s: primary: %v; fallback: %v", ErrFallbackExhausted, primaryErr, fallbackErr)
	p.log.Error("build exhausted",
		zap.NamedError("primary_error", primaryErr),
		zap.NamedError("fallback_error", fallbackErr))
	return Result{Success: false, ErrorMessage: msg}
}
