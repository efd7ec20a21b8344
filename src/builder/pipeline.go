// Package builder implements the build-and-validate pipeline: it takes
// untrusted generated build-file text, statically validates it, assembles
// an isolated build context, invokes the external container builder with a
// timeout, classifies and verifies the outcome, and deterministically
// recovers through a fixed fallback build. Callers only ever see a Result;
// no stage failure escapes as an error.
package builder

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sofmeright/dockhand/src/config"
	"github.com/sofmeright/dockhand/src/detect"
	"github.com/sofmeright/dockhand/src/dockerfile"
	"github.com/sofmeright/dockhand/src/registry"
	"github.com/sofmeright/dockhand/src/scan"
	"github.com/sofmeright/dockhand/src/workspace"
)

// Pipeline owns one configuration's worth of build machinery. It is safe
// for concurrent use: attempts share nothing but the workspace root and
// the daemon's image store, both namespaced per attempt (unique workspace
// tokens, per-build-id tags).
type Pipeline struct {
	prefix  string
	ws      *workspace.Manager
	exec    *Executor
	reg     *registry.Client
	scanner *scan.Scanner
	log     *zap.Logger

	// OnFindings, when set, receives secret-scan findings for each attempt
	// before the build runs. Findings never block a build.
	OnFindings func(buildID string, findings []scan.Finding)
}

// New assembles a Pipeline from build configuration. scanner may be nil to
// disable the pre-build secret scan.
func New(cfg config.BuildConfig, scanner *scan.Scanner, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	reg := registry.NewClient(cfg.DockerBin, cfg.TagPrefix, log)
	return &Pipeline{
		prefix:  cfg.TagPrefix,
		ws:      workspace.NewManager(cfg.Root, log),
		exec:    NewExecutor(cfg.DockerBin, cfg.Timeout(), reg, log),
		reg:     reg,
		scanner: scanner,
		log:     log,
	}
}

// Registry exposes the pipeline's image store client.
func (p *Pipeline) Registry() *registry.Client { return p.reg }

// Run executes one build attempt end to end and always returns a Result.
// Invalid build files transfer directly to the fallback: the rejected text
// is never written to any workspace.
func (p *Pipeline) Run(ctx context.Context, buildID, dockerfileText string, repo *detect.RepoData) Result {
	verdict := dockerfile.Validate(dockerfileText)
	for _, w := range verdict.Warnings {
		p.log.Info("validator warning", zap.String("build_id", buildID), zap.String("warning", w))
	}
	for _, s := range verdict.Suggestions {
		p.log.Debug("validator suggestion", zap.String("build_id", buildID), zap.String("suggestion", s))
	}
	if !verdict.Valid {
		err := fmt.Errorf("%w: %s", ErrValidation, strings.Join(verdict.Errors, "; "))
		return p.RunFallback(ctx, buildID, repo, err)
	}

	dir, err := p.ws.Create()
	if err != nil {
		return p.RunFallback(ctx, buildID, repo, fmt.Errorf("%w: %v", ErrWorkspaceIO, err))
	}
	defer p.ws.Destroy(dir)

	if err := p.ws.Materialize(dir, dockerfileText, repo); err != nil {
		return p.RunFallback(ctx, buildID, repo, fmt.Errorf("%w: %v", ErrWorkspaceIO, err))
	}

	if p.scanner != nil {
		findings := p.scanner.ScanDir(dir)
		if p.OnFindings != nil {
			p.OnFindings(buildID, findings)
		}
	}

	tag := ImageTag(p.prefix, buildID)
	if err := p.exec.Execute(ctx, dir, tag); err != nil {
		return p.RunFallback(ctx, buildID, repo, err)
	}

	return Result{Success: true, ArtifactID: tag}
}
