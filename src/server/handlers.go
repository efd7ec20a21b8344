package server

import (
	"os"
	"regexp"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sofmeright/dockhand/src/badge"
	"github.com/sofmeright/dockhand/src/builder"
	"github.com/sofmeright/dockhand/src/detect"
	"github.com/sofmeright/dockhand/src/forge"
	"github.com/sofmeright/dockhand/src/registry"
	"github.com/sofmeright/dockhand/src/store"
)

// buildIDRe keeps ids filesystem- and tag-safe before they reach the core,
// which uses them verbatim.
var buildIDRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]{0,63}$`)

type buildRequest struct {
	BuildID    string `json:"build_id"`
	RepoRef    string `json:"repo_ref"`
	Dockerfile string `json:"dockerfile"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleCreateBuild(c *fiber.Ctx) error {
	var req buildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if !buildIDRe.MatchString(req.BuildID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "build_id must be a short tag-safe identifier"})
	}

	// Bound concurrent builds; additional requests queue here.
	if err := s.sem.Acquire(c.Context(), 1); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "server shutting down"})
	}
	defer s.sem.Release(1)

	job := s.jobs.Create(req.BuildID, req.RepoRef)
	s.jobs.Update(req.BuildID, func(j *store.Job) { j.Status = store.StatusBuilding })

	repo, cleanup := s.resolveRepo(c, req.RepoRef)
	if cleanup != nil {
		defer cleanup()
	}

	text := req.Dockerfile
	if text == "" && s.gen != nil && repo != nil {
		if resp, err := s.gen.Generate(c.Context(), repo); err == nil {
			text = resp.Dockerfile
			if len(resp.Technologies) > 0 {
				repo.Technologies = resp.Technologies
			}
		} else {
			// Generation failure is not fatal: empty text fails validation
			// and the pipeline recovers through the fallback.
			s.log.Warn("generation service failed", zap.String("build_id", req.BuildID), zap.Error(err))
		}
	}
	if repo != nil {
		s.jobs.Update(req.BuildID, func(j *store.Job) { j.Technologies = repo.Technologies })
	}

	res := s.pipeline.Run(c.Context(), req.BuildID, text, repo)
	s.jobs.Finish(req.BuildID, res)

	s.maybeCommitBack(c, req, text, res)

	job = s.jobs.Get(req.BuildID)
	return c.JSON(job)
}

// resolveRepo turns a repository reference into a descriptor. Returns a
// cleanup func when a temporary checkout was made. Resolution failures are
// logged and produce a nil descriptor; the pipeline still runs and can
// fall back.
func (s *Server) resolveRepo(c *fiber.Ctx, ref string) (*detect.RepoData, func()) {
	switch {
	case ref == "":
		return nil, nil

	case forge.IsGitURL(ref):
		dir, err := os.MkdirTemp("", "dockhand-src-*")
		if err != nil {
			s.log.Warn("checkout dir", zap.Error(err))
			return nil, nil
		}
		cleanup := func() { os.RemoveAll(dir) }
		if err := forge.Clone(c.Context(), ref, dir, nil); err != nil {
			s.log.Warn("clone failed", zap.String("ref", ref), zap.Error(err))
			return nil, cleanup
		}
		repo, err := detect.FromDir(dir)
		if err != nil {
			s.log.Warn("detect failed", zap.String("ref", ref), zap.Error(err))
			return nil, cleanup
		}
		return repo, cleanup

	case forge.IsOwnerRepo(ref):
		owner, name := forge.SplitOwnerRepo(ref)
		gh := forge.NewGitHub(s.cfg.GitHub.BaseURL, owner, name)

		files, err := gh.ListFiles(c.Context())
		if err != nil {
			s.log.Warn("github listing failed", zap.String("ref", ref), zap.Error(err))
			return nil, nil
		}
		repo := detect.FromFileList(name, files)
		if manifest, err := gh.FetchFile(c.Context(), "package.json"); err == nil {
			repo.Manifest = manifest
		}
		return repo, nil

	default:
		s.log.Warn("unrecognized repo reference", zap.String("ref", ref))
		return nil, nil
	}
}

// maybeCommitBack pushes the built Dockerfile to the source repository
// when configured. Best-effort glue; never affects the build result.
func (s *Server) maybeCommitBack(c *fiber.Ctx, req buildRequest, text string, res builder.Result) {
	if !s.cfg.GitHub.CommitBack || !res.Success || text == "" || !forge.IsOwnerRepo(req.RepoRef) {
		return
	}
	owner, name := forge.SplitOwnerRepo(req.RepoRef)
	gh := forge.NewGitHub(s.cfg.GitHub.BaseURL, owner, name)
	if err := gh.CommitFile(c.Context(), "Dockerfile", "Add Dockerfile generated by dockhand", []byte(text)); err != nil {
		s.log.Warn("commit-back failed", zap.String("ref", req.RepoRef), zap.Error(err))
	}
}

func (s *Server) handleListBuilds(c *fiber.Ctx) error {
	return c.JSON(s.jobs.List())
}

func (s *Server) handleGetBuild(c *fiber.Ctx) error {
	job := s.jobs.Get(c.Params("id"))
	if job == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown build id"})
	}
	return c.JSON(job)
}

func (s *Server) handleBuildBadge(c *fiber.Ctx) error {
	status := "unknown"
	if job := s.jobs.Get(c.Params("id")); job != nil {
		status = job.Status
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.SendString(s.badges.Generate(badge.ForStatus(status)))
}

func (s *Server) handleListImages(c *fiber.Ctx) error {
	images := s.pipeline.Registry().ListAll(c.Context())
	if images == nil {
		images = []registry.ImageInfo{}
	}
	return c.JSON(fiber.Map{"images": images})
}

func (s *Server) handleInspectImage(c *fiber.Ctx) error {
	tag := builder.ImageTag(s.cfg.Build.TagPrefix, c.Params("id"))
	img := s.pipeline.Registry().Inspect(c.Context(), tag)
	if img == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not found", "tag": tag})
	}
	return c.JSON(img)
}

func (s *Server) handleDeleteImage(c *fiber.Ctx) error {
	tag := builder.ImageTag(s.cfg.Build.TagPrefix, c.Params("id"))
	if !s.pipeline.Registry().Delete(c.Context(), tag) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "image not deleted", "tag": tag})
	}
	return c.JSON(fiber.Map{"deleted": tag})
}
