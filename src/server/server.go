// Package server exposes the build pipeline over HTTP. The handlers are
// thin wrappers: all build semantics live in the builder package, and the
// API only ever sees the two-shape Result.
package server

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/sofmeright/dockhand/src/badge"
	"github.com/sofmeright/dockhand/src/builder"
	"github.com/sofmeright/dockhand/src/config"
	"github.com/sofmeright/dockhand/src/generate"
	"github.com/sofmeright/dockhand/src/scan"
	"github.com/sofmeright/dockhand/src/store"
)

// Server wires the HTTP API to the pipeline.
type Server struct {
	cfg      *config.Config
	pipeline *builder.Pipeline
	gen      *generate.Client // nil when no generation service is configured
	jobs     *store.Store
	badges   *badge.Engine
	sem      *semaphore.Weighted
	log      *zap.Logger
	app      *fiber.App
}

// New assembles the API server.
func New(cfg *config.Config, pipeline *builder.Pipeline, gen *generate.Client, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	metrics := badge.ApproximateMetrics(cfg.Badge.FontSize)
	if cfg.Badge.FontPath != "" {
		if m, err := badge.LoadMetrics(cfg.Badge.FontPath, cfg.Badge.FontSize); err == nil {
			metrics = m
		} else {
			log.Warn("badge font unusable, using approximate metrics",
				zap.String("path", cfg.Badge.FontPath), zap.Error(err))
		}
	}

	s := &Server{
		cfg:      cfg,
		pipeline: pipeline,
		gen:      gen,
		jobs:     store.New(),
		badges:   badge.New(metrics),
		sem:      semaphore.NewWeighted(cfg.Server.MaxConcurrent),
		log:      log,
	}

	pipeline.OnFindings = func(buildID string, findings []scan.Finding) {
		s.jobs.Update(buildID, func(j *store.Job) { j.Findings = findings })
	}

	s.app = fiber.New(fiber.Config{
		BodyLimit:             cfg.Server.RequestBodyMax,
		DisableStartupMessage: true,
	})
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.handleHealth)

	api := s.app.Group("/api")
	v1 := api.Group("/v1")

	builds := v1.Group("/builds")
	builds.Post("/", s.handleCreateBuild)
	builds.Get("/", s.handleListBuilds)
	builds.Get("/:id", s.handleGetBuild)
	builds.Get("/:id/badge", s.handleBuildBadge)

	images := v1.Group("/images")
	images.Get("/", s.handleListImages)
	images.Get("/:id", s.handleInspectImage)
	images.Delete("/:id", s.handleDeleteImage)
}

// Listen serves the API until the listener fails or is shut down.
func (s *Server) Listen() error {
	s.log.Info("api listening", zap.String("addr", s.cfg.Server.Listen))
	return s.app.Listen(s.cfg.Server.Listen)
}

// Shutdown drains the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
