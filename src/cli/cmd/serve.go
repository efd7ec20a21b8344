package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sofmeright/dockhand/src/builder"
	"github.com/sofmeright/dockhand/src/generate"
	"github.com/sofmeright/dockhand/src/scan"
	"github.com/sofmeright/dockhand/src/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the build API server",
	Long: `Serve the dockhand HTTP API.

POST /api/v1/builds accepts a build id, a repository reference, and
optionally Dockerfile text; the response is the build record with its
final result. Image queries and status badges hang off the same API.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	var scanner *scan.Scanner
	if cfg.Scan.Enabled {
		scanner, err = scan.NewScanner(log)
		if err != nil {
			return fmt.Errorf("initializing secret scanner: %w", err)
		}
	}

	pipeline := builder.New(cfg.Build, scanner, log)
	gen := generate.NewClient(cfg.Generate)
	if gen == nil {
		log.Info("no generation service configured; builds need caller-supplied Dockerfiles or fall back")
	}

	srv := server.New(cfg, pipeline, gen, log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	return srv.Listen()
}
