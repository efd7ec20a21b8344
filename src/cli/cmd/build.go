package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/dockhand/src/builder"
	"github.com/sofmeright/dockhand/src/detect"
	"github.com/sofmeright/dockhand/src/dockerfile"
	"github.com/sofmeright/dockhand/src/forge"
	"github.com/sofmeright/dockhand/src/generate"
	"github.com/sofmeright/dockhand/src/output"
	"github.com/sofmeright/dockhand/src/scan"
)

var (
	buildID         string
	buildDockerfile string
)

var buildCmd = &cobra.Command{
	Use:   "build [path|git-url]",
	Short: "Build a repository into a container image",
	Long: `Build one repository through the full pipeline: detect the stack,
obtain a Dockerfile (from the repo, a file, or the generation service),
validate it, build it, and fall back to the minimal known-good build if
anything fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildID, "id", "", "build id used in the image tag (default: derived from the repo name)")
	buildCmd.Flags().StringVar(&buildDockerfile, "dockerfile", "", "use this Dockerfile instead of detecting/generating one")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ref := "."
	if len(args) > 0 {
		ref = args[0]
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	ctx := context.Background()
	color := output.UseColor()
	w := os.Stdout
	start := time.Now()

	repo, cleanup, err := resolveLocalRepo(ctx, ref)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return err
	}

	if buildID == "" {
		buildID = sanitizeID(repo.Name)
	}

	text, source, err := resolveDockerfile(ctx, repo)
	if err != nil {
		return err
	}

	sec := output.NewSection(w, "Build", color)
	sec.Row("repo:     %s", ref)
	sec.Row("build id: %s", buildID)
	sec.Row("stack:    %s", strings.Join(repo.Technologies, ", "))
	sec.Row("source:   %s", source)

	verdict := dockerfile.Validate(text)
	for _, warning := range verdict.Warnings {
		sec.Row("warn:     %s", warning)
	}
	if !verdict.Valid {
		for _, e := range verdict.Errors {
			sec.Row("invalid:  %s", e)
		}
		sec.Row("primary build file rejected; falling back")
	}
	sec.Separator()

	var scanner *scan.Scanner
	if cfg.Scan.Enabled {
		if scanner, err = scan.NewScanner(log); err != nil {
			return fmt.Errorf("initializing secret scanner: %w", err)
		}
	}

	pipeline := builder.New(cfg.Build, scanner, log)
	res := pipeline.Run(ctx, buildID, text, repo)

	if res.Success {
		sec.Row("%s built %s in %s", output.Status(true, color), res.ArtifactID, output.FormatElapsed(time.Since(start)))
		sec.Close()
		return nil
	}
	sec.Row("%s %s", output.Status(false, color), res.ErrorMessage)
	sec.Close()
	return fmt.Errorf("build %s failed", buildID)
}

// resolveLocalRepo produces a descriptor for a local path or a git URL.
func resolveLocalRepo(ctx context.Context, ref string) (*detect.RepoData, func(), error) {
	if forge.IsGitURL(ref) {
		dir, err := os.MkdirTemp("", "dockhand-src-*")
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { os.RemoveAll(dir) }
		if err := forge.Clone(ctx, ref, dir, os.Stderr); err != nil {
			return nil, cleanup, err
		}
		repo, err := detect.FromDir(dir)
		return repo, cleanup, err
	}

	abs, err := filepath.Abs(ref)
	if err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, nil, fmt.Errorf("repository path %s: %w", ref, err)
	}
	repo, err := detect.FromDir(abs)
	return repo, nil, err
}

// resolveDockerfile picks the build-file text and says where it came from:
// the --dockerfile flag, the repo's own Dockerfile, the generation
// service, or empty (which fails validation and lands in the fallback).
func resolveDockerfile(ctx context.Context, repo *detect.RepoData) (text, source string, err error) {
	if buildDockerfile != "" {
		data, err := os.ReadFile(buildDockerfile)
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", buildDockerfile, err)
		}
		return string(data), buildDockerfile, nil
	}

	if repo.SourceDir != "" {
		if data, err := os.ReadFile(filepath.Join(repo.SourceDir, "Dockerfile")); err == nil {
			return string(data), "repository Dockerfile", nil
		}
	}

	if gen := generate.NewClient(cfg.Generate); gen != nil {
		resp, err := gen.Generate(ctx, repo)
		if err != nil {
			// Not fatal: the pipeline falls back.
			return "", "generation failed, using fallback", nil
		}
		if len(resp.Technologies) > 0 {
			repo.Technologies = resp.Technologies
		}
		return resp.Dockerfile, "generation service", nil
	}

	return "", "none available, using fallback", nil
}

// sanitizeID turns a repo name into a tag-safe build id.
func sanitizeID(name string) string {
	id := strings.ToLower(name)
	id = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, id)
	id = strings.Trim(id, "-.")
	if id == "" {
		id = "app"
	}
	return id
}
