package builder

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/sofmeright/dockhand/src/registry"
)

// Executor runs the external container builder against one workspace.
type Executor struct {
	bin     string
	timeout time.Duration
	reg     *registry.Client
	log     *zap.Logger
}

// NewExecutor wires an Executor. reg is used for post-build verification:
// the builder's own success signal is never trusted alone.
func NewExecutor(bin string, timeout time.Duration, reg *registry.Client, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{bin: bin, timeout: timeout, reg: reg, log: log}
}

// Execute builds the workspace at dir into tag. It bounds wall-clock
// duration, classifies the tool's output, and independently verifies the
// image exists before reporting success. Returns nil only for a verified
// artifact; otherwise one of the sentinel errors, wrapped with detail.
func (e *Executor) Execute(ctx context.Context, dir, tag string) error {
	buildCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(buildCtx, e.bin, "build", "-t", tag, ".")
	cmd.Dir = dir
	// Grandchildren inheriting the output pipes must not be able to stall
	// Wait past the timeout.
	cmd.WaitDelay = 10 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	combined := stdout.String() + stderr.String()

	if buildCtx.Err() == context.DeadlineExceeded {
		e.log.Warn("build timed out",
			zap.String("tag", tag),
			zap.Duration("timeout", e.timeout))
		return fmt.Errorf("%w after %s", ErrBuildTimeout, e.timeout)
	}

	if runErr != nil {
		e.log.Warn("build tool exited non-zero",
			zap.String("tag", tag),
			zap.Duration("elapsed", elapsed),
			zap.Error(runErr))
		if detail := lastLine(combined); detail != "" {
			return fmt.Errorf("%w: %s", ErrBuildTool, detail)
		}
		return fmt.Errorf("%w: %v", ErrBuildTool, runErr)
	}

	if OutputIndicatesFailure(combined) {
		e.log.Warn("build output classified as failure",
			zap.String("tag", tag),
			zap.String("detail", lastLine(combined)))
		return fmt.Errorf("%w: %s", ErrBuildTool, lastLine(combined))
	}

	// Two-phase verification: the tool said success, now the image store
	// must actually contain the tag.
	if img := e.reg.Inspect(ctx, tag); img == nil || img.ID == "" {
		return fmt.Errorf("%w: %s", ErrBuildVerification, tag)
	}

	e.log.Info("build succeeded",
		zap.String("tag", tag),
		zap.Duration("elapsed", elapsed))
	return nil
}
