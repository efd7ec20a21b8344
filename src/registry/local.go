package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to the local docker daemon through the docker CLI, not a
// remote API. The bin is configurable so tests can stub it.
type Client struct {
	bin    string
	prefix string
	log    *zap.Logger
}

// NewClient returns a Client scoped to repositories beginning with prefix.
func NewClient(bin, prefix string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{bin: bin, prefix: prefix + "-", log: log}
}

const imagesFormat = `{"repository":"{{.Repository}}","tag":"{{.Tag}}","id":"{{.ID}}","created":"{{.CreatedAt}}","size":"{{.Size}}"}`

// Inspect looks up a single image reference. Returns nil when the image
// does not exist or the query itself fails.
func (c *Client) Inspect(ctx context.Context, ref string) *ImageInfo {
	images := c.query(ctx, ref)
	if len(images) == 0 {
		return nil
	}
	return &images[0]
}

// ListAll returns every image belonging to this system, identified purely
// by the repository name prefix.
func (c *Client) ListAll(ctx context.Context) []ImageInfo {
	var owned []ImageInfo
	for _, img := range c.query(ctx, "") {
		if strings.HasPrefix(img.Repository, c.prefix) {
			owned = append(owned, img)
		}
	}
	return owned
}

// Delete removes one image reference. Returns false on any failure.
func (c *Client) Delete(ctx context.Context, ref string) bool {
	repo, _ := splitRef(ref)
	if !strings.HasPrefix(repo, c.prefix) {
		c.log.Warn("refusing to delete image outside prefix", zap.String("ref", ref))
		return false
	}

	cmd := exec.CommandContext(ctx, c.bin, "rmi", ref)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		c.log.Warn("docker rmi failed",
			zap.String("ref", ref),
			zap.Error(err),
			zap.String("stderr", strings.TrimSpace(stderr.String())))
		return false
	}
	return true
}

// Prune deletes every image this system owns and reports how many went.
func (c *Client) Prune(ctx context.Context) int {
	deleted := 0
	for _, img := range c.ListAll(ctx) {
		if c.Delete(ctx, img.Ref()) {
			deleted++
		}
	}
	return deleted
}

// query runs docker images with an optional reference filter. Failures are
// logged and produce an empty result.
func (c *Client) query(ctx context.Context, ref string) []ImageInfo {
	args := []string{"images", "--format", imagesFormat, "--no-trunc"}
	if ref != "" {
		args = append(args, "--filter", fmt.Sprintf("reference=%s", ref))
	}

	cmd := exec.CommandContext(ctx, c.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		c.log.Warn("docker images failed",
			zap.Error(err),
			zap.String("stderr", strings.TrimSpace(stderr.String())))
		return nil
	}

	var images []ImageInfo
	for _, line := range strings.Split(strings.TrimSpace(stdout.String()), "\n") {
		if line == "" {
			continue
		}
		var img struct {
			Repository string `json:"repository"`
			Tag        string `json:"tag"`
			ID         string `json:"id"`
			Created    string `json:"created"`
			Size       string `json:"size"`
		}
		if err := json.Unmarshal([]byte(line), &img); err != nil {
			continue
		}
		if img.Tag == "<none>" {
			continue
		}
		images = append(images, ImageInfo{
			Repository: img.Repository,
			Tag:        img.Tag,
			ID:         img.ID,
			CreatedAt:  parseDockerTimestamp(img.Created),
			Size:       img.Size,
		})
	}
	return images
}

// parseDockerTimestamp parses the timestamp formats docker images outputs
// across versions and platforms.
func parseDockerTimestamp(s string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05 +0000 UTC",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, strings.TrimSpace(s)); err == nil {
			return t
		}
	}
	return time.Time{}
}
