// Package generate is the client for the external technology-detection /
// Dockerfile-generation service. The service is opaque: it takes a
// repository descriptor and returns detected technology names plus build
// file text, which then goes through the validator like any other
// untrusted input.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sofmeright/dockhand/src/config"
	"github.com/sofmeright/dockhand/src/detect"
)

// Response is what the generation service returns.
type Response struct {
	Technologies []string `json:"technologies"`
	Dockerfile   string   `json:"dockerfile"`
}

// Client calls the generation service over HTTP.
type Client struct {
	url     string
	httpCli *http.Client
}

// NewClient builds a Client from config. Returns nil when no service is
// configured; callers treat a nil client as "generation unavailable".
func NewClient(cfg config.GenerateConfig) *Client {
	if cfg.URL == "" {
		return nil
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		url:     cfg.URL,
		httpCli: &http.Client{Timeout: timeout},
	}
}

// Generate submits the repository descriptor and returns the service's
// technologies and Dockerfile text.
func (c *Client) Generate(ctx context.Context, repo *detect.RepoData) (*Response, error) {
	payload, err := json.Marshal(repo)
	if err != nil {
		return nil, fmt.Errorf("encoding repo descriptor: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling generation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("generation service returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding generation response: %w", err)
	}
	if out.Dockerfile == "" {
		return nil, fmt.Errorf("generation service returned no build file")
	}
	return &out, nil
}
