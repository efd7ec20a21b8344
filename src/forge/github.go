package forge

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// GitHub talks to the GitHub (or GitHub Enterprise) contents API.
type GitHub struct {
	BaseURL string // "https://api.github.com" or "https://ghes.example.com/api/v3"
	Token   string
	Owner   string
	Repo    string
}

// NewGitHub creates a GitHub client for one repository.
// Token is resolved from env: GITHUB_TOKEN, GH_TOKEN.
func NewGitHub(baseURL, owner, repo string) *GitHub {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GH_TOKEN")
	}

	apiBase := "https://api.github.com"
	if baseURL != "" && !strings.Contains(baseURL, "github.com") {
		// GitHub Enterprise Server
		apiBase = strings.TrimRight(baseURL, "/") + "/api/v3"
	}

	return &GitHub{
		BaseURL: apiBase,
		Token:   token,
		Owner:   owner,
		Repo:    repo,
	}
}

func (g *GitHub) apiURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s%s", g.BaseURL, g.Owner, g.Repo, path)
}

func (g *GitHub) doJSON(ctx context.Context, method, url string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return err
	}
	if g.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.Token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("github: %s %s: %d: %s", method, url, resp.StatusCode, bytes.TrimSpace(data))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// ListFiles returns the repository's file paths from the default branch's
// tree, recursively.
func (g *GitHub) ListFiles(ctx context.Context) ([]string, error) {
	var tree struct {
		Tree []struct {
			Path string `json:"path"`
			Type string `json:"type"`
		} `json:"tree"`
		Truncated bool `json:"truncated"`
	}
	if err := g.doJSON(ctx, http.MethodGet, g.apiURL("/git/trees/HEAD?recursive=1"), nil, &tree); err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range tree.Tree {
		if entry.Type == "blob" {
			files = append(files, entry.Path)
		}
	}
	return files, nil
}

// FetchFile returns the decoded content of one file.
func (g *GitHub) FetchFile(ctx context.Context, path string) ([]byte, error) {
	var content struct {
		Encoding string `json:"encoding"`
		Content  string `json:"content"`
	}
	if err := g.doJSON(ctx, http.MethodGet, g.apiURL("/contents/"+path), nil, &content); err != nil {
		return nil, err
	}
	if content.Encoding != "base64" {
		return []byte(content.Content), nil
	}
	return base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
}

// CommitFile creates or updates a file on the default branch. Used to
// commit generated Dockerfiles back to the source repository.
func (g *GitHub) CommitFile(ctx context.Context, path, message string, content []byte) error {
	// The contents API needs the existing blob SHA for updates.
	var existing struct {
		SHA string `json:"sha"`
	}
	_ = g.doJSON(ctx, http.MethodGet, g.apiURL("/contents/"+path), nil, &existing)

	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}
	if existing.SHA != "" {
		payload["sha"] = existing.SHA
	}
	return g.doJSON(ctx, http.MethodPut, g.apiURL("/contents/"+path), payload, nil)
}
