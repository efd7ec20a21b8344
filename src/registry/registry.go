// Package registry provides read and delete operations against the local
// docker daemon's image store, scoped to the tag prefix this system owns.
// Every operation is individually fault-tolerant: query failures come back
// as empty results, never as errors, because registry queries must not be
// able to flip a build verdict (verification excepted, and that is the
// caller's judgment on an empty Inspect).
package registry

import (
	"strings"
	"time"
)

// ImageInfo describes a single image in the local store.
type ImageInfo struct {
	Repository string    `json:"repository"`
	Tag        string    `json:"tag"`
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Size       string    `json:"size"`
}

// Ref returns the full image reference.
func (i ImageInfo) Ref() string {
	return i.Repository + ":" + i.Tag
}

// splitRef separates "repo:tag" into its parts; tag defaults to latest.
func splitRef(ref string) (repo, tag string) {
	if idx := strings.LastIndex(ref, ":"); idx >= 0 && !strings.Contains(ref[idx:], "/") {
		return ref[:idx], ref[idx+1:]
	}
	return ref, "latest"
}
