// Package forge is the glue to version-control hosting: fetching repository
// contents for detection and optionally committing generated build files
// back. Only GitHub (and GitHub Enterprise) is implemented; everything the
// build pipeline needs from a repo also arrives through plain git clones.
package forge

import (
	"regexp"
	"strings"
)

// ownerRepoRe matches "owner/repo" shorthand references.
var ownerRepoRe = regexp.MustCompile(`^[\w.-]+/[\w.-]+$`)

// IsGitURL reports whether ref looks like a cloneable git URL.
func IsGitURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "git@") ||
		strings.HasSuffix(ref, ".git")
}

// IsOwnerRepo reports whether ref is a GitHub owner/repo shorthand.
func IsOwnerRepo(ref string) bool {
	return ownerRepoRe.MatchString(ref) && !strings.Contains(ref, "..")
}

// SplitOwnerRepo splits an owner/repo shorthand.
func SplitOwnerRepo(ref string) (owner, repo string) {
	idx := strings.Index(ref, "/")
	return ref[:idx], ref[idx+1:]
}
