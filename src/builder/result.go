package builder

import "errors"

// Result is the sole return contract of the build pipeline.
// Success=true always carries a non-empty ArtifactID; Success=false always
// carries a non-empty ErrorMessage. No other combination is produced.
type Result struct {
	Success      bool   `json:"success"`
	ArtifactID   string `json:"artifact_id,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Failure taxonomy. The pipeline converts every one of these into either a
// fallback transition or a terminal Result; none escape to callers.
var (
	ErrValidation        = errors.New("build file validation failed")
	ErrWorkspaceIO       = errors.New("workspace i/o failed")
	ErrBuildTool         = errors.New("build tool reported failure")
	ErrBuildTimeout      = errors.New("build timed out")
	ErrBuildVerification = errors.New("build reported success but image not found")
	ErrFallbackExhausted = errors.New("primary and fallback builds both failed")
)

// ImageTag returns the artifact tag for a build id. This naming convention
// is the only key connecting builds to images in the external store.
func ImageTag(prefix, buildID string) string {
	return prefix + "-" + buildID + ":latest"
}
