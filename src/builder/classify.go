package builder

import "strings"

// Markers matched against the builder's free-text output. Build tools
// interleave informational and fatal lines on the same stream, so a bare
// "stream is non-empty" check would fail constantly; instead failure needs
// an explicit error marker without the success marker. The success marker
// wins ties.
const (
	errorMarker   = "ERROR"
	successMarker = "Successfully built"
)

// OutputIndicatesFailure classifies the builder's combined diagnostic
// output. This is a best-effort string heuristic against an external
// tool's output format; exit status is judged separately and always wins.
func OutputIndicatesFailure(stream string) bool {
	return strings.Contains(stream, errorMarker) && !strings.Contains(stream, successMarker)
}

// lastLine returns the last non-empty line of a stream, used to surface a
// concise cause in error messages.
func lastLine(stream string) string {
	lines := strings.Split(strings.TrimSpace(stream), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
