// Package badge renders shields.io-compatible SVG status badges for builds.
package badge

// Engine generates SVG badges using a specific font.
type Engine struct {
	metrics *FontMetrics
}

// New creates a badge engine with the given font metrics.
func New(metrics *FontMetrics) *Engine {
	return &Engine{metrics: metrics}
}

// Badge defines the content and appearance of a single badge.
type Badge struct {
	Label string // left side text
	Value string // right side text
	Color string // hex color for right side (e.g. "#4c1")
}

// Generate produces a shields.io-compatible SVG badge string.
func (e *Engine) Generate(b Badge) string {
	return e.renderSVG(b)
}

// ForStatus maps a build status to its badge.
func ForStatus(status string) Badge {
	switch status {
	case "success":
		return Badge{Label: "build", Value: "passing", Color: "#4c1"}
	case "failed":
		return Badge{Label: "build", Value: "failing", Color: "#e05d44"}
	case "building", "pending":
		return Badge{Label: "build", Value: "running", Color: "#dfb317"}
	default:
		return Badge{Label: "build", Value: "unknown", Color: "#9f9f9f"}
	}
}
