package badge

import (
	"strings"
	"testing"
)

func TestForStatus(t *testing.T) {
	cases := map[string]string{
		"success":  "passing",
		"failed":   "failing",
		"building": "running",
		"pending":  "running",
		"bogus":    "unknown",
	}
	for status, value := range cases {
		if b := ForStatus(status); b.Value != value {
			t.Errorf("ForStatus(%q).Value = %q, want %q", status, b.Value, value)
		}
	}
}

func TestGenerateWithApproximateMetrics(t *testing.T) {
	e := New(ApproximateMetrics(11))

	svg := e.Generate(ForStatus("success"))
	for _, want := range []string{"<svg", "passing", "build", "#4c1", "</svg>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	// No font configured, so nothing gets embedded.
	if strings.Contains(svg, "@font-face") {
		t.Error("font-face rule emitted without font data")
	}
}

func TestGenerateEscapesMarkup(t *testing.T) {
	e := New(ApproximateMetrics(11))

	svg := e.Generate(Badge{Label: "<script>", Value: "a&b", Color: "#4c1"})
	if strings.Contains(svg, "<script>") {
		t.Error("label not escaped")
	}
	if !strings.Contains(svg, "&lt;script&gt;") || !strings.Contains(svg, "a&amp;b") {
		t.Error("expected escaped entities in output")
	}
}

func TestApproximateTextWidthScales(t *testing.T) {
	m := ApproximateMetrics(11)
	if m.TextWidth("wider text") <= m.TextWidth("thin") {
		t.Error("longer text should measure wider")
	}
}
