package badge

import (
	"fmt"
	"os"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontMetrics holds measured glyph widths and font data for SVG embedding.
type FontMetrics struct {
	name     string           // font family name
	size     float64          // point size
	data     []byte           // raw TTF/OTF bytes for base64 embedding, nil for approximate metrics
	advances map[rune]float64 // measured glyph advances (printable ASCII)
	fallback float64          // average width for unmapped runes
}

// LoadMetrics parses a TTF/OTF file and measures printable-ASCII advances.
func LoadMetrics(path string, size float64) (*FontMetrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font %s: %w", path, err)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: size, DPI: 72})
	if err != nil {
		return nil, fmt.Errorf("building face for %s: %w", path, err)
	}
	defer face.Close()

	m := &FontMetrics{
		name:     familyName(parsed),
		size:     size,
		data:     data,
		advances: make(map[rune]float64, 95),
	}

	var total float64
	for r := rune(32); r <= 126; r++ {
		if adv, ok := face.GlyphAdvance(r); ok {
			w := fixedToFloat(adv)
			m.advances[r] = w
			total += w
		}
	}
	if n := len(m.advances); n > 0 {
		m.fallback = total / float64(n)
	} else {
		m.fallback = size * 0.6
	}
	return m, nil
}

// ApproximateMetrics returns width estimates for the Verdana-ish fonts
// badges render with when no TTF is configured. Close enough for layout;
// no font bytes get embedded.
func ApproximateMetrics(size float64) *FontMetrics {
	return &FontMetrics{
		name:     "Verdana",
		size:     size,
		fallback: size * 0.62,
	}
}

// TextWidth returns the pixel width of s using measured glyph advances.
func (m *FontMetrics) TextWidth(s string) float64 {
	var w float64
	for _, r := range s {
		if adv, ok := m.advances[r]; ok {
			w += adv
		} else {
			w += m.fallback
		}
	}
	return w
}

// FontName returns the font family name.
func (m *FontMetrics) FontName() string { return m.name }

// FontSize returns the point size.
func (m *FontMetrics) FontSize() float64 { return m.size }

// FontData returns the raw font bytes for SVG embedding, nil when using
// approximate metrics.
func (m *FontMetrics) FontData() []byte { return m.data }

func familyName(f *sfnt.Font) string {
	name, err := f.Name(nil, sfnt.NameIDFamily)
	if err != nil || name == "" {
		return "badge-font"
	}
	return name
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
