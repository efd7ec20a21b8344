// Package output provides the CLI's framed terminal output.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const sectionWidth = 61 // inner width between │ and line end

// UseColor reports whether ANSI color should be emitted.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// Section renders a box-drawing framed output section.
type Section struct {
	w     io.Writer
	name  string
	color bool
}

// NewSection creates a section and writes its header.
func NewSection(w io.Writer, name string, color bool) *Section {
	s := &Section{w: w, name: name, color: color}
	s.writeHeader()
	return s
}

// Row writes a content line inside the section frame.
func (s *Section) Row(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	fmt.Fprintf(s.w, "    │ %s\n", line)
}

// Separator writes a mid-section divider.
func (s *Section) Separator() {
	fmt.Fprintf(s.w, "    ├%s\n", strings.Repeat("─", sectionWidth))
}

// Close writes the section footer.
func (s *Section) Close() {
	fmt.Fprintf(s.w, "    └%s\n", strings.Repeat("─", sectionWidth))
}

func (s *Section) writeHeader() {
	label := fmt.Sprintf("── %s ", s.name)
	pad := sectionWidth - len([]rune(label))
	if pad < 0 {
		pad = 0
	}
	if s.color {
		fmt.Fprintf(s.w, "    ┌\033[1m%s\033[0m%s\n", label, strings.Repeat("─", pad))
		return
	}
	fmt.Fprintf(s.w, "    ┌%s%s\n", label, strings.Repeat("─", pad))
}

// Status formats a success/failure marker for one line.
func Status(ok bool, color bool) string {
	switch {
	case ok && color:
		return "\033[32m✔\033[0m"
	case ok:
		return "OK"
	case color:
		return "\033[31m✘\033[0m"
	default:
		return "FAIL"
	}
}

// FormatElapsed renders a duration the way build logs do: 1.2s, 2m03s.
func FormatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
