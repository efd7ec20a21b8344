// Package dockerfile provides static validation of Dockerfile text.
// This is a line-level analyzer, not a full AST: the same regex approach
// used for build planning, applied to untrusted generated build files
// before anything touches disk.
package dockerfile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Verdict is the result of validating one build file.
// Errors block the primary build path; warnings and suggestions are
// informational only.
type Verdict struct {
	Valid       bool     `json:"valid"`
	Errors      []string `json:"errors,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// instructions docker accepts at the start of a line.
var knownInstructions = map[string]bool{
	"FROM": true, "RUN": true, "CMD": true, "LABEL": true, "MAINTAINER": true,
	"EXPOSE": true, "ENV": true, "ADD": true, "COPY": true, "ENTRYPOINT": true,
	"VOLUME": true, "USER": true, "WORKDIR": true, "ARG": true, "ONBUILD": true,
	"STOPSIGNAL": true, "HEALTHCHECK": true, "SHELL": true,
}

var (
	// INSTRUCTION args...
	instructionRe = regexp.MustCompile(`^(\S+)\s*(.*)$`)
	// FROM [--platform=...] <image> [AS <name>]
	fromRe = regexp.MustCompile(`(?i)^FROM\s+(?:--platform=\S+\s+)?(\S+)(?:\s+AS\s+(\S+))?`)
	// numeric port with optional protocol: 3000, 3000/tcp
	portRe = regexp.MustCompile(`^(\d+)(?:/(?:tcp|udp))?$`)
	// $PORT or ${PORT}
	varRefRe = regexp.MustCompile(`\$\{?[A-Za-z_][A-Za-z0-9_]*\}?`)
)

// Validate statically analyzes build-file text. It is a pure function
// with no filesystem access and no external calls, and it never panics;
// malformed input comes back as Valid=false with a populated error list.
func Validate(text string) Verdict {
	v := Verdict{}

	if strings.TrimSpace(text) == "" {
		v.Errors = append(v.Errors, "build file is empty")
		return v
	}

	var (
		hasFrom       bool
		hasCmd        bool
		hasWorkdir    bool
		hasHealth     bool
		prevRun       bool
		runStreak     int
		suggestedRuns bool
	)

	for lineNum, raw := range joinContinuations(text) {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			prevRun = false
			continue
		}

		m := instructionRe.FindStringSubmatch(line)
		if m == nil {
			v.Errors = append(v.Errors, fmt.Sprintf("line %d: malformed instruction", lineNum+1))
			continue
		}
		inst := strings.ToUpper(m[1])
		args := strings.TrimSpace(m[2])

		if !knownInstructions[inst] {
			v.Errors = append(v.Errors, fmt.Sprintf("line %d: unknown instruction %q", lineNum+1, m[1]))
			prevRun = false
			continue
		}
		if inst != m[1] {
			v.Warnings = append(v.Warnings, fmt.Sprintf("line %d: instruction %q should be uppercase", lineNum+1, m[1]))
		}
		if args == "" && inst != "HEALTHCHECK" {
			v.Errors = append(v.Errors, fmt.Sprintf("line %d: %s requires arguments", lineNum+1, inst))
			prevRun = false
			continue
		}

		switch inst {
		case "FROM":
			hasFrom = true
			checkFrom(lineNum+1, args, &v)
		case "CMD", "ENTRYPOINT":
			hasCmd = true
		case "WORKDIR":
			hasWorkdir = true
		case "HEALTHCHECK":
			hasHealth = true
		case "EXPOSE":
			checkExpose(lineNum+1, args, &v)
		case "ADD":
			checkAdd(lineNum+1, args, &v)
		}

		if inst == "RUN" {
			if prevRun {
				runStreak++
				if runStreak >= 2 && !suggestedRuns {
					v.Suggestions = append(v.Suggestions, "combine consecutive RUN instructions to reduce layers")
					suggestedRuns = true
				}
			} else {
				runStreak = 1
			}
			prevRun = true
		} else {
			prevRun = false
		}
	}

	if !hasFrom {
		v.Errors = append(v.Errors, "missing FROM instruction: no base image declared")
	}
	if !hasCmd {
		v.Errors = append(v.Errors, "missing CMD or ENTRYPOINT instruction: image has no start command")
	}
	if !hasWorkdir {
		v.Warnings = append(v.Warnings, "no WORKDIR set; build steps run in the image root")
	}
	if !hasHealth {
		v.Suggestions = append(v.Suggestions, "add a HEALTHCHECK so orchestrators can probe the container")
	}

	v.Valid = len(v.Errors) == 0
	return v
}

func checkFrom(line int, args string, v *Verdict) {
	m := fromRe.FindStringSubmatch("FROM " + args)
	if m == nil {
		v.Errors = append(v.Errors, fmt.Sprintf("line %d: malformed FROM instruction", line))
		return
	}
	image := m[1]
	if image == "scratch" {
		return
	}
	if !strings.Contains(image, ":") {
		v.Warnings = append(v.Warnings, fmt.Sprintf("line %d: base image %q has no tag, defaults to :latest", line, image))
		v.Suggestions = append(v.Suggestions, fmt.Sprintf("pin %q to a specific version tag", image))
	} else if strings.HasSuffix(image, ":latest") {
		v.Warnings = append(v.Warnings, fmt.Sprintf("line %d: base image %q uses the :latest tag", line, image))
		v.Suggestions = append(v.Suggestions, fmt.Sprintf("pin %q to a specific version tag", strings.TrimSuffix(image, ":latest")))
	}
}

// checkExpose rejects variable references where docker needs a numeric
// literal. Generated build files frequently produce `EXPOSE $PORT`, which
// the builder accepts but which never exposes anything at runtime.
func checkExpose(line int, args string, v *Verdict) {
	for _, port := range strings.Fields(args) {
		if varRefRe.MatchString(port) {
			v.Errors = append(v.Errors, fmt.Sprintf("line %d: EXPOSE requires a numeric port, found variable reference %q", line, port))
			continue
		}
		m := portRe.FindStringSubmatch(port)
		if m == nil {
			v.Errors = append(v.Errors, fmt.Sprintf("line %d: EXPOSE port %q is not a valid port number", line, port))
			continue
		}
		if n, err := strconv.Atoi(m[1]); err != nil || n < 1 || n > 65535 {
			v.Errors = append(v.Errors, fmt.Sprintf("line %d: EXPOSE port %q is outside the valid range 1-65535", line, port))
		}
	}
}

func checkAdd(line int, args string, v *Verdict) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return
	}
	src := fields[0]
	// ADD is only warranted for remote URLs and auto-extracted archives.
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return
	}
	for _, ext := range []string{".tar", ".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".txz"} {
		if strings.HasSuffix(src, ext) {
			return
		}
	}
	v.Suggestions = append(v.Suggestions, fmt.Sprintf("line %d: use COPY instead of ADD for plain files", line))
}

// joinContinuations splits text into logical lines, folding backslash
// continuations into the line that started them. Indices in the returned
// slice refer to logical lines, which is close enough for diagnostics.
func joinContinuations(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var out []string
	var cur strings.Builder
	continued := false

	for _, l := range raw {
		trimmed := strings.TrimRight(l, " \t")
		if strings.HasSuffix(trimmed, "\\") {
			cur.WriteString(strings.TrimSuffix(trimmed, "\\"))
			cur.WriteString(" ")
			continued = true
			continue
		}
		if continued {
			cur.WriteString(l)
			out = append(out, cur.String())
			cur.Reset()
			continued = false
			continue
		}
		out = append(out, l)
	}
	if continued {
		out = append(out, cur.String())
	}
	return out
}
