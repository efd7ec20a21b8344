// Package scan runs a secret scan over a materialized workspace before it
// is sent to the builder. Findings are advisory: they are logged and
// attached to the build record, never build-blocking, and scan failures
// produce an empty result rather than an error.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zricethezav/gitleaks/v8/detect"
	"go.uber.org/zap"
)

// Finding is one detected secret.
type Finding struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
}

// Scanner wraps a gitleaks detector with the default ruleset.
type Scanner struct {
	detector *detect.Detector
	log      *zap.Logger
}

// NewScanner builds a Scanner. A detector that cannot initialize is a
// programming/packaging problem, so this one does return an error.
func NewScanner(log *zap.Logger) (*Scanner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, err
	}
	return &Scanner{detector: d, log: log}, nil
}

// ScanDir walks every regular file under dir and reports secret findings.
func (s *Scanner) ScanDir(dir string) []Finding {
	var findings []Finding

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			s.log.Warn("scan: unreadable file", zap.String("path", path), zap.Error(readErr))
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		for _, hit := range s.detector.DetectBytes(data) {
			findings = append(findings, Finding{
				File:        filepath.ToSlash(rel),
				Line:        hit.StartLine + 1, // gitleaks is 0-indexed
				RuleID:      hit.RuleID,
				Description: hit.Description,
			})
		}
		return nil
	})
	if err != nil {
		s.log.Warn("scan: walk failed", zap.String("dir", dir), zap.Error(err))
	}

	for _, f := range findings {
		s.log.Warn("possible secret in build context",
			zap.String("file", f.File),
			zap.Int("line", f.Line),
			zap.String("rule", f.RuleID))
	}
	return findings
}
