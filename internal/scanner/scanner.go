// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"piiscan/internal/detector"
	"piiscan/internal/extractor"
	"piiscan/internal/observability"
	"piiscan/internal/walker"
)

// Stage identifies where in the pipeline a per-file error occurred.
const (
	StageWalk     = "walk"
	StageExtract  = "extract"
	StageValidate = "validate"
)

// FileError records a per-file failure that did not stop the scan.
type FileError struct {
	Path  string
	Stage string
	Err   error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Path, e.Stage, e.Err)
}

// ScanResult aggregates everything a single scan produced.
type ScanResult struct {
	Findings []detector.Match
	Errors   []FileError

	// Per-file accounting
	FilesScanned int
	FilesSkipped int
	FilesFailed  int
}

// HasFindings reports whether any PII was detected.
func (r *ScanResult) HasFindings() bool {
	return len(r.Findings) > 0
}

// FilesWithFindings returns the distinct file paths with findings, sorted.
func (r *ScanResult) FilesWithFindings() []string {
	seen := make(map[string]bool)
	for _, m := range r.Findings {
		seen[m.Filename] = true
	}
	files := make([]string, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// Scanner runs the walk, extract, validate pipeline over a directory tree.
// Files are processed sequentially in walk order.
type Scanner struct {
	manager    *extractor.Manager
	validators []detector.Validator
	checks     map[string]bool
	observer   *observability.StandardObserver
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithChecks restricts the scan to the named PII types. An empty or "all"
// selection enables every validator.
func WithChecks(checks string) Option {
	return func(s *Scanner) {
		checks = strings.TrimSpace(checks)
		if checks == "" || strings.EqualFold(checks, "all") {
			s.checks = nil
			return
		}
		s.checks = make(map[string]bool)
		for _, c := range strings.Split(checks, ",") {
			s.checks[strings.ToUpper(strings.TrimSpace(c))] = true
		}
	}
}

// WithObserver attaches an observability component.
func WithObserver(observer *observability.StandardObserver) Option {
	return func(s *Scanner) {
		s.observer = observer
	}
}

// New creates a Scanner using the given extractor manager and validators.
func New(manager *extractor.Manager, validators []detector.Validator, opts ...Option) *Scanner {
	s := &Scanner{
		manager:    manager,
		validators: validators,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.observer != nil {
		for _, e := range manager.Extractors() {
			e.SetObserver(s.observer)
		}
	}
	return s
}

// Scan walks root and runs every file through extraction and validation.
// Per-file failures are recorded and the scan continues. A missing root or
// an unreachable extraction service aborts the scan.
func (s *Scanner) Scan(root string) (*ScanResult, error) {
	var finishTiming func(bool, map[string]interface{})
	if s.observer != nil {
		finishTiming = s.observer.StartTiming("scanner", "scan", root)
	}

	walkResult, err := walker.Walk(root)
	if err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		return nil, err
	}

	result := &ScanResult{}
	for _, skipped := range walkResult.Skipped {
		result.FilesSkipped++
		result.Errors = append(result.Errors, FileError{
			Path:  skipped.Path,
			Stage: StageWalk,
			Err:   errors.New(skipped.Reason),
		})
	}

	for _, path := range walkResult.Files {
		if err := s.scanFile(path, result); err != nil {
			// Only service unavailability is fatal mid-scan
			if finishTiming != nil {
				finishTiming(false, map[string]interface{}{"error": err.Error()})
			}
			return nil, err
		}
	}

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"files_scanned": result.FilesScanned,
			"files_failed":  result.FilesFailed,
			"finding_count": len(result.Findings),
		})
	}

	return result, nil
}

func (s *Scanner) scanFile(path string, result *ScanResult) error {
	if !s.manager.CanProcess(path) {
		result.FilesSkipped++
		result.Errors = append(result.Errors, FileError{
			Path:  path,
			Stage: StageExtract,
			Err:   &extractor.UnsupportedFormatError{Path: path},
		})
		return nil
	}

	doc, err := s.manager.Extract(path)
	if err != nil {
		var svcErr *extractor.ServiceUnavailableError
		if errors.As(err, &svcErr) {
			return svcErr
		}

		result.FilesFailed++
		result.Errors = append(result.Errors, FileError{
			Path:  path,
			Stage: StageExtract,
			Err:   err,
		})
		return nil
	}

	if strings.TrimSpace(doc.Text) == "" {
		result.FilesScanned++
		return nil
	}

	validateFailed := false
	for _, v := range s.validators {
		matches, err := v.ValidateContent(doc.Text, path)
		if err != nil {
			validateFailed = true
			result.Errors = append(result.Errors, FileError{
				Path:  path,
				Stage: StageValidate,
				Err:   err,
			})
			continue
		}
		for _, m := range matches {
			if s.checks != nil && !s.checks[strings.ToUpper(m.Type)] {
				continue
			}
			result.Findings = append(result.Findings, m)
		}
	}

	// A file counts as scanned or failed, never both
	if validateFailed {
		result.FilesFailed++
	} else {
		result.FilesScanned++
	}

	return nil
}

// FilterByConfidence returns the findings at or above the threshold.
func FilterByConfidence(matches []detector.Match, minConfidence float64) []detector.Match {
	if minConfidence <= 0 {
		return matches
	}
	var filtered []detector.Match
	for _, m := range matches {
		if m.Confidence >= minConfidence {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
