// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"piiscan/internal/detector"
	"piiscan/internal/formatters"
	"piiscan/internal/scanner"
)

// Report represents the top-level structure for JSON output
type Report struct {
	Results []ReportMatch `json:"results"`
	Errors  []ReportError `json:"errors,omitempty"`
	Summary Summary       `json:"summary"`
}

// ReportMatch represents a single finding in JSON format
type ReportMatch struct {
	Match           string                 `json:"match"`
	LineNumber      int                    `json:"line_number"`
	Type            string                 `json:"type"`
	Confidence      float64                `json:"confidence"`
	ConfidenceLevel string                 `json:"confidence_level"`
	Filename        string                 `json:"filename"`
	Validator       string                 `json:"validator,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	FullLine        string                 `json:"full_line,omitempty"`
}

// ReportError represents a per-file scan failure in JSON format
type ReportError struct {
	Filename string `json:"filename"`
	Stage    string `json:"stage"`
	Error    string `json:"error"`
}

// Summary carries the scan's per-file accounting
type Summary struct {
	FilesScanned      int `json:"files_scanned"`
	FilesSkipped      int `json:"files_skipped"`
	FilesFailed       int `json:"files_failed"`
	FindingCount      int `json:"finding_count"`
	FilesWithFindings int `json:"files_with_findings"`
}

// FilterMatchesByConfidence filters matches below the display threshold
func FilterMatchesByConfidence(matches []detector.Match, options formatters.FormatterOptions) []detector.Match {
	if options.MinConfidence <= 0 {
		return matches
	}
	var filtered []detector.Match
	for _, match := range matches {
		if match.Confidence >= options.MinConfidence {
			filtered = append(filtered, match)
		}
	}
	return filtered
}

// GetConfidenceLevel returns the confidence level as a string
func GetConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 90:
		return "HIGH"
	case confidence >= 60:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// DisplayText returns the masked or raw match text per the options
func DisplayText(match *detector.Match, options formatters.FormatterOptions) string {
	if options.ShowMatch {
		return match.Text
	}
	return match.Masked()
}

// BuildReport converts a scan result to the shared report structure
func BuildReport(result *scanner.ScanResult, options formatters.FormatterOptions) Report {
	filtered := FilterMatchesByConfidence(result.Findings, options)

	matches := make([]ReportMatch, 0, len(filtered))
	for i := range filtered {
		m := &filtered[i]

		reportMatch := ReportMatch{
			Match:           DisplayText(m, options),
			LineNumber:      m.LineNumber,
			Type:            m.Type,
			Confidence:      m.Confidence,
			ConfidenceLevel: GetConfidenceLevel(m.Confidence),
			Filename:        m.Filename,
			Validator:       m.Validator,
		}
		if options.Verbose {
			reportMatch.Metadata = m.Metadata
			reportMatch.FullLine = m.Context.FullLine
		}
		matches = append(matches, reportMatch)
	}

	reportErrors := make([]ReportError, 0, len(result.Errors))
	for _, fe := range result.Errors {
		reportErrors = append(reportErrors, ReportError{
			Filename: fe.Path,
			Stage:    fe.Stage,
			Error:    fe.Err.Error(),
		})
	}

	distinctFiles := make(map[string]bool)
	for i := range filtered {
		distinctFiles[filtered[i].Filename] = true
	}

	return Report{
		Results: matches,
		Errors:  reportErrors,
		Summary: Summary{
			FilesScanned:      result.FilesScanned,
			FilesSkipped:      result.FilesSkipped,
			FilesFailed:       result.FilesFailed,
			FindingCount:      len(filtered),
			FilesWithFindings: len(distinctFiles),
		},
	}
}
