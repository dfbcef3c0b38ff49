// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import "strings"

// ContextInfo stores contextual information about a match
type ContextInfo struct {
	// Text before and after the match
	BeforeText string
	AfterText  string

	// Line containing the match
	FullLine string

	// Contextual keywords found near the match
	PositiveKeywords []string // Keywords that increase confidence
	NegativeKeywords []string // Keywords that decrease confidence

	// Impact on confidence score
	ConfidenceImpact float64
}

// Validator interface defines methods for validating sensitive data
type Validator interface {
	// ValidateContent scans extracted text and returns matches.
	// originalPath identifies the file the text came from.
	ValidateContent(content string, originalPath string) ([]Match, error)

	CalculateConfidence(match string) (float64, map[string]bool)

	AnalyzeContext(match string, context ContextInfo) float64
}

// Match represents a detected sensitive data match
type Match struct {
	Text       string
	LineNumber int

	// SpanStart/SpanEnd are the character range of the match within its
	// line, used for overlap deduplication.
	SpanStart int
	SpanEnd   int

	Type       string
	Confidence float64
	Metadata   map[string]any
	Filename   string // Path to the file where the match was found
	Validator  string // Name of the validator that created this match

	Context ContextInfo
}

// Masked returns the match text with all but the last four digits replaced
// by '*'. Separator characters are preserved.
func (m *Match) Masked() string {
	digits := 0
	for _, r := range m.Text {
		if r >= '0' && r <= '9' {
			digits++
		}
	}

	var b strings.Builder
	seen := 0
	for _, r := range m.Text {
		if r >= '0' && r <= '9' {
			seen++
			if seen > digits-4 {
				b.WriteRune(r)
			} else {
				b.WriteRune('*')
			}
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Overlaps reports whether two matches cover overlapping spans of the same
// line in the same file.
func (m *Match) Overlaps(other *Match) bool {
	if m.Filename != other.Filename || m.LineNumber != other.LineNumber {
		return false
	}
	return m.SpanStart < other.SpanEnd && other.SpanStart < m.SpanEnd
}

// DeduplicateBySpan removes matches whose span overlaps an earlier match on
// the same line. The first match of an overlapping pair wins.
func DeduplicateBySpan(matches []Match) []Match {
	var result []Match
	for i := range matches {
		overlap := false
		for j := range result {
			if matches[i].Overlaps(&result[j]) {
				overlap = true
				break
			}
		}
		if !overlap {
			result = append(result, matches[i])
		}
	}
	return result
}
