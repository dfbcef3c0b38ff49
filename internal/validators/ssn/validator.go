// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import (
	"regexp"
	"strconv"
	"strings"

	"piiscan/internal/detector"
	"piiscan/internal/observability"
)

// Validator implements the detector.Validator interface for detecting
// Social Security Numbers using regex patterns and contextual analysis.
type Validator struct {
	regex *regexp.Regexp

	// Keywords that suggest an SSN context
	positiveKeywords []string

	// Keywords that suggest this is not an SSN
	negativeKeywords []string

	// Domain-specific keywords for context analysis
	hrKeywords         []string
	taxKeywords        []string
	healthcareKeywords []string

	observer *observability.StandardObserver
}

// NewValidator creates and returns a new Validator instance
// with predefined patterns and keywords for detecting Social Security Numbers.
func NewValidator() *Validator {
	v := &Validator{
		// SSN patterns: XXX-XX-XXXX, XXX XX XXXX, XXXXXXXXX only
		regex: regexp.MustCompile(`\b(\d{3})[-\s](\d{2})[-\s](\d{4})\b|\b\d{9}\b`),
		positiveKeywords: []string{
			"ssn", "social security", "social security number", "social", "ein",
			"tax id", "taxpayer id", "identification number", "employee id",
			"federal id", "government id", "national id", "personal id",
			"identity", "benefits", "medicare", "medicaid", "irs", "w2", "w-2",
			"1099", "tax return", "tax form", "employment", "payroll",
			"hr", "human resources", "personnel", "employee record",
		},
		negativeKeywords: []string{
			"phone", "telephone", "fax", "zip", "postal", "area code",
			"extension", "ext", "routing", "credit card",
			"serial", "model", "version", "build",
			"encoded", "hash", "uuid", "guid",
		},
		hrKeywords: []string{
			"payroll", "hr", "human resources", "employee", "personnel", "staff",
			"employment", "hire", "onboarding", "benefits", "compensation",
		},
		taxKeywords: []string{
			"tax", "w2", "w-2", "1099", "irs", "tax return", "tax form",
			"tax filing", "tax year", "tax id", "taxpayer",
		},
		healthcareKeywords: []string{
			"medical", "medicare", "medicaid", "insurance", "patient", "healthcare",
			"health record", "medical record", "patient record", "health plan",
		},
	}

	return v
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

// ValidateContent validates extracted content for SSNs
func (v *Validator) ValidateContent(content string, originalPath string) ([]detector.Match, error) {
	var finishTiming func(bool, map[string]interface{})
	if v.observer != nil {
		finishTiming = v.observer.StartTiming("ssn_validator", "validate_content", originalPath)
	}

	var matches []detector.Match
	lines := strings.Split(content, "\n")

	for lineNum, line := range lines {
		indexes := v.regex.FindAllStringIndex(line, -1)

		for _, idx := range indexes {
			match := line[idx[0]:idx[1]]
			cleanMatch := cleanSSN(match)

			if !isValidSSN(cleanMatch) {
				continue
			}

			confidence, checks := v.CalculateConfidence(match)

			contextInfo := detector.ContextInfo{
				FullLine: line,
			}
			start := idx[0] - 50
			if start < 0 {
				start = 0
			}
			end := idx[1] + 50
			if end > len(line) {
				end = len(line)
			}
			contextInfo.BeforeText = line[start:idx[0]]
			contextInfo.AfterText = line[idx[1]:end]

			contextImpact := v.AnalyzeContext(match, contextInfo)
			confidence += contextImpact

			contextInfo.PositiveKeywords = v.findKeywords(contextInfo, v.positiveKeywords)
			contextInfo.NegativeKeywords = v.findKeywords(contextInfo, v.negativeKeywords)
			contextInfo.ConfidenceImpact = contextImpact

			isTabular := isTabularData(contextInfo.FullLine)
			if isTabular {
				// Tabular data is the common case for real records, keep
				// the base confidence and only soften for negative context
				if len(contextInfo.NegativeKeywords) > 0 {
					confidence -= 10
				}
			} else if len(contextInfo.PositiveKeywords) == 0 {
				// Cap at medium confidence without supporting context
				if confidence > 50 {
					confidence = 50
				}
				if len(contextInfo.NegativeKeywords) > 0 {
					confidence -= 25
				}
			}

			if confidence > 100 {
				confidence = 100
			} else if confidence < 0 {
				confidence = 0
			}

			if confidence <= 0 {
				continue
			}

			matches = append(matches, detector.Match{
				Text:       match,
				LineNumber: lineNum + 1,
				SpanStart:  idx[0],
				SpanEnd:    idx[1],
				Type:       "SSN",
				Confidence: confidence,
				Filename:   originalPath,
				Validator:  "ssn",
				Context:    contextInfo,
				Metadata: map[string]any{
					"validation_checks": checks,
					"context_impact":    contextImpact,
				},
			})
		}
	}

	matches = detector.DeduplicateBySpan(matches)

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"match_count":     len(matches),
			"lines_processed": len(lines),
		})
	}

	return matches, nil
}

// AnalyzeContext analyzes the context around a match and returns a confidence adjustment
func (v *Validator) AnalyzeContext(match string, context detector.ContextInfo) float64 {
	var sb strings.Builder
	sb.WriteString(context.BeforeText)
	sb.WriteString(" ")
	sb.WriteString(context.FullLine)
	sb.WriteString(" ")
	sb.WriteString(context.AfterText)
	fullContext := strings.ToLower(sb.String())

	var confidenceImpact float64

	confidenceImpact += v.domainBoost(fullContext)

	for _, keyword := range v.positiveKeywords {
		if strings.Contains(fullContext, strings.ToLower(keyword)) {
			if strings.Contains(strings.ToLower(context.FullLine), strings.ToLower(keyword)) {
				confidenceImpact += 25
			} else {
				confidenceImpact += 10
			}
		}
	}

	for _, keyword := range v.negativeKeywords {
		if strings.Contains(fullContext, strings.ToLower(keyword)) {
			if strings.Contains(strings.ToLower(context.FullLine), strings.ToLower(keyword)) {
				confidenceImpact -= 15
			} else {
				confidenceImpact -= 8
			}
		}
	}

	if isTabularData(context.FullLine) {
		confidenceImpact += 15
	}

	// Cap the impact to reasonable bounds
	if confidenceImpact > 50 {
		confidenceImpact = 50
	} else if confidenceImpact < -50 {
		confidenceImpact = -50
	}

	return confidenceImpact
}

// domainBoost raises confidence when the context reads like HR, tax, or
// healthcare material, the places real SSNs live.
func (v *Validator) domainBoost(context string) float64 {
	boost := 0.0

	for _, keyword := range v.hrKeywords {
		if strings.Contains(context, keyword) {
			boost += 20
			break
		}
	}

	for _, keyword := range v.taxKeywords {
		if strings.Contains(context, keyword) {
			boost += 25
			break
		}
	}

	for _, keyword := range v.healthcareKeywords {
		if strings.Contains(context, keyword) {
			boost += 18
			break
		}
	}

	return boost
}

// findKeywords returns the keywords present in the match's line
func (v *Validator) findKeywords(context detector.ContextInfo, keywords []string) []string {
	fullContext := strings.ToLower(context.FullLine)

	var found []string
	for _, keyword := range keywords {
		if strings.Contains(fullContext, strings.ToLower(keyword)) {
			found = append(found, keyword)
		}
	}

	return found
}

// CalculateConfidence calculates the confidence score for a potential SSN
func (v *Validator) CalculateConfidence(match string) (float64, map[string]bool) {
	checks := map[string]bool{
		"format":          true,
		"valid_area":      false,
		"not_test_number": true,
		"not_sequential":  true,
		"not_repeating":   true,
	}

	cleanMatch := cleanSSN(match)
	confidence := 70.0

	if len(cleanMatch) != 9 {
		confidence -= 20
		checks["format"] = false
	}

	if len(cleanMatch) >= 3 && isValidAreaNumber(cleanMatch[0:3]) {
		checks["valid_area"] = true
		confidence += 15
	} else {
		confidence -= 15
	}

	// Properly formatted XXX-XX-XXXX is a stronger signal than bare digits
	if parts := strings.Split(match, "-"); len(parts) == 3 &&
		len(parts[0]) == 3 && len(parts[1]) == 2 && len(parts[2]) == 4 {
		confidence += 10
	}

	if isTestSSN(cleanMatch) {
		confidence -= 25
		checks["not_test_number"] = false
	}

	if isSequential(cleanMatch) {
		confidence -= 15
		checks["not_sequential"] = false
	}

	if hasRepeatingPattern(cleanMatch) {
		confidence -= 15
		checks["not_repeating"] = false
	}

	if confidence < 0 {
		confidence = 0
	}
	return confidence, checks
}

func cleanSSN(ssn string) string {
	return strings.ReplaceAll(strings.ReplaceAll(ssn, "-", ""), " ", "")
}

// isValidSSN applies the structural issuance rules: area 000, 666, and
// 900-999 never issued, group 00 and serial 0000 invalid.
func isValidSSN(ssn string) bool {
	if len(ssn) != 9 {
		return false
	}

	area := ssn[0:3]
	if area == "000" || area == "666" {
		return false
	}
	if areaNum, err := strconv.Atoi(area); err == nil && areaNum >= 900 {
		return false
	}

	if ssn[3:5] == "00" {
		return false
	}

	if ssn[5:9] == "0000" {
		return false
	}

	return true
}

func isValidAreaNumber(area string) bool {
	areaNum, err := strconv.Atoi(area)
	if err != nil {
		return false
	}

	// Valid area numbers are 001-665, 667-899
	return (areaNum >= 1 && areaNum <= 665) || (areaNum >= 667 && areaNum <= 899)
}

func isTestSSN(ssn string) bool {
	testSSNs := map[string]bool{
		"123456789": true,
		"111111111": true,
		"222222222": true,
		"333333333": true,
		"444444444": true,
		"555555555": true,
		"777777777": true,
		"888888888": true,
		"999999999": true,
		"987654321": true,
		"123454321": true,
	}
	return testSSNs[ssn]
}

func isSequential(ssn string) bool {
	ascending := true
	descending := true
	for i := 0; i < len(ssn)-1; i++ {
		curr := int(ssn[i] - '0')
		next := int(ssn[i+1] - '0')
		if next != (curr+1)%10 {
			ascending = false
		}
		if next != (curr+9)%10 {
			descending = false
		}
	}
	return ascending || descending
}

func hasRepeatingPattern(ssn string) bool {
	// 3+ consecutive identical digits
	for i := 0; i < len(ssn)-2; i++ {
		if ssn[i] == ssn[i+1] && ssn[i] == ssn[i+2] {
			return true
		}
	}
	return false
}

// isTabularData checks whether the line looks like delimited or fixed-width
// record data.
func isTabularData(line string) bool {
	tabCount := strings.Count(line, "\t")
	commaCount := strings.Count(line, ",")
	pipeCount := strings.Count(line, "|")

	if tabCount >= 2 || commaCount >= 3 || pipeCount >= 2 {
		return true
	}

	if len(multiSpacePattern.FindAllString(line, -1)) >= 2 {
		return true
	}

	return false
}

var multiSpacePattern = regexp.MustCompile(`\s{3,}`)
