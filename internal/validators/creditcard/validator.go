// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package creditcard

import (
	"regexp"
	"strconv"
	"strings"

	"piiscan/internal/detector"
	"piiscan/internal/observability"
)

// Validator implements the detector.Validator interface for detecting
// credit card numbers using regex patterns, contextual analysis, and the
// Luhn checksum.
type Validator struct {
	regex *regexp.Regexp

	// BIN ranges using range checks instead of massive maps
	binRanges []BINRange

	// Pre-compiled test patterns for fast rejection
	testPatterns []*regexp.Regexp

	// Keywords for context analysis
	positiveKeywords []string
	negativeKeywords []string

	observer *observability.StandardObserver
}

// BINRange represents a range of valid BIN numbers for efficient lookup
type BINRange struct {
	Start  int
	End    int
	Vendor string
}

// NewValidator creates and returns a new Validator instance
// with predefined patterns, keywords, and validation rules for detecting credit card numbers.
func NewValidator() *Validator {
	v := &Validator{
		// Candidate pattern: 13 to 19 digits, optionally grouped with
		// single space or dash separators. Boundary characters prevent
		// matches inside larger numbers or identifiers.
		regex: regexp.MustCompile(`(?:^|[\s\t,;|"'(){}[\]<>:=])(\d(?:[ -]?\d){12,18})(?:[\s\t,;|"'(){}[\]<>.]|$)`),

		binRanges: initBINRanges(),

		positiveKeywords: []string{
			"credit", "card", "visa", "mastercard", "amex", "american express",
			"discover", "jcb", "diners", "cardholder", "payment", "transaction",
			"purchase", "expiration", "expiry", "exp", "cvv", "cvc", "ccv",
			"billing", "checkout", "pay", "paid", "pci", "merchant",
		},

		negativeKeywords: []string{
			"identifier", "serial", "tracking", "reference",
			"order", "invoice", "timestamp", "unix", "epoch", "phone", "tel",
			"md5", "sha", "hash", "uuid", "guid", "crc", "checksum",
			"version", "build", "fake", "mock",
		},
	}

	v.testPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^1234567890123456$`),
		regexp.MustCompile(`^0{13,19}$|^1{13,19}$|^2{13,19}$|^3{13,19}$|^4{13,19}$|^5{13,19}$|^6{13,19}$|^7{13,19}$|^8{13,19}$|^9{13,19}$`), // All same digit
		regexp.MustCompile(`^1111222233334444$`),
		regexp.MustCompile(`^1212121212121212$`),
	}

	return v
}

// initBINRanges creates BIN ranges using efficient range checks instead of massive maps
func initBINRanges() []BINRange {
	return []BINRange{
		// Visa: 4xxxxx
		{400000, 499999, "Visa"},

		// MasterCard: 51xxxx-55xxxx, 222100-272099
		{510000, 559999, "MasterCard"},
		{222100, 272099, "MasterCard"},

		// American Express: 34xxxx, 37xxxx
		{340000, 349999, "American Express"},
		{370000, 379999, "American Express"},

		// Discover: 6011xx, 644xxx-649xxx, 65xxxx
		{601100, 601199, "Discover"},
		{644000, 649999, "Discover"},
		{650000, 659999, "Discover"},

		// JCB: 35xxxx
		{350000, 359999, "JCB"},

		// Diners Club: 30xxxx, 36xxxx, 38xxxx
		{300000, 309999, "Diners Club"},
		{360000, 369999, "Diners Club"},
		{380000, 389999, "Diners Club"},

		// UnionPay: 62xxxx
		{620000, 629999, "UnionPay"},

		// Maestro: 50xxxx, 56xxxx-58xxxx
		{500000, 509999, "Maestro"},
		{560000, 589999, "Maestro"},
	}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

// ValidateContent scans extracted text line by line for card numbers
func (v *Validator) ValidateContent(content string, originalPath string) ([]detector.Match, error) {
	var finishTiming func(bool, map[string]interface{})
	if v.observer != nil {
		finishTiming = v.observer.StartTiming("creditcard_validator", "validate_content", originalPath)
	}

	var matches []detector.Match
	lines := strings.Split(content, "\n")

	for lineNum, line := range lines {
		indexes := v.regex.FindAllStringSubmatchIndex(line, -1)

		for _, idx := range indexes {
			// idx[2], idx[3] bound the captured number
			if len(idx) < 4 || idx[2] < 0 {
				continue
			}
			match := line[idx[2]:idx[3]]
			cleanMatch := cleanCardNumber(match)

			if !isValidLength(cleanMatch) {
				continue
			}

			// Note test patterns but detect them at very low confidence
			isTestPattern := v.isKnownTestPattern(cleanMatch)

			// Luhn check before the expensive operations
			if !luhnCheck(cleanMatch) {
				if v.observer != nil {
					v.observer.LogDetail("creditcard_validator", "Luhn check failed for candidate in "+originalPath)
				}
				continue
			}

			vendor := v.detectCardVendor(cleanMatch)

			confidence, checks := v.calculateConfidence(match, cleanMatch)
			if isTestPattern {
				checks["not_test"] = false
			}

			contextInfo := v.buildContextInfo(line, match)
			contextImpact := v.analyzeContext(match, contextInfo)
			confidence += contextImpact

			if confidence > 100 {
				confidence = 100
			} else if confidence < 0 {
				confidence = 0
			}

			// Test patterns stay detectable but never score high, no
			// amount of positive context should change that
			if !checks["not_test"] || !checks["not_repeating"] {
				if confidence > 15.0 {
					confidence = 15.0
				}
				if confidence < 1.0 {
					confidence = 1.0
				}
			}

			if confidence <= 0 {
				continue
			}

			matches = append(matches, detector.Match{
				Text:       match,
				LineNumber: lineNum + 1,
				SpanStart:  idx[2],
				SpanEnd:    idx[3],
				Type:       "CREDIT_CARD",
				Confidence: confidence,
				Filename:   originalPath,
				Validator:  "creditcard",
				Context:    contextInfo,
				Metadata: map[string]any{
					"vendor":            vendor,
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

// isValidLength checks if the number has a valid credit card length
func isValidLength(number string) bool {
	length := len(number)
	return length >= 13 && length <= 19
}

// isKnownTestPattern uses pre-compiled regexes for fast test pattern detection
func (v *Validator) isKnownTestPattern(number string) bool {
	for _, pattern := range v.testPatterns {
		if pattern.MatchString(number) {
			return true
		}
	}
	return false
}

// detectCardVendor uses efficient range lookup instead of regex
func (v *Validator) detectCardVendor(cardNumber string) string {
	if len(cardNumber) < 6 {
		return "Unknown"
	}

	bin, err := strconv.Atoi(cardNumber[:6])
	if err != nil {
		return "Unknown"
	}

	for _, binRange := range v.binRanges {
		if bin >= binRange.Start && bin <= binRange.End {
			return binRange.Vendor
		}
	}

	return "Unknown"
}

func (v *Validator) calculateConfidence(match, cleanMatch string) (float64, map[string]bool) {
	checks := map[string]bool{
		"length":        true, // Already checked
		"digits":        true, // Regex ensures this
		"luhn":          true, // Already checked
		"vendor":        false,
		"not_test":      true,
		"entropy":       false,
		"not_repeating": false,
	}

	// Start with moderate confidence and let the checks move it
	confidence := 60.0

	vendor := v.detectCardVendor(cleanMatch)
	if vendor == "Unknown" {
		confidence -= 20
	} else {
		checks["vendor"] = true
		confidence += 15
	}

	if v.isKnownTestPattern(cleanMatch) {
		confidence = 5.0
		checks["not_test"] = false
	}

	if hasRepeatingPatterns(cleanMatch) {
		confidence -= 35
		checks["not_repeating"] = false
	} else {
		checks["not_repeating"] = true
		confidence += 10
	}

	entropy := digitEntropy(cleanMatch)
	if entropy < 2.5 {
		confidence -= 20
	} else if entropy >= 3.5 {
		confidence += 10
		checks["entropy"] = true
	}

	if confidence > 100 {
		confidence = 100
	} else if confidence < 0 {
		confidence = 0
	}

	if !checks["not_test"] || !checks["not_repeating"] {
		if confidence > 15.0 {
			confidence = 15.0
		}
		if confidence < 5.0 {
			confidence = 5.0
		}
	}

	return confidence, checks
}

// hasRepeatingPatterns flags digit sequences unlikely to be real cards
func hasRepeatingPatterns(number string) bool {
	// 8+ consecutive identical digits
	consecutiveCount := 1
	for i := 1; i < len(number); i++ {
		if number[i] == number[i-1] {
			consecutiveCount++
			if consecutiveCount >= 8 {
				return true
			}
		} else {
			consecutiveCount = 1
		}
	}

	// All same digit
	allSame := true
	for i := 1; i < len(number); i++ {
		if number[i] != number[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return true
	}

	// Simple alternating patterns like 1212121212121212
	if len(number) >= 8 {
		alternating := true
		for i := 2; i < len(number); i++ {
			if number[i] != number[i-2] {
				alternating = false
				break
			}
		}
		if alternating && number[0] != number[1] {
			return true
		}
	}

	// Sequential digits like 1234567890123456
	sequential := true
	for i := 1; i < len(number); i++ {
		expected := (int(number[i-1]-'0') + 1) % 10
		if int(number[i]-'0') != expected {
			sequential = false
			break
		}
	}
	return sequential
}

// digitEntropy approximates randomness from the digit distribution
func digitEntropy(number string) float64 {
	digitCount := make([]int, 10)
	for _, digit := range number {
		if digit >= '0' && digit <= '9' {
			digitCount[digit-'0']++
		}
	}

	uniqueDigits := 0
	for _, count := range digitCount {
		if count > 0 {
			uniqueDigits++
		}
	}

	return float64(uniqueDigits) * 0.5
}

func (v *Validator) analyzeContext(match string, context detector.ContextInfo) float64 {
	fullContext := strings.ToLower(context.FullLine)

	for _, keyword := range v.negativeKeywords {
		if strings.Contains(fullContext, keyword) {
			return -100
		}
	}

	for _, keyword := range v.positiveKeywords {
		if strings.Contains(fullContext, keyword) {
			// Only count one positive keyword to avoid over-boosting
			return 15
		}
	}

	return 0
}

// buildContextInfo captures a window of text around the match
func (v *Validator) buildContextInfo(line, match string) detector.ContextInfo {
	matchIndex := strings.Index(line, match)
	contextInfo := detector.ContextInfo{
		FullLine: line,
	}

	if matchIndex >= 0 {
		start := matchIndex - 30
		if start < 0 {
			start = 0
		}
		end := matchIndex + len(match) + 30
		if end > len(line) {
			end = len(line)
		}

		contextInfo.BeforeText = line[start:matchIndex]
		contextInfo.AfterText = line[matchIndex+len(match) : end]
	}

	return contextInfo
}

func cleanCardNumber(number string) string {
	return strings.ReplaceAll(strings.ReplaceAll(number, " ", ""), "-", "")
}

func luhnCheck(number string) bool {
	sum := 0
	isDouble := false

	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')

		if isDouble {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		isDouble = !isDouble
	}

	return sum%10 == 0
}

// CalculateConfidence implements the detector.Validator interface
func (v *Validator) CalculateConfidence(match string) (float64, map[string]bool) {
	cleanMatch := cleanCardNumber(match)
	return v.calculateConfidence(match, cleanMatch)
}

// AnalyzeContext implements the detector.Validator interface
func (v *Validator) AnalyzeContext(match string, context detector.ContextInfo) float64 {
	return v.analyzeContext(match, context)
}
