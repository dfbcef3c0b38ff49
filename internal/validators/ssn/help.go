// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import (
	"piiscan/internal/help"
)

// GetCheckInfo returns standardized help information for the SSN check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "SSN",
		ShortDescription: "Detects US Social Security Numbers in dashed, spaced, and bare formats",
		DetailedDescription: "Detects US Social Security Numbers in the formats 123-45-6789, 123 45 6789,\n" +
			"and 123456789. Structurally invalid numbers are rejected: area numbers 000, 666,\n" +
			"and 900-999, group number 00, and serial number 0000 are never valid. Confidence\n" +
			"is adjusted by the surrounding context, with extra weight given to HR, tax, and\n" +
			"healthcare documents where real SSNs are most likely to appear.",
		Patterns: []string{
			"XXX-XX-XXXX (dashed format)",
			"XXX XX XXXX (space separated)",
			"XXXXXXXXX (9 consecutive digits)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Valid area number", Description: "Area number outside the invalid ranges raises confidence", Weight: 15},
			{Name: "Dashed format", Description: "The canonical XXX-XX-XXXX format raises confidence", Weight: 10},
			{Name: "Known test SSN", Description: "Documented test values such as 123-45-6789 lower confidence", Weight: -25},
			{Name: "Sequential digits", Description: "Ascending or descending digit runs suggest sample data", Weight: -15},
			{Name: "Repeating digits", Description: "Three or more identical consecutive digits lower confidence", Weight: -15},
			{Name: "Domain context", Description: "HR, tax, and healthcare terms in the document raise confidence", Weight: 25},
			{Name: "Tabular data", Description: "Structured rows of records raise confidence", Weight: 15},
		},
		PositiveKeywords: v.positiveKeywords,
		NegativeKeywords: v.negativeKeywords,
		Examples: []string{
			"piiscan --checks SSN ./hr-share",
			"piiscan --checks SSN --verbose --show-match ./tax-records",
		},
	}
}
