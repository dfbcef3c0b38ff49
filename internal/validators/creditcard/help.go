// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package creditcard

import (
	"piiscan/internal/help"
)

// GetCheckInfo returns standardized help information for the credit card check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "CREDIT_CARD",
		ShortDescription: "Detects credit card numbers (Visa, Mastercard, Amex, Discover, and others)",
		DetailedDescription: "Detects payment card numbers of 13 to 19 digits, with or without space or dash\n" +
			"separators. Candidates must pass the Luhn checksum before they are reported.\n" +
			"Card vendor is identified from the issuer number range and recorded with each\n" +
			"finding. Well-known test numbers such as 4111111111111111 are still reported,\n" +
			"but at a sharply reduced confidence.",
		Patterns: []string{
			"13-19 digit sequences, optionally separated by spaces or dashes",
			"Visa (4xxx), Mastercard (51-55, 2221-2720), Amex (34, 37), Discover (6011, 65)",
			"Diners Club (36, 38, 300-305), JCB (3528-3589)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Luhn checksum", Description: "Required for any match to be reported", Weight: 100},
			{Name: "Known vendor prefix", Description: "Recognized issuer number range raises confidence", Weight: 15},
			{Name: "Test card number", Description: "Documented test numbers are capped at very low confidence", Weight: -55},
			{Name: "Repeating digits", Description: "Low digit variety suggests placeholder data", Weight: -35},
			{Name: "Context keywords", Description: "Nearby payment terms raise confidence, invoice or order numbers lower it", Weight: 15},
		},
		PositiveKeywords: v.positiveKeywords,
		NegativeKeywords: v.negativeKeywords,
		Examples: []string{
			"piiscan --checks CREDIT_CARD ./finance-exports",
			"piiscan --checks CREDIT_CARD --confidence 60 --format json ./documents",
		},
	}
}
