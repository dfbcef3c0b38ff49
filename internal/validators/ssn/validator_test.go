// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import (
	"strings"
	"testing"
)

func TestValidateContentDetectsFormattedSSN(t *testing.T) {
	v := NewValidator()

	matches, err := v.ValidateContent("123-45-6789", "test.txt")
	if err != nil {
		t.Fatalf("ValidateContent() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly 1 match, got %d", len(matches))
	}

	m := matches[0]
	if m.Type != "SSN" {
		t.Errorf("Type = %q, want SSN", m.Type)
	}
	if m.Validator != "ssn" {
		t.Errorf("Validator = %q, want ssn", m.Validator)
	}
	if m.Confidence <= 0 {
		t.Errorf("Confidence = %f, want > 0", m.Confidence)
	}
}

func TestValidateContentRejectsInvalidStructure(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		content string
	}{
		{"area 000", "000-12-3456"},
		{"area 666", "666-12-3456"},
		{"area 900+", "901-12-3456"},
		{"group 00", "123-00-6789"},
		{"serial 0000", "123-45-0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := v.ValidateContent(tt.content, "test.txt")
			if err != nil {
				t.Fatalf("ValidateContent() error = %v", err)
			}
			if len(matches) != 0 {
				t.Errorf("expected 0 matches for %q, got %d", tt.content, len(matches))
			}
		})
	}
}

func TestValidateContentFormats(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"dash separated", "ssn 587-44-1234", 1},
		{"space separated", "ssn 587 44 1234", 1},
		{"bare nine digits", "ssn 587441234", 1},
		{"too few digits", "ssn 58744123", 0},
		{"embedded in longer number", "id 5874412345678", 0},
		{"phone number shape", "call 555-123-4567", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := v.ValidateContent(tt.content, "test.txt")
			if err != nil {
				t.Fatalf("ValidateContent() error = %v", err)
			}
			if len(matches) != tt.want {
				t.Errorf("got %d matches, want %d", len(matches), tt.want)
			}
		})
	}
}

func TestValidateContentLineNumbers(t *testing.T) {
	v := NewValidator()

	content := strings.Join([]string{
		"employee records",
		"alice 587-44-1234",
		"",
		"bob 461-82-5578",
	}, "\n")

	matches, err := v.ValidateContent(content, "hr.txt")
	if err != nil {
		t.Fatalf("ValidateContent() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].LineNumber != 2 || matches[1].LineNumber != 4 {
		t.Errorf("line numbers = %d, %d, want 2, 4", matches[0].LineNumber, matches[1].LineNumber)
	}
}

func TestPositiveContextRaisesConfidence(t *testing.T) {
	v := NewValidator()

	plain, err := v.ValidateContent("field 587-44-1234", "test.txt")
	if err != nil {
		t.Fatal(err)
	}
	keyed, err := v.ValidateContent("social security number: 587-44-1234", "test.txt")
	if err != nil {
		t.Fatal(err)
	}

	if len(plain) != 1 || len(keyed) != 1 {
		t.Fatalf("expected 1 match each, got %d and %d", len(plain), len(keyed))
	}
	if keyed[0].Confidence <= plain[0].Confidence {
		t.Errorf("keyword context confidence %f should exceed plain %f",
			keyed[0].Confidence, plain[0].Confidence)
	}
}

func TestNegativeContextLowersConfidence(t *testing.T) {
	v := NewValidator()

	plain, err := v.ValidateContent("record 587-44-1234", "test.txt")
	if err != nil {
		t.Fatal(err)
	}
	negative, err := v.ValidateContent("routing 587-44-1234", "test.txt")
	if err != nil {
		t.Fatal(err)
	}

	if len(plain) != 1 {
		t.Fatalf("expected 1 plain match, got %d", len(plain))
	}
	if len(negative) == 1 && negative[0].Confidence >= plain[0].Confidence {
		t.Errorf("negative context confidence %f should be below plain %f",
			negative[0].Confidence, plain[0].Confidence)
	}
}

func TestIsValidSSN(t *testing.T) {
	tests := []struct {
		ssn   string
		valid bool
	}{
		{"587441234", true},
		{"123456789", true},
		{"000123456", false},
		{"666123456", false},
		{"900123456", false},
		{"999123456", false},
		{"123006789", false},
		{"123450000", false},
		{"12345678", false},
	}

	for _, tt := range tests {
		if got := isValidSSN(tt.ssn); got != tt.valid {
			t.Errorf("isValidSSN(%s) = %v, want %v", tt.ssn, got, tt.valid)
		}
	}
}

func TestTestSSNsLowerConfidence(t *testing.T) {
	v := NewValidator()

	real, _ := v.CalculateConfidence("587-44-1234")
	test, _ := v.CalculateConfidence("111-11-1111")

	if test >= real {
		t.Errorf("test SSN confidence %f should be below real-looking %f", test, real)
	}
}

func TestMaskedSSN(t *testing.T) {
	v := NewValidator()

	matches, err := v.ValidateContent("587-44-1234", "test.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if got := matches[0].Masked(); got != "***-**-1234" {
		t.Errorf("Masked() = %q, want ***-**-1234", got)
	}
}
