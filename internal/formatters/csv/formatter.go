// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strings"

	"piiscan/internal/formatters"
	"piiscan/internal/formatters/shared"
	"piiscan/internal/scanner"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(result *scanner.ScanResult, options formatters.FormatterOptions) (string, error) {
	matches := shared.FilterMatchesByConfidence(result.Findings, options)

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	headers := []string{"Filename", "Line Number", "Type", "Confidence Level", "Confidence %", "Match"}
	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for i := range matches {
		m := &matches[i]
		row := []string{
			m.Filename,
			fmt.Sprintf("%d", m.LineNumber),
			m.Type,
			shared.GetConfidenceLevel(m.Confidence),
			fmt.Sprintf("%.0f", m.Confidence),
			shared.DisplayText(m, options),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV: %w", err)
	}

	return sb.String(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
