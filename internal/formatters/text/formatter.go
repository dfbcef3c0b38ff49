// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"piiscan/internal/detector"
	"piiscan/internal/formatters"
	"piiscan/internal/formatters/shared"
	"piiscan/internal/scanner"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(result *scanner.ScanResult, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	matches := shared.FilterMatchesByConfidence(result.Findings, options)

	var sb strings.Builder

	if len(matches) == 0 {
		sb.WriteString("No matches found.\n")
	} else {
		f.writeFindings(&sb, matches, options)
	}

	if len(result.Errors) > 0 {
		f.writeErrors(&sb, result)
	}

	if !options.Quiet {
		f.writeSummary(&sb, result, len(matches))
	}

	return sb.String(), nil
}

// writeFindings renders findings grouped by file, in file order
func (f *Formatter) writeFindings(sb *strings.Builder, matches []detector.Match, options formatters.FormatterOptions) {
	byFile := make(map[string][]detector.Match)
	var files []string
	for _, m := range matches {
		if _, seen := byFile[m.Filename]; !seen {
			files = append(files, m.Filename)
		}
		byFile[m.Filename] = append(byFile[m.Filename], m)
	}
	sort.Strings(files)

	for _, file := range files {
		sb.WriteString(f.colors["white"].Sprint(file))
		sb.WriteString("\n")

		for _, m := range byFile[file] {
			level := shared.GetConfidenceLevel(m.Confidence)
			levelColored := f.colorForLevel(level).Sprintf("%-6s", level)

			sb.WriteString(fmt.Sprintf("  line %-5d %-12s %s (%.0f%%)  %s\n",
				m.LineNumber,
				m.Type,
				levelColored,
				m.Confidence,
				shared.DisplayText(&m, options),
			))

			if options.Verbose && m.Context.FullLine != "" {
				sb.WriteString(fmt.Sprintf("    context: %s\n", strings.TrimSpace(m.Context.FullLine)))
			}
		}
	}
}

// writeErrors renders the files that could not be scanned. Kept separate
// from findings so "no PII" is distinguishable from "could not scan".
func (f *Formatter) writeErrors(sb *strings.Builder, result *scanner.ScanResult) {
	sb.WriteString("\n")
	sb.WriteString(f.colors["yellow"].Sprint("Scan errors:"))
	sb.WriteString("\n")
	for _, fe := range result.Errors {
		sb.WriteString(fmt.Sprintf("  %s: %s: %v\n", fe.Path, fe.Stage, fe.Err))
	}
}

func (f *Formatter) writeSummary(sb *strings.Builder, result *scanner.ScanResult, findingCount int) {
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Scanned %d file(s), %d finding(s), %d file(s) failed, %d skipped\n",
		result.FilesScanned, findingCount, result.FilesFailed, result.FilesSkipped))
}

func (f *Formatter) colorForLevel(level string) *color.Color {
	switch level {
	case "HIGH":
		return f.colors["red"]
	case "MEDIUM":
		return f.colors["yellow"]
	default:
		return f.colors["green"]
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
