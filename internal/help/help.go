// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// CheckInfo contains standardized information about a check
type CheckInfo struct {
	Name                string             // Name of the check (e.g., "CREDIT_CARD")
	ShortDescription    string             // Short description for the checks list
	DetailedDescription string             // Detailed description of what the check does
	Patterns            []string           // Patterns the check looks for
	ConfidenceFactors   []ConfidenceFactor // Factors affecting confidence
	PositiveKeywords    []string           // Keywords that increase confidence
	NegativeKeywords    []string           // Keywords that decrease confidence
	Examples            []string           // Usage examples
}

// ConfidenceFactor represents a factor that affects confidence scoring
type ConfidenceFactor struct {
	Name        string  // Name of the factor
	Description string  // Description of the factor
	Weight      float64 // Weight of the factor in the confidence score (percentage)
}

// Provider defines the interface for help content providers
type Provider interface {
	GetCheckInfo() CheckInfo
}

// System manages help content for the application
type System struct {
	providers map[string]Provider
	colors    map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}

	return &System{
		providers: make(map[string]Provider),
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"positive": color.New(color.FgGreen),
			"negative": color.New(color.FgRed),
			"example":  color.New(color.FgMagenta),
		},
	}
}

// RegisterProvider adds a help provider to the system
func (h *System) RegisterProvider(provider Provider) {
	info := provider.GetCheckInfo()
	h.providers[strings.ToLower(info.Name)] = provider
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Println("piiscan - PII Directory Scanner")
	fmt.Println("===============================")
	fmt.Println()
	h.colors["header"].Println("USAGE:")
	fmt.Println("  piiscan [options] <directory>")
	fmt.Println()

	h.colors["header"].Println("OPTIONS:")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --format\t<format>\tOutput format: text, json, csv (default: text)")
	fmt.Fprintln(w, "  --checks\t<checks>\tSpecific checks to run: CREDIT_CARD,SSN,all (default: all)")
	fmt.Fprintln(w, "  --confidence\t<min>\tMinimum confidence to display, 0-100 (default: 0)")
	fmt.Fprintln(w, "  --output\t<path>\tWrite a JSON report to this file in addition to stdout output")
	fmt.Fprintln(w, "  --show-match\t\tDisplay the raw matched text (otherwise masked, last 4 digits visible)")
	fmt.Fprintln(w, "  --verbose\t\tDisplay detailed information for each finding")
	fmt.Fprintln(w, "  --debug\t\tEnable debug logging of extraction and validation flow")
	fmt.Fprintln(w, "  --quiet\t\tSuppress the summary line (useful for scripts and CI/CD)")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --extractor-url\t<url>\tDocument extraction service endpoint (default: http://localhost:9998)")
	fmt.Fprintln(w, "  --extractor-cmd\t<cmd>\tCommand to launch the extraction service; stopped when the scan ends")
	fmt.Fprintln(w, "  --no-service\t\tDisable the extraction service, use built-in extractors only")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help message")
	fmt.Fprintln(w, "  --help checks\t\tList all available checks")
	fmt.Fprintln(w, "  --help <check>\t\tShow detailed help for a specific check")
	w.Flush()

	fmt.Println()
	h.colors["header"].Println("EXAMPLES:")
	h.colors["example"].Println("  piiscan ./documents")
	h.colors["example"].Println("  piiscan --format json --output report.json ./documents")
	h.colors["example"].Println("  piiscan --checks SSN --confidence 60 ./hr-share")
	h.colors["example"].Println("  piiscan --no-service ./source-tree")

	fmt.Println()
	h.colors["header"].Println("CONFIGURATION:")
	fmt.Println("  Project config: piiscan.yaml or .piiscan.yaml (in current directory)")
	fmt.Println("  User config: ~/.config/piiscan/config.yaml")
}

// ShowChecksHelp displays information about all available checks
func (h *System) ShowChecksHelp() {
	h.colors["title"].Println("Available Checks")
	fmt.Println("================")
	fmt.Println()

	var checkNames []string
	for _, provider := range h.providers {
		checkNames = append(checkNames, provider.GetCheckInfo().Name)
	}
	sort.Strings(checkNames)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  CHECK\tDESCRIPTION")
	fmt.Fprintln(w, "  -----\t-----------")
	for _, checkName := range checkNames {
		provider := h.providers[strings.ToLower(checkName)]
		info := provider.GetCheckInfo()
		fmt.Fprintf(w, "  %s\t%s\n", info.Name, info.ShortDescription)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("Use --help <check> for detailed information about a specific check.")
}

// ShowCheckHelp displays detailed help for a specific check
func (h *System) ShowCheckHelp(name string) bool {
	provider, ok := h.providers[strings.ToLower(name)]
	if !ok {
		return false
	}

	info := provider.GetCheckInfo()

	h.colors["title"].Println(info.Name)
	fmt.Println(strings.Repeat("=", len(info.Name)))
	fmt.Println()
	fmt.Println(info.DetailedDescription)

	if len(info.Patterns) > 0 {
		fmt.Println()
		h.colors["header"].Println("PATTERNS:")
		for _, p := range info.Patterns {
			fmt.Printf("  - %s\n", p)
		}
	}

	if len(info.ConfidenceFactors) > 0 {
		fmt.Println()
		h.colors["header"].Println("CONFIDENCE FACTORS:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, factor := range info.ConfidenceFactors {
			fmt.Fprintf(w, "  %s\t%s\n", factor.Name, factor.Description)
		}
		w.Flush()
	}

	if len(info.PositiveKeywords) > 0 {
		fmt.Println()
		h.colors["positive"].Println("Keywords that increase confidence:")
		fmt.Printf("  %s\n", strings.Join(info.PositiveKeywords, ", "))
	}

	if len(info.NegativeKeywords) > 0 {
		fmt.Println()
		h.colors["negative"].Println("Keywords that decrease confidence:")
		fmt.Printf("  %s\n", strings.Join(info.NegativeKeywords, ", "))
	}

	if len(info.Examples) > 0 {
		fmt.Println()
		h.colors["header"].Println("EXAMPLES:")
		for _, example := range info.Examples {
			h.colors["example"].Printf("  %s\n", example)
		}
	}

	return true
}
