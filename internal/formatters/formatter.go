// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"strings"

	"piiscan/internal/scanner"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	MinConfidence float64 // Findings below this confidence are not displayed
	Verbose       bool    // Whether to display detailed information
	NoColor       bool    // Whether to disable colored output
	ShowMatch     bool    // Whether to display the raw matched text instead of the masked form
	Quiet         bool    // Whether to suppress summary output
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders a scan result according to the formatter's output format
	Format(result *scanner.ScanResult, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "csv")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names
func (r *Registry) List() []string {
	var names []string
	for name := range r.formatters {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Export renders a scan result in the named format
func Export(format string, result *scanner.ScanResult, options FormatterOptions) (string, error) {
	formatter, exists := Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s",
			format, strings.Join(List(), ", "))
	}
	return formatter.Format(result, options)
}
