// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"piiscan/internal/observability"
)

// Document represents the plain text extracted from one file.
type Document struct {
	// Original file information
	OriginalPath string
	Filename     string

	// Extracted content
	Text string

	// Content metadata
	Format    string
	PageCount int
	WordCount int
	CharCount int
	LineCount int

	// Processing information
	ExtractorName string
	Success       bool
	Error         error
}

// fillCounts derives word, char, and line counts from the extracted text.
func (d *Document) fillCounts() {
	d.WordCount = len(strings.Fields(d.Text))
	d.CharCount = len(d.Text)
	if d.Text == "" {
		d.LineCount = 0
	} else {
		d.LineCount = strings.Count(d.Text, "\n") + 1
	}
}

// UnsupportedFormatError indicates no extractor can handle the file.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Path)
}

// ExtractionError indicates an extractor failed while processing a file.
// It is a per-file error: the scan records it and continues.
type ExtractionError struct {
	Path      string
	Extractor string
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s (%s): %v", e.Path, e.Extractor, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ServiceUnavailableError indicates the extraction service cannot be reached
// at all. It is fatal for service-backed scans.
type ServiceUnavailableError struct {
	Endpoint string
	Err      error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("extraction service unavailable at %s: %v", e.Endpoint, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Err
}

// Extractor interface defines methods for extracting text from files
type Extractor interface {
	// CanProcess checks if this extractor can handle the given file
	CanProcess(filePath string) bool

	// Extract obtains plain text from the file
	Extract(filePath string) (*Document, error)

	// Name returns the name of this extractor
	Name() string

	// SupportedExtensions returns the file extensions this extractor supports
	SupportedExtensions() []string

	// SetObserver sets the observability component
	SetObserver(observer *observability.StandardObserver)
}

// Manager routes files to the first registered extractor that can handle them.
type Manager struct {
	extractors []Extractor
}

// NewManager creates a new extractor manager
func NewManager() *Manager {
	return &Manager{
		extractors: make([]Extractor, 0),
	}
}

// Register adds an extractor. Registration order is priority order.
func (m *Manager) Register(e Extractor) {
	m.extractors = append(m.extractors, e)
}

// CanProcess reports whether any registered extractor handles the file.
func (m *Manager) CanProcess(filePath string) bool {
	for _, e := range m.extractors {
		if e.CanProcess(filePath) {
			return true
		}
	}
	return false
}

// Extract runs the file through the first capable extractor. When the
// preferred extractor fails, remaining capable extractors are tried in
// order before the failure is reported.
func (m *Manager) Extract(filePath string) (*Document, error) {
	var capable []Extractor
	for _, e := range m.extractors {
		if e.CanProcess(filePath) {
			capable = append(capable, e)
		}
	}

	if len(capable) == 0 {
		return nil, &UnsupportedFormatError{Path: filePath}
	}

	var lastErr error
	for _, e := range capable {
		doc, err := e.Extract(filePath)
		if err == nil && doc != nil && doc.Success {
			return doc, nil
		}
		if err != nil {
			lastErr = err
		} else if doc != nil && doc.Error != nil {
			lastErr = doc.Error
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no extractor produced content")
	}
	return &Document{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		ExtractorName: "failed",
		Success:       false,
		Error:         lastErr,
	}, &ExtractionError{Path: filePath, Extractor: capable[0].Name(), Err: lastErr}
}

// Extractors returns all registered extractors
func (m *Manager) Extractors() []Extractor {
	return m.extractors
}
