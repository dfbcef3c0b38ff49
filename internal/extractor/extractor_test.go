// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"piiscan/internal/observability"
)

// fakeExtractor is a configurable extractor for manager tests.
type fakeExtractor struct {
	name string
	exts []string
	text string
	fail error
}

func (f *fakeExtractor) CanProcess(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, e := range f.exts {
		if ext == e {
			return true
		}
	}
	return false
}

func (f *fakeExtractor) Extract(filePath string) (*Document, error) {
	if f.fail != nil {
		return &Document{
			OriginalPath:  filePath,
			ExtractorName: f.name,
			Success:       false,
			Error:         f.fail,
		}, &ExtractionError{Path: filePath, Extractor: f.name, Err: f.fail}
	}
	doc := &Document{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          f.text,
		ExtractorName: f.name,
		Success:       true,
	}
	doc.fillCounts()
	return doc, nil
}

func (f *fakeExtractor) Name() string                                          { return f.name }
func (f *fakeExtractor) SupportedExtensions() []string                         { return f.exts }
func (f *fakeExtractor) SetObserver(o *observability.StandardObserver)         {}

func TestManagerUnsupportedFormat(t *testing.T) {
	m := NewManager()
	m.Register(&fakeExtractor{name: "text", exts: []string{".txt"}})

	_, err := m.Extract("binary.exe")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}

	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Errorf("expected UnsupportedFormatError, got %T", err)
	}
}

func TestManagerFirstCapableWins(t *testing.T) {
	m := NewManager()
	m.Register(&fakeExtractor{name: "first", exts: []string{".txt"}, text: "from first"})
	m.Register(&fakeExtractor{name: "second", exts: []string{".txt"}, text: "from second"})

	doc, err := m.Extract("notes.txt")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if doc.ExtractorName != "first" {
		t.Errorf("ExtractorName = %q, want first", doc.ExtractorName)
	}
	if doc.Text != "from first" {
		t.Errorf("Text = %q, want from first", doc.Text)
	}
}

func TestManagerFallsBackOnFailure(t *testing.T) {
	m := NewManager()
	m.Register(&fakeExtractor{name: "first", exts: []string{".txt"}, fail: errors.New("boom")})
	m.Register(&fakeExtractor{name: "second", exts: []string{".txt"}, text: "from second"})

	doc, err := m.Extract("notes.txt")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if doc.ExtractorName != "second" {
		t.Errorf("ExtractorName = %q, want second", doc.ExtractorName)
	}
}

func TestManagerAllFail(t *testing.T) {
	m := NewManager()
	m.Register(&fakeExtractor{name: "only", exts: []string{".txt"}, fail: errors.New("boom")})

	doc, err := m.Extract("notes.txt")
	if err == nil {
		t.Fatal("expected error when all extractors fail")
	}

	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError, got %T", err)
	}
	if doc == nil || doc.Success {
		t.Error("expected unsuccessful document alongside the error")
	}
}

func TestManagerCanProcess(t *testing.T) {
	m := NewManager()
	m.Register(&fakeExtractor{name: "text", exts: []string{".txt", ".md"}})

	if !m.CanProcess("readme.md") {
		t.Error("expected .md to be processable")
	}
	if m.CanProcess("image.bmp") {
		t.Error("expected .bmp to be unsupported")
	}
}
