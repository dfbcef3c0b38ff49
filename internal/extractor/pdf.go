// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"piiscan/internal/observability"
)

// maxPDFPages limits processing for very large PDFs.
const maxPDFPages = 50

// PDFExtractor extracts text from PDF files locally, without the
// extraction service. It validates the file with pdfcpu before parsing.
type PDFExtractor struct {
	observer  *observability.StandardObserver
	pdfConfig *model.Configuration
}

// NewPDFExtractor creates a new local PDF extractor
func NewPDFExtractor() *PDFExtractor {
	pdfConfig := model.NewDefaultConfiguration()
	pdfConfig.ValidationMode = model.ValidationRelaxed
	return &PDFExtractor{
		pdfConfig: pdfConfig,
	}
}

// SetObserver sets the observability component
func (pe *PDFExtractor) SetObserver(observer *observability.StandardObserver) {
	pe.observer = observer
}

// Name returns the name of this extractor
func (pe *PDFExtractor) Name() string {
	return "pdf"
}

// SupportedExtensions returns the file extensions this extractor supports
func (pe *PDFExtractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// CanProcess checks if this extractor can handle the given file
func (pe *PDFExtractor) CanProcess(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".pdf"
}

// Extract validates and parses the PDF, returning its text content.
func (pe *PDFExtractor) Extract(filePath string) (*Document, error) {
	var finishTiming func(bool, map[string]interface{})
	if pe.observer != nil {
		finishTiming = pe.observer.StartTiming("pdf_extractor", "extract", filePath)
	}

	text, pageCount, err := pe.extractText(filePath)
	if err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		return &Document{
			OriginalPath:  filePath,
			Filename:      filepath.Base(filePath),
			ExtractorName: pe.Name(),
			Success:       false,
			Error:         err,
		}, &ExtractionError{Path: filePath, Extractor: pe.Name(), Err: err}
	}

	doc := &Document{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          text,
		Format:        "pdf",
		PageCount:     pageCount,
		ExtractorName: pe.Name(),
		Success:       true,
	}
	doc.fillCounts()

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"page_count": pageCount,
			"word_count": doc.WordCount,
		})
	}

	return doc, nil
}

func (pe *PDFExtractor) extractText(filePath string) (string, int, error) {
	if err := api.ValidateFile(filePath, pe.pdfConfig); err != nil {
		return "", 0, fmt.Errorf("invalid PDF file: %w", err)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("error opening PDF: %w", err)
	}
	defer func() { _ = f.Close() }()

	pageCount := r.NumPage()
	processPages := pageCount
	if processPages > maxPDFPages {
		processPages = maxPDFPages
	}

	var buf bytes.Buffer
	for i := 1; i <= processPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}

		if strings.TrimSpace(text) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}

	return buf.String(), pageCount, nil
}
