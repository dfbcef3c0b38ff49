// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"piiscan/internal/observability"
)

// PlainTextExtractor handles plain text files by passing their content through.
// This ensures text files are processed through the same pipeline as other
// file types.
type PlainTextExtractor struct {
	observer *observability.StandardObserver
}

// NewPlainTextExtractor creates a new plain text extractor
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// SetObserver sets the observability component
func (p *PlainTextExtractor) SetObserver(observer *observability.StandardObserver) {
	p.observer = observer
}

// Name returns the name of this extractor
func (p *PlainTextExtractor) Name() string {
	return "plaintext"
}

// SupportedExtensions returns the file extensions this extractor supports
func (p *PlainTextExtractor) SupportedExtensions() []string {
	return []string{
		// Plain text files
		".txt", ".text", ".log", ".md", ".markdown", ".rst",
		// Configuration files
		".yaml", ".yml", ".json", ".toml", ".ini", ".conf", ".config", ".cfg",
		// Source code files
		".py", ".js", ".ts", ".java", ".c", ".cpp", ".h", ".hpp", ".cs", ".go", ".rs", ".rb", ".php",
		".css", ".scss", ".sass", ".less",
		".sql", ".sh", ".bash", ".zsh", ".ps1", ".bat", ".cmd",
		// Data files
		".csv", ".tsv", ".jsonl", ".ndjson",
		// Other text formats
		".env", ".gitignore", ".dockerfile", ".makefile",
	}
}

// CanProcess checks if this extractor can handle the given file
func (p *PlainTextExtractor) CanProcess(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))

	for _, supported := range p.SupportedExtensions() {
		if ext == supported {
			return true
		}
	}

	// Files without an extension may still be text
	if ext == "" {
		basename := strings.ToLower(filepath.Base(filePath))
		knownNames := []string{
			"readme", "license", "changelog", "makefile", "dockerfile",
			"jenkinsfile", "vagrantfile", "gemfile", "rakefile",
		}
		for _, name := range knownNames {
			if basename == name {
				return true
			}
		}

		return p.isTextFile(filePath)
	}

	return false
}

// Extract reads the file content as UTF-8 text.
func (p *PlainTextExtractor) Extract(filePath string) (*Document, error) {
	var finishTiming func(bool, map[string]interface{})
	if p.observer != nil {
		finishTiming = p.observer.StartTiming("plaintext_extractor", "extract", filePath)
	}

	content, err := p.readTextFile(filePath)
	if err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		return &Document{
			OriginalPath:  filePath,
			Filename:      filepath.Base(filePath),
			ExtractorName: p.Name(),
			Success:       false,
			Error:         err,
		}, &ExtractionError{Path: filePath, Extractor: p.Name(), Err: err}
	}

	doc := &Document{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          content,
		Format:        "text",
		ExtractorName: p.Name(),
		Success:       true,
	}
	doc.fillCounts()

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"word_count": doc.WordCount,
			"line_count": doc.LineCount,
		})
	}

	return doc, nil
}

// readTextFile reads the content of a text file with proper encoding handling
func (p *PlainTextExtractor) readTextFile(filePath string) (string, error) {
	cleanPath := filepath.Clean(filePath)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to get file info: %w", err)
	}

	const maxSize = 100 * 1024 * 1024 // 100MB
	if fileInfo.Size() > maxSize {
		return "", fmt.Errorf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), maxSize)
	}

	fileContent, err := os.ReadFile(cleanPath) // #nosec G304 - path comes from the directory walk
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	content := string(fileContent)

	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "")
	}

	return content, nil
}

// isTextFile performs a quick check to determine if a file contains text
func (p *PlainTextExtractor) isTextFile(filePath string) bool {
	cleanPath := filepath.Clean(filePath)
	file, err := os.Open(cleanPath) // #nosec G304 - path comes from the directory walk
	if err != nil {
		return false
	}
	defer func() { _ = file.Close() }()

	// Read first 512 bytes to check for binary content
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && n == 0 {
		return false
	}

	buffer = buffer[:n]
	if len(buffer) == 0 {
		return false
	}

	// Null bytes indicate a binary file
	for _, b := range buffer {
		if b == 0 {
			return false
		}
	}

	printableCount := 0
	for _, b := range buffer {
		if (b >= 32 && b <= 126) || b == 9 || b == 10 || b == 13 {
			printableCount++
		}
	}

	printableRatio := float64(printableCount) / float64(len(buffer))
	return printableRatio > 0.95
}
