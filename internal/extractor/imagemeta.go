// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"piiscan/internal/observability"
)

// ImageMetaExtractor surfaces EXIF metadata from images as scannable text.
// Camera owner names, GPS coordinates, and embedded comments can all carry
// sensitive values.
type ImageMetaExtractor struct {
	observer *observability.StandardObserver
}

// NewImageMetaExtractor creates a new image metadata extractor
func NewImageMetaExtractor() *ImageMetaExtractor {
	return &ImageMetaExtractor{}
}

// SetObserver sets the observability component
func (ie *ImageMetaExtractor) SetObserver(observer *observability.StandardObserver) {
	ie.observer = observer
}

// Name returns the name of this extractor
func (ie *ImageMetaExtractor) Name() string {
	return "imagemeta"
}

// SupportedExtensions returns the file extensions this extractor supports
func (ie *ImageMetaExtractor) SupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".tif", ".tiff", ".png", ".heic"}
}

// CanProcess checks if this extractor can handle the given file
func (ie *ImageMetaExtractor) CanProcess(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, supported := range ie.SupportedExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// exifWalker implements the exif Walker interface to collect all tags
type exifWalker struct {
	tags map[string]string
}

func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag != nil {
		w.tags[string(name)] = tag.String()
	}
	return nil
}

// Extract decodes EXIF metadata and renders it as "Tag: Value" lines.
func (ie *ImageMetaExtractor) Extract(filePath string) (*Document, error) {
	var finishTiming func(bool, map[string]interface{})
	if ie.observer != nil {
		finishTiming = ie.observer.StartTiming("imagemeta_extractor", "extract", filePath)
	}

	tags, err := ie.extractTags(filePath)
	if err != nil {
		if finishTiming != nil {
			finishTiming(false, map[string]interface{}{"error": err.Error()})
		}
		return &Document{
			OriginalPath:  filePath,
			Filename:      filepath.Base(filePath),
			ExtractorName: ie.Name(),
			Success:       false,
			Error:         err,
		}, &ExtractionError{Path: filePath, Extractor: ie.Name(), Err: err}
	}

	// Render tags in alphabetical order so output is deterministic
	keys := make([]string, 0, len(tags))
	for name := range tags {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(tags[key])
		sb.WriteString("\n")
	}

	doc := &Document{
		OriginalPath:  filePath,
		Filename:      filepath.Base(filePath),
		Text:          sb.String(),
		Format:        "image",
		ExtractorName: ie.Name(),
		Success:       true,
	}
	doc.fillCounts()

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{"tag_count": len(keys)})
	}

	return doc, nil
}

func (ie *ImageMetaExtractor) extractTags(filePath string) (map[string]string, error) {
	f, err := os.Open(filePath) // #nosec G304 - path comes from the directory walk
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer func() { _ = f.Close() }()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("no EXIF data found: %w", err)
	}

	walker := &exifWalker{tags: make(map[string]string)}
	if err := x.Walk(walker); err != nil {
		return nil, fmt.Errorf("error reading EXIF tags: %w", err)
	}

	// Decimal GPS coordinates are easier to match than rational triples
	if lat, long, err := x.LatLong(); err == nil {
		walker.tags["GPSLatitudeDecimal"] = fmt.Sprintf("%.6f", lat)
		walker.tags["GPSLongitudeDecimal"] = fmt.Sprintf("%.6f", long)
	}

	return walker.tags, nil
}
