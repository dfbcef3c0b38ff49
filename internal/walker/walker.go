// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MaxFileSize is the maximum file size the scanner will process (100 MB).
const MaxFileSize = int64(100 * 1024 * 1024)

// PathNotFoundError indicates the scan root does not exist or is not accessible.
// It is fatal: the scan cannot start without a valid root.
type PathNotFoundError struct {
	Path string
	Err  error
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path does not exist or is not accessible: %s", e.Path)
}

func (e *PathNotFoundError) Unwrap() error {
	return e.Err
}

// SkippedFile records a file or subtree the walker could not include.
type SkippedFile struct {
	Path   string
	Reason string
}

// Result holds the outcome of a directory walk.
type Result struct {
	Files   []string
	Skipped []SkippedFile
}

// Walk enumerates regular files under root by recursive descent.
// Directories themselves are never returned. filepath.WalkDir visits
// entries in lexical order, so the file list is deterministic.
// Unreadable entries are recorded as skipped and the walk continues;
// only a missing or inaccessible root is fatal.
func Walk(root string) (*Result, error) {
	cleanRoot := filepath.Clean(root)
	info, err := os.Stat(cleanRoot)
	if err != nil {
		return nil, &PathNotFoundError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &PathNotFoundError{Path: root, Err: fmt.Errorf("not a directory")}
	}

	result := &Result{}
	err = filepath.WalkDir(cleanRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedFile{Path: path, Reason: err.Error()})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fi, statErr := d.Info()
		if statErr != nil {
			result.Skipped = append(result.Skipped, SkippedFile{Path: path, Reason: statErr.Error()})
			return nil
		}
		if fi.Size() > MaxFileSize {
			result.Skipped = append(result.Skipped, SkippedFile{
				Path:   path,
				Reason: fmt.Sprintf("file too large (max size: %dMB)", MaxFileSize/(1024*1024)),
			})
			return nil
		}

		result.Files = append(result.Files, path)
		return nil
	})
	if err != nil {
		// WalkDir only returns an error we surfaced ourselves; the root
		// stat above already ruled out a bad root.
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	return result, nil
}
