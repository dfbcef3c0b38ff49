// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package walker

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestWalk_FlatDirectory(t *testing.T) {
	dir := t.TempDir()
	names := []string{"a.txt", "b.txt", "c.txt"}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("content"), 0600); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}
	}

	result, err := Walk(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Files) != len(names) {
		t.Fatalf("expected %d files, got %d", len(names), len(result.Files))
	}
	if !sort.StringsAreSorted(result.Files) {
		t.Error("expected files in lexical order")
	}
}

func TestWalk_RecursiveDescent(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "sub", "deeper")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	files := []string{
		filepath.Join(dir, "top.txt"),
		filepath.Join(dir, "sub", "mid.txt"),
		filepath.Join(nested, "leaf.txt"),
	}
	for _, f := range files {
		if err := os.WriteFile(f, []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}
	}

	result, err := Walk(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Files) != 3 {
		t.Errorf("expected 3 files across nested dirs, got %d", len(result.Files))
	}
	// Directories must not appear in the file list
	for _, f := range result.Files {
		info, err := os.Stat(f)
		if err != nil {
			t.Fatalf("stat %s: %v", f, err)
		}
		if info.IsDir() {
			t.Errorf("walker returned a directory: %s", f)
		}
	}
}

func TestWalk_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	result, err := Walk(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Files) != 0 {
		t.Errorf("expected 0 files, got %d", len(result.Files))
	}
	if len(result.Skipped) != 0 {
		t.Errorf("expected 0 skipped, got %d", len(result.Skipped))
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	var pathErr *PathNotFoundError
	if !errors.As(err, &pathErr) {
		t.Errorf("expected *PathNotFoundError, got %T", err)
	}
}

func TestWalk_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := Walk(file)
	var pathErr *PathNotFoundError
	if !errors.As(err, &pathErr) {
		t.Errorf("expected *PathNotFoundError for non-directory root, got %v", err)
	}
}

func TestWalk_RelativeRootWithParentSegment(t *testing.T) {
	base := t.TempDir()
	dataDir := filepath.Join(base, "data")
	workDir := filepath.Join(base, "work")
	for _, d := range []string{dataDir, workDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dataDir, "f.txt"), []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})

	result, err := Walk(filepath.Join("..", "data"))
	if err != nil {
		t.Fatalf("expected relative root with parent segment to walk, got %v", err)
	}
	if len(result.Files) != 1 {
		t.Errorf("expected 1 file, got %d", len(result.Files))
	}
}
