// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Defaults.Format != "text" {
		t.Errorf("Format = %q, want text", config.Defaults.Format)
	}
	if config.Defaults.Checks != "all" {
		t.Errorf("Checks = %q, want all", config.Defaults.Checks)
	}
	if config.Defaults.MinConfidence != 0 {
		t.Errorf("MinConfidence = %f, want 0", config.Defaults.MinConfidence)
	}
	if !config.Extractor.ServiceEnabled {
		t.Error("expected ServiceEnabled default true")
	}
	if config.Extractor.ServiceURL != "http://localhost:9998" {
		t.Errorf("ServiceURL = %q", config.Extractor.ServiceURL)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "piiscan.yaml")
	content := `defaults:
  format: json
  min_confidence: 40
  checks: SSN
extractor:
  service_url: http://localhost:9999
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Defaults.Format != "json" {
		t.Errorf("Format = %q, want json", config.Defaults.Format)
	}
	if config.Defaults.MinConfidence != 40 {
		t.Errorf("MinConfidence = %f, want 40", config.Defaults.MinConfidence)
	}
	if config.Defaults.Checks != "SSN" {
		t.Errorf("Checks = %q, want SSN", config.Defaults.Checks)
	}
	if config.Extractor.ServiceURL != "http://localhost:9999" {
		t.Errorf("ServiceURL = %q", config.Extractor.ServiceURL)
	}
	if !config.Extractor.ServiceEnabled {
		t.Error("ServiceEnabled should keep its default when absent from the file")
	}
}

func TestLoadConfigServiceDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "piiscan.yaml")
	content := `extractor:
  service_enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Extractor.ServiceEnabled {
		t.Error("expected ServiceEnabled false when explicitly disabled")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad format", "defaults:\n  format: xml\n"},
		{"confidence out of range", "defaults:\n  format: text\n  min_confidence: 150\n"},
		{"bad service url", "extractor:\n  service_url: localhost:9998\n"},
		{"malformed yaml", "defaults: [not a map\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadConfigOrDefaultFallsBack(t *testing.T) {
	config := LoadConfigOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if config == nil {
		t.Fatal("expected default config")
	}
	if config.Defaults.Format != "text" {
		t.Errorf("Format = %q, want text", config.Defaults.Format)
	}
}
