// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format        string  `yaml:"format"`
		MinConfidence float64 `yaml:"min_confidence"`
		Checks        string  `yaml:"checks"`
		Verbose       bool    `yaml:"verbose"`
		Debug         bool    `yaml:"debug"`
		NoColor       bool    `yaml:"no_color"`
		Quiet         bool    `yaml:"quiet"`
		ShowMatch     bool    `yaml:"show_match"`
	} `yaml:"defaults"`

	// Extraction service settings
	Extractor struct {
		ServiceEnabled bool     `yaml:"service_enabled"`
		ServiceURL     string   `yaml:"service_url"`
		ServiceCommand string   `yaml:"service_command"`
		ServiceArgs    []string `yaml:"service_args"`
	} `yaml:"extractor"`

	// Per-validator configuration
	Validators map[string]map[string]interface{} `yaml:"validators"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath) // #nosec G304 - path comes from user flags
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Store defaults that YAML unmarshaling would zero out when the
	// field is absent from the file
	defaultServiceEnabled := config.Extractor.ServiceEnabled

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if !containsField(data, "extractor", "service_enabled") {
		config.Extractor.ServiceEnabled = defaultServiceEnabled
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func defaultConfig() *Config {
	config := &Config{
		Validators: make(map[string]map[string]interface{}),
	}

	config.Defaults.Format = "text"
	config.Defaults.MinConfidence = 0
	config.Defaults.Checks = "all"

	config.Extractor.ServiceEnabled = true
	config.Extractor.ServiceURL = "http://localhost:9998"

	return config
}

// ValidateConfig checks that the loaded configuration is usable
func ValidateConfig(config *Config) error {
	switch config.Defaults.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("invalid format %q (must be text, json, or csv)", config.Defaults.Format)
	}

	if config.Defaults.MinConfidence < 0 || config.Defaults.MinConfidence > 100 {
		return fmt.Errorf("min_confidence %f out of range 0-100", config.Defaults.MinConfidence)
	}

	if config.Extractor.ServiceURL != "" &&
		!strings.HasPrefix(config.Extractor.ServiceURL, "http://") &&
		!strings.HasPrefix(config.Extractor.ServiceURL, "https://") {
		return fmt.Errorf("service_url %q must be an http or https URL", config.Extractor.ServiceURL)
	}

	return nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Project-local configs take precedence
	for _, name := range []string{"piiscan.yaml", "piiscan.yml", ".piiscan.yaml", ".piiscan.yml"} {
		if fileExists(name) {
			return name
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// XDG config directory
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		candidate := filepath.Join(xdgConfig, "piiscan", name)
		if fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

// LoadConfigOrDefault loads the given config file, or falls back to the
// built-in defaults when the file is missing or invalid.
func LoadConfigOrDefault(configFile string) *Config {
	if configFile == "" {
		configFile = FindConfigFile()
	}

	config, err := LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		return defaultConfig()
	}
	return config
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// containsField checks whether a YAML document explicitly sets a nested field
func containsField(data []byte, path ...string) bool {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false
	}

	current := doc
	for i, key := range path {
		value, ok := current[key]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := value.(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}
